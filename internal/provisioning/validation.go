package provisioning

import (
	"fmt"
	"os"
	"strings"

	"github.com/imamik/langflow-bootstrap/internal/config"
	"github.com/imamik/langflow-bootstrap/internal/platform/s3"
)

// ValidationError represents a configuration validation error or warning.
type ValidationError struct {
	Field    string // Configuration field that failed validation
	Message  string // Human-readable error message
	Severity string // "error" or "warning"
}

// Error implements the error interface.
func (ve ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", ve.Severity, ve.Field, ve.Message)
}

// IsError returns true if this is an error (not a warning).
func (ve ValidationError) IsError() bool {
	return ve.Severity == "error"
}

// ValidationPhase implements the Phase interface for pre-flight checks of the
// local paths a run writes to or reads from. It runs before any network call.
type ValidationPhase struct {
	// FlowRoot is the flow root the run uploads, if any.
	FlowRoot string

	// Account enables checks of the public account credentials.
	Account bool
}

// NewValidationPhase creates a new validation phase.
func NewValidationPhase(flowRoot string, account bool) *ValidationPhase {
	return &ValidationPhase{FlowRoot: flowRoot, Account: account}
}

// Name implements the Phase interface.
func (vp *ValidationPhase) Name() string {
	return "validation"
}

// Provision implements the Phase interface.
func (vp *ValidationPhase) Provision(ctx *Context) error {
	ctx.Observer.Printf("[Validation] Running pre-flight validation...")

	allErrors := vp.validate(ctx.Config)

	// Separate errors and warnings
	var errors []ValidationError
	var warnings []ValidationError
	for _, ve := range allErrors {
		if ve.IsError() {
			errors = append(errors, ve)
		} else {
			warnings = append(warnings, ve)
		}
	}

	for _, warning := range warnings {
		ctx.Observer.Printf("[Validation] WARNING: %s", warning.Message)
	}

	if len(errors) > 0 {
		var errMsgs []string
		for _, e := range errors {
			errMsgs = append(errMsgs, e.Error())
		}
		return fmt.Errorf("pre-flight validation failed:\n  %s", strings.Join(errMsgs, "\n  "))
	}

	ctx.Observer.Printf("[Validation] Validation passed")
	return nil
}

// validate runs all validation checks and returns any errors or warnings.
func (vp *ValidationPhase) validate(cfg *config.Config) []ValidationError {
	var errs []ValidationError

	// --- Env file ---

	if info, err := os.Stat(cfg.EnvFile); err == nil && info.IsDir() {
		errs = append(errs, ValidationError{
			Field:    "EnvFile",
			Message:  fmt.Sprintf("%s is a directory", cfg.EnvFile),
			Severity: "error",
		})
	}

	// --- Flow root ---

	if vp.FlowRoot != "" && !s3.IsURI(vp.FlowRoot) {
		info, err := os.Stat(vp.FlowRoot)
		switch {
		case os.IsNotExist(err):
			errs = append(errs, ValidationError{
				Field:    "FlowRoot",
				Message:  fmt.Sprintf("flow root %s does not exist, no flows will be uploaded", vp.FlowRoot),
				Severity: "warning",
			})
		case err != nil:
			errs = append(errs, ValidationError{
				Field:    "FlowRoot",
				Message:  fmt.Sprintf("cannot access flow root: %v", err),
				Severity: "error",
			})
		case !info.IsDir():
			errs = append(errs, ValidationError{
				Field:    "FlowRoot",
				Message:  fmt.Sprintf("flow root %s is not a directory", vp.FlowRoot),
				Severity: "error",
			})
		}
	}

	// --- Account ---

	if vp.Account {
		if cfg.Account.Password == "" {
			errs = append(errs, ValidationError{
				Field:    "Account.Password",
				Message:  "account password is required",
				Severity: "error",
			})
		} else if cfg.Account.Password == config.DefaultAccountPassword || cfg.Account.Password == cfg.Account.Username {
			errs = append(errs, ValidationError{
				Field:    "Account.Password",
				Message:  fmt.Sprintf("account '%s' uses a guessable password, set LANGFLOW_PASSWORD", cfg.Account.Username),
				Severity: "warning",
			})
		}
	}

	return errs
}
