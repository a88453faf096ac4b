package wizard

import (
	"context"
	"fmt"

	"github.com/imamik/langflow-bootstrap/internal/config"
)

// WizardResult holds all the answers from the interactive wizard.
type WizardResult struct {
	// Server
	URL           string
	LoginAttempts int

	// Public account
	AccountUsername string
	AccountPassword string

	// Locations
	FlowSource   string // "local" or "s3"
	PublicFlows  string
	ServiceFlows string
	EnvFile      string

	// Object storage (only when FlowSource is "s3")
	S3Endpoint string
	S3Region   string

	// Secret mirror
	MirrorSecret    bool
	SecretNamespace string
	SecretName      string
}

// NewWizardResult returns a result pre-filled with the built-in defaults.
func NewWizardResult() *WizardResult {
	def := config.Default()
	return &WizardResult{
		URL:             def.URL,
		LoginAttempts:   def.Login.MaxAttempts,
		AccountUsername: def.Account.Username,
		AccountPassword: def.Account.Password,
		FlowSource:      SourceLocal,
		PublicFlows:     def.PublicFlows,
		ServiceFlows:    def.ServiceFlows,
		EnvFile:         def.EnvFile,
		S3Region:        def.S3.Region,
		SecretNamespace: "default",
		SecretName:      "langflow-bootstrap",
	}
}

// RunWizard runs the interactive configuration wizard.
// The context is used for cancellation support (e.g., Ctrl+C).
func RunWizard(ctx context.Context) (*WizardResult, error) {
	result := NewWizardResult()

	if err := runServerGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}

	if err := runAccountGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("account: %w", err)
	}

	if err := runFlowsGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("flows: %w", err)
	}

	if result.FlowSource == SourceS3 {
		if err := runS3Group(ctx, result); err != nil {
			return nil, fmt.Errorf("object storage: %w", err)
		}
	}

	if err := runSecretGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("secret: %w", err)
	}

	return result, nil
}
