package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/imamik/langflow-bootstrap/internal/config"
	"github.com/imamik/langflow-bootstrap/internal/config/wizard"
)

// Factory function variables for init - can be replaced in tests.
var (
	// fileExists checks if a file exists.
	fileExists = wizard.FileExists

	// confirmOverwrite asks before replacing an existing file.
	confirmOverwrite = wizard.ConfirmOverwrite

	// runWizard runs the interactive wizard.
	runWizard = wizard.RunWizard

	// writeConfig writes the config to a file.
	writeConfig = wizard.WriteConfig
)

// errInitAborted is returned when the user declines to overwrite the output.
var errInitAborted = errors.New("init aborted: existing file kept")

// Init runs the configuration wizard and writes the result to outputPath.
func Init(ctx context.Context, outputPath string, force bool) error {
	if !force && fileExists(outputPath) {
		ok, err := confirmOverwrite(outputPath)
		if err != nil {
			return fmt.Errorf("failed to confirm overwrite: %w", err)
		}
		if !ok {
			return errInitAborted
		}
	}

	printWelcome()

	result, err := runWizard(ctx)
	if err != nil {
		return fmt.Errorf("wizard canceled: %w", err)
	}

	cfg := wizard.BuildConfig(result)

	if err := writeConfig(cfg, outputPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	printInitSuccess(outputPath, cfg)

	return nil
}

// printWelcome prints the welcome message.
func printWelcome() {
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "langflow-bootstrap - Langflow provisioning")
	fmt.Fprintln(stdout, "==========================================")
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "This wizard creates a bootstrap configuration with sensible defaults.")
	fmt.Fprintln(stdout)
}

// printInitSuccess prints the success message with summary and next steps.
func printInitSuccess(outputPath string, cfg *config.Config) {
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Configuration saved!")
	fmt.Fprintln(stdout)
	fmt.Fprintf(stdout, "  File: %s\n", outputPath)
	fmt.Fprintln(stdout)

	fmt.Fprintln(stdout, "Summary")
	fmt.Fprintln(stdout, "-------")
	fmt.Fprintf(stdout, "  Langflow:       %s\n", cfg.URL)
	fmt.Fprintf(stdout, "  Account:        %s\n", cfg.Account.Username)
	fmt.Fprintf(stdout, "  Public flows:   %s\n", cfg.PublicFlows)
	fmt.Fprintf(stdout, "  Service flows:  %s\n", cfg.ServiceFlows)
	fmt.Fprintf(stdout, "  Env file:       %s\n", cfg.EnvFile)
	if cfg.Secret.Enabled() {
		fmt.Fprintf(stdout, "  Secret mirror:  %s/%s\n", cfg.Secret.Namespace, cfg.Secret.Name)
	}
	fmt.Fprintln(stdout)

	fmt.Fprintln(stdout, "Next Steps")
	fmt.Fprintln(stdout, "----------")
	fmt.Fprintln(stdout, "  1. Export the superuser credentials:")
	fmt.Fprintln(stdout, "     export LANGFLOW_SUPERUSER=<name> LANGFLOW_SUPERUSER_PASSWORD=<password>")
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "  2. Provision:")
	fmt.Fprintf(stdout, "     langflow-bootstrap service-user -c %s\n", outputPath)
	fmt.Fprintf(stdout, "     langflow-bootstrap public-user -c %s\n", outputPath)
	fmt.Fprintln(stdout)
}
