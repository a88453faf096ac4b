package wizard

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"github.com/charmbracelet/huh"
)

// dnsNameRegex validates Kubernetes object and namespace names.
var dnsNameRegex = regexp.MustCompile(`^[a-z0-9]([-a-z0-9.]{0,251}[a-z0-9])?$`)

// runServerGroup prompts for the Langflow URL and login policy.
func runServerGroup(ctx context.Context, result *WizardResult) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Langflow URL").
				Description("Base URL of the Langflow server").
				Placeholder("http://localhost:7860").
				Value(&result.URL).
				Validate(validateURL),
			huh.NewSelect[int]().
				Title("Login Attempts").
				Description("Superuser login attempts while the server starts, 2s apart").
				Options(LoginAttemptOptions...).
				Value(&result.LoginAttempts),
		).Title("Langflow Server"),
	).RunWithContext(ctx)
}

// runAccountGroup prompts for the secondary account credentials.
func runAccountGroup(ctx context.Context, result *WizardResult) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Account Username").
				Description("Non-superuser account owning the public flows").
				Value(&result.AccountUsername).
				Validate(requireValue(errUsernameRequired)),
			huh.NewInput().
				Title("Account Password").
				EchoMode(huh.EchoModePassword).
				Value(&result.AccountPassword),
		).Title("Public Account"),
	).RunWithContext(ctx)
}

// runFlowsGroup prompts for the flow roots and the env file.
func runFlowsGroup(ctx context.Context, result *WizardResult) error {
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Flow Source").
				Options(FlowSourceOptions...).
				Value(&result.FlowSource),
		).Title("Flows"),
	).RunWithContext(ctx)
	if err != nil {
		return err
	}

	validateRoot := requireValue(errPathRequired)
	if result.FlowSource == SourceS3 {
		validateRoot = validateS3URI
		if !strings.HasPrefix(result.PublicFlows, "s3://") {
			result.PublicFlows = ""
			result.ServiceFlows = ""
		}
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Public Flows").
				Description("Uploaded as the public account").
				Value(&result.PublicFlows).
				Validate(validateRoot),
			huh.NewInput().
				Title("Service Flows").
				Description("Uploaded as the superuser").
				Value(&result.ServiceFlows).
				Validate(validateRoot),
			huh.NewInput().
				Title("Env File").
				Description("KEY=VALUE file receiving API keys and flow ids").
				Value(&result.EnvFile).
				Validate(requireValue(errPathRequired)),
		).Title("Locations"),
	).RunWithContext(ctx)
}

// runS3Group prompts for the object store endpoint.
func runS3Group(ctx context.Context, result *WizardResult) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("S3 Endpoint (Optional)").
				Description("Leave empty for AWS. Credentials come from the AWS environment.").
				Placeholder("http://minio:9000").
				Value(&result.S3Endpoint),
			huh.NewInput().
				Title("S3 Region").
				Value(&result.S3Region),
		).Title("Object Storage"),
	).RunWithContext(ctx)
}

// runSecretGroup prompts for the optional Kubernetes Secret mirror.
func runSecretGroup(ctx context.Context, result *WizardResult) error {
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Mirror env entries to a Kubernetes Secret?").
				Value(&result.MirrorSecret),
		).Title("Kubernetes"),
	).RunWithContext(ctx)
	if err != nil || !result.MirrorSecret {
		return err
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Namespace").
				Value(&result.SecretNamespace).
				Validate(validateDNSName),
			huh.NewInput().
				Title("Secret Name").
				Value(&result.SecretName).
				Validate(validateDNSName),
		).Title("Secret"),
	).RunWithContext(ctx)
}

func validateURL(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errURLRequired
	}
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errURLInvalid
	}
	return nil
}

func validateS3URI(s string) error {
	rest, ok := strings.CutPrefix(strings.TrimSpace(s), "s3://")
	if !ok || rest == "" || strings.HasPrefix(rest, "/") {
		return errS3URIInvalid
	}
	return nil
}

func validateDNSName(s string) error {
	if !dnsNameRegex.MatchString(s) {
		return errNameInvalid
	}
	return nil
}

func requireValue(errEmpty error) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errEmpty
		}
		return nil
	}
}
