package wizard

import (
	"strings"

	"github.com/imamik/langflow-bootstrap/internal/config"
)

// BuildConfig converts wizard answers into a Config on top of the defaults.
func BuildConfig(result *WizardResult) *config.Config {
	cfg := config.Default()

	cfg.URL = strings.TrimRight(strings.TrimSpace(result.URL), "/")
	if result.LoginAttempts > 0 {
		cfg.Login.MaxAttempts = result.LoginAttempts
	}

	cfg.Account = config.Credentials{
		Username: strings.TrimSpace(result.AccountUsername),
		Password: result.AccountPassword,
	}

	cfg.PublicFlows = strings.TrimSpace(result.PublicFlows)
	cfg.ServiceFlows = strings.TrimSpace(result.ServiceFlows)
	cfg.EnvFile = strings.TrimSpace(result.EnvFile)

	if result.FlowSource == SourceS3 {
		cfg.S3.Endpoint = strings.TrimSpace(result.S3Endpoint)
		if r := strings.TrimSpace(result.S3Region); r != "" {
			cfg.S3.Region = r
		}
	}

	if result.MirrorSecret {
		cfg.Secret = config.SecretConfig{
			Namespace: result.SecretNamespace,
			Name:      result.SecretName,
		}
	}

	return cfg
}
