package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment variables read by ApplyEnv.
const (
	EnvURL               = "LANGFLOW_URL"
	EnvSuperuser         = "LANGFLOW_SUPERUSER"
	EnvSuperuserPassword = "LANGFLOW_SUPERUSER_PASSWORD"
	EnvUsername          = "LANGFLOW_USERNAME"
	EnvPassword          = "LANGFLOW_PASSWORD"
	EnvEnvFile           = "LANGFLOW_ENV_FILE"
	EnvPublicFlows       = "LANGFLOW_PUBLIC_FLOWS"
	EnvServiceFlows      = "LANGFLOW_SERVICE_FLOWS"
	EnvLoginMaxAttempts  = "LANGFLOW_LOGIN_MAX_ATTEMPTS"
	EnvLoginRetryDelay   = "LANGFLOW_LOGIN_RETRY_DELAY"
	EnvLoginTimeout      = "LANGFLOW_LOGIN_TIMEOUT"
	EnvSecretNamespace   = "LANGFLOW_SECRET_NAMESPACE"
	EnvSecretName        = "LANGFLOW_SECRET_NAME"
	EnvS3Endpoint        = "LANGFLOW_S3_ENDPOINT"
	EnvS3Region          = "LANGFLOW_S3_REGION"
)

// ApplyEnv overrides fields of cfg with the LANGFLOW_* environment variables
// that are set. Unset or unparsable values leave the current value in place.
func ApplyEnv(cfg *Config) {
	cfg.URL = strings.TrimRight(parseString(EnvURL, cfg.URL), "/")

	cfg.Superuser.Username = os.Getenv(EnvSuperuser)
	cfg.Superuser.Password = os.Getenv(EnvSuperuserPassword)

	cfg.Account.Username = parseString(EnvUsername, cfg.Account.Username)
	cfg.Account.Password = parseString(EnvPassword, cfg.Account.Password)

	cfg.EnvFile = parseString(EnvEnvFile, cfg.EnvFile)
	cfg.PublicFlows = parseString(EnvPublicFlows, cfg.PublicFlows)
	cfg.ServiceFlows = parseString(EnvServiceFlows, cfg.ServiceFlows)

	cfg.Login.MaxAttempts = parseInt(EnvLoginMaxAttempts, cfg.Login.MaxAttempts)
	cfg.Login.RetryDelay = parseDuration(EnvLoginRetryDelay, cfg.Login.RetryDelay)
	cfg.Login.Timeout = parseDuration(EnvLoginTimeout, cfg.Login.Timeout)

	cfg.Secret.Namespace = parseString(EnvSecretNamespace, cfg.Secret.Namespace)
	cfg.Secret.Name = parseString(EnvSecretName, cfg.Secret.Name)

	cfg.S3.Endpoint = parseString(EnvS3Endpoint, cfg.S3.Endpoint)
	cfg.S3.Region = parseString(EnvS3Region, cfg.S3.Region)
}

// parseString returns the value of an environment variable or defaultVal if
// it is unset or empty.
func parseString(envVar, defaultVal string) string {
	if val := os.Getenv(envVar); val != "" {
		return val
	}
	return defaultVal
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}

	return d
}

// parseInt parses an integer from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return i
}
