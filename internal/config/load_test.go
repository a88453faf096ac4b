package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnvVars(t *testing.T) {
	t.Helper()
	for _, v := range []string{
		EnvURL, EnvSuperuser, EnvSuperuserPassword, EnvUsername, EnvPassword,
		EnvEnvFile, EnvPublicFlows, EnvServiceFlows, EnvLoginMaxAttempts,
		EnvLoginRetryDelay, EnvLoginTimeout, EnvSecretNamespace, EnvSecretName,
		EnvS3Endpoint, EnvS3Region,
	} {
		t.Setenv(v, "")
	}
}

func TestLoad_RequiresSuperuser(t *testing.T) {
	clearEnvVars(t)

	_, err := Load("")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingSuperuser)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnvVars(t)
	t.Setenv(EnvSuperuser, "admin")
	t.Setenv(EnvSuperuserPassword, "secret")
	t.Setenv(EnvURL, "http://langflow:7860/")
	t.Setenv(EnvUsername, "public")
	t.Setenv(EnvLoginMaxAttempts, "3")
	t.Setenv(EnvLoginRetryDelay, "250ms")
	t.Setenv(EnvLoginTimeout, "not-a-duration")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://langflow:7860", cfg.URL, "trailing slash is trimmed")
	assert.Equal(t, "admin", cfg.Superuser.Username)
	assert.Equal(t, "public", cfg.Account.Username)
	assert.Equal(t, "langflow", cfg.Account.Password)
	assert.Equal(t, 3, cfg.Login.MaxAttempts)
	assert.Equal(t, 250*time.Millisecond, cfg.Login.RetryDelay)
	assert.Equal(t, DefaultLoginTimeout, cfg.Login.Timeout, "invalid duration falls back")
}

func TestLoad_File(t *testing.T) {
	clearEnvVars(t)
	t.Setenv(EnvSuperuser, "admin")
	t.Setenv(EnvSuperuserPassword, "secret")
	t.Setenv(EnvServiceFlows, "/env/service")

	path := filepath.Join(t.TempDir(), DefaultConfigFilename)
	content := `
url: http://file:7860
env_file: /tmp/frontend.env
public_flows: s3://flows/public
service_flows: /file/service
login:
  max_attempts: 4
  retry_delay: 1s
tracked_flows:
  - name: Demo Chatbot
    env_key: CHATBOT_ID
secret:
  namespace: apps
  name: langflow-env
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://file:7860", cfg.URL)
	assert.Equal(t, "/tmp/frontend.env", cfg.EnvFile)
	assert.Equal(t, "s3://flows/public", cfg.PublicFlows)
	assert.Equal(t, "/env/service", cfg.ServiceFlows, "environment wins over file")
	assert.Equal(t, 4, cfg.Login.MaxAttempts)
	assert.Equal(t, time.Second, cfg.Login.RetryDelay)
	assert.Equal(t, DefaultLoginTimeout, cfg.Login.Timeout, "unset file key keeps default")
	assert.Equal(t, []TrackedFlow{{Name: "Demo Chatbot", EnvKey: "CHATBOT_ID"}}, cfg.TrackedFlows)
	assert.True(t, cfg.Secret.Enabled())
}

func TestLoad_FileWithoutTrackedFlowsKeepsDefaults(t *testing.T) {
	cfg := Default()
	require.NoError(t, mergeBytes(cfg, []byte("url: http://x:1\n")))
	assert.Equal(t, DefaultTrackedFlows(), cfg.TrackedFlows)
}

func TestLoad_InvalidFile(t *testing.T) {
	clearEnvVars(t)
	t.Setenv(EnvSuperuser, "admin")
	t.Setenv(EnvSuperuserPassword, "secret")

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("login: [unclosed"), 0600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnvVars(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestSaveFile_RoundTrip(t *testing.T) {
	clearEnvVars(t)
	t.Setenv(EnvSuperuser, "admin")
	t.Setenv(EnvSuperuserPassword, "secret")

	cfg := Default()
	cfg.EnvFile = "/data/.env"
	cfg.Superuser = Credentials{Username: "should-not", Password: "be-written"}

	path := filepath.Join(t.TempDir(), DefaultConfigFilename)
	require.NoError(t, SaveFile(cfg, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "be-written")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/.env", loaded.EnvFile)
	assert.Equal(t, "admin", loaded.Superuser.Username)
}
