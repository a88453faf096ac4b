package handlers

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/imamik/langflow-bootstrap/internal/config"
	"github.com/imamik/langflow-bootstrap/internal/config/wizard"
)

// saveAndRestoreInitFactories saves and restores init factory functions.
func saveAndRestoreInitFactories(t *testing.T) *bytes.Buffer {
	origFileExists := fileExists
	origConfirmOverwrite := confirmOverwrite
	origRunWizard := runWizard
	origWriteConfig := writeConfig
	origStdout := stdout

	t.Cleanup(func() {
		fileExists = origFileExists
		confirmOverwrite = origConfirmOverwrite
		runWizard = origRunWizard
		writeConfig = origWriteConfig
		stdout = origStdout
	})

	var out bytes.Buffer
	stdout = &out
	return &out
}

func testWizardResult() *wizard.WizardResult {
	result := wizard.NewWizardResult()
	result.URL = "http://langflow.internal:7860/"
	result.AccountUsername = "public"
	result.MirrorSecret = true
	result.SecretNamespace = "web"
	result.SecretName = "frontend-env"
	return result
}

func TestInit_WritesConfig(t *testing.T) {
	out := saveAndRestoreInitFactories(t)
	runWizard = func(context.Context) (*wizard.WizardResult, error) {
		return testWizardResult(), nil
	}

	path := filepath.Join(t.TempDir(), config.DefaultConfigFilename)
	require.NoError(t, Init(context.Background(), path, false))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var cfg config.Config
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	assert.Equal(t, "http://langflow.internal:7860", cfg.URL)
	assert.Equal(t, "public", cfg.Account.Username)
	assert.Equal(t, "frontend-env", cfg.Secret.Name)
	assert.NotContains(t, string(data), "superuser:")

	assert.Contains(t, out.String(), "Configuration saved!")
	assert.Contains(t, out.String(), "Secret mirror:  web/frontend-env")
	assert.Contains(t, out.String(), "langflow-bootstrap service-user -c "+path)
}

func TestInit_ExistingFileDeclined(t *testing.T) {
	saveAndRestoreInitFactories(t)
	fileExists = func(string) bool { return true }
	confirmOverwrite = func(string) (bool, error) { return false, nil }
	runWizard = func(context.Context) (*wizard.WizardResult, error) {
		t.Fatal("wizard must not run")
		return nil, nil
	}

	err := Init(context.Background(), "existing.yaml", false)

	assert.ErrorIs(t, err, errInitAborted)
}

func TestInit_ExistingFileConfirmed(t *testing.T) {
	saveAndRestoreInitFactories(t)
	fileExists = func(string) bool { return true }
	confirmOverwrite = func(string) (bool, error) { return true, nil }
	runWizard = func(context.Context) (*wizard.WizardResult, error) {
		return testWizardResult(), nil
	}
	var written string
	writeConfig = func(_ *config.Config, path string) error {
		written = path
		return nil
	}

	require.NoError(t, Init(context.Background(), "existing.yaml", false))
	assert.Equal(t, "existing.yaml", written)
}

func TestInit_ForceSkipsConfirmation(t *testing.T) {
	saveAndRestoreInitFactories(t)
	fileExists = func(string) bool { return true }
	confirmOverwrite = func(string) (bool, error) {
		t.Fatal("confirmation must be skipped")
		return false, nil
	}
	runWizard = func(context.Context) (*wizard.WizardResult, error) {
		return testWizardResult(), nil
	}
	writeConfig = func(*config.Config, string) error { return nil }

	require.NoError(t, Init(context.Background(), "existing.yaml", true))
}

func TestInit_Errors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func()
		wantErr string
	}{
		{
			name: "confirm error",
			setup: func() {
				fileExists = func(string) bool { return true }
				confirmOverwrite = func(string) (bool, error) { return false, errors.New("no tty") }
			},
			wantErr: "failed to confirm overwrite",
		},
		{
			name: "wizard canceled",
			setup: func() {
				fileExists = func(string) bool { return false }
				runWizard = func(context.Context) (*wizard.WizardResult, error) {
					return nil, errors.New("user aborted")
				}
			},
			wantErr: "wizard canceled",
		},
		{
			name: "write error",
			setup: func() {
				fileExists = func(string) bool { return false }
				runWizard = func(context.Context) (*wizard.WizardResult, error) {
					return testWizardResult(), nil
				}
				writeConfig = func(*config.Config, string) error { return errors.New("read-only") }
			},
			wantErr: "failed to write config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			saveAndRestoreInitFactories(t)
			tt.setup()

			err := Init(context.Background(), "out.yaml", false)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
