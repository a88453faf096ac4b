package wizard

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/imamik/langflow-bootstrap/internal/config"
)

func TestBuildConfig(t *testing.T) {
	result := NewWizardResult()
	result.URL = " http://langflow.svc:7860/ "
	result.LoginAttempts = 30
	result.AccountUsername = "public"
	result.AccountPassword = "s3cret"
	result.PublicFlows = "/flows/public"
	result.ServiceFlows = "/flows/service"
	result.EnvFile = "/shared/.env"

	cfg := BuildConfig(result)

	if cfg.URL != "http://langflow.svc:7860" {
		t.Errorf("URL = %q, want trimmed URL", cfg.URL)
	}
	if cfg.Login.MaxAttempts != 30 {
		t.Errorf("Login.MaxAttempts = %d, want 30", cfg.Login.MaxAttempts)
	}
	if cfg.Account.Username != "public" || cfg.Account.Password != "s3cret" {
		t.Errorf("Account = %+v", cfg.Account)
	}
	if cfg.PublicFlows != "/flows/public" || cfg.ServiceFlows != "/flows/service" {
		t.Errorf("flow roots = %q, %q", cfg.PublicFlows, cfg.ServiceFlows)
	}
	if cfg.EnvFile != "/shared/.env" {
		t.Errorf("EnvFile = %q", cfg.EnvFile)
	}
	if cfg.Secret.Enabled() {
		t.Error("Secret mirror should be disabled")
	}
	if cfg.S3.Endpoint != "" {
		t.Errorf("S3.Endpoint = %q, want empty for local source", cfg.S3.Endpoint)
	}
	if len(cfg.TrackedFlows) != len(config.DefaultTrackedFlows()) {
		t.Errorf("TrackedFlows = %d entries, want defaults", len(cfg.TrackedFlows))
	}
}

func TestBuildConfig_S3AndSecret(t *testing.T) {
	result := NewWizardResult()
	result.FlowSource = SourceS3
	result.PublicFlows = "s3://flows/public"
	result.ServiceFlows = "s3://flows/service"
	result.S3Endpoint = "http://minio:9000"
	result.S3Region = ""
	result.MirrorSecret = true
	result.SecretNamespace = "langflow"
	result.SecretName = "frontend-env"

	cfg := BuildConfig(result)

	if cfg.S3.Endpoint != "http://minio:9000" {
		t.Errorf("S3.Endpoint = %q", cfg.S3.Endpoint)
	}
	if cfg.S3.Region != config.DefaultS3Region {
		t.Errorf("S3.Region = %q, want default", cfg.S3.Region)
	}
	if !cfg.Secret.Enabled() || cfg.Secret.Namespace != "langflow" || cfg.Secret.Name != "frontend-env" {
		t.Errorf("Secret = %+v", cfg.Secret)
	}
}

func TestValidators(t *testing.T) {
	tests := []struct {
		name    string
		fn      func(string) error
		input   string
		wantErr bool
	}{
		{"url ok", validateURL, "http://localhost:7860", false},
		{"url https", validateURL, "https://langflow.example.com", false},
		{"url empty", validateURL, "  ", true},
		{"url no scheme", validateURL, "localhost:7860", true},
		{"url ftp", validateURL, "ftp://host", true},
		{"s3 ok", validateS3URI, "s3://bucket/prefix", false},
		{"s3 bucket only", validateS3URI, "s3://bucket", false},
		{"s3 missing scheme", validateS3URI, "bucket/prefix", true},
		{"s3 empty bucket", validateS3URI, "s3://", true},
		{"s3 leading slash", validateS3URI, "s3:///prefix", true},
		{"dns ok", validateDNSName, "langflow-env", false},
		{"dns upper", validateDNSName, "Langflow", true},
		{"dns empty", validateDNSName, "", true},
		{"required", requireValue(errPathRequired), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fn(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestWriteConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, config.DefaultConfigFilename)

	result := NewWizardResult()
	result.AccountUsername = "public"
	cfg := BuildConfig(result)
	cfg.Superuser = config.Credentials{Username: "admin", Password: "never-written"}

	if err := WriteConfig(cfg, path); err != nil {
		t.Fatalf("WriteConfig() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)

	if !strings.HasPrefix(content, "# langflow-bootstrap configuration") {
		t.Error("missing header")
	}
	if strings.Contains(content, "never-written") {
		t.Error("superuser password must not be written")
	}

	t.Setenv("LANGFLOW_SUPERUSER", "admin")
	t.Setenv("LANGFLOW_SUPERUSER_PASSWORD", "pw")
	loaded, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Account.Username != "public" {
		t.Errorf("Account.Username = %q, want public", loaded.Account.Username)
	}
	if loaded.Login.RetryDelay != config.DefaultLoginRetryDelay {
		t.Errorf("Login.RetryDelay = %v", loaded.Login.RetryDelay)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}
}

func TestConfirmOverwrite(t *testing.T) {
	orig := confirmOverwrite
	defer func() { confirmOverwrite = orig }()

	confirmOverwrite = func(string) (bool, error) { return true, nil }
	ok, err := ConfirmOverwrite("x")
	if err != nil || !ok {
		t.Errorf("ConfirmOverwrite() = %v, %v", ok, err)
	}

	path := filepath.Join(t.TempDir(), "f")
	if FileExists(path) {
		t.Error("FileExists() = true before write")
	}
	if err := os.WriteFile(path, nil, 0600); err != nil {
		t.Fatal(err)
	}
	if !FileExists(path) {
		t.Error("FileExists() = false after write")
	}
}
