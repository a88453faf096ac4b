package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// ErrMissingSuperuser is returned when the superuser credentials are not set.
var ErrMissingSuperuser = errors.New("LANGFLOW_SUPERUSER or LANGFLOW_SUPERUSER_PASSWORD not set")

// Defaults used when neither the config file nor the environment set a value.
const (
	DefaultURL             = "http://localhost:7860"
	DefaultAccountUsername = "langflow"
	DefaultAccountPassword = "langflow"
	DefaultEnvFile         = "/app/tmp/.env.nextjs-langflow"
	DefaultPublicFlows     = "/app/init/public_flows"
	DefaultServiceFlows    = "/app/init/service_flows"
	DefaultS3Region        = "us-east-1"

	DefaultLoginMaxAttempts = 15
	DefaultLoginRetryDelay  = 2 * time.Second
	DefaultLoginTimeout     = 5 * time.Second

	DefaultPublicProjectDescription  = "Public project created via script"
	DefaultServiceProjectDescription = "Created via script"
)

// Credentials is a username/password pair.
type Credentials struct {
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
}

// LoginConfig controls the retrying superuser login.
type LoginConfig struct {
	MaxAttempts int           `yaml:"max_attempts,omitempty"`
	RetryDelay  time.Duration `yaml:"retry_delay,omitempty"`
	Timeout     time.Duration `yaml:"timeout,omitempty"`
}

// TrackedFlow maps a flow display name to the env key receiving its id.
type TrackedFlow struct {
	Name   string `yaml:"name"`
	EnvKey string `yaml:"env_key"`
}

// SecretConfig names a Kubernetes Secret mirroring the env file.
// The mirror is disabled when Name is empty.
type SecretConfig struct {
	Namespace string `yaml:"namespace,omitempty"`
	Name      string `yaml:"name,omitempty"`
}

// Enabled reports whether a Secret mirror is configured.
func (s SecretConfig) Enabled() bool {
	return s.Name != ""
}

// S3Config configures access to s3:// flow roots.
type S3Config struct {
	Endpoint string `yaml:"endpoint,omitempty"`
	Region   string `yaml:"region,omitempty"`
}

// ProjectDescriptions holds the description given to created projects.
type ProjectDescriptions struct {
	Public  string `yaml:"public,omitempty"`
	Service string `yaml:"service,omitempty"`
}

// Config is the complete configuration of a bootstrap run.
type Config struct {
	URL string `yaml:"url,omitempty"`

	// Superuser is populated from the environment only.
	Superuser Credentials `yaml:"-"`
	Account   Credentials `yaml:"account,omitempty"`

	EnvFile      string `yaml:"env_file,omitempty"`
	PublicFlows  string `yaml:"public_flows,omitempty"`
	ServiceFlows string `yaml:"service_flows,omitempty"`

	Login              LoginConfig         `yaml:"login,omitempty"`
	TrackedFlows       []TrackedFlow       `yaml:"tracked_flows,omitempty"`
	Secret             SecretConfig        `yaml:"secret,omitempty"`
	S3                 S3Config            `yaml:"s3,omitempty"`
	ProjectDescription ProjectDescriptions `yaml:"project_description,omitempty"`
}

// DefaultTrackedFlows returns the flows whose ids the service bootstrap exports.
func DefaultTrackedFlows() []TrackedFlow {
	return []TrackedFlow{
		{Name: "Demo Chatbot", EnvKey: "NEXT_PUBLIC_CHATBOT_FLOW_ID"},
		{Name: "Email Categorization", EnvKey: "NEXT_PUBLIC_EMAIL_CATEGORIZE_FLOW_ID"},
		{Name: "Email Auto Response Generation", EnvKey: "NEXT_PUBLIC_EMAIL_REPLY_FLOW_ID"},
		{Name: "UI Embedding", EnvKey: "NEXT_PUBLIC_VECTOR_DB_FLOW_ID"},
	}
}

// Default returns a Config populated with built-in defaults.
func Default() *Config {
	return &Config{
		URL: DefaultURL,
		Account: Credentials{
			Username: DefaultAccountUsername,
			Password: DefaultAccountPassword,
		},
		EnvFile:      DefaultEnvFile,
		PublicFlows:  DefaultPublicFlows,
		ServiceFlows: DefaultServiceFlows,
		Login: LoginConfig{
			MaxAttempts: DefaultLoginMaxAttempts,
			RetryDelay:  DefaultLoginRetryDelay,
			Timeout:     DefaultLoginTimeout,
		},
		TrackedFlows: DefaultTrackedFlows(),
		S3:           S3Config{Region: DefaultS3Region},
		ProjectDescription: ProjectDescriptions{
			Public:  DefaultPublicProjectDescription,
			Service: DefaultServiceProjectDescription,
		},
	}
}

// Validate checks that the configuration can drive a bootstrap run.
func (c *Config) Validate() error {
	if c.Superuser.Username == "" || c.Superuser.Password == "" {
		return ErrMissingSuperuser
	}

	u, err := url.Parse(c.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid Langflow URL %q", c.URL)
	}

	if c.Account.Username == "" {
		return errors.New("account username must not be empty")
	}

	if c.Login.MaxAttempts < 1 {
		return fmt.Errorf("login max_attempts must be at least 1, got %d", c.Login.MaxAttempts)
	}

	seen := make(map[string]bool, len(c.TrackedFlows))
	for i, tf := range c.TrackedFlows {
		if tf.Name == "" || tf.EnvKey == "" {
			return fmt.Errorf("tracked_flows[%d]: name and env_key are required", i)
		}
		if strings.ContainsAny(tf.EnvKey, "= \t\n") {
			return fmt.Errorf("tracked_flows[%d]: invalid env key %q", i, tf.EnvKey)
		}
		if seen[tf.EnvKey] {
			return fmt.Errorf("tracked_flows[%d]: duplicate env key %q", i, tf.EnvKey)
		}
		seen[tf.EnvKey] = true
	}

	if c.Secret.Enabled() && c.Secret.Namespace == "" {
		return errors.New("secret namespace is required when a secret name is set")
	}

	return nil
}
