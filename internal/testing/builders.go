package testing

import (
	"slices"
	"time"

	"github.com/imamik/langflow-bootstrap/internal/config"
)

// ConfigBuilder provides a fluent interface for constructing test configs.
// Each method returns a new builder (immutable) for chaining.
type ConfigBuilder struct {
	cfg config.Config
}

// NewConfigBuilder creates a ConfigBuilder pointing at url with a superuser
// set and login retries that do not sleep.
func NewConfigBuilder(url string) *ConfigBuilder {
	cfg := config.Default()
	cfg.URL = url
	cfg.Superuser = config.Credentials{Username: "admin", Password: "admin-pass"}
	cfg.Login.RetryDelay = 0
	cfg.Login.Timeout = 2 * time.Second
	return &ConfigBuilder{cfg: *cfg}
}

// WithSuperuser sets the superuser credentials.
func (b *ConfigBuilder) WithSuperuser(username, password string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Superuser = config.Credentials{Username: username, Password: password}
	return newBuilder
}

// WithAccount sets the secondary account credentials.
func (b *ConfigBuilder) WithAccount(username, password string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Account = config.Credentials{Username: username, Password: password}
	return newBuilder
}

// WithEnvFile sets the env file path.
func (b *ConfigBuilder) WithEnvFile(path string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.EnvFile = path
	return newBuilder
}

// WithFlowRoots sets the public and service flow roots.
func (b *ConfigBuilder) WithFlowRoots(public, service string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.PublicFlows = public
	newBuilder.cfg.ServiceFlows = service
	return newBuilder
}

// WithLoginAttempts sets the retrying login bound.
func (b *ConfigBuilder) WithLoginAttempts(n int) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Login.MaxAttempts = n
	return newBuilder
}

// WithTrackedFlows replaces the tracked flows.
func (b *ConfigBuilder) WithTrackedFlows(flows ...config.TrackedFlow) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.TrackedFlows = flows
	return newBuilder
}

// Build returns the constructed config.
func (b *ConfigBuilder) Build() *config.Config {
	cfg := b.clone().cfg
	return &cfg
}

func (b *ConfigBuilder) clone() *ConfigBuilder {
	cfg := b.cfg
	cfg.TrackedFlows = slices.Clone(b.cfg.TrackedFlows)
	return &ConfigBuilder{cfg: cfg}
}
