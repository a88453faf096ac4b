package access

import (
	"fmt"

	"github.com/imamik/langflow-bootstrap/internal/provisioning"
)

// KeyMinter creates a fresh API key on behalf of a principal.
// Keys are never looked up; every run mints a new one.
type KeyMinter struct {
	// KeyName returns the name of the key to mint.
	KeyName func(ctx *provisioning.Context) string
	As      provisioning.Principal
}

// NewKeyMinter mints a key with a fixed name as principal.
func NewKeyMinter(name string, as provisioning.Principal) *KeyMinter {
	return &KeyMinter{
		KeyName: func(*provisioning.Context) string { return name },
		As:      as,
	}
}

// Name implements the provisioning.Phase interface.
func (m *KeyMinter) Name() string {
	return "mint-key"
}

// Reaches implements provisioning.StageReacher.
func (m *KeyMinter) Reaches() provisioning.Stage {
	return provisioning.StageKeyMinted
}

// Provision implements the provisioning.Phase interface.
func (m *KeyMinter) Provision(ctx *provisioning.Context) error {
	sess, err := ctx.State.SessionFor(m.As)
	if err != nil {
		return err
	}

	name := m.KeyName(ctx)
	key, err := ctx.Client.CreateAPIKey(ctx, sess, name)
	if err != nil {
		provisioning.LogResourceFailed(ctx.Observer, phase, "api key", name, err)
		return fmt.Errorf("failed to create API key '%s': %w", name, err)
	}

	ctx.State.APIKeyName = name
	ctx.State.APIKey = key
	ctx.Observer.Printf("[%s] Created API key '%s' (%s) as %s", phase, name, provisioning.Redact(key), m.As)
	return nil
}

// KeyPersister writes the minted API key to the env sink under EnvKey.
type KeyPersister struct {
	EnvKey string
}

// NewKeyPersister creates a phase persisting the API key under envKey.
func NewKeyPersister(envKey string) *KeyPersister {
	return &KeyPersister{EnvKey: envKey}
}

// Name implements the provisioning.Phase interface.
func (p *KeyPersister) Name() string {
	return "persist-key"
}

// Provision implements the provisioning.Phase interface.
func (p *KeyPersister) Provision(ctx *provisioning.Context) error {
	if ctx.State.APIKey == "" {
		return fmt.Errorf("no API key minted for %s", p.EnvKey)
	}
	if err := ctx.Persist(p.EnvKey, ctx.State.APIKey); err != nil {
		return err
	}
	ctx.Observer.Printf("[%s] Saved %s", phase, p.EnvKey)
	return nil
}
