package access

import (
	"github.com/imamik/langflow-bootstrap/internal/platform/langflow"
	"github.com/imamik/langflow-bootstrap/internal/provisioning"
)

const phase = "access"

// Authenticator logs in as the configured superuser.
type Authenticator struct {
	// Retrying applies the configured login retry policy. Without it a
	// single attempt is made.
	Retrying bool
}

// NewAuthenticator creates a superuser login phase.
func NewAuthenticator(retrying bool) *Authenticator {
	return &Authenticator{Retrying: retrying}
}

// Name implements the provisioning.Phase interface.
func (a *Authenticator) Name() string {
	return "authenticate"
}

// Reaches implements provisioning.StageReacher.
func (a *Authenticator) Reaches() provisioning.Stage {
	return provisioning.StageAuthenticated
}

// Provision implements the provisioning.Phase interface.
func (a *Authenticator) Provision(ctx *provisioning.Context) error {
	attempts := 1
	if a.Retrying {
		attempts = ctx.Config.Login.MaxAttempts
	}

	su := ctx.Config.Superuser
	cred, err := loginPolicy(ctx, attempts).Authenticate(ctx, langflow.Credential{
		Username: su.Username,
		Password: su.Password,
	})
	if err != nil {
		return err
	}

	ctx.State.Superuser = cred
	ctx.Observer.Printf("[%s] Authenticated as superuser '%s'", phase, su.Username)
	return nil
}

// loginPolicy builds an authenticator reporting through the run observer and metrics.
func loginPolicy(ctx *provisioning.Context, attempts int) *langflow.Authenticator {
	auth := langflow.NewAuthenticator(ctx.Client, ctx.Observer)
	auth.MaxAttempts = attempts
	auth.Delay = ctx.Config.Login.RetryDelay
	if ctx.Config.Login.Timeout > 0 {
		auth.AttemptTimeout = ctx.Config.Login.Timeout
	}
	auth.OnAttempt = func(username string, _ int, err error) {
		ctx.Metrics.RecordLoginAttempt(username, err)
	}
	return auth
}
