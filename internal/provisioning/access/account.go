package access

import (
	"fmt"

	"github.com/imamik/langflow-bootstrap/internal/platform/langflow"
	"github.com/imamik/langflow-bootstrap/internal/provisioning"
)

// AccountProvisioner ensures the secondary account exists and is active,
// then logs in as it.
type AccountProvisioner struct{}

// NewAccountProvisioner creates a new account provisioner.
func NewAccountProvisioner() *AccountProvisioner {
	return &AccountProvisioner{}
}

// Name implements the provisioning.Phase interface.
func (p *AccountProvisioner) Name() string {
	return "ensure-account"
}

// Reaches implements provisioning.StageReacher.
func (p *AccountProvisioner) Reaches() provisioning.Stage {
	return provisioning.StageAccountReady
}

// Provision implements the provisioning.Phase interface.
func (p *AccountProvisioner) Provision(ctx *provisioning.Context) error {
	sess, err := ctx.State.SessionFor(provisioning.PrincipalSuperuser)
	if err != nil {
		return err
	}

	account := ctx.Config.Account
	ctx.Observer.Printf("[%s] Ensuring account '%s'...", phase, account.Username)

	res, err := ctx.Client.EnsureUser(ctx, sess, langflow.EnsureUserOptions{
		Username: account.Username,
		Password: account.Password,
	})
	ctx.Metrics.RecordReconcile("user", res.Created, err)
	if err != nil {
		provisioning.LogResourceFailed(ctx.Observer, phase, "user", account.Username, err)
		return fmt.Errorf("failed to ensure account '%s': %w", account.Username, err)
	}

	user := res.Resource
	if res.Created {
		provisioning.LogResourceCreated(ctx.Observer, phase, "user", user.Username, user.ID)
	} else {
		provisioning.LogResourceExists(ctx.Observer, phase, "user", user.Username, user.ID)
	}
	ctx.State.Account = &user

	cred, err := loginPolicy(ctx, 1).Authenticate(ctx, langflow.Credential{
		Username: account.Username,
		Password: account.Password,
	})
	if err != nil {
		return err
	}
	ctx.State.AccountLogin = cred
	return nil
}
