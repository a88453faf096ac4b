package bootstrap

import (
	"fmt"
	"time"

	"github.com/imamik/langflow-bootstrap/internal/provisioning"
	"github.com/imamik/langflow-bootstrap/internal/provisioning/access"
	"github.com/imamik/langflow-bootstrap/internal/provisioning/content"
)

// Variant selects the sequence of phases a run executes.
type Variant string

const (
	// Benchmark creates a throwaway flow and key for load tests.
	Benchmark Variant = "benchmark"
	// PublicUser provisions the secondary account and its public flows.
	PublicUser Variant = "public-user"
	// ServiceUser provisions the superuser's service flows and exports their ids.
	ServiceUser Variant = "service-user"
)

// Env keys written by the variants.
const (
	PublicSecretKeyEnv  = "LANGFLOW_PUBLIC_SECRET_KEY"
	ServiceSecretKeyEnv = "LANGFLOW_SERVICE_SECRET_KEY"
)

// API key names minted by the variants.
const (
	PublicKeyName      = "public_flows_key"
	ServiceKeyName     = "secret_flows_key"
	benchmarkKeyPrefix = "benchmark-key-"
)

// Phases returns the phases of variant v for the configuration in ctx.
// now stamps benchmark resource names; nil means time.Now.
func Phases(ctx *provisioning.Context, v Variant, now func() time.Time) ([]provisioning.Phase, error) {
	if now == nil {
		now = time.Now
	}
	cfg := ctx.Config

	switch v {
	case Benchmark:
		// Key and flow share one timestamp.
		stamp := now()
		minter := &access.KeyMinter{
			KeyName: func(*provisioning.Context) string {
				return fmt.Sprintf("%s%d", benchmarkKeyPrefix, stamp.Unix())
			},
			As: provisioning.PrincipalSuperuser,
		}
		return []provisioning.Phase{
			access.NewAuthenticator(false),
			minter,
			&content.BenchmarkFlow{Now: func() time.Time { return stamp }},
			NewBenchmarkEmitter(),
		}, nil

	case PublicUser:
		return []provisioning.Phase{
			provisioning.NewValidationPhase(cfg.PublicFlows, true),
			access.NewAuthenticator(true),
			access.NewAccountProvisioner(),
			access.NewKeyMinter(PublicKeyName, provisioning.PrincipalAccount),
			access.NewKeyPersister(PublicSecretKeyEnv),
			content.NewFlowUploader(cfg.PublicFlows, provisioning.PrincipalAPIKey, cfg.ProjectDescription.Public),
		}, nil

	case ServiceUser:
		return []provisioning.Phase{
			provisioning.NewValidationPhase(cfg.ServiceFlows, false),
			access.NewAuthenticator(true),
			access.NewKeyMinter(ServiceKeyName, provisioning.PrincipalSuperuser),
			access.NewKeyPersister(ServiceSecretKeyEnv),
			content.NewFlowUploader(cfg.ServiceFlows, provisioning.PrincipalSuperuser, cfg.ProjectDescription.Service),
			content.NewFlowIDExporter(provisioning.PrincipalSuperuser),
		}, nil

	default:
		return nil, fmt.Errorf("unknown bootstrap variant %q", v)
	}
}

// Run executes variant v to completion.
func Run(ctx *provisioning.Context, v Variant) error {
	phases, err := Phases(ctx, v, nil)
	if err != nil {
		return err
	}
	ctx.Observer.Printf("Running %s bootstrap against %s", v, ctx.Client.BaseURL())
	return provisioning.RunPhases(ctx, phases)
}
