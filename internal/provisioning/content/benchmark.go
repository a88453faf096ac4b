package content

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/imamik/langflow-bootstrap/internal/provisioning"
)

//go:embed benchmark_flow.json
var benchmarkGraph []byte

// BenchmarkFlowPrefix prefixes the names of created benchmark flows.
const BenchmarkFlowPrefix = "BENCHMARK_FINAL_"

type flowPayload struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Data        json.RawMessage `json:"data"`
}

// BenchmarkFlow creates a two-node TextInput to TextOutput flow.
type BenchmarkFlow struct {
	// Now stamps the flow name; defaults to time.Now.
	Now func() time.Time
}

// NewBenchmarkFlow creates the benchmark flow phase.
func NewBenchmarkFlow() *BenchmarkFlow {
	return &BenchmarkFlow{Now: time.Now}
}

// Name implements the provisioning.Phase interface.
func (p *BenchmarkFlow) Name() string {
	return "create-benchmark-flow"
}

// Reaches implements provisioning.StageReacher.
func (p *BenchmarkFlow) Reaches() provisioning.Stage {
	return provisioning.StageContentUploaded
}

// Provision implements the provisioning.Phase interface.
func (p *BenchmarkFlow) Provision(ctx *provisioning.Context) error {
	sess, err := ctx.State.SessionFor(provisioning.PrincipalSuperuser)
	if err != nil {
		return err
	}

	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	name := fmt.Sprintf("%s%d", BenchmarkFlowPrefix, now().Unix())

	ctx.Observer.Printf("[%s] Creating benchmark flow '%s'...", phase, name)
	flow, err := ctx.Client.CreateFlow(ctx, sess, flowPayload{
		Name:        name,
		Description: "Final, working benchmark flow.",
		Data:        benchmarkGraph,
	})
	if err != nil {
		provisioning.LogResourceFailed(ctx.Observer, phase, "flow", name, err)
		return fmt.Errorf("failed to create benchmark flow: %w", err)
	}

	provisioning.LogResourceCreated(ctx.Observer, phase, "flow", name, flow.ID)
	ctx.State.FlowID = flow.ID
	ctx.State.FlowName = name
	return nil
}
