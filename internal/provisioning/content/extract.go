package content

import (
	"fmt"

	"github.com/imamik/langflow-bootstrap/internal/config"
	"github.com/imamik/langflow-bootstrap/internal/platform/langflow"
	"github.com/imamik/langflow-bootstrap/internal/provisioning"
)

// ExtractFlowIDs resolves each tracked flow to the id of the last listed
// flow with exactly its name. Flows that are not listed keep an empty id.
func ExtractFlowIDs(flows []langflow.Flow, tracked []config.TrackedFlow) []provisioning.ExtractedFlow {
	byName := make(map[string]string, len(flows))
	for _, f := range flows {
		byName[f.Name] = f.ID
	}

	out := make([]provisioning.ExtractedFlow, 0, len(tracked))
	for _, t := range tracked {
		out = append(out, provisioning.ExtractedFlow{
			Name:   t.Name,
			EnvKey: t.EnvKey,
			ID:     byName[t.Name],
		})
	}
	return out
}

// FlowIDExporter lists the flows visible to a principal and persists the ids
// of the configured tracked flows.
type FlowIDExporter struct {
	As provisioning.Principal
}

// NewFlowIDExporter creates an export phase listing flows as principal.
func NewFlowIDExporter(as provisioning.Principal) *FlowIDExporter {
	return &FlowIDExporter{As: as}
}

// Name implements the provisioning.Phase interface.
func (p *FlowIDExporter) Name() string {
	return "export-flow-ids"
}

// Reaches implements provisioning.StageReacher.
func (p *FlowIDExporter) Reaches() provisioning.Stage {
	return provisioning.StageIDsExtracted
}

// Provision implements the provisioning.Phase interface.
// Missing flows are persisted with an empty value.
func (p *FlowIDExporter) Provision(ctx *provisioning.Context) error {
	sess, err := ctx.State.SessionFor(p.As)
	if err != nil {
		return err
	}

	flows, err := ctx.Client.ListFlows(ctx, sess)
	if err != nil {
		return fmt.Errorf("failed to list flows: %w", err)
	}
	ctx.Observer.Printf("[%s] Listed %d flows", phase, len(flows))

	extracted := ExtractFlowIDs(flows, ctx.Config.TrackedFlows)
	for _, f := range extracted {
		if !f.Found() {
			ctx.Observer.Printf("[%s] WARNING: flow '%s' not found, writing empty %s", phase, f.Name, f.EnvKey)
		}
		if err := ctx.Persist(f.EnvKey, f.ID); err != nil {
			return err
		}
	}
	ctx.State.TrackedFlows = extracted
	return nil
}
