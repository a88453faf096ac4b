package bootstrap

import (
	"errors"
	"fmt"

	"github.com/imamik/langflow-bootstrap/internal/provisioning"
)

// Stdout markers parsed by the benchmark harness.
const (
	BenchmarkFlowIDMarker = "BENCHMARK_DATA:FLOW_ID="
	BenchmarkAPIKeyMarker = "BENCHMARK_DATA:API_KEY="
)

// BenchmarkEmitter prints the benchmark flow id and API key to stdout.
type BenchmarkEmitter struct{}

// NewBenchmarkEmitter creates the benchmark output phase.
func NewBenchmarkEmitter() *BenchmarkEmitter {
	return &BenchmarkEmitter{}
}

// Name implements the provisioning.Phase interface.
func (e *BenchmarkEmitter) Name() string {
	return "emit-benchmark-data"
}

// Provision implements the provisioning.Phase interface.
func (e *BenchmarkEmitter) Provision(ctx *provisioning.Context) error {
	if ctx.State.FlowID == "" || ctx.State.APIKey == "" {
		return errors.New("benchmark flow id or API key missing")
	}
	_, err := fmt.Fprintf(ctx.Stdout, "%s%s\n%s%s\n",
		BenchmarkFlowIDMarker, ctx.State.FlowID,
		BenchmarkAPIKeyMarker, ctx.State.APIKey)
	return err
}
