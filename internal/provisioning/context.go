package provisioning

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/imamik/langflow-bootstrap/internal/config"
	"github.com/imamik/langflow-bootstrap/internal/envfile"
	"github.com/imamik/langflow-bootstrap/internal/platform/langflow"
)

// Options tune run behavior beyond the configuration file.
type Options struct {
	// StrictUploads makes any failed or skipped upload fail the run.
	StrictUploads bool
}

// Context wraps all dependencies and state needed for a provisioning phase.
type Context struct {
	context.Context
	Config   *config.Config
	State    *State
	Client   *langflow.Client
	Sink     envfile.Sink
	Observer Observer
	Metrics  *Metrics
	Options  Options

	// Stdout receives machine-readable output.
	Stdout io.Writer
}

// NewContext creates a new provisioning context.
func NewContext(
	ctx context.Context,
	cfg *config.Config,
	client *langflow.Client,
	sink envfile.Sink,
	observer Observer,
) *Context {
	return &Context{
		Context:  ctx,
		Config:   cfg,
		State:    NewState(),
		Client:   client,
		Sink:     sink,
		Observer: observer,
		Metrics:  NewMetrics(),
		Stdout:   os.Stdout,
	}
}

// Persist writes key=value to the env sink and records the key.
func (c *Context) Persist(key, value string) error {
	if err := c.Sink.Set(c, key, value); err != nil {
		return fmt.Errorf("failed to persist %s: %w", key, err)
	}
	c.State.Persisted = append(c.State.Persisted, key)
	c.Observer.Event(Event{
		Type:     EventEnvPersisted,
		Resource: key,
		Message:  "env entry written",
		Fields:   map[string]string{"value": Redact(value)},
	})
	return nil
}
