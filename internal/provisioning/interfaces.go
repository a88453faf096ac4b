package provisioning

// Phase defines the interface for a provisioning phase.
type Phase interface {
	// Name returns the human-readable name of this phase.
	Name() string

	// Provision executes the provisioning logic for this phase.
	Provision(ctx *Context) error
}

// StageReacher is implemented by phases that complete a stage of the run.
type StageReacher interface {
	Reaches() Stage
}

type funcPhase struct {
	name    string
	reaches Stage
	fn      func(*Context) error
}

func (p *funcPhase) Name() string                 { return p.name }
func (p *funcPhase) Reaches() Stage               { return p.reaches }
func (p *funcPhase) Provision(ctx *Context) error { return p.fn(ctx) }

// NewPhase adapts fn to a Phase. An empty reaches leaves the stage unchanged.
func NewPhase(name string, reaches Stage, fn func(*Context) error) Phase {
	return &funcPhase{name: name, reaches: reaches, fn: fn}
}
