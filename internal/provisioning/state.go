package provisioning

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/imamik/langflow-bootstrap/internal/platform/langflow"
)

// Stage is a step of the bootstrap state machine.
type Stage string

const (
	StageStart           Stage = "START"
	StageAuthenticated   Stage = "AUTHENTICATED"
	StageAccountReady    Stage = "ACCOUNT_READY"
	StageKeyMinted       Stage = "KEY_MINTED"
	StageContentUploaded Stage = "CONTENT_UPLOADED"
	StageIDsExtracted    Stage = "IDS_EXTRACTED"
	StageDone            Stage = "DONE"
	StageFailed          Stage = "FAILED"
)

// ErrInvalidTransition is returned when a stage change is not allowed.
var ErrInvalidTransition = errors.New("invalid stage transition")

// transitions lists the forward moves allowed from each stage. Every stage
// except DONE and FAILED may also move to FAILED.
var transitions = map[Stage][]Stage{
	StageStart:           {StageAuthenticated},
	StageAuthenticated:   {StageAccountReady, StageKeyMinted},
	StageAccountReady:    {StageKeyMinted},
	StageKeyMinted:       {StageContentUploaded},
	StageContentUploaded: {StageIDsExtracted, StageDone},
	StageIDsExtracted:    {StageDone},
}

// CanTransition reports whether from may move to to.
func CanTransition(from, to Stage) bool {
	if to == StageFailed {
		return from != StageFailed && from != StageDone
	}
	return slices.Contains(transitions[from], to)
}

// Transition records a stage change.
type Transition struct {
	From Stage
	To   Stage
	At   time.Time
}

// OutcomeStatus classifies the result of one upload item.
type OutcomeStatus string

const (
	OutcomeUploaded OutcomeStatus = "uploaded"
	OutcomeFailed   OutcomeStatus = "failed"
	OutcomeSkipped  OutcomeStatus = "skipped"
)

// UploadOutcome is the result of uploading one flow document.
type UploadOutcome struct {
	Path       string
	Project    string
	ProjectID  string
	Status     OutcomeStatus
	StatusCode int
	Body       string
	Err        error
}

// UploadResult collects the outcomes of a bulk upload.
type UploadResult struct {
	Root     string
	Missing  bool
	Outcomes []UploadOutcome
}

// Count returns the number of outcomes with status s.
func (r *UploadResult) Count(s OutcomeStatus) int {
	if r == nil {
		return 0
	}
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == s {
			n++
		}
	}
	return n
}

// Uploaded returns the outcomes that succeeded.
func (r *UploadResult) Uploaded() []UploadOutcome {
	return r.filter(OutcomeUploaded)
}

// Failed returns the outcomes that failed or were skipped.
func (r *UploadResult) Failed() []UploadOutcome {
	return append(r.filter(OutcomeFailed), r.filter(OutcomeSkipped)...)
}

func (r *UploadResult) filter(s OutcomeStatus) []UploadOutcome {
	if r == nil {
		return nil
	}
	var out []UploadOutcome
	for _, o := range r.Outcomes {
		if o.Status == s {
			out = append(out, o)
		}
	}
	return out
}

// ExtractedFlow is a tracked flow id written to the env sink.
type ExtractedFlow struct {
	Name   string
	EnvKey string
	ID     string
}

// Found reports whether the flow was present in the listing.
func (f ExtractedFlow) Found() bool {
	return f.ID != ""
}

// State holds the shared results of provisioning phases.
// It is progressively populated as each phase completes and is passed
// to subsequent phases that need earlier results.
type State struct {
	stage   Stage
	history []Transition

	// Access results
	Superuser    langflow.Credential
	Account      *langflow.User
	AccountLogin langflow.Credential
	APIKeyName   string
	APIKey       string
	Persisted    []string // env keys written, in order

	// Content results
	Uploads      *UploadResult
	FlowID       string // benchmark flow
	FlowName     string
	TrackedFlows []ExtractedFlow

	PhaseDurations map[string]time.Duration
}

// NewState creates a provisioning state at StageStart.
func NewState() *State {
	return &State{
		stage:          StageStart,
		PhaseDurations: make(map[string]time.Duration),
	}
}

// Stage returns the current stage.
func (s *State) Stage() Stage {
	return s.stage
}

// History returns the recorded stage transitions.
func (s *State) History() []Transition {
	return append([]Transition(nil), s.history...)
}

// Advance moves the state to stage to.
func (s *State) Advance(to Stage) error {
	if !CanTransition(s.stage, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.stage, to)
	}
	s.history = append(s.history, Transition{From: s.stage, To: to, At: time.Now()})
	s.stage = to
	return nil
}

// Fail moves the state to StageFailed. It is a no-op once the run is
// finished or already failed.
func (s *State) Fail() {
	_ = s.Advance(StageFailed)
}

// Principal names the identity a phase acts as.
type Principal string

const (
	PrincipalSuperuser Principal = "superuser"
	PrincipalAccount   Principal = "account"
	PrincipalAPIKey    Principal = "api-key"
)

// ErrNoSession is returned when the requested principal is not available yet.
var ErrNoSession = errors.New("no session for principal")

// SessionFor returns the session authorizing requests as p.
func (s *State) SessionFor(p Principal) (langflow.Session, error) {
	switch p {
	case PrincipalSuperuser:
		if s.Superuser.Authenticated() {
			return s.Superuser.Session(), nil
		}
	case PrincipalAccount:
		if s.AccountLogin.Authenticated() {
			return s.AccountLogin.Session(), nil
		}
	case PrincipalAPIKey:
		if s.APIKey != "" {
			return langflow.APIKeySession{Key: s.APIKey}, nil
		}
	default:
		return nil, fmt.Errorf("unknown principal %q", p)
	}
	return nil, fmt.Errorf("%w %s", ErrNoSession, p)
}
