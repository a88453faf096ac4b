package bootstrap

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/renameio/v2"
	"sigs.k8s.io/yaml"

	"github.com/imamik/langflow-bootstrap/internal/provisioning"
)

// Report summarizes a finished run. It never carries secrets.
type Report struct {
	RunID     string    `json:"runId"`
	Variant   Variant   `json:"variant"`
	URL       string    `json:"url"`
	Stage     string    `json:"stage"`
	StartedAt time.Time `json:"startedAt"`
	Duration  string    `json:"duration"`
	Error     string    `json:"error,omitempty"`

	Stages   []string          `json:"stages"`
	Phases   map[string]string `json:"phases,omitempty"`
	Account  string            `json:"account,omitempty"`
	APIKey   string            `json:"apiKeyName,omitempty"`
	EnvKeys  []string          `json:"envKeys,omitempty"`
	FlowID   string            `json:"flowId,omitempty"`
	FlowName string            `json:"flowName,omitempty"`
	Uploads  *UploadSummary    `json:"uploads,omitempty"`
	FlowIDs  []TrackedFlowID   `json:"trackedFlows,omitempty"`
}

// UploadSummary counts upload outcomes and lists the ones that did not succeed.
type UploadSummary struct {
	Root     string          `json:"root"`
	Missing  bool            `json:"missing,omitempty"`
	Uploaded int             `json:"uploaded"`
	Failed   int             `json:"failed"`
	Skipped  int             `json:"skipped"`
	Problems []UploadProblem `json:"problems,omitempty"`
}

// UploadProblem is a failed or skipped upload.
type UploadProblem struct {
	Path       string `json:"path"`
	Status     string `json:"status"`
	StatusCode int    `json:"statusCode,omitempty"`
	Error      string `json:"error,omitempty"`
}

// TrackedFlowID is an exported flow id.
type TrackedFlowID struct {
	Name   string `json:"name"`
	EnvKey string `json:"envKey"`
	ID     string `json:"id"`
}

// NewReport builds the report of a run that started at startedAt and
// finished with runErr.
func NewReport(ctx *provisioning.Context, runID string, v Variant, startedAt time.Time, runErr error) *Report {
	st := ctx.State
	r := &Report{
		RunID:     runID,
		Variant:   v,
		URL:       ctx.Client.BaseURL(),
		Stage:     string(st.Stage()),
		StartedAt: startedAt.UTC(),
		Duration:  time.Since(startedAt).Round(time.Millisecond).String(),
		APIKey:    st.APIKeyName,
		EnvKeys:   st.Persisted,
		FlowID:    st.FlowID,
		FlowName:  st.FlowName,
	}
	if runErr != nil {
		r.Error = runErr.Error()
	}

	r.Stages = []string{string(provisioning.StageStart)}
	for _, tr := range st.History() {
		r.Stages = append(r.Stages, string(tr.To))
	}

	if len(st.PhaseDurations) > 0 {
		r.Phases = make(map[string]string, len(st.PhaseDurations))
		for name, d := range st.PhaseDurations {
			r.Phases[name] = d.Round(time.Millisecond).String()
		}
	}

	if st.Account != nil {
		r.Account = st.Account.Username
	}

	if u := st.Uploads; u != nil {
		s := &UploadSummary{
			Root:     u.Root,
			Missing:  u.Missing,
			Uploaded: u.Count(provisioning.OutcomeUploaded),
			Failed:   u.Count(provisioning.OutcomeFailed),
			Skipped:  u.Count(provisioning.OutcomeSkipped),
		}
		for _, o := range u.Failed() {
			p := UploadProblem{Path: o.Path, Status: string(o.Status), StatusCode: o.StatusCode}
			if o.Err != nil {
				p.Error = o.Err.Error()
			}
			s.Problems = append(s.Problems, p)
		}
		r.Uploads = s
	}

	for _, f := range st.TrackedFlows {
		r.FlowIDs = append(r.FlowIDs, TrackedFlowID{Name: f.Name, EnvKey: f.EnvKey, ID: f.ID})
	}
	return r
}

// Marshal encodes the report as JSON for a .json path and YAML otherwise.
func (r *Report) Marshal(path string) ([]byte, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
	return yaml.Marshal(r)
}

// WriteFile atomically writes the report to path.
func (r *Report) WriteFile(path string) error {
	data, err := r.Marshal(path)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := renameio.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return nil
}
