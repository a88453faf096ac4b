// Package provisioningtest provides helpers for testing provisioning phases.
package provisioningtest

import (
	"bytes"
	"fmt"
	"maps"
	"strings"
	"sync"
	"testing"

	"github.com/imamik/langflow-bootstrap/internal/config"
	"github.com/imamik/langflow-bootstrap/internal/envfile"
	"github.com/imamik/langflow-bootstrap/internal/platform/langflow"
	"github.com/imamik/langflow-bootstrap/internal/provisioning"
)

// RecordingObserver records formatted messages and events.
// Observers derived with WithFields share the recording.
type RecordingObserver struct {
	rec    *recording
	fields map[string]string
}

type recording struct {
	mu       sync.Mutex
	messages []string
	events   []provisioning.Event
}

// NewRecordingObserver creates an empty RecordingObserver.
func NewRecordingObserver() *RecordingObserver {
	return &RecordingObserver{rec: &recording{}, fields: map[string]string{}}
}

// Printf implements provisioning.Observer.
func (o *RecordingObserver) Printf(format string, v ...any) {
	o.rec.mu.Lock()
	defer o.rec.mu.Unlock()
	o.rec.messages = append(o.rec.messages, fmt.Sprintf(format, v...))
}

// Event implements provisioning.Observer.
func (o *RecordingObserver) Event(event provisioning.Event) {
	if len(o.fields) > 0 {
		merged := maps.Clone(o.fields)
		maps.Copy(merged, event.Fields)
		event.Fields = merged
	}
	o.rec.mu.Lock()
	defer o.rec.mu.Unlock()
	o.rec.events = append(o.rec.events, event)
}

// Progress implements provisioning.Observer.
func (o *RecordingObserver) Progress(phase string, current, total int) {
	o.Event(provisioning.Event{
		Type:    provisioning.EventProgress,
		Phase:   phase,
		Message: "progress",
		Fields: map[string]string{
			"current": fmt.Sprint(current),
			"total":   fmt.Sprint(total),
		},
	})
}

// WithFields implements provisioning.Observer.
func (o *RecordingObserver) WithFields(fields map[string]string) provisioning.Observer {
	merged := maps.Clone(o.fields)
	maps.Copy(merged, fields)
	return &RecordingObserver{rec: o.rec, fields: merged}
}

// Messages returns the recorded Printf output.
func (o *RecordingObserver) Messages() []string {
	o.rec.mu.Lock()
	defer o.rec.mu.Unlock()
	return append([]string(nil), o.rec.messages...)
}

// Events returns the recorded events of type t, or all events when t is empty.
func (o *RecordingObserver) Events(t provisioning.EventType) []provisioning.Event {
	o.rec.mu.Lock()
	defer o.rec.mu.Unlock()
	var out []provisioning.Event
	for _, e := range o.rec.events {
		if t == "" || e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// HasMessage reports whether any message contains substr.
func (o *RecordingObserver) HasMessage(substr string) bool {
	for _, m := range o.Messages() {
		if strings.Contains(m, substr) {
			return true
		}
	}
	return false
}

// Transcript returns every recorded message and event, one per line.
func (o *RecordingObserver) Transcript() string {
	var b bytes.Buffer
	for _, m := range o.Messages() {
		b.WriteString(m)
		b.WriteByte('\n')
	}
	for _, e := range o.Events("") {
		fmt.Fprintf(&b, "%s %s %s %v\n", e.Type, e.Resource, e.Message, e.Fields)
	}
	return b.String()
}

// NewContext returns a provisioning context talking to cfg.URL with sink as
// env sink and a RecordingObserver. Stdout is captured in the returned buffer.
func NewContext(t testing.TB, cfg *config.Config, sink envfile.Sink) (*provisioning.Context, *RecordingObserver, *bytes.Buffer) {
	t.Helper()
	observer := NewRecordingObserver()
	ctx := provisioning.NewContext(t.Context(), cfg, langflow.NewClient(cfg.URL), sink, observer)
	stdout := &bytes.Buffer{}
	ctx.Stdout = stdout
	return ctx, observer, stdout
}
