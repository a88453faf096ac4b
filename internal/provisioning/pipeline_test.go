package provisioning

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockPhase implements the Phase interface for testing.
type mockPhase struct {
	name    string
	reaches Stage
	err     error
}

func (m *mockPhase) Name() string               { return m.name }
func (m *mockPhase) Reaches() Stage             { return m.reaches }
func (m *mockPhase) Provision(_ *Context) error { return m.err }

func testContext() (*Context, *MockObserver) {
	observer := NewMockObserver()
	return &Context{
		Context:  context.Background(),
		State:    NewState(),
		Observer: observer,
		Metrics:  NewMetrics(),
	}, observer
}

func TestRunPhases_Success(t *testing.T) {
	t.Parallel()
	ctx, observer := testContext()

	var executed []string
	track := func(name string, reaches Stage) Phase {
		return NewPhase(name, reaches, func(_ *Context) error {
			executed = append(executed, name)
			return nil
		})
	}

	err := RunPhases(ctx, []Phase{
		track("authenticate", StageAuthenticated),
		track("mint-key", StageKeyMinted),
		track("persist-key", ""),
		track("upload-flows", StageContentUploaded),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"authenticate", "mint-key", "persist-key", "upload-flows"}, executed)
	assert.Equal(t, StageDone, ctx.State.Stage())
	assert.Len(t, ctx.State.PhaseDurations, 4)
	assert.Contains(t, observer.messages, "Provisioning completed in %v")

	history := ctx.State.History()
	require.Len(t, history, 4)
	assert.Equal(t, StageStart, history[0].From)
	assert.Equal(t, StageDone, history[3].To)
}

func TestRunPhases_FailureStopsAndFails(t *testing.T) {
	t.Parallel()
	ctx, observer := testContext()

	boom := errors.New("boom")
	ran := false
	err := RunPhases(ctx, []Phase{
		&mockPhase{name: "authenticate", err: boom},
		NewPhase("never", "", func(*Context) error { ran = true; return nil }),
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "authenticate phase failed")
	assert.False(t, ran)
	assert.Equal(t, StageFailed, ctx.State.Stage())

	require.NotEmpty(t, observer.events)
	assert.Equal(t, EventPhaseFailed, observer.events[len(observer.events)-1].Type)
	assert.Equal(t, 1, testutil.CollectAndCount(ctx.Metrics.phaseDuration))
}

func TestRunPhases_InvalidStageOrder(t *testing.T) {
	t.Parallel()
	ctx, _ := testContext()

	err := RunPhases(ctx, []Phase{
		&mockPhase{name: "mint-key", reaches: StageKeyMinted},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, StageFailed, ctx.State.Stage())
}

func TestRunPhases_EmptyIsInvalid(t *testing.T) {
	t.Parallel()
	ctx, _ := testContext()

	err := RunPhases(ctx, nil)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCanTransition(t *testing.T) {
	t.Parallel()
	tests := []struct {
		from, to Stage
		want     bool
	}{
		{StageStart, StageAuthenticated, true},
		{StageStart, StageKeyMinted, false},
		{StageAuthenticated, StageAccountReady, true},
		{StageAuthenticated, StageKeyMinted, true},
		{StageAccountReady, StageKeyMinted, true},
		{StageKeyMinted, StageContentUploaded, true},
		{StageContentUploaded, StageIDsExtracted, true},
		{StageContentUploaded, StageDone, true},
		{StageIDsExtracted, StageDone, true},
		{StageStart, StageFailed, true},
		{StageContentUploaded, StageFailed, true},
		{StageFailed, StageFailed, false},
		{StageFailed, StageStart, false},
		{StageFailed, StageAuthenticated, false},
		{StageDone, StageFailed, false},
		{StageDone, StageStart, false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s->%s", tt.from, tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestState_FailIsTerminal(t *testing.T) {
	t.Parallel()
	s := NewState()
	s.Fail()
	assert.Equal(t, StageFailed, s.Stage())

	err := s.Advance(StageAuthenticated)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	s.Fail()
	assert.Len(t, s.History(), 1)
}

func TestUploadResult(t *testing.T) {
	t.Parallel()
	r := &UploadResult{Outcomes: []UploadOutcome{
		{Path: "a.json", Status: OutcomeUploaded},
		{Path: "b.json", Status: OutcomeFailed},
		{Path: "p/c.json", Status: OutcomeSkipped},
		{Path: "d.json", Status: OutcomeUploaded},
	}}
	assert.Len(t, r.Uploaded(), 2)
	assert.Len(t, r.Failed(), 2)
	assert.Equal(t, 1, r.Count(OutcomeSkipped))

	var nilResult *UploadResult
	assert.Empty(t, nilResult.Uploaded())
	assert.Equal(t, 0, nilResult.Count(OutcomeFailed))
}
