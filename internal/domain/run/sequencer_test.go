package run_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidock-dev/aidock/internal/domain/run"
	"github.com/aidock-dev/aidock/internal/domain/seq"
	"github.com/aidock-dev/aidock/internal/ports"
)

// fakeStep is a scriptable step for sequencer tests.
type fakeStep struct {
	id        seq.StepID
	policy    seq.FailurePolicy
	present   bool
	applyErr  error
	verifyErr error
	hasVerify bool
	applied   *int
}

func newFakeStep(id string) *fakeStep {
	return &fakeStep{
		id:      seq.MustNewStepID(id),
		policy:  seq.PolicyFatal,
		applied: new(int),
	}
}

func (f *fakeStep) withPolicy(p seq.FailurePolicy) *fakeStep { f.policy = p; return f }
func (f *fakeStep) withPresent() *fakeStep                   { f.present = true; return f }
func (f *fakeStep) withApplyErr(err error) *fakeStep         { f.applyErr = err; return f }
func (f *fakeStep) withVerifyErr(err error) *fakeStep {
	f.hasVerify = true
	f.verifyErr = err
	return f
}

func (f *fakeStep) ID() seq.StepID { return f.id }

func (f *fakeStep) Check(_ seq.RunContext) (seq.StepStatus, error) {
	if f.present {
		return seq.StatusSatisfied, nil
	}
	return seq.StatusNeedsApply, nil
}

func (f *fakeStep) Apply(_ seq.RunContext) error {
	*f.applied++
	if f.applyErr == nil {
		// Applying establishes the capability for subsequent checks.
		f.present = true
	}
	return f.applyErr
}

func (f *fakeStep) Policy() seq.FailurePolicy { return f.policy }

func (f *fakeStep) Explain() seq.Explanation {
	return seq.NewExplanation(f.id.String(), "")
}

// verifiableFakeStep adds the post-condition to fakeStep.
type verifiableFakeStep struct{ *fakeStep }

func (f verifiableFakeStep) Verify(_ seq.RunContext) error { return f.verifyErr }

func asStep(f *fakeStep) seq.Step {
	if f.hasVerify {
		return verifiableFakeStep{f}
	}
	return f
}

// memSink collects tagged lines and raw output in memory.
type memSink struct {
	mu    sync.Mutex
	lines []string
	raw   strings.Builder
	level ports.Level
}

func newMemSink() *memSink { return &memSink{} }

func (s *memSink) add(level ports.Level, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, level.String()+" "+msg)
}

func (s *memSink) Debug(_ context.Context, msg string, _ ...ports.Field) { s.add(ports.LevelDebug, msg) }
func (s *memSink) Info(_ context.Context, msg string, _ ...ports.Field)  { s.add(ports.LevelInfo, msg) }
func (s *memSink) Warn(_ context.Context, msg string, _ ...ports.Field)  { s.add(ports.LevelWarn, msg) }
func (s *memSink) Error(_ context.Context, msg string, _ ...ports.Field) { s.add(ports.LevelError, msg) }
func (s *memSink) With(_ ...ports.Field) ports.Logger                    { return s }
func (s *memSink) Level() ports.Level                                    { return s.level }
func (s *memSink) SetLevel(level ports.Level)                            { s.level = level }

func (s *memSink) Append(raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.raw.WriteString(raw)
}

func (s *memSink) joined() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return strings.Join(s.lines, "\n")
}

func planFor(t *testing.T, steps ...seq.Step) *run.Plan {
	t.Helper()
	plan, err := run.NewPlanner().Plan(context.Background(), steps)
	require.NoError(t, err)
	return plan
}

func TestSequencer_AppliesInOrder(t *testing.T) {
	t.Parallel()

	a := newFakeStep("apt:update")
	b := newFakeStep("docker:engine")

	sink := newMemSink()
	plan := planFor(t, asStep(a), asStep(b))

	result := run.NewSequencer(sink).Run(context.Background(), plan)

	require.True(t, result.Success())
	require.Len(t, result.Steps, 2)
	assert.Equal(t, run.OutcomeApplied, result.Steps[0].Outcome())
	assert.Equal(t, run.OutcomeApplied, result.Steps[1].Outcome())
	assert.Equal(t, "apt:update", result.Steps[0].StepID().String())
	assert.Equal(t, "docker:engine", result.Steps[1].StepID().String())
	assert.Contains(t, sink.joined(), "INFO apt:update complete")
	assert.Contains(t, sink.joined(), "INFO docker:engine complete")
}

func TestSequencer_SkipsPresentCapabilities(t *testing.T) {
	t.Parallel()

	step := newFakeStep("docker:engine").withPresent()
	sink := newMemSink()

	result := run.NewSequencer(sink).Run(context.Background(), planFor(t, asStep(step)))

	require.True(t, result.Success())
	assert.Equal(t, run.OutcomeSkipped, result.Steps[0].Outcome())
	assert.Zero(t, *step.applied)
	assert.Contains(t, sink.joined(), "INFO docker:engine already present")
}

func TestSequencer_Idempotence_SecondRunOnlySkips(t *testing.T) {
	t.Parallel()

	steps := []seq.Step{
		asStep(newFakeStep("apt:update")),
		asStep(newFakeStep("docker:engine")),
		asStep(newFakeStep("webui:service")),
	}

	first := run.NewSequencer(newMemSink()).Run(context.Background(), planFor(t, steps...))
	require.True(t, first.Success())

	sink := newMemSink()
	second := run.NewSequencer(sink).Run(context.Background(), planFor(t, steps...))

	require.True(t, second.Success())
	for _, sr := range second.Steps {
		assert.Equal(t, run.OutcomeSkipped, sr.Outcome(), "step %s", sr.StepID())
	}
	for _, line := range sink.lines {
		assert.Contains(t, line, "already present")
	}
}

func TestSequencer_FailFast(t *testing.T) {
	t.Parallel()

	boom := errors.New("apt-get update failed")
	failing := newFakeStep("apt:update").withApplyErr(boom)
	never := newFakeStep("docker:engine")
	sink := newMemSink()

	plan := planFor(t, asStep(failing), asStep(never))
	result := run.NewSequencer(sink).Run(context.Background(), plan)

	require.False(t, result.Success())
	assert.Equal(t, run.StatusFailed, result.Status)
	assert.Equal(t, "apt:update", result.FailedStep.String())
	assert.ErrorIs(t, result.Err, boom)

	// Steps after the fatal failure never execute and have no result.
	require.Len(t, result.Steps, 1)
	assert.Zero(t, *never.applied)
	assert.Contains(t, sink.joined(), "ERROR apt:update failed")
}

func TestSequencer_WarnContinues(t *testing.T) {
	t.Parallel()

	warned := newFakeStep("docker:group").
		withPolicy(seq.PolicyWarn).
		withApplyErr(errors.New("usermod failed"))
	next := newFakeStep("runner:install")
	sink := newMemSink()

	plan := planFor(t, asStep(warned), asStep(next))
	result := run.NewSequencer(sink).Run(context.Background(), plan)

	require.True(t, result.Success(), "warn failures must not fail the run")
	require.Len(t, result.Steps, 2)
	assert.Equal(t, run.OutcomeWarned, result.Steps[0].Outcome())
	assert.Equal(t, run.OutcomeApplied, result.Steps[1].Outcome())
	assert.Equal(t, 1, *next.applied)
	assert.Contains(t, sink.joined(), "WARN docker:group failed; continuing")
}

func TestSequencer_VerifyFailureIsStepFailure(t *testing.T) {
	t.Parallel()

	step := newFakeStep("webui:service").withVerifyErr(errors.New("port 3000 not reachable"))
	sink := newMemSink()

	result := run.NewSequencer(sink).Run(context.Background(), planFor(t, asStep(step)))

	require.False(t, result.Success())
	assert.Equal(t, "webui:service", result.FailedStep.String())
	assert.Equal(t, 1, *step.applied)
}

func TestSequencer_DryRun(t *testing.T) {
	t.Parallel()

	step := newFakeStep("apt:update")
	sink := newMemSink()

	seqr := run.NewSequencer(sink).WithDryRun(true)
	result := seqr.Run(context.Background(), planFor(t, asStep(step)))

	require.True(t, result.Success())
	assert.Equal(t, run.OutcomeWouldApply, result.Steps[0].Outcome())
	assert.Zero(t, *step.applied)
}

func TestSequencer_ContextCancelledAborts(t *testing.T) {
	t.Parallel()

	step := newFakeStep("apt:update")
	plan := planFor(t, asStep(step))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := run.NewSequencer(newMemSink()).Run(ctx, plan)

	require.False(t, result.Success())
	assert.ErrorIs(t, result.Err, context.Canceled)
	assert.Zero(t, *step.applied)
}

func TestPlanner_DuplicateStepID(t *testing.T) {
	t.Parallel()

	_, err := run.NewPlanner().Plan(context.Background(), []seq.Step{
		asStep(newFakeStep("apt:update")),
		asStep(newFakeStep("apt:update")),
	})

	assert.ErrorContains(t, err, "duplicate step ID")
}

func TestPlanner_CheckErrorBecomesUnknown(t *testing.T) {
	t.Parallel()

	step := &checkErrStep{fakeStep: newFakeStep("runner:install")}
	plan, err := run.NewPlanner().Plan(context.Background(), []seq.Step{step})
	require.NoError(t, err)

	require.Equal(t, 1, plan.Len())
	assert.Equal(t, seq.StatusUnknown, plan.Entries()[0].Status())
	assert.True(t, plan.HasChanges())
}

type checkErrStep struct{ *fakeStep }

func (s *checkErrStep) Check(_ seq.RunContext) (seq.StepStatus, error) {
	return seq.StatusUnknown, errors.New("dpkg-query unavailable")
}

func TestPlan_Summary(t *testing.T) {
	t.Parallel()

	plan := planFor(t,
		asStep(newFakeStep("apt:update").withPresent()),
		asStep(newFakeStep("docker:engine")),
	)

	s := plan.Summary()
	assert.Equal(t, 2, s.Total)
	assert.Equal(t, 1, s.Satisfied)
	assert.Equal(t, 1, s.NeedsApply)
	assert.Equal(t, 0, s.Unknown)
	assert.True(t, plan.HasChanges())
}

func TestRecord(t *testing.T) {
	t.Parallel()

	rec := run.NewRecord("/tmp/run-20240601-093000.log")
	assert.NotZero(t, rec.ID)
	assert.False(t, rec.StartedAt.IsZero())
	assert.Equal(t, "/tmp/run-20240601-093000.log", rec.LogPath)
}
