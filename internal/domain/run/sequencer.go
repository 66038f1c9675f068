package run

import (
	"context"
	"time"

	"github.com/aidock-dev/aidock/internal/domain/seq"
	"github.com/aidock-dev/aidock/internal/ports"
)

// Sink is the append-only log destination owned by a run. Tagged lines
// record every observable action; Append receives captured command
// output verbatim so failures stay diagnosable after the fact.
type Sink interface {
	ports.Logger
	Append(raw string)
}

// Sequencer executes a Plan strictly in order, synchronously, on a
// single goroutine. Steps whose capability is already present are
// skipped; a fatal failure aborts the run immediately; a warn failure
// is recorded and the run continues. There is no retry policy and no
// rollback of already-applied steps.
type Sequencer struct {
	sink    Sink
	echo    ports.Logger
	timeout time.Duration
	dryRun  bool
}

// NewSequencer creates a Sequencer writing to the given sink.
func NewSequencer(sink Sink) *Sequencer {
	return &Sequencer{sink: sink}
}

// WithEcho returns a Sequencer that mirrors tagged lines to the given
// logger (typically the console) in addition to the sink.
func (s *Sequencer) WithEcho(logger ports.Logger) *Sequencer {
	c := *s
	c.echo = logger
	return &c
}

// WithTimeout returns a Sequencer that bounds each apply action with
// the given timeout. Zero disables the bound.
func (s *Sequencer) WithTimeout(timeout time.Duration) *Sequencer {
	c := *s
	c.timeout = timeout
	return &c
}

// WithDryRun returns a Sequencer that reports what would happen without
// applying anything.
func (s *Sequencer) WithDryRun(dryRun bool) *Sequencer {
	c := *s
	c.dryRun = dryRun
	return &c
}

// Run executes all plan entries in order until completion or the first
// fatal failure.
func (s *Sequencer) Run(ctx context.Context, plan *Plan) Result {
	results := make([]StepResult, 0, plan.Len())

	rc := seq.NewRunContext(ctx).
		WithDryRun(s.dryRun).
		WithTimeout(s.timeout).
		WithOutput(sinkWriter{s.sink})

	for _, entry := range plan.Entries() {
		step := entry.Step()
		id := step.ID()
		name := id.String()

		select {
		case <-ctx.Done():
			s.error(ctx, name+" aborted", ports.F("error", ctx.Err()))
			return Result{Status: StatusFailed, FailedStep: id, Steps: results, Err: ctx.Err()}
		default:
		}

		if !entry.Status().NeedsApply() {
			s.info(ctx, name+" already present")
			results = append(results, NewStepResult(id, OutcomeSkipped, nil))
			continue
		}

		if s.dryRun {
			s.info(ctx, name+" would apply")
			results = append(results, NewStepResult(id, OutcomeWouldApply, nil))
			continue
		}

		start := time.Now()
		err := s.applyStep(rc, step)
		duration := time.Since(start)

		if err != nil {
			if step.Policy() == seq.PolicyFatal {
				s.error(ctx, name+" failed", ports.F("error", err))
				results = append(results, NewStepResult(id, OutcomeFailed, err).WithDuration(duration))
				return Result{Status: StatusFailed, FailedStep: id, Steps: results, Err: err}
			}

			s.warn(ctx, name+" failed; continuing", ports.F("error", err))
			results = append(results, NewStepResult(id, OutcomeWarned, err).WithDuration(duration))
			continue
		}

		s.info(ctx, name+" complete")
		results = append(results, NewStepResult(id, OutcomeApplied, nil).WithDuration(duration))
	}

	return Result{Status: StatusSuccess, Steps: results}
}

// applyStep runs the apply action under the per-step timeout and then
// evaluates the post-condition if the step has one.
func (s *Sequencer) applyStep(rc seq.RunContext, step seq.Step) error {
	bounded, cancel := rc.ApplyContext()
	defer cancel()

	brc := seq.NewRunContext(bounded).
		WithDryRun(rc.DryRun()).
		WithOutput(rc.Output())

	if err := step.Apply(brc); err != nil {
		return err
	}

	if v := seq.AsVerifiable(step); v != nil {
		return v.Verify(brc)
	}

	return nil
}

func (s *Sequencer) info(ctx context.Context, msg string, fields ...ports.Field) {
	s.sink.Info(ctx, msg, fields...)
	if s.echo != nil {
		s.echo.Info(ctx, msg, fields...)
	}
}

func (s *Sequencer) warn(ctx context.Context, msg string, fields ...ports.Field) {
	s.sink.Warn(ctx, msg, fields...)
	if s.echo != nil {
		s.echo.Warn(ctx, msg, fields...)
	}
}

func (s *Sequencer) error(ctx context.Context, msg string, fields ...ports.Field) {
	s.sink.Error(ctx, msg, fields...)
	if s.echo != nil {
		s.echo.Error(ctx, msg, fields...)
	}
}

// sinkWriter adapts the sink's verbatim append to io.Writer so steps can
// stream captured command output through the RunContext.
type sinkWriter struct {
	sink Sink
}

func (w sinkWriter) Write(p []byte) (int, error) {
	w.sink.Append(string(p))
	return len(p), nil
}
