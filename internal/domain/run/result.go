package run

import (
	"time"

	"github.com/aidock-dev/aidock/internal/domain/seq"
)

// Outcome describes what the sequencer did with one step.
type Outcome string

const (
	// OutcomeApplied means the apply action ran and succeeded.
	OutcomeApplied Outcome = "applied"
	// OutcomeSkipped means the capability was already present.
	OutcomeSkipped Outcome = "already-present"
	// OutcomeWarned means the step failed under a warn policy.
	OutcomeWarned Outcome = "warned"
	// OutcomeFailed means the step failed under a fatal policy.
	OutcomeFailed Outcome = "failed"
	// OutcomeWouldApply means a dry run decided the step needs applying.
	OutcomeWouldApply Outcome = "would-apply"
)

// StepResult captures the outcome of executing a single step.
type StepResult struct {
	stepID   seq.StepID
	outcome  Outcome
	err      error
	duration time.Duration
}

// NewStepResult creates a new StepResult.
func NewStepResult(stepID seq.StepID, outcome Outcome, err error) StepResult {
	return StepResult{stepID: stepID, outcome: outcome, err: err}
}

// StepID returns the ID of the step that was executed.
func (r StepResult) StepID() seq.StepID {
	return r.stepID
}

// Outcome returns what the sequencer did with the step.
func (r StepResult) Outcome() Outcome {
	return r.outcome
}

// Error returns any error that occurred during execution.
func (r StepResult) Error() error {
	return r.err
}

// Duration returns how long the step took to execute.
func (r StepResult) Duration() time.Duration {
	return r.duration
}

// WithDuration returns a new StepResult with duration set.
func (r StepResult) WithDuration(d time.Duration) StepResult {
	r.duration = d
	return r
}

// Status is the terminal status of a run.
type Status string

const (
	// StatusSuccess means every step was skipped, applied, or warned.
	StatusSuccess Status = "success"
	// StatusFailed means a fatal step failed and the run was aborted.
	StatusFailed Status = "failed"
)

// Result is the terminal state of one provisioning run. On a fatal
// failure FailedStep names the capability the run stopped at; steps
// after it never executed and have no StepResult.
type Result struct {
	Status     Status
	FailedStep seq.StepID
	Steps      []StepResult
	Err        error
}

// Success returns true if the run completed without a fatal failure.
func (r Result) Success() bool {
	return r.Status == StatusSuccess
}
