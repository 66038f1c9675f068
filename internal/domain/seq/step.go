// Package seq defines the step model for the provisioning sequence:
// an ordered list of idempotent units of work, each with a presence
// check, an apply action, an optional post-condition, and a failure
// policy that decides whether its failure aborts the run.
package seq

// Step represents one idempotent unit of the provisioning sequence.
// A step establishes an externally observable capability: Check reports
// whether the capability is already satisfied, Apply establishes it.
type Step interface {
	// ID returns the unique identifier for this step.
	ID() StepID

	// Check evaluates the presence predicate for the step's capability.
	// Returns StatusSatisfied if no action is needed, StatusNeedsApply
	// if the capability is missing.
	Check(ctx RunContext) (StepStatus, error)

	// Apply establishes the capability. Must be safe to run when the
	// capability is partially present; the sequencer only calls it when
	// Check did not report StatusSatisfied.
	Apply(ctx RunContext) error

	// Policy classifies the step's failures as fatal or warn.
	Policy() FailurePolicy

	// Explain returns human-readable context for this step.
	Explain() Explanation
}

// VerifiableStep extends Step with an explicit post-condition. The
// sequencer evaluates Verify immediately after a successful Apply; a
// Verify failure is treated exactly like an Apply failure.
type VerifiableStep interface {
	Step

	// Verify confirms the capability is satisfied after Apply.
	Verify(ctx RunContext) error
}

// AsVerifiable attempts to cast a step to VerifiableStep.
// Returns nil if the step has no post-condition.
func AsVerifiable(step Step) VerifiableStep {
	if v, ok := step.(VerifiableStep); ok {
		return v
	}
	return nil
}
