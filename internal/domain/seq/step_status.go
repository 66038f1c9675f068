package seq

// StepStatus represents the outcome of a step's presence check.
type StepStatus string

const (
	// StatusSatisfied indicates the step's capability is already present.
	StatusSatisfied StepStatus = "satisfied"
	// StatusNeedsApply indicates the step needs to be applied.
	StatusNeedsApply StepStatus = "needs-apply"
	// StatusUnknown indicates the presence check could not decide; the
	// sequencer applies the step and relies on its post-condition.
	StatusUnknown StepStatus = "unknown"
)

// String returns the string representation of the status.
func (s StepStatus) String() string {
	return string(s)
}

// NeedsApply returns true if the sequencer must run the apply action.
func (s StepStatus) NeedsApply() bool {
	return s != StatusSatisfied
}
