// Package run handles planning and executing the provisioning sequence.
package run

import (
	"github.com/aidock-dev/aidock/internal/domain/seq"
)

// Entry represents a single step's planned execution.
type Entry struct {
	step   seq.Step
	status seq.StepStatus
}

// NewEntry creates a new Entry.
func NewEntry(step seq.Step, status seq.StepStatus) Entry {
	return Entry{step: step, status: status}
}

// Step returns the step to be executed.
func (e Entry) Step() seq.Step {
	return e.step
}

// Status returns the step's presence-check status.
func (e Entry) Status() seq.StepStatus {
	return e.status
}

// Summary provides aggregate statistics about the plan.
type Summary struct {
	Total      int
	NeedsApply int
	Satisfied  int
	Unknown    int
}

// Plan is the checked, ordered list of steps for one run. The order is
// fixed at build time; the planner never reorders it.
type Plan struct {
	entries []Entry
}

// NewPlan creates an empty Plan.
func NewPlan() *Plan {
	return &Plan{entries: make([]Entry, 0)}
}

// Add appends a plan entry.
func (p *Plan) Add(entry Entry) {
	p.entries = append(p.entries, entry)
}

// Len returns the number of entries.
func (p *Plan) Len() int {
	return len(p.entries)
}

// IsEmpty returns true if there are no entries.
func (p *Plan) IsEmpty() bool {
	return len(p.entries) == 0
}

// Entries returns all plan entries in execution order.
func (p *Plan) Entries() []Entry {
	return p.entries
}

// HasChanges returns true if any step needs to be applied.
func (p *Plan) HasChanges() bool {
	for _, e := range p.entries {
		if e.status.NeedsApply() {
			return true
		}
	}
	return false
}

// Summary returns aggregate statistics for the plan.
func (p *Plan) Summary() Summary {
	s := Summary{Total: len(p.entries)}
	for _, e := range p.entries {
		switch e.status {
		case seq.StatusSatisfied:
			s.Satisfied++
		case seq.StatusNeedsApply:
			s.NeedsApply++
		case seq.StatusUnknown:
			s.Unknown++
		}
	}
	return s
}
