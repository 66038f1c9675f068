package run

import (
	"context"
	"fmt"

	"github.com/aidock-dev/aidock/internal/domain/seq"
)

// Planner turns the fixed step list into a Plan by evaluating every
// step's presence check. Planning never mutates the system: checks run
// before any apply action so repeated runs converge instead of erroring
// on already-present capabilities.
type Planner struct{}

// NewPlanner creates a new Planner.
func NewPlanner() *Planner {
	return &Planner{}
}

// Plan checks each step in order and records its status. Steps keep
// their registration order. A duplicate step ID is a programming error
// and fails planning. A failing presence check does not: the step is
// recorded as StatusUnknown and the sequencer will attempt to apply it.
func (p *Planner) Plan(ctx context.Context, steps []seq.Step) (*Plan, error) {
	plan := NewPlan()
	seen := make(map[string]bool, len(steps))

	rc := seq.NewRunContext(ctx)

	for _, step := range steps {
		id := step.ID().String()
		if seen[id] {
			return nil, fmt.Errorf("duplicate step ID %q", id)
		}
		seen[id] = true

		status, err := step.Check(rc)
		if err != nil {
			status = seq.StatusUnknown
		}

		plan.Add(NewEntry(step, status))
	}

	return plan, nil
}
