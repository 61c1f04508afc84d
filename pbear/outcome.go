// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pbear

import "fmt"

// Outcome is the result of one allocation.
// Selected keeps funding order; Leftover is Budget minus TotalSpent.
type Outcome struct {
	Selected   []Project
	TotalSpent float64
	Leftover   float64
	Rounds     []Round
}

// ProjectSupport is a live project and its support at one round
type ProjectSupport struct {
	Project Project
	Support float64
}

// Round records one iteration of the engine. Funded is nil when the round
// ended by expanding the approval level.
type Round struct {
	Level     int
	Supports  []ProjectSupport
	Funded    *Project
	Approvers int
	Charged   float64
	Remaining float64
}

// Names returns the selected project names in funding order
func (o *Outcome) Names() []string {
	names := make([]string, len(o.Selected))
	for i, p := range o.Selected {
		names[i] = p.Name
	}
	return names
}

func assembleOutcome(inst *Instance, selected []ProjectID, rounds []Round) (*Outcome, error) {
	out := &Outcome{
		Selected: make([]Project, 0, len(selected)),
		Rounds:   rounds,
	}
	for _, id := range selected {
		p := inst.projects[id]
		out.Selected = append(out.Selected, p)
		out.TotalSpent += p.Cost
	}

	if out.TotalSpent > inst.budget+tolerance(inst.budget) {
		return nil, fmt.Errorf("%w: spent %g of budget %g", ErrInternalComputation, out.TotalSpent, inst.budget)
	}

	out.Leftover = inst.budget - out.TotalSpent
	if out.Leftover < 0 {
		out.Leftover = 0
	}
	return out, nil
}
