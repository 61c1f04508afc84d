// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pbear

import "math"

// relTolerance scales with the budget when comparing money amounts
const relTolerance = 1e-9

func tolerance(budget float64) float64 {
	return relTolerance * math.Max(1, budget)
}

// TotalWeight sums voter weights
func TotalWeight(inst *Instance) float64 {
	total := 0.0
	for _, v := range inst.voters {
		total += v.Weight
	}
	return total
}

// Entitlements splits the budget among voters in proportion to their weights.
// The returned slice is owned by the caller; its sum equals the budget.
func Entitlements(inst *Instance) ([]float64, error) {
	w := TotalWeight(inst)
	if w <= 0 {
		return nil, ErrDegenerateInstance
	}

	share := inst.budget / w
	ent := make([]float64, len(inst.voters))
	for i, v := range inst.voters {
		ent[i] = v.Weight * share
	}
	return ent, nil
}

func sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}
