// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pbear

import "fmt"

// Charge is the amount one voter paid towards a funded project
type Charge struct {
	Voter  int
	Amount float64
}

// chargeApprovers pays cost out of the approvers' entitlements, each voter
// paying cost * e_v / support. support is the approvers' combined entitlement.
// ent is modified in place.
func chargeApprovers(ent []float64, approvers []int, cost, support, tol float64) ([]Charge, error) {
	if cost == 0 || support <= 0 {
		return nil, nil
	}

	charges := make([]Charge, 0, len(approvers))
	for _, v := range approvers {
		amount := cost * ent[v] / support
		remaining := ent[v] - amount
		if remaining < 0 {
			if remaining < -tol {
				return nil, fmt.Errorf("%w: voter %d charged %g with entitlement %g",
					ErrInternalComputation, v, amount, ent[v])
			}
			remaining = 0
		}
		ent[v] = remaining
		charges = append(charges, Charge{Voter: v, Amount: amount})
	}
	return charges, nil
}
