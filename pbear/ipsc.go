// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pbear

import (
	"slices"
	"strconv"
	"strings"
)

// Violation is a solid coalition left short by an outcome: Project belongs to
// the coalition's group, is not selected, and would still fit in the
// coalition's share of the budget on top of what the group already got.
type Violation struct {
	Group        []string
	Project      string
	Cost         float64
	SelectedCost float64
	Share        float64
}

type coalition struct {
	ids    []ProjectID
	weight float64
}

// CheckIPSC audits an outcome for inclusion proportionality for solid
// coalitions, over groups of up to maxGroupSize projects.
//
// A voter solidly supports a group when she ranks every member above every
// non-member. With complete rankings that means the group is exactly her top
// len(group) projects, so only prefixes of actual rankings need checking and
// the group's periphery is the group itself.
func CheckIPSC(inst *Instance, selected []Project, maxGroupSize int) []Violation {
	totalWeight := TotalWeight(inst)
	if totalWeight <= 0 || inst.budget <= 0 {
		return nil
	}
	if maxGroupSize > len(inst.projects) {
		maxGroupSize = len(inst.projects)
	}

	chosen := make([]bool, len(inst.projects))
	for _, p := range selected {
		chosen[p.ID] = true
	}

	groups := make(map[string]*coalition)
	var order []string
	for _, v := range inst.voters {
		for size := 1; size <= maxGroupSize; size++ {
			ids := slices.Clone(v.Ranking[:size])
			slices.Sort(ids)
			key := groupKey(ids)
			c, ok := groups[key]
			if !ok {
				c = &coalition{ids: ids}
				groups[key] = c
				order = append(order, key)
			}
			c.weight += v.Weight
		}
	}

	slices.SortStableFunc(order, func(a, b string) int {
		return len(groups[a].ids) - len(groups[b].ids)
	})

	tol := tolerance(inst.budget)
	var violations []Violation
	for _, key := range order {
		c := groups[key]
		share := c.weight * inst.budget / totalWeight

		selectedCost := 0.0
		for _, id := range c.ids {
			if chosen[id] {
				selectedCost += inst.projects[id].Cost
			}
		}

		for _, id := range c.ids {
			p := inst.projects[id]
			if chosen[id] || selectedCost+p.Cost > share+tol {
				continue
			}
			violations = append(violations, Violation{
				Group:        inst.names(c.ids),
				Project:      p.Name,
				Cost:         p.Cost,
				SelectedCost: selectedCost,
				Share:        share,
			})
		}
	}
	return violations
}

func groupKey(ids []ProjectID) string {
	var b strings.Builder
	for i, id := range ids {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(int(id)))
	}
	return b.String()
}

func (inst *Instance) names(ids []ProjectID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = inst.projects[id].Name
	}
	return out
}
