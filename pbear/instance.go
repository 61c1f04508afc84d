// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pbear

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/cases"
)

// RawProject is an unvalidated project as received from a caller
type RawProject struct {
	Name string
	Cost float64
}

// RawVoter is an unvalidated voter; Ranking lists project names, most preferred first
type RawVoter struct {
	Weight  float64
	Ranking []string
}

// RawVoterGroup is Count identical voters sharing a weight and a ranking
type RawVoterGroup struct {
	Count   int
	Weight  float64
	Ranking []string
}

// ProjectID is the position of a project in the instance's input order.
// Lower IDs win cost ties.
type ProjectID int

// Project is a validated project. ID is its input position.
type Project struct {
	ID   ProjectID
	Name string
	Cost float64
}

// Voter is a validated voter whose Ranking holds every project ID exactly once
type Voter struct {
	Weight  float64
	Ranking []ProjectID
}

// Instance is a validated allocation problem. It is never modified after
// NewInstance returns, so it can be read from several goroutines.
type Instance struct {
	budget   float64
	projects []Project
	voters   []Voter
	byName   map[string]ProjectID
}

// NewInstance validates raw input and builds an Instance.
// Every ranking must name each project exactly once; names match case-insensitively.
func NewInstance(budget float64, projects []RawProject, voters []RawVoter) (*Instance, error) {
	if budget < 0 || math.IsNaN(budget) || math.IsInf(budget, 0) {
		return nil, invalid(ErrInvalidBudget, "budget", -1, fmt.Sprintf("got %v", budget))
	}

	// Caser is stateful, one per call
	fold := cases.Fold()

	inst := &Instance{
		budget:   budget,
		projects: make([]Project, len(projects)),
		voters:   make([]Voter, len(voters)),
		byName:   make(map[string]ProjectID, len(projects)),
	}

	for i, p := range projects {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			return nil, invalid(ErrEmptyProjectName, "projects", i, "")
		}
		if p.Cost < 0 || math.IsNaN(p.Cost) || math.IsInf(p.Cost, 0) {
			return nil, invalid(ErrInvalidCost, "projects", i, fmt.Sprintf("%q costs %v", name, p.Cost))
		}
		key := fold.String(name)
		if prev, dup := inst.byName[key]; dup {
			return nil, invalid(ErrDuplicateProject, "projects", i,
				fmt.Sprintf("%q clashes with %q", name, inst.projects[prev].Name))
		}
		id := ProjectID(i)
		inst.byName[key] = id
		inst.projects[i] = Project{ID: id, Name: name, Cost: p.Cost}
	}

	for i, v := range voters {
		if !(v.Weight > 0 && v.Weight <= 1) {
			return nil, invalid(ErrWeightOutOfRange, "voters", i, fmt.Sprintf("got %v", v.Weight))
		}
		ranking, err := inst.resolveRanking(fold, v.Ranking)
		if err != nil {
			return nil, invalid(ErrIncompleteRanking, "voters", i, err.Error())
		}
		inst.voters[i] = Voter{Weight: v.Weight, Ranking: ranking}
	}

	return inst, nil
}

// resolveRanking maps names to IDs and checks the result is a permutation
func (inst *Instance) resolveRanking(fold cases.Caser, names []string) ([]ProjectID, error) {
	if len(names) != len(inst.projects) {
		return nil, fmt.Errorf("ranks %d of %d projects", len(names), len(inst.projects))
	}

	seen := make([]bool, len(inst.projects))
	ranking := make([]ProjectID, len(names))
	for pos, name := range names {
		id, ok := inst.byName[fold.String(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("unknown project %q", name)
		}
		if seen[id] {
			return nil, fmt.Errorf("project %q ranked twice", name)
		}
		seen[id] = true
		ranking[pos] = id
	}
	return ranking, nil
}

// ExpandGroups turns voter groups into individual voters, preserving order.
// Callers bound the total count; ExpandGroups only rejects one that overflows.
func ExpandGroups(groups []RawVoterGroup) ([]RawVoter, error) {
	total := 0
	for i, g := range groups {
		if g.Count < 1 {
			return nil, invalid(ErrInvalidGroup, "voter_groups", i, fmt.Sprintf("count %d", g.Count))
		}
		if g.Count > math.MaxInt-total {
			return nil, invalid(ErrInvalidGroup, "voter_groups", i, "total voter count overflows")
		}
		total += g.Count
	}

	voters := make([]RawVoter, 0, total)
	for _, g := range groups {
		for n := 0; n < g.Count; n++ {
			// Groups share the ranking slice; NewInstance copies it
			voters = append(voters, RawVoter{Weight: g.Weight, Ranking: g.Ranking})
		}
	}
	return voters, nil
}

// Budget returns the amount available for funding
func (inst *Instance) Budget() float64 {
	return inst.budget
}

// NumProjects returns the number of projects
func (inst *Instance) NumProjects() int {
	return len(inst.projects)
}

// NumVoters returns the number of voters after group expansion
func (inst *Instance) NumVoters() int {
	return len(inst.voters)
}

// Projects returns a copy of the projects in input order
func (inst *Instance) Projects() []Project {
	out := make([]Project, len(inst.projects))
	copy(out, inst.projects)
	return out
}

// Voter returns a copy of the i-th voter
func (inst *Instance) Voter(i int) Voter {
	v := inst.voters[i]
	ranking := make([]ProjectID, len(v.Ranking))
	copy(ranking, v.Ranking)
	return Voter{Weight: v.Weight, Ranking: ranking}
}
