// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pbear

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewInstance_Validation(t *testing.T) {
	projects := []RawProject{{"Park", 10}, {"Library", 20}}
	ok := []RawVoter{{1.0, []string{"Park", "Library"}}}

	tests := []struct {
		name     string
		budget   float64
		projects []RawProject
		voters   []RawVoter
		wantErr  error
		wantCode string
	}{
		{
			name:     "negative budget",
			budget:   -1,
			projects: projects,
			voters:   ok,
			wantErr:  ErrInvalidBudget,
			wantCode: "InvalidBudget",
		},
		{
			name:     "NaN budget",
			budget:   math.NaN(),
			projects: projects,
			voters:   ok,
			wantErr:  ErrInvalidBudget,
			wantCode: "InvalidBudget",
		},
		{
			name:     "duplicate name differing in case",
			budget:   10,
			projects: []RawProject{{"Park", 1}, {"PARK", 2}},
			voters:   nil,
			wantErr:  ErrDuplicateProject,
			wantCode: "DuplicateProject",
		},
		{
			name:     "duplicate name with unicode folding",
			budget:   10,
			projects: []RawProject{{"Ünion Square", 1}, {"üNION SQUARE", 2}},
			voters:   nil,
			wantErr:  ErrDuplicateProject,
			wantCode: "DuplicateProject",
		},
		{
			name:     "empty name",
			budget:   10,
			projects: []RawProject{{"  ", 1}},
			voters:   nil,
			wantErr:  ErrEmptyProjectName,
			wantCode: "EmptyProjectName",
		},
		{
			name:     "negative cost",
			budget:   10,
			projects: []RawProject{{"Park", -5}},
			voters:   nil,
			wantErr:  ErrInvalidCost,
			wantCode: "InvalidCost",
		},
		{
			name:     "infinite cost",
			budget:   10,
			projects: []RawProject{{"Park", math.Inf(1)}},
			voters:   nil,
			wantErr:  ErrInvalidCost,
			wantCode: "InvalidCost",
		},
		{
			name:     "ranking too short",
			budget:   10,
			projects: projects,
			voters:   []RawVoter{{1.0, []string{"Park"}}},
			wantErr:  ErrIncompleteRanking,
			wantCode: "IncompleteRanking",
		},
		{
			name:     "ranking repeats a project",
			budget:   10,
			projects: projects,
			voters:   []RawVoter{{1.0, []string{"Park", "park"}}},
			wantErr:  ErrIncompleteRanking,
			wantCode: "IncompleteRanking",
		},
		{
			name:     "ranking names unknown project",
			budget:   10,
			projects: projects,
			voters:   []RawVoter{{1.0, []string{"Park", "Pool"}}},
			wantErr:  ErrIncompleteRanking,
			wantCode: "IncompleteRanking",
		},
		{
			name:     "zero weight",
			budget:   10,
			projects: projects,
			voters:   []RawVoter{{0, []string{"Park", "Library"}}},
			wantErr:  ErrWeightOutOfRange,
			wantCode: "WeightOutOfRange",
		},
		{
			name:     "weight above one",
			budget:   10,
			projects: projects,
			voters:   []RawVoter{{1.5, []string{"Park", "Library"}}},
			wantErr:  ErrWeightOutOfRange,
			wantCode: "WeightOutOfRange",
		},
		{
			name:     "NaN weight",
			budget:   10,
			projects: projects,
			voters:   []RawVoter{{math.NaN(), []string{"Park", "Library"}}},
			wantErr:  ErrWeightOutOfRange,
			wantCode: "WeightOutOfRange",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst, err := NewInstance(tt.budget, tt.projects, tt.voters)
			if inst != nil {
				t.Errorf("Expected no instance on error")
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Expected %v, got %v", tt.wantErr, err)
			}
			if Code(err) != tt.wantCode {
				t.Errorf("Expected code %q, got %q", tt.wantCode, Code(err))
			}
			if !IsInputError(err) {
				t.Errorf("Expected %v to be an input error", err)
			}

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Expected *ValidationError, got %T", err)
			}
		})
	}
}

func TestNewInstance_ErrorLocatesVoter(t *testing.T) {
	_, err := NewInstance(10,
		[]RawProject{{"a", 1}, {"b", 1}},
		[]RawVoter{
			{1.0, []string{"a", "b"}},
			{1.0, []string{"b", "a"}},
			{1.0, []string{"a"}},
		},
	)

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected *ValidationError, got %v", err)
	}
	if verr.Field != "voters" || verr.Index != 2 {
		t.Errorf("Expected voters[2], got %s[%d]", verr.Field, verr.Index)
	}
}

func TestNewInstance_CaseInsensitiveRanking(t *testing.T) {
	inst, err := NewInstance(10,
		[]RawProject{{"Park", 4}, {"Library", 6}},
		[]RawVoter{{0.5, []string{" library", "PARK"}}},
	)
	if err != nil {
		t.Fatalf("NewInstance failed: %v", err)
	}

	v := inst.Voter(0)
	if diff := cmp.Diff([]ProjectID{1, 0}, v.Ranking); diff != "" {
		t.Errorf("ranking mismatch (-want +got):\n%s", diff)
	}

	if inst.NumProjects() != 2 || inst.NumVoters() != 1 {
		t.Errorf("Expected 2 projects and 1 voter, got %d and %d", inst.NumProjects(), inst.NumVoters())
	}
}

func TestInstance_AccessorsReturnCopies(t *testing.T) {
	inst := mustInstance(t, 10,
		[]RawProject{{"a", 1}, {"b", 2}},
		[]RawVoter{{1.0, []string{"a", "b"}}},
	)

	v := inst.Voter(0)
	v.Ranking[0] = 1
	projects := inst.Projects()
	projects[0].Cost = 99

	if inst.Voter(0).Ranking[0] != 0 {
		t.Error("Voter ranking was mutated through accessor")
	}
	if inst.Projects()[0].Cost != 1 {
		t.Error("Project cost was mutated through accessor")
	}
}

func TestExpandGroups(t *testing.T) {
	voters, err := ExpandGroups([]RawVoterGroup{
		{Count: 2, Weight: 1.0, Ranking: []string{"a", "b"}},
		{Count: 1, Weight: 0.5, Ranking: []string{"b", "a"}},
	})
	if err != nil {
		t.Fatalf("ExpandGroups failed: %v", err)
	}

	want := []RawVoter{
		{1.0, []string{"a", "b"}},
		{1.0, []string{"a", "b"}},
		{0.5, []string{"b", "a"}},
	}
	if diff := cmp.Diff(want, voters); diff != "" {
		t.Errorf("expansion mismatch (-want +got):\n%s", diff)
	}

	_, err = ExpandGroups([]RawVoterGroup{{Count: 0, Weight: 1.0}})
	if !errors.Is(err, ErrInvalidGroup) {
		t.Errorf("Expected ErrInvalidGroup, got %v", err)
	}
}

func TestExpandGroups_CountOverflow(t *testing.T) {
	tests := []struct {
		name   string
		groups int
	}{
		{"sum wraps negative", 2},
		{"sum wraps to zero", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			groups := make([]RawVoterGroup, tt.groups)
			for i := range groups {
				groups[i] = RawVoterGroup{Count: 1 << 62, Weight: 1.0, Ranking: []string{"a"}}
			}

			_, err := ExpandGroups(groups)
			if !errors.Is(err, ErrInvalidGroup) {
				t.Fatalf("Expected ErrInvalidGroup, got %v", err)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) || verr.Index != 1 {
				t.Errorf("Expected error at voter_groups[1], got %v", err)
			}
		})
	}
}

func TestEntitlements_PartitionBudget(t *testing.T) {
	tests := []struct {
		name    string
		budget  float64
		weights []float64
	}{
		{"equal weights", 100, []float64{1, 1, 1}},
		{"mixed weights", 1000, []float64{0.3, 0.7, 1, 0.45, 0.05}},
		{"awkward budget", 7.77, []float64{0.1, 0.2, 0.3, 0.9}},
		{"zero budget", 0, []float64{0.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			voters := make([]RawVoter, len(tt.weights))
			for i, w := range tt.weights {
				voters[i] = RawVoter{Weight: w}
			}
			inst := mustInstance(t, tt.budget, nil, voters)

			ent, err := Entitlements(inst)
			if err != nil {
				t.Fatalf("Entitlements failed: %v", err)
			}
			if got := sum(ent); math.Abs(got-tt.budget) > testTol {
				t.Errorf("Expected entitlements to sum to %v, got %v", tt.budget, got)
			}

			// entitlement is proportional to weight
			for i := 1; i < len(ent); i++ {
				if math.Abs(ent[i]*tt.weights[0]-ent[0]*tt.weights[i]) > testTol {
					t.Errorf("voter %d entitlement %v not proportional to weight %v", i, ent[i], tt.weights[i])
				}
			}
		})
	}
}

func TestEntitlements_NoVoters(t *testing.T) {
	inst := mustInstance(t, 10, nil, nil)

	_, err := Entitlements(inst)
	if !errors.Is(err, ErrDegenerateInstance) {
		t.Errorf("Expected ErrDegenerateInstance, got %v", err)
	}
}
