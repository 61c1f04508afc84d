// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pbear

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func selectByName(t *testing.T, inst *Instance, names ...string) []Project {
	t.Helper()
	byName := make(map[string]Project)
	for _, p := range inst.Projects() {
		byName[p.Name] = p
	}
	out := make([]Project, len(names))
	for i, n := range names {
		p, ok := byName[n]
		if !ok {
			t.Fatalf("unknown project %q", n)
		}
		out[i] = p
	}
	return out
}

func TestCheckIPSC_Satisfied(t *testing.T) {
	inst := mustInstance(t, 2,
		[]RawProject{{"a", 2}, {"b", 1}},
		concat(
			repeat(2, 1.0, "a", "b"),
			repeat(1, 1.0, "b", "a"),
		),
	)

	if v := CheckIPSC(inst, selectByName(t, inst, "b"), 10); len(v) != 0 {
		t.Errorf("Expected no violations, got %+v", v)
	}
}

func TestCheckIPSC_Violation(t *testing.T) {
	inst := mustInstance(t, 2,
		[]RawProject{{"a", 1}, {"b", 1}},
		concat(
			repeat(2, 1.0, "a", "b"),
			repeat(1, 1.0, "b", "a"),
		),
	)

	violations := CheckIPSC(inst, selectByName(t, inst, "b"), 10)
	if len(violations) == 0 {
		t.Fatal("Expected a violation for the coalition behind a")
	}

	first := violations[0]
	if diff := cmp.Diff([]string{"a"}, first.Group); diff != "" {
		t.Errorf("group mismatch (-want +got):\n%s", diff)
	}
	if first.Project != "a" {
		t.Errorf("Expected project a, got %s", first.Project)
	}
	if first.Share < 1.3 || first.Share > 1.4 {
		t.Errorf("Expected share 4/3, got %v", first.Share)
	}
}

func TestCheckIPSC_EmptyOutcomeFlagsAffordableTop(t *testing.T) {
	inst := workedScenario(t)

	violations := CheckIPSC(inst, nil, 1)
	if len(violations) == 0 {
		t.Fatal("Expected violations for an empty outcome")
	}

	// only D's 70-voter bloc can afford its top project on its own
	for _, v := range violations {
		if v.Project != "D" {
			t.Errorf("Unexpected violation %+v", v)
		}
	}
}

func TestCheckIPSC_GroupSizeCapped(t *testing.T) {
	inst := workedScenario(t)
	out := mustAllocate(t, inst)

	// sizes beyond the project count are clamped
	if v := CheckIPSC(inst, out.Selected, 50); len(v) != 0 {
		t.Errorf("Expected no violations, got %+v", v)
	}
}
