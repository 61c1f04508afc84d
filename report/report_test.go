// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/danielhkuo/quickly-fund/models"
)

func TestMoney(t *testing.T) {
	testCases := []struct {
		in       float64
		expected string
	}{
		{0, "0"},
		{40, "40"},
		{1234.5, "1,234.5"},
		{1234567, "1,234,567"},
		{100.0 / 3, "33.33"},
	}

	for _, tc := range testCases {
		if got := Money(tc.in); got != tc.expected {
			t.Errorf("Money(%v) = %q, expected %q", tc.in, got, tc.expected)
		}
	}
}

func TestFormatOutcome(t *testing.T) {
	resp := models.AllocateResponse{
		RunID:      "run-1",
		Budget:     100,
		Selected:   []models.ProjectResult{{Name: "D", Cost: 40}, {Name: "C", Cost: 30}, {Name: "B", Cost: 30}},
		TotalSpent: 100,
		Leftover:   0,
	}

	var buf bytes.Buffer
	if err := FormatOutcome(&buf, resp); err != nil {
		t.Fatalf("FormatOutcome failed: %v", err)
	}
	out := buf.String()

	lines := strings.Split(out, "\n")
	if lines[0] != "Run run-1, budget 100" {
		t.Errorf("Unexpected header: %q", lines[0])
	}

	var rows [][]string
	for _, line := range lines[2:] {
		if line == "" {
			break
		}
		rows = append(rows, strings.Fields(line))
	}
	if len(rows) != 4 {
		t.Fatalf("Expected header plus 3 rows, got %d:\n%s", len(rows), out)
	}
	if strings.Join(rows[1], " ") != "1 D 40" || strings.Join(rows[3], " ") != "3 B 30" {
		t.Errorf("Unexpected rows: %v", rows)
	}

	// Columns are aligned
	if strings.Index(lines[2], "Project") != strings.Index(lines[3], "D") {
		t.Errorf("Project column not aligned:\n%s", out)
	}

	if !strings.Contains(out, "Total spent: 100") {
		t.Errorf("Missing total:\n%s", out)
	}
	if strings.Contains(out, "Round") || strings.Contains(out, "audit") {
		t.Errorf("Trace and audit should be omitted:\n%s", out)
	}
}

func TestFormatOutcome_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := FormatOutcome(&buf, models.AllocateResponse{RunID: "r"}); err != nil {
		t.Fatalf("FormatOutcome failed: %v", err)
	}
	if !strings.Contains(buf.String(), "(nothing funded)") {
		t.Errorf("Expected empty marker:\n%s", buf.String())
	}
}

func TestFormatTrace(t *testing.T) {
	rounds := []models.Round{
		{
			Level:     1,
			Funded:    "D",
			Approvers: 70,
			Charged:   40,
			Remaining: 100,
			Supports: []models.ProjectSupport{
				{Name: "A", Cost: 50, Support: 15},
				{Name: "Community Garden", Cost: 30, Support: 0},
				{Name: "D", Cost: 40, Support: 70},
			},
		},
		{
			Level:     1,
			Remaining: 60,
			Supports:  []models.ProjectSupport{{Name: "A", Cost: 50, Support: 15}},
		},
	}

	var buf bytes.Buffer
	if err := FormatTrace(&buf, rounds); err != nil {
		t.Fatalf("FormatTrace failed: %v", err)
	}
	lines := strings.Split(buf.String(), "\n")

	if lines[0] != "Round 1 (level 1): funded D, charged 40 to 70 approvers, 100 entitlement remaining" {
		t.Errorf("Unexpected round header: %q", lines[0])
	}

	// Every separator in the first table lines up with the header's
	bar := strings.Index(lines[1], "|")
	for _, line := range lines[1:5] {
		if strings.Index(line, "|") != bar {
			t.Errorf("Separator misaligned in %q", line)
		}
	}
	if !strings.HasPrefix(lines[3], "Community Garden |") {
		t.Errorf("Expected widest name to set column width, got %q", lines[3])
	}

	if lines[6] != "Round 2 (level 1): nothing affordable, expanding approvals" {
		t.Errorf("Unexpected expansion header: %q", lines[6])
	}
}

func TestFormatOutcome_Audit(t *testing.T) {
	violations := []models.Violation{
		{Group: []string{"a", "b"}, Project: "b", Cost: 10, SelectedCost: 0, Share: 50},
	}
	resp := models.AllocateResponse{RunID: "r", Budget: 100, IPSCViolations: &violations}

	var buf bytes.Buffer
	if err := FormatOutcome(&buf, resp); err != nil {
		t.Fatalf("FormatOutcome failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "1 violation(s)") || !strings.Contains(out, "group {a, b}: b (cost 10) fits share 50") {
		t.Errorf("Unexpected audit section:\n%s", out)
	}

	empty := []models.Violation{}
	resp.IPSCViolations = &empty
	buf.Reset()
	FormatOutcome(&buf, resp)
	if !strings.Contains(buf.String(), "no violations") {
		t.Errorf("Expected clean audit line:\n%s", buf.String())
	}
}
