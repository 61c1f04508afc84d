package models

import "time"

// Request types

type ProjectInput struct {
	Name string  `json:"name"`
	Cost float64 `json:"cost"`
}

// Ranking lists project names, most preferred first
type VoterInput struct {
	Weight  float64  `json:"weight"`
	Ranking []string `json:"ranking"`
}

type VoterGroupInput struct {
	Count   int      `json:"count"`
	Weight  float64  `json:"weight"`
	Ranking []string `json:"ranking"`
}

type AllocateRequest struct {
	Budget      float64           `json:"budget"`
	Projects    []ProjectInput    `json:"projects"`
	Voters      []VoterInput      `json:"voters,omitempty"`
	VoterGroups []VoterGroupInput `json:"voter_groups,omitempty"`
	Trace       bool              `json:"trace,omitempty"`
	Audit       bool              `json:"audit,omitempty"`
}

// Response types

type ProjectResult struct {
	Name string  `json:"name"`
	Cost float64 `json:"cost"`
}

type ProjectSupport struct {
	Name    string  `json:"name"`
	Cost    float64 `json:"cost"`
	Support float64 `json:"support"`
}

// Round mirrors one engine iteration. Funded is empty when the level was expanded.
type Round struct {
	Level     int              `json:"level"`
	Funded    string           `json:"funded,omitempty"`
	Approvers int              `json:"approvers,omitempty"`
	Charged   float64          `json:"charged,omitempty"`
	Remaining float64          `json:"remaining"`
	Supports  []ProjectSupport `json:"supports"`
}

type Violation struct {
	Group        []string `json:"group"`
	Project      string   `json:"project"`
	Cost         float64  `json:"cost"`
	SelectedCost float64  `json:"selected_cost"`
	Share        float64  `json:"share"`
}

type AllocateResponse struct {
	RunID          string            `json:"run_id"`
	Budget         float64           `json:"budget"`
	ProjectCount   int               `json:"project_count"`
	VoterCount     int               `json:"voter_count"`
	Selected       []ProjectResult   `json:"selected"`
	TotalSpent     float64           `json:"total_spent"`
	Leftover       float64           `json:"leftover"`
	VoterSummary   []VoterGroupInput `json:"voter_summary"`
	Rounds         []Round           `json:"rounds,omitempty"`
	IPSCViolations *[]Violation      `json:"ipsc_violations,omitempty"`
	ComputedAt     time.Time         `json:"computed_at"`
}

// Domain types

// Run is an archived allocation
type Run struct {
	ID           string           `json:"id"`
	Budget       float64          `json:"budget"`
	ProjectCount int              `json:"project_count"`
	VoterCount   int              `json:"voter_count"`
	Request      AllocateRequest  `json:"request"`
	Result       AllocateResponse `json:"result"`
	ComputedAt   time.Time        `json:"computed_at"`
}

// RunSummary is a row of the run listing
type RunSummary struct {
	ID            string    `json:"id"`
	Budget        float64   `json:"budget"`
	ProjectCount  int       `json:"project_count"`
	VoterCount    int       `json:"voter_count"`
	SelectedCount int       `json:"selected_count"`
	TotalSpent    float64   `json:"total_spent"`
	ComputedAt    time.Time `json:"computed_at"`
}

type ListRunsResponse struct {
	Runs []RunSummary `json:"runs"`
}

// Error response

// Code carries the engine's error name for validation failures
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}
