// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and archive types for the API.

# Request Types

  - AllocateRequest: budget, projects, voters and/or voter_groups, plus the
    trace and audit switches
  - ProjectInput: name, cost
  - VoterInput: weight, ranking (project names, best first)
  - VoterGroupInput: count identical voters sharing weight and ranking

# Response Types

  - AllocateResponse: run_id, project_count, voter_count, selected
    (funding order), total_spent, leftover, voter_summary, optional rounds
    and ipsc_violations
  - Round: one engine iteration with per-project support
  - ListRunsResponse: recent archived runs
  - ErrorResponse: error, message, code

# Archive Types

  - Run: the request and response of an archived allocation
  - RunSummary: one row of the run listing

# Error Codes

Validation failures carry the engine's error name in code:

	DuplicateProject, EmptyProjectName, InvalidCost, IncompleteRanking,
	WeightOutOfRange, InvalidBudget, InvalidGroup, DegenerateInstance
*/
package models
