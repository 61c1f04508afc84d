// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/danielhkuo/quickly-fund/cliparse"
	"github.com/danielhkuo/quickly-fund/models"
	"github.com/danielhkuo/quickly-fund/pbear"
	"github.com/google/uuid"
)

// ErrTooLarge is returned when a request exceeds the configured instance limits
var ErrTooLarge = errors.New("instance exceeds configured limits")

// CheckLimits rejects oversized requests before any group is expanded
func CheckLimits(req models.AllocateRequest, limits cliparse.Limits) error {
	if limits.MaxProjects > 0 && len(req.Projects) > limits.MaxProjects {
		return fmt.Errorf("%w: %d projects, limit is %d", ErrTooLarge, len(req.Projects), limits.MaxProjects)
	}

	voters := len(req.Voters)
	if limits.MaxVoters > 0 && voters > limits.MaxVoters {
		return fmt.Errorf("%w: %d voters, limit is %d", ErrTooLarge, voters, limits.MaxVoters)
	}
	for _, g := range req.VoterGroups {
		if g.Count <= 0 {
			continue
		}
		// Compare before adding so huge counts cannot wrap the sum
		if limits.MaxVoters > 0 && g.Count > limits.MaxVoters-voters {
			return fmt.Errorf("%w: more than %d voters", ErrTooLarge, limits.MaxVoters)
		}
		voters += g.Count
	}
	return nil
}

// BuildInstance converts a request into a validated engine instance.
// Grouped voters are appended after individual voters.
func BuildInstance(req models.AllocateRequest) (*pbear.Instance, error) {
	projects := make([]pbear.RawProject, len(req.Projects))
	for i, p := range req.Projects {
		projects[i] = pbear.RawProject{Name: p.Name, Cost: p.Cost}
	}

	voters := make([]pbear.RawVoter, 0, len(req.Voters))
	for _, v := range req.Voters {
		voters = append(voters, pbear.RawVoter{Weight: v.Weight, Ranking: v.Ranking})
	}

	if len(req.VoterGroups) > 0 {
		groups := make([]pbear.RawVoterGroup, len(req.VoterGroups))
		for i, g := range req.VoterGroups {
			groups[i] = pbear.RawVoterGroup{Count: g.Count, Weight: g.Weight, Ranking: g.Ranking}
		}
		expanded, err := pbear.ExpandGroups(groups)
		if err != nil {
			return nil, err
		}
		voters = append(voters, expanded...)
	}

	return pbear.NewInstance(req.Budget, projects, voters)
}

// Compute validates and allocates one request and shapes the response.
// It is shared by the HTTP handler and the one-shot CLI.
func Compute(ctx context.Context, req models.AllocateRequest, limits cliparse.Limits, logger *slog.Logger) (models.AllocateResponse, error) {
	if err := CheckLimits(req, limits); err != nil {
		return models.AllocateResponse{}, err
	}

	inst, err := BuildInstance(req)
	if err != nil {
		return models.AllocateResponse{}, err
	}

	opts := []pbear.Option{pbear.WithLogger(logger)}
	if req.Trace {
		opts = append(opts, pbear.WithTrace())
	}

	outcome, err := pbear.Allocate(ctx, inst, opts...)
	if err != nil {
		return models.AllocateResponse{}, err
	}

	resp := models.AllocateResponse{
		RunID:        uuid.NewString(),
		Budget:       inst.Budget(),
		ProjectCount: inst.NumProjects(),
		VoterCount:   inst.NumVoters(),
		Selected:     projectResults(outcome.Selected),
		TotalSpent:   outcome.TotalSpent,
		Leftover:     outcome.Leftover,
		VoterSummary: voterSummary(pbear.SummarizeGroups(inst)),
		ComputedAt:   time.Now().UTC(),
	}
	if req.Trace {
		resp.Rounds = rounds(outcome.Rounds)
	}
	if req.Audit {
		found := violations(pbear.CheckIPSC(inst, outcome.Selected, limits.AuditMaxGroupSize))
		resp.IPSCViolations = &found
	}
	return resp, nil
}

func projectResults(selected []pbear.Project) []models.ProjectResult {
	out := make([]models.ProjectResult, len(selected))
	for i, p := range selected {
		out[i] = models.ProjectResult{Name: p.Name, Cost: p.Cost}
	}
	return out
}

func voterSummary(groups []pbear.VoterGroup) []models.VoterGroupInput {
	out := make([]models.VoterGroupInput, len(groups))
	for i, g := range groups {
		out[i] = models.VoterGroupInput{Count: g.Count, Weight: g.Weight, Ranking: g.Ranking}
	}
	return out
}

func rounds(in []pbear.Round) []models.Round {
	out := make([]models.Round, len(in))
	for i, r := range in {
		round := models.Round{
			Level:     r.Level,
			Approvers: r.Approvers,
			Charged:   r.Charged,
			Remaining: r.Remaining,
			Supports:  make([]models.ProjectSupport, len(r.Supports)),
		}
		if r.Funded != nil {
			round.Funded = r.Funded.Name
		}
		for j, s := range r.Supports {
			round.Supports[j] = models.ProjectSupport{Name: s.Project.Name, Cost: s.Project.Cost, Support: s.Support}
		}
		out[i] = round
	}
	return out
}

func violations(in []pbear.Violation) []models.Violation {
	out := make([]models.Violation, len(in))
	for i, v := range in {
		out[i] = models.Violation{
			Group:        v.Group,
			Project:      v.Project,
			Cost:         v.Cost,
			SelectedCost: v.SelectedCost,
			Share:        v.Share,
		}
	}
	return out
}
