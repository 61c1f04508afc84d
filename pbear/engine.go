// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pbear

import (
	"context"
	"log/slog"
)

// Option configures a single Allocate call
type Option func(*options)

type options struct {
	logger *slog.Logger
	trace  bool
}

// WithLogger sends per-round debug logs and a run summary to logger
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithTrace records every round in Outcome.Rounds
func WithTrace() Option {
	return func(o *options) {
		o.trace = true
	}
}

// engine holds the mutable state of one Allocate call
type engine struct {
	inst *Instance
	ent  []float64
	tol  float64

	live      []bool
	liveCount int
	level     int

	// scratch, indexed by ProjectID
	support []float64

	selected []ProjectID
	rounds   []Round
	trace    bool
	log      *slog.Logger
}

// Allocate runs the Expanding Approvals rule on inst and returns the funded projects.
//
// Each voter approves her top level projects among those still live. A live
// project whose approvers' remaining entitlements cover its cost is affordable;
// the cheapest affordable project (lowest ID on ties) is funded and charged to
// its approvers. When nothing is affordable the approval level grows by one.
// The run ends once no live project is left or the level exceeds the number of
// live projects.
//
// ctx is checked between rounds; on cancellation no partial outcome is returned.
func Allocate(ctx context.Context, inst *Instance, opts ...Option) (*Outcome, error) {
	o := options{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}

	if inst.budget == 0 {
		o.logger.Info("zero budget, nothing to fund", "projects", len(inst.projects))
		return assembleOutcome(inst, nil, nil)
	}

	ent, err := Entitlements(inst)
	if err != nil {
		return nil, err
	}

	e := &engine{
		inst:      inst,
		ent:       ent,
		tol:       tolerance(inst.budget),
		live:      make([]bool, len(inst.projects)),
		liveCount: len(inst.projects),
		level:     1,
		support:   make([]float64, len(inst.projects)),
		trace:     o.trace,
		log:       o.logger,
	}
	for i := range e.live {
		e.live[i] = true
	}

	e.log.Debug("allocation started",
		"budget", inst.budget,
		"projects", len(inst.projects),
		"voters", len(inst.voters),
		"total_weight", TotalWeight(inst),
	)

	if err := e.run(ctx); err != nil {
		return nil, err
	}

	out, err := assembleOutcome(inst, e.selected, e.rounds)
	if err != nil {
		return nil, err
	}

	e.log.Info("allocation finished",
		"selected", len(out.Selected),
		"total_spent", out.TotalSpent,
		"leftover", out.Leftover,
		"final_level", e.level,
	)
	return out, nil
}

func (e *engine) run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		remaining := sum(e.ent)
		e.pruneUnaffordable(remaining)
		if e.liveCount == 0 {
			e.log.Debug("no live projects left", "level", e.level)
			return nil
		}

		e.computeSupport()

		if p, ok := e.pickAffordable(); ok {
			if err := e.fund(p); err != nil {
				return err
			}
			continue
		}

		if e.trace {
			e.rounds = append(e.rounds, Round{
				Level:     e.level,
				Supports:  e.snapshotSupport(),
				Remaining: remaining,
			})
		}

		e.level++
		if e.level > e.liveCount {
			e.log.Debug("approval level exhausted", "level", e.level, "live", e.liveCount)
			return nil
		}
		e.log.Debug("nothing affordable, expanding approvals", "level", e.level)
	}
}

// pruneUnaffordable drops live projects costing more than all remaining
// entitlement; no amount of expansion can fund them.
func (e *engine) pruneUnaffordable(remaining float64) {
	for id, p := range e.inst.projects {
		if e.live[id] && p.Cost > remaining+e.tol {
			e.live[id] = false
			e.liveCount--
			e.log.Debug("project unaffordable", "project", p.Name, "cost", p.Cost, "remaining", remaining)
		}
	}
}

// approvals calls fn for each of voter v's top e.level live projects
func (e *engine) approvals(v int, fn func(ProjectID)) {
	n := 0
	for _, id := range e.inst.voters[v].Ranking {
		if n == e.level {
			return
		}
		if e.live[id] {
			fn(id)
			n++
		}
	}
}

func (e *engine) computeSupport() {
	for i := range e.support {
		e.support[i] = 0
	}
	for v := range e.inst.voters {
		share := e.ent[v]
		e.approvals(v, func(id ProjectID) {
			e.support[id] += share
		})
	}
}

// pickAffordable returns the cheapest live project whose support covers its
// cost. Scanning in ID order with a strict comparison keeps the lowest ID on ties.
func (e *engine) pickAffordable() (ProjectID, bool) {
	best := ProjectID(-1)
	for id, p := range e.inst.projects {
		if !e.live[id] || e.support[id]+e.tol < p.Cost {
			continue
		}
		if best < 0 || p.Cost < e.inst.projects[best].Cost {
			best = ProjectID(id)
		}
	}
	return best, best >= 0
}

func (e *engine) fund(id ProjectID) error {
	p := e.inst.projects[id]
	support := e.support[id]

	var approvers []int
	for v := range e.inst.voters {
		e.approvals(v, func(a ProjectID) {
			if a == id {
				approvers = append(approvers, v)
			}
		})
	}

	var supports []ProjectSupport
	if e.trace {
		supports = e.snapshotSupport()
	}

	charges, err := chargeApprovers(e.ent, approvers, p.Cost, support, e.tol)
	if err != nil {
		return err
	}

	e.live[id] = false
	e.liveCount--
	e.selected = append(e.selected, id)

	remaining := sum(e.ent)
	e.log.Debug("project funded",
		"project", p.Name,
		"cost", p.Cost,
		"support", support,
		"level", e.level,
		"approvers", len(approvers),
		"remaining", remaining,
	)

	if e.trace {
		charged := 0.0
		for _, c := range charges {
			charged += c.Amount
		}
		funded := p
		e.rounds = append(e.rounds, Round{
			Level:     e.level,
			Supports:  supports,
			Funded:    &funded,
			Approvers: len(approvers),
			Charged:   charged,
			Remaining: remaining,
		})
	}
	return nil
}

func (e *engine) snapshotSupport() []ProjectSupport {
	out := make([]ProjectSupport, 0, e.liveCount)
	for id, p := range e.inst.projects {
		if e.live[id] {
			out = append(out, ProjectSupport{Project: p, Support: e.support[id]})
		}
	}
	return out
}
