// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package pbear implements the Expanding Approvals Rule for participatory
budgeting (PB-EAR) over ranked ballots.

Reference: H. Aziz and B. E. Lee, "Proportionally Representative
Participatory Budgeting with Ordinal Preferences", 2020,
https://arxiv.org/abs/1911.00864

# Building an Instance

Raw input is validated once into an immutable Instance:

	inst, err := pbear.NewInstance(100, []pbear.RawProject{
		{Name: "Park", Cost: 40},
		{Name: "Library", Cost: 60},
	}, voters)

Voter groups from a form are expanded first:

	voters, err := pbear.ExpandGroups(groups)

Validation errors wrap a sentinel (ErrDuplicateProject, ErrInvalidCost,
ErrIncompleteRanking, ErrWeightOutOfRange, ErrInvalidBudget, ...) in a
*ValidationError; Code maps them to their API names.

# Allocation

	out, err := pbear.Allocate(ctx, inst, pbear.WithLogger(slog.Default()))

Every voter receives an entitlement, weight * budget / total weight. At
approval level l each voter approves her top l projects that are still
live. A project is affordable when the remaining entitlements of its
approvers add up to its cost. The cheapest affordable project (input order
breaks ties) is funded and each approver pays cost * entitlement / support.
When nothing is affordable the level grows by one. Projects costing more
than all remaining entitlement are dropped from consideration.

Outcome.Selected keeps funding order. WithTrace records each round, including
the support of every live project, for display.

# Auditing

CheckIPSC lists solid coalitions whose share of the budget could have paid
for one more of their jointly top-ranked projects. PB-EAR outcomes should
produce none.
*/
package pbear
