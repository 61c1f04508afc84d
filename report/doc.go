// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package report renders allocation results as plain-text tables for terminals.

	report.FormatOutcome(os.Stdout, resp)

Amounts go through Money, which groups thousands and keeps at most two
decimals. When a response carries a round trace, each round is printed as

	Round 1 (level 1): funded D, charged 40 to 70 approvers, 100 entitlement remaining
	Project | Support | Cost
	A       | 15      | 50
	...
*/
package report
