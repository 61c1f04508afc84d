// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/danielhkuo/quickly-fund/models"
	"github.com/dustin/go-humanize"
)

// Money renders an amount with thousands separators and at most two decimals
func Money(v float64) string {
	return humanize.CommafWithDigits(v, 2)
}

// FormatOutcome writes the selected projects as an aligned table followed by
// the spend summary. The round trace and audit are appended when present.
func FormatOutcome(w io.Writer, resp models.AllocateResponse) error {
	fmt.Fprintf(w, "Run %s, budget %s\n\n", resp.RunID, Money(resp.Budget))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tProject\tCost")
	for i, p := range resp.Selected {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", i+1, p.Name, Money(p.Cost))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if len(resp.Selected) == 0 {
		fmt.Fprintln(w, "(nothing funded)")
	}

	fmt.Fprintf(w, "\nTotal spent: %s\nLeftover:    %s\n", Money(resp.TotalSpent), Money(resp.Leftover))

	if len(resp.Rounds) > 0 {
		fmt.Fprintln(w)
		if err := FormatTrace(w, resp.Rounds); err != nil {
			return err
		}
	}

	if resp.IPSCViolations != nil {
		fmt.Fprintln(w)
		formatViolations(w, *resp.IPSCViolations)
	}
	return nil
}

// FormatTrace writes one block per round: a header line and the supports of
// the live projects as a "Project | Support | Cost" table.
func FormatTrace(w io.Writer, rounds []models.Round) error {
	for i, r := range rounds {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if r.Funded != "" {
			fmt.Fprintf(w, "Round %d (level %d): funded %s, charged %s to %d approvers, %s entitlement remaining\n",
				i+1, r.Level, r.Funded, Money(r.Charged), r.Approvers, Money(r.Remaining))
		} else {
			fmt.Fprintf(w, "Round %d (level %d): nothing affordable, expanding approvals\n", i+1, r.Level)
		}

		tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
		fmt.Fprintln(tw, "Project\t| Support\t| Cost")
		for _, s := range r.Supports {
			fmt.Fprintf(tw, "%s\t| %s\t| %s\n", s.Name, Money(s.Support), Money(s.Cost))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func formatViolations(w io.Writer, violations []models.Violation) {
	if len(violations) == 0 {
		fmt.Fprintln(w, "Inclusion-PSC audit: no violations")
		return
	}
	fmt.Fprintf(w, "Inclusion-PSC audit: %d violation(s)\n", len(violations))
	for _, v := range violations {
		fmt.Fprintf(w, "  group {%s}: %s (cost %s) fits share %s with %s already funded\n",
			strings.Join(v.Group, ", "), v.Project, Money(v.Cost), Money(v.Share), Money(v.SelectedCost))
	}
}
