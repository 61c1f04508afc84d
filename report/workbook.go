// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/danielhkuo/quickly-fund/models"
	"github.com/xuri/excelize/v2"
)

// Sheet names of an exported workbook
const (
	SheetSelected = "Selected"
	SheetVoters   = "Voters"
	SheetRounds   = "Rounds"
)

// WriteWorkbook exports an outcome as an xlsx workbook: the funded projects
// with a spend summary, the voter groups and, when traced, one row per
// project per round.
func WriteWorkbook(w io.Writer, resp models.AllocateResponse) error {
	wb := excelize.NewFile()
	defer wb.Close()

	if err := wb.SetSheetName("Sheet1", SheetSelected); err != nil {
		return err
	}

	rows := [][]interface{}{{"#", "Project", "Cost"}}
	for i, p := range resp.Selected {
		rows = append(rows, []interface{}{i + 1, p.Name, p.Cost})
	}
	rows = append(rows,
		[]interface{}{},
		[]interface{}{"", "Budget", resp.Budget},
		[]interface{}{"", "Total spent", resp.TotalSpent},
		[]interface{}{"", "Leftover", resp.Leftover},
	)
	if err := writeRows(wb, SheetSelected, rows); err != nil {
		return err
	}

	rows = [][]interface{}{{"Count", "Weight", "Ranking"}}
	for _, g := range resp.VoterSummary {
		rows = append(rows, []interface{}{g.Count, g.Weight, strings.Join(g.Ranking, " > ")})
	}
	if _, err := wb.NewSheet(SheetVoters); err != nil {
		return err
	}
	if err := writeRows(wb, SheetVoters, rows); err != nil {
		return err
	}

	if len(resp.Rounds) > 0 {
		rows = [][]interface{}{{"Round", "Level", "Funded", "Project", "Support", "Cost"}}
		for i, r := range resp.Rounds {
			for _, s := range r.Supports {
				rows = append(rows, []interface{}{i + 1, r.Level, r.Funded, s.Name, s.Support, s.Cost})
			}
		}
		if _, err := wb.NewSheet(SheetRounds); err != nil {
			return err
		}
		if err := writeRows(wb, SheetRounds, rows); err != nil {
			return err
		}
	}

	if err := wb.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeRows(wb *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := wb.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
