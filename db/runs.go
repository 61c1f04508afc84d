// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/quickly-fund/models"
)

var ErrRunNotFound = errors.New("run not found")

// RunStore archives allocation runs. The engine never reads from it.
type RunStore struct {
	db     *sql.DB
	dbType string
}

// NewRunStore creates the schema if needed and returns a store over conn
func NewRunStore(conn *sql.DB, dbType string) (*RunStore, error) {
	if err := CreateSchema(conn); err != nil {
		return nil, err
	}
	return &RunStore{db: conn, dbType: dbType}, nil
}

func (s *RunStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveRun inserts one run; ids are unique
func (s *RunStore) SaveRun(ctx context.Context, run models.Run) error {
	request, err := json.Marshal(run.Request)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}
	result, err := json.Marshal(run.Result)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	_, err = s.db.ExecContext(ctx, rebind(s.dbType, `
		INSERT INTO allocation_run (id, budget, project_count, voter_count, selected_count,
		                            total_spent, request, result, computed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`), run.ID, run.Budget, run.ProjectCount, run.VoterCount, len(run.Result.Selected),
		run.Result.TotalSpent, string(request), string(result), run.ComputedAt.UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

// GetRun returns ErrRunNotFound for unknown ids
func (s *RunStore) GetRun(ctx context.Context, id string) (models.Run, error) {
	var run models.Run
	var request, result string
	var computedAt int64

	err := s.db.QueryRowContext(ctx, rebind(s.dbType, `
		SELECT id, budget, project_count, voter_count, request, result, computed_at
		FROM allocation_run
		WHERE id = ?
	`), id).Scan(&run.ID, &run.Budget, &run.ProjectCount, &run.VoterCount, &request, &result, &computedAt)
	if err == sql.ErrNoRows {
		return models.Run{}, ErrRunNotFound
	}
	if err != nil {
		return models.Run{}, fmt.Errorf("failed to query run: %w", err)
	}

	if err := json.Unmarshal([]byte(request), &run.Request); err != nil {
		return models.Run{}, fmt.Errorf("failed to decode request: %w", err)
	}
	if err := json.Unmarshal([]byte(result), &run.Result); err != nil {
		return models.Run{}, fmt.Errorf("failed to decode result: %w", err)
	}
	run.ComputedAt = time.UnixMilli(computedAt).UTC()
	return run, nil
}

// ListRuns returns up to limit runs, newest first
func (s *RunStore) ListRuns(ctx context.Context, limit int) ([]models.RunSummary, error) {
	rows, err := s.db.QueryContext(ctx, rebind(s.dbType, `
		SELECT id, budget, project_count, voter_count, selected_count, total_spent, computed_at
		FROM allocation_run
		ORDER BY computed_at DESC, id
		LIMIT ?
	`), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	runs := []models.RunSummary{}
	for rows.Next() {
		var r models.RunSummary
		var computedAt int64
		if err := rows.Scan(&r.ID, &r.Budget, &r.ProjectCount, &r.VoterCount,
			&r.SelectedCount, &r.TotalSpent, &computedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.ComputedAt = time.UnixMilli(computedAt).UTC()
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
