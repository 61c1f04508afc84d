// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/quickly-fund/cliparse"
	"github.com/danielhkuo/quickly-fund/db"
	"github.com/danielhkuo/quickly-fund/middleware"
	"github.com/danielhkuo/quickly-fund/models"
	"github.com/danielhkuo/quickly-fund/pbear"
	"github.com/danielhkuo/quickly-fund/report"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type AllocationHandler struct {
	store *db.RunStore
	cfg   cliparse.Config
}

// NewAllocationHandler creates the allocation handler. store may be nil,
// in which case runs are not archived.
func NewAllocationHandler(store *db.RunStore, cfg cliparse.Config) *AllocationHandler {
	return &AllocationHandler{store: store, cfg: cfg}
}

// Allocate handles POST /allocations
func (h *AllocationHandler) Allocate(w http.ResponseWriter, r *http.Request) {
	var req models.AllocateRequest
	if err := middleware.ParseJSONBody(w, r, &req, h.cfg.Limits.MaxBodyBytes); err != nil {
		if errors.Is(err, middleware.ErrBodyTooLarge) {
			middleware.ErrorResponse(w, http.StatusRequestEntityTooLarge, err.Error())
			return
		}
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	resp, err := Compute(r.Context(), req, h.cfg.Limits, slog.Default())
	if err != nil {
		h.writeComputeError(w, err)
		return
	}

	if h.store != nil {
		// The outcome is already computed; a failed save only loses history.
		if err := h.store.SaveRun(context.WithoutCancel(r.Context()), NewRun(req, resp)); err != nil {
			slog.Error("failed to archive run", "run_id", resp.RunID, "error", err)
		}
	}

	slog.Info("allocation computed",
		"run_id", resp.RunID,
		"selected", len(resp.Selected),
		"total_spent", resp.TotalSpent,
	)

	middleware.JSONResponse(w, http.StatusOK, resp)
}

func (h *AllocationHandler) writeComputeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrTooLarge):
		middleware.ErrorResponse(w, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		slog.Warn("allocation abandoned", "error", err)
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "Allocation timed out")
	case pbear.IsInputError(err):
		middleware.CodedErrorResponse(w, http.StatusBadRequest, pbear.Code(err), err.Error())
	default:
		slog.Error("allocation failed", "error", err)
		middleware.CodedErrorResponse(w, http.StatusInternalServerError, pbear.Code(err), "Allocation failed")
	}
}

// GetRun handles GET /allocations/{id}
func (h *AllocationHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	if h.store == nil {
		middleware.ErrorResponse(w, http.StatusNotFound, "Run archive is disabled")
		return
	}

	run, err := h.store.GetRun(r.Context(), id)
	if errors.Is(err, db.ErrRunNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Run not found")
		return
	}
	if err != nil {
		slog.Error("failed to load run", "run_id", id, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, run)
}

// ExportRun handles GET /allocations/{id}/export
func (h *AllocationHandler) ExportRun(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	if h.store == nil {
		middleware.ErrorResponse(w, http.StatusNotFound, "Run archive is disabled")
		return
	}

	run, err := h.store.GetRun(r.Context(), id)
	if errors.Is(err, db.ErrRunNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Run not found")
		return
	}
	if err != nil {
		slog.Error("failed to load run", "run_id", id, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	// Render first so a failure can still be reported as JSON
	var buf bytes.Buffer
	if err := report.WriteWorkbook(&buf, run.Result); err != nil {
		slog.Error("failed to export run", "run_id", id, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Export failed")
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"allocation-%s.xlsx\"", id))
	w.Header().Set("Content-Type", xlsxContentType)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// ListRuns handles GET /allocations
func (h *AllocationHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			middleware.ErrorResponse(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxListLimit)
	}

	if h.store == nil {
		middleware.ErrorResponse(w, http.StatusNotFound, "Run archive is disabled")
		return
	}

	runs, err := h.store.ListRuns(r.Context(), limit)
	if err != nil {
		slog.Error("failed to list runs", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ListRunsResponse{Runs: runs})
}

// NewRun packages a computed request for the archive
func NewRun(req models.AllocateRequest, resp models.AllocateResponse) models.Run {
	return models.Run{
		ID:           resp.RunID,
		Budget:       resp.Budget,
		ProjectCount: resp.ProjectCount,
		VoterCount:   resp.VoterCount,
		Request:      req,
		Result:       resp,
		ComputedAt:   resp.ComputedAt,
	}
}
