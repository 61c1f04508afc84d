// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/quickly-fund/cliparse"
	"github.com/danielhkuo/quickly-fund/db"
	"github.com/danielhkuo/quickly-fund/handlers"
	"github.com/danielhkuo/quickly-fund/middleware"
)

// NewRouter wires all routes. store may be nil when no archive is configured.
func NewRouter(store *db.RunStore, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	allocationHandler := handlers.NewAllocationHandler(store, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Allocation is bounded by the request timeout; archive reads are not
	mux.HandleFunc("POST /allocations", middleware.WithLogging(
		middleware.WithTimeout(cfg.Limits.Timeout, allocationHandler.Allocate)))
	mux.HandleFunc("GET /allocations", middleware.WithLogging(allocationHandler.ListRuns))
	mux.HandleFunc("GET /allocations/{id}", middleware.WithLogging(allocationHandler.GetRun))
	mux.HandleFunc("GET /allocations/{id}/export", middleware.WithLogging(allocationHandler.ExportRun))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("quickly-fund API v1"))
	})

	return mux
}
