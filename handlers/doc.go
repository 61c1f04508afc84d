// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Quickly Fund API.

# AllocationHandler

AllocationHandler takes an optional run archive and the config:

	allocationHandler := handlers.NewAllocationHandler(store, cfg)

	POST /allocations      → Allocate
	GET  /allocations      → ListRuns (?limit=, newest first)
	GET  /allocations/{id} → GetRun
	GET  /allocations/{id}/export → ExportRun (xlsx)

With a nil store nothing is archived and the read routes answer 404.

# Status Codes

  - 400: malformed JSON or an invalid instance; code names the cause
  - 413: body or instance larger than the configured limits
  - 503: the request deadline passed before the allocation finished
  - 500: internal computation error

# Compute

Compute is the request pipeline without HTTP: limit checks, group
expansion, validation, allocation, then the optional trace and audit. The
one-shot CLI calls it directly:

	resp, err := handlers.Compute(ctx, req, cfg.Limits, slog.Default())
*/
package handlers
