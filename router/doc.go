// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Quickly Fund API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(store, cfg)

store may be nil when no archive is configured.

# Endpoints

Health:

	GET /health

Allocation (bounded by cfg.Limits.Timeout):

	POST /allocations - Compute an allocation

Archive:

	GET /allocations      - Recent runs
	GET /allocations/{id}        - One archived run
	GET /allocations/{id}/export - The run as an xlsx workbook

All routes except health and root are wrapped in WithLogging.
*/
package router
