// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Quickly Fund API server.

Quickly Fund allocates a participatory budget among proposed projects using
PB-EAR (Expanding Approvals Rule), given voters' complete rankings and
weights. See package pbear for the method itself.

# Starting the Server

No configuration is required:

	go run .

Or with flags:

	go run . -p 3318 -d quickly-fund.db -c limits.toml

# One-Shot Mode

Allocate a single instance and exit:

	go run . -i instance.json

The outcome is printed as a table on a terminal and as JSON otherwise, so
it can be piped into other tools. Add -o outcome.xlsx to also write a
workbook.

# Configuration

All settings are optional:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_URL (-d): Run archive; empty disables archiving
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - CONFIG_FILE (-c): TOML file with request limits
  - LOG_LEVEL (-log-level): debug, info, warn or error

A .env file in the working directory is loaded before flags are parsed.

# Architecture

  - pbear: Instance validation, the allocation engine and the IPSC audit
  - handlers: HTTP request handlers and the shared Compute entry point
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, timeouts, JSON helpers
  - models: Request/response types
  - db: Run archive on SQLite or PostgreSQL
  - report: Text tables for terminals
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
