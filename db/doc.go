// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db stores computed allocations so they can be fetched later.

The archive is optional and write-only from the engine's point of view:
nothing it holds feeds back into an allocation.

# Connecting

	conn, err := db.Connect(db.TypeSQLite, "quickly-fund.db")
	store, err := db.NewRunStore(conn, db.TypeSQLite)

NewRunStore creates the schema. Safe to call multiple times - uses IF NOT
EXISTS for all tables and indexes. SQLite (modernc.org/sqlite) and
PostgreSQL (lib/pq) share the same statements; ? placeholders are rewritten
for PostgreSQL.

# Tables

  - allocation_run: one row per run with the request and response as JSON,
    a few summary columns for listing, and computed_at in epoch milliseconds

# Indexes

  - allocation_run.computed_at
*/
package db
