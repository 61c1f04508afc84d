// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported database types
const (
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
)

// Connect opens and pings the archive database.
// SQLite is limited to one connection so ":memory:" databases are shared.
func Connect(dbType, url string) (*sql.DB, error) {
	var driver string
	switch dbType {
	case TypeSQLite:
		driver = "sqlite"
	case TypePostgres:
		driver = "postgres"
	default:
		return nil, fmt.Errorf("unsupported database type %q", dbType)
	}

	conn, err := sql.Open(driver, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbType == TypeSQLite {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return conn, nil
}

// CreateSchema creates all tables needed for the run archive.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// Statements run one at a time; not every driver accepts batches.
// TEXT payloads and epoch-millisecond timestamps read back the same on both drivers.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS allocation_run (
    id TEXT PRIMARY KEY,
    budget DOUBLE PRECISION NOT NULL,
    project_count INTEGER NOT NULL,
    voter_count INTEGER NOT NULL,
    selected_count INTEGER NOT NULL,
    total_spent DOUBLE PRECISION NOT NULL,
    request TEXT NOT NULL,
    result TEXT NOT NULL,
    computed_at BIGINT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_allocation_run_computed_at ON allocation_run(computed_at)`,
}

// rebind rewrites ? placeholders as $1, $2, ... for postgres
func rebind(dbType, query string) string {
	if dbType != TypePostgres {
		return query
	}

	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
