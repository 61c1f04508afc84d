// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# CLI Flags

	-p          Server port (default 3318)
	-d          Database URL for the run archive
	-t          Database type, sqlite or postgres (default sqlite)
	-c          TOML limits file
	-i          Allocate this JSON instance and exit
	-o          With -i, also write an xlsx workbook
	-log-level  debug, info, warn or error

# Environment Variables

Flags fall back to environment variables:

	PORT          → -p
	DATABASE_URL  → -d
	DATABASE_TYPE → -t
	CONFIG_FILE   → -c
	LOG_LEVEL     → -log-level

CLI flags take precedence over environment variables.

# Limits File

Request limits come from the [limits] table; keys left out keep their
defaults and unknown keys are rejected:

	[limits]
	max_projects = 200
	max_voters = 100000
	timeout_ms = 10000
	max_body_bytes = 8388608
	audit_max_group_size = 10
*/
package cliparse
