// Package store is the single place that talks SQL. It serves both the job
// ledger (import_logs) and the destination tables, speaking two dialects:
// Postgres through the pgx stdlib driver for production and SQLite for
// embedded runs and tests.
package store

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite3"
)

// Store owns one database handle. Each import job run opens its own Store so
// destination connections are never shared across concurrent jobs.
type Store struct {
	db     *sql.DB
	driver string
}

// Open connects with the given driver ("pgx" or "sqlite3") and ensures the
// job ledger table exists.
func Open(driver, dsn string) (*Store, error) {
	switch driver {
	case DriverPostgres, DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", driver, err)
	}
	s := &Store{db: db, driver: driver}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the underlying handle.
func (s *Store) Close() error { return s.db.Close() }

// Driver reports the active dialect.
func (s *Store) Driver() string { return s.driver }

// DB exposes the raw handle for callers that need destination-table DDL,
// mainly tests and migration tooling.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) migrate() error {
	var ddl string
	if s.driver == DriverPostgres {
		ddl = `
		CREATE TABLE IF NOT EXISTS import_logs (
			id BIGSERIAL PRIMARY KEY,
			file_name TEXT NOT NULL,
			table_name TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			total_records INTEGER NOT NULL DEFAULT 0,
			successful_records INTEGER NOT NULL DEFAULT 0,
			failed_records INTEGER NOT NULL DEFAULT 0,
			error_message TEXT,
			created_at TIMESTAMPTZ NOT NULL,
			started_at TIMESTAMPTZ,
			completed_at TIMESTAMPTZ
		)`
	} else {
		ddl = `
		CREATE TABLE IF NOT EXISTS import_logs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			file_name TEXT NOT NULL,
			table_name TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			total_records INTEGER NOT NULL DEFAULT 0,
			successful_records INTEGER NOT NULL DEFAULT 0,
			failed_records INTEGER NOT NULL DEFAULT 0,
			error_message TEXT,
			created_at DATETIME NOT NULL,
			started_at DATETIME,
			completed_at DATETIME
		)`
	}
	if _, err := s.db.Exec(ddl); err != nil {
		return fmt.Errorf("creating import_logs: %w", err)
	}
	return nil
}

// rebind rewrites ? placeholders to $1..$n for the Postgres dialect.
func (s *Store) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// quoteIdent double-quotes an identifier. Table names come from the closed
// destination enum and column names from profiles, never from user input.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, ``) + `"`
}
