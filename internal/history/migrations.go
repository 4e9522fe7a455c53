package history

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// migration is one schema change, versioned YYYYMMDDHHmmss.
type migration struct {
	version     int64
	description string
	statements  []string
}

var migrations = []migration{
	{
		version:     20261001090000,
		description: "create runs",
		statements: []string{
			`CREATE TABLE IF NOT EXISTS runs (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				started_at INTEGER NOT NULL,
				duration_ms INTEGER NOT NULL DEFAULT 0,
				root TEXT NOT NULL,
				report_path TEXT NOT NULL DEFAULT '',
				plugins INTEGER NOT NULL DEFAULT 0,
				skills INTEGER NOT NULL DEFAULT 0,
				valid_skills INTEGER NOT NULL DEFAULT 0,
				skills_with_issues INTEGER NOT NULL DEFAULT 0,
				critical INTEGER NOT NULL DEFAULT 0,
				high INTEGER NOT NULL DEFAULT 0,
				medium INTEGER NOT NULL DEFAULT 0,
				low INTEGER NOT NULL DEFAULT 0
			)`,
		},
	},
	{
		version:     20261001090100,
		description: "index runs by root",
		statements: []string{
			`CREATE INDEX IF NOT EXISTS idx_runs_root_started ON runs (root, started_at DESC)`,
		},
	},
}

// migrate applies pending migrations in version order, each in its own
// transaction.
func migrate(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at INTEGER NOT NULL,
			description TEXT
		)`); err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	var versions []int64
	if err := db.SelectContext(ctx, &versions, "SELECT version FROM schema_migrations"); err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}
	applied := make(map[int64]bool, len(versions))
	for _, v := range versions {
		applied[v] = true
	}

	for _, m := range migrations {
		if applied[m.version] {
			continue
		}
		if err := apply(ctx, db, m); err != nil {
			return fmt.Errorf("failed to apply migration %d (%s): %w", m.version, m.description, err)
		}
	}
	return nil
}

func apply(ctx context.Context, db *sqlx.DB, m migration) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range m.statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO schema_migrations (version, applied_at, description) VALUES (?, ?, ?)",
		m.version, time.Now().UnixMilli(), m.description); err != nil {
		return err
	}
	return tx.Commit()
}
