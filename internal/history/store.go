// Package history records lint runs in a local SQLite database so trends can
// be listed across runs.
package history

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/klauern/skilllint/internal/logging"
	"github.com/klauern/skilllint/internal/stats"
)

// DefaultLimit is the number of runs List returns when limit <= 0.
const DefaultLimit = 20

// Run is one recorded lint run.
type Run struct {
	ID         int64
	StartedAt  time.Time
	Duration   time.Duration
	Root       string
	ReportPath string
	Summary    stats.Summary
}

// runRow is the database shape of a Run. Times are unix milliseconds.
type runRow struct {
	ID               int64  `db:"id"`
	StartedAt        int64  `db:"started_at"`
	DurationMs       int64  `db:"duration_ms"`
	Root             string `db:"root"`
	ReportPath       string `db:"report_path"`
	Plugins          int    `db:"plugins"`
	Skills           int    `db:"skills"`
	ValidSkills      int    `db:"valid_skills"`
	SkillsWithIssues int    `db:"skills_with_issues"`
	Critical         int    `db:"critical"`
	High             int    `db:"high"`
	Medium           int    `db:"medium"`
	Low              int    `db:"low"`
}

func toRow(r Run) runRow {
	return runRow{
		ID:               r.ID,
		StartedAt:        r.StartedAt.UnixMilli(),
		DurationMs:       r.Duration.Milliseconds(),
		Root:             r.Root,
		ReportPath:       r.ReportPath,
		Plugins:          r.Summary.Plugins,
		Skills:           r.Summary.Skills,
		ValidSkills:      r.Summary.ValidSkills,
		SkillsWithIssues: r.Summary.SkillsWithIssues,
		Critical:         r.Summary.Critical,
		High:             r.Summary.High,
		Medium:           r.Summary.Medium,
		Low:              r.Summary.Low,
	}
}

func (row runRow) run() Run {
	return Run{
		ID:         row.ID,
		StartedAt:  time.UnixMilli(row.StartedAt),
		Duration:   time.Duration(row.DurationMs) * time.Millisecond,
		Root:       row.Root,
		ReportPath: row.ReportPath,
		Summary: stats.Summary{
			Plugins:          row.Plugins,
			Skills:           row.Skills,
			ValidSkills:      row.ValidSkills,
			SkillsWithIssues: row.SkillsWithIssues,
			Critical:         row.Critical,
			High:             row.High,
			Medium:           row.Medium,
			Low:              row.Low,
		},
	}
}

// Store is a run history database.
type Store struct {
	db *sqlx.DB
}

// Open opens or creates the history database at path and applies pending
// migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping history database: %w", err)
	}
	if err := configure(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to configure history database: %w", err)
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	logging.Debug("history database opened", logging.Path(path))
	return &Store{db: db}, nil
}

func configure(ctx context.Context, db *sqlx.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=memory",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("failed to execute pragma %q: %w", pragma, err)
		}
	}

	db.SetMaxIdleConns(1)
	db.SetMaxOpenConns(1)

	var journalMode string
	if err := db.GetContext(ctx, &journalMode, "PRAGMA journal_mode"); err != nil {
		return fmt.Errorf("failed to query journal mode: %w", err)
	}
	if strings.ToLower(journalMode) != "wal" {
		return fmt.Errorf("WAL mode not enabled, current mode: %s", journalMode)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores a run and returns its ID.
func (s *Store) Record(ctx context.Context, r Run) (int64, error) {
	res, err := s.db.NamedExecContext(ctx, `
		INSERT INTO runs (
			started_at, duration_ms, root, report_path,
			plugins, skills, valid_skills, skills_with_issues,
			critical, high, medium, low
		) VALUES (
			:started_at, :duration_ms, :root, :report_path,
			:plugins, :skills, :valid_skills, :skills_with_issues,
			:critical, :high, :medium, :low
		)`, toRow(r))
	if err != nil {
		return 0, fmt.Errorf("failed to record run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read run id: %w", err)
	}
	logging.Debug("run recorded", "id", id, logging.Path(r.Root))
	return id, nil
}

// List returns the most recent runs, newest first. A non-empty root limits
// the result to runs of that marketplace.
func (s *Store) List(ctx context.Context, root string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	var rows []runRow
	var err error
	if root == "" {
		err = s.db.SelectContext(ctx, &rows,
			`SELECT * FROM runs ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	} else {
		err = s.db.SelectContext(ctx, &rows,
			`SELECT * FROM runs WHERE root = ? ORDER BY started_at DESC, id DESC LIMIT ?`, root, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	runs := make([]Run, len(rows))
	for i, row := range rows {
		runs[i] = row.run()
	}
	return runs, nil
}

// Latest returns the most recent run for root, if any.
func (s *Store) Latest(ctx context.Context, root string) (Run, bool, error) {
	runs, err := s.List(ctx, root, 1)
	if err != nil {
		return Run{}, false, err
	}
	if len(runs) == 0 {
		return Run{}, false, nil
	}
	return runs[0], true, nil
}

// Prune deletes all but the newest keep runs and returns how many were removed.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM runs WHERE id NOT IN (
			SELECT id FROM runs ORDER BY started_at DESC, id DESC LIMIT ?
		)`, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune runs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned runs: %w", err)
	}
	return n, nil
}
