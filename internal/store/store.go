// Package store keeps the import history in Postgres
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/datsun80zx/stockdesk/internal/importer"
	"github.com/lib/pq"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS import_runs (
	id            BIGSERIAL PRIMARY KEY,
	run_id        TEXT NOT NULL UNIQUE,
	kind          TEXT NOT NULL,
	file_name     TEXT NOT NULL,
	file_hash     TEXT NOT NULL,
	total_rows    INTEGER NOT NULL,
	success_count INTEGER NOT NULL,
	failed_count  INTEGER NOT NULL,
	errors        TEXT[] NOT NULL DEFAULT '{}',
	started_at    TIMESTAMPTZ NOT NULL,
	duration_ms   BIGINT NOT NULL,
	recorded_at   TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const insertRunSQL = `
INSERT INTO import_runs
	(run_id, kind, file_name, file_hash, total_rows, success_count, failed_count, errors, started_at, duration_ms)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (run_id) DO NOTHING`

const listRunsSQL = `
SELECT id, run_id, kind, file_name, file_hash, total_rows, success_count, failed_count, errors, started_at, duration_ms
FROM import_runs
ORDER BY started_at DESC
LIMIT $1`

// ImportRun is one stored import
type ImportRun struct {
	ID           int64         `json:"id"`
	RunID        string        `json:"runId"`
	Kind         string        `json:"kind"`
	FileName     string        `json:"fileName"`
	FileHash     string        `json:"fileHash"`
	TotalRows    int           `json:"totalRows"`
	SuccessCount int           `json:"success"`
	FailedCount  int           `json:"failed"`
	Errors       []string      `json:"errors"`
	StartedAt    time.Time     `json:"startedAt"`
	Duration     time.Duration `json:"duration"`
}

// Status is "success" when no row failed and "partial" otherwise
func (r ImportRun) Status() string {
	if r.FailedCount == 0 {
		return "success"
	}
	return "partial"
}

// Store records import runs
type Store struct {
	db *sql.DB
}

// New wraps an open database
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open connects to Postgres and creates the history table if needed
func Open(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	s := New(db)
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Migrate creates the history table
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create import_runs table: %w", err)
	}
	return nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordRun stores a completed import. Recording the same run twice is a no-op.
func (s *Store) RecordRun(ctx context.Context, r *importer.Result) error {
	errs := r.Stats.Errors
	if errs == nil {
		errs = []string{}
	}

	_, err := s.db.ExecContext(ctx, insertRunSQL,
		r.RunID,
		string(r.Kind),
		r.FileName,
		r.FileHash,
		r.TotalRows,
		r.Stats.Success,
		r.Stats.Failed,
		pq.Array(errs),
		r.StartedAt,
		r.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("failed to record import run %s: %w", r.RunID, err)
	}
	return nil
}

// ListRuns returns the most recent runs first
func (s *Store) ListRuns(ctx context.Context, limit int) ([]ImportRun, error) {
	rows, err := s.db.QueryContext(ctx, listRunsSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list import runs: %w", err)
	}
	defer rows.Close()

	var runs []ImportRun
	for rows.Next() {
		var (
			run        ImportRun
			errs       pq.StringArray
			durationMS int64
		)
		if err := rows.Scan(
			&run.ID,
			&run.RunID,
			&run.Kind,
			&run.FileName,
			&run.FileHash,
			&run.TotalRows,
			&run.SuccessCount,
			&run.FailedCount,
			&errs,
			&run.StartedAt,
			&durationMS,
		); err != nil {
			return nil, fmt.Errorf("failed to scan import run: %w", err)
		}
		run.Errors = []string(errs)
		run.Duration = time.Duration(durationMS) * time.Millisecond
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list import runs: %w", err)
	}

	return runs, nil
}
