// Package joblog keeps a local, file-backed record of extraction jobs. It is
// operational bookkeeping, not business persistence: one row per document
// processed, with the method, status and timing that diagnostics need.
package joblog

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/tenderdesk/tender-extract/constants"
)

const schema = `
CREATE TABLE IF NOT EXISTS extract_jobs (
	id           TEXT PRIMARY KEY,
	source_path  TEXT NOT NULL,
	format       TEXT NOT NULL,
	method       TEXT,
	status       TEXT NOT NULL,
	warnings     INTEGER NOT NULL DEFAULT 0,
	error        TEXT,
	duration_ms  INTEGER,
	created_at   TIMESTAMP NOT NULL,
	updated_at   TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_extract_jobs_status ON extract_jobs(status);
`

type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Job is one row of the log.
type Job struct {
	ID         uuid.UUID
	SourcePath string
	Format     constants.Format
	Method     string
	Status     constants.JobStatus
	Warnings   int
	Error      string
	DurationMs int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func Open(ctx context.Context, path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open job log: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate job log: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Start inserts a RUNNING row and returns its id.
func (s *Store) Start(ctx context.Context, sourcePath string, format constants.Format) (uuid.UUID, error) {
	id := uuid.New()
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO extract_jobs (id, source_path, format, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id.String(), sourcePath, string(format), string(constants.JobStatusRunning), now, now)
	if err != nil {
		return uuid.Nil, fmt.Errorf("start job: %w", err)
	}
	return id, nil
}

// FinishSuccess marks the job done with its extraction diagnostics.
func (s *Store) FinishSuccess(ctx context.Context, id uuid.UUID, status constants.JobStatus, method string, warnings int, duration time.Duration) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE extract_jobs SET status = ?, method = ?, warnings = ?, duration_ms = ?, updated_at = ? WHERE id = ?`,
		string(status), method, warnings, duration.Milliseconds(), time.Now().UTC(), id.String())
	if err != nil {
		return fmt.Errorf("finish job: %w", err)
	}
	return nil
}

// FinishFailure marks the job failed with the terminal error message.
func (s *Store) FinishFailure(ctx context.Context, id uuid.UUID, errMsg string, duration time.Duration) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE extract_jobs SET status = ?, error = ?, duration_ms = ?, updated_at = ? WHERE id = ?`,
		string(constants.JobStatusFailed), errMsg, duration.Milliseconds(), time.Now().UTC(), id.String())
	if err != nil {
		return fmt.Errorf("fail job: %w", err)
	}
	return nil
}

// GetByID fetches one job row.
func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (*Job, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, source_path, format, COALESCE(method, ''), status, warnings,
		        COALESCE(error, ''), COALESCE(duration_ms, 0), created_at, updated_at
		 FROM extract_jobs WHERE id = ?`, id.String())

	var j Job
	var idStr string
	if err := row.Scan(&idStr, &j.SourcePath, &j.Format, &j.Method, &j.Status,
		&j.Warnings, &j.Error, &j.DurationMs, &j.CreatedAt, &j.UpdatedAt); err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	parsed, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("parse job id: %w", err)
	}
	j.ID = parsed
	return &j, nil
}
