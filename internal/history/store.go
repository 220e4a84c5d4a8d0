package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Status is the outcome of one run.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Run is one generation attempt for one video.
type Run struct {
	ID          string
	SourcePath  string
	OutputPath  string
	Mode        string
	ChineseID   string
	SecondaryID string
	CueCount    int
	FusedCount  int
	Status      Status
	Error       string
	Duration    time.Duration
	CreatedAt   time.Time
}

// Store wraps the SQLite run ledger.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("history path is required")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database location.
func (s *Store) Path() string {
	return s.path
}

// Record inserts a run. Missing IDs and timestamps are filled in and the
// stored run is returned.
func (s *Store) Record(ctx context.Context, run Run) (Run, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	if run.Status == "" {
		run.Status = StatusSucceeded
	}
	run.CreatedAt = run.CreatedAt.UTC()

	_, err := s.db.ExecContext(ctx, `INSERT INTO runs (
		id, source_path, output_path, mode, chinese_id, secondary_id,
		cue_count, fused_count, status, error_message, duration_ms, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.SourcePath,
		nullableString(run.OutputPath),
		run.Mode,
		run.ChineseID,
		nullableString(run.SecondaryID),
		run.CueCount,
		run.FusedCount,
		string(run.Status),
		nullableString(run.Error),
		run.Duration.Milliseconds(),
		run.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Run{}, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}

// List returns up to limit runs, newest first. A non-positive limit returns all runs.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT id, source_path, output_path, mode, chinese_id, secondary_id,
		cue_count, fused_count, status, error_message, duration_ms, created_at
		FROM runs ORDER BY created_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// Prune deletes runs created before cutoff and reports how many were removed.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM runs WHERE created_at < ?", cutoff.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune rows affected: %w", err)
	}
	return n, nil
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (Run, error) {
	var (
		run         Run
		outputPath  sql.NullString
		secondaryID sql.NullString
		errorMsg    sql.NullString
		status      string
		durationMS  int64
		createdAt   string
	)
	if err := scanner.Scan(
		&run.ID,
		&run.SourcePath,
		&outputPath,
		&run.Mode,
		&run.ChineseID,
		&secondaryID,
		&run.CueCount,
		&run.FusedCount,
		&status,
		&errorMsg,
		&durationMS,
		&createdAt,
	); err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.OutputPath = outputPath.String
	run.SecondaryID = secondaryID.String
	run.Error = errorMsg.String
	run.Status = Status(status)
	run.Duration = time.Duration(durationMS) * time.Millisecond
	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return Run{}, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	run.CreatedAt = ts
	return run, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
