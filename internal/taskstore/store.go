package taskstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNotFound indicates no run matched the query.
var ErrNotFound = errors.New("run not found")

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id            TEXT PRIMARY KEY,
    task_id       TEXT NOT NULL,
    theme         TEXT,
    title         TEXT,
    style         TEXT,
    model         TEXT,
    status        TEXT NOT NULL,
    audio_file    TEXT,
    video_file    TEXT,
    error_message TEXT,
    created_at    TEXT NOT NULL,
    updated_at    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_task_id ON runs (task_id);
`

// Store persists pipeline run history backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the run database at dbPath.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("ensure state directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db, path: dbPath}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// NewRun records a freshly submitted task and returns the run with its
// generated identifier.
func (s *Store) NewRun(ctx context.Context, taskID, theme, title, style, model string) (*Run, error) {
	if taskID == "" {
		return nil, errors.New("task id must not be empty")
	}
	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)
	runID := uuid.New().String()

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO runs (
            id, task_id, theme, title, style, model, status, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID,
		taskID,
		nullableString(theme),
		nullableString(title),
		nullableString(style),
		nullableString(model),
		StatusSubmitted,
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}

	return s.GetByID(ctx, runID)
}

// UpdateStatus sets the run's status and optional error message.
func (s *Store) UpdateStatus(ctx context.Context, runID string, status Status, errorMessage string) error {
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE runs SET status = ?, error_message = ?, updated_at = ? WHERE id = ?`,
		status,
		nullableString(errorMessage),
		time.Now().UTC().Format(time.RFC3339Nano),
		runID,
	)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	return requireAffected(res)
}

// SetArtifacts records the artifact paths produced by a run. Empty paths
// leave the stored value untouched.
func (s *Store) SetArtifacts(ctx context.Context, runID, audioFile, videoFile string) error {
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE runs SET
            audio_file = COALESCE(?, audio_file),
            video_file = COALESCE(?, video_file),
            updated_at = ?
        WHERE id = ?`,
		nullableString(audioFile),
		nullableString(videoFile),
		time.Now().UTC().Format(time.RFC3339Nano),
		runID,
	)
	if err != nil {
		return fmt.Errorf("set artifacts: %w", err)
	}
	return requireAffected(res)
}

const runColumns = "id, task_id, theme, title, style, model, status, audio_file, video_file, error_message, created_at, updated_at"

// GetByID fetches a run by its identifier.
func (s *Store) GetByID(ctx context.Context, runID string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// GetByTaskID fetches the most recent run for a task handle.
func (s *Store) GetByTaskID(ctx context.Context, taskID string) (*Run, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+runColumns+` FROM runs WHERE task_id = ? ORDER BY rowid DESC LIMIT 1`,
		taskID,
	)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get run by task: %w", err)
	}
	return run, nil
}

// Latest returns the most recently created run.
func (s *Store) Latest(ctx context.Context) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY rowid DESC LIMIT 1`)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("latest run: %w", err)
	}
	return run, nil
}

// List returns runs newest first, capped at limit. A non-positive limit
// returns everything.
func (s *Store) List(ctx context.Context, limit int) ([]*Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		id           string
		taskID       string
		theme        sql.NullString
		title        sql.NullString
		style        sql.NullString
		model        sql.NullString
		statusStr    string
		audioFile    sql.NullString
		videoFile    sql.NullString
		errorMessage sql.NullString
		createdRaw   string
		updatedRaw   string
	)

	if err := scanner.Scan(
		&id,
		&taskID,
		&theme,
		&title,
		&style,
		&model,
		&statusStr,
		&audioFile,
		&videoFile,
		&errorMessage,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	run := &Run{
		ID:           id,
		TaskID:       taskID,
		Theme:        theme.String,
		Title:        title.String,
		Style:        style.String,
		Model:        model.String,
		Status:       Status(statusStr),
		AudioFile:    audioFile.String,
		VideoFile:    videoFile.String,
		ErrorMessage: errorMessage.String,
	}
	if created, err := time.Parse(time.RFC3339Nano, createdRaw); err == nil {
		run.CreatedAt = created
	}
	if updated, err := time.Parse(time.RFC3339Nano, updatedRaw); err == nil {
		run.UpdatedAt = updated
	}
	return run, nil
}

func requireAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
