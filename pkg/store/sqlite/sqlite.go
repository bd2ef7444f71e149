// Package sqlite implements store.AnalysisStorage on an embedded SQLite
// database, for the CLI and single-node deployments.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/OFFIS-RIT/contingency/backend/pkg/progress"
	"github.com/OFFIS-RIT/contingency/backend/pkg/store"
	"github.com/google/uuid"

	_ "github.com/mattn/go-sqlite3"
)

// Timestamps are stored as fixed-width UTC text so they sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

type AnalysisSQLiteStorage struct {
	db  *sql.DB
	now func() time.Time
}

var _ store.AnalysisStorage = (*AnalysisSQLiteStorage)(nil)

// NewAnalysisSQLiteStorage opens or creates the database at path and makes
// sure the schema exists.
func NewAnalysisSQLiteStorage(ctx context.Context, path string) (*AnalysisSQLiteStorage, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// sqlite serialises writers; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	s := &AnalysisSQLiteStorage{db: db, now: time.Now}
	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}
	return s, nil
}

func (s *AnalysisSQLiteStorage) Close() error {
	return s.db.Close()
}

func (s *AnalysisSQLiteStorage) initSchema(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS analyses (
			uuid TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			analysis_data TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS analysis_progress (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			task_id TEXT NOT NULL,
			message TEXT NOT NULL,
			severity TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT '',
			step TEXT NOT NULL DEFAULT '',
			result TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_analysis_progress_task ON analysis_progress(task_id);`,
	}

	for _, q := range queries {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

func (s *AnalysisSQLiteStorage) SaveAnalysis(ctx context.Context, name string, data []byte) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO analyses (uuid, name, analysis_data, created_at)
		VALUES (?, ?, ?, ?)
	`, id, name, string(data), s.now().UTC().Format(timeLayout))
	if err != nil {
		return "", fmt.Errorf("failed to insert analysis: %w", err)
	}
	return id, nil
}

func (s *AnalysisSQLiteStorage) GetAnalysis(ctx context.Context, id string) (*store.Analysis, error) {
	var (
		a       store.Analysis
		created string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT uuid, name, analysis_data, created_at FROM analyses WHERE uuid = ?
	`, id).Scan(&a.UUID, &a.Name, &a.Data, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load analysis %s: %w", id, err)
	}

	a.CreatedAt, err = time.Parse(timeLayout, created)
	if err != nil {
		return nil, fmt.Errorf("invalid created_at for analysis %s: %w", id, err)
	}
	return &a, nil
}

func (s *AnalysisSQLiteStorage) ListAnalyses(ctx context.Context) ([]store.AnalysisSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT uuid, name, created_at FROM analyses ORDER BY created_at DESC, rowid DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	out := make([]store.AnalysisSummary, 0)
	for rows.Next() {
		var (
			a       store.AnalysisSummary
			created string
		)
		if err := rows.Scan(&a.UUID, &a.Name, &created); err != nil {
			return nil, err
		}
		if a.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
			return nil, fmt.Errorf("invalid created_at for analysis %s: %w", a.UUID, err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *AnalysisSQLiteStorage) AppendProgress(ctx context.Context, e progress.Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now()
	}
	if e.Severity == "" {
		e.Severity = progress.SeverityInfo
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO analysis_progress (task_id, message, severity, status, step, result, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, e.TaskID, e.Message, string(e.Severity), string(e.Status), e.Step, e.Result,
		e.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("failed to append progress for %s: %w", e.TaskID, err)
	}
	return nil
}

func (s *AnalysisSQLiteStorage) Progress(ctx context.Context, taskID string) ([]progress.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT task_id, message, severity, status, step, result, created_at
		FROM analysis_progress WHERE task_id = ? ORDER BY id ASC
	`, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to read progress for %s: %w", taskID, err)
	}
	defer rows.Close()

	out := make([]progress.Entry, 0)
	for rows.Next() {
		var (
			e                         progress.Entry
			severity, status, created string
		)
		if err := rows.Scan(&e.TaskID, &e.Message, &severity, &status, &e.Step, &e.Result, &created); err != nil {
			return nil, err
		}
		e.Severity = progress.Severity(severity)
		e.Status = progress.Status(status)
		if e.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
