package pgx

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/OFFIS-RIT/contingency/backend/pkg/store"
	"github.com/google/uuid"
	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type pgxIConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, optionsAndArgs ...any) (pgxv5.Rows, error)
	QueryRow(ctx context.Context, sql string, optionsAndArgs ...any) pgxv5.Row
}

// AnalysisDBStorage implements store.AnalysisStorage on PostgreSQL. The
// schema is owned by the migrations in internal/db.
type AnalysisDBStorage struct {
	conn   pgxIConn
	now    func() time.Time
	newID  func() string
	dbLock sync.Mutex
}

var _ store.AnalysisStorage = (*AnalysisDBStorage)(nil)

type AnalysisDBStorageOption func(*AnalysisDBStorage)

// WithClock overrides the timestamp source used for created_at.
func WithClock(now func() time.Time) AnalysisDBStorageOption {
	return func(s *AnalysisDBStorage) {
		s.now = now
	}
}

// WithIDGenerator overrides the analysis UUID generator.
func WithIDGenerator(newID func() string) AnalysisDBStorageOption {
	return func(s *AnalysisDBStorage) {
		s.newID = newID
	}
}

// NewAnalysisDBStorageWithConnection creates an AnalysisDBStorage on an
// existing connection or pool.
func NewAnalysisDBStorageWithConnection(
	conn pgxIConn,
	opts ...AnalysisDBStorageOption,
) *AnalysisDBStorage {
	s := &AnalysisDBStorage{
		conn:  conn,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s
}

const insertAnalysis = `
INSERT INTO analyses (uuid, name, analysis_data, created_at)
VALUES ($1, $2, $3, $4)`

func (s *AnalysisDBStorage) SaveAnalysis(ctx context.Context, name string, data []byte) (string, error) {
	id := s.newID()

	s.dbLock.Lock()
	defer s.dbLock.Unlock()

	if _, err := s.conn.Exec(ctx, insertAnalysis, id, name, string(data), s.now().UTC()); err != nil {
		return "", fmt.Errorf("failed to insert analysis: %w", err)
	}
	return id, nil
}

const selectAnalysis = `
SELECT uuid, name, analysis_data, created_at
FROM analyses
WHERE uuid = $1`

func (s *AnalysisDBStorage) GetAnalysis(ctx context.Context, id string) (*store.Analysis, error) {
	var a store.Analysis
	err := s.conn.QueryRow(ctx, selectAnalysis, id).Scan(&a.UUID, &a.Name, &a.Data, &a.CreatedAt)
	if errors.Is(err, pgxv5.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load analysis %s: %w", id, err)
	}
	return &a, nil
}

const listAnalyses = `
SELECT uuid, name, created_at
FROM analyses
ORDER BY created_at DESC`

func (s *AnalysisDBStorage) ListAnalyses(ctx context.Context) ([]store.AnalysisSummary, error) {
	rows, err := s.conn.Query(ctx, listAnalyses)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	out := make([]store.AnalysisSummary, 0)
	for rows.Next() {
		var a store.AnalysisSummary
		if err := rows.Scan(&a.UUID, &a.Name, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
