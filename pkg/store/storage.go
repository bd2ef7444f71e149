package store

import (
	"context"
	"errors"
	"time"

	"github.com/OFFIS-RIT/contingency/backend/pkg/progress"
)

// ErrNotFound is returned when no analysis matches the requested UUID.
var ErrNotFound = errors.New("analysis not found")

// Analysis is a persisted contingency network document.
type Analysis struct {
	UUID      string    `json:"uuid"`
	Name      string    `json:"name"`
	Data      string    `json:"analysis_data"`
	CreatedAt time.Time `json:"created_at"`
}

// AnalysisSummary is an Analysis without its document, used for listings.
type AnalysisSummary struct {
	UUID      string    `json:"uuid"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// AnalysisStorage persists finished analyses and the progress log shared
// between the API server and the workers.
type AnalysisStorage interface {
	progress.Log

	// SaveAnalysis stores data under a fresh UUID and returns it.
	SaveAnalysis(ctx context.Context, name string, data []byte) (string, error)
	// GetAnalysis returns ErrNotFound when uuid is unknown.
	GetAnalysis(ctx context.Context, uuid string) (*Analysis, error)
	// ListAnalyses returns every analysis, newest first.
	ListAnalyses(ctx context.Context) ([]AnalysisSummary, error)
}
