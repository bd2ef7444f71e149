package pgx

import (
	"context"
	"fmt"

	"github.com/OFFIS-RIT/contingency/backend/pkg/progress"
)

const insertProgress = `
INSERT INTO analysis_progress (task_id, message, severity, status, step, result, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

func (s *AnalysisDBStorage) AppendProgress(ctx context.Context, e progress.Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now().UTC()
	}
	if e.Severity == "" {
		e.Severity = progress.SeverityInfo
	}

	_, err := s.conn.Exec(ctx, insertProgress,
		e.TaskID, e.Message, string(e.Severity), string(e.Status), e.Step, e.Result, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append progress for %s: %w", e.TaskID, err)
	}
	return nil
}

const selectProgress = `
SELECT task_id, message, severity, status, step, result, created_at
FROM analysis_progress
WHERE task_id = $1
ORDER BY id ASC`

func (s *AnalysisDBStorage) Progress(ctx context.Context, taskID string) ([]progress.Entry, error) {
	rows, err := s.conn.Query(ctx, selectProgress, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to read progress for %s: %w", taskID, err)
	}
	defer rows.Close()

	out := make([]progress.Entry, 0)
	for rows.Next() {
		var (
			e        progress.Entry
			severity string
			status   string
		)
		if err := rows.Scan(&e.TaskID, &e.Message, &severity, &status, &e.Step, &e.Result, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Severity = progress.Severity(severity)
		e.Status = progress.Status(status)
		out = append(out, e)
	}
	return out, rows.Err()
}
