// Package progress records stage-by-stage status of running analyses so an
// external observer can poll it by task identifier.
package progress

import (
	"context"
	"sync"
	"time"
)

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

type Status string

const (
	StatusNone     Status = ""
	StatusRunning  Status = "running"
	StatusComplete Status = "complete"
	StatusError    Status = "error"
)

// Entry is one append to a task's progress log.
type Entry struct {
	TaskID    string    `json:"task_id"`
	Message   string    `json:"message"`
	Severity  Severity  `json:"severity"`
	Status    Status    `json:"status,omitempty"`
	Step      string    `json:"step,omitempty"`
	Result    string    `json:"result,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Sink accepts progress entries. Implementations must be safe for concurrent use.
type Sink interface {
	AppendProgress(ctx context.Context, e Entry) error
}

// Log is a Sink that can also be read back.
type Log interface {
	Sink
	Progress(ctx context.Context, taskID string) ([]Entry, error)
}

// MemoryLog is an in-process Log keyed by task ID.
type MemoryLog struct {
	mu      sync.RWMutex
	entries map[string][]Entry
	now     func() time.Time
}

func NewMemoryLog() *MemoryLog {
	return &MemoryLog{
		entries: make(map[string][]Entry),
		now:     time.Now,
	}
}

func (l *MemoryLog) AppendProgress(_ context.Context, e Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = l.now()
	}
	if e.Severity == "" {
		e.Severity = SeverityInfo
	}

	l.mu.Lock()
	l.entries[e.TaskID] = append(l.entries[e.TaskID], e)
	l.mu.Unlock()
	return nil
}

// Progress returns a copy of the task's entries in append order.
func (l *MemoryLog) Progress(_ context.Context, taskID string) ([]Entry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	src := l.entries[taskID]
	out := make([]Entry, len(src))
	copy(out, src)
	return out, nil
}

// Reporter binds a Sink to one task. A nil Reporter or one without a Sink
// drops every entry.
type Reporter struct {
	sink   Sink
	taskID string
}

func NewReporter(sink Sink, taskID string) *Reporter {
	return &Reporter{sink: sink, taskID: taskID}
}

// Report appends an entry. Sink errors are returned but callers in the
// pipeline treat them as non-fatal.
func (r *Reporter) Report(ctx context.Context, message string, severity Severity, status Status, step string) error {
	if r == nil || r.sink == nil {
		return nil
	}
	return r.sink.AppendProgress(ctx, Entry{
		TaskID:   r.taskID,
		Message:  message,
		Severity: severity,
		Status:   status,
		Step:     step,
	})
}

// Complete appends the terminal entry carrying result.
func (r *Reporter) Complete(ctx context.Context, message string, result string) error {
	if r == nil || r.sink == nil {
		return nil
	}
	return r.sink.AppendProgress(ctx, Entry{
		TaskID:   r.taskID,
		Message:  message,
		Severity: SeveritySuccess,
		Status:   StatusComplete,
		Result:   result,
	})
}

func (r *Reporter) TaskID() string {
	if r == nil {
		return ""
	}
	return r.taskID
}
