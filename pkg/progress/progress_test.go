package progress

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLog_AppendAndRead(t *testing.T) {
	ctx := context.Background()
	log := NewMemoryLog()

	require.NoError(t, log.AppendProgress(ctx, Entry{TaskID: "t1", Message: "queued"}))
	require.NoError(t, log.AppendProgress(ctx, Entry{TaskID: "t2", Message: "other"}))
	require.NoError(t, log.AppendProgress(ctx, Entry{TaskID: "t1", Message: "subjects", Status: StatusRunning}))

	entries, err := log.Progress(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "queued", entries[0].Message)
	assert.Equal(t, SeverityInfo, entries[0].Severity)
	assert.False(t, entries[0].CreatedAt.IsZero())
	assert.Equal(t, StatusRunning, entries[1].Status)

	none, err := log.Progress(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMemoryLog_ProgressReturnsCopy(t *testing.T) {
	ctx := context.Background()
	log := NewMemoryLog()
	require.NoError(t, log.AppendProgress(ctx, Entry{TaskID: "t1", Message: "a"}))

	entries, _ := log.Progress(ctx, "t1")
	entries[0].Message = "changed"

	again, _ := log.Progress(ctx, "t1")
	assert.Equal(t, "a", again[0].Message)
}

func TestMemoryLog_ConcurrentAppend(t *testing.T) {
	ctx := context.Background()
	log := NewMemoryLog()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = log.AppendProgress(ctx, Entry{TaskID: "t1", Message: fmt.Sprintf("m%d", i)})
			_, _ = log.Progress(ctx, "t1")
		}(i)
	}
	wg.Wait()

	entries, err := log.Progress(ctx, "t1")
	require.NoError(t, err)
	assert.Len(t, entries, 50)
}

func TestReporter_NilSinkIsNoop(t *testing.T) {
	var r *Reporter
	assert.NoError(t, r.Report(context.Background(), "x", SeverityInfo, StatusNone, ""))
	assert.NoError(t, NewReporter(nil, "t1").Complete(context.Background(), "done", "uuid"))
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name       string
		entries    []Entry
		wantStatus Status
		wantResult string
		wantDone   bool
	}{
		{
			name:       "empty log is running",
			wantStatus: StatusRunning,
		},
		{
			name: "last non-empty status wins",
			entries: []Entry{
				{Message: "start", Severity: SeverityInfo, Status: StatusRunning},
				{Message: "stage", Severity: SeverityInfo},
				{Message: "finished", Severity: SeveritySuccess, Status: StatusComplete, Result: "abc"},
			},
			wantStatus: StatusComplete,
			wantResult: "abc",
			wantDone:   true,
		},
		{
			name: "error status",
			entries: []Entry{
				{Message: "start", Status: StatusRunning},
				{Message: "boom", Severity: SeverityError, Status: StatusError},
			},
			wantStatus: StatusError,
			wantDone:   true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := Summarize(tc.entries)
			assert.Equal(t, tc.wantStatus, s.Status)
			assert.Equal(t, tc.wantResult, s.Result)
			assert.Equal(t, tc.wantDone, s.Done())
			assert.Len(t, s.Messages, len(tc.entries))
		})
	}
}
