package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/OFFIS-RIT/contingency/backend/pkg/ai"
	"github.com/OFFIS-RIT/contingency/backend/pkg/graph"
	"github.com/OFFIS-RIT/contingency/backend/pkg/loader"
	"github.com/OFFIS-RIT/contingency/backend/pkg/logger"
	"github.com/OFFIS-RIT/contingency/backend/pkg/progress"
	"github.com/OFFIS-RIT/contingency/backend/pkg/store"
)

// AnalysisJob is the message published to AnalysisQueue. Exactly one of
// Text and URL is set.
type AnalysisJob struct {
	TaskID string `json:"task_id"`
	Name   string `json:"name"`
	Text   string `json:"text,omitempty"`
	URL    string `json:"url,omitempty"`
}

// Exporter receives a copy of every saved analysis document.
type Exporter interface {
	PutAnalysis(ctx context.Context, uuid string, data []byte) (string, error)
}

// AnalysisProcessor runs queued analyses end to end.
type AnalysisProcessor struct {
	Graph *graph.GraphClient
	AI    ai.GraphAIClient
	Store store.AnalysisStorage
	Web   loader.NarrativeLoader
	// Objects loads s3:// locations. Jobs naming one fail when it is nil.
	Objects loader.NarrativeLoader
	Export  Exporter
	// Locks keeps two workers off the same task. Optional.
	Locks TaskLocker
}

// TaskLocker runs fn while no other worker runs the same key.
type TaskLocker interface {
	WithLease(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// ProcessAnalysisMessage loads the narrative, runs the pipeline, saves the
// document and appends the terminal progress entry whose result is the
// analysis UUID. Every failure is also recorded as an error entry, except
// when another worker holds the task; that error is left to the retry queue.
func (p *AnalysisProcessor) ProcessAnalysisMessage(ctx context.Context, body []byte) error {
	var job AnalysisJob
	if err := json.Unmarshal(body, &job); err != nil {
		return Permanent(fmt.Errorf("invalid analysis job: %w", err))
	}
	if job.TaskID == "" {
		return Permanent(errors.New("analysis job without task_id"))
	}

	if p.Locks == nil {
		return p.process(ctx, job)
	}
	return p.Locks.WithLease(ctx, "analysis:"+job.TaskID, func(ctx context.Context) error {
		return p.process(ctx, job)
	})
}

func (p *AnalysisProcessor) process(ctx context.Context, job AnalysisJob) (err error) {
	rep := progress.NewReporter(p.Store, job.TaskID)
	defer func() {
		if err == nil {
			return
		}
		failCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if repErr := rep.Report(failCtx, "Analysis failed: "+err.Error(), progress.SeverityError, progress.StatusError, ""); repErr != nil {
			logger.Warn("[Queue] Failed to record failure", "task_id", job.TaskID, "err", repErr)
		}
	}()

	var src loader.Source
	switch {
	case loader.IsObjectLocation(job.URL):
		src = loader.NewURLSource(job.TaskID, job.URL, p.Objects)
	case job.URL != "":
		src = loader.NewURLSource(job.TaskID, job.URL, p.Web)
	default:
		src = loader.NewTextSource(job.TaskID, job.Text)
	}

	text, err := src.GetText(ctx)
	if err != nil {
		return fmt.Errorf("failed to load narrative: %w", err)
	}
	logger.Info("[Queue] Narrative loaded", "task_id", job.TaskID, "chars", len(text))

	network, err := p.Graph.Analyze(ctx, job.TaskID, text, p.AI, p.Store)
	if err != nil {
		return fmt.Errorf("analysis did not finish: %w", err)
	}

	data, err := store.EncodeDocument(network, text)
	if err != nil {
		return Permanent(fmt.Errorf("failed to encode analysis: %w", err))
	}

	name := job.Name
	if name == "" {
		name = job.TaskID
	}
	uuid, err := p.Store.SaveAnalysis(ctx, name, data)
	if err != nil {
		return fmt.Errorf("failed to save analysis: %w", err)
	}

	if p.Export != nil {
		if key, exportErr := p.Export.PutAnalysis(ctx, uuid, data); exportErr != nil {
			logger.Warn("[Queue] Failed to export analysis", "task_id", job.TaskID, "uuid", uuid, "err", exportErr)
		} else {
			logger.Debug("[Queue] Analysis exported", "task_id", job.TaskID, "key", key)
		}
	}

	if err := rep.Complete(ctx, "Analysis complete", uuid); err != nil {
		logger.Warn("[Queue] Failed to record completion", "task_id", job.TaskID, "err", err)
	}
	logger.Info("[Queue] Analysis saved", "task_id", job.TaskID, "uuid", uuid)
	return nil
}
