package graph

import (
	"context"
	"errors"
	"fmt"

	"github.com/OFFIS-RIT/contingency/backend/pkg/ai"
	"github.com/OFFIS-RIT/contingency/backend/pkg/common"
	"github.com/OFFIS-RIT/contingency/backend/pkg/logger"
	"github.com/OFFIS-RIT/contingency/backend/pkg/progress"
)

// ErrGenerationUnavailable is returned by Analyze when no generation client
// is configured. No stage runs in that case.
var ErrGenerationUnavailable = errors.New("graph: generation client unavailable")

// Analyze extracts a contingency network from text by running every stage
// in order over one network. A stage that fails leaves the network as it
// found it and the next stage still runs, so once the client is set up a
// network is always returned, empty in the worst case.
//
// sink may be nil. When ctx is canceled the remaining stages are skipped
// and the partial network is returned together with ctx.Err().
func (g *GraphClient) Analyze(
	ctx context.Context,
	taskID string,
	text string,
	aiClient ai.GraphAIClient,
	sink progress.Sink,
) (*common.Network, error) {
	client := ai.NewStructuredClient(ai.NewStructuredClientParams{
		Client:      aiClient,
		Attempts:    g.maxRetries,
		BaseDelay:   g.retryBaseDelay,
		Temperature: g.temperature,
	})
	if client == nil {
		logger.Error("[Graph] No generation client configured", "task_id", taskID)
		return nil, ErrGenerationUnavailable
	}

	rep := progress.NewReporter(sink, taskID)
	report := func(message string, severity progress.Severity, status progress.Status, step string) {
		if err := rep.Report(ctx, message, severity, status, step); err != nil {
			logger.Debug("[Graph] Failed to record progress", "task_id", taskID, "err", err)
		}
	}

	stages := g.Stages()
	network := common.NewNetwork()
	report("Analysis started", progress.SeverityInfo, progress.StatusRunning, "")
	logger.Info("[Graph] Starting analysis", "task_id", taskID, "stages", len(stages))

	for i, stage := range stages {
		if err := ctx.Err(); err != nil {
			logger.Warn("[Graph] Analysis canceled", "task_id", taskID, "stage", stage.Name(), "err", err)
			network.Timeline = completeTimeline(network.Timeline, network)
			return network, err
		}

		step := fmt.Sprintf("%d/%d %s", i+1, len(stages), stage.Name())
		logger.Info("[Graph] Running stage", "task_id", taskID, "step", step)
		report("Running stage "+stage.Name(), progress.SeverityInfo, progress.StatusNone, step)

		var outcome stageOutcome
		network, outcome = g.runStage(ctx, stage, text, network, client, rep)

		switch outcome {
		case stageApplied:
			report("Finished stage "+stage.Name(), progress.SeveritySuccess, progress.StatusNone, step)
		case stageNoResult:
			report("Stage "+stage.Name()+" produced no result", progress.SeverityWarning, progress.StatusNone, step)
		case stageFailed:
			report("Stage "+stage.Name()+" failed", progress.SeverityError, progress.StatusNone, step)
		}
	}

	network.Timeline = completeTimeline(network.Timeline, network)

	logger.Info("[Graph] Analysis finished",
		"task_id", taskID,
		"nodes", network.NodeCount(),
		"edges", len(network.Edges()),
	)
	return network, nil
}
