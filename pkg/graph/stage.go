package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/OFFIS-RIT/contingency/backend/pkg/ai"
	"github.com/OFFIS-RIT/contingency/backend/pkg/common"
	"github.com/OFFIS-RIT/contingency/backend/pkg/logger"
	"github.com/OFFIS-RIT/contingency/backend/pkg/progress"
)

// Stage is one step of the extraction pipeline.
//
// BuildContext must not mutate the network. Apply merges a parsed generator
// response into the network it is given and returns a short summary; it may
// leave that network half-updated when it fails, so callers hand it a copy.
type Stage interface {
	Name() string
	Focus() string
	OutputShape() ai.OutputShape
	BuildContext(n *common.Network) (any, error)
	Apply(n *common.Network, out ai.StructuredOutput) (string, error)
}

type stageOutcome int

const (
	stageApplied stageOutcome = iota
	stageNoResult
	stageFailed
)

// runStage takes ownership of network and returns the network the next
// stage should receive. When the stage fails at any point the network is
// returned exactly as it was passed in.
func (g *GraphClient) runStage(
	ctx context.Context,
	stage Stage,
	text string,
	network *common.Network,
	client *ai.StructuredClient,
	rep *progress.Reporter,
) (*common.Network, stageOutcome) {
	name := stage.Name()

	stageContext, err := stage.BuildContext(network)
	if err != nil {
		logger.Error("[Graph] Failed to build stage context", "stage", name, "err", err)
		return network, stageFailed
	}
	contextJSON, err := json.MarshalIndent(stageContext, "", "  ")
	if err != nil {
		logger.Error("[Graph] Failed to serialise stage context", "stage", name, "err", err)
		return network, stageFailed
	}

	prompt := buildPrompt(stage.Focus(), text, contextJSON)
	if tokens := g.countTokens(systemPrompt, procedure, prompt); tokens > 0 {
		logger.Debug("[Graph] Stage prompt assembled", "stage", name, "tokens", tokens)
		if g.contextWarnTokens > 0 && tokens > g.contextWarnTokens {
			logger.Warn("[Graph] Stage prompt exceeds context warning threshold",
				"stage", name, "tokens", tokens, "threshold", g.contextWarnTokens)
		}
	}

	out, ok := client.Generate(ctx, prompt, stage.OutputShape(), ai.WithSystemPrompts(systemPrompt, procedure))
	if !ok {
		logger.Warn("[Graph] Stage produced no result", "stage", name)
		return network, stageNoResult
	}

	if rationale := out.Text("rationale"); rationale != "" {
		logger.Info("[Graph] Stage rationale", "stage", name, "rationale", rationale)
	}

	candidate := network.Clone()
	summary, err := stage.Apply(candidate, out)
	if err != nil {
		logger.Error("[Graph] Failed to apply stage output", "stage", name, "err", err)
		return network, stageFailed
	}

	logger.Info("[Graph] Stage applied", "stage", name, "summary", summary, "task_id", rep.TaskID())
	return candidate, stageApplied
}

func buildPrompt(focus string, text string, contextJSON []byte) string {
	var b strings.Builder
	b.WriteString(focus)
	b.WriteString("\n\nNarrative text to analyse:\n```\n")
	b.WriteString(text)
	b.WriteString("\n```\n\nCurrent network context (elements relevant to this step):\n```json\n")
	b.Write(contextJSON)
	b.WriteString("\n```")
	return b.String()
}

// applySummary collects one line per merged collection.
type applySummary []string

func (s *applySummary) add(collection string, stats MergeStats, total int) {
	*s = append(*s, fmt.Sprintf("%s: %s, %d total", collection, stats, total))
}

func (s applySummary) String() string {
	if len(s) == 0 {
		return "nothing merged"
	}
	return strings.Join(s, "; ")
}

// mergeKey merges the records under key into dst. An absent or null key
// merges nothing.
func mergeKey[T common.Element](
	out ai.StructuredOutput,
	key string,
	dst *[]T,
	build func(json.RawMessage) (T, error),
	summary *applySummary,
) error {
	records, err := out.List(key)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}
	merged, stats := Merge(key, *dst, records, build)
	*dst = merged
	summary.add(key, stats, len(merged))
	return nil
}
