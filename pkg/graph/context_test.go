package graph

import (
	"testing"
	"time"

	"github.com/OFFIS-RIT/contingency/backend/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func temporal(id, source, target string, t common.Temporality) common.TemporalRelation {
	return common.TemporalRelation{
		EdgeBase: common.EdgeBase{
			ID:           id,
			SourceNodeID: source,
			TargetNodeID: target,
			Rationale:    "test",
			EdgeType:     common.EdgeTemporalRelation,
		},
		Temporality: t,
	}
}

func adjacencyNetwork() *common.Network {
	n := common.NewNetwork()
	n.Stimuli = []common.StimulusEvent{
		{ID: "S1", Description: "cake on the table", Rationale: "r"},
		{ID: "S2", Description: "mother's reprimand", Rationale: "r"},
	}
	n.Actions = []common.BehaviorAction{
		{ID: "A1", Description: "eats the cake", Rationale: "r"},
		{ID: "A2", Description: "cries", Rationale: "r"},
	}
	n.TemporalRelations = []common.TemporalRelation{
		temporal("T1", "S1", "A1", common.PrecedesImmediately),
		temporal("T2", "S2", "A1", common.FollowsImmediately),
	}
	return n
}

func stimulusIDs(s []common.StimulusEvent) []string {
	out := []string{}
	for _, e := range s {
		out = append(out, e.ID)
	}
	return out
}

func actionIDs(a []common.BehaviorAction) []string {
	out := []string{}
	for _, e := range a {
		out = append(out, e.ID)
	}
	return out
}

func TestBuildAntecedentContext_FiltersByPrecedesImmediately(t *testing.T) {
	c := buildAntecedentContext(adjacencyNetwork())

	require.Len(t, c.TemporalRelations, 1)
	assert.Equal(t, "T1", c.TemporalRelations[0].ID)
	assert.Equal(t, []string{"S1"}, stimulusIDs(c.Stimuli))
	assert.Equal(t, []string{"A1"}, actionIDs(c.Actions))
	assert.NotContains(t, stimulusIDs(c.Stimuli), "S2")
}

func TestBuildConsequentContext_FiltersByFollowsImmediately(t *testing.T) {
	c := buildConsequentContext(adjacencyNetwork())

	require.Len(t, c.TemporalRelations, 1)
	assert.Equal(t, "T2", c.TemporalRelations[0].ID)
	assert.Equal(t, []string{"S2"}, stimulusIDs(c.Stimuli))
	assert.Equal(t, []string{"A1"}, actionIDs(c.Actions))
	assert.Empty(t, c.AntecedentRelations)
}

func TestBuildAdjacencyContext_EmptyNetwork(t *testing.T) {
	c := buildAntecedentContext(common.NewNetwork())
	assert.Empty(t, c.TemporalRelations)
	assert.Empty(t, c.Stimuli)
	assert.Empty(t, c.Actions)
}

func TestContextBuilders_AreReadOnly(t *testing.T) {
	n := adjacencyNetwork()
	before := n.Clone()
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

	for _, stage := range []Stage{
		subjectsStage{}, actionsStage{}, stimuliStage{}, antecedentStage{},
		consequentStage{}, conditionsStage{}, modulatingStage{},
		hypothesesStage{now: func() time.Time { return now }}, timelineStage{},
	} {
		c, err := stage.BuildContext(n)
		require.NoError(t, err, stage.Name())
		require.NotNil(t, c, stage.Name())
	}

	assert.Equal(t, before, n)
}

func TestBuildAntecedentContext_ResultDoesNotAliasNetwork(t *testing.T) {
	n := adjacencyNetwork()
	c := buildAntecedentContext(n)
	c.Stimuli[0].Description = "changed"
	c.TemporalRelations[0].ID = "changed"

	assert.Equal(t, "cake on the table", n.Stimuli[0].Description)
	assert.Equal(t, "T1", n.TemporalRelations[0].ID)
}

func TestBuildHypothesesContext_CarriesTimestamp(t *testing.T) {
	now := time.Date(2025, 5, 1, 12, 30, 0, 0, time.UTC)
	c := buildHypothesesContext(adjacencyNetwork(), now)

	assert.Equal(t, "2025-05-01T12:30:00Z", c.Timestamp)
	assert.Len(t, c.Network.Stimuli, 2)
}
