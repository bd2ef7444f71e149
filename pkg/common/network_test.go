package common

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNetwork_SerializesEmptyArrays(t *testing.T) {
	data, err := json.Marshal(NewNetwork())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	for key, value := range decoded {
		_, ok := value.([]any)
		assert.Truef(t, ok, "expected %s to be an array, got %T", key, value)
	}
}

func TestNetworkClone_IsIndependent(t *testing.T) {
	n := NewNetwork()
	n.Actions = append(n.Actions, BehaviorAction{ID: "AC1", HypotheticalFunctionalClasses: []string{"attention"}})
	n.Evidence = append(n.Evidence, EvidenceForHypothesis{
		EdgeBase:             EdgeBase{ID: "EV1"},
		SupportingElementIDs: []string{"AC1"},
	})
	n.Timeline = append(n.Timeline, "AC1")

	c := n.Clone()
	c.Actions[0].HypotheticalFunctionalClasses[0] = "escape"
	c.Evidence[0].SupportingElementIDs[0] = "AC2"
	c.Timeline[0] = "S1"
	c.Subjects = append(c.Subjects, Subject{ID: "S1"})

	assert.Equal(t, "attention", n.Actions[0].HypotheticalFunctionalClasses[0])
	assert.Equal(t, "AC1", n.Evidence[0].SupportingElementIDs[0])
	assert.Equal(t, "AC1", n.Timeline[0])
	assert.Empty(t, n.Subjects)
}

func TestNetwork_IDSets(t *testing.T) {
	n := NewNetwork()
	n.Subjects = []Subject{{ID: "S1"}}
	n.Actions = []BehaviorAction{{ID: "AC1"}}
	n.Stimuli = []StimulusEvent{{ID: "E1"}}
	n.Hypotheses = []AnalyticHypothesis{{ID: "H1"}}
	n.Emissions = []BehavioralEmission{{EdgeBase: EdgeBase{ID: "EM1", SourceNodeID: "S1", TargetNodeID: "AC1"}}}

	nodes := n.NodeIDs()
	assert.Len(t, nodes, 4)
	assert.Contains(t, nodes, "E1")
	assert.NotContains(t, nodes, "EM1")

	all := n.ElementIDs()
	assert.Contains(t, all, "EM1")
	assert.Equal(t, 4, n.NodeCount())
	assert.Len(t, n.Edges(), 1)
}

func TestNetwork_TemporalRelationsWith(t *testing.T) {
	n := NewNetwork()
	n.TemporalRelations = []TemporalRelation{
		{EdgeBase: EdgeBase{ID: "T1"}, Temporality: PrecedesImmediately},
		{EdgeBase: EdgeBase{ID: "T2"}, Temporality: FollowsImmediately},
		{EdgeBase: EdgeBase{ID: "T3"}, Temporality: PrecedesImmediately},
	}

	got := n.TemporalRelationsWith(PrecedesImmediately)
	require.Len(t, got, 2)
	assert.Equal(t, "T1", got[0].ID)
	assert.Equal(t, "T3", got[1].ID)
}
