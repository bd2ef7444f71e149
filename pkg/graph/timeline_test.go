package graph

import (
	"testing"

	"github.com/OFFIS-RIT/contingency/backend/pkg/common"

	"github.com/stretchr/testify/assert"
)

func timelineNetwork() *common.Network {
	n := common.NewNetwork()
	n.Subjects = []common.Subject{{ID: "S1", Description: "Maria", Rationale: "r"}}
	n.Actions = []common.BehaviorAction{{ID: "AC1", Description: "eats", Rationale: "r"}}
	n.Stimuli = []common.StimulusEvent{{ID: "E1", Description: "cake", Rationale: "r"}}
	n.Hypotheses = []common.AnalyticHypothesis{
		{ID: "H1", Description: "escape", Rationale: "r"},
		{ID: "H2", Description: "tangible", Rationale: "r"},
	}
	return n
}

func TestCompleteTimeline(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{
			name:  "appends missing hypotheses",
			input: []string{"S1", "E1", "AC1"},
			want:  []string{"S1", "E1", "AC1", "H1", "H2"},
		},
		{
			name:  "keeps hypotheses already placed",
			input: []string{"H2", "S1", "E1", "AC1"},
			want:  []string{"H2", "S1", "E1", "AC1", "H1"},
		},
		{
			name:  "drops duplicates keeping first",
			input: []string{"S1", "E1", "S1", "AC1", "E1"},
			want:  []string{"S1", "E1", "AC1", "H1", "H2"},
		},
		{
			name:  "drops unknown ids",
			input: []string{"S1", "X9", "AC1"},
			want:  []string{"S1", "AC1", "H1", "H2"},
		},
		{
			name:  "empty timeline",
			input: nil,
			want:  []string{"H1", "H2"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, completeTimeline(tc.input, timelineNetwork()))
		})
	}
}

func TestCompleteTimeline_Idempotent(t *testing.T) {
	n := timelineNetwork()
	once := completeTimeline([]string{"E1", "S1"}, n)
	assert.Equal(t, once, completeTimeline(once, n))
}

func TestCompleteTimeline_EveryHypothesisExactlyOnce(t *testing.T) {
	n := timelineNetwork()
	got := completeTimeline([]string{"H1", "S1", "H1"}, n)

	counts := map[string]int{}
	for _, id := range got {
		counts[id]++
	}
	for _, h := range n.Hypotheses {
		assert.Equal(t, 1, counts[h.ID], h.ID)
	}
}
