package graph

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/OFFIS-RIT/contingency/backend/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func raws(records ...string) []json.RawMessage {
	out := make([]json.RawMessage, len(records))
	for i, r := range records {
		out[i] = json.RawMessage(r)
	}
	return out
}

func subjectsFrom(t *testing.T, records ...string) []common.Subject {
	t.Helper()
	out, stats := Merge("subjects", nil, raws(records...), common.NewSubject)
	require.Zero(t, stats.Rejected)
	return out
}

func TestMerge_Idempotent(t *testing.T) {
	existing := subjectsFrom(t,
		`{"id":"S1","description":"Maria","rationale":"main actor"}`,
		`{"id":"S2","description":"Mother","rationale":"reacts"}`,
	)
	batch := raws(
		`{"id":"S2","description":"Maria's mother","rationale":"delivers the reprimand"}`,
		`{"id":"S3","description":"Brother","rationale":"watches"}`,
	)

	once, _ := Merge("subjects", existing, batch, common.NewSubject)
	twice, stats := Merge("subjects", once, batch, common.NewSubject)

	assert.Equal(t, once, twice)
	assert.Equal(t, MergeStats{Replaced: 2}, stats)
}

func TestMerge_ReplaceByID(t *testing.T) {
	existing := subjectsFrom(t,
		`{"id":"S1","description":"Maria","rationale":"main actor"}`,
		`{"id":"S2","description":"Mother","rationale":"reacts"}`,
	)

	merged, stats := Merge("subjects", existing, raws(
		`{"id":"S1","description":"Maria, 7 years old","relevant_history":"likes sweets","rationale":"updated"}`,
	), common.NewSubject)

	require.Len(t, merged, 2)
	assert.Equal(t, MergeStats{Replaced: 1}, stats)
	assert.Equal(t, common.Subject{
		ID:              "S1",
		Description:     "Maria, 7 years old",
		RelevantHistory: "likes sweets",
		Rationale:       "updated",
	}, merged[0])
	assert.Equal(t, "S2", merged[1].ID)
}

func TestMerge_ReplaceIsFullOverwrite(t *testing.T) {
	existing := subjectsFrom(t,
		`{"id":"S1","description":"Maria","relevant_history":"likes sweets","rationale":"main actor"}`,
	)

	merged, _ := Merge("subjects", existing, raws(
		`{"id":"S1","description":"Maria","rationale":"restated"}`,
	), common.NewSubject)

	require.Len(t, merged, 1)
	assert.Empty(t, merged[0].RelevantHistory)
}

func TestMerge_AppendOnNewID(t *testing.T) {
	existing := subjectsFrom(t, `{"id":"S1","description":"Maria","rationale":"main actor"}`)

	merged, stats := Merge("subjects", existing, raws(
		`{"id":"S2","description":"Mother","rationale":"reacts"}`,
		`{"id":"S3","description":"Brother","rationale":"watches"}`,
		`{"id":"S3","description":"Older brother","rationale":"watches"}`,
	), common.NewSubject)

	require.Len(t, merged, 3)
	assert.Equal(t, MergeStats{Added: 2, Replaced: 1}, stats)
	assert.Equal(t, []string{"S1", "S2", "S3"}, []string{merged[0].ID, merged[1].ID, merged[2].ID})
	assert.Equal(t, "Older brother", merged[2].Description)
}

func TestMerge_PerRecordIsolation(t *testing.T) {
	merged, stats := Merge("stimuli", nil, raws(
		`{"id":"E1","description":"cake on the table","rationale":"antecedent"}`,
		`{"id":"E2","rationale":"missing description"}`,
		`"not an object"`,
	), common.NewStimulusEvent)

	require.Len(t, merged, 1)
	assert.Equal(t, "E1", merged[0].ID)
	assert.Equal(t, MergeStats{Added: 1, Rejected: 2}, stats)
}

func TestMerge_DoesNotModifyExisting(t *testing.T) {
	existing := subjectsFrom(t, `{"id":"S1","description":"Maria","rationale":"main actor"}`)

	_, _ = Merge("subjects", existing, raws(`{"id":"S1","description":"Changed","rationale":"x"}`), common.NewSubject)

	assert.Equal(t, "Maria", existing[0].Description)
}

type looseRecord struct {
	ID   string `json:"id"`
	Note string `json:"note"`
}

func (r looseRecord) ElementID() string { return r.ID }

func TestMerge_AppendsRecordsWithoutID(t *testing.T) {
	build := func(raw json.RawMessage) (looseRecord, error) {
		var r looseRecord
		err := json.Unmarshal(raw, &r)
		return r, err
	}

	merged, stats := Merge("loose", []looseRecord{{ID: "A", Note: "first"}}, raws(
		`{"note":"no id"}`,
		`{"note":"no id either"}`,
	), build)

	require.Len(t, merged, 3)
	assert.Equal(t, 2, stats.Added)
	assert.Equal(t, "no id either", merged[2].Note)
}

func TestWithEndpoints_RejectsDanglingEdges(t *testing.T) {
	nodes := map[string]struct{}{"S1": {}, "AC1": {}}
	build := withEndpoints(nodes, common.NewBehavioralEmission)

	merged, stats := Merge("behavioral_emissions", nil, raws(
		`{"id":"BE1","source_node_id":"S1","target_node_id":"AC1","rationale":"Maria eats"}`,
		`{"id":"BE2","source_node_id":"S9","target_node_id":"AC1","rationale":"unknown subject"}`,
		`{"id":"BE3","source_node_id":"S1","target_node_id":"AC9","rationale":"unknown action"}`,
	), build)

	require.Len(t, merged, 1)
	assert.Equal(t, "BE1", merged[0].ID)
	assert.Equal(t, common.EdgeBehavioralEmission, merged[0].EdgeType)
	assert.Equal(t, 2, stats.Rejected)

	_, err := build(json.RawMessage(`{"id":"BE2","source_node_id":"S9","target_node_id":"AC1","rationale":"x"}`))
	var dangling *DanglingEdgeError
	require.True(t, errors.As(err, &dangling))
	assert.Equal(t, "S9", dangling.Endpoint)
}

func TestWithSupport_PrunesUnknownElements(t *testing.T) {
	elements := map[string]struct{}{"AC1": {}, "CFR1": {}, "H1": {}}
	build := withSupport(elements, common.NewEvidenceForHypothesis)

	evidence, err := build(json.RawMessage(`{
		"id":"EH1","source_node_id":"AC1","target_node_id":"H1","rationale":"r",
		"supporting_element_ids":["AC1","X9","CFR1"],"evidence_type":"DIRECT_SUPPORT"
	}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"AC1", "CFR1"}, evidence.SupportingElementIDs)

	_, err = build(json.RawMessage(`{
		"id":"EH2","source_node_id":"AC1","target_node_id":"H1","rationale":"r",
		"supporting_element_ids":["X1","X2"],"evidence_type":"DIRECT_SUPPORT"
	}`))
	assert.Error(t, err)
}
