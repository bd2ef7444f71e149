package store

import (
	"encoding/json"
	"testing"

	"github.com/OFFIS-RIT/contingency/backend/pkg/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDocument_TopLevelKeys(t *testing.T) {
	n := common.NewNetwork()
	n.Subjects = append(n.Subjects, common.Subject{ID: "S1", Description: "Maria"})
	n.Timeline = []string{"S1"}

	data, err := EncodeDocument(n, "Maria cries.")
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, raw, "subjects")
	assert.Contains(t, raw, "timeline")
	assert.JSONEq(t, `"Maria cries."`, string(raw["texto_original"]))

	doc, err := DecodeDocument(data)
	require.NoError(t, err)
	assert.Equal(t, "Maria cries.", doc.OriginalText)
	require.Len(t, doc.Subjects, 1)
	assert.Equal(t, "S1", doc.Subjects[0].ID)
}

func TestEncodeDocument_NilNetwork(t *testing.T) {
	data, err := EncodeDocument(nil, "text")
	require.NoError(t, err)

	doc, err := DecodeDocument(data)
	require.NoError(t, err)
	assert.Equal(t, 0, doc.NodeCount())
}
