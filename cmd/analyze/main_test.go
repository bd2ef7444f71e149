package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/OFFIS-RIT/contingency/backend/pkg/ai"
	"github.com/OFFIS-RIT/contingency/backend/pkg/graph"
	"github.com/OFFIS-RIT/contingency/backend/pkg/loader/io"
	"github.com/OFFIS-RIT/contingency/backend/pkg/progress"
	"github.com/OFFIS-RIT/contingency/backend/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cannedClient struct {
	ai.MetricsRecorder
}

func (*cannedClient) GenerateCompletionWithSchema(
	_ context.Context, name string, _ string, _ string, _ any, _ ...ai.GenerateOption,
) (string, error) {
	if name == "subjects" {
		return `{"rationale":"one child","subjects":[{"id":"S1","description":"Maria","rationale":"protagonist"}]}`, nil
	}
	return `{"rationale":"nothing to add"}`, nil
}

func newRunner(t *testing.T, outDir string) *runner {
	t.Helper()
	g, err := graph.NewGraphClient(graph.NewGraphClientParams{MaxRetries: 1})
	require.NoError(t, err)
	return &runner{
		graph:  g,
		ai:     &cannedClient{},
		files:  io.NewIONarrativeLoader(),
		sink:   progress.NewMemoryLog(),
		outDir: outDir,
	}
}

func TestRunAll_WritesOneFilePerInput(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "results")
	a := filepath.Join(in, "maria.txt")
	b := filepath.Join(in, "joao.md")
	require.NoError(t, os.WriteFile(a, []byte("Maria cries at bedtime."), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("Joao leaves the classroom."), 0o644))

	r := newRunner(t, out)
	require.NoError(t, r.runAll(context.Background(), []string{a, b}, 2))

	for name, text := range map[string]string{"maria": "Maria cries at bedtime.", "joao": "Joao leaves the classroom."} {
		data, err := os.ReadFile(filepath.Join(out, name+".json"))
		require.NoError(t, err)
		doc, err := store.DecodeDocument(data)
		require.NoError(t, err)
		assert.Equal(t, text, doc.OriginalText)
		require.Len(t, doc.Subjects, 1)
	}
}

func TestRunAll_ReportsFailedInputs(t *testing.T) {
	in := t.TempDir()
	good := filepath.Join(in, "maria.txt")
	require.NoError(t, os.WriteFile(good, []byte("Maria cries."), 0o644))
	missing := filepath.Join(in, "missing.txt")
	empty := filepath.Join(in, "empty.txt")
	require.NoError(t, os.WriteFile(empty, []byte("  \n\n "), 0o644))

	out := t.TempDir()
	r := newRunner(t, out)
	err := r.runAll(context.Background(), []string{good, missing, empty}, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.txt")
	assert.Contains(t, err.Error(), "empty.txt")

	_, statErr := os.Stat(filepath.Join(out, "maria.json"))
	assert.NoError(t, statErr)
}
