package io

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/OFFIS-RIT/contingency/backend/pkg/loader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetText_ReadsAndCaches(t *testing.T) {
	path := filepath.Join(t.TempDir(), "maria.txt")
	require.NoError(t, os.WriteFile(path, []byte("Maria cries at bedtime."), 0o644))

	l := NewIONarrativeLoader()
	src := loader.NewFileSource("maria", path, l)

	text, err := src.GetText(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Maria cries at bedtime.", text)

	require.NoError(t, os.Remove(path))

	cached, err := l.GetText(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, "Maria cries at bedtime.", string(cached))
}

func TestGetText_MissingFile(t *testing.T) {
	l := NewIONarrativeLoader()
	src := loader.NewFileSource("x", filepath.Join(t.TempDir(), "missing.txt"), l)

	_, err := l.GetText(context.Background(), src)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
