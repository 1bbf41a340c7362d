package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCorpus(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("telemetry sampling strategies"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "post.md"), []byte("structured logging guide"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "image.png"), []byte{0x89}, 0644))

	searcher, err := loadCorpus(dir)
	require.NoError(t, err)

	results, err := searcher.Search(context.Background(), "telemetry sampling", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "notes", results[0].SourceID)
}

func TestLoadCorpus_Empty(t *testing.T) {
	_, err := loadCorpus(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no .txt or .md documents")
}

func TestLoadCorpus_MissingDir(t *testing.T) {
	_, err := loadCorpus(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestSplitKeywords(t *testing.T) {
	assert.Nil(t, splitKeywords(""))
	assert.Nil(t, splitKeywords("   "))
	assert.Equal(t, []string{"go", "telemetry"}, splitKeywords("go, telemetry"))
	assert.Equal(t, []string{"one"}, splitKeywords(" one ,, "))
}
