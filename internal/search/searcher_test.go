package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bordenet/bloginator-sub001/internal/types"
)

func testDocs() []types.SearchResult {
	return []types.SearchResult{
		{Content: "Go channels and goroutines for concurrency", SourceID: "doc-1"},
		{Content: "Cooking pasta with fresh tomatoes", SourceID: "doc-2"},
		{Content: "Concurrency patterns: goroutines, channels, select", SourceID: "doc-3"},
	}
}

func TestMemorySearcher_RanksByOverlap(t *testing.T) {
	s := NewMemorySearcher(testDocs())

	results, err := s.Search(context.Background(), "goroutines channels select", 10)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// doc-3 matches all three terms, doc-1 only two
	assert.Equal(t, "doc-3", results[0].SourceID)
	assert.InDelta(t, 1.0, results[0].Similarity, 1e-9)
	assert.Equal(t, "doc-1", results[1].SourceID)
	assert.InDelta(t, 2.0/3.0, results[1].Similarity, 1e-9)
}

func TestMemorySearcher_Limit(t *testing.T) {
	s := NewMemorySearcher(testDocs())

	results, err := s.Search(context.Background(), "goroutines channels", 1)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestMemorySearcher_NoMatches(t *testing.T) {
	s := NewMemorySearcher(testDocs())

	results, err := s.Search(context.Background(), "quantum chromodynamics", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}
