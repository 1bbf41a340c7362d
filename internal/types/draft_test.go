package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeDraftStats(t *testing.T) {
	sections := []Section{
		{Title: "A", Status: StatusCompleted, Content: "Go services scale well [1].", QualityScore: 0.8},
		{Title: "B", Status: StatusCompleted, Content: "Channels coordinate goroutines.", QualityScore: 0.6},
		{Title: "C", Status: StatusPlaceholder, Content: "[placeholder]"},
		{Title: "D", Status: StatusFailed},
	}

	stats := ComputeDraftStats(sections)

	assert.Equal(t, 2, stats.CompletedCount)
	assert.Equal(t, 1, stats.PlaceholderCount)
	assert.Equal(t, 1, stats.FailedCount)
	// Word and citation counts cover Completed sections only
	assert.Equal(t, 8, stats.WordCount)
	assert.Equal(t, 1, stats.CitationCount)
	assert.InDelta(t, 0.7, stats.AvgQualityScore, 1e-9)
}

func TestComputeDraftStats_Empty(t *testing.T) {
	stats := ComputeDraftStats(nil)
	assert.Zero(t, stats.CompletedCount)
	assert.Zero(t, stats.AvgQualityScore)
}

func TestGenerationResponse_Failed(t *testing.T) {
	ok := GenerationResponse{RequestID: "req-0001", Content: "text"}
	assert.False(t, ok.Failed())

	// An error marks the request failed even when content is present
	bad := GenerationResponse{RequestID: "req-0002", Content: "text", Error: "rate limited"}
	assert.True(t, bad.Failed())
}
