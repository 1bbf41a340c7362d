package types

import "strings"

// Draft represents the fully generated document produced from an outline.
type Draft struct {
	Outline  *Outline   `json:"outline"`
	Sections []Section  `json:"sections"`
	Stats    DraftStats `json:"stats"`
}

// DraftStats holds aggregate statistics for a draft. Word count, citation count,
// and average quality are computed over Completed sections only; placeholder and
// failed counts are reported separately.
type DraftStats struct {
	WordCount        int     `json:"word_count"`
	CitationCount    int     `json:"citation_count"`
	AvgQualityScore  float64 `json:"avg_quality_score"`
	CompletedCount   int     `json:"completed_count"`
	PlaceholderCount int     `json:"placeholder_count"`
	FailedCount      int     `json:"failed_count"`
}

// ComputeDraftStats derives aggregate statistics from the terminal sections of a draft.
func ComputeDraftStats(sections []Section) DraftStats {
	var stats DraftStats
	var qualitySum float64
	for _, s := range sections {
		switch s.Status {
		case StatusCompleted:
			stats.CompletedCount++
			stats.WordCount += len(strings.Fields(s.Content))
			stats.CitationCount += strings.Count(s.Content, "[")
			qualitySum += s.QualityScore
		case StatusPlaceholder:
			stats.PlaceholderCount++
		case StatusFailed:
			stats.FailedCount++
		}
	}
	if stats.CompletedCount > 0 {
		stats.AvgQualityScore = qualitySum / float64(stats.CompletedCount)
	}
	return stats
}
