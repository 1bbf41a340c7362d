// Package relevance validates corpus search results and generated output
// against required keywords before trust is extended. It is the primary
// defense against topic drift from weak retrieval.
package relevance

import (
	"fmt"
	"strings"

	"github.com/bordenet/bloginator-sub001/internal/types"
)

// InputOptions configures search-result filtering.
type InputOptions struct {
	// MinSimilarity drops results scoring below this floor.
	MinSimilarity float64
	// MinKeywordHits drops results matching fewer than this many keywords.
	// Zero disables the keyword check.
	MinKeywordHits int
}

// ValidateInputs filters search results, dropping those below the similarity
// floor or lacking keyword overlap. It returns the survivors plus
// human-readable diagnostics for each dropped result. The warnings are for
// operator logs only and are never forwarded to a backend.
func ValidateInputs(results []types.SearchResult, keywords []string, opts InputOptions) ([]types.SearchResult, []string) {
	var survivors []types.SearchResult
	var warnings []string

	for i, result := range results {
		if result.Similarity < opts.MinSimilarity {
			warnings = append(warnings, fmt.Sprintf(
				"result %d (%s): similarity %.2f below floor %.2f",
				i+1, result.SourceID, result.Similarity, opts.MinSimilarity))
			continue
		}

		if opts.MinKeywordHits > 0 {
			hits, missed := keywordHits(result.Content, keywords)
			if hits < opts.MinKeywordHits {
				warnings = append(warnings, fmt.Sprintf(
					"result %d (%s): %d/%d keyword hits (need %d; missing: %s)",
					i+1, result.SourceID, hits, len(keywords), opts.MinKeywordHits,
					strings.Join(missed, ", ")))
				continue
			}
		}

		survivors = append(survivors, result)
	}

	return survivors, warnings
}

// keywordHits counts the keywords present in text and returns the ones missed.
func keywordHits(text string, keywords []string) (int, []string) {
	lower := strings.ToLower(text)
	hits := 0
	var missed []string
	for _, kw := range keywords {
		if containsKeyword(lower, kw) {
			hits++
		} else {
			missed = append(missed, kw)
		}
	}
	return hits, missed
}

// containsKeyword does a case-insensitive substring match, also accepting a
// lightly stemmed form of the keyword (trailing ing/ed/es/s trimmed) so that
// "testing" matches "tests" and vice versa.
func containsKeyword(lowerText, keyword string) bool {
	kw := strings.ToLower(strings.TrimSpace(keyword))
	if kw == "" {
		return false
	}
	if strings.Contains(lowerText, kw) {
		return true
	}
	if stem := stemTerm(kw); stem != kw && len(stem) >= 3 && strings.Contains(lowerText, stem) {
		return true
	}
	return false
}

// stemTerm trims common English suffixes. Deliberately crude: the goal is
// tolerant matching, not linguistics.
func stemTerm(term string) string {
	for _, suffix := range []string{"ing", "ed", "es", "s"} {
		if strings.HasSuffix(term, suffix) && len(term)-len(suffix) >= 3 {
			return strings.TrimSuffix(term, suffix)
		}
	}
	return term
}
