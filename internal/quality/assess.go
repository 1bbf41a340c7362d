// Package quality scores generated content against the structural quality
// policy and drives bounded retries with alternate prompt variants.
package quality

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bordenet/bloginator-sub001/internal/types"
)

// Criteria defines the structural quality policy for one generated unit.
type Criteria struct {
	// MinWords and MaxWords bound the acceptable content length. Zero disables
	// the respective bound.
	MinWords int
	MaxWords int
	// RequiredKeywords must appear in the content (case-insensitive).
	RequiredKeywords []string
	// BannedPatterns are regular expressions that must not match.
	BannedPatterns []*regexp.Regexp
	// PassThreshold is the minimum score in [0,1] to pass. Zero means 0.7.
	PassThreshold float64
}

const defaultPassThreshold = 0.7

// Threshold returns the effective pass threshold.
func (c Criteria) Threshold() float64 {
	if c.PassThreshold > 0 {
		return c.PassThreshold
	}
	return defaultPassThreshold
}

// AssessFunc scores one generated text. generate_with_retry accepts any
// implementation; Assess with a Criteria is the standard one.
type AssessFunc func(text string) types.QualityAssessment

// Assessor returns an AssessFunc applying the given criteria.
func Assessor(criteria Criteria) AssessFunc {
	return func(text string) types.QualityAssessment {
		return Assess(text, criteria)
	}
}

// Assess scores text against criteria. Each violated check subtracts from a
// perfect score; the issue list explains every deduction.
func Assess(text string, criteria Criteria) types.QualityAssessment {
	var issues []string
	score := 1.0

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return types.QualityAssessment{
			Score:  0,
			Issues: []string{"content is empty"},
			Passed: false,
		}
	}

	words := len(strings.Fields(trimmed))
	if criteria.MinWords > 0 && words < criteria.MinWords {
		issues = append(issues, fmt.Sprintf("content has %d words, minimum is %d", words, criteria.MinWords))
		score -= 0.4
	}
	if criteria.MaxWords > 0 && words > criteria.MaxWords {
		issues = append(issues, fmt.Sprintf("content has %d words, maximum is %d", words, criteria.MaxWords))
		score -= 0.2
	}

	if len(criteria.RequiredKeywords) > 0 {
		lower := strings.ToLower(trimmed)
		var missing []string
		for _, kw := range criteria.RequiredKeywords {
			if !strings.Contains(lower, strings.ToLower(kw)) {
				missing = append(missing, kw)
			}
		}
		if len(missing) > 0 {
			issues = append(issues, fmt.Sprintf("missing required keywords: %s", strings.Join(missing, ", ")))
			score -= 0.4 * float64(len(missing)) / float64(len(criteria.RequiredKeywords))
		}
	}

	for _, pattern := range criteria.BannedPatterns {
		if loc := pattern.FindString(trimmed); loc != "" {
			issues = append(issues, fmt.Sprintf("banned pattern %q matched %q", pattern.String(), loc))
			score -= 0.3
		}
	}

	if score < 0 {
		score = 0
	}

	return types.QualityAssessment{
		Score:  score,
		Issues: issues,
		Passed: score >= criteria.Threshold(),
	}
}
