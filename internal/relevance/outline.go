package relevance

import (
	"fmt"
	"strings"

	"github.com/bordenet/bloginator-sub001/internal/types"
)

// OutlineRejectedError reports that too few top-level sections of an outline
// matched the required keywords for draft generation to proceed.
type OutlineRejectedError struct {
	Matched   []string
	Unmatched []string
	Threshold float64
}

func (e *OutlineRejectedError) Error() string {
	total := len(e.Matched) + len(e.Unmatched)
	pct := 0.0
	if total > 0 {
		pct = float64(len(e.Matched)) / float64(total) * 100
	}
	return fmt.Sprintf(
		"outline rejected: %d/%d sections (%.0f%%) matched required keywords, need %.0f%%; matched: [%s]; unmatched: [%s]",
		len(e.Matched), total, pct, e.Threshold*100,
		strings.Join(e.Matched, ", "), strings.Join(e.Unmatched, ", "))
}

// CheckOutline verifies that at least the given fraction of top-level sections
// reference the required keywords. On failure it returns an
// *OutlineRejectedError naming the matched and unmatched section titles.
// Keyword matching considers the section title plus its description.
func CheckOutline(outline *types.Outline, keywords []string, majority float64) error {
	if len(outline.Sections) == 0 {
		return fmt.Errorf("outline %q has no sections", outline.Title)
	}
	if len(keywords) == 0 {
		return nil
	}

	var matched, unmatched []string
	for _, section := range outline.Sections {
		text := section.Title + " " + section.Description
		if hits, _ := keywordHits(text, keywords); hits > 0 {
			matched = append(matched, section.Title)
		} else {
			unmatched = append(unmatched, section.Title)
		}
	}

	fraction := float64(len(matched)) / float64(len(outline.Sections))
	if fraction < majority {
		return &OutlineRejectedError{Matched: matched, Unmatched: unmatched, Threshold: majority}
	}
	return nil
}
