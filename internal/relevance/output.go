package relevance

import "strings"

// ValidateOutput confirms that generated text references the required topic
// keywords (case-insensitive substring/stem match). Sections failing this
// check must not be accepted as completed; callers re-queue them with a
// stricter prompt variant.
//
// At least half of the keywords must appear, and never zero when keywords are
// required at all. An empty keyword list passes trivially.
func ValidateOutput(text string, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}
	if strings.TrimSpace(text) == "" {
		return false
	}

	hits, _ := keywordHits(text, keywords)
	if hits == 0 {
		return false
	}
	return hits*2 >= len(keywords)
}

// MissingKeywords returns the required keywords absent from text, for
// diagnostics and stricter retry prompts.
func MissingKeywords(text string, keywords []string) []string {
	_, missed := keywordHits(text, keywords)
	return missed
}
