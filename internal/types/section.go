// Package types provides type definitions for structured data used throughout the bloginator system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "fmt"

// SectionStatus represents where a section is in its generation lifecycle.
type SectionStatus string

// Section lifecycle states. A section only ever moves forward through these;
// Completed, Failed, and Placeholder are terminal.
const (
	StatusPending          SectionStatus = "pending"
	StatusRequested        SectionStatus = "requested"
	StatusAwaitingResponse SectionStatus = "awaiting_response"
	StatusCompleted        SectionStatus = "completed"
	StatusFailed           SectionStatus = "failed"
	StatusPlaceholder      SectionStatus = "placeholder"
)

// statusRank orders statuses so that transitions can be checked for forward motion.
var statusRank = map[SectionStatus]int{
	StatusPending:          0,
	StatusRequested:        1,
	StatusAwaitingResponse: 2,
	StatusCompleted:        3,
	StatusFailed:           3,
	StatusPlaceholder:      3,
}

// IsTerminal reports whether the status ends the section's lifecycle.
func (s SectionStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusPlaceholder
}

// CanTransition reports whether moving from s to next is a legal forward transition.
// Terminal states admit no further transitions.
func (s SectionStatus) CanTransition(next SectionStatus) bool {
	if s.IsTerminal() {
		return false
	}
	from, ok := statusRank[s]
	if !ok {
		return false
	}
	to, ok := statusRank[next]
	if !ok {
		return false
	}
	return to > from
}

// Section represents one addressable outline/draft unit with its own generation lifecycle.
type Section struct {
	Title            string        `json:"title"`
	Description      string        `json:"description"`
	RequiredKeywords []string      `json:"required_keywords"`
	Status           SectionStatus `json:"status"`
	Content          string        `json:"content,omitempty"`
	FailureReason    string        `json:"failure_reason,omitempty"`
	QualityScore     float64       `json:"quality_score,omitempty"`
}

// Transition advances the section to next, enforcing forward-only movement.
func (s *Section) Transition(next SectionStatus) error {
	if !s.Status.CanTransition(next) {
		return fmt.Errorf("illegal section status transition %q -> %q for %q", s.Status, next, s.Title)
	}
	s.Status = next
	return nil
}
