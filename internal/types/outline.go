package types

import "time"

// Outline represents the structured skeleton of a document before content generation.
type Outline struct {
	Title       string    `json:"title"`
	Thesis      string    `json:"thesis"`
	Sections    []Section `json:"sections"`
	GeneratedAt time.Time `json:"generated_at"`
}

// SectionTitles returns the ordered titles of the outline's sections.
func (o *Outline) SectionTitles() []string {
	titles := make([]string, 0, len(o.Sections))
	for _, s := range o.Sections {
		titles = append(titles, s.Title)
	}
	return titles
}

// AllTerminal reports whether every section has reached a terminal status.
// A draft may only be assembled once this holds.
func (o *Outline) AllTerminal() bool {
	for _, s := range o.Sections {
		if !s.Status.IsTerminal() {
			return false
		}
	}
	return true
}
