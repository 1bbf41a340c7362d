// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/bordenet/bloginator-sub001/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintOutline outputs a human-readable summary of a generated outline.
func (p *Printer) PrintOutline(outline *types.Outline) {
	if outline == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Title:   %s\n", outline.Title))

	thesis := outline.Thesis
	if len(thesis) > 50 {
		thesis = thesis[:47] + "..."
	}
	sb.WriteString(fmt.Sprintf("Thesis:  %s\n", thesis))
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("Sections (%d):\n", len(outline.Sections)))
	count := min(len(outline.Sections), maxItemsToShow)
	for i := 0; i < count; i++ {
		s := outline.Sections[i]
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, s.Title))
		if len(s.RequiredKeywords) > 0 {
			keywords := strings.Join(s.RequiredKeywords, ", ")
			if len(keywords) > 40 {
				keywords = keywords[:37] + "..."
			}
			sb.WriteString(fmt.Sprintf("     [%s]\n", keywords))
		}
	}
	if len(outline.Sections) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(outline.Sections)-maxItemsToShow))
	}

	p.printBox("GENERATED OUTLINE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSectionAttempts outputs the retry history for one section.
func (p *Printer) PrintSectionAttempts(section string, attempts []types.Attempt) {
	if len(attempts) == 0 {
		return
	}

	var sb strings.Builder
	for i, a := range attempts {
		status := "✓ passed"
		if a.Err != "" {
			status = "✗ error"
		} else if !a.Assessment.Passed {
			status = "✗ failed"
		}
		sb.WriteString(fmt.Sprintf("Attempt %d: %s (score %.2f)\n", a.Number, status, a.Assessment.Score))
		for _, issue := range a.Assessment.Issues {
			if len(issue) > 48 {
				issue = issue[:45] + "..."
			}
			sb.WriteString(fmt.Sprintf("  • %s\n", issue))
		}
		if i < len(attempts)-1 {
			sb.WriteString("\n")
		}
	}

	title := fmt.Sprintf("SECTION ATTEMPTS: %s", section)
	if len(title) > boxWidth-4 {
		title = title[:boxWidth-7] + "..."
	}
	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintDroppedContext outputs the input-validation warnings for dropped search results.
func (p *Printer) PrintDroppedContext(section string, warnings []string) {
	if len(warnings) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Dropped %d context result(s):\n", len(warnings)))
	count := min(len(warnings), maxItemsToShow)
	for i := 0; i < count; i++ {
		warning := warnings[i]
		if len(warning) > 50 {
			warning = warning[:47] + "..."
		}
		sb.WriteString(fmt.Sprintf("  • %s\n", warning))
	}
	if len(warnings) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(warnings)-maxItemsToShow))
	}

	title := fmt.Sprintf("CONTEXT FILTER: %s", section)
	if len(title) > boxWidth-4 {
		title = title[:boxWidth-7] + "..."
	}
	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintDraftStats outputs the aggregate statistics of an assembled draft.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintDraftStats(stats types.DraftStats) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Completed:    %d\n", stats.CompletedCount))
	sb.WriteString(fmt.Sprintf("Placeholders: %d\n", stats.PlaceholderCount))
	sb.WriteString(fmt.Sprintf("Failed:       %d\n", stats.FailedCount))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Words:        %d\n", stats.WordCount))
	sb.WriteString(fmt.Sprintf("Citations:    %d\n", stats.CitationCount))
	sb.WriteString(fmt.Sprintf("Avg quality:  %.2f", stats.AvgQualityScore))

	p.printBox("DRAFT STATISTICS", sb.String())
}
