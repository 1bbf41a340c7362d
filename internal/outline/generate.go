// Package outline turns a topic plus validated corpus context into a
// structured document outline, gated by keyword relevance before any draft
// generation spends tokens on it.
package outline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/bordenet/bloginator-sub001/internal/llm"
	"github.com/bordenet/bloginator-sub001/internal/prompts"
	"github.com/bordenet/bloginator-sub001/internal/relevance"
	"github.com/bordenet/bloginator-sub001/internal/search"
	"github.com/bordenet/bloginator-sub001/internal/types"
)

const promptFile = "generation.json"

// Options configures a single outline generation run.
type Options struct {
	Topic    string
	Audience string
	// Keywords are the required topic keywords used for context filtering,
	// outline gating, and later output validation.
	Keywords []string
	// ContextResults bounds how many corpus results are retrieved.
	ContextResults int
	// SimilarityFloor and MinKeywordHits filter retrieved context before it
	// reaches the prompt.
	SimilarityFloor float64
	MinKeywordHits  int
	// Majority is the fraction of outline sections that must reference the
	// keywords for the outline to be accepted.
	Majority float64
}

// Generator produces validated outlines from a topic.
type Generator struct {
	client   llm.Client
	searcher search.Searcher
}

// NewGenerator builds an outline Generator.
func NewGenerator(client llm.Client, searcher search.Searcher) *Generator {
	return &Generator{client: client, searcher: searcher}
}

// Generate retrieves and filters corpus context, asks the model for an
// outline, and gates the result on keyword relevance. The returned warnings
// describe context results dropped during input validation; they are for
// operator logs and never reach the model.
func (g *Generator) Generate(ctx context.Context, opts Options) (*types.Outline, []string, error) {
	if strings.TrimSpace(opts.Topic) == "" {
		return nil, nil, fmt.Errorf("outline topic must not be empty")
	}

	survivors, warnings, err := g.gatherContext(ctx, opts)
	if err != nil {
		return nil, warnings, err
	}

	template, err := prompts.Get(promptFile, "outline")
	if err != nil {
		return nil, warnings, err
	}
	prompt := prompts.Format(template, map[string]string{
		"Topic":    opts.Topic,
		"Audience": opts.Audience,
		"Context":  renderContext(survivors),
	})

	raw, err := g.client.GenerateJSON(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		return nil, warnings, fmt.Errorf("failed to generate outline: %w", err)
	}

	outline, err := Parse(raw, opts.Keywords)
	if err != nil {
		return nil, warnings, err
	}

	if err := relevance.CheckOutline(outline, opts.Keywords, opts.Majority); err != nil {
		return nil, warnings, err
	}
	return outline, warnings, nil
}

// gatherContext retrieves corpus results for the topic and drops the ones that
// fail the relevance filters.
func (g *Generator) gatherContext(ctx context.Context, opts Options) ([]types.SearchResult, []string, error) {
	if g.searcher == nil || opts.ContextResults <= 0 {
		return nil, nil, nil
	}

	query := opts.Topic
	if len(opts.Keywords) > 0 {
		query += " " + strings.Join(opts.Keywords, " ")
	}
	results, err := g.searcher.Search(ctx, query, opts.ContextResults)
	if err != nil {
		return nil, nil, fmt.Errorf("corpus search failed: %w", err)
	}

	survivors, warnings := relevance.ValidateInputs(results, opts.Keywords, relevance.InputOptions{
		MinSimilarity:  opts.SimilarityFloor,
		MinKeywordHits: opts.MinKeywordHits,
	})
	return survivors, warnings, nil
}

// renderContext formats validated search results as a citable context block.
// Each result is tagged [doc-N] so generated prose can reference its source.
func renderContext(results []types.SearchResult) string {
	if len(results) == 0 {
		return "(no corpus context available)"
	}
	var b strings.Builder
	for i, result := range results {
		fmt.Fprintf(&b, "[doc-%d] (source: %s)\n%s\n\n", i+1, result.SourceID, result.Content)
	}
	return strings.TrimSpace(b.String())
}

// rawOutline mirrors the JSON shape the model is instructed to return.
type rawOutline struct {
	Title    string `json:"title"`
	Thesis   string `json:"thesis"`
	Sections []struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Keywords    []string `json:"keywords"`
	} `json:"sections"`
}

// Parse validates a raw model response against the outline schema and builds
// the typed outline. Every section starts in the pending status; sections that
// carry no keywords of their own inherit the topic keywords.
func Parse(raw string, topicKeywords []string) (*types.Outline, error) {
	cleaned := llm.CleanJSONBlock(raw)
	if err := validateOutlineJSON(cleaned); err != nil {
		return nil, err
	}

	var parsed rawOutline
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse outline response: %w", err)
	}

	outline := &types.Outline{
		Title:       parsed.Title,
		Thesis:      parsed.Thesis,
		GeneratedAt: time.Now().UTC(),
	}
	for _, s := range parsed.Sections {
		keywords := s.Keywords
		if len(keywords) == 0 {
			keywords = topicKeywords
		}
		outline.Sections = append(outline.Sections, types.Section{
			Title:            s.Title,
			Description:      s.Description,
			RequiredKeywords: keywords,
			Status:           types.StatusPending,
		})
	}
	return outline, nil
}
