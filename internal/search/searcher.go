// Package search defines the boundary to the corpus vector-search engine.
// The engine itself lives outside this module; orchestration code depends only
// on the Searcher interface.
package search

import (
	"context"
	"sort"
	"strings"

	"github.com/bordenet/bloginator-sub001/internal/types"
)

// Searcher returns ranked corpus content for a query.
type Searcher interface {
	// Search returns up to limit results ordered by descending similarity.
	Search(ctx context.Context, query string, limit int) ([]types.SearchResult, error)
}

// MemorySearcher is a keyword-overlap Searcher over an in-memory document set.
// It backs tests and the CLI dry-run mode; production deployments plug in the
// external vector engine instead.
type MemorySearcher struct {
	docs []types.SearchResult
}

// NewMemorySearcher builds a MemorySearcher over the given documents. The
// Similarity field of the inputs is ignored; scores are recomputed per query.
func NewMemorySearcher(docs []types.SearchResult) *MemorySearcher {
	return &MemorySearcher{docs: docs}
}

// Search scores each document by the fraction of query terms it contains.
func (m *MemorySearcher) Search(_ context.Context, query string, limit int) ([]types.SearchResult, error) {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 || limit <= 0 {
		return nil, nil
	}

	scored := make([]types.SearchResult, 0, len(m.docs))
	for _, doc := range m.docs {
		content := strings.ToLower(doc.Content)
		hits := 0
		for _, term := range terms {
			if strings.Contains(content, term) {
				hits++
			}
		}
		if hits == 0 {
			continue
		}
		result := doc
		result.Similarity = float64(hits) / float64(len(terms))
		scored = append(scored, result)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Similarity > scored[j].Similarity
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}
