package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bordenet/bloginator-sub001/internal/search"
	"github.com/bordenet/bloginator-sub001/internal/types"
)

// corpusExtensions are the file types loaded as corpus documents.
var corpusExtensions = map[string]bool{
	".txt": true,
	".md":  true,
}

// loadCorpus builds an in-memory searcher over the text documents in dir.
// The file name (without extension) becomes the source id used in citations.
func loadCorpus(dir string) (*search.MemorySearcher, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus directory %s: %w", dir, err)
	}

	var docs []types.SearchResult
	for _, entry := range entries {
		if entry.IsDir() || !corpusExtensions[filepath.Ext(entry.Name())] {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read corpus document %s: %w", entry.Name(), err)
		}
		docs = append(docs, types.SearchResult{
			SourceID: strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())),
			Content:  string(data),
		})
	}

	if len(docs) == 0 {
		return nil, fmt.Errorf("corpus directory %s contains no .txt or .md documents", dir)
	}
	return search.NewMemorySearcher(docs), nil
}

// splitKeywords parses a comma-separated keyword flag value.
func splitKeywords(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var keywords []string
	for _, kw := range strings.Split(raw, ",") {
		if kw = strings.TrimSpace(kw); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	return keywords
}
