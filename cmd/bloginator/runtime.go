package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/bordenet/bloginator-sub001/internal/backend"
	"github.com/bordenet/bloginator-sub001/internal/batch"
	"github.com/bordenet/bloginator-sub001/internal/config"
	"github.com/bordenet/bloginator-sub001/internal/draft"
	"github.com/bordenet/bloginator-sub001/internal/llm"
	"github.com/bordenet/bloginator-sub001/internal/search"
)

// loadConfig loads the optional config file, then fills in defaults.
func loadConfig(path string) (config.Config, error) {
	var cfg config.Config
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
	}
	return cfg.MergeWithDefaults(config.Defaults()), nil
}

// resolveAPIKey returns the configured API key, falling back to the
// GEMINI_API_KEY environment variable.
func resolveAPIKey(cfg config.Config) (string, error) {
	key := cfg.APIKey
	if key == "" {
		key = os.Getenv("GEMINI_API_KEY")
	}
	if key == "" {
		return "", fmt.Errorf("GEMINI_API_KEY environment variable or api_key config value is required")
	}
	return key, nil
}

// buildGenerator constructs the generation backend named by the config. The
// returned close func releases the LLM client when one was created.
func buildGenerator(ctx context.Context, cfg config.Config) (backend.Generator, func(), error) {
	noop := func() {}

	switch backend.Strategy(cfg.Backend) {
	case backend.StrategyImmediate:
		apiKey, err := resolveAPIKey(cfg)
		if err != nil {
			return nil, noop, err
		}
		client, err := llm.NewGeminiClient(ctx, nil, apiKey)
		if err != nil {
			return nil, noop, err
		}
		gen, err := backend.New(backend.Config{
			Strategy: backend.StrategyImmediate,
			Client:   client,
			Tier:     llm.TierStandard,
		})
		if err != nil {
			_ = client.Close()
			return nil, noop, err
		}
		return gen, func() { _ = client.Close() }, nil

	case backend.StrategyDeferred:
		root := cfg.BatchDir
		if root == "" {
			root = "batches"
		}
		gen, err := backend.New(backend.Config{
			Strategy:  backend.StrategyDeferred,
			BatchRoot: root,
		})
		return gen, noop, err

	default:
		return nil, noop, fmt.Errorf("%w: %q", backend.ErrUnknownStrategy, cfg.Backend)
	}
}

// collectOptions maps config values onto the backend's collect policy.
func collectOptions(cfg config.Config) backend.CollectOptions {
	opts := backend.CollectOptions{
		Timeout:      time.Duration(cfg.BatchTimeoutSeconds) * time.Second,
		PollInterval: time.Duration(cfg.PollIntervalSeconds) * time.Second,
		MinFraction:  cfg.MinResponseFraction,
	}
	if cfg.Verbose {
		opts.OnProgress = func(p batch.Progress) {
			fmt.Printf("Batch %s: %d/%d responses (elapsed %s, %s remaining)\n",
				p.BatchID, p.Received, p.Requested,
				p.Elapsed.Round(time.Second), p.Remaining.Round(time.Second))
		}
		opts.Logf = func(format string, args ...any) {
			fmt.Printf("[collector] "+format+"\n", args...)
		}
	}
	return opts
}

// draftOptions maps config values onto the draft orchestration policy.
func draftOptions(cfg config.Config, gen backend.Generator, searcher search.Searcher) (draft.RunOptions, error) {
	banned, err := cfg.CompiledBannedPatterns()
	if err != nil {
		return draft.RunOptions{}, err
	}
	return draft.RunOptions{
		Generator:       gen,
		Searcher:        searcher,
		ContextResults:  cfg.ContextResults,
		SimilarityFloor: cfg.SimilarityFloor,
		MinKeywordHits:  cfg.MinKeywordHits,
		MinSectionWords: cfg.MinSectionWords,
		MaxSectionWords: cfg.MaxSectionWords,
		BannedPatterns:  banned,
		MaxAttempts:     cfg.MaxQualityRetries,
		Collect:         collectOptions(cfg),
		Verbose:         cfg.Verbose,
	}, nil
}
