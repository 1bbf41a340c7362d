// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/go-playground/validator/v10"
)

// Config represents the generation configuration that can be loaded from a
// JSON file. All fields are optional; missing values fall back to Defaults.
type Config struct {
	// Backend selects the generation strategy: "immediate" or "deferred".
	Backend string `json:"backend,omitempty" validate:"omitempty,oneof=immediate deferred"`

	// Batch collection
	BatchTimeoutSeconds int     `json:"batch_timeout_seconds,omitempty" validate:"gte=0"`
	PollIntervalSeconds int     `json:"poll_interval_seconds,omitempty" validate:"gte=0"`
	MinResponseFraction float64 `json:"min_response_fraction,omitempty" validate:"gte=0,lte=1"`
	BatchDir            string  `json:"batch_dir,omitempty"`

	// Quality policy
	MaxQualityRetries int `json:"max_quality_retries,omitempty" validate:"gte=0,lte=10"`
	MinSectionWords   int `json:"min_section_words,omitempty" validate:"gte=0"`
	MaxSectionWords   int `json:"max_section_words,omitempty" validate:"gte=0"`
	// BannedPatterns are regular expressions generated content must not match.
	BannedPatterns []string `json:"banned_patterns,omitempty"`

	// Relevance policy
	SimilarityFloor float64 `json:"similarity_floor,omitempty" validate:"gte=0,lte=1"`
	MinKeywordHits  int     `json:"min_keyword_hits,omitempty" validate:"gte=0"`
	OutlineMajority float64 `json:"outline_majority,omitempty" validate:"gte=0,lte=1"`
	ContextResults  int     `json:"context_results,omitempty" validate:"gte=0"`

	// Behavior
	APIKey  string `json:"api_key,omitempty"`
	Verbose bool   `json:"verbose,omitempty"`
}

// Defaults returns the built-in configuration values.
func Defaults() Config {
	return Config{
		Backend:             "immediate",
		BatchTimeoutSeconds: 1800, // 30 minutes
		PollIntervalSeconds: 15,
		MinResponseFraction: 0.8,
		MaxQualityRetries:   3,
		MinSectionWords:     100,
		MaxSectionWords:     600,
		SimilarityFloor:     0.3,
		MinKeywordHits:      1,
		OutlineMajority:     0.5,
		ContextResults:      5,
	}
}

// Load reads configuration from a JSON file and validates it.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints via struct tags plus the cross-field rules
// the tags cannot express.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if c.MaxSectionWords > 0 && c.MinSectionWords > c.MaxSectionWords {
		return fmt.Errorf("config error: min_section_words (%d) exceeds max_section_words (%d)",
			c.MinSectionWords, c.MaxSectionWords)
	}

	if _, err := c.CompiledBannedPatterns(); err != nil {
		return err
	}
	return nil
}

// CompiledBannedPatterns compiles the banned content patterns.
func (c *Config) CompiledBannedPatterns() ([]*regexp.Regexp, error) {
	var compiled []*regexp.Regexp
	for _, raw := range c.BannedPatterns {
		re, err := regexp.Compile(raw)
		if err != nil {
			return nil, fmt.Errorf("config error: invalid banned pattern %q: %w", raw, err)
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}

// MergeWithDefaults returns a new Config with zero-valued fields filled from
// defaults. Bool fields are never merged; CLI flags win for those.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Backend == "" {
		result.Backend = defaults.Backend
	}
	if result.BatchDir == "" {
		result.BatchDir = defaults.BatchDir
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}

	if result.BatchTimeoutSeconds == 0 {
		result.BatchTimeoutSeconds = defaults.BatchTimeoutSeconds
	}
	if result.PollIntervalSeconds == 0 {
		result.PollIntervalSeconds = defaults.PollIntervalSeconds
	}
	if result.MaxQualityRetries == 0 {
		result.MaxQualityRetries = defaults.MaxQualityRetries
	}
	if result.MinSectionWords == 0 {
		result.MinSectionWords = defaults.MinSectionWords
	}
	if result.MaxSectionWords == 0 {
		result.MaxSectionWords = defaults.MaxSectionWords
	}
	if result.MinKeywordHits == 0 {
		result.MinKeywordHits = defaults.MinKeywordHits
	}
	if result.ContextResults == 0 {
		result.ContextResults = defaults.ContextResults
	}

	if result.MinResponseFraction == 0 {
		result.MinResponseFraction = defaults.MinResponseFraction
	}
	if result.SimilarityFloor == 0 {
		result.SimilarityFloor = defaults.SimilarityFloor
	}
	if result.OutlineMajority == 0 {
		result.OutlineMajority = defaults.OutlineMajority
	}

	return result
}
