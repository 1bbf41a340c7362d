// Package llm provides centralized LLM configuration and client abstractions
// for the generation backends.
package llm

// ModelTier represents the complexity/capability level of a model.
type ModelTier string

const (
	// TierLite is for simple tasks: keyword extraction, classification
	TierLite ModelTier = "lite"
	// TierStandard is for moderate reasoning: section drafting
	TierStandard ModelTier = "standard"
	// TierAdvanced is for complex reasoning: outline planning
	TierAdvanced ModelTier = "advanced"
)

// Config holds the model configuration for the process.
type Config struct {
	Models      map[ModelTier]string
	Temperature float32
}

// DefaultConfig returns the default Gemini model mapping.
func DefaultConfig() *Config {
	return &Config{
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		Temperature: 0.2,
	}
}

// Model returns the model name for a tier, falling back through standard and
// lite when the requested tier is not configured.
func (c *Config) Model(tier ModelTier) string {
	if m, ok := c.Models[tier]; ok {
		return m
	}
	if m, ok := c.Models[TierStandard]; ok {
		return m
	}
	if m, ok := c.Models[TierLite]; ok {
		return m
	}
	return ""
}
