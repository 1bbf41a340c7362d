// Package backend provides the uniform submit/collect transport contract over
// the generation strategies. Strategy selection is a closed variant dispatched
// exhaustively at construction time, so adding a backend is a checked,
// localized change.
package backend

import (
	"context"
	"fmt"
	"time"

	"github.com/bordenet/bloginator-sub001/internal/batch"
	"github.com/bordenet/bloginator-sub001/internal/llm"
	"github.com/bordenet/bloginator-sub001/internal/types"
)

// Strategy identifies a generation backend strategy.
type Strategy string

const (
	// StrategyImmediate executes submit and collect inline per prompt.
	StrategyImmediate Strategy = "immediate"
	// StrategyDeferred writes request artifacts now and collects response
	// artifacts later through the batch channel.
	StrategyDeferred Strategy = "deferred"
)

// ErrUnknownStrategy is returned when the configured strategy is unsupported.
var ErrUnknownStrategy = fmt.Errorf("unknown backend strategy")

// TransportError reports that the backend itself was unreachable or errored.
// It is surfaced upward; this layer adds no retries beyond what the strategy
// defines.
type TransportError struct {
	RequestID string
	Cause     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("backend transport error for %s: %v", e.RequestID, e.Cause)
}

func (e *TransportError) Unwrap() error { return e.Cause }

// CollectOptions bounds a collect call.
type CollectOptions struct {
	Timeout      time.Duration
	PollInterval time.Duration
	MinFraction  float64
	OnProgress   func(batch.Progress)
	Logf         func(format string, args ...any)
}

// Result is the terminal outcome for a single submitted request.
type Result struct {
	Response    *types.GenerationResponse
	Err         error
	Placeholder bool
}

// Generator is the uniform contract every strategy satisfies: Submit is fast
// and returns one handle (the request id) per prompt; Collect blocks until
// results are available or the timeout policy resolves them.
type Generator interface {
	Submit(ctx context.Context, requests []types.GenerationRequest) ([]string, error)
	Collect(ctx context.Context, handles []string, opts CollectOptions) (map[string]Result, error)
	// BatchDir returns the durable batch directory, or "" for strategies
	// without one.
	BatchDir() string
}

// Config carries the construction-time inputs for a generator.
type Config struct {
	Strategy Strategy
	// Client backs the immediate strategy.
	Client llm.Client
	Tier   llm.ModelTier
	// BatchRoot is the directory deferred batches are created under.
	BatchRoot string
	// Parallelism bounds concurrent inline calls for the immediate strategy.
	Parallelism int
}

// New builds a Generator for the configured strategy. The switch is
// exhaustive over the closed Strategy set; anything else is an error.
func New(cfg Config) (Generator, error) {
	switch cfg.Strategy {
	case StrategyImmediate:
		if cfg.Client == nil {
			return nil, fmt.Errorf("immediate strategy requires an LLM client")
		}
		return newImmediate(cfg.Client, cfg.Tier, cfg.Parallelism), nil
	case StrategyDeferred:
		if cfg.BatchRoot == "" {
			return nil, fmt.Errorf("deferred strategy requires a batch root directory")
		}
		return newDeferred(cfg.BatchRoot)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, cfg.Strategy)
	}
}
