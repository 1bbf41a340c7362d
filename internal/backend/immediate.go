package backend

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bordenet/bloginator-sub001/internal/llm"
	"github.com/bordenet/bloginator-sub001/internal/types"
)

const defaultParallelism = 4

// immediate executes generation inline: Submit records the prompts, Collect
// runs them against the LLM client with bounded parallelism. A per-prompt
// backend failure becomes a TransportError result for that handle only; it
// never aborts the rest of the batch.
type immediate struct {
	client      llm.Client
	tier        llm.ModelTier
	parallelism int

	mu      sync.Mutex
	pending map[string]types.GenerationRequest
}

func newImmediate(client llm.Client, tier llm.ModelTier, parallelism int) *immediate {
	if tier == "" {
		tier = llm.TierStandard
	}
	if parallelism <= 0 {
		parallelism = defaultParallelism
	}
	return &immediate{
		client:      client,
		tier:        tier,
		parallelism: parallelism,
		pending:     make(map[string]types.GenerationRequest),
	}
}

// Submit registers the requests and returns their ids as handles.
func (g *immediate) Submit(_ context.Context, requests []types.GenerationRequest) ([]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	handles := make([]string, 0, len(requests))
	for _, req := range requests {
		if req.ID == "" {
			return nil, fmt.Errorf("request with empty id for section %q", req.SectionTitle)
		}
		g.pending[req.ID] = req
		handles = append(handles, req.ID)
	}
	return handles, nil
}

// Collect generates content for every submitted handle inline.
func (g *immediate) Collect(ctx context.Context, handles []string, opts CollectOptions) (map[string]Result, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	results := make([]Result, len(handles))
	requests := make([]types.GenerationRequest, len(handles))

	g.mu.Lock()
	for i, handle := range handles {
		req, ok := g.pending[handle]
		if !ok {
			g.mu.Unlock()
			return nil, fmt.Errorf("unknown handle %q", handle)
		}
		requests[i] = req
	}
	g.mu.Unlock()

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.parallelism)

	for i, req := range requests {
		i, req := i, req
		eg.Go(func() error {
			content, err := g.client.GenerateContent(egCtx, req.Prompt, g.tier)
			if err != nil {
				results[i] = Result{Err: &TransportError{RequestID: req.ID, Cause: err}}
				return nil // sibling prompts keep going
			}
			results[i] = Result{Response: &types.GenerationResponse{
				RequestID:  req.ID,
				Content:    content,
				ReceivedAt: time.Now().UTC(),
			}}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]Result, len(handles))
	for i, handle := range handles {
		out[handle] = results[i]
	}

	g.mu.Lock()
	for _, handle := range handles {
		delete(g.pending, handle)
	}
	g.mu.Unlock()

	return out, nil
}

// BatchDir returns ""; the immediate strategy keeps no durable artifacts.
func (g *immediate) BatchDir() string { return "" }
