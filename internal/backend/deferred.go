package backend

import (
	"context"
	"errors"
	"fmt"

	"github.com/bordenet/bloginator-sub001/internal/batch"
	"github.com/bordenet/bloginator-sub001/internal/types"
)

// deferred routes generation through the durable file-based batch channel.
// Submit writes request artifacts and returns; an external responder fills
// the response store at its own pace; Collect runs the polling collector.
type deferred struct {
	store *batch.Store
}

func newDeferred(batchRoot string) (*deferred, error) {
	store, err := batch.NewStore(batchRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to create batch store: %w", err)
	}
	return &deferred{store: store}, nil
}

// OpenDeferred resumes a deferred generator over an existing batch directory,
// for restart-safe collection of an in-flight batch.
func OpenDeferred(batchDir string) (Generator, error) {
	store, err := batch.OpenStore(batchDir)
	if err != nil {
		return nil, err
	}
	return &deferred{store: store}, nil
}

// Submit publishes one immutable request artifact per request.
func (g *deferred) Submit(_ context.Context, requests []types.GenerationRequest) ([]string, error) {
	handles := make([]string, 0, len(requests))
	for _, req := range requests {
		if err := g.store.WriteRequest(req); err != nil {
			return nil, fmt.Errorf("failed to submit request %s: %w", req.ID, err)
		}
		handles = append(handles, req.ID)
	}
	return handles, nil
}

// Collect polls the response store and maps the batch outcome onto per-handle
// results: completed responses, failed requests (responder error or malformed
// artifact), and placeholders for requests that never resolved.
func (g *deferred) Collect(ctx context.Context, handles []string, opts CollectOptions) (map[string]Result, error) {
	batchResult, err := batch.Collect(ctx, g.store, batch.CollectOptions{
		Timeout:      opts.Timeout,
		PollInterval: opts.PollInterval,
		MinFraction:  opts.MinFraction,
		Only:         handles,
		OnProgress:   opts.OnProgress,
		Logf:         opts.Logf,
	})
	if err != nil {
		var timeoutErr *batch.TimeoutError
		if errors.As(err, &timeoutErr) {
			return nil, err
		}
		if batchResult != nil && ctx.Err() != nil {
			// Cancellation: surface partial results so the caller can mark
			// unresolved sections failed; artifacts stay for post-mortem.
			return mapResults(handles, batchResult), err
		}
		return nil, err
	}

	return mapResults(handles, batchResult), nil
}

func mapResults(handles []string, batchResult *batch.BatchResult) map[string]Result {
	out := make(map[string]Result, len(handles))
	for _, handle := range handles {
		if resp, ok := batchResult.Completed[handle]; ok {
			out[handle] = Result{Response: &resp}
			continue
		}
		if reason, ok := batchResult.Failed[handle]; ok {
			out[handle] = Result{Err: fmt.Errorf("request %s failed: %s", handle, reason)}
			continue
		}
		out[handle] = Result{Placeholder: true}
	}
	return out
}

// BatchDir returns the durable batch directory for operator inspection and
// restart-safe re-collection.
func (g *deferred) BatchDir() string { return g.store.Dir() }
