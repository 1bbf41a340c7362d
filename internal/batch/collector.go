package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bordenet/bloginator-sub001/internal/types"
)

// Default collection policy. Both are configurable via CollectOptions.
const (
	DefaultPollInterval = 15 * time.Second
	DefaultTimeout      = 30 * time.Minute
	DefaultMinFraction  = 0.8
)

// Progress describes one poll iteration for operator reporting.
type Progress struct {
	BatchID   string
	Requested int
	Received  int
	Elapsed   time.Duration
	Remaining time.Duration
}

// CollectOptions configures a collection run.
type CollectOptions struct {
	// Timeout bounds total collection time. Zero means DefaultTimeout.
	Timeout time.Duration
	// PollInterval is the fixed response-store scan interval. Zero means
	// DefaultPollInterval. There is deliberately no backoff curve.
	PollInterval time.Duration
	// MinFraction is the fraction of requests that must have valid responses
	// for the batch to succeed at timeout. Zero means DefaultMinFraction.
	MinFraction float64
	// Only, when non-empty, restricts collection to the named request ids.
	// Used to wait for a retry request without re-waiting the whole batch.
	Only []string
	// OnProgress, if set, is called after every scan.
	OnProgress func(Progress)
	// Logf, if set, receives collector diagnostics (duplicate updates,
	// malformed artifacts). Defaults to discarding.
	Logf func(format string, args ...any)
}

func (o CollectOptions) withDefaults() CollectOptions {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	if o.MinFraction <= 0 {
		o.MinFraction = DefaultMinFraction
	}
	if o.Logf == nil {
		o.Logf = func(string, ...any) {}
	}
	return o
}

// BatchResult is the terminal outcome of collecting one batch. The id sets
// partition the submitted requests: len(Completed)+len(Failed)+
// len(Placeholders) always equals the number of requests.
type BatchResult struct {
	BatchID string
	// Completed maps request id to its accepted response.
	Completed map[string]types.GenerationResponse
	// Failed maps request id to the reason it failed (responder error or
	// malformed artifact).
	Failed map[string]string
	// Placeholders lists request ids that never received any artifact.
	Placeholders []string
	Elapsed      time.Duration
}

// Requested returns the total number of requests the result accounts for.
func (r *BatchResult) Requested() int {
	return len(r.Completed) + len(r.Failed) + len(r.Placeholders)
}

// TimeoutError reports that the collection window elapsed with the received
// fraction below the required minimum.
type TimeoutError struct {
	BatchID     string
	Received    int
	Requested   int
	MinFraction float64
	Elapsed     time.Duration
}

func (e *TimeoutError) Error() string {
	pct := 0.0
	if e.Requested > 0 {
		pct = float64(e.Received) / float64(e.Requested) * 100
	}
	return fmt.Sprintf("batch %s completed at %.0f%% (%d/%d valid responses) after %s, below %.0f%% threshold",
		e.BatchID, pct, e.Received, e.Requested, e.Elapsed.Round(time.Second), e.MinFraction*100)
}

// Collect polls the response store until every request has a response, the
// timeout elapses, or ctx is cancelled. It is restart-safe: collection state
// is derived entirely from the store on every scan, so re-invoking against a
// satisfied store returns the same result immediately and writes nothing.
//
// On cancellation the partial result is returned together with ctx's error so
// the caller can mark unresolved sections failed and keep the artifacts for
// post-mortem inspection.
func Collect(ctx context.Context, store *Store, opts CollectOptions) (*BatchResult, error) {
	opts = opts.withDefaults()

	requests, err := store.ListRequests()
	if err != nil {
		return nil, err
	}
	if len(opts.Only) > 0 {
		requests = filterRequests(requests, opts.Only)
	}
	if len(requests) == 0 {
		return nil, fmt.Errorf("batch %s has no request artifacts", store.BatchID())
	}

	start := time.Now()
	deadline := start.Add(opts.Timeout)

	// A watcher on the response store lets a scan run as soon as the
	// responder publishes, instead of waiting out the poll interval. The
	// ticker remains the correctness baseline: everything works with no
	// notification support at all.
	var watchCh <-chan fsnotify.Event
	if watcher, werr := fsnotify.NewWatcher(); werr == nil {
		if werr = watcher.Add(store.ResponsesDir()); werr == nil {
			watchCh = watcher.Events
			defer func() { _ = watcher.Close() }()
		} else {
			_ = watcher.Close()
		}
	}

	ticker := time.NewTicker(opts.PollInterval)
	defer ticker.Stop()

	seen := make(map[string]types.GenerationResponse)

	for {
		result := scan(store, requests, seen, opts.Logf)
		result.Elapsed = time.Since(start)

		received := len(result.Completed)
		if opts.OnProgress != nil {
			opts.OnProgress(Progress{
				BatchID:   store.BatchID(),
				Requested: len(requests),
				Received:  received,
				Elapsed:   result.Elapsed,
				Remaining: time.Until(deadline),
			})
		}

		// Every request resolved: nothing left to wait for.
		if len(result.Placeholders) == 0 {
			return result, nil
		}

		// The elapsed-vs-timeout check runs every iteration, not only at
		// entry, so a long scan cannot overshoot the budget unnoticed.
		if time.Now().After(deadline) {
			return finishAtTimeout(store.BatchID(), result, len(requests), opts)
		}

		select {
		case <-ctx.Done():
			return result, ctx.Err()
		case <-ticker.C:
		case <-watchCh:
			// Any store event triggers an immediate rescan.
		case <-time.After(time.Until(deadline)):
		}
	}
}

// filterRequests keeps only the requests whose ids appear in only.
func filterRequests(requests []types.GenerationRequest, only []string) []types.GenerationRequest {
	wanted := make(map[string]bool, len(only))
	for _, id := range only {
		wanted[id] = true
	}
	filtered := requests[:0:0]
	for _, req := range requests {
		if wanted[req.ID] {
			filtered = append(filtered, req)
		}
	}
	return filtered
}

// finishAtTimeout applies the partial-success policy.
func finishAtTimeout(batchID string, result *BatchResult, requested int, opts CollectOptions) (*BatchResult, error) {
	received := len(result.Completed)
	fraction := float64(received) / float64(requested)
	if fraction >= opts.MinFraction {
		opts.Logf("batch %s: timeout with %d/%d valid responses (%.0f%%), proceeding with %d placeholder(s)",
			batchID, received, requested, fraction*100, len(result.Placeholders))
		return result, nil
	}
	return result, &TimeoutError{
		BatchID:     batchID,
		Received:    received,
		Requested:   requested,
		MinFraction: opts.MinFraction,
		Elapsed:     result.Elapsed,
	}
}

// scan derives the complete batch state from the store. Responses are matched
// strictly by request id, never by arrival order. A re-published artifact for
// an id replaces the prior value and is logged as an update.
func scan(store *Store, requests []types.GenerationRequest, seen map[string]types.GenerationResponse, logf func(string, ...any)) *BatchResult {
	result := &BatchResult{
		BatchID:   store.BatchID(),
		Completed: make(map[string]types.GenerationResponse),
		Failed:    make(map[string]string),
	}

	for _, req := range requests {
		resp, err := store.ReadResponse(req.ID)
		switch {
		case err == nil:
			if prev, ok := seen[req.ID]; ok && prev.Content != resp.Content {
				logf("batch %s: response for %s updated by a duplicate artifact", store.BatchID(), req.ID)
			}
			seen[req.ID] = *resp
			if resp.Failed() {
				result.Failed[req.ID] = resp.Error
			} else {
				result.Completed[req.ID] = *resp
			}
		case errors.Is(err, os.ErrNotExist):
			result.Placeholders = append(result.Placeholders, req.ID)
		default:
			// Malformed artifact: the request fails, the batch continues. A
			// later valid rewrite of the artifact will be picked up by the
			// next scan because state is recomputed from the store each time.
			var schemaErr *SchemaError
			if errors.As(err, &schemaErr) {
				logf("batch %s: %v", store.BatchID(), schemaErr)
			}
			result.Failed[req.ID] = err.Error()
		}
	}

	return result
}
