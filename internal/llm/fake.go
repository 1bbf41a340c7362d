package llm

import (
	"context"
	"fmt"
	"sync"
)

// FakeClient is a scripted Client for tests and dry runs. Responses are
// served in order per method; when the script is exhausted the fallback
// function (if any) is invoked, otherwise a canned echo is returned.
type FakeClient struct {
	mu        sync.Mutex
	responses []string
	errs      []error
	calls     int
	// Fallback produces a response when the script runs out. May be nil.
	Fallback func(prompt string) (string, error)
}

// NewFakeClient builds a FakeClient that replays the given responses in order.
func NewFakeClient(responses ...string) *FakeClient {
	return &FakeClient{responses: responses}
}

// FailWith appends a scripted error. Errors are interleaved with responses in
// call order: a nil entry means the next scripted response is returned.
func (f *FakeClient) FailWith(err error) *FakeClient {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs = append(f.errs, err)
	return f
}

// Calls reports how many generate calls the fake has served.
func (f *FakeClient) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// GenerateContent returns the next scripted response.
func (f *FakeClient) GenerateContent(_ context.Context, prompt string, _ ModelTier) (string, error) {
	return f.next(prompt)
}

// GenerateJSON returns the next scripted response.
func (f *FakeClient) GenerateJSON(_ context.Context, prompt string, _ ModelTier) (string, error) {
	return f.next(prompt)
}

// Close is a no-op.
func (f *FakeClient) Close() error { return nil }

func (f *FakeClient) next(prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	idx := f.calls
	f.calls++

	if idx < len(f.errs) && f.errs[idx] != nil {
		return "", f.errs[idx]
	}
	if idx < len(f.responses) {
		return f.responses[idx], nil
	}
	if f.Fallback != nil {
		return f.Fallback(prompt)
	}
	return fmt.Sprintf("generated response %d", idx+1), nil
}
