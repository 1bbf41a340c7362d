package backend

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bordenet/bloginator-sub001/internal/batch"
	"github.com/bordenet/bloginator-sub001/internal/llm"
	"github.com/bordenet/bloginator-sub001/internal/types"
)

func TestNew_ExhaustiveStrategies(t *testing.T) {
	gen, err := New(Config{Strategy: StrategyImmediate, Client: llm.NewFakeClient()})
	require.NoError(t, err)
	assert.Empty(t, gen.BatchDir())

	gen, err = New(Config{Strategy: StrategyDeferred, BatchRoot: t.TempDir()})
	require.NoError(t, err)
	assert.NotEmpty(t, gen.BatchDir())
}

func TestNew_UnknownStrategy(t *testing.T) {
	_, err := New(Config{Strategy: "smoke-signals"})
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}

func TestNew_MissingInputs(t *testing.T) {
	_, err := New(Config{Strategy: StrategyImmediate})
	assert.Error(t, err)

	_, err = New(Config{Strategy: StrategyDeferred})
	assert.Error(t, err)
}

func makeRequests(n int) []types.GenerationRequest {
	reqs := make([]types.GenerationRequest, 0, n)
	for seq := 1; seq <= n; seq++ {
		reqs = append(reqs, types.GenerationRequest{
			ID:           batch.RequestID(seq),
			SectionTitle: "section",
			Prompt:       "prompt",
			CreatedAt:    time.Now().UTC(),
		})
	}
	return reqs
}

func TestImmediate_SubmitCollect(t *testing.T) {
	fake := llm.NewFakeClient("one", "two", "three")
	gen, err := New(Config{Strategy: StrategyImmediate, Client: fake})
	require.NoError(t, err)

	handles, err := gen.Submit(context.Background(), makeRequests(3))
	require.NoError(t, err)
	require.Len(t, handles, 3)

	results, err := gen.Collect(context.Background(), handles, CollectOptions{})
	require.NoError(t, err)
	require.Len(t, results, 3)

	contents := make(map[string]bool)
	for handle, result := range results {
		require.NoError(t, result.Err)
		require.NotNil(t, result.Response)
		assert.Equal(t, handle, result.Response.RequestID)
		contents[result.Response.Content] = true
	}
	assert.Len(t, contents, 3)
}

func TestImmediate_PerPromptFailureIsolated(t *testing.T) {
	fake := llm.NewFakeClient()
	fake.Fallback = func(prompt string) (string, error) {
		if prompt == "boom" {
			return "", errors.New("backend unreachable")
		}
		return "fine", nil
	}
	gen, err := New(Config{Strategy: StrategyImmediate, Client: fake, Parallelism: 1})
	require.NoError(t, err)

	reqs := makeRequests(2)
	reqs[1].Prompt = "boom"
	handles, err := gen.Submit(context.Background(), reqs)
	require.NoError(t, err)

	results, err := gen.Collect(context.Background(), handles, CollectOptions{})
	require.NoError(t, err)

	assert.NoError(t, results[handles[0]].Err)

	var transportErr *TransportError
	require.ErrorAs(t, results[handles[1]].Err, &transportErr)
	assert.Equal(t, handles[1], transportErr.RequestID)
}

func TestImmediate_UnknownHandle(t *testing.T) {
	gen, err := New(Config{Strategy: StrategyImmediate, Client: llm.NewFakeClient()})
	require.NoError(t, err)

	_, err = gen.Collect(context.Background(), []string{"req-9999"}, CollectOptions{})
	assert.Error(t, err)
}

func TestDeferred_SubmitWritesArtifacts(t *testing.T) {
	gen, err := New(Config{Strategy: StrategyDeferred, BatchRoot: t.TempDir()})
	require.NoError(t, err)

	handles, err := gen.Submit(context.Background(), makeRequests(2))
	require.NoError(t, err)
	require.Len(t, handles, 2)

	store, err := batch.OpenStore(gen.BatchDir())
	require.NoError(t, err)
	requests, err := store.ListRequests()
	require.NoError(t, err)
	assert.Len(t, requests, 2)
}

func TestDeferred_CollectMapsOutcomes(t *testing.T) {
	gen, err := New(Config{Strategy: StrategyDeferred, BatchRoot: t.TempDir()})
	require.NoError(t, err)

	handles, err := gen.Submit(context.Background(), makeRequests(3))
	require.NoError(t, err)

	store, err := batch.OpenStore(gen.BatchDir())
	require.NoError(t, err)
	require.NoError(t, store.WriteResponse(types.GenerationResponse{RequestID: handles[0], Content: "good"}))
	require.NoError(t, store.WriteResponse(types.GenerationResponse{RequestID: handles[1], Content: "", Error: "refused"}))

	results, err := gen.Collect(context.Background(), handles, CollectOptions{
		Timeout:      50 * time.Millisecond,
		PollInterval: 5 * time.Millisecond,
		MinFraction:  0.3,
	})
	require.NoError(t, err)

	assert.Equal(t, "good", results[handles[0]].Response.Content)
	assert.Error(t, results[handles[1]].Err)
	assert.True(t, results[handles[2]].Placeholder)
}

func TestDeferred_CollectBelowThresholdFails(t *testing.T) {
	gen, err := New(Config{Strategy: StrategyDeferred, BatchRoot: t.TempDir()})
	require.NoError(t, err)

	handles, err := gen.Submit(context.Background(), makeRequests(3))
	require.NoError(t, err)

	_, err = gen.Collect(context.Background(), handles, CollectOptions{
		Timeout:      30 * time.Millisecond,
		PollInterval: 5 * time.Millisecond,
		MinFraction:  0.8,
	})
	var timeoutErr *batch.TimeoutError
	assert.ErrorAs(t, err, &timeoutErr)
}

func TestOpenDeferred_Resume(t *testing.T) {
	gen, err := New(Config{Strategy: StrategyDeferred, BatchRoot: t.TempDir()})
	require.NoError(t, err)

	handles, err := gen.Submit(context.Background(), makeRequests(1))
	require.NoError(t, err)

	store, err := batch.OpenStore(gen.BatchDir())
	require.NoError(t, err)
	require.NoError(t, store.WriteResponse(types.GenerationResponse{RequestID: handles[0], Content: "done"}))

	resumed, err := OpenDeferred(gen.BatchDir())
	require.NoError(t, err)

	results, err := resumed.Collect(context.Background(), handles, CollectOptions{
		Timeout:      time.Second,
		PollInterval: 5 * time.Millisecond,
		MinFraction:  0.8,
	})
	require.NoError(t, err)
	assert.Equal(t, "done", results[handles[0]].Response.Content)
}
