package batch

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bordenet/bloginator-sub001/internal/types"
)

func TestRequestID(t *testing.T) {
	assert.Equal(t, "req-0001", RequestID(1))
	assert.Equal(t, "req-0042", RequestID(42))
}

func TestNewStore_Layout(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	assert.NotEmpty(t, store.BatchID())
	assert.DirExists(t, filepath.Join(store.Dir(), "requests"))
	assert.DirExists(t, filepath.Join(store.Dir(), "responses"))
	// The response contract is published alongside the stores
	assert.FileExists(t, filepath.Join(store.Dir(), "response-schema.json"))
}

func TestWriteRequest_Immutable(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	req := types.GenerationRequest{ID: RequestID(1), SectionTitle: "Intro", Prompt: "write the intro"}
	require.NoError(t, store.WriteRequest(req))

	err = store.WriteRequest(req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requests are immutable")
}

func TestListRequests_IDOrder(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	for _, seq := range []int{3, 1, 2} {
		require.NoError(t, store.WriteRequest(types.GenerationRequest{ID: RequestID(seq), Prompt: "p"}))
	}

	requests, err := store.ListRequests()
	require.NoError(t, err)
	require.Len(t, requests, 3)
	assert.Equal(t, "req-0001", requests[0].ID)
	assert.Equal(t, "req-0002", requests[1].ID)
	assert.Equal(t, "req-0003", requests[2].ID)
}

func TestReadResponse_Valid(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.WriteResponse(types.GenerationResponse{
		RequestID:  "req-0001",
		Content:    "generated text",
		TokensUsed: 42,
	}))

	resp, err := store.ReadResponse("req-0001")
	require.NoError(t, err)
	assert.Equal(t, "generated text", resp.Content)
	assert.Equal(t, 42, resp.TokensUsed)
	assert.False(t, resp.ReceivedAt.IsZero())
}

func TestReadResponse_Missing(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.ReadResponse("req-0001")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadResponse_SchemaViolation(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	// Missing required "content" field
	path := filepath.Join(store.ResponsesDir(), "req-0001.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"request_id": "req-0001"}`), 0644))

	_, err = store.ReadResponse("req-0001")
	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, "req-0001", schemaErr.RequestID)
	assert.Contains(t, schemaErr.Error(), "content")
}

func TestReadResponse_Unreadable(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	path := filepath.Join(store.ResponsesDir(), "req-0001.json")
	require.NoError(t, os.WriteFile(path, []byte("not json at all {"), 0644))

	_, err = store.ReadResponse("req-0001")
	var schemaErr *SchemaError
	assert.True(t, errors.As(err, &schemaErr))
}

func TestReadResponse_IDMismatch(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	path := filepath.Join(store.ResponsesDir(), "req-0001.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"request_id": "req-0099", "content": "x"}`), 0644))

	_, err = store.ReadResponse("req-0001")
	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Contains(t, schemaErr.Error(), "req-0099")
}

func TestOpenStore_Resume(t *testing.T) {
	original, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, original.WriteRequest(types.GenerationRequest{ID: RequestID(1), Prompt: "p"}))

	reopened, err := OpenStore(original.Dir())
	require.NoError(t, err)
	assert.Equal(t, original.BatchID(), reopened.BatchID())

	requests, err := reopened.ListRequests()
	require.NoError(t, err)
	assert.Len(t, requests, 1)
}

func TestOpenStore_NotAStore(t *testing.T) {
	_, err := OpenStore(t.TempDir())
	assert.Error(t, err)
}

func TestWriteResponse_NoPartialArtifacts(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.WriteResponse(types.GenerationResponse{RequestID: "req-0001", Content: "x"}))

	// Publication goes through rename; no temp files may remain visible.
	entries, err := os.ReadDir(store.ResponsesDir())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "req-0001.json", entries[0].Name())
}
