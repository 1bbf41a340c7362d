// Package batch implements the durable file-based request/response channel
// used by the deferred generation backend. The orchestrator writes immutable
// request artifacts; an external responder writes response artifacts at its
// own pace; a polling collector matches them by request id.
package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bordenet/bloginator-sub001/internal/types"
)

const (
	requestsDirName  = "requests"
	responsesDirName = "responses"
	artifactExt      = ".json"
)

// Store is one batch's request/response directory pair. A store is scoped to
// exactly one batch; cross-batch id collisions are prevented by the uuid batch
// directory.
type Store struct {
	batchID      string
	requestsDir  string
	responsesDir string
}

// NewStore creates a fresh store for a new batch under root, using a uuid
// batch id for the directory name.
func NewStore(root string) (*Store, error) {
	batchID := uuid.NewString()
	dir := filepath.Join(root, batchID)
	for _, sub := range []string{requestsDirName, responsesDirName} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0755); err != nil {
			return nil, fmt.Errorf("failed to create batch store %s: %w", dir, err)
		}
	}
	// Publish the response contract where the external responder will see it.
	schemaPath := filepath.Join(dir, "response-schema.json")
	if err := os.WriteFile(schemaPath, []byte(ResponseSchema()), 0644); err != nil {
		return nil, fmt.Errorf("failed to write response schema: %w", err)
	}
	return &Store{
		batchID:      batchID,
		requestsDir:  filepath.Join(dir, requestsDirName),
		responsesDir: filepath.Join(dir, responsesDirName),
	}, nil
}

// OpenStore opens an existing batch directory, e.g. to resume collection
// after a restart.
func OpenStore(dir string) (*Store, error) {
	requestsDir := filepath.Join(dir, requestsDirName)
	if info, err := os.Stat(requestsDir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("not a batch store (missing %s directory): %s", requestsDirName, dir)
	}
	responsesDir := filepath.Join(dir, responsesDirName)
	if err := os.MkdirAll(responsesDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to ensure response directory: %w", err)
	}
	return &Store{
		batchID:      filepath.Base(dir),
		requestsDir:  requestsDir,
		responsesDir: responsesDir,
	}, nil
}

// BatchID returns the batch's unique identifier.
func (s *Store) BatchID() string { return s.batchID }

// Dir returns the batch directory containing both stores.
func (s *Store) Dir() string { return filepath.Dir(s.requestsDir) }

// ResponsesDir returns the directory the external responder writes into.
func (s *Store) ResponsesDir() string { return s.responsesDir }

// RequestID formats the monotonically increasing request id for a sequence
// number within the batch.
func RequestID(seq int) string {
	return fmt.Sprintf("req-%04d", seq)
}

// WriteRequest publishes a request artifact. Requests are immutable: writing
// an id that already exists is an error. Publication is atomic via a temp
// file renamed into place, so readers never observe a partial artifact.
func (s *Store) WriteRequest(req types.GenerationRequest) error {
	if req.ID == "" {
		return fmt.Errorf("request id is empty")
	}
	path := filepath.Join(s.requestsDir, req.ID+artifactExt)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("request artifact %s already exists; requests are immutable", req.ID)
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now().UTC()
	}
	return writeArtifact(path, req)
}

// WriteResponse publishes a response artifact atomically. Unlike requests,
// a response for an id may be overwritten; the collector treats a rewrite as
// an update and keeps only the most recent value.
func (s *Store) WriteResponse(resp types.GenerationResponse) error {
	if resp.RequestID == "" {
		return fmt.Errorf("response request_id is empty")
	}
	path := filepath.Join(s.responsesDir, resp.RequestID+artifactExt)
	return writeArtifact(path, resp)
}

// ListRequests returns every request artifact in id order.
func (s *Store) ListRequests() ([]types.GenerationRequest, error) {
	entries, err := os.ReadDir(s.requestsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list request store: %w", err)
	}

	var requests []types.GenerationRequest
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), artifactExt) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.requestsDir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read request artifact %s: %w", entry.Name(), err)
		}
		var req types.GenerationRequest
		if err := json.Unmarshal(data, &req); err != nil {
			return nil, fmt.Errorf("failed to parse request artifact %s: %w", entry.Name(), err)
		}
		requests = append(requests, req)
	}

	sort.Slice(requests, func(i, j int) bool { return requests[i].ID < requests[j].ID })
	return requests, nil
}

// ReadResponse loads and schema-validates the response artifact for a request
// id. A missing artifact returns os.ErrNotExist; a malformed one returns a
// *SchemaError.
func (s *Store) ReadResponse(requestID string) (*types.GenerationResponse, error) {
	path := filepath.Join(s.responsesDir, requestID+artifactExt)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := ValidateResponseArtifact(data); err != nil {
		return nil, &SchemaError{RequestID: requestID, Cause: err}
	}

	var resp types.GenerationResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, &SchemaError{RequestID: requestID, Cause: err}
	}
	if resp.RequestID == "" {
		resp.RequestID = requestID
	} else if resp.RequestID != requestID {
		return nil, &SchemaError{
			RequestID: requestID,
			Cause:     fmt.Errorf("artifact names request %s but carries request_id %s", requestID, resp.RequestID),
		}
	}
	if resp.ReceivedAt.IsZero() {
		resp.ReceivedAt = time.Now().UTC()
	}
	return &resp, nil
}

// writeArtifact marshals v and publishes it via temp file + rename in the
// destination directory, which is atomic on POSIX filesystems.
func writeArtifact(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal artifact: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp artifact: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write temp artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close temp artifact: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to publish artifact %s: %w", filepath.Base(path), err)
	}
	return nil
}
