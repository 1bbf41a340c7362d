package draft

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bordenet/bloginator-sub001/internal/types"
)

// WriteFile publishes the draft as an indented JSON artifact. The write is
// atomic via a temp file renamed into place, so a concurrent reader never
// observes a partial draft.
func WriteFile(path string, d *types.Draft) error {
	if d == nil {
		return fmt.Errorf("draft is nil")
	}

	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp draft file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write draft file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close draft file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to publish draft file %s: %w", path, err)
	}
	return nil
}

// ReadFile loads a draft previously published with WriteFile.
func ReadFile(path string) (*types.Draft, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read draft file: %w", err)
	}
	var d types.Draft
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to parse draft file %s: %w", path, err)
	}
	return &d, nil
}
