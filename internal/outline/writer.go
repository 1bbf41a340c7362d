package outline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bordenet/bloginator-sub001/internal/types"
)

// WriteFile publishes the outline as an indented JSON artifact, atomically
// via a temp file renamed into place.
func WriteFile(path string, o *types.Outline) error {
	if o == nil {
		return fmt.Errorf("outline is nil")
	}

	data, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal outline: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp outline file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write outline file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close outline file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to publish outline file %s: %w", path, err)
	}
	return nil
}

// ReadFile loads an outline previously published with WriteFile.
func ReadFile(path string) (*types.Outline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read outline file: %w", err)
	}
	var o types.Outline
	if err := json.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("failed to parse outline file %s: %w", path, err)
	}
	return &o, nil
}
