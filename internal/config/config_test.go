package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Valid(t *testing.T) {
	path := writeConfig(t, `{
		"backend": "deferred",
		"batch_timeout_seconds": 600,
		"min_response_fraction": 0.5,
		"max_quality_retries": 2
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "deferred", cfg.Backend)
	assert.Equal(t, 600, cfg.BatchTimeoutSeconds)
	assert.InDelta(t, 0.5, cfg.MinResponseFraction, 1e-9)
}

func TestLoad_InvalidBackend(t *testing.T) {
	path := writeConfig(t, `{"backend": "carrier-pigeon"}`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
}

func TestLoad_FractionOutOfRange(t *testing.T) {
	path := writeConfig(t, `{"min_response_fraction": 1.5}`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_MalformedJSON(t *testing.T) {
	path := writeConfig(t, `{backend:`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)

	_, err = Load("")
	assert.Error(t, err)
}

func TestValidate_WordBoundsCrossField(t *testing.T) {
	cfg := Config{MinSectionWords: 500, MaxSectionWords: 100}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "min_section_words")
}

func TestValidate_BannedPatterns(t *testing.T) {
	cfg := Config{BannedPatterns: []string{`(?i)as an ai`, `lorem ipsum`}}
	require.NoError(t, cfg.Validate())

	compiled, err := cfg.CompiledBannedPatterns()
	require.NoError(t, err)
	require.Len(t, compiled, 2)
	assert.True(t, compiled[0].MatchString("As an AI language model"))

	bad := Config{BannedPatterns: []string{`[unclosed`}}
	err = bad.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid banned pattern")
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{Backend: "deferred", MinResponseFraction: 0.5}
	merged := cfg.MergeWithDefaults(Defaults())

	// Explicit values survive
	assert.Equal(t, "deferred", merged.Backend)
	assert.InDelta(t, 0.5, merged.MinResponseFraction, 1e-9)

	// Zero values take defaults
	assert.Equal(t, 1800, merged.BatchTimeoutSeconds)
	assert.Equal(t, 15, merged.PollIntervalSeconds)
	assert.Equal(t, 3, merged.MaxQualityRetries)
	assert.InDelta(t, 0.5, merged.OutlineMajority, 1e-9)
}

func TestDefaults_AreValid(t *testing.T) {
	cfg := Defaults()
	assert.NoError(t, cfg.Validate())
}
