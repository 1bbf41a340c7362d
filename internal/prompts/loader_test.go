package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_KnownPrompts(t *testing.T) {
	for _, key := range []string{"outline", "section", "section-retry-1", "section-retry-2"} {
		prompt, err := Get("generation.json", key)
		require.NoError(t, err, "key %s", key)
		assert.NotEmpty(t, prompt)
	}
}

func TestGet_UnknownKey(t *testing.T) {
	_, err := Get("generation.json", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `prompt key "nope" not found`)
}

func TestGet_UnknownFile(t *testing.T) {
	_, err := Get("missing.json", "outline")
	assert.Error(t, err)
}

func TestVariants_Section(t *testing.T) {
	variants, err := Variants("generation.json", "section")
	require.NoError(t, err)
	require.Len(t, variants, 2)
	assert.Contains(t, variants[0], "MUST each appear")
	assert.Contains(t, variants[1], "strict constraints")
}

func TestVariants_NoneForOutline(t *testing.T) {
	variants, err := Variants("generation.json", "outline")
	require.NoError(t, err)
	assert.Empty(t, variants)
}

func TestFormat(t *testing.T) {
	got := Format("Topic: {{.Topic}} / {{.Topic}} for {{.Audience}}", map[string]string{
		"Topic":    "Go concurrency",
		"Audience": "backend engineers",
	})
	assert.Equal(t, "Topic: Go concurrency / Go concurrency for backend engineers", got)
}

func TestMustGet_PanicsOnMissing(t *testing.T) {
	assert.Panics(t, func() { MustGet("generation.json", "missing-key") })
}
