package relevance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bordenet/bloginator-sub001/internal/types"
)

func TestValidateOutput(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		keywords []string
		want     bool
	}{
		{
			name:     "all keywords present",
			text:     "Goroutines communicate over channels.",
			keywords: []string{"goroutines", "channels"},
			want:     true,
		},
		{
			name:     "half present passes",
			text:     "Goroutines are lightweight threads.",
			keywords: []string{"goroutines", "channels"},
			want:     true,
		},
		{
			name:     "minority fails",
			text:     "Goroutines are lightweight.",
			keywords: []string{"goroutines", "channels", "select", "mutex"},
			want:     false,
		},
		{
			name:     "zero hits fails",
			text:     "A treatise on sourdough.",
			keywords: []string{"goroutines"},
			want:     false,
		},
		{
			name:     "case insensitive",
			text:     "GOROUTINES everywhere",
			keywords: []string{"goroutines"},
			want:     true,
		},
		{
			name:     "no keywords passes trivially",
			text:     "anything",
			keywords: nil,
			want:     true,
		},
		{
			name:     "empty text fails when keywords required",
			text:     "   ",
			keywords: []string{"goroutines"},
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateOutput(tt.text, tt.keywords))
		})
	}
}

func TestMissingKeywords(t *testing.T) {
	missing := MissingKeywords("Goroutines are neat.", []string{"goroutines", "channels", "select"})
	assert.Equal(t, []string{"channels", "select"}, missing)
}

func TestCheckOutline_MajorityPasses(t *testing.T) {
	outline := &types.Outline{
		Title: "Go Concurrency",
		Sections: []types.Section{
			{Title: "Goroutine Basics", Description: "starting goroutines"},
			{Title: "Channel Patterns", Description: "buffered channels"},
			{Title: "History of Rome", Description: "the republic era"},
		},
	}

	err := CheckOutline(outline, []string{"goroutines", "channels"}, 0.5)
	assert.NoError(t, err)
}

func TestCheckOutline_Rejected(t *testing.T) {
	// 2 of 5 sections matching (40%) at a 50% threshold must reject
	outline := &types.Outline{
		Title: "Go Concurrency",
		Sections: []types.Section{
			{Title: "Goroutine Basics", Description: "goroutines"},
			{Title: "Channel Patterns", Description: "channels"},
			{Title: "Roman History", Description: "ancient times"},
			{Title: "Pasta Making", Description: "fresh dough"},
			{Title: "Wine Regions", Description: "terroir"},
		},
	}

	err := CheckOutline(outline, []string{"goroutines", "channels"}, 0.5)
	require.Error(t, err)

	var rejected *OutlineRejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Len(t, rejected.Matched, 2)
	assert.Len(t, rejected.Unmatched, 3)
	assert.Contains(t, err.Error(), "2/5 sections (40%)")
	assert.Contains(t, err.Error(), "Roman History")
}

func TestCheckOutline_EmptyOutline(t *testing.T) {
	err := CheckOutline(&types.Outline{Title: "empty"}, []string{"x"}, 0.5)
	assert.Error(t, err)
}
