package preview

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alfredjeanlab/reelcast/internal/model"
)

var result = model.GenerationResult{
	ID:      "gen-abc",
	Content: "## Scene 1\nHook: *glow* in 3 seconds\n\n<script>alert('x')</script>",
	Product: model.ProductDraft{
		Name:        "Vitamin C Serum",
		Description: "Brightening serum",
		Price:       "390",
		Style:       "fun",
	},
	ImageCount: 2,
	CreatedAt:  time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
}

func TestHTML(t *testing.T) {
	out, err := HTML(result)
	require.NoError(t, err)
	assert.Contains(t, out, "<h2")
	assert.Contains(t, out, "<em>glow</em>")
	assert.NotContains(t, out, "<script")
	assert.NotContains(t, out, "alert(")
}

func TestExportScript(t *testing.T) {
	name, text := ExportScript(result)
	assert.Equal(t, "tiktok-script-Vitamin-C-Serum-1714557600000.txt", name)

	assert.True(t, strings.HasPrefix(text, "TikTok Video Script\n==================\nProduct: Vitamin C Serum\n"))
	assert.Contains(t, text, result.Content)
	assert.Contains(t, text, "- Price: 390 THB\n")
	assert.Contains(t, text, "- Style: fun\n")
}

func TestSlug(t *testing.T) {
	for in, want := range map[string]string{
		"Sun Cream SPF50+": "Sun-Cream-SPF50-",
		"เซรั่ม วิตซี":        "เซรั่ม-วิตซี",
		"a/b":              "a-b",
	} {
		assert.Equal(t, want, slug(in), "slug(%q)", in)
	}
}
