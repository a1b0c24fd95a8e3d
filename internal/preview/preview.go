// Package preview renders a generated script for display and export.
package preview

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/alfredjeanlab/reelcast/internal/model"
)

var (
	md = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)
	policy = bluemonday.UGCPolicy()
)

// HTML converts the script's markdown to sanitised HTML. Model output is
// untrusted, so anything outside the UGC policy is stripped.
func HTML(result model.GenerationResult) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(result.Content), &buf); err != nil {
		return "", fmt.Errorf("render script: %w", err)
	}
	return policy.Sanitize(buf.String()), nil
}

// ExportScript returns a download file name and the plain-text script file.
func ExportScript(result model.GenerationResult) (string, string) {
	p := result.Product
	var b strings.Builder
	b.WriteString("TikTok Video Script\n")
	b.WriteString("==================\n")
	fmt.Fprintf(&b, "Product: %s\n", p.Name)
	fmt.Fprintf(&b, "Created: %s\n\n", result.CreatedAt.Format(time.RFC1123))
	b.WriteString(result.Content)
	b.WriteString("\n\n---\nProduct Details:\n")
	fmt.Fprintf(&b, "- Name: %s\n", p.Name)
	fmt.Fprintf(&b, "- Price: %s THB\n", p.Price)
	fmt.Fprintf(&b, "- Description: %s\n", p.Description)
	fmt.Fprintf(&b, "- Style: %s\n", p.Style)

	name := "tiktok-script-" + slug(p.Name) + "-" + strconv.FormatInt(result.CreatedAt.UnixMilli(), 10) + ".txt"
	return name, b.String()
}

// slug replaces every rune that is not a letter, mark or digit with '-'.
func slug(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsMark(r) || unicode.IsDigit(r) {
			return r
		}
		return '-'
	}, s)
}
