package gemini

import (
	"fmt"
	"strings"

	"github.com/alfredjeanlab/reelcast/internal/model"
)

// ScriptPrompt asks for a short scene-by-scene review script for product.
func ScriptPrompt(p model.ProductDraft) string {
	style := strings.TrimSpace(p.Style)
	if style == "" {
		style = "any"
	}
	var b strings.Builder
	b.WriteString("Write a TikTok product review video script for:\n\n")
	fmt.Fprintf(&b, "Product name: %s\n", p.Name)
	fmt.Fprintf(&b, "Price: %s THB\n", p.Price)
	fmt.Fprintf(&b, "Details: %s\n", p.Description)
	fmt.Fprintf(&b, "Style: %s\n\n", style)
	b.WriteString(`The script should:
1. Suit TikTok (short, punchy, engaging)
2. Open with a hook that grabs attention in the first second
3. Focus on what makes the product stand out
4. End with a clear call to action
5. Use a friendly, playful tone
6. Run roughly 30-60 seconds

Format: scene by scene, with narration for each scene.`)
	return b.String()
}
