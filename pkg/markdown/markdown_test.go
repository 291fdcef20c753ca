package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender_BasicMarkdown(t *testing.T) {
	html := Render("## Heading\n\nSome **bold** text.")
	assert.Contains(t, html, "<h2")
	assert.Contains(t, html, "<strong>bold</strong>")
}

func TestRender_StripsScripts(t *testing.T) {
	html := Render("hello <script>alert(1)</script> world")
	assert.NotContains(t, html, "<script>")
	assert.NotContains(t, html, "alert(1)")
	assert.Contains(t, html, "hello")
}

func TestSanitizeComment_KeepsInlineFormatting(t *testing.T) {
	out := SanitizeComment("nice <strong>post</strong> with <code>fmt.Println</code>")
	assert.Contains(t, out, "<strong>post</strong>")
	assert.Contains(t, out, "<code>fmt.Println</code>")
}

func TestSanitizeComment_StripsDangerousMarkup(t *testing.T) {
	out := SanitizeComment(`<img src=x onerror=alert(1)> <script>x()</script> text`)
	assert.NotContains(t, out, "<img")
	assert.NotContains(t, out, "<script>")
	assert.NotContains(t, out, "onerror")
	assert.Contains(t, out, "text")
}
