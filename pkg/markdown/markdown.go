package markdown

import (
	"bytes"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	mdParser = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
		),
	)
	policy = bluemonday.UGCPolicy()

	// Comments get a tighter policy: no images, no headings.
	commentPolicy = bluemonday.StrictPolicy().
			AllowElements("p", "br", "strong", "em", "code", "pre", "blockquote", "a").
			AllowAttrs("href").OnElements("a")
)

func init() {
	policy.AllowImages()
	policy.AddTargetBlankToFullyQualifiedLinks(true)
	policy.RequireNoReferrerOnLinks(true)
}

// Render converts post markdown into sanitized HTML.
func Render(source string) string {
	var buf bytes.Buffer
	if err := mdParser.Convert([]byte(source), &buf); err != nil {
		return policy.Sanitize(source) // fallback: sanitize the raw input
	}
	return string(policy.SanitizeBytes(buf.Bytes()))
}

// SanitizeComment strips everything but basic inline formatting from
// user-submitted comment content.
func SanitizeComment(source string) string {
	return commentPolicy.Sanitize(source)
}
