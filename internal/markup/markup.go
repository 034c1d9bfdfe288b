// Package markup turns user supplied markdown into sanitized HTML. It is
// consumed by the engine for post content, profile descriptions, revision
// display and note bodies.
package markup

import (
	"bytes"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Renderer converts markdown into HTML that is safe to persist and display.
type Renderer interface {
	Render(source string) string
}

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
	strict = bluemonday.StrictPolicy()
)

func init() {
	policy.AllowImages()
	policy.AddTargetBlankToFullyQualifiedLinks(true)
	policy.RequireNoReferrerOnLinks(true)
}

// Goldmark is the default Renderer: GFM markdown through a UGC sanitizer.
type Goldmark struct{}

func NewGoldmark() Goldmark { return Goldmark{} }

func (Goldmark) Render(source string) string {
	var buf bytes.Buffer
	if err := mdParser.Convert([]byte(source), &buf); err != nil {
		// Fall back to sanitizing the raw input.
		return policy.Sanitize(source)
	}
	return string(policy.SanitizeBytes(buf.Bytes()))
}

// StripTags removes all markup, leaving plain text. Used for display names
// and other fields that must never carry HTML.
func StripTags(source string) string {
	return strict.Sanitize(source)
}
