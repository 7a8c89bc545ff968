// Package content derives display text and images from rendered post HTML.
package content

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DefaultExcerptLength is the excerpt length used by Excerpt.
const DefaultExcerptLength = 200

const truncationMarker = "..."

// Excerpt is ExtractExcerpt with DefaultExcerptLength.
func Excerpt(s string) string {
	return ExtractExcerpt(s, DefaultExcerptLength)
}

// ExtractExcerpt strips markup from s, decodes entities, trims surrounding
// whitespace and truncates the result to maxLength runes, appending "..."
// when something was cut. A non-positive maxLength selects DefaultExcerptLength.
// Malformed markup is stripped on a best-effort basis.
func ExtractExcerpt(s string, maxLength int) string {
	if s == "" {
		return ""
	}
	if maxLength <= 0 {
		maxLength = DefaultExcerptLength
	}

	text := strings.TrimSpace(stripTags(s))
	return truncate(text, maxLength)
}

// stripTags concatenates the text tokens of s. The tokenizer decodes
// entities in text tokens; script and style bodies are dropped.
func stripTags(s string) string {
	z := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	skip := 0

	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF or a tokenizer error; keep what was read so far.
			return b.String()
		case html.StartTagToken:
			if isRawText(z) {
				skip++
			}
		case html.EndTagToken:
			if isRawText(z) && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		}
	}
}

func isRawText(z *html.Tokenizer) bool {
	name, _ := z.TagName()
	a := atom.Lookup(name)
	return a == atom.Script || a == atom.Style
}

// truncate shortens s to maxLen runes, adding the marker if truncated.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + truncationMarker
}
