package content

import (
	"regexp"

	"github.com/WordPressNewsAggregator/internal/domain"
)

// The closing quote must match the opening one, so either quote kind may
// appear inside the other.
var imgSrcPattern = regexp.MustCompile(`(?i)<img\b[^>]*?\ssrc\s*=\s*(?:"([^">]*)"|'([^'>]*)')`)

// FirstImage returns the src of the first <img> tag in s, or "" if none.
// It is a single pattern scan and never fails on malformed markup.
func FirstImage(s string) string {
	if s == "" {
		return ""
	}
	m := imgSrcPattern.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	if m[1] != "" {
		return m[1]
	}
	return m[2]
}

// ResolveThumbnail picks the thumbnail for p: the featured image, then the
// first image of the content.
func ResolveThumbnail(p *domain.Post) (string, bool) {
	if p.FeaturedImageURL != "" {
		return p.FeaturedImageURL, true
	}
	if p.FirstContentImageURL != "" {
		return p.FirstContentImageURL, true
	}
	if src := FirstImage(p.ContentHTML); src != "" {
		return src, true
	}
	return "", false
}
