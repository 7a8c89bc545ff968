package domain

import (
	"context"
	"time"
)

// SourceKind identifies which WordPress API a post was read from.
type SourceKind string

const (
	SourceWordPressCom SourceKind = "wpcom"
	SourceWordPressOrg SourceKind = "wporg"
)

// Post is the canonical, source-independent blog post record.
type Post struct {
	Title                string     `json:"title"`
	ExcerptHTML          string     `json:"excerpt_html,omitempty"`
	ContentHTML          string     `json:"content_html,omitempty"`
	URL                  string     `json:"url"`
	FeaturedImageURL     string     `json:"featured_image_url,omitempty"`
	FirstContentImageURL string     `json:"first_content_image_url,omitempty"`
	PublishedAt          time.Time  `json:"published_at"`
	RawDate              string     `json:"raw_date,omitempty"` // Date string as sent by the source
	Source               SourceKind `json:"source"`
}

// HasDate reports whether the post carries a parseable publish date.
func (p *Post) HasDate() bool {
	return !p.PublishedAt.IsZero()
}

// Source is one paged post listing endpoint.
type Source interface {
	// FetchPage returns up to perPage posts of the 1-indexed page.
	// An exhausted source returns an empty slice and no error.
	FetchPage(ctx context.Context, page, perPage int) ([]Post, error)
	GetName() string
	Kind() SourceKind
}

// MediaResolver looks up the URL of a media attachment by identifier.
type MediaResolver interface {
	ResolveMedia(ctx context.Context, id int) (string, error)
}

// Progress is a loading progress notification for display purposes.
type Progress struct {
	SessionID string     `json:"session_id"`
	Source    SourceKind `json:"source"`
	Loaded    int        `json:"loaded"`
	Done      bool       `json:"done"`
	Error     string     `json:"error,omitempty"`
}

// ProgressPublisher forwards progress notifications to an external consumer.
type ProgressPublisher interface {
	PublishProgress(ctx context.Context, p Progress) error
	Close() error
}
