package app

import (
	"time"

	"github.com/WordPressNewsAggregator/internal/content"
	"github.com/WordPressNewsAggregator/internal/domain"
	"github.com/WordPressNewsAggregator/internal/listing"
)

// ViewOptions controls which optional fields are rendered.
type ViewOptions struct {
	ShowThumbnails bool
	ShowExcerpts   bool
	ExcerptLength  int
}

// PostView is a display-ready post entry.
type PostView struct {
	Title        string     `json:"title"`
	URL          string     `json:"url"`
	ThumbnailURL string     `json:"thumbnail_url,omitempty"`
	Excerpt      string     `json:"excerpt,omitempty"`
	PublishedAt  *time.Time `json:"published_at,omitempty"`
}

// View is what the rendering target receives for one page.
type View struct {
	SessionID     string             `json:"session_id"`
	Status        Status             `json:"status"`
	Message       string             `json:"message,omitempty"`
	Error         string             `json:"error,omitempty"`
	Source        domain.SourceKind  `json:"source,omitempty"`
	Loaded        int                `json:"loaded"`
	SortKey       listing.SortKey    `json:"sort_key"`
	SortDirection listing.Direction  `json:"sort_direction"`
	Posts         []PostView         `json:"posts"`
	Pagination    listing.Pagination `json:"pagination"`
	// ScrollToTop asks the host to reset its scroll position after a page change.
	ScrollToTop bool `json:"scroll_to_top"`
	// HideBrokenImages asks the host to hide thumbnails that fail to load.
	HideBrokenImages bool `json:"hide_broken_images"`
}

// RenderPost converts p into its display form.
func RenderPost(p *domain.Post, opts ViewOptions) PostView {
	v := PostView{
		Title: p.Title,
		URL:   p.URL,
	}
	if p.HasDate() {
		t := p.PublishedAt
		v.PublishedAt = &t
	}
	if opts.ShowThumbnails {
		if src, ok := content.ResolveThumbnail(p); ok {
			v.ThumbnailURL = src
		}
	}
	if opts.ShowExcerpts {
		source := p.ExcerptHTML
		if source == "" {
			source = p.ContentHTML
		}
		v.Excerpt = content.ExtractExcerpt(source, opts.ExcerptLength)
	}
	return v
}

// render builds the view of one page with the service's view options.
func (s *NewsAggregatorService) render(posts []domain.Post, pagination listing.Pagination, state SessionState) View {
	opts := s.view
	views := make([]PostView, 0, len(posts))
	for i := range posts {
		views = append(views, RenderPost(&posts[i], opts))
	}

	v := View{
		SessionID:        state.ID,
		Status:           state.Status,
		Message:          state.Message,
		Source:           state.Source,
		Loaded:           state.Loaded,
		SortKey:          state.SortKey,
		SortDirection:    state.SortDir,
		Posts:            views,
		Pagination:       pagination,
		HideBrokenImages: opts.ShowThumbnails,
	}
	if state.Err != nil {
		v.Error = state.Err.Error()
	}
	return v
}
