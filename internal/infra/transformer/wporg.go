package transformer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/WordPressNewsAggregator/internal/content"
	"github.com/WordPressNewsAggregator/internal/domain"
	"github.com/WordPressNewsAggregator/internal/infra/metrics"
	"github.com/WordPressNewsAggregator/pkg/logging"
	"golang.org/x/sync/errgroup"
)

type rendered struct {
	Rendered string `json:"rendered"`
}

type WordPressOrgPost struct {
	ID            int      `json:"id"`
	Date          string   `json:"date"`     // Site-local time
	DateGMT       string   `json:"date_gmt"` // Same instant in UTC
	Link          string   `json:"link"`
	Title         rendered `json:"title"`
	Excerpt       rendered `json:"excerpt"`
	Content       rendered `json:"content"`
	FeaturedMedia int      `json:"featured_media"`
}

type WordPressOrgTransformer struct {
	media       domain.MediaResolver
	concurrency int
	sampler     *logging.ErrorSampler
}

// NewWordPressOrgTransformer creates a transformer that resolves featured
// images through media, issuing at most concurrency lookups at once.
// A nil media resolver skips featured images entirely.
func NewWordPressOrgTransformer(media domain.MediaResolver, concurrency int) *WordPressOrgTransformer {
	if concurrency < 1 {
		concurrency = 1
	}
	return &WordPressOrgTransformer{
		media:       media,
		concurrency: concurrency,
		sampler:     logging.NewErrorSampler(10),
	}
}

// Transform decodes a wp/v2 posts array and resolves the featured images of
// the page before returning. Failed lookups leave the featured image unset.
func (t *WordPressOrgTransformer) Transform(ctx context.Context, reader io.Reader) ([]domain.Post, error) {
	var raw []WordPressOrgPost
	if err := json.NewDecoder(reader).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode wordpress.org response: %w", err)
	}

	posts := make([]domain.Post, len(raw))
	var g errgroup.Group
	g.SetLimit(t.concurrency)

	for i, rp := range raw {
		posts[i] = t.normalize(rp)
		if rp.FeaturedMedia <= 0 || t.media == nil {
			posts[i].FirstContentImageURL = content.FirstImage(posts[i].ContentHTML)
			continue
		}

		g.Go(func() error {
			imageURL, err := t.media.ResolveMedia(ctx, rp.FeaturedMedia)
			if err != nil {
				metrics.MediaLookupFailures.Inc()
				t.sampler.Warn("media_lookup", "Could not fetch featured image",
					"post_id", rp.ID, "media_id", rp.FeaturedMedia, "error", err)
			}
			posts[i].FeaturedImageURL = imageURL
			if imageURL == "" {
				posts[i].FirstContentImageURL = content.FirstImage(posts[i].ContentHTML)
			}
			// Lookup failures never fail the page.
			return nil
		})
	}
	_ = g.Wait()

	return posts, nil
}

func (t *WordPressOrgTransformer) normalize(p WordPressOrgPost) domain.Post {
	return domain.Post{
		Title:       p.Title.Rendered,
		ExcerptHTML: p.Excerpt.Rendered,
		ContentHTML: p.Content.Rendered,
		URL:         p.Link,
		PublishedAt: publishedAt(p),
		RawDate:     p.Date,
		Source:      domain.SourceWordPressOrg,
	}
}

// publishedAt prefers date_gmt, since "date" carries the site's local time
// without an offset.
func publishedAt(p WordPressOrgPost) time.Time {
	if t := parseDate(p.DateGMT); !t.IsZero() {
		return t
	}
	return parseDate(p.Date)
}
