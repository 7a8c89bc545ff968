package transformer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/WordPressNewsAggregator/internal/domain"
)

type WordPressComPost struct {
	ID            int           `json:"ID"`
	Title         string        `json:"title"`
	Excerpt       string        `json:"excerpt"`
	Content       string        `json:"content"`
	URL           string        `json:"URL"`
	FeaturedImage featuredImage `json:"featured_image"`
	Date          string        `json:"date"`
}

type WordPressComResponse struct {
	Found int                `json:"found"`
	Posts []WordPressComPost `json:"posts"`
}

// featuredImage accepts the plain URL string the v1.1 API sends as well as
// an object carrying a "URL" field.
type featuredImage string

func (f *featuredImage) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = featuredImage(s)
		return nil
	}
	var obj struct {
		URL string `json:"URL"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*f = featuredImage(obj.URL)
	return nil
}

type WordPressComTransformer struct{}

func NewWordPressComTransformer() *WordPressComTransformer {
	return &WordPressComTransformer{}
}

// Transform decodes a v1.1 posts listing. A missing "posts" array is an
// exhausted listing, not an error.
func (t *WordPressComTransformer) Transform(_ context.Context, reader io.Reader) ([]domain.Post, error) {
	var resp WordPressComResponse
	if err := json.NewDecoder(reader).Decode(&resp); err != nil {
		return nil, fmt.Errorf("failed to decode wordpress.com response: %w", err)
	}

	posts := make([]domain.Post, 0, len(resp.Posts))
	for _, p := range resp.Posts {
		posts = append(posts, t.normalize(p))
	}
	return posts, nil
}

// normalize leaves FirstContentImageURL empty; the thumbnail falls back to
// the content image at display time.
func (t *WordPressComTransformer) normalize(p WordPressComPost) domain.Post {
	return domain.Post{
		Title:            p.Title,
		ExcerptHTML:      p.Excerpt,
		ContentHTML:      p.Content,
		URL:              p.URL,
		FeaturedImageURL: string(p.FeaturedImage),
		PublishedAt:      parseDate(p.Date),
		RawDate:          p.Date,
		Source:           domain.SourceWordPressCom,
	}
}
