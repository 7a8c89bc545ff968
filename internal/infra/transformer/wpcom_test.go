package transformer

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/WordPressNewsAggregator/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wpcomPage = `{
  "found": 2,
  "posts": [
    {
      "ID": 11,
      "title": "Hello &amp; welcome",
      "excerpt": "<p>First post</p>",
      "content": "<p><img src=\"https://img.example/a.jpg\">Body</p>",
      "URL": "https://blog.example/hello",
      "featured_image": "https://img.example/featured.jpg",
      "date": "2024-05-02T10:30:00+02:00"
    },
    {
      "ID": 12,
      "title": "Second",
      "URL": "https://blog.example/second",
      "featured_image": "",
      "date": "not a date"
    }
  ]
}`

func TestWordPressComTransformer_Transform(t *testing.T) {
	tr := NewWordPressComTransformer()

	posts, err := tr.Transform(context.Background(), strings.NewReader(wpcomPage))
	require.NoError(t, err)
	require.Len(t, posts, 2)

	first := posts[0]
	assert.Equal(t, "Hello &amp; welcome", first.Title)
	assert.Equal(t, "<p>First post</p>", first.ExcerptHTML)
	assert.Equal(t, "https://blog.example/hello", first.URL)
	assert.Equal(t, "https://img.example/featured.jpg", first.FeaturedImageURL)
	assert.Empty(t, first.FirstContentImageURL, "content image is resolved at display time")
	assert.Equal(t, domain.SourceWordPressCom, first.Source)
	assert.True(t, first.PublishedAt.Equal(time.Date(2024, 5, 2, 8, 30, 0, 0, time.UTC)))

	assert.False(t, posts[1].HasDate())
	assert.Equal(t, "not a date", posts[1].RawDate)
	assert.Empty(t, posts[1].FeaturedImageURL)
}

func TestWordPressComTransformer_FeaturedImageObject(t *testing.T) {
	body := `{"posts":[{"title":"t","URL":"u","featured_image":{"URL":"https://img.example/obj.jpg"}},
	                   {"title":"t2","URL":"u2","featured_image":null}]}`

	posts, err := NewWordPressComTransformer().Transform(context.Background(), strings.NewReader(body))
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "https://img.example/obj.jpg", posts[0].FeaturedImageURL)
	assert.Empty(t, posts[1].FeaturedImageURL)
}

func TestWordPressComTransformer_Exhausted(t *testing.T) {
	for _, body := range []string{`{"found":0,"posts":[]}`, `{"found":0}`} {
		posts, err := NewWordPressComTransformer().Transform(context.Background(), strings.NewReader(body))
		require.NoError(t, err)
		assert.Empty(t, posts)
	}
}

func TestWordPressComTransformer_InvalidJSON(t *testing.T) {
	_, err := NewWordPressComTransformer().Transform(context.Background(), strings.NewReader(`[{"title":`))
	assert.Error(t, err)
}
