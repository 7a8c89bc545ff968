package transformer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/WordPressNewsAggregator/internal/domain"
	"github.com/WordPressNewsAggregator/internal/domain/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const wporgPage = `[
  {
    "id": 1,
    "date": "2024-06-01T09:00:00",
    "link": "https://site.example/one",
    "title": {"rendered": "One"},
    "excerpt": {"rendered": "<p>Excerpt one</p>"},
    "content": {"rendered": "<p><img src=\"https://site.example/c1.png\"></p>"},
    "featured_media": 101
  },
  {
    "id": 2,
    "date": "2024-06-02T09:00:00",
    "link": "https://site.example/two",
    "title": {"rendered": "Two"},
    "excerpt": {"rendered": ""},
    "content": {"rendered": "<div><img src=\"https://site.example/c2.png\"></div>"},
    "featured_media": 202
  },
  {
    "id": 3,
    "date": "",
    "link": "https://site.example/three",
    "title": {"rendered": "Three"},
    "excerpt": {"rendered": ""},
    "content": {"rendered": "<p><img src=\"https://site.example/c3.png\"></p>"},
    "featured_media": 0
  }
]`

func TestWordPressOrgTransformer_Transform(t *testing.T) {
	media := new(mocks.MockMediaResolver)
	media.On("ResolveMedia", mock.Anything, 101).Return("https://site.example/featured1.png", nil).Once()
	media.On("ResolveMedia", mock.Anything, 202).Return("", errors.New("media 404")).Once()

	tr := NewWordPressOrgTransformer(media, 4)
	posts, err := tr.Transform(context.Background(), strings.NewReader(wporgPage))
	require.NoError(t, err)
	require.Len(t, posts, 3)

	assert.Equal(t, "One", posts[0].Title)
	assert.Equal(t, "<p>Excerpt one</p>", posts[0].ExcerptHTML)
	assert.Equal(t, "https://site.example/one", posts[0].URL)
	assert.Equal(t, "https://site.example/featured1.png", posts[0].FeaturedImageURL)
	assert.Empty(t, posts[0].FirstContentImageURL)
	assert.Equal(t, domain.SourceWordPressOrg, posts[0].Source)
	assert.True(t, posts[0].PublishedAt.Equal(time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)))

	// Failed lookup is swallowed and the content image takes over.
	assert.Empty(t, posts[1].FeaturedImageURL)
	assert.Equal(t, "https://site.example/c2.png", posts[1].FirstContentImageURL)

	// No featured media: no lookup at all.
	assert.Equal(t, "https://site.example/c3.png", posts[2].FirstContentImageURL)
	assert.False(t, posts[2].HasDate())

	media.AssertExpectations(t)
	media.AssertNotCalled(t, "ResolveMedia", mock.Anything, 0)
}

func TestWordPressOrgTransformer_NilMediaResolver(t *testing.T) {
	posts, err := NewWordPressOrgTransformer(nil, 0).Transform(context.Background(), strings.NewReader(wporgPage))
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Empty(t, posts[0].FeaturedImageURL)
	assert.Equal(t, "https://site.example/c1.png", posts[0].FirstContentImageURL)
}

func TestWordPressOrgTransformer_InvalidShape(t *testing.T) {
	_, err := NewWordPressOrgTransformer(nil, 1).Transform(context.Background(), strings.NewReader(`{"code":"rest_error"}`))
	assert.Error(t, err)
}

func TestGetTransformer(t *testing.T) {
	tr, err := GetTransformer(domain.SourceWordPressCom, Options{})
	require.NoError(t, err)
	assert.IsType(t, &WordPressComTransformer{}, tr)

	tr, err = GetTransformer(domain.SourceWordPressOrg, Options{MediaConcurrency: 2})
	require.NoError(t, err)
	assert.IsType(t, &WordPressOrgTransformer{}, tr)

	_, err = GetTransformer("blogger", Options{})
	assert.Error(t, err)
}

func TestWordPressOrgTransformer_PrefersGMTDate(t *testing.T) {
	body := `[
	  {"id": 1, "date": "2024-06-01T09:00:00", "date_gmt": "2024-06-01T07:00:00", "link": "https://site.example/a",
	   "title": {"rendered": "A"}, "featured_media": 0},
	  {"id": 2, "date": "2024-06-01T09:00:00", "date_gmt": "", "link": "https://site.example/b",
	   "title": {"rendered": "B"}, "featured_media": 0}
	]`

	posts, err := NewWordPressOrgTransformer(nil, 1).Transform(context.Background(), strings.NewReader(body))
	require.NoError(t, err)
	require.Len(t, posts, 2)

	assert.True(t, posts[0].PublishedAt.Equal(time.Date(2024, 6, 1, 7, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-06-01T09:00:00", posts[0].RawDate)
	// Without date_gmt the local date is the best available value.
	assert.True(t, posts[1].PublishedAt.Equal(time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)))
}
