package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/WordPressNewsAggregator/internal/domain"
	"github.com/WordPressNewsAggregator/internal/domain/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func makePosts(prefix string, n int, start time.Time) []domain.Post {
	posts := make([]domain.Post, n)
	for i := range posts {
		posts[i] = domain.Post{
			Title:       fmt.Sprintf("%s %03d", prefix, i),
			URL:         fmt.Sprintf("https://example.com/%s/%d", prefix, i),
			PublishedAt: start.Add(-time.Duration(i) * time.Hour),
		}
	}
	return posts
}

// pagedMock serves total posts in pages of whatever size is requested.
func pagedMock(name string, kind domain.SourceKind, total int) *mocks.MockSource {
	all := makePosts(name, total, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	src := &mocks.MockSource{Name: name, K: kind}
	var mu sync.Mutex
	offset := 0
	src.On("FetchPage", mock.Anything, mock.AnythingOfType("int"), mock.AnythingOfType("int")).
		Return(func(_ context.Context, _ int, perPage int) []domain.Post {
			mu.Lock()
			defer mu.Unlock()
			end := min(offset+perPage, len(all))
			page := all[offset:end]
			offset = end
			return page
		}, nil)
	return src
}

type progressRecorder struct {
	mu     sync.Mutex
	events []int
	kinds  []domain.SourceKind
}

func (r *progressRecorder) record(kind domain.SourceKind, loaded int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.kinds = append(r.kinds, kind)
	r.events = append(r.events, loaded)
}

func TestFetchAll_StopsAtMax(t *testing.T) {
	src := &mocks.MockSource{Name: "wordpress.com", K: domain.SourceWordPressCom}
	for page := 1; page <= 2; page++ {
		src.On("FetchPage", mock.Anything, page, 100).Return(makePosts("p", 100, time.Now()), nil).Once()
	}

	rec := &progressRecorder{}
	posts, err := FetchAll(context.Background(), src, 200, 100, 0, rec.record)

	require.NoError(t, err)
	assert.Len(t, posts, 200)
	assert.Equal(t, []int{0, 100, 200}, rec.events)
	src.AssertNumberOfCalls(t, "FetchPage", 2)
}

func TestFetchAll_RequestsRemainder(t *testing.T) {
	src := &mocks.MockSource{Name: "wordpress.com", K: domain.SourceWordPressCom}
	src.On("FetchPage", mock.Anything, 1, 100).Return(makePosts("p", 100, time.Now()), nil).Once()
	src.On("FetchPage", mock.Anything, 2, 50).Return(makePosts("q", 50, time.Now()), nil).Once()

	posts, err := FetchAll(context.Background(), src, 150, 100, 0, nil)

	require.NoError(t, err)
	assert.Len(t, posts, 150)
	src.AssertExpectations(t)
}

func TestFetchAll_ShortPageStops(t *testing.T) {
	src := &mocks.MockSource{Name: "wordpress.com", K: domain.SourceWordPressCom}
	src.On("FetchPage", mock.Anything, 1, 100).Return(makePosts("p", 100, time.Now()), nil).Once()
	src.On("FetchPage", mock.Anything, 2, 100).Return(makePosts("q", 37, time.Now()), nil).Once()

	posts, err := FetchAll(context.Background(), src, 200, 100, 0, nil)

	require.NoError(t, err)
	assert.Len(t, posts, 137)
	src.AssertNumberOfCalls(t, "FetchPage", 2)
}

func TestFetchAll_EmptyFirstPage(t *testing.T) {
	src := &mocks.MockSource{Name: "wordpress.com", K: domain.SourceWordPressCom}
	src.On("FetchPage", mock.Anything, 1, 100).Return([]domain.Post{}, nil).Once()

	posts, err := FetchAll(context.Background(), src, 200, 100, 0, nil)

	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestFetchAll_ErrorDiscardsPartial(t *testing.T) {
	src := &mocks.MockSource{Name: "wordpress.com", K: domain.SourceWordPressCom}
	src.On("FetchPage", mock.Anything, 1, 100).Return(makePosts("p", 100, time.Now()), nil).Once()
	src.On("FetchPage", mock.Anything, 2, 100).
		Return(nil, domain.NewNetworkError("wordpress.com", 2, errors.New("connection reset"))).Once()

	posts, err := FetchAll(context.Background(), src, 200, 100, 0, nil)

	assert.Nil(t, posts)
	assert.ErrorIs(t, err, domain.ErrNetwork)
}

func TestFetchAll_InvalidArguments(t *testing.T) {
	src := &mocks.MockSource{Name: "wordpress.com", K: domain.SourceWordPressCom}

	_, err := FetchAll(context.Background(), src, 0, 100, 0, nil)
	assert.Error(t, err)
	_, err = FetchAll(context.Background(), src, 100, 0, 0, nil)
	assert.Error(t, err)
	src.AssertNotCalled(t, "FetchPage", mock.Anything, mock.Anything, mock.Anything)
}

func TestFetchAll_ContextCancelled(t *testing.T) {
	src := &mocks.MockSource{Name: "wordpress.com", K: domain.SourceWordPressCom}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := FetchAll(ctx, src, 100, 100, 0, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAggregator_Load(t *testing.T) {
	tests := []struct {
		name         string
		total        int
		max          int
		batch        int
		wantLen      int
		wantRequests int
	}{
		{"fewer than max", 137, 200, 100, 137, 2},
		{"exactly max", 200, 200, 100, 200, 2},
		{"more than max", 500, 200, 100, 200, 2},
		{"small batch", 45, 200, 20, 45, 3},
		{"empty source", 0, 200, 100, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			primary := pagedMock("com", domain.SourceWordPressCom, tt.total)
			fallback := &mocks.MockSource{Name: "org", K: domain.SourceWordPressOrg}

			agg := NewAggregator(primary, fallback, tt.max, tt.batch, 0)
			res, err := agg.Load(context.Background(), nil)

			require.NoError(t, err)
			assert.Len(t, res.Posts, tt.wantLen)
			assert.Equal(t, domain.SourceWordPressCom, res.Source)
			assert.False(t, res.UsedFallback)
			primary.AssertNumberOfCalls(t, "FetchPage", tt.wantRequests)
			fallback.AssertNotCalled(t, "FetchPage", mock.Anything, mock.Anything, mock.Anything)

			for _, c := range primary.Calls {
				assert.LessOrEqual(t, c.Arguments.Int(2), tt.batch)
			}
		})
	}
}

func TestAggregator_FallbackRestartsFromScratch(t *testing.T) {
	primary := &mocks.MockSource{Name: "com", K: domain.SourceWordPressCom}
	primary.On("FetchPage", mock.Anything, 1, 100).Return(makePosts("com", 100, time.Now()), nil).Once()
	primary.On("FetchPage", mock.Anything, 2, 100).
		Return(nil, domain.NewParseError("com", 2, errors.New("unexpected token"))).Once()

	fallback := pagedMock("org", domain.SourceWordPressOrg, 30)

	rec := &progressRecorder{}
	agg := NewAggregator(primary, fallback, 200, 100, 0)
	res, err := agg.Load(context.Background(), rec.record)

	require.NoError(t, err)
	assert.True(t, res.UsedFallback)
	assert.Equal(t, domain.SourceWordPressOrg, res.Source)
	require.Len(t, res.Posts, 30)
	for _, p := range res.Posts {
		assert.Contains(t, p.Title, "org")
	}
	fallback.AssertCalled(t, "FetchPage", mock.Anything, 1, 100)

	assert.Equal(t, []int{0, 100, 0, 30}, rec.events)
	assert.Equal(t, []domain.SourceKind{
		domain.SourceWordPressCom, domain.SourceWordPressCom,
		domain.SourceWordPressOrg, domain.SourceWordPressOrg,
	}, rec.kinds)
}

func TestAggregator_FallbackFails(t *testing.T) {
	primary := &mocks.MockSource{Name: "com", K: domain.SourceWordPressCom}
	primary.On("FetchPage", mock.Anything, 1, 100).
		Return(nil, domain.NewNetworkError("com", 1, errors.New("dns failure"))).Once()
	fallback := &mocks.MockSource{Name: "org", K: domain.SourceWordPressOrg}
	fallback.On("FetchPage", mock.Anything, 1, 100).
		Return(nil, domain.NewNetworkError("org", 1, errors.New("status 500"))).Once()

	agg := NewAggregator(primary, fallback, 200, 100, 0)
	res, err := agg.Load(context.Background(), nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNetwork)
	assert.Empty(t, res.Posts)
}

func TestAggregator_NoFallbackConfigured(t *testing.T) {
	primary := &mocks.MockSource{Name: "com", K: domain.SourceWordPressCom}
	primary.On("FetchPage", mock.Anything, 1, 100).
		Return(nil, domain.NewNetworkError("com", 1, errors.New("timeout"))).Once()

	agg := NewAggregator(primary, nil, 200, 100, 0)
	_, err := agg.Load(context.Background(), nil)

	assert.ErrorIs(t, err, domain.ErrNetwork)
}

func TestAggregator_ThrottleSpacesRequests(t *testing.T) {
	primary := pagedMock("com", domain.SourceWordPressCom, 30)

	agg := NewAggregator(primary, nil, 30, 10, 20*time.Millisecond)
	start := time.Now()
	res, err := agg.Load(context.Background(), nil)

	require.NoError(t, err)
	assert.Len(t, res.Posts, 30)
	// Three requests, the first immediate.
	assert.GreaterOrEqual(t, time.Since(start), 35*time.Millisecond)
}
