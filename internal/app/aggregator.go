package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/WordPressNewsAggregator/internal/domain"
	"github.com/WordPressNewsAggregator/internal/infra/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"
)

// ProgressFunc receives the number of posts accumulated from a source so
// far. It is called with 0 when a source run starts.
type ProgressFunc func(source domain.SourceKind, loaded int)

// Aggregator loads the post collection from a primary source and, when the
// primary fails, from a fallback source. Results of the two are never merged.
type Aggregator struct {
	primary   domain.Source
	fallback  domain.Source
	maxPosts  int
	batchSize int
	throttle  time.Duration
}

// NewAggregator creates an aggregator. A nil fallback disables the fallback.
func NewAggregator(primary, fallback domain.Source, maxPosts, batchSize int, throttle time.Duration) *Aggregator {
	return &Aggregator{
		primary:   primary,
		fallback:  fallback,
		maxPosts:  maxPosts,
		batchSize: batchSize,
		throttle:  throttle,
	}
}

// LoadResult is the outcome of a successful load.
type LoadResult struct {
	Posts        []domain.Post
	Source       domain.SourceKind
	UsedFallback bool
}

// Load runs a full aggregation. A fetch failure on the primary source
// discards everything fetched from it and restarts from page 1 on the
// fallback source. A fallback failure is returned as is.
func (a *Aggregator) Load(ctx context.Context, progress ProgressFunc) (LoadResult, error) {
	tr := otel.Tracer("wordpress-aggregator")
	ctx, span := tr.Start(ctx, "Load")
	defer span.End()

	posts, err := FetchAll(ctx, a.primary, a.maxPosts, a.batchSize, a.throttle, progress)
	if err == nil {
		span.SetAttributes(attribute.String("source", a.primary.GetName()), attribute.Int("posts", len(posts)))
		return LoadResult{Posts: posts, Source: a.primary.Kind()}, nil
	}
	if a.fallback == nil || !isFetchFailure(err) {
		span.RecordError(err)
		return LoadResult{}, err
	}

	slog.Warn("Primary source failed, trying fallback",
		"primary", a.primary.GetName(), "fallback", a.fallback.GetName(), "error", err)
	metrics.FallbacksTriggered.Inc()
	span.AddEvent("fallback")

	posts, fbErr := FetchAll(ctx, a.fallback, a.maxPosts, a.batchSize, a.throttle, progress)
	if fbErr != nil {
		span.RecordError(fbErr)
		return LoadResult{}, fmt.Errorf("fallback source %s failed after primary error (%v): %w",
			a.fallback.GetName(), err, fbErr)
	}

	span.SetAttributes(attribute.String("source", a.fallback.GetName()), attribute.Int("posts", len(posts)))
	return LoadResult{Posts: posts, Source: a.fallback.Kind(), UsedFallback: true}, nil
}

func isFetchFailure(err error) bool {
	return errors.Is(err, domain.ErrNetwork) || errors.Is(err, domain.ErrParse)
}

// FetchAll requests pages 1, 2, ... of src, asking each time for
// min(pageSize, maxPosts-accumulated) posts, until a page comes back empty
// or short, or maxPosts posts are accumulated. Consecutive requests are
// spaced by throttle. The first error aborts the run without partial results.
func FetchAll(
	ctx context.Context,
	src domain.Source,
	maxPosts, pageSize int,
	throttle time.Duration,
	progress ProgressFunc,
) ([]domain.Post, error) {
	if maxPosts <= 0 {
		return nil, fmt.Errorf("invalid max posts: %d", maxPosts)
	}
	if pageSize <= 0 {
		return nil, fmt.Errorf("invalid page size: %d", pageSize)
	}
	if progress == nil {
		progress = func(domain.SourceKind, int) {}
	}

	tr := otel.Tracer("wordpress-aggregator")
	ctx, span := tr.Start(ctx, "FetchAll")
	defer span.End()
	span.SetAttributes(attribute.String("source", src.GetName()))

	limiter := rate.NewLimiter(rate.Every(throttle), 1)
	progress(src.Kind(), 0)

	var all []domain.Post
	for page := 1; len(all) < maxPosts; page++ {
		if err := limiter.Wait(ctx); err != nil {
			return nil, err
		}

		want := min(pageSize, maxPosts-len(all))
		posts, err := src.FetchPage(ctx, page, want)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		if len(posts) == 0 {
			slog.Debug("No posts on page, stopping", "source", src.GetName(), "page", page)
			break
		}

		all = append(all, posts...)
		slog.Info("Fetched page",
			"source", src.GetName(),
			"page", page,
			"posts_on_page", len(posts),
			"total_posts", len(all))
		progress(src.Kind(), min(len(all), maxPosts))

		if len(posts) < want {
			slog.Debug("Short page, source exhausted", "source", src.GetName(), "page", page)
			break
		}
	}

	if len(all) > maxPosts {
		all = all[:maxPosts]
	}
	span.SetAttributes(attribute.Int("posts", len(all)))
	return all, nil
}
