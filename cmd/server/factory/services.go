package factory

import (
	"errors"
	"fmt"

	"github.com/WordPressNewsAggregator/internal/app"
	"github.com/WordPressNewsAggregator/internal/domain"
	"github.com/WordPressNewsAggregator/internal/listing"
	"github.com/WordPressNewsAggregator/pkg/config"
)

// NewAggregator creates the loader over the configured sources.
func NewAggregator(primary, fallback domain.Source, cfg *config.Config) (*app.Aggregator, error) {
	if primary == nil {
		return nil, errors.New("primary source is nil")
	}
	if cfg.TotalMaxPosts < 1 {
		return nil, fmt.Errorf("invalid max posts: %d", cfg.TotalMaxPosts)
	}
	if cfg.FetchBatch < 1 || cfg.FetchBatch > 100 {
		return nil, fmt.Errorf("invalid fetch batch size: %d (must be 1-100)", cfg.FetchBatch)
	}
	return app.NewAggregator(primary, fallback, cfg.TotalMaxPosts, cfg.FetchBatch, cfg.ThrottleInterval), nil
}

// NewNewsAggregatorService creates the service holding the current session.
func NewNewsAggregatorService(
	aggregator *app.Aggregator,
	publisher domain.ProgressPublisher,
	cfg *config.Config,
) (*app.NewsAggregatorService, error) {
	if aggregator == nil {
		return nil, errors.New("aggregator is nil")
	}
	if publisher == nil {
		return nil, errors.New("progress publisher is nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	key, err := listing.ParseSortKey(cfg.SortKey)
	if err != nil {
		return nil, err
	}
	dir, err := listing.ParseDirection(cfg.SortOrder)
	if err != nil {
		return nil, err
	}

	return app.NewNewsAggregatorService(
		aggregator,
		publisher,
		cfg.PostsPerPage,
		key,
		dir,
		app.ViewOptions{
			ShowThumbnails: cfg.ShowThumbnails,
			ShowExcerpts:   cfg.ShowExcerpts,
			ExcerptLength:  cfg.ExcerptLength,
		},
	), nil
}
