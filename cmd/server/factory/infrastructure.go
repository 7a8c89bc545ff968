// Package factory provides dependency injection constructors for infrastructure components.
package factory

import (
	"context"
	"errors"
	"log/slog"

	"github.com/WordPressNewsAggregator/internal/domain"
	"github.com/WordPressNewsAggregator/internal/infra/media"
	"github.com/WordPressNewsAggregator/internal/infra/queue"
	"github.com/WordPressNewsAggregator/pkg/config"
	"go.uber.org/fx"
)

// NewAppContext returns the context background loads run under and the
// function cancelling it on shutdown.
func NewAppContext() (context.Context, context.CancelFunc) {
	return context.WithCancel(context.Background())
}

// NewProgressPublisher creates the Kafka progress publisher, or a no-op
// publisher when no brokers are configured.
func NewProgressPublisher(cfg *config.Config, lc fx.Lifecycle) (domain.ProgressPublisher, error) {
	if !cfg.KafkaEnabled() {
		slog.Info("Kafka brokers not configured, progress events disabled")
		return queue.NopProgressPublisher{}, nil
	}
	if cfg.KafkaProgressTopic == "" {
		return nil, errors.New("kafka progress topic not configured")
	}

	publisher := queue.NewKafkaProgressPublisher(cfg.KafkaBrokers, cfg.KafkaProgressTopic)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return publisher.Close()
		},
	})
	return publisher, nil
}

// NewMediaResolver creates the WordPress.org media lookup client.
func NewMediaResolver(cfg *config.Config) (domain.MediaResolver, error) {
	if cfg.WPOrgBaseURL == "" {
		return nil, errors.New("wordpress.org base URL not configured")
	}
	return media.NewClient(cfg.WPOrgBaseURL, cfg.HTTPTimeout), nil
}
