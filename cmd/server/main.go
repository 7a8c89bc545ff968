package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/WordPressNewsAggregator/cmd/server/factory"
	"github.com/WordPressNewsAggregator/internal/app"
	"github.com/WordPressNewsAggregator/internal/infra/tracing"
	transport "github.com/WordPressNewsAggregator/internal/transport/http"
	"github.com/WordPressNewsAggregator/pkg/config"
	"go.uber.org/fx"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	fx.New(
		fx.Provide(
			// Config
			config.Load,
			factory.NewAppContext,

			// Infrastructure
			factory.NewProgressPublisher,
			factory.NewMediaResolver,

			// Sources
			factory.NewSources,

			// Services
			fx.Annotate(
				factory.NewAggregator,
				fx.ParamTags(`name:"primary_source"`, `name:"fallback_source"`),
			),
			fx.Annotate(
				factory.NewNewsAggregatorService,
				fx.As(fx.Self()),
				fx.As(new(transport.NewsService)),
			),

			// HTTP Server
			transport.NewHTTPServer,
		),
		fx.Invoke(
			SetupTracer,
			WaitForReady, // Block until dependencies are ready
			RegisterHooks,
			StartServer,
		),
	).Run()
}

// --- Invokers ---

// RegisterHooks starts the initial load and waits for running loads on stop.
func RegisterHooks(
	lc fx.Lifecycle,
	ctx context.Context,
	cancel context.CancelFunc,
	service *app.NewsAggregatorService,
) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			service.Reload(ctx)
			return nil
		},
		OnStop: func(_ context.Context) error {
			cancel()
			service.Wait()
			return nil
		},
	})
}

func SetupTracer(lc fx.Lifecycle, cfg *config.Config) error {
	ctx := context.Background()
	shutdown, err := tracing.InitTracer(ctx, "wordpress-news-aggregator", cfg.OTLPEndpoint)
	if err != nil {
		slog.Error("Failed to initialize tracer", "error", err)
		return err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Info("Shutting down tracer provider")
			return shutdown(ctx)
		},
	})
	return nil
}

// WaitForReady blocks until the progress topic is reachable when Kafka is
// enabled, failing startup after READINESS_TIMEOUT.
func WaitForReady(cfg *config.Config) error {
	ctx := context.Background()
	waiter := app.NewReadinessWaiter(cfg.KafkaBrokers, cfg.KafkaProgressTopic, cfg.ReadinessTimeout)
	if err := waiter.WaitForDependencies(ctx); err != nil {
		slog.Error("Dependencies not ready", "error", err)
		return err
	}
	return nil
}

func StartServer(lc fx.Lifecycle, server *http.Server) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				slog.Info("Starting HTTP server", "address", server.Addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					slog.Error("HTTP server failed", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return server.Shutdown(ctx)
		},
	})
}
