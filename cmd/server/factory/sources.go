package factory

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/WordPressNewsAggregator/internal/domain"
	"github.com/WordPressNewsAggregator/internal/infra/provider"
	"github.com/WordPressNewsAggregator/internal/infra/transformer"
	"github.com/WordPressNewsAggregator/pkg/config"
	"go.uber.org/fx"
)

// Sources holds the primary and optional fallback source.
type Sources struct {
	fx.Out

	Primary  domain.Source `name:"primary_source"`
	Fallback domain.Source `name:"fallback_source"`
}

// NewSources creates the WordPress.com source and, when enabled, the
// WordPress.org fallback. A disabled fallback is provided as nil.
func NewSources(cfg *config.Config, mediaResolver domain.MediaResolver) (Sources, error) {
	if cfg.Site == "" {
		return Sources{}, errors.New("site not configured")
	}

	comTr, err := transformer.GetTransformer(domain.SourceWordPressCom, transformer.Options{})
	if err != nil {
		return Sources{}, fmt.Errorf("primary transformer: %w", err)
	}
	out := Sources{
		Primary: provider.NewWordPressComSource(cfg.WPComAPIBase, cfg.Site, comTr, cfg.HTTPTimeout),
	}
	slog.Info("Registered source", "source", out.Primary.GetName(), "site", cfg.Site)

	if !cfg.FallbackEnabled {
		slog.Info("Fallback source disabled")
		return out, nil
	}

	orgTr, err := transformer.GetTransformer(domain.SourceWordPressOrg, transformer.Options{
		Media:            mediaResolver,
		MediaConcurrency: cfg.MediaLookupConcurrency,
	})
	if err != nil {
		return Sources{}, fmt.Errorf("fallback transformer: %w", err)
	}
	out.Fallback = provider.NewWordPressOrgSource(cfg.WPOrgBaseURL, orgTr, cfg.HTTPTimeout)
	slog.Info("Registered fallback source", "source", out.Fallback.GetName(), "base_url", cfg.WPOrgBaseURL)
	return out, nil
}
