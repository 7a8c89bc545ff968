package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PagesFetched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wordpress_pages_fetched_total",
			Help: "The total number of listing pages requested from a source",
		},
		[]string{"source", "status"},
	)

	PageFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wordpress_page_fetch_duration_seconds",
			Help:    "Duration of a single listing page request including normalization",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	PostsLoaded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wordpress_posts_loaded_total",
			Help: "The total number of posts accumulated by completed loads",
		},
		[]string{"source"},
	)

	LoadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wordpress_load_duration_seconds",
			Help:    "Duration of full load cycles",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status"},
	)

	FallbacksTriggered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wordpress_fallbacks_total",
			Help: "Number of loads that switched from the primary to the fallback source",
		},
	)

	MediaLookupFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wordpress_media_lookup_failures_total",
			Help: "Featured image lookups that failed and were skipped",
		},
	)

	ProgressPublishErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wordpress_progress_publish_errors_total",
			Help: "Progress notifications that could not be published",
		},
	)

	SessionPosts = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "wordpress_session_posts",
			Help: "Number of posts held by the current session",
		},
	)
)
