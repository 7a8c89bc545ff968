package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/WordPressNewsAggregator/internal/listing"
	"github.com/joho/godotenv"
)

const defaultSite = "reviewofconstitutions.wordpress.com"

type Config struct {
	ServerPort string

	Site            string
	WPComAPIBase    string
	WPOrgBaseURL    string
	FallbackEnabled bool

	PostsPerPage  int
	TotalMaxPosts int
	FetchBatch    int

	ShowThumbnails bool
	ShowExcerpts   bool
	ExcerptLength  int
	SortKey        string
	SortOrder      string

	ThrottleInterval       time.Duration
	HTTPTimeout            time.Duration
	MediaLookupConcurrency int

	KafkaBrokers       []string
	KafkaProgressTopic string
	ReadinessTimeout   time.Duration

	OTLPEndpoint string
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	site := getEnv("WP_SITE", defaultSite)

	return &Config{
		ServerPort:             getEnv("SERVER_PORT", "8080"),
		Site:                   site,
		WPComAPIBase:           getEnv("WPCOM_API_BASE", "https://public-api.wordpress.com/rest/v1.1"),
		WPOrgBaseURL:           getEnv("WPORG_BASE_URL", "https://"+site),
		FallbackEnabled:        getBoolEnv("FALLBACK_ENABLED", true),
		PostsPerPage:           getIntEnv("POSTS_PER_PAGE", 20),
		TotalMaxPosts:          getIntEnv("TOTAL_MAX_POSTS", 200),
		FetchBatch:             getIntEnv("FETCH_BATCH_SIZE", 100),
		ShowThumbnails:         getBoolEnv("SHOW_THUMBNAILS", true),
		ShowExcerpts:           getBoolEnv("SHOW_EXCERPTS", true),
		ExcerptLength:          getIntEnv("EXCERPT_LENGTH", 200),
		SortKey:                getEnv("SORT_KEY", string(listing.SortByDate)),
		SortOrder:              getEnv("SORT_ORDER", string(listing.Descending)),
		ThrottleInterval:       getDurationEnv("THROTTLE_INTERVAL", 200*time.Millisecond),
		HTTPTimeout:            getDurationEnv("HTTP_TIMEOUT", 10*time.Second),
		MediaLookupConcurrency: getIntEnv("MEDIA_LOOKUP_CONCURRENCY", 8),
		KafkaBrokers:           splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaProgressTopic:     getEnv("KAFKA_PROGRESS_TOPIC", "wordpress_load_progress"),
		ReadinessTimeout:       getDurationEnv("READINESS_TIMEOUT", 2*time.Minute),
		OTLPEndpoint:           getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Site == "" {
		errs = append(errs, errors.New("WP_SITE must not be empty"))
	}
	positive := []struct {
		name  string
		value int
	}{
		{"POSTS_PER_PAGE", c.PostsPerPage},
		{"TOTAL_MAX_POSTS", c.TotalMaxPosts},
		{"FETCH_BATCH_SIZE", c.FetchBatch},
		{"MEDIA_LOOKUP_CONCURRENCY", c.MediaLookupConcurrency},
	}
	for _, p := range positive {
		if p.value <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %d", p.name, p.value))
		}
	}
	if c.ThrottleInterval < 0 {
		errs = append(errs, fmt.Errorf("THROTTLE_INTERVAL must not be negative, got %s", c.ThrottleInterval))
	}
	if _, err := listing.ParseSortKey(c.SortKey); err != nil {
		errs = append(errs, fmt.Errorf("SORT_KEY: %w", err))
	}
	if _, err := listing.ParseDirection(c.SortOrder); err != nil {
		errs = append(errs, fmt.Errorf("SORT_ORDER: %w", err))
	}
	return errors.Join(errs...)
}

// KafkaEnabled reports whether progress events are published.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		i, err := strconv.Atoi(value)
		if err == nil {
			return i
		}
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(value)
		if err == nil {
			return b
		}
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		// Try parsing as duration string (e.g. "200ms", "10s")
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		// Try parsing as integer seconds
		if i, err := strconv.Atoi(value); err == nil {
			return time.Duration(i) * time.Second
		}
	}
	return fallback
}
