package provider

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/WordPressNewsAggregator/internal/domain"
	"github.com/WordPressNewsAggregator/internal/infra/metrics"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// maxBodyBytes bounds a single listing response.
const maxBodyBytes = 32 << 20

// URLBuilder returns the listing URL for a 1-indexed page of perPage posts.
type URLBuilder func(page, perPage int) string

// ExhaustionCheck reports whether a non-200 response means "no more pages".
type ExhaustionCheck func(status int, body []byte) bool

type PagedSource struct {
	name        string
	kind        domain.SourceKind
	buildURL    URLBuilder
	exhausted   ExhaustionCheck
	client      *http.Client
	transformer domain.Transformer
	cb          *gobreaker.CircuitBreaker
}

// NewPagedSource creates a source that fetches pages over HTTP and decodes
// them with transformer. There is no per-request retry: a failed request
// fails the page, and the breaker fails fast after repeated failures.
func NewPagedSource(
	name string,
	kind domain.SourceKind,
	buildURL URLBuilder,
	transformer domain.Transformer,
	timeout time.Duration,
) *PagedSource {
	cbSettings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// Trip if we have 3 consecutive failures
			return counts.ConsecutiveFailures >= 3
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, errExhausted)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			slog.Warn("CircuitBreaker state changed", "name", name, "from", from, "to", to)
		},
	}

	return &PagedSource{
		name:     name,
		kind:     kind,
		buildURL: buildURL,
		client: &http.Client{
			Timeout: timeout,
		},
		transformer: transformer,
		cb:          gobreaker.NewCircuitBreaker(cbSettings),
	}
}

// NewWordPressComSource creates the primary source reading
// {apiBase}/sites/{site}/posts?number=N&page=P.
func NewWordPressComSource(apiBase, site string, transformer domain.Transformer, timeout time.Duration) *PagedSource {
	return NewPagedSource("wordpress.com", domain.SourceWordPressCom, WordPressComURL(apiBase, site), transformer, timeout)
}

// NewWordPressOrgSource creates the fallback source reading
// {baseURL}/wp-json/wp/v2/posts?per_page=N&page=P.
func NewWordPressOrgSource(baseURL string, transformer domain.Transformer, timeout time.Duration) *PagedSource {
	p := NewPagedSource("wordpress.org", domain.SourceWordPressOrg, WordPressOrgURL(baseURL), transformer, timeout)
	p.exhausted = wordPressOrgPastLastPage
	return p
}

func WordPressComURL(apiBase, site string) URLBuilder {
	base := strings.TrimRight(apiBase, "/") + "/sites/" + url.PathEscape(site) + "/posts"
	return func(page, perPage int) string {
		q := url.Values{}
		q.Set("number", strconv.Itoa(perPage))
		q.Set("page", strconv.Itoa(page))
		return base + "?" + q.Encode()
	}
}

func WordPressOrgURL(baseURL string) URLBuilder {
	base := strings.TrimRight(baseURL, "/") + "/wp-json/wp/v2/posts"
	return func(page, perPage int) string {
		q := url.Values{}
		q.Set("per_page", strconv.Itoa(perPage))
		q.Set("page", strconv.Itoa(page))
		return base + "?" + q.Encode()
	}
}

// wordPressOrgPastLastPage detects the 400 wp/v2 answers for a page beyond
// the last one, which happens when the previous page was exactly full.
func wordPressOrgPastLastPage(status int, body []byte) bool {
	return status == http.StatusBadRequest && bytes.Contains(body, []byte("rest_post_invalid_page_number"))
}

func (p *PagedSource) GetName() string {
	return p.name
}

func (p *PagedSource) Kind() domain.SourceKind {
	return p.kind
}

var errExhausted = errors.New("source exhausted")

func (p *PagedSource) FetchPage(ctx context.Context, page, perPage int) ([]domain.Post, error) {
	tr := otel.Tracer("wordpress-aggregator")
	ctx, span := tr.Start(ctx, "FetchPage")
	defer span.End()
	span.SetAttributes(
		attribute.String("source", p.name),
		attribute.Int("page", page),
		attribute.Int("per_page", perPage),
	)

	start := time.Now()
	defer func() {
		metrics.PageFetchDuration.WithLabelValues(p.name).Observe(time.Since(start).Seconds())
	}()

	pageURL := p.buildURL(page, perPage)
	slog.Debug("Fetching page", "source", p.name, "page", page, "per_page", perPage, "url", pageURL)

	result, err := p.cb.Execute(func() (interface{}, error) {
		return p.get(ctx, pageURL)
	})
	if errors.Is(err, errExhausted) {
		metrics.PagesFetched.WithLabelValues(p.name, "exhausted").Inc()
		return nil, nil
	}
	if err != nil {
		span.RecordError(err)
		metrics.PagesFetched.WithLabelValues(p.name, "network_error").Inc()
		return nil, domain.NewNetworkError(p.name, page, err)
	}

	posts, err := p.transformer.Transform(ctx, bytes.NewReader(result.([]byte)))
	if err != nil {
		span.RecordError(err)
		metrics.PagesFetched.WithLabelValues(p.name, "parse_error").Inc()
		return nil, domain.NewParseError(p.name, page, err)
	}

	metrics.PagesFetched.WithLabelValues(p.name, "success").Inc()
	span.SetAttributes(attribute.Int("posts", len(posts)))
	return posts, nil
}

// get performs one request and returns the body of a 200 response.
func (p *PagedSource) get(ctx context.Context, pageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Warn("Failed to close response body", "error", err)
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if p.exhausted != nil && p.exhausted(resp.StatusCode, body) {
			return nil, errExhausted
		}
		return nil, fmt.Errorf("provider %s returned status %d", p.name, resp.StatusCode)
	}
	return body, nil
}
