// Package media resolves WordPress.org media attachments.
package media

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"
)

type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a media client for the WordPress.org site at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

type mediaResponse struct {
	SourceURL string `json:"source_url"`
}

// ResolveMedia returns the source_url of the media item id. A media object
// without a source_url resolves to "" without error.
func (c *Client) ResolveMedia(ctx context.Context, id int) (string, error) {
	url := c.baseURL + "/wp-json/wp/v2/media/" + strconv.Itoa(id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("media %d: %w", id, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Warn("Failed to close response body", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("media %d returned status %d", id, resp.StatusCode)
	}

	var m mediaResponse
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		return "", fmt.Errorf("failed to decode media %d: %w", id, err)
	}
	return m.SourceURL, nil
}
