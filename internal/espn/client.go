// Package espn fetches scoreboard and game-summary documents from ESPN-style
// site API endpoints.
//
// Endpoints are plain JSON GETs. The client applies a token-bucket rate limit
// so a short poll interval across many sports cannot hammer the feed.
package espn

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Client is the shared HTTP client for scoreboard and summary endpoints.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient creates a feed client with rate limiting.
func NewClient(requestsPerMinute int, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if requestsPerMinute < 1 {
		requestsPerMinute = 60
	}
	rps := float64(requestsPerMinute) / 60.0
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), 2),
		logger:     logger,
	}
}

// FetchScoreboard fetches the current scoreboard for one sport.
func (c *Client) FetchScoreboard(ctx context.Context, url string) (*Scoreboard, error) {
	var sb Scoreboard
	if err := c.getJSON(ctx, url, &sb); err != nil {
		return nil, fmt.Errorf("fetch scoreboard: %w", err)
	}
	return &sb, nil
}

// FetchSummary fetches the detail/summary document for one event.
func (c *Client) FetchSummary(ctx context.Context, scoreboardURL, eventID string) (*Summary, error) {
	var sum Summary
	if err := c.getJSON(ctx, SummaryURL(scoreboardURL, eventID), &sum); err != nil {
		return nil, fmt.Errorf("fetch summary for event %s: %w", eventID, err)
	}
	return &sum, nil
}

// SummaryURL derives the summary endpoint from a scoreboard endpoint.
// ESPN site API keeps both under the same sport path:
//
//	.../basketball/mens-college-basketball/scoreboard
//	.../basketball/mens-college-basketball/summary?event=<id>
func SummaryURL(scoreboardURL, eventID string) string {
	return strings.Replace(scoreboardURL, "scoreboard", "summary?event="+eventID, 1)
}

// getJSON performs a rate-limited GET request and decodes the response body.
func (c *Client) getJSON(ctx context.Context, url string, v interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("feed returned %d: %s", resp.StatusCode, truncate(body, 200))
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// truncate returns a truncated string representation for error messages.
func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}
