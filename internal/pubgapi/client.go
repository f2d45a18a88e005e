package pubgapi

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// ErrNotFound reports that the upstream has no resource at the requested URL.
// It is a terminal outcome, not a retryable failure.
var ErrNotFound = errors.New("pubgapi: resource not found")

const (
	requestTimeout    = 30 * time.Second
	maxAttempts       = 3
	defaultRetryAfter = 60 * time.Second
)

// Metrics receives fetcher telemetry. Implementations must be safe for
// concurrent use.
type Metrics interface {
	APIRequest(outcome string)
	RateLimitDelay(d time.Duration)
}

// NoOpMetrics discards all fetcher telemetry.
type NoOpMetrics struct{}

func (NoOpMetrics) APIRequest(string)            {}
func (NoOpMetrics) RateLimitDelay(time.Duration) {}

// Client talks to the PUBG API. All requests share one token bucket sized to
// the configured requests-per-minute budget, refilled continuously.
type Client struct {
	baseURL    string
	apiKey     string
	shard      string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
	metrics    Metrics

	// sleep is swapped out in tests to avoid real backoff waits.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewClient creates a PUBG API client.
func NewClient(baseURL, apiKey, shard string, maxRequestsPerMinute int, logger *slog.Logger, m Metrics) *Client {
	// Tolerate base URLs configured with a trailing /shards segment.
	baseURL = strings.TrimRight(baseURL, "/")
	baseURL = strings.TrimSuffix(baseURL, "/shards")

	if m == nil {
		m = NoOpMetrics{}
	}

	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		shard:      shard,
		httpClient: &http.Client{Timeout: requestTimeout},
		limiter:    rate.NewLimiter(rate.Limit(float64(maxRequestsPerMinute)/60.0), maxRequestsPerMinute),
		logger:     logger,
		metrics:    m,
		sleep:      sleepContext,
	}
}

// GetPlayersByNames looks up upstream accounts for the given player names in
// one batched request and returns them with their recent match id lists.
func (c *Client) GetPlayersByNames(ctx context.Context, names []string) ([]PlayerInfo, error) {
	if len(names) == 0 {
		return nil, nil
	}

	query := url.Values{}
	query.Set("filter[playerNames]", strings.Join(names, ","))
	requestURL := fmt.Sprintf("%s/shards/%s/players?%s", c.baseURL, c.shard, query.Encode())

	body, err := c.get(ctx, requestURL, true)
	if err != nil {
		return nil, err
	}

	var doc document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode players response: %w", err)
	}
	return decodePlayers(&doc, c.logger)
}

// GetMatch fetches and assembles a single match, including its rosters,
// participants, and telemetry asset URL.
func (c *Client) GetMatch(ctx context.Context, matchID string) (*MatchRecord, error) {
	requestURL := fmt.Sprintf("%s/shards/%s/matches/%s", c.baseURL, c.shard, matchID)

	body, err := c.get(ctx, requestURL, true)
	if err != nil {
		return nil, err
	}

	var doc document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode match response: %w", err)
	}
	return buildMatch(&doc, c.logger)
}

// GetTelemetry downloads a match's telemetry log. The asset may be served as
// plain JSON or gzip-compressed JSON; plain decode is attempted first.
// Telemetry lives on a CDN that does not count against the API request
// budget, so no token is consumed and no API key is sent.
func (c *Client) GetTelemetry(ctx context.Context, telemetryURL string) ([]json.RawMessage, error) {
	if telemetryURL == "" {
		return nil, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, telemetryURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create telemetry request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch telemetry: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("telemetry fetch returned status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read telemetry body: %w", err)
	}

	var events []json.RawMessage
	if err := json.Unmarshal(raw, &events); err == nil {
		return events, nil
	}

	gz, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("telemetry is neither plain nor gzip JSON: %w", err)
	}
	defer gz.Close()

	decompressed, err := io.ReadAll(gz)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress telemetry: %w", err)
	}
	if err := json.Unmarshal(decompressed, &events); err != nil {
		return nil, fmt.Errorf("failed to decode decompressed telemetry: %w", err)
	}
	return events, nil
}

// get performs a rate-limited GET with the retry policy: a 429 waits out the
// server-supplied Retry-After without consuming an attempt, a 404 returns
// ErrNotFound immediately, and any other failure is retried up to maxAttempts
// with exponential backoff.
func (c *Client) get(ctx context.Context, requestURL string, authed bool) ([]byte, error) {
	attempt := 0
	for {
		reservation := c.limiter.Reserve()
		if delay := reservation.Delay(); delay > 0 {
			c.metrics.RateLimitDelay(delay)
			if err := c.sleep(ctx, delay); err != nil {
				reservation.Cancel()
				return nil, err
			}
		}

		body, retryAfter, err := c.do(ctx, requestURL, authed)
		switch {
		case err == nil:
			c.metrics.APIRequest("success")
			return body, nil

		case errors.Is(err, ErrNotFound):
			c.metrics.APIRequest("not_found")
			return nil, err

		case retryAfter > 0:
			// Cooperative backoff, not a failure: the attempt budget is
			// untouched.
			c.metrics.APIRequest("rate_limited")
			c.logger.Warn("rate limited by upstream, backing off",
				slog.Duration("retry_after", retryAfter),
				slog.String("url", requestURL))
			if err := c.sleep(ctx, retryAfter); err != nil {
				return nil, err
			}

		default:
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if attempt >= maxAttempts-1 {
				c.metrics.APIRequest("error")
				return nil, fmt.Errorf("request failed after %d attempts: %w", maxAttempts, err)
			}
			backoff := time.Duration(1<<attempt) * time.Second
			c.metrics.APIRequest("retry")
			c.logger.Warn("request failed, retrying",
				slog.Int("attempt", attempt+1),
				slog.Duration("backoff", backoff),
				slog.Any("error", err))
			if err := c.sleep(ctx, backoff); err != nil {
				return nil, err
			}
			attempt++
		}
	}
}

// do performs one HTTP exchange. A positive retryAfter signals a 429.
func (c *Client) do(ctx context.Context, requestURL string, authed bool) (body []byte, retryAfter time.Duration, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.api+json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("transport error: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to read response body: %w", err)
		}
		return body, 0, nil

	case http.StatusTooManyRequests:
		retryAfter := defaultRetryAfter
		if v := resp.Header.Get("Retry-After"); v != "" {
			if seconds, err := strconv.Atoi(v); err == nil && seconds > 0 {
				retryAfter = time.Duration(seconds) * time.Second
			}
		}
		return nil, retryAfter, fmt.Errorf("rate limited")

	case http.StatusNotFound:
		return nil, 0, ErrNotFound

	default:
		return nil, 0, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
}

// sleepContext sleeps for d or until ctx is cancelled, whichever comes first.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
