package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"paddock/internal/config"
)

const defaultHTTPTimeout = 60 * time.Second

// Client fetches schedules and session datasets from the telemetry archive
// over HTTP. Requests are throttled with a token bucket because the archive
// enforces a per-client quota. A Client is constructed once per run and is
// safe for sequential use; the pipeline never calls it concurrently.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      *Cache
}

var _ Provider = (*Client)(nil)

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithCache attaches a response cache.
func WithCache(cache *Cache) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

// NewClient constructs an archive client from configuration.
func NewClient(cfg config.Upstream, opts ...Option) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("upstream base url required")
	}
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	limit := rate.Limit(cfg.RequestsPerSecond)
	if cfg.RequestsPerSecond <= 0 {
		limit = rate.Inf
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	client := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(limit, burst),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Schedule returns the season schedule: one event per round, testing included.
func (c *Client) Schedule(ctx context.Context, year int) ([]ScheduleEvent, error) {
	key := ScheduleKey(year)
	var cached []ScheduleEvent
	if hit, err := c.cache.Load(key, &cached); err == nil && hit {
		return cached, nil
	}

	endpoint := fmt.Sprintf("%s/seasons/%d/schedule", c.baseURL, year)
	var events []ScheduleEvent
	if err := c.getJSON(ctx, endpoint, &events); err != nil {
		return nil, fmt.Errorf("schedule %d: %w", year, err)
	}

	if err := c.cache.Store(key, events); err != nil {
		return nil, fmt.Errorf("cache schedule %d: %w", year, err)
	}
	return events, nil
}

// LoadSession returns one session's full dataset. A 404 from the archive means
// the sub-session does not exist and surfaces as ErrNotFound.
func (c *Client) LoadSession(ctx context.Context, year, round int, sessionName string) (*SessionData, error) {
	key := SessionKey(year, round, sessionName)
	var cached SessionData
	if hit, err := c.cache.Load(key, &cached); err == nil && hit {
		return &cached, nil
	}

	endpoint := fmt.Sprintf(
		"%s/seasons/%d/rounds/%d/sessions/%s",
		c.baseURL, year, round, url.PathEscape(sessionName),
	)
	var data SessionData
	if err := c.getJSON(ctx, endpoint, &data); err != nil {
		return nil, fmt.Errorf("session %d round %d %q: %w", year, round, sessionName, err)
	}

	if err := c.cache.Store(key, &data); err != nil {
		return nil, fmt.Errorf("cache session %d round %d %q: %w", year, round, sessionName, err)
	}
	return &data, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, value any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTransient, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<20))
	if err != nil {
		return fmt.Errorf("%w: read response: %w", ErrTransient, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: http 404: %s", ErrNotFound, summarizeBody(body))
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%w: http %s: %s", ErrTransient, strconv.Itoa(resp.StatusCode), summarizeBody(body))
	}

	if err := json.Unmarshal(body, value); err != nil {
		return fmt.Errorf("%w: decode response: %w", ErrTransient, err)
	}
	return nil
}

func summarizeBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) > 200 {
		text = text[:200] + "..."
	}
	if text == "" {
		return "<empty>"
	}
	return text
}
