// Package openlibrary is a rate-limited client for the OpenLibrary
// bibliographic API and its covers service.
package openlibrary

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/shelfmarkapp/shelfmark-server/internal/ratelimit"
)

const (
	defaultBaseURL       = "https://openlibrary.org"
	defaultCoversBaseURL = "https://covers.openlibrary.org"

	// Rate limit: 3 requests per second per host, burst of 5.
	defaultRPS   = 3.0
	defaultBurst = 5

	defaultTimeout = 10 * time.Second

	// limiter keys, one bucket per upstream host
	apiHostKey    = "api"
	coversHostKey = "covers"
)

// Config tunes the client. Zero values fall back to sensible defaults.
type Config struct {
	BaseURL           string
	CoversBaseURL     string
	RequestTimeout    time.Duration
	RequestsPerSecond float64
}

// Client is a rate-limited OpenLibrary API client.
type Client struct {
	http          *http.Client
	baseURL       string
	coversBaseURL string
	limiter       *ratelimit.KeyedRateLimiter
	logger        *slog.Logger
}

// New creates a new OpenLibrary client.
func New(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.CoversBaseURL == "" {
		cfg.CoversBaseURL = defaultCoversBaseURL
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultTimeout
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = defaultRPS
	}

	return &Client{
		http: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		baseURL:       cfg.BaseURL,
		coversBaseURL: cfg.CoversBaseURL,
		limiter:       ratelimit.New(cfg.RequestsPerSecond, defaultBurst),
		logger:        logger,
	}
}

// doRequest executes a rate-limited GET against the API host.
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx, apiHostKey); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Shelfmark/1.0")

	c.logger.Debug("openlibrary request", "path", path)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case resp.StatusCode >= 500:
		return nil, ErrServer
	default:
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}
}
