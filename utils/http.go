package utils

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"product-scraper/config"
	"product-scraper/internal/types"
)

// HTTPClient performs rate-limited GET requests against upstream stores.
// Retry policy lives in the orchestration layer, so every call here is a
// single attempt.
type HTTPClient struct {
	client  *http.Client
	config  *config.ScraperConfig
	logger  types.Logger
	limiter *rate.Limiter
}

// NewHTTPClient creates a new HTTP client with the given configuration.
func NewHTTPClient(cfg *config.ScraperConfig, logger types.Logger) *HTTPClient {
	client := &http.Client{
		Timeout: cfg.Timeout(),
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	delay := cfg.RequestDelay()
	if delay <= 0 {
		delay = time.Second
	}

	return &HTTPClient{
		client:  client,
		config:  cfg,
		logger:  logger,
		limiter: rate.NewLimiter(rate.Every(delay), 1),
	}
}

// Get performs a rate-limited GET request and returns the response body.
// Non-2xx responses are errors.
func (h *HTTPClient) Get(ctx context.Context, url string) ([]byte, error) {
	if err := h.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", h.config.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,application/json;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Connection", "keep-alive")

	h.logger.Debugf("Making request to %s", url)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	h.logger.Debugf("Successfully retrieved %d bytes from %s", len(body), url)
	return body, nil
}

// Close cleans up resources.
func (h *HTTPClient) Close() {
	h.client.CloseIdleConnections()
}
