package utils

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/chromedp/chromedp"

	"product-scraper/config"
	"product-scraper/internal/types"
)

// BrowserClient drives a headless browser for pages that render their
// product data with JavaScript. Every call builds its own browser context
// so the page resource is released on all exit paths, including timeout.
type BrowserClient struct {
	config *config.ScraperConfig
	logger types.Logger
}

// NewBrowserClient creates a new browser client.
func NewBrowserClient(cfg *config.ScraperConfig, logger types.Logger) *BrowserClient {
	// Suppress chromedp debug logging
	log.SetOutput(io.Discard)

	return &BrowserClient{
		config: cfg,
		logger: logger,
	}
}

// RenderPage navigates to url, waits for waitSelector to become visible and
// returns the rendered outer HTML. The whole session is bounded by the
// configured extraction timeout.
func (b *BrowserClient) RenderPage(ctx context.Context, url, waitSelector string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, b.config.Timeout())
	defer cancel()

	execOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.UserAgent(b.config.UserAgent),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, execOpts...)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	actions := []chromedp.Action{
		chromedp.Navigate(url),
	}
	if waitSelector != "" {
		actions = append(actions, chromedp.WaitVisible(waitSelector, chromedp.ByQuery))
	}

	var html string
	actions = append(actions, chromedp.OuterHTML("html", &html, chromedp.ByQuery))

	if err := chromedp.Run(browserCtx, actions...); err != nil {
		return "", fmt.Errorf("failed to render page: %w", err)
	}

	b.logger.Debugf("Successfully rendered page content from %s (%d bytes)", url, len(html))
	return html, nil
}
