package scrapers

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"product-scraper/config"
	"product-scraper/internal/types"
	"product-scraper/utils"
)

// BaseScraper provides the transport and parsing plumbing shared by the
// platform scrapers. Rendered-page scrapers fetch through the browser
// client; API scrapers fetch through the HTTP client.
type BaseScraper struct {
	config        *config.ScraperConfig
	logger        types.Logger
	httpClient    *utils.HTTPClient
	browserClient *utils.BrowserClient
}

// NewBaseScraper creates a base scraper with initialized HTTP and browser clients.
func NewBaseScraper(cfg *config.ScraperConfig, logger types.Logger) *BaseScraper {
	return &BaseScraper{
		config:        cfg,
		logger:        logger,
		httpClient:    utils.NewHTTPClient(cfg, logger),
		browserClient: utils.NewBrowserClient(cfg, logger),
	}
}

// FetchRenderedDocument renders the page at url, waiting for waitSelector
// as the DOM-ready marker, and parses the result into a goquery document.
func (b *BaseScraper) FetchRenderedDocument(ctx context.Context, url, waitSelector string) (*goquery.Document, error) {
	html, err := b.browserClient.RenderPage(ctx, url, waitSelector)
	if err != nil {
		return nil, fmt.Errorf("failed to get page content: %w", err)
	}
	return b.ParseHTML(html)
}

// ParseHTML parses HTML content into a goquery document
func (b *BaseScraper) ParseHTML(html string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

// FirstText returns the trimmed text of the first selector that matches a
// non-empty element.
func (b *BaseScraper) FirstText(doc *goquery.Document, selectors ...string) string {
	for _, selector := range selectors {
		text := strings.TrimSpace(doc.Find(selector).First().Text())
		if text != "" {
			return text
		}
	}
	return ""
}

// FirstAttr returns the attribute value of the first selector that matches
// an element carrying the attribute.
func (b *BaseScraper) FirstAttr(doc *goquery.Document, attribute string, selectors ...string) string {
	for _, selector := range selectors {
		if value, ok := doc.Find(selector).First().Attr(attribute); ok && value != "" {
			return value
		}
	}
	return ""
}

// Config returns the scraper configuration.
func (b *BaseScraper) Config() *config.ScraperConfig {
	return b.config
}

// Close cleans up resources
func (b *BaseScraper) Close() {
	if b.httpClient != nil {
		b.httpClient.Close()
	}
}
