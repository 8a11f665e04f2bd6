package types

import "fmt"

// Stable error codes returned to callers of the scraping entry point.
const (
	CodeInvalidURL          = "INVALID_URL"
	CodeUnsupportedPlatform = "UNSUPPORTED_PLATFORM"
	CodeNoScraper           = "NO_SCRAPER"
	CodeAmazonScrapeError   = "AMAZON_SCRAPE_ERROR"
	CodeShopifyScrapeError  = "SHOPIFY_SCRAPE_ERROR"
	CodeWooScrapeError      = "WOOCOMMERCE_SCRAPE_ERROR"
	CodeUnknownError        = "UNKNOWN_ERROR"
)

// ScraperError is the structured failure callers receive from the
// orchestration entry point.
type ScraperError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *ScraperError) Error() string {
	return e.Message
}

func (e *ScraperError) Unwrap() error {
	return e.Err
}

// NewScraperError builds a ScraperError with the given code and message.
func NewScraperError(code, message string) *ScraperError {
	return &ScraperError{Code: code, Message: message}
}

// ExtractionError wraps any transport or parse failure raised by a platform
// extractor, carrying the originating platform and the underlying cause.
type ExtractionError struct {
	Platform Platform
	Err      error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to scrape %s product: %v", e.Platform, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Code maps the platform to its stable extraction-failure code.
func (e *ExtractionError) Code() string {
	switch e.Platform {
	case PlatformAmazon:
		return CodeAmazonScrapeError
	case PlatformShopify:
		return CodeShopifyScrapeError
	case PlatformWooCommerce:
		return CodeWooScrapeError
	default:
		return CodeUnknownError
	}
}

// NewExtractionError wraps err with the platform it originated from.
func NewExtractionError(platform Platform, err error) *ExtractionError {
	return &ExtractionError{Platform: platform, Err: err}
}
