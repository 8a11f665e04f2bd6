package types

import (
	"context"
	"time"
)

// Platform identifies the e-commerce software family a product URL belongs to.
type Platform string

const (
	PlatformAmazon      Platform = "amazon"
	PlatformShopify     Platform = "shopify"
	PlatformWooCommerce Platform = "woocommerce"
	PlatformUnknown     Platform = "unknown"
)

// StockStatus is the canonical availability classification.
type StockStatus string

const (
	StockInStock    StockStatus = "in_stock"
	StockOutOfStock StockStatus = "out_of_stock"
	StockLimited    StockStatus = "limited"
	StockUnknown    StockStatus = "unknown"
)

// JobStatus tracks one scrape attempt through its lifecycle.
// Transitions: pending -> processing -> completed | failed. The terminal
// states are final.
type JobStatus string

const (
	JobPending    JobStatus = "pending"
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
)

// Spec is one specification entry. Specifications are kept as an ordered
// slice of pairs so the page order survives serialization.
type Spec struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Variant describes one purchasable variation of a product.
type Variant struct {
	Type      string   `json:"type"`
	Value     string   `json:"value"`
	Available bool     `json:"available"`
	Price     *float64 `json:"price,omitempty"`
}

// RawVariant is the unnormalized form returned by extractors.
type RawVariant struct {
	Type      string
	Value     string
	Available bool
	Price     *float64
	PriceText string
}

// RawProduct is the unnormalized field set an extractor assembles from a
// product page or API payload. Rendered-page extractors fill the *Text
// fields; API extractors that receive typed values may fill the pre-parsed
// amounts instead. Currency and unit conversion belong to the normalizer.
type RawProduct struct {
	URL      string
	Platform Platform

	Name              string
	PriceText         string
	OriginalPriceText string
	// Pre-parsed amounts from structured payloads. When set they take
	// precedence over the corresponding *Text fields.
	Price         *float64
	OriginalPrice *float64
	Currency      string

	SKU         string
	Brand       string
	Description string

	RatingText      string
	RatingCountText string

	PrimaryImageURL string
	Images          []string
	Videos          []string

	AvailabilityText string
	ShippingInfo     map[string]string
	Variants         []RawVariant

	Features       []string
	Specifications []Spec
	Categories     []string

	Metadata map[string]interface{}
}

// CanonicalProduct is the normalized, platform-agnostic product record.
// URL is the natural key: the store holds at most one record per URL.
type CanonicalProduct struct {
	ID       string   `json:"id,omitempty"`
	URL      string   `json:"url"`
	Platform Platform `json:"platform"`
	Name     string   `json:"name"`

	PriceCurrent  *float64 `json:"price_current,omitempty"`
	PriceOriginal *float64 `json:"price_original,omitempty"`
	Currency      string   `json:"currency"`

	SKU         string `json:"sku,omitempty"`
	Brand       string `json:"brand,omitempty"`
	Description string `json:"description,omitempty"`

	Specifications []Spec   `json:"specifications,omitempty"`
	Features       []string `json:"features,omitempty"`

	RatingAverage *float64 `json:"rating_average,omitempty"`
	RatingCount   *int     `json:"rating_count,omitempty"`

	PrimaryImageURL string   `json:"primary_image_url,omitempty"`
	Images          []string `json:"images,omitempty"`
	Videos          []string `json:"videos,omitempty"`

	StockStatus  StockStatus       `json:"stock_status"`
	ShippingInfo map[string]string `json:"shipping_info,omitempty"`
	Variants     []Variant         `json:"variants,omitempty"`

	Categories []string               `json:"categories,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`

	CreatedAt     time.Time `json:"created_at,omitempty"`
	UpdatedAt     time.Time `json:"updated_at,omitempty"`
	LastScrapedAt time.Time `json:"last_scraped_at,omitempty"`
}

// ScrapeJob is the durable audit record of one scrape attempt. It is
// mutated only by the job lifecycle manager.
type ScrapeJob struct {
	ID           string     `json:"id"`
	URL          string     `json:"url"`
	UserID       string     `json:"user_id"`
	Platform     Platform   `json:"platform,omitempty"`
	Status       JobStatus  `json:"status"`
	ErrorMessage string     `json:"error_message,omitempty"`
	ProductID    string     `json:"product_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// ProductScraper is the capability every platform extractor implements:
// fetch one product page and parse it into a raw field set. Extractors do
// not retry internally and do not normalize field values.
type ProductScraper interface {
	// Platform returns the platform this scraper handles.
	Platform() Platform

	// Extract fetches and parses the product at url into raw fields.
	// Failures are wrapped into an *ExtractionError.
	Extract(ctx context.Context, url string) (*RawProduct, error)

	// Close releases any underlying transport resources.
	Close()
}

// Logger defines the logging interface
type Logger interface {
	Debug(args ...interface{})
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}
