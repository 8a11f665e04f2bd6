package scrapers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"product-scraper/config"
	"product-scraper/internal/types"
)

var productHandleRe = regexp.MustCompile(`/products/([^/?#]+)`)

// ShopifyScraper extracts product data from the machine-readable JSON
// endpoint every Shopify store exposes next to its product pages. No
// rendering is involved, which makes it materially faster and more reliable
// than driving a browser.
type ShopifyScraper struct {
	*BaseScraper
}

// NewShopifyScraper creates a new Shopify scraper
func NewShopifyScraper(cfg *config.ScraperConfig, logger types.Logger) *ShopifyScraper {
	return &ShopifyScraper{
		BaseScraper: NewBaseScraper(cfg, logger),
	}
}

// Platform returns the platform this scraper handles.
func (s *ShopifyScraper) Platform() types.Platform {
	return types.PlatformShopify
}

// Extract fetches the product JSON endpoint derived from the page URL.
func (s *ShopifyScraper) Extract(ctx context.Context, rawURL string) (*types.RawProduct, error) {
	s.logger.Debugf("Extracting Shopify product from %s", rawURL)

	handle := extractProductHandle(rawURL)
	if handle == "" {
		return nil, types.NewExtractionError(types.PlatformShopify,
			fmt.Errorf("no product handle found in URL %s", rawURL))
	}

	jsonURL, err := buildProductJSONURL(rawURL, handle)
	if err != nil {
		return nil, types.NewExtractionError(types.PlatformShopify, err)
	}

	body, err := s.httpClient.Get(ctx, jsonURL)
	if err != nil {
		return nil, types.NewExtractionError(types.PlatformShopify, err)
	}

	raw, err := parseShopifyPayload(body, rawURL)
	if err != nil {
		return nil, types.NewExtractionError(types.PlatformShopify, err)
	}
	return raw, nil
}

// extractProductHandle pulls the product handle out of a storefront URL.
// URLs typically look like https://store.com/products/product-handle.
func extractProductHandle(rawURL string) string {
	match := productHandleRe.FindStringSubmatch(rawURL)
	if match == nil {
		return ""
	}
	return match[1]
}

// buildProductJSONURL derives the JSON endpoint for a product handle.
func buildProductJSONURL(rawURL, handle string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse product URL: %w", err)
	}
	return fmt.Sprintf("%s://%s/products/%s.json", u.Scheme, u.Host, handle), nil
}

type shopifyImage struct {
	Src string `json:"src"`
}

type shopifyVariant struct {
	Title          string `json:"title"`
	Price          string `json:"price"`
	CompareAtPrice string `json:"compare_at_price"`
	SKU            string `json:"sku"`
	Available      bool   `json:"available"`
}

type shopifyProduct struct {
	ID          int64            `json:"id"`
	Title       string           `json:"title"`
	BodyHTML    string           `json:"body_html"`
	Vendor      string           `json:"vendor"`
	ProductType string           `json:"product_type"`
	Handle      string           `json:"handle"`
	Tags        string           `json:"tags"`
	Available   *bool            `json:"available"`
	Variants    []shopifyVariant `json:"variants"`
	Images      []shopifyImage   `json:"images"`
}

type shopifyPayload struct {
	Product *shopifyProduct `json:"product"`
}

// parseShopifyPayload maps the JSON endpoint response onto the raw field
// set. Prices arrive in cents and are carried as pre-parsed amounts.
func parseShopifyPayload(body []byte, pageURL string) (*types.RawProduct, error) {
	var payload shopifyPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode product JSON: %w", err)
	}
	product := payload.Product
	if product == nil {
		return nil, fmt.Errorf("product not found in JSON response")
	}

	raw := &types.RawProduct{
		URL:         pageURL,
		Platform:    types.PlatformShopify,
		Name:        product.Title,
		Brand:       product.Vendor,
		Description: stripHTML(product.BodyHTML),
		Metadata: map[string]interface{}{
			"shopifyId": product.ID,
			"handle":    product.Handle,
			"tags":      product.Tags,
		},
	}

	for _, img := range product.Images {
		if img.Src != "" {
			raw.Images = append(raw.Images, img.Src)
		}
	}
	if len(raw.Images) > 0 {
		raw.PrimaryImageURL = raw.Images[0]
	}

	if len(product.Variants) > 0 {
		first := product.Variants[0]
		raw.Price = centsToAmount(first.Price)
		raw.OriginalPrice = centsToAmount(first.CompareAtPrice)
		raw.SKU = first.SKU
	}
	for _, v := range product.Variants {
		raw.Variants = append(raw.Variants, types.RawVariant{
			Type:      "variant",
			Value:     v.Title,
			Available: v.Available,
			Price:     centsToAmount(v.Price),
		})
	}

	// The endpoint reports availability as a boolean; render it as text so
	// stock classification happens in the normalizer like everywhere else.
	if product.Available != nil {
		if *product.Available {
			raw.AvailabilityText = "In stock"
		} else {
			raw.AvailabilityText = "Out of stock"
		}
	}

	if product.ProductType != "" {
		raw.Categories = []string{product.ProductType}
	}

	return raw, nil
}

// centsToAmount converts a price string expressed in cents into a currency
// amount. Unparseable or empty input yields nil.
func centsToAmount(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	amount := v / 100
	return &amount
}

var htmlTagRe = regexp.MustCompile(`<[^>]*>`)
var whitespaceRe = regexp.MustCompile(`\s+`)

// stripHTML removes markup from the body_html description field.
func stripHTML(html string) string {
	text := htmlTagRe.ReplaceAllString(html, "")
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}
