package scrapers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"product-scraper/internal/types"
)

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want types.Platform
	}{
		{"amazon com", "https://www.amazon.com/dp/B08N5WRWNW", types.PlatformAmazon},
		{"amazon co uk", "https://www.amazon.co.uk/dp/B08N5WRWNW", types.PlatformAmazon},
		{"amzn short link", "https://amzn.to/3xYzAbC", types.PlatformAmazon},
		{"a.co short link", "https://a.co/d/abc123", types.PlatformAmazon},
		{"hosted shopify", "https://cool-store.myshopify.com/products/widget", types.PlatformShopify},
		{"custom domain storefront", "https://www.coolstore.com/products/widget", types.PlatformUnknown},
		{"woocommerce custom domain", "https://shop.example.org/product/widget", types.PlatformUnknown},
		{"plain site", "https://example.com", types.PlatformUnknown},
		{"unparseable", "://not-a-url", types.PlatformUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectPlatform(tt.url))
		})
	}
}

func TestNormalizeURL(t *testing.T) {
	assert.Equal(t, "https://example.com/p/1", NormalizeURL("example.com/p/1"))
	assert.Equal(t, "https://example.com/p/1", NormalizeURL("https://example.com/p/1"))
	assert.Equal(t, "http://example.com/p/1", NormalizeURL("http://example.com/p/1"))
}

func TestIsValidURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://example.com/p/1", true},
		{"http://example.com", true},
		{"ftp://example.com", false},
		{"not a url", false},
		{"", false},
		{"https://", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidURL(tt.url))
		})
	}
}
