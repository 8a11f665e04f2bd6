package scrapers

import (
	"net/url"
	"strings"

	"product-scraper/internal/types"
)

// NormalizeURL ensures the raw input carries a scheme, defaulting to https.
func NormalizeURL(raw string) string {
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		return "https://" + raw
	}
	return raw
}

// IsValidURL reports whether s parses as an absolute http or https URL.
func IsValidURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// DetectPlatform classifies a product URL by hostname. It never fails; URLs
// whose hostname matches no rule resolve to PlatformUnknown. Self-hosted
// storefronts (WooCommerce on a custom domain, Shopify behind a custom
// domain) are not distinguishable from the hostname alone and fall through
// to unknown.
func DetectPlatform(rawURL string) types.Platform {
	u, err := url.Parse(rawURL)
	if err != nil {
		return types.PlatformUnknown
	}
	hostname := strings.ToLower(u.Hostname())

	// Amazon detection covers the root domains and the a.co / amzn short links.
	if strings.Contains(hostname, "amazon.") ||
		strings.Contains(hostname, "amzn.") ||
		hostname == "a.co" {
		return types.PlatformAmazon
	}

	// Hosted Shopify stores keep the myshopify.com suffix.
	if strings.Contains(hostname, "myshopify.com") {
		return types.PlatformShopify
	}

	return types.PlatformUnknown
}
