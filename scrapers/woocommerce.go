package scrapers

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"product-scraper/config"
	"product-scraper/internal/types"
)

// wooMarkerSelector signals that the storefront finished rendering the
// product template.
const wooMarkerSelector = ".product"

// WooCommerceScraper extracts product data from rendered WooCommerce-style
// storefront pages. It doubles as the generic-storefront scraper: the
// selectors below cover the stock WooCommerce theme markup.
type WooCommerceScraper struct {
	*BaseScraper
}

// NewWooCommerceScraper creates a new WooCommerce scraper
func NewWooCommerceScraper(cfg *config.ScraperConfig, logger types.Logger) *WooCommerceScraper {
	return &WooCommerceScraper{
		BaseScraper: NewBaseScraper(cfg, logger),
	}
}

// Platform returns the platform this scraper handles.
func (w *WooCommerceScraper) Platform() types.Platform {
	return types.PlatformWooCommerce
}

// Extract renders the product page and assembles the raw field set.
func (w *WooCommerceScraper) Extract(ctx context.Context, url string) (*types.RawProduct, error) {
	w.logger.Debugf("Extracting WooCommerce product from %s", url)

	doc, err := w.FetchRenderedDocument(ctx, url, wooMarkerSelector)
	if err != nil {
		return nil, types.NewExtractionError(types.PlatformWooCommerce, err)
	}

	return w.parseProductDoc(doc, url), nil
}

func (w *WooCommerceScraper) parseProductDoc(doc *goquery.Document, url string) *types.RawProduct {
	raw := &types.RawProduct{
		URL:      url,
		Platform: types.PlatformWooCommerce,
	}

	raw.Name = w.FirstText(doc,
		".product_title",
		"h1.entry-title",
		".woocommerce-loop-product__title",
	)

	raw.PriceText = w.FirstText(doc,
		".price ins .amount",
		".price .amount",
		".woocommerce-Price-amount",
	)
	raw.OriginalPriceText = w.FirstText(doc, ".price del .amount")

	raw.Description = w.FirstText(doc,
		".woocommerce-product-details__short-description",
		".product .entry-summary",
	)

	raw.AvailabilityText = w.FirstText(doc, ".stock")
	raw.SKU = w.FirstText(doc, ".sku")

	raw.PrimaryImageURL = w.FirstAttr(doc, "src",
		".woocommerce-product-gallery__image img",
		".product .images img",
	)
	doc.Find(".woocommerce-product-gallery__image img").Each(func(i int, s *goquery.Selection) {
		if src, ok := s.Attr("src"); ok && src != "" {
			raw.Images = append(raw.Images, src)
		}
	})

	doc.Find(".posted_in a").Each(func(i int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			raw.Categories = append(raw.Categories, text)
		}
	})

	doc.Find(".woocommerce-product-attributes-item").Each(func(i int, s *goquery.Selection) {
		name := strings.TrimSpace(s.Find(".woocommerce-product-attributes-item__label").First().Text())
		value := strings.TrimSpace(s.Find(".woocommerce-product-attributes-item__value").First().Text())
		if name != "" && value != "" {
			raw.Specifications = append(raw.Specifications, types.Spec{Name: name, Value: value})
		}
	})

	return raw
}
