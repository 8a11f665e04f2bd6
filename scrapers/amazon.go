package scrapers

import (
	"context"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"product-scraper/config"
	"product-scraper/internal/types"
)

// amazonMarkerSelector is the element whose presence signals the product
// page finished rendering.
const amazonMarkerSelector = "#productTitle"

var amazonImageSizeRe = regexp.MustCompile(`_AC_.*\.jpg`)

// AmazonScraper extracts product data from rendered Amazon product pages.
type AmazonScraper struct {
	*BaseScraper
}

// NewAmazonScraper creates a new Amazon scraper
func NewAmazonScraper(cfg *config.ScraperConfig, logger types.Logger) *AmazonScraper {
	return &AmazonScraper{
		BaseScraper: NewBaseScraper(cfg, logger),
	}
}

// Platform returns the platform this scraper handles.
func (a *AmazonScraper) Platform() types.Platform {
	return types.PlatformAmazon
}

// Extract renders the product page and assembles the raw field set.
func (a *AmazonScraper) Extract(ctx context.Context, url string) (*types.RawProduct, error) {
	a.logger.Debugf("Extracting Amazon product from %s", url)

	doc, err := a.FetchRenderedDocument(ctx, url, amazonMarkerSelector)
	if err != nil {
		return nil, types.NewExtractionError(types.PlatformAmazon, err)
	}

	return a.parseProductDoc(doc, url), nil
}

// parseProductDoc reads the raw fields out of an already rendered document.
// It is deliberately free of network work so it can be tested on fixtures.
func (a *AmazonScraper) parseProductDoc(doc *goquery.Document, url string) *types.RawProduct {
	raw := &types.RawProduct{
		URL:      url,
		Platform: types.PlatformAmazon,
	}

	raw.Name = a.FirstText(doc, "#productTitle")

	// The displayed price is split across whole/fraction/symbol spans.
	priceWhole := strings.TrimSpace(doc.Find(".a-price-whole").First().Text())
	priceFraction := strings.TrimSpace(doc.Find(".a-price-fraction").First().Text())
	priceSymbol := strings.TrimSpace(doc.Find(".a-price-symbol").First().Text())
	if priceWhole != "" {
		if priceSymbol == "" {
			priceSymbol = "$"
		}
		raw.PriceText = priceSymbol + priceWhole + priceFraction
	}
	raw.OriginalPriceText = a.FirstText(doc, ".a-price.a-text-price .a-offscreen")

	raw.Brand = a.FirstText(doc, "#bylineInfo", "a#brand")
	raw.Description = a.FirstText(doc, "#feature-bullets", "#productDescription")
	raw.RatingText = a.FirstText(doc, ".a-icon-star .a-icon-alt")
	raw.RatingCountText = a.FirstText(doc, "#acrCustomerReviewText")
	raw.AvailabilityText = a.FirstText(doc, "#availability span")

	raw.PrimaryImageURL = a.FirstAttr(doc, "src", "#landingImage", "#imgBlkFront")
	doc.Find(".imageThumbnail img").Each(func(i int, s *goquery.Selection) {
		if src, ok := s.Attr("src"); ok && src != "" {
			// Thumbnails link to downscaled assets; swap in the large variant.
			raw.Images = append(raw.Images, amazonImageSizeRe.ReplaceAllString(src, "_AC_SL1500_.jpg"))
		}
	})

	doc.Find("#feature-bullets li").Each(func(i int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			raw.Features = append(raw.Features, text)
		}
	})

	doc.Find("#productDetails_techSpec_section_1 tr").Each(func(i int, s *goquery.Selection) {
		name := strings.TrimSpace(s.Find("th").First().Text())
		value := strings.TrimSpace(s.Find("td").First().Text())
		if name != "" && value != "" {
			raw.Specifications = append(raw.Specifications, types.Spec{Name: name, Value: value})
		}
	})

	doc.Find("#wayfinding-breadcrumbs_feature_div li").Each(func(i int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text != "" && !strings.Contains(text, "›") {
			raw.Categories = append(raw.Categories, text)
		}
	})

	return raw
}
