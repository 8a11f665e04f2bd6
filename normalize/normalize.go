// Package normalize holds the pure transforms that convert extractor output
// into the canonical product encoding. The same rules run for every
// platform so downstream consumers never see source-specific formats.
package normalize

import (
	"regexp"
	"strconv"
	"strings"

	"product-scraper/internal/types"
)

// DefaultCurrency is assumed when the source exposes no currency signal.
const DefaultCurrency = "USD"

var (
	priceCleanRe  = regexp.MustCompile(`[^\d.]`)
	ratingOutOfRe = regexp.MustCompile(`(?i)(\d+\.?\d*)\s*out of\s*(\d+)`)
	decimalRe     = regexp.MustCompile(`\d+\.?\d*`)
	digitRunRe    = regexp.MustCompile(`\d+(?:,\d+)*`)
	whitespaceRe  = regexp.MustCompile(`\s+`)
)

// ParsePrice extracts a currency amount from free-form price text such as
// "$1,234.56". Unparseable input yields nil, never an error.
func ParsePrice(text string) *float64 {
	if text == "" {
		return nil
	}
	cleaned := priceCleanRe.ReplaceAllString(text, "")
	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil
	}
	return &price
}

// ParseRating accepts "X out of Y" phrasing or a bare decimal on the
// assumed 5-star scale. Values above 5 and unrecognized text yield nil.
func ParseRating(text string) *float64 {
	if text == "" {
		return nil
	}
	if match := ratingOutOfRe.FindStringSubmatch(text); match != nil {
		rating, err := strconv.ParseFloat(match[1], 64)
		if err != nil {
			return nil
		}
		return &rating
	}
	if match := decimalRe.FindString(text); match != "" {
		rating, err := strconv.ParseFloat(match, 64)
		if err != nil || rating > 5 {
			return nil
		}
		return &rating
	}
	return nil
}

// ParseRatingCount extracts the first run of digits, tolerating thousands
// separators, e.g. "1,234 ratings" -> 1234.
func ParseRatingCount(text string) *int {
	match := digitRunRe.FindString(text)
	if match == "" {
		return nil
	}
	count, err := strconv.Atoi(strings.ReplaceAll(match, ",", ""))
	if err != nil {
		return nil
	}
	return &count
}

// CleanText trims and collapses internal whitespace runs to single spaces.
func CleanText(text string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}

// ClassifyStock maps free-text availability phrasing onto the canonical
// enum. The limited check runs first because phrases like "Only 3 left in
// stock" also contain "in stock".
func ClassifyStock(text string) types.StockStatus {
	lowered := strings.ToLower(text)
	switch {
	case lowered == "":
		return types.StockUnknown
	case strings.Contains(lowered, "only") && strings.Contains(lowered, "left"):
		return types.StockLimited
	case strings.Contains(lowered, "out of stock"):
		return types.StockOutOfStock
	case strings.Contains(lowered, "in stock"):
		return types.StockInStock
	default:
		return types.StockUnknown
	}
}

// Product assembles the canonical record from an extractor's raw field set.
// Pre-parsed amounts win over price text; currency defaults when the source
// exposed none.
func Product(raw *types.RawProduct) *types.CanonicalProduct {
	product := &types.CanonicalProduct{
		URL:             raw.URL,
		Platform:        raw.Platform,
		Name:            CleanText(raw.Name),
		Currency:        raw.Currency,
		SKU:             CleanText(raw.SKU),
		Brand:           CleanText(raw.Brand),
		Description:     CleanText(raw.Description),
		Specifications:  raw.Specifications,
		RatingAverage:   ParseRating(raw.RatingText),
		RatingCount:     ParseRatingCount(raw.RatingCountText),
		PrimaryImageURL: raw.PrimaryImageURL,
		Images:          raw.Images,
		Videos:          raw.Videos,
		StockStatus:     ClassifyStock(raw.AvailabilityText),
		ShippingInfo:    raw.ShippingInfo,
		Categories:      raw.Categories,
		Metadata:        raw.Metadata,
	}

	if product.Currency == "" {
		product.Currency = DefaultCurrency
	}

	if raw.Price != nil {
		product.PriceCurrent = raw.Price
	} else {
		product.PriceCurrent = ParsePrice(raw.PriceText)
	}
	if raw.OriginalPrice != nil {
		product.PriceOriginal = raw.OriginalPrice
	} else {
		product.PriceOriginal = ParsePrice(raw.OriginalPriceText)
	}

	for _, f := range raw.Features {
		if cleaned := CleanText(f); cleaned != "" {
			product.Features = append(product.Features, cleaned)
		}
	}

	for _, v := range raw.Variants {
		variant := types.Variant{
			Type:      v.Type,
			Value:     CleanText(v.Value),
			Available: v.Available,
		}
		if v.Price != nil {
			variant.Price = v.Price
		} else {
			variant.Price = ParsePrice(v.PriceText)
		}
		product.Variants = append(product.Variants, variant)
	}

	return product
}
