package scrapers

import (
	"product-scraper/config"
	"product-scraper/internal/types"
)

// Registry maps each supported platform to its scraper. It is built once at
// process start and is read-only afterwards, so lookups need no locking.
// New platforms are added by registering another scraper, never by touching
// dispatch logic.
type Registry struct {
	scrapers map[types.Platform]types.ProductScraper
}

// NewRegistry builds the registry with every platform scraper registered.
func NewRegistry(cfg *config.ScraperConfig, logger types.Logger) *Registry {
	r := &Registry{
		scrapers: make(map[types.Platform]types.ProductScraper),
	}
	r.register(NewAmazonScraper(cfg, logger))
	r.register(NewShopifyScraper(cfg, logger))
	r.register(NewWooCommerceScraper(cfg, logger))
	return r
}

func (r *Registry) register(s types.ProductScraper) {
	r.scrapers[s.Platform()] = s
}

// Resolve returns the scraper for platform, or nil when the platform is
// unknown or has no registered implementation. A nil result is the
// NO_SCRAPER condition, not an error.
func (r *Registry) Resolve(platform types.Platform) types.ProductScraper {
	return r.scrapers[platform]
}

// Close releases the transport resources of every registered scraper.
func (r *Registry) Close() {
	for _, s := range r.scrapers {
		s.Close()
	}
}
