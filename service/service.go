// Package service is the orchestration core: it validates a submitted URL,
// detects the platform, dispatches the matching extractor, normalizes the
// result and upserts it, tracking the whole attempt as a durable job.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/cenkalti/backoff/v4"

	"product-scraper/config"
	"product-scraper/internal/types"
	"product-scraper/normalize"
	"product-scraper/scrapers"
	"product-scraper/store"
)

// Resolver maps a detected platform to its extractor. *scrapers.Registry is
// the production implementation; tests inject stubs.
type Resolver interface {
	Resolve(platform types.Platform) types.ProductScraper
}

// Result is the successful outcome of one scrape invocation.
type Result struct {
	ProductID string                  `json:"product_id"`
	JobID     string                  `json:"job_id"`
	Product   *types.CanonicalProduct `json:"product"`
}

// Service orchestrates one scrape per invocation, synchronously.
type Service struct {
	config    *config.ScraperConfig
	logger    types.Logger
	registry  Resolver
	products  *store.Gateway
	lists     store.ListStore
	lifecycle *Lifecycle
}

// New wires the orchestration service.
func New(cfg *config.ScraperConfig, logger types.Logger, registry Resolver,
	products store.ProductStore, jobs store.JobStore, lists store.ListStore) *Service {
	return &Service{
		config:    cfg,
		logger:    logger,
		registry:  registry,
		products:  store.NewGateway(products, logger),
		lists:     lists,
		lifecycle: NewLifecycle(jobs, logger),
	}
}

// ScrapeProduct ingests one product URL end to end. Invalid URLs fail fast
// before any job exists; every later failure is recorded on the job before
// being returned, so the job row always reaches a terminal state by the
// time this call returns.
func (s *Service) ScrapeProduct(ctx context.Context, rawURL, userID, listID string) (*Result, error) {
	url := scrapers.NormalizeURL(rawURL)
	if !scrapers.IsValidURL(url) {
		return nil, types.NewScraperError(types.CodeInvalidURL, "Invalid URL provided")
	}

	job, err := s.lifecycle.Create(ctx, url, userID)
	if err != nil {
		return nil, err
	}

	result, err := s.run(ctx, job, url, listID)
	if err != nil {
		s.lifecycle.Fail(ctx, job, err)
		return nil, asScraperError(err)
	}
	return result, nil
}

func (s *Service) run(ctx context.Context, job *types.ScrapeJob, url, listID string) (*Result, error) {
	if err := s.lifecycle.Start(ctx, job); err != nil {
		return nil, err
	}

	platform := scrapers.DetectPlatform(url)
	s.logger.Infof("Detected platform %s for %s", platform, url)
	if err := s.lifecycle.SetPlatform(ctx, job, platform); err != nil {
		return nil, err
	}

	if platform == types.PlatformUnknown {
		return nil, types.NewScraperError(types.CodeUnsupportedPlatform,
			"Unsupported platform. Currently supports Amazon, Shopify, and WooCommerce.")
	}

	scraper := s.registry.Resolve(platform)
	if scraper == nil {
		return nil, types.NewScraperError(types.CodeNoScraper,
			"No scraper available for this platform")
	}

	raw, err := s.extractWithRetry(ctx, scraper, url)
	if err != nil {
		return nil, err
	}

	product := normalize.Product(raw)

	productID, err := s.products.Upsert(ctx, product)
	if err != nil {
		return nil, err
	}
	product.ID = productID

	if listID != "" {
		if err := s.lists.AddToList(ctx, productID, listID); err != nil {
			return nil, fmt.Errorf("failed to add product to list: %w", err)
		}
	}

	if err := s.lifecycle.Complete(ctx, job, productID); err != nil {
		return nil, err
	}

	s.logger.Infof("Scrape completed for %s (job %s, product %s)", url, job.ID, productID)
	return &Result{
		ProductID: productID,
		JobID:     job.ID,
		Product:   product,
	}, nil
}

// extractWithRetry runs the extractor under a bounded exponential-backoff
// retry loop. The retry budget applies per extraction attempt, uniformly
// across platforms; context errors are not retried.
func (s *Service) extractWithRetry(ctx context.Context, scraper types.ProductScraper, url string) (*types.RawProduct, error) {
	attempt := 0
	operation := func() (*types.RawProduct, error) {
		attempt++
		raw, err := scraper.Extract(ctx, url)
		if err != nil {
			if ctx.Err() != nil {
				return nil, backoff.Permanent(err)
			}
			s.logger.Warnf("Extraction attempt %d for %s failed: %v", attempt, url, err)
			return nil, err
		}
		return raw, nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(s.config.MaxRetries)),
		ctx)
	return backoff.RetryWithData(operation, policy)
}

// asScraperError maps any orchestration failure onto the structured error
// callers receive, preserving typed codes and falling back to UNKNOWN_ERROR.
func asScraperError(err error) error {
	var scraperErr *types.ScraperError
	if errors.As(err, &scraperErr) {
		return scraperErr
	}
	var extractionErr *types.ExtractionError
	if errors.As(err, &extractionErr) {
		return &types.ScraperError{
			Code:    extractionErr.Code(),
			Message: extractionErr.Error(),
			Err:     extractionErr,
		}
	}
	return &types.ScraperError{
		Code:    types.CodeUnknownError,
		Message: err.Error(),
		Err:     err,
	}
}
