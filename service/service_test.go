package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"product-scraper/config"
	"product-scraper/internal/types"
	"product-scraper/store"
)

// stubScraper returns canned raw fields or a canned error.
type stubScraper struct {
	platform types.Platform
	raw      *types.RawProduct
	err      error
	calls    int
}

func (s *stubScraper) Platform() types.Platform { return s.platform }

func (s *stubScraper) Extract(ctx context.Context, url string) (*types.RawProduct, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	raw := *s.raw
	raw.URL = url
	return &raw, nil
}

func (s *stubScraper) Close() {}

// stubRegistry resolves from an explicit map, mirroring the real registry.
type stubRegistry struct {
	scrapers map[types.Platform]types.ProductScraper
}

func (r *stubRegistry) Resolve(platform types.Platform) types.ProductScraper {
	return r.scrapers[platform]
}

type fixture struct {
	svc     *Service
	mem     *store.MemoryStore
	scraper *stubScraper
}

func newFixture(t *testing.T, scraper *stubScraper) *fixture {
	t.Helper()
	cfg := config.Default().Scraper
	cfg.MaxRetries = 0

	mem := store.NewMemoryStore()
	registry := &stubRegistry{scrapers: map[types.Platform]types.ProductScraper{}}
	if scraper != nil {
		registry.scrapers[scraper.platform] = scraper
	}
	return &fixture{
		svc:     New(&cfg, logrus.New(), registry, mem, mem, mem),
		mem:     mem,
		scraper: scraper,
	}
}

func amazonStub() *stubScraper {
	return &stubScraper{
		platform: types.PlatformAmazon,
		raw: &types.RawProduct{
			Platform:         types.PlatformAmazon,
			Name:             "Widget",
			PriceText:        "$19.99",
			AvailabilityText: "In Stock.",
		},
	}
}

func TestScrapeProduct_InvalidURL_NoJobCreated(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.ScrapeProduct(context.Background(), "not a url", "user-1", "")
	require.Error(t, err)

	var scraperErr *types.ScraperError
	require.ErrorAs(t, err, &scraperErr)
	assert.Equal(t, types.CodeInvalidURL, scraperErr.Code)
	assert.Equal(t, 0, f.mem.JobCount())
	assert.Equal(t, 0, f.mem.ProductCount())
}

func TestScrapeProduct_UnsupportedPlatform_FailsJob(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.ScrapeProduct(context.Background(), "https://unknown-shop.example.com/product/1", "user-1", "")
	require.Error(t, err)

	var scraperErr *types.ScraperError
	require.ErrorAs(t, err, &scraperErr)
	assert.Equal(t, types.CodeUnsupportedPlatform, scraperErr.Code)

	require.Equal(t, 1, f.mem.JobCount())
	job := onlyJob(t, f.mem)
	assert.Equal(t, types.JobFailed, job.Status)
	assert.Equal(t, types.PlatformUnknown, job.Platform)
	assert.NotEmpty(t, job.ErrorMessage)
	assert.NotNil(t, job.CompletedAt)
	assert.Equal(t, 0, f.mem.ProductCount())
}

func TestScrapeProduct_NoScraperRegistered(t *testing.T) {
	// Amazon URL detected but nothing registered for the platform.
	f := newFixture(t, nil)

	_, err := f.svc.ScrapeProduct(context.Background(), "https://www.amazon.com/dp/B01", "user-1", "")
	require.Error(t, err)

	var scraperErr *types.ScraperError
	require.ErrorAs(t, err, &scraperErr)
	assert.Equal(t, types.CodeNoScraper, scraperErr.Code)

	job := onlyJob(t, f.mem)
	assert.Equal(t, types.JobFailed, job.Status)
	assert.Equal(t, types.PlatformAmazon, job.Platform)
}

func TestScrapeProduct_Success(t *testing.T) {
	f := newFixture(t, amazonStub())

	result, err := f.svc.ScrapeProduct(context.Background(), "www.amazon.com/dp/B01", "user-1", "")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.NotEmpty(t, result.ProductID)
	assert.NotEmpty(t, result.JobID)

	require.NotNil(t, result.Product)
	assert.Equal(t, "Widget", result.Product.Name)
	assert.Equal(t, "https://www.amazon.com/dp/B01", result.Product.URL)
	require.NotNil(t, result.Product.PriceCurrent)
	assert.InDelta(t, 19.99, *result.Product.PriceCurrent, 0.001)
	assert.Equal(t, types.StockInStock, result.Product.StockStatus)

	job, err := f.mem.GetJob(context.Background(), result.JobID)
	require.NoError(t, err)
	assert.Equal(t, types.JobCompleted, job.Status)
	assert.Equal(t, result.ProductID, job.ProductID)
	assert.Equal(t, types.PlatformAmazon, job.Platform)
	assert.NotNil(t, job.StartedAt)
	assert.NotNil(t, job.CompletedAt)
	assert.Empty(t, job.ErrorMessage)
}

func TestScrapeProduct_RepeatedRunsConverge(t *testing.T) {
	f := newFixture(t, amazonStub())
	ctx := context.Background()

	first, err := f.svc.ScrapeProduct(ctx, "https://www.amazon.com/dp/B01", "user-1", "")
	require.NoError(t, err)

	f.scraper.raw.PriceText = "$24.99"
	second, err := f.svc.ScrapeProduct(ctx, "https://www.amazon.com/dp/B01", "user-2", "")
	require.NoError(t, err)

	assert.Equal(t, first.ProductID, second.ProductID)
	assert.Equal(t, 1, f.mem.ProductCount())
	assert.Equal(t, 2, f.mem.JobCount())

	stored, err := f.mem.FindByURL(ctx, "https://www.amazon.com/dp/B01")
	require.NoError(t, err)
	require.NotNil(t, stored.PriceCurrent)
	assert.InDelta(t, 24.99, *stored.PriceCurrent, 0.001)
}

func TestScrapeProduct_ExtractionFailure_RecordsPlatformCode(t *testing.T) {
	scraper := amazonStub()
	scraper.err = types.NewExtractionError(types.PlatformAmazon, errors.New("marker selector never appeared"))
	f := newFixture(t, scraper)

	_, err := f.svc.ScrapeProduct(context.Background(), "https://www.amazon.com/dp/B01", "user-1", "")
	require.Error(t, err)

	var scraperErr *types.ScraperError
	require.ErrorAs(t, err, &scraperErr)
	assert.Equal(t, types.CodeAmazonScrapeError, scraperErr.Code)

	job := onlyJob(t, f.mem)
	assert.Equal(t, types.JobFailed, job.Status)
	assert.Contains(t, job.ErrorMessage, "marker selector never appeared")
	assert.Equal(t, 0, f.mem.ProductCount())
}

func TestScrapeProduct_RetriesExtraction(t *testing.T) {
	scraper := amazonStub()
	scraper.err = types.NewExtractionError(types.PlatformAmazon, errors.New("timeout"))

	cfg := config.Default().Scraper
	cfg.MaxRetries = 2

	mem := store.NewMemoryStore()
	registry := &stubRegistry{scrapers: map[types.Platform]types.ProductScraper{
		types.PlatformAmazon: scraper,
	}}
	svc := New(&cfg, logrus.New(), registry, mem, mem, mem)

	_, err := svc.ScrapeProduct(context.Background(), "https://www.amazon.com/dp/B01", "user-1", "")
	require.Error(t, err)

	// Initial attempt plus two retries.
	assert.Equal(t, 3, scraper.calls)
}

func TestScrapeProduct_AddsToList(t *testing.T) {
	f := newFixture(t, amazonStub())
	ctx := context.Background()

	_, err := f.svc.ScrapeProduct(ctx, "https://www.amazon.com/dp/B01", "user-1", "wishlist")
	require.NoError(t, err)
	assert.Equal(t, 1, f.mem.ListMembershipCount())

	// Scraping again into the same list stays a set-add.
	_, err = f.svc.ScrapeProduct(ctx, "https://www.amazon.com/dp/B01", "user-1", "wishlist")
	require.NoError(t, err)
	assert.Equal(t, 1, f.mem.ListMembershipCount())
}

func onlyJob(t *testing.T, mem *store.MemoryStore) *types.ScrapeJob {
	t.Helper()
	jobs := mem.Jobs()
	require.Len(t, jobs, 1)
	return jobs[0]
}
