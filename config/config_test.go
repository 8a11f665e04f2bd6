package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 30000, cfg.Scraper.TimeoutMS)
	assert.Equal(t, 3, cfg.Scraper.MaxRetries)
	assert.Equal(t, 1000, cfg.Scraper.RequestDelayMS)
	assert.NotEmpty(t, cfg.Scraper.UserAgent)
	assert.False(t, cfg.Postgres.Configured())
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
scraper:
  timeout_ms: 15000
  max_retries: 5
postgres:
  host: db.internal
  port: "5432"
  user: scraper
  password: secret
  dbname: products
`), 0o644))

	t.Setenv("SCRAPING_RETRY_COUNT", "1")
	t.Setenv("POSTGRES_HOST", "db.override")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 15000, cfg.Scraper.TimeoutMS)
	// Env wins over the file.
	assert.Equal(t, 1, cfg.Scraper.MaxRetries)
	assert.Equal(t, "db.override", cfg.Postgres.Host)
	assert.True(t, cfg.Postgres.Configured())
	assert.Equal(t,
		"host=db.override port=5432 user=scraper password=secret dbname=products sslmode=disable",
		cfg.Postgres.GetConnectionString())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	assert.Error(t, err)
}

func TestScraperConfig_Durations(t *testing.T) {
	cfg := ScraperConfig{TimeoutMS: 2500, RequestDelayMS: 250}
	assert.Equal(t, 2500*time.Millisecond, cfg.Timeout())
	assert.Equal(t, 250*time.Millisecond, cfg.RequestDelay())
}
