package utils

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"product-scraper/config"
)

func testScraperConfig() *config.ScraperConfig {
	cfg := config.Default().Scraper
	cfg.RequestDelayMS = 10 // Faster for testing
	return &cfg
}

func TestNewHTTPClient(t *testing.T) {
	cfg := testScraperConfig()
	logger := logrus.New()

	client := NewHTTPClient(cfg, logger)

	assert.NotNil(t, client)
	assert.Equal(t, cfg, client.config)
	assert.NotNil(t, client.client)
	assert.NotNil(t, client.limiter)

	client.Close()
}

func TestHTTPClient_Get_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("test response"))
	}))
	defer server.Close()

	client := NewHTTPClient(testScraperConfig(), logrus.New())
	defer client.Close()

	body, err := client.Get(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Equal(t, "test response", string(body))
}

func TestHTTPClient_Get_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewHTTPClient(testScraperConfig(), logrus.New())
	defer client.Close()

	_, err := client.Get(context.Background(), server.URL)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status code: 404")
}

func TestHTTPClient_Get_ContextCancelled(t *testing.T) {
	client := NewHTTPClient(testScraperConfig(), logrus.New())
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	_, err := client.Get(ctx, "http://example.com")

	assert.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHTTPClient_SetsUserAgent(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := testScraperConfig()
	client := NewHTTPClient(cfg, logrus.New())
	defer client.Close()

	_, err := client.Get(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Equal(t, cfg.UserAgent, gotUA)
}
