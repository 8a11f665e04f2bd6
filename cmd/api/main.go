package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"product-scraper/config"
	"product-scraper/internal/types"
	"product-scraper/scrapers"
	"product-scraper/service"
	"product-scraper/store"
)

// APIRequest represents the request body for the scrape endpoint
type APIRequest struct {
	URL    string `json:"url"`
	UserID string `json:"userId"`
	ListID string `json:"listId,omitempty"`
}

// APIError carries the structured error returned to callers
type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// APIResponse wraps both success and failure payloads
type APIResponse struct {
	Success bool            `json:"success"`
	Data    *service.Result `json:"data,omitempty"`
	Error   *APIError       `json:"error,omitempty"`
}

// Server holds the API server configuration
type Server struct {
	logger *logrus.Logger
	svc    *service.Service
}

// NewServer wires the scraping service behind a minimal HTTP surface.
func NewServer() (*Server, func(), error) {
	// Load .env file if present
	_ = godotenv.Load()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})
	if levelStr := os.Getenv("LOG_LEVEL"); levelStr != "" {
		if level, err := logrus.ParseLevel(levelStr); err == nil {
			logger.SetLevel(level)
		}
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return nil, nil, err
	}

	var (
		products store.ProductStore
		jobs     store.JobStore
		lists    store.ListStore
	)
	cleanup := func() {}
	if cfg.Postgres.Configured() {
		db, err := sql.Open("postgres", cfg.Postgres.GetConnectionString())
		if err != nil {
			return nil, nil, err
		}
		pg := store.NewPostgresStore(db)
		if err := pg.Migrate(context.Background()); err != nil {
			db.Close()
			return nil, nil, err
		}
		products, jobs, lists = pg, pg, pg
		cleanup = func() { db.Close() }
	} else {
		logger.Info("No database configured, using in-memory store")
		mem := store.NewMemoryStore()
		products, jobs, lists = mem, mem, mem
	}

	registry := scrapers.NewRegistry(&cfg.Scraper, logger)
	svc := service.New(&cfg.Scraper, logger, registry, products, jobs, lists)

	srvCleanup := func() {
		registry.Close()
		cleanup()
	}
	return &Server{logger: logger, svc: svc}, srvCleanup, nil
}

// handleScrape handles POST /scrape
func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		s.sendError(w, http.StatusMethodNotAllowed, &APIError{
			Message: "Method not allowed", Code: types.CodeUnknownError})
		return
	}

	var req APIRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, &APIError{
			Message: "Invalid request body", Code: types.CodeUnknownError})
		return
	}
	if req.URL == "" {
		s.sendError(w, http.StatusBadRequest, &APIError{
			Message: "URL is required", Code: types.CodeInvalidURL})
		return
	}

	s.logger.Infof("API scrape request for %s", req.URL)

	result, err := s.svc.ScrapeProduct(r.Context(), req.URL, req.UserID, req.ListID)
	if err != nil {
		var scraperErr *types.ScraperError
		if errors.As(err, &scraperErr) {
			s.sendError(w, http.StatusBadRequest, &APIError{
				Message: scraperErr.Message, Code: scraperErr.Code})
			return
		}
		s.sendError(w, http.StatusInternalServerError, &APIError{
			Message: err.Error(), Code: types.CodeUnknownError})
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(APIResponse{Success: true, Data: result}); err != nil {
		s.logger.Errorf("Failed to encode response: %v", err)
	}
}

func (s *Server) sendError(w http.ResponseWriter, statusCode int, apiErr *APIError) {
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(APIResponse{Success: false, Error: apiErr}); err != nil {
		s.logger.Errorf("Failed to encode error response: %v", err)
	}
}

// handleHealth handles the health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
}

func main() {
	server, cleanup, err := NewServer()
	if err != nil {
		logrus.Fatalf("Failed to start server: %v", err)
	}
	defer cleanup()

	http.HandleFunc("/scrape", server.handleScrape)
	http.HandleFunc("/health", server.handleHealth)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	server.logger.Infof("API server listening on :%s", port)
	if err := http.ListenAndServe(":"+port, nil); err != nil {
		server.logger.Fatalf("Server failed: %v", err)
	}
}
