package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"product-scraper/config"
	"product-scraper/scrapers"
	"product-scraper/service"
	"product-scraper/store"
)

func main() {
	// Load .env file if present
	_ = godotenv.Load()

	var (
		urlFlag    = flag.String("url", "", "Product URL to scrape (required)")
		userFlag   = flag.String("user", "cli", "Requesting user identifier")
		listFlag   = flag.String("list", "", "Optional list to add the product to")
		configFlag = flag.String("config", "", "Path to YAML config file")
		outputFlag = flag.String("output", "", "Output file path (default: stdout)")
		memoryFlag = flag.Bool("memory", false, "Use the in-memory store even when Postgres is configured")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	if *urlFlag == "" {
		log.Fatal("--url flag is required")
	}

	// Setup logging
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})
	if levelStr := os.Getenv("LOG_LEVEL"); levelStr != "" {
		if level, err := logrus.ParseLevel(levelStr); err == nil {
			logger.SetLevel(level)
		}
	} else if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var (
		products store.ProductStore
		jobs     store.JobStore
		lists    store.ListStore
	)
	if cfg.Postgres.Configured() && !*memoryFlag {
		db, err := sql.Open("postgres", cfg.Postgres.GetConnectionString())
		if err != nil {
			logger.Fatalf("Failed to open database: %v", err)
		}
		defer db.Close()

		pg := store.NewPostgresStore(db)
		if err := pg.Migrate(ctx); err != nil {
			logger.Fatalf("Failed to migrate schema: %v", err)
		}
		products, jobs, lists = pg, pg, pg
	} else {
		logger.Info("No database configured, using in-memory store")
		mem := store.NewMemoryStore()
		products, jobs, lists = mem, mem, mem
	}

	registry := scrapers.NewRegistry(&cfg.Scraper, logger)
	defer registry.Close()

	svc := service.New(&cfg.Scraper, logger, registry, products, jobs, lists)

	result, err := svc.ScrapeProduct(ctx, *urlFlag, *userFlag, *listFlag)
	if err != nil {
		logger.Fatalf("Scrape failed: %v", err)
	}

	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		logger.Fatalf("Failed to marshal result: %v", err)
	}

	if *outputFlag != "" {
		if err := os.WriteFile(*outputFlag, jsonData, 0644); err != nil {
			logger.Fatalf("Failed to write output file: %v", err)
		}
		logger.Infof("Result written to: %s", *outputFlag)
	} else {
		fmt.Println(string(jsonData))
	}

	logger.Infof("Job %s completed, product %s", result.JobID, result.ProductID)
}
