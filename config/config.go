package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// ScraperConfig holds the knobs consumed by the extraction pipeline.
type ScraperConfig struct {
	TimeoutMS      int    `yaml:"timeout_ms"`
	MaxRetries     int    `yaml:"max_retries"`
	RequestDelayMS int    `yaml:"request_delay_ms"`
	UserAgent      string `yaml:"user_agent"`
}

// PostgresConfig represents the configuration needed to connect to a
// PostgreSQL database. An empty Host means no database is configured and
// the in-memory store is used instead.
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Scraper  ScraperConfig  `yaml:"scraper"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// Default returns the configuration used when no file or env overrides are
// present.
func Default() *AppConfig {
	return &AppConfig{
		Scraper: ScraperConfig{
			TimeoutMS:      30000,
			MaxRetries:     3,
			RequestDelayMS: 1000,
			UserAgent:      "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		},
	}
}

// Load reads the optional YAML file at filename and applies environment
// overrides on top. An empty filename skips the file step.
func Load(filename string) (*AppConfig, error) {
	cfg := Default()

	if filename != "" {
		file, err := os.Open(filename)
		if err != nil {
			return nil, fmt.Errorf("open config file: %w", err)
		}
		defer file.Close()

		decoder := yaml.NewDecoder(file)
		if err := decoder.Decode(cfg); err != nil {
			return nil, fmt.Errorf("decode config file: %w", err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *AppConfig) applyEnv() {
	if v := getEnvInt("SCRAPING_TIMEOUT_MS", 0); v > 0 {
		c.Scraper.TimeoutMS = v
	}
	if v := getEnvInt("SCRAPING_RETRY_COUNT", -1); v >= 0 {
		c.Scraper.MaxRetries = v
	}
	if v := getEnvInt("SCRAPING_REQUEST_DELAY_MS", 0); v > 0 {
		c.Scraper.RequestDelayMS = v
	}

	c.Postgres.Host = getEnv("POSTGRES_HOST", c.Postgres.Host)
	c.Postgres.Port = getEnv("POSTGRES_PORT", c.Postgres.Port)
	c.Postgres.User = getEnv("POSTGRES_USER", c.Postgres.User)
	c.Postgres.Password = getEnv("POSTGRES_PASSWORD", c.Postgres.Password)
	c.Postgres.DBName = getEnv("POSTGRES_NAME", c.Postgres.DBName)
}

// Timeout returns the extraction timeout as a duration.
func (c *ScraperConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

// RequestDelay returns the minimum delay between outbound requests.
func (c *ScraperConfig) RequestDelay() time.Duration {
	return time.Duration(c.RequestDelayMS) * time.Millisecond
}

// GetConnectionString assembles the lib/pq connection string.
func (p *PostgresConfig) GetConnectionString() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		p.Host, p.Port, p.User, p.Password, p.DBName)
}

// Configured reports whether a database host was provided.
func (p *PostgresConfig) Configured() bool {
	return p.Host != ""
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
