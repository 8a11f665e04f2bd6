package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"product-scraper/internal/types"
)

// pqUniqueViolation is the Postgres error code raised when an insert loses
// the race on a unique constraint.
const pqUniqueViolation = "23505"

// PostgresStore implements the store interfaces on top of PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore wraps an open database handle.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate bootstraps the schema. Idempotent.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS products (
			id UUID PRIMARY KEY,
			url TEXT NOT NULL UNIQUE,
			platform TEXT NOT NULL,
			name TEXT NOT NULL,
			price_current DOUBLE PRECISION,
			price_original DOUBLE PRECISION,
			currency TEXT,
			sku TEXT,
			brand TEXT,
			description TEXT,
			specifications JSONB NOT NULL DEFAULT '[]',
			features TEXT[] NOT NULL DEFAULT '{}',
			rating_average DOUBLE PRECISION,
			rating_count INTEGER,
			primary_image_url TEXT,
			images TEXT[] NOT NULL DEFAULT '{}',
			videos TEXT[] NOT NULL DEFAULT '{}',
			stock_status TEXT,
			shipping_info JSONB NOT NULL DEFAULT '{}',
			variants JSONB NOT NULL DEFAULT '[]',
			categories TEXT[] NOT NULL DEFAULT '{}',
			metadata JSONB NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			last_scraped_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS scraping_jobs (
			id UUID PRIMARY KEY,
			product_id UUID,
			user_id TEXT NOT NULL,
			url TEXT NOT NULL,
			platform TEXT,
			status TEXT NOT NULL,
			error_message TEXT,
			created_at TIMESTAMPTZ NOT NULL,
			started_at TIMESTAMPTZ,
			completed_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS product_lists (
			product_id UUID NOT NULL,
			list_id TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (product_id, list_id)
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// FindByURL returns the record for url or ErrNotFound.
func (s *PostgresStore) FindByURL(ctx context.Context, url string) (*types.CanonicalProduct, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, url, platform, name, price_current, price_original, currency,
		       sku, brand, description, specifications, features, rating_average,
		       rating_count, primary_image_url, images, videos, stock_status,
		       shipping_info, variants, categories, metadata,
		       created_at, updated_at, last_scraped_at
		FROM products WHERE url = $1`, url)
	return scanProduct(row)
}

// Insert stores a new record. A losing concurrent insert on the url unique
// constraint is reported as ErrDuplicateURL so the gateway can retry as an
// update.
func (s *PostgresStore) Insert(ctx context.Context, p *types.CanonicalProduct) (string, error) {
	id := NewID()
	now := time.Now().UTC()

	specs, shipping, variants, metadata, err := marshalProductJSON(p)
	if err != nil {
		return "", err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO products (
			id, url, platform, name, price_current, price_original, currency,
			sku, brand, description, specifications, features, rating_average,
			rating_count, primary_image_url, images, videos, stock_status,
			shipping_info, variants, categories, metadata,
			created_at, updated_at, last_scraped_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25)`,
		id, p.URL, p.Platform, p.Name, p.PriceCurrent, p.PriceOriginal, p.Currency,
		p.SKU, p.Brand, p.Description, specs, pq.Array(p.Features), p.RatingAverage,
		p.RatingCount, p.PrimaryImageURL, pq.Array(p.Images), pq.Array(p.Videos), p.StockStatus,
		shipping, variants, pq.Array(p.Categories), metadata,
		now, now, now)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return "", ErrDuplicateURL
		}
		return "", fmt.Errorf("insert product: %w", err)
	}
	return id, nil
}

// Update fully replaces the record identified by id and stamps the last
// scraped time.
func (s *PostgresStore) Update(ctx context.Context, id string, p *types.CanonicalProduct) error {
	now := time.Now().UTC()

	specs, shipping, variants, metadata, err := marshalProductJSON(p)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE products SET
			platform = $2, name = $3, price_current = $4, price_original = $5,
			currency = $6, sku = $7, brand = $8, description = $9,
			specifications = $10, features = $11, rating_average = $12,
			rating_count = $13, primary_image_url = $14, images = $15,
			videos = $16, stock_status = $17, shipping_info = $18,
			variants = $19, categories = $20, metadata = $21,
			updated_at = $22, last_scraped_at = $22
		WHERE id = $1`,
		id, p.Platform, p.Name, p.PriceCurrent, p.PriceOriginal,
		p.Currency, p.SKU, p.Brand, p.Description,
		specs, pq.Array(p.Features), p.RatingAverage,
		p.RatingCount, p.PrimaryImageURL, pq.Array(p.Images),
		pq.Array(p.Videos), p.StockStatus, shipping,
		variants, pq.Array(p.Categories), metadata,
		now)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateJob stores a new job record.
func (s *PostgresStore) CreateJob(ctx context.Context, job *types.ScrapeJob) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO scraping_jobs (
			id, product_id, user_id, url, platform, status, error_message,
			created_at, started_at, completed_at
		) VALUES ($1, NULLIF($2,'')::uuid, $3, $4, NULLIF($5,''), $6, NULLIF($7,''), $8, $9, $10)`,
		job.ID, job.ProductID, job.UserID, job.URL, string(job.Platform),
		job.Status, job.ErrorMessage, job.CreatedAt, job.StartedAt, job.CompletedAt)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

// UpdateJob replaces the mutable job columns.
func (s *PostgresStore) UpdateJob(ctx context.Context, job *types.ScrapeJob) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE scraping_jobs SET
			product_id = NULLIF($2,'')::uuid, platform = NULLIF($3,''),
			status = $4, error_message = NULLIF($5,''),
			started_at = $6, completed_at = $7
		WHERE id = $1`,
		job.ID, job.ProductID, string(job.Platform),
		job.Status, job.ErrorMessage, job.StartedAt, job.CompletedAt)
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetJob returns the job with the given id or ErrNotFound.
func (s *PostgresStore) GetJob(ctx context.Context, id string) (*types.ScrapeJob, error) {
	job := &types.ScrapeJob{}
	var productID, platform, errorMessage sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT id, product_id, user_id, url, platform, status, error_message,
		       created_at, started_at, completed_at
		FROM scraping_jobs WHERE id = $1`, id).Scan(
		&job.ID, &productID, &job.UserID, &job.URL, &platform, &job.Status,
		&errorMessage, &job.CreatedAt, &job.StartedAt, &job.CompletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	job.ProductID = productID.String
	job.Platform = types.Platform(platform.String)
	job.ErrorMessage = errorMessage.String
	return job, nil
}

// AddToList records the {product, list} pair; duplicate pairs are silently
// ignored via ON CONFLICT DO NOTHING.
func (s *PostgresStore) AddToList(ctx context.Context, productID, listID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO product_lists (product_id, list_id)
		VALUES ($1, $2)
		ON CONFLICT (product_id, list_id) DO NOTHING`,
		productID, listID)
	if err != nil {
		return fmt.Errorf("add to list: %w", err)
	}
	return nil
}

func marshalProductJSON(p *types.CanonicalProduct) (specs, shipping, variants, metadata []byte, err error) {
	if specs, err = json.Marshal(orEmptySpecs(p.Specifications)); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshal specifications: %w", err)
	}
	if shipping, err = json.Marshal(orEmptyMap(p.ShippingInfo)); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshal shipping info: %w", err)
	}
	if variants, err = json.Marshal(orEmptyVariants(p.Variants)); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshal variants: %w", err)
	}
	if metadata, err = json.Marshal(orEmptyMeta(p.Metadata)); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshal metadata: %w", err)
	}
	return specs, shipping, variants, metadata, nil
}

func scanProduct(row *sql.Row) (*types.CanonicalProduct, error) {
	p := &types.CanonicalProduct{}
	var specs, shipping, variants, metadata []byte
	var currency, sku, brand, description, primaryImage, stockStatus sql.NullString

	err := row.Scan(
		&p.ID, &p.URL, &p.Platform, &p.Name, &p.PriceCurrent, &p.PriceOriginal, &currency,
		&sku, &brand, &description, &specs, pq.Array(&p.Features), &p.RatingAverage,
		&p.RatingCount, &primaryImage, pq.Array(&p.Images), pq.Array(&p.Videos), &stockStatus,
		&shipping, &variants, pq.Array(&p.Categories), &metadata,
		&p.CreatedAt, &p.UpdatedAt, &p.LastScrapedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan product: %w", err)
	}

	p.Currency = currency.String
	p.SKU = sku.String
	p.Brand = brand.String
	p.Description = description.String
	p.PrimaryImageURL = primaryImage.String
	p.StockStatus = types.StockStatus(stockStatus.String)

	if err := json.Unmarshal(specs, &p.Specifications); err != nil {
		return nil, fmt.Errorf("unmarshal specifications: %w", err)
	}
	if err := json.Unmarshal(shipping, &p.ShippingInfo); err != nil {
		return nil, fmt.Errorf("unmarshal shipping info: %w", err)
	}
	if err := json.Unmarshal(variants, &p.Variants); err != nil {
		return nil, fmt.Errorf("unmarshal variants: %w", err)
	}
	if err := json.Unmarshal(metadata, &p.Metadata); err != nil {
		return nil, fmt.Errorf("unmarshal metadata: %w", err)
	}
	return p, nil
}

func orEmptySpecs(s []types.Spec) []types.Spec {
	if s == nil {
		return []types.Spec{}
	}
	return s
}

func orEmptyVariants(v []types.Variant) []types.Variant {
	if v == nil {
		return []types.Variant{}
	}
	return v
}

func orEmptyMap(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}

func orEmptyMeta(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return map[string]interface{}{}
	}
	return m
}
