// Package store persists canonical products, scrape jobs and list
// memberships. The relational engine is hidden behind narrow interfaces so
// the orchestration can run against Postgres or the in-memory store.
package store

import (
	"context"
	"errors"

	"product-scraper/internal/types"
)

var (
	// ErrNotFound signals a lookup miss.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateURL signals an insert that lost the race against a
	// concurrent writer on the products url unique constraint. The gateway
	// converts it into an update.
	ErrDuplicateURL = errors.New("product url already exists")
)

// ProductStore holds canonical product records keyed by URL.
type ProductStore interface {
	// FindByURL returns the record for url or ErrNotFound.
	FindByURL(ctx context.Context, url string) (*types.CanonicalProduct, error)

	// Insert stores a new record and returns its generated identifier.
	// A url collision yields ErrDuplicateURL.
	Insert(ctx context.Context, product *types.CanonicalProduct) (string, error)

	// Update fully replaces the record identified by id.
	Update(ctx context.Context, id string, product *types.CanonicalProduct) error
}

// JobStore persists scrape job audit records.
type JobStore interface {
	CreateJob(ctx context.Context, job *types.ScrapeJob) error
	UpdateJob(ctx context.Context, job *types.ScrapeJob) error
	GetJob(ctx context.Context, id string) (*types.ScrapeJob, error)
}

// ListStore associates products with user-defined lists. AddToList is a
// set-add: duplicate pairs are silently ignored.
type ListStore interface {
	AddToList(ctx context.Context, productID, listID string) error
}
