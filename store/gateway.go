package store

import (
	"context"
	"errors"
	"fmt"

	"product-scraper/internal/types"
)

// Gateway performs the idempotent upsert of canonical product records keyed
// by URL. Repeated scrapes of the same URL converge on a single record that
// reflects only the most recent extraction.
type Gateway struct {
	products ProductStore
	logger   types.Logger
}

// NewGateway creates a gateway over the given product store.
func NewGateway(products ProductStore, logger types.Logger) *Gateway {
	return &Gateway{products: products, logger: logger}
}

// Upsert inserts the record when its URL is new and fully replaces the
// existing record otherwise, returning the owning identifier. Two
// concurrent scrapes of the same new URL can both reach the insert; the
// loser hits the url unique constraint and is retried as an update against
// the now-existing row instead of surfacing a failure.
func (g *Gateway) Upsert(ctx context.Context, product *types.CanonicalProduct) (string, error) {
	existing, err := g.products.FindByURL(ctx, product.URL)
	switch {
	case err == nil:
		if err := g.products.Update(ctx, existing.ID, product); err != nil {
			return "", fmt.Errorf("failed to update product: %w", err)
		}
		g.logger.Debugf("Updated product %s for %s", existing.ID, product.URL)
		return existing.ID, nil
	case !errors.Is(err, ErrNotFound):
		return "", fmt.Errorf("failed to look up product: %w", err)
	}

	id, err := g.products.Insert(ctx, product)
	if err == nil {
		g.logger.Debugf("Inserted product %s for %s", id, product.URL)
		return id, nil
	}
	if !errors.Is(err, ErrDuplicateURL) {
		return "", fmt.Errorf("failed to insert product: %w", err)
	}

	// Lost the insert race; the row exists now, so update it.
	g.logger.Debugf("Insert race lost for %s, retrying as update", product.URL)
	winner, err := g.products.FindByURL(ctx, product.URL)
	if err != nil {
		return "", fmt.Errorf("failed to look up product after insert race: %w", err)
	}
	if err := g.products.Update(ctx, winner.ID, product); err != nil {
		return "", fmt.Errorf("failed to update product after insert race: %w", err)
	}
	return winner.ID, nil
}
