package store

import (
	"context"
	"sync"
	"time"

	"product-scraper/internal/types"
)

// MemoryStore is a mutex-guarded in-memory implementation of the store
// interfaces. It backs tests and database-less CLI runs, and enforces the
// same url uniqueness the Postgres schema does.
type MemoryStore struct {
	mu           sync.Mutex
	productsByID map[string]*types.CanonicalProduct
	idByURL      map[string]string
	jobs         map[string]*types.ScrapeJob
	listPairs    map[[2]string]struct{}
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		productsByID: make(map[string]*types.CanonicalProduct),
		idByURL:      make(map[string]string),
		jobs:         make(map[string]*types.ScrapeJob),
		listPairs:    make(map[[2]string]struct{}),
	}
}

// FindByURL returns the record for url or ErrNotFound.
func (m *MemoryStore) FindByURL(ctx context.Context, url string) (*types.CanonicalProduct, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.idByURL[url]
	if !ok {
		return nil, ErrNotFound
	}
	return copyProduct(m.productsByID[id]), nil
}

// Insert stores a new record, enforcing url uniqueness.
func (m *MemoryStore) Insert(ctx context.Context, product *types.CanonicalProduct) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.idByURL[product.URL]; exists {
		return "", ErrDuplicateURL
	}

	stored := copyProduct(product)
	stored.ID = NewID()
	now := time.Now().UTC()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	stored.LastScrapedAt = now

	m.productsByID[stored.ID] = stored
	m.idByURL[stored.URL] = stored.ID
	return stored.ID, nil
}

// Update fully replaces the record identified by id.
func (m *MemoryStore) Update(ctx context.Context, id string, product *types.CanonicalProduct) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.productsByID[id]
	if !ok {
		return ErrNotFound
	}

	stored := copyProduct(product)
	stored.ID = id
	stored.URL = existing.URL
	stored.CreatedAt = existing.CreatedAt
	now := time.Now().UTC()
	stored.UpdatedAt = now
	stored.LastScrapedAt = now

	m.productsByID[id] = stored
	return nil
}

// ProductCount reports how many product records exist.
func (m *MemoryStore) ProductCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.productsByID)
}

// CreateJob stores a new job record.
func (m *MemoryStore) CreateJob(ctx context.Context, job *types.ScrapeJob) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs[job.ID] = copyJob(job)
	return nil
}

// UpdateJob replaces the stored job record.
func (m *MemoryStore) UpdateJob(ctx context.Context, job *types.ScrapeJob) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.jobs[job.ID]; !ok {
		return ErrNotFound
	}
	m.jobs[job.ID] = copyJob(job)
	return nil
}

// GetJob returns the job with the given id or ErrNotFound.
func (m *MemoryStore) GetJob(ctx context.Context, id string) (*types.ScrapeJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyJob(job), nil
}

// Jobs returns a snapshot of every job record.
func (m *MemoryStore) Jobs() []*types.ScrapeJob {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*types.ScrapeJob, 0, len(m.jobs))
	for _, job := range m.jobs {
		out = append(out, copyJob(job))
	}
	return out
}

// JobCount reports how many job records exist.
func (m *MemoryStore) JobCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.jobs)
}

// AddToList records the {product, list} pair; duplicates are ignored.
func (m *MemoryStore) AddToList(ctx context.Context, productID, listID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listPairs[[2]string{productID, listID}] = struct{}{}
	return nil
}

// ListMembershipCount reports how many {product, list} pairs exist.
func (m *MemoryStore) ListMembershipCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.listPairs)
}

func copyProduct(p *types.CanonicalProduct) *types.CanonicalProduct {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}

func copyJob(j *types.ScrapeJob) *types.ScrapeJob {
	if j == nil {
		return nil
	}
	cp := *j
	return &cp
}
