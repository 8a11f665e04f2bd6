package service

import (
	"context"
	"fmt"
	"time"

	"product-scraper/internal/types"
	"product-scraper/store"
)

// Lifecycle owns the scrape job state machine. Jobs move pending ->
// processing -> completed|failed; the terminal states are final and every
// terminal transition stamps a completion time. Nothing else mutates jobs.
type Lifecycle struct {
	jobs   store.JobStore
	logger types.Logger
}

// NewLifecycle creates a lifecycle manager over the given job store.
func NewLifecycle(jobs store.JobStore, logger types.Logger) *Lifecycle {
	return &Lifecycle{jobs: jobs, logger: logger}
}

// Create records a new pending job for url on behalf of userID.
func (l *Lifecycle) Create(ctx context.Context, url, userID string) (*types.ScrapeJob, error) {
	job := &types.ScrapeJob{
		ID:        store.NewID(),
		URL:       url,
		UserID:    userID,
		Status:    types.JobPending,
		CreatedAt: time.Now().UTC(),
	}
	if err := l.jobs.CreateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to create scraping job: %w", err)
	}
	l.logger.Debugf("Created job %s for %s", job.ID, url)
	return job, nil
}

// Start moves the job into processing and stamps its start time.
func (l *Lifecycle) Start(ctx context.Context, job *types.ScrapeJob) error {
	now := time.Now().UTC()
	job.Status = types.JobProcessing
	job.StartedAt = &now
	return l.jobs.UpdateJob(ctx, job)
}

// SetPlatform records the detected platform on the job as soon as it is
// known, even when detection yielded unknown.
func (l *Lifecycle) SetPlatform(ctx context.Context, job *types.ScrapeJob, platform types.Platform) error {
	job.Platform = platform
	return l.jobs.UpdateJob(ctx, job)
}

// Complete moves the job to its completed terminal state, recording the
// resulting product identifier atomically with the transition.
func (l *Lifecycle) Complete(ctx context.Context, job *types.ScrapeJob, productID string) error {
	now := time.Now().UTC()
	job.Status = types.JobCompleted
	job.ProductID = productID
	job.CompletedAt = &now
	return l.jobs.UpdateJob(ctx, job)
}

// Fail moves the job to its failed terminal state, recording the triggering
// error's message. The job row is the durable audit trail, so a failure to
// persist the transition is logged but does not mask the original error.
func (l *Lifecycle) Fail(ctx context.Context, job *types.ScrapeJob, cause error) {
	now := time.Now().UTC()
	job.Status = types.JobFailed
	job.ErrorMessage = cause.Error()
	job.CompletedAt = &now
	if err := l.jobs.UpdateJob(ctx, job); err != nil {
		l.logger.Errorf("Failed to record job %s failure: %v", job.ID, err)
	}
}
