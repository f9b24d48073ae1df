package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/pantry_api/internal/queue"
	"github.com/GTDGit/pantry_api/internal/service"
)

type catalogJobs interface {
	Dequeue(ctx context.Context, timeout time.Duration) (*queue.Job, error)
	MarkCompleted(ctx context.Context, job *queue.Job, products int) error
	MarkFailed(ctx context.Context, job *queue.Job, cause error) error
}

type catalogProcessor interface {
	Process(ctx context.Context, job *queue.Job) (int, error)
}

// CatalogWorker consumes queued price list jobs one at a time.
type CatalogWorker struct {
	jobs        catalogJobs
	tasks       catalogProcessor
	pollTimeout time.Duration
	retryDelay  time.Duration
}

// NewCatalogWorker constructs a CatalogWorker.
func NewCatalogWorker(jobs *queue.CatalogQueue, tasks *service.CatalogTaskService, pollTimeout time.Duration) *CatalogWorker {
	if pollTimeout <= 0 {
		pollTimeout = 5 * time.Second
	}
	return &CatalogWorker{
		jobs:        jobs,
		tasks:       tasks,
		pollTimeout: pollTimeout,
		retryDelay:  5 * time.Second,
	}
}

// Start processes jobs until ctx is cancelled.
func (w *CatalogWorker) Start(ctx context.Context) {
	log.Info().Dur("poll_timeout", w.pollTimeout).Msg("Starting catalog worker")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Catalog worker stopped")
			return
		default:
		}

		if _, err := w.processNext(ctx); err != nil {
			if ctx.Err() != nil {
				continue
			}
			log.Error().Err(err).Msg("Catalog worker failed to poll queue")
			select {
			case <-time.After(w.retryDelay):
			case <-ctx.Done():
			}
		}
	}
}

// processNext handles at most one job. It reports whether a job was taken.
// Errors are queue errors; job failures are recorded on the job itself.
func (w *CatalogWorker) processNext(ctx context.Context) (bool, error) {
	job, err := w.jobs.Dequeue(ctx, w.pollTimeout)
	if err != nil || job == nil {
		return false, err
	}

	logger := log.With().Str("job_id", job.ID).Str("supplier_id", job.SupplierID).Logger()
	start := time.Now()

	products, err := w.tasks.Process(ctx, job)
	if err != nil {
		logger.Warn().Err(err).Msg("Catalog job failed")
		if markErr := w.jobs.MarkFailed(ctx, job, err); markErr != nil {
			return true, markErr
		}
		return true, nil
	}

	logger.Info().Int("products", products).Dur("took", time.Since(start)).Msg("Catalog job completed")
	return true, w.jobs.MarkCompleted(ctx, job, products)
}
