package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/GTDGit/pantry_api/internal/cache"
	"github.com/GTDGit/pantry_api/internal/utils"
)

const (
	// Redis keys
	CatalogQueueKey     = "catalog:jobs"
	CatalogJobKeyPrefix = "catalog:job:"

	DefaultJobTTL = 24 * time.Hour
)

// JobStatus defines the status of a job
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// Job is a request to ingest an archived price list for a supplier.
type Job struct {
	ID         string     `json:"id"`
	SupplierID string     `json:"supplierId"`
	ObjectKey  string     `json:"objectKey"`
	Status     JobStatus  `json:"status"`
	ErrorMsg   string     `json:"error,omitempty"`
	Products   int        `json:"products,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
}

// CatalogQueue is a FIFO of catalog jobs kept in Redis. Job records expire
// after the configured TTL.
type CatalogQueue struct {
	redis *cache.RedisClient
	ttl   time.Duration
}

// NewCatalogQueue creates a new CatalogQueue.
func NewCatalogQueue(redis *cache.RedisClient, ttl time.Duration) *CatalogQueue {
	if ttl <= 0 {
		ttl = DefaultJobTTL
	}
	return &CatalogQueue{redis: redis, ttl: ttl}
}

func jobKey(id string) string {
	return CatalogJobKeyPrefix + id
}

// Enqueue stores a pending job and pushes it onto the queue.
func (q *CatalogQueue) Enqueue(ctx context.Context, supplierID, objectKey string) (*Job, error) {
	now := time.Now().UTC()
	job := &Job{
		ID:         uuid.NewString(),
		SupplierID: supplierID,
		ObjectKey:  objectKey,
		Status:     JobStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := q.redis.SetJSON(ctx, jobKey(job.ID), job, q.ttl); err != nil {
		return nil, fmt.Errorf("save job: %w", err)
	}
	if err := q.redis.Push(ctx, CatalogQueueKey, job.ID); err != nil {
		_ = q.redis.Delete(ctx, jobKey(job.ID))
		return nil, fmt.Errorf("push job: %w", err)
	}
	return job, nil
}

// Dequeue waits up to timeout for the next job and marks it processing.
// It returns nil, nil when nothing arrived in time. Ids whose record has
// already expired are dropped.
func (q *CatalogQueue) Dequeue(ctx context.Context, timeout time.Duration) (*Job, error) {
	id, err := q.redis.PopWait(ctx, CatalogQueueKey, timeout)
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, nil
		}
		return nil, err
	}

	job, err := q.Get(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrJobNotFound) {
			return nil, nil
		}
		return nil, err
	}

	job.Status = JobStatusProcessing
	job.UpdatedAt = time.Now().UTC()
	if err := q.save(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// Get returns a job by id.
func (q *CatalogQueue) Get(ctx context.Context, id string) (*Job, error) {
	var job Job
	if err := q.redis.GetJSON(ctx, jobKey(id), &job); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, utils.ErrJobNotFound
		}
		return nil, err
	}
	return &job, nil
}

// MarkCompleted records a successful run.
func (q *CatalogQueue) MarkCompleted(ctx context.Context, job *Job, products int) error {
	job.Products = products
	return q.finish(ctx, job, JobStatusCompleted, "")
}

// MarkFailed records a failed run. Failed jobs are not retried.
func (q *CatalogQueue) MarkFailed(ctx context.Context, job *Job, cause error) error {
	return q.finish(ctx, job, JobStatusFailed, cause.Error())
}

func (q *CatalogQueue) finish(ctx context.Context, job *Job, status JobStatus, msg string) error {
	now := time.Now().UTC()
	job.Status = status
	job.ErrorMsg = msg
	job.UpdatedAt = now
	job.FinishedAt = &now
	return q.save(ctx, job)
}

func (q *CatalogQueue) save(ctx context.Context, job *Job) error {
	if err := q.redis.SetJSON(ctx, jobKey(job.ID), job, q.ttl); err != nil {
		return fmt.Errorf("save job %s: %w", job.ID, err)
	}
	return nil
}
