package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/pantry_api/internal/queue"
	"github.com/GTDGit/pantry_api/internal/utils"
)

// CatalogTaskService runs background catalog jobs. Fetching an archived
// price list back from object storage is not implemented yet, so every job
// fails with utils.ErrNotImplemented instead of reporting success.
type CatalogTaskService struct {
	ingestion *CatalogIngestionService
}

// NewCatalogTaskService constructs a CatalogTaskService.
func NewCatalogTaskService(ingestion *CatalogIngestionService) *CatalogTaskService {
	return &CatalogTaskService{ingestion: ingestion}
}

// Process handles one job and returns the number of products created.
func (s *CatalogTaskService) Process(ctx context.Context, job *queue.Job) (int, error) {
	// TODO: download job.ObjectKey from the catalog archive and pass it to s.ingestion.HandleUpload.
	log.Warn().
		Str("job_id", job.ID).
		Str("supplier_id", job.SupplierID).
		Str("object_key", job.ObjectKey).
		Msg("background catalog ingestion is not implemented")
	return 0, utils.ErrNotImplemented
}
