package handler

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/pantry_api/internal/queue"
	"github.com/GTDGit/pantry_api/internal/service"
	"github.com/GTDGit/pantry_api/internal/utils"
)

// CatalogArchiver stores uploaded price lists and returns their object key.
type CatalogArchiver interface {
	Put(ctx context.Context, supplierID, filename string, body io.Reader, size int64) (string, error)
}

// CatalogJobQueue schedules and reports background catalog jobs.
type CatalogJobQueue interface {
	Enqueue(ctx context.Context, supplierID, objectKey string) (*queue.Job, error)
	Get(ctx context.Context, id string) (*queue.Job, error)
}

// CatalogHandler handles price list uploads.
type CatalogHandler struct {
	ingestionService *service.CatalogIngestionService
	supplierService  *service.SupplierService
	archive          CatalogArchiver
	jobs             CatalogJobQueue
	maxUploadBytes   int64
}

// NewCatalogHandler constructs a CatalogHandler. Uploads larger than
// maxUploadBytes are rejected with 413.
func NewCatalogHandler(
	ingestionService *service.CatalogIngestionService,
	supplierService *service.SupplierService,
	archive CatalogArchiver,
	jobs CatalogJobQueue,
	maxUploadBytes int64,
) *CatalogHandler {
	return &CatalogHandler{
		ingestionService: ingestionService,
		supplierService:  supplierService,
		archive:          archive,
		jobs:             jobs,
		maxUploadBytes:   maxUploadBytes,
	}
}

// Upload handles POST /v1/products/upload?supplier_id=
// The price list is parsed and stored before responding.
func (h *CatalogHandler) Upload(c *gin.Context) {
	supplierID, header, ok := h.readUpload(c)
	if !ok {
		return
	}

	file, err := header.Open()
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to read uploaded file")
		return
	}
	defer file.Close()

	result, err := h.ingestionService.HandleUpload(c.Request.Context(), supplierID, header.Filename, file)
	if err != nil {
		respondError(c, err, "Failed to ingest price list")
		return
	}
	utils.Success(c, http.StatusAccepted, "Price list ingested", result)
}

// UploadAsync handles POST /v1/products/upload/async?supplier_id=
// The price list is archived and a background job is queued for it.
func (h *CatalogHandler) UploadAsync(c *gin.Context) {
	supplierID, header, ok := h.readUpload(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	if _, err := h.supplierService.GetSupplier(ctx, supplierID); err != nil {
		respondError(c, err, "Failed to queue price list")
		return
	}
	format := service.FileExtension(header.Filename)
	if format != "csv" && format != "tsv" {
		utils.Error(c, http.StatusBadRequest, utils.ErrUnrecognizedFormat.Error(), "Only csv and tsv price lists can be queued")
		return
	}

	file, err := header.Open()
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to read uploaded file")
		return
	}
	defer file.Close()

	key, err := h.archive.Put(ctx, supplierID, header.Filename, file, header.Size)
	if err != nil {
		respondError(c, err, "Failed to archive price list")
		return
	}
	job, err := h.jobs.Enqueue(ctx, supplierID, key)
	if err != nil {
		respondError(c, err, "Failed to queue price list")
		return
	}
	utils.Success(c, http.StatusAccepted, "Price list queued", job)
}

// GetJob handles GET /v1/jobs/:id
func (h *CatalogHandler) GetJob(c *gin.Context) {
	job, err := h.jobs.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve job")
		return
	}
	utils.Success(c, http.StatusOK, "Job retrieved", job)
}

// readUpload validates the supplier_id query and the multipart "file" field.
func (h *CatalogHandler) readUpload(c *gin.Context) (string, *multipart.FileHeader, bool) {
	supplierID := c.Query("supplier_id")
	if supplierID == "" {
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "supplier_id is required")
		return "", nil, false
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.Error(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "Price list exceeds the upload limit")
			return "", nil, false
		}
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "A price list file is required in the 'file' field")
		return "", nil, false
	}
	if header.Size > h.maxUploadBytes {
		utils.Error(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "Price list exceeds the upload limit")
		return "", nil, false
	}
	return supplierID, header, true
}
