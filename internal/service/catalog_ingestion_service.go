package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/pantry_api/internal/catalog"
	"github.com/GTDGit/pantry_api/internal/models"
	"github.com/GTDGit/pantry_api/internal/repository"
	"github.com/GTDGit/pantry_api/internal/utils"
)

// IngestionResult summarises a completed upload.
type IngestionResult struct {
	SupplierID      string `json:"supplierId"`
	Filename        string `json:"filename"`
	Format          string `json:"format"`
	ProductsCreated int    `json:"productsCreated"`
}

// CatalogIngestionService turns supplier price lists into products and
// price history snapshots.
type CatalogIngestionService struct {
	store    repository.Store
	currency string
}

// NewCatalogIngestionService constructs a CatalogIngestionService. Records
// are stamped with currency (catalog.DefaultCurrency when empty).
func NewCatalogIngestionService(store repository.Store, currency string) *CatalogIngestionService {
	if currency == "" {
		currency = catalog.DefaultCurrency
	}
	return &CatalogIngestionService{store: store, currency: currency}
}

// HandleUpload parses content as the price list named filename and stores
// every record under supplierID. The whole upload commits or none of it does.
func (s *CatalogIngestionService) HandleUpload(ctx context.Context, supplierID, filename string, content io.Reader) (*IngestionResult, error) {
	start := time.Now()
	result := &IngestionResult{
		SupplierID: supplierID,
		Filename:   filename,
		Format:     FileExtension(filename),
	}

	err := s.store.InTx(ctx, func(q repository.Queries) error {
		if _, err := q.GetSupplier(ctx, supplierID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("%w: %s", utils.ErrSupplierNotFound, supplierID)
			}
			return fmt.Errorf("get supplier: %w", err)
		}

		delimiter, err := delimiterFor(result.Format)
		if err != nil {
			return err
		}

		parser := catalog.NewParser(content, catalog.Config{Delimiter: delimiter, Currency: s.currency})
		for {
			record, err := parser.Next()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("parse %s: %w", filename, err)
			}
			if err := persistRecord(ctx, q, supplierID, record); err != nil {
				return err
			}
			result.ProductsCreated++
		}
	})
	if err != nil {
		log.Warn().Err(err).
			Str("supplier_id", supplierID).
			Str("filename", filename).
			Str("format", result.Format).
			Msg("catalog upload rejected")
		return nil, err
	}

	log.Info().
		Str("supplier_id", supplierID).
		Str("filename", filename).
		Str("format", result.Format).
		Int("products", result.ProductsCreated).
		Dur("took", time.Since(start)).
		Msg("catalog upload ingested")
	return result, nil
}

// FileExtension returns the lower-cased text after the last dot of
// filename, or the whole name when it has no dot.
func FileExtension(filename string) string {
	if i := strings.LastIndex(filename, "."); i >= 0 {
		return strings.ToLower(filename[i+1:])
	}
	return strings.ToLower(filename)
}

func delimiterFor(format string) (rune, error) {
	switch format {
	case "csv":
		return ',', nil
	case "tsv":
		return '\t', nil
	case "xls", "xlsx":
		return 0, fmt.Errorf("%w: excel parsing not yet implemented", utils.ErrFormatNotSupported)
	case "pdf":
		return 0, fmt.Errorf("%w: pdf parsing not yet implemented", utils.ErrFormatNotSupported)
	default:
		return 0, fmt.Errorf("%w: %q", utils.ErrUnrecognizedFormat, format)
	}
}

func persistRecord(ctx context.Context, q repository.Queries, supplierID string, record *catalog.Product) error {
	product := &models.Product{
		ID:          uuid.NewString(),
		SupplierID:  supplierID,
		SKU:         record.SKU,
		UPC:         record.UPC,
		GTIN:        record.GTIN,
		Name:        record.Name,
		Unit:        record.Unit,
		PackageSize: record.PackageSize,
		Price:       record.Price,
		Currency:    record.Currency,
	}
	if err := q.CreateProduct(ctx, product); err != nil {
		return fmt.Errorf("create product %q: %w", record.Name, err)
	}

	snapshot := &models.PriceHistory{
		ID:         uuid.NewString(),
		ProductID:  product.ID,
		SupplierID: &supplierID,
		Price:      record.Price,
		Currency:   record.Currency,
	}
	if record.IsBulk() {
		tag := models.BulkPriceTag
		snapshot.IsBulk = &tag
	}
	if err := q.CreatePriceHistory(ctx, snapshot); err != nil {
		return fmt.Errorf("create price history for %q: %w", record.Name, err)
	}
	return nil
}
