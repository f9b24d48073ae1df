package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/GTDGit/pantry_api/internal/catalog"
	"github.com/GTDGit/pantry_api/internal/models"
	"github.com/GTDGit/pantry_api/internal/repository"
	"github.com/GTDGit/pantry_api/internal/utils"
	"github.com/GTDGit/pantry_api/pkg/gtin"
)

// CreateProductRequest represents the request to create a product by hand.
type CreateProductRequest struct {
	SupplierID  string          `json:"supplierId" binding:"required"`
	Name        string          `json:"name" binding:"required"`
	Price       decimal.Decimal `json:"price"`
	SKU         string          `json:"sku"`
	Unit        string          `json:"unit"`
	UPC         *string         `json:"upc"`
	GTIN        *string         `json:"gtin"`
	PackageSize *string         `json:"packageSize"`
	Currency    string          `json:"currency"`
}

// ProductService provides product CRUD and price history reads.
type ProductService struct {
	store    repository.Store
	currency string
}

// NewProductService constructs a ProductService.
func NewProductService(store repository.Store, currency string) *ProductService {
	if currency == "" {
		currency = catalog.DefaultCurrency
	}
	return &ProductService{store: store, currency: currency}
}

// ListProducts returns products, optionally limited to one supplier.
func (s *ProductService) ListProducts(ctx context.Context, supplierID string) ([]models.Product, error) {
	return s.store.ListProducts(ctx, supplierID)
}

// GetProduct returns a product by id.
func (s *ProductService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.store.GetProduct(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, utils.ErrProductNotFound
	}
	return product, err
}

// CreateProduct stores a product and its first price snapshot. Identifiers
// must carry a valid check digit.
func (s *ProductService) CreateProduct(ctx context.Context, req *CreateProductRequest) (*models.Product, error) {
	if req.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price must not be negative", utils.ErrInvalidRequest)
	}
	upc, err := checkedIdentifier(req.UPC, gtin.TypeUPC)
	if err != nil {
		return nil, err
	}
	gtinValue, err := checkedIdentifier(req.GTIN, gtin.TypeGTIN13, gtin.TypeGTIN14)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		ID:          uuid.NewString(),
		SupplierID:  req.SupplierID,
		SKU:         req.SKU,
		UPC:         upc,
		GTIN:        gtinValue,
		Name:        strings.TrimSpace(req.Name),
		Unit:        req.Unit,
		PackageSize: req.PackageSize,
		Price:       req.Price,
		Currency:    req.Currency,
	}
	if product.SKU == "" {
		product.SKU = uuid.NewString()
	}
	if product.Unit == "" {
		product.Unit = catalog.DefaultUnit
	}
	if product.Currency == "" {
		product.Currency = s.currency
	}

	err = s.store.InTx(ctx, func(q repository.Queries) error {
		if _, err := q.GetSupplier(ctx, req.SupplierID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return utils.ErrSupplierNotFound
			}
			return err
		}
		if err := q.CreateProduct(ctx, product); err != nil {
			return fmt.Errorf("create product: %w", err)
		}
		snapshot := &models.PriceHistory{
			ProductID:  product.ID,
			SupplierID: &product.SupplierID,
			Price:      product.Price,
			Currency:   product.Currency,
		}
		if product.PackageSize != nil && *product.PackageSize != "" {
			tag := models.BulkPriceTag
			snapshot.IsBulk = &tag
		}
		return q.CreatePriceHistory(ctx, snapshot)
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

// PriceHistory returns a product's price snapshots, newest first.
func (s *ProductService) PriceHistory(ctx context.Context, productID string) ([]models.PriceHistory, error) {
	var history []models.PriceHistory
	err := s.store.InTx(ctx, func(q repository.Queries) error {
		if _, err := q.GetProduct(ctx, productID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return utils.ErrProductNotFound
			}
			return err
		}
		var err error
		history, err = q.ListPriceHistory(ctx, productID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return history, nil
}

// checkedIdentifier trims raw and requires it to validate as one of the
// given identifier types. Blank values are treated as absent.
func checkedIdentifier(raw *string, allowed ...gtin.Type) (*string, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	value := strings.TrimSpace(*raw)
	kind := gtin.DetectType(value)
	for _, t := range allowed {
		if kind == t && gtin.Validate(value) {
			return &value, nil
		}
	}
	return nil, fmt.Errorf("%w: invalid identifier %q", utils.ErrInvalidRequest, value)
}
