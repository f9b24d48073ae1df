package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/GTDGit/pantry_api/internal/models"
	"github.com/GTDGit/pantry_api/internal/repository"
	"github.com/GTDGit/pantry_api/internal/utils"
)

// SupplierRequest is the body for creating or replacing a supplier.
type SupplierRequest struct {
	Name           string          `json:"name" binding:"required"`
	Contact        json.RawMessage `json:"contact"`
	APICredentials json.RawMessage `json:"apiCredentials"`
	CatalogFormat  *string         `json:"catalogFormat"`
}

// SupplierService provides supplier CRUD.
type SupplierService struct {
	store repository.Store
}

// NewSupplierService constructs a SupplierService.
func NewSupplierService(store repository.Store) *SupplierService {
	return &SupplierService{store: store}
}

// ListSuppliers returns every supplier.
func (s *SupplierService) ListSuppliers(ctx context.Context) ([]models.Supplier, error) {
	return s.store.ListSuppliers(ctx)
}

// GetSupplier returns a supplier by id.
func (s *SupplierService) GetSupplier(ctx context.Context, id string) (*models.Supplier, error) {
	supplier, err := s.store.GetSupplier(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, utils.ErrSupplierNotFound
	}
	return supplier, err
}

// CreateSupplier creates a supplier.
func (s *SupplierService) CreateSupplier(ctx context.Context, req *SupplierRequest) (*models.Supplier, error) {
	supplier := &models.Supplier{
		Name:           req.Name,
		Contact:        req.Contact,
		APICredentials: req.APICredentials,
		CatalogFormat:  req.CatalogFormat,
	}
	if err := s.store.CreateSupplier(ctx, supplier); err != nil {
		return nil, fmt.Errorf("create supplier: %w", err)
	}
	return supplier, nil
}

// UpdateSupplier replaces a supplier's editable fields.
func (s *SupplierService) UpdateSupplier(ctx context.Context, id string, req *SupplierRequest) (*models.Supplier, error) {
	supplier := &models.Supplier{
		ID:             id,
		Name:           req.Name,
		Contact:        req.Contact,
		APICredentials: req.APICredentials,
		CatalogFormat:  req.CatalogFormat,
	}
	if err := s.store.UpdateSupplier(ctx, supplier); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrSupplierNotFound
		}
		return nil, fmt.Errorf("update supplier: %w", err)
	}
	return supplier, nil
}

// DeleteSupplier removes a supplier together with its products.
func (s *SupplierService) DeleteSupplier(ctx context.Context, id string) error {
	if err := s.store.DeleteSupplier(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return utils.ErrSupplierNotFound
		}
		return fmt.Errorf("delete supplier: %w", err)
	}
	return nil
}
