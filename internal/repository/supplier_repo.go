package repository

import (
	"context"
	"database/sql"

	"github.com/GTDGit/pantry_api/internal/models"
)

const supplierColumns = `id, name, contact, api_credentials, catalog_format, created_at, updated_at`

// ListSuppliers returns all suppliers ordered by name.
func (q *pgQueries) ListSuppliers(ctx context.Context) ([]models.Supplier, error) {
	const query = `SELECT ` + supplierColumns + ` FROM suppliers ORDER BY name`
	suppliers := []models.Supplier{}
	if err := q.selectRows(ctx, &suppliers, query); err != nil {
		return nil, err
	}
	return suppliers, nil
}

// GetSupplier returns a supplier by id.
func (q *pgQueries) GetSupplier(ctx context.Context, id string) (*models.Supplier, error) {
	const query = `SELECT ` + supplierColumns + ` FROM suppliers WHERE id = $1`
	var s models.Supplier
	if err := q.get(ctx, &s, query, id); err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateSupplier inserts a supplier and fills in its generated fields.
func (q *pgQueries) CreateSupplier(ctx context.Context, s *models.Supplier) error {
	ensureID(&s.ID)
	s.Contact = jsonOr(s.Contact, emptyObject)
	s.APICredentials = jsonOr(s.APICredentials, emptyObject)

	const query = `
        INSERT INTO suppliers (id, name, contact, api_credentials, catalog_format)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING created_at`
	args := []interface{}{s.ID, s.Name, []byte(s.Contact), []byte(s.APICredentials), s.CatalogFormat}
	return q.insert(ctx, query, args, &s.CreatedAt)
}

// UpdateSupplier overwrites a supplier's editable fields.
func (q *pgQueries) UpdateSupplier(ctx context.Context, s *models.Supplier) error {
	s.Contact = jsonOr(s.Contact, emptyObject)
	s.APICredentials = jsonOr(s.APICredentials, emptyObject)

	const query = `
        UPDATE suppliers
        SET name = $2, contact = $3, api_credentials = $4, catalog_format = $5, updated_at = NOW()
        WHERE id = $1
        RETURNING created_at, updated_at`
	args := []interface{}{s.ID, s.Name, []byte(s.Contact), []byte(s.APICredentials), s.CatalogFormat}
	return q.insert(ctx, query, args, &s.CreatedAt, &s.UpdatedAt)
}

// DeleteSupplier removes a supplier. Its products go with it; orders and
// price snapshots keep their rows with the supplier reference cleared.
func (q *pgQueries) DeleteSupplier(ctx context.Context, id string) error {
	res, err := q.ext.ExecContext(ctx, `DELETE FROM suppliers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
