package repository

import (
	"context"
	"time"

	"github.com/GTDGit/pantry_api/internal/models"
)

const productColumns = `id, supplier_id, sku, upc, gtin, name, unit, package_size, price, currency, last_updated`

// ListProducts returns products ordered by name. An empty supplierID lists
// every supplier's products.
func (q *pgQueries) ListProducts(ctx context.Context, supplierID string) ([]models.Product, error) {
	const query = `SELECT ` + productColumns + ` FROM products
        WHERE ($1::text = '' OR supplier_id = $1::text)
        ORDER BY name, id`
	products := []models.Product{}
	if err := q.selectRows(ctx, &products, query, supplierID); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct returns a product by id.
func (q *pgQueries) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	const query = `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	var p models.Product
	if err := q.get(ctx, &p, query, id); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProduct inserts a product.
func (q *pgQueries) CreateProduct(ctx context.Context, p *models.Product) error {
	ensureID(&p.ID)
	const query = `
        INSERT INTO products (id, supplier_id, sku, upc, gtin, name, unit, package_size, price, currency)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING last_updated`
	args := []interface{}{p.ID, p.SupplierID, p.SKU, p.UPC, p.GTIN, p.Name, p.Unit, p.PackageSize, p.Price, p.Currency}
	return q.insert(ctx, query, args, &p.LastUpdated)
}

const priceHistoryColumns = `id, seq, product_id, supplier_id, price, currency, recorded_at, is_bulk`

// CreatePriceHistory records a price snapshot. A zero RecordedAt takes the
// database clock.
func (q *pgQueries) CreatePriceHistory(ctx context.Context, h *models.PriceHistory) error {
	ensureID(&h.ID)
	var recordedAt *time.Time
	if !h.RecordedAt.IsZero() {
		recordedAt = &h.RecordedAt
	}
	const query = `
        INSERT INTO price_history (id, product_id, supplier_id, price, currency, recorded_at, is_bulk)
        VALUES ($1, $2, $3, $4, $5, COALESCE($6, NOW()), $7)
        RETURNING seq, recorded_at`
	args := []interface{}{h.ID, h.ProductID, h.SupplierID, h.Price, h.Currency, recordedAt, h.IsBulk}
	return q.insert(ctx, query, args, &h.Seq, &h.RecordedAt)
}

// ListPriceHistory returns a product's snapshots, newest first.
func (q *pgQueries) ListPriceHistory(ctx context.Context, productID string) ([]models.PriceHistory, error) {
	const query = `SELECT ` + priceHistoryColumns + ` FROM price_history
        WHERE product_id = $1
        ORDER BY recorded_at DESC, seq DESC`
	history := []models.PriceHistory{}
	if err := q.selectRows(ctx, &history, query, productID); err != nil {
		return nil, err
	}
	return history, nil
}
