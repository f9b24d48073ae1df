package repository

import (
	"context"

	"github.com/GTDGit/pantry_api/internal/models"
)

const orderColumns = `id, supplier_id, status, scheduled_date, metadata, created_at`

// ListOrders returns all orders, newest first.
func (q *pgQueries) ListOrders(ctx context.Context) ([]models.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC, id`
	orders := []models.Order{}
	if err := q.selectRows(ctx, &orders, query); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetOrder returns an order by id without its items.
func (q *pgQueries) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	var o models.Order
	if err := q.get(ctx, &o, query, id); err != nil {
		return nil, err
	}
	return &o, nil
}

// CreateOrder inserts an order row.
func (q *pgQueries) CreateOrder(ctx context.Context, o *models.Order) error {
	ensureID(&o.ID)
	if o.Status == "" {
		o.Status = models.OrderStatusPending
	}
	o.Metadata = jsonOr(o.Metadata, emptyObject)

	const query = `
        INSERT INTO orders (id, supplier_id, status, scheduled_date, metadata)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING created_at`
	args := []interface{}{o.ID, o.SupplierID, o.Status, o.ScheduledDate, []byte(o.Metadata)}
	return q.insert(ctx, query, args, &o.CreatedAt)
}

// CreateOrderItem appends an item to an order.
func (q *pgQueries) CreateOrderItem(ctx context.Context, item *models.OrderItem) error {
	ensureID(&item.ID)
	const query = `
        INSERT INTO order_items (id, order_id, product_id, quantity, unit, price_each)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING seq`
	args := []interface{}{item.ID, item.OrderID, item.ProductID, item.Quantity, item.Unit, item.PriceEach}
	return q.insert(ctx, query, args, &item.Seq)
}

// ListOrderItems returns an order's items in insertion order.
func (q *pgQueries) ListOrderItems(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	const query = `
        SELECT id, seq, order_id, product_id, quantity, unit, price_each
        FROM order_items
        WHERE order_id = $1
        ORDER BY seq`
	items := []models.OrderItem{}
	if err := q.selectRows(ctx, &items, query, orderID); err != nil {
		return nil, err
	}
	return items, nil
}
