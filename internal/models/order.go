package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatusPending is the status of a newly placed order.
const OrderStatusPending = "pending"

// Order is a purchase order placed with a supplier.
type Order struct {
	ID            string          `db:"id" json:"id"`
	SupplierID    *string         `db:"supplier_id" json:"supplierId,omitempty"`
	Status        string          `db:"status" json:"status"`
	ScheduledDate *time.Time      `db:"scheduled_date" json:"scheduledDate,omitempty"`
	Metadata      json.RawMessage `db:"metadata" json:"metadata,omitempty"`
	CreatedAt     time.Time       `db:"created_at" json:"createdAt"`

	Items []OrderItem `db:"-" json:"items"`
}

// OrderItem is a single product line on an order.
type OrderItem struct {
	ID        string           `db:"id" json:"id"`
	Seq       int64            `db:"seq" json:"-"`
	OrderID   string           `db:"order_id" json:"orderId"`
	ProductID *string          `db:"product_id" json:"productId,omitempty"`
	Quantity  decimal.Decimal  `db:"quantity" json:"quantity"`
	Unit      string           `db:"unit" json:"unit"`
	PriceEach *decimal.Decimal `db:"price_each" json:"priceEach,omitempty"`
}
