package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a purchasable item offered by a supplier.
// Fields are tagged for both DB scanning and JSON serialization.
type Product struct {
	ID          string          `db:"id" json:"id"`
	SupplierID  string          `db:"supplier_id" json:"supplierId"`
	SKU         string          `db:"sku" json:"sku"`
	UPC         *string         `db:"upc" json:"upc,omitempty"`
	GTIN        *string         `db:"gtin" json:"gtin,omitempty"`
	Name        string          `db:"name" json:"name"`
	Unit        string          `db:"unit" json:"unit"`
	PackageSize *string         `db:"package_size" json:"packageSize,omitempty"`
	Price       decimal.Decimal `db:"price" json:"price"`
	Currency    string          `db:"currency" json:"currency"`
	LastUpdated time.Time       `db:"last_updated" json:"lastUpdated"`
}

// BulkPriceTag marks a price snapshot taken from a packaged (bulk) listing.
const BulkPriceTag = "bulk"

// PriceHistory is a point-in-time price observation for a product.
// Seq is the insertion sequence and orders snapshots sharing a RecordedAt.
type PriceHistory struct {
	ID         string          `db:"id" json:"id"`
	Seq        int64           `db:"seq" json:"-"`
	ProductID  string          `db:"product_id" json:"productId"`
	SupplierID *string         `db:"supplier_id" json:"supplierId,omitempty"`
	Price      decimal.Decimal `db:"price" json:"price"`
	Currency   string          `db:"currency" json:"currency"`
	RecordedAt time.Time       `db:"recorded_at" json:"recordedAt"`
	IsBulk     *string         `db:"is_bulk" json:"isBulk,omitempty"`
}
