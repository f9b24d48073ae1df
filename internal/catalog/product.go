// Package catalog parses supplier price lists into candidate product records.
package catalog

import "github.com/shopspring/decimal"

const (
	// DefaultCurrency is applied when the parser is not configured with one.
	DefaultCurrency = "USD"
	// DefaultUnit is used for rows without a unit column.
	DefaultUnit = "ea"
)

// Product is a single price-list row ready to be persisted. It is never
// stored as-is; ingestion turns it into a product row and a price snapshot.
type Product struct {
	Name        string
	Price       decimal.Decimal
	Unit        string
	SKU         string
	UPC         *string
	GTIN        *string
	PackageSize *string
	Currency    string
}

// IsBulk reports whether the row described a package size, which marks its
// price snapshot as a bulk observation.
func (p *Product) IsBulk() bool {
	return p.PackageSize != nil && *p.PackageSize != ""
}
