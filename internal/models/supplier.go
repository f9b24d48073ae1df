package models

import (
	"encoding/json"
	"time"
)

// Supplier is a vendor that publishes price lists.
type Supplier struct {
	ID             string          `db:"id" json:"id"`
	Name           string          `db:"name" json:"name"`
	Contact        json.RawMessage `db:"contact" json:"contact,omitempty"`
	APICredentials json.RawMessage `db:"api_credentials" json:"apiCredentials,omitempty"`
	CatalogFormat  *string         `db:"catalog_format" json:"catalogFormat,omitempty"`
	CreatedAt      time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt      *time.Time      `db:"updated_at" json:"updatedAt,omitempty"`
}
