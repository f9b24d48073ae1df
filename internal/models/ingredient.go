package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Ingredient is an abstract recipe component that products can fulfil.
type Ingredient struct {
	ID                 string          `db:"id" json:"id"`
	Name               string          `db:"name" json:"name"`
	FnddsCode          *string         `db:"fndds_code" json:"fnddsCode,omitempty"`
	NdbNumber          *string         `db:"ndb_number" json:"ndbNumber,omitempty"`
	NutritionalProfile json.RawMessage `db:"nutritional_profile" json:"nutritionalProfile,omitempty"`
	AllergenFlags      json.RawMessage `db:"allergen_flags" json:"allergenFlags,omitempty"`
	CreatedAt          time.Time       `db:"created_at" json:"createdAt"`
}

// ProductIngredientMapping links a product to the ingredient it fulfils.
type ProductIngredientMapping struct {
	ID              string          `db:"id" json:"id"`
	Seq             int64           `db:"seq" json:"-"`
	ProductID       string          `db:"product_id" json:"productId"`
	IngredientID    string          `db:"ingredient_id" json:"ingredientId"`
	ConfidenceScore decimal.Decimal `db:"confidence_score" json:"confidenceScore"`
	Notes           *string         `db:"notes" json:"notes,omitempty"`
}
