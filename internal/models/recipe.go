package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Recipe is a dish made from ingredient lines.
type Recipe struct {
	ID                string          `db:"id" json:"id"`
	Name              string          `db:"name" json:"name"`
	Category          *string         `db:"category" json:"category,omitempty"`
	Season            *string         `db:"season" json:"season,omitempty"`
	DietaryFlags      json.RawMessage `db:"dietary_flags" json:"dietaryFlags,omitempty"`
	Instructions      json.RawMessage `db:"instructions" json:"instructions,omitempty"`
	StorageGuidelines json.RawMessage `db:"storage_guidelines" json:"storageGuidelines,omitempty"`
	CreatedAt         time.Time       `db:"created_at" json:"createdAt"`

	// Populated by the service layer, never scanned.
	Ingredients []RecipeIngredient `db:"-" json:"ingredients"`
}

// RecipeIngredient is one line of a recipe.
type RecipeIngredient struct {
	ID           string          `db:"id" json:"id"`
	Seq          int64           `db:"seq" json:"-"`
	RecipeID     string          `db:"recipe_id" json:"recipeId"`
	IngredientID string          `db:"ingredient_id" json:"ingredientId"`
	Quantity     decimal.Decimal `db:"quantity" json:"quantity"`
	Unit         string          `db:"unit" json:"unit"`
	Notes        *string         `db:"notes" json:"notes,omitempty"`
}
