package repository

import (
	"context"

	"github.com/GTDGit/pantry_api/internal/models"
)

const ingredientColumns = `id, name, fndds_code, ndb_number, nutritional_profile, allergen_flags, created_at`

// ListIngredients returns all ingredients ordered by name.
func (q *pgQueries) ListIngredients(ctx context.Context) ([]models.Ingredient, error) {
	const query = `SELECT ` + ingredientColumns + ` FROM ingredients ORDER BY name`
	ingredients := []models.Ingredient{}
	if err := q.selectRows(ctx, &ingredients, query); err != nil {
		return nil, err
	}
	return ingredients, nil
}

// GetIngredient returns an ingredient by id.
func (q *pgQueries) GetIngredient(ctx context.Context, id string) (*models.Ingredient, error) {
	const query = `SELECT ` + ingredientColumns + ` FROM ingredients WHERE id = $1`
	var i models.Ingredient
	if err := q.get(ctx, &i, query, id); err != nil {
		return nil, err
	}
	return &i, nil
}

// CreateIngredient inserts an ingredient.
func (q *pgQueries) CreateIngredient(ctx context.Context, i *models.Ingredient) error {
	ensureID(&i.ID)
	i.NutritionalProfile = jsonOr(i.NutritionalProfile, emptyObject)
	i.AllergenFlags = jsonOr(i.AllergenFlags, emptyList)

	const query = `
        INSERT INTO ingredients (id, name, fndds_code, ndb_number, nutritional_profile, allergen_flags)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING created_at`
	args := []interface{}{i.ID, i.Name, i.FnddsCode, i.NdbNumber, []byte(i.NutritionalProfile), []byte(i.AllergenFlags)}
	return q.insert(ctx, query, args, &i.CreatedAt)
}

// CreateMapping links a product to an ingredient.
func (q *pgQueries) CreateMapping(ctx context.Context, m *models.ProductIngredientMapping) error {
	ensureID(&m.ID)
	const query = `
        INSERT INTO product_ingredient_mappings (id, product_id, ingredient_id, confidence_score, notes)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING seq`
	args := []interface{}{m.ID, m.ProductID, m.IngredientID, m.ConfidenceScore, m.Notes}
	return q.insert(ctx, query, args, &m.Seq)
}

// ProductForIngredient returns the best mapped product for an ingredient.
func (q *pgQueries) ProductForIngredient(ctx context.Context, ingredientID string) (*models.Product, error) {
	const query = `
        SELECT p.id, p.supplier_id, p.sku, p.upc, p.gtin, p.name, p.unit, p.package_size,
               p.price, p.currency, p.last_updated
        FROM products p
        JOIN product_ingredient_mappings m ON m.product_id = p.id
        WHERE m.ingredient_id = $1
        ORDER BY m.confidence_score DESC, m.seq ASC
        LIMIT 1`
	var p models.Product
	if err := q.get(ctx, &p, query, ingredientID); err != nil {
		return nil, err
	}
	return &p, nil
}

// LatestPriceForIngredient returns the newest snapshot across mapped products.
func (q *pgQueries) LatestPriceForIngredient(ctx context.Context, ingredientID string) (*models.PriceHistory, error) {
	const query = `
        SELECT ph.id, ph.seq, ph.product_id, ph.supplier_id, ph.price, ph.currency,
               ph.recorded_at, ph.is_bulk
        FROM price_history ph
        JOIN product_ingredient_mappings m ON m.product_id = ph.product_id
        WHERE m.ingredient_id = $1
        ORDER BY ph.recorded_at DESC, ph.seq DESC
        LIMIT 1`
	var h models.PriceHistory
	if err := q.get(ctx, &h, query, ingredientID); err != nil {
		return nil, err
	}
	return &h, nil
}
