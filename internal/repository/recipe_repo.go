package repository

import (
	"context"

	"github.com/GTDGit/pantry_api/internal/models"
)

const recipeColumns = `id, name, category, season, dietary_flags, instructions, storage_guidelines, created_at`

// ListRecipes returns all recipes ordered by name. Ingredient lines are not loaded.
func (q *pgQueries) ListRecipes(ctx context.Context) ([]models.Recipe, error) {
	const query = `SELECT ` + recipeColumns + ` FROM recipes ORDER BY name, id`
	recipes := []models.Recipe{}
	if err := q.selectRows(ctx, &recipes, query); err != nil {
		return nil, err
	}
	return recipes, nil
}

// GetRecipe returns a recipe by id without its ingredient lines.
func (q *pgQueries) GetRecipe(ctx context.Context, id string) (*models.Recipe, error) {
	const query = `SELECT ` + recipeColumns + ` FROM recipes WHERE id = $1`
	var r models.Recipe
	if err := q.get(ctx, &r, query, id); err != nil {
		return nil, err
	}
	return &r, nil
}

// CreateRecipe inserts a recipe row. Lines are added with CreateRecipeIngredient.
func (q *pgQueries) CreateRecipe(ctx context.Context, r *models.Recipe) error {
	ensureID(&r.ID)
	r.DietaryFlags = jsonOr(r.DietaryFlags, emptyList)
	r.Instructions = jsonOr(r.Instructions, emptyList)
	r.StorageGuidelines = jsonOr(r.StorageGuidelines, emptyObject)

	const query = `
        INSERT INTO recipes (id, name, category, season, dietary_flags, instructions, storage_guidelines)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING created_at`
	args := []interface{}{
		r.ID, r.Name, r.Category, r.Season,
		[]byte(r.DietaryFlags), []byte(r.Instructions), []byte(r.StorageGuidelines),
	}
	return q.insert(ctx, query, args, &r.CreatedAt)
}

// CreateRecipeIngredient appends a line to a recipe.
func (q *pgQueries) CreateRecipeIngredient(ctx context.Context, ri *models.RecipeIngredient) error {
	ensureID(&ri.ID)
	const query = `
        INSERT INTO recipe_ingredients (id, recipe_id, ingredient_id, quantity, unit, notes)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING seq`
	args := []interface{}{ri.ID, ri.RecipeID, ri.IngredientID, ri.Quantity, ri.Unit, ri.Notes}
	return q.insert(ctx, query, args, &ri.Seq)
}

// ListRecipeIngredients returns a recipe's lines in insertion order.
func (q *pgQueries) ListRecipeIngredients(ctx context.Context, recipeID string) ([]models.RecipeIngredient, error) {
	const query = `
        SELECT id, seq, recipe_id, ingredient_id, quantity, unit, notes
        FROM recipe_ingredients
        WHERE recipe_id = $1
        ORDER BY seq`
	lines := []models.RecipeIngredient{}
	if err := q.selectRows(ctx, &lines, query, recipeID); err != nil {
		return nil, err
	}
	return lines, nil
}
