package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/GTDGit/pantry_api/internal/models"
	"github.com/GTDGit/pantry_api/internal/repository"
	"github.com/GTDGit/pantry_api/internal/utils"
)

// RecipeIngredientRequest is one ingredient line of a new recipe.
type RecipeIngredientRequest struct {
	IngredientID string          `json:"ingredientId" binding:"required"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit" binding:"required"`
	Notes        *string         `json:"notes"`
}

// CreateRecipeRequest represents the request to create a recipe.
type CreateRecipeRequest struct {
	Name              string                    `json:"name" binding:"required"`
	Category          *string                   `json:"category"`
	Season            *string                   `json:"season"`
	DietaryFlags      json.RawMessage           `json:"dietaryFlags"`
	Instructions      json.RawMessage           `json:"instructions"`
	StorageGuidelines json.RawMessage           `json:"storageGuidelines"`
	Ingredients       []RecipeIngredientRequest `json:"ingredients" binding:"dive"`
}

// RecipeService provides recipe CRUD.
type RecipeService struct {
	store repository.Store
}

// NewRecipeService constructs a RecipeService.
func NewRecipeService(store repository.Store) *RecipeService {
	return &RecipeService{store: store}
}

// ListRecipes returns recipes without their ingredient lines.
func (s *RecipeService) ListRecipes(ctx context.Context) ([]models.Recipe, error) {
	return s.store.ListRecipes(ctx)
}

// GetRecipe returns a recipe with its ingredient lines.
func (s *RecipeService) GetRecipe(ctx context.Context, id string) (*models.Recipe, error) {
	var recipe *models.Recipe
	err := s.store.InTx(ctx, func(q repository.Queries) error {
		var err error
		recipe, err = q.GetRecipe(ctx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return utils.ErrRecipeNotFound
			}
			return err
		}
		recipe.Ingredients, err = q.ListRecipeIngredients(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return recipe, nil
}

// CreateRecipe stores a recipe and its lines in one transaction. Every
// referenced ingredient must exist.
func (s *RecipeService) CreateRecipe(ctx context.Context, req *CreateRecipeRequest) (*models.Recipe, error) {
	for _, line := range req.Ingredients {
		if !line.Quantity.IsPositive() {
			return nil, fmt.Errorf("%w: quantity must be positive", utils.ErrInvalidRequest)
		}
	}

	recipe := &models.Recipe{
		Name:              req.Name,
		Category:          req.Category,
		Season:            req.Season,
		DietaryFlags:      req.DietaryFlags,
		Instructions:      req.Instructions,
		StorageGuidelines: req.StorageGuidelines,
		Ingredients:       make([]models.RecipeIngredient, 0, len(req.Ingredients)),
	}

	err := s.store.InTx(ctx, func(q repository.Queries) error {
		if err := q.CreateRecipe(ctx, recipe); err != nil {
			return fmt.Errorf("create recipe: %w", err)
		}
		for _, line := range req.Ingredients {
			if _, err := q.GetIngredient(ctx, line.IngredientID); err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return fmt.Errorf("%w: %s", utils.ErrIngredientNotFound, line.IngredientID)
				}
				return err
			}
			ri := models.RecipeIngredient{
				RecipeID:     recipe.ID,
				IngredientID: line.IngredientID,
				Quantity:     line.Quantity,
				Unit:         line.Unit,
				Notes:        line.Notes,
			}
			if err := q.CreateRecipeIngredient(ctx, &ri); err != nil {
				return fmt.Errorf("create recipe ingredient: %w", err)
			}
			recipe.Ingredients = append(recipe.Ingredients, ri)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return recipe, nil
}
