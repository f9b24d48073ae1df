package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/GTDGit/pantry_api/internal/models"
	"github.com/GTDGit/pantry_api/internal/repository"
	"github.com/GTDGit/pantry_api/internal/utils"
)

// RecipeCostBreakdown is the computed cost of a recipe. IngredientCosts is
// keyed by ingredient id; when a recipe lists an ingredient twice the later
// line's cost replaces the earlier one there, while TotalCost counts both.
type RecipeCostBreakdown struct {
	RecipeID        string                     `json:"recipeId"`
	TotalCost       decimal.Decimal            `json:"totalCost"`
	IngredientCosts map[string]decimal.Decimal `json:"ingredientCosts"`
}

// CostingService prices recipes from current product prices and price history.
type CostingService struct {
	store repository.Store
}

// NewCostingService constructs a CostingService.
func NewCostingService(store repository.Store) *CostingService {
	return &CostingService{store: store}
}

// RecipeCost prices every ingredient line of a recipe. Lines with no price
// data cost zero.
func (s *CostingService) RecipeCost(ctx context.Context, recipeID string) (*RecipeCostBreakdown, error) {
	var breakdown *RecipeCostBreakdown
	err := s.store.InTx(ctx, func(q repository.Queries) error {
		if _, err := q.GetRecipe(ctx, recipeID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("%w: %s", utils.ErrRecipeNotFound, recipeID)
			}
			return fmt.Errorf("get recipe: %w", err)
		}

		lines, err := q.ListRecipeIngredients(ctx, recipeID)
		if err != nil {
			return fmt.Errorf("list recipe ingredients: %w", err)
		}

		breakdown = &RecipeCostBreakdown{
			RecipeID:        recipeID,
			TotalCost:       decimal.Zero,
			IngredientCosts: make(map[string]decimal.Decimal, len(lines)),
		}
		for _, line := range lines {
			cost, err := lineCost(ctx, q, line)
			if err != nil {
				return err
			}
			breakdown.IngredientCosts[line.IngredientID] = cost
			breakdown.TotalCost = breakdown.TotalCost.Add(cost)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return breakdown, nil
}

// lineCost resolves a unit price for the line's ingredient: the mapped
// product's current price, else the latest recorded price of any mapped
// product, else zero.
func lineCost(ctx context.Context, q repository.Queries, line models.RecipeIngredient) (decimal.Decimal, error) {
	product, err := q.ProductForIngredient(ctx, line.IngredientID)
	switch {
	case err == nil:
		return product.Price.Mul(line.Quantity), nil
	case !errors.Is(err, sql.ErrNoRows):
		return decimal.Zero, fmt.Errorf("product for ingredient %s: %w", line.IngredientID, err)
	}

	snapshot, err := q.LatestPriceForIngredient(ctx, line.IngredientID)
	switch {
	case err == nil:
		log.Debug().
			Str("ingredient_id", line.IngredientID).
			Str("price_history_id", snapshot.ID).
			Msg("costing from price history")
		return snapshot.Price.Mul(line.Quantity), nil
	case !errors.Is(err, sql.ErrNoRows):
		return decimal.Zero, fmt.Errorf("latest price for ingredient %s: %w", line.IngredientID, err)
	}

	log.Debug().Str("ingredient_id", line.IngredientID).Msg("no price data, costing at zero")
	return decimal.Zero, nil
}
