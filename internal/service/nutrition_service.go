package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/GTDGit/pantry_api/internal/models"
	"github.com/GTDGit/pantry_api/internal/repository"
	"github.com/GTDGit/pantry_api/internal/utils"
)

// minMatchScore is the score a candidate must exceed to be mapped.
var minMatchScore = decimal.RequireFromString("0.4")

// NutritionMatch is the ingredient a product was mapped to.
type NutritionMatch struct {
	ProductID    string          `json:"productId"`
	IngredientID string          `json:"ingredientId"`
	MappingID    string          `json:"mappingId"`
	Confidence   decimal.Decimal `json:"confidence"`
}

// NutritionService links products to ingredients by name similarity.
type NutritionService struct {
	store repository.Store
}

// NewNutritionService constructs a NutritionService.
func NewNutritionService(store repository.Store) *NutritionService {
	return &NutritionService{store: store}
}

// MatchProduct maps a product to the ingredient whose name shares the most
// words with it. It returns nil when no ingredient scores above 0.4.
func (s *NutritionService) MatchProduct(ctx context.Context, productID string) (*NutritionMatch, error) {
	var match *NutritionMatch
	err := s.store.InTx(ctx, func(q repository.Queries) error {
		product, err := q.GetProduct(ctx, productID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("%w: %s", utils.ErrProductNotFound, productID)
			}
			return fmt.Errorf("get product: %w", err)
		}

		ingredients, err := q.ListIngredients(ctx)
		if err != nil {
			return fmt.Errorf("list ingredients: %w", err)
		}

		var best *models.Ingredient
		bestScore := decimal.Zero
		for i := range ingredients {
			score := matchScore(product.Name, ingredients[i].Name)
			if score.GreaterThan(minMatchScore) && (best == nil || score.GreaterThan(bestScore)) {
				best, bestScore = &ingredients[i], score
			}
		}
		if best == nil {
			return nil
		}

		mapping := &models.ProductIngredientMapping{
			ID:              uuid.NewString(),
			ProductID:       product.ID,
			IngredientID:    best.ID,
			ConfidenceScore: bestScore.Round(4),
		}
		if err := q.CreateMapping(ctx, mapping); err != nil {
			return fmt.Errorf("create mapping: %w", err)
		}
		match = &NutritionMatch{
			ProductID:    product.ID,
			IngredientID: best.ID,
			MappingID:    mapping.ID,
			Confidence:   mapping.ConfidenceScore,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return match, nil
}

// matchScore is the number of shared lower-cased words divided by the word
// count of the longer name.
func matchScore(query, candidate string) decimal.Decimal {
	queryTokens := tokenSet(query)
	candidateTokens := tokenSet(candidate)

	overlap := 0
	for token := range queryTokens {
		if candidateTokens[token] {
			overlap++
		}
	}
	if overlap == 0 {
		return decimal.Zero
	}

	longest := len(queryTokens)
	if len(candidateTokens) > longest {
		longest = len(candidateTokens)
	}
	return decimal.NewFromInt(int64(overlap)).Div(decimal.NewFromInt(int64(longest)))
}

func tokenSet(s string) map[string]bool {
	set := map[string]bool{}
	for _, f := range strings.Fields(strings.ToLower(s)) {
		set[f] = true
	}
	return set
}
