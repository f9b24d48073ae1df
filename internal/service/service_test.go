package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/pantry_api/internal/models"
	"github.com/GTDGit/pantry_api/internal/repository"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func seedSupplier(t *testing.T, store repository.Store, name string) *models.Supplier {
	t.Helper()
	s := &models.Supplier{Name: name}
	require.NoError(t, store.CreateSupplier(context.Background(), s))
	return s
}

func seedIngredient(t *testing.T, store repository.Store, name string) *models.Ingredient {
	t.Helper()
	i := &models.Ingredient{Name: name}
	require.NoError(t, store.CreateIngredient(context.Background(), i))
	return i
}

func seedProduct(t *testing.T, store repository.Store, supplierID, name, price string) *models.Product {
	t.Helper()
	p := &models.Product{
		SupplierID: supplierID,
		SKU:        name + "-sku",
		Name:       name,
		Unit:       "each",
		Price:      dec(price),
		Currency:   "USD",
	}
	require.NoError(t, store.CreateProduct(context.Background(), p))
	return p
}

func seedMapping(t *testing.T, store repository.Store, productID, ingredientID, confidence string) {
	t.Helper()
	require.NoError(t, store.CreateMapping(context.Background(), &models.ProductIngredientMapping{
		ProductID:       productID,
		IngredientID:    ingredientID,
		ConfidenceScore: dec(confidence),
	}))
}

func seedRecipe(t *testing.T, store repository.Store, name string, lines ...models.RecipeIngredient) *models.Recipe {
	t.Helper()
	ctx := context.Background()
	r := &models.Recipe{Name: name}
	require.NoError(t, store.CreateRecipe(ctx, r))
	for i := range lines {
		lines[i].RecipeID = r.ID
		if lines[i].Unit == "" {
			lines[i].Unit = "each"
		}
		require.NoError(t, store.CreateRecipeIngredient(ctx, &lines[i]))
	}
	return r
}
