package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/pantry_api/internal/catalog"
	"github.com/GTDGit/pantry_api/internal/models"
	"github.com/GTDGit/pantry_api/internal/repository"
	"github.com/GTDGit/pantry_api/internal/utils"
)

func strPtr(s string) *string { return &s }

func TestSupplierService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	svc := NewSupplierService(repository.NewMemoryStore())

	created, err := svc.CreateSupplier(ctx, &SupplierRequest{Name: "Acme"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	_, err = svc.CreateSupplier(ctx, &SupplierRequest{Name: "Acme"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	updated, err := svc.UpdateSupplier(ctx, created.ID, &SupplierRequest{Name: "Acme Foods", CatalogFormat: strPtr("csv")})
	require.NoError(t, err)
	assert.Equal(t, "Acme Foods", updated.Name)
	require.NotNil(t, updated.UpdatedAt)

	_, err = svc.UpdateSupplier(ctx, "missing", &SupplierRequest{Name: "x"})
	assert.ErrorIs(t, err, utils.ErrSupplierNotFound)

	require.NoError(t, svc.DeleteSupplier(ctx, created.ID))
	_, err = svc.GetSupplier(ctx, created.ID)
	assert.ErrorIs(t, err, utils.ErrSupplierNotFound)
	assert.ErrorIs(t, svc.DeleteSupplier(ctx, created.ID), utils.ErrSupplierNotFound)
}

func TestProductService_CreateRecordsSnapshot(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	supplier := seedSupplier(t, store, "Acme")
	svc := NewProductService(store, "")

	product, err := svc.CreateProduct(ctx, &CreateProductRequest{
		SupplierID:  supplier.ID,
		Name:        " Rice ",
		Price:       dec("7.25"),
		UPC:         strPtr("036000291452"),
		PackageSize: strPtr("10 kg"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Rice", product.Name)
	assert.Equal(t, "USD", product.Currency)
	assert.Equal(t, catalog.DefaultUnit, product.Unit)
	assert.NotEmpty(t, product.SKU)

	history, err := svc.PriceHistory(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.True(t, dec("7.25").Equal(history[0].Price))
	require.NotNil(t, history[0].IsBulk)
	assert.Equal(t, models.BulkPriceTag, *history[0].IsBulk)
}

func TestProductService_CreateValidation(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	supplier := seedSupplier(t, store, "Acme")
	svc := NewProductService(store, "")

	_, err := svc.CreateProduct(ctx, &CreateProductRequest{SupplierID: supplier.ID, Name: "Rice", UPC: strPtr("036000291453")})
	assert.ErrorIs(t, err, utils.ErrInvalidRequest)

	_, err = svc.CreateProduct(ctx, &CreateProductRequest{SupplierID: supplier.ID, Name: "Rice", Price: dec("-1")})
	assert.ErrorIs(t, err, utils.ErrInvalidRequest)

	_, err = svc.CreateProduct(ctx, &CreateProductRequest{SupplierID: "missing", Name: "Rice"})
	assert.ErrorIs(t, err, utils.ErrSupplierNotFound)

	_, err = svc.PriceHistory(ctx, "missing")
	assert.ErrorIs(t, err, utils.ErrProductNotFound)

	products, err := svc.ListProducts(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestRecipeService_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	flour := seedIngredient(t, store, "flour")
	water := seedIngredient(t, store, "water")
	svc := NewRecipeService(store)

	created, err := svc.CreateRecipe(ctx, &CreateRecipeRequest{
		Name: "Bread",
		Ingredients: []RecipeIngredientRequest{
			{IngredientID: flour.ID, Quantity: dec("500"), Unit: "g"},
			{IngredientID: water.ID, Quantity: dec("350"), Unit: "ml"},
		},
	})
	require.NoError(t, err)
	require.Len(t, created.Ingredients, 2)

	got, err := svc.GetRecipe(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, got.Ingredients, 2)
	assert.Equal(t, flour.ID, got.Ingredients[0].IngredientID)
	assert.Equal(t, water.ID, got.Ingredients[1].IngredientID)
}

func TestRecipeService_UnknownIngredientRollsBack(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	svc := NewRecipeService(store)

	_, err := svc.CreateRecipe(ctx, &CreateRecipeRequest{
		Name:        "Ghost",
		Ingredients: []RecipeIngredientRequest{{IngredientID: "missing", Quantity: dec("1"), Unit: "g"}},
	})
	assert.ErrorIs(t, err, utils.ErrIngredientNotFound)

	recipes, err := svc.ListRecipes(ctx)
	require.NoError(t, err)
	assert.Empty(t, recipes)
}

func TestOrderService_DefaultsItemPriceFromProduct(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	supplier := seedSupplier(t, store, "Acme")
	product := seedProduct(t, store, supplier.ID, "Oats", "3.10")
	svc := NewOrderService(store)

	order, err := svc.CreateOrder(ctx, &CreateOrderRequest{
		SupplierID: &supplier.ID,
		Items:      []OrderItemRequest{{ProductID: &product.ID, Quantity: dec("4"), Unit: "bag"}},
	})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, order.Status)

	got, err := svc.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	require.NotNil(t, got.Items[0].PriceEach)
	assert.True(t, dec("3.10").Equal(*got.Items[0].PriceEach))

	_, err = svc.GetOrder(ctx, "missing")
	assert.ErrorIs(t, err, utils.ErrOrderNotFound)
}
