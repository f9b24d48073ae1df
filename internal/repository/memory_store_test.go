package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/pantry_api/internal/models"
)

func seedSupplier(t *testing.T, s *MemoryStore, name string) *models.Supplier {
	t.Helper()
	sup := &models.Supplier{Name: name}
	require.NoError(t, s.CreateSupplier(context.Background(), sup))
	return sup
}

func seedProduct(t *testing.T, s *MemoryStore, supplierID, name, price string) *models.Product {
	t.Helper()
	p := &models.Product{
		SupplierID: supplierID,
		SKU:        name,
		Name:       name,
		Unit:       "ea",
		Price:      decimal.RequireFromString(price),
		Currency:   "USD",
	}
	require.NoError(t, s.CreateProduct(context.Background(), p))
	return p
}

func seedIngredient(t *testing.T, s *MemoryStore, name string) *models.Ingredient {
	t.Helper()
	i := &models.Ingredient{Name: name}
	require.NoError(t, s.CreateIngredient(context.Background(), i))
	return i
}

func seedMapping(t *testing.T, s *MemoryStore, productID, ingredientID, confidence string) {
	t.Helper()
	m := &models.ProductIngredientMapping{
		ProductID:       productID,
		IngredientID:    ingredientID,
		ConfidenceScore: decimal.RequireFromString(confidence),
	}
	require.NoError(t, s.CreateMapping(context.Background(), m))
}

func TestMemoryStore_GetMissingReturnsErrNoRows(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, err := s.GetSupplier(ctx, "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	_, err = s.GetProduct(ctx, "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	_, err = s.GetRecipe(ctx, "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	_, err = s.GetOrder(ctx, "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.ErrorIs(t, s.DeleteSupplier(ctx, "missing"), sql.ErrNoRows)
}

func TestMemoryStore_CreateSupplierDefaults(t *testing.T) {
	s := NewMemoryStore()
	sup := seedSupplier(t, s, "Acme")

	assert.NotEmpty(t, sup.ID)
	assert.False(t, sup.CreatedAt.IsZero())
	assert.JSONEq(t, `{}`, string(sup.Contact))

	dup := &models.Supplier{Name: "Acme"}
	assert.ErrorIs(t, s.CreateSupplier(context.Background(), dup), ErrDuplicate)
}

func TestMemoryStore_CreateProductRequiresSupplier(t *testing.T) {
	s := NewMemoryStore()
	p := &models.Product{SupplierID: "nope", Name: "Milk", Price: decimal.NewFromInt(1)}
	assert.ErrorIs(t, s.CreateProduct(context.Background(), p), ErrInvalidReference)
}

func TestMemoryStore_InTxCommits(t *testing.T) {
	s := NewMemoryStore()
	sup := seedSupplier(t, s, "Acme")
	ctx := context.Background()

	err := s.InTx(ctx, func(q Queries) error {
		p := &models.Product{SupplierID: sup.ID, Name: "Milk", Unit: "ea", Price: decimal.NewFromInt(2)}
		if err := q.CreateProduct(ctx, p); err != nil {
			return err
		}
		return q.CreatePriceHistory(ctx, &models.PriceHistory{ProductID: p.ID, Price: p.Price, Currency: "USD"})
	})
	require.NoError(t, err)

	products, err := s.ListProducts(ctx, sup.ID)
	require.NoError(t, err)
	require.Len(t, products, 1)

	history, err := s.ListPriceHistory(ctx, products[0].ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestMemoryStore_InTxRollsBackOnError(t *testing.T) {
	s := NewMemoryStore()
	sup := seedSupplier(t, s, "Acme")
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.InTx(ctx, func(q Queries) error {
		for _, name := range []string{"Milk", "Eggs"} {
			p := &models.Product{SupplierID: sup.ID, Name: name, Unit: "ea", Price: decimal.NewFromInt(1)}
			if err := q.CreateProduct(ctx, p); err != nil {
				return err
			}
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	products, err := s.ListProducts(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestMemoryStore_InTxSeesOwnWrites(t *testing.T) {
	s := NewMemoryStore()
	sup := seedSupplier(t, s, "Acme")
	ctx := context.Background()

	err := s.InTx(ctx, func(q Queries) error {
		p := &models.Product{SupplierID: sup.ID, Name: "Milk", Unit: "ea", Price: decimal.NewFromInt(1)}
		require.NoError(t, q.CreateProduct(ctx, p))
		got, err := q.GetProduct(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "Milk", got.Name)
		return nil
	})
	require.NoError(t, err)
}

func TestMemoryStore_ProductForIngredient(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	sup := seedSupplier(t, s, "Acme")
	flour := seedIngredient(t, s, "flour")

	_, err := s.ProductForIngredient(ctx, flour.ID)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	first := seedProduct(t, s, sup.ID, "Flour A", "1.00")
	second := seedProduct(t, s, sup.ID, "Flour B", "2.00")
	third := seedProduct(t, s, sup.ID, "Flour C", "3.00")
	seedMapping(t, s, first.ID, flour.ID, "0.5")
	seedMapping(t, s, second.ID, flour.ID, "0.9")
	seedMapping(t, s, third.ID, flour.ID, "0.9")

	got, err := s.ProductForIngredient(ctx, flour.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)
}

func TestMemoryStore_LatestPriceForIngredient(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	sup := seedSupplier(t, s, "Acme")
	flour := seedIngredient(t, s, "flour")
	p := seedProduct(t, s, sup.ID, "Flour", "1.00")
	other := seedProduct(t, s, sup.ID, "Sugar", "9.00")
	seedMapping(t, s, p.ID, flour.ID, "1")

	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for _, h := range []*models.PriceHistory{
		{ProductID: p.ID, Price: decimal.RequireFromString("1.10"), RecordedAt: at.Add(-time.Hour)},
		{ProductID: p.ID, Price: decimal.RequireFromString("1.20"), RecordedAt: at},
		{ProductID: p.ID, Price: decimal.RequireFromString("1.30"), RecordedAt: at},
		{ProductID: other.ID, Price: decimal.RequireFromString("9.99"), RecordedAt: at.Add(time.Hour)},
	} {
		require.NoError(t, s.CreatePriceHistory(ctx, h))
	}

	got, err := s.LatestPriceForIngredient(ctx, flour.ID)
	require.NoError(t, err)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("1.30")), "got %s", got.Price)

	history, err := s.ListPriceHistory(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.True(t, history[0].Price.Equal(decimal.RequireFromString("1.30")))
	assert.True(t, history[2].Price.Equal(decimal.RequireFromString("1.10")))
}

func TestMemoryStore_DeleteSupplierCascades(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	sup := seedSupplier(t, s, "Acme")
	keep := seedSupplier(t, s, "Other")
	flour := seedIngredient(t, s, "flour")
	p := seedProduct(t, s, sup.ID, "Flour", "1.00")
	kept := seedProduct(t, s, keep.ID, "Sugar", "2.00")
	seedMapping(t, s, p.ID, flour.ID, "1")
	require.NoError(t, s.CreatePriceHistory(ctx, &models.PriceHistory{ProductID: p.ID, SupplierID: &sup.ID, Price: p.Price}))
	require.NoError(t, s.CreatePriceHistory(ctx, &models.PriceHistory{ProductID: kept.ID, SupplierID: &sup.ID, Price: kept.Price}))

	order := &models.Order{SupplierID: &sup.ID}
	require.NoError(t, s.CreateOrder(ctx, order))
	require.NoError(t, s.CreateOrderItem(ctx, &models.OrderItem{OrderID: order.ID, ProductID: &p.ID, Quantity: decimal.NewFromInt(1), Unit: "ea"}))

	require.NoError(t, s.DeleteSupplier(ctx, sup.ID))

	_, err := s.GetProduct(ctx, p.ID)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	_, err = s.ProductForIngredient(ctx, flour.ID)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	history, err := s.ListPriceHistory(ctx, kept.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Nil(t, history[0].SupplierID)

	gotOrder, err := s.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Nil(t, gotOrder.SupplierID)
	assert.Equal(t, models.OrderStatusPending, gotOrder.Status)

	items, err := s.ListOrderItems(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Nil(t, items[0].ProductID)
}

func TestMemoryStore_RecipeIngredientsKeepInsertionOrder(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	flour := seedIngredient(t, s, "flour")
	sugar := seedIngredient(t, s, "sugar")

	r := &models.Recipe{Name: "Cake"}
	require.NoError(t, s.CreateRecipe(ctx, r))
	for _, id := range []string{sugar.ID, flour.ID, sugar.ID} {
		line := &models.RecipeIngredient{RecipeID: r.ID, IngredientID: id, Quantity: decimal.NewFromInt(1), Unit: "kg"}
		require.NoError(t, s.CreateRecipeIngredient(ctx, line))
	}

	lines, err := s.ListRecipeIngredients(ctx, r.ID)
	require.NoError(t, err)
	require.Len(t, lines, 3)
	assert.Equal(t, sugar.ID, lines[0].IngredientID)
	assert.Equal(t, flour.ID, lines[1].IngredientID)
	assert.Equal(t, sugar.ID, lines[2].IngredientID)

	bad := &models.RecipeIngredient{RecipeID: r.ID, IngredientID: "missing", Quantity: decimal.NewFromInt(1), Unit: "kg"}
	assert.ErrorIs(t, s.CreateRecipeIngredient(ctx, bad), ErrInvalidReference)
}
