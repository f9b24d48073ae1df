package repository

import (
	"context"
	"errors"

	"github.com/GTDGit/pantry_api/internal/models"
)

var (
	// ErrDuplicate is returned when an insert or update violates a unique key.
	ErrDuplicate = errors.New("DUPLICATE_ENTRY")
	// ErrInvalidReference is returned when a row points at a missing parent.
	ErrInvalidReference = errors.New("INVALID_REFERENCE")
	// ErrInvalidValue is returned when a value does not fit its column.
	ErrInvalidValue = errors.New("INVALID_VALUE")
)

// Queries are the reads and writes available to services. Lookups of a
// single row return sql.ErrNoRows when nothing matches.
type Queries interface {
	ListSuppliers(ctx context.Context) ([]models.Supplier, error)
	GetSupplier(ctx context.Context, id string) (*models.Supplier, error)
	CreateSupplier(ctx context.Context, s *models.Supplier) error
	UpdateSupplier(ctx context.Context, s *models.Supplier) error
	DeleteSupplier(ctx context.Context, id string) error

	ListProducts(ctx context.Context, supplierID string) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	CreateProduct(ctx context.Context, p *models.Product) error

	CreatePriceHistory(ctx context.Context, h *models.PriceHistory) error
	// ListPriceHistory returns a product's snapshots, newest first.
	ListPriceHistory(ctx context.Context, productID string) ([]models.PriceHistory, error)

	ListIngredients(ctx context.Context) ([]models.Ingredient, error)
	GetIngredient(ctx context.Context, id string) (*models.Ingredient, error)
	CreateIngredient(ctx context.Context, i *models.Ingredient) error

	CreateMapping(ctx context.Context, m *models.ProductIngredientMapping) error
	// ProductForIngredient returns the mapped product with the highest
	// confidence, earliest mapping first on ties.
	ProductForIngredient(ctx context.Context, ingredientID string) (*models.Product, error)
	// LatestPriceForIngredient returns the newest price snapshot of any
	// product mapped to the ingredient. Equal timestamps fall back to the
	// most recently inserted row.
	LatestPriceForIngredient(ctx context.Context, ingredientID string) (*models.PriceHistory, error)

	ListRecipes(ctx context.Context) ([]models.Recipe, error)
	GetRecipe(ctx context.Context, id string) (*models.Recipe, error)
	CreateRecipe(ctx context.Context, r *models.Recipe) error
	CreateRecipeIngredient(ctx context.Context, ri *models.RecipeIngredient) error
	// ListRecipeIngredients returns the recipe's lines in insertion order.
	ListRecipeIngredients(ctx context.Context, recipeID string) ([]models.RecipeIngredient, error)

	ListOrders(ctx context.Context) ([]models.Order, error)
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	CreateOrder(ctx context.Context, o *models.Order) error
	CreateOrderItem(ctx context.Context, item *models.OrderItem) error
	ListOrderItems(ctx context.Context, orderID string) ([]models.OrderItem, error)
}

// Store is the storage collaborator. InTx runs fn in a single unit of
// work: everything fn wrote is committed when it returns nil and
// discarded otherwise.
type Store interface {
	Queries
	InTx(ctx context.Context, fn func(q Queries) error) error
	Ping(ctx context.Context) error
}
