package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/GTDGit/pantry_api/internal/models"
)

// memTables is an arena of rows. Each table is an indexed collection and
// relationships are plain id references resolved by scanning.
type memTables struct {
	seq               int64
	suppliers         map[string]models.Supplier
	products          map[string]models.Product
	priceHistory      []models.PriceHistory
	ingredients       map[string]models.Ingredient
	mappings          []models.ProductIngredientMapping
	recipes           map[string]models.Recipe
	recipeIngredients []models.RecipeIngredient
	orders            map[string]models.Order
	orderItems        []models.OrderItem
}

func newMemTables() *memTables {
	return &memTables{
		suppliers:   map[string]models.Supplier{},
		products:    map[string]models.Product{},
		ingredients: map[string]models.Ingredient{},
		recipes:     map[string]models.Recipe{},
		orders:      map[string]models.Order{},
	}
}

func (t *memTables) clone() *memTables {
	c := &memTables{
		seq:               t.seq,
		suppliers:         make(map[string]models.Supplier, len(t.suppliers)),
		products:          make(map[string]models.Product, len(t.products)),
		priceHistory:      append([]models.PriceHistory(nil), t.priceHistory...),
		ingredients:       make(map[string]models.Ingredient, len(t.ingredients)),
		mappings:          append([]models.ProductIngredientMapping(nil), t.mappings...),
		recipes:           make(map[string]models.Recipe, len(t.recipes)),
		recipeIngredients: append([]models.RecipeIngredient(nil), t.recipeIngredients...),
		orders:            make(map[string]models.Order, len(t.orders)),
		orderItems:        append([]models.OrderItem(nil), t.orderItems...),
	}
	for k, v := range t.suppliers {
		c.suppliers[k] = v
	}
	for k, v := range t.products {
		c.products[k] = v
	}
	for k, v := range t.ingredients {
		c.ingredients[k] = v
	}
	for k, v := range t.recipes {
		c.recipes[k] = v
	}
	for k, v := range t.orders {
		c.orders[k] = v
	}
	return c
}

func (t *memTables) nextSeq() int64 {
	t.seq++
	return t.seq
}

// MemoryStore is an in-process Store used for local runs and tests.
// Transactions work on a copy of the tables that replaces the live set on
// commit; transactions are serialised store-wide, so concurrent uploads for
// different suppliers wait on each other. Use the Postgres store where that
// matters; this driver is for local runs and tests only.
type MemoryStore struct {
	*memQueries
	mu     sync.Mutex
	tables *memTables
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{tables: newMemTables()}
	s.memQueries = &memQueries{store: s}
	return s
}

// InTx runs fn against a private copy of the tables.
func (s *MemoryStore) InTx(ctx context.Context, fn func(q Queries) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	work := s.tables.clone()
	if err := fn(&memQueries{store: s, tables: work, inTx: true}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.tables = work
	return nil
}

// Ping always succeeds.
func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// memQueries runs against the live tables (taking the store lock per call)
// or against a transaction's working copy (lock already held).
type memQueries struct {
	store  *MemoryStore
	tables *memTables
	inTx   bool
}

func (q *memQueries) acquire() (*memTables, func()) {
	if q.inTx {
		return q.tables, func() {}
	}
	q.store.mu.Lock()
	return q.store.tables, q.store.mu.Unlock
}

func now() time.Time {
	return time.Now().UTC()
}

func (q *memQueries) ListSuppliers(ctx context.Context) ([]models.Supplier, error) {
	t, release := q.acquire()
	defer release()

	out := make([]models.Supplier, 0, len(t.suppliers))
	for _, s := range t.suppliers {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (q *memQueries) GetSupplier(ctx context.Context, id string) (*models.Supplier, error) {
	t, release := q.acquire()
	defer release()

	s, ok := t.suppliers[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &s, nil
}

func (q *memQueries) CreateSupplier(ctx context.Context, s *models.Supplier) error {
	t, release := q.acquire()
	defer release()

	ensureID(&s.ID)
	if err := supplierNameTaken(t, s.Name, s.ID); err != nil {
		return err
	}
	s.Contact = jsonOr(s.Contact, emptyObject)
	s.APICredentials = jsonOr(s.APICredentials, emptyObject)
	s.CreatedAt = now()
	t.suppliers[s.ID] = *s
	return nil
}

func (q *memQueries) UpdateSupplier(ctx context.Context, s *models.Supplier) error {
	t, release := q.acquire()
	defer release()

	existing, ok := t.suppliers[s.ID]
	if !ok {
		return sql.ErrNoRows
	}
	if err := supplierNameTaken(t, s.Name, s.ID); err != nil {
		return err
	}
	updated := now()
	s.Contact = jsonOr(s.Contact, emptyObject)
	s.APICredentials = jsonOr(s.APICredentials, emptyObject)
	s.CreatedAt = existing.CreatedAt
	s.UpdatedAt = &updated
	t.suppliers[s.ID] = *s
	return nil
}

func supplierNameTaken(t *memTables, name, id string) error {
	for _, other := range t.suppliers {
		if other.Name == name && other.ID != id {
			return fmt.Errorf("%w: suppliers.name", ErrDuplicate)
		}
	}
	return nil
}

func (q *memQueries) DeleteSupplier(ctx context.Context, id string) error {
	t, release := q.acquire()
	defer release()

	if _, ok := t.suppliers[id]; !ok {
		return sql.ErrNoRows
	}
	delete(t.suppliers, id)

	for pid, p := range t.products {
		if p.SupplierID == id {
			t.deleteProduct(pid)
		}
	}
	for i := range t.priceHistory {
		if sid := t.priceHistory[i].SupplierID; sid != nil && *sid == id {
			t.priceHistory[i].SupplierID = nil
		}
	}
	for oid, o := range t.orders {
		if o.SupplierID != nil && *o.SupplierID == id {
			o.SupplierID = nil
			t.orders[oid] = o
		}
	}
	return nil
}

// deleteProduct removes a product with its snapshots and mappings and
// detaches order items that referenced it.
func (t *memTables) deleteProduct(id string) {
	delete(t.products, id)

	history := t.priceHistory[:0]
	for _, h := range t.priceHistory {
		if h.ProductID != id {
			history = append(history, h)
		}
	}
	t.priceHistory = history

	mappings := t.mappings[:0]
	for _, m := range t.mappings {
		if m.ProductID != id {
			mappings = append(mappings, m)
		}
	}
	t.mappings = mappings

	for i := range t.orderItems {
		if pid := t.orderItems[i].ProductID; pid != nil && *pid == id {
			t.orderItems[i].ProductID = nil
		}
	}
}

func (q *memQueries) ListProducts(ctx context.Context, supplierID string) ([]models.Product, error) {
	t, release := q.acquire()
	defer release()

	out := []models.Product{}
	for _, p := range t.products {
		if supplierID == "" || p.SupplierID == supplierID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (q *memQueries) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	t, release := q.acquire()
	defer release()

	p, ok := t.products[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &p, nil
}

func (q *memQueries) CreateProduct(ctx context.Context, p *models.Product) error {
	t, release := q.acquire()
	defer release()

	if _, ok := t.suppliers[p.SupplierID]; !ok {
		return fmt.Errorf("%w: products.supplier_id", ErrInvalidReference)
	}
	ensureID(&p.ID)
	if _, ok := t.products[p.ID]; ok {
		return fmt.Errorf("%w: products.id", ErrDuplicate)
	}
	p.LastUpdated = now()
	t.products[p.ID] = *p
	return nil
}

func (q *memQueries) CreatePriceHistory(ctx context.Context, h *models.PriceHistory) error {
	t, release := q.acquire()
	defer release()

	if _, ok := t.products[h.ProductID]; !ok {
		return fmt.Errorf("%w: price_history.product_id", ErrInvalidReference)
	}
	ensureID(&h.ID)
	if h.RecordedAt.IsZero() {
		h.RecordedAt = now()
	}
	h.Seq = t.nextSeq()
	t.priceHistory = append(t.priceHistory, *h)
	return nil
}

func (q *memQueries) ListPriceHistory(ctx context.Context, productID string) ([]models.PriceHistory, error) {
	t, release := q.acquire()
	defer release()

	out := []models.PriceHistory{}
	for _, h := range t.priceHistory {
		if h.ProductID == productID {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return newerSnapshot(out[i], out[j]) })
	return out, nil
}

// newerSnapshot orders by RecordedAt, then insertion sequence.
func newerSnapshot(a, b models.PriceHistory) bool {
	if !a.RecordedAt.Equal(b.RecordedAt) {
		return a.RecordedAt.After(b.RecordedAt)
	}
	return a.Seq > b.Seq
}

func (q *memQueries) ListIngredients(ctx context.Context) ([]models.Ingredient, error) {
	t, release := q.acquire()
	defer release()

	out := make([]models.Ingredient, 0, len(t.ingredients))
	for _, i := range t.ingredients {
		out = append(out, i)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (q *memQueries) GetIngredient(ctx context.Context, id string) (*models.Ingredient, error) {
	t, release := q.acquire()
	defer release()

	i, ok := t.ingredients[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &i, nil
}

func (q *memQueries) CreateIngredient(ctx context.Context, i *models.Ingredient) error {
	t, release := q.acquire()
	defer release()

	for _, other := range t.ingredients {
		if other.Name == i.Name {
			return fmt.Errorf("%w: ingredients.name", ErrDuplicate)
		}
	}
	ensureID(&i.ID)
	i.NutritionalProfile = jsonOr(i.NutritionalProfile, emptyObject)
	i.AllergenFlags = jsonOr(i.AllergenFlags, emptyList)
	i.CreatedAt = now()
	t.ingredients[i.ID] = *i
	return nil
}

func (q *memQueries) CreateMapping(ctx context.Context, m *models.ProductIngredientMapping) error {
	t, release := q.acquire()
	defer release()

	if _, ok := t.products[m.ProductID]; !ok {
		return fmt.Errorf("%w: product_ingredient_mappings.product_id", ErrInvalidReference)
	}
	if _, ok := t.ingredients[m.IngredientID]; !ok {
		return fmt.Errorf("%w: product_ingredient_mappings.ingredient_id", ErrInvalidReference)
	}
	ensureID(&m.ID)
	m.Seq = t.nextSeq()
	t.mappings = append(t.mappings, *m)
	return nil
}

func (q *memQueries) ProductForIngredient(ctx context.Context, ingredientID string) (*models.Product, error) {
	t, release := q.acquire()
	defer release()

	var best *models.ProductIngredientMapping
	for i := range t.mappings {
		m := &t.mappings[i]
		if m.IngredientID != ingredientID {
			continue
		}
		if _, ok := t.products[m.ProductID]; !ok {
			continue
		}
		if best == nil || m.ConfidenceScore.GreaterThan(best.ConfidenceScore) ||
			(m.ConfidenceScore.Equal(best.ConfidenceScore) && m.Seq < best.Seq) {
			best = m
		}
	}
	if best == nil {
		return nil, sql.ErrNoRows
	}
	p := t.products[best.ProductID]
	return &p, nil
}

func (q *memQueries) LatestPriceForIngredient(ctx context.Context, ingredientID string) (*models.PriceHistory, error) {
	t, release := q.acquire()
	defer release()

	mapped := map[string]bool{}
	for _, m := range t.mappings {
		if m.IngredientID == ingredientID {
			mapped[m.ProductID] = true
		}
	}

	var latest *models.PriceHistory
	for i := range t.priceHistory {
		h := &t.priceHistory[i]
		if !mapped[h.ProductID] {
			continue
		}
		if latest == nil || newerSnapshot(*h, *latest) {
			latest = h
		}
	}
	if latest == nil {
		return nil, sql.ErrNoRows
	}
	out := *latest
	return &out, nil
}

func (q *memQueries) ListRecipes(ctx context.Context) ([]models.Recipe, error) {
	t, release := q.acquire()
	defer release()

	out := make([]models.Recipe, 0, len(t.recipes))
	for _, r := range t.recipes {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (q *memQueries) GetRecipe(ctx context.Context, id string) (*models.Recipe, error) {
	t, release := q.acquire()
	defer release()

	r, ok := t.recipes[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &r, nil
}

func (q *memQueries) CreateRecipe(ctx context.Context, r *models.Recipe) error {
	t, release := q.acquire()
	defer release()

	ensureID(&r.ID)
	r.DietaryFlags = jsonOr(r.DietaryFlags, emptyList)
	r.Instructions = jsonOr(r.Instructions, emptyList)
	r.StorageGuidelines = jsonOr(r.StorageGuidelines, emptyObject)
	r.CreatedAt = now()

	row := *r
	row.Ingredients = nil
	t.recipes[r.ID] = row
	return nil
}

func (q *memQueries) CreateRecipeIngredient(ctx context.Context, ri *models.RecipeIngredient) error {
	t, release := q.acquire()
	defer release()

	if _, ok := t.recipes[ri.RecipeID]; !ok {
		return fmt.Errorf("%w: recipe_ingredients.recipe_id", ErrInvalidReference)
	}
	if _, ok := t.ingredients[ri.IngredientID]; !ok {
		return fmt.Errorf("%w: recipe_ingredients.ingredient_id", ErrInvalidReference)
	}
	ensureID(&ri.ID)
	ri.Seq = t.nextSeq()
	t.recipeIngredients = append(t.recipeIngredients, *ri)
	return nil
}

func (q *memQueries) ListRecipeIngredients(ctx context.Context, recipeID string) ([]models.RecipeIngredient, error) {
	t, release := q.acquire()
	defer release()

	out := []models.RecipeIngredient{}
	for _, ri := range t.recipeIngredients {
		if ri.RecipeID == recipeID {
			out = append(out, ri)
		}
	}
	return out, nil
}

func (q *memQueries) ListOrders(ctx context.Context) ([]models.Order, error) {
	t, release := q.acquire()
	defer release()

	out := make([]models.Order, 0, len(t.orders))
	for _, o := range t.orders {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (q *memQueries) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	t, release := q.acquire()
	defer release()

	o, ok := t.orders[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &o, nil
}

func (q *memQueries) CreateOrder(ctx context.Context, o *models.Order) error {
	t, release := q.acquire()
	defer release()

	if o.SupplierID != nil {
		if _, ok := t.suppliers[*o.SupplierID]; !ok {
			return fmt.Errorf("%w: orders.supplier_id", ErrInvalidReference)
		}
	}
	ensureID(&o.ID)
	if o.Status == "" {
		o.Status = models.OrderStatusPending
	}
	o.Metadata = jsonOr(o.Metadata, emptyObject)
	o.CreatedAt = now()

	row := *o
	row.Items = nil
	t.orders[o.ID] = row
	return nil
}

func (q *memQueries) CreateOrderItem(ctx context.Context, item *models.OrderItem) error {
	t, release := q.acquire()
	defer release()

	if _, ok := t.orders[item.OrderID]; !ok {
		return fmt.Errorf("%w: order_items.order_id", ErrInvalidReference)
	}
	if item.ProductID != nil {
		if _, ok := t.products[*item.ProductID]; !ok {
			return fmt.Errorf("%w: order_items.product_id", ErrInvalidReference)
		}
	}
	ensureID(&item.ID)
	item.Seq = t.nextSeq()
	t.orderItems = append(t.orderItems, *item)
	return nil
}

func (q *memQueries) ListOrderItems(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	t, release := q.acquire()
	defer release()

	out := []models.OrderItem{}
	for _, item := range t.orderItems {
		if item.OrderID == orderID {
			out = append(out, item)
		}
	}
	return out, nil
}
