package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GTDGit/pantry_api/internal/models"
	"github.com/GTDGit/pantry_api/internal/repository"
	"github.com/GTDGit/pantry_api/internal/utils"
)

// OrderItemRequest is one line of a new order.
type OrderItemRequest struct {
	ProductID *string          `json:"productId"`
	Quantity  decimal.Decimal  `json:"quantity"`
	Unit      string           `json:"unit" binding:"required"`
	PriceEach *decimal.Decimal `json:"priceEach"`
}

// CreateOrderRequest represents the request to place an order.
type CreateOrderRequest struct {
	SupplierID    *string            `json:"supplierId"`
	Status        string             `json:"status"`
	ScheduledDate *time.Time         `json:"scheduledDate"`
	Metadata      json.RawMessage    `json:"metadata"`
	Items         []OrderItemRequest `json:"items" binding:"dive"`
}

// OrderService provides order CRUD.
type OrderService struct {
	store repository.Store
}

// NewOrderService constructs an OrderService.
func NewOrderService(store repository.Store) *OrderService {
	return &OrderService{store: store}
}

// ListOrders returns orders without their items, newest first.
func (s *OrderService) ListOrders(ctx context.Context) ([]models.Order, error) {
	return s.store.ListOrders(ctx)
}

// GetOrder returns an order with its items.
func (s *OrderService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var order *models.Order
	err := s.store.InTx(ctx, func(q repository.Queries) error {
		var err error
		order, err = q.GetOrder(ctx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return utils.ErrOrderNotFound
			}
			return err
		}
		order.Items, err = q.ListOrderItems(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// CreateOrder stores an order and its items in one transaction. Items
// without a price take the product's current price.
func (s *OrderService) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*models.Order, error) {
	for _, item := range req.Items {
		if !item.Quantity.IsPositive() {
			return nil, fmt.Errorf("%w: quantity must be positive", utils.ErrInvalidRequest)
		}
	}

	order := &models.Order{
		SupplierID:    req.SupplierID,
		Status:        req.Status,
		ScheduledDate: req.ScheduledDate,
		Metadata:      req.Metadata,
		Items:         make([]models.OrderItem, 0, len(req.Items)),
	}

	err := s.store.InTx(ctx, func(q repository.Queries) error {
		if order.SupplierID != nil {
			if _, err := q.GetSupplier(ctx, *order.SupplierID); err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return utils.ErrSupplierNotFound
				}
				return err
			}
		}
		if err := q.CreateOrder(ctx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		for _, line := range req.Items {
			item := models.OrderItem{
				OrderID:   order.ID,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				Unit:      line.Unit,
				PriceEach: line.PriceEach,
			}
			if line.ProductID != nil {
				product, err := q.GetProduct(ctx, *line.ProductID)
				if err != nil {
					if errors.Is(err, sql.ErrNoRows) {
						return fmt.Errorf("%w: %s", utils.ErrProductNotFound, *line.ProductID)
					}
					return err
				}
				if item.PriceEach == nil {
					price := product.Price
					item.PriceEach = &price
				}
			}
			if err := q.CreateOrderItem(ctx, &item); err != nil {
				return fmt.Errorf("create order item: %w", err)
			}
			order.Items = append(order.Items, item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}
