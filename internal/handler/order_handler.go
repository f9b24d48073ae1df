package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/GTDGit/pantry_api/internal/service"
	"github.com/GTDGit/pantry_api/internal/utils"
)

// OrderHandler handles purchase order endpoints.
type OrderHandler struct {
	orderService *service.OrderService
}

// NewOrderHandler constructs an OrderHandler.
func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// ListOrders handles GET /v1/orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
	orders, err := h.orderService.ListOrders(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to retrieve orders")
		return
	}
	utils.Success(c, 200, "Orders retrieved", orders)
}

// GetOrder handles GET /v1/orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.orderService.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve order")
		return
	}
	utils.Success(c, 200, "Order retrieved", order)
}

// CreateOrder handles POST /v1/orders
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req service.CreateOrderRequest
	if !bindJSON(c, &req) {
		return
	}
	order, err := h.orderService.CreateOrder(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to create order")
		return
	}
	utils.Success(c, 201, "Order created successfully", order)
}
