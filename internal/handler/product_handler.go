package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/GTDGit/pantry_api/internal/service"
	"github.com/GTDGit/pantry_api/internal/utils"
)

// ProductHandler handles product endpoints.
type ProductHandler struct {
	productService   *service.ProductService
	nutritionService *service.NutritionService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(productService *service.ProductService, nutritionService *service.NutritionService) *ProductHandler {
	return &ProductHandler{productService: productService, nutritionService: nutritionService}
}

// ListProducts handles GET /v1/products. Optional filter: supplier_id.
func (h *ProductHandler) ListProducts(c *gin.Context) {
	products, err := h.productService.ListProducts(c.Request.Context(), c.Query("supplier_id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve products")
		return
	}
	utils.Success(c, 200, "Products retrieved", products)
}

// GetProduct handles GET /v1/products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.productService.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve product")
		return
	}
	utils.Success(c, 200, "Product retrieved", product)
}

// CreateProduct handles POST /v1/products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req service.CreateProductRequest
	if !bindJSON(c, &req) {
		return
	}
	product, err := h.productService.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to create product")
		return
	}
	utils.Success(c, 201, "Product created successfully", product)
}

// GetPriceHistory handles GET /v1/products/:id/price-history
func (h *ProductHandler) GetPriceHistory(c *gin.Context) {
	history, err := h.productService.PriceHistory(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve price history")
		return
	}
	utils.Success(c, 200, "Price history retrieved", history)
}

// MatchIngredient handles POST /v1/products/:id/match
func (h *ProductHandler) MatchIngredient(c *gin.Context) {
	match, err := h.nutritionService.MatchProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to match product")
		return
	}
	if match == nil {
		utils.Success(c, 200, "No matching ingredient", nil)
		return
	}
	utils.Success(c, 201, "Product mapped to ingredient", match)
}
