package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/GTDGit/pantry_api/internal/service"
	"github.com/GTDGit/pantry_api/internal/utils"
)

// IngredientHandler handles ingredient endpoints.
type IngredientHandler struct {
	ingredientService *service.IngredientService
}

// NewIngredientHandler constructs an IngredientHandler.
func NewIngredientHandler(ingredientService *service.IngredientService) *IngredientHandler {
	return &IngredientHandler{ingredientService: ingredientService}
}

// ListIngredients handles GET /v1/ingredients
func (h *IngredientHandler) ListIngredients(c *gin.Context) {
	ingredients, err := h.ingredientService.ListIngredients(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to retrieve ingredients")
		return
	}
	utils.Success(c, 200, "Ingredients retrieved", ingredients)
}

// GetIngredient handles GET /v1/ingredients/:id
func (h *IngredientHandler) GetIngredient(c *gin.Context) {
	ingredient, err := h.ingredientService.GetIngredient(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve ingredient")
		return
	}
	utils.Success(c, 200, "Ingredient retrieved", ingredient)
}

// CreateIngredient handles POST /v1/ingredients
func (h *IngredientHandler) CreateIngredient(c *gin.Context) {
	var req service.CreateIngredientRequest
	if !bindJSON(c, &req) {
		return
	}
	ingredient, err := h.ingredientService.CreateIngredient(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to create ingredient")
		return
	}
	utils.Success(c, 201, "Ingredient created successfully", ingredient)
}
