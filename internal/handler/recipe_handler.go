package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/GTDGit/pantry_api/internal/service"
	"github.com/GTDGit/pantry_api/internal/utils"
)

// RecipeHandler handles recipe and costing endpoints.
type RecipeHandler struct {
	recipeService  *service.RecipeService
	costingService *service.CostingService
}

// NewRecipeHandler constructs a RecipeHandler.
func NewRecipeHandler(recipeService *service.RecipeService, costingService *service.CostingService) *RecipeHandler {
	return &RecipeHandler{recipeService: recipeService, costingService: costingService}
}

// ListRecipes handles GET /v1/recipes
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	recipes, err := h.recipeService.ListRecipes(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to retrieve recipes")
		return
	}
	utils.Success(c, 200, "Recipes retrieved", recipes)
}

// GetRecipe handles GET /v1/recipes/:id
func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	recipe, err := h.recipeService.GetRecipe(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve recipe")
		return
	}
	utils.Success(c, 200, "Recipe retrieved", recipe)
}

// CreateRecipe handles POST /v1/recipes
func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req service.CreateRecipeRequest
	if !bindJSON(c, &req) {
		return
	}
	recipe, err := h.recipeService.CreateRecipe(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to create recipe")
		return
	}
	utils.Success(c, 201, "Recipe created successfully", recipe)
}

// GetRecipeCost handles GET /v1/recipes/:id/cost
func (h *RecipeHandler) GetRecipeCost(c *gin.Context) {
	breakdown, err := h.costingService.RecipeCost(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to calculate recipe cost")
		return
	}
	utils.Success(c, 200, "Recipe cost calculated", breakdown)
}
