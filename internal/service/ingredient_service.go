package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/GTDGit/pantry_api/internal/models"
	"github.com/GTDGit/pantry_api/internal/repository"
	"github.com/GTDGit/pantry_api/internal/utils"
)

// CreateIngredientRequest represents the request to create an ingredient.
type CreateIngredientRequest struct {
	Name               string          `json:"name" binding:"required"`
	FnddsCode          *string         `json:"fnddsCode" binding:"omitempty,max=8"`
	NdbNumber          *string         `json:"ndbNumber" binding:"omitempty,max=5"`
	NutritionalProfile json.RawMessage `json:"nutritionalProfile"`
	AllergenFlags      json.RawMessage `json:"allergenFlags"`
}

// IngredientService provides ingredient CRUD.
type IngredientService struct {
	store repository.Store
}

// NewIngredientService constructs an IngredientService.
func NewIngredientService(store repository.Store) *IngredientService {
	return &IngredientService{store: store}
}

// ListIngredients returns every ingredient.
func (s *IngredientService) ListIngredients(ctx context.Context) ([]models.Ingredient, error) {
	return s.store.ListIngredients(ctx)
}

// GetIngredient returns an ingredient by id.
func (s *IngredientService) GetIngredient(ctx context.Context, id string) (*models.Ingredient, error) {
	ingredient, err := s.store.GetIngredient(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, utils.ErrIngredientNotFound
	}
	return ingredient, err
}

// CreateIngredient creates an ingredient. Names are unique.
func (s *IngredientService) CreateIngredient(ctx context.Context, req *CreateIngredientRequest) (*models.Ingredient, error) {
	ingredient := &models.Ingredient{
		Name:               strings.TrimSpace(req.Name),
		FnddsCode:          req.FnddsCode,
		NdbNumber:          req.NdbNumber,
		NutritionalProfile: req.NutritionalProfile,
		AllergenFlags:      req.AllergenFlags,
	}
	if err := s.store.CreateIngredient(ctx, ingredient); err != nil {
		return nil, fmt.Errorf("create ingredient: %w", err)
	}
	return ingredient, nil
}
