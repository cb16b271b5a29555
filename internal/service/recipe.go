package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tastebaseapp/tastebase-server/internal/domain"
	"github.com/tastebaseapp/tastebase-server/internal/id"
	"github.com/tastebaseapp/tastebase-server/internal/media/images"
	"github.com/tastebaseapp/tastebase-server/internal/store"
	"github.com/tastebaseapp/tastebase-server/internal/validation"
)

// RecipeService manages the authenticated user's recipes.
type RecipeService struct {
	store     store.Store
	storage   *images.Storage
	validator *validation.Validator
	logger    *slog.Logger
}

// NewRecipeService creates a new recipe service.
func NewRecipeService(store store.Store, storage *images.Storage, validator *validation.Validator, logger *slog.Logger) *RecipeService {
	return &RecipeService{store: store, storage: storage, validator: validator, logger: logger}
}

// CreateRecipeRequest contains the full recipe payload.
// Price is decimal with at most 2 fraction digits, capped at 99999.99.
type CreateRecipeRequest struct {
	Title       string   `json:"title" validate:"required,max=255"`
	Description string   `json:"description,omitempty"`
	Price       float64  `json:"price" validate:"gte=0,lte=99999.99"`
	TimeMinutes int      `json:"time_minutes" validate:"gte=0"`
	Link        string   `json:"link,omitempty" validate:"omitempty,max=255"`
	Tags        []string `json:"tags,omitempty"`
	Ingredients []string `json:"ingredients,omitempty"`
}

// UpdateRecipeRequest carries a partial recipe update. Nil fields are
// left unchanged; a present Tags or Ingredients list replaces the set,
// and an empty list clears it.
type UpdateRecipeRequest struct {
	Title       *string   `json:"title,omitempty" validate:"omitempty,max=255"`
	Description *string   `json:"description,omitempty"`
	Price       *float64  `json:"price,omitempty" validate:"omitempty,gte=0,lte=99999.99"`
	TimeMinutes *int      `json:"time_minutes,omitempty" validate:"omitempty,gte=0"`
	Link        *string   `json:"link,omitempty" validate:"omitempty,max=255"`
	Tags        *[]string `json:"tags,omitempty"`
	Ingredients *[]string `json:"ingredients,omitempty"`
}

// ParseFilterIDs splits a comma-separated ID list from a query
// parameter, dropping empty elements.
func ParseFilterIDs(raw string) []string {
	if raw == "" {
		return nil
	}
	var ids []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			ids = append(ids, part)
		}
	}
	return ids
}

// List returns the user's recipes, newest first, optionally filtered
// by associated tag or ingredient IDs.
func (s *RecipeService) List(ctx context.Context, userID string, filter store.RecipeFilter) ([]*domain.Recipe, error) {
	recipes, err := s.store.ListRecipes(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	return recipes, nil
}

// Get returns one of the user's recipes with tags and ingredients.
func (s *RecipeService) Get(ctx context.Context, userID, recipeID string) (*domain.Recipe, error) {
	recipe, err := s.store.GetRecipe(ctx, userID, recipeID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return recipe, nil
}

// Create builds a recipe owned by the user. Tag and ingredient names
// resolve through find-or-create, so repeated names share entity rows.
func (s *RecipeService) Create(ctx context.Context, userID string, req CreateRecipeRequest) (*domain.Recipe, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	recipeID, err := id.Generate("recipe")
	if err != nil {
		return nil, fmt.Errorf("generate recipe ID: %w", err)
	}

	now := time.Now()
	recipe := &domain.Recipe{
		ID:          recipeID,
		OwnerID:     userID,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		TimeMinutes: req.TimeMinutes,
		Link:        req.Link,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.CreateRecipe(ctx, recipe, req.Tags, req.Ingredients); err != nil {
		return nil, fmt.Errorf("create recipe: %w", err)
	}

	s.logger.Info("recipe created", "recipe_id", recipeID, "user_id", userID)

	return recipe, nil
}

// Replace performs a full update: every scalar field takes the request
// value and both association sets are rebuilt from the request lists.
func (s *RecipeService) Replace(ctx context.Context, userID, recipeID string, req CreateRecipeRequest) (*domain.Recipe, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	recipe, err := s.store.GetRecipe(ctx, userID, recipeID)
	if err != nil {
		return nil, mapStoreError(err)
	}

	recipe.Title = req.Title
	recipe.Description = req.Description
	recipe.Price = req.Price
	recipe.TimeMinutes = req.TimeMinutes
	recipe.Link = req.Link
	recipe.Touch()

	// Absent lists mean empty on a full replace.
	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}
	ingredients := req.Ingredients
	if ingredients == nil {
		ingredients = []string{}
	}

	if err := s.store.UpdateRecipe(ctx, recipe, &tags, &ingredients); err != nil {
		return nil, mapStoreError(err)
	}
	return recipe, nil
}

// Update applies a partial update. Only present fields change; a
// present association list replaces that set wholesale.
func (s *RecipeService) Update(ctx context.Context, userID, recipeID string, req UpdateRecipeRequest) (*domain.Recipe, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	recipe, err := s.store.GetRecipe(ctx, userID, recipeID)
	if err != nil {
		return nil, mapStoreError(err)
	}

	if req.Title != nil {
		recipe.Title = *req.Title
	}
	if req.Description != nil {
		recipe.Description = *req.Description
	}
	if req.Price != nil {
		recipe.Price = *req.Price
	}
	if req.TimeMinutes != nil {
		recipe.TimeMinutes = *req.TimeMinutes
	}
	if req.Link != nil {
		recipe.Link = *req.Link
	}
	recipe.Touch()

	if err := s.store.UpdateRecipe(ctx, recipe, req.Tags, req.Ingredients); err != nil {
		return nil, mapStoreError(err)
	}
	return recipe, nil
}

// Delete removes one of the user's recipes. Tags and ingredients it
// referenced stay in the catalog.
func (s *RecipeService) Delete(ctx context.Context, userID, recipeID string) error {
	recipe, err := s.store.GetRecipe(ctx, userID, recipeID)
	if err != nil {
		return mapStoreError(err)
	}

	if err := s.store.DeleteRecipe(ctx, userID, recipeID); err != nil {
		return mapStoreError(err)
	}

	// The row is gone; a leftover file is only worth a warning.
	if recipe.HasImage() {
		if err := s.storage.Delete(recipe.Image.Filename); err != nil {
			s.logger.Warn("delete recipe image file", "recipe_id", recipeID, "error", err)
		}
	}

	s.logger.Info("recipe deleted", "recipe_id", recipeID, "user_id", userID)
	return nil
}
