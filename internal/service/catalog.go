package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tastebaseapp/tastebase-server/internal/domain"
	"github.com/tastebaseapp/tastebase-server/internal/id"
	"github.com/tastebaseapp/tastebase-server/internal/store"
	"github.com/tastebaseapp/tastebase-server/internal/validation"
)

// NamedEntityRequest carries a tag or ingredient name.
type NamedEntityRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

// TagService manages the authenticated user's tag catalog.
type TagService struct {
	store     store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewTagService creates a new tag service.
func NewTagService(store store.Store, validator *validation.Validator, logger *slog.Logger) *TagService {
	return &TagService{store: store, validator: validator, logger: logger}
}

// List returns the user's tags, name-descending. With assignedOnly,
// only tags used by at least one of the user's recipes are returned.
func (s *TagService) List(ctx context.Context, userID string, assignedOnly bool) ([]*domain.Tag, error) {
	tags, err := s.store.ListTags(ctx, userID, assignedOnly)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

// Get returns one of the user's tags.
func (s *TagService) Get(ctx context.Context, userID, tagID string) (*domain.Tag, error) {
	tag, err := s.store.GetTag(ctx, userID, tagID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return tag, nil
}

// Create adds a tag owned by the user. Explicit creation allows
// duplicate names; only recipe composition deduplicates.
func (s *TagService) Create(ctx context.Context, userID string, req NamedEntityRequest) (*domain.Tag, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	tagID, err := id.Generate("tag")
	if err != nil {
		return nil, fmt.Errorf("generate tag ID: %w", err)
	}

	now := time.Now()
	tag := &domain.Tag{
		ID:        tagID,
		OwnerID:   userID,
		Name:      req.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateTag(ctx, tag); err != nil {
		return nil, fmt.Errorf("create tag: %w", err)
	}

	s.logger.Debug("tag created", "tag_id", tagID, "user_id", userID)

	return tag, nil
}

// Update renames one of the user's tags.
func (s *TagService) Update(ctx context.Context, userID, tagID string, req NamedEntityRequest) (*domain.Tag, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	tag, err := s.store.GetTag(ctx, userID, tagID)
	if err != nil {
		return nil, mapStoreError(err)
	}

	tag.Name = req.Name
	tag.UpdatedAt = time.Now()

	if err := s.store.UpdateTag(ctx, tag); err != nil {
		return nil, mapStoreError(err)
	}
	return tag, nil
}

// Delete removes one of the user's tags. Recipes that used it keep
// their other tags.
func (s *TagService) Delete(ctx context.Context, userID, tagID string) error {
	if err := s.store.DeleteTag(ctx, userID, tagID); err != nil {
		return mapStoreError(err)
	}
	s.logger.Debug("tag deleted", "tag_id", tagID, "user_id", userID)
	return nil
}

// IngredientService manages the authenticated user's ingredient catalog.
type IngredientService struct {
	store     store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewIngredientService creates a new ingredient service.
func NewIngredientService(store store.Store, validator *validation.Validator, logger *slog.Logger) *IngredientService {
	return &IngredientService{store: store, validator: validator, logger: logger}
}

// List returns the user's ingredients, name-descending. With
// assignedOnly, only ingredients used by the user's recipes appear.
func (s *IngredientService) List(ctx context.Context, userID string, assignedOnly bool) ([]*domain.Ingredient, error) {
	ings, err := s.store.ListIngredients(ctx, userID, assignedOnly)
	if err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	return ings, nil
}

// Get returns one of the user's ingredients.
func (s *IngredientService) Get(ctx context.Context, userID, ingredientID string) (*domain.Ingredient, error) {
	ing, err := s.store.GetIngredient(ctx, userID, ingredientID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return ing, nil
}

// Create adds an ingredient owned by the user.
func (s *IngredientService) Create(ctx context.Context, userID string, req NamedEntityRequest) (*domain.Ingredient, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	ingredientID, err := id.Generate("ing")
	if err != nil {
		return nil, fmt.Errorf("generate ingredient ID: %w", err)
	}

	now := time.Now()
	ing := &domain.Ingredient{
		ID:        ingredientID,
		OwnerID:   userID,
		Name:      req.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateIngredient(ctx, ing); err != nil {
		return nil, fmt.Errorf("create ingredient: %w", err)
	}

	s.logger.Debug("ingredient created", "ingredient_id", ingredientID, "user_id", userID)

	return ing, nil
}

// Update renames one of the user's ingredients.
func (s *IngredientService) Update(ctx context.Context, userID, ingredientID string, req NamedEntityRequest) (*domain.Ingredient, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	ing, err := s.store.GetIngredient(ctx, userID, ingredientID)
	if err != nil {
		return nil, mapStoreError(err)
	}

	ing.Name = req.Name
	ing.UpdatedAt = time.Now()

	if err := s.store.UpdateIngredient(ctx, ing); err != nil {
		return nil, mapStoreError(err)
	}
	return ing, nil
}

// Delete removes one of the user's ingredients.
func (s *IngredientService) Delete(ctx context.Context, userID, ingredientID string) error {
	if err := s.store.DeleteIngredient(ctx, userID, ingredientID); err != nil {
		return mapStoreError(err)
	}
	s.logger.Debug("ingredient deleted", "ingredient_id", ingredientID, "user_id", userID)
	return nil
}
