// Package store defines the persistence interface and error taxonomy for Tastebase.
package store

import (
	"context"

	"github.com/tastebaseapp/tastebase-server/internal/domain"
)

// RecipeFilter narrows a recipe listing by associated tag/ingredient IDs.
// Matching is OR within each set and OR across the two sets; an empty
// filter matches everything.
type RecipeFilter struct {
	TagIDs        []string
	IngredientIDs []string
}

// IsZero reports whether the filter matches all recipes.
func (f RecipeFilter) IsZero() bool {
	return len(f.TagIDs) == 0 && len(f.IngredientIDs) == 0
}

// Store is the persistence contract used by the service layer.
//
// Every catalog read and write is scoped to an owner: rows belonging to
// a different user behave exactly as if they did not exist (ErrNotFound),
// never as a permission error.
type Store interface {
	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error
	// DeleteUser removes the user and cascades to every row it owns.
	DeleteUser(ctx context.Context, id string) error

	// Tags
	ListTags(ctx context.Context, ownerID string, assignedOnly bool) ([]*domain.Tag, error)
	GetTag(ctx context.Context, ownerID, id string) (*domain.Tag, error)
	CreateTag(ctx context.Context, tag *domain.Tag) error
	UpdateTag(ctx context.Context, tag *domain.Tag) error
	DeleteTag(ctx context.Context, ownerID, id string) error
	// FindOrCreateTag resolves (owner, name) as a natural key.
	// Returns (tag, created, error); repeated calls reuse the same row.
	FindOrCreateTag(ctx context.Context, ownerID, name string) (*domain.Tag, bool, error)

	// Ingredients
	ListIngredients(ctx context.Context, ownerID string, assignedOnly bool) ([]*domain.Ingredient, error)
	GetIngredient(ctx context.Context, ownerID, id string) (*domain.Ingredient, error)
	CreateIngredient(ctx context.Context, ing *domain.Ingredient) error
	UpdateIngredient(ctx context.Context, ing *domain.Ingredient) error
	DeleteIngredient(ctx context.Context, ownerID, id string) error
	FindOrCreateIngredient(ctx context.Context, ownerID, name string) (*domain.Ingredient, bool, error)

	// Recipes
	ListRecipes(ctx context.Context, ownerID string, filter RecipeFilter) ([]*domain.Recipe, error)
	GetRecipe(ctx context.Context, ownerID, id string) (*domain.Recipe, error)
	// CreateRecipe inserts the recipe row, resolves each tag/ingredient
	// name via find-or-create, and links them, all in one transaction.
	CreateRecipe(ctx context.Context, recipe *domain.Recipe, tagNames, ingredientNames []string) error
	// UpdateRecipe rewrites the recipe's scalar fields and, when a name
	// list is non-nil, clears and rebuilds that association set. A nil
	// list leaves the set untouched; an empty list clears it. The whole
	// operation is one transaction.
	UpdateRecipe(ctx context.Context, recipe *domain.Recipe, tagNames, ingredientNames *[]string) error
	// DeleteRecipe removes the recipe and its association rows, never
	// the tag/ingredient entities they point at.
	DeleteRecipe(ctx context.Context, ownerID, id string) error
	SetRecipeImage(ctx context.Context, ownerID, id string, info *domain.ImageFileInfo) error

	Close() error
}
