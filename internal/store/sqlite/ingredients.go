package sqlite

import (
	"context"

	"github.com/tastebaseapp/tastebase-server/internal/domain"
)

func namedToIngredient(n *namedRow) *domain.Ingredient {
	return &domain.Ingredient{
		ID:        n.ID,
		OwnerID:   n.OwnerID,
		Name:      n.Name,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

// ListIngredients returns the owner's ingredients ordered by name descending.
func (s *Store) ListIngredients(ctx context.Context, ownerID string, assignedOnly bool) ([]*domain.Ingredient, error) {
	rows, err := s.listNamed(ctx, ingredientTable, ownerID, assignedOnly)
	if err != nil {
		return nil, err
	}

	ings := make([]*domain.Ingredient, len(rows))
	for i, n := range rows {
		ings[i] = namedToIngredient(n)
	}
	return ings, nil
}

// GetIngredient retrieves one of the owner's ingredients by ID.
func (s *Store) GetIngredient(ctx context.Context, ownerID, id string) (*domain.Ingredient, error) {
	n, err := s.getNamed(ctx, ingredientTable, ownerID, id)
	if err != nil {
		return nil, err
	}
	return namedToIngredient(n), nil
}

// CreateIngredient inserts a new ingredient.
func (s *Store) CreateIngredient(ctx context.Context, ing *domain.Ingredient) error {
	return s.insertNamed(ctx, ingredientTable, &namedRow{
		ID:        ing.ID,
		OwnerID:   ing.OwnerID,
		Name:      ing.Name,
		CreatedAt: ing.CreatedAt,
		UpdatedAt: ing.UpdatedAt,
	})
}

// UpdateIngredient renames one of the owner's ingredients.
func (s *Store) UpdateIngredient(ctx context.Context, ing *domain.Ingredient) error {
	return s.updateNamed(ctx, ingredientTable, &namedRow{
		ID:        ing.ID,
		OwnerID:   ing.OwnerID,
		Name:      ing.Name,
		UpdatedAt: ing.UpdatedAt,
	})
}

// DeleteIngredient removes one of the owner's ingredients. Recipes keep
// their other ingredients; only the association rows go.
func (s *Store) DeleteIngredient(ctx context.Context, ownerID, id string) error {
	return s.deleteNamed(ctx, ingredientTable, ownerID, id)
}

// FindOrCreateIngredient resolves (owner, name) to an existing
// ingredient or creates one.
func (s *Store) FindOrCreateIngredient(ctx context.Context, ownerID, name string) (*domain.Ingredient, bool, error) {
	n, created, err := findOrCreateNamed(ctx, s.db, ingredientTable, ownerID, name)
	if err != nil {
		return nil, false, err
	}
	return namedToIngredient(n), created, nil
}
