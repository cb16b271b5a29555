package sqlite

import (
	"context"

	"github.com/tastebaseapp/tastebase-server/internal/domain"
)

func namedToTag(n *namedRow) *domain.Tag {
	return &domain.Tag{
		ID:        n.ID,
		OwnerID:   n.OwnerID,
		Name:      n.Name,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

// ListTags returns the owner's tags ordered by name descending.
func (s *Store) ListTags(ctx context.Context, ownerID string, assignedOnly bool) ([]*domain.Tag, error) {
	rows, err := s.listNamed(ctx, tagTable, ownerID, assignedOnly)
	if err != nil {
		return nil, err
	}

	tags := make([]*domain.Tag, len(rows))
	for i, n := range rows {
		tags[i] = namedToTag(n)
	}
	return tags, nil
}

// GetTag retrieves one of the owner's tags by ID.
func (s *Store) GetTag(ctx context.Context, ownerID, id string) (*domain.Tag, error) {
	n, err := s.getNamed(ctx, tagTable, ownerID, id)
	if err != nil {
		return nil, err
	}
	return namedToTag(n), nil
}

// CreateTag inserts a new tag.
func (s *Store) CreateTag(ctx context.Context, tag *domain.Tag) error {
	return s.insertNamed(ctx, tagTable, &namedRow{
		ID:        tag.ID,
		OwnerID:   tag.OwnerID,
		Name:      tag.Name,
		CreatedAt: tag.CreatedAt,
		UpdatedAt: tag.UpdatedAt,
	})
}

// UpdateTag renames one of the owner's tags.
func (s *Store) UpdateTag(ctx context.Context, tag *domain.Tag) error {
	return s.updateNamed(ctx, tagTable, &namedRow{
		ID:        tag.ID,
		OwnerID:   tag.OwnerID,
		Name:      tag.Name,
		UpdatedAt: tag.UpdatedAt,
	})
}

// DeleteTag removes one of the owner's tags. Recipes keep their other
// tags; only the association rows go.
func (s *Store) DeleteTag(ctx context.Context, ownerID, id string) error {
	return s.deleteNamed(ctx, tagTable, ownerID, id)
}

// FindOrCreateTag resolves (owner, name) to an existing tag or creates one.
func (s *Store) FindOrCreateTag(ctx context.Context, ownerID, name string) (*domain.Tag, bool, error) {
	n, created, err := findOrCreateNamed(ctx, s.db, tagTable, ownerID, name)
	if err != nil {
		return nil, false, err
	}
	return namedToTag(n), created, nil
}
