package domain

import "time"

// Tag is a user-owned label attached to recipes.
// (OwnerID, Name) acts as a natural key for find-or-create, but is not
// unique at the storage level: explicit creates may produce duplicates.
type Tag struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"-"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Ingredient is a user-owned ingredient attached to recipes.
// Same ownership and natural-key semantics as Tag.
type Ingredient struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"-"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
