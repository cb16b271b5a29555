package domain

import "time"

// Recipe is a user-owned recipe with optional tag and ingredient links.
// OwnerID is always taken from the authenticated identity; it never comes
// from a request payload and never changes after creation.
type Recipe struct {
	ID          string         `json:"id"`
	OwnerID     string         `json:"-"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Price       float64        `json:"price"` // Fixed-point at rest: stored as integer cents
	TimeMinutes int            `json:"time_minutes"`
	Link        string         `json:"link,omitempty"`
	Image       *ImageFileInfo `json:"image,omitempty"`
	Tags        []*Tag         `json:"tags"`
	Ingredients []*Ingredient  `json:"ingredients"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// Touch updates the UpdatedAt timestamp.
func (r *Recipe) Touch() {
	r.UpdatedAt = time.Now().UTC()
}

// HasImage reports whether the recipe has a stored image file.
func (r *Recipe) HasImage() bool {
	return r.Image != nil && r.Image.Format != ""
}

// ImageFileInfo describes a stored recipe image file.
type ImageFileInfo struct {
	Filename string `json:"filename"`
	Format   string `json:"format"` // sniffed format name, e.g. "jpeg"
	Size     int64  `json:"size"`
	BlurHash string `json:"blur_hash,omitempty"`
}
