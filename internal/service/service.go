// Package service implements the application's business logic on top of the store.
package service

import (
	"errors"

	domainerrors "github.com/tastebaseapp/tastebase-server/internal/errors"
	"github.com/tastebaseapp/tastebase-server/internal/store"
)

// Services aggregates every application service for injection into the
// API layer.
type Services struct {
	Auth       *AuthService
	User       *UserService
	Recipe     *RecipeService
	Tag        *TagService
	Ingredient *IngredientService
	Image      *ImageService
}

// mapStoreError converts store errors into domain errors, leaving
// anything unrecognized untouched for the caller to wrap.
func mapStoreError(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return domainerrors.NotFound("not found").WithCause(err)
	case errors.Is(err, store.ErrAlreadyExists):
		return domainerrors.AlreadyExists("already exists").WithCause(err)
	default:
		return err
	}
}
