package service

import (
	"context"
	"crypto/rand"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tastebaseapp/tastebase-server/internal/auth"
	"github.com/tastebaseapp/tastebase-server/internal/domain"
	"github.com/tastebaseapp/tastebase-server/internal/media/images"
	"github.com/tastebaseapp/tastebase-server/internal/ratelimit"
	"github.com/tastebaseapp/tastebase-server/internal/store/sqlite"
	"github.com/tastebaseapp/tastebase-server/internal/validation"
)

// newTestServices wires real services over a temporary SQLite store.
func newTestServices(t *testing.T) *Services {
	t.Helper()

	dir := t.TempDir()
	logger := slog.New(slog.DiscardHandler)

	s, err := sqlite.Open(filepath.Join(dir, "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	key := make([]byte, 32)
	_, err = rand.Read(key)
	require.NoError(t, err)

	tokenService, err := auth.NewTokenService(key, time.Hour)
	require.NoError(t, err)

	storage, err := images.NewStorage(filepath.Join(dir, "images"))
	require.NoError(t, err)

	validator := validation.New()
	limiter := ratelimit.New(100, 100)

	return &Services{
		Auth:       NewAuthService(s, tokenService, limiter, validator, logger),
		User:       NewUserService(s, validator, logger),
		Recipe:     NewRecipeService(s, storage, validator, logger),
		Tag:        NewTagService(s, validator, logger),
		Ingredient: NewIngredientService(s, validator, logger),
		Image:      NewImageService(s, storage, logger),
	}
}

// registerTestUser registers a user and returns it.
func registerTestUser(t *testing.T, svc *Services, email string) *domain.User {
	t.Helper()
	user, err := svc.Auth.Register(context.Background(), RegisterRequest{
		Email:    email,
		Password: "testpass123",
	})
	require.NoError(t, err)
	return user
}
