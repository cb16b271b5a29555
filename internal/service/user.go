package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tastebaseapp/tastebase-server/internal/auth"
	"github.com/tastebaseapp/tastebase-server/internal/domain"
	domainerrors "github.com/tastebaseapp/tastebase-server/internal/errors"
	"github.com/tastebaseapp/tastebase-server/internal/store"
	"github.com/tastebaseapp/tastebase-server/internal/validation"
)

// UserService handles the authenticated user's own profile.
type UserService struct {
	store     store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(store store.Store, validator *validation.Validator, logger *slog.Logger) *UserService {
	return &UserService{
		store:     store,
		validator: validator,
		logger:    logger,
	}
}

// UpdateProfileRequest carries a partial profile update. Nil fields are
// left unchanged.
type UpdateProfileRequest struct {
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
	Password    *string `json:"password,omitempty" validate:"omitempty,min=5,max=1024"`
	DisplayName *string `json:"display_name,omitempty" validate:"omitempty,max=255"`
}

// Get returns the user's profile.
func (s *UserService) Get(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return user, nil
}

// UpdateProfile applies a partial update to the user's own profile.
// A new password is re-hashed; a new email is normalized.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*domain.User, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, mapStoreError(err)
	}

	if req.Email != nil {
		user.Email = domain.NormalizeEmail(*req.Email)
	}
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = hash
	}
	if req.DisplayName != nil {
		user.DisplayName = *req.DisplayName
	}
	user.Touch()

	if err := s.store.UpdateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			return nil, domainerrors.AlreadyExists("email already in use")
		}
		return nil, mapStoreError(err)
	}

	s.logger.Info("profile updated", "user_id", userID)

	return user, nil
}
