package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tastebaseapp/tastebase-server/internal/auth"
	"github.com/tastebaseapp/tastebase-server/internal/domain"
	domainerrors "github.com/tastebaseapp/tastebase-server/internal/errors"
	"github.com/tastebaseapp/tastebase-server/internal/id"
	"github.com/tastebaseapp/tastebase-server/internal/ratelimit"
	"github.com/tastebaseapp/tastebase-server/internal/store"
	"github.com/tastebaseapp/tastebase-server/internal/validation"
)

// AuthService handles registration, login, and token verification.
type AuthService struct {
	store        store.Store
	tokenService *auth.TokenService
	loginLimiter *ratelimit.KeyedRateLimiter
	validator    *validation.Validator
	logger       *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	store store.Store,
	tokenService *auth.TokenService,
	loginLimiter *ratelimit.KeyedRateLimiter,
	validator *validation.Validator,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		store:        store,
		tokenService: tokenService,
		loginLimiter: loginLimiter,
		validator:    validator,
		logger:       logger,
	}
}

// RegisterRequest contains user registration data.
type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=5,max=1024"`
	DisplayName string `json:"display_name,omitempty" validate:"omitempty,max=255"`
}

// LoginRequest contains user credentials.
// ClientKey identifies the caller for rate limiting and never leaves
// the server.
type LoginRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	ClientKey string `json:"-"`
}

// AuthResponse contains the issued token and the authenticated user.
type AuthResponse struct {
	User        *domain.User `json:"user"`
	AccessToken string       `json:"access_token"`
	ExpiresIn   int64        `json:"expires_in"`
}

// Register creates a new user account.
// The email is normalized before storage so lookups are stable across
// domain-part casing.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	userID, err := id.Generate("user")
	if err != nil {
		return nil, fmt.Errorf("generate user ID: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:           userID,
		Email:        domain.NormalizeEmail(req.Email),
		PasswordHash: passwordHash,
		DisplayName:  req.DisplayName,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			return nil, domainerrors.AlreadyExists("email already in use")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered", "user_id", userID)

	return user, nil
}

// Login authenticates a user and issues an access token.
// Wrong email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if req.ClientKey != "" && !s.loginLimiter.Allow(req.ClientKey) {
		return nil, domainerrors.Unauthorized("too many login attempts, try again later")
	}

	user, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.InvalidCredentials("invalid email or password")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	ok, err := auth.VerifyPassword(user.PasswordHash, req.Password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, domainerrors.InvalidCredentials("invalid email or password")
	}

	if !user.IsActive {
		return nil, domainerrors.Unauthorized("account is deactivated")
	}

	token, err := s.tokenService.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	s.logger.Info("user logged in", "user_id", user.ID)

	return &AuthResponse{
		User:        user,
		AccessToken: token,
		ExpiresIn:   int64(s.tokenService.AccessTokenDuration().Seconds()),
	}, nil
}

// VerifyAccessToken validates a token and loads the user it belongs to.
// Deactivated users fail verification even with a valid token.
func (s *AuthService) VerifyAccessToken(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.tokenService.VerifyAccessToken(token)
	if err != nil {
		return nil, domainerrors.Unauthorized("invalid or expired token").WithCause(err)
	}

	user, err := s.store.GetUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.Unauthorized("user no longer exists")
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	if !user.IsActive {
		return nil, domainerrors.Unauthorized("account is deactivated")
	}

	return user, nil
}

// CreateSuperuser provisions an admin account. Reachable from the seed
// command and the admin-only user endpoint.
func (s *AuthService) CreateSuperuser(ctx context.Context, email, password string) (*domain.User, error) {
	req := RegisterRequest{Email: email, Password: password}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	userID, err := id.Generate("user")
	if err != nil {
		return nil, fmt.Errorf("generate user ID: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:           userID,
		Email:        domain.NormalizeEmail(email),
		PasswordHash: passwordHash,
		IsActive:     true,
		IsStaff:      true,
		IsSuperuser:  true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			return nil, domainerrors.AlreadyExists("email already in use")
		}
		return nil, fmt.Errorf("create superuser: %w", err)
	}

	s.logger.Info("superuser created", "user_id", userID)

	return user, nil
}
