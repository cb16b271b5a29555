// Package di provides dependency injection configuration for the Tastebase server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/tastebaseapp/tastebase-server/internal/auth"
	"github.com/tastebaseapp/tastebase-server/internal/config"
	"github.com/tastebaseapp/tastebase-server/internal/di/providers"
	"github.com/tastebaseapp/tastebase-server/internal/logger"
	"github.com/tastebaseapp/tastebase-server/internal/media/images"
	"github.com/tastebaseapp/tastebase-server/internal/ratelimit"
	"github.com/tastebaseapp/tastebase-server/internal/service"
	"github.com/tastebaseapp/tastebase-server/internal/validation"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideSlogLogger)
	do.Provide(injector, providers.ProvideAuthKey)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Storage layer
	do.Provide(injector, providers.ProvideImageStorage)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)
	do.Provide(injector, providers.ProvideLoginLimiter)

	// Business services
	do.Provide(injector, providers.ProvideValidator)
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideUserService)
	do.Provide(injector, providers.ProvideRecipeService)
	do.Provide(injector, providers.ProvideTagService)
	do.Provide(injector, providers.ProvideIngredientService)
	do.Provide(injector, providers.ProvideImageService)
	do.Provide(injector, providers.ProvideServices)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	// Invoke core services to trigger initialization
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[providers.AuthKey](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*images.Storage](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)
	_ = do.MustInvoke[*ratelimit.KeyedRateLimiter](injector)
	_ = do.MustInvoke[*validation.Validator](injector)

	// Business services
	_ = do.MustInvoke[*service.AuthService](injector)
	_ = do.MustInvoke[*service.UserService](injector)
	_ = do.MustInvoke[*service.RecipeService](injector)
	_ = do.MustInvoke[*service.TagService](injector)
	_ = do.MustInvoke[*service.IngredientService](injector)
	_ = do.MustInvoke[*service.ImageService](injector)
	_ = do.MustInvoke[*service.Services](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
