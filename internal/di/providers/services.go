package providers

import (
	"github.com/samber/do/v2"

	"github.com/tastebaseapp/tastebase-server/internal/auth"
	"github.com/tastebaseapp/tastebase-server/internal/logger"
	"github.com/tastebaseapp/tastebase-server/internal/media/images"
	"github.com/tastebaseapp/tastebase-server/internal/ratelimit"
	"github.com/tastebaseapp/tastebase-server/internal/service"
	"github.com/tastebaseapp/tastebase-server/internal/validation"
)

// ProvideValidator provides the request validator shared by all services.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	loginLimiter := do.MustInvoke[*ratelimit.KeyedRateLimiter](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, tokenService, loginLimiter, validator, log.Logger), nil
}

// ProvideUserService provides the user profile service.
func ProvideUserService(i do.Injector) (*service.UserService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewUserService(storeHandle.Store, validator, log.Logger), nil
}

// ProvideRecipeService provides the recipe service.
func ProvideRecipeService(i do.Injector) (*service.RecipeService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	storage := do.MustInvoke[*images.Storage](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewRecipeService(storeHandle.Store, storage, validator, log.Logger), nil
}

// ProvideTagService provides the tag catalog service.
func ProvideTagService(i do.Injector) (*service.TagService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewTagService(storeHandle.Store, validator, log.Logger), nil
}

// ProvideIngredientService provides the ingredient catalog service.
func ProvideIngredientService(i do.Injector) (*service.IngredientService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewIngredientService(storeHandle.Store, validator, log.Logger), nil
}

// ProvideImageService provides the recipe image service.
func ProvideImageService(i do.Injector) (*service.ImageService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	storage := do.MustInvoke[*images.Storage](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewImageService(storeHandle.Store, storage, log.Logger), nil
}

// ProvideServices aggregates every application service for the API layer.
func ProvideServices(i do.Injector) (*service.Services, error) {
	return &service.Services{
		Auth:       do.MustInvoke[*service.AuthService](i),
		User:       do.MustInvoke[*service.UserService](i),
		Recipe:     do.MustInvoke[*service.RecipeService](i),
		Tag:        do.MustInvoke[*service.TagService](i),
		Ingredient: do.MustInvoke[*service.IngredientService](i),
		Image:      do.MustInvoke[*service.ImageService](i),
	}, nil
}
