package providers

import (
	"fmt"

	"github.com/samber/do/v2"

	"github.com/tastebaseapp/tastebase-server/internal/config"
	"github.com/tastebaseapp/tastebase-server/internal/logger"
	"github.com/tastebaseapp/tastebase-server/internal/media/images"
)

// ProvideImageStorage provides the recipe image storage.
func ProvideImageStorage(i do.Injector) (*images.Storage, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	storage, err := images.NewStorage(cfg.ImagesPath())
	if err != nil {
		return nil, fmt.Errorf("recipe image storage: %w", err)
	}

	log.Info("Image storage initialized", "path", cfg.ImagesPath())

	return storage, nil
}
