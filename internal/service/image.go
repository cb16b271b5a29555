package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tastebaseapp/tastebase-server/internal/domain"
	domainerrors "github.com/tastebaseapp/tastebase-server/internal/errors"
	"github.com/tastebaseapp/tastebase-server/internal/media/images"
	"github.com/tastebaseapp/tastebase-server/internal/store"
)

// maxImageSize caps recipe image uploads at 10 MB.
const maxImageSize = 10 << 20

// ImageService attaches images to recipes: file storage plus the
// metadata columns on the recipe row.
type ImageService struct {
	store   store.Store
	storage *images.Storage
	logger  *slog.Logger
}

// NewImageService creates a new image service.
func NewImageService(store store.Store, storage *images.Storage, logger *slog.Logger) *ImageService {
	return &ImageService{
		store:   store,
		storage: storage,
		logger:  logger,
	}
}

// ImageData is a stored image with its sniffed format.
type ImageData struct {
	Data   []byte
	Format string
}

// Attach validates and stores an uploaded image for one of the user's
// recipes, replacing any previous image. The format is sniffed from
// the bytes, never trusted from the upload.
func (s *ImageService) Attach(ctx context.Context, userID, recipeID string, data []byte) (*domain.ImageFileInfo, error) {
	if len(data) == 0 {
		return nil, domainerrors.Validation("image data is empty")
	}
	if len(data) > maxImageSize {
		return nil, domainerrors.Validation("image exceeds maximum size of 10MB")
	}

	format, ok := images.DetectFormat(data)
	if !ok {
		return nil, domainerrors.Validation("unsupported image format (expected JPEG, PNG, WebP, or GIF)")
	}

	// A matching magic prefix over garbage bytes must fail here, before
	// any file or row is touched.
	img, err := images.Decode(data)
	if err != nil {
		return nil, domainerrors.Validation("corrupt image data")
	}

	recipe, err := s.store.GetRecipe(ctx, userID, recipeID)
	if err != nil {
		return nil, mapStoreError(err)
	}

	// Replacing with a different format leaves the old file orphaned
	// unless we remove it first.
	if recipe.HasImage() && recipe.Image.Format != format {
		if err := s.storage.Delete(recipe.Image.Filename); err != nil {
			s.logger.Warn("delete old recipe image", "recipe_id", recipeID, "error", err)
		}
	}

	blurHash, err := images.ComputeBlurHash(img)
	if err != nil {
		s.logger.Warn("compute blurhash", "recipe_id", recipeID, "error", err)
		blurHash = ""
	}

	filename := fmt.Sprintf("%s.%s", recipeID, images.Extension(format))
	if err := s.storage.Save(filename, data); err != nil {
		return nil, fmt.Errorf("save image: %w", err)
	}

	info := &domain.ImageFileInfo{
		Filename: filename,
		Format:   format,
		Size:     int64(len(data)),
		BlurHash: blurHash,
	}

	if err := s.store.SetRecipeImage(ctx, userID, recipeID, info); err != nil {
		return nil, mapStoreError(err)
	}

	s.logger.Info("recipe image attached",
		"recipe_id", recipeID,
		"format", format,
		"size", info.Size,
	)

	return info, nil
}

// Get streams the stored image for one of the user's recipes.
func (s *ImageService) Get(ctx context.Context, userID, recipeID string) (*ImageData, error) {
	recipe, err := s.store.GetRecipe(ctx, userID, recipeID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	if !recipe.HasImage() {
		return nil, domainerrors.NotFound("recipe has no image")
	}

	data, err := s.storage.Get(recipe.Image.Filename)
	if err != nil {
		return nil, domainerrors.NotFound("image file missing").WithCause(err)
	}

	return &ImageData{
		Data:   data,
		Format: recipe.Image.Format,
	}, nil
}

// Delete removes the image from one of the user's recipes, both the
// file and the metadata.
func (s *ImageService) Delete(ctx context.Context, userID, recipeID string) error {
	recipe, err := s.store.GetRecipe(ctx, userID, recipeID)
	if err != nil {
		return mapStoreError(err)
	}
	if !recipe.HasImage() {
		return domainerrors.NotFound("recipe has no image")
	}

	if err := s.storage.Delete(recipe.Image.Filename); err != nil {
		s.logger.Warn("delete recipe image file", "recipe_id", recipeID, "error", err)
	}

	if err := s.store.SetRecipeImage(ctx, userID, recipeID, nil); err != nil {
		return mapStoreError(err)
	}

	s.logger.Info("recipe image deleted", "recipe_id", recipeID)

	return nil
}
