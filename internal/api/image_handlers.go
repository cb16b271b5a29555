package api

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"
	"github.com/tastebaseapp/tastebase-server/internal/http/response"
)

// maxUploadSize caps multipart image uploads at 10MB.
const maxUploadSize = 10 << 20

func (s *Server) registerImageRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteRecipeImage",
		Method:        http.MethodDelete,
		Path:          "/api/v1/recipes/{id}/image",
		Summary:       "Delete recipe image",
		Description:   "Removes the image from a recipe",
		Tags:          []string{"Images"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteRecipeImage)

	// Upload and download work on raw bytes and multipart forms, so
	// they go through chi directly, not Huma.
	s.router.Post("/api/v1/recipes/{id}/image", s.handleUploadRecipeImage)
	s.router.Get("/api/v1/recipes/{id}/image", s.handleGetRecipeImage)
}

// === DTOs ===

// ImageResponse describes the stored image after upload.
type ImageResponse struct {
	Filename string `json:"filename" doc:"Stored filename"`
	Format   string `json:"format" doc:"Detected image format"`
	Size     int64  `json:"size" doc:"File size in bytes"`
	BlurHash string `json:"blur_hash,omitempty" doc:"BlurHash placeholder string"`
}

// DeleteRecipeImageInput contains parameters for deleting an image.
type DeleteRecipeImageInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Recipe ID"`
}

// === Handlers ===

// handleUploadRecipeImage attaches an image to a recipe.
// POST /api/v1/recipes/{id}/image
// Content-Type: multipart/form-data with "image" field
func (s *Server) handleUploadRecipeImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := s.authenticateRequest(ctx, r.Header.Get("Authorization"))
	if err != nil {
		response.Unauthorized(w, "Invalid or expired token", s.logger)
		return
	}

	recipeID := chi.URLParam(r, "id")

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		response.BadRequest(w, "Failed to parse form data", s.logger)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		response.BadRequest(w, "No file uploaded. Use 'image' field in multipart form", s.logger)
		return
	}
	defer file.Close()

	if header.Size > maxUploadSize {
		response.BadRequest(w, "File too large. Maximum size is 10MB", s.logger)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		s.logger.Error("Failed to read uploaded file", "error", err, "recipe_id", recipeID)
		response.InternalError(w, "Failed to read uploaded file", s.logger)
		return
	}

	info, err := s.services.Image.Attach(ctx, user.ID, recipeID, data)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, ImageResponse{
		Filename: info.Filename,
		Format:   info.Format,
		Size:     info.Size,
		BlurHash: info.BlurHash,
	}, s.logger)
}

func (s *Server) handleDeleteRecipeImage(ctx context.Context, input *DeleteRecipeImageInput) (*DeleteOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Image.Delete(ctx, user.ID, input.ID); err != nil {
		return nil, err
	}

	return &DeleteOutput{}, nil
}

// handleGetRecipeImage streams the stored image bytes.
func (s *Server) handleGetRecipeImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := s.authenticateRequest(ctx, r.Header.Get("Authorization"))
	if err != nil {
		response.Unauthorized(w, "Invalid or expired token", s.logger)
		return
	}

	recipeID := chi.URLParam(r, "id")
	img, err := s.services.Image.Get(ctx, user.ID, recipeID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	w.Header().Set("Content-Type", "image/"+img.Format)
	w.Header().Set("Content-Length", strconv.Itoa(len(img.Data)))
	w.Header().Set("Cache-Control", "private, max-age=86400")
	if _, err := w.Write(img.Data); err != nil {
		s.logger.Warn("stream recipe image", "recipe_id", recipeID, "error", err)
	}
}
