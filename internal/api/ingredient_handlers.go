package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/tastebaseapp/tastebase-server/internal/domain"
	"github.com/tastebaseapp/tastebase-server/internal/service"
)

func (s *Server) registerIngredientRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listIngredients",
		Method:      http.MethodGet,
		Path:        "/api/v1/ingredients",
		Summary:     "List ingredients",
		Description: "Returns the current user's ingredients, name-descending",
		Tags:        []string{"Ingredients"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListIngredients)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createIngredient",
		Method:        http.MethodPost,
		Path:          "/api/v1/ingredients",
		Summary:       "Create ingredient",
		Description:   "Creates a new ingredient",
		Tags:          []string{"Ingredients"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateIngredient)

	huma.Register(s.api, huma.Operation{
		OperationID: "getIngredient",
		Method:      http.MethodGet,
		Path:        "/api/v1/ingredients/{id}",
		Summary:     "Get ingredient",
		Description: "Returns an ingredient by ID",
		Tags:        []string{"Ingredients"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetIngredient)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateIngredient",
		Method:      http.MethodPatch,
		Path:        "/api/v1/ingredients/{id}",
		Summary:     "Update ingredient",
		Description: "Renames an ingredient",
		Tags:        []string{"Ingredients"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateIngredient)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteIngredient",
		Method:        http.MethodDelete,
		Path:          "/api/v1/ingredients/{id}",
		Summary:       "Delete ingredient",
		Description:   "Deletes an ingredient; recipes that used it keep their other ingredients",
		Tags:          []string{"Ingredients"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteIngredient)
}

// === DTOs ===

// ListIngredientsInput contains parameters for listing ingredients.
type ListIngredientsInput struct {
	Authorization string `header:"Authorization"`
	AssignedOnly  bool   `query:"assigned_only" doc:"Only ingredients used by at least one of the user's recipes"`
}

// IngredientResponse contains ingredient data in API responses.
type IngredientResponse struct {
	ID        string    `json:"id" doc:"Ingredient ID"`
	Name      string    `json:"name" doc:"Ingredient name"`
	CreatedAt time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt time.Time `json:"updated_at" doc:"Last update time"`
}

// ListIngredientsResponse contains a list of ingredients.
type ListIngredientsResponse struct {
	Ingredients []IngredientResponse `json:"ingredients" doc:"List of ingredients"`
}

// ListIngredientsOutput wraps the list ingredients response for Huma.
type ListIngredientsOutput struct {
	Body ListIngredientsResponse
}

// CreateIngredientInput wraps the create ingredient request for Huma.
type CreateIngredientInput struct {
	Authorization string `header:"Authorization"`
	Body          NamedEntityRequest
}

// IngredientOutput wraps the ingredient response for Huma.
type IngredientOutput struct {
	Body IngredientResponse
}

// GetIngredientInput contains parameters for getting an ingredient.
type GetIngredientInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Ingredient ID"`
}

// UpdateIngredientInput wraps the rename request for Huma.
type UpdateIngredientInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Ingredient ID"`
	Body          NamedEntityRequest
}

// DeleteIngredientInput contains parameters for deleting an ingredient.
type DeleteIngredientInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Ingredient ID"`
}

// === Handlers ===

func (s *Server) handleListIngredients(ctx context.Context, input *ListIngredientsInput) (*ListIngredientsOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	ings, err := s.services.Ingredient.List(ctx, user.ID, input.AssignedOnly)
	if err != nil {
		return nil, err
	}

	resp := make([]IngredientResponse, len(ings))
	for i, ing := range ings {
		resp[i] = mapIngredientResponse(ing)
	}

	return &ListIngredientsOutput{Body: ListIngredientsResponse{Ingredients: resp}}, nil
}

func (s *Server) handleCreateIngredient(ctx context.Context, input *CreateIngredientInput) (*IngredientOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	ing, err := s.services.Ingredient.Create(ctx, user.ID, service.NamedEntityRequest{Name: input.Body.Name})
	if err != nil {
		return nil, err
	}

	return &IngredientOutput{Body: mapIngredientResponse(ing)}, nil
}

func (s *Server) handleGetIngredient(ctx context.Context, input *GetIngredientInput) (*IngredientOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	ing, err := s.services.Ingredient.Get(ctx, user.ID, input.ID)
	if err != nil {
		return nil, err
	}

	return &IngredientOutput{Body: mapIngredientResponse(ing)}, nil
}

func (s *Server) handleUpdateIngredient(ctx context.Context, input *UpdateIngredientInput) (*IngredientOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	ing, err := s.services.Ingredient.Update(ctx, user.ID, input.ID, service.NamedEntityRequest{Name: input.Body.Name})
	if err != nil {
		return nil, err
	}

	return &IngredientOutput{Body: mapIngredientResponse(ing)}, nil
}

func (s *Server) handleDeleteIngredient(ctx context.Context, input *DeleteIngredientInput) (*DeleteOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Ingredient.Delete(ctx, user.ID, input.ID); err != nil {
		return nil, err
	}

	return &DeleteOutput{}, nil
}

// === Helpers ===

func mapIngredientResponse(ing *domain.Ingredient) IngredientResponse {
	return IngredientResponse{
		ID:        ing.ID,
		Name:      ing.Name,
		CreatedAt: ing.CreatedAt,
		UpdatedAt: ing.UpdatedAt,
	}
}
