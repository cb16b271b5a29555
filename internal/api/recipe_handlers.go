package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/tastebaseapp/tastebase-server/internal/domain"
	"github.com/tastebaseapp/tastebase-server/internal/service"
	"github.com/tastebaseapp/tastebase-server/internal/store"
)

func (s *Server) registerRecipeRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listRecipes",
		Method:      http.MethodGet,
		Path:        "/api/v1/recipes",
		Summary:     "List recipes",
		Description: "Returns the current user's recipes, newest first, optionally filtered by tag or ingredient IDs",
		Tags:        []string{"Recipes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListRecipes)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createRecipe",
		Method:        http.MethodPost,
		Path:          "/api/v1/recipes",
		Summary:       "Create recipe",
		Description:   "Creates a recipe; tag and ingredient names resolve through find-or-create",
		Tags:          []string{"Recipes"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateRecipe)

	huma.Register(s.api, huma.Operation{
		OperationID: "getRecipe",
		Method:      http.MethodGet,
		Path:        "/api/v1/recipes/{id}",
		Summary:     "Get recipe",
		Description: "Returns a recipe by ID with its tags and ingredients",
		Tags:        []string{"Recipes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetRecipe)

	huma.Register(s.api, huma.Operation{
		OperationID: "replaceRecipe",
		Method:      http.MethodPut,
		Path:        "/api/v1/recipes/{id}",
		Summary:     "Replace recipe",
		Description: "Replaces every field; absent tag and ingredient lists clear those sets",
		Tags:        []string{"Recipes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleReplaceRecipe)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateRecipe",
		Method:      http.MethodPatch,
		Path:        "/api/v1/recipes/{id}",
		Summary:     "Update recipe",
		Description: "Partially updates a recipe; absent fields and lists stay unchanged",
		Tags:        []string{"Recipes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateRecipe)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteRecipe",
		Method:        http.MethodDelete,
		Path:          "/api/v1/recipes/{id}",
		Summary:       "Delete recipe",
		Description:   "Deletes a recipe; referenced tags and ingredients stay in the catalog",
		Tags:          []string{"Recipes"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteRecipe)
}

// === DTOs ===

// ListRecipesInput contains parameters for listing recipes.
type ListRecipesInput struct {
	Authorization string `header:"Authorization"`
	Tags          string `query:"tags" doc:"Comma-separated tag IDs to filter by"`
	Ingredients   string `query:"ingredients" doc:"Comma-separated ingredient IDs to filter by"`
}

// ImageInfoResponse describes a recipe's attached image.
type ImageInfoResponse struct {
	Filename string `json:"filename" doc:"Stored filename"`
	Format   string `json:"format" doc:"Image format (jpeg, png, webp, gif)"`
	Size     int64  `json:"size" doc:"File size in bytes"`
	BlurHash string `json:"blur_hash,omitempty" doc:"BlurHash placeholder string"`
}

// RecipeResponse contains recipe data in API responses.
type RecipeResponse struct {
	ID          string               `json:"id" doc:"Recipe ID"`
	Title       string               `json:"title" doc:"Recipe title"`
	Description string               `json:"description,omitempty" doc:"Description"`
	Price       float64              `json:"price" doc:"Decimal price"`
	TimeMinutes int                  `json:"time_minutes" doc:"Preparation time in minutes"`
	Link        string               `json:"link,omitempty" doc:"External link"`
	Image       *ImageInfoResponse   `json:"image,omitempty" doc:"Attached image, if any"`
	Tags        []TagResponse        `json:"tags" doc:"Associated tags, name-descending"`
	Ingredients []IngredientResponse `json:"ingredients" doc:"Associated ingredients, name-descending"`
	CreatedAt   time.Time            `json:"created_at" doc:"Creation time"`
	UpdatedAt   time.Time            `json:"updated_at" doc:"Last update time"`
}

// ListRecipesResponse contains a list of recipes.
type ListRecipesResponse struct {
	Recipes []RecipeResponse `json:"recipes" doc:"List of recipes"`
}

// ListRecipesOutput wraps the list recipes response for Huma.
type ListRecipesOutput struct {
	Body ListRecipesResponse
}

// RecipeRequest is the full recipe payload for create and replace.
// Constraints are enforced by the service layer so violations come back
// as 400, not schema errors.
type RecipeRequest struct {
	_ struct{} `json:"-" additionalProperties:"true"`

	Title       string   `json:"title,omitempty" doc:"Recipe title"`
	Description string   `json:"description,omitempty" doc:"Description"`
	Price       float64  `json:"price,omitempty" doc:"Decimal price, at most 99999.99"`
	TimeMinutes int      `json:"time_minutes,omitempty" doc:"Preparation time in minutes"`
	Link        string   `json:"link,omitempty" doc:"External link"`
	Tags        []string `json:"tags,omitempty" doc:"Tag names"`
	Ingredients []string `json:"ingredients,omitempty" doc:"Ingredient names"`
}

// CreateRecipeInput wraps the create recipe request for Huma.
type CreateRecipeInput struct {
	Authorization string `header:"Authorization"`
	Body          RecipeRequest
}

// RecipeOutput wraps the recipe response for Huma.
type RecipeOutput struct {
	Body RecipeResponse
}

// GetRecipeInput contains parameters for getting a recipe.
type GetRecipeInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Recipe ID"`
}

// ReplaceRecipeInput wraps the replace recipe request for Huma.
type ReplaceRecipeInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Recipe ID"`
	Body          RecipeRequest
}

// UpdateRecipeRequest is the partial recipe payload. A present tags or
// ingredients list replaces that set; an empty list clears it.
type UpdateRecipeRequest struct {
	_ struct{} `json:"-" additionalProperties:"true"`

	Title       *string   `json:"title,omitempty" doc:"Recipe title"`
	Description *string   `json:"description,omitempty" doc:"Description"`
	Price       *float64  `json:"price,omitempty" doc:"Decimal price, at most 99999.99"`
	TimeMinutes *int      `json:"time_minutes,omitempty" doc:"Preparation time in minutes"`
	Link        *string   `json:"link,omitempty" doc:"External link"`
	Tags        *[]string `json:"tags,omitempty" doc:"Tag names"`
	Ingredients *[]string `json:"ingredients,omitempty" doc:"Ingredient names"`
}

// UpdateRecipeInput wraps the update recipe request for Huma.
type UpdateRecipeInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Recipe ID"`
	Body          UpdateRecipeRequest
}

// DeleteRecipeInput contains parameters for deleting a recipe.
type DeleteRecipeInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Recipe ID"`
}

// DeleteOutput is an empty response body for 204 deletes.
type DeleteOutput struct{}

// === Handlers ===

func (s *Server) handleListRecipes(ctx context.Context, input *ListRecipesInput) (*ListRecipesOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	filter := store.RecipeFilter{
		TagIDs:        service.ParseFilterIDs(input.Tags),
		IngredientIDs: service.ParseFilterIDs(input.Ingredients),
	}

	recipes, err := s.services.Recipe.List(ctx, user.ID, filter)
	if err != nil {
		return nil, err
	}

	resp := make([]RecipeResponse, len(recipes))
	for i, r := range recipes {
		resp[i] = mapRecipeResponse(r)
	}

	return &ListRecipesOutput{Body: ListRecipesResponse{Recipes: resp}}, nil
}

func (s *Server) handleCreateRecipe(ctx context.Context, input *CreateRecipeInput) (*RecipeOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	recipe, err := s.services.Recipe.Create(ctx, user.ID, mapRecipeRequest(input.Body))
	if err != nil {
		return nil, err
	}

	return &RecipeOutput{Body: mapRecipeResponse(recipe)}, nil
}

func (s *Server) handleGetRecipe(ctx context.Context, input *GetRecipeInput) (*RecipeOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	recipe, err := s.services.Recipe.Get(ctx, user.ID, input.ID)
	if err != nil {
		return nil, err
	}

	return &RecipeOutput{Body: mapRecipeResponse(recipe)}, nil
}

func (s *Server) handleReplaceRecipe(ctx context.Context, input *ReplaceRecipeInput) (*RecipeOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	recipe, err := s.services.Recipe.Replace(ctx, user.ID, input.ID, mapRecipeRequest(input.Body))
	if err != nil {
		return nil, err
	}

	return &RecipeOutput{Body: mapRecipeResponse(recipe)}, nil
}

func (s *Server) handleUpdateRecipe(ctx context.Context, input *UpdateRecipeInput) (*RecipeOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	recipe, err := s.services.Recipe.Update(ctx, user.ID, input.ID, service.UpdateRecipeRequest{
		Title:       input.Body.Title,
		Description: input.Body.Description,
		Price:       input.Body.Price,
		TimeMinutes: input.Body.TimeMinutes,
		Link:        input.Body.Link,
		Tags:        input.Body.Tags,
		Ingredients: input.Body.Ingredients,
	})
	if err != nil {
		return nil, err
	}

	return &RecipeOutput{Body: mapRecipeResponse(recipe)}, nil
}

func (s *Server) handleDeleteRecipe(ctx context.Context, input *DeleteRecipeInput) (*DeleteOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Recipe.Delete(ctx, user.ID, input.ID); err != nil {
		return nil, err
	}

	return &DeleteOutput{}, nil
}

// === Helpers ===

func mapRecipeRequest(body RecipeRequest) service.CreateRecipeRequest {
	return service.CreateRecipeRequest{
		Title:       body.Title,
		Description: body.Description,
		Price:       body.Price,
		TimeMinutes: body.TimeMinutes,
		Link:        body.Link,
		Tags:        body.Tags,
		Ingredients: body.Ingredients,
	}
}

func mapRecipeResponse(r *domain.Recipe) RecipeResponse {
	resp := RecipeResponse{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Price:       r.Price,
		TimeMinutes: r.TimeMinutes,
		Link:        r.Link,
		Tags:        make([]TagResponse, len(r.Tags)),
		Ingredients: make([]IngredientResponse, len(r.Ingredients)),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}

	if r.HasImage() {
		resp.Image = &ImageInfoResponse{
			Filename: r.Image.Filename,
			Format:   r.Image.Format,
			Size:     r.Image.Size,
			BlurHash: r.Image.BlurHash,
		}
	}

	for i, t := range r.Tags {
		resp.Tags[i] = mapTagResponse(t)
	}
	for i, ing := range r.Ingredients {
		resp.Ingredients[i] = mapIngredientResponse(ing)
	}

	return resp
}
