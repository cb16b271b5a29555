package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerAdminRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "createSuperuser",
		Method:        http.MethodPost,
		Path:          "/api/v1/admin/users",
		Summary:       "Create superuser",
		Description:   "Creates an admin account. Requires staff or superuser privileges.",
		Tags:          []string{"Admin"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateSuperuser)
}

// === DTOs ===

// CreateSuperuserRequest is the request body for provisioning an admin.
type CreateSuperuserRequest struct {
	_ struct{} `json:"-" additionalProperties:"true"`

	Email    string `json:"email,omitempty" doc:"Admin email address"`
	Password string `json:"password,omitempty" doc:"Admin password (min 5 chars)"`
}

// CreateSuperuserInput wraps the request for Huma.
type CreateSuperuserInput struct {
	Authorization string `header:"Authorization"`
	Body          CreateSuperuserRequest
}

// === Handlers ===

func (s *Server) handleCreateSuperuser(ctx context.Context, input *CreateSuperuserInput) (*UserOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if !user.IsAdmin() {
		return nil, huma.Error403Forbidden("Admin privileges required")
	}

	created, err := s.services.Auth.CreateSuperuser(ctx, input.Body.Email, input.Body.Password)
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: mapUserResponse(created)}, nil
}
