package response

import (
	"encoding/json/v2"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainerrors "github.com/tastebaseapp/tastebase-server/internal/errors"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	Success(rec, map[string]string{"id": "recipe-1"}, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	env := decodeEnvelope(t, rec)
	assert.Equal(t, 1, env.Version)
	assert.True(t, env.Success)
	assert.Empty(t, env.Error)
}

func TestCreated(t *testing.T) {
	rec := httptest.NewRecorder()
	Created(rec, map[string]string{"id": "recipe-1"}, nil)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, decodeEnvelope(t, rec).Success)
}

func TestNoContent(t *testing.T) {
	rec := httptest.NewRecorder()
	NoContent(rec)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestErrorResponses(t *testing.T) {
	tests := []struct {
		name   string
		write  func(w http.ResponseWriter)
		status int
	}{
		{"bad request", func(w http.ResponseWriter) { BadRequest(w, "nope", nil) }, http.StatusBadRequest},
		{"unauthorized", func(w http.ResponseWriter) { Unauthorized(w, "nope", nil) }, http.StatusUnauthorized},
		{"not found", func(w http.ResponseWriter) { NotFound(w, "nope", nil) }, http.StatusNotFound},
		{"too many requests", func(w http.ResponseWriter) { TooManyRequests(w, "nope", nil) }, http.StatusTooManyRequests},
		{"internal", func(w http.ResponseWriter) { InternalError(w, "nope", nil) }, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.write(rec)

			assert.Equal(t, tt.status, rec.Code)
			env := decodeEnvelope(t, rec)
			assert.Equal(t, 1, env.Version)
			assert.False(t, env.Success)
			assert.Equal(t, "nope", env.Error)
		})
	}
}

func TestHandleError_DomainError(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, domainerrors.NotFound("recipe not found"), nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "recipe not found", decodeEnvelope(t, rec).Error)
}

func TestHandleError_UnknownError(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, errors.New("disk on fire"), nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	// Internal details never leak to the client.
	assert.Equal(t, "internal server error", decodeEnvelope(t, rec).Error)
}
