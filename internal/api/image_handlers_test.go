package api

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// encodeTestJPEG produces a small valid JPEG in memory.
func encodeTestJPEG(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := range 16 {
		for x := range 16 {
			img.Set(x, y, color.RGBA{R: uint8(x * 16), G: uint8(y * 16), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

// uploadImage sends a multipart upload for the recipe and returns the
// recorded response.
func (ts *testServer) uploadImage(t *testing.T, token, recipeID, fieldName string, data []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(fieldName, "photo.jpg")
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/recipes/"+recipeID+"/image", &buf)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	rec := httptest.NewRecorder()
	ts.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) getImage(t *testing.T, token, recipeID string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/recipes/"+recipeID+"/image", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.ServeHTTP(rec, req)
	return rec
}

func TestUploadRecipeImage(t *testing.T) {
	ts := newTestServer(t)
	token := ts.registerAndLogin(t, "alice@example.com")
	recipe := ts.createRecipe(t, token, map[string]any{"title": "Tarte Tatin"})

	data := encodeTestJPEG(t)
	rec := ts.uploadImage(t, token, recipe.ID, "image", data)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	env := decodeBody[ImageResponse](t, rec.Body.Bytes())
	assert.Equal(t, 1, env.Version)
	assert.Equal(t, recipe.ID+".jpg", env.Data.Filename)
	assert.Equal(t, "jpeg", env.Data.Format)
	assert.Equal(t, int64(len(data)), env.Data.Size)
	assert.NotEmpty(t, env.Data.BlurHash)

	// The recipe now carries the image metadata.
	resp := ts.api.Get("/api/v1/recipes/"+recipe.ID, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)
	got := decodeBody[RecipeResponse](t, resp.Body.Bytes()).Data
	require.NotNil(t, got.Image)
	assert.Equal(t, "jpeg", got.Image.Format)
}

func TestUploadRecipeImage_RejectsNonImage(t *testing.T) {
	ts := newTestServer(t)
	token := ts.registerAndLogin(t, "alice@example.com")
	recipe := ts.createRecipe(t, token, map[string]any{"title": "Plain"})

	rec := ts.uploadImage(t, token, recipe.ID, "image", []byte("definitely not an image"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// The recipe stays untouched.
	resp := ts.api.Get("/api/v1/recipes/"+recipe.ID, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Nil(t, decodeBody[RecipeResponse](t, resp.Body.Bytes()).Data.Image)
}

func TestUploadRecipeImage_RejectsCorruptPayload(t *testing.T) {
	ts := newTestServer(t)
	token := ts.registerAndLogin(t, "alice@example.com")
	recipe := ts.createRecipe(t, token, map[string]any{"title": "Plain"})

	// Starts with the JPEG magic number but is not a decodable image.
	corrupt := append([]byte{0xFF, 0xD8, 0xFF}, []byte("this is not a decodable jpeg payload")...)
	rec := ts.uploadImage(t, token, recipe.ID, "image", corrupt)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Nothing was stored and the recipe stays untouched.
	resp := ts.api.Get("/api/v1/recipes/"+recipe.ID, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Nil(t, decodeBody[RecipeResponse](t, resp.Body.Bytes()).Data.Image)

	rec = ts.getImage(t, token, recipe.ID)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUploadRecipeImage_WrongFieldName(t *testing.T) {
	ts := newTestServer(t)
	token := ts.registerAndLogin(t, "alice@example.com")
	recipe := ts.createRecipe(t, token, map[string]any{"title": "Plain"})

	rec := ts.uploadImage(t, token, recipe.ID, "file", encodeTestJPEG(t))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadRecipeImage_UnknownRecipe(t *testing.T) {
	ts := newTestServer(t)
	token := ts.registerAndLogin(t, "alice@example.com")

	rec := ts.uploadImage(t, token, "recipe-missing", "image", encodeTestJPEG(t))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetRecipeImage_StreamsBytes(t *testing.T) {
	ts := newTestServer(t)
	token := ts.registerAndLogin(t, "alice@example.com")
	recipe := ts.createRecipe(t, token, map[string]any{"title": "Pavlova"})

	data := encodeTestJPEG(t)
	rec := ts.uploadImage(t, token, recipe.ID, "image", data)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.getImage(t, token, recipe.ID)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/jpeg", rec.Header().Get("Content-Type"))
	assert.Equal(t, data, rec.Body.Bytes())
}

func TestGetRecipeImage_RequiresAuth(t *testing.T) {
	ts := newTestServer(t)
	token := ts.registerAndLogin(t, "alice@example.com")
	recipe := ts.createRecipe(t, token, map[string]any{"title": "Locked"})

	rec := ts.getImage(t, "", recipe.ID)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRecipeImage_CrossUserIsolation(t *testing.T) {
	ts := newTestServer(t)
	aliceToken := ts.registerAndLogin(t, "alice@example.com")
	bobToken := ts.registerAndLogin(t, "bob@example.com")
	recipe := ts.createRecipe(t, aliceToken, map[string]any{"title": "Private Dish"})

	rec := ts.uploadImage(t, aliceToken, recipe.ID, "image", encodeTestJPEG(t))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.getImage(t, bobToken, recipe.ID)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	resp := ts.api.Delete("/api/v1/recipes/"+recipe.ID+"/image", "Authorization: Bearer "+bobToken)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestDeleteRecipeImage(t *testing.T) {
	ts := newTestServer(t)
	token := ts.registerAndLogin(t, "alice@example.com")
	recipe := ts.createRecipe(t, token, map[string]any{"title": "Transient"})

	rec := ts.uploadImage(t, token, recipe.ID, "image", encodeTestJPEG(t))
	require.Equal(t, http.StatusOK, rec.Code)

	resp := ts.api.Delete("/api/v1/recipes/"+recipe.ID+"/image", "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusNoContent, resp.Code)

	// Metadata is gone from the recipe and the bytes are gone too.
	resp = ts.api.Get("/api/v1/recipes/"+recipe.ID, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Nil(t, decodeBody[RecipeResponse](t, resp.Body.Bytes()).Data.Image)

	rec = ts.getImage(t, token, recipe.ID)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
