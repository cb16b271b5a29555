package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainerrors "github.com/tastebaseapp/tastebase-server/internal/errors"
)

func TestTagService_CRUD(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	user := registerTestUser(t, svc, "tags@example.com")

	tag, err := svc.Tag.Create(ctx, user.ID, NamedEntityRequest{Name: "Dessert"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, tag.OwnerID)

	got, err := svc.Tag.Get(ctx, user.ID, tag.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dessert", got.Name)

	renamed, err := svc.Tag.Update(ctx, user.ID, tag.ID, NamedEntityRequest{Name: "Sweets"})
	require.NoError(t, err)
	assert.Equal(t, "Sweets", renamed.Name)

	require.NoError(t, svc.Tag.Delete(ctx, user.ID, tag.ID))

	_, err = svc.Tag.Get(ctx, user.ID, tag.ID)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}

func TestTagService_Create_Validation(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	user := registerTestUser(t, svc, "tagval@example.com")

	_, err := svc.Tag.Create(ctx, user.ID, NamedEntityRequest{})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
}

func TestTagService_ExplicitDuplicatesAllowed(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	user := registerTestUser(t, svc, "dup-tags@example.com")

	_, err := svc.Tag.Create(ctx, user.ID, NamedEntityRequest{Name: "Vegan"})
	require.NoError(t, err)
	// Explicit creation does not enforce the natural key.
	_, err = svc.Tag.Create(ctx, user.ID, NamedEntityRequest{Name: "Vegan"})
	require.NoError(t, err)

	tags, err := svc.Tag.List(ctx, user.ID, false)
	require.NoError(t, err)
	assert.Len(t, tags, 2)
}

func TestIngredientService_CRUD(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	user := registerTestUser(t, svc, "ings@example.com")

	ing, err := svc.Ingredient.Create(ctx, user.ID, NamedEntityRequest{Name: "Paprika"})
	require.NoError(t, err)

	got, err := svc.Ingredient.Get(ctx, user.ID, ing.ID)
	require.NoError(t, err)
	assert.Equal(t, "Paprika", got.Name)

	renamed, err := svc.Ingredient.Update(ctx, user.ID, ing.ID, NamedEntityRequest{Name: "Smoked Paprika"})
	require.NoError(t, err)
	assert.Equal(t, "Smoked Paprika", renamed.Name)

	require.NoError(t, svc.Ingredient.Delete(ctx, user.ID, ing.ID))
}

func TestCatalog_AssignedOnly(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	user := registerTestUser(t, svc, "assigned@example.com")

	_, err := svc.Tag.Create(ctx, user.ID, NamedEntityRequest{Name: "Unused"})
	require.NoError(t, err)

	_, err = svc.Recipe.Create(ctx, user.ID, CreateRecipeRequest{
		Title:       "Salad",
		Tags:        []string{"Fresh"},
		Ingredients: []string{"Lettuce"},
	})
	require.NoError(t, err)

	tags, err := svc.Tag.List(ctx, user.ID, true)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "Fresh", tags[0].Name)

	ings, err := svc.Ingredient.List(ctx, user.ID, true)
	require.NoError(t, err)
	require.Len(t, ings, 1)
	assert.Equal(t, "Lettuce", ings[0].Name)
}
