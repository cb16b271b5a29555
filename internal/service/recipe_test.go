package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainerrors "github.com/tastebaseapp/tastebase-server/internal/errors"
	"github.com/tastebaseapp/tastebase-server/internal/store"
)

func strPtr(s string) *string       { return &s }
func floatPtr(f float64) *float64   { return &f }
func listPtr(v ...string) *[]string { return &v }

func TestRecipeService_CreateAndGet(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	user := registerTestUser(t, svc, "recipes@example.com")

	recipe, err := svc.Recipe.Create(ctx, user.ID, CreateRecipeRequest{
		Title:       "Pad Thai",
		Description: "Street food classic",
		Price:       11.50,
		TimeMinutes: 25,
		Tags:        []string{"Thai", "Noodles"},
		Ingredients: []string{"Rice Noodles", "Tamarind"},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, recipe.ID)
	assert.Equal(t, user.ID, recipe.OwnerID)
	assert.Len(t, recipe.Tags, 2)
	assert.Len(t, recipe.Ingredients, 2)

	got, err := svc.Recipe.Get(ctx, user.ID, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pad Thai", got.Title)
	assert.Equal(t, 11.50, got.Price)
}

func TestRecipeService_Create_Validation(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	user := registerTestUser(t, svc, "rv@example.com")

	tests := []struct {
		name string
		req  CreateRecipeRequest
	}{
		{"missing title", CreateRecipeRequest{Price: 5}},
		{"negative price", CreateRecipeRequest{Title: "X", Price: -1}},
		{"price too large", CreateRecipeRequest{Title: "X", Price: 100000}},
		{"negative minutes", CreateRecipeRequest{Title: "X", TimeMinutes: -5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Recipe.Create(ctx, user.ID, tt.req)
			require.Error(t, err)
			assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
		})
	}
}

func TestRecipeService_CrossUserIsolation(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	alice := registerTestUser(t, svc, "alice@example.com")
	bob := registerTestUser(t, svc, "bob@example.com")

	recipe, err := svc.Recipe.Create(ctx, alice.ID, CreateRecipeRequest{Title: "Alice's Pie"})
	require.NoError(t, err)

	// Bob sees not-found, never forbidden.
	_, err = svc.Recipe.Get(ctx, bob.ID, recipe.ID)
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))

	_, err = svc.Recipe.Update(ctx, bob.ID, recipe.ID, UpdateRecipeRequest{Title: strPtr("Bob's Pie")})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))

	err = svc.Recipe.Delete(ctx, bob.ID, recipe.ID)
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))

	// Alice is untouched by all of it.
	got, err := svc.Recipe.Get(ctx, alice.ID, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice's Pie", got.Title)
}

func TestRecipeService_Replace_ClearsAbsentLists(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	user := registerTestUser(t, svc, "replace@example.com")

	recipe, err := svc.Recipe.Create(ctx, user.ID, CreateRecipeRequest{
		Title: "Original",
		Tags:  []string{"Keep?"},
	})
	require.NoError(t, err)

	// Full replace without lists empties both sets.
	updated, err := svc.Recipe.Replace(ctx, user.ID, recipe.ID, CreateRecipeRequest{
		Title: "Replaced",
		Price: 3.25,
	})
	require.NoError(t, err)
	assert.Equal(t, "Replaced", updated.Title)
	assert.Empty(t, updated.Tags)
	assert.Empty(t, updated.Ingredients)
}

func TestRecipeService_Update_PartialSemantics(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	user := registerTestUser(t, svc, "patch@example.com")

	recipe, err := svc.Recipe.Create(ctx, user.ID, CreateRecipeRequest{
		Title:       "Soup",
		Price:       4.00,
		Tags:        []string{"Warm"},
		Ingredients: []string{"Stock"},
	})
	require.NoError(t, err)

	// Absent fields and lists stay put.
	updated, err := svc.Recipe.Update(ctx, user.ID, recipe.ID, UpdateRecipeRequest{
		Price: floatPtr(5.50),
	})
	require.NoError(t, err)
	assert.Equal(t, "Soup", updated.Title)
	assert.Equal(t, 5.50, updated.Price)
	assert.Len(t, updated.Tags, 1)
	assert.Len(t, updated.Ingredients, 1)

	// An empty list clears the set.
	updated, err = svc.Recipe.Update(ctx, user.ID, recipe.ID, UpdateRecipeRequest{
		Tags: listPtr(),
	})
	require.NoError(t, err)
	assert.Empty(t, updated.Tags)
	assert.Len(t, updated.Ingredients, 1)

	// A present list replaces the set and reuses existing entities.
	updated, err = svc.Recipe.Update(ctx, user.ID, recipe.ID, UpdateRecipeRequest{
		Ingredients: listPtr("Stock", "Miso"),
	})
	require.NoError(t, err)
	assert.Len(t, updated.Ingredients, 2)
}

func TestRecipeService_ListAndFilter(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	user := registerTestUser(t, svc, "filter@example.com")

	curry, err := svc.Recipe.Create(ctx, user.ID, CreateRecipeRequest{
		Title: "Curry",
		Tags:  []string{"Spicy"},
	})
	require.NoError(t, err)
	_, err = svc.Recipe.Create(ctx, user.ID, CreateRecipeRequest{Title: "Toast"})
	require.NoError(t, err)

	all, err := svc.Recipe.List(ctx, user.ID, store.RecipeFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
	// Newest first.
	assert.Equal(t, "Toast", all[0].Title)

	filtered, err := svc.Recipe.List(ctx, user.ID, store.RecipeFilter{
		TagIDs: []string{curry.Tags[0].ID},
	})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Curry", filtered[0].Title)
}

func TestParseFilterIDs(t *testing.T) {
	assert.Nil(t, ParseFilterIDs(""))
	assert.Equal(t, []string{"a"}, ParseFilterIDs("a"))
	assert.Equal(t, []string{"a", "b", "c"}, ParseFilterIDs("a,b,c"))
	assert.Equal(t, []string{"a", "b"}, ParseFilterIDs(" a , b ,"))
}
