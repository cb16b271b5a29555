package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tastebaseapp/tastebase-server/internal/domain"
	"github.com/tastebaseapp/tastebase-server/internal/store"
)

func makeTestTag(id, ownerID, name string) *domain.Tag {
	now := time.Now()
	return &domain.Tag{
		ID:        id,
		OwnerID:   ownerID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestCreateAndGetTag(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-t1", "tags@example.com")

	tag := makeTestTag("tag-1", "user-t1", "Dessert")
	if err := s.CreateTag(ctx, tag); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}

	got, err := s.GetTag(ctx, "user-t1", "tag-1")
	if err != nil {
		t.Fatalf("GetTag: %v", err)
	}
	if got.Name != "Dessert" {
		t.Errorf("Name: got %q, want %q", got.Name, "Dessert")
	}
	if got.OwnerID != "user-t1" {
		t.Errorf("OwnerID: got %q, want %q", got.OwnerID, "user-t1")
	}
	if got.CreatedAt.Unix() != tag.CreatedAt.Unix() {
		t.Errorf("CreatedAt: got %v, want %v", got.CreatedAt, tag.CreatedAt)
	}
}

func TestGetTag_OtherOwnerLooksMissing(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-a", "a@example.com")
	insertTestUser(t, s, "user-b", "b@example.com")

	tag := makeTestTag("tag-own-1", "user-a", "Comfort Food")
	if err := s.CreateTag(ctx, tag); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}

	// A different owner gets not found, not a permission error.
	_, err := s.GetTag(ctx, "user-b", "tag-own-1")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound for other owner, got %v", err)
	}
}

func TestListTags_OrderAndScope(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-l1", "l1@example.com")
	insertTestUser(t, s, "user-l2", "l2@example.com")

	names := []struct {
		id   string
		name string
	}{
		{"tag-l1", "Appetizer"},
		{"tag-l2", "Zesty"},
		{"tag-l3", "Mexican"},
	}
	for _, td := range names {
		if err := s.CreateTag(ctx, makeTestTag(td.id, "user-l1", td.name)); err != nil {
			t.Fatalf("CreateTag(%s): %v", td.id, err)
		}
	}
	// Another user's tag must never leak into the listing.
	if err := s.CreateTag(ctx, makeTestTag("tag-l4", "user-l2", "Zucchini")); err != nil {
		t.Fatalf("CreateTag other user: %v", err)
	}

	got, err := s.ListTags(ctx, "user-l1", false)
	if err != nil {
		t.Fatalf("ListTags: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 tags, got %d", len(got))
	}

	// Sorted by name DESC.
	want := []string{"Zesty", "Mexican", "Appetizer"}
	for i, name := range want {
		if got[i].Name != name {
			t.Errorf("item %d: got name %q, want %q", i, got[i].Name, name)
		}
	}
}

func TestListTags_AssignedOnly(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-as1", "as1@example.com")
	insertTestUser(t, s, "user-as2", "as2@example.com")

	if err := s.CreateTag(ctx, makeTestTag("tag-as1", "user-as1", "Used")); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}
	if err := s.CreateTag(ctx, makeTestTag("tag-as2", "user-as1", "Unused")); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}

	recipe := makeTestRecipe("recipe-as1", "user-as1", "Tacos")
	if err := s.CreateRecipe(ctx, recipe, []string{"Used"}, nil); err != nil {
		t.Fatalf("CreateRecipe: %v", err)
	}
	// Two recipes sharing the tag must not duplicate it in the listing.
	recipe2 := makeTestRecipe("recipe-as2", "user-as1", "Burritos")
	if err := s.CreateRecipe(ctx, recipe2, []string{"Used"}, nil); err != nil {
		t.Fatalf("CreateRecipe 2: %v", err)
	}

	got, err := s.ListTags(ctx, "user-as1", true)
	if err != nil {
		t.Fatalf("ListTags assignedOnly: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 assigned tag, got %d", len(got))
	}
	if got[0].Name != "Used" {
		t.Errorf("got %q, want %q", got[0].Name, "Used")
	}

	// A user with no recipes sees nothing in assigned-only mode.
	got, err = s.ListTags(ctx, "user-as2", true)
	if err != nil {
		t.Fatalf("ListTags assignedOnly other user: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected 0 assigned tags for other user, got %d", len(got))
	}
}

func TestUpdateTag(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-ut1", "ut1@example.com")

	tag := makeTestTag("tag-ut1", "user-ut1", "Old Name")
	if err := s.CreateTag(ctx, tag); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}

	tag.Name = "New Name"
	tag.UpdatedAt = time.Now()
	if err := s.UpdateTag(ctx, tag); err != nil {
		t.Fatalf("UpdateTag: %v", err)
	}

	got, err := s.GetTag(ctx, "user-ut1", "tag-ut1")
	if err != nil {
		t.Fatalf("GetTag: %v", err)
	}
	if got.Name != "New Name" {
		t.Errorf("Name: got %q, want %q", got.Name, "New Name")
	}

	// Updating under the wrong owner reports not found.
	tag.OwnerID = "user-other"
	if err := s.UpdateTag(ctx, tag); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound for wrong owner, got %v", err)
	}
}

func TestDeleteTag_PreservesRecipes(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-dt1", "dt1@example.com")

	recipe := makeTestRecipe("recipe-dt1", "user-dt1", "Curry")
	if err := s.CreateRecipe(ctx, recipe, []string{"Spicy"}, nil); err != nil {
		t.Fatalf("CreateRecipe: %v", err)
	}
	if len(recipe.Tags) != 1 {
		t.Fatalf("expected 1 tag on recipe, got %d", len(recipe.Tags))
	}
	tagID := recipe.Tags[0].ID

	if err := s.DeleteTag(ctx, "user-dt1", tagID); err != nil {
		t.Fatalf("DeleteTag: %v", err)
	}

	// The recipe survives with the tag detached.
	got, err := s.GetRecipe(ctx, "user-dt1", "recipe-dt1")
	if err != nil {
		t.Fatalf("GetRecipe: %v", err)
	}
	if len(got.Tags) != 0 {
		t.Errorf("expected 0 tags after delete, got %d", len(got.Tags))
	}
}

func TestFindOrCreateTag(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-fc1", "fc1@example.com")
	insertTestUser(t, s, "user-fc2", "fc2@example.com")

	// First call creates.
	tag1, created, err := s.FindOrCreateTag(ctx, "user-fc1", "Breakfast")
	if err != nil {
		t.Fatalf("FindOrCreateTag (create): %v", err)
	}
	if !created {
		t.Error("expected created=true for new tag")
	}
	if tag1.ID == "" {
		t.Error("expected non-empty ID for created tag")
	}
	if tag1.OwnerID != "user-fc1" {
		t.Errorf("OwnerID: got %q, want %q", tag1.OwnerID, "user-fc1")
	}

	// Second call with the same name reuses the row.
	tag2, created2, err := s.FindOrCreateTag(ctx, "user-fc1", "Breakfast")
	if err != nil {
		t.Fatalf("FindOrCreateTag (find): %v", err)
	}
	if created2 {
		t.Error("expected created=false for existing tag")
	}
	if tag2.ID != tag1.ID {
		t.Errorf("expected same ID %q, got %q", tag1.ID, tag2.ID)
	}

	// Name matching is exact, so a different case creates a new row.
	tag3, created3, err := s.FindOrCreateTag(ctx, "user-fc1", "breakfast")
	if err != nil {
		t.Fatalf("FindOrCreateTag (case): %v", err)
	}
	if !created3 {
		t.Error("expected created=true for differently cased name")
	}
	if tag3.ID == tag1.ID {
		t.Error("expected distinct tag for differently cased name")
	}

	// The natural key is per owner: same name under another user creates
	// an independent row.
	tag4, created4, err := s.FindOrCreateTag(ctx, "user-fc2", "Breakfast")
	if err != nil {
		t.Fatalf("FindOrCreateTag (other owner): %v", err)
	}
	if !created4 {
		t.Error("expected created=true under other owner")
	}
	if tag4.ID == tag1.ID {
		t.Error("expected distinct tag under other owner")
	}
}

func TestFindOrCreateTag_SkipsDuplicateCheck(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-fd1", "fd1@example.com")

	// Explicit creates may produce duplicate names; find-or-create must
	// settle on one of them deterministically instead of failing.
	if err := s.CreateTag(ctx, makeTestTag("tag-fd1", "user-fd1", "Dinner")); err != nil {
		t.Fatalf("CreateTag 1: %v", err)
	}
	if err := s.CreateTag(ctx, makeTestTag("tag-fd2", "user-fd1", "Dinner")); err != nil {
		t.Fatalf("CreateTag 2: %v", err)
	}

	got, created, err := s.FindOrCreateTag(ctx, "user-fd1", "Dinner")
	if err != nil {
		t.Fatalf("FindOrCreateTag: %v", err)
	}
	if created {
		t.Error("expected created=false when duplicates exist")
	}
	if got.ID != "tag-fd1" && got.ID != "tag-fd2" {
		t.Errorf("expected one of the existing rows, got %q", got.ID)
	}

	// Repeated calls pick the same row.
	again, _, err := s.FindOrCreateTag(ctx, "user-fd1", "Dinner")
	if err != nil {
		t.Fatalf("FindOrCreateTag again: %v", err)
	}
	if again.ID != got.ID {
		t.Errorf("expected stable pick %q, got %q", got.ID, again.ID)
	}
}
