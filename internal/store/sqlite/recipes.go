package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/tastebaseapp/tastebase-server/internal/domain"
	"github.com/tastebaseapp/tastebase-server/internal/store"
)

// recipeColumns is the ordered list of columns selected in recipe queries.
// Must match the scan order in scanRecipe.
const recipeColumns = `id, user_id, title, description, price_cents, time_minutes, link,
	image_filename, image_format, image_size, image_blurhash, created_at, updated_at`

// scanRecipe scans a sql.Row (or sql.Rows via its Scan method) into a
// domain.Recipe. Associations are loaded separately.
func scanRecipe(scanner interface{ Scan(dest ...any) error }) (*domain.Recipe, error) {
	var (
		r          domain.Recipe
		priceCents int64
		img        domain.ImageFileInfo
		createdAt  string
		updatedAt  string
	)

	err := scanner.Scan(
		&r.ID,
		&r.OwnerID,
		&r.Title,
		&r.Description,
		&priceCents,
		&r.TimeMinutes,
		&r.Link,
		&img.Filename,
		&img.Format,
		&img.Size,
		&img.BlurHash,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	r.Price = centsToPrice(priceCents)
	if img.Filename != "" {
		r.Image = &img
	}

	r.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	r.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &r, nil
}

// ListRecipes returns the owner's recipes, newest first. A non-zero
// filter keeps recipes linked to any of the given tag or ingredient
// IDs; the EXISTS subqueries keep the result duplicate-free.
func (s *Store) ListRecipes(ctx context.Context, ownerID string, filter store.RecipeFilter) ([]*domain.Recipe, error) {
	var b strings.Builder
	b.WriteString(`SELECT ` + recipeColumns + ` FROM recipes WHERE user_id = ?`)
	args := []any{ownerID}

	var conds []string
	if len(filter.TagIDs) > 0 {
		conds = append(conds, `EXISTS (SELECT 1 FROM recipe_tags rt
			WHERE rt.recipe_id = recipes.id AND rt.tag_id IN (`+placeholders(len(filter.TagIDs))+`))`)
		for _, id := range filter.TagIDs {
			args = append(args, id)
		}
	}
	if len(filter.IngredientIDs) > 0 {
		conds = append(conds, `EXISTS (SELECT 1 FROM recipe_ingredients ri
			WHERE ri.recipe_id = recipes.id AND ri.ingredient_id IN (`+placeholders(len(filter.IngredientIDs))+`))`)
		for _, id := range filter.IngredientIDs {
			args = append(args, id)
		}
	}
	if len(conds) > 0 {
		b.WriteString(` AND (` + strings.Join(conds, ` OR `) + `)`)
	}
	b.WriteString(` ORDER BY rowid DESC`)

	rows, err := s.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recipes []*domain.Recipe
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, r := range recipes {
		if err := s.loadAssociations(ctx, s.db, r); err != nil {
			return nil, err
		}
	}

	if recipes == nil {
		recipes = []*domain.Recipe{}
	}
	return recipes, nil
}

// GetRecipe retrieves one of the owner's recipes with its tags and
// ingredients. A recipe owned by someone else is indistinguishable
// from a missing one.
func (s *Store) GetRecipe(ctx context.Context, ownerID, id string) (*domain.Recipe, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+recipeColumns+` FROM recipes WHERE id = ? AND user_id = ?`, id, ownerID)

	r, err := scanRecipe(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := s.loadAssociations(ctx, s.db, r); err != nil {
		return nil, err
	}
	return r, nil
}

// loadAssociations fills in a recipe's tags and ingredients, each
// ordered by name descending to match the catalog listings.
func (s *Store) loadAssociations(ctx context.Context, q dbtx, r *domain.Recipe) error {
	tagRows, err := q.QueryContext(ctx, `
		SELECT t.id, t.user_id, t.name, t.created_at, t.updated_at
		FROM tags t
		JOIN recipe_tags rt ON rt.tag_id = t.id
		WHERE rt.recipe_id = ?
		ORDER BY t.name DESC, t.id DESC`, r.ID)
	if err != nil {
		return err
	}
	defer tagRows.Close()

	r.Tags = []*domain.Tag{}
	for tagRows.Next() {
		n, err := scanNamed(tagRows)
		if err != nil {
			return err
		}
		r.Tags = append(r.Tags, namedToTag(n))
	}
	if err := tagRows.Err(); err != nil {
		return err
	}

	ingRows, err := q.QueryContext(ctx, `
		SELECT i.id, i.user_id, i.name, i.created_at, i.updated_at
		FROM ingredients i
		JOIN recipe_ingredients ri ON ri.ingredient_id = i.id
		WHERE ri.recipe_id = ?
		ORDER BY i.name DESC, i.id DESC`, r.ID)
	if err != nil {
		return err
	}
	defer ingRows.Close()

	r.Ingredients = []*domain.Ingredient{}
	for ingRows.Next() {
		n, err := scanNamed(ingRows)
		if err != nil {
			return err
		}
		r.Ingredients = append(r.Ingredients, namedToIngredient(n))
	}
	return ingRows.Err()
}

// CreateRecipe inserts the recipe, resolves every tag and ingredient
// name through find-or-create, and links them. Everything runs in one
// transaction so a failed link never leaves a half-composed recipe.
func (s *Store) CreateRecipe(ctx context.Context, recipe *domain.Recipe, tagNames, ingredientNames []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO recipes (
			id, user_id, title, description, price_cents, time_minutes, link,
			image_filename, image_format, image_size, image_blurhash,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, '', '', 0, '', ?, ?)`,
		recipe.ID,
		recipe.OwnerID,
		recipe.Title,
		recipe.Description,
		priceToCents(recipe.Price),
		recipe.TimeMinutes,
		recipe.Link,
		formatTime(recipe.CreatedAt),
		formatTime(recipe.UpdatedAt),
	)
	if err != nil {
		return err
	}

	if err := s.linkNames(ctx, tx, recipe, tagTable, tagNames); err != nil {
		return err
	}
	if err := s.linkNames(ctx, tx, recipe, ingredientTable, ingredientNames); err != nil {
		return err
	}

	if err := s.loadAssociations(ctx, tx, recipe); err != nil {
		return err
	}
	return tx.Commit()
}

// UpdateRecipe rewrites the recipe's scalar fields and, for each name
// list that is non-nil, clears and rebuilds that association set. A
// nil list leaves the set untouched; an empty one clears it. The whole
// operation is one transaction.
// Returns store.ErrNotFound when the recipe is missing or owned by
// another user.
func (s *Store) UpdateRecipe(ctx context.Context, recipe *domain.Recipe, tagNames, ingredientNames *[]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE recipes SET
			title = ?, description = ?, price_cents = ?, time_minutes = ?,
			link = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		recipe.Title,
		recipe.Description,
		priceToCents(recipe.Price),
		recipe.TimeMinutes,
		recipe.Link,
		formatTime(recipe.UpdatedAt),
		recipe.ID,
		recipe.OwnerID,
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}

	if tagNames != nil {
		if err := s.clearAssociations(ctx, tx, tagTable, recipe.ID); err != nil {
			return err
		}
		if err := s.linkNames(ctx, tx, recipe, tagTable, *tagNames); err != nil {
			return err
		}
	}
	if ingredientNames != nil {
		if err := s.clearAssociations(ctx, tx, ingredientTable, recipe.ID); err != nil {
			return err
		}
		if err := s.linkNames(ctx, tx, recipe, ingredientTable, *ingredientNames); err != nil {
			return err
		}
	}

	if err := s.loadAssociations(ctx, tx, recipe); err != nil {
		return err
	}
	return tx.Commit()
}

// linkNames resolves each name through find-or-create under the
// recipe's owner and inserts the association rows. Duplicate names in
// the input collapse onto the same entity row.
func (s *Store) linkNames(ctx context.Context, tx *sql.Tx, recipe *domain.Recipe, nt namedTable, names []string) error {
	now := formatTime(time.Now().UTC())
	for _, name := range names {
		n, _, err := findOrCreateNamed(ctx, tx, nt, recipe.OwnerID, name)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, fmt.Sprintf(
			`INSERT OR IGNORE INTO %s (recipe_id, %s, created_at) VALUES (?, ?, ?)`,
			nt.assocTable, nt.assocCol),
			recipe.ID, n.ID, now)
		if err != nil {
			return err
		}
	}
	return nil
}

// clearAssociations removes every association row for the recipe in
// the given table. The entities on the other side stay.
func (s *Store) clearAssociations(ctx context.Context, tx *sql.Tx, nt namedTable, recipeID string) error {
	_, err := tx.ExecContext(ctx, fmt.Sprintf(
		`DELETE FROM %s WHERE recipe_id = ?`, nt.assocTable), recipeID)
	return err
}

// DeleteRecipe removes one of the owner's recipes. Association rows
// cascade; the tags and ingredients they pointed at survive.
func (s *Store) DeleteRecipe(ctx context.Context, ownerID, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM recipes WHERE id = ? AND user_id = ?`, id, ownerID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// SetRecipeImage stores or clears the recipe's image metadata.
// Passing nil info clears the image columns.
func (s *Store) SetRecipeImage(ctx context.Context, ownerID, id string, info *domain.ImageFileInfo) error {
	img := domain.ImageFileInfo{}
	if info != nil {
		img = *info
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE recipes SET
			image_filename = ?, image_format = ?, image_size = ?, image_blurhash = ?,
			updated_at = ?
		WHERE id = ? AND user_id = ?`,
		img.Filename,
		img.Format,
		img.Size,
		img.BlurHash,
		formatTime(time.Now().UTC()),
		id,
		ownerID,
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// placeholders returns n comma-joined SQL placeholders.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
