package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tastebaseapp/tastebase-server/internal/id"
	"github.com/tastebaseapp/tastebase-server/internal/store"
)

// Tags and ingredients have the same shape and the same owner-scoped
// access rules, so the queries are written once against a table
// descriptor instead of duplicated per entity.

// namedTable describes a user-owned named entity table and its recipe
// association table. Values are compile-time constants, never user input.
type namedTable struct {
	table      string // entity table, e.g. "tags"
	assocTable string // association table, e.g. "recipe_tags"
	assocCol   string // FK column in the association table, e.g. "tag_id"
	idPrefix   string // nanoid prefix for new rows
}

var (
	tagTable        = namedTable{table: "tags", assocTable: "recipe_tags", assocCol: "tag_id", idPrefix: "tag"}
	ingredientTable = namedTable{table: "ingredients", assocTable: "recipe_ingredients", assocCol: "ingredient_id", idPrefix: "ing"}
)

// namedRow is the neutral scan target shared by tags and ingredients.
type namedRow struct {
	ID        string
	OwnerID   string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// dbtx abstracts *sql.DB and *sql.Tx so find-or-create can run both
// standalone and inside a recipe composition transaction.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// scanNamed scans a sql.Row (or sql.Rows via its Scan method) into a namedRow.
func scanNamed(scanner interface{ Scan(dest ...any) error }) (*namedRow, error) {
	var (
		n         namedRow
		createdAt string
		updatedAt string
	)

	if err := scanner.Scan(&n.ID, &n.OwnerID, &n.Name, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	n.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	n.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &n, nil
}

// listNamed returns the owner's rows ordered by name descending.
// With assignedOnly, only rows linked to at least one of the owner's
// recipes are returned; the EXISTS keeps the result duplicate-free.
func (s *Store) listNamed(ctx context.Context, nt namedTable, ownerID string, assignedOnly bool) ([]*namedRow, error) {
	query := fmt.Sprintf(
		`SELECT id, user_id, name, created_at, updated_at FROM %s WHERE user_id = ?`, nt.table)
	args := []any{ownerID}

	if assignedOnly {
		query += fmt.Sprintf(` AND EXISTS (
			SELECT 1 FROM %s a
			JOIN recipes r ON r.id = a.recipe_id
			WHERE a.%s = %s.id AND r.user_id = ?)`,
			nt.assocTable, nt.assocCol, nt.table)
		args = append(args, ownerID)
	}

	query += ` ORDER BY name DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*namedRow
	for rows.Next() {
		n, err := scanNamed(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if result == nil {
		result = []*namedRow{}
	}
	return result, nil
}

// getNamed retrieves one of the owner's rows by ID.
// A row owned by someone else is indistinguishable from a missing one.
func (s *Store) getNamed(ctx context.Context, nt namedTable, ownerID, rowID string) (*namedRow, error) {
	row := s.db.QueryRowContext(ctx, fmt.Sprintf(
		`SELECT id, user_id, name, created_at, updated_at FROM %s WHERE id = ? AND user_id = ?`,
		nt.table), rowID, ownerID)

	n, err := scanNamed(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return n, nil
}

// insertNamed inserts a new row.
func (s *Store) insertNamed(ctx context.Context, nt namedTable, n *namedRow) error {
	return insertNamedOn(ctx, s.db, nt, n)
}

func insertNamedOn(ctx context.Context, q dbtx, nt namedTable, n *namedRow) error {
	_, err := q.ExecContext(ctx, fmt.Sprintf(
		`INSERT INTO %s (id, user_id, name, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		nt.table),
		n.ID,
		n.OwnerID,
		n.Name,
		formatTime(n.CreatedAt),
		formatTime(n.UpdatedAt),
	)
	return err
}

// updateNamed rewrites a row's name, scoped to the owner.
// Returns store.ErrNotFound when the row is missing or owned by another user.
func (s *Store) updateNamed(ctx context.Context, nt namedTable, n *namedRow) error {
	res, err := s.db.ExecContext(ctx, fmt.Sprintf(
		`UPDATE %s SET name = ?, updated_at = ? WHERE id = ? AND user_id = ?`, nt.table),
		n.Name,
		formatTime(n.UpdatedAt),
		n.ID,
		n.OwnerID,
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

// deleteNamed removes a row, scoped to the owner. Association rows
// cascade; recipes on the other side of the association do not.
func (s *Store) deleteNamed(ctx context.Context, nt namedTable, ownerID, rowID string) error {
	res, err := s.db.ExecContext(ctx, fmt.Sprintf(
		`DELETE FROM %s WHERE id = ? AND user_id = ?`, nt.table), rowID, ownerID)
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

// findOrCreateNamed resolves (owner, name) to an existing row or creates one.
// The guarded INSERT is a single atomic statement, so two racing callers
// cannot both create a row: SQLite's write lock serializes them and the
// second INSERT finds the first row via NOT EXISTS.
func findOrCreateNamed(ctx context.Context, q dbtx, nt namedTable, ownerID, name string) (*namedRow, bool, error) {
	selectQuery := fmt.Sprintf(
		`SELECT id, user_id, name, created_at, updated_at FROM %s
		 WHERE user_id = ? AND name = ? ORDER BY id LIMIT 1`, nt.table)

	row := q.QueryRowContext(ctx, selectQuery, ownerID, name)
	existing, err := scanNamed(row)
	if err == nil {
		return existing, false, nil
	}
	if err != sql.ErrNoRows {
		return nil, false, err
	}

	rowID, err := id.Generate(nt.idPrefix)
	if err != nil {
		return nil, false, fmt.Errorf("generate %s id: %w", nt.idPrefix, err)
	}

	now := time.Now().UTC()
	res, err := q.ExecContext(ctx, fmt.Sprintf(
		`INSERT INTO %s (id, user_id, name, created_at, updated_at)
		 SELECT ?, ?, ?, ?, ?
		 WHERE NOT EXISTS (SELECT 1 FROM %s WHERE user_id = ? AND name = ?)`,
		nt.table, nt.table),
		rowID, ownerID, name, formatTime(now), formatTime(now),
		ownerID, name,
	)
	if err != nil {
		return nil, false, err
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return nil, false, err
	}
	if inserted == 0 {
		// Lost the race: another caller created the row between our
		// SELECT and INSERT. Re-read it.
		row := q.QueryRowContext(ctx, selectQuery, ownerID, name)
		existing, err := scanNamed(row)
		if err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}

	return &namedRow{
		ID:        rowID,
		OwnerID:   ownerID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}, true, nil
}
