// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"inkwell/internal/models"
)

// CategoryStore manages categories in the database.
type CategoryStore struct {
	db DBTX
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db DBTX) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, slug, description, created_at, updated_at`

// categoryWithCount selects a category plus the number of posts linked to it.
const categoryWithCount = `
	SELECT c.id, c.name, c.slug, c.description, c.created_at, c.updated_at,
	       (SELECT COUNT(*) FROM post_categories pc WHERE pc.category_id = c.id) AS post_count
	FROM categories c`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// scanCategoryWithCount scans a categoryWithCount row.
func scanCategoryWithCount(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt, &c.UpdatedAt, &c.PostCount)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all categories ordered by name descending, with post counts.
func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.Query(ctx, `
		SELECT c.id, c.name, c.slug, c.description, c.created_at, c.updated_at,
		       COUNT(pc.post_id) AS post_count
		FROM categories c
		LEFT JOIN post_categories pc ON pc.category_id = c.id
		GROUP BY c.id
		ORDER BY c.name DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	items := []models.Category{}
	for rows.Next() {
		c, err := scanCategoryWithCount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// FindByID retrieves a category with its post count. Returns nil if not found.
func (s *CategoryStore) FindByID(ctx context.Context, id int64) (*models.Category, error) {
	c, err := scanCategoryWithCount(s.db.QueryRow(ctx, categoryWithCount+` WHERE c.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// FindBySlug retrieves a category with its post count. Returns nil if not found.
func (s *CategoryStore) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	c, err := scanCategoryWithCount(s.db.QueryRow(ctx, categoryWithCount+` WHERE c.slug = $1`, slug))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by slug: %w", err)
	}
	return c, nil
}

// LockByID retrieves a category and locks its row until the surrounding
// transaction ends. Returns nil if not found. PostCount is not populated.
func (s *CategoryStore) LockByID(ctx context.Context, id int64) (*models.Category, error) {
	c, err := scanCategory(s.db.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1 FOR UPDATE`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lock category: %w", err)
	}
	return c, nil
}

// Slugs returns the slugs that could collide with base: base itself and
// every "base-..." slug. The category with exceptID is left out; pass 0 to
// consider all categories.
func (s *CategoryStore) Slugs(ctx context.Context, base string, exceptID int64) ([]string, error) {
	rows, err := s.db.Query(ctx, `
		SELECT slug FROM categories
		WHERE (slug = $1 OR slug LIKE $2) AND id <> $3
	`, base, slugPoolPattern(base), exceptID)
	if err != nil {
		return nil, fmt.Errorf("list category slugs: %w", err)
	}
	slugs, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan category slug: %w", err)
	}
	return slugs, nil
}

// Create inserts a new category and returns it.
func (s *CategoryStore) Create(ctx context.Context, c *models.Category) (*models.Category, error) {
	row := s.db.QueryRow(ctx, `
		INSERT INTO categories (name, slug, description)
		VALUES ($1, $2, $3)
		RETURNING `+categoryColumns,
		c.Name, c.Slug, c.Description,
	)
	result, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return result, nil
}

// Update writes name, slug and description and refreshes updated_at.
// Returns nil if the category no longer exists.
func (s *CategoryStore) Update(ctx context.Context, c *models.Category) (*models.Category, error) {
	row := s.db.QueryRow(ctx, `
		UPDATE categories SET
			name = $1, slug = $2, description = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING `+categoryColumns,
		c.Name, c.Slug, c.Description, c.ID,
	)
	result, err := scanCategory(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	return result, nil
}

// Delete removes a category by ID. Associations go with it (ON DELETE CASCADE).
func (s *CategoryStore) Delete(ctx context.Context, id int64) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// CountPosts returns how many posts are linked to the category.
func (s *CategoryStore) CountPosts(ctx context.Context, id int64) (int, error) {
	var count int
	err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM post_categories WHERE category_id = $1`, id).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count category posts: %w", err)
	}
	return count, nil
}
