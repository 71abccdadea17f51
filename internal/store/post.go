// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"inkwell/internal/models"
)

// PostStore handles all post-related database operations, including the
// post_categories association.
type PostStore struct {
	db DBTX
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db DBTX) *PostStore {
	return &PostStore{db: db}
}

const postColumns = `id, title, slug, content, excerpt, status, published_at, created_at, updated_at`

// PostFilter narrows a post listing. Zero values mean "no restriction",
// except PostIDs where only nil means unrestricted.
type PostFilter struct {
	Status  models.PostStatus
	Search  string
	PostIDs []int64
	Limit   int
	Offset  int
}

// likeEscaper escapes LIKE metacharacters so a search term matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// where builds the WHERE clause and its positional arguments.
func (f PostFilter) where() (string, []any) {
	var conds []string
	var args []any

	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+likeEscaper.Replace(f.Search)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(title LIKE $%d OR content LIKE $%d)", n, n))
	}
	if f.PostIDs != nil {
		args = append(args, f.PostIDs)
		conds = append(conds, fmt.Sprintf("id = ANY($%d)", len(args)))
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// scanPost scans a row selected with postColumns.
func scanPost(scanner interface{ Scan(...any) error }) (*models.Post, error) {
	var p models.Post
	err := scanner.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Content, &p.Excerpt,
		&p.Status, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns one page of posts matching the filter, newest first.
// Categories are not loaded.
func (s *PostStore) List(ctx context.Context, f PostFilter) ([]models.Post, error) {
	where, args := f.where()
	args = append(args, f.Limit, f.Offset)
	query := `SELECT ` + postColumns + ` FROM posts` + where +
		fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	items := []models.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

// Count returns the number of posts matching the filter, ignoring Limit
// and Offset.
func (s *PostStore) Count(ctx context.Context, f PostFilter) (int, error) {
	where, args := f.where()
	var count int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM posts`+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return count, nil
}

// PostIDsByCategory returns the IDs of all posts linked to a category.
func (s *PostStore) PostIDsByCategory(ctx context.Context, categoryID int64) ([]int64, error) {
	rows, err := s.db.Query(ctx, `SELECT post_id FROM post_categories WHERE category_id = $1`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list category post ids: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("scan category post id: %w", err)
	}
	return ids, nil
}

// CategoriesFor loads the categories of the given posts, keyed by post ID.
// Posts without categories are absent from the map.
func (s *PostStore) CategoriesFor(ctx context.Context, postIDs []int64) (map[int64][]models.CategoryRef, error) {
	result := make(map[int64][]models.CategoryRef, len(postIDs))
	if len(postIDs) == 0 {
		return result, nil
	}

	rows, err := s.db.Query(ctx, `
		SELECT pc.post_id, c.id, c.name, c.slug
		FROM post_categories pc
		JOIN categories c ON c.id = pc.category_id
		WHERE pc.post_id = ANY($1)
		ORDER BY c.name
	`, postIDs)
	if err != nil {
		return nil, fmt.Errorf("list post categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var postID int64
		var ref models.CategoryRef
		if err := rows.Scan(&postID, &ref.ID, &ref.Name, &ref.Slug); err != nil {
			return nil, fmt.Errorf("scan post category: %w", err)
		}
		result[postID] = append(result[postID], ref)
	}
	return result, rows.Err()
}

// FindByID retrieves a post by ID. Returns nil if not found.
func (s *PostStore) FindByID(ctx context.Context, id int64) (*models.Post, error) {
	p, err := scanPost(s.db.QueryRow(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	return p, nil
}

// FindBySlug retrieves a post by slug, whatever its status. Returns nil if
// not found.
func (s *PostStore) FindBySlug(ctx context.Context, slug string) (*models.Post, error) {
	p, err := scanPost(s.db.QueryRow(ctx, `SELECT `+postColumns+` FROM posts WHERE slug = $1`, slug))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by slug: %w", err)
	}
	return p, nil
}

// LockByID retrieves a post and locks its row until the surrounding
// transaction ends. Returns nil if not found.
func (s *PostStore) LockByID(ctx context.Context, id int64) (*models.Post, error) {
	p, err := scanPost(s.db.QueryRow(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1 FOR UPDATE`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lock post: %w", err)
	}
	return p, nil
}

// Slugs returns the slugs that could collide with base, leaving out the
// post with exceptID (0 considers all posts).
func (s *PostStore) Slugs(ctx context.Context, base string, exceptID int64) ([]string, error) {
	rows, err := s.db.Query(ctx, `
		SELECT slug FROM posts
		WHERE (slug = $1 OR slug LIKE $2) AND id <> $3
	`, base, slugPoolPattern(base), exceptID)
	if err != nil {
		return nil, fmt.Errorf("list post slugs: %w", err)
	}
	slugs, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan post slug: %w", err)
	}
	return slugs, nil
}

// Create inserts a new post and returns it with the generated ID.
func (s *PostStore) Create(ctx context.Context, p *models.Post) (*models.Post, error) {
	row := s.db.QueryRow(ctx, `
		INSERT INTO posts (title, slug, content, excerpt, status, published_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+postColumns,
		p.Title, p.Slug, p.Content, p.Excerpt, p.Status, p.PublishedAt,
	)
	result, err := scanPost(row)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return result, nil
}

// Update writes every mutable column and refreshes updated_at. Returns nil
// if the post no longer exists.
func (s *PostStore) Update(ctx context.Context, p *models.Post) (*models.Post, error) {
	row := s.db.QueryRow(ctx, `
		UPDATE posts SET
			title = $1, slug = $2, content = $3, excerpt = $4, status = $5,
			published_at = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING `+postColumns,
		p.Title, p.Slug, p.Content, p.Excerpt, p.Status, p.PublishedAt, p.ID,
	)
	result, err := scanPost(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	return result, nil
}

// Delete removes a post by ID. Its category links are removed by the
// ON DELETE CASCADE foreign key.
func (s *PostStore) Delete(ctx context.Context, id int64) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// ClearCategories removes every category link of a post.
func (s *PostStore) ClearCategories(ctx context.Context, postID int64) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM post_categories WHERE post_id = $1`, postID); err != nil {
		return fmt.Errorf("clear post categories: %w", err)
	}
	return nil
}

// AddCategories links a post to each of the given categories.
func (s *PostStore) AddCategories(ctx context.Context, postID int64, categoryIDs []int64) error {
	if len(categoryIDs) == 0 {
		return nil
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO post_categories (post_id, category_id)
		SELECT $1, unnest($2::bigint[])
	`, postID, categoryIDs)
	if err != nil {
		return fmt.Errorf("add post categories: %w", err)
	}
	return nil
}

// Stats returns post counts by status and the number of categories.
func (s *PostStore) Stats(ctx context.Context) (*models.Stats, error) {
	var st models.Stats
	err := s.db.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'published'),
		       COUNT(*) FILTER (WHERE status = 'draft'),
		       (SELECT COUNT(*) FROM categories)
		FROM posts
	`).Scan(&st.TotalPosts, &st.PublishedPosts, &st.DraftPosts, &st.TotalCategories)
	if err != nil {
		return nil, fmt.Errorf("post stats: %w", err)
	}
	return &st, nil
}
