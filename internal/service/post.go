// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"inkwell/internal/models"
	"inkwell/internal/slug"
	"inkwell/internal/store"
)

// ListPostsParams filters and paginates PostService.List. Nil pointers and
// empty strings mean "not supplied".
type ListPostsParams struct {
	Limit      *int
	Offset     *int
	Status     models.PostStatus
	CategoryID *int64
	Search     string
}

// CreatePostInput is the payload of PostService.Create. An empty Status
// means draft.
type CreatePostInput struct {
	Title       string            `json:"title"`
	Content     string            `json:"content"`
	Excerpt     *string           `json:"excerpt"`
	Status      models.PostStatus `json:"status"`
	CategoryIDs []int64           `json:"categoryIds"`
}

// UpdatePostInput is the payload of PostService.Update. Nil fields are left
// unchanged. A non-nil CategoryIDs, even an empty one, replaces the post's
// whole category set.
type UpdatePostInput struct {
	Title       *string            `json:"title"`
	Content     *string            `json:"content"`
	Excerpt     *string            `json:"excerpt"`
	Status      *models.PostStatus `json:"status"`
	CategoryIDs *[]int64           `json:"categoryIds"`
}

// PostService implements the post operations.
type PostService struct {
	db  store.DB
	now func() time.Time
}

// NewPostService returns a PostService backed by db.
func NewPostService(db store.DB) *PostService {
	return &PostService{db: db, now: time.Now}
}

// publishTransition reports whether moving from prior to next publishes the
// post. Only the stored status right before the update counts, so a post
// that is unpublished and published again gets a fresh publishedAt.
func publishTransition(prior, next models.PostStatus) bool {
	return next == models.PostStatusPublished && prior != models.PostStatusPublished
}

// List returns one page of posts, newest first, with their categories and
// the total number of matches across all pages.
func (s *PostService) List(ctx context.Context, p ListPostsParams) (*models.PostPage, error) {
	filter := store.PostFilter{
		Status: p.Status,
		Search: p.Search,
		Limit:  defaultListLimit,
	}
	if p.Limit != nil {
		if *p.Limit < 1 || *p.Limit > maxListLimit {
			return nil, validationError("limit", "Limit must be between 1 and 100")
		}
		filter.Limit = *p.Limit
	}
	if p.Offset != nil {
		if *p.Offset < 0 {
			return nil, validationError("offset", "Offset must not be negative")
		}
		filter.Offset = *p.Offset
	}
	if p.Status != "" {
		if verr := validateStatus(p.Status); verr != nil {
			return nil, verr
		}
	}

	posts := store.NewPostStore(s.db)

	if p.CategoryID != nil {
		ids, err := posts.PostIDsByCategory(ctx, *p.CategoryID)
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			return &models.PostPage{Posts: []models.Post{}, Total: 0}, nil
		}
		filter.PostIDs = ids
	}

	items, err := posts.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if err := attachCategories(ctx, posts, items); err != nil {
		return nil, err
	}

	total, err := posts.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &models.PostPage{Posts: items, Total: total}, nil
}

// GetByID returns a post with its categories.
func (s *PostService) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	posts := store.NewPostStore(s.db)
	p, err := posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return withCategories(ctx, posts, p)
}

// GetBySlug returns a post with its categories. Drafts are returned too.
func (s *PostService) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	posts := store.NewPostStore(s.db)
	p, err := posts.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return withCategories(ctx, posts, p)
}

// Create validates the input, derives a unique slug from the title, inserts
// the post and links it to the given categories. Category IDs are not
// checked up front; an unknown ID fails the insert and rolls everything back.
func (s *PostService) Create(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	title, base, verr := validateTitle(in.Title)
	if verr != nil {
		return nil, verr
	}
	if verr := validateContent(in.Content); verr != nil {
		return nil, verr
	}
	excerpt, verr := validateExcerpt(in.Excerpt)
	if verr != nil {
		return nil, verr
	}
	status := in.Status
	if status == "" {
		status = models.PostStatusDraft
	}
	if verr := validateStatus(status); verr != nil {
		return nil, verr
	}
	categoryIDs := uniqueIDs(in.CategoryIDs)

	var created *models.Post
	err := withSlugRetry(ctx, s.db, store.ConstraintPostSlug, func(tx pgx.Tx) error {
		posts := store.NewPostStore(tx)

		taken, err := posts.Slugs(ctx, base, 0)
		if err != nil {
			return err
		}

		p := &models.Post{
			Title:   title,
			Slug:    slug.GenerateUnique(base, taken),
			Content: in.Content,
			Excerpt: excerpt,
			Status:  status,
		}
		if status == models.PostStatusPublished {
			now := s.now()
			p.PublishedAt = &now
		}

		if created, err = posts.Create(ctx, p); err != nil {
			return err
		}
		if err := posts.AddCategories(ctx, created.ID, categoryIDs); err != nil {
			return err
		}
		created, err = withCategories(ctx, posts, created)
		return err
	})
	if err != nil {
		return nil, postWriteError(err)
	}

	slog.Info("post created", "id", created.ID, "slug", created.Slug, "status", created.Status)
	return created, nil
}

// Update applies a partial update. The slug is recomputed only when the
// title changes; publishedAt is stamped on a draft to published transition
// and never cleared.
func (s *PostService) Update(ctx context.Context, id int64, in UpdatePostInput) (*models.Post, error) {
	var title, base string
	if in.Title != nil {
		var verr *Error
		if title, base, verr = validateTitle(*in.Title); verr != nil {
			return nil, verr
		}
	}
	if in.Content != nil {
		if verr := validateContent(*in.Content); verr != nil {
			return nil, verr
		}
	}
	excerpt, verr := validateExcerpt(in.Excerpt)
	if verr != nil {
		return nil, verr
	}
	if in.Status != nil {
		if verr := validateStatus(*in.Status); verr != nil {
			return nil, verr
		}
	}

	var updated *models.Post
	err := withSlugRetry(ctx, s.db, store.ConstraintPostSlug, func(tx pgx.Tx) error {
		posts := store.NewPostStore(tx)

		current, err := posts.LockByID(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return notFound("Post")
		}

		if in.Title != nil && title != current.Title {
			taken, err := posts.Slugs(ctx, base, id)
			if err != nil {
				return err
			}
			current.Title = title
			current.Slug = slug.GenerateUnique(base, taken)
		}
		if in.Content != nil {
			current.Content = *in.Content
		}
		if in.Excerpt != nil {
			current.Excerpt = excerpt
		}
		if in.Status != nil {
			if publishTransition(current.Status, *in.Status) {
				now := s.now()
				current.PublishedAt = &now
			}
			current.Status = *in.Status
		}

		if updated, err = posts.Update(ctx, current); err != nil {
			return err
		}
		if updated == nil {
			return notFound("Post")
		}

		if in.CategoryIDs != nil {
			if err := posts.ClearCategories(ctx, id); err != nil {
				return err
			}
			if err := posts.AddCategories(ctx, id, uniqueIDs(*in.CategoryIDs)); err != nil {
				return err
			}
		}

		updated, err = withCategories(ctx, posts, updated)
		return err
	})
	if err != nil {
		return nil, postWriteError(err)
	}

	slog.Info("post updated", "id", updated.ID, "slug", updated.Slug, "status", updated.Status)
	return updated, nil
}

// Delete removes a post. Its category links go with it.
func (s *PostService) Delete(ctx context.Context, id int64) error {
	err := store.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		posts := store.NewPostStore(tx)

		current, err := posts.LockByID(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return notFound("Post")
		}
		return posts.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	slog.Info("post deleted", "id", id)
	return nil
}

// Stats returns the dashboard counters.
func (s *PostService) Stats(ctx context.Context) (*models.Stats, error) {
	return store.NewPostStore(s.db).Stats(ctx)
}

// withCategories loads the categories of p. A nil p is NotFound.
func withCategories(ctx context.Context, posts *store.PostStore, p *models.Post) (*models.Post, error) {
	if p == nil {
		return nil, notFound("Post")
	}
	items := []models.Post{*p}
	if err := attachCategories(ctx, posts, items); err != nil {
		return nil, err
	}
	return &items[0], nil
}

// attachCategories fills Categories on every post with one query.
func attachCategories(ctx context.Context, posts *store.PostStore, items []models.Post) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]int64, len(items))
	for i := range items {
		ids[i] = items[i].ID
	}

	byPost, err := posts.CategoriesFor(ctx, ids)
	if err != nil {
		return err
	}
	for i := range items {
		refs := byPost[items[i].ID]
		if refs == nil {
			refs = []models.CategoryRef{}
		}
		items[i].Categories = refs
	}
	return nil
}

// postWriteError maps constraint violations from a post write to typed
// errors.
func postWriteError(err error) error {
	switch {
	case store.IsForeignKeyViolation(err):
		return &Error{Kind: KindValidation, Field: "categoryIds", Message: "One or more categories do not exist", Err: err}
	case store.IsUniqueViolation(err, store.ConstraintPostSlug):
		return conflict("title", "Could not allocate a unique slug for this title, try again", err)
	}
	return err
}
