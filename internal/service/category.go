// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package service holds the content rules of the blog: input validation,
// slug derivation, the post/category relation and the integrity checks
// around deletes. Every mutating operation runs in a single transaction.
package service

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"inkwell/internal/models"
	"inkwell/internal/slug"
	"inkwell/internal/store"
)

// errCategoryHasPosts is the message shown when deleting a category that
// still has posts linked to it.
const errCategoryHasPosts = "Cannot delete category that has posts. Please remove all posts from this category first."

// CreateCategoryInput is the payload of CategoryService.Create.
type CreateCategoryInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// UpdateCategoryInput is the payload of CategoryService.Update. Nil fields
// are left unchanged.
type UpdateCategoryInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// CategoryService implements the category operations.
type CategoryService struct {
	db store.DB
}

// NewCategoryService returns a CategoryService backed by db.
func NewCategoryService(db store.DB) *CategoryService {
	return &CategoryService{db: db}
}

// List returns every category ordered by name descending, with post counts.
func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	return store.NewCategoryStore(s.db).List(ctx)
}

// GetByID returns a category with its post count.
func (s *CategoryService) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	c, err := store.NewCategoryStore(s.db).FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, notFound("Category")
	}
	return c, nil
}

// GetBySlug returns a category with its post count.
func (s *CategoryService) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	c, err := store.NewCategoryStore(s.db).FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, notFound("Category")
	}
	return c, nil
}

// Create validates the input, derives a unique slug from the name and
// inserts the category. A duplicate name is a Conflict.
func (s *CategoryService) Create(ctx context.Context, in CreateCategoryInput) (*models.Category, error) {
	name, base, verr := validateName(in.Name)
	if verr != nil {
		return nil, verr
	}
	description, verr := validateDescription(in.Description)
	if verr != nil {
		return nil, verr
	}

	var created *models.Category
	err := withSlugRetry(ctx, s.db, store.ConstraintCategorySlug, func(tx pgx.Tx) error {
		cats := store.NewCategoryStore(tx)

		taken, err := cats.Slugs(ctx, base, 0)
		if err != nil {
			return err
		}

		created, err = cats.Create(ctx, &models.Category{
			Name:        name,
			Slug:        slug.GenerateUnique(base, taken),
			Description: description,
		})
		return err
	})
	if err != nil {
		return nil, categoryWriteError(err)
	}

	slog.Info("category created", "id", created.ID, "slug", created.Slug)
	return created, nil
}

// Update applies a partial update. The slug is recomputed only when the
// name changes, against every slug except the category's own.
func (s *CategoryService) Update(ctx context.Context, id int64, in UpdateCategoryInput) (*models.Category, error) {
	var name, base string
	if in.Name != nil {
		var verr *Error
		if name, base, verr = validateName(*in.Name); verr != nil {
			return nil, verr
		}
	}
	description, verr := validateDescription(in.Description)
	if verr != nil {
		return nil, verr
	}

	var updated *models.Category
	err := withSlugRetry(ctx, s.db, store.ConstraintCategorySlug, func(tx pgx.Tx) error {
		cats := store.NewCategoryStore(tx)

		current, err := cats.LockByID(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return notFound("Category")
		}

		if in.Name != nil && name != current.Name {
			taken, err := cats.Slugs(ctx, base, id)
			if err != nil {
				return err
			}
			current.Name = name
			current.Slug = slug.GenerateUnique(base, taken)
		}
		if in.Description != nil {
			current.Description = description
		}

		updated, err = cats.Update(ctx, current)
		if err != nil {
			return err
		}
		if updated == nil {
			return notFound("Category")
		}

		updated.PostCount, err = cats.CountPosts(ctx, id)
		return err
	})
	if err != nil {
		return nil, categoryWriteError(err)
	}

	slog.Info("category updated", "id", updated.ID, "slug", updated.Slug)
	return updated, nil
}

// Delete removes a category that has no posts linked to it.
func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	err := store.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		cats := store.NewCategoryStore(tx)

		current, err := cats.LockByID(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return notFound("Category")
		}

		count, err := cats.CountPosts(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return businessRule(errCategoryHasPosts)
		}

		return cats.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	slog.Info("category deleted", "id", id)
	return nil
}

// categoryWriteError maps constraint violations from a category write to
// typed errors.
func categoryWriteError(err error) error {
	switch {
	case store.IsUniqueViolation(err, store.ConstraintCategoryName):
		return conflict("name", "A category with this name already exists", err)
	case store.IsUniqueViolation(err, store.ConstraintCategorySlug):
		return conflict("name", "Could not allocate a unique slug for this name, try again", err)
	}
	return err
}
