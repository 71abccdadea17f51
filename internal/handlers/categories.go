// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"inkwell/internal/models"
	"inkwell/internal/service"
)

// CategoryService is the subset of service.CategoryService the handlers use.
type CategoryService interface {
	List(ctx context.Context) ([]models.Category, error)
	GetByID(ctx context.Context, id int64) (*models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	Create(ctx context.Context, in service.CreateCategoryInput) (*models.Category, error)
	Update(ctx context.Context, id int64, in service.UpdateCategoryInput) (*models.Category, error)
	Delete(ctx context.Context, id int64) error
}

// Categories groups the category API handlers.
type Categories struct {
	svc CategoryService
}

// NewCategories creates the category handler group.
func NewCategories(svc CategoryService) *Categories {
	return &Categories{svc: svc}
}

// List returns every category with its post count, ordered by name.
func (h *Categories) List(w http.ResponseWriter, r *http.Request) {
	cats, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

// Get returns the category named by the {id} parameter.
func (h *Categories) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	cat, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cat)
}

// GetBySlug returns the category named by the {slug} parameter.
func (h *Categories) GetBySlug(w http.ResponseWriter, r *http.Request) {
	cat, err := h.svc.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cat)
}

// Create adds a category and responds with 201.
func (h *Categories) Create(w http.ResponseWriter, r *http.Request) {
	var in service.CreateCategoryInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	cat, err := h.svc.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, cat)
}

// Update applies a partial update to a category.
func (h *Categories) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var in service.UpdateCategoryInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	cat, err := h.svc.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cat)
}

// Delete removes a category that has no posts.
func (h *Categories) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, deleted{Success: true})
}
