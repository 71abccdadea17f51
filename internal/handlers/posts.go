// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"inkwell/internal/models"
	"inkwell/internal/service"
)

// PostService is the subset of service.PostService the handlers use.
type PostService interface {
	List(ctx context.Context, p service.ListPostsParams) (*models.PostPage, error)
	GetByID(ctx context.Context, id int64) (*models.Post, error)
	GetBySlug(ctx context.Context, slug string) (*models.Post, error)
	Create(ctx context.Context, in service.CreatePostInput) (*models.Post, error)
	Update(ctx context.Context, id int64, in service.UpdatePostInput) (*models.Post, error)
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context) (*models.Stats, error)
}

// Posts groups the post API handlers.
type Posts struct {
	svc PostService
}

// NewPosts creates the post handler group.
func NewPosts(svc PostService) *Posts {
	return &Posts{svc: svc}
}

// List returns one page of posts filtered by the limit, offset, status,
// categoryId and search query parameters.
func (h *Posts) List(w http.ResponseWriter, r *http.Request) {
	params, err := listParams(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	page, err := h.svc.List(r.Context(), params)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func listParams(r *http.Request) (service.ListPostsParams, error) {
	var p service.ListPostsParams
	var err error

	if p.Limit, err = queryInt(r, "limit"); err != nil {
		return p, err
	}
	if p.Offset, err = queryInt(r, "offset"); err != nil {
		return p, err
	}

	q := r.URL.Query()
	p.Status = models.PostStatus(q.Get("status"))
	p.Search = q.Get("search")

	if raw := q.Get("categoryId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return p, invalid("categoryId", "categoryId must be an integer")
		}
		p.CategoryID = &id
	}
	return p, nil
}

// Get returns the post named by the {id} parameter, drafts included.
func (h *Posts) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	post, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// GetBySlug returns the post named by the {slug} parameter.
func (h *Posts) GetBySlug(w http.ResponseWriter, r *http.Request) {
	post, err := h.svc.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// Create adds a post and responds with 201.
func (h *Posts) Create(w http.ResponseWriter, r *http.Request) {
	var in service.CreatePostInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	post, err := h.svc.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

// Update applies a partial update to a post.
func (h *Posts) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var in service.UpdatePostInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	post, err := h.svc.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// Delete removes a post and its category links.
func (h *Posts) Delete(w http.ResponseWriter, r *http.Request) {
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

// Stats returns the post and category counters.
func (h *Posts) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
