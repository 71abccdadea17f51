package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/internal/models"
	"inkwell/internal/service"
)

func samplePost() *models.Post {
	published := created0.Add(time.Hour)
	return &models.Post{
		ID:          11,
		Title:       "Hello World",
		Slug:        "hello-world",
		Content:     "Body",
		Status:      models.PostStatusPublished,
		PublishedAt: &published,
		CreatedAt:   created0,
		UpdatedAt:   created0,
		Categories:  []models.CategoryRef{{ID: 1, Name: "Go", Slug: "go"}},
	}
}

func TestListPostsParsesQuery(t *testing.T) {
	fake := &fakePosts{page: &models.PostPage{Posts: []models.Post{*samplePost()}, Total: 12}}
	rr := do(t, newTestRouter(&fakeCategories{}, fake), http.MethodGet,
		"/api/posts?limit=5&offset=10&status=published&categoryId=4&search=hello", "")

	require.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, fake.params.Limit)
	require.NotNil(t, fake.params.Offset)
	require.NotNil(t, fake.params.CategoryID)
	assert.Equal(t, 5, *fake.params.Limit)
	assert.Equal(t, 10, *fake.params.Offset)
	assert.Equal(t, int64(4), *fake.params.CategoryID)
	assert.Equal(t, models.PostStatusPublished, fake.params.Status)
	assert.Equal(t, "hello", fake.params.Search)

	var got struct {
		Posts []map[string]any `json:"posts"`
		Total int              `json:"total"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	assert.Equal(t, 12, got.Total)
	require.Len(t, got.Posts, 1)
	assert.Equal(t, "hello-world", got.Posts[0]["slug"])
	assert.Len(t, got.Posts[0]["categories"], 1)
}

func TestListPostsNoQuery(t *testing.T) {
	fake := &fakePosts{page: &models.PostPage{Posts: []models.Post{}, Total: 0}}
	rr := do(t, newTestRouter(&fakeCategories{}, fake), http.MethodGet, "/api/posts", "")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Nil(t, fake.params.Limit)
	assert.Nil(t, fake.params.Offset)
	assert.Nil(t, fake.params.CategoryID)
	assert.Empty(t, fake.params.Status)
	assert.JSONEq(t, `{"posts":[],"total":0}`, rr.Body.String())
}

func TestListPostsBadQuery(t *testing.T) {
	tests := []struct {
		query string
		field string
	}{
		{"limit=ten", "limit"},
		{"offset=1e3", "offset"},
		{"categoryId=web", "categoryId"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			fake := &fakePosts{}
			rr := do(t, newTestRouter(&fakeCategories{}, fake), http.MethodGet, "/api/posts?"+tt.query, "")

			require.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, tt.field, decodeError(t, rr).Field)
		})
	}
}

func TestGetPost(t *testing.T) {
	fake := &fakePosts{post: samplePost()}
	rr := do(t, newTestRouter(&fakeCategories{}, fake), http.MethodGet, "/api/posts/11", "")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, int64(11), fake.id)

	var got map[string]any
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	assert.Equal(t, "2026-03-01T10:00:00Z", got["publishedAt"])
	assert.Nil(t, got["excerpt"])
}

func TestGetPostBySlugNotFound(t *testing.T) {
	fake := &fakePosts{err: &service.Error{Kind: service.KindNotFound, Message: "Post not found"}}
	rr := do(t, newTestRouter(&fakeCategories{}, fake), http.MethodGet, "/api/posts/slug/missing", "")

	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "missing", fake.slug)
}

func TestCreatePost(t *testing.T) {
	fake := &fakePosts{post: samplePost()}
	rr := do(t, newTestRouter(&fakeCategories{}, fake), http.MethodPost, "/api/posts",
		`{"title":"Hello World","content":"Body","status":"published","categoryIds":[1,2]}`)

	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "Hello World", fake.create.Title)
	assert.Equal(t, models.PostStatusPublished, fake.create.Status)
	assert.Equal(t, []int64{1, 2}, fake.create.CategoryIDs)
	assert.Nil(t, fake.create.Excerpt)
}

func TestCreatePostBadCategoryIDs(t *testing.T) {
	fake := &fakePosts{}
	rr := do(t, newTestRouter(&fakeCategories{}, fake), http.MethodPost, "/api/posts",
		`{"title":"Hello","content":"Body","categoryIds":["one"]}`)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "categoryIds", decodeError(t, rr).Field)
}

func TestUpdatePostCategoryIDsPresence(t *testing.T) {
	tests := []struct {
		name string
		body string
		want *[]int64
	}{
		{"omitted", `{"title":"New"}`, nil},
		{"empty clears", `{"categoryIds":[]}`, &[]int64{}},
		{"replaced", `{"categoryIds":[4,5]}`, &[]int64{4, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakePosts{post: samplePost()}
			rr := do(t, newTestRouter(&fakeCategories{}, fake), http.MethodPatch, "/api/posts/11", tt.body)

			require.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, tt.want, fake.update.CategoryIDs)
		})
	}
}

func TestDeletePost(t *testing.T) {
	fake := &fakePosts{}
	rr := do(t, newTestRouter(&fakeCategories{}, fake), http.MethodDelete, "/api/posts/11", "")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true}`, rr.Body.String())
	assert.Equal(t, int64(11), fake.id)
}

func TestStats(t *testing.T) {
	fake := &fakePosts{stats: &models.Stats{TotalPosts: 6, PublishedPosts: 5, DraftPosts: 1, TotalCategories: 6}}
	rr := do(t, newTestRouter(&fakeCategories{}, fake), http.MethodGet, "/api/stats", "")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"totalPosts":6,"publishedPosts":5,"draftPosts":1,"totalCategories":6}`, rr.Body.String())
}

func TestStatsInternalErrorHidesCause(t *testing.T) {
	fake := &fakePosts{err: errors.New("count posts: connection reset")}
	rr := do(t, newTestRouter(&fakeCategories{}, fake), http.MethodGet, "/api/stats", "")

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "connection reset")
}
