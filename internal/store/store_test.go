// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/internal/database"
	"inkwell/internal/models"
	"inkwell/internal/store"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "inkwell")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "inkwell")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a pool to the test database and runs migrations. If the
// database is unavailable, the test is skipped.
func testDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, testDSN())
	if err != nil {
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	// Run migrations to ensure the schema is current.
	if err := database.Migrate(ctx, pool); err != nil {
		pool.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(pool.Close)
	return pool
}

// uniqueName returns a name no other test run will produce, so tests can
// share a database without clearing it.
func uniqueName(t *testing.T, prefix string) string {
	return fmt.Sprintf("%s %s %d", prefix, t.Name(), time.Now().UnixNano())
}

// cleanCategories removes test categories by ID. Call in t.Cleanup().
func cleanCategories(t *testing.T, db *pgxpool.Pool, ids ...int64) {
	t.Helper()
	for _, id := range ids {
		db.Exec(context.Background(), "DELETE FROM categories WHERE id = $1", id)
	}
}

// cleanPosts removes test posts by ID. Call in t.Cleanup().
func cleanPosts(t *testing.T, db *pgxpool.Pool, ids ...int64) {
	t.Helper()
	for _, id := range ids {
		db.Exec(context.Background(), "DELETE FROM posts WHERE id = $1", id)
	}
}

func TestCategoryStore_CRUD(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	s := store.NewCategoryStore(db)

	desc := "integration"
	c, err := s.Create(ctx, &models.Category{Name: uniqueName(t, "Cat"), Slug: fmt.Sprintf("cat-%d", time.Now().UnixNano()), Description: &desc})
	require.NoError(t, err)
	t.Cleanup(func() { cleanCategories(t, db, c.ID) })

	got, err := s.FindBySlug(ctx, c.Slug)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, c.ID, got.ID)
	assert.Equal(t, 0, got.PostCount)

	c.Description = nil
	updated, err := s.Update(ctx, c)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Nil(t, updated.Description)
	assert.False(t, updated.UpdatedAt.Before(c.UpdatedAt))

	_, err = s.Create(ctx, &models.Category{Name: c.Name, Slug: c.Slug + "-other"})
	assert.True(t, store.IsUniqueViolation(err, store.ConstraintCategoryName), "err: %v", err)

	require.NoError(t, s.Delete(ctx, c.ID))
	missing, err := s.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCategoryStore_SlugsPool(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	s := store.NewCategoryStore(db)

	base := fmt.Sprintf("pool-%d", time.Now().UnixNano())
	var ids []int64
	for _, sl := range []string{base, base + "-2", base + "x"} {
		c, err := s.Create(ctx, &models.Category{Name: uniqueName(t, sl), Slug: sl})
		require.NoError(t, err)
		ids = append(ids, c.ID)
	}
	t.Cleanup(func() { cleanCategories(t, db, ids...) })

	slugs, err := s.Slugs(ctx, base, 0)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{base, base + "-2"}, slugs)

	slugs, err = s.Slugs(ctx, base, ids[0])
	require.NoError(t, err)
	assert.Equal(t, []string{base + "-2"}, slugs)
}

func TestPostStore_LinksAndCascade(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	cats := store.NewCategoryStore(db)
	posts := store.NewPostStore(db)

	stamp := time.Now().UnixNano()
	c, err := cats.Create(ctx, &models.Category{Name: uniqueName(t, "Linked"), Slug: fmt.Sprintf("linked-%d", stamp)})
	require.NoError(t, err)
	t.Cleanup(func() { cleanCategories(t, db, c.ID) })

	p, err := posts.Create(ctx, &models.Post{
		Title: "Linked post", Slug: fmt.Sprintf("linked-post-%d", stamp), Content: "body", Status: models.PostStatusDraft,
	})
	require.NoError(t, err)
	t.Cleanup(func() { cleanPosts(t, db, p.ID) })

	require.NoError(t, posts.AddCategories(ctx, p.ID, []int64{c.ID}))

	count, err := cats.CountPosts(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	ids, err := posts.PostIDsByCategory(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{p.ID}, ids)

	err = posts.AddCategories(ctx, p.ID, []int64{-1})
	assert.True(t, store.IsForeignKeyViolation(err), "err: %v", err)

	require.NoError(t, posts.Delete(ctx, p.ID))
	count, err = cats.CountPosts(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, count, "links should be removed with the post")
}

func TestPostStore_PaginationIsDisjoint(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	posts := store.NewPostStore(db)

	marker := fmt.Sprintf("pagemarker%d", time.Now().UnixNano())
	var ids []int64
	for i := range 20 {
		p, err := posts.Create(ctx, &models.Post{
			Title:   fmt.Sprintf("%s %d", marker, i),
			Slug:    fmt.Sprintf("%s-%d", marker, i),
			Content: "body",
			Status:  models.PostStatusDraft,
		})
		require.NoError(t, err)
		ids = append(ids, p.ID)
	}
	t.Cleanup(func() { cleanPosts(t, db, ids...) })

	seen := map[int64]bool{}
	for offset := 0; offset < 20; offset += 9 {
		page, err := posts.List(ctx, store.PostFilter{Search: marker, Limit: 9, Offset: offset})
		require.NoError(t, err)
		for _, p := range page {
			assert.False(t, seen[p.ID], "post %d returned twice", p.ID)
			seen[p.ID] = true
		}
	}
	assert.Len(t, seen, 20)

	total, err := posts.Count(ctx, store.PostFilter{Search: marker})
	require.NoError(t, err)
	assert.Equal(t, 20, total)
}
