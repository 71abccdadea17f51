package service

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"

	"inkwell/internal/models"
)

var (
	created0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	fixedNow = time.Date(2026, 3, 2, 12, 30, 0, 0, time.UTC)
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func ptr[T any](v T) *T { return &v }

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

func categoryRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "name", "slug", "description", "created_at", "updated_at"})
}

func categoryCountRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "name", "slug", "description", "created_at", "updated_at", "post_count"})
}

func postRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "title", "slug", "content", "excerpt", "status", "published_at", "created_at", "updated_at",
	})
}

func addPost(rows *pgxmock.Rows, p models.Post) *pgxmock.Rows {
	return rows.AddRow(p.ID, p.Title, p.Slug, p.Content, p.Excerpt, p.Status, p.PublishedAt, created0, created0)
}

func slugRows(slugs ...string) *pgxmock.Rows {
	rows := pgxmock.NewRows([]string{"slug"})
	for _, s := range slugs {
		rows.AddRow(s)
	}
	return rows
}

func countRow(n int) *pgxmock.Rows {
	return pgxmock.NewRows([]string{"count"}).AddRow(n)
}

func postCategoryRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"post_id", "id", "name", "slug"})
}

func requireKind(t *testing.T, err error, kind Kind) *Error {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, KindOf(err), "error: %v", err)
	e, ok := err.(*Error)
	require.True(t, ok, "expected *Error, got %T", err)
	return e
}
