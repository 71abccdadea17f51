package service

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"inkwell/internal/store"
)

// maxSlugAttempts bounds how often a write is retried after losing a slug
// race to a concurrent transaction.
const maxSlugAttempts = 3

// withSlugRetry runs fn in a transaction and reruns the whole transaction
// when it fails on the given slug unique constraint. The slug pool is read
// again on every attempt, so a concurrent writer's slug is seen the next
// time round.
func withSlugRetry(ctx context.Context, db store.DB, constraint string, fn func(tx pgx.Tx) error) error {
	var err error
	for attempt := 1; attempt <= maxSlugAttempts; attempt++ {
		err = store.WithTx(ctx, db, fn)
		if !store.IsUniqueViolation(err, constraint) {
			return err
		}
		slog.Debug("slug collision, retrying", "constraint", constraint, "attempt", attempt)
	}
	return err
}
