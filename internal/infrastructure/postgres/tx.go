package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// DB abstracts pgxpool.Pool for testability. pgxmock's pool satisfies it.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// inTx runs fn inside a transaction: committed when fn returns nil, rolled
// back otherwise. The deferred rollback is a no-op after a successful commit.
func inTx(ctx context.Context, db DB, fn func(tx pgx.Tx) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
