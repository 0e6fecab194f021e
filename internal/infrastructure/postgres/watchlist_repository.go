package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/reelstore/reelstore/internal/domain/model"
	"github.com/reelstore/reelstore/internal/domain/repository"
	"github.com/reelstore/reelstore/internal/infrastructure/metrics"
)

// WatchlistRepository implements repository.WatchlistRepository using PostgreSQL.
type WatchlistRepository struct {
	db DB
}

// NewWatchlistRepository creates a new WatchlistRepository instance.
func NewWatchlistRepository(db DB) *WatchlistRepository {
	return &WatchlistRepository{db: db}
}

// Create inserts a new watchlist entry. The store assigns the surrogate key
// and the creation timestamp.
func (r *WatchlistRepository) Create(ctx context.Context, entry *model.WatchlistEntry) error {
	const query = `
		INSERT INTO watchlist (user_id, movie_id)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQueryInsert, metrics.TableWatchlist).Inc()

	return inTx(ctx, r.db, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, query, entry.UserID, entry.MovieID)
		if err := row.Scan(&entry.ID, &entry.CreatedAt); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
				return repository.ErrDuplicateWatchlistEntry
			}
			return fmt.Errorf("failed to create watchlist entry: %w", err)
		}
		return nil
	})
}

// GetByUserID retrieves all entries on a user's watchlist.
func (r *WatchlistRepository) GetByUserID(ctx context.Context, userID int64) ([]*model.WatchlistEntry, error) {
	const query = `
		SELECT id, user_id, movie_id, created_at
		FROM watchlist
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQuerySelect, metrics.TableWatchlist).Inc()

	return r.queryEntries(ctx, query, userID)
}

// GetByMovieID retrieves all entries referencing a movie.
func (r *WatchlistRepository) GetByMovieID(ctx context.Context, movieID int64) ([]*model.WatchlistEntry, error) {
	const query = `
		SELECT id, user_id, movie_id, created_at
		FROM watchlist
		WHERE movie_id = $1
		ORDER BY created_at DESC
	`

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQuerySelect, metrics.TableWatchlist).Inc()

	return r.queryEntries(ctx, query, movieID)
}

// GetByUserAndMovie retrieves the entry for a (user, movie) pair.
// Returns nil, nil when no such entry exists.
func (r *WatchlistRepository) GetByUserAndMovie(ctx context.Context, userID, movieID int64) (*model.WatchlistEntry, error) {
	const query = `
		SELECT id, user_id, movie_id, created_at
		FROM watchlist
		WHERE user_id = $1 AND movie_id = $2
	`

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQuerySelect, metrics.TableWatchlist).Inc()

	var entry *model.WatchlistEntry
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		var e model.WatchlistEntry
		row := tx.QueryRow(ctx, query, userID, movieID)
		if err := row.Scan(&e.ID, &e.UserID, &e.MovieID, &e.CreatedAt); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil
			}
			return fmt.Errorf("failed to get watchlist entry: %w", err)
		}
		entry = &e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Delete removes an entry by ID.
func (r *WatchlistRepository) Delete(ctx context.Context, id int64) error {
	const query = `
		DELETE FROM watchlist
		WHERE id = $1
	`

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQueryDelete, metrics.TableWatchlist).Inc()

	return inTx(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, query, id)
		if err != nil {
			return fmt.Errorf("failed to delete watchlist entry: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return repository.ErrWatchlistEntryNotFound
		}
		return nil
	})
}

// DeleteByUserAndMovie removes the entry for a (user, movie) pair.
func (r *WatchlistRepository) DeleteByUserAndMovie(ctx context.Context, userID, movieID int64) error {
	const query = `
		DELETE FROM watchlist
		WHERE user_id = $1 AND movie_id = $2
	`

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQueryDelete, metrics.TableWatchlist).Inc()

	return inTx(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, query, userID, movieID)
		if err != nil {
			return fmt.Errorf("failed to delete watchlist entry: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return repository.ErrWatchlistEntryNotFound
		}
		return nil
	})
}

// DeleteByMovieID removes every entry referencing a movie. Zero rows removed
// is not an error, so event-driven pruning stays idempotent.
func (r *WatchlistRepository) DeleteByMovieID(ctx context.Context, movieID int64) (int64, error) {
	const query = `
		DELETE FROM watchlist
		WHERE movie_id = $1
	`

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQueryDelete, metrics.TableWatchlist).Inc()

	var removed int64
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, query, movieID)
		if err != nil {
			return fmt.Errorf("failed to prune watchlist entries: %w", err)
		}
		removed = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

func (r *WatchlistRepository) queryEntries(ctx context.Context, query string, arg any) ([]*model.WatchlistEntry, error) {
	var entries []*model.WatchlistEntry
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, query, arg)
		if err != nil {
			return fmt.Errorf("failed to query watchlist entries: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var e model.WatchlistEntry
			if err := rows.Scan(&e.ID, &e.UserID, &e.MovieID, &e.CreatedAt); err != nil {
				return fmt.Errorf("failed to scan watchlist entry: %w", err)
			}
			entries = append(entries, &e)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("error iterating watchlist entries: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Compile-time verification that WatchlistRepository implements repository.WatchlistRepository.
var _ repository.WatchlistRepository = (*WatchlistRepository)(nil)
