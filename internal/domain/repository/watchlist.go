package repository

import (
	"context"

	"github.com/reelstore/reelstore/internal/domain/model"
)

// WatchlistRepository defines the interface for watchlist persistence operations.
type WatchlistRepository interface {
	// Create persists a new watchlist entry. The store assigns the ID and
	// writes it back onto the given entity. Returns ErrDuplicateWatchlistEntry
	// if the (user, movie) pair already exists.
	Create(ctx context.Context, entry *model.WatchlistEntry) error

	// GetByUserID retrieves all entries on a user's watchlist.
	GetByUserID(ctx context.Context, userID int64) ([]*model.WatchlistEntry, error)

	// GetByMovieID retrieves all entries referencing a movie.
	GetByMovieID(ctx context.Context, movieID int64) ([]*model.WatchlistEntry, error)

	// GetByUserAndMovie retrieves the entry for a (user, movie) pair.
	// Returns nil, nil when no such entry exists.
	GetByUserAndMovie(ctx context.Context, userID, movieID int64) (*model.WatchlistEntry, error)

	// Delete removes an entry by ID.
	// Returns ErrWatchlistEntryNotFound if the entry does not exist.
	Delete(ctx context.Context, id int64) error

	// DeleteByUserAndMovie removes the entry for a (user, movie) pair.
	// Returns ErrWatchlistEntryNotFound if the entry does not exist.
	DeleteByUserAndMovie(ctx context.Context, userID, movieID int64) error

	// DeleteByMovieID removes every entry referencing a movie and returns
	// the number of rows removed. Deleting zero rows is not an error, which
	// keeps the operation idempotent for event-driven pruning.
	DeleteByMovieID(ctx context.Context, movieID int64) (int64, error)
}
