package repository

import (
	"context"

	"github.com/reelstore/reelstore/internal/domain/model"
)

// MovieRepository defines the interface for movie persistence operations.
// Implementations should be provided by the infrastructure layer (e.g., PostgreSQL).
// Every operation runs in its own transaction: committed on success, rolled
// back if any error occurs within the operation.
type MovieRepository interface {
	// Create persists a new movie. The store assigns the ID and writes it
	// back onto the given entity.
	Create(ctx context.Context, movie *model.Movie) error

	// GetByID retrieves a movie by its unique identifier.
	// Returns nil and ErrMovieNotFound if the movie does not exist.
	GetByID(ctx context.Context, id int64) (*model.Movie, error)

	// GetByIDs retrieves all movies whose ID is in the given set using a
	// single query. IDs with no matching row are omitted from the result.
	GetByIDs(ctx context.Context, ids []int64) ([]*model.Movie, error)

	// GetAll retrieves every movie.
	GetAll(ctx context.Context) ([]*model.Movie, error)

	// GetByGenre retrieves all movies with the given genre.
	GetByGenre(ctx context.Context, genre string) ([]*model.Movie, error)

	// Update persists changes to an existing movie and refreshes the entity
	// from the stored row. Returns ErrMovieNotFound if the movie does not exist.
	Update(ctx context.Context, movie *model.Movie) error

	// SetPosterKey records the object storage key of the movie's poster.
	// Returns ErrMovieNotFound if the movie does not exist.
	SetPosterKey(ctx context.Context, id int64, key string) error

	// Delete removes a movie by ID.
	// Returns ErrMovieNotFound if the movie does not exist.
	Delete(ctx context.Context, id int64) error
}
