package cache

import (
	"context"
	"time"

	"github.com/reelstore/reelstore/internal/domain/model"
)

// MovieCache defines the interface for the shared movie cache.
// Implementations handle serialization transparently. Entries are snapshots:
// mutating a movie after caching does not affect the cached value.
//
// Cache errors are not masked anywhere in this interface; callers decide
// the failure policy.
type MovieCache interface {
	// Get retrieves a movie from cache by ID.
	// Returns nil, nil on cache miss.
	Get(ctx context.Context, id int64) (*model.Movie, error)

	// Set stores a movie in cache with the specified TTL.
	Set(ctx context.Context, movie *model.Movie, ttl time.Duration) error

	// Delete removes a movie from cache by ID.
	// Deleting an absent key is not an error.
	Delete(ctx context.Context, id int64) error

	// GetList retrieves the cached full listing.
	// Returns nil, nil on cache miss.
	GetList(ctx context.Context) ([]*model.Movie, error)

	// SetList stores the full listing with the specified TTL.
	SetList(ctx context.Context, movies []*model.Movie, ttl time.Duration) error

	// DeleteList invalidates the full listing.
	// Deleting an absent key is not an error.
	DeleteList(ctx context.Context) error
}
