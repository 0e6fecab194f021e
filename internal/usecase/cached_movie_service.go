package usecase

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/reelstore/reelstore/internal/domain/model"
	"github.com/reelstore/reelstore/internal/infrastructure/cache"
	"github.com/reelstore/reelstore/internal/infrastructure/metrics"
)

// CachedMovieServiceConfig holds configuration for CachedMovieService.
type CachedMovieServiceConfig struct {
	// CacheTTL is the fixed TTL stamped on every cache write. There is no
	// sliding expiration and no refresh-on-read beyond re-population on miss.
	CacheTTL time.Duration
}

// DefaultCachedMovieServiceConfig returns the default configuration.
func DefaultCachedMovieServiceConfig() CachedMovieServiceConfig {
	return CachedMovieServiceConfig{
		CacheTTL: time.Hour,
	}
}

// cachedMovieService wraps MovieService with cache-aside behavior.
// It implements the decorator pattern to add caching without modifying the
// store-backed service.
//
// Consistency discipline is relaxed cache-aside: mutations go store-first
// and then update or invalidate the cache with no locking around the
// store-then-cache sequence. Two concurrent mutations on the same record may
// interleave their cache writes in either order; the window is bounded by
// the TTL and the next mutation.
//
// Cache failures are hard failures: a cache error fails the whole operation.
// There is no degrade-to-store-only path.
type cachedMovieService struct {
	delegate MovieService
	cache    cache.MovieCache
	sfGroup  singleflight.Group

	cacheTTL time.Duration
}

// NewCachedMovieService creates a new CachedMovieService wrapping the provided MovieService.
func NewCachedMovieService(
	delegate MovieService,
	movieCache cache.MovieCache,
	cfg CachedMovieServiceConfig,
) MovieService {
	return &cachedMovieService{
		delegate: delegate,
		cache:    movieCache,
		cacheTTL: cfg.CacheTTL,
	}
}

// Create inserts via the store, then populates the per-movie cache entry and
// invalidates the collection entry.
func (s *cachedMovieService) Create(ctx context.Context, input MovieInput) (*model.Movie, error) {
	movie, err := s.delegate.Create(ctx, input)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, movie, s.cacheTTL); err != nil {
		return nil, fmt.Errorf("cache movie: %w", err)
	}
	if err := s.cache.DeleteList(ctx); err != nil {
		return nil, fmt.Errorf("invalidate movie list: %w", err)
	}

	return movie, nil
}

// Get retrieves a movie with cache-aside semantics.
// Uses singleflight to coalesce concurrent lookups of the same movie.
func (s *cachedMovieService) Get(ctx context.Context, id int64) (*model.Movie, error) {
	key := fmt.Sprintf("movie:%d", id)
	result, err, shared := s.sfGroup.Do(key, func() (any, error) {
		return s.getWithCache(ctx, id)
	})

	if shared {
		metrics.SingleflightRequestsTotal.WithLabelValues(metrics.SingleflightShared).Inc()
	} else {
		metrics.SingleflightRequestsTotal.WithLabelValues(metrics.SingleflightInitiated).Inc()
	}

	if err != nil {
		return nil, err
	}
	return result.(*model.Movie), nil
}

// getWithCache implements the cache-aside read path.
func (s *cachedMovieService) getWithCache(ctx context.Context, id int64) (*model.Movie, error) {
	movie, err := s.cache.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	if movie != nil {
		return movie, nil // Cache hit - no store access
	}

	// Cache miss - fetch from store. A not-found result propagates without
	// writing a cache entry.
	movie, err = s.delegate.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, movie, s.cacheTTL); err != nil {
		return nil, fmt.Errorf("cache movie: %w", err)
	}

	return movie, nil
}

// GetBatch retrieves the movies for the given IDs with cache-aside semantics.
// All cache hits are emitted first, in input order; store-fetched rows follow
// in store-result order. The result is NOT re-merged into input order. Misses
// are fetched with a single store query and cached individually; IDs found
// nowhere are silently omitted.
func (s *cachedMovieService) GetBatch(ctx context.Context, ids []int64) ([]*model.Movie, error) {
	if len(ids) == 0 {
		return []*model.Movie{}, nil
	}

	movies := make([]*model.Movie, 0, len(ids))
	var missIDs []int64

	for _, id := range ids {
		movie, err := s.cache.Get(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("cache get: %w", err)
		}
		if movie != nil {
			movies = append(movies, movie)
			continue
		}
		missIDs = append(missIDs, id)
	}

	if len(missIDs) > 0 {
		fetched, err := s.delegate.GetBatch(ctx, missIDs)
		if err != nil {
			return nil, err
		}

		for _, movie := range fetched {
			if err := s.cache.Set(ctx, movie, s.cacheTTL); err != nil {
				return nil, fmt.Errorf("cache movie: %w", err)
			}
			movies = append(movies, movie)
		}
	}

	return movies, nil
}

// ListAll retrieves the full listing with cache-aside semantics on the
// collection key. Uses singleflight to coalesce concurrent listing requests.
func (s *cachedMovieService) ListAll(ctx context.Context) ([]*model.Movie, error) {
	result, err, shared := s.sfGroup.Do("movies:all", func() (any, error) {
		return s.listWithCache(ctx)
	})

	if shared {
		metrics.SingleflightRequestsTotal.WithLabelValues(metrics.SingleflightShared).Inc()
	} else {
		metrics.SingleflightRequestsTotal.WithLabelValues(metrics.SingleflightInitiated).Inc()
	}

	if err != nil {
		return nil, err
	}
	return result.([]*model.Movie), nil
}

func (s *cachedMovieService) listWithCache(ctx context.Context) ([]*model.Movie, error) {
	movies, err := s.cache.GetList(ctx)
	if err != nil {
		return nil, fmt.Errorf("cache get list: %w", err)
	}
	if movies != nil {
		return movies, nil // Cache hit - no store access
	}

	movies, err = s.delegate.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetList(ctx, movies, s.cacheTTL); err != nil {
		return nil, fmt.Errorf("cache movie list: %w", err)
	}

	return movies, nil
}

// ListByGenre always bypasses the cache entirely: no cache read, no cache
// write, a direct store query on every call.
func (s *cachedMovieService) ListByGenre(ctx context.Context, genre string) ([]*model.Movie, error) {
	return s.delegate.ListByGenre(ctx, genre)
}

// Update writes store-first, then refreshes the per-movie entry with a fresh
// TTL and invalidates the collection entry. A not-found update performs no
// cache mutation.
func (s *cachedMovieService) Update(ctx context.Context, id int64, input MovieInput) (*model.Movie, error) {
	movie, err := s.delegate.Update(ctx, id, input)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, movie, s.cacheTTL); err != nil {
		return nil, fmt.Errorf("cache movie: %w", err)
	}
	if err := s.cache.DeleteList(ctx); err != nil {
		return nil, fmt.Errorf("invalidate movie list: %w", err)
	}

	return movie, nil
}

// Delete removes store-first, then deletes the per-movie entry and
// invalidates the collection entry. A not-found delete performs no cache
// mutation.
func (s *cachedMovieService) Delete(ctx context.Context, id int64) error {
	if err := s.delegate.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.cache.Delete(ctx, id); err != nil {
		return fmt.Errorf("evict movie: %w", err)
	}
	if err := s.cache.DeleteList(ctx); err != nil {
		return fmt.Errorf("invalidate movie list: %w", err)
	}

	return nil
}

// CreatePosterUpload changes the stored record, so it follows the update
// rules: refresh the per-movie entry, invalidate the collection entry.
func (s *cachedMovieService) CreatePosterUpload(ctx context.Context, id int64, filename string) (*PosterUploadOutput, error) {
	output, err := s.delegate.CreatePosterUpload(ctx, id, filename)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, output.Movie, s.cacheTTL); err != nil {
		return nil, fmt.Errorf("cache movie: %w", err)
	}
	if err := s.cache.DeleteList(ctx); err != nil {
		return nil, fmt.Errorf("invalidate movie list: %w", err)
	}

	return output, nil
}

// PosterDownloadURL does not touch record state and delegates directly.
func (s *cachedMovieService) PosterDownloadURL(ctx context.Context, id int64) (string, error) {
	return s.delegate.PosterDownloadURL(ctx, id)
}
