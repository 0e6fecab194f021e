package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/reelstore/reelstore/internal/domain/model"
	"github.com/reelstore/reelstore/internal/infrastructure/metrics"
)

const (
	// movieKeyPrefix is the prefix for per-movie cache keys in Redis.
	movieKeyPrefix = "movie:"

	// allMoviesKey is the distinguished key for the full, unfiltered listing.
	// Genre-filtered listings are never cached.
	allMoviesKey = "movies:all"
)

// movieJSON is the JSON representation of a Movie for caching.
// Using an explicit struct avoids coupling to domain model field names.
type movieJSON struct {
	ID        int64    `json:"id"`
	Title     string   `json:"title"`
	Director  string   `json:"director"`
	Year      int      `json:"year"`
	Genre     string   `json:"genre"`
	Rating    *float64 `json:"rating"`
	PosterKey string   `json:"poster_key,omitempty"`
}

// RedisMovieCache implements MovieCache using Redis as the backing store.
type RedisMovieCache struct {
	client *redis.Client
}

// NewRedisMovieCache creates a new Redis-backed movie cache.
func NewRedisMovieCache(client *redis.Client) *RedisMovieCache {
	return &RedisMovieCache{
		client: client,
	}
}

// Get retrieves a movie from Redis cache.
// Returns nil, nil on cache miss.
func (c *RedisMovieCache) Get(ctx context.Context, id int64) (*model.Movie, error) {
	data, err := c.client.Get(ctx, movieKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusMiss, metrics.CacheTypeRedis).Inc()
			return nil, nil
		}
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusError, metrics.CacheTypeRedis).Inc()
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var v movieJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("deserialize movie: %w", err)
	}

	metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusHit, metrics.CacheTypeRedis).Inc()
	return fromJSON(v), nil
}

// Set stores a movie in Redis cache with the specified TTL.
func (c *RedisMovieCache) Set(ctx context.Context, movie *model.Movie, ttl time.Duration) error {
	data, err := json.Marshal(toJSON(movie))
	if err != nil {
		return fmt.Errorf("serialize movie: %w", err)
	}

	if err := c.client.Set(ctx, movieKey(movie.ID), data, ttl).Err(); err != nil {
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpSet, metrics.CacheStatusError, metrics.CacheTypeRedis).Inc()
		return fmt.Errorf("redis set: %w", err)
	}

	metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpSet, metrics.CacheStatusSuccess, metrics.CacheTypeRedis).Inc()
	return nil
}

// Delete removes a movie from Redis cache.
func (c *RedisMovieCache) Delete(ctx context.Context, id int64) error {
	if err := c.client.Del(ctx, movieKey(id)).Err(); err != nil {
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpDelete, metrics.CacheStatusError, metrics.CacheTypeRedis).Inc()
		return fmt.Errorf("redis del: %w", err)
	}

	metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpDelete, metrics.CacheStatusSuccess, metrics.CacheTypeRedis).Inc()
	return nil
}

// GetList retrieves the cached full listing.
// Returns nil, nil on cache miss.
func (c *RedisMovieCache) GetList(ctx context.Context) ([]*model.Movie, error) {
	data, err := c.client.Get(ctx, allMoviesKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusMiss, metrics.CacheTypeRedis).Inc()
			return nil, nil
		}
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusError, metrics.CacheTypeRedis).Inc()
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var vs []movieJSON
	if err := json.Unmarshal(data, &vs); err != nil {
		return nil, fmt.Errorf("deserialize movie list: %w", err)
	}

	movies := make([]*model.Movie, 0, len(vs))
	for _, v := range vs {
		movies = append(movies, fromJSON(v))
	}

	metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusHit, metrics.CacheTypeRedis).Inc()
	return movies, nil
}

// SetList stores the full listing with the specified TTL.
func (c *RedisMovieCache) SetList(ctx context.Context, movies []*model.Movie, ttl time.Duration) error {
	vs := make([]movieJSON, 0, len(movies))
	for _, m := range movies {
		vs = append(vs, toJSON(m))
	}

	data, err := json.Marshal(vs)
	if err != nil {
		return fmt.Errorf("serialize movie list: %w", err)
	}

	if err := c.client.Set(ctx, allMoviesKey, data, ttl).Err(); err != nil {
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpSet, metrics.CacheStatusError, metrics.CacheTypeRedis).Inc()
		return fmt.Errorf("redis set: %w", err)
	}

	metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpSet, metrics.CacheStatusSuccess, metrics.CacheTypeRedis).Inc()
	return nil
}

// DeleteList invalidates the full listing.
func (c *RedisMovieCache) DeleteList(ctx context.Context) error {
	if err := c.client.Del(ctx, allMoviesKey).Err(); err != nil {
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpDelete, metrics.CacheStatusError, metrics.CacheTypeRedis).Inc()
		return fmt.Errorf("redis del: %w", err)
	}

	metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpDelete, metrics.CacheStatusSuccess, metrics.CacheTypeRedis).Inc()
	return nil
}

// movieKey constructs the Redis key for a movie.
func movieKey(id int64) string {
	return fmt.Sprintf("%s%d", movieKeyPrefix, id)
}

func toJSON(m *model.Movie) movieJSON {
	return movieJSON{
		ID:        m.ID,
		Title:     m.Title,
		Director:  m.Director,
		Year:      m.Year,
		Genre:     m.Genre,
		Rating:    m.Rating,
		PosterKey: m.PosterKey,
	}
}

func fromJSON(v movieJSON) *model.Movie {
	return &model.Movie{
		ID:        v.ID,
		Title:     v.Title,
		Director:  v.Director,
		Year:      v.Year,
		Genre:     v.Genre,
		Rating:    v.Rating,
		PosterKey: v.PosterKey,
	}
}

// Compile-time verification that RedisMovieCache implements MovieCache.
var _ MovieCache = (*RedisMovieCache)(nil)
