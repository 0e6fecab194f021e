package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/reelstore/reelstore/internal/domain/model"
	"github.com/reelstore/reelstore/internal/domain/repository"
)

// MovieDetails is the remote movie representation used for watchlist
// enrichment. It mirrors the movie service's public record shape.
type MovieDetails struct {
	ID       int64
	Title    string
	Director string
	Year     int
	Genre    string
	Rating   *float64
}

// MovieCatalog is the remote movie service as seen by the watchlist logic:
// black-box existence checks and batch fetches over RPC.
type MovieCatalog interface {
	// MovieExists reports whether the movie exists in the movie service.
	MovieExists(ctx context.Context, id int64) (bool, error)

	// GetMoviesBatch fetches details for the given movie IDs in one call.
	// IDs unknown to the movie service are omitted from the result.
	GetMoviesBatch(ctx context.Context, ids []int64) ([]MovieDetails, error)
}

// UserDirectory is the remote user service as seen by the watchlist logic.
type UserDirectory interface {
	// UserExists reports whether the user exists in the user service.
	UserExists(ctx context.Context, id int64) (bool, error)
}

// EnrichedWatchlistEntry is a watchlist entry with movie details attached.
// Movie is nil when the movie service no longer knows the referenced ID.
type EnrichedWatchlistEntry struct {
	Entry *model.WatchlistEntry
	Movie *MovieDetails
}

// WatchlistService defines the interface for watchlist business logic operations.
type WatchlistService interface {
	// Add puts a movie on a user's watchlist after verifying both exist.
	// Returns repository.ErrUserNotFound / ErrMovieNotFound when the remote
	// existence check fails, ErrDuplicateWatchlistEntry on duplicates.
	Add(ctx context.Context, userID, movieID int64) (*model.WatchlistEntry, error)

	// ListForUser retrieves a user's watchlist enriched with movie details,
	// fetched from the movie service with a single batch call.
	ListForUser(ctx context.Context, userID int64) ([]*EnrichedWatchlistEntry, error)

	// ExportForUser returns the full movie records on a user's watchlist,
	// fetched from the movie service with a single batch call. Movies the
	// catalog no longer knows are omitted.
	ExportForUser(ctx context.Context, userID int64) ([]MovieDetails, error)

	// ListForMovie retrieves all entries referencing a movie.
	ListForMovie(ctx context.Context, movieID int64) ([]*model.WatchlistEntry, error)

	// Contains retrieves the entry for a (user, movie) pair.
	// Returns nil, nil when the movie is not on the user's watchlist.
	Contains(ctx context.Context, userID, movieID int64) (*model.WatchlistEntry, error)

	// Remove deletes an entry by ID.
	Remove(ctx context.Context, id int64) error

	// RemoveMovieForUser deletes the entry for a (user, movie) pair.
	RemoveMovieForUser(ctx context.Context, userID, movieID int64) error

	// PruneMovie deletes every entry referencing a movie and returns the
	// number of rows removed. Used by the movie-deleted event consumer;
	// removing zero rows is not an error.
	PruneMovie(ctx context.Context, movieID int64) (int64, error)
}

type watchlistService struct {
	repo   repository.WatchlistRepository
	movies MovieCatalog
	users  UserDirectory
}

// NewWatchlistService creates a new WatchlistService instance.
func NewWatchlistService(
	repo repository.WatchlistRepository,
	movies MovieCatalog,
	users UserDirectory,
) WatchlistService {
	return &watchlistService{
		repo:   repo,
		movies: movies,
		users:  users,
	}
}

// Add verifies both collaborators know the IDs, then inserts the entry.
func (s *watchlistService) Add(ctx context.Context, userID, movieID int64) (*model.WatchlistEntry, error) {
	exists, err := s.users.UserExists(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("check user existence: %w", err)
	}
	if !exists {
		return nil, repository.ErrUserNotFound
	}

	exists, err = s.movies.MovieExists(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("check movie existence: %w", err)
	}
	if !exists {
		return nil, repository.ErrMovieNotFound
	}

	entry := &model.WatchlistEntry{
		UserID:  userID,
		MovieID: movieID,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, err
	}

	return entry, nil
}

// ListForUser retrieves the user's entries and enriches them with movie
// details from a single batch call against the movie service. Entries whose
// movie the catalog no longer returns keep a nil Movie.
func (s *watchlistService) ListForUser(ctx context.Context, userID int64) ([]*EnrichedWatchlistEntry, error) {
	exists, err := s.users.UserExists(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("check user existence: %w", err)
	}
	if !exists {
		return nil, repository.ErrUserNotFound
	}

	entries, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return []*EnrichedWatchlistEntry{}, nil
	}

	seen := make(map[int64]struct{}, len(entries))
	ids := make([]int64, 0, len(entries))
	for _, e := range entries {
		if _, ok := seen[e.MovieID]; ok {
			continue
		}
		seen[e.MovieID] = struct{}{}
		ids = append(ids, e.MovieID)
	}

	details, err := s.movies.GetMoviesBatch(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch movie details: %w", err)
	}

	byID := make(map[int64]*MovieDetails, len(details))
	for i := range details {
		byID[details[i].ID] = &details[i]
	}

	enriched := make([]*EnrichedWatchlistEntry, 0, len(entries))
	for _, e := range entries {
		movie, ok := byID[e.MovieID]
		if !ok {
			slog.Warn("watchlist entry references unknown movie",
				"entry_id", e.ID,
				"movie_id", e.MovieID,
			)
		}
		enriched = append(enriched, &EnrichedWatchlistEntry{
			Entry: e,
			Movie: movie,
		})
	}

	return enriched, nil
}

// ExportForUser collects the user's movie IDs and resolves them against the
// movie service in one batch call, returning the raw movie records.
func (s *watchlistService) ExportForUser(ctx context.Context, userID int64) ([]MovieDetails, error) {
	exists, err := s.users.UserExists(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("check user existence: %w", err)
	}
	if !exists {
		return nil, repository.ErrUserNotFound
	}

	entries, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return []MovieDetails{}, nil
	}

	seen := make(map[int64]struct{}, len(entries))
	ids := make([]int64, 0, len(entries))
	for _, e := range entries {
		if _, ok := seen[e.MovieID]; ok {
			continue
		}
		seen[e.MovieID] = struct{}{}
		ids = append(ids, e.MovieID)
	}

	details, err := s.movies.GetMoviesBatch(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch movie details: %w", err)
	}

	return details, nil
}

// ListForMovie retrieves all entries referencing a movie.
func (s *watchlistService) ListForMovie(ctx context.Context, movieID int64) ([]*model.WatchlistEntry, error) {
	exists, err := s.movies.MovieExists(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("check movie existence: %w", err)
	}
	if !exists {
		return nil, repository.ErrMovieNotFound
	}

	return s.repo.GetByMovieID(ctx, movieID)
}

// Contains retrieves the entry for a (user, movie) pair.
func (s *watchlistService) Contains(ctx context.Context, userID, movieID int64) (*model.WatchlistEntry, error) {
	return s.repo.GetByUserAndMovie(ctx, userID, movieID)
}

// Remove deletes an entry by ID.
func (s *watchlistService) Remove(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// RemoveMovieForUser deletes the entry for a (user, movie) pair.
func (s *watchlistService) RemoveMovieForUser(ctx context.Context, userID, movieID int64) error {
	return s.repo.DeleteByUserAndMovie(ctx, userID, movieID)
}

// PruneMovie deletes every entry referencing a movie.
func (s *watchlistService) PruneMovie(ctx context.Context, movieID int64) (int64, error) {
	return s.repo.DeleteByMovieID(ctx, movieID)
}
