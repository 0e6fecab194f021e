package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/reelstore/reelstore/internal/domain/model"
	"github.com/reelstore/reelstore/internal/domain/repository"
)

// MovieInput contains the caller-supplied fields of a movie.
// The ID is always assigned by the store.
type MovieInput struct {
	Title    string
	Director string
	Year     int
	Genre    string
	Rating   *float64
}

// PosterUploadOutput contains the result of preparing a poster upload.
type PosterUploadOutput struct {
	Movie     *model.Movie
	UploadURL string
}

// MovieService defines the interface for movie business logic operations.
type MovieService interface {
	// Create validates the input and inserts a new movie. The returned
	// entity carries the store-assigned ID.
	Create(ctx context.Context, input MovieInput) (*model.Movie, error)

	// Get retrieves a movie by ID.
	// Returns repository.ErrMovieNotFound if no such movie exists.
	Get(ctx context.Context, id int64) (*model.Movie, error)

	// GetBatch retrieves the movies for the given IDs. IDs with no record
	// are silently omitted, so the result may be shorter than the input.
	GetBatch(ctx context.Context, ids []int64) ([]*model.Movie, error)

	// ListAll retrieves every movie.
	ListAll(ctx context.Context) ([]*model.Movie, error)

	// ListByGenre retrieves all movies with the given genre.
	ListByGenre(ctx context.Context, genre string) ([]*model.Movie, error)

	// Update validates the input and overwrites the movie's fields.
	// Returns repository.ErrMovieNotFound if no such movie exists.
	Update(ctx context.Context, id int64, input MovieInput) (*model.Movie, error)

	// Delete removes a movie. Returns repository.ErrMovieNotFound if no
	// such movie exists.
	Delete(ctx context.Context, id int64) error

	// CreatePosterUpload returns a presigned URL for uploading poster
	// artwork and records the poster key on the movie.
	CreatePosterUpload(ctx context.Context, id int64, filename string) (*PosterUploadOutput, error)

	// PosterDownloadURL returns a presigned URL for the movie's poster.
	// Returns repository.ErrPosterNotFound if no poster is attached.
	PosterDownloadURL(ctx context.Context, id int64) (string, error)
}

// MovieServiceConfig holds configuration for MovieService.
type MovieServiceConfig struct {
	PosterURLExpiry time.Duration
}

// DefaultMovieServiceConfig returns the default configuration.
func DefaultMovieServiceConfig() MovieServiceConfig {
	return MovieServiceConfig{
		PosterURLExpiry: 15 * time.Minute,
	}
}

type movieService struct {
	repo    repository.MovieRepository
	storage repository.ObjectStorage
	queue   repository.EventQueue

	posterURLExpiry time.Duration
}

// NewMovieService creates a new store-backed MovieService instance.
func NewMovieService(
	repo repository.MovieRepository,
	storage repository.ObjectStorage,
	queue repository.EventQueue,
	cfg MovieServiceConfig,
) MovieService {
	return &movieService{
		repo:            repo,
		storage:         storage,
		queue:           queue,
		posterURLExpiry: cfg.PosterURLExpiry,
	}
}

// Create validates the input and inserts a new movie.
func (s *movieService) Create(ctx context.Context, input MovieInput) (*model.Movie, error) {
	movie, err := model.NewMovie(input.Title, input.Director, input.Year, input.Genre, input.Rating)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, movie); err != nil {
		return nil, fmt.Errorf("create movie: %w", err)
	}

	return movie, nil
}

// Get retrieves a movie by ID.
func (s *movieService) Get(ctx context.Context, id int64) (*model.Movie, error) {
	return s.repo.GetByID(ctx, id)
}

// GetBatch retrieves the movies for the given IDs with a single store query.
func (s *movieService) GetBatch(ctx context.Context, ids []int64) ([]*model.Movie, error) {
	return s.repo.GetByIDs(ctx, ids)
}

// ListAll retrieves every movie.
func (s *movieService) ListAll(ctx context.Context) ([]*model.Movie, error) {
	return s.repo.GetAll(ctx)
}

// ListByGenre retrieves all movies with the given genre.
func (s *movieService) ListByGenre(ctx context.Context, genre string) ([]*model.Movie, error) {
	return s.repo.GetByGenre(ctx, genre)
}

// Update validates the input and overwrites the movie's fields.
func (s *movieService) Update(ctx context.Context, id int64, input MovieInput) (*model.Movie, error) {
	movie, err := model.NewMovie(input.Title, input.Director, input.Year, input.Genre, input.Rating)
	if err != nil {
		return nil, err
	}
	movie.ID = id

	if err := s.repo.Update(ctx, movie); err != nil {
		return nil, err
	}

	return movie, nil
}

// Delete removes a movie and publishes a movie-deleted event.
// Publishing is best-effort: the store delete has already committed, so a
// publish failure is logged and does not fail the operation.
func (s *movieService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	event := repository.MovieDeletedEvent{
		EventID:    uuid.New(),
		MovieID:    id,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.queue.PublishMovieDeleted(ctx, event); err != nil {
		slog.Warn("failed to publish movie-deleted event",
			"movie_id", id,
			"event_id", event.EventID,
			"error", err,
		)
	}

	return nil
}

// CreatePosterUpload returns a presigned upload URL for poster artwork and
// records the poster key on the movie. Replacing an existing poster removes
// the old object best-effort.
//
// The key is committed and the old object removed before the client uploads
// through the presigned URL. An abandoned upload leaves the key pointing at a
// missing object until the next poster upload; there is no completion
// callback to confirm against.
func (s *movieService) CreatePosterUpload(ctx context.Context, id int64, filename string) (*PosterUploadOutput, error) {
	movie, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	key := posterKey(id, filename)

	uploadURL, err := s.storage.PresignedUploadURL(ctx, key, s.posterURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("presign poster upload: %w", err)
	}

	if err := s.repo.SetPosterKey(ctx, id, key); err != nil {
		return nil, err
	}

	if movie.HasPoster() && movie.PosterKey != key {
		if err := s.storage.Delete(ctx, movie.PosterKey); err != nil {
			slog.Warn("failed to remove replaced poster",
				"movie_id", id,
				"poster_key", movie.PosterKey,
				"error", err,
			)
		}
	}

	movie.PosterKey = key
	return &PosterUploadOutput{
		Movie:     movie,
		UploadURL: uploadURL,
	}, nil
}

// PosterDownloadURL returns a presigned download URL for the movie's poster.
func (s *movieService) PosterDownloadURL(ctx context.Context, id int64) (string, error) {
	movie, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	if !movie.HasPoster() {
		return "", repository.ErrPosterNotFound
	}

	downloadURL, err := s.storage.PresignedDownloadURL(ctx, movie.PosterKey, s.posterURLExpiry)
	if err != nil {
		return "", fmt.Errorf("presign poster download: %w", err)
	}
	return downloadURL, nil
}

// posterKey creates the storage key for poster artwork.
// Format: posters/{movie_id}/{filename}
func posterKey(id int64, filename string) string {
	return path.Join("posters", strconv.FormatInt(id, 10), filename)
}
