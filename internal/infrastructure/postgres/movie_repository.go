package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/reelstore/reelstore/internal/domain/model"
	"github.com/reelstore/reelstore/internal/domain/repository"
	"github.com/reelstore/reelstore/internal/infrastructure/metrics"
)

// MovieRepository implements repository.MovieRepository using PostgreSQL.
// Every public method runs its statements in a dedicated transaction.
type MovieRepository struct {
	db DB
}

// NewMovieRepository creates a new MovieRepository instance.
func NewMovieRepository(db DB) *MovieRepository {
	return &MovieRepository{db: db}
}

// Create inserts a new movie. The store assigns the surrogate key, which is
// written back onto the given entity.
func (r *MovieRepository) Create(ctx context.Context, movie *model.Movie) error {
	const query = `
		INSERT INTO movies (title, director, year, genre, rating)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQueryInsert, metrics.TableMovies).Inc()

	return inTx(ctx, r.db, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, query,
			movie.Title,
			movie.Director,
			movie.Year,
			movie.Genre,
			movie.Rating,
		)
		if err := row.Scan(&movie.ID); err != nil {
			return fmt.Errorf("failed to create movie: %w", err)
		}
		return nil
	})
}

// GetByID retrieves a movie by its unique identifier.
func (r *MovieRepository) GetByID(ctx context.Context, id int64) (*model.Movie, error) {
	const query = `
		SELECT id, title, director, year, genre, rating, poster_key
		FROM movies
		WHERE id = $1
	`

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQuerySelect, metrics.TableMovies).Inc()

	var movie *model.Movie
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		m, err := scanMovie(tx.QueryRow(ctx, query, id))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return repository.ErrMovieNotFound
			}
			return fmt.Errorf("failed to get movie by ID: %w", err)
		}
		movie = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return movie, nil
}

// GetByIDs retrieves all movies whose ID is in the given set with a single
// query. Rows come back in store order; IDs without a row are omitted.
func (r *MovieRepository) GetByIDs(ctx context.Context, ids []int64) ([]*model.Movie, error) {
	const query = `
		SELECT id, title, director, year, genre, rating, poster_key
		FROM movies
		WHERE id = ANY($1)
	`

	if len(ids) == 0 {
		return nil, nil
	}

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQuerySelect, metrics.TableMovies).Inc()

	var movies []*model.Movie
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, query, ids)
		if err != nil {
			return fmt.Errorf("failed to query movies by IDs: %w", err)
		}
		defer rows.Close()

		movies, err = collectMovies(rows)
		return err
	})
	if err != nil {
		return nil, err
	}
	return movies, nil
}

// GetAll retrieves every movie.
func (r *MovieRepository) GetAll(ctx context.Context) ([]*model.Movie, error) {
	const query = `
		SELECT id, title, director, year, genre, rating, poster_key
		FROM movies
		ORDER BY id
	`

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQuerySelect, metrics.TableMovies).Inc()

	var movies []*model.Movie
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to query movies: %w", err)
		}
		defer rows.Close()

		movies, err = collectMovies(rows)
		return err
	})
	if err != nil {
		return nil, err
	}
	return movies, nil
}

// GetByGenre retrieves all movies with the given genre.
func (r *MovieRepository) GetByGenre(ctx context.Context, genre string) ([]*model.Movie, error) {
	const query = `
		SELECT id, title, director, year, genre, rating, poster_key
		FROM movies
		WHERE genre = $1
		ORDER BY id
	`

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQuerySelect, metrics.TableMovies).Inc()

	var movies []*model.Movie
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, query, genre)
		if err != nil {
			return fmt.Errorf("failed to query movies by genre: %w", err)
		}
		defer rows.Close()

		movies, err = collectMovies(rows)
		return err
	})
	if err != nil {
		return nil, err
	}
	return movies, nil
}

// Update persists changes to an existing movie. The poster key is not part of
// the update and is read back from the stored row.
func (r *MovieRepository) Update(ctx context.Context, movie *model.Movie) error {
	const query = `
		UPDATE movies
		SET title = $2, director = $3, year = $4, genre = $5, rating = $6
		WHERE id = $1
		RETURNING poster_key
	`

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQueryUpdate, metrics.TableMovies).Inc()

	return inTx(ctx, r.db, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, query,
			movie.ID,
			movie.Title,
			movie.Director,
			movie.Year,
			movie.Genre,
			movie.Rating,
		)
		var posterKey *string
		if err := row.Scan(&posterKey); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return repository.ErrMovieNotFound
			}
			return fmt.Errorf("failed to update movie: %w", err)
		}
		movie.PosterKey = ""
		if posterKey != nil {
			movie.PosterKey = *posterKey
		}
		return nil
	})
}

// SetPosterKey records the object storage key of the movie's poster.
func (r *MovieRepository) SetPosterKey(ctx context.Context, id int64, key string) error {
	const query = `
		UPDATE movies
		SET poster_key = $2
		WHERE id = $1
	`

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQueryUpdate, metrics.TableMovies).Inc()

	return inTx(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, query, id, key)
		if err != nil {
			return fmt.Errorf("failed to set poster key: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return repository.ErrMovieNotFound
		}
		return nil
	})
}

// Delete removes a movie by ID.
func (r *MovieRepository) Delete(ctx context.Context, id int64) error {
	const query = `
		DELETE FROM movies
		WHERE id = $1
	`

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQueryDelete, metrics.TableMovies).Inc()

	return inTx(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, query, id)
		if err != nil {
			return fmt.Errorf("failed to delete movie: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return repository.ErrMovieNotFound
		}
		return nil
	})
}

// scanMovie scans a single row into a Movie model.
func scanMovie(row pgx.Row) (*model.Movie, error) {
	var (
		movie     model.Movie
		rating    *float64
		posterKey *string
	)

	err := row.Scan(
		&movie.ID,
		&movie.Title,
		&movie.Director,
		&movie.Year,
		&movie.Genre,
		&rating,
		&posterKey,
	)
	if err != nil {
		return nil, err
	}

	movie.Rating = rating
	if posterKey != nil {
		movie.PosterKey = *posterKey
	}

	return &movie, nil
}

// collectMovies drains rows into a slice, preserving store order.
func collectMovies(rows pgx.Rows) ([]*model.Movie, error) {
	var movies []*model.Movie
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan movie: %w", err)
		}
		movies = append(movies, movie)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating movies: %w", err)
	}

	return movies, nil
}

// Compile-time verification that MovieRepository implements repository.MovieRepository.
var _ repository.MovieRepository = (*MovieRepository)(nil)
