package model

import "errors"

// Movie represents a movie record in the domain.
// ID is assigned by the store on insert and never changes afterwards.
type Movie struct {
	ID        int64
	Title     string
	Director  string
	Year      int
	Genre     string
	Rating    *float64
	PosterKey string
}

var (
	ErrEmptyTitle    = errors.New("title cannot be empty")
	ErrEmptyDirector = errors.New("director cannot be empty")
	ErrEmptyGenre    = errors.New("genre cannot be empty")
	ErrInvalidYear   = errors.New("year must be positive")
	ErrInvalidRating = errors.New("rating must be between 0 and 10")
	ErrTitleTooLong  = errors.New("title exceeds maximum length of 200 characters")
)

const maxTitleLength = 200

// NewMovie validates the given fields and returns an unpersisted Movie.
// The ID is zero until the record is inserted.
func NewMovie(title, director string, year int, genre string, rating *float64) (*Movie, error) {
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if len(title) > maxTitleLength {
		return nil, ErrTitleTooLong
	}
	if director == "" {
		return nil, ErrEmptyDirector
	}
	if genre == "" {
		return nil, ErrEmptyGenre
	}
	if year <= 0 {
		return nil, ErrInvalidYear
	}
	if rating != nil && (*rating < 0 || *rating > 10) {
		return nil, ErrInvalidRating
	}

	return &Movie{
		Title:    title,
		Director: director,
		Year:     year,
		Genre:    genre,
		Rating:   rating,
	}, nil
}

// HasPoster returns true if poster artwork has been attached to the movie.
func (m *Movie) HasPoster() bool {
	return m.PosterKey != ""
}
