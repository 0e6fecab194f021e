package repository

import "errors"

var (
	// ErrMovieNotFound is returned when a movie cannot be found.
	ErrMovieNotFound = errors.New("movie not found")

	// ErrUserNotFound is returned when a user cannot be found.
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateEmail is returned when creating a user with an email that is already registered.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrWatchlistEntryNotFound is returned when a watchlist entry cannot be found.
	ErrWatchlistEntryNotFound = errors.New("watchlist entry not found")

	// ErrDuplicateWatchlistEntry is returned when the movie is already on the user's watchlist.
	ErrDuplicateWatchlistEntry = errors.New("movie already in watchlist")

	// ErrPosterNotFound is returned when a movie has no poster artwork attached.
	ErrPosterNotFound = errors.New("poster not found")
)
