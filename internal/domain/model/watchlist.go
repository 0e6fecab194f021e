package model

import "time"

// WatchlistEntry links a user to a movie they intend to watch.
// The (UserID, MovieID) pair is unique per entry.
type WatchlistEntry struct {
	ID        int64
	UserID    int64
	MovieID   int64
	CreatedAt time.Time
}
