package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// MovieDeletedEvent is published after a movie row has been removed from the
// store. Delivery is at-least-once; consumers must handle the event
// idempotently.
type MovieDeletedEvent struct {
	EventID    uuid.UUID `json:"event_id"`
	MovieID    int64     `json:"movie_id"`
	OccurredAt time.Time `json:"occurred_at"`
	RetryCount int       `json:"retry_count"`
}

// EventQueue defines the interface for movie lifecycle event transport.
// Implementations should be provided by the infrastructure layer (e.g., RabbitMQ).
type EventQueue interface {
	// PublishMovieDeleted sends a movie-deleted event to the queue.
	// Used by the movie service after a successful delete.
	PublishMovieDeleted(ctx context.Context, event MovieDeletedEvent) error

	// ConsumeMovieDeleted starts consuming movie-deleted events.
	// The handler is called for each received event; returning an error
	// requeues the event with an incremented RetryCount.
	// Blocks until the context is cancelled or the channel is closed.
	ConsumeMovieDeleted(ctx context.Context, handler func(event MovieDeletedEvent) error) error

	// Close gracefully closes the connection to the message queue.
	Close() error
}
