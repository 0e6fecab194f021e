package repository

import (
	"context"

	"github.com/reelstore/reelstore/internal/domain/model"
)

// UserRepository defines the interface for user persistence operations.
type UserRepository interface {
	// Create persists a new user. The store assigns the ID and writes it
	// back onto the given entity. Returns ErrDuplicateEmail if the email
	// is already registered.
	Create(ctx context.Context, user *model.User) error

	// GetByID retrieves a user by ID.
	// Returns nil and ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id int64) (*model.User, error)

	// GetAll retrieves every user.
	GetAll(ctx context.Context) ([]*model.User, error)

	// Update persists changes to an existing user.
	// Returns ErrUserNotFound if the user does not exist.
	Update(ctx context.Context, user *model.User) error

	// Delete removes a user by ID.
	// Returns ErrUserNotFound if the user does not exist.
	Delete(ctx context.Context, id int64) error
}
