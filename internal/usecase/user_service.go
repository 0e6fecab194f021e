package usecase

import (
	"context"
	"fmt"

	"github.com/reelstore/reelstore/internal/domain/model"
	"github.com/reelstore/reelstore/internal/domain/repository"
)

// UserInput contains the caller-supplied fields of a user.
type UserInput struct {
	Name     string
	Email    string
	Password string
}

// UserService defines the interface for user business logic operations.
type UserService interface {
	// Create validates the input and inserts a new user.
	Create(ctx context.Context, input UserInput) (*model.User, error)

	// Get retrieves a user by ID.
	Get(ctx context.Context, id int64) (*model.User, error)

	// List retrieves every user.
	List(ctx context.Context) ([]*model.User, error)

	// Update validates the input and overwrites the user's fields.
	Update(ctx context.Context, id int64, input UserInput) (*model.User, error)

	// Delete removes a user by ID.
	Delete(ctx context.Context, id int64) error
}

type userService struct {
	repo repository.UserRepository
}

// NewUserService creates a new UserService instance.
func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) Create(ctx context.Context, input UserInput) (*model.User, error) {
	user, err := model.NewUser(input.Name, input.Email, input.Password)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

func (s *userService) Get(ctx context.Context, id int64) (*model.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *userService) List(ctx context.Context) ([]*model.User, error) {
	return s.repo.GetAll(ctx)
}

func (s *userService) Update(ctx context.Context, id int64, input UserInput) (*model.User, error) {
	user, err := model.NewUser(input.Name, input.Email, input.Password)
	if err != nil {
		return nil, err
	}
	user.ID = id

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *userService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
