package model

import (
	"errors"
	"strings"
)

// User represents a registered user.
type User struct {
	ID       int64
	Name     string
	Email    string
	Password string
}

var (
	ErrEmptyName    = errors.New("name cannot be empty")
	ErrInvalidEmail = errors.New("email is not valid")
	ErrEmptyPass    = errors.New("password cannot be empty")
)

// NewUser validates the given fields and returns an unpersisted User.
func NewUser(name, email, password string) (*User, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}
	if password == "" {
		return nil, ErrEmptyPass
	}

	return &User{
		Name:     name,
		Email:    email,
		Password: password,
	}, nil
}
