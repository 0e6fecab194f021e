package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/reelstore/reelstore/internal/usecase"
)

// UserClient talks to the user service over HTTP.
type UserClient struct {
	baseURL string
	http    *http.Client
}

// NewUserClient creates a client for the user service at baseURL.
func NewUserClient(baseURL string) *UserClient {
	return &UserClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

// UserExists reports whether the user service knows the given ID.
// A 404 is a definitive "no"; any other non-200 status is an error.
func (c *UserClient) UserExists(ctx context.Context, id int64) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/v1/users/%d", c.baseURL, id), nil)
	if err != nil {
		return false, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("user service request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("user service returned status %d", resp.StatusCode)
	}
}

// Compile-time verification that UserClient implements usecase.UserDirectory.
var _ usecase.UserDirectory = (*UserClient)(nil)
