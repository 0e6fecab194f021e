// Package client provides HTTP clients for the record services consumed by
// the watchlist service. Remote calls are treated as black boxes with binary
// success/failure outcomes.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/reelstore/reelstore/internal/usecase"
)

const defaultTimeout = 5 * time.Second

// movieJSON mirrors the movie service's public record shape.
type movieJSON struct {
	ID       int64    `json:"id"`
	Title    string   `json:"title"`
	Director string   `json:"director"`
	Year     int      `json:"year"`
	Genre    string   `json:"genre"`
	Rating   *float64 `json:"rating"`
}

type batchRequest struct {
	MovieIDs []int64 `json:"movie_ids"`
}

// MovieClient talks to the movie service over HTTP.
type MovieClient struct {
	baseURL string
	http    *http.Client
}

// NewMovieClient creates a client for the movie service at baseURL.
func NewMovieClient(baseURL string) *MovieClient {
	return &MovieClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

// MovieExists reports whether the movie service knows the given ID.
// A 404 is a definitive "no"; any other non-200 status is an error.
func (c *MovieClient) MovieExists(ctx context.Context, id int64) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/v1/movies/%d", c.baseURL, id), nil)
	if err != nil {
		return false, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("movie service request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("movie service returned status %d", resp.StatusCode)
	}
}

// GetMoviesBatch fetches details for the given movie IDs in one call.
func (c *MovieClient) GetMoviesBatch(ctx context.Context, ids []int64) ([]usecase.MovieDetails, error) {
	body, err := json.Marshal(batchRequest{MovieIDs: ids})
	if err != nil {
		return nil, fmt.Errorf("marshal batch request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/movies/batch", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("movie service request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("movie service returned status %d", resp.StatusCode)
	}

	var movies []movieJSON
	if err := json.NewDecoder(resp.Body).Decode(&movies); err != nil {
		return nil, fmt.Errorf("decode batch response: %w", err)
	}

	details := make([]usecase.MovieDetails, 0, len(movies))
	for _, m := range movies {
		details = append(details, usecase.MovieDetails{
			ID:       m.ID,
			Title:    m.Title,
			Director: m.Director,
			Year:     m.Year,
			Genre:    m.Genre,
			Rating:   m.Rating,
		})
	}
	return details, nil
}

// Compile-time verification that MovieClient implements usecase.MovieCatalog.
var _ usecase.MovieCatalog = (*MovieClient)(nil)
