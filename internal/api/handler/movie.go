package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/reelstore/reelstore/internal/domain/model"
	"github.com/reelstore/reelstore/internal/domain/repository"
	"github.com/reelstore/reelstore/internal/usecase"
)

// Request/Response types

type MovieRequest struct {
	Title    string   `json:"title"`
	Director string   `json:"director"`
	Year     int      `json:"year"`
	Genre    string   `json:"genre"`
	Rating   *float64 `json:"rating"`
}

type MovieResponse struct {
	ID        int64    `json:"id"`
	Title     string   `json:"title"`
	Director  string   `json:"director"`
	Year      int      `json:"year"`
	Genre     string   `json:"genre"`
	Rating    *float64 `json:"rating"`
	PosterKey string   `json:"poster_key,omitempty"`
}

type BatchMoviesRequest struct {
	MovieIDs []int64 `json:"movie_ids"`
}

type PosterUploadRequest struct {
	FileName string `json:"file_name"`
}

type PosterUploadResponse struct {
	Movie     MovieResponse `json:"movie"`
	UploadURL string        `json:"upload_url"`
}

type PosterDownloadResponse struct {
	DownloadURL string `json:"download_url"`
}

// MovieHandler handles movie-related HTTP requests.
type MovieHandler struct {
	svc usecase.MovieService
}

// NewMovieHandler creates a new MovieHandler.
func NewMovieHandler(svc usecase.MovieService) *MovieHandler {
	return &MovieHandler{svc: svc}
}

// Routes mounts the movie endpoints on a chi router.
func (h *MovieHandler) Routes(r chi.Router) {
	r.Post("/movies", h.Create)
	r.Get("/movies", h.List)
	r.Post("/movies/batch", h.Batch)
	r.Get("/movies/{id}", h.Get)
	r.Put("/movies/{id}", h.Update)
	r.Delete("/movies/{id}", h.Delete)
	r.Post("/movies/{id}/poster", h.CreatePosterUpload)
	r.Get("/movies/{id}/poster", h.GetPoster)
}

// Create handles POST /v1/movies
func (h *MovieHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req MovieRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	movie, err := h.svc.Create(r.Context(), usecase.MovieInput{
		Title:    req.Title,
		Director: req.Director,
		Year:     req.Year,
		Genre:    req.Genre,
		Rating:   req.Rating,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusCreated, toMovieResponse(movie))
}

// Get handles GET /v1/movies/{id}
func (h *MovieHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := movieID(w, r)
	if !ok {
		return
	}

	movie, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, toMovieResponse(movie))
}

// List handles GET /v1/movies with an optional genre query parameter.
// Unfiltered listings come from the collection cache; genre-filtered
// listings always hit the store.
func (h *MovieHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		movies []*model.Movie
		err    error
	)

	if genre := r.URL.Query().Get("genre"); genre != "" {
		movies, err = h.svc.ListByGenre(r.Context(), genre)
	} else {
		movies, err = h.svc.ListAll(r.Context())
	}
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, toMovieResponses(movies))
}

// Batch handles POST /v1/movies/batch
func (h *MovieHandler) Batch(w http.ResponseWriter, r *http.Request) {
	var req BatchMoviesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	movies, err := h.svc.GetBatch(r.Context(), req.MovieIDs)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, toMovieResponses(movies))
}

// Update handles PUT /v1/movies/{id}
func (h *MovieHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := movieID(w, r)
	if !ok {
		return
	}

	var req MovieRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	movie, err := h.svc.Update(r.Context(), id, usecase.MovieInput{
		Title:    req.Title,
		Director: req.Director,
		Year:     req.Year,
		Genre:    req.Genre,
		Rating:   req.Rating,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, toMovieResponse(movie))
}

// Delete handles DELETE /v1/movies/{id}
func (h *MovieHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := movieID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreatePosterUpload handles POST /v1/movies/{id}/poster
func (h *MovieHandler) CreatePosterUpload(w http.ResponseWriter, r *http.Request) {
	id, ok := movieID(w, r)
	if !ok {
		return
	}

	var req PosterUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}
	if req.FileName == "" {
		Error(w, http.StatusBadRequest, "invalid_file_name", "File name is required")
		return
	}

	output, err := h.svc.CreatePosterUpload(r.Context(), id, req.FileName)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusCreated, PosterUploadResponse{
		Movie:     toMovieResponse(output.Movie),
		UploadURL: output.UploadURL,
	})
}

// GetPoster handles GET /v1/movies/{id}/poster
func (h *MovieHandler) GetPoster(w http.ResponseWriter, r *http.Request) {
	id, ok := movieID(w, r)
	if !ok {
		return
	}

	downloadURL, err := h.svc.PosterDownloadURL(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, PosterDownloadResponse{DownloadURL: downloadURL})
}

func (h *MovieHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrMovieNotFound):
		Error(w, http.StatusNotFound, "movie_not_found", "Movie not found")
	case errors.Is(err, repository.ErrPosterNotFound):
		Error(w, http.StatusNotFound, "poster_not_found", "Movie has no poster")
	case errors.Is(err, model.ErrEmptyTitle),
		errors.Is(err, model.ErrTitleTooLong):
		Error(w, http.StatusBadRequest, "invalid_title", err.Error())
	case errors.Is(err, model.ErrEmptyDirector):
		Error(w, http.StatusBadRequest, "invalid_director", err.Error())
	case errors.Is(err, model.ErrEmptyGenre):
		Error(w, http.StatusBadRequest, "invalid_genre", err.Error())
	case errors.Is(err, model.ErrInvalidYear):
		Error(w, http.StatusBadRequest, "invalid_year", err.Error())
	case errors.Is(err, model.ErrInvalidRating):
		Error(w, http.StatusBadRequest, "invalid_rating", err.Error())
	default:
		Error(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}

// movieID parses the {id} URL parameter, writing a 400 response on failure.
func movieID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_movie_id", "Movie ID must be an integer")
		return 0, false
	}
	return id, true
}

func toMovieResponse(m *model.Movie) MovieResponse {
	return MovieResponse{
		ID:        m.ID,
		Title:     m.Title,
		Director:  m.Director,
		Year:      m.Year,
		Genre:     m.Genre,
		Rating:    m.Rating,
		PosterKey: m.PosterKey,
	}
}

func toMovieResponses(movies []*model.Movie) []MovieResponse {
	responses := make([]MovieResponse, 0, len(movies))
	for _, m := range movies {
		responses = append(responses, toMovieResponse(m))
	}
	return responses
}
