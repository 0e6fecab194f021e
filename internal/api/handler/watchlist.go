package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/reelstore/reelstore/internal/domain/model"
	"github.com/reelstore/reelstore/internal/domain/repository"
	"github.com/reelstore/reelstore/internal/usecase"
)

type AddWatchlistRequest struct {
	UserID  int64 `json:"user_id"`
	MovieID int64 `json:"movie_id"`
}

type WatchlistEntryResponse struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	MovieID   int64  `json:"movie_id"`
	CreatedAt string `json:"created_at"`
}

type EnrichedWatchlistEntryResponse struct {
	WatchlistEntryResponse
	MovieTitle    string   `json:"movie_title,omitempty"`
	MovieDirector string   `json:"movie_director,omitempty"`
	MovieYear     int      `json:"movie_year,omitempty"`
	MovieGenre    string   `json:"movie_genre,omitempty"`
	MovieRating   *float64 `json:"movie_rating,omitempty"`
}

type ExportedMovieResponse struct {
	ID       int64    `json:"id"`
	Title    string   `json:"title"`
	Director string   `json:"director"`
	Year     int      `json:"year"`
	Genre    string   `json:"genre"`
	Rating   *float64 `json:"rating,omitempty"`
}

type WatchlistMembershipResponse struct {
	InWatchlist bool                    `json:"in_watchlist"`
	Entry       *WatchlistEntryResponse `json:"entry,omitempty"`
}

// WatchlistHandler handles watchlist-related HTTP requests.
type WatchlistHandler struct {
	svc usecase.WatchlistService
}

// NewWatchlistHandler creates a new WatchlistHandler.
func NewWatchlistHandler(svc usecase.WatchlistService) *WatchlistHandler {
	return &WatchlistHandler{svc: svc}
}

// Routes mounts the watchlist endpoints on a chi router.
func (h *WatchlistHandler) Routes(r chi.Router) {
	r.Post("/watchlist", h.Add)
	r.Get("/watchlist/user/{userID}", h.ListForUser)
	r.Get("/watchlist/user/{userID}/export", h.Export)
	r.Get("/watchlist/movie/{movieID}", h.ListForMovie)
	r.Get("/watchlist/user/{userID}/movie/{movieID}", h.Contains)
	r.Delete("/watchlist/user/{userID}/movie/{movieID}", h.RemoveMovieForUser)
	r.Delete("/watchlist/{id}", h.Remove)
}

// Add handles POST /v1/watchlist
func (h *WatchlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req AddWatchlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}
	if req.UserID <= 0 || req.MovieID <= 0 {
		Error(w, http.StatusBadRequest, "invalid_request", "user_id and movie_id are required")
		return
	}

	entry, err := h.svc.Add(r.Context(), req.UserID, req.MovieID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusCreated, toWatchlistEntryResponse(entry))
}

// ListForUser handles GET /v1/watchlist/user/{userID}
func (h *WatchlistHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}

	entries, err := h.svc.ListForUser(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	responses := make([]EnrichedWatchlistEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp := EnrichedWatchlistEntryResponse{
			WatchlistEntryResponse: toWatchlistEntryResponse(e.Entry),
		}
		if e.Movie != nil {
			resp.MovieTitle = e.Movie.Title
			resp.MovieDirector = e.Movie.Director
			resp.MovieYear = e.Movie.Year
			resp.MovieGenre = e.Movie.Genre
			resp.MovieRating = e.Movie.Rating
		}
		responses = append(responses, resp)
	}
	JSON(w, http.StatusOK, responses)
}

// Export handles GET /v1/watchlist/user/{userID}/export
func (h *WatchlistHandler) Export(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}

	movies, err := h.svc.ExportForUser(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	responses := make([]ExportedMovieResponse, 0, len(movies))
	for _, m := range movies {
		responses = append(responses, ExportedMovieResponse{
			ID:       m.ID,
			Title:    m.Title,
			Director: m.Director,
			Year:     m.Year,
			Genre:    m.Genre,
			Rating:   m.Rating,
		})
	}
	JSON(w, http.StatusOK, responses)
}

// ListForMovie handles GET /v1/watchlist/movie/{movieID}
func (h *WatchlistHandler) ListForMovie(w http.ResponseWriter, r *http.Request) {
	movieID, ok := pathID(w, r, "movieID")
	if !ok {
		return
	}

	entries, err := h.svc.ListForMovie(r.Context(), movieID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	responses := make([]WatchlistEntryResponse, 0, len(entries))
	for _, e := range entries {
		responses = append(responses, toWatchlistEntryResponse(e))
	}
	JSON(w, http.StatusOK, responses)
}

// Contains handles GET /v1/watchlist/user/{userID}/movie/{movieID}
func (h *WatchlistHandler) Contains(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}
	movieID, ok := pathID(w, r, "movieID")
	if !ok {
		return
	}

	entry, err := h.svc.Contains(r.Context(), userID, movieID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	resp := WatchlistMembershipResponse{InWatchlist: entry != nil}
	if entry != nil {
		e := toWatchlistEntryResponse(entry)
		resp.Entry = &e
	}
	JSON(w, http.StatusOK, resp)
}

// Remove handles DELETE /v1/watchlist/{id}
func (h *WatchlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.svc.Remove(r.Context(), id); err != nil {
		h.handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RemoveMovieForUser handles DELETE /v1/watchlist/user/{userID}/movie/{movieID}
func (h *WatchlistHandler) RemoveMovieForUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}
	movieID, ok := pathID(w, r, "movieID")
	if !ok {
		return
	}

	if err := h.svc.RemoveMovieForUser(r.Context(), userID, movieID); err != nil {
		h.handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *WatchlistHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		Error(w, http.StatusNotFound, "user_not_found", "User not found")
	case errors.Is(err, repository.ErrMovieNotFound):
		Error(w, http.StatusNotFound, "movie_not_found", "Movie not found")
	case errors.Is(err, repository.ErrWatchlistEntryNotFound):
		Error(w, http.StatusNotFound, "watchlist_entry_not_found", "Watchlist entry not found")
	case errors.Is(err, repository.ErrDuplicateWatchlistEntry):
		Error(w, http.StatusConflict, "duplicate_entry", "Movie already in watchlist")
	default:
		Error(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_id", name+" must be an integer")
		return 0, false
	}
	return id, true
}

func toWatchlistEntryResponse(e *model.WatchlistEntry) WatchlistEntryResponse {
	return WatchlistEntryResponse{
		ID:        e.ID,
		UserID:    e.UserID,
		MovieID:   e.MovieID,
		CreatedAt: e.CreatedAt.Format(time.RFC3339),
	}
}
