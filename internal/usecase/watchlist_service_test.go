package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/reelstore/reelstore/internal/domain/model"
	"github.com/reelstore/reelstore/internal/domain/repository"
)

func TestWatchlistService_Add(t *testing.T) {
	var created *model.WatchlistEntry
	repo := &mockWatchlistRepo{
		createFn: func(ctx context.Context, entry *model.WatchlistEntry) error {
			entry.ID = 1
			entry.CreatedAt = time.Now()
			created = entry
			return nil
		},
	}
	svc := NewWatchlistService(repo, &mockMovieCatalog{}, &mockUserDirectory{})

	entry, err := svc.Add(context.Background(), 10, 20)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if entry.ID != 1 {
		t.Errorf("ID = %d, want 1", entry.ID)
	}
	if created == nil || created.UserID != 10 || created.MovieID != 20 {
		t.Errorf("created entry = %+v, want user 10 movie 20", created)
	}
}

func TestWatchlistService_Add_UnknownUser(t *testing.T) {
	repo := &mockWatchlistRepo{
		createFn: func(ctx context.Context, entry *model.WatchlistEntry) error {
			t.Error("Create called despite unknown user")
			return nil
		},
	}
	users := &mockUserDirectory{
		existsFn: func(ctx context.Context, id int64) (bool, error) {
			return false, nil
		},
	}
	svc := NewWatchlistService(repo, &mockMovieCatalog{}, users)

	_, err := svc.Add(context.Background(), 10, 20)
	if !errors.Is(err, repository.ErrUserNotFound) {
		t.Errorf("Add error = %v, want ErrUserNotFound", err)
	}
}

func TestWatchlistService_Add_UnknownMovie(t *testing.T) {
	repo := &mockWatchlistRepo{
		createFn: func(ctx context.Context, entry *model.WatchlistEntry) error {
			t.Error("Create called despite unknown movie")
			return nil
		},
	}
	movies := &mockMovieCatalog{
		existsFn: func(ctx context.Context, id int64) (bool, error) {
			return false, nil
		},
	}
	svc := NewWatchlistService(repo, movies, &mockUserDirectory{})

	_, err := svc.Add(context.Background(), 10, 20)
	if !errors.Is(err, repository.ErrMovieNotFound) {
		t.Errorf("Add error = %v, want ErrMovieNotFound", err)
	}
}

func TestWatchlistService_Add_Duplicate(t *testing.T) {
	repo := &mockWatchlistRepo{
		createFn: func(ctx context.Context, entry *model.WatchlistEntry) error {
			return repository.ErrDuplicateWatchlistEntry
		},
	}
	svc := NewWatchlistService(repo, &mockMovieCatalog{}, &mockUserDirectory{})

	_, err := svc.Add(context.Background(), 10, 20)
	if !errors.Is(err, repository.ErrDuplicateWatchlistEntry) {
		t.Errorf("Add error = %v, want ErrDuplicateWatchlistEntry", err)
	}
}

func TestWatchlistService_ListForUser(t *testing.T) {
	entries := []*model.WatchlistEntry{
		{ID: 1, UserID: 10, MovieID: 100},
		{ID: 2, UserID: 10, MovieID: 200},
		{ID: 3, UserID: 10, MovieID: 100},
	}
	repo := &mockWatchlistRepo{
		getByUserFn: func(ctx context.Context, userID int64) ([]*model.WatchlistEntry, error) {
			return entries, nil
		},
	}

	var batchIDs []int64
	movies := &mockMovieCatalog{
		getBatchFn: func(ctx context.Context, ids []int64) ([]MovieDetails, error) {
			batchIDs = ids
			return []MovieDetails{
				{ID: 100, Title: "First"},
				{ID: 200, Title: "Second"},
			}, nil
		},
	}
	svc := NewWatchlistService(repo, movies, &mockUserDirectory{})

	got, err := svc.ListForUser(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListForUser failed: %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("got %d entries, want 3", len(got))
	}
	if got[0].Movie == nil || got[0].Movie.Title != "First" {
		t.Errorf("entry 0 movie = %+v, want First", got[0].Movie)
	}
	if got[2].Movie == nil || got[2].Movie.Title != "First" {
		t.Errorf("entry 2 movie = %+v, want First", got[2].Movie)
	}

	// One batch call, carrying deduplicated movie IDs
	if movies.batchCount.Load() != 1 {
		t.Errorf("GetMoviesBatch called %d times, want 1", movies.batchCount.Load())
	}
	if len(batchIDs) != 2 || batchIDs[0] != 100 || batchIDs[1] != 200 {
		t.Errorf("batch IDs = %v, want [100 200]", batchIDs)
	}
}

func TestWatchlistService_ListForUser_UnknownMovieKeepsEntry(t *testing.T) {
	repo := &mockWatchlistRepo{
		getByUserFn: func(ctx context.Context, userID int64) ([]*model.WatchlistEntry, error) {
			return []*model.WatchlistEntry{
				{ID: 1, UserID: 10, MovieID: 100},
				{ID: 2, UserID: 10, MovieID: 999},
			}, nil
		},
	}
	movies := &mockMovieCatalog{
		getBatchFn: func(ctx context.Context, ids []int64) ([]MovieDetails, error) {
			return []MovieDetails{{ID: 100, Title: "Known"}}, nil
		},
	}
	svc := NewWatchlistService(repo, movies, &mockUserDirectory{})

	got, err := svc.ListForUser(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListForUser failed: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2", len(got))
	}
	if got[1].Movie != nil {
		t.Errorf("entry for unknown movie has details: %+v", got[1].Movie)
	}
}

func TestWatchlistService_ListForUser_Empty(t *testing.T) {
	repo := &mockWatchlistRepo{}
	movies := &mockMovieCatalog{}
	svc := NewWatchlistService(repo, movies, &mockUserDirectory{})

	got, err := svc.ListForUser(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListForUser failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d entries, want 0", len(got))
	}

	// No entries means no batch call
	if movies.batchCount.Load() != 0 {
		t.Errorf("GetMoviesBatch called %d times, want 0", movies.batchCount.Load())
	}
}

func TestWatchlistService_ListForUser_UnknownUser(t *testing.T) {
	users := &mockUserDirectory{
		existsFn: func(ctx context.Context, id int64) (bool, error) {
			return false, nil
		},
	}
	svc := NewWatchlistService(&mockWatchlistRepo{}, &mockMovieCatalog{}, users)

	_, err := svc.ListForUser(context.Background(), 10)
	if !errors.Is(err, repository.ErrUserNotFound) {
		t.Errorf("ListForUser error = %v, want ErrUserNotFound", err)
	}
}

func TestWatchlistService_ExportForUser(t *testing.T) {
	repo := &mockWatchlistRepo{
		getByUserFn: func(ctx context.Context, userID int64) ([]*model.WatchlistEntry, error) {
			return []*model.WatchlistEntry{
				{ID: 1, UserID: 10, MovieID: 100},
				{ID: 2, UserID: 10, MovieID: 200},
				{ID: 3, UserID: 10, MovieID: 100},
			}, nil
		},
	}

	var batchIDs []int64
	movies := &mockMovieCatalog{
		getBatchFn: func(ctx context.Context, ids []int64) ([]MovieDetails, error) {
			batchIDs = ids
			return []MovieDetails{
				{ID: 100, Title: "First"},
				{ID: 200, Title: "Second"},
			}, nil
		},
	}
	svc := NewWatchlistService(repo, movies, &mockUserDirectory{})

	got, err := svc.ExportForUser(context.Background(), 10)
	if err != nil {
		t.Fatalf("ExportForUser failed: %v", err)
	}

	// Raw movie records, deduplicated, not per-entry enrichment
	if len(got) != 2 {
		t.Fatalf("got %d movies, want 2", len(got))
	}
	if got[0].Title != "First" || got[1].Title != "Second" {
		t.Errorf("movies = %+v, want [First Second]", got)
	}
	if movies.batchCount.Load() != 1 {
		t.Errorf("GetMoviesBatch called %d times, want 1", movies.batchCount.Load())
	}
	if len(batchIDs) != 2 || batchIDs[0] != 100 || batchIDs[1] != 200 {
		t.Errorf("batch IDs = %v, want [100 200]", batchIDs)
	}
}

func TestWatchlistService_ExportForUser_Empty(t *testing.T) {
	repo := &mockWatchlistRepo{}
	movies := &mockMovieCatalog{}
	svc := NewWatchlistService(repo, movies, &mockUserDirectory{})

	got, err := svc.ExportForUser(context.Background(), 10)
	if err != nil {
		t.Fatalf("ExportForUser failed: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("got %v, want empty non-nil slice", got)
	}
	if movies.batchCount.Load() != 0 {
		t.Errorf("GetMoviesBatch called %d times, want 0", movies.batchCount.Load())
	}
}

func TestWatchlistService_ExportForUser_UnknownUser(t *testing.T) {
	users := &mockUserDirectory{
		existsFn: func(ctx context.Context, id int64) (bool, error) {
			return false, nil
		},
	}
	svc := NewWatchlistService(&mockWatchlistRepo{}, &mockMovieCatalog{}, users)

	_, err := svc.ExportForUser(context.Background(), 10)
	if !errors.Is(err, repository.ErrUserNotFound) {
		t.Errorf("ExportForUser error = %v, want ErrUserNotFound", err)
	}
}

func TestWatchlistService_Contains(t *testing.T) {
	entry := &model.WatchlistEntry{ID: 1, UserID: 10, MovieID: 20}
	repo := &mockWatchlistRepo{
		getByUserAndMovieFn: func(ctx context.Context, userID, movieID int64) (*model.WatchlistEntry, error) {
			if userID == 10 && movieID == 20 {
				return entry, nil
			}
			return nil, nil
		},
	}
	svc := NewWatchlistService(repo, &mockMovieCatalog{}, &mockUserDirectory{})

	got, err := svc.Contains(context.Background(), 10, 20)
	if err != nil {
		t.Fatalf("Contains failed: %v", err)
	}
	if got == nil || got.ID != 1 {
		t.Errorf("got %+v, want entry 1", got)
	}

	got, err = svc.Contains(context.Background(), 10, 99)
	if err != nil {
		t.Fatalf("Contains failed: %v", err)
	}
	if got != nil {
		t.Errorf("got %+v, want nil for absent pair", got)
	}
}

func TestWatchlistService_PruneMovie(t *testing.T) {
	var prunedID int64
	repo := &mockWatchlistRepo{
		deleteByMovieFn: func(ctx context.Context, movieID int64) (int64, error) {
			prunedID = movieID
			return 3, nil
		},
	}
	svc := NewWatchlistService(repo, &mockMovieCatalog{}, &mockUserDirectory{})

	removed, err := svc.PruneMovie(context.Background(), 20)
	if err != nil {
		t.Fatalf("PruneMovie failed: %v", err)
	}
	if removed != 3 {
		t.Errorf("removed = %d, want 3", removed)
	}
	if prunedID != 20 {
		t.Errorf("pruned movie ID = %d, want 20", prunedID)
	}
}

func TestWatchlistService_PruneMovie_NoRows(t *testing.T) {
	repo := &mockWatchlistRepo{
		deleteByMovieFn: func(ctx context.Context, movieID int64) (int64, error) {
			return 0, nil
		},
	}
	svc := NewWatchlistService(repo, &mockMovieCatalog{}, &mockUserDirectory{})

	removed, err := svc.PruneMovie(context.Background(), 20)
	if err != nil {
		t.Fatalf("PruneMovie failed: %v", err)
	}
	if removed != 0 {
		t.Errorf("removed = %d, want 0", removed)
	}
}
