package usecase

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/reelstore/reelstore/internal/domain/model"
	"github.com/reelstore/reelstore/internal/domain/repository"
)

// mockMovieService is a mock implementation of MovieService for testing the
// caching decorator. Call counters double as store-access spies.
type mockMovieService struct {
	createFn       func(ctx context.Context, input MovieInput) (*model.Movie, error)
	getFn          func(ctx context.Context, id int64) (*model.Movie, error)
	getBatchFn     func(ctx context.Context, ids []int64) ([]*model.Movie, error)
	listAllFn      func(ctx context.Context) ([]*model.Movie, error)
	listByGenreFn  func(ctx context.Context, genre string) ([]*model.Movie, error)
	updateFn       func(ctx context.Context, id int64, input MovieInput) (*model.Movie, error)
	deleteFn       func(ctx context.Context, id int64) error
	posterUploadFn func(ctx context.Context, id int64, filename string) (*PosterUploadOutput, error)
	posterURLFn    func(ctx context.Context, id int64) (string, error)

	getCount         atomic.Int32
	getBatchCount    atomic.Int32
	listAllCount     atomic.Int32
	listByGenreCount atomic.Int32
}

func (m *mockMovieService) Create(ctx context.Context, input MovieInput) (*model.Movie, error) {
	if m.createFn != nil {
		return m.createFn(ctx, input)
	}
	return nil, nil
}

func (m *mockMovieService) Get(ctx context.Context, id int64) (*model.Movie, error) {
	m.getCount.Add(1)
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, nil
}

func (m *mockMovieService) GetBatch(ctx context.Context, ids []int64) ([]*model.Movie, error) {
	m.getBatchCount.Add(1)
	if m.getBatchFn != nil {
		return m.getBatchFn(ctx, ids)
	}
	return nil, nil
}

func (m *mockMovieService) ListAll(ctx context.Context) ([]*model.Movie, error) {
	m.listAllCount.Add(1)
	if m.listAllFn != nil {
		return m.listAllFn(ctx)
	}
	return nil, nil
}

func (m *mockMovieService) ListByGenre(ctx context.Context, genre string) ([]*model.Movie, error) {
	m.listByGenreCount.Add(1)
	if m.listByGenreFn != nil {
		return m.listByGenreFn(ctx, genre)
	}
	return nil, nil
}

func (m *mockMovieService) Update(ctx context.Context, id int64, input MovieInput) (*model.Movie, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, input)
	}
	return nil, nil
}

func (m *mockMovieService) Delete(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockMovieService) CreatePosterUpload(ctx context.Context, id int64, filename string) (*PosterUploadOutput, error) {
	if m.posterUploadFn != nil {
		return m.posterUploadFn(ctx, id, filename)
	}
	return nil, nil
}

func (m *mockMovieService) PosterDownloadURL(ctx context.Context, id int64) (string, error) {
	if m.posterURLFn != nil {
		return m.posterURLFn(ctx, id)
	}
	return "", nil
}

// mockMovieCache is an in-memory mock of cache.MovieCache.
type mockMovieCache struct {
	mu      sync.RWMutex
	data    map[int64]*model.Movie
	list    []*model.Movie
	hasList bool

	getFn        func(ctx context.Context, id int64) (*model.Movie, error)
	setFn        func(ctx context.Context, movie *model.Movie, ttl time.Duration) error
	deleteFn     func(ctx context.Context, id int64) error
	getListFn    func(ctx context.Context) ([]*model.Movie, error)
	setListFn    func(ctx context.Context, movies []*model.Movie, ttl time.Duration) error
	deleteListFn func(ctx context.Context) error

	getCount atomic.Int32
	setCount atomic.Int32
}

func newMockMovieCache() *mockMovieCache {
	return &mockMovieCache{
		data: make(map[int64]*model.Movie),
	}
}

func (m *mockMovieCache) Get(ctx context.Context, id int64) (*model.Movie, error) {
	m.getCount.Add(1)
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data[id], nil
}

func (m *mockMovieCache) Set(ctx context.Context, movie *model.Movie, ttl time.Duration) error {
	m.setCount.Add(1)
	if m.setFn != nil {
		return m.setFn(ctx, movie, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[movie.ID] = movie
	return nil
}

func (m *mockMovieCache) Delete(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, id)
	return nil
}

func (m *mockMovieCache) GetList(ctx context.Context) ([]*model.Movie, error) {
	if m.getListFn != nil {
		return m.getListFn(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.hasList {
		return nil, nil
	}
	return m.list, nil
}

func (m *mockMovieCache) SetList(ctx context.Context, movies []*model.Movie, ttl time.Duration) error {
	if m.setListFn != nil {
		return m.setListFn(ctx, movies, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if movies == nil {
		movies = []*model.Movie{}
	}
	m.list = movies
	m.hasList = true
	return nil
}

func (m *mockMovieCache) DeleteList(ctx context.Context) error {
	if m.deleteListFn != nil {
		return m.deleteListFn(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.list = nil
	m.hasList = false
	return nil
}

func (m *mockMovieCache) cached(id int64) *model.Movie {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data[id]
}

func (m *mockMovieCache) listCached() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hasList
}

// fakeMovieRepo is an in-memory implementation of repository.MovieRepository
// with store-assigned IDs, used for end-to-end service scenarios.
type fakeMovieRepo struct {
	mu     sync.Mutex
	rows   map[int64]model.Movie
	nextID int64

	queryCount atomic.Int32
}

func newFakeMovieRepo() *fakeMovieRepo {
	return &fakeMovieRepo{rows: make(map[int64]model.Movie)}
}

func (f *fakeMovieRepo) Create(ctx context.Context, movie *model.Movie) error {
	f.queryCount.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	movie.ID = f.nextID
	f.rows[movie.ID] = *movie
	return nil
}

func (f *fakeMovieRepo) GetByID(ctx context.Context, id int64) (*model.Movie, error) {
	f.queryCount.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok {
		return nil, repository.ErrMovieNotFound
	}
	return &row, nil
}

func (f *fakeMovieRepo) GetByIDs(ctx context.Context, ids []int64) ([]*model.Movie, error) {
	f.queryCount.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := make(map[int64]struct{}, len(ids))
	var movies []*model.Movie
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if row, ok := f.rows[id]; ok {
			m := row
			movies = append(movies, &m)
		}
	}
	return movies, nil
}

func (f *fakeMovieRepo) GetAll(ctx context.Context) ([]*model.Movie, error) {
	f.queryCount.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	movies := make([]*model.Movie, 0, len(f.rows))
	for id := int64(1); id <= f.nextID; id++ {
		if row, ok := f.rows[id]; ok {
			m := row
			movies = append(movies, &m)
		}
	}
	return movies, nil
}

func (f *fakeMovieRepo) GetByGenre(ctx context.Context, genre string) ([]*model.Movie, error) {
	f.queryCount.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	var movies []*model.Movie
	for id := int64(1); id <= f.nextID; id++ {
		if row, ok := f.rows[id]; ok && row.Genre == genre {
			m := row
			movies = append(movies, &m)
		}
	}
	return movies, nil
}

func (f *fakeMovieRepo) Update(ctx context.Context, movie *model.Movie) error {
	f.queryCount.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[movie.ID]
	if !ok {
		return repository.ErrMovieNotFound
	}
	movie.PosterKey = row.PosterKey
	f.rows[movie.ID] = *movie
	return nil
}

func (f *fakeMovieRepo) SetPosterKey(ctx context.Context, id int64, key string) error {
	f.queryCount.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok {
		return repository.ErrMovieNotFound
	}
	row.PosterKey = key
	f.rows[id] = row
	return nil
}

func (f *fakeMovieRepo) Delete(ctx context.Context, id int64) error {
	f.queryCount.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[id]; !ok {
		return repository.ErrMovieNotFound
	}
	delete(f.rows, id)
	return nil
}

// mockEventQueue records published events.
type mockEventQueue struct {
	mu        sync.Mutex
	published []repository.MovieDeletedEvent
	publishFn func(ctx context.Context, event repository.MovieDeletedEvent) error
}

func (m *mockEventQueue) PublishMovieDeleted(ctx context.Context, event repository.MovieDeletedEvent) error {
	if m.publishFn != nil {
		return m.publishFn(ctx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, event)
	return nil
}

func (m *mockEventQueue) ConsumeMovieDeleted(ctx context.Context, handler func(event repository.MovieDeletedEvent) error) error {
	return nil
}

func (m *mockEventQueue) Close() error { return nil }

func (m *mockEventQueue) events() []repository.MovieDeletedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]repository.MovieDeletedEvent(nil), m.published...)
}

// mockObjectStorage is a mock implementation of repository.ObjectStorage.
type mockObjectStorage struct {
	presignPutFn func(ctx context.Context, key string, expiry time.Duration) (string, error)
	presignGetFn func(ctx context.Context, key string, expiry time.Duration) (string, error)
	deleteFn     func(ctx context.Context, key string) error

	mu      sync.Mutex
	deleted []string
}

func (m *mockObjectStorage) PresignedUploadURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if m.presignPutFn != nil {
		return m.presignPutFn(ctx, key, expiry)
	}
	return "http://minio:9000/posters/" + key + "?signature=put", nil
}

func (m *mockObjectStorage) PresignedDownloadURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if m.presignGetFn != nil {
		return m.presignGetFn(ctx, key, expiry)
	}
	return "http://minio:9000/posters/" + key + "?signature=get", nil
}

func (m *mockObjectStorage) Delete(ctx context.Context, key string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, key)
	return nil
}

// mockWatchlistRepo is a mock implementation of repository.WatchlistRepository.
type mockWatchlistRepo struct {
	createFn               func(ctx context.Context, entry *model.WatchlistEntry) error
	getByUserFn            func(ctx context.Context, userID int64) ([]*model.WatchlistEntry, error)
	getByMovieFn           func(ctx context.Context, movieID int64) ([]*model.WatchlistEntry, error)
	getByUserAndMovieFn    func(ctx context.Context, userID, movieID int64) (*model.WatchlistEntry, error)
	deleteFn               func(ctx context.Context, id int64) error
	deleteByUserAndMovieFn func(ctx context.Context, userID, movieID int64) error
	deleteByMovieFn        func(ctx context.Context, movieID int64) (int64, error)
}

func (m *mockWatchlistRepo) Create(ctx context.Context, entry *model.WatchlistEntry) error {
	if m.createFn != nil {
		return m.createFn(ctx, entry)
	}
	return nil
}

func (m *mockWatchlistRepo) GetByUserID(ctx context.Context, userID int64) ([]*model.WatchlistEntry, error) {
	if m.getByUserFn != nil {
		return m.getByUserFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockWatchlistRepo) GetByMovieID(ctx context.Context, movieID int64) ([]*model.WatchlistEntry, error) {
	if m.getByMovieFn != nil {
		return m.getByMovieFn(ctx, movieID)
	}
	return nil, nil
}

func (m *mockWatchlistRepo) GetByUserAndMovie(ctx context.Context, userID, movieID int64) (*model.WatchlistEntry, error) {
	if m.getByUserAndMovieFn != nil {
		return m.getByUserAndMovieFn(ctx, userID, movieID)
	}
	return nil, nil
}

func (m *mockWatchlistRepo) Delete(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockWatchlistRepo) DeleteByUserAndMovie(ctx context.Context, userID, movieID int64) error {
	if m.deleteByUserAndMovieFn != nil {
		return m.deleteByUserAndMovieFn(ctx, userID, movieID)
	}
	return nil
}

func (m *mockWatchlistRepo) DeleteByMovieID(ctx context.Context, movieID int64) (int64, error) {
	if m.deleteByMovieFn != nil {
		return m.deleteByMovieFn(ctx, movieID)
	}
	return 0, nil
}

// mockMovieCatalog is a mock implementation of MovieCatalog.
type mockMovieCatalog struct {
	existsFn   func(ctx context.Context, id int64) (bool, error)
	getBatchFn func(ctx context.Context, ids []int64) ([]MovieDetails, error)

	batchCount atomic.Int32
}

func (m *mockMovieCatalog) MovieExists(ctx context.Context, id int64) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, id)
	}
	return true, nil
}

func (m *mockMovieCatalog) GetMoviesBatch(ctx context.Context, ids []int64) ([]MovieDetails, error) {
	m.batchCount.Add(1)
	if m.getBatchFn != nil {
		return m.getBatchFn(ctx, ids)
	}
	return nil, nil
}

// mockUserDirectory is a mock implementation of UserDirectory.
type mockUserDirectory struct {
	existsFn func(ctx context.Context, id int64) (bool, error)
}

func (m *mockUserDirectory) UserExists(ctx context.Context, id int64) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, id)
	}
	return true, nil
}
