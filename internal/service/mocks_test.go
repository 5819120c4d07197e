package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"wiki-quiz/internal/domain"

	"github.com/stretchr/testify/mock"
)

// --- MockArticleScraper ---

type MockArticleScraper struct {
	mock.Mock
}

func (m *MockArticleScraper) Scrape(ctx context.Context, url string) (*domain.Article, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Article), args.Error(1)
}

// --- MockQuizRepository ---

type MockQuizRepository struct {
	mock.Mock
}

func (m *MockQuizRepository) CreateOrGet(ctx context.Context, record *domain.QuizRecord) (*domain.QuizRecord, bool, error) {
	args := m.Called(ctx, record)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.QuizRecord), args.Bool(1), args.Error(2)
}

func (m *MockQuizRepository) GetByURL(ctx context.Context, url string) (*domain.QuizRecord, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QuizRecord), args.Error(1)
}

func (m *MockQuizRepository) GetByID(ctx context.Context, id int64) (*domain.QuizRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QuizRecord), args.Error(1)
}

func (m *MockQuizRepository) List(ctx context.Context, skip, limit int) ([]*domain.QuizRecord, error) {
	args := m.Called(ctx, skip, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.QuizRecord), args.Error(1)
}

func (m *MockQuizRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// --- memoryQuizRepository ---

// memoryQuizRepository is an in-memory store with the same uniqueness
// semantics the SQLite adapter gets from its unique index on url. Used
// where tests need real concurrent create behavior.
type memoryQuizRepository struct {
	mu     sync.Mutex
	nextID int64
	byURL  map[string]*domain.QuizRecord
}

func newMemoryQuizRepository() *memoryQuizRepository {
	return &memoryQuizRepository{nextID: 1, byURL: make(map[string]*domain.QuizRecord)}
}

func (r *memoryQuizRepository) CreateOrGet(_ context.Context, record *domain.QuizRecord) (*domain.QuizRecord, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.byURL[record.URL]; ok {
		return existing, false, nil
	}
	stored := *record
	stored.ID = r.nextID
	r.nextID++
	now := time.Now().UTC()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = stored.CreatedAt
	r.byURL[record.URL] = &stored
	return &stored, true, nil
}

func (r *memoryQuizRepository) GetByURL(_ context.Context, url string) (*domain.QuizRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byURL[url], nil
}

func (r *memoryQuizRepository) GetByID(_ context.Context, id int64) (*domain.QuizRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.byURL {
		if rec.ID == id {
			return rec, nil
		}
	}
	return nil, nil
}

func (r *memoryQuizRepository) List(_ context.Context, skip, limit int) ([]*domain.QuizRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]*domain.QuizRecord, 0, len(r.byURL))
	for _, rec := range r.byURL {
		all = append(all, rec)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID > all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	if skip >= len(all) {
		return nil, nil
	}
	all = all[skip:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (r *memoryQuizRepository) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.byURL)), nil
}
