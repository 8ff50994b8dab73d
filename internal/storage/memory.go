package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/cs-practicals/algosim/internal/models"
)

// ResultRepository stores completion results. Live round state is never
// persisted; a result is written once when a round completes.
// It is implemented by the memory, Redis, SQLite and Cassandra stores.
type ResultRepository interface {
	SaveResult(ctx context.Context, result *models.Result) error
	GetResult(ctx context.Context, id string) (*models.Result, error)
	// ListResults returns a practical's results, newest first. A limit
	// of zero or less returns everything.
	ListResults(ctx context.Context, practicalID string, limit int) ([]*models.Result, error)
}

// MemoryStorage provides in-memory storage for results
type MemoryStorage struct {
	mu      sync.RWMutex
	results map[string]*models.Result
}

// NewMemoryStorage creates a new in-memory storage
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		results: make(map[string]*models.Result),
	}
}

// SaveResult stores a copy of result
func (s *MemoryStorage) SaveResult(ctx context.Context, result *models.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.results[result.ID]; exists {
		return ErrResultExists
	}

	r := *result
	s.results[result.ID] = &r
	return nil
}

// GetResult retrieves a result by ID
func (s *MemoryStorage) GetResult(ctx context.Context, id string) (*models.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result, exists := s.results[id]
	if !exists {
		return nil, ErrResultNotFound
	}

	r := *result
	return &r, nil
}

// ListResults retrieves a practical's results, newest first
func (s *MemoryStorage) ListResults(ctx context.Context, practicalID string, limit int) ([]*models.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []*models.Result
	for _, result := range s.results {
		if result.PracticalID == practicalID {
			r := *result
			results = append(results, &r)
		}
	}

	SortNewestFirst(results)
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// SortNewestFirst orders results by completion time, newest first, ties
// broken by id so listings are stable.
func SortNewestFirst(results []*models.Result) {
	sort.Slice(results, func(i, j int) bool {
		if !results[i].CompletedAt.Equal(results[j].CompletedAt) {
			return results[i].CompletedAt.After(results[j].CompletedAt)
		}
		return results[i].ID < results[j].ID
	})
}

// Errors
var (
	ErrResultNotFound = &StorageError{Message: "result not found"}
	ErrResultExists   = &StorageError{Message: "result already exists"}
)

// StorageError represents a storage error
type StorageError struct {
	Message string
}

func (e *StorageError) Error() string {
	return e.Message
}
