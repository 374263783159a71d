package storage

import (
	"context"
	"sync"

	"github.com/mikey/drug-checker/internal/core"
	"go.uber.org/zap"
)

// MemoryStore is an in-memory implementation of core.Store
type MemoryStore struct {
	cache       map[string]core.CacheEntry
	history     []core.HistoryEntry
	medications []string
	mu          sync.RWMutex
	logger      *zap.Logger
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore(logger *zap.Logger) *MemoryStore {
	return &MemoryStore{
		cache:  make(map[string]core.CacheEntry),
		logger: logger,
	}
}

// Get retrieves a cached entry for a pair key
func (s *MemoryStore) Get(ctx context.Context, key string) (*core.CacheEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.cache[key]
	if !ok {
		return nil, core.ErrNotFound
	}
	entry.Key = key
	return &entry, nil
}

// Set stores a cache entry
func (s *MemoryStore) Set(ctx context.Context, entry *core.CacheEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache[entry.Key] = *entry
	return nil
}

// Clear removes every cache entry
func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cleared := len(s.cache)
	s.cache = make(map[string]core.CacheEntry)
	s.logger.Debug("Cleared cache entries", zap.Int("cleared_count", cleared))
	return nil
}

// Count returns the number of cached pairs
func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.cache), nil
}

// AppendHistory adds an entry and keeps the newest max entries
func (s *MemoryStore) AppendHistory(ctx context.Context, entry *core.HistoryEntry, max int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = core.TrimHistory(append(s.history, *entry), max)
	return nil
}

// LoadHistory returns a copy of the history, oldest first
func (s *MemoryStore) LoadHistory(ctx context.Context) ([]core.HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]core.HistoryEntry{}, s.history...), nil
}

// LoadMedications returns a copy of the medication list
func (s *MemoryStore) LoadMedications(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]string{}, s.medications...), nil
}

// SaveMedications replaces the medication list
func (s *MemoryStore) SaveMedications(ctx context.Context, meds []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.medications = append([]string{}, meds...)
	return nil
}

// Close is a no-op for the in-memory store
func (s *MemoryStore) Close() error {
	return nil
}

var _ core.Store = (*MemoryStore)(nil)
