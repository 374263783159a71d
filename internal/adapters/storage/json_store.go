package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/mikey/drug-checker/internal/core"
	"go.uber.org/zap"
)

// File names inside the data directory
const (
	MedicationsFile = "my_medications.json"
	HistoryFile     = "check_history.json"
	CacheFile       = "interaction_cache.json"
)

// JSONStore keeps each collection in its own JSON document under a data
// directory. Missing or unreadable files load as empty collections.
type JSONStore struct {
	dir    string
	mu     sync.Mutex
	logger *zap.Logger
}

// NewJSONStore creates a new JSON file store, creating the data directory
// and empty documents on first use
func NewJSONStore(dir string, logger *zap.Logger) (*JSONStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	store := &JSONStore{
		dir:    dir,
		logger: logger,
	}

	defaults := map[string]interface{}{
		MedicationsFile: []string{},
		HistoryFile:     []core.HistoryEntry{},
		CacheFile:       map[string]core.CacheEntry{},
	}
	for name, empty := range defaults {
		path := store.path(name)
		if _, err := os.Stat(path); err == nil {
			continue
		}
		if err := store.write(name, empty); err != nil {
			return nil, err
		}
	}

	return store, nil
}

// Dir returns the data directory
func (s *JSONStore) Dir() string {
	return s.dir
}

// Get retrieves a cached entry for a pair key
func (s *JSONStore) Get(ctx context.Context, key string) (*core.CacheEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.loadCache()[key]
	if !ok {
		return nil, core.ErrNotFound
	}
	entry.Key = key
	return &entry, nil
}

// Set stores a cache entry, rewriting the whole cache document
func (s *JSONStore) Set(ctx context.Context, entry *core.CacheEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cache := s.loadCache()
	cache[entry.Key] = *entry
	return s.write(CacheFile, cache)
}

// Clear empties the cache document
func (s *JSONStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.write(CacheFile, map[string]core.CacheEntry{})
}

// Count returns the number of cached pairs
func (s *JSONStore) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.loadCache()), nil
}

// AppendHistory adds an entry and keeps the newest max entries
func (s *JSONStore) AppendHistory(ctx context.Context, entry *core.HistoryEntry, max int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := core.TrimHistory(append(s.loadHistory(), *entry), max)
	return s.write(HistoryFile, history)
}

// LoadHistory returns the history, oldest first
func (s *JSONStore) LoadHistory(ctx context.Context) ([]core.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadHistory(), nil
}

// LoadMedications returns the saved medication list
func (s *JSONStore) LoadMedications(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var meds []string
	if !s.read(MedicationsFile, &meds) || meds == nil {
		meds = []string{}
	}
	return meds, nil
}

// SaveMedications replaces the medication list
func (s *JSONStore) SaveMedications(ctx context.Context, meds []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if meds == nil {
		meds = []string{}
	}
	return s.write(MedicationsFile, meds)
}

// Close is a no-op, every write is already flushed
func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) loadCache() map[string]core.CacheEntry {
	var cache map[string]core.CacheEntry
	if !s.read(CacheFile, &cache) || cache == nil {
		cache = make(map[string]core.CacheEntry)
	}
	return cache
}

func (s *JSONStore) loadHistory() []core.HistoryEntry {
	var history []core.HistoryEntry
	if !s.read(HistoryFile, &history) {
		return nil
	}
	return history
}

func (s *JSONStore) path(name string) string {
	return filepath.Join(s.dir, name)
}

// read decodes a document into v and reports whether it succeeded. A
// missing or corrupt file reports false.
func (s *JSONStore) read(name string, v interface{}) bool {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("Failed to read data file", zap.String("file", name), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		s.logger.Warn("Ignoring corrupt data file", zap.String("file", name), zap.Error(err))
		return false
	}
	return true
}

// write replaces a document through a temp file and rename
func (s *JSONStore) write(name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", name, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := os.Rename(tmpName, s.path(name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}
	return nil
}

var _ core.Store = (*JSONStore)(nil)
