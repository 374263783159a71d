package core

import (
	"context"
	"time"
)

// LabelClient fetches drug label data
type LabelClient interface {
	// FetchInteractions returns the interaction text for a drug; failures are
	// reported through the result status rather than an error
	FetchInteractions(ctx context.Context, drugName string, limit int) LabelResult

	// SearchSuggestions returns candidate drug names for a partial name
	SearchSuggestions(ctx context.Context, partialName string, limit int) []string
}

// GenerateOptions are sampling options for a single completion
type GenerateOptions struct {
	MaxTokens   int
	Temperature float32
	Stop        []string
}

// LLMClient defines the interface for interacting with LLM services
type LLMClient interface {
	// Name is the human-facing provider name, e.g. "Ollama"
	Name() string

	// Generate returns a completion for the prompt
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
}

// Pinger is implemented by LLM clients that can check reachability cheaply
type Pinger interface {
	Ping(ctx context.Context) error
}

// CacheRepository defines the interface for caching interaction results
type CacheRepository interface {
	// Get retrieves the entry for a pair key, or ErrNotFound
	Get(ctx context.Context, key string) (*CacheEntry, error)

	// Set stores an entry, replacing any entry for the same key
	Set(ctx context.Context, entry *CacheEntry) error

	// Clear removes every entry
	Clear(ctx context.Context) error

	// Count returns the number of cached pairs
	Count(ctx context.Context) (int, error)
}

// HistoryRepository persists interaction check history
type HistoryRepository interface {
	// AppendHistory adds an entry and trims the history to the newest max
	AppendHistory(ctx context.Context, entry *HistoryEntry, max int) error

	// LoadHistory returns the history oldest first
	LoadHistory(ctx context.Context) ([]HistoryEntry, error)
}

// MedicationRepository persists the saved medication list
type MedicationRepository interface {
	LoadMedications(ctx context.Context) ([]string, error)
	SaveMedications(ctx context.Context, meds []string) error
}

// Store bundles the three collections behind one backend
type Store interface {
	CacheRepository
	HistoryRepository
	MedicationRepository
	Close() error
}

// HistoryExporter writes the history out in a human readable form
type HistoryExporter interface {
	// Export writes entries (oldest first) and returns where they went
	Export(entries []HistoryEntry, now time.Time) (string, error)
}

// Clock returns the current time
type Clock func() time.Time
