package core

import (
	"context"
	"fmt"
	"time"
)

// HistoryService reads and exports the interaction check history
type HistoryService struct {
	repo     HistoryRepository
	exporter HistoryExporter
	now      Clock
}

// NewHistoryService creates a new history service
func NewHistoryService(repo HistoryRepository, exporter HistoryExporter, clock Clock) *HistoryService {
	if clock == nil {
		clock = time.Now
	}
	return &HistoryService{
		repo:     repo,
		exporter: exporter,
		now:      clock,
	}
}

// Recent returns up to limit entries, newest first. A limit of zero or
// less returns everything.
func (s *HistoryService) Recent(ctx context.Context, limit int) ([]HistoryEntry, error) {
	entries, err := s.repo.LoadHistory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	return newestFirst(entries), nil
}

// Export writes the whole history through the exporter and returns the
// location it was written to
func (s *HistoryService) Export(ctx context.Context) (string, error) {
	entries, err := s.repo.LoadHistory(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load history: %w", err)
	}
	if len(entries) == 0 {
		return "", ErrNoHistory
	}

	path, err := s.exporter.Export(entries, s.now())
	if err != nil {
		return "", fmt.Errorf("failed to export history: %w", err)
	}
	return path, nil
}

func newestFirst(entries []HistoryEntry) []HistoryEntry {
	reversed := make([]HistoryEntry, len(entries))
	for i, entry := range entries {
		reversed[len(entries)-1-i] = entry
	}
	return reversed
}
