package ports

import (
	"context"

	"github.com/mikey/drug-checker/internal/core"
)

// InteractionChecker runs interaction checks for a front-end
type InteractionChecker interface {
	// CheckInteraction checks one pair of drugs
	CheckInteraction(ctx context.Context, drug1, drug2 string, useCache bool) (*core.InteractionResult, error)

	// CheckAgainstMedications checks a drug against every saved medication
	CheckAgainstMedications(ctx context.Context, newDrug string) ([]*core.InteractionResult, error)

	// Suggest returns candidate names for a partial drug name
	Suggest(ctx context.Context, partial string, limit int) []string

	// ClearCache removes every cached result
	ClearCache(ctx context.Context) error
}

// MedicationManager edits the saved medication list
type MedicationManager interface {
	List(ctx context.Context) ([]string, error)
	Add(ctx context.Context, name string) (string, error)
	Remove(ctx context.Context, name string) (string, error)
}

// HistoryViewer reads and exports the check history
type HistoryViewer interface {
	// Recent returns up to limit entries, newest first
	Recent(ctx context.Context, limit int) ([]core.HistoryEntry, error)

	// Export writes the history out and returns where it went
	Export(ctx context.Context) (string, error)
}

var (
	_ InteractionChecker = (*core.InteractionService)(nil)
	_ MedicationManager  = (*core.MedicationService)(nil)
	_ HistoryViewer      = (*core.HistoryService)(nil)
)
