package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mikey/drug-checker/internal/core"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	fileNameLayout  = "drug_interaction_history_20060102_150405.txt"
	generatedLayout = "2006-01-02 15:04:05"
	entryLayout     = "2006-01-02 15:04"
	ruleWidth       = 70
)

// TextExporter writes the history as a plain text report
type TextExporter struct {
	dir    string
	title  cases.Caser
	logger *zap.Logger
}

// NewTextExporter creates an exporter writing into dir
func NewTextExporter(dir string, logger *zap.Logger) *TextExporter {
	return &TextExporter{
		dir:    dir,
		title:  cases.Title(language.English),
		logger: logger,
	}
}

// Export writes entries, given oldest first, as a report listing the
// newest check first. It returns the path of the written file.
func (e *TextExporter) Export(entries []core.HistoryEntry, now time.Time) (string, error) {
	if len(entries) == 0 {
		return "", core.ErrNoHistory
	}

	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	path := filepath.Join(e.dir, now.Format(fileNameLayout))
	if err := os.WriteFile(path, []byte(e.Render(entries, now)), 0o644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	e.logger.Info("Exported history", zap.String("path", path), zap.Int("entries", len(entries)))
	return path, nil
}

// Render formats the report without writing it
func (e *TextExporter) Render(entries []core.HistoryEntry, now time.Time) string {
	heavy := strings.Repeat("=", ruleWidth)
	light := strings.Repeat("-", ruleWidth)

	var sb strings.Builder
	sb.WriteString(heavy + "\n")
	sb.WriteString("DRUG INTERACTION CHECK HISTORY\n")
	sb.WriteString("Generated: " + now.Format(generatedLayout) + "\n")
	sb.WriteString(heavy + "\n\n")

	for i := len(entries) - 1; i >= 0; i-- {
		entry := entries[i]
		fmt.Fprintf(&sb, "[%s]\n", entry.Timestamp.Format(entryLayout))
		fmt.Fprintf(&sb, "Drugs: %s + %s\n", e.title.String(entry.Drug1), e.title.String(entry.Drug2))
		fmt.Fprintf(&sb, "Severity: %s\n", entry.Severity.Label())
		fmt.Fprintf(&sb, "Summary: %s\n", entry.Summary)
		sb.WriteString(light + "\n\n")
	}

	return sb.String()
}

var _ core.HistoryExporter = (*TextExporter)(nil)
