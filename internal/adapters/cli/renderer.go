package cli

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/mikey/drug-checker/internal/core"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	summaryColumnWidth = 60
	historyPreviewLen  = 80
	ruleWidth          = 70
)

// Renderer formats results and history for the terminal
type Renderer struct {
	title  cases.Caser
	header lipgloss.Style
	cell   lipgloss.Style
	wide   lipgloss.Style
	now    core.Clock
}

// NewRenderer creates a new renderer. The clock feeds relative timestamps.
func NewRenderer(clock core.Clock) *Renderer {
	if clock == nil {
		clock = time.Now
	}
	cell := lipgloss.NewStyle().Padding(0, 1)
	return &Renderer{
		title:  cases.Title(language.English),
		header: cell.Bold(true),
		cell:   cell,
		wide:   cell.Width(summaryColumnWidth + 2),
		now:    clock,
	}
}

// Title title-cases a drug name for display
func (r *Renderer) Title(name string) string {
	return r.title.String(name)
}

// ResultTable renders results as a bordered table with a wrapped summary
// column
func (r *Renderer) ResultTable(results ...*core.InteractionResult) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Drug A", "Drug B", "Severity", "Summary").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return r.header
			case col == 3:
				return r.wide
			default:
				return r.cell
			}
		})

	for _, result := range results {
		t.Row(r.Title(result.Drug1), r.Title(result.Drug2), result.Severity.Label(), result.Summary)
	}
	return t.Render()
}

// HistoryLine renders one history entry as two lines
func (r *Renderer) HistoryLine(entry core.HistoryEntry) string {
	var sb strings.Builder
	sb.WriteString("[" + entry.Timestamp.Format("2006-01-02 15:04") + "] ")
	sb.WriteString(entry.Drug1 + " + " + entry.Drug2)
	sb.WriteString(" (" + humanize.RelTime(entry.Timestamp, r.now(), "ago", "from now") + ")\n")
	sb.WriteString("   " + entry.Severity.Label() + ": " + preview(entry.Summary, historyPreviewLen) + "...")
	return sb.String()
}

// Rule returns a horizontal rule of the given character
func (r *Renderer) Rule(char string) string {
	return strings.Repeat(char, ruleWidth)
}

func preview(text string, max int) string {
	if utf8.RuneCountInString(text) <= max {
		return text
	}
	return string([]rune(text)[:max])
}
