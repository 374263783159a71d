package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/mikey/drug-checker/internal/core"
	"github.com/mikey/drug-checker/internal/ports"
	"go.uber.org/zap"
)

const (
	goodbyeMessage     = "\n👋 Thanks for using Drug Interaction Checker!\n💡 Remember: Always consult healthcare professionals for medical advice.\n"
	interruptedMessage = "\n\n👋 Interrupted. Goodbye!\n"
	minSuggestLength   = 3
)

// MenuOptions tunes the interactive menu
type MenuOptions struct {
	HistoryLimit int
	SuggestLimit int
}

// Menu is the numbered interactive terminal front-end
type Menu struct {
	in          io.Reader
	out         io.Writer
	checker     ports.InteractionChecker
	medications ports.MedicationManager
	history     ports.HistoryViewer
	backend     core.LLMClient
	renderer    *Renderer
	logger      *zap.Logger
	opts        MenuOptions
	lines       <-chan string
}

// NewMenu creates a new interactive menu reading from in and writing to out.
// backend may be nil when summaries are disabled.
func NewMenu(
	in io.Reader,
	out io.Writer,
	checker ports.InteractionChecker,
	medications ports.MedicationManager,
	history ports.HistoryViewer,
	backend core.LLMClient,
	renderer *Renderer,
	logger *zap.Logger,
	opts MenuOptions,
) *Menu {
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = 10
	}
	if opts.SuggestLimit <= 0 {
		opts.SuggestLimit = 5
	}
	return &Menu{
		in:          in,
		out:         out,
		checker:     checker,
		medications: medications,
		history:     history,
		backend:     backend,
		renderer:    renderer,
		logger:      logger,
		opts:        opts,
	}
}

// Run shows the main menu until the user quits, input ends or ctx is
// cancelled
func (m *Menu) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	m.lines = scanLines(m.in, done)

	m.printHeader()
	m.checkBackend(ctx)

	for {
		m.printMainMenu()
		choice, err := m.readLine(ctx, "\nChoice: ")
		if err != nil {
			return m.finish(err)
		}

		switch strings.ToLower(choice) {
		case "1":
			err = m.checkTwoDrugs(ctx)
		case "2":
			err = m.checkAgainstMedications(ctx)
		case "3":
			err = m.manageMedications(ctx)
		case "4":
			err = m.showHistory(ctx)
		case "5":
			m.exportHistory(ctx)
		case "6":
			err = m.clearCache(ctx)
		case "7", "quit", "exit", "q":
			fmt.Fprintf(m.out, "%s\n", goodbyeMessage)
			return nil
		default:
			fmt.Fprintln(m.out, "\n⚠️ Invalid choice. Please try again.")
		}

		if err != nil {
			return m.finish(err)
		}
	}
}

// finish turns end of input and cancellation into a clean exit
func (m *Menu) finish(err error) error {
	switch {
	case errors.Is(err, io.EOF):
		fmt.Fprintf(m.out, "%s\n", goodbyeMessage)
		return nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		fmt.Fprintf(m.out, "%s\n", interruptedMessage)
		return nil
	default:
		return err
	}
}

func (m *Menu) printHeader() {
	heavy := m.renderer.Rule("=")
	fmt.Fprintln(m.out, "\n"+heavy)
	fmt.Fprintln(m.out, "DRUG INTERACTION CHECKER")
	fmt.Fprintln(m.out, heavy)
	if m.backend != nil {
		fmt.Fprintf(m.out, "🆓 Free label data | 🔒 Private history | 🤖 AI summaries (%s)\n", m.backend.Name())
	} else {
		fmt.Fprintln(m.out, "🆓 Free label data | 🔒 Private history")
	}
	fmt.Fprintln(m.out, heavy)
}

// checkBackend reports whether the summary backend answers, for backends
// that support a cheap reachability check
func (m *Menu) checkBackend(ctx context.Context) {
	pinger, ok := m.backend.(core.Pinger)
	if !ok {
		return
	}

	name := m.backend.Name()
	if err := pinger.Ping(ctx); err != nil {
		m.logger.Debug("Summary backend ping failed", zap.String("provider", name), zap.Error(err))
		fmt.Fprintf(m.out, "⚠️ Warning: %s may not be running. Start it for AI summaries.\n", name)
		return
	}
	fmt.Fprintf(m.out, "✓ %s detected and running\n", name)
}

func (m *Menu) printMainMenu() {
	light := m.renderer.Rule("─")
	fmt.Fprintln(m.out, "\n"+light)
	fmt.Fprintln(m.out, "MAIN MENU")
	fmt.Fprintln(m.out, light)
	fmt.Fprintln(m.out, "1. Check two drugs")
	fmt.Fprintln(m.out, "2. Check new drug against my medications")
	fmt.Fprintln(m.out, "3. Manage my medications")
	fmt.Fprintln(m.out, "4. View history")
	fmt.Fprintln(m.out, "5. Export history")
	fmt.Fprintln(m.out, "6. Clear cache")
	fmt.Fprintln(m.out, "7. Quit")
	fmt.Fprintln(m.out, light)
}

func (m *Menu) checkTwoDrugs(ctx context.Context) error {
	drugA, err := m.readDrug(ctx, "\nEnter first drug name: ")
	if err != nil {
		return err
	}
	if drugA == "" {
		fmt.Fprintln(m.out, "⚠️ Please enter a drug name.")
		return nil
	}

	drugB, err := m.readDrug(ctx, "Enter second drug name: ")
	if err != nil {
		return err
	}
	if drugB == "" {
		fmt.Fprintln(m.out, "⚠️ Please enter a drug name.")
		return nil
	}

	fmt.Fprintf(m.out, "\n🔍 Checking: %s + %s\n", m.renderer.Title(drugA), m.renderer.Title(drugB))
	result, err := m.checker.CheckInteraction(ctx, drugA, drugB, true)
	if err != nil {
		if ctx.Err() != nil {
			return err
		}
		fmt.Fprintf(m.out, "⚠️ %v\n", err)
		return nil
	}
	if result.FromCache {
		fmt.Fprintln(m.out, "   ⚡ Using cached result...")
	}
	fmt.Fprintln(m.out, m.renderer.ResultTable(result))
	return nil
}

func (m *Menu) checkAgainstMedications(ctx context.Context) error {
	drug, err := m.readDrug(ctx, "\nEnter new drug name to check: ")
	if err != nil {
		return err
	}
	if drug == "" {
		fmt.Fprintln(m.out, "⚠️ Please enter a drug name.")
		return nil
	}

	meds, err := m.medications.List(ctx)
	if err != nil {
		m.logger.Warn("Failed to load medications", zap.Error(err))
	}
	if len(meds) == 0 {
		fmt.Fprintln(m.out, "\n⚠️ No saved medications to check against. Add some first!")
		return nil
	}

	fmt.Fprintf(m.out, "\n🔍 Checking %s against %d saved medication(s)...\n\n", drug, len(meds))
	results, err := m.checker.CheckAgainstMedications(ctx, drug)
	if errors.Is(err, core.ErrNoMedications) {
		fmt.Fprintln(m.out, "\n⚠️ No saved medications to check against. Add some first!")
		return nil
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(m.out, "⚠️ %v\n", err)
	}
	for _, result := range results {
		fmt.Fprintln(m.out, m.renderer.ResultTable(result))
		fmt.Fprintln(m.out)
	}
	return nil
}

func (m *Menu) manageMedications(ctx context.Context) error {
	light := m.renderer.Rule("─")
	for {
		fmt.Fprintln(m.out, "\n"+light)
		fmt.Fprintln(m.out, "MANAGE MEDICATIONS")
		fmt.Fprintln(m.out, light)
		fmt.Fprintln(m.out, "1. View my medications")
		fmt.Fprintln(m.out, "2. Add medication")
		fmt.Fprintln(m.out, "3. Remove medication")
		fmt.Fprintln(m.out, "4. Back to main menu")
		fmt.Fprintln(m.out, light)

		choice, err := m.readLine(ctx, "\nChoice: ")
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			m.showMedications(ctx)
		case "2":
			name, err := m.readLine(ctx, "\nEnter medication name to add: ")
			if err != nil {
				return err
			}
			m.addMedication(ctx, name)
		case "3":
			m.showMedications(ctx)
			name, err := m.readLine(ctx, "\nEnter medication name to remove: ")
			if err != nil {
				return err
			}
			m.removeMedication(ctx, name)
		case "4":
			return nil
		default:
			fmt.Fprintln(m.out, "\n⚠️ Invalid choice. Please try again.")
		}
	}
}

func (m *Menu) showMedications(ctx context.Context) {
	meds, err := m.medications.List(ctx)
	if err != nil {
		m.logger.Warn("Failed to load medications", zap.Error(err))
	}
	if len(meds) == 0 {
		fmt.Fprintln(m.out, "\n💊 No medications saved yet.")
		return
	}

	fmt.Fprintln(m.out, "\n💊 Your Medications:")
	fmt.Fprintln(m.out, m.renderer.Rule("="))
	for i, med := range meds {
		fmt.Fprintf(m.out, "%d. %s\n", i+1, m.renderer.Title(med))
	}
}

func (m *Menu) addMedication(ctx context.Context, name string) {
	_, err := m.medications.Add(ctx, name)
	switch {
	case errors.Is(err, core.ErrEmptyDrugName):
		fmt.Fprintln(m.out, "\n⚠️ Please enter a medication name.")
	case errors.Is(err, core.ErrMedicationExists):
		fmt.Fprintf(m.out, "\n✓ %s is already in your medication list.\n", name)
	case err != nil:
		fmt.Fprintf(m.out, "\n⚠️ Could not save medication: %v\n", err)
	default:
		fmt.Fprintf(m.out, "\n✓ Added %s to your medication list.\n", name)
	}
}

func (m *Menu) removeMedication(ctx context.Context, name string) {
	_, err := m.medications.Remove(ctx, name)
	switch {
	case errors.Is(err, core.ErrEmptyDrugName):
		fmt.Fprintln(m.out, "\n⚠️ Please enter a medication name.")
	case errors.Is(err, core.ErrMedicationNotFound):
		fmt.Fprintf(m.out, "\n⚠️ %s is not in your medication list.\n", name)
	case err != nil:
		fmt.Fprintf(m.out, "\n⚠️ Could not save medication: %v\n", err)
	default:
		fmt.Fprintf(m.out, "\n✓ Removed %s from your medication list.\n", name)
	}
}

func (m *Menu) showHistory(ctx context.Context) error {
	answer, err := m.readLine(ctx, fmt.Sprintf("\nShow how many recent checks? (default %d): ", m.opts.HistoryLimit))
	if err != nil {
		return err
	}
	limit := m.opts.HistoryLimit
	if n, err := strconv.Atoi(answer); err == nil && n > 0 {
		limit = n
	}

	entries, err := m.history.Recent(ctx, limit)
	if err != nil {
		m.logger.Warn("Failed to load history", zap.Error(err))
	}
	if len(entries) == 0 {
		fmt.Fprintln(m.out, "\n📜 No history yet.")
		return nil
	}

	fmt.Fprintf(m.out, "\n📜 Recent Checks (last %d):\n", len(entries))
	fmt.Fprintln(m.out, m.renderer.Rule("="))
	for _, entry := range entries {
		fmt.Fprintln(m.out, "\n"+m.renderer.HistoryLine(entry))
	}
	return nil
}

func (m *Menu) exportHistory(ctx context.Context) {
	path, err := m.history.Export(ctx)
	switch {
	case errors.Is(err, core.ErrNoHistory):
		fmt.Fprintln(m.out, "\n⚠️ No history to export.")
	case err != nil:
		m.logger.Error("Failed to export history", zap.Error(err))
		fmt.Fprintf(m.out, "\n⚠️ Error exporting history: %v\n", err)
	default:
		fmt.Fprintf(m.out, "\n✓ History exported to: %s\n", path)
	}
}

func (m *Menu) clearCache(ctx context.Context) error {
	answer, err := m.readLine(ctx, "\n⚠️ Clear all cached interactions? (y/n): ")
	if err != nil {
		return err
	}
	if strings.ToLower(answer) != "y" {
		fmt.Fprintln(m.out, "\n✓ Cache not cleared.")
		return nil
	}

	if err := m.checker.ClearCache(ctx); err != nil {
		m.logger.Error("Failed to clear cache", zap.Error(err))
		fmt.Fprintf(m.out, "\n⚠️ Could not clear cache: %v\n", err)
		return nil
	}
	fmt.Fprintln(m.out, "\n✓ Cache cleared.")
	return nil
}

// readDrug reads a drug name and offers openFDA suggestions for names of
// three or more characters that are not already an exact suggestion
func (m *Menu) readDrug(ctx context.Context, prompt string) (string, error) {
	line, err := m.readLine(ctx, prompt)
	if err != nil {
		return "", err
	}
	drug := strings.ToLower(line)
	if drug == "" || utf8.RuneCountInString(drug) < minSuggestLength {
		return drug, nil
	}

	suggestions := m.checker.Suggest(ctx, drug, m.opts.SuggestLimit)
	if len(suggestions) == 0 || contains(suggestions, drug) {
		return drug, nil
	}

	fmt.Fprintf(m.out, "\n💡 Suggestions: %s\n", strings.Join(suggestions, ", "))
	answer, err := m.readLine(ctx, "Use one of these? (y/n): ")
	if err != nil {
		return "", err
	}
	if strings.ToLower(answer) != "y" {
		return drug, nil
	}

	fmt.Fprintln(m.out, "\nSuggested drugs:")
	for i, suggestion := range suggestions {
		fmt.Fprintf(m.out, "%d. %s\n", i+1, m.renderer.Title(suggestion))
	}
	choice, err := m.readLine(ctx, "Choose number (or press Enter to use your original): ")
	if err != nil {
		return "", err
	}
	if n, err := strconv.Atoi(choice); err == nil && n >= 1 && n <= len(suggestions) {
		drug = suggestions[n-1]
		fmt.Fprintf(m.out, "✓ Using: %s\n", m.renderer.Title(drug))
	}
	return drug, nil
}

// readLine prints prompt and waits for the next trimmed input line
func (m *Menu) readLine(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprint(m.out, prompt)

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-m.lines:
		if !ok {
			return "", io.EOF
		}
		return strings.TrimSpace(line), nil
	}
}

// scanLines feeds input lines to a channel so reads can be abandoned when
// the context is cancelled. The feeder stops once done is closed.
func scanLines(in io.Reader, done <-chan struct{}) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
	}()
	return lines
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

var _ ports.Frontend = (*Menu)(nil)
