package factory

import (
	"io"

	"github.com/mikey/drug-checker/internal/adapters/cli"
	"github.com/mikey/drug-checker/internal/config"
	"github.com/mikey/drug-checker/internal/core"
	"github.com/mikey/drug-checker/internal/ports"
	"go.uber.org/zap"
)

// FrontendFactory creates the interactive front-end
type FrontendFactory struct {
	cfg         *config.Config
	logger      *zap.Logger
	checker     ports.InteractionChecker
	medications ports.MedicationManager
	history     ports.HistoryViewer
	backend     core.LLMClient
}

// NewFrontendFactory creates a new front-end factory
func NewFrontendFactory(
	cfg *config.Config,
	logger *zap.Logger,
	checker *core.InteractionService,
	medications *core.MedicationService,
	history *core.HistoryService,
	backend core.LLMClient,
) *FrontendFactory {
	return &FrontendFactory{
		cfg:         cfg,
		logger:      logger,
		checker:     checker,
		medications: medications,
		history:     history,
		backend:     backend,
	}
}

// CreateFrontend creates the numbered menu reading from in and writing to out
func (f *FrontendFactory) CreateFrontend(in io.Reader, out io.Writer) ports.Frontend {
	return cli.NewMenu(
		in,
		out,
		f.checker,
		f.medications,
		f.history,
		f.backend,
		cli.NewRenderer(nil),
		f.logger,
		cli.MenuOptions{
			HistoryLimit: f.cfg.GetHistory().DisplayLimit,
			SuggestLimit: f.cfg.GetInt("labels.suggest_limit"),
		},
	)
}
