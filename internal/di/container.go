package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/drug-checker/internal/adapters/export"
	"github.com/mikey/drug-checker/internal/config"
	"github.com/mikey/drug-checker/internal/core"
	"github.com/mikey/drug-checker/internal/factory"
	"github.com/mikey/drug-checker/internal/logging"
	"github.com/mikey/drug-checker/internal/ports"
	"github.com/mikey/drug-checker/internal/utils"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer(opts Options) (*dig.Container, error) {
	container := dig.New()

	// Register resource tracker
	if err := container.Provide(newResources); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(func() (*config.Config, error) {
		return loadConfig(opts)
	}); err != nil {
		return nil, err
	}

	// Register logger, command line flags win over the config file
	if err := container.Provide(func(cfg *config.Config, res *Resources) (*zap.Logger, error) {
		var logger *zap.Logger
		var err error
		if opts.Verbose || opts.JSONLog {
			logger, err = logging.InitConsoleLogger(opts.Verbose, opts.JSONLog)
		} else {
			logger, err = logging.InitLogger(cfg)
		}
		if err != nil {
			return nil, err
		}
		res.track("logger", func() error {
			// Sync errors on a terminal stderr are ignored
			_ = logger.Sync()
			return nil
		})
		return logger, nil
	}); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewLLMFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewStorageFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewLabelFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewFrontendFactory); err != nil {
		return nil, err
	}

	// Register text processor
	if err := container.Provide(utils.NewTextProcessor); err != nil {
		return nil, err
	}

	// Register LLM client
	if err := container.Provide(func(f *factory.LLMFactory, res *Resources) (core.LLMClient, error) {
		client, err := f.CreateLLMClient()
		if err != nil {
			return nil, err
		}
		if closer, ok := client.(interface{ Close() error }); ok {
			res.track("LLM client", closer.Close)
		}
		return client, nil
	}); err != nil {
		return nil, err
	}

	// Register store
	if err := container.Provide(func(f *factory.StorageFactory, res *Resources) (core.Store, error) {
		store, err := f.CreateStore()
		if err != nil {
			return nil, err
		}
		res.track("store", store.Close)
		return store, nil
	}); err != nil {
		return nil, err
	}

	// Register label client
	if err := container.Provide(func(f *factory.LabelFactory) (core.LabelClient, error) {
		return f.CreateLabelClient()
	}); err != nil {
		return nil, err
	}

	// Register history exporter
	if err := container.Provide(func(f *factory.StorageFactory, logger *zap.Logger) core.HistoryExporter {
		return export.NewTextExporter(f.ExportDir(), logger)
	}); err != nil {
		return nil, err
	}

	// Register classifier
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) *core.Classifier {
		severityCfg := cfg.GetSeverity()
		return core.NewClassifier(severityCfg.RedKeywords, severityCfg.YellowKeywords, logger)
	}); err != nil {
		return nil, err
	}

	// Register summarizer
	if err := container.Provide(func(
		f *factory.LLMFactory,
		llmClient core.LLMClient,
		textProcessor *utils.TextProcessor,
		logger *zap.Logger,
	) *core.Summarizer {
		return core.NewSummarizer(llmClient, textProcessor, logger, f.SummarizerOptions())
	}); err != nil {
		return nil, err
	}

	// Register interaction service
	if err := container.Provide(func(
		f *factory.LabelFactory,
		labels core.LabelClient,
		classifier *core.Classifier,
		summarizer *core.Summarizer,
		store core.Store,
		logger *zap.Logger,
	) (*core.InteractionService, error) {
		serviceOpts, err := f.InteractionServiceOptions()
		if err != nil {
			return nil, err
		}
		return core.NewInteractionService(labels, classifier, summarizer, store, logger, serviceOpts), nil
	}); err != nil {
		return nil, err
	}

	// Register medication and history services
	if err := container.Provide(func(store core.Store, logger *zap.Logger) *core.MedicationService {
		return core.NewMedicationService(store, logger)
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(store core.Store, exporter core.HistoryExporter) *core.HistoryService {
		return core.NewHistoryService(store, exporter, nil)
	}); err != nil {
		return nil, err
	}

	// Register front-end
	if err := container.Provide(func(f *factory.FrontendFactory) ports.Frontend {
		return f.CreateFrontend(opts.input(), opts.output())
	}); err != nil {
		return nil, err
	}

	return container, nil
}
