package factory

import (
	"net/http"

	"github.com/mikey/drug-checker/internal/adapters/openfda"
	"github.com/mikey/drug-checker/internal/config"
	"github.com/mikey/drug-checker/internal/core"
	"go.uber.org/zap"
)

// LabelFactory creates drug label clients
type LabelFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewLabelFactory creates a new label factory
func NewLabelFactory(cfg *config.Config, logger *zap.Logger) *LabelFactory {
	return &LabelFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateLabelClient creates an openFDA label client
func (f *LabelFactory) CreateLabelClient() (core.LabelClient, error) {
	labelsCfg, err := f.cfg.GetLabels()
	if err != nil {
		return nil, err
	}

	return openfda.NewClient(&http.Client{}, openfda.Options{
		Endpoint:       labelsCfg.Endpoint,
		APIKey:         labelsCfg.APIKey,
		Timeout:        labelsCfg.Timeout,
		SuggestTimeout: labelsCfg.SuggestTimeout,
		RatePerSecond:  labelsCfg.RatePerSecond,
		Burst:          labelsCfg.Burst,
	}, f.logger), nil
}

// InteractionServiceOptions returns the check pipeline settings
func (f *LabelFactory) InteractionServiceOptions() (core.InteractionServiceOptions, error) {
	labelsCfg, err := f.cfg.GetLabels()
	if err != nil {
		return core.InteractionServiceOptions{}, err
	}
	return core.InteractionServiceOptions{
		FetchLimit:        labelsCfg.FetchLimit,
		MaxHistoryEntries: f.cfg.GetHistory().MaxEntries,
	}, nil
}
