package factory

import (
	"fmt"
	"net/http"

	"github.com/mikey/drug-checker/internal/config"
	"github.com/mikey/drug-checker/internal/core"
	"go.uber.org/zap"
)

// LLMFactory creates LLM clients
type LLMFactory struct {
	cfg        *config.Config
	logger     *zap.Logger
	httpClient *http.Client
}

// NewLLMFactory creates a new LLM factory
func NewLLMFactory(cfg *config.Config, logger *zap.Logger) *LLMFactory {
	return &LLMFactory{
		cfg:        cfg,
		logger:     logger,
		httpClient: &http.Client{},
	}
}

// CreateLLMClient creates a new LLM client based on the configuration. A nil
// client is returned when summaries are disabled.
func (f *LLMFactory) CreateLLMClient() (core.LLMClient, error) {
	if !f.cfg.GetSummary().Enabled {
		f.logger.Info("AI summaries disabled, no LLM client created")
		return nil, nil
	}

	llmConfig := f.cfg.GetLLM()
	f.logger.Debug("Creating LLM client", zap.String("provider", llmConfig.Provider))

	switch llmConfig.Provider {
	case "ollama":
		return NewOllamaFactory(f.cfg, f.logger, f.httpClient).CreateLLMClient()
	case "openai":
		return NewOpenAIFactory(f.cfg, f.logger).CreateLLMClient()
	case "gemini":
		return NewGeminiFactory(f.cfg, f.logger).CreateLLMClient()
	case "bedrock":
		return NewBedrockFactory(f.cfg, f.logger).CreateLLMClient()
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", llmConfig.Provider)
	}
}

// SummarizerOptions returns the summary settings in the form the core
// summarizer takes
func (f *LLMFactory) SummarizerOptions() core.SummarizerOptions {
	summaryCfg := f.cfg.GetSummary()
	return core.SummarizerOptions{
		Enabled:       summaryCfg.Enabled,
		MaxInputChars: summaryCfg.MaxInputChars,
		FallbackChars: summaryCfg.FallbackChars,
		Generate: core.GenerateOptions{
			MaxTokens:   summaryCfg.MaxTokens,
			Temperature: summaryCfg.Temperature,
			Stop:        summaryCfg.Stop,
		},
	}
}
