package factory

import (
	"fmt"
	"net/http"

	"github.com/mikey/drug-checker/internal/adapters/ollama"
	"github.com/mikey/drug-checker/internal/config"
	"github.com/mikey/drug-checker/internal/core"
	"go.uber.org/zap"
)

// OllamaFactory creates Ollama LLM clients
type OllamaFactory struct {
	cfg        *config.Config
	logger     *zap.Logger
	httpClient *http.Client
}

// NewOllamaFactory creates a new Ollama factory
func NewOllamaFactory(cfg *config.Config, logger *zap.Logger, httpClient *http.Client) *OllamaFactory {
	return &OllamaFactory{
		cfg:        cfg,
		logger:     logger,
		httpClient: httpClient,
	}
}

// CreateLLMClient creates an Ollama LLM client
func (f *OllamaFactory) CreateLLMClient() (core.LLMClient, error) {
	ollamaCfg, err := f.cfg.GetOllama()
	if err != nil {
		return nil, err
	}
	if ollamaCfg.BaseURL == "" {
		return nil, fmt.Errorf("ollama base URL is required")
	}

	return ollama.NewOllamaClient(
		f.httpClient,
		ollamaCfg.BaseURL,
		ollamaCfg.Model,
		ollamaCfg.Timeout,
		f.logger,
	), nil
}
