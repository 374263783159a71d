package factory

import (
	"context"
	"fmt"

	"github.com/mikey/drug-checker/internal/adapters/gemini"
	"github.com/mikey/drug-checker/internal/config"
	"github.com/mikey/drug-checker/internal/core"
	"go.uber.org/zap"
)

// GeminiFactory creates Gemini LLM clients
type GeminiFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewGeminiFactory creates a new Gemini factory
func NewGeminiFactory(cfg *config.Config, logger *zap.Logger) *GeminiFactory {
	return &GeminiFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateLLMClient creates a Gemini LLM client
func (f *GeminiFactory) CreateLLMClient() (core.LLMClient, error) {
	geminiCfg := f.cfg.GetGemini()
	if geminiCfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := gemini.NewGeminiClient(context.Background(), geminiCfg.APIKey, geminiCfg.ModelName, f.logger)
	if err != nil {
		return nil, err
	}
	return client, nil
}
