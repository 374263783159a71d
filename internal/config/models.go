package config

import (
	"fmt"
	"time"
)

// LLMConfig represents the configuration for the LLM provider
type LLMConfig struct {
	Provider string
}

// LabelsConfig represents the configuration for the openFDA label endpoint
type LabelsConfig struct {
	Endpoint       string
	APIKey         string
	Timeout        time.Duration
	SuggestTimeout time.Duration
	FetchLimit     int
	SuggestLimit   int
	RatePerSecond  float64
	Burst          int
}

// OllamaConfig represents the configuration for a local Ollama server
type OllamaConfig struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey    string
	BaseURL   string
	ModelName string
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey    string
	ModelName string
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region  string
	ModelID string
	TopP    float32
}

// SummaryConfig controls the patient summary generation
type SummaryConfig struct {
	Enabled       bool
	MaxTokens     int
	Temperature   float32
	MaxInputChars int
	FallbackChars int
	Stop          []string
}

// SeverityConfig holds the keyword sets used by the classifier
type SeverityConfig struct {
	RedKeywords    []string
	YellowKeywords []string
}

// StorageConfig represents the configuration for the persistent store
type StorageConfig struct {
	Type       string
	DataDir    string
	SQLitePath string
	MySQLDSN   string
}

// HistoryConfig controls the check history
type HistoryConfig struct {
	MaxEntries   int
	DisplayLimit int
}

// GetLLM returns the LLM configuration
func (c *Config) GetLLM() LLMConfig {
	return LLMConfig{
		Provider: c.GetString("llm.provider"),
	}
}

// GetLabels returns the label endpoint configuration
func (c *Config) GetLabels() (LabelsConfig, error) {
	timeout, err := c.GetDuration("labels.timeout")
	if err != nil {
		return LabelsConfig{}, fmt.Errorf("invalid labels.timeout: %w", err)
	}
	suggestTimeout, err := c.GetDuration("labels.suggest_timeout")
	if err != nil {
		return LabelsConfig{}, fmt.Errorf("invalid labels.suggest_timeout: %w", err)
	}
	return LabelsConfig{
		Endpoint:       c.GetString("labels.endpoint"),
		APIKey:         c.GetString("labels.api_key"),
		Timeout:        timeout,
		SuggestTimeout: suggestTimeout,
		FetchLimit:     c.GetInt("labels.fetch_limit"),
		SuggestLimit:   c.GetInt("labels.suggest_limit"),
		RatePerSecond:  c.GetFloat64("labels.rate_per_second"),
		Burst:          c.GetInt("labels.burst"),
	}, nil
}

// GetOllama returns the Ollama configuration
func (c *Config) GetOllama() (OllamaConfig, error) {
	timeout, err := c.GetDuration("ollama.timeout")
	if err != nil {
		return OllamaConfig{}, fmt.Errorf("invalid ollama.timeout: %w", err)
	}
	return OllamaConfig{
		BaseURL: c.GetString("ollama.base_url"),
		Model:   c.GetString("ollama.model"),
		Timeout: timeout,
	}, nil
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:    c.GetString("openai.api_key"),
		BaseURL:   c.GetString("openai.base_url"),
		ModelName: c.GetString("openai.model_name"),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:    c.GetString("gemini.api_key"),
		ModelName: c.GetString("gemini.model_name"),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:  c.GetString("bedrock.region"),
		ModelID: c.GetString("bedrock.model_id"),
		TopP:    float32(c.GetFloat64("bedrock.top_p")),
	}
}

// GetSummary returns the summary configuration
func (c *Config) GetSummary() SummaryConfig {
	return SummaryConfig{
		Enabled:       c.GetBool("summary.enabled"),
		MaxTokens:     c.GetInt("summary.max_tokens"),
		Temperature:   float32(c.GetFloat64("summary.temperature")),
		MaxInputChars: c.GetInt("summary.max_input_chars"),
		FallbackChars: c.GetInt("summary.fallback_chars"),
		Stop:          c.GetStringSlice("summary.stop"),
	}
}

// GetSeverity returns the classifier keyword configuration
func (c *Config) GetSeverity() SeverityConfig {
	return SeverityConfig{
		RedKeywords:    c.GetStringSlice("severity.red_keywords"),
		YellowKeywords: c.GetStringSlice("severity.yellow_keywords"),
	}
}

// GetStorage returns the storage configuration
func (c *Config) GetStorage() StorageConfig {
	return StorageConfig{
		Type:       c.GetString("storage.type"),
		DataDir:    c.GetString("storage.data_dir"),
		SQLitePath: c.GetString("storage.sqlite_path"),
		MySQLDSN:   c.GetString("storage.mysql_dsn"),
	}
}

// GetHistory returns the history configuration
func (c *Config) GetHistory() HistoryConfig {
	return HistoryConfig{
		MaxEntries:   c.GetInt("history.max_entries"),
		DisplayLimit: c.GetInt("history.display_limit"),
	}
}
