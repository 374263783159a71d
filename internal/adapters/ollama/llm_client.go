package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mikey/drug-checker/internal/core"
	"go.uber.org/zap"
)

// Default configuration values
const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "llama3.2"
	DefaultTimeout = 60 * time.Second
	pingTimeout    = 2 * time.Second
)

// OllamaClient is an implementation of the LLMClient interface using a
// local Ollama server
type OllamaClient struct {
	httpClient *http.Client
	baseURL    string
	model      string
	timeout    time.Duration
	logger     *zap.Logger
}

// generateRequest is the /api/generate request body
type generateRequest struct {
	Model   string   `json:"model"`
	Prompt  string   `json:"prompt"`
	Stream  bool     `json:"stream"`
	Options *options `json:"options,omitempty"`
}

type options struct {
	NumPredict  int      `json:"num_predict,omitempty"`
	Temperature float32  `json:"temperature"`
	Stop        []string `json:"stop,omitempty"`
}

// generateResponse is the /api/generate response body
type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// NewOllamaClient creates a new Ollama client
func NewOllamaClient(httpClient *http.Client, baseURL, model string, timeout time.Duration, logger *zap.Logger) *OllamaClient {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &OllamaClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		model:      model,
		timeout:    timeout,
		logger:     logger,
	}
}

// Name returns the provider name
func (c *OllamaClient) Name() string {
	return "Ollama"
}

// Generate returns a non-streamed completion for the prompt
func (c *OllamaClient) Generate(ctx context.Context, prompt string, opts core.GenerateOptions) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(generateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: false,
		Options: &options{
			NumPredict:  opts.MaxTokens,
			Temperature: opts.Temperature,
			Stop:        opts.Stop,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode Ollama request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create Ollama request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	// Call Ollama API
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call Ollama: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, bytes.TrimSpace(detail))
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", fmt.Errorf("failed to decode Ollama response: %w", err)
	}

	c.logger.Debug("Generated summary",
		zap.String("model", c.model),
		zap.Int("response_chars", len(genResp.Response)))
	return genResp.Response, nil
}

// Ping checks that the Ollama server answers
func (c *OllamaClient) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return fmt.Errorf("failed to create Ollama request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach Ollama: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("ollama returned status %d", resp.StatusCode)
	}
	return nil
}

var (
	_ core.LLMClient = (*OllamaClient)(nil)
	_ core.Pinger    = (*OllamaClient)(nil)
)
