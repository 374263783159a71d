package openai

import (
	"context"
	"fmt"

	"github.com/mikey/drug-checker/internal/core"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAIClient is an implementation of the LLMClient interface using OpenAI
type OpenAIClient struct {
	client    *openai.Client
	modelName string
	logger    *zap.Logger
}

// NewOpenAIClient creates a new OpenAI client. An empty baseURL uses the
// public OpenAI endpoint.
func NewOpenAIClient(apiKey, baseURL, modelName string, logger *zap.Logger) *OpenAIClient {
	clientCfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientCfg.BaseURL = baseURL
	}

	return &OpenAIClient{
		client:    openai.NewClientWithConfig(clientCfg),
		modelName: modelName,
		logger:    logger,
	}
}

// Name returns the provider name
func (c *OpenAIClient) Name() string {
	return "OpenAI"
}

// Generate returns a chat completion for the prompt
func (c *OpenAIClient) Generate(ctx context.Context, prompt string, opts core.GenerateOptions) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
		Stop:        opts.Stop,
	}

	// Call OpenAI API
	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion with OpenAI: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from OpenAI")
	}

	c.logger.Debug("Generated summary",
		zap.String("model", c.modelName),
		zap.String("completion_id", resp.ID))
	return resp.Choices[0].Message.Content, nil
}

var _ core.LLMClient = (*OpenAIClient)(nil)
