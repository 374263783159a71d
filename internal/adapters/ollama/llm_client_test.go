package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mikey/drug-checker/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGenerate(t *testing.T) {
	var got generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/generate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"response": "Taking both raises bleeding risk.", "done": true}`))
	}))
	defer server.Close()

	client := NewOllamaClient(server.Client(), server.URL, "", 0, zap.NewNop())
	text, err := client.Generate(context.Background(), "prompt text", core.GenerateOptions{
		MaxTokens:   100,
		Temperature: 0.2,
		Stop:        []string{"\n\n", "Note:"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Taking both raises bleeding risk.", text)
	assert.Equal(t, "llama3.2", got.Model)
	assert.Equal(t, "prompt text", got.Prompt)
	assert.False(t, got.Stream)
	require.NotNil(t, got.Options)
	assert.Equal(t, 100, got.Options.NumPredict)
	assert.InDelta(t, 0.2, got.Options.Temperature, 0.0001)
	assert.Equal(t, []string{"\n\n", "Note:"}, got.Options.Stop)
}

func TestGenerateHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"model 'llama3.2' not found"}`))
	}))
	defer server.Close()

	client := NewOllamaClient(server.Client(), server.URL, "llama3.2", time.Second, zap.NewNop())
	_, err := client.Generate(context.Background(), "prompt", core.GenerateOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, err.Error(), "not found")
}

func TestGenerateTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	client := NewOllamaClient(server.Client(), server.URL, "llama3.2", 50*time.Millisecond, zap.NewNop())
	_, err := client.Generate(context.Background(), "prompt", core.GenerateOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestGenerateConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	client := NewOllamaClient(nil, baseURL, "llama3.2", time.Second, zap.NewNop())
	_, err := client.Generate(context.Background(), "prompt", core.GenerateOptions{})
	require.Error(t, err)

	var opErr *net.OpError
	require.True(t, errors.As(err, &opErr))
	assert.Equal(t, "dial", opErr.Op)
}

func TestPing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		w.Write([]byte(`{"models": []}`))
	}))
	defer server.Close()

	client := NewOllamaClient(server.Client(), server.URL, "", 0, zap.NewNop())
	assert.NoError(t, client.Ping(context.Background()))
	assert.Equal(t, "Ollama", client.Name())

	server.Close()
	assert.Error(t, client.Ping(context.Background()))
}
