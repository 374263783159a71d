package core

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"testing"

	"github.com/mikey/drug-checker/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubLLM records prompts and returns a canned completion or error
type stubLLM struct {
	name     string
	response string
	err      error
	calls    int
	prompts  []string
	lastOpts GenerateOptions
}

func (s *stubLLM) Name() string {
	if s.name == "" {
		return "Ollama"
	}
	return s.name
}

func (s *stubLLM) Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	s.calls++
	s.prompts = append(s.prompts, prompt)
	s.lastOpts = opts
	return s.response, s.err
}

func testSummarizerOptions() SummarizerOptions {
	return SummarizerOptions{
		Enabled:       true,
		MaxInputChars: 1500,
		FallbackChars: 200,
		Generate: GenerateOptions{
			MaxTokens:   100,
			Temperature: 0.2,
			Stop:        []string{"\n\n", "Note:", "Important:", "Disclaimer:"},
		},
	}
}

func newTestSummarizer(llm LLMClient, opts SummarizerOptions) *Summarizer {
	return NewSummarizer(llm, utils.NewTextProcessor(nil), zap.NewNop(), opts)
}

func TestSummarizePassesSentinelsThrough(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "no data", raw: "No interaction data found No interaction data found"},
		{name: "error prefix", raw: "Error: Request timed out"},
		{name: "legacy no data inside text", raw: "Warfarin text. No interaction data found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := &stubLLM{response: "should not be used"}
			s := newTestSummarizer(llm, testSummarizerOptions())

			assert.Equal(t, tt.raw, s.Summarize(context.Background(), tt.raw, "warfarin", "aspirin"))
			assert.Equal(t, 0, llm.calls)
		})
	}
}

func TestSummarizeCleansAndCapsSentences(t *testing.T) {
	llm := &stubLLM{
		response: "  Patient summary: Taking them together raises bleeding risk. Watch for bruising. Call your doctor. Extra sentence here.\n",
	}
	s := newTestSummarizer(llm, testSummarizerOptions())

	got := s.Summarize(context.Background(), "Aspirin may increase the risk of bleeding.", "warfarin", "aspirin")

	assert.Equal(t, "Taking them together raises bleeding risk. Watch for bruising. Call your doctor.", got)
	require.Equal(t, 1, llm.calls)
	assert.Equal(t, 100, llm.lastOpts.MaxTokens)
	assert.InDelta(t, 0.2, llm.lastOpts.Temperature, 0.0001)
	assert.Contains(t, llm.lastOpts.Stop, "Disclaimer:")
}

func TestSummarizeRemovesPairPhrase(t *testing.T) {
	llm := &stubLLM{response: "The interaction between warfarin and aspirin raises bleeding risk."}
	s := newTestSummarizer(llm, testSummarizerOptions())

	got := s.Summarize(context.Background(), "raw text", "warfarin", "aspirin")
	assert.Equal(t, "The interaction raises bleeding risk.", got)
}

func TestSummarizeBuildsPrompt(t *testing.T) {
	llm := &stubLLM{response: "Fine."}
	s := newTestSummarizer(llm, testSummarizerOptions())

	raw := strings.Repeat("x", 2000)
	s.Summarize(context.Background(), raw, "st  john's\twort", "warfarin")

	require.Len(t, llm.prompts, 1)
	prompt := llm.prompts[0]
	assert.Contains(t, prompt, "Read this FDA data about st john's wort and warfarin.")
	assert.Contains(t, prompt, strings.Repeat("x", 1500)+"\n")
	assert.NotContains(t, prompt, strings.Repeat("x", 1501))
	assert.True(t, strings.HasSuffix(prompt, "Patient summary (2-3 sentences only):"))
}

func TestSummarizeEmptyOutputFallsBack(t *testing.T) {
	llm := &stubLLM{response: "Patient summary:   "}
	s := newTestSummarizer(llm, testSummarizerOptions())

	raw := strings.Repeat("a", 250)
	got := s.Summarize(context.Background(), raw, "warfarin", "aspirin")

	assert.Equal(t, strings.Repeat("a", 200), got)
}

func TestSummarizeFailureSentinels(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		err      error
		want     string
	}{
		{
			name: "timeout",
			err:  fmt.Errorf("failed to call Ollama: %w", context.DeadlineExceeded),
			want: "⚠️ AI summary timed out. Using raw data.",
		},
		{
			name: "cancelled",
			err:  fmt.Errorf("failed to call Ollama: %w", context.Canceled),
			want: SummaryCanceledWarning,
		},
		{
			name: "connection refused",
			err:  &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connect: connection refused")},
			want: "⚠️ Ollama not running. Please start Ollama service.",
		},
		{
			name:     "other provider offline",
			provider: "OpenAI",
			err:      fmt.Errorf("failed to call OpenAI: %w", &net.DNSError{Err: "no such host", Name: "api.openai.com"}),
			want:     "⚠️ OpenAI not running. Please start OpenAI service.",
		},
		{
			name: "generic",
			err:  errors.New("model not found"),
			want: "⚠️ AI error: model not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := &stubLLM{name: tt.provider, err: tt.err}
			s := newTestSummarizer(llm, testSummarizerOptions())

			assert.Equal(t, tt.want, s.Summarize(context.Background(), "Aspirin text.", "warfarin", "aspirin"))
		})
	}
}

func TestSummarizeDisabled(t *testing.T) {
	llm := &stubLLM{response: "unused"}
	opts := testSummarizerOptions()
	opts.Enabled = false
	s := newTestSummarizer(llm, opts)

	raw := strings.Repeat("b", 300)
	assert.Equal(t, strings.Repeat("b", 200), s.Summarize(context.Background(), raw, "warfarin", "aspirin"))
	assert.Equal(t, 0, llm.calls)

	// Sentinels still pass through
	assert.Equal(t, "Error: boom", s.Summarize(context.Background(), "Error: boom", "warfarin", "aspirin"))
}
