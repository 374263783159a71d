package core

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"

	"github.com/mikey/drug-checker/internal/utils"
	"go.uber.org/zap"
)

const defaultPromptFormat = `Read this FDA data about %s and %s. Write ONLY 2-3 short sentences explaining the interaction risk to a patient. Do not include any introduction, greeting, or extra text.

FDA Data:
%s

Patient summary (2-3 sentences only):`

// Warning sentinels returned in place of a generated summary
const (
	SummaryTimeoutWarning  = "⚠️ AI summary timed out. Using raw data."
	SummaryCanceledWarning = "⚠️ AI summary cancelled."
	summaryErrorFormat     = "⚠️ AI error: %s"
	summaryOfflineFormat   = "⚠️ %s not running. Please start %s service."
)

const maxSummarySentences = 3

// SummarizerOptions controls prompt size, sampling and fallbacks
type SummarizerOptions struct {
	Enabled       bool
	MaxInputChars int
	FallbackChars int
	Generate      GenerateOptions
}

// Summarizer rewrites label text into a short patient summary
type Summarizer struct {
	llmClient     LLMClient
	textProcessor *utils.TextProcessor
	logger        *zap.Logger
	opts          SummarizerOptions
	promptFormat  string
}

// NewSummarizer creates a new summarizer
func NewSummarizer(llmClient LLMClient, textProcessor *utils.TextProcessor, logger *zap.Logger, opts SummarizerOptions) *Summarizer {
	return &Summarizer{
		llmClient:     llmClient,
		textProcessor: textProcessor,
		logger:        logger,
		opts:          opts,
		promptFormat:  defaultPromptFormat,
	}
}

// Summarize returns a 2-3 sentence summary of raw for the two drugs.
// Sentinel text is returned unchanged, and generation failures come back
// as warning text rather than an error.
func (s *Summarizer) Summarize(ctx context.Context, raw, drug1, drug2 string) string {
	if isSentinelText(raw) {
		return raw
	}

	if !s.opts.Enabled || s.llmClient == nil {
		return s.fallback(raw)
	}

	drug1 = s.textProcessor.CollapseWhitespace(drug1)
	drug2 = s.textProcessor.CollapseWhitespace(drug2)
	excerpt := s.textProcessor.ProcessText(raw, s.opts.MaxInputChars)
	prompt := fmt.Sprintf(s.promptFormat, drug1, drug2, excerpt)

	generated, err := s.llmClient.Generate(ctx, prompt, s.opts.Generate)
	if err != nil {
		s.logger.Warn("Failed to generate summary",
			zap.String("provider", s.llmClient.Name()),
			zap.Error(err))
		return s.failureText(err)
	}

	summary := s.clean(generated, drug1, drug2)
	if summary == "" {
		s.logger.Debug("Generated summary empty after cleanup, using raw text")
		return s.fallback(raw)
	}
	return summary
}

// clean strips chatty lead-ins and caps the summary at three sentences
func (s *Summarizer) clean(generated, drug1, drug2 string) string {
	phrases := []string{
		"Here's a summary", "Here is a summary", "In plain English:",
		"For you:", "Patient summary:", fmt.Sprintf("between %s and %s", drug1, drug2),
		"of the FDA drug interaction data", "FDA data shows", "According to",
	}

	summary := strings.TrimSpace(generated)
	summary = s.textProcessor.RemovePhrases(summary, phrases)
	summary = s.textProcessor.CollapseWhitespace(summary)
	summary = s.textProcessor.LimitSentences(summary, maxSummarySentences)
	return strings.TrimSpace(summary)
}

func (s *Summarizer) fallback(raw string) string {
	return s.textProcessor.TruncateText(raw, s.opts.FallbackChars)
}

func (s *Summarizer) failureText(err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return SummaryCanceledWarning
	case isTimeout(err):
		return SummaryTimeoutWarning
	case isConnectionFailure(err):
		name := s.llmClient.Name()
		return fmt.Sprintf(summaryOfflineFormat, name, name)
	default:
		return fmt.Sprintf(summaryErrorFormat, err.Error())
	}
}

// isSentinelText reports whether text is a no-data or error sentinel
func isSentinelText(text string) bool {
	return strings.Contains(text, "No interaction data") || strings.HasPrefix(text, strings.TrimSpace(ErrorSentinelPrefix))
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isConnectionFailure(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return true
	}
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}
