package utils

import (
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// TextProcessor provides utilities for processing text
type TextProcessor struct {
	logger *zap.Logger
}

// NewTextProcessor creates a new TextProcessor
func NewTextProcessor(logger *zap.Logger) *TextProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TextProcessor{
		logger: logger,
	}
}

// TruncateText returns at most maxChars characters of text. It counts
// runes, so the result is always valid UTF-8 when the input is.
func (tp *TextProcessor) TruncateText(text string, maxChars int) string {
	// If no limit or text is already within limits, return as is
	if maxChars <= 0 || utf8.RuneCountInString(text) <= maxChars {
		return text
	}

	count := 0
	for i := range text {
		if count == maxChars {
			tp.logger.Debug("Text truncated",
				zap.Int("original_size", len(text)),
				zap.Int("truncated_size", i),
				zap.Int("max_chars", maxChars))
			return text[:i]
		}
		count++
	}
	return text
}

// SanitizeUTF8 ensures the string contains only valid UTF-8 characters
func (tp *TextProcessor) SanitizeUTF8(text string) string {
	if utf8.ValidString(text) {
		return text
	}

	sanitized := strings.ToValidUTF8(text, "")
	tp.logger.Debug("Text sanitized",
		zap.Int("original_size", len(text)),
		zap.Int("sanitized_size", len(sanitized)))

	return sanitized
}

// ProcessText sanitizes and truncates text in one operation
func (tp *TextProcessor) ProcessText(text string, maxChars int) string {
	return tp.TruncateText(tp.SanitizeUTF8(text), maxChars)
}

// CollapseWhitespace replaces every run of whitespace with a single space
// and trims both ends
func (tp *TextProcessor) CollapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// RemovePhrases deletes every occurrence of each phrase, in order
func (tp *TextProcessor) RemovePhrases(text string, phrases []string) string {
	for _, phrase := range phrases {
		if phrase == "" {
			continue
		}
		text = strings.ReplaceAll(text, phrase, "")
	}
	return text
}

// LimitSentences keeps the first max sentences, splitting on ". ". When
// text is cut the result ends with a period.
func (tp *TextProcessor) LimitSentences(text string, max int) string {
	if max <= 0 {
		return text
	}
	sentences := strings.Split(text, ". ")
	if len(sentences) <= max {
		return text
	}
	return strings.Join(sentences[:max], ". ") + "."
}
