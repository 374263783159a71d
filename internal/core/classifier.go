package core

import (
	"strings"

	"github.com/mikey/drug-checker/internal/keywords"
	"go.uber.org/zap"
)

// Classifier maps interaction text to a severity by keyword presence
type Classifier struct {
	red    *keywords.Matcher
	yellow *keywords.Matcher
}

// NewClassifier creates a classifier from the red and yellow keyword sets
func NewClassifier(red, yellow []string, logger *zap.Logger) *Classifier {
	return &Classifier{
		red:    keywords.NewMatcher("red", red, logger),
		yellow: keywords.NewMatcher("yellow", yellow, logger),
	}
}

// Classify returns High on any red keyword, else Moderate on any yellow
// keyword, else Low. It never returns Unknown.
func (c *Classifier) Classify(text string) Severity {
	lower := strings.ToLower(text)

	if _, ok := c.red.Match(lower); ok {
		return SeverityHigh
	}
	if _, ok := c.yellow.Match(lower); ok {
		return SeverityModerate
	}
	return SeverityLow
}
