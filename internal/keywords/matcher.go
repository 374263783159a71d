package keywords

import (
	"strings"

	"go.uber.org/zap"
)

// Matcher checks free text for any of a fixed set of keywords
type Matcher struct {
	name     string
	keywords []string
	logger   *zap.Logger
}

// NewMatcher creates a new keyword matcher. Keywords are lowercased and
// trimmed; blank entries are dropped.
func NewMatcher(name string, keywords []string, logger *zap.Logger) *Matcher {
	normalized := make([]string, 0, len(keywords))
	for _, keyword := range keywords {
		keyword = strings.ToLower(strings.TrimSpace(keyword))
		if keyword != "" {
			normalized = append(normalized, keyword)
		}
	}

	if logger != nil {
		logger.Debug("Initialized keyword matcher",
			zap.String("set", name),
			zap.Strings("keywords", normalized))
	}

	return &Matcher{
		name:     name,
		keywords: normalized,
		logger:   logger,
	}
}

// Match returns the first keyword found in text, which must already be lowercase
func (m *Matcher) Match(text string) (string, bool) {
	for _, keyword := range m.keywords {
		if strings.Contains(text, keyword) {
			if m.logger != nil {
				m.logger.Debug("Keyword matched",
					zap.String("set", m.name),
					zap.String("keyword", keyword))
			}
			return keyword, true
		}
	}
	return "", false
}
