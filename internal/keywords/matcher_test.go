package keywords

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestMatcherNormalizesKeywords(t *testing.T) {
	m := NewMatcher("red", []string{"  Fatal ", "", "DO NOT"}, zap.NewNop())

	keyword, ok := m.Match("may be fatal")
	assert.True(t, ok)
	assert.Equal(t, "fatal", keyword)

	keyword, ok = m.Match("do not combine")
	assert.True(t, ok)
	assert.Equal(t, "do not", keyword)

	// The blank entry is dropped rather than matching everything
	_, ok = NewMatcher("empty", []string{" ", ""}, nil).Match("anything")
	assert.False(t, ok)
}

func TestMatcherMatch(t *testing.T) {
	m := NewMatcher("yellow", []string{"monitor", "may increase"}, nil)

	tests := []struct {
		name    string
		text    string
		want    string
		matched bool
	}{
		{name: "single word", text: "monitor inr closely", want: "monitor", matched: true},
		{name: "phrase", text: "aspirin may increase bleeding", want: "may increase", matched: true},
		{name: "substring of a longer word", text: "monitoring advised", want: "monitor", matched: true},
		{name: "no match", text: "no interaction known", matched: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := m.Match(tt.text)
			assert.Equal(t, tt.matched, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatcherEmptySetNeverMatches(t *testing.T) {
	m := NewMatcher("empty", nil, nil)
	_, ok := m.Match("anything at all")
	assert.False(t, ok)
}
