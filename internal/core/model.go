package core

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Severity is the heuristic concern level of an interaction
type Severity string

const (
	SeverityUnknown  Severity = "Unknown"
	SeverityLow      Severity = "Low"
	SeverityModerate Severity = "Moderate"
	SeverityHigh     Severity = "High"
)

// Label returns the severity with its colour marker for display
func (s Severity) Label() string {
	switch s {
	case SeverityHigh:
		return "🔴 High"
	case SeverityModerate:
		return "🟡 Moderate"
	case SeverityLow:
		return "🟢 Low"
	default:
		return "⚪ Unknown"
	}
}

// ParseSeverity accepts both the bare word and the display label
func ParseSeverity(value string) Severity {
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return SeverityUnknown
	}
	switch strings.ToLower(fields[len(fields)-1]) {
	case "high":
		return SeverityHigh
	case "moderate":
		return SeverityModerate
	case "low":
		return SeverityLow
	default:
		return SeverityUnknown
	}
}

// UnmarshalJSON decodes a stored severity, accepting display labels
func (s *Severity) UnmarshalJSON(data []byte) error {
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return fmt.Errorf("failed to decode severity: %w", err)
	}
	*s = ParseSeverity(value)
	return nil
}

// timestampLayouts are tried in order when decoding stored timestamps.
// The zoneless layouts are read as local time.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// ParseTimestamp parses a stored timestamp, with or without a zone offset.
// An empty value is the zero time.
func ParseTimestamp(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(timestampLayouts[0], value); err == nil {
		return t, nil
	}
	for _, layout := range timestampLayouts[1:] {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}

// Legacy sentinel strings the label data renders into combined text
const (
	NoDataSentinel      = "No interaction data found"
	ErrorSentinelPrefix = "Error: "
	TimeoutMessage      = "Request timed out"
)

// NoDataSummary is stored when neither label lookup produced usable text
const NoDataSummary = "No interaction data available in FDA database. Consult healthcare provider."

// LabelStatus tags the outcome of a label lookup
type LabelStatus int

const (
	LabelFound LabelStatus = iota
	LabelNoData
	LabelFailed
)

// LabelResult is the outcome of fetching interaction text for one drug
type LabelResult struct {
	Status  LabelStatus
	Texts   []string
	Message string
}

// LabelTexts wraps found interaction text
func LabelTexts(texts []string) LabelResult {
	return LabelResult{Status: LabelFound, Texts: texts}
}

// LabelMissing reports that the label database has nothing for the drug
func LabelMissing() LabelResult {
	return LabelResult{Status: LabelNoData}
}

// LabelError reports a failed lookup
func LabelError(message string) LabelResult {
	return LabelResult{Status: LabelFailed, Message: message}
}

// Fragments renders the result as text fragments, using the sentinel
// strings for the no-data and failure variants.
func (r LabelResult) Fragments() []string {
	switch r.Status {
	case LabelFound:
		return r.Texts
	case LabelNoData:
		return []string{NoDataSentinel}
	default:
		return []string{ErrorSentinelPrefix + r.Message}
	}
}

// PairKey returns the order-independent cache key for two drug names
func PairKey(drug1, drug2 string) string {
	names := []string{NormalizeName(drug1), NormalizeName(drug2)}
	sort.Strings(names)
	return strings.Join(names, "-")
}

// NormalizeName lowercases and trims a drug name
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// CacheEntry is a stored interaction result for one unordered drug pair
type CacheEntry struct {
	Key       string    `json:"-"`
	Severity  Severity  `json:"severity"`
	Summary   string    `json:"summary"`
	Timestamp time.Time `json:"timestamp"`
}

// UnmarshalJSON decodes a cache entry, tolerating zoneless timestamps
func (e *CacheEntry) UnmarshalJSON(data []byte) error {
	type plain CacheEntry
	aux := struct {
		*plain
		Timestamp string `json:"timestamp"`
	}{plain: (*plain)(e)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	t, err := ParseTimestamp(aux.Timestamp)
	if err != nil {
		return err
	}
	e.Timestamp = t
	return nil
}

// HistoryEntry records one interaction check as it was requested
type HistoryEntry struct {
	ID        string    `json:"id"`
	Drug1     string    `json:"drug1"`
	Drug2     string    `json:"drug2"`
	Severity  Severity  `json:"severity"`
	Summary   string    `json:"summary"`
	Timestamp time.Time `json:"timestamp"`
}

// UnmarshalJSON decodes a history entry, tolerating zoneless timestamps
func (e *HistoryEntry) UnmarshalJSON(data []byte) error {
	type plain HistoryEntry
	aux := struct {
		*plain
		Timestamp string `json:"timestamp"`
	}{plain: (*plain)(e)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	t, err := ParseTimestamp(aux.Timestamp)
	if err != nil {
		return err
	}
	e.Timestamp = t
	return nil
}

// NewHistoryEntry creates a history entry stamped with a fresh ID
func NewHistoryEntry(drug1, drug2 string, severity Severity, summary string, at time.Time) *HistoryEntry {
	return &HistoryEntry{
		ID:        uuid.NewString(),
		Drug1:     drug1,
		Drug2:     drug2,
		Severity:  severity,
		Summary:   summary,
		Timestamp: at,
	}
}

// TrimHistory keeps the newest max entries, oldest first
func TrimHistory(entries []HistoryEntry, max int) []HistoryEntry {
	if max <= 0 || len(entries) <= max {
		return entries
	}
	return entries[len(entries)-max:]
}

// InteractionResult is what a check hands back for presentation
type InteractionResult struct {
	Drug1     string
	Drug2     string
	Severity  Severity
	Summary   string
	FromCache bool
	CheckedAt time.Time
}
