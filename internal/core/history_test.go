package core

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingExporter captures what it was asked to export
type recordingExporter struct {
	entries []HistoryEntry
	at      time.Time
	err     error
}

func (r *recordingExporter) Export(entries []HistoryEntry, now time.Time) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	r.entries = entries
	r.at = now
	return "/tmp/export.txt", nil
}

func seedHistory(store *stubStore, n int) {
	for i := 0; i < n; i++ {
		entry := NewHistoryEntry(fmt.Sprintf("drug%d", i), "aspirin", SeverityLow, "ok", fixedNow.Add(time.Duration(i)*time.Minute))
		store.history = append(store.history, *entry)
	}
}

func TestHistoryServiceRecent(t *testing.T) {
	store := newStubStore()
	seedHistory(store, 15)
	svc := NewHistoryService(store, &recordingExporter{}, nil)

	entries, err := svc.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 10)
	assert.Equal(t, "drug14", entries[0].Drug1)
	assert.Equal(t, "drug5", entries[9].Drug1)

	all, err := svc.Recent(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, all, 15)
	assert.Equal(t, "drug0", all[14].Drug1)
}

func TestHistoryServiceExport(t *testing.T) {
	store := newStubStore()
	seedHistory(store, 3)
	exporter := &recordingExporter{}
	svc := NewHistoryService(store, exporter, func() time.Time { return fixedNow })

	path, err := svc.Export(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/tmp/export.txt", path)
	assert.Len(t, exporter.entries, 3)
	assert.Equal(t, fixedNow, exporter.at)
}

func TestHistoryServiceExportEmpty(t *testing.T) {
	svc := NewHistoryService(newStubStore(), &recordingExporter{}, nil)

	_, err := svc.Export(context.Background())
	assert.ErrorIs(t, err, ErrNoHistory)
}

func TestHistoryServiceExportFailure(t *testing.T) {
	store := newStubStore()
	seedHistory(store, 1)
	svc := NewHistoryService(store, &recordingExporter{err: fmt.Errorf("permission denied")}, nil)

	_, err := svc.Export(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to export history")
}

func TestTrimHistory(t *testing.T) {
	store := newStubStore()
	seedHistory(store, 105)

	trimmed := TrimHistory(store.history, 100)
	require.Len(t, trimmed, 100)
	assert.Equal(t, "drug5", trimmed[0].Drug1)
	assert.Equal(t, "drug104", trimmed[99].Drug1)

	assert.Len(t, TrimHistory(store.history[:3], 100), 3)
}

func TestPairKey(t *testing.T) {
	assert.Equal(t, "aspirin-warfarin", PairKey("Warfarin", " aspirin "))
	assert.Equal(t, PairKey("a", "b"), PairKey("B", "A"))
}

func TestSeverityLabels(t *testing.T) {
	assert.Equal(t, "🔴 High", SeverityHigh.Label())
	assert.Equal(t, "⚪ Unknown", Severity("").Label())
	assert.Equal(t, SeverityModerate, ParseSeverity("🟡 Moderate"))
	assert.Equal(t, SeverityUnknown, ParseSeverity("bogus"))
}

func TestLabelResultFragments(t *testing.T) {
	assert.Equal(t, []string{"No interaction data found"}, LabelMissing().Fragments())
	assert.Equal(t, []string{"Error: Request timed out"}, LabelError(TimeoutMessage).Fragments())
	assert.Equal(t, []string{"a", "b"}, LabelTexts([]string{"a", "b"}).Fragments())
}

func TestParseTimestamp(t *testing.T) {
	zoned, err := ParseTimestamp("2024-03-01T12:30:00Z")
	require.NoError(t, err)
	assert.True(t, fixedNow.Equal(zoned))

	naive, err := ParseTimestamp("2024-03-01T12:30:00.5")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 12, 30, 0, 500000000, time.Local), naive)

	zero, err := ParseTimestamp("")
	require.NoError(t, err)
	assert.True(t, zero.IsZero())

	_, err = ParseTimestamp("yesterday")
	assert.Error(t, err)
}

func TestHistoryEntryJSONRoundTrip(t *testing.T) {
	entry := NewHistoryEntry("warfarin", "aspirin", SeverityHigh, "Bleeding risk.", fixedNow)
	data, err := json.Marshal(entry)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"severity":"High"`)

	var decoded HistoryEntry
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, entry.ID, decoded.ID)
	assert.Equal(t, SeverityHigh, decoded.Severity)
	assert.True(t, fixedNow.Equal(decoded.Timestamp))
}

func TestHistoryEntryRejectsBadTimestamp(t *testing.T) {
	var decoded HistoryEntry
	err := json.Unmarshal([]byte(`{"drug1":"a","timestamp":"soon"}`), &decoded)
	assert.Error(t, err)
}
