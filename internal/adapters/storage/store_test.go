package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mikey/drug-checker/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testTime = time.Date(2024, 5, 10, 9, 15, 0, 0, time.UTC)

// exerciseStore runs the behaviour every backend must share
func exerciseStore(t *testing.T, store core.Store) {
	ctx := context.Background()

	t.Run("cache miss", func(t *testing.T) {
		_, err := store.Get(ctx, "aspirin-warfarin")
		assert.ErrorIs(t, err, core.ErrNotFound)
	})

	t.Run("cache overwrite", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, &core.CacheEntry{Key: "aspirin-warfarin", Severity: core.SeverityModerate, Summary: "first", Timestamp: testTime}))
		require.NoError(t, store.Set(ctx, &core.CacheEntry{Key: "aspirin-warfarin", Severity: core.SeverityHigh, Summary: "second", Timestamp: testTime}))

		entry, err := store.Get(ctx, "aspirin-warfarin")
		require.NoError(t, err)
		assert.Equal(t, "aspirin-warfarin", entry.Key)
		assert.Equal(t, core.SeverityHigh, entry.Severity)
		assert.Equal(t, "second", entry.Summary)
		assert.True(t, testTime.Equal(entry.Timestamp))

		n, err := store.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("cache clear", func(t *testing.T) {
		require.NoError(t, store.Clear(ctx))
		n, err := store.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})

	t.Run("medications round trip", func(t *testing.T) {
		meds, err := store.LoadMedications(ctx)
		require.NoError(t, err)
		assert.Empty(t, meds)

		require.NoError(t, store.SaveMedications(ctx, []string{"warfarin", "metformin", "aspirin"}))
		meds, err = store.LoadMedications(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"warfarin", "metformin", "aspirin"}, meds)

		require.NoError(t, store.SaveMedications(ctx, []string{"aspirin"}))
		meds, err = store.LoadMedications(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"aspirin"}, meds)
	})

	t.Run("history bounded", func(t *testing.T) {
		for i := 0; i < 105; i++ {
			entry := core.NewHistoryEntry(fmt.Sprintf("drug%d", i), "aspirin", core.SeverityLow, "ok", testTime.Add(time.Duration(i)*time.Second))
			require.NoError(t, store.AppendHistory(ctx, entry, 100))
		}

		history, err := store.LoadHistory(ctx)
		require.NoError(t, err)
		require.Len(t, history, 100)
		assert.Equal(t, "drug5", history[0].Drug1)
		assert.Equal(t, "drug104", history[99].Drug1)
		assert.Equal(t, core.SeverityLow, history[99].Severity)
		assert.NotEmpty(t, history[99].ID)
		assert.True(t, testTime.Add(104*time.Second).Equal(history[99].Timestamp))
	})
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore(zap.NewNop())
	defer store.Close()

	exerciseStore(t, store)
}

func TestJSONStore(t *testing.T) {
	store, err := NewJSONStore(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	defer store.Close()

	exerciseStore(t, store)
}

func TestSQLiteStore(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "data", "drug_checker.db"), zap.NewNop())
	if err != nil && strings.Contains(err.Error(), "CGO_ENABLED") {
		t.Skipf("sqlite driver unavailable: %v", err)
	}
	require.NoError(t, err)
	defer store.Close()

	exerciseStore(t, store)
}

func TestJSONStoreCreatesFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "drug_checker_data")
	_, err := NewJSONStore(dir, zap.NewNop())
	require.NoError(t, err)

	for _, name := range []string{MedicationsFile, HistoryFile, CacheFile} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}

	data, err := os.ReadFile(filepath.Join(dir, MedicationsFile))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestJSONStoreCorruptFilesLoadEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, MedicationsFile), []byte("{not json"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, HistoryFile), []byte(`{"oops": true}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, CacheFile), []byte("[1, 2, 3]"), 0o644))

	store, err := NewJSONStore(dir, zap.NewNop())
	require.NoError(t, err)
	ctx := context.Background()

	meds, err := store.LoadMedications(ctx)
	require.NoError(t, err)
	assert.Empty(t, meds)

	history, err := store.LoadHistory(ctx)
	require.NoError(t, err)
	assert.Empty(t, history)

	_, err = store.Get(ctx, "a-b")
	assert.ErrorIs(t, err, core.ErrNotFound)

	// A write after a corrupt read replaces the document
	require.NoError(t, store.SaveMedications(ctx, []string{"warfarin"}))
	meds, err = store.LoadMedications(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"warfarin"}, meds)
}

func TestJSONStoreCacheFormat(t *testing.T) {
	dir := t.TempDir()
	store, err := NewJSONStore(dir, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, store.Set(context.Background(), &core.CacheEntry{
		Key:       "aspirin-warfarin",
		Severity:  core.SeverityHigh,
		Summary:   "Bleeding risk.",
		Timestamp: testTime,
	}))

	data, err := os.ReadFile(filepath.Join(dir, CacheFile))
	require.NoError(t, err)
	assert.JSONEq(t, `{"aspirin-warfarin": {"severity": "High", "summary": "Bleeding risk.", "timestamp": "2024-05-10T09:15:00Z"}}`, string(data))

	// No temp files are left behind
	matches, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestJSONStorePersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first, err := NewJSONStore(dir, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, first.AppendHistory(ctx, core.NewHistoryEntry("warfarin", "aspirin", core.SeverityHigh, "x", testTime), 100))

	second, err := NewJSONStore(dir, zap.NewNop())
	require.NoError(t, err)
	history, err := second.LoadHistory(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "warfarin", history[0].Drug1)
}

func TestJSONStoreReadsLabelledSeveritiesAndZonelessTimestamps(t *testing.T) {
	dir := t.TempDir()
	history := `[
  {
    "drug1": "warfarin",
    "drug2": "aspirin",
    "severity": "🔴 High",
    "summary": "Bleeding risk.",
    "timestamp": "2024-05-01T10:00:00.123456"
  }
]`
	cache := `{
  "aspirin-warfarin": {
    "severity": "🟡 Moderate",
    "summary": "Monitor closely.",
    "timestamp": "2024-05-01T10:00:00"
  }
}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, HistoryFile), []byte(history), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, CacheFile), []byte(cache), 0o644))

	store, err := NewJSONStore(dir, zap.NewNop())
	require.NoError(t, err)
	ctx := context.Background()

	loaded, err := store.LoadHistory(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, core.SeverityHigh, loaded[0].Severity)
	want := time.Date(2024, 5, 1, 10, 0, 0, 123456000, time.Local)
	assert.True(t, want.Equal(loaded[0].Timestamp), "got %v", loaded[0].Timestamp)

	entry, err := store.Get(ctx, "aspirin-warfarin")
	require.NoError(t, err)
	assert.Equal(t, core.SeverityModerate, entry.Severity)
	assert.Equal(t, "Monitor closely.", entry.Summary)

	// Appending keeps the existing records
	next := core.NewHistoryEntry("metformin", "aspirin", core.SeverityLow, "ok", time.Now())
	require.NoError(t, store.AppendHistory(ctx, next, 100))
	loaded, err = store.LoadHistory(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "warfarin", loaded[0].Drug1)
	assert.Equal(t, "metformin", loaded[1].Drug1)
}
