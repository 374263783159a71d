package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mikey/drug-checker/internal/core"
	"go.uber.org/zap"
)

// timeLayout is how timestamps are kept in the SQL backends
const timeLayout = time.RFC3339Nano

// SQLStore implements core.Store over database/sql. The SQLite and MySQL
// constructors share it and differ only in driver and schema.
type SQLStore struct {
	db     *sql.DB
	logger *zap.Logger
	name   string
}

func newSQLStore(db *sql.DB, name string, schema []string, logger *zap.Logger) (*SQLStore, error) {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create %s schema: %w", name, err)
		}
	}

	return &SQLStore{
		db:     db,
		logger: logger,
		name:   name,
	}, nil
}

// Get retrieves a cached entry for a pair key
func (s *SQLStore) Get(ctx context.Context, key string) (*core.CacheEntry, error) {
	var severity, summary, timestamp string

	err := s.db.QueryRowContext(ctx, `
		SELECT severity, summary, timestamp
		FROM interaction_cache
		WHERE pair_key = ?
	`, key).Scan(&severity, &summary, &timestamp)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query cache: %w", err)
	}

	return &core.CacheEntry{
		Key:       key,
		Severity:  core.ParseSeverity(severity),
		Summary:   summary,
		Timestamp: s.parseTime(timestamp),
	}, nil
}

// Set stores a cache entry, replacing any entry for the same pair
func (s *SQLStore) Set(ctx context.Context, entry *core.CacheEntry) error {
	_, err := s.db.ExecContext(ctx, `
		REPLACE INTO interaction_cache (pair_key, severity, summary, timestamp)
		VALUES (?, ?, ?, ?)
	`, entry.Key, string(entry.Severity), entry.Summary, entry.Timestamp.Format(timeLayout))

	if err != nil {
		return fmt.Errorf("failed to insert cache entry: %w", err)
	}
	return nil
}

// Clear removes every cache entry
func (s *SQLStore) Clear(ctx context.Context) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM interaction_cache`)
	if err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		s.logger.Warn("Failed to get rows affected during clear", zap.Error(err))
	} else {
		s.logger.Debug("Cleared cache entries", zap.Int64("cleared_count", rowsAffected))
	}
	return nil
}

// Count returns the number of cached pairs
func (s *SQLStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM interaction_cache`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count cache entries: %w", err)
	}
	return n, nil
}

// AppendHistory inserts an entry and deletes everything older than the
// newest max rows, in one transaction
func (s *SQLStore) AppendHistory(ctx context.Context, entry *core.HistoryEntry, max int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO history (id, drug1, drug2, severity, summary, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.Drug1, entry.Drug2, string(entry.Severity), entry.Summary, entry.Timestamp.Format(timeLayout))
	if err != nil {
		return fmt.Errorf("failed to insert history entry: %w", err)
	}

	if max > 0 {
		// The derived table lets MySQL read the table it deletes from
		_, err = tx.ExecContext(ctx, `
			DELETE FROM history
			WHERE seq <= (
				SELECT seq FROM (
					SELECT seq FROM history ORDER BY seq DESC LIMIT 1 OFFSET ?
				) AS oldest
			)
		`, max)
		if err != nil {
			return fmt.Errorf("failed to trim history: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit history entry: %w", err)
	}
	return nil
}

// LoadHistory returns the history, oldest first
func (s *SQLStore) LoadHistory(ctx context.Context) ([]core.HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, drug1, drug2, severity, summary, timestamp
		FROM history
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []core.HistoryEntry
	for rows.Next() {
		var entry core.HistoryEntry
		var severity, timestamp string
		if err := rows.Scan(&entry.ID, &entry.Drug1, &entry.Drug2, &severity, &entry.Summary, &timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		entry.Severity = core.ParseSeverity(severity)
		entry.Timestamp = s.parseTime(timestamp)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	return entries, nil
}

// LoadMedications returns the saved medication list in insertion order
func (s *SQLStore) LoadMedications(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM medications ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query medications: %w", err)
	}
	defer rows.Close()

	meds := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan medication row: %w", err)
		}
		meds = append(meds, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read medications: %w", err)
	}
	return meds, nil
}

// SaveMedications replaces the medication list
func (s *SQLStore) SaveMedications(ctx context.Context, meds []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM medications`); err != nil {
		return fmt.Errorf("failed to clear medications: %w", err)
	}
	for _, name := range meds {
		if _, err := tx.ExecContext(ctx, `INSERT INTO medications (name) VALUES (?)`, name); err != nil {
			return fmt.Errorf("failed to insert medication: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit medications: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *SQLStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close %s database: %w", s.name, err)
	}
	return nil
}

func (s *SQLStore) parseTime(value string) time.Time {
	t, err := core.ParseTimestamp(value)
	if err != nil {
		s.logger.Warn("Failed to parse stored timestamp", zap.String("value", value), zap.Error(err))
		return time.Time{}
	}
	return t
}

var _ core.Store = (*SQLStore)(nil)
