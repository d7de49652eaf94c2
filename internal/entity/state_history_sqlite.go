package entity

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

// SQLiteStateHistoryRepository implements StateHistoryRepository using SQLite.
//
// It stores attribute snapshots as JSON in the state_history table.
type SQLiteStateHistoryRepository struct {
	db *sql.DB
}

// NewSQLiteStateHistoryRepository creates a new SQLite state history repository.
func NewSQLiteStateHistoryRepository(db *sql.DB) *SQLiteStateHistoryRepository {
	return &SQLiteStateHistoryRepository{db: db}
}

// RecordStateChange inserts a new state history entry for an entity.
func (r *SQLiteStateHistoryRepository) RecordStateChange(ctx context.Context, e Entity, source string) error {
	if e == nil {
		return fmt.Errorf("entity is required")
	}
	if source == "" {
		source = StateHistorySourcePoll
	}

	attrs := e.Attributes()
	if attrs == nil {
		attrs = map[string]any{}
	}
	attrsJSON, err := json.Marshal(attrs)
	if err != nil {
		return fmt.Errorf("marshalling attributes: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO state_history (entity_id, platform, state, attributes, source, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.UniqueID(),
		string(e.Platform()),
		e.State(),
		string(attrsJSON),
		source,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting state history: %w", err)
	}

	return nil
}

// GetHistory returns recent state history entries for an entity, ordered
// newest first. Limit defaults to 50 and is clamped to 200.
func (r *SQLiteStateHistoryRepository) GetHistory(ctx context.Context, entityID string, limit int) ([]StateHistoryEntry, error) {
	if entityID == "" {
		return nil, fmt.Errorf("entity id is required")
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, entity_id, platform, state, attributes, source, recorded_at
		 FROM state_history
		 WHERE entity_id = ?
		 ORDER BY recorded_at DESC, id DESC
		 LIMIT ?`,
		entityID,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying state history: %w", err)
	}
	defer rows.Close()

	entries := make([]StateHistoryEntry, 0, limit)
	for rows.Next() {
		var entry StateHistoryEntry
		var platform string
		var attrsJSON string
		var recordedAt string

		if err := rows.Scan(&entry.ID, &entry.EntityID, &platform, &entry.State, &attrsJSON, &entry.Source, &recordedAt); err != nil {
			return nil, fmt.Errorf("scanning state history: %w", err)
		}
		entry.Platform = Platform(platform)

		if err := json.Unmarshal([]byte(attrsJSON), &entry.Attributes); err != nil {
			return nil, fmt.Errorf("unmarshalling attributes: %w", err)
		}

		timestamp, err := parseHistoryTimestamp(recordedAt)
		if err != nil {
			return nil, err
		}
		entry.RecordedAt = timestamp

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating state history: %w", err)
	}

	return entries, nil
}

// PruneHistory deletes history entries older than the given duration.
// Returns the number of rows deleted.
func (r *SQLiteStateHistoryRepository) PruneHistory(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, fmt.Errorf("olderThan must be positive")
	}

	cutoff := time.Now().UTC().Add(-olderThan).Format(time.RFC3339)
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM state_history WHERE recorded_at < ?",
		cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("deleting state history: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("checking rows affected: %w", err)
	}

	return rowsAffected, nil
}

// parseHistoryTimestamp parses a timestamp stored in SQLite.
func parseHistoryTimestamp(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("recorded_at is empty")
	}

	timestamp, err := time.Parse(time.RFC3339, value)
	if err == nil {
		return timestamp, nil
	}

	fallback, fallbackErr := time.Parse("2006-01-02T15:04:05Z", value)
	if fallbackErr == nil {
		return fallback, nil
	}

	return time.Time{}, fmt.Errorf("parsing recorded_at: %w", err)
}
