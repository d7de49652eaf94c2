package entity

import (
	"context"
	"time"
)

// State history source values.
const (
	StateHistorySourcePoll    = "poll"
	StateHistorySourceCommand = "command"
)

// StateHistoryEntry represents a single entity state change record.
//
// Each entry stores the state string plus a snapshot of the extra
// attributes at the time the change was observed. This provides a local
// history even when the time-series database is unavailable.
type StateHistoryEntry struct {
	// ID is the auto-incremented primary key for the history row.
	ID int64 `json:"id"`

	// EntityID is the unique identifier of the entity.
	EntityID string `json:"entity_id"`

	// Platform is the entity platform at the time of recording.
	Platform Platform `json:"platform"`

	// State is the state string that was published.
	State string `json:"state"`

	// Attributes is the attribute snapshot (may be empty).
	Attributes map[string]any `json:"attributes"`

	// Source identifies how the change was recorded (poll, command).
	Source string `json:"source"`

	// RecordedAt is the timestamp of the state change (UTC).
	RecordedAt time.Time `json:"recorded_at"`
}

// StateHistoryRepository stores and retrieves entity state change history.
//
// Implementations must be thread-safe and use UTC timestamps.
type StateHistoryRepository interface {
	// RecordStateChange records an entity state change.
	RecordStateChange(ctx context.Context, e Entity, source string) error

	// GetHistory returns recent state change history for the entity,
	// ordered newest first. Implementations may clamp the limit.
	GetHistory(ctx context.Context, entityID string, limit int) ([]StateHistoryEntry, error)
}
