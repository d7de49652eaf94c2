package entity

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// openHistoryDB creates an in-memory database with the state_history schema.
func openHistoryDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("opening in-memory database: %v", err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // Test cleanup

	_, err = db.Exec(`
		CREATE TABLE state_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			entity_id TEXT NOT NULL,
			platform TEXT NOT NULL,
			state TEXT NOT NULL,
			attributes TEXT NOT NULL DEFAULT '{}',
			source TEXT NOT NULL DEFAULT 'poll',
			recorded_at TEXT NOT NULL
		) STRICT;
		CREATE INDEX idx_state_history_entity_time
			ON state_history (entity_id, recorded_at DESC);
	`)
	if err != nil {
		t.Fatalf("creating schema: %v", err)
	}
	return db
}

func TestRecordStateChange(t *testing.T) {
	db := openHistoryDB(t)
	repo := NewSQLiteStateHistoryRepository(db)
	ctx := context.Background()

	sensor := &testSensor{
		id:    "hot_water_availability_junction01",
		state: "100",
		attrs: map[string]any{"junction_id": "junction01"},
	}

	if err := repo.RecordStateChange(ctx, sensor, StateHistorySourcePoll); err != nil {
		t.Fatalf("RecordStateChange() error = %v", err)
	}

	entries, err := repo.GetHistory(ctx, sensor.id, 10)
	if err != nil {
		t.Fatalf("GetHistory() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}

	entry := entries[0]
	if entry.EntityID != sensor.id {
		t.Errorf("EntityID = %q, want %q", entry.EntityID, sensor.id)
	}
	if entry.Platform != PlatformSensor {
		t.Errorf("Platform = %q, want %q", entry.Platform, PlatformSensor)
	}
	if entry.State != "100" {
		t.Errorf("State = %q, want %q", entry.State, "100")
	}
	if entry.Source != StateHistorySourcePoll {
		t.Errorf("Source = %q, want %q", entry.Source, StateHistorySourcePoll)
	}
	if entry.Attributes["junction_id"] != "junction01" {
		t.Errorf("Attributes = %v, want junction_id=junction01", entry.Attributes)
	}
	if entry.RecordedAt.IsZero() {
		t.Error("RecordedAt is zero")
	}
}

func TestRecordStateChangeNilEntity(t *testing.T) {
	db := openHistoryDB(t)
	repo := NewSQLiteStateHistoryRepository(db)

	if err := repo.RecordStateChange(context.Background(), nil, ""); err == nil {
		t.Error("RecordStateChange(nil) error = nil, want error")
	}
}

func TestGetHistoryOrderAndLimit(t *testing.T) {
	db := openHistoryDB(t)
	repo := NewSQLiteStateHistoryRepository(db)
	ctx := context.Background()

	sensor := &testSensor{id: "energy_usage_junction01"}
	states := []string{"130.1", "131.5", "132.8"}
	for _, s := range states {
		sensor.state = s
		if err := repo.RecordStateChange(ctx, sensor, StateHistorySourcePoll); err != nil {
			t.Fatalf("RecordStateChange() error = %v", err)
		}
	}

	t.Run("newest first", func(t *testing.T) {
		entries, err := repo.GetHistory(ctx, sensor.id, 10)
		if err != nil {
			t.Fatalf("GetHistory() error = %v", err)
		}
		if len(entries) != 3 {
			t.Fatalf("got %d entries, want 3", len(entries))
		}
		if entries[0].State != "132.8" {
			t.Errorf("newest entry state = %q, want 132.8", entries[0].State)
		}
	})

	t.Run("limit respected", func(t *testing.T) {
		entries, err := repo.GetHistory(ctx, sensor.id, 2)
		if err != nil {
			t.Fatalf("GetHistory() error = %v", err)
		}
		if len(entries) != 2 {
			t.Errorf("got %d entries, want 2", len(entries))
		}
	})

	t.Run("unknown entity returns empty", func(t *testing.T) {
		entries, err := repo.GetHistory(ctx, "missing", 10)
		if err != nil {
			t.Fatalf("GetHistory() error = %v", err)
		}
		if len(entries) != 0 {
			t.Errorf("got %d entries for unknown entity, want 0", len(entries))
		}
	})

	t.Run("empty id rejected", func(t *testing.T) {
		if _, err := repo.GetHistory(ctx, "", 10); err == nil {
			t.Error("GetHistory(\"\") error = nil, want error")
		}
	})
}

func TestPruneHistory(t *testing.T) {
	db := openHistoryDB(t)
	repo := NewSQLiteStateHistoryRepository(db)
	ctx := context.Background()

	// Insert one old row directly and one fresh row via the repo.
	old := time.Now().UTC().Add(-48 * time.Hour).Format(time.RFC3339)
	if _, err := db.Exec(
		`INSERT INTO state_history (entity_id, platform, state, attributes, source, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		"old_sensor", "sensor", "1", "{}", "poll", old,
	); err != nil {
		t.Fatalf("inserting old row: %v", err)
	}

	sensor := &testSensor{id: "fresh_sensor", state: "2"}
	if err := repo.RecordStateChange(ctx, sensor, StateHistorySourcePoll); err != nil {
		t.Fatalf("RecordStateChange() error = %v", err)
	}

	deleted, err := repo.PruneHistory(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("PruneHistory() error = %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}

	entries, err := repo.GetHistory(ctx, "fresh_sensor", 10)
	if err != nil {
		t.Fatalf("GetHistory() error = %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("fresh entries = %d, want 1", len(entries))
	}

	if _, err := repo.PruneHistory(ctx, 0); err == nil {
		t.Error("PruneHistory(0) error = nil, want error")
	}
}
