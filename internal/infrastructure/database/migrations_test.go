package database

import "testing"

// TestParseMigrationFilename verifies version and direction extraction.
func TestParseMigrationFilename(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		wantVersion string
		wantIsUp    bool
		wantOK      bool
	}{
		{
			name:        "valid up migration",
			filename:    "20260301_120000_initial_schema.up.sql",
			wantVersion: "20260301_120000",
			wantIsUp:    true,
			wantOK:      true,
		},
		{
			name:        "valid down migration",
			filename:    "20260301_120000_initial_schema.down.sql",
			wantVersion: "20260301_120000",
			wantIsUp:    false,
			wantOK:      true,
		},
		{
			name:     "not a sql file",
			filename: "readme.md",
			wantOK:   false,
		},
		{
			name:     "missing direction suffix",
			filename: "20260301_120000_initial_schema.sql",
			wantOK:   false,
		},
		{
			name:     "missing version parts",
			filename: "initial.up.sql",
			wantOK:   false,
		},
		{
			name:        "multi word description",
			filename:    "20260301_130000_add_state_history_indexes.up.sql",
			wantVersion: "20260301_130000",
			wantIsUp:    true,
			wantOK:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			version, isUp, ok := parseMigrationFilename(tt.filename)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !tt.wantOK {
				return
			}
			if version != tt.wantVersion {
				t.Errorf("version = %q, want %q", version, tt.wantVersion)
			}
			if isUp != tt.wantIsUp {
				t.Errorf("isUp = %v, want %v", isUp, tt.wantIsUp)
			}
		})
	}
}

// TestExtractMigrationName verifies human-readable name extraction.
func TestExtractMigrationName(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"20260301_120000_initial_schema.up.sql", "initial_schema"},
		{"20260301_130000_add_state_history_indexes.down.sql", "add_state_history_indexes"},
		{"invalid.up.sql", "invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := extractMigrationName(tt.filename); got != tt.want {
				t.Errorf("extractMigrationName(%q) = %q, want %q", tt.filename, got, tt.want)
			}
		})
	}
}
