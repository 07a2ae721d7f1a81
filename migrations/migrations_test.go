package migrations

import (
	"strings"
	"testing"
)

func TestEmbeddedFS_ContainsMigrationFiles(t *testing.T) {
	entries, err := FS.ReadDir(".")
	if err != nil {
		t.Fatalf("failed to read embedded FS: %v", err)
	}

	want := map[string]bool{
		"00001_initial_schema.sql":      false,
		"00002_profile_bmr_formula.sql": false,
		"00003_exports.sql":             false,
		"00004_weight_insert_order.sql": false,
		"00005_export_created_by.sql":   false,
	}
	for _, entry := range entries {
		if _, ok := want[entry.Name()]; ok {
			want[entry.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("%s not found in embedded FS", name)
		}
	}
}

func TestEmbeddedFS_MigrationsHaveGooseMarkers(t *testing.T) {
	entries, err := FS.ReadDir(".")
	if err != nil {
		t.Fatalf("failed to read embedded FS: %v", err)
	}
	for _, entry := range entries {
		content, err := FS.ReadFile(entry.Name())
		if err != nil {
			t.Fatalf("read %s: %v", entry.Name(), err)
		}
		s := string(content)
		if !strings.Contains(s, "-- +goose Up") || !strings.Contains(s, "-- +goose Down") {
			t.Errorf("%s missing goose directives", entry.Name())
		}
	}
}

func TestInitialSchemaCreatesEntryTables(t *testing.T) {
	content, err := FS.ReadFile("00001_initial_schema.sql")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	for _, table := range []string{"food_entries", "exercise_entries", "water_entries", "supplement_entries", "weight_entries", "goals", "user_profile", "app_flags"} {
		if !strings.Contains(string(content), "CREATE TABLE "+table) {
			t.Errorf("schema missing table %s", table)
		}
	}
}
