package dbmigrate

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/fdg312/health-diary/internal/config"
)

func TestSelectDatabaseURL_Priority(t *testing.T) {
	cfg := &config.Config{
		DatabaseURLDirect: "postgres://direct",
		DatabaseURLRaw:    "postgres://url",
		DatabaseURLPooled: "postgres://pooled",
	}

	dbURL, source, warning, err := SelectDatabaseURL(cfg, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dbURL != "postgres://direct" || source != "DATABASE_URL_DIRECT" {
		t.Fatalf("expected direct URL, got dbURL=%q source=%q", dbURL, source)
	}
	if warning != "" {
		t.Fatalf("unexpected warning: %q", warning)
	}
}

func TestSelectDatabaseURL_FallbackToDatabaseURL(t *testing.T) {
	cfg := &config.Config{
		DatabaseURLRaw:    "postgres://url",
		DatabaseURLPooled: "postgres://pooled",
	}

	dbURL, source, warning, err := SelectDatabaseURL(cfg, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dbURL != "postgres://url" || source != "DATABASE_URL" {
		t.Fatalf("expected DATABASE_URL, got dbURL=%q source=%q", dbURL, source)
	}
	if warning != "" {
		t.Fatalf("unexpected warning: %q", warning)
	}
}

func TestSelectDatabaseURL_PooledWarning(t *testing.T) {
	cfg := &config.Config{
		DatabaseURLPooled: "postgres://pooled",
	}

	dbURL, source, warning, err := SelectDatabaseURL(cfg, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dbURL != "postgres://pooled" || source != "DATABASE_URL_POOLED" {
		t.Fatalf("expected pooled URL, got dbURL=%q source=%q", dbURL, source)
	}
	if warning == "" {
		t.Fatal("expected warning for pooled DDL usage")
	}
}

func TestSelectDatabaseURL_RequireDirect(t *testing.T) {
	cfg := &config.Config{
		DatabaseURLRaw:    "postgres://url",
		DatabaseURLPooled: "postgres://pooled",
	}

	_, _, _, err := SelectDatabaseURL(cfg, true)
	if err == nil {
		t.Fatal("expected error when direct is required but missing")
	}
}

func TestSelectTarget(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.Config
		dialect string
		dsn     string
		wantErr bool
	}{
		{"sqlite", config.Config{StorageMode: config.StorageModeSQLite, SQLitePath: "data/diary.db"}, "sqlite", "data/diary.db", false},
		{"sqlite empty path", config.Config{StorageMode: config.StorageModeSQLite}, "", "", true},
		{"postgres direct", config.Config{StorageMode: config.StorageModePostgres, DatabaseURLDirect: "postgres://direct"}, "postgres", "postgres://direct", false},
		{"auto prefers postgres url", config.Config{StorageMode: config.StorageModeAuto, DatabaseURL: "postgres://url", DatabaseURLRaw: "postgres://url"}, "postgres", "postgres://url", false},
		{"auto falls back to sqlite", config.Config{StorageMode: config.StorageModeAuto, SQLitePath: "diary.db"}, "sqlite", "diary.db", false},
		{"memory", config.Config{StorageMode: config.StorageModeMemory}, "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, _, err := SelectTarget(&tt.cfg, false)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(target.Dialect) != tt.dialect || target.DSN != tt.dsn {
				t.Errorf("got %+v", target)
			}
		})
	}
}

func TestRunSQLite(t *testing.T) {
	target := Target{Dialect: "sqlite", DSN: filepath.Join(t.TempDir(), "diary.db")}
	ctx := context.Background()

	if err := Run(ctx, "up", target); err != nil {
		t.Fatalf("up: %v", err)
	}
	if err := Run(ctx, "status", target); err != nil {
		t.Fatalf("status: %v", err)
	}
	if err := Run(ctx, "redo", target); err == nil {
		t.Error("expected unsupported command error")
	}
}
