package dbmigrate

import (
	"fmt"

	"github.com/fdg312/health-diary/internal/config"
	"github.com/fdg312/health-diary/internal/storage/sqlstore"
)

// Target is the database a goose command runs against.
type Target struct {
	Dialect sqlstore.Dialect
	DSN     string
	Source  string
}

// SelectTarget resolves the migration target from the storage mode. SQLite
// migrates the database file; postgres picks a URL via SelectDatabaseURL.
// The memory backend has nothing to migrate.
func SelectTarget(cfg *config.Config, requireDirect bool) (Target, string, error) {
	switch mode := cfg.ResolvedStorageMode(); mode {
	case config.StorageModeSQLite:
		if cfg.SQLitePath == "" {
			return Target{}, "", fmt.Errorf("SQLITE_PATH is empty")
		}
		return Target{Dialect: sqlstore.DialectSQLite, DSN: cfg.SQLitePath, Source: "SQLITE_PATH"}, "", nil
	case config.StorageModePostgres:
		dbURL, source, warning, err := SelectDatabaseURL(cfg, requireDirect)
		if err != nil {
			return Target{}, "", err
		}
		return Target{Dialect: sqlstore.DialectPostgres, DSN: dbURL, Source: source}, warning, nil
	case config.StorageModeMemory:
		return Target{}, "", fmt.Errorf("storage mode memory has no migrations")
	default:
		return Target{}, "", fmt.Errorf("unknown storage mode %q", mode)
	}
}

// SelectDatabaseURL selects the postgres URL for migrations.
// Priority: DIRECT > DATABASE_URL > POOLED (with warning).
// If requireDirect is true, only DATABASE_URL_DIRECT is accepted.
func SelectDatabaseURL(cfg *config.Config, requireDirect bool) (dbURL string, source string, warning string, err error) {
	if requireDirect {
		if cfg.DatabaseURLDirect == "" {
			return "", "", "", fmt.Errorf("DATABASE_URL_DIRECT is required for DDL/migrations")
		}
		return cfg.DatabaseURLDirect, "DATABASE_URL_DIRECT", "", nil
	}

	if cfg.DatabaseURLDirect != "" {
		return cfg.DatabaseURLDirect, "DATABASE_URL_DIRECT", "", nil
	}
	if cfg.DatabaseURLRaw != "" {
		return cfg.DatabaseURLRaw, "DATABASE_URL", "", nil
	}
	if cfg.DatabaseURLPooled != "" {
		return cfg.DatabaseURLPooled, "DATABASE_URL_POOLED", "using pooled connection for DDL is not recommended; set DATABASE_URL_DIRECT", nil
	}

	return "", "", "", fmt.Errorf("no database URL configured (set DATABASE_URL_DIRECT or DATABASE_URL)")
}
