package dbmigrate

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fdg312/health-diary/internal/storage/sqlstore"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Commands lists the goose commands the migrate tools accept.
var Commands = []string{"up", "down", "status"}

// ValidCommand reports whether command is one of Commands.
func ValidCommand(command string) bool {
	for _, c := range Commands {
		if c == command {
			return true
		}
	}
	return false
}

// Run opens target and runs a goose command over the embedded migrations.
func Run(ctx context.Context, command string, target Target) error {
	if target.DSN == "" {
		return fmt.Errorf("database DSN is empty")
	}
	if !ValidCommand(command) {
		return fmt.Errorf("unsupported command %q (allowed: up, status, down)", command)
	}

	db, err := open(ctx, target)
	if err != nil {
		return err
	}
	defer db.Close()

	return sqlstore.RunMigrations(ctx, db, target.Dialect, command)
}

func open(ctx context.Context, target Target) (*sql.DB, error) {
	if target.Dialect == sqlstore.DialectSQLite {
		st, err := sqlstore.OpenSQLite(ctx, target.DSN)
		if err != nil {
			return nil, err
		}
		return st.DB(), nil
	}

	db, err := sql.Open("pgx", target.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}
