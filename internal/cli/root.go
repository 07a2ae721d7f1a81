package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/fdg312/health-diary/internal/config"
	"github.com/fdg312/health-diary/internal/httpserver"
	"github.com/spf13/cobra"
)

var (
	configPath  string
	storageMode string
	sqlitePath  string
)

var rootCmd = &cobra.Command{
	Use:           "healthdiary",
	Short:         "healthdiary runs and maintains a personal health diary",
	Long:          "healthdiary serves the diary API and offers maintenance commands: migrations, sample data, energy stats and exports.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config overlay (defaults to $CONFIG_FILE)")
	rootCmd.PersistentFlags().StringVar(&storageMode, "storage", "", "Storage backend: memory, sqlite, postgres or auto")
	rootCmd.PersistentFlags().StringVar(&sqlitePath, "sqlite-path", "", "Path to the SQLite database")
}

// loadConfig resolves configuration from the environment, the optional
// overlay and the persistent flags, in that order.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	if configPath != "" {
		c, err := config.LoadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("load config %s: %w", configPath, err)
		}
		cfg = c
	} else {
		cfg = config.Load()
	}

	switch storageMode {
	case "":
	case config.StorageModeMemory, config.StorageModeSQLite, config.StorageModePostgres, config.StorageModeAuto:
		cfg.StorageMode = storageMode
	default:
		return nil, fmt.Errorf("unknown storage mode %q", storageMode)
	}
	if sqlitePath != "" {
		cfg.SQLitePath = sqlitePath
	}
	return cfg, nil
}

// withServices opens the store with migrations applied and hands the
// service bundle to fn.
func withServices(ctx context.Context, fn func(*httpserver.Services) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.RunMigrationsOnStartup = true

	store, err := httpserver.OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	svcs, err := httpserver.NewServices(ctx, cfg, store)
	if err != nil {
		return err
	}
	return fn(svcs)
}
