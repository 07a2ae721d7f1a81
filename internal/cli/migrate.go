package cli

import (
	"fmt"

	"github.com/fdg312/health-diary/internal/dbmigrate"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate <up|down|status>",
	Short:     "Run database migrations",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: dbmigrate.Commands,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		target, warning, err := dbmigrate.SelectTarget(cfg, false)
		if err != nil {
			return err
		}
		if warning != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", warning)
		}
		if err := dbmigrate.Run(cmd.Context(), args[0], target); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "migrate %s completed (%s via %s)\n", args[0], target.Dialect, target.Source)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
