package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/fdg312/health-diary/internal/httpserver"
	"github.com/spf13/cobra"
)

var (
	servePort int
	serveSeed bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the diary HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if servePort > 0 {
			cfg.Port = servePort
		}
		if serveSeed {
			cfg.SeedOnStartup = true
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return httpserver.Run(ctx, cfg)
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Listen port (overrides PORT)")
	serveCmd.Flags().BoolVar(&serveSeed, "seed", false, "Load sample data on startup")
	rootCmd.AddCommand(serveCmd)
}
