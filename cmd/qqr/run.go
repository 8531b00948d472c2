package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"qqr-hq/qqr/pkg/config"
	"qqr-hq/qqr/pkg/server"
)

var runFlags struct {
	listenAddress string
	logLevel      string
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the qqr server",
	Long: `Start the qqr server with the specified configuration.

A missing configuration file is not an error: the server starts with its
built-in defaults, which satisfy the standard deployment (port 8000, all
interfaces, no writable paths).

Examples:
  # Start with defaults
  qqr run

  # Start with a custom config
  qqr run --config /etc/qqr/config.yaml

  # Override the listen address
  qqr run --listen 127.0.0.1:9000`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Apply flag overrides
	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	srv, err := server.New(cfg, cfgFile)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return srv.Run(ctx)
}
