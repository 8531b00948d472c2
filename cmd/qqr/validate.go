package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"qqr-hq/qqr/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Parse and validate a configuration file without starting the server.

Examples:
  # Validate the default config file
  qqr validate

  # Validate a specific file
  qqr validate --config /etc/qqr/config.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Configuration valid: %s\n", cfgFile)
		fmt.Printf("  listen address: %s\n", cfg.Server.ListenAddress)
		fmt.Printf("  max connections: %d\n", cfg.Server.MaxConnections)
		fmt.Printf("  idle timeout: %s\n", cfg.Server.IdleTimeout)
		fmt.Printf("  drain timeout: %s\n", cfg.Server.DrainTimeout)
		if cfg.RequestLog.Enabled {
			fmt.Printf("  request log: %s\n", cfg.RequestLog.Path)
		}
		if cfg.Telemetry.Metrics.Enabled {
			fmt.Printf("  metrics: %s%s\n", cfg.Telemetry.Metrics.ListenAddress, cfg.Telemetry.Metrics.Path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
