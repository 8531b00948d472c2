package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"qqr-hq/qqr/pkg/server"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "qqr",
	Short: "qqr - QR code rendering service",
	Long: `Qqr renders QR codes over a single TCP port.

GET / returns an HTML input form, POST / renders the submitted text as a
PNG QR code, and GET on any other path renders the path itself.

Running qqr with no arguments starts the server with built-in defaults;
the deployment needs neither a configuration file nor any flags.`,
	Version: Version,
	// Bare invocation serves. The deployment runs the binary with no
	// arguments.
	RunE:          runServer,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. A forced shutdown exits non-zero so
// orchestrators can tell it apart from a clean drain.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, server.ErrForcedShutdown) {
			fmt.Fprintln(os.Stderr, "shutdown forced: drain timeout expired")
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
