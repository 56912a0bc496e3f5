// Package cmd defines the CLI commands for the editalradar executable.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/editalradar/editalradar/internal/config"
	"github.com/editalradar/editalradar/internal/logging"
)

var cfgFile string

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "editalradar",
		Short: "Discovers funding announcements on institutional sites",
		Long: `editalradar scans configured institutional pages (CNPQ, FAPEMIG,
UFMG and similar) for funding calls and scholarship announcements. It
locates candidate blocks in unstructured HTML, extracts application
periods and identifiers, scores relevance, and deduplicates results
across sources and runs.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default uses built-in settings)")

	cmd.AddCommand(newScanCmd())
	cmd.AddCommand(newServeCmd())

	return cmd
}

// loadConfigAndLogger resolves configuration and builds the run logger.
func loadConfigAndLogger() (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("build logger: %w", err)
	}
	return cfg, logger, nil
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
