package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// newScanCmd creates the 'scan' subcommand: one full pass over all
// configured sources, with the result printed as JSON.
func newScanCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Runs one discovery pass over all configured sources",
		Long: `Fetches every configured source page, locates announcement
candidates, extracts periods and identifiers, scores relevance, and
writes the deduplicated result as JSON to stdout or --output.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScanCommand(cmd, outPath)
		},
	}
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "write the JSON result to a file instead of stdout")
	return cmd
}

func runScanCommand(cmd *cobra.Command, outPath string) error {
	cfg, logger, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if len(cfg.Sources) == 0 {
		return fmt.Errorf("no sources configured")
	}

	rt, err := buildRuntime(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer rt.close()

	result, err := rt.aggregator.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("run scan: %w", err)
	}

	var out io.Writer = os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	logger.Info("scan command finished",
		zap.String("run_id", result.RunID),
		zap.Int("opportunities", result.Total()),
	)
	return nil
}
