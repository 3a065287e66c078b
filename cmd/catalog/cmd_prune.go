package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ndewijer/Paper-Trading-Backend/internal/catalog"
)

func newPruneCmd(opts *options) *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove days older than the retention window",
		Long: `Prune deletes day files and index entries dated before today minus the
retention window.

Examples:
  catalog prune
  catalog prune --retention-days 60
  catalog prune --at 2026-03-01`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			now := time.Now()
			if at != "" {
				parsed, err := time.Parse("2006-01-02", at)
				if err != nil {
					return fmt.Errorf("invalid --at %q: %w", at, err)
				}
				now = parsed
			}
			return runPrune(cmd, catalog.NewPublisher(opts.dir, opts.layout(), opts.retentionDays), now)
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "Prune as of this date (YYYY-MM-DD) instead of today")
	return cmd
}

func runPrune(cmd *cobra.Command, publisher *catalog.Publisher, now time.Time) error {
	result, err := publisher.Prune(now)
	if err != nil {
		return fmt.Errorf("failed to prune catalog: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "pruned before %s: %d files, %d index entries\n",
		result.Cutoff, result.RemovedFiles, result.RemovedEntries)
	return nil
}
