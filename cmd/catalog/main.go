// Command catalog maintains a paper-trading catalog directory and summarises it offline.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ndewijer/Paper-Trading-Backend/internal/catalog"
	"github.com/ndewijer/Paper-Trading-Backend/internal/config"
	"github.com/ndewijer/Paper-Trading-Backend/internal/logging"
	"github.com/ndewijer/Paper-Trading-Backend/internal/version"
)

// options are the persistent flags shared by every subcommand. Unset flags fall back to
// the CATALOG_* configuration.
type options struct {
	dir           string
	indexPath     string
	datasetPrefix string
	retentionDays int
	concurrency   int
}

func (o *options) layout() catalog.Layout {
	return catalog.Layout{IndexPath: o.indexPath, DatasetPrefix: o.datasetPrefix}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "catalog",
		Short: "Maintain and summarise a paper-trading catalog directory",
		Long: `catalog publishes collected trading days into a catalog directory, prunes days
outside the retention window and aggregates the catalog the way the API does.

The directory layout matches what the server reads with CATALOG_SOURCE=dir.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.load(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.dir, "dir", "", "Catalog root directory (default $CATALOG_DIR)")
	flags.StringVar(&opts.indexPath, "index-path", "", "Index path relative to the root (default $CATALOG_INDEX_PATH)")
	flags.StringVar(&opts.datasetPrefix, "dataset-prefix", "", "Dataset prefix relative to the root (default $CATALOG_DATASET_PREFIX)")
	flags.IntVar(&opts.retentionDays, "retention-days", 0, "Days kept by prune (default $CATALOG_RETENTION_DAYS)")
	flags.IntVar(&opts.concurrency, "concurrency", 0, "Concurrent dataset reads (default $CATALOG_FETCH_CONCURRENCY)")

	root.AddCommand(newPublishCmd(opts), newPruneCmd(opts), newSummaryCmd(opts))
	return root
}

// load fills every flag the user did not set from the environment configuration.
func (o *options) load(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logging.Setup(cfg.Log); err != nil {
		return err
	}

	flags := cmd.Flags()
	if !flags.Changed("dir") {
		o.dir = cfg.Catalog.Dir
	}
	if !flags.Changed("index-path") {
		o.indexPath = cfg.Catalog.IndexPath
	}
	if !flags.Changed("dataset-prefix") {
		o.datasetPrefix = cfg.Catalog.DatasetPrefix
	}
	if !flags.Changed("retention-days") {
		o.retentionDays = cfg.Catalog.RetentionDays
	}
	if !flags.Changed("concurrency") {
		o.concurrency = cfg.Catalog.FetchConcurrency
	}

	if o.retentionDays < 1 {
		return fmt.Errorf("retention must be at least 1 day, got %d", o.retentionDays)
	}
	if o.concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", o.concurrency)
	}
	log.Debug().Str("dir", o.dir).Str("index", o.indexPath).Msg("catalog directory")
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
