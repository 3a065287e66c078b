package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ndewijer/Paper-Trading-Backend/internal/catalog"
	"github.com/ndewijer/Paper-Trading-Backend/internal/model"
)

func newPublishCmd(opts *options) *cobra.Command {
	var prune bool

	cmd := &cobra.Command{
		Use:   "publish FILE...",
		Short: "Publish collected day datasets into the catalog",
		Long: `Publish reads each FILE as a day dataset, recomputes its summary, writes it as
<trade_date>.json and updates the index. Publishing a date again replaces it.

Examples:
  catalog publish collected/2026-02-10.json
  catalog publish --prune --dir ./site collected/*.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			publisher := catalog.NewPublisher(opts.dir, opts.layout(), opts.retentionDays)
			out := cmd.OutOrStdout()

			for _, path := range args {
				dataset, err := readDataset(path)
				if err != nil {
					return err
				}
				entry, err := publisher.Publish(dataset)
				if err != nil {
					return fmt.Errorf("failed to publish %s: %w", path, err)
				}
				fmt.Fprintf(out, "published %s: %d stocks, %.2f%%\n", entry.Date, entry.StockCount, entry.TotalProfitRate)
			}

			if prune {
				return runPrune(cmd, publisher, time.Now())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&prune, "prune", false, "Prune days outside the retention window afterwards")
	return cmd
}

func readDataset(path string) (model.DailyDataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.DailyDataset{}, fmt.Errorf("failed to read dataset: %w", err)
	}

	var dataset model.DailyDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		return model.DailyDataset{}, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	log.Debug().Str("path", path).Str("date", dataset.TradeDate).Int("stocks", len(dataset.Stocks)).Msg("dataset read")
	return dataset, nil
}
