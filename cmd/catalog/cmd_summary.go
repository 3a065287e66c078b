package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ndewijer/Paper-Trading-Backend/internal/catalog"
	"github.com/ndewijer/Paper-Trading-Backend/internal/model"
	"github.com/ndewijer/Paper-Trading-Backend/internal/papertrading"
)

func newSummaryCmd(opts *options) *cobra.Command {
	var (
		dates     []string
		excluded  []string
		snapshots map[string]int
		format    string
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Aggregate the catalog for a selection",
		Long: `Summary loads the catalog directory and prints the portfolio summary of the
selection, with every day recalculated against its chosen snapshot.

Examples:
  catalog summary
  catalog summary --dates 2026-02-10,2026-02-11 --exclude 2026-02-10:005930
  catalog summary --snapshot 2026-02-10=1 --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != "table" && format != "json" {
				return fmt.Errorf("unknown format %q", format)
			}
			keys, err := parseExclusions(excluded)
			if err != nil {
				return err
			}

			loader := catalog.NewLoader(catalog.NewDirSource(opts.dir, opts.layout()), opts.concurrency, nil)
			c, err := loader.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load catalog: %w", err)
			}

			known := papertrading.NewDateSet(c.Dates()...)
			if !cmd.Flags().Changed("dates") {
				dates = c.Dates()
			}
			for _, date := range dates {
				if !known.Has(date) {
					return fmt.Errorf("date %s is not in the catalog", date)
				}
			}

			view := papertrading.Derive(c.Datasets, papertrading.SelectionOf(dates, keys, snapshots))
			if format == "json" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(view.Summary)
			}
			return writeSummaryTable(cmd.OutOrStdout(), view.Summary, c.Failed)
		},
	}

	flags := cmd.Flags()
	flags.StringSliceVar(&dates, "dates", nil, "Selected dates (default every date in the index)")
	flags.StringSliceVar(&excluded, "exclude", nil, "Excluded stocks as DATE:CODE")
	flags.StringToIntVar(&snapshots, "snapshot", nil, "Snapshot index per date as DATE=INDEX")
	flags.StringVar(&format, "format", "table", "Output format: table or json")
	return cmd
}

func parseExclusions(values []string) ([]model.StockKey, error) {
	keys := make([]model.StockKey, 0, len(values))
	for _, value := range values {
		date, code, ok := strings.Cut(value, ":")
		if !ok || date == "" || code == "" {
			return nil, fmt.Errorf("invalid exclusion %q, want DATE:CODE", value)
		}
		keys = append(keys, model.StockKey{Date: date, Code: code})
	}
	return keys, nil
}

func writeSummaryTable(out io.Writer, s model.PortfolioSummary, failed []string) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Days\t%d\n", s.TotalDays)
	fmt.Fprintf(w, "Stocks\t%d (%d up, %d down, %d flat)\n", s.TotalStocks, s.ProfitStocks, s.LossStocks, s.FlatStocks)
	fmt.Fprintf(w, "Invested\t%.2f\n", s.TotalInvested)
	fmt.Fprintf(w, "Value at close\t%.2f\n", s.TotalValue)
	fmt.Fprintf(w, "Profit at close\t%.2f (%.2f%%)\n", s.TotalProfit, s.TotalProfitRate)
	fmt.Fprintf(w, "Value at high\t%.2f\n", s.HighTotalValue)
	fmt.Fprintf(w, "Profit at high\t%.2f (%.2f%%)\n", s.HighTotalProfit, s.HighTotalProfitRate)
	fmt.Fprintf(w, "Stocks at high\t%d up, %d down, %d flat\n", s.HighProfitStocks, s.HighLossStocks, s.HighFlatStocks)
	if len(failed) > 0 {
		fmt.Fprintf(w, "Unreadable days\t%s\n", strings.Join(failed, ", "))
	}
	return w.Flush()
}
