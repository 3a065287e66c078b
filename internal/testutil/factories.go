package testutil

import (
	"github.com/ndewijer/Paper-Trading-Backend/internal/model"
	"github.com/ndewijer/Paper-Trading-Backend/internal/papertrading"
)

// StockBuilder provides a fluent interface for creating test stock records.
// Derived figures (profit rate and amount, high figures) are computed on Build
// from the buy, close and high prices.
//
// Example usage:
//
//	// Stock without a recorded high
//	stock := testutil.NewStock("005930", 1000, 1100).Build()
//
//	// Stock with a high price
//	stock := testutil.NewStock("000660", 2000, 1800).
//	    WithHigh(2100).
//	    Build()
type StockBuilder struct {
	Code       string
	Name       string
	Theme      string
	BuyPrice   float64
	ClosePrice float64
	HighPrice  *float64
	HighTime   *string
}

// NewStock creates a StockBuilder with the given code and prices.
func NewStock(code string, buyPrice, closePrice float64) *StockBuilder {
	return &StockBuilder{
		Code:       code,
		Name:       MakeStockName(code),
		Theme:      "Test Theme",
		BuyPrice:   buyPrice,
		ClosePrice: closePrice,
	}
}

// WithHigh records the day's high price.
func (b *StockBuilder) WithHigh(high float64) *StockBuilder {
	b.HighPrice = &high
	return b
}

// WithHighTime records when the high was reached.
func (b *StockBuilder) WithHighTime(hhmm string) *StockBuilder {
	b.HighTime = &hhmm
	return b
}

// Build creates the stock record. High figures are only set when a high price was given,
// matching files where the collector could not fetch one.
func (b *StockBuilder) Build() model.StockRecord {
	stock := model.StockRecord{
		Code:         b.Code,
		Name:         b.Name,
		Theme:        b.Theme,
		BuyPrice:     b.BuyPrice,
		ClosePrice:   b.ClosePrice,
		ProfitRate:   papertrading.ProfitRate(b.BuyPrice, b.ClosePrice),
		ProfitAmount: b.ClosePrice - b.BuyPrice,
		HighTime:     b.HighTime,
	}

	if b.HighPrice != nil {
		high := *b.HighPrice
		highProfitAmount := high - b.BuyPrice
		highProfitRate := papertrading.ProfitRate(b.BuyPrice, high)
		stock.HighPrice = &high
		stock.HighProfitAmount = &highProfitAmount
		stock.HighProfitRate = &highProfitRate
	}

	return stock
}

// DatasetBuilder provides a fluent interface for creating test day datasets.
//
// Example usage:
//
//	dataset := testutil.NewDataset("2026-02-10").
//	    WithStocks(testutil.NewStock("A", 1000, 1100).Build()).
//	    WithSnapshot("2026-02-10 09:05:00", nil).
//	    WithSnapshot("2026-02-10 09:30:00", map[string]float64{"A": 1050}).
//	    Build()
type DatasetBuilder struct {
	TradeDate        string
	MorningTimestamp string
	CollectedAt      string
	Stocks           []model.StockRecord
	Snapshots        []model.PriceSnapshot
	Summary          *model.DailySummary
}

// NewDataset creates a DatasetBuilder for the given trade date with default timestamps.
func NewDataset(date string) *DatasetBuilder {
	return &DatasetBuilder{
		TradeDate:        date,
		MorningTimestamp: date + " 09:05:00",
		CollectedAt:      date + " 15:40:00",
	}
}

// WithStocks appends stock records.
func (b *DatasetBuilder) WithStocks(stocks ...model.StockRecord) *DatasetBuilder {
	b.Stocks = append(b.Stocks, stocks...)
	return b
}

// WithSnapshot appends a price snapshot. A nil prices map is replaced by the current buy
// prices of every stock added so far, which is what the first snapshot of a day holds.
func (b *DatasetBuilder) WithSnapshot(timestamp string, prices map[string]float64) *DatasetBuilder {
	if prices == nil {
		prices = make(map[string]float64, len(b.Stocks))
		for _, stock := range b.Stocks {
			prices[stock.Code] = stock.BuyPrice
		}
	}
	b.Snapshots = append(b.Snapshots, model.PriceSnapshot{Timestamp: timestamp, Prices: prices})
	return b
}

// WithSummary overrides the computed summary, e.g. to simulate a stale published summary.
func (b *DatasetBuilder) WithSummary(summary model.DailySummary) *DatasetBuilder {
	b.Summary = &summary
	return b
}

// Build creates the dataset. The summary is computed from the stocks unless overridden.
func (b *DatasetBuilder) Build() model.DailyDataset {
	summary := papertrading.Summarize(b.Stocks)
	if b.Summary != nil {
		summary = *b.Summary
	}

	return model.DailyDataset{
		TradeDate:        b.TradeDate,
		MorningTimestamp: b.MorningTimestamp,
		CollectedAt:      b.CollectedAt,
		PriceSnapshots:   b.Snapshots,
		Stocks:           b.Stocks,
		Summary:          summary,
	}
}

// Convenience functions

// CreateDataset creates a dataset with one stock per (code, buy, close) triple.
//
// Example usage:
//
//	d1 := testutil.CreateDataset("2026-02-10", testutil.Prices{"A", 1000, 1100})
func CreateDataset(date string, prices ...Prices) model.DailyDataset {
	builder := NewDataset(date)
	for _, p := range prices {
		builder.WithStocks(NewStock(p.Code, p.Buy, p.Close).Build())
	}
	return builder.Build()
}

// Prices is a compact (code, buy, close) triple for CreateDataset.
type Prices struct {
	Code  string
	Buy   float64
	Close float64
}

// IndexFor builds a catalog index pointing at "<date>.json" for every dataset, newest first
// as the collector writes it.
func IndexFor(datasets ...model.DailyDataset) model.CatalogIndex {
	entries := make([]model.IndexEntry, 0, len(datasets))
	for i := len(datasets) - 1; i >= 0; i-- {
		d := datasets[i]
		entries = append(entries, model.IndexEntry{
			Date:            d.TradeDate,
			Filename:        d.TradeDate + ".json",
			TotalProfitRate: d.Summary.TotalProfitRate,
			StockCount:      d.Summary.TotalStocks,
		})
	}

	updatedAt := ""
	if len(datasets) > 0 {
		updatedAt = datasets[len(datasets)-1].CollectedAt
	}

	return model.CatalogIndex{UpdatedAt: updatedAt, Entries: entries}
}

// DatasetsByDate keys datasets by trade date.
func DatasetsByDate(datasets ...model.DailyDataset) map[string]model.DailyDataset {
	byDate := make(map[string]model.DailyDataset, len(datasets))
	for _, d := range datasets {
		byDate[d.TradeDate] = d
	}
	return byDate
}
