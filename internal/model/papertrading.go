package model

// DailyDataset is one trading day of the paper-trading catalog as published by the collector.
// The summary in a published file is advisory; consumers recompute it from Stocks.
type DailyDataset struct {
	TradeDate        string          `json:"trade_date"`                // Date key in YYYY-MM-DD format
	MorningTimestamp string          `json:"morning_timestamp"`         // Timestamp of the effective buy price point
	CollectedAt      string          `json:"collected_at,omitempty"`    // When the collector produced the file
	PriceSnapshots   []PriceSnapshot `json:"price_snapshots,omitempty"` // Index 0 is the default buy price point
	Stocks           []StockRecord   `json:"stocks"`
	Summary          DailySummary    `json:"summary"`
}

// StockRecord is a single simulated one-share position for a day.
type StockRecord struct {
	Code             string   `json:"code"`
	Name             string   `json:"name"`
	Theme            string   `json:"theme,omitempty"`
	BuyPrice         float64  `json:"buy_price"`
	ClosePrice       float64  `json:"close_price"`
	ProfitRate       float64  `json:"profit_rate"`
	ProfitAmount     float64  `json:"profit_amount"`
	HighPrice        *float64 `json:"high_price,omitempty"`
	HighTime         *string  `json:"high_time,omitempty"`
	HighProfitRate   *float64 `json:"high_profit_rate,omitempty"`
	HighProfitAmount *float64 `json:"high_profit_amount,omitempty"`
}

// EffectiveHighPrice returns the day's high, or the close when no high was recorded.
func (s StockRecord) EffectiveHighPrice() float64 {
	if s.HighPrice == nil {
		return s.ClosePrice
	}
	return *s.HighPrice
}

// EffectiveHighProfitRate returns the high-based profit rate, falling back to the close-based rate.
func (s StockRecord) EffectiveHighProfitRate() float64 {
	if s.HighProfitRate == nil {
		return s.ProfitRate
	}
	return *s.HighProfitRate
}

// PriceSnapshot is an intraday price capture usable as an alternate buy price.
// Prices may not cover every stock of the day.
type PriceSnapshot struct {
	Timestamp string             `json:"timestamp"`
	Prices    map[string]float64 `json:"prices"`
}

// DailySummary aggregates the stocks of a single day.
type DailySummary struct {
	TotalStocks         int     `json:"total_stocks"`
	ProfitStocks        int     `json:"profit_stocks"`
	LossStocks          int     `json:"loss_stocks"`
	FlatStocks          int     `json:"flat_stocks"`
	TotalInvested       float64 `json:"total_invested"`
	TotalValue          float64 `json:"total_value"`
	TotalProfit         float64 `json:"total_profit"`
	TotalProfitRate     float64 `json:"total_profit_rate"`
	HighTotalValue      float64 `json:"high_total_value"`
	HighTotalProfit     float64 `json:"high_total_profit"`
	HighTotalProfitRate float64 `json:"high_total_profit_rate"`
	HighProfitStocks    int     `json:"high_profit_stocks"`
	HighLossStocks      int     `json:"high_loss_stocks"`
	HighFlatStocks      int     `json:"high_flat_stocks"`
}

// CatalogIndex lists the published trading days.
type CatalogIndex struct {
	UpdatedAt string       `json:"updated_at"`
	Entries   []IndexEntry `json:"entries"`
}

// IndexEntry points at one day's dataset file.
type IndexEntry struct {
	Date            string  `json:"date"`
	Filename        string  `json:"filename"`
	TotalProfitRate float64 `json:"total_profit_rate"`
	StockCount      int     `json:"stock_count"`
}

// StockKey identifies a stock on a specific day. The same code can be excluded on one
// day and included on another.
type StockKey struct {
	Date string `json:"date"`
	Code string `json:"code"`
}

// PortfolioSummary is the aggregate over the active stock set of a selection.
type PortfolioSummary struct {
	TotalDays           int     `json:"totalDays"`
	TotalStocks         int     `json:"totalStocks"`
	ProfitStocks        int     `json:"profitStocks"`
	LossStocks          int     `json:"lossStocks"`
	FlatStocks          int     `json:"flatStocks"`
	TotalInvested       float64 `json:"totalInvested"`
	TotalValue          float64 `json:"totalValue"`
	TotalProfit         float64 `json:"totalProfit"`
	TotalProfitRate     float64 `json:"totalProfitRate"`
	HighTotalValue      float64 `json:"highTotalValue"`
	HighTotalProfit     float64 `json:"highTotalProfit"`
	HighTotalProfitRate float64 `json:"highTotalProfitRate"`
	HighProfitStocks    int     `json:"highProfitStocks"`
	HighLossStocks      int     `json:"highLossStocks"`
	HighFlatStocks      int     `json:"highFlatStocks"`
}

// SelectionRequest is a selection held by the client. Nil Dates selects every known date.
type SelectionRequest struct {
	Dates     []string       `json:"dates"`
	Excluded  []StockKey     `json:"excluded"`
	Snapshots map[string]int `json:"snapshots"`
}

// SessionView is the derived state of a selection session: the selection itself, every
// loaded day recalculated against its chosen snapshot, and the portfolio summary.
type SessionView struct {
	ID              string           `json:"id"`
	Generation      uint64           `json:"generation"`
	Version         uint64           `json:"version"`
	SelectedDates   []string         `json:"selected_dates"`
	ExcludedStocks  []StockKey       `json:"excluded_stocks"`
	SnapshotIndexes map[string]int   `json:"snapshot_indexes"`
	Days            []DailyDataset   `json:"days"` // Index order, newest first
	Summary         PortfolioSummary `json:"summary"`
}
