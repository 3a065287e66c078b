package request

import "github.com/ndewijer/Paper-Trading-Backend/internal/model"

// ToggleDateRequest represents the request body for selecting or deselecting a day
type ToggleDateRequest struct {
	Date string `json:"date"`
}

// ToggleStockRequest represents the request body for excluding or including one stock of a day
type ToggleStockRequest struct {
	Date string `json:"date"`
	Code string `json:"code"`
}

// ToggleAllStocksRequest represents the request body for excluding or including every stock of a day
type ToggleAllStocksRequest struct {
	Date string `json:"date"`
}

// SelectSnapshotRequest chooses the buy-price snapshot of a day. Index is required; 0
// restores the published buy prices.
type SelectSnapshotRequest struct {
	Date  string `json:"date"`
	Index *int   `json:"index"`
}

// SummaryRequest is a selection held by the client, aggregated without a session.
// Omitting dates selects every known date; an empty list selects none.
type SummaryRequest struct {
	Dates     []string         `json:"dates"`
	Excluded  []model.StockKey `json:"excluded"`
	Snapshots map[string]int   `json:"snapshots"`
}

// ToSelection converts the request to the service's selection type.
func (r SummaryRequest) ToSelection() model.SelectionRequest {
	return model.SelectionRequest{
		Dates:     r.Dates,
		Excluded:  r.Excluded,
		Snapshots: r.Snapshots,
	}
}
