package papertrading

import "github.com/ndewijer/Paper-Trading-Backend/internal/model"

// DerivedView is everything the presentation needs for a selection: the adjusted day
// datasets keyed by date and the aggregate over the active stock set.
type DerivedView struct {
	Adjusted map[string]model.DailyDataset
	Summary  model.PortfolioSummary
}

// AdjustAll applies each day's chosen snapshot to the raw datasets. The returned map is new;
// the raw map and its datasets are not modified.
func AdjustAll(raw map[string]model.DailyDataset, selection Selection) map[string]model.DailyDataset {
	adjusted := make(map[string]model.DailyDataset, len(raw))
	for date, dataset := range raw {
		adjusted[date] = Adjust(dataset, selection.SnapshotIndex(date))
	}
	return adjusted
}

// Derive recomputes the adjusted datasets and the portfolio summary for a selection.
func Derive(raw map[string]model.DailyDataset, selection Selection) DerivedView {
	adjusted := AdjustAll(raw, selection)
	return DerivedView{
		Adjusted: adjusted,
		Summary:  selection.Aggregate(adjusted),
	}
}

// Aggregate summarises already adjusted datasets under the selection's dates and exclusions.
func (s Selection) Aggregate(adjustedByDate map[string]model.DailyDataset) model.PortfolioSummary {
	return Aggregate(adjustedByDate, s.dates, s.excluded)
}
