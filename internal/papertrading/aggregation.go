package papertrading

import "github.com/ndewijer/Paper-Trading-Backend/internal/model"

// AllStocks returns every stock of the selected days that are present in adjustedByDate,
// regardless of exclusions. Days are visited in ascending date order.
func AllStocks(adjustedByDate map[string]model.DailyDataset, selected DateSet) []model.StockRecord {
	var stocks []model.StockRecord
	for _, date := range selected.Sorted() {
		if dataset, ok := adjustedByDate[date]; ok {
			stocks = append(stocks, dataset.Stocks...)
		}
	}
	return stocks
}

// ActiveStocks returns the active stock set: stocks of the selected days that are present
// in adjustedByDate and not excluded for that day.
func ActiveStocks(adjustedByDate map[string]model.DailyDataset, selected DateSet, excluded ExclusionSet) []model.StockRecord {
	var stocks []model.StockRecord
	for _, date := range selected.Sorted() {
		dataset, ok := adjustedByDate[date]
		if !ok {
			continue
		}
		for _, stock := range dataset.Stocks {
			if !excluded.Has(date, stock.Code) {
				stocks = append(stocks, stock)
			}
		}
	}
	return stocks
}

// Aggregate computes the portfolio summary over the active stock set.
//
// TotalDays counts every selected date, including dates that have no dataset; such dates
// contribute no stocks. Rates are 0 when nothing was invested.
func Aggregate(adjustedByDate map[string]model.DailyDataset, selected DateSet, excluded ExclusionSet) model.PortfolioSummary {
	var t totals
	for _, stock := range ActiveStocks(adjustedByDate, selected, excluded) {
		t.add(stock)
	}

	return model.PortfolioSummary{
		TotalDays:           len(selected),
		TotalStocks:         t.stocks,
		ProfitStocks:        t.profit,
		LossStocks:          t.loss,
		FlatStocks:          t.flat,
		TotalInvested:       t.invested,
		TotalValue:          t.value,
		TotalProfit:         t.value - t.invested,
		TotalProfitRate:     t.profitRate(),
		HighTotalValue:      t.highValue,
		HighTotalProfit:     t.highValue - t.invested,
		HighTotalProfitRate: t.highProfitRate(),
		HighProfitStocks:    t.highProfit,
		HighLossStocks:      t.highLoss,
		HighFlatStocks:      t.highFlat,
	}
}
