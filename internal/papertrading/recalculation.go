package papertrading

import "github.com/ndewijer/Paper-Trading-Backend/internal/model"

// Adjust re-bases a day on the price snapshot at snapshotIndex.
//
// The dataset is returned unchanged when snapshotIndex is 0, when the day has at most one
// snapshot, or when no snapshot exists at snapshotIndex. Otherwise every stock whose code
// appears in the snapshot gets the snapshot price as its buy price and its close and high
// figures recomputed. Stocks missing from the snapshot keep their record as is. The summary
// is recomputed from the resulting stocks and the morning timestamp is set to the
// snapshot's timestamp.
//
// The input is never modified; the returned dataset owns a fresh stock slice.
func Adjust(dataset model.DailyDataset, snapshotIndex int) model.DailyDataset {
	snapshot, ok := snapshotAt(dataset, snapshotIndex)
	if !ok {
		return dataset
	}

	stocks := make([]model.StockRecord, len(dataset.Stocks))
	for i, stock := range dataset.Stocks {
		price, found := snapshot.Prices[stock.Code]
		if !found {
			stocks[i] = stock
			continue
		}
		stocks[i] = rebase(stock, price)
	}

	adjusted := dataset
	adjusted.MorningTimestamp = snapshot.Timestamp
	adjusted.Stocks = stocks
	adjusted.Summary = Summarize(stocks)
	return adjusted
}

// snapshotAt returns the snapshot that overrides the default buy price, if any.
func snapshotAt(dataset model.DailyDataset, index int) (model.PriceSnapshot, bool) {
	if index == 0 || len(dataset.PriceSnapshots) <= 1 {
		return model.PriceSnapshot{}, false
	}
	if index < 0 || index >= len(dataset.PriceSnapshots) {
		return model.PriceSnapshot{}, false
	}
	return dataset.PriceSnapshots[index], true
}

// rebase recomputes a stock's derived figures against a new buy price.
// Close and high prices are left untouched.
func rebase(stock model.StockRecord, buyPrice float64) model.StockRecord {
	high := stock.EffectiveHighPrice()
	highProfitAmount := high - buyPrice
	highProfitRate := ProfitRate(buyPrice, high)

	stock.BuyPrice = buyPrice
	stock.ProfitAmount = stock.ClosePrice - buyPrice
	stock.ProfitRate = ProfitRate(buyPrice, stock.ClosePrice)
	stock.HighProfitAmount = &highProfitAmount
	stock.HighProfitRate = &highProfitRate
	return stock
}
