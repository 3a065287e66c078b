package papertrading

import "github.com/ndewijer/Paper-Trading-Backend/internal/model"

// totals accumulates the counts and sums shared by the day summary and the portfolio
// summary.
type totals struct {
	stocks, profit, loss, flat     int
	highProfit, highLoss, highFlat int
	invested, value, highValue     float64
}

func (t *totals) add(stock model.StockRecord) {
	t.stocks++
	switch {
	case stock.ProfitRate > 0:
		t.profit++
	case stock.ProfitRate < 0:
		t.loss++
	default:
		t.flat++
	}

	switch highRate := stock.EffectiveHighProfitRate(); {
	case highRate > 0:
		t.highProfit++
	case highRate < 0:
		t.highLoss++
	default:
		t.highFlat++
	}

	t.invested += stock.BuyPrice
	t.value += stock.ClosePrice
	t.highValue += stock.EffectiveHighPrice()
}

func (t *totals) profitRate() float64 {
	return ProfitRate(t.invested, t.value)
}

func (t *totals) highProfitRate() float64 {
	return ProfitRate(t.invested, t.highValue)
}

// Summarize derives a day summary from its stocks. It is the only source of summary
// figures; a published summary is never trusted over this.
func Summarize(stocks []model.StockRecord) model.DailySummary {
	var t totals
	for _, stock := range stocks {
		t.add(stock)
	}

	return model.DailySummary{
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
