package papertrading_test

import (
	"reflect"
	"testing"

	"github.com/ndewijer/Paper-Trading-Backend/internal/model"
	"github.com/ndewijer/Paper-Trading-Backend/internal/papertrading"
	"github.com/ndewijer/Paper-Trading-Backend/internal/testutil"
)

// snapshotDay returns a day with three stocks and three snapshots. The third snapshot
// lacks a price for C.
func snapshotDay() model.DailyDataset {
	return testutil.NewDataset("2026-02-10").
		WithStocks(
			testutil.NewStock("A", 1000, 1100).WithHigh(1200).Build(),
			testutil.NewStock("B", 2000, 1800).Build(),
			testutil.NewStock("C", 500, 500).WithHigh(520).Build(),
		).
		WithSnapshot("2026-02-10 09:05:00", nil).
		WithSnapshot("2026-02-10 09:30:00", map[string]float64{"A": 1050, "B": 1900, "C": 510}).
		WithSnapshot("2026-02-10 10:00:00", map[string]float64{"A": 1100, "B": 2000}).
		Build()
}

func findStock(t *testing.T, dataset model.DailyDataset, code string) model.StockRecord {
	t.Helper()
	for _, s := range dataset.Stocks {
		if s.Code == code {
			return s
		}
	}
	t.Fatalf("stock %s not found in %s", code, dataset.TradeDate)
	return model.StockRecord{}
}

func TestAdjust_Fallback(t *testing.T) {
	t.Run("snapshot index 0 leaves the dataset unchanged", func(t *testing.T) {
		d := snapshotDay()

		got := papertrading.Adjust(d, 0)

		if !reflect.DeepEqual(got, d) {
			t.Errorf("Expected dataset unchanged, got %+v", got)
		}
	})

	t.Run("out of range index leaves the dataset unchanged", func(t *testing.T) {
		d := snapshotDay()

		for _, idx := range []int{3, 10, -1} {
			got := papertrading.Adjust(d, idx)
			if !reflect.DeepEqual(got, d) {
				t.Errorf("Adjust(d, %d): expected dataset unchanged", idx)
			}
		}
	})

	t.Run("day with a single snapshot leaves the dataset unchanged", func(t *testing.T) {
		d := testutil.NewDataset("2026-02-11").
			WithStocks(testutil.NewStock("A", 1000, 1100).Build()).
			WithSnapshot("2026-02-11 09:05:00", map[string]float64{"A": 900}).
			Build()

		got := papertrading.Adjust(d, 1)

		if !reflect.DeepEqual(got, d) {
			t.Errorf("Expected dataset unchanged, got %+v", got)
		}
	})

	t.Run("day without snapshots leaves the dataset unchanged", func(t *testing.T) {
		d := testutil.CreateDataset("2026-02-12", testutil.Prices{Code: "A", Buy: 1000, Close: 1100})

		got := papertrading.Adjust(d, 1)

		if !reflect.DeepEqual(got, d) {
			t.Errorf("Expected dataset unchanged, got %+v", got)
		}
	})

	t.Run("stale published summary is kept on fallback", func(t *testing.T) {
		d := testutil.NewDataset("2026-02-13").
			WithStocks(testutil.NewStock("A", 1000, 1100).Build()).
			WithSummary(model.DailySummary{TotalStocks: 99}).
			Build()

		got := papertrading.Adjust(d, 0)

		if got.Summary.TotalStocks != 99 {
			t.Errorf("Expected summary untouched, got %+v", got.Summary)
		}
	})
}

func TestAdjust_Rebase(t *testing.T) {
	t.Run("updates buy price and derived figures from the snapshot", func(t *testing.T) {
		got := papertrading.Adjust(snapshotDay(), 1)

		a := findStock(t, got, "A")
		if a.BuyPrice != 1050 {
			t.Errorf("Expected buy price 1050, got %v", a.BuyPrice)
		}
		if a.ProfitAmount != 50 {
			t.Errorf("Expected profit amount 50, got %v", a.ProfitAmount)
		}
		if a.ProfitRate != 4.76 {
			t.Errorf("Expected profit rate 4.76, got %v", a.ProfitRate)
		}
		if a.HighProfitAmount == nil || *a.HighProfitAmount != 150 {
			t.Errorf("Expected high profit amount 150, got %v", a.HighProfitAmount)
		}
		if a.HighProfitRate == nil || *a.HighProfitRate != 14.29 {
			t.Errorf("Expected high profit rate 14.29, got %v", a.HighProfitRate)
		}
		if a.ClosePrice != 1100 || a.HighPrice == nil || *a.HighPrice != 1200 {
			t.Errorf("Expected close and high untouched, got close %v high %v", a.ClosePrice, a.HighPrice)
		}
	})

	t.Run("uses close price as high when no high was recorded", func(t *testing.T) {
		got := papertrading.Adjust(snapshotDay(), 1)

		b := findStock(t, got, "B")
		if b.HighPrice != nil {
			t.Errorf("Expected high price to stay absent, got %v", *b.HighPrice)
		}
		if b.HighProfitRate == nil || *b.HighProfitRate != b.ProfitRate {
			t.Errorf("Expected high profit rate to equal profit rate %v, got %v", b.ProfitRate, b.HighProfitRate)
		}
		if b.HighProfitAmount == nil || *b.HighProfitAmount != -100 {
			t.Errorf("Expected high profit amount -100, got %v", b.HighProfitAmount)
		}
	})

	t.Run("stock missing from snapshot keeps its record", func(t *testing.T) {
		original := snapshotDay()

		got := papertrading.Adjust(original, 2)

		c := findStock(t, got, "C")
		if !reflect.DeepEqual(c, findStock(t, original, "C")) {
			t.Errorf("Expected C unchanged, got %+v", c)
		}
		if a := findStock(t, got, "A"); a.BuyPrice != 1100 {
			t.Errorf("Expected A re-based to 1100, got %v", a.BuyPrice)
		}
		if b := findStock(t, got, "B"); b.BuyPrice != 2000 || b.ProfitRate != -10 {
			t.Errorf("Expected B re-based to 2000 at -10%%, got %v at %v", b.BuyPrice, b.ProfitRate)
		}
	})

	t.Run("sets morning timestamp to the snapshot", func(t *testing.T) {
		got := papertrading.Adjust(snapshotDay(), 2)

		if got.MorningTimestamp != "2026-02-10 10:00:00" {
			t.Errorf("Expected snapshot timestamp, got %s", got.MorningTimestamp)
		}
	})

	t.Run("recomputes the summary from the adjusted stocks", func(t *testing.T) {
		got := papertrading.Adjust(snapshotDay(), 1)

		want := papertrading.Summarize(got.Stocks)
		if got.Summary != want {
			t.Errorf("Expected summary %+v, got %+v", want, got.Summary)
		}
		if got.Summary.TotalInvested != 1050+1900+510 {
			t.Errorf("Expected invested 3460, got %v", got.Summary.TotalInvested)
		}
		if got.Summary.TotalValue != 1100+1800+500 {
			t.Errorf("Expected value 3400, got %v", got.Summary.TotalValue)
		}
		if got.Summary.ProfitStocks != 1 || got.Summary.LossStocks != 2 || got.Summary.FlatStocks != 0 {
			t.Errorf("Expected 1 profit / 2 loss / 0 flat, got %+v", got.Summary)
		}
	})
}

func TestAdjust_Purity(t *testing.T) {
	t.Run("does not modify the input", func(t *testing.T) {
		original := snapshotDay()
		pristine := snapshotDay()

		_ = papertrading.Adjust(original, 1)

		if !reflect.DeepEqual(original, pristine) {
			t.Error("Expected input dataset to be left untouched")
		}
	})

	t.Run("same arguments give identical results", func(t *testing.T) {
		d := snapshotDay()

		first := papertrading.Adjust(d, 1)
		second := papertrading.Adjust(d, 1)

		if !reflect.DeepEqual(first, second) {
			t.Error("Expected identical results for identical arguments")
		}
	})

	t.Run("re-applying to an adjusted day gives the same figures", func(t *testing.T) {
		once := papertrading.Adjust(snapshotDay(), 1)
		twice := papertrading.Adjust(once, 1)

		if !reflect.DeepEqual(once, twice) {
			t.Errorf("Expected idempotent adjustment, got %+v then %+v", once.Summary, twice.Summary)
		}
	})
}
