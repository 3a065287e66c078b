package service_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/ndewijer/Paper-Trading-Backend/internal/apperrors"
	"github.com/ndewijer/Paper-Trading-Backend/internal/catalog"
	"github.com/ndewijer/Paper-Trading-Backend/internal/model"
	"github.com/ndewijer/Paper-Trading-Backend/internal/service"
	"github.com/ndewijer/Paper-Trading-Backend/internal/testutil"
)

// snapshotDataset has a second snapshot that re-prices A and B but not C.
func snapshotDataset() model.DailyDataset {
	return testutil.NewDataset("2026-02-10").
		WithStocks(
			testutil.NewStock("A", 1000, 1100).Build(),
			testutil.NewStock("B", 2000, 1800).Build(),
			testutil.NewStock("C", 500, 500).Build(),
		).
		WithSnapshot("2026-02-10 09:05:00", nil).
		WithSnapshot("2026-02-10 09:30:00", map[string]float64{"A": 1050, "B": 1900}).
		Build()
}

func secondDataset() model.DailyDataset {
	return testutil.CreateDataset("2026-02-11", testutil.Prices{Code: "D", Buy: 3000, Close: 2900})
}

// TestPaperTradingService_Refresh tests catalog loading and generation handling.
//
// WHY: Refresh is the only way catalog data enters the service. A failed refresh must
// not take down what is already served, and a successful one must start from a clean
// Selection State.
func TestPaperTradingService_Refresh(t *testing.T) {
	ctx := context.Background()

	t.Run("serves nothing before the first load", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPaperTradingService(t, db, testutil.NewMemorySource())

		if _, err := svc.Index(); !errors.Is(err, apperrors.ErrCatalogUnavailable) {
			t.Errorf("Expected ErrCatalogUnavailable, got %v", err)
		}
		if _, err := svc.CreateSession(); !errors.Is(err, apperrors.ErrCatalogUnavailable) {
			t.Errorf("Expected ErrCatalogUnavailable, got %v", err)
		}
	})

	t.Run("installs a generation and reports it", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc, _ := testutil.NewLoadedPaperTradingService(t, db, snapshotDataset(), secondDataset())

		// Execute
		status := svc.Status()

		// Assert
		if status.Generation != 1 || status.Source != service.SourceRemote {
			t.Errorf("Expected generation 1 from remote, got %+v", status)
		}
		if status.Days != 2 || status.LoadedDays != 2 || len(status.FailedDays) != 0 {
			t.Errorf("Unexpected day counts %+v", status)
		}
		if status.LoadedAt == nil || status.LastAttemptAt == nil || status.LastError != nil {
			t.Errorf("Unexpected timestamps or error %+v", status)
		}

		index, err := svc.Index()
		if err != nil {
			t.Fatalf("Index() returned unexpected error: %v", err)
		}
		if len(index.Entries) != 2 || index.Entries[0].Date != "2026-02-11" {
			t.Errorf("Expected newest entry first, got %+v", index.Entries)
		}
	})

	t.Run("writes the generation to the cache", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		testutil.NewLoadedPaperTradingService(t, db, snapshotDataset(), secondDataset())

		testutil.AssertRowCount(t, db, "catalog_entry", 2)
		testutil.AssertRowCount(t, db, "catalog_dataset", 2)
	})

	t.Run("failed refresh keeps the previous generation", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc, source := testutil.NewLoadedPaperTradingService(t, db, snapshotDataset())
		source.SetIndexErr(errors.New("connection reset"))

		status, err := svc.Refresh(ctx)

		if !errors.Is(err, apperrors.ErrFailedToRefreshCatalog) {
			t.Errorf("Expected ErrFailedToRefreshCatalog, got %v", err)
		}
		if status.Generation != 1 || status.Days != 1 {
			t.Errorf("Expected previous generation to stay, got %+v", status)
		}
		if status.LastError == nil {
			t.Error("Expected last error to be reported")
		}
	})

	t.Run("missing index installs an empty generation", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc, source := testutil.NewLoadedPaperTradingService(t, db, snapshotDataset())
		source.SetIndexErr(catalog.ErrNotFound)

		status, err := svc.Refresh(ctx)

		if err != nil {
			t.Fatalf("Refresh() returned unexpected error: %v", err)
		}
		if status.Generation != 2 || status.Days != 0 || status.LastError != nil {
			t.Errorf("Expected empty generation 2, got %+v", status)
		}
	})

	t.Run("reload discards sessions", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc, _ := testutil.NewLoadedPaperTradingService(t, db, snapshotDataset())
		view, err := svc.CreateSession()
		if err != nil {
			t.Fatalf("CreateSession() returned unexpected error: %v", err)
		}

		if _, err := svc.Refresh(ctx); err != nil {
			t.Fatalf("Refresh() returned unexpected error: %v", err)
		}

		if _, err := svc.GetSession(view.ID); !errors.Is(err, apperrors.ErrSessionNotFound) {
			t.Errorf("Expected ErrSessionNotFound after reload, got %v", err)
		}
		if svc.Status().ActiveSessions != 0 {
			t.Errorf("Expected no active sessions, got %d", svc.Status().ActiveSessions)
		}
	})

	t.Run("failed days are reported", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		source := testutil.NewMemorySource(snapshotDataset(), secondDataset())
		source.DatasetErrs["2026-02-11.json"] = errors.New("truncated")
		svc := testutil.NewTestPaperTradingService(t, db, source)

		status, err := svc.Refresh(ctx)

		if err != nil {
			t.Fatalf("Refresh() returned unexpected error: %v", err)
		}
		if !reflect.DeepEqual(status.FailedDays, []string{"2026-02-11"}) || status.LoadedDays != 1 {
			t.Errorf("Expected 2026-02-11 to be failed, got %+v", status)
		}
	})
}

// TestPaperTradingService_Warm tests serving the cached catalog after a restart.
func TestPaperTradingService_Warm(t *testing.T) {
	ctx := context.Background()

	t.Run("empty cache", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPaperTradingService(t, db, testutil.NewMemorySource())

		if err := svc.Warm(ctx); !errors.Is(err, apperrors.ErrCatalogNotCached) {
			t.Errorf("Expected ErrCatalogNotCached, got %v", err)
		}
	})

	t.Run("installs the cached generation", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		testutil.NewLoadedPaperTradingService(t, db, snapshotDataset(), secondDataset())

		// A new process: same database, source currently unreachable
		source := testutil.NewMemorySource()
		source.SetIndexErr(errors.New("offline"))
		svc := testutil.NewTestPaperTradingService(t, db, source)

		if err := svc.Warm(ctx); err != nil {
			t.Fatalf("Warm() returned unexpected error: %v", err)
		}

		status := svc.Status()
		if status.Source != service.SourceCache || status.Days != 2 {
			t.Errorf("Expected cached generation with 2 days, got %+v", status)
		}
		if _, err := svc.AdjustedDay("2026-02-10", 1); err != nil {
			t.Errorf("Expected cached day to be served, got %v", err)
		}
	})

	t.Run("does not replace a loaded generation", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc, _ := testutil.NewLoadedPaperTradingService(t, db, snapshotDataset())

		if err := svc.Warm(ctx); err != nil {
			t.Fatalf("Warm() returned unexpected error: %v", err)
		}
		if status := svc.Status(); status.Source != service.SourceRemote || status.Generation != 1 {
			t.Errorf("Expected remote generation 1 to stay, got %+v", status)
		}
	})

	t.Run("works without a cache", func(t *testing.T) {
		svc := service.NewPaperTradingService(catalog.NewLoader(testutil.NewMemorySource(snapshotDataset()), 1, nil), nil, nil)

		if err := svc.Warm(ctx); !errors.Is(err, apperrors.ErrCatalogNotCached) {
			t.Errorf("Expected ErrCatalogNotCached, got %v", err)
		}
		if _, err := svc.Refresh(ctx); err != nil {
			t.Errorf("Expected refresh without a cache to succeed, got %v", err)
		}
	})

}

// TestPaperTradingService_AdjustedDay tests single day recalculation.
func TestPaperTradingService_AdjustedDay(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc, _ := testutil.NewLoadedPaperTradingService(t, db, snapshotDataset(), secondDataset())

	t.Run("default snapshot returns the day as published", func(t *testing.T) {
		d, err := svc.AdjustedDay("2026-02-10", 0)
		if err != nil {
			t.Fatalf("AdjustedDay() returned unexpected error: %v", err)
		}
		if d.MorningTimestamp != "2026-02-10 09:05:00" || d.Summary.TotalInvested != 3500 {
			t.Errorf("Unexpected default day %+v", d.Summary)
		}
	})

	t.Run("alternate snapshot rebases covered stocks", func(t *testing.T) {
		d, err := svc.AdjustedDay("2026-02-10", 1)
		if err != nil {
			t.Fatalf("AdjustedDay() returned unexpected error: %v", err)
		}
		if d.MorningTimestamp != "2026-02-10 09:30:00" {
			t.Errorf("Expected snapshot timestamp, got %s", d.MorningTimestamp)
		}
		if d.Summary.TotalInvested != 1050+1900+500 {
			t.Errorf("Expected invested 3450, got %v", d.Summary.TotalInvested)
		}
	})

	t.Run("out of range snapshot falls back", func(t *testing.T) {
		d, err := svc.AdjustedDay("2026-02-10", 7)
		if err != nil {
			t.Fatalf("AdjustedDay() returned unexpected error: %v", err)
		}
		if d.MorningTimestamp != "2026-02-10 09:05:00" {
			t.Errorf("Expected default timestamp, got %s", d.MorningTimestamp)
		}
	})

	t.Run("repeated calls are stable", func(t *testing.T) {
		first, _ := svc.AdjustedDay("2026-02-10", 1)
		second, _ := svc.AdjustedDay("2026-02-10", 1)
		if !reflect.DeepEqual(first, second) {
			t.Error("Expected identical results")
		}
	})

	t.Run("unknown day", func(t *testing.T) {
		if _, err := svc.AdjustedDay("2026-01-01", 0); !errors.Is(err, apperrors.ErrDayNotFound) {
			t.Errorf("Expected ErrDayNotFound, got %v", err)
		}
	})
}

// TestPaperTradingService_Summarize tests the stateless aggregate.
func TestPaperTradingService_Summarize(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc, _ := testutil.NewLoadedPaperTradingService(t, db, snapshotDataset(), secondDataset())

	t.Run("nil dates select every day", func(t *testing.T) {
		summary, err := svc.Summarize(model.SelectionRequest{})
		if err != nil {
			t.Fatalf("Summarize() returned unexpected error: %v", err)
		}
		if summary.TotalDays != 2 || summary.TotalStocks != 4 {
			t.Errorf("Expected 2 days and 4 stocks, got %+v", summary)
		}
		if summary.TotalInvested != 6500 || summary.TotalValue != 6300 {
			t.Errorf("Unexpected totals %+v", summary)
		}
	})

	t.Run("empty dates select nothing", func(t *testing.T) {
		summary, err := svc.Summarize(model.SelectionRequest{Dates: []string{}})
		if err != nil {
			t.Fatalf("Summarize() returned unexpected error: %v", err)
		}
		if summary != (model.PortfolioSummary{}) {
			t.Errorf("Expected zero summary, got %+v", summary)
		}
	})

	t.Run("applies exclusions and snapshots", func(t *testing.T) {
		summary, err := svc.Summarize(model.SelectionRequest{
			Dates:     []string{"2026-02-10"},
			Excluded:  []model.StockKey{{Date: "2026-02-10", Code: "C"}},
			Snapshots: map[string]int{"2026-02-10": 1},
		})
		if err != nil {
			t.Fatalf("Summarize() returned unexpected error: %v", err)
		}
		// A 1050 -> 1100, B 1900 -> 1800
		if summary.TotalStocks != 2 || summary.TotalInvested != 2950 || summary.TotalProfit != -50 {
			t.Errorf("Unexpected summary %+v", summary)
		}
		if summary.TotalProfitRate != -1.69 {
			t.Errorf("Expected -1.69, got %v", summary.TotalProfitRate)
		}
	})

	t.Run("rejects unknown dates", func(t *testing.T) {
		_, err := svc.Summarize(model.SelectionRequest{Dates: []string{"2030-01-01"}})
		if !errors.Is(err, apperrors.ErrDayNotFound) {
			t.Errorf("Expected ErrDayNotFound, got %v", err)
		}
	})
}
