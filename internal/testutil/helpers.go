package testutil

import (
	"context"
	"database/sql"
	"math/rand"
	"testing"

	"github.com/google/uuid"

	"github.com/ndewijer/Paper-Trading-Backend/internal/catalog"
	"github.com/ndewijer/Paper-Trading-Backend/internal/metrics"
	"github.com/ndewijer/Paper-Trading-Backend/internal/model"
	"github.com/ndewijer/Paper-Trading-Backend/internal/repository"
	"github.com/ndewijer/Paper-Trading-Backend/internal/service"
)

// NewTestPaperTradingService creates a PaperTradingService reading from source and caching into db.
// The service has no catalog yet; use NewLoadedPaperTradingService for one that does.
func NewTestPaperTradingService(t *testing.T, db *sql.DB, source catalog.Source) *service.PaperTradingService {
	t.Helper()

	m := metrics.NewRegistry()
	loader := catalog.NewLoader(source, 4, m)
	catalogRepo := repository.NewCatalogRepository(db)

	return service.NewPaperTradingService(loader, catalogRepo, m)
}

// NewLoadedPaperTradingService creates a PaperTradingService that has already refreshed
// from an in-memory source serving the given datasets.
//
// Example usage:
//
//	svc, source := testutil.NewLoadedPaperTradingService(t, db, d1, d2)
func NewLoadedPaperTradingService(t *testing.T, db *sql.DB, datasets ...model.DailyDataset) (*service.PaperTradingService, *MemorySource) {
	t.Helper()

	source := NewMemorySource(datasets...)
	svc := NewTestPaperTradingService(t, db, source)
	if _, err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("Failed to load test catalog: %v", err)
	}

	return svc, source
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db)
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakeStockName generates a unique stock name for testing.
//
// Example usage:
//
//	name := testutil.MakeStockName("005930")
//	// Returns: "Stock 005930 XYZ789"
func MakeStockName(code string) string {
	return "Stock " + code + " " + randomAlphanumeric(6)
}

// Ptr returns a pointer to v, for optional fields in test data.
//
// Example usage:
//
//	stock.HighPrice = testutil.Ptr(1200.0)
func Ptr[T any](v T) *T {
	return &v
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
