package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker"

	"github.com/ndewijer/Paper-Trading-Backend/internal/model"
)

func newTestHTTPSource(t *testing.T, handler http.HandlerFunc) *HTTPSource {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	s := NewHTTPSource(server.URL+"/site/", DefaultLayout, 5*time.Second)
	s.now = func() time.Time { return time.UnixMilli(1770000000123) }
	return s
}

func TestHTTPSource_FetchIndex(t *testing.T) {
	t.Run("requests the index with a cache buster", func(t *testing.T) {
		var gotPath, gotT, gotAccept, gotUA string
		s := newTestHTTPSource(t, func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotT = r.URL.Query().Get("t")
			gotAccept = r.Header.Get("Accept")
			gotUA = r.Header.Get("User-Agent")
			json.NewEncoder(w).Encode(model.CatalogIndex{
				UpdatedAt: "2026-02-10 15:40:00",
				Entries:   []model.IndexEntry{{Date: "2026-02-10", Filename: "2026-02-10.json", StockCount: 2}},
			})
		})

		index, err := s.FetchIndex(context.Background())
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		if gotPath != "/site/data/paper-trading-index.json" {
			t.Errorf("Expected index path, got %s", gotPath)
		}
		if gotT != "1770000000123" {
			t.Errorf("Expected t=1770000000123, got %q", gotT)
		}
		if gotAccept != "application/json" || gotUA == "" {
			t.Errorf("Expected Accept and User-Agent headers, got %q and %q", gotAccept, gotUA)
		}
		if len(index.Entries) != 1 || index.Entries[0].Filename != "2026-02-10.json" {
			t.Errorf("Unexpected index %+v", index)
		}
	})

	t.Run("404 maps to ErrNotFound", func(t *testing.T) {
		s := newTestHTTPSource(t, func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		})

		_, err := s.FetchIndex(context.Background())
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("server error is not ErrNotFound", func(t *testing.T) {
		s := newTestHTTPSource(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		_, err := s.FetchIndex(context.Background())
		if err == nil || errors.Is(err, ErrNotFound) {
			t.Errorf("Expected a non-not-found error, got %v", err)
		}
	})

	t.Run("malformed JSON is an error", func(t *testing.T) {
		s := newTestHTTPSource(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("{not json"))
		})

		if _, err := s.FetchIndex(context.Background()); err == nil {
			t.Error("Expected decode error")
		}
	})
}

func TestHTTPSource_FetchDataset(t *testing.T) {
	var gotPath string
	s := newTestHTTPSource(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(model.DailyDataset{
			TradeDate: "2026-02-10",
			Stocks:    []model.StockRecord{{Code: "A", BuyPrice: 1000, ClosePrice: 1100}},
		})
	})

	dataset, err := s.FetchDataset(context.Background(), "2026-02-10.json")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if gotPath != "/site/data/paper-trading/2026-02-10.json" {
		t.Errorf("Expected dataset path, got %s", gotPath)
	}
	if dataset.TradeDate != "2026-02-10" || len(dataset.Stocks) != 1 {
		t.Errorf("Unexpected dataset %+v", dataset)
	}
}

func TestHTTPSource_Breaker(t *testing.T) {
	t.Run("opens after consecutive failures", func(t *testing.T) {
		var hits atomic.Int32
		s := newTestHTTPSource(t, func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			w.WriteHeader(http.StatusBadGateway)
		})

		for i := 0; i < 5; i++ {
			s.FetchIndex(context.Background())
		}
		_, err := s.FetchIndex(context.Background())

		if !errors.Is(err, gobreaker.ErrOpenState) {
			t.Errorf("Expected open breaker, got %v", err)
		}
		if hits.Load() != 5 {
			t.Errorf("Expected 5 requests to reach the server, got %d", hits.Load())
		}
		if s.breaker.State() != gobreaker.StateOpen {
			t.Errorf("Expected state open, got %s", s.breaker.State())
		}
	})

	t.Run("dataset failures do not trip it", func(t *testing.T) {
		s := newTestHTTPSource(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/site/"+DefaultLayout.IndexPath {
				json.NewEncoder(w).Encode(model.CatalogIndex{})
				return
			}
			w.WriteHeader(http.StatusInternalServerError)
		})

		for i := 0; i < 10; i++ {
			_, err := s.FetchDataset(context.Background(), "2026-02-10.json")
			if err == nil || errors.Is(err, gobreaker.ErrOpenState) {
				t.Fatalf("Expected a server error on attempt %d, got %v", i+1, err)
			}
		}
		if _, err := s.FetchIndex(context.Background()); err != nil {
			t.Errorf("Expected index fetch to succeed, got %v", err)
		}
		if s.breaker.State() != gobreaker.StateClosed {
			t.Errorf("Expected state closed, got %s", s.breaker.State())
		}
	})

	t.Run("not found does not trip it", func(t *testing.T) {
		s := newTestHTTPSource(t, func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		})

		for i := 0; i < 10; i++ {
			_, err := s.FetchIndex(context.Background())
			if !errors.Is(err, ErrNotFound) {
				t.Fatalf("Expected ErrNotFound on attempt %d, got %v", i+1, err)
			}
		}
		if s.breaker.State() != gobreaker.StateClosed {
			t.Errorf("Expected state closed, got %s", s.breaker.State())
		}
	})
}
