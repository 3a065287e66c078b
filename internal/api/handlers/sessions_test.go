package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndewijer/Paper-Trading-Backend/internal/model"
	"github.com/ndewijer/Paper-Trading-Backend/internal/testutil"
)

func createSession(t *testing.T, handler *PaperTradingHandler) model.SessionView {
	t.Helper()

	w := httptest.NewRecorder()
	handler.CreateSession(w, httptest.NewRequest(http.MethodPost, "/api/paper-trading/sessions", nil))
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	return testutil.DecodeJSON[model.SessionView](t, w)
}

func sessionRequest(t *testing.T, method, id, suffix string, body any) *http.Request {
	t.Helper()
	return testutil.NewJSONRequestWithURLParams(t, method, "/api/paper-trading/sessions/"+id+suffix, body, map[string]string{"uuid": id})
}

func TestPaperTradingHandler_CreateSession(t *testing.T) {
	t.Run("creates a session with every day selected", func(t *testing.T) {
		handler, _ := setupPaperTradingHandler(t)

		view := createSession(t, handler)

		if len(view.SelectedDates) != 2 || len(view.Days) != 2 {
			t.Errorf("Expected 2 selected days, got %v", view.SelectedDates)
		}
		if view.ExcludedStocks == nil || view.SnapshotIndexes == nil {
			t.Error("Expected empty collections rather than null")
		}
	})

	t.Run("returns 503 before the first load", func(t *testing.T) {
		handler := setupEmptyPaperTradingHandler(t)

		w := httptest.NewRecorder()
		handler.CreateSession(w, httptest.NewRequest(http.MethodPost, "/api/paper-trading/sessions", nil))

		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("Expected 503, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestPaperTradingHandler_GetSession(t *testing.T) {
	handler, _ := setupPaperTradingHandler(t)
	view := createSession(t, handler)

	t.Run("returns the session", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.GetSession(w, sessionRequest(t, http.MethodGet, view.ID, "", nil))

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		got := testutil.DecodeJSON[model.SessionView](t, w)
		if got.ID != view.ID {
			t.Errorf("Expected session %s, got %s", view.ID, got.ID)
		}
	})

	t.Run("returns 404 for unknown session", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.GetSession(w, sessionRequest(t, http.MethodGet, testutil.MakeID(), "", nil))

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestPaperTradingHandler_DeleteSession(t *testing.T) {
	handler, _ := setupPaperTradingHandler(t)
	view := createSession(t, handler)

	w := httptest.NewRecorder()
	handler.DeleteSession(w, sessionRequest(t, http.MethodDelete, view.ID, "", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("Expected 204, got %d: %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	handler.DeleteSession(w, sessionRequest(t, http.MethodDelete, view.ID, "", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 on second delete, got %d", w.Code)
	}
}

// TestPaperTradingHandler_Mutations tests the session mutation endpoints.
//
// WHY: Each endpoint must validate its body before touching the session and answer with
// the view derived from the mutated selection.
func TestPaperTradingHandler_Mutations(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		suffix     string
		body       any
		call       func(*PaperTradingHandler) http.HandlerFunc
		wantStatus int
		check      func(*testing.T, model.SessionView)
	}{
		{
			name:       "toggle date",
			method:     http.MethodPost,
			suffix:     "/dates/toggle",
			body:       map[string]string{"date": "2026-02-11"},
			call:       func(h *PaperTradingHandler) http.HandlerFunc { return h.ToggleDate },
			wantStatus: http.StatusOK,
			check: func(t *testing.T, v model.SessionView) {
				if len(v.SelectedDates) != 1 || v.Summary.TotalDays != 1 {
					t.Errorf("Expected one selected day, got %v", v.SelectedDates)
				}
			},
		},
		{
			name:       "toggle unknown date",
			method:     http.MethodPost,
			suffix:     "/dates/toggle",
			body:       map[string]string{"date": "2026-03-01"},
			call:       func(h *PaperTradingHandler) http.HandlerFunc { return h.ToggleDate },
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "toggle malformed date",
			method:     http.MethodPost,
			suffix:     "/dates/toggle",
			body:       map[string]string{"date": "2026/02/11"},
			call:       func(h *PaperTradingHandler) http.HandlerFunc { return h.ToggleDate },
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "toggle all dates",
			method:     http.MethodPost,
			suffix:     "/dates/toggle-all",
			call:       func(h *PaperTradingHandler) http.HandlerFunc { return h.ToggleAllDates },
			wantStatus: http.StatusOK,
			check: func(t *testing.T, v model.SessionView) {
				if len(v.SelectedDates) != 0 {
					t.Errorf("Expected nothing selected, got %v", v.SelectedDates)
				}
			},
		},
		{
			name:       "toggle stock",
			method:     http.MethodPost,
			suffix:     "/stocks/toggle",
			body:       map[string]string{"date": "2026-02-10", "code": "B"},
			call:       func(h *PaperTradingHandler) http.HandlerFunc { return h.ToggleStock },
			wantStatus: http.StatusOK,
			check: func(t *testing.T, v model.SessionView) {
				if len(v.ExcludedStocks) != 1 || v.Summary.TotalProfit != 150 {
					t.Errorf("Expected B excluded, got %v with profit %v", v.ExcludedStocks, v.Summary.TotalProfit)
				}
			},
		},
		{
			name:       "toggle stock without code",
			method:     http.MethodPost,
			suffix:     "/stocks/toggle",
			body:       map[string]string{"date": "2026-02-10"},
			call:       func(h *PaperTradingHandler) http.HandlerFunc { return h.ToggleStock },
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "toggle all stocks",
			method:     http.MethodPost,
			suffix:     "/stocks/toggle-all",
			body:       map[string]string{"date": "2026-02-10"},
			call:       func(h *PaperTradingHandler) http.HandlerFunc { return h.ToggleAllStocks },
			wantStatus: http.StatusOK,
			check: func(t *testing.T, v model.SessionView) {
				if len(v.ExcludedStocks) != 2 || v.Summary.TotalStocks != 1 {
					t.Errorf("Expected both stocks of the day excluded, got %v", v.ExcludedStocks)
				}
			},
		},
		{
			name:       "reset excluded",
			method:     http.MethodDelete,
			suffix:     "/excluded",
			call:       func(h *PaperTradingHandler) http.HandlerFunc { return h.ResetExcluded },
			wantStatus: http.StatusOK,
			check: func(t *testing.T, v model.SessionView) {
				if len(v.ExcludedStocks) != 0 {
					t.Errorf("Expected no exclusions, got %v", v.ExcludedStocks)
				}
			},
		},
		{
			name:       "select snapshot",
			method:     http.MethodPut,
			suffix:     "/snapshot",
			body:       map[string]any{"date": "2026-02-10", "index": 1},
			call:       func(h *PaperTradingHandler) http.HandlerFunc { return h.SelectSnapshot },
			wantStatus: http.StatusOK,
			check: func(t *testing.T, v model.SessionView) {
				if v.SnapshotIndexes["2026-02-10"] != 1 || v.Summary.TotalInvested != 3550 {
					t.Errorf("Expected snapshot 1 applied, got %v invested %v", v.SnapshotIndexes, v.Summary.TotalInvested)
				}
			},
		},
		{
			name:       "select snapshot without index",
			method:     http.MethodPut,
			suffix:     "/snapshot",
			body:       map[string]any{"date": "2026-02-10"},
			call:       func(h *PaperTradingHandler) http.HandlerFunc { return h.SelectSnapshot },
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "select negative snapshot",
			method:     http.MethodPut,
			suffix:     "/snapshot",
			body:       map[string]any{"date": "2026-02-10", "index": -1},
			call:       func(h *PaperTradingHandler) http.HandlerFunc { return h.SelectSnapshot },
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			handler, _ := setupPaperTradingHandler(t)
			view := createSession(t, handler)

			w := httptest.NewRecorder()
			tc.call(handler)(w, sessionRequest(t, tc.method, view.ID, tc.suffix, tc.body))

			if w.Code != tc.wantStatus {
				t.Fatalf("Expected %d, got %d: %s", tc.wantStatus, w.Code, w.Body.String())
			}
			if tc.check != nil {
				tc.check(t, testutil.DecodeJSON[model.SessionView](t, w))
			}
		})
	}

	t.Run("unknown session", func(t *testing.T) {
		handler, _ := setupPaperTradingHandler(t)

		w := httptest.NewRecorder()
		handler.ToggleStock(w, sessionRequest(t, http.MethodPost, testutil.MakeID(), "/stocks/toggle", map[string]string{"date": "2026-02-10", "code": "A"}))

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d: %s", w.Code, w.Body.String())
		}
	})
}
