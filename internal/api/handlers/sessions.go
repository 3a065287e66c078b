package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Paper-Trading-Backend/internal/api/response"
	"github.com/ndewijer/Paper-Trading-Backend/internal/apperrors"
	"github.com/ndewijer/Paper-Trading-Backend/internal/model"
	"github.com/ndewijer/Paper-Trading-Backend/internal/validation"
)

// CreateSession handles POST requests to start a selection session with every known day selected.
//
// Endpoint: POST /api/paper-trading/sessions
// Response: 201 Created with model.SessionView
// Error: 503 Service Unavailable if no catalog has been loaded
func (h *PaperTradingHandler) CreateSession(w http.ResponseWriter, _ *http.Request) {
	view, err := h.paperTradingService.CreateSession()
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToUpdateSession)
		return
	}

	response.RespondJSON(w, http.StatusCreated, view)
}

// GetSession handles GET requests for the derived view of a session.
//
// Endpoint: GET /api/paper-trading/sessions/{uuid}
// Response: 200 OK with model.SessionView
// Error: 400 Bad Request if the ID is invalid (validated by middleware)
// Error: 404 Not Found if the session does not exist
func (h *PaperTradingHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	view, err := h.paperTradingService.GetSession(chi.URLParam(r, "uuid"))
	respondView(w, view, err)
}

// DeleteSession handles DELETE requests to discard a session.
//
// Endpoint: DELETE /api/paper-trading/sessions/{uuid}
// Response: 204 No Content
// Error: 404 Not Found if the session does not exist
func (h *PaperTradingHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.paperTradingService.DeleteSession(chi.URLParam(r, "uuid")); err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToUpdateSession)
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}

// ToggleDate handles POST requests to select or deselect one day.
//
// Endpoint: POST /api/paper-trading/sessions/{uuid}/dates/toggle
// Request Body: ToggleDateRequest (date)
// Response: 200 OK with model.SessionView
// Error: 400 Bad Request if validation fails
// Error: 404 Not Found if the session or the day does not exist
func (h *PaperTradingHandler) ToggleDate(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeValid(w, r, validation.ValidateToggleDate)
	if !ok {
		return
	}

	view, err := h.paperTradingService.ToggleDate(chi.URLParam(r, "uuid"), req.Date)
	respondView(w, view, err)
}

// ToggleAllDates handles POST requests to clear the selection when every day is selected,
// and to select every day otherwise.
//
// Endpoint: POST /api/paper-trading/sessions/{uuid}/dates/toggle-all
// Response: 200 OK with model.SessionView
// Error: 404 Not Found if the session does not exist
func (h *PaperTradingHandler) ToggleAllDates(w http.ResponseWriter, r *http.Request) {
	view, err := h.paperTradingService.ToggleAllDates(chi.URLParam(r, "uuid"))
	respondView(w, view, err)
}

// ToggleStock handles POST requests to exclude or include one stock of a day.
//
// Endpoint: POST /api/paper-trading/sessions/{uuid}/stocks/toggle
// Request Body: ToggleStockRequest (date, code)
// Response: 200 OK with model.SessionView
// Error: 400 Bad Request if validation fails
// Error: 404 Not Found if the session or the day does not exist
func (h *PaperTradingHandler) ToggleStock(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeValid(w, r, validation.ValidateToggleStock)
	if !ok {
		return
	}

	view, err := h.paperTradingService.ToggleStock(chi.URLParam(r, "uuid"), req.Date, req.Code)
	respondView(w, view, err)
}

// ToggleAllStocks handles POST requests to include every stock of a day when all are
// excluded, and to exclude all of them otherwise.
//
// Endpoint: POST /api/paper-trading/sessions/{uuid}/stocks/toggle-all
// Request Body: ToggleAllStocksRequest (date)
// Response: 200 OK with model.SessionView
// Error: 400 Bad Request if validation fails
// Error: 404 Not Found if the session or the day does not exist
func (h *PaperTradingHandler) ToggleAllStocks(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeValid(w, r, validation.ValidateToggleAllStocks)
	if !ok {
		return
	}

	view, err := h.paperTradingService.ToggleAllStocks(chi.URLParam(r, "uuid"), req.Date)
	respondView(w, view, err)
}

// ResetExcluded handles DELETE requests to include every excluded stock again.
//
// Endpoint: DELETE /api/paper-trading/sessions/{uuid}/excluded
// Response: 200 OK with model.SessionView
// Error: 404 Not Found if the session does not exist
func (h *PaperTradingHandler) ResetExcluded(w http.ResponseWriter, r *http.Request) {
	view, err := h.paperTradingService.ResetExcluded(chi.URLParam(r, "uuid"))
	respondView(w, view, err)
}

// SelectSnapshot handles PUT requests to choose the buy-price snapshot of a day.
//
// Endpoint: PUT /api/paper-trading/sessions/{uuid}/snapshot
// Request Body: SelectSnapshotRequest (date, index)
// Response: 200 OK with model.SessionView
// Error: 400 Bad Request if validation fails
// Error: 404 Not Found if the session or the day does not exist
func (h *PaperTradingHandler) SelectSnapshot(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeValid(w, r, validation.ValidateSelectSnapshot)
	if !ok {
		return
	}

	view, err := h.paperTradingService.SelectSnapshot(chi.URLParam(r, "uuid"), req.Date, *req.Index)
	respondView(w, view, err)
}

func respondView(w http.ResponseWriter, view model.SessionView, err error) {
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToUpdateSession)
		return
	}

	response.RespondJSON(w, http.StatusOK, view)
}

// decodeValid parses and validates a request body, writing the 400 response itself
// when either step fails.
func decodeValid[T any](w http.ResponseWriter, r *http.Request, validate func(T) error) (T, bool) {
	req, err := parseJSON[T](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidRequestBody.Error(), err.Error())
		return req, false
	}

	if err := validate(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return req, false
	}
	return req, true
}
