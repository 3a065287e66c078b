package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Paper-Trading-Backend/internal/api/request"
	"github.com/ndewijer/Paper-Trading-Backend/internal/api/response"
	"github.com/ndewijer/Paper-Trading-Backend/internal/apperrors"
	"github.com/ndewijer/Paper-Trading-Backend/internal/service"
	"github.com/ndewijer/Paper-Trading-Backend/internal/validation"
)

// PaperTradingHandler handles HTTP requests for the paper-trading catalog and its
// selection sessions. It parses requests and delegates to the PaperTradingService.
type PaperTradingHandler struct {
	paperTradingService *service.PaperTradingService
}

// NewPaperTradingHandler creates a new PaperTradingHandler with the provided service dependency.
func NewPaperTradingHandler(paperTradingService *service.PaperTradingService) *PaperTradingHandler {
	return &PaperTradingHandler{
		paperTradingService: paperTradingService,
	}
}

// Status handles GET requests for the state of the served catalog generation.
//
// Endpoint: GET /api/paper-trading/status
// Response: 200 OK with model.CatalogStatus
func (h *PaperTradingHandler) Status(w http.ResponseWriter, _ *http.Request) {
	response.RespondJSON(w, http.StatusOK, h.paperTradingService.Status())
}

// Index handles GET requests for the catalog index, newest day first.
//
// Endpoint: GET /api/paper-trading/index
// Response: 200 OK with model.CatalogIndex
// Error: 503 Service Unavailable if no catalog has been loaded
func (h *PaperTradingHandler) Index(w http.ResponseWriter, _ *http.Request) {
	index, err := h.paperTradingService.Index()
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToLoadCatalog)
		return
	}

	response.RespondJSON(w, http.StatusOK, index)
}

// Refresh handles POST requests to reload the catalog from its source. A successful
// reload discards every session.
//
// Endpoint: POST /api/paper-trading/refresh
// Response: 200 OK with model.CatalogStatus
// Error: 502 Bad Gateway if the catalog source failed; the previous catalog stays served
func (h *PaperTradingHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	status, err := h.paperTradingService.Refresh(r.Context())
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRefreshCatalog)
		return
	}

	response.RespondJSON(w, http.StatusOK, status)
}

// Day handles GET requests for one day recalculated against a price snapshot.
//
// Endpoint: GET /api/paper-trading/days/{date}?snapshot=N
// Response: 200 OK with model.DailyDataset
// Error: 400 Bad Request if the date or snapshot index is invalid
// Error: 404 Not Found if the day has no loaded dataset
// Error: 503 Service Unavailable if no catalog has been loaded
func (h *PaperTradingHandler) Day(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	if err := validation.ValidateDate(date); err != nil {
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidDate.Error(), err.Error())
		return
	}

	index, err := request.ParseSnapshotParam(r.URL.Query().Get("snapshot"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidSnapshotIndex.Error(), err.Error())
		return
	}

	day, err := h.paperTradingService.AdjustedDay(date, index)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToLoadCatalog)
		return
	}

	response.RespondJSON(w, http.StatusOK, day)
}

// Summary handles POST requests to aggregate a client-held selection without a session.
//
// Endpoint: POST /api/paper-trading/summary
// Request Body: SummaryRequest (dates, excluded, snapshots; all optional)
// Response: 200 OK with model.PortfolioSummary
// Error: 400 Bad Request if the body is invalid
// Error: 404 Not Found if a selected date is not in the index
// Error: 503 Service Unavailable if no catalog has been loaded
func (h *PaperTradingHandler) Summary(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeValid(w, r, validation.ValidateSummary)
	if !ok {
		return
	}

	summary, err := h.paperTradingService.Summarize(req.ToSelection())
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToLoadCatalog)
		return
	}

	response.RespondJSON(w, http.StatusOK, summary)
}
