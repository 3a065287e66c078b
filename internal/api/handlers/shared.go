package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/ndewijer/Paper-Trading-Backend/internal/api/response"
	"github.com/ndewijer/Paper-Trading-Backend/internal/apperrors"
)

// maxBodyBytes bounds a decoded request body.
const maxBodyBytes = 1 << 20

// parseJSON decodes the request body into T. Unknown fields and trailing data are rejected.
func parseJSON[T any](r *http.Request) (T, error) {
	var v T
	if r.Body == nil {
		return v, apperrors.ErrInvalidRequestBody
	}

	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return v, fmt.Errorf("%w: %w", apperrors.ErrInvalidRequestBody, err)
	}
	if dec.More() {
		return v, fmt.Errorf("%w: unexpected data after JSON value", apperrors.ErrInvalidRequestBody)
	}
	return v, nil
}

// respondServiceError maps a service error to its HTTP status. Errors without a mapping
// are reported as 500 with fallback as the message.
func respondServiceError(w http.ResponseWriter, err error, fallback error) {
	switch {
	case errors.Is(err, apperrors.ErrSessionNotFound):
		response.RespondError(w, http.StatusNotFound, apperrors.ErrSessionNotFound.Error(), err.Error())
	case errors.Is(err, apperrors.ErrDayNotFound):
		response.RespondError(w, http.StatusNotFound, apperrors.ErrDayNotFound.Error(), err.Error())
	case errors.Is(err, apperrors.ErrCatalogUnavailable):
		response.RespondError(w, http.StatusServiceUnavailable, apperrors.ErrCatalogUnavailable.Error(), err.Error())
	case errors.Is(err, apperrors.ErrFailedToRefreshCatalog):
		response.RespondError(w, http.StatusBadGateway, apperrors.ErrFailedToRefreshCatalog.Error(), err.Error())
	default:
		response.RespondError(w, http.StatusInternalServerError, fallback.Error(), err.Error())
	}
}
