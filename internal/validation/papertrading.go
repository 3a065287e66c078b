package validation

import (
	"fmt"

	"github.com/ndewijer/Paper-Trading-Backend/internal/api/request"
	"github.com/ndewijer/Paper-Trading-Backend/internal/apperrors"
)

func ValidateToggleDate(req request.ToggleDateRequest) error {
	errors := make(map[string]string)

	if err := ValidateDate(req.Date); err != nil {
		errors["date"] = err.Error()
	}

	return result(errors)
}

func ValidateToggleStock(req request.ToggleStockRequest) error {
	errors := make(map[string]string)

	if err := ValidateDate(req.Date); err != nil {
		errors["date"] = err.Error()
	}
	if err := ValidateStockCode(req.Code); err != nil {
		errors["code"] = err.Error()
	}

	return result(errors)
}

func ValidateToggleAllStocks(req request.ToggleAllStocksRequest) error {
	errors := make(map[string]string)

	if err := ValidateDate(req.Date); err != nil {
		errors["date"] = err.Error()
	}

	return result(errors)
}

func ValidateSelectSnapshot(req request.SelectSnapshotRequest) error {
	errors := make(map[string]string)

	if err := ValidateDate(req.Date); err != nil {
		errors["date"] = err.Error()
	}
	if req.Index == nil {
		errors["index"] = apperrors.ErrMissingRequiredField.Error()
	} else if err := ValidateSnapshotIndex(*req.Index); err != nil {
		errors["index"] = err.Error()
	}

	return result(errors)
}

// ValidateSummary checks every date, exclusion and snapshot of a client-held selection.
func ValidateSummary(req request.SummaryRequest) error {
	errors := make(map[string]string)

	for i, date := range req.Dates {
		if err := ValidateDate(date); err != nil {
			errors[fmt.Sprintf("dates[%d]", i)] = err.Error()
		}
	}
	for i, key := range req.Excluded {
		if err := ValidateDate(key.Date); err != nil {
			errors[fmt.Sprintf("excluded[%d].date", i)] = err.Error()
		}
		if err := ValidateStockCode(key.Code); err != nil {
			errors[fmt.Sprintf("excluded[%d].code", i)] = err.Error()
		}
	}
	for date, index := range req.Snapshots {
		key := fmt.Sprintf("snapshots[%s]", date)
		if err := ValidateDate(date); err != nil {
			errors[key] = err.Error()
		} else if err := ValidateSnapshotIndex(index); err != nil {
			errors[key] = err.Error()
		}
	}

	return result(errors)
}
