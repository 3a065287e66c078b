package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ndewijer/Paper-Trading-Backend/internal/apperrors"
)

// DateLayout is the trading-day key format.
const DateLayout = "2006-01-02"

// ValidateUUID checks if a string is a valid UUID
func ValidateUUID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s", apperrors.ErrInvalidUUID, id)
	}
	return nil
}

// ValidateDate checks that date is a calendar day in YYYY-MM-DD format.
func ValidateDate(date string) error {
	if len(date) != len(DateLayout) {
		return fmt.Errorf("%w: %q", apperrors.ErrInvalidDate, date)
	}
	if _, err := time.Parse(DateLayout, date); err != nil {
		return fmt.Errorf("%w: %q", apperrors.ErrInvalidDate, date)
	}
	return nil
}

// ValidateSnapshotIndex rejects negative indices. Indices beyond a day's snapshots are
// valid and select the published buy prices.
func ValidateSnapshotIndex(index int) error {
	if index < 0 {
		return fmt.Errorf("%w: %d", apperrors.ErrInvalidSnapshotIndex, index)
	}
	return nil
}

// ValidateStockCode checks that a stock code is not blank.
func ValidateStockCode(code string) error {
	if strings.TrimSpace(code) == "" {
		return apperrors.ErrInvalidStockCode
	}
	return nil
}
