package request

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ndewijer/Paper-Trading-Backend/internal/apperrors"
)

// ParseSnapshotParam parses the optional snapshot query parameter of a day request.
// An empty parameter selects snapshot 0, the published buy prices.
func ParseSnapshotParam(param string) (int, error) {
	param = strings.TrimSpace(param)
	if param == "" {
		return 0, nil
	}

	index, err := strconv.Atoi(param)
	if err != nil || index < 0 {
		return 0, fmt.Errorf("%w: %q", apperrors.ErrInvalidSnapshotIndex, param)
	}
	return index, nil
}
