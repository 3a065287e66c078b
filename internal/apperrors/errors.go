package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrSessionNotFound indicates that a selection session with the given ID does not exist,
	// either because it was never created or because a catalog reload discarded it.
	ErrSessionNotFound = errors.New("session not found")

	// ErrDayNotFound indicates that the catalog has no dataset for the requested date.
	ErrDayNotFound = errors.New("day not found")

	// ErrCatalogNotCached indicates that the local cache holds no catalog yet.
	ErrCatalogNotCached = errors.New("catalog not cached")
)

// Business logic errors represent validation failures or constraint violations.
var (
	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	// ErrEmptyID indicates that a required ID parameter is empty or missing.
	ErrEmptyID = errors.New("ID cannot be empty")

	// ErrInvalidDate indicates that a date is missing or not in YYYY-MM-DD format.
	ErrInvalidDate = errors.New("date must be in YYYY-MM-DD format")

	// ErrInvalidSnapshotIndex indicates that a snapshot index is not a non-negative integer.
	ErrInvalidSnapshotIndex = errors.New("snapshot index must be a non-negative integer")

	// ErrInvalidStockCode indicates that a stock code is empty.
	ErrInvalidStockCode = errors.New("stock code is required")

	// ErrInvalidRequestBody indicates that a JSON request body could not be decoded.
	ErrInvalidRequestBody = errors.New("invalid request body")
)

// Operation failure errors represent system-level failures when retrieving or processing data.
var (
	// ErrCatalogUnavailable indicates that no catalog generation has been loaded yet.
	ErrCatalogUnavailable = errors.New("catalog not loaded")

	// Catalog operation errors
	ErrFailedToLoadCatalog    = errors.New("failed to load catalog")
	ErrFailedToRefreshCatalog = errors.New("failed to refresh catalog")
	ErrFailedToCacheCatalog   = errors.New("failed to cache catalog")

	// Session operation errors
	ErrFailedToUpdateSession = errors.New("failed to update session")

	// System operation errors
	ErrFailedToGetVersionInfo = errors.New("failed to get version information")
)

// Data integrity errors represent inconsistencies or corruption in the data.
var (
	// ErrMissingRequiredField indicates that a required field is missing or empty.
	ErrMissingRequiredField = errors.New("missing required field")
)
