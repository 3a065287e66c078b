package service

import (
	"database/sql"
	"fmt"

	"github.com/ndewijer/Paper-Trading-Backend/internal/database"
	"github.com/ndewijer/Paper-Trading-Backend/internal/model"
	"github.com/ndewijer/Paper-Trading-Backend/internal/version"
)

// SystemService handles system-related operations
type SystemService struct {
	db *sql.DB
}

// NewSystemService creates a new SystemService
func NewSystemService(db *sql.DB) *SystemService {
	return &SystemService{
		db: db,
	}
}

// CheckHealth checks the health of the system
func (s *SystemService) CheckHealth() error {
	return database.HealthCheck(s.db)
}

// CheckVersion reports the application version and the schema version of the cache database.
func (s *SystemService) CheckVersion() (model.VersionInfo, error) {
	dbVersion, err := database.Version(s.db)
	if err != nil {
		return model.VersionInfo{}, fmt.Errorf("failed to read database version: %w", err)
	}

	return model.VersionInfo{
		AppVersion: version.Version,
		DbVersion:  dbVersion,
		Features: map[string]bool{
			"paper_trading":   true,
			"selection_state": true,
			"catalog_cache":   true,
			"snapshot_rebase": true,
		},
		MigrationNeeded: false,
	}, nil
}
