package model

import "time"

// VersionInfo contains version and feature information for the application.
type VersionInfo struct {
	AppVersion       string          `json:"app_version"`
	DbVersion        string          `json:"db_version"`
	Features         map[string]bool `json:"features"`
	MigrationNeeded  bool            `json:"migration_needed"`
	MigrationMessage *string         `json:"migration_message,omitempty"`
}

// CatalogStatus describes the catalog generation currently served.
type CatalogStatus struct {
	Generation     uint64     `json:"generation"`
	Source         string     `json:"source"`          // "remote", "cache" or "" before the first load
	UpdatedAt      string     `json:"updated_at"`      // Index updated_at as published
	LoadedAt       *time.Time `json:"loaded_at"`       // When the generation was loaded
	Days           int        `json:"days"`            // Entries in the index
	LoadedDays     int        `json:"loaded_days"`     // Datasets fetched successfully
	FailedDays     []string   `json:"failed_days"`     // Dates whose dataset could not be fetched
	ActiveSessions int        `json:"active_sessions"` // Selection sessions on this generation
	LastError      *string    `json:"last_error"`      // Most recent refresh failure, if any
	LastAttemptAt  *time.Time `json:"last_attempt_at"` // Most recent refresh attempt
}
