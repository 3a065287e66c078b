package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Catalog source kinds.
const (
	SourceHTTP = "http"
	SourceDir  = "dir"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	CORS     CORSConfig
	Catalog  CatalogConfig
	Session  SessionConfig
	Log      LogConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// CatalogConfig describes where the published paper-trading catalog lives and how it is refreshed.
type CatalogConfig struct {
	Source           string        // "http" or "dir"
	BaseURL          string        // Base URL of the published site for the http source
	Dir              string        // Root directory for the dir source and the CLI
	IndexPath        string        // Index location relative to the base
	DatasetPrefix    string        // Prefix joined with each index entry's filename
	FetchConcurrency int           // Maximum concurrent dataset fetches
	RequestTimeout   time.Duration // Per-request timeout of the http source
	RefreshSchedule  string        // Cron expression; "off" disables scheduled refresh
	RetentionDays    int           // Days kept by the publisher's prune
}

// SessionConfig holds Selection State session configuration
type SessionConfig struct {
	IdleTimeout time.Duration // Sessions idle for longer are discarded; 0 keeps them forever
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Pretty bool
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/paper_trading.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost")),
		},
		Catalog: CatalogConfig{
			Source:          getEnv("CATALOG_SOURCE", SourceHTTP),
			BaseURL:         strings.TrimRight(getEnv("CATALOG_BASE_URL", "http://localhost:8080"), "/"),
			Dir:             getEnv("CATALOG_DIR", "./data/catalog"),
			IndexPath:       getEnv("CATALOG_INDEX_PATH", "data/paper-trading-index.json"),
			DatasetPrefix:   getEnv("CATALOG_DATASET_PREFIX", "data/paper-trading/"),
			RefreshSchedule: getEnv("CATALOG_REFRESH_SCHEDULE", "*/10 * * * *"),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	var err error
	if config.Catalog.FetchConcurrency, err = getEnvInt("CATALOG_FETCH_CONCURRENCY", 8); err != nil {
		return nil, err
	}
	if config.Catalog.FetchConcurrency < 1 {
		return nil, fmt.Errorf("CATALOG_FETCH_CONCURRENCY must be at least 1, got %d", config.Catalog.FetchConcurrency)
	}
	if config.Catalog.RetentionDays, err = getEnvInt("CATALOG_RETENTION_DAYS", 30); err != nil {
		return nil, err
	}
	if config.Catalog.RequestTimeout, err = getEnvDuration("CATALOG_REQUEST_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if config.Session.IdleTimeout, err = getEnvDuration("SESSION_IDLE_TIMEOUT", 24*time.Hour); err != nil {
		return nil, err
	}
	if config.Log.Pretty, err = getEnvBool("LOG_PRETTY", false); err != nil {
		return nil, err
	}

	switch config.Catalog.Source {
	case SourceHTTP, SourceDir:
	default:
		return nil, fmt.Errorf("CATALOG_SOURCE must be %q or %q, got %q", SourceHTTP, SourceDir, config.Catalog.Source)
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return b, nil
}

// splitList splits a comma separated value, dropping blanks.
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
