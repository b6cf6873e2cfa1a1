// Package common provides shared utilities for the thermogo tools.
package common

import (
	"os"
	"path/filepath"
)

// Config holds common configuration for all applications.
type Config struct {
	ArchivePath        string
	ArchiveURL         string
	ArchiveVersion     string
	ArchiveRevision    string
	ClickHouseHost     string
	ClickHouseDatabase string
	ClickHouseUser     string
	ClickHousePassword string
	LogLevel           string
}

// DefaultConfig returns configuration with sensible defaults.
// THERMOML_PATH defaults to ~/.thermoml.
func DefaultConfig() *Config {
	return &Config{
		ArchivePath:        getEnv("THERMOML_PATH", defaultArchivePath()),
		ArchiveURL:         os.Getenv("THERMOML_ARCHIVE_URL"),
		ArchiveVersion:     os.Getenv("THERMOML_ARCHIVE_VERSION"),
		ArchiveRevision:    os.Getenv("THERMOML_ARCHIVE_REVISION_DATE"),
		ClickHouseHost:     getEnv("CLICKHOUSE_HOST", "127.0.0.1:9000"),
		ClickHouseDatabase: getEnv("CLICKHOUSE_DATABASE", "thermoml"),
		ClickHouseUser:     getEnv("CLICKHOUSE_USER", "default"),
		ClickHousePassword: getEnv("CLICKHOUSE_PASSWORD", ""),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
	}
}

// CatalogPath returns the location of the mirror catalog database.
func (c *Config) CatalogPath() string {
	return filepath.Join(c.ArchivePath, "catalog.db")
}

// ArchiveInfoPath returns the location of the archive metadata file.
func (c *Config) ArchiveInfoPath() string {
	return filepath.Join(c.ArchivePath, "archive_info.json")
}

func defaultArchivePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".thermoml"
	}
	return filepath.Join(home, ".thermoml")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
