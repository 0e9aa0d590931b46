// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// Config holds application configuration
type Config struct {
	DataDir         string `validate:"required"` // Base directory for databases, always absolute
	Port            int    `validate:"min=1,max=65535"`
	LogLevel        string `validate:"oneof=debug info warn warning error"`
	DevMode         bool
	Timezone        string `validate:"required"`
	TopK            int    `validate:"min=1"`
	MaxLookbackDays int    `validate:"min=1,max=366"`
	LabelLocale     string `validate:"oneof=en zh"`
	HolidayFile     string // optional YAML closure table merged over the builtin one
	ImportDir       string // optional directory scanned for snapshot exports
	ImportSchedule  string `validate:"required"`

	location *time.Location
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir := getEnv("LIMITUP_DATA_DIR", "./data")
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:         absDataDir,
		Port:            getEnvAsInt("LIMITUP_PORT", 8080),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		DevMode:         getEnvAsBool("DEV_MODE", false),
		Timezone:        getEnv("LIMITUP_TIMEZONE", "Asia/Shanghai"),
		TopK:            getEnvAsInt("LIMITUP_TOP_K", 5),
		MaxLookbackDays: getEnvAsInt("LIMITUP_MAX_LOOKBACK_DAYS", 30),
		LabelLocale:     getEnv("LIMITUP_LABEL_LOCALE", "en"),
		HolidayFile:     getEnv("LIMITUP_HOLIDAY_FILE", ""),
		ImportDir:       getEnv("LIMITUP_IMPORT_DIR", filepath.Join(absDataDir, "imports")),
		ImportSchedule:  getEnv("LIMITUP_IMPORT_SCHEDULE", "0 */10 * * * *"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints, the time zone and the import schedule
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	c.location = loc

	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := parser.Parse(c.ImportSchedule); err != nil {
		return fmt.Errorf("invalid import schedule %q: %w", c.ImportSchedule, err)
	}

	if c.HolidayFile != "" {
		if _, err := os.Stat(c.HolidayFile); err != nil {
			return fmt.Errorf("holiday file: %w", err)
		}
	}
	return nil
}

// Location returns the exchange time zone. Only valid after Validate.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

// DatabasePath returns the path of a named database inside DataDir
func (c *Config) DatabasePath(name string) string {
	return filepath.Join(c.DataDir, name+".db")
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
