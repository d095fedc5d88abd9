// Package config loads settings from .env files and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"

	"github.com/sdpower/ahelpstats/internal/types"
)

// Config holds the application configuration.
type Config struct {
	DataFolder             string
	ExcelFilename          string
	DatabasePath           string
	Timezone               *time.Location
	ModeratorKeywords      []string
	MonitorRefreshInterval time.Duration
	TopAdmins              int
}

const (
	defaultDataFolder             = "data"
	defaultExcelFilename          = "ahelp_stats.xlsx"
	defaultTimezone               = "UTC"
	defaultModeratorKeywords      = "модератор,гейм-мастер,moderator,game master"
	defaultMonitorRefreshInterval = 30 * time.Second
	defaultTopAdmins              = 10
)

// Load reads configuration from the first .env file found and then the
// environment. Variables already set in the environment win over the file.
func Load() (*Config, error) {
	for _, path := range getEnvPaths() {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	tzName := getEnvString("STATS_TIMEZONE", defaultTimezone)
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("%w: STATS_TIMEZONE %q: %v", types.ErrInvalidConfig, tzName, err)
	}

	cfg := &Config{
		DataFolder:             getEnvString("DATA_FOLDER", defaultDataFolder),
		ExcelFilename:          getEnvString("EXCEL_FILENAME", defaultExcelFilename),
		DatabasePath:           getEnvString("DATABASE_PATH", ""),
		Timezone:               loc,
		ModeratorKeywords:      getEnvList("MODERATOR_ROLE_KEYWORDS", defaultModeratorKeywords),
		MonitorRefreshInterval: getEnvDuration("MONITOR_REFRESH_INTERVAL", defaultMonitorRefreshInterval),
		TopAdmins:              getEnvInt("TOP_ADMINS", defaultTopAdmins),
	}

	if cfg.TopAdmins <= 0 {
		return nil, fmt.Errorf("%w: TOP_ADMINS must be positive", types.ErrInvalidConfig)
	}

	return cfg, nil
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "ahelpstats", ".env"))
	}

	return paths
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns the default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return n
		}
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns the default.
// Accepts values like "30s", "1m", or a bare number of seconds.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

// getEnvList splits a comma separated variable, dropping empty items.
func getEnvList(key, defaultValue string) []string {
	var items []string
	for _, item := range strings.Split(getEnvString(key, defaultValue), ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
