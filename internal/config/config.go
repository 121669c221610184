// Package config contains everything related to configuration
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	APIURL               string
	Profile              string
	SessionPath          string
	DatabasePath         string
	LogFile              string
	LogLevel             string
	RequestTimeout       time.Duration
	StatsRefreshInterval time.Duration
	LogsPageSize         int
	StatsHistoryLimit    int
}

// Default values
const (
	defaultAPIURL               = "http://localhost:8091"
	defaultProfile              = "default"
	defaultLogLevel             = "info"
	defaultLogsPageSize         = 20
	defaultStatsHistoryLimit    = 60
	defaultStatsRefreshInterval = time.Minute

	appDirName = "aiconsole"
)

// Load reads configuration from .env files and environment variables.
func Load() (*Config, error) {
	// First .env found wins; real environment variables still take precedence.
	for _, path := range getEnvPaths() {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	cfg := &Config{
		APIURL:               strings.TrimSuffix(getEnvString("API_URL", defaultAPIURL), "/"),
		Profile:              getEnvString("PROFILE", defaultProfile),
		SessionPath:          getEnvString("SESSION_PATH", defaultPath("session.json")),
		DatabasePath:         getEnvString("DATABASE_PATH", defaultPath("history.db")),
		LogFile:              getEnvString("LOG_FILE", defaultPath("aiconsole.log")),
		LogLevel:             getEnvString("LOG_LEVEL", defaultLogLevel),
		RequestTimeout:       getEnvDuration("REQUEST_TIMEOUT", 0),
		StatsRefreshInterval: getEnvDuration("STATS_REFRESH_INTERVAL", defaultStatsRefreshInterval),
		LogsPageSize:         getEnvInt("LOGS_PAGE_SIZE", defaultLogsPageSize),
		StatsHistoryLimit:    getEnvInt("STATS_HISTORY_LIMIT", defaultStatsHistoryLimit),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	for _, p := range []string{cfg.SessionPath, cfg.DatabasePath, cfg.LogFile} {
		if err := ensureDir(filepath.Dir(p)); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Validate checks the values that cannot be defaulted silently.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("API_URL %q is not an absolute URL", c.APIURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("API_URL scheme must be http or https, got %q", u.Scheme)
	}
	if c.Profile == "" {
		return fmt.Errorf("PROFILE must not be empty")
	}
	if c.LogsPageSize <= 0 {
		return fmt.Errorf("LOGS_PAGE_SIZE must be positive, got %d", c.LogsPageSize)
	}
	if c.StatsHistoryLimit <= 0 {
		return fmt.Errorf("STATS_HISTORY_LIMIT must be positive, got %d", c.StatsHistoryLimit)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must not be negative")
	}
	return nil
}

// ConfigDir returns the directory holding the session, database and log files
// unless they were overridden.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", appDirName)
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	// Current directory
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	// Home directory locations
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", appDirName, ".env"),
			filepath.Join(home, "."+appDirName, ".env"),
		)
	}

	// Parent directory (useful for development)
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(filepath.Dir(cwd), ".env"))
	}

	return paths
}

// defaultPath returns name inside the application config directory.
func defaultPath(name string) string {
	return filepath.Join(ConfigDir(), name)
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
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns the default.
// Accepts values like "30s", "1m", "500ms".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		// Try parsing as seconds if no unit specified
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

// ensureDir creates a directory and all parent directories if they don't exist.
func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o750)
}
