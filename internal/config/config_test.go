package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// isolate points HOME and the working directory at an empty temp dir so that
// no developer .env file leaks into the test.
func isolate(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	wd, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(wd) })
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("Chdir failed: %v", err)
	}
	t.Setenv("HOME", tmpDir)
	for _, key := range []string{"API_URL", "PROFILE", "SESSION_PATH", "DATABASE_PATH", "LOG_FILE",
		"LOG_LEVEL", "REQUEST_TIMEOUT", "LOGS_PAGE_SIZE", "STATS_HISTORY_LIMIT", "STATS_REFRESH_INTERVAL"} {
		old, had := os.LookupEnv(key)
		os.Unsetenv(key)
		t.Cleanup(func() {
			if had {
				os.Setenv(key, old)
			} else {
				os.Unsetenv(key)
			}
		})
	}
	return tmpDir
}

func TestGetEnvString(t *testing.T) {
	key := "TEST_ENV_STRING"
	val := "test_value"
	os.Setenv(key, val)
	defer os.Unsetenv(key)

	if got := getEnvString(key, "default"); got != val {
		t.Errorf("getEnvString() = %q, want %q", got, val)
	}

	if got := getEnvString("NON_EXISTENT", "default"); got != "default" {
		t.Errorf("getEnvString() = %q, want %q", got, "default")
	}
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_ENV_INT"

	tests := []struct {
		name   string
		envVal string
		want   int
	}{
		{"Valid", "50", 50},
		{"Invalid", "fifty", 20},
		{"Empty", "", 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(key, tt.envVal)
			if got := getEnvInt(key, 20); got != tt.want {
				t.Errorf("getEnvInt() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGetEnvDuration(t *testing.T) {
	key := "TEST_ENV_DURATION"

	tests := []struct {
		name       string
		envVal     string
		defaultVal time.Duration
		want       time.Duration
	}{
		{"ValidDuration", "1m", time.Second, time.Minute},
		{"ValidSeconds", "60", time.Second, 60 * time.Second},
		{"Invalid", "invalid", time.Second, time.Second},
		{"Empty", "", time.Second, time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envVal != "" {
				os.Setenv(key, tt.envVal)
				defer os.Unsetenv(key)
			} else {
				os.Unsetenv(key)
			}

			if got := getEnvDuration(key, tt.defaultVal); got != tt.want {
				t.Errorf("getEnvDuration() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEnsureDir(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", "dir")

	if err := ensureDir(path); err != nil {
		t.Fatalf("ensureDir() failed: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("directory was not created")
	}

	if err := ensureDir(""); err != nil {
		t.Error("ensureDir(\"\") should not error")
	}
}

func TestGetEnvPaths(t *testing.T) {
	paths := getEnvPaths()
	if len(paths) == 0 {
		t.Fatal("getEnvPaths() returned empty list")
	}

	cwd, _ := os.Getwd()
	if paths[0] != filepath.Join(cwd, ".env") {
		t.Errorf("first path = %q, want current directory .env", paths[0])
	}
}

func TestLoad_Defaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.APIURL != defaultAPIURL {
		t.Errorf("APIURL = %q, want %q", cfg.APIURL, defaultAPIURL)
	}
	if cfg.Profile != defaultProfile {
		t.Errorf("Profile = %q, want %q", cfg.Profile, defaultProfile)
	}
	if cfg.LogsPageSize != 20 {
		t.Errorf("LogsPageSize = %d, want 20", cfg.LogsPageSize)
	}
	if cfg.RequestTimeout != 0 {
		t.Errorf("RequestTimeout = %v, want 0", cfg.RequestTimeout)
	}
	wantSession := filepath.Join(home, ".config", appDirName, "session.json")
	if cfg.SessionPath != wantSession {
		t.Errorf("SessionPath = %q, want %q", cfg.SessionPath, wantSession)
	}
	if _, err := os.Stat(filepath.Dir(wantSession)); err != nil {
		t.Errorf("config dir not created: %v", err)
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	tmpDir := isolate(t)
	t.Setenv("API_URL", "https://admin.example.com/")
	t.Setenv("PROFILE", "staging")
	t.Setenv("DATABASE_PATH", filepath.Join(tmpDir, "db", "history.db"))
	t.Setenv("REQUEST_TIMEOUT", "15")
	t.Setenv("LOGS_PAGE_SIZE", "50")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.APIURL != "https://admin.example.com" {
		t.Errorf("APIURL = %q, trailing slash should be trimmed", cfg.APIURL)
	}
	if cfg.Profile != "staging" {
		t.Errorf("Profile = %q, want staging", cfg.Profile)
	}
	if cfg.RequestTimeout != 15*time.Second {
		t.Errorf("RequestTimeout = %v, want 15s", cfg.RequestTimeout)
	}
	if cfg.LogsPageSize != 50 {
		t.Errorf("LogsPageSize = %d, want 50", cfg.LogsPageSize)
	}
	if _, err := os.Stat(filepath.Join(tmpDir, "db")); err != nil {
		t.Errorf("database dir not created: %v", err)
	}
}

func TestLoad_WithEnvFile(t *testing.T) {
	tmpDir := isolate(t)
	envPath := filepath.Join(tmpDir, ".env")
	content := "API_URL=http://gateway.internal:9000\nPROFILE=from-file"
	if err := os.WriteFile(envPath, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.APIURL != "http://gateway.internal:9000" {
		t.Errorf("APIURL = %q, want value from .env", cfg.APIURL)
	}
	if cfg.Profile != "from-file" {
		t.Errorf("Profile = %q, want from-file", cfg.Profile)
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{APIURL: "http://localhost:8091", Profile: "default", LogsPageSize: 20, StatsHistoryLimit: 10}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"Valid", func(c *Config) {}, false},
		{"RelativeURL", func(c *Config) { c.APIURL = "/api" }, true},
		{"BadScheme", func(c *Config) { c.APIURL = "ftp://host" }, true},
		{"EmptyProfile", func(c *Config) { c.Profile = "" }, true},
		{"ZeroPageSize", func(c *Config) { c.LogsPageSize = 0 }, true},
		{"ZeroHistory", func(c *Config) { c.StatsHistoryLimit = 0 }, true},
		{"NegativeTimeout", func(c *Config) { c.RequestTimeout = -time.Second }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			if err := c.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
