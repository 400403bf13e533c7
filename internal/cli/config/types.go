// Package config provides configuration management for the kqlens CLI.
//
// Configuration is layered: built-in defaults, then a YAML config file,
// then KQLENS_* environment variables, then explicitly set command-line
// flags, each overriding the previous layer.
package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Config holds all CLI configuration options.
type Config struct {
	WorkspaceID  string        `koanf:"workspace_id"`
	APIURL       string        `koanf:"api_url"`
	Token        string        `koanf:"token"`
	SchemaFile   string        `koanf:"schema_file"`
	CachePath    string        `koanf:"cache_path"`
	CacheTTL     time.Duration `koanf:"cache_ttl"`
	Listen       string        `koanf:"listen"`
	Verbose      bool          `koanf:"verbose"`
	OutputFormat string        `koanf:"output"`
	LogLevel     string        `koanf:"log_level"`
}

// Default configuration values.
const (
	DefaultAPIURL   = "https://api.loganalytics.io/v1"
	DefaultCacheTTL = 24 * time.Hour
	DefaultListen   = "127.0.0.1:8456"
	DefaultOutput   = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultLogLevel = "info"
)

// DefaultCachePath returns the default schema cache location under the
// user's home directory.
func DefaultCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".kqlens", "cache.db")
	}
	return filepath.Join(home, ".kqlens", "cache.db")
}

// HasWorkspace reports whether remote workspace credentials are configured.
func (c *Config) HasWorkspace() bool {
	return c.WorkspaceID != "" && c.APIURL != ""
}

// Level maps the configured log level onto slog. Verbose forces debug.
func (c *Config) Level() slog.Level {
	if c.Verbose {
		return slog.LevelDebug
	}
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
