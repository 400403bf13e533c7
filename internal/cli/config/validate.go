package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch c.OutputFormat {
	case "", "auto", "text", "markdown", "json":
	default:
		return fmt.Errorf("invalid output format %q (expected auto, text, markdown, or json)", c.OutputFormat)
	}

	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q (expected debug, info, warn, or error)", c.LogLevel)
	}

	if c.CacheTTL < 0 {
		return fmt.Errorf("cache_ttl must not be negative")
	}

	if c.APIURL != "" {
		u, err := url.Parse(c.APIURL)
		if err != nil {
			return fmt.Errorf("invalid api_url: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("invalid api_url %q: scheme must be http or https", c.APIURL)
		}
	}

	if c.Listen != "" {
		if _, _, err := net.SplitHostPort(c.Listen); err != nil {
			return fmt.Errorf("invalid listen address %q: %w", c.Listen, err)
		}
	}

	return nil
}

// ValidateSchemaFile checks that the configured schema file exists.
// Commands that read it call this; others can run without one.
func (c *Config) ValidateSchemaFile() error {
	if c.SchemaFile == "" {
		return nil
	}
	if _, err := os.Stat(c.SchemaFile); os.IsNotExist(err) {
		return fmt.Errorf("schema file does not exist: %s\nHint: Create the file or use --schema-file to specify a different path", c.SchemaFile)
	}
	return nil
}
