package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// generateConfigDocs generates the configuration reference page.
func generateConfigDocs(outDir string) error {
	log.Printf("Generating config docs to %s", outDir)

	// Create output directory
	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := generateConfigurationDoc(outDir); err != nil {
		return fmt.Errorf("failed to generate index.md: %w", err)
	}
	log.Printf("  Generated index.md")

	return nil
}

// ConfigField represents a configuration field definition.
type ConfigField struct {
	Name        string
	Type        string
	Default     string
	Description string
	Category    string // "workspace", "schema", "cache", "server", "output"
}

// getConfigSchema returns the configuration schema definition.
// This is based on internal/cli/config/types.go Config.
func getConfigSchema() []ConfigField {
	return []ConfigField{
		// Workspace connection
		{Name: "workspace_id", Type: "string", Description: "Workspace to fetch the schema from", Category: "workspace"},
		{Name: "api_url", Type: "string", Default: "https://api.loganalytics.io/v1", Description: "Base URL of the workspace API", Category: "workspace"},
		{Name: "token", Type: "string", Description: "Bearer token for the workspace API", Category: "workspace"},

		// Local schema file
		{Name: "schema_file", Type: "string", Description: "Schema file (YAML or JSON); takes precedence over the workspace", Category: "schema"},

		// Snapshot cache
		{Name: "cache_path", Type: "string", Default: "~/.kqlens/cache.db", Description: "SQLite file holding cached schema snapshots", Category: "cache"},
		{Name: "cache_ttl", Type: "duration", Default: "24h", Description: "How long a snapshot counts as fresh", Category: "cache"},

		// Suggestion server
		{Name: "listen", Type: "string", Default: "127.0.0.1:8456", Description: "Listen address for kqlens serve", Category: "server"},

		// Output settings
		{Name: "output", Type: "string", Default: "auto", Description: "Output format: auto, text, markdown, json", Category: "output"},
		{Name: "log_level", Type: "string", Default: "info", Description: "Log level: debug, info, warn, error", Category: "output"},
		{Name: "verbose", Type: "bool", Default: "false", Description: "Report the config file in use and other details", Category: "output"},
	}
}

// configCategories fixes the section order and titles for the field tables.
var configCategories = []struct {
	Category string
	Title    string
	Intro    string
}{
	{"workspace", "Workspace", "How to reach the workspace API that serves the live schema:"},
	{"schema", "Schema File", "A local schema file replaces the workspace as the schema source:"},
	{"cache", "Snapshot Cache", "Fetched schemas are cached so suggestions keep working offline:"},
	{"server", "Suggestion Server", "Settings for `kqlens serve`:"},
	{"output", "Output", "Rendering and logging:"},
}

// generateConfigurationDoc generates the configuration reference page.
func generateConfigurationDoc(outDir string) error {
	w := NewMarkdownWriter()

	// Frontmatter
	w.Frontmatter("Configuration", "kqlens configuration reference")
	w.GeneratedMarker()

	// Title and intro
	w.Header(1, "Configuration")
	w.Paragraph("kqlens reads settings from a YAML config file, `KQLENS_*` environment variables, and command-line flags. Every field below can also be set as an environment variable (upper snake case with the `KQLENS_` prefix) or as a flag (kebab case).")

	// Config file lookup
	w.Header(2, "Config File")
	w.Paragraph("Unless `--config` names a file explicitly, kqlens looks for:")
	w.BulletList([]string{
		InlineCode("kqlens.yaml") + " in the current directory",
		InlineCode("kqlens.yml") + " in the current directory",
		InlineCode("~/.kqlens/config.yaml"),
	})

	// Field tables, one section per category
	fields := getConfigSchema()
	headers := []string{"Field", "Type", "Default", "Description"}
	for _, cat := range configCategories {
		var rows [][]string
		for _, f := range fields {
			if f.Category != cat.Category {
				continue
			}
			defVal := f.Default
			if defVal == "" {
				defVal = "-"
			}
			rows = append(rows, []string{
				InlineCode(f.Name),
				f.Type,
				InlineCode(defVal),
				f.Description,
			})
		}
		w.Header(2, cat.Title)
		w.Paragraph(cat.Intro)
		w.Table(headers, rows)
	}

	// Full example
	w.Header(2, "Example")
	w.CodeBlock("yaml", `workspace_id: 11111111-2222-3333-4444-555555555555
api_url: https://api.loganalytics.io/v1
token: ${KQLENS_TOKEN}

cache_path: ~/.kqlens/cache.db
cache_ttl: 24h

listen: 127.0.0.1:8456
output: auto
log_level: info`)

	// Precedence
	w.Header(2, "Precedence")
	w.Paragraph("Highest to lowest:")
	w.BulletList([]string{
		"Command-line flags",
		"Environment variables (" + InlineCode("KQLENS_*") + ")",
		"Config file",
		"Built-in defaults",
	})

	// Write file
	filename := filepath.Join(outDir, "index.md")
	return os.WriteFile(filename, w.Bytes(), 0600)
}
