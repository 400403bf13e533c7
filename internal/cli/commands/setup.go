package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/loglens-labs/kqlens/internal/cache"
	"github.com/loglens-labs/kqlens/internal/cli/config"
	"github.com/loglens-labs/kqlens/internal/cli/output"
	"github.com/loglens-labs/kqlens/internal/workspace"
	"github.com/loglens-labs/kqlens/pkg/kql"
)

// SchemaSource reports where LoadSchema found the schema it installed.
type SchemaSource string

// Schema sources.
const (
	SourceNone      SchemaSource = "none"
	SourceFile      SchemaSource = "file"
	SourceCache     SchemaSource = "cache"
	SourceWorkspace SchemaSource = "workspace"
	SourceStale     SchemaSource = "stale cache"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Engine   *kql.Engine
	Cache    *cache.Store
	Fetcher  kql.SchemaFetcher
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with engine, schema cache and
// renderer. Returns the context and a cleanup function that must be called
// (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func()) {
	cmdCtx := NewCommandContextWithoutEngine(cmd)

	store := cache.NewStore()
	if err := store.Open(cmdCtx.Cfg.CachePath); err != nil {
		// The cache only keeps suggestions working offline; commands run
		// fine without it.
		cmdCtx.Logger.Warn("schema cache unavailable", "path", cmdCtx.Cfg.CachePath, "error", err)
		store = nil
	} else if err := store.Migrate(); err != nil {
		cmdCtx.Logger.Warn("schema cache migration failed", "path", cmdCtx.Cfg.CachePath, "error", err)
		_ = store.Close()
		store = nil
	}

	cmdCtx.Cache = store
	cmdCtx.Fetcher = workspace.NewClient()
	cmdCtx.Engine = kql.NewEngine(kql.NewRegistry(cmdCtx.Fetcher))

	cleanup := func() {
		if store != nil {
			_ = store.Close()
		}
	}

	return cmdCtx, cleanup
}

// NewCommandContextWithoutEngine creates a CommandContext without an engine
// or cache. Useful for commands that never touch the schema.
func NewCommandContextWithoutEngine(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// LoadSchema installs a schema into the engine's registry and reports where
// it came from. A configured schema file wins outright. Otherwise a fresh
// cache snapshot is used unless force is set; then the workspace API is
// fetched and the result cached, with a stale snapshot as the fallback when
// the fetch fails.
func (c *CommandContext) LoadSchema(ctx context.Context, force bool) (SchemaSource, error) {
	if c.Cfg.SchemaFile != "" {
		schema, err := workspace.LoadSchemaFile(c.Cfg.SchemaFile)
		if err != nil {
			return SourceNone, err
		}
		c.Engine.Registry().Replace(schema)
		c.Logger.Debug("schema loaded from file", "path", c.Cfg.SchemaFile, "tables", len(schema.Tables))
		return SourceFile, nil
	}

	if !c.Cfg.HasWorkspace() {
		return SourceNone, nil
	}

	var cached *cache.Snapshot
	if c.Cache != nil {
		snap, err := c.Cache.Latest(c.Cfg.WorkspaceID)
		switch {
		case err == nil:
			cached = snap
		case !errors.Is(err, cache.ErrNoSnapshot):
			c.Logger.Warn("schema cache read failed", "error", err)
		}
	}

	if !force && cached != nil && cached.Age() <= c.Cfg.CacheTTL {
		c.Engine.Registry().Replace(cached.Schema)
		c.Logger.Debug("schema warmed from cache",
			"workspace", c.Cfg.WorkspaceID,
			"age", cached.Age().Round(time.Second))
		return SourceCache, nil
	}

	if c.Fetcher == nil {
		return SourceNone, errors.New("no workspace client configured")
	}

	schema, err := c.Fetcher.FetchSchema(ctx, c.Cfg.WorkspaceID, c.Cfg.APIURL, c.Cfg.Token)
	if err == nil {
		c.Engine.Registry().Replace(schema)
		if c.Cache != nil {
			if _, saveErr := c.Cache.Save(c.Cfg.WorkspaceID, schema); saveErr != nil {
				c.Logger.Warn("failed to cache schema", "error", saveErr)
			}
		}
		c.Logger.Debug("schema fetched", "workspace", c.Cfg.WorkspaceID, "tables", len(schema.Tables))
		return SourceWorkspace, nil
	}

	if cached != nil {
		c.Engine.Registry().Replace(cached.Schema)
		c.Logger.Warn("schema fetch failed, using cached snapshot",
			"age", cached.Age().Round(time.Second),
			"error", err)
		return SourceStale, nil
	}

	return SourceNone, fmt.Errorf("failed to fetch workspace schema: %w", err)
}

// Helper functions shared across commands

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back to
// environment variables.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	return &config.Config{
		WorkspaceID:  os.Getenv("KQLENS_WORKSPACE_ID"),
		APIURL:       getEnvOrDefault("KQLENS_API_URL", config.DefaultAPIURL),
		Token:        os.Getenv("KQLENS_TOKEN"),
		SchemaFile:   os.Getenv("KQLENS_SCHEMA_FILE"),
		CachePath:    getEnvOrDefault("KQLENS_CACHE_PATH", config.DefaultCachePath()),
		CacheTTL:     config.DefaultCacheTTL,
		Listen:       getEnvOrDefault("KQLENS_LISTEN", config.DefaultListen),
		Verbose:      os.Getenv("KQLENS_VERBOSE") == "true",
		OutputFormat: getEnvOrDefault("KQLENS_OUTPUT", config.DefaultOutput),
		LogLevel:     getEnvOrDefault("KQLENS_LOG_LEVEL", config.DefaultLogLevel),
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
