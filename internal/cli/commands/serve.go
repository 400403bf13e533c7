package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/loglens-labs/kqlens/internal/api"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	Listen string
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the suggestion HTTP server",
		Long: `Serve suggestions, query templates, and schema metadata over HTTP.

Endpoints:
  POST /api/v1/suggest         {"text": "..."} -> completion candidates
  GET  /api/v1/templates       query template catalog
  GET  /api/v1/schema          currently loaded schema
  POST /api/v1/schema/refresh  reload the schema from its source
  GET  /healthz                liveness and schema state

When a schema file is configured the server watches it and reloads the
schema on every change, so editors talking to the server pick up new
tables without a restart.`,
		Example: `  # Serve on the default address
  kqlens serve

  # Serve a local schema file with hot reload
  kqlens serve --schema-file ./schema.yaml --listen :9000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Listen, "listen", "", "Address to listen on (host:port)")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cmdCtx, cleanup := NewCommandContext(cmd)
	defer cleanup()

	// Flag overrides config
	addr := cmdCtx.Cfg.Listen
	if opts.Listen != "" {
		addr = opts.Listen
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverCfg := api.Config{
		Engine:     cmdCtx.Engine,
		SchemaFile: cmdCtx.Cfg.SchemaFile,
		Addr:       addr,
		Logger:     cmdCtx.Logger,
	}
	if cmdCtx.Cfg.SchemaFile != "" || cmdCtx.Cfg.HasWorkspace() {
		serverCfg.Refresh = func(ctx context.Context, force bool) (string, error) {
			source, err := cmdCtx.LoadSchema(ctx, force)
			return string(source), err
		}
	}

	// The server still serves keyword and template suggestions without a
	// schema, so a failed initial load is not fatal.
	if serverCfg.Refresh != nil {
		if source, err := serverCfg.Refresh(ctx, false); err != nil {
			cmdCtx.Logger.Warn("starting without schema", "error", err)
		} else {
			cmdCtx.Logger.Info("schema loaded", "source", source)
		}
	} else {
		cmdCtx.Logger.Warn("no schema source configured; serving keyword suggestions only")
	}

	server := api.NewServer(serverCfg)
	return server.Serve(ctx)
}
