package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/loglens-labs/kqlens/internal/cli/config"
	"github.com/loglens-labs/kqlens/internal/lsp"
	"github.com/loglens-labs/kqlens/internal/workspace"
	"github.com/loglens-labs/kqlens/pkg/kql"
)

// NewLSPCommand creates the lsp command.
func NewLSPCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the language server",
		Long: `Start the LSP server for editor integration.

The server communicates over stdin/stdout using JSON-RPC. Workspace
credentials come from the client's initializationOptions when present;
the local configuration fills whatever the client leaves out.`,
		Example: `  # Start the LSP server (usually launched by an editor)
  kqlens lsp`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLSP(cmd)
		},
	}
}

func runLSP(cmd *cobra.Command) error {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	engine := kql.NewEngine(kql.NewRegistry(workspace.NewClient()))
	server := lsp.NewServerWithLogger(os.Stdin, os.Stdout, engine, logger)
	server.ConfigureWorkspace(lsp.WorkspaceOptions{
		WorkspaceID: cfg.WorkspaceID,
		APIURL:      cfg.APIURL,
		Token:       cfg.Token,
		SchemaFile:  cfg.SchemaFile,
	})
	return server.Run()
}
