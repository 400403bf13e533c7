package commands

import (
	"errors"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/loglens-labs/kqlens/internal/cli/output"
	"github.com/loglens-labs/kqlens/pkg/kql"
)

// SchemaOptions holds options for the schema command family.
type SchemaOptions struct {
	Format  string // Output format: text, json, markdown
	Refresh bool
}

// NewSchemaCommand creates the schema command and its subcommands.
func NewSchemaCommand() *cobra.Command {
	opts := &SchemaOptions{}
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Show the workspace schema",
		Long: `Display the tables and columns the engine suggests from.

The schema comes from the configured schema file when one is set, otherwise
from the workspace API with a local cache in between. A fresh cache snapshot
short-circuits the fetch; --refresh forces one. When the workspace is
unreachable the freshest cached snapshot is used instead.`,
		Example: `  # Table overview
  kqlens schema

  # Force a fetch from the workspace API
  kqlens schema --refresh

  # Table names only, one per line
  kqlens schema tables

  # Columns of one table
  kqlens schema columns requests`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSchemaOverview(cmd, opts)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json, markdown")
	cmd.PersistentFlags().BoolVar(&opts.Refresh, "refresh", false, "Fetch the schema even when the cache is fresh")

	cmd.AddCommand(newSchemaTablesCommand(opts))
	cmd.AddCommand(newSchemaColumnsCommand(opts))

	return cmd
}

func newSchemaTablesCommand(opts *SchemaOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List table names",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSchemaTables(cmd, opts)
		},
	}
}

func newSchemaColumnsCommand(opts *SchemaOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "columns <table>",
		Short: "List the columns of one table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchemaColumns(cmd, args[0], opts)
		},
	}
}

// fetchSchema loads the schema for the schema subcommands, with a spinner
// around forced fetches in interactive text mode.
func fetchSchema(cmd *cobra.Command, cmdCtx *CommandContext, r *output.Renderer, opts *SchemaOptions) (*kql.Schema, SchemaSource, error) {
	var spinner *output.Spinner
	if opts.Refresh && r.EffectiveMode() == output.ModeText {
		spinner = r.NewSpinner("Fetching workspace schema...")
		spinner.Start()
	}

	source, err := cmdCtx.LoadSchema(cmd.Context(), opts.Refresh)

	if spinner != nil {
		if err != nil {
			spinner.Fail("Schema fetch failed")
		} else {
			spinner.Success(fmt.Sprintf("Schema loaded from %s", source))
		}
	}
	if err != nil {
		return nil, source, err
	}

	schema := cmdCtx.Engine.Registry().Current()
	if schema == nil {
		return nil, source, errors.New("no schema available: set workspace_id in the configuration or pass --schema-file")
	}
	return schema, source, nil
}

func schemaRenderer(cmd *cobra.Command, cmdCtx *CommandContext, opts *SchemaOptions) *output.Renderer {
	if opts.Format != "" {
		return output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}
	return cmdCtx.Renderer
}

// SchemaJSONOutput is the JSON output structure for the schema overview.
type SchemaJSONOutput struct {
	Workspace string      `json:"workspace,omitempty"`
	Source    string      `json:"source"`
	Tables    []kql.Table `json:"tables"`
}

func runSchemaOverview(cmd *cobra.Command, opts *SchemaOptions) error {
	cmdCtx, cleanup := NewCommandContext(cmd)
	defer cleanup()

	r := schemaRenderer(cmd, cmdCtx, opts)
	schema, source, err := fetchSchema(cmd, cmdCtx, r, opts)
	if err != nil {
		return err
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(SchemaJSONOutput{
			Workspace: cmdCtx.Cfg.WorkspaceID,
			Source:    string(source),
			Tables:    schema.Tables,
		})
	case output.ModeMarkdown:
		return schemaOverviewMarkdown(r, cmdCtx.Cfg.WorkspaceID, source, schema)
	default:
		return schemaOverviewText(r, cmdCtx.Cfg.WorkspaceID, source, schema)
	}
}

func schemaOverviewText(r *output.Renderer, workspaceID string, source SchemaSource, schema *kql.Schema) error {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render("Workspace Schema"))
	if workspaceID != "" {
		r.Printf("  %s: %s\n", styles.Bold.Render("Workspace"), workspaceID)
	}
	r.Printf("  %s: %s\n", styles.Bold.Render("Source"), source)
	r.Printf("  %s: %d\n", styles.Bold.Render("Tables"), len(schema.Tables))
	r.Println("")

	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Table", "Columns", "Description"})
	for _, tbl := range schema.Tables {
		t.AppendRow(table.Row{tbl.Name, len(tbl.Columns), tbl.Description})
	}
	t.Render()
	r.Println("")
	r.Println(styles.Muted.Render("Use 'kqlens schema columns <table>' for column details"))
	r.Println("")

	return nil
}

func schemaOverviewMarkdown(r *output.Renderer, workspaceID string, source SchemaSource, schema *kql.Schema) error {
	r.Println(output.FormatHeader(1, "Workspace Schema"))
	r.Println("")
	if workspaceID != "" {
		r.Println(output.FormatKeyValue("Workspace", workspaceID))
	}
	r.Println(output.FormatKeyValue("Source", string(source)))
	r.Println(output.FormatKeyValue("Tables", fmt.Sprintf("%d", len(schema.Tables))))
	r.Println("")

	r.Println("| Table | Columns | Description |")
	r.Println("| --- | --- | --- |")
	for _, tbl := range schema.Tables {
		r.Printf("| `%s` | %d | %s |\n", tbl.Name, len(tbl.Columns), tbl.Description)
	}
	r.Println("")

	return nil
}

func runSchemaTables(cmd *cobra.Command, opts *SchemaOptions) error {
	cmdCtx, cleanup := NewCommandContext(cmd)
	defer cleanup()

	r := schemaRenderer(cmd, cmdCtx, opts)
	schema, _, err := fetchSchema(cmd, cmdCtx, r, opts)
	if err != nil {
		return err
	}

	names := schema.TableNames()

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(map[string][]string{"tables": names})
	case output.ModeMarkdown:
		for _, name := range names {
			r.Println("- `" + name + "`")
		}
		return nil
	default:
		for _, name := range names {
			r.Println(name)
		}
		return nil
	}
}

func runSchemaColumns(cmd *cobra.Command, tableName string, opts *SchemaOptions) error {
	cmdCtx, cleanup := NewCommandContext(cmd)
	defer cleanup()

	r := schemaRenderer(cmd, cmdCtx, opts)
	schema, _, err := fetchSchema(cmd, cmdCtx, r, opts)
	if err != nil {
		return err
	}

	tbl := schema.TableByName(tableName)
	if tbl == nil {
		return fmt.Errorf("table %q not found in the workspace schema", tableName)
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(tbl)
	case output.ModeMarkdown:
		return schemaColumnsMarkdown(r, tbl)
	default:
		return schemaColumnsText(r, tbl)
	}
}

func schemaColumnsText(r *output.Renderer, tbl *kql.Table) error {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render(tbl.Name))
	if tbl.Description != "" {
		r.Println(styles.Muted.Render("  " + tbl.Description))
	}
	r.Println("")

	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Column", "Type", "Description"})
	for _, col := range tbl.Columns {
		t.AppendRow(table.Row{col.Name, col.Type, col.Description})
	}
	t.Render()
	r.Println("")

	return nil
}

func schemaColumnsMarkdown(r *output.Renderer, tbl *kql.Table) error {
	r.Println(output.FormatHeader(2, tbl.Name))
	r.Println("")
	if tbl.Description != "" {
		r.Println(tbl.Description)
		r.Println("")
	}

	r.Println("| Column | Type | Description |")
	r.Println("| --- | --- | --- |")
	for _, col := range tbl.Columns {
		r.Printf("| `%s` | %s | %s |\n", col.Name, col.Type, col.Description)
	}
	r.Println("")

	return nil
}
