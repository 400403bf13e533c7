package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/loglens-labs/kqlens/internal/cli/output"
	"github.com/loglens-labs/kqlens/pkg/kql"
)

// SuggestOptions holds options for the suggest command.
type SuggestOptions struct {
	Format  string // Output format: text, json, markdown
	Refresh bool
}

// NewSuggestCommand creates the suggest command.
func NewSuggestCommand() *cobra.Command {
	opts := &SuggestOptions{}
	cmd := &cobra.Command{
		Use:   "suggest [query-text]",
		Short: "Show completions for a query fragment",
		Long: `Print the suggestions the engine offers at the end of the given
query text. Pass the fragment as an argument, or "-" to read it from stdin.

An empty fragment suggests the tables a query can start from. The fragment
must end exactly where the cursor would be; trailing whitespace matters,
because "where" and "where " complete differently.`,
		Example: `  # Tables to start a query from
  kqlens suggest ""

  # Operators after a pipe
  kqlens suggest "requests
  | "

  # Columns after where
  kqlens suggest "requests | where "

  # Read the fragment from stdin
  printf 'requests | summarize ' | kqlens suggest -`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuggest(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json, markdown")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "Fetch the schema even when the cache is fresh")

	return cmd
}

func runSuggest(cmd *cobra.Command, args []string, opts *SuggestOptions) error {
	cmdCtx, cleanup := NewCommandContext(cmd)
	defer cleanup()

	r := cmdCtx.Renderer

	// Override renderer if format flag is set
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	text, err := readQueryArg(cmd, args)
	if err != nil {
		return err
	}

	if _, err := cmdCtx.LoadSchema(cmd.Context(), opts.Refresh); err != nil {
		// Keyword and function suggestions work without a schema.
		cmdCtx.Logger.Warn("schema unavailable", "error", err)
		r.Warning("Schema unavailable; table and column suggestions are disabled")
	}

	suggestions := cmdCtx.Engine.GetSuggestions(text)

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return suggestJSON(r, text, suggestions)
	case output.ModeMarkdown:
		return suggestMarkdown(r, text, suggestions)
	default:
		return suggestText(r, text, suggestions)
	}
}

// readQueryArg resolves the query fragment from the argument or stdin.
func readQueryArg(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 {
		return "", nil
	}
	if args[0] != "-" {
		return args[0], nil
	}
	raw, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read query from stdin: %w", err)
	}
	// Strip only the shell-appended final newline; inner newlines and
	// trailing spaces are part of the fragment.
	return strings.TrimSuffix(string(raw), "\n"), nil
}

// SuggestJSONOutput is the JSON output structure for the suggest command.
type SuggestJSONOutput struct {
	Query       string           `json:"query"`
	Count       int              `json:"count"`
	Suggestions []kql.Suggestion `json:"suggestions"`
}

func suggestJSON(r *output.Renderer, text string, suggestions []kql.Suggestion) error {
	return r.JSON(SuggestJSONOutput{
		Query:       text,
		Count:       len(suggestions),
		Suggestions: suggestions,
	})
}

func suggestText(r *output.Renderer, text string, suggestions []kql.Suggestion) error {
	styles := r.Styles()

	if len(suggestions) == 0 {
		r.Println(styles.Muted.Render("(no suggestions)"))
		return nil
	}

	r.Println("")
	r.Println(styles.Header1.Render(fmt.Sprintf("Suggestions (%d)", len(suggestions))))
	if text != "" {
		r.Println(styles.Muted.Render("for: " + flattenQuery(text)))
	}
	r.Println("")

	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Suggestion", "Kind", "Description"})
	for _, s := range suggestions {
		t.AppendRow(table.Row{s.Label, s.Kind.String(), s.Description})
	}
	t.Render()
	r.Println("")

	return nil
}

func suggestMarkdown(r *output.Renderer, text string, suggestions []kql.Suggestion) error {
	r.Println(output.FormatHeader(1, fmt.Sprintf("Suggestions (%d)", len(suggestions))))
	r.Println("")
	if text != "" {
		r.Println(output.FormatKeyValue("Query", "`"+flattenQuery(text)+"`"))
		r.Println("")
	}

	if len(suggestions) == 0 {
		r.Println("(no suggestions)")
		return nil
	}

	r.Println("| Suggestion | Kind | Description |")
	r.Println("| --- | --- | --- |")
	for _, s := range suggestions {
		r.Printf("| `%s` | %s | %s |\n", s.Label, s.Kind.String(), s.Description)
	}
	r.Println("")

	return nil
}

// flattenQuery collapses a multi-line fragment onto one line for headers.
func flattenQuery(text string) string {
	return strings.Join(strings.Split(text, "\n"), " ⏎ ")
}
