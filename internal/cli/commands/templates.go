package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/loglens-labs/kqlens/internal/cli/output"
	"github.com/loglens-labs/kqlens/pkg/kql"
)

// TemplatesOptions holds options for the templates command.
type TemplatesOptions struct {
	Format string // Output format: text, json, markdown
	Pick   bool
}

// NewTemplatesCommand creates the templates command.
func NewTemplatesCommand() *cobra.Command {
	opts := &TemplatesOptions{}
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List the query template catalog",
		Long: `Show the built-in query templates: named example queries that make
good starting points. Templates are static and need no schema or workspace.

With --pick an interactive picker opens; the chosen template is printed to
stdout so it can be piped or redirected.`,
		Example: `  # List all templates
  kqlens templates

  # Pick one interactively and save it
  kqlens templates --pick > query.kql`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTemplates(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json, markdown")
	cmd.Flags().BoolVarP(&opts.Pick, "pick", "p", false, "Pick a template interactively")

	return cmd
}

func runTemplates(cmd *cobra.Command, opts *TemplatesOptions) error {
	cmdCtx := NewCommandContextWithoutEngine(cmd)
	r := cmdCtx.Renderer

	// Override renderer if format flag is set
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	if opts.Pick {
		if !r.IsTTY() {
			return errors.New("--pick needs an interactive terminal")
		}
		return runTemplatePicker(cmd)
	}

	templates := kql.QueryTemplates()

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return templatesJSON(r, templates)
	case output.ModeMarkdown:
		return templatesMarkdown(r, templates)
	default:
		return templatesText(r, templates)
	}
}

// TemplatesJSONOutput is the JSON output structure for the templates command.
type TemplatesJSONOutput struct {
	Count     int            `json:"count"`
	Templates []kql.Template `json:"templates"`
}

func templatesJSON(r *output.Renderer, templates []kql.Template) error {
	return r.JSON(TemplatesJSONOutput{
		Count:     len(templates),
		Templates: templates,
	})
}

func templatesText(r *output.Renderer, templates []kql.Template) error {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render(fmt.Sprintf("Query Templates (%d)", len(templates))))
	r.Println("")

	for _, tpl := range templates {
		r.Println(styles.Bold.Render("  " + tpl.Name))
		r.Println(styles.Muted.Render("  " + tpl.Description))
		for _, line := range splitTemplateLines(tpl.Template) {
			r.Println("    " + line)
		}
		r.Println("")
	}

	r.Println(styles.Muted.Render("Use 'kqlens templates --pick' to select one interactively"))
	r.Println("")

	return nil
}

func splitTemplateLines(template string) []string {
	return strings.Split(template, "\n")
}

func templatesMarkdown(r *output.Renderer, templates []kql.Template) error {
	r.Println(output.FormatHeader(1, "Query Templates"))
	r.Println("")

	for _, tpl := range templates {
		r.Println(output.FormatHeader(2, tpl.Name))
		r.Println("")
		r.Println(tpl.Description)
		r.Println("")
		r.Println(output.FormatCodeBlock("kql", tpl.Template))
		r.Println("")
	}

	return nil
}
