package commands

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/loglens-labs/kqlens/pkg/kql"
)

// NewREPLCommand creates the repl command.
func NewREPLCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Compose queries interactively with TAB completion",
		Long: `Start an interactive prompt for composing queries line by line.

TAB completes tables, operators, columns, functions, and time ranges for
the position under the cursor, using everything typed so far. An empty
line finishes the query and echoes it; Ctrl-C discards it.`,
		Example: `  kqlens repl

  kqlens> requests
     ...> | where <TAB>`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runREPL(cmd)
		},
	}
}

func runREPL(cmd *cobra.Command) error {
	cmdCtx, cleanup := NewCommandContext(cmd)
	defer cleanup()

	if _, err := cmdCtx.LoadSchema(cmd.Context(), false); err != nil {
		cmdCtx.Logger.Warn("schema unavailable", "error", err)
		cmdCtx.Renderer.Warning("Schema unavailable; table and column suggestions are disabled")
	}

	// History lives next to the schema cache.
	historyFile := filepath.Join(filepath.Dir(cmdCtx.Cfg.CachePath), "repl_history")

	var buffer []string
	completer := &replCompleter{
		engine: cmdCtx.Engine,
		buffered: func() []string {
			return buffer
		},
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "kqlens> ",
		HistoryFile:     historyFile,
		AutoComplete:    completer,
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	_, _ = fmt.Fprintln(out, "kqlens query REPL")
	_, _ = fmt.Fprintln(out, "Type .help for commands, .quit to exit, TAB for suggestions")
	_, _ = fmt.Fprintln(out)

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			buffer = nil
			rl.SetPrompt("kqlens> ")
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}

		trimmed := strings.TrimSpace(line)

		// An empty line finishes the composition.
		if trimmed == "" {
			if len(buffer) > 0 {
				_, _ = fmt.Fprintln(out)
				_, _ = fmt.Fprintln(out, strings.Join(buffer, "\n"))
				_, _ = fmt.Fprintln(out)
				buffer = nil
				rl.SetPrompt("kqlens> ")
			}
			continue
		}

		if strings.HasPrefix(trimmed, ".") {
			if quit := handleDotCommand(cmdCtx, out, errOut, trimmed); quit {
				break
			}
			continue
		}

		buffer = append(buffer, line)
		rl.SetPrompt("   ...> ")
	}

	return nil
}

// handleDotCommand runs one dot-command and reports whether the REPL
// should exit.
func handleDotCommand(cmdCtx *CommandContext, out, errOut io.Writer, line string) bool {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(out)

	case ".tables":
		schema := cmdCtx.Engine.Registry().Current()
		if schema == nil {
			_, _ = fmt.Fprintln(errOut, "No schema loaded")
			return false
		}
		for _, name := range schema.TableNames() {
			_, _ = fmt.Fprintln(out, name)
		}

	case ".schema":
		printREPLSchema(cmdCtx, out, errOut, parts)

	case ".templates":
		for _, tpl := range kql.QueryTemplates() {
			_, _ = fmt.Fprintf(out, "%-32s %s\n", tpl.Name, tpl.Description)
		}

	case ".clear":
		_, _ = fmt.Fprint(out, "\033[H\033[2J")

	default:
		_, _ = fmt.Fprintf(errOut, "Unknown command: %s (type .help for commands)\n", command)
	}
	return false
}

func printREPLSchema(cmdCtx *CommandContext, out, errOut io.Writer, parts []string) {
	schema := cmdCtx.Engine.Registry().Current()
	if schema == nil {
		_, _ = fmt.Fprintln(errOut, "No schema loaded")
		return
	}

	if len(parts) < 2 {
		for _, tbl := range schema.Tables {
			_, _ = fmt.Fprintf(out, "%-24s %d columns\n", tbl.Name, len(tbl.Columns))
		}
		return
	}

	tbl := schema.TableByName(parts[1])
	if tbl == nil {
		_, _ = fmt.Fprintf(errOut, "Table %q not found\n", parts[1])
		return
	}
	for _, col := range tbl.Columns {
		_, _ = fmt.Fprintf(out, "%-24s %s\n", col.Name, col.Type)
	}
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help            Show this help message
  .tables          List the schema's table names
  .schema [table]  Show all tables, or the columns of one table
  .templates       List the query template catalog
  .clear           Clear the screen
  .quit / .exit    Exit the REPL

Tips:
  - TAB completes for the position under the cursor
  - An empty line finishes the query and prints it
  - Ctrl-C discards the query being composed
`
	_, _ = fmt.Fprintln(w, help)
}

// replDotCommands feeds dot-command completion.
var replDotCommands = []string{".help", ".tables", ".schema", ".templates", ".clear", ".quit", ".exit"}

// replCompleter implements readline.AutoCompleter on top of the engine.
// buffered returns the finished lines of the query being composed, so
// completion sees the whole query, not just the line being edited.
type replCompleter struct {
	engine   *kql.Engine
	buffered func() []string
}

// Do returns the completion candidates for the text left of pos as the
// suffixes to append, plus the length of the word being completed.
func (c *replCompleter) Do(line []rune, pos int) ([][]rune, int) {
	prefix := string(line[:pos])

	if candidates, n, ok := completeDotCommand(prefix); ok {
		return candidates, n
	}

	var sb strings.Builder
	for _, l := range c.buffered() {
		sb.WriteString(l)
		sb.WriteByte('\n')
	}
	sb.WriteString(prefix)

	word := []rune(currentWord(prefix))

	var out [][]rune
	for _, s := range c.engine.GetSuggestions(sb.String()) {
		value := []rune(s.Value)
		if len(value) < len(word) {
			continue
		}
		if !strings.EqualFold(string(value[:len(word)]), string(word)) {
			continue
		}
		out = append(out, value[len(word):])
	}
	return out, len(word)
}

func completeDotCommand(prefix string) ([][]rune, int, bool) {
	trimmed := strings.TrimLeft(prefix, " \t")
	if !strings.HasPrefix(trimmed, ".") || strings.ContainsAny(trimmed, " \t") {
		return nil, 0, false
	}

	var out [][]rune
	for _, dc := range replDotCommands {
		if strings.HasPrefix(dc, trimmed) {
			out = append(out, []rune(dc[len(trimmed):]))
		}
	}
	return out, len([]rune(trimmed)), true
}

// currentWord returns the trailing identifier fragment of s.
func currentWord(s string) string {
	runes := []rune(s)
	i := len(runes)
	for i > 0 && isWordRune(runes[i-1]) {
		i--
	}
	return string(runes[i:])
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
