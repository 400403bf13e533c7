package commands

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/loglens-labs/kqlens/pkg/kql"
)

var (
	pickerTitleStyle    = lipgloss.NewStyle().Bold(true)
	pickerSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	pickerMutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// templatePicker is the Bubble Tea model behind 'templates --pick': a
// filter field over the catalog with cursor selection.
type templatePicker struct {
	input    textinput.Model
	all      []kql.Template
	filtered []kql.Template
	cursor   int
	choice   *kql.Template
}

func newTemplatePicker() templatePicker {
	ti := textinput.New()
	ti.Placeholder = "Filter templates..."
	ti.Prompt = "> "
	ti.CharLimit = 64
	ti.Width = 48
	ti.Focus()

	all := kql.QueryTemplates()
	return templatePicker{
		input:    ti,
		all:      all,
		filtered: all,
	}
}

// Init implements tea.Model.
func (m templatePicker) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m templatePicker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.choice = nil
			return m, tea.Quit
		case tea.KeyEnter:
			if len(m.filtered) > 0 {
				chosen := m.filtered[m.cursor]
				m.choice = &chosen
			}
			return m, tea.Quit
		case tea.KeyUp, tea.KeyCtrlP:
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case tea.KeyDown, tea.KeyCtrlN:
			if m.cursor < len(m.filtered)-1 {
				m.cursor++
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.filtered = filterTemplates(m.all, m.input.Value())
	if m.cursor >= len(m.filtered) {
		m.cursor = len(m.filtered) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	return m, cmd
}

// View implements tea.Model.
func (m templatePicker) View() string {
	var b strings.Builder

	b.WriteString(pickerTitleStyle.Render("Pick a query template") + "\n\n")
	b.WriteString(m.input.View() + "\n\n")

	if len(m.filtered) == 0 {
		b.WriteString(pickerMutedStyle.Render("  (no matches)") + "\n")
	}
	for i, tpl := range m.filtered {
		if i == m.cursor {
			b.WriteString(pickerSelectedStyle.Render("> "+tpl.Name) + "\n")
			b.WriteString(pickerMutedStyle.Render("    "+tpl.Description) + "\n")
			continue
		}
		b.WriteString("  " + tpl.Name + "\n")
	}

	b.WriteString("\n" + pickerMutedStyle.Render("up/down select, enter confirm, esc cancel") + "\n")
	return b.String()
}

// filterTemplates keeps the templates whose name or description contains
// the query, case-insensitively. An empty query keeps everything.
func filterTemplates(all []kql.Template, query string) []kql.Template {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return all
	}

	var out []kql.Template
	for _, tpl := range all {
		if strings.Contains(strings.ToLower(tpl.Name), query) ||
			strings.Contains(strings.ToLower(tpl.Description), query) {
			out = append(out, tpl)
		}
	}
	return out
}

// runTemplatePicker runs the picker on stderr and prints the chosen
// template text to stdout, so the result pipes cleanly.
func runTemplatePicker(cmd *cobra.Command) error {
	program := tea.NewProgram(
		newTemplatePicker(),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.ErrOrStderr()),
	)

	res, err := program.Run()
	if err != nil {
		return fmt.Errorf("template picker failed: %w", err)
	}

	m, ok := res.(templatePicker)
	if !ok || m.choice == nil {
		return nil
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), m.choice.Template)
	return nil
}
