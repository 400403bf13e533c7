package commands

import (
	"encoding/json"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loglens-labs/kqlens/internal/cli/config"
	"github.com/loglens-labs/kqlens/pkg/kql"
)

func setupTemplatesEnv(t *testing.T) {
	t.Helper()
	config.ResetConfig()
	t.Setenv("KQLENS_OUTPUT", "")
}

func TestTemplatesCommand_JSON(t *testing.T) {
	setupTemplatesEnv(t)

	out, _, err := execCommand(t, NewTemplatesCommand(), "", "--format", "json")
	require.NoError(t, err)

	var result TemplatesJSONOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))

	assert.Equal(t, len(kql.QueryTemplates()), result.Count)
	require.NotEmpty(t, result.Templates)
	assert.Equal(t, "Recent exceptions", result.Templates[0].Name)
	assert.Contains(t, result.Templates[0].Template, "exceptions")
}

func TestTemplatesCommand_MarkdownWhenPiped(t *testing.T) {
	setupTemplatesEnv(t)

	out, _, err := execCommand(t, NewTemplatesCommand(), "")
	require.NoError(t, err)

	assert.Contains(t, out, "# Query Templates")
	assert.Contains(t, out, "## Slow requests")
	assert.Contains(t, out, "```kql")
	assert.NotContains(t, out, "\x1b[", "markdown output must not contain ANSI escapes")
}

func TestTemplatesCommand_Text(t *testing.T) {
	setupTemplatesEnv(t)

	out, _, err := execCommand(t, NewTemplatesCommand(), "", "--format", "text")
	require.NoError(t, err)

	assert.Contains(t, out, "Query Templates (9)")
	assert.Contains(t, out, "Recent exceptions")
	assert.Contains(t, out, "kqlens templates --pick")
}

func TestTemplatesCommand_PickNeedsTTY(t *testing.T) {
	setupTemplatesEnv(t)

	_, _, err := execCommand(t, NewTemplatesCommand(), "", "--pick")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "interactive terminal")
}

func TestFilterTemplates(t *testing.T) {
	all := kql.QueryTemplates()

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{name: "empty query keeps everything", query: "", want: len(all)},
		{name: "whitespace only keeps everything", query: "   ", want: len(all)},
		{name: "name match", query: "slow", want: 1},
		{name: "case insensitive", query: "SLOW", want: 1},
		{name: "matches name and description", query: "exception", want: 2},
		{name: "no match", query: "zzznope", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := filterTemplates(all, tt.query)
			assert.Len(t, got, tt.want)
		})
	}
}

func pickerUpdate(t *testing.T, m templatePicker, msg tea.Msg) templatePicker {
	t.Helper()
	updated, _ := m.Update(msg)
	next, ok := updated.(templatePicker)
	require.True(t, ok)
	return next
}

func TestTemplatePicker_CursorMovement(t *testing.T) {
	m := newTemplatePicker()
	require.Equal(t, 0, m.cursor)

	// Up at the top stays put.
	m = pickerUpdate(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.cursor)

	m = pickerUpdate(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, m.cursor)

	m = pickerUpdate(t, m, tea.KeyMsg{Type: tea.KeyCtrlN})
	assert.Equal(t, 2, m.cursor)

	m = pickerUpdate(t, m, tea.KeyMsg{Type: tea.KeyCtrlP})
	assert.Equal(t, 1, m.cursor)

	// Down at the bottom stays put.
	for range m.filtered {
		m = pickerUpdate(t, m, tea.KeyMsg{Type: tea.KeyDown})
	}
	assert.Equal(t, len(m.filtered)-1, m.cursor)
}

func TestTemplatePicker_EnterPicksUnderCursor(t *testing.T) {
	m := newTemplatePicker()
	m = pickerUpdate(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = pickerUpdate(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, m.choice)
	assert.Equal(t, m.filtered[1].Name, m.choice.Name)
}

func TestTemplatePicker_EscCancels(t *testing.T) {
	m := newTemplatePicker()
	m = pickerUpdate(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, m.choice)

	m = pickerUpdate(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, m.choice)
}

func TestTemplatePicker_TypingFilters(t *testing.T) {
	m := newTemplatePicker()
	for _, r := range "slow" {
		m = pickerUpdate(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	require.Len(t, m.filtered, 1)
	assert.Equal(t, "Slow requests", m.filtered[0].Name)
	assert.Equal(t, 0, m.cursor, "cursor clamps into the narrowed list")
}

func TestTemplatePicker_EnterWithNoMatchesKeepsNilChoice(t *testing.T) {
	m := newTemplatePicker()
	for _, r := range "zzznope" {
		m = pickerUpdate(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	require.Empty(t, m.filtered)

	m = pickerUpdate(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, m.choice)
}

func TestTemplatePicker_View(t *testing.T) {
	m := newTemplatePicker()
	view := m.View()

	assert.Contains(t, view, "Pick a query template")
	assert.Contains(t, view, "> Recent exceptions")
	assert.Contains(t, view, "enter confirm")

	for _, r := range "zzznope" {
		m = pickerUpdate(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	assert.Contains(t, m.View(), "(no matches)")
}
