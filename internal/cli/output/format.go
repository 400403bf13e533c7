package output

import (
	"fmt"
	"strings"
)

// FormatHeader renders a markdown header. Levels outside 1..6 clamp to
// the nearest valid level.
func FormatHeader(level int, text string) string {
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	return strings.Repeat("#", level) + " " + text
}

// FormatKeyValue renders a markdown key/value list item.
func FormatKeyValue(key, value string) string {
	return fmt.Sprintf("- **%s:** %s", key, value)
}

// FormatCodeBlock fences code with the given language tag.
func FormatCodeBlock(lang, code string) string {
	code = strings.TrimRight(code, "\n")
	return "```" + lang + "\n" + code + "\n```"
}
