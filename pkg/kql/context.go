package kql

import (
	"regexp"
	"strings"
)

// Position classifies where in the query grammar the user is typing.
// PositionGeneralToken is the zero value so that any shape the analyzer
// cannot place more precisely degrades to prefix matching instead of
// failing.
type Position int

// Position values, in classification precedence order after the zero value.
const (
	PositionGeneralToken Position = iota
	PositionStartOfQuery
	PositionAfterColumnKeyword
	PositionAfterGroupingKeyword
	PositionAfterSummarize
)

// String returns a readable name for the position.
func (p Position) String() string {
	switch p {
	case PositionStartOfQuery:
		return "start-of-query"
	case PositionAfterColumnKeyword:
		return "after-column-keyword"
	case PositionAfterGroupingKeyword:
		return "after-grouping-keyword"
	case PositionAfterSummarize:
		return "after-summarize"
	default:
		return "general-token"
	}
}

// QueryContext is the structural context derived from the full query text.
// It is computed fresh per request and never stored.
type QueryContext struct {
	FullText     string
	CurrentLine  string
	CurrentWord  string
	PreviousWord string
}

// Keywords that take column expressions directly after them.
var columnKeywords = map[string]bool{
	"where":   true,
	"extend":  true,
	"project": true,
}

// Keywords that group or join on columns.
var groupingKeywords = map[string]bool{
	"by": true,
	"on": true,
}

// whitespaceRE splits a line into tokens. A line ending in whitespace yields
// a trailing empty token, so a just-finished word shows up as PreviousWord
// while CurrentWord is the empty word now being started.
var whitespaceRE = regexp.MustCompile(`\s+`)

// Analyze derives the query context and its grammatical position from the
// full text typed so far. Context always comes from the last line of the
// text; earlier lines only matter for table resolution. It never fails:
// empty or otherwise unparseable input classifies as PositionGeneralToken
// with an empty current word.
func Analyze(fullText string) (QueryContext, Position) {
	lines := strings.Split(fullText, "\n")
	current := lines[len(lines)-1]

	tokens := whitespaceRE.Split(current, -1)
	qc := QueryContext{
		FullText:    fullText,
		CurrentLine: current,
		CurrentWord: tokens[len(tokens)-1],
	}
	if len(tokens) >= 2 {
		qc.PreviousWord = tokens[len(tokens)-2]
	}

	return qc, classify(qc)
}

func classify(qc QueryContext) Position {
	if qc.CurrentLine == "" || qc.AtPipe() {
		return PositionStartOfQuery
	}

	prev := strings.ToLower(qc.PreviousWord)
	switch {
	case columnKeywords[prev]:
		return PositionAfterColumnKeyword
	case groupingKeywords[prev]:
		return PositionAfterGroupingKeyword
	case prev == "summarize":
		return PositionAfterSummarize
	}
	return PositionGeneralToken
}

// AtPipe reports whether the token being typed is the pipe character: either
// the pipe itself is still the current word, or it was just finished and the
// next word has not started.
func (qc QueryContext) AtPipe() bool {
	return qc.CurrentWord == "|" || (qc.CurrentWord == "" && qc.PreviousWord == "|")
}

// TimeOverlay reports whether time-range literals should be appended to the
// primary suggestions. It triggers on the current word mentioning ago or
// between, matching the lowercase KQL spellings.
func (qc QueryContext) TimeOverlay() bool {
	return strings.Contains(qc.CurrentWord, "ago") || strings.Contains(qc.CurrentWord, "between")
}

// ExtractCurrentTable resolves the table the query reads from: scanning from
// the top, it skips comment lines (// prefix) and pipe continuation lines,
// and returns the first remaining line whose first whitespace-delimited
// token names a schema table, matched case-sensitively. It returns nil when
// no schema is loaded or no line names a known table.
func ExtractCurrentTable(fullText string, schema *Schema) *Table {
	if schema == nil {
		return nil
	}
	for _, line := range strings.Split(fullText, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "|") {
			continue
		}
		first := whitespaceRE.Split(trimmed, -1)[0]
		if t := schema.TableByName(first); t != nil {
			return t
		}
	}
	return nil
}
