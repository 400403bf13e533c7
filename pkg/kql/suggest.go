package kql

import "fmt"

// Kind tags a Suggestion with the provider family that produced it.
type Kind int

// Suggestion kinds.
const (
	KindKeyword Kind = iota
	KindFunction
	KindTable
	KindColumn
	KindTimeRange
)

// String returns the wire name of the kind.
func (k Kind) String() string {
	switch k {
	case KindKeyword:
		return "keyword"
	case KindFunction:
		return "function"
	case KindTable:
		return "table"
	case KindColumn:
		return "column"
	case KindTimeRange:
		return "timerange"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// MarshalText implements encoding.TextMarshaler so the kind serializes as
// the contract's type string.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "keyword":
		*k = KindKeyword
	case "function":
		*k = KindFunction
	case "table":
		*k = KindTable
	case "column":
		*k = KindColumn
	case "timerange":
		*k = KindTimeRange
	default:
		return fmt.Errorf("unknown suggestion kind %q", text)
	}
	return nil
}

// Suggestion is one completion candidate. InsertText may carry a $1 cursor
// marker (inside parentheses for function calls) that the consuming editor
// interprets as the caret position after insertion.
type Suggestion struct {
	Kind        Kind   `json:"type"`
	Value       string `json:"value"`
	Label       string `json:"label"`
	Description string `json:"description"`
	InsertText  string `json:"insertText"`
}

// Each provider below is a pure function of (context, schema). Providers
// needing a schema return nothing when none is loaded; none of them fails.
// Results keep the schema's or catalog's declaration order.

// TableSuggestions produces one Table suggestion per schema table.
func TableSuggestions(schema *Schema) []Suggestion {
	if schema == nil {
		return nil
	}
	out := make([]Suggestion, 0, len(schema.Tables))
	for _, t := range schema.Tables {
		out = append(out, Suggestion{
			Kind:        KindTable,
			Value:       t.Name,
			Label:       t.Name,
			Description: t.Description,
			InsertText:  t.Name,
		})
	}
	return out
}

// OperatorSuggestions produces one Keyword suggestion per core operator.
func OperatorSuggestions() []Suggestion {
	out := make([]Suggestion, 0, len(CoreOperators))
	for _, op := range CoreOperators {
		out = append(out, Suggestion{
			Kind:        KindKeyword,
			Value:       op.Name,
			Label:       op.Name,
			Description: op.Description,
			InsertText:  op.Name,
		})
	}
	return out
}

// ColumnSuggestions produces one Column suggestion per column of the table
// the query reads from, resolved from the context's full text. It produces
// nothing when no table resolves.
func ColumnSuggestions(qc QueryContext, schema *Schema) []Suggestion {
	table := ExtractCurrentTable(qc.FullText, schema)
	if table == nil {
		return nil
	}
	out := make([]Suggestion, 0, len(table.Columns))
	for _, col := range table.Columns {
		out = append(out, Suggestion{
			Kind:        KindColumn,
			Value:       col.Name,
			Label:       col.Name,
			Description: columnDescription(col),
			InsertText:  col.Name,
		})
	}
	return out
}

func columnDescription(col Column) string {
	if col.Description == "" {
		return col.Type
	}
	return col.Type + ": " + col.Description
}

// AggregationSuggestions produces one Function suggestion per aggregation
// in the fixed catalog.
func AggregationSuggestions() []Suggestion {
	out := make([]Suggestion, 0, len(AggregationFunctions))
	for _, fn := range AggregationFunctions {
		out = append(out, functionSuggestion(fn))
	}
	return out
}

// PrefixSuggestions produces the keywords, functions, and table names whose
// identifier starts with word, matched case-insensitively. An empty word
// matches everything.
func PrefixSuggestions(word string, schema *Schema) []Suggestion {
	var out []Suggestion
	for _, op := range CoreOperators {
		if hasPrefixFold(op.Name, word) {
			out = append(out, Suggestion{
				Kind:        KindKeyword,
				Value:       op.Name,
				Label:       op.Name,
				Description: op.Description,
				InsertText:  op.Name,
			})
		}
	}
	for _, kw := range Keywords {
		if hasPrefixFold(kw.Name, word) {
			out = append(out, Suggestion{
				Kind:        KindKeyword,
				Value:       kw.Name,
				Label:       kw.Name,
				Description: kw.Description,
				InsertText:  kw.Name,
			})
		}
	}
	for _, fn := range SearchFunctions(word) {
		out = append(out, functionSuggestion(fn))
	}
	if schema != nil {
		for _, t := range schema.Tables {
			if hasPrefixFold(t.Name, word) {
				out = append(out, Suggestion{
					Kind:        KindTable,
					Value:       t.Name,
					Label:       t.Name,
					Description: t.Description,
					InsertText:  t.Name,
				})
			}
		}
	}
	return out
}

// TimeRangeSuggestions produces the fixed catalog of time filter literals.
func TimeRangeSuggestions() []Suggestion {
	out := make([]Suggestion, 0, len(TimeRanges))
	for _, tr := range TimeRanges {
		out = append(out, Suggestion{
			Kind:        KindTimeRange,
			Value:       tr.Text,
			Label:       tr.Text,
			Description: tr.Description,
			InsertText:  tr.Text,
		})
	}
	return out
}

func functionSuggestion(fn FunctionInfo) Suggestion {
	return Suggestion{
		Kind:        KindFunction,
		Value:       fn.Name,
		Label:       fn.Name,
		Description: fn.Description,
		InsertText:  fn.Snippet,
	}
}
