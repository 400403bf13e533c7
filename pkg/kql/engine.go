package kql

// Engine assembles suggestions for query text against one workspace's
// schema. Each engine owns its own Registry; there is no shared or ambient
// schema state, so one engine per open editor or workspace is the expected
// shape.
type Engine struct {
	registry *Registry
}

// NewEngine creates an engine around the given registry. A nil registry is
// replaced with an empty one so the engine still serves schema-independent
// suggestions.
func NewEngine(registry *Registry) *Engine {
	if registry == nil {
		registry = NewRegistry(nil)
	}
	return &Engine{registry: registry}
}

// Registry returns the engine's schema registry.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// GetSuggestions returns the completions valid at the end of the given
// query text: the position's primary provider first, then the time-range
// overlay when the current word asks for one. It never fails; with no
// schema loaded the schema-dependent providers simply contribute nothing.
func (e *Engine) GetSuggestions(fullText string) []Suggestion {
	schema := e.registry.Current()
	qc, pos := Analyze(fullText)

	var out []Suggestion
	switch pos {
	case PositionStartOfQuery:
		if qc.AtPipe() {
			out = OperatorSuggestions()
		} else {
			out = TableSuggestions(schema)
		}
	case PositionAfterColumnKeyword, PositionAfterGroupingKeyword:
		out = ColumnSuggestions(qc, schema)
	case PositionAfterSummarize:
		out = AggregationSuggestions()
	case PositionGeneralToken:
		out = PrefixSuggestions(qc.CurrentWord, schema)
	}

	if qc.TimeOverlay() {
		out = append(out, TimeRangeSuggestions()...)
	}
	return out
}
