package kql

import (
	"encoding/json"
	"testing"
)

func testSchema() *Schema {
	return &Schema{Tables: []Table{
		{Name: "A", Description: "first table", Columns: []Column{
			{Name: "X", Type: "string"},
			{Name: "Y", Type: "long", Description: "a count"},
		}},
		{Name: "B", Columns: []Column{
			{Name: "Z", Type: "datetime"},
		}},
	}}
}

func kindValues(suggestions []Suggestion) map[Kind][]string {
	out := make(map[Kind][]string)
	for _, s := range suggestions {
		out[s.Kind] = append(out[s.Kind], s.Value)
	}
	return out
}

func TestTableSuggestions(t *testing.T) {
	got := TableSuggestions(testSchema())
	if len(got) != 2 {
		t.Fatalf("TableSuggestions returned %d suggestions, want 2", len(got))
	}
	if got[0].Value != "A" || got[1].Value != "B" {
		t.Errorf("TableSuggestions order = [%s %s], want [A B]", got[0].Value, got[1].Value)
	}
	for _, s := range got {
		if s.Kind != KindTable {
			t.Errorf("table suggestion %q has kind %v", s.Value, s.Kind)
		}
		if s.InsertText != s.Value {
			t.Errorf("table suggestion %q inserts %q", s.Value, s.InsertText)
		}
	}
	if got[0].Description != "first table" {
		t.Errorf("table A description = %q", got[0].Description)
	}
}

func TestTableSuggestionsNoSchema(t *testing.T) {
	if got := TableSuggestions(nil); len(got) != 0 {
		t.Errorf("TableSuggestions(nil) returned %d suggestions, want 0", len(got))
	}
}

func TestOperatorSuggestions(t *testing.T) {
	want := []string{"where", "project", "extend", "summarize", "take", "sort", "join", "union"}

	got := OperatorSuggestions()
	if len(got) != len(want) {
		t.Fatalf("OperatorSuggestions returned %d suggestions, want %d", len(got), len(want))
	}
	seen := make(map[string]bool)
	for _, s := range got {
		if s.Kind != KindKeyword {
			t.Errorf("operator %q has kind %v, want keyword", s.Value, s.Kind)
		}
		if s.Description == "" {
			t.Errorf("operator %q has no description", s.Value)
		}
		seen[s.Value] = true
	}
	for _, op := range want {
		if !seen[op] {
			t.Errorf("OperatorSuggestions missing %q", op)
		}
	}
}

func TestColumnSuggestions(t *testing.T) {
	schema := testSchema()

	tests := []struct {
		name     string
		fullText string
		want     []string
	}{
		{"resolved table", "A\n| where ", []string{"X", "Y"}},
		{"other table", "B\n| project ", []string{"Z"}},
		{"unresolved table", "Unknown\n| where ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qc, _ := Analyze(tt.fullText)
			got := ColumnSuggestions(qc, schema)
			if len(got) != len(tt.want) {
				t.Fatalf("ColumnSuggestions = %d suggestions, want %d", len(got), len(tt.want))
			}
			for i, want := range tt.want {
				if got[i].Value != want {
					t.Errorf("column[%d] = %q, want %q", i, got[i].Value, want)
				}
				if got[i].Kind != KindColumn {
					t.Errorf("column %q has kind %v", got[i].Value, got[i].Kind)
				}
			}
		})
	}
}

func TestColumnSuggestionsNoSchema(t *testing.T) {
	qc, _ := Analyze("A\n| where ")
	if got := ColumnSuggestions(qc, nil); len(got) != 0 {
		t.Errorf("ColumnSuggestions without schema = %d suggestions, want 0", len(got))
	}
}

func TestColumnDescriptionIncludesType(t *testing.T) {
	qc, _ := Analyze("A\n| where ")
	got := ColumnSuggestions(qc, testSchema())
	if got[0].Description != "string" {
		t.Errorf("column X description = %q, want %q", got[0].Description, "string")
	}
	if got[1].Description != "long: a count" {
		t.Errorf("column Y description = %q, want %q", got[1].Description, "long: a count")
	}
}

func TestAggregationSuggestions(t *testing.T) {
	got := AggregationSuggestions()
	if len(got) != len(AggregationFunctions) {
		t.Fatalf("AggregationSuggestions = %d, want %d", len(got), len(AggregationFunctions))
	}
	if got[0].Value != "count" {
		t.Errorf("first aggregation = %q, want count", got[0].Value)
	}
	for _, s := range got {
		if s.Kind != KindFunction {
			t.Errorf("aggregation %q has kind %v", s.Value, s.Kind)
		}
		if s.InsertText == "" {
			t.Errorf("aggregation %q has empty insert text", s.Value)
		}
	}
}

func TestPrefixSuggestions(t *testing.T) {
	schema := testSchema()

	t.Run("su matches case-insensitively", func(t *testing.T) {
		got := kindValues(PrefixSuggestions("su", schema))

		wantKeywords := map[string]bool{"summarize": true}
		for _, kw := range got[KindKeyword] {
			if !wantKeywords[kw] {
				t.Errorf("unexpected keyword %q for prefix su", kw)
			}
			delete(wantKeywords, kw)
		}
		for kw := range wantKeywords {
			t.Errorf("missing keyword %q for prefix su", kw)
		}

		wantFuncs := map[string]bool{"substring": true, "sum": true, "sumif": true}
		for _, fn := range got[KindFunction] {
			if !wantFuncs[fn] {
				t.Errorf("unexpected function %q for prefix su", fn)
			}
			delete(wantFuncs, fn)
		}
		for fn := range wantFuncs {
			t.Errorf("missing function %q for prefix su", fn)
		}

		if len(got[KindTable]) != 0 {
			t.Errorf("unexpected tables %v for prefix su", got[KindTable])
		}
	})

	t.Run("uppercase prefix matches", func(t *testing.T) {
		got := kindValues(PrefixSuggestions("SU", schema))
		found := false
		for _, fn := range got[KindFunction] {
			if fn == "substring" {
				found = true
			}
		}
		if !found {
			t.Error("prefix SU did not match substring")
		}
	})

	t.Run("tables match by prefix", func(t *testing.T) {
		got := kindValues(PrefixSuggestions("a", schema))
		foundA := false
		for _, name := range got[KindTable] {
			if name == "A" {
				foundA = true
			}
			if name == "B" {
				t.Error("prefix a matched table B")
			}
		}
		if !foundA {
			t.Error("prefix a did not match table A")
		}
	})

	t.Run("empty word matches everything", func(t *testing.T) {
		got := PrefixSuggestions("", schema)
		want := len(CoreOperators) + len(Keywords) + len(Functions) + len(AggregationFunctions) + len(schema.Tables)
		if len(got) != want {
			t.Errorf("empty prefix returned %d suggestions, want %d", len(got), want)
		}
	})

	t.Run("no schema still yields keywords and functions", func(t *testing.T) {
		got := kindValues(PrefixSuggestions("w", nil))
		if len(got[KindKeyword]) == 0 {
			t.Error("prefix w returned no keywords without schema")
		}
	})
}

func TestTimeRangeSuggestions(t *testing.T) {
	got := TimeRangeSuggestions()
	if len(got) != len(TimeRanges) {
		t.Fatalf("TimeRangeSuggestions = %d, want %d", len(got), len(TimeRanges))
	}
	for _, s := range got {
		if s.Kind != KindTimeRange {
			t.Errorf("time range %q has kind %v", s.Value, s.Kind)
		}
		if s.InsertText != s.Value {
			t.Errorf("time range %q inserts %q", s.Value, s.InsertText)
		}
	}
}

func TestKindText(t *testing.T) {
	tests := []struct {
		kind Kind
		text string
	}{
		{KindKeyword, "keyword"},
		{KindFunction, "function"},
		{KindTable, "table"},
		{KindColumn, "column"},
		{KindTimeRange, "timerange"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.text {
			t.Errorf("Kind(%d).String() = %q, want %q", int(tt.kind), got, tt.text)
		}
		var k Kind
		if err := k.UnmarshalText([]byte(tt.text)); err != nil {
			t.Errorf("UnmarshalText(%q) error: %v", tt.text, err)
		} else if k != tt.kind {
			t.Errorf("UnmarshalText(%q) = %v, want %v", tt.text, k, tt.kind)
		}
	}

	var k Kind
	if err := k.UnmarshalText([]byte("bogus")); err == nil {
		t.Error("UnmarshalText(bogus) did not fail")
	}
}

func TestSuggestionJSONShape(t *testing.T) {
	s := Suggestion{Kind: KindFunction, Value: "sum", Label: "sum", Description: "Sum of all values in the group", InsertText: "sum($1)"}
	raw, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, field := range []string{"type", "value", "label", "description", "insertText"} {
		if _, ok := decoded[field]; !ok {
			t.Errorf("serialized suggestion missing field %q", field)
		}
	}
	if decoded["type"] != "function" {
		t.Errorf("serialized type = %v, want function", decoded["type"])
	}
}
