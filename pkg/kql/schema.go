// Package kql implements a context-aware autocompletion engine for
// KQL-style queries: pipe-delimited sequences of tabular operators over a
// dynamically discovered workspace schema. Given the text typed so far it
// classifies the grammatical position (start of query, after a pipe, after
// a column-taking keyword, mid-identifier) and produces the suggestions
// valid there: tables, columns, operators, functions, and time-range
// literals.
package kql

// Column describes one column of a table.
type Column struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// Table describes one queryable table and its columns, in declaration order.
type Table struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Columns     []Column `json:"columns"`
}

// Schema is the set of tables known for a single workspace. It is owned by
// a Registry and replaced wholesale on every successful load; readers must
// treat it as immutable.
type Schema struct {
	Tables []Table `json:"tables"`
}

// TableByName returns the table with the given name, matched case-sensitively,
// or nil if the schema holds no such table.
func (s *Schema) TableByName(name string) *Table {
	if s == nil {
		return nil
	}
	for i := range s.Tables {
		if s.Tables[i].Name == name {
			return &s.Tables[i]
		}
	}
	return nil
}

// TableNames returns the table names in schema order.
func (s *Schema) TableNames() []string {
	if s == nil {
		return nil
	}
	names := make([]string, len(s.Tables))
	for i, t := range s.Tables {
		names[i] = t.Name
	}
	return names
}
