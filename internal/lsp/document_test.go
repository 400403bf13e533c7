package lsp

import (
	"testing"
)

func TestDocumentStore_OpenGetClose(t *testing.T) {
	store := NewDocumentStore()

	uri := "file:///test/query.kql"
	content := "requests\n| where duration > 100"

	// Open document
	store.Open(uri, content, 1)

	// Get document
	doc := store.Get(uri)
	if doc == nil {
		t.Fatal("expected document to exist")
	}
	if doc.URI != uri {
		t.Errorf("expected URI %s, got %s", uri, doc.URI)
	}
	if doc.Content != content {
		t.Errorf("expected content %q, got %q", content, doc.Content)
	}
	if doc.Version != 1 {
		t.Errorf("expected version 1, got %d", doc.Version)
	}

	// Close document
	store.Close(uri)
	doc = store.Get(uri)
	if doc != nil {
		t.Error("expected document to be nil after close")
	}
}

func TestDocumentStore_Update(t *testing.T) {
	store := NewDocumentStore()

	uri := "file:///test/query.kql"
	store.Open(uri, "requests", 1)

	// Update
	store.Update(uri, "requests\n| take 10", 2)

	doc := store.Get(uri)
	if doc.Content != "requests\n| take 10" {
		t.Errorf("expected updated content, got %q", doc.Content)
	}
	if doc.Version != 2 {
		t.Errorf("expected version 2, got %d", doc.Version)
	}
	if len(doc.Lines) != 2 {
		t.Errorf("expected line offsets to be recomputed, got %v", doc.Lines)
	}
}

func TestDocumentStore_UpdateUnknownURI(t *testing.T) {
	store := NewDocumentStore()

	// Update on a document that was never opened is a no-op.
	store.Update("file:///missing.kql", "requests", 1)

	if doc := store.Get("file:///missing.kql"); doc != nil {
		t.Error("expected update on unknown URI not to create a document")
	}
}

func TestComputeLineOffsets(t *testing.T) {
	tests := []struct {
		content  string
		expected []int
	}{
		{"", []int{0}},
		{"abc", []int{0}},
		{"a\nb", []int{0, 2}},
		{"a\nb\nc", []int{0, 2, 4}},
		{"\n\n\n", []int{0, 1, 2, 3}},
		{"requests\n| take 10", []int{0, 9}},
	}

	for _, tt := range tests {
		offsets := computeLineOffsets(tt.content)
		if len(offsets) != len(tt.expected) {
			t.Errorf("content %q: expected %d offsets, got %d", tt.content, len(tt.expected), len(offsets))
			continue
		}
		for i, exp := range tt.expected {
			if offsets[i] != exp {
				t.Errorf("content %q: offset[%d] expected %d, got %d", tt.content, i, exp, offsets[i])
			}
		}
	}
}

func TestDocument_PositionToOffset(t *testing.T) {
	content := "line0\nline1\nline2"
	doc := &Document{
		Content: content,
		Lines:   computeLineOffsets(content),
	}

	tests := []struct {
		pos      Position
		expected int
	}{
		{Position{Line: 0, Character: 0}, 0},
		{Position{Line: 0, Character: 3}, 3},
		{Position{Line: 0, Character: 5}, 5},
		{Position{Line: 1, Character: 0}, 6},
		{Position{Line: 1, Character: 4}, 10},
		{Position{Line: 2, Character: 0}, 12},
		{Position{Line: 2, Character: 5}, 17},
		// Edge cases
		{Position{Line: 100, Character: 0}, len(content)}, // Line beyond document
		{Position{Line: 0, Character: 100}, len(content)}, // Character beyond line
	}

	for _, tt := range tests {
		offset := doc.PositionToOffset(tt.pos)
		if offset != tt.expected {
			t.Errorf("PositionToOffset(%v): expected %d, got %d", tt.pos, tt.expected, offset)
		}
	}
}

func TestDocument_OffsetToPosition(t *testing.T) {
	content := "line0\nline1\nline2"
	doc := &Document{
		Content: content,
		Lines:   computeLineOffsets(content),
	}

	tests := []struct {
		offset   int
		expected Position
	}{
		{0, Position{Line: 0, Character: 0}},
		{3, Position{Line: 0, Character: 3}},
		{5, Position{Line: 0, Character: 5}},
		{6, Position{Line: 1, Character: 0}},
		{10, Position{Line: 1, Character: 4}},
		{12, Position{Line: 2, Character: 0}},
		{17, Position{Line: 2, Character: 5}},
		// Edge cases
		{-1, Position{Line: 0, Character: 0}},  // Negative offset
		{100, Position{Line: 2, Character: 5}}, // Beyond end
	}

	for _, tt := range tests {
		pos := doc.OffsetToPosition(tt.offset)
		if pos.Line != tt.expected.Line || pos.Character != tt.expected.Character {
			t.Errorf("OffsetToPosition(%d): expected %v, got %v", tt.offset, tt.expected, pos)
		}
	}
}

func TestDocument_GetWordAtPosition(t *testing.T) {
	content := "requests\n| where duration > 100"
	doc := &Document{
		Content: content,
		Lines:   computeLineOffsets(content),
	}

	tests := []struct {
		pos          Position
		expectedWord string
	}{
		{Position{Line: 0, Character: 0}, "requests"},
		{Position{Line: 0, Character: 4}, "requests"},
		{Position{Line: 0, Character: 8}, "requests"}, // Cursor just after the word
		{Position{Line: 1, Character: 3}, "where"},
		{Position{Line: 1, Character: 9}, "duration"},
		{Position{Line: 1, Character: 22}, "100"},      // Cursor at end of document
		{Position{Line: 1, Character: 0}, ""},          // On the pipe
		{Position{Line: 1, Character: 16}, "duration"}, // Cursor just past the word
	}

	for _, tt := range tests {
		word, _ := doc.GetWordAtPosition(tt.pos)
		if word != tt.expectedWord {
			t.Errorf("GetWordAtPosition(%v): expected %q, got %q", tt.pos, tt.expectedWord, word)
		}
	}
}

func TestDocument_GetWordAtPositionRange(t *testing.T) {
	content := "requests | where"
	doc := &Document{
		Content: content,
		Lines:   computeLineOffsets(content),
	}

	word, r := doc.GetWordAtPosition(Position{Line: 0, Character: 13})
	if word != "where" {
		t.Fatalf("expected word %q, got %q", "where", word)
	}
	if r.Start.Character != 11 || r.End.Character != 16 {
		t.Errorf("expected range [11,16), got [%d,%d)", r.Start.Character, r.End.Character)
	}
}

func TestDocument_GetTextBefore(t *testing.T) {
	content := "requests\n| where "
	doc := &Document{
		Content: content,
		Lines:   computeLineOffsets(content),
	}

	tests := []struct {
		pos      Position
		expected string
	}{
		{Position{Line: 0, Character: 0}, ""},
		{Position{Line: 0, Character: 8}, "requests"},
		{Position{Line: 1, Character: 0}, "requests\n"},
		{Position{Line: 1, Character: 8}, "requests\n| where "},
	}

	for _, tt := range tests {
		text := doc.GetTextBefore(tt.pos)
		if text != tt.expected {
			t.Errorf("GetTextBefore(%v): expected %q, got %q", tt.pos, tt.expected, text)
		}
	}
}

func TestIsWordChar(t *testing.T) {
	wordChars := "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789_"
	nonWordChars := " \t\n!@#$%^&*()-+=[]{}|;':\",./<>?"

	for _, c := range wordChars {
		if !isWordChar(byte(c)) {
			t.Errorf("isWordChar(%q): expected true", c)
		}
	}

	for _, c := range nonWordChars {
		if isWordChar(byte(c)) {
			t.Errorf("isWordChar(%q): expected false", c)
		}
	}
}
