package lsp

import (
	"fmt"
	"strings"

	"github.com/loglens-labs/kqlens/pkg/kql"
)

// getCompletions returns completion items for the given position. The engine
// derives context from the trailing tokens of the text typed so far, so only
// the content before the caret is handed to it.
func (s *Server) getCompletions(params CompletionParams) []CompletionItem {
	doc := s.documents.Get(params.TextDocument.URI)
	if doc == nil {
		return nil
	}

	suggestions := s.engine.GetSuggestions(doc.GetTextBefore(params.Position))

	items := make([]CompletionItem, 0, len(suggestions))
	for rank, sug := range suggestions {
		items = append(items, s.completionItem(rank, sug))
	}
	return items
}

// completionItem maps one engine suggestion onto the wire type. SortText
// pins the engine's provider order; clients must not re-rank it.
func (s *Server) completionItem(rank int, sug kql.Suggestion) CompletionItem {
	item := CompletionItem{
		Label:            sug.Label,
		Kind:             completionKind(sug.Kind),
		Detail:           sug.Kind.String(),
		Documentation:    sug.Description,
		SortText:         fmt.Sprintf("%04d", rank),
		FilterText:       sug.Value,
		InsertText:       sug.InsertText,
		InsertTextFormat: InsertTextFormatPlainText,
	}

	if strings.Contains(sug.InsertText, "$1") {
		if s.snippetSupport {
			item.InsertTextFormat = InsertTextFormatSnippet
		} else {
			item.InsertText = strings.ReplaceAll(sug.InsertText, "$1", "")
		}
	}
	return item
}

// completionKind maps suggestion kinds onto LSP completion item kinds.
func completionKind(kind kql.Kind) CompletionItemKind {
	switch kind {
	case kql.KindKeyword:
		return CompletionItemKindKeyword
	case kql.KindFunction:
		return CompletionItemKindFunction
	case kql.KindTable:
		return CompletionItemKindClass
	case kql.KindColumn:
		return CompletionItemKindField
	case kql.KindTimeRange:
		return CompletionItemKindValue
	default:
		return CompletionItemKindText
	}
}

// getHover returns hover information for the word under the cursor.
func (s *Server) getHover(params HoverParams) *Hover {
	doc := s.documents.Get(params.TextDocument.URI)
	if doc == nil {
		return nil
	}

	word, wordRange := doc.GetWordAtPosition(params.Position)
	if word == "" {
		return nil
	}

	if content := s.hoverContent(doc, word); content != "" {
		return &Hover{
			Contents: MarkupContent{Kind: MarkupKindMarkdown, Value: content},
			Range:    &wordRange,
		}
	}
	return nil
}

// hoverContent resolves a word against operators, functions, and the loaded
// schema, in that order.
func (s *Server) hoverContent(doc *Document, word string) string {
	if op := kql.LookupOperator(word); op != nil {
		return fmt.Sprintf("**%s** (operator)\n\n%s", op.Name, op.Description)
	}

	if fn := kql.LookupFunction(word); fn != nil {
		content := fmt.Sprintf("**%s**\n\n%s", fn.Signature, fn.Description)
		if fn.IsAggregate {
			content += "\n\n*Aggregation function*"
		}
		return content
	}

	schema := s.engine.Registry().Current()
	if schema == nil {
		return ""
	}

	if table := schema.TableByName(word); table != nil {
		content := fmt.Sprintf("**%s** (table)", table.Name)
		if table.Description != "" {
			content += "\n\n" + table.Description
		}
		content += fmt.Sprintf("\n\n%d columns", len(table.Columns))
		return content
	}

	// Columns resolve against the table this query reads from.
	if table := kql.ExtractCurrentTable(doc.Content, schema); table != nil {
		for _, col := range table.Columns {
			if col.Name == word {
				content := fmt.Sprintf("**%s.%s**: %s", table.Name, col.Name, col.Type)
				if col.Description != "" {
					content += "\n\n" + col.Description
				}
				return content
			}
		}
	}
	return ""
}
