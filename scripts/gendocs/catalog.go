package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/loglens-labs/kqlens/pkg/kql"
)

// generateCatalogDocs generates reference pages for the built-in suggestion
// catalog and the query templates.
func generateCatalogDocs(outDir string) error {
	log.Printf("Generating catalog docs to %s", outDir)

	// Create output directory
	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := generateCatalogPage(outDir); err != nil {
		return fmt.Errorf("failed to generate catalog.md: %w", err)
	}
	log.Printf("  Generated catalog.md")

	if err := generateTemplatesPage(outDir); err != nil {
		return fmt.Errorf("failed to generate templates.md: %w", err)
	}
	log.Printf("  Generated templates.md")

	return nil
}

// functionCategories fixes the section order for the scalar function tables.
var functionCategories = []struct {
	Category kql.FunctionCategory
	Title    string
}{
	{kql.CategoryString, "String Functions"},
	{kql.CategoryDateTime, "Datetime Functions"},
	{kql.CategoryNumeric, "Numeric Functions"},
	{kql.CategoryConversion, "Conversion Functions"},
	{kql.CategoryDynamic, "Dynamic Functions"},
	{kql.CategoryCondition, "Condition Functions"},
}

// generateCatalogPage generates the operator, keyword, and function reference.
func generateCatalogPage(outDir string) error {
	w := NewMarkdownWriter()

	// Frontmatter
	w.Frontmatter("Suggestion Catalog", "Operators, keywords, and functions known to the kqlens engine")
	w.GeneratedMarker()

	// Title and intro
	w.Header(1, "Suggestion Catalog")
	w.Paragraph("kqlens offers these entries even without a schema loaded. Tables and columns come from the active schema and are not listed here.")

	// Operators
	w.Header(2, "Query Operators")
	w.Paragraph("Offered immediately after a pipe (`|`). Operators also take part in prefix matching elsewhere in the query.")

	opHeaders := []string{"Operator", "Description"}
	var opRows [][]string
	for _, op := range kql.CoreOperators {
		opRows = append(opRows, []string{InlineCode(op.Name), op.Description})
	}
	w.Table(opHeaders, opRows)

	// Keywords
	w.Header(2, "Keywords")
	w.Paragraph("Matched by prefix inside a query stage:")

	kwHeaders := []string{"Keyword", "Description"}
	var kwRows [][]string
	for _, kw := range kql.Keywords {
		kwRows = append(kwRows, []string{InlineCode(kw.Name), kw.Description})
	}
	w.Table(kwHeaders, kwRows)

	// Scalar functions, one section per category
	w.Header(2, "Scalar Functions")
	w.Paragraph("Function suggestions insert a snippet with the cursor placed between the parentheses.")

	fnHeaders := []string{"Function", "Signature", "Description"}
	for _, cat := range functionCategories {
		var fnRows [][]string
		for _, fn := range kql.Functions {
			if fn.Category != cat.Category {
				continue
			}
			fnRows = append(fnRows, []string{InlineCode(fn.Name), InlineCode(fn.Signature), fn.Description})
		}
		if len(fnRows) == 0 {
			continue
		}
		w.Header(3, cat.Title)
		w.Table(fnHeaders, fnRows)
	}

	// Aggregations
	w.Header(2, "Aggregation Functions")
	w.Paragraph("Valid only in a `summarize` clause. These are the entries offered right after `summarize`.")

	var aggRows [][]string
	for _, fn := range kql.AggregationFunctions {
		aggRows = append(aggRows, []string{InlineCode(fn.Name), InlineCode(fn.Signature), fn.Description})
	}
	w.Table(fnHeaders, aggRows)

	// Time ranges
	w.Header(2, "Time Range Literals")
	w.Paragraph("Offered when the word under the cursor mentions `ago` or `between`. Literals are inserted verbatim.")

	trHeaders := []string{"Literal", "Description"}
	var trRows [][]string
	for _, tr := range kql.TimeRanges {
		trRows = append(trRows, []string{InlineCode(tr.Text), tr.Description})
	}
	w.Table(trHeaders, trRows)

	// Write file
	filename := filepath.Join(outDir, "catalog.md")
	return os.WriteFile(filename, w.Bytes(), 0600)
}

// generateTemplatesPage generates the query template reference.
func generateTemplatesPage(outDir string) error {
	w := NewMarkdownWriter()

	// Frontmatter
	w.Frontmatter("Query Templates", "Ready-made KQL queries offered for an empty editor")
	w.GeneratedMarker()

	// Title and intro
	w.Header(1, "Query Templates")
	w.Paragraph("Templates are full query skeletons for common investigations. They are offered when the editor is empty and listed by `kqlens templates`. Placeholders like `<table>` are meant to be replaced after insertion.")

	for _, tpl := range kql.QueryTemplates() {
		w.Header(2, tpl.Name)
		w.Paragraph(tpl.Description)
		w.CodeBlock("kql", tpl.Template)
	}

	// Write file
	filename := filepath.Join(outDir, "templates.md")
	return os.WriteFile(filename, w.Bytes(), 0600)
}
