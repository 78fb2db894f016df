package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the Bleve index mapping for verse documents.
//
// Priorities:
//  1. Full-text search on verse text with English stemming
//  2. Exact keyword matching on module and book for scoping
//  3. Numeric chapter/verse fields for range queries
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	// Verse text - primary search target, term vectors for highlighting.
	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = en.AnalyzerName
	textFieldMapping.Store = true
	textFieldMapping.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt("text", textFieldMapping)

	// Human-readable reference, stored for display only.
	refFieldMapping := bleve.NewTextFieldMapping()
	refFieldMapping.Analyzer = keyword.Name
	refFieldMapping.Store = true
	refFieldMapping.Index = false
	docMapping.AddFieldMappingsAt("reference", refFieldMapping)

	// Module and book filters need exact matches, no stemming.
	moduleFieldMapping := bleve.NewTextFieldMapping()
	moduleFieldMapping.Analyzer = keyword.Name
	moduleFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("module_id", moduleFieldMapping)

	bookFieldMapping := bleve.NewTextFieldMapping()
	bookFieldMapping.Analyzer = keyword.Name
	bookFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("book", bookFieldMapping)

	chapterFieldMapping := bleve.NewNumericFieldMapping()
	chapterFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("chapter", chapterFieldMapping)

	verseFieldMapping := bleve.NewNumericFieldMapping()
	verseFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("verse", verseFieldMapping)

	indexMapping.DefaultMapping = docMapping
	return indexMapping
}
