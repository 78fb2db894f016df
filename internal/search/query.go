package search

import (
	"context"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/lampstandapp/lampstand-server/internal/domain"
)

// Params configures a verse search.
type Params struct {
	Query    string
	ModuleID string // scope to one translation, empty = all
	Book     string // scope to one book, empty = all

	Limit  int
	Offset int

	Highlight bool
}

// DefaultParams returns sensible defaults.
func DefaultParams() Params {
	return Params{Limit: 20, Highlight: true}
}

// Result represents the search results.
type Result struct {
	Query  string `json:"query"`
	Total  uint64 `json:"total"`
	TookMs int64  `json:"took_ms"`
	Hits   []Hit  `json:"hits"`
}

// Hit represents a single matching verse.
type Hit struct {
	Ref       domain.VerseRef `json:"ref"`
	ModuleID  string          `json:"module_id"`
	Reference string          `json:"reference"`
	Text      string          `json:"text"`
	Score     float64         `json:"score"`
	Fragments []string        `json:"fragments,omitempty"`
}

// Search executes a verse search.
func (s *VerseIndex) Search(ctx context.Context, params Params) (*Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if params.Limit <= 0 {
		params.Limit = 20
	}

	req := bleve.NewSearchRequestOptions(buildQuery(params), params.Limit, params.Offset, false)
	req.Fields = []string{"module_id", "book", "chapter", "verse", "reference", "text"}
	if params.Highlight {
		req.Highlight = bleve.NewHighlight()
		req.Highlight.AddField("text")
	}

	res, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, err
	}

	out := &Result{
		Query:  params.Query,
		Total:  res.Total,
		TookMs: res.Took.Milliseconds(),
		Hits:   make([]Hit, 0, len(res.Hits)),
	}
	for _, hit := range res.Hits {
		h := Hit{
			ModuleID:  fieldString(hit.Fields, "module_id"),
			Reference: fieldString(hit.Fields, "reference"),
			Text:      fieldString(hit.Fields, "text"),
			Score:     hit.Score,
			Ref: domain.VerseRef{
				Book:    fieldString(hit.Fields, "book"),
				Chapter: fieldInt(hit.Fields, "chapter"),
				Verse:   fieldInt(hit.Fields, "verse"),
			},
		}
		for _, frags := range hit.Fragments {
			h.Fragments = append(h.Fragments, frags...)
		}
		out.Hits = append(out.Hits, h)
	}
	return out, nil
}

// buildQuery combines the text match with module/book scope filters.
func buildQuery(params Params) query.Query {
	text := bleve.NewMatchQuery(NormalizeText(params.Query))
	text.SetField("text")

	conjuncts := []query.Query{text}
	if params.ModuleID != "" {
		q := bleve.NewTermQuery(params.ModuleID)
		q.SetField("module_id")
		conjuncts = append(conjuncts, q)
	}
	if params.Book != "" {
		q := bleve.NewTermQuery(params.Book)
		q.SetField("book")
		conjuncts = append(conjuncts, q)
	}

	if len(conjuncts) == 1 {
		return text
	}
	return bleve.NewConjunctionQuery(conjuncts...)
}

func fieldString(fields map[string]any, name string) string {
	if v, ok := fields[name].(string); ok {
		return v
	}
	return ""
}

func fieldInt(fields map[string]any, name string) int {
	if v, ok := fields[name].(float64); ok {
		return int(v)
	}
	return 0
}
