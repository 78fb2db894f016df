package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/lampstandapp/lampstand-server/internal/domain"
)

func (s *Server) registerTextRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getChapter",
		Method:      http.MethodGet,
		Path:        "/api/v1/text/{module}/{book}/{chapter}",
		Summary:     "Get chapter text",
		Description: "Returns every verse of one chapter from a translation module",
		Tags:        []string{"Text"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetChapter)

	huma.Register(s.api, huma.Operation{
		OperationID: "getVerse",
		Method:      http.MethodGet,
		Path:        "/api/v1/text/{module}/{book}/{chapter}/{verse}",
		Summary:     "Get verse text",
		Description: "Returns a single verse from a translation module",
		Tags:        []string{"Text"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetVerse)
}

// ChapterInput identifies one chapter of a module.
type ChapterInput struct {
	Module  string `path:"module" doc:"Module ID, e.g. KJV"`
	Book    string `path:"book" doc:"OSIS book code, e.g. John"`
	Chapter int    `path:"chapter" minimum:"1" doc:"Chapter number"`
}

// ChapterOutput wraps a chapter's verses for Huma.
type ChapterOutput struct {
	Body struct {
		ModuleID string          `json:"module_id"`
		Book     string          `json:"book"`
		Chapter  int             `json:"chapter"`
		Verses   []*domain.Verse `json:"verses" doc:"Verses in order"`
	}
}

// VerseInput identifies one verse of a module.
type VerseInput struct {
	Module  string `path:"module" doc:"Module ID"`
	Book    string `path:"book" doc:"OSIS book code"`
	Chapter int    `path:"chapter" minimum:"1" doc:"Chapter number"`
	Verse   int    `path:"verse" minimum:"1" doc:"Verse number"`
}

// VerseOutput wraps a verse for Huma.
type VerseOutput struct {
	Body domain.Verse
}

func (s *Server) handleGetChapter(ctx context.Context, input *ChapterInput) (*ChapterOutput, error) {
	verses, err := s.services.Provider.Chapter(ctx, input.Module, input.Book, input.Chapter)
	if err != nil {
		return nil, err
	}

	out := &ChapterOutput{}
	out.Body.ModuleID = input.Module
	out.Body.Book = input.Book
	out.Body.Chapter = input.Chapter
	out.Body.Verses = verses
	return out, nil
}

func (s *Server) handleGetVerse(ctx context.Context, input *VerseInput) (*VerseOutput, error) {
	verse, err := s.services.Provider.Verse(ctx, input.Module, domain.VerseRef{
		Book:    input.Book,
		Chapter: input.Chapter,
		Verse:   input.Verse,
	})
	if err != nil {
		return nil, err
	}
	return &VerseOutput{Body: *verse}, nil
}
