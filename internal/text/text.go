// Package text supplies verse text and module metadata to the tagging
// core. The core only reads from it; installing and removing modules is
// the modules package's job.
package text

import (
	"context"

	"github.com/lampstandapp/lampstand-server/internal/domain"
	"github.com/lampstandapp/lampstand-server/internal/store"
)

// ErrVerseNotFound is returned when a module has no text for a reference.
var ErrVerseNotFound = store.ErrNotFound.WithMessage("verse not found in module")

// ErrModuleNotFound is returned for an unknown module id.
var ErrModuleNotFound = store.ErrNotFound.WithMessage("text module not found")

// Provider retrieves verse text from installed translation modules.
type Provider interface {
	// Verse returns one verse, with its text as stored (HTML markup).
	Verse(ctx context.Context, moduleID string, ref domain.VerseRef) (*domain.Verse, error)
	// Chapter returns all verses of a chapter in verse order.
	Chapter(ctx context.Context, moduleID, book string, chapter int) ([]*domain.Verse, error)
	// Modules lists the installed modules.
	Modules(ctx context.Context) ([]*domain.Module, error)
}
