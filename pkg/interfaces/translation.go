package interfaces

import (
	"context"
	"errors"
)

// ErrTranslationMissing is returned when a translation-memory lookup finds
// no entry for the requested source text.
var ErrTranslationMissing = errors.New("translation missing")

// TranslationMemory is a best-effort lookup of previously seen
// source-to-target pairs, keyed by exact source text and independent of any
// specific resource. Implementations return ErrTranslationMissing for
// absent entries; any other error is tolerated by callers, which leave the
// chunk untouched rather than fail a build.
type TranslationMemory interface {
	Lookup(ctx context.Context, locale, sourceText string) (string, error)
}
