package reconcile

import (
	"context"

	"github.com/goliatone/go-translations/bundle"
)

// Resource is one translatable unit of content as supplied by the
// extraction layer: its identity, a human-facing title, and its current
// field values in schema declaration order.
type Resource struct {
	Key    bundle.ResourceKey
	Title  string
	Fields []SourceField
}

// Source enumerates the document collection's translatable resources.
// Implementations adapt whatever backs the collection (markdown trees,
// CMS entries) to the reconciliation engine.
type Source interface {
	Resources(ctx context.Context) ([]Resource, error)
}
