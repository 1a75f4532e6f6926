package cache

import (
	"context"

	"github.com/goliatone/go-translations/bundle"
)

// Getter is the read surface the operation view memoizes; BundleCache
// satisfies it, as does any repository adapter used when the shared cache
// is disabled.
type Getter interface {
	Get(ctx context.Context, key bundle.Key) (*bundle.Bundle, error)
}

// OperationView is the per-operation layer of the two-tier cache: it
// memoizes bundle reads for the lifetime of a single operation so repeated
// reads of the same key cost one underlying fetch and observe one
// consistent value, even if the shared cache refreshes mid-operation.
//
// A view belongs to exactly one operation and is not safe for concurrent
// use. Discard it when the operation completes.
type OperationView struct {
	source Getter
	seen   map[string]*bundle.Bundle
}

// NewOperationView constructs a view over the shared cache or repository.
func NewOperationView(source Getter) *OperationView {
	return &OperationView{
		source: source,
		seen:   map[string]*bundle.Bundle{},
	}
}

// Get returns the bundle for the key, fetching from the underlying source
// at most once per key. Absent bundles are memoized as nil.
func (v *OperationView) Get(ctx context.Context, key bundle.Key) (*bundle.Bundle, error) {
	keyStr := key.String()
	if cached, ok := v.seen[keyStr]; ok {
		return cached, nil
	}
	value, err := v.source.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	v.seen[keyStr] = value
	return value, nil
}

// Put records a bundle just written by the operation so later reads within
// the same operation observe it.
func (v *OperationView) Put(key bundle.Key, b *bundle.Bundle) {
	v.seen[key.String()] = b
}

// Forget drops the memoized entry for the key, forcing the next read
// through to the source.
func (v *OperationView) Forget(key bundle.Key) {
	delete(v.seen, key.String())
}
