// Package storage provides the persistence implementations behind the
// bundle repository contracts: an in-memory store for tests and embedded
// use, and a bun-backed store for SQL deployments.
package storage

import (
	"context"
	"sync"

	"github.com/goliatone/go-translations/bundle"
	"github.com/goliatone/go-translations/pkg/interfaces"
)

// MemoryBundleRepository is a thread-safe in-memory bundle store. Values
// are cloned on the way in and out so callers can never alias stored state.
type MemoryBundleRepository struct {
	mu      sync.RWMutex
	bundles map[string]*bundle.Bundle
}

// NewMemoryBundleRepository constructs an empty in-memory bundle store.
func NewMemoryBundleRepository() *MemoryBundleRepository {
	return &MemoryBundleRepository{bundles: map[string]*bundle.Bundle{}}
}

// Load returns the bundle for the key or bundle.ErrBundleNotFound.
func (r *MemoryBundleRepository) Load(ctx context.Context, key bundle.Key) (*bundle.Bundle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bundles[key.String()]
	if !ok {
		return nil, &bundle.NotFoundError{Kind: "bundle", Key: key.String()}
	}
	return b.Clone(), nil
}

// LoadAll returns every stored bundle.
func (r *MemoryBundleRepository) LoadAll(ctx context.Context) ([]*bundle.Bundle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*bundle.Bundle, 0, len(r.bundles))
	for _, b := range r.bundles {
		out = append(out, b.Clone())
	}
	return out, nil
}

// LoadAllForLocale returns every stored bundle whose key targets the locale.
func (r *MemoryBundleRepository) LoadAllForLocale(ctx context.Context, locale string) ([]*bundle.Bundle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*bundle.Bundle
	for _, b := range r.bundles {
		if b.Key.Locale == locale {
			out = append(out, b.Clone())
		}
	}
	return out, nil
}

// Save stores the bundle, replacing any previous value for its key.
func (r *MemoryBundleRepository) Save(ctx context.Context, b *bundle.Bundle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bundles[b.Key.String()] = b.Clone()
	return nil
}

// SaveAll stores every bundle in one call.
func (r *MemoryBundleRepository) SaveAll(ctx context.Context, bundles []*bundle.Bundle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range bundles {
		r.bundles[b.Key.String()] = b.Clone()
	}
	return nil
}

// DeleteAllForLocale removes every bundle targeting the locale and reports
// how many were removed.
func (r *MemoryBundleRepository) DeleteAllForLocale(ctx context.Context, locale string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for key, b := range r.bundles {
		if b.Key.Locale == locale {
			delete(r.bundles, key)
			removed++
		}
	}
	return removed, nil
}

// MemoryProgressRepository is a thread-safe in-memory progress store.
type MemoryProgressRepository struct {
	mu      sync.RWMutex
	records map[string]*bundle.ProgressRecord
}

// NewMemoryProgressRepository constructs an empty in-memory progress store.
func NewMemoryProgressRepository() *MemoryProgressRepository {
	return &MemoryProgressRepository{records: map[string]*bundle.ProgressRecord{}}
}

// Load returns the progress record for the resource or
// bundle.ErrProgressNotFound.
func (r *MemoryProgressRepository) Load(ctx context.Context, key bundle.ResourceKey) (*bundle.ProgressRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.records[key.String()]
	if !ok {
		return nil, &bundle.NotFoundError{Kind: "progress", Key: key.String()}
	}
	return record.Clone(), nil
}

// LoadAll returns every stored progress record.
func (r *MemoryProgressRepository) LoadAll(ctx context.Context) ([]*bundle.ProgressRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*bundle.ProgressRecord, 0, len(r.records))
	for _, record := range r.records {
		out = append(out, record.Clone())
	}
	return out, nil
}

// Save stores the progress record, replacing any previous value.
func (r *MemoryProgressRepository) Save(ctx context.Context, record *bundle.ProgressRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[record.Resource.String()] = record.Clone()
	return nil
}

// SaveAll stores every progress record in one call.
func (r *MemoryProgressRepository) SaveAll(ctx context.Context, records []*bundle.ProgressRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, record := range records {
		r.records[record.Resource.String()] = record.Clone()
	}
	return nil
}

// MemoryTranslationMemory is a per-locale source-to-target lookup table
// satisfying the translation memory contract.
type MemoryTranslationMemory struct {
	mu      sync.RWMutex
	locales map[string]map[string]string
}

// NewMemoryTranslationMemory constructs an empty translation memory.
func NewMemoryTranslationMemory() *MemoryTranslationMemory {
	return &MemoryTranslationMemory{locales: map[string]map[string]string{}}
}

// Put records a known translation for the locale.
func (m *MemoryTranslationMemory) Put(locale, sourceText, targetText string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	table, ok := m.locales[locale]
	if !ok {
		table = map[string]string{}
		m.locales[locale] = table
	}
	table[sourceText] = targetText
}

// Lookup returns the remembered translation or
// interfaces.ErrTranslationMissing.
func (m *MemoryTranslationMemory) Lookup(ctx context.Context, locale, sourceText string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if target, ok := m.locales[locale][sourceText]; ok {
		return target, nil
	}
	return "", interfaces.ErrTranslationMissing
}
