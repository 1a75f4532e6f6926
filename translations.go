// Package translations reconciles the translatable content of a
// multi-locale document collection against stored, human-produced
// translation bundles. It classifies every field chunk as new, stale or
// current, merges translator edits back in while deriving per-locale
// progress, renders translated values lazily with deterministic fallback,
// and moves whole locales in and out of the system as portable PO
// catalogs.
package translations

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/goliatone/go-translations/bundle"
	"github.com/goliatone/go-translations/catalog"
	"github.com/goliatone/go-translations/internal/cache"
	"github.com/goliatone/go-translations/internal/di"
	"github.com/goliatone/go-translations/internal/logging"
	"github.com/goliatone/go-translations/pkg/interfaces"
	"github.com/goliatone/go-translations/reconcile"
	"github.com/goliatone/go-translations/render"
)

// ErrSourceRequired indicates an operation that enumerates resources was
// called without wiring an extraction layer.
var ErrSourceRequired = errors.New("translations: no resource source configured; use di.WithSource")

// ErrResourceUnknown indicates the requested resource is not part of the
// document collection.
var ErrResourceUnknown = errors.New("translations: unknown resource")

// Re-exported contracts so consumers rarely need the inner packages.
type (
	// Section is one field's classification for an editing pass.
	Section = reconcile.Section
	// SourceField is one current field value from the extraction layer.
	SourceField = reconcile.SourceField
	// Resource is one translatable unit of the document collection.
	Resource = reconcile.Resource
	// Source enumerates the collection's resources.
	Source = reconcile.Source
	// ImportResult reports what a catalog import applied.
	ImportResult = catalog.ImportResult
	// Scope selects which chunks an export includes.
	Scope = catalog.Scope
	// FieldReport is the render outcome for one field.
	FieldReport = render.FieldReport
)

const (
	// ScopeAll exports every chunk.
	ScopeAll = catalog.ScopeAll
	// ScopeNewOrStale exports only chunks needing translator attention.
	ScopeNewOrStale = catalog.ScopeNewOrStale
	// PseudoLocale is the reverse-case test locale.
	PseudoLocale = catalog.PseudoLocale
)

// Module is the top-level runtime facade.
type Module struct {
	container *di.Container
	logger    interfaces.Logger
}

// New constructs a module from the configuration plus optional DI
// overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{
		container: container,
		logger:    logging.ModuleLogger(container.LoggerProvider(), "module"),
	}, nil
}

// Container exposes the underlying DI container for advanced
// integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Operation opens a read scope: repeated bundle reads within it resolve at
// most once and observe one consistent value. Operations are single-use
// and not safe for concurrent access; open one per editor request or
// render pass.
func (m *Module) Operation() *Operation {
	return &Operation{
		module: m,
		view:   cache.NewOperationView(m.container.BundleGetter()),
	}
}

// Operation is a per-request read scope over the shared cache.
type Operation struct {
	module *Module
	view   *cache.OperationView
}

// Sections reconciles one resource against its stored bundle for the key's
// locale and returns the classified sections in schema order.
func (op *Operation) Sections(ctx context.Context, key bundle.Key) ([]Section, error) {
	resource, err := op.module.resource(ctx, key.Resource)
	if err != nil {
		return nil, err
	}

	stored, err := op.view.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	index, sections, err := op.module.container.Builder().Build(ctx, key, resource.Fields, stored)
	if err != nil {
		return nil, err
	}
	index.Sort(sections)
	return sections, nil
}

// Value resolves one field's translated value lazily. The returned value
// never fails to render: drifted or missing pieces fall back through the
// last known good translation to the untranslated source.
func (op *Operation) Value(ctx context.Context, key bundle.Key, fieldName string) (*render.LazyValue, error) {
	resource, err := op.module.resource(ctx, key.Resource)
	if err != nil {
		return nil, err
	}

	var current string
	found := false
	for _, field := range resource.Fields {
		if field.Name == fieldName {
			current = field.Value
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("translations: resource %q has no field %q", key.Resource.String(), fieldName)
	}

	stored, err := op.view.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	c := op.module.container
	opts := []render.Option{render.WithLogger(logging.RenderLogger(c.LoggerProvider()))}
	if annotator := c.Annotator(); annotator != nil {
		opts = append(opts, render.WithAnnotator(annotator))
	}
	return render.NewLazyValue(key, fieldName, current, stored.Field(fieldName), c.Transformer(), c.Aligner(), opts...), nil
}

// Report resolves every field of the resource and returns the per-field
// render status, for translators validating their work before saving.
func (op *Operation) Report(ctx context.Context, key bundle.Key) (map[string]FieldReport, error) {
	resource, err := op.module.resource(ctx, key.Resource)
	if err != nil {
		return nil, err
	}
	stored, err := op.view.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(resource.Fields))
	for _, field := range resource.Fields {
		if field.Type.IsTranslatable() {
			names = append(names, field.Name)
		}
	}
	c := op.module.container
	return render.Report(key, names, stored, c.Transformer(), c.Aligner()), nil
}

// Sections is a convenience wrapper opening a one-shot operation.
func (m *Module) Sections(ctx context.Context, key bundle.Key) ([]Section, error) {
	return m.Operation().Sections(ctx, key)
}

// Value is a convenience wrapper opening a one-shot operation.
func (m *Module) Value(ctx context.Context, key bundle.Key, fieldName string) (*render.LazyValue, error) {
	return m.Operation().Value(ctx, key, fieldName)
}

// SaveSections merges edited sections into the stored bundle, recomputes
// the locale's progress, and persists both. The records are loaded fresh
// from the repository: a merge never works from a cached copy.
func (m *Module) SaveSections(ctx context.Context, key bundle.Key, sections []Section) error {
	c := m.container
	stored, err := bundle.LoadOrCreate(ctx, c.BundleRepository(), key)
	if err != nil {
		return err
	}
	record, err := bundle.LoadOrCreateProgress(ctx, c.ProgressRepository(), key.Resource)
	if err != nil {
		return err
	}

	c.Updater().Apply(key, sections, stored, record)

	if err := c.BundleRepository().Save(ctx, stored); err != nil {
		return err
	}
	if err := c.ProgressRepository().Save(ctx, record); err != nil {
		return err
	}
	if shared := c.BundleCache(); shared != nil {
		shared.Put(stored)
	}
	m.logger.Debug("sections saved", "key", key.String(), "progress", record.ProgressFor(key.Locale).String())
	return nil
}

// purgeCache drops the shared cache after a bulk write so readers refill
// from persistence.
func (m *Module) purgeCache() {
	if shared := m.container.BundleCache(); shared != nil {
		shared.Purge()
	}
}

// Export builds the catalogs for the locales and writes them to w as one
// zip archive.
func (m *Module) Export(ctx context.Context, w io.Writer, locales []string, scope Scope) error {
	exporter := m.container.Exporter()
	if exporter == nil {
		return ErrSourceRequired
	}
	if err := exporter.Export(ctx, w, locales, scope); err != nil {
		return err
	}
	// Exporting forces bundle and progress creation for every resource.
	m.purgeCache()
	return nil
}

// Import parses an uploaded archive or PO file and merges its translations
// back in through the interactive edit path.
func (m *Module) Import(ctx context.Context, data []byte) (*ImportResult, error) {
	importer := m.container.Importer()
	if importer == nil {
		return nil, ErrSourceRequired
	}
	files, err := importer.Parse(data)
	if err != nil {
		return nil, err
	}
	result, err := importer.Apply(ctx, files)
	if err != nil {
		return nil, err
	}
	m.purgeCache()
	return result, nil
}

// DeleteLocales retires locales. Progress entries are cleared across all
// resources first, then bundle data is deleted per locale, so a failure
// partway leaves only re-derivable state behind.
func (m *Module) DeleteLocales(ctx context.Context, locales ...string) error {
	c := m.container
	records, err := c.ProgressRepository().LoadAll(ctx)
	if err != nil {
		return err
	}
	for _, record := range records {
		for _, locale := range locales {
			record.ClearProgress(locale)
		}
	}
	if err := c.ProgressRepository().SaveAll(ctx, records); err != nil {
		return err
	}

	for _, locale := range locales {
		removed, err := c.BundleRepository().DeleteAllForLocale(ctx, locale)
		if err != nil {
			return err
		}
		m.logger.Info("locale deleted", "locale", locale, "bundles_removed", removed)
	}
	m.purgeCache()
	return nil
}

// SetTranslatable toggles whether a resource participates in translation.
// Untranslatable resources keep their stored bundles but are skipped by
// exports and progress sweeps.
func (m *Module) SetTranslatable(ctx context.Context, resource bundle.ResourceKey, translatable bool) error {
	record, err := bundle.LoadOrCreateProgress(ctx, m.container.ProgressRepository(), resource)
	if err != nil {
		return err
	}
	record.Translatable = translatable
	return m.container.ProgressRepository().Save(ctx, record)
}

// Progress returns the resource's progress record; a blank record when
// none is stored yet.
func (m *Module) Progress(ctx context.Context, resource bundle.ResourceKey) (*bundle.ProgressRecord, error) {
	return bundle.LoadOrCreateProgress(ctx, m.container.ProgressRepository(), resource)
}

// RecomputeProgress sweeps every resource for the locales, reconciling
// each against its stored bundle and rewriting the derived progress. Run
// it after bulk source-content changes to bring the dashboard up to date.
func (m *Module) RecomputeProgress(ctx context.Context, locales ...string) error {
	return m.sweep(ctx, locales, nil)
}

// Pseudotranslate fills the reverse-case test locale for every resource:
// each chunk's translation becomes its source text with the case of every
// letter swapped, which makes untranslated strings obvious in rendered
// output.
func (m *Module) Pseudotranslate(ctx context.Context) error {
	return m.sweep(ctx, []string{PseudoLocale}, func(chunk *reconcile.Chunk) {
		chunk.TargetValue = catalog.ReverseCase(chunk.SourceValue)
		chunk.Edited = true
	})
}

// sweep runs builder plus updater across every resource for each locale,
// optionally mutating chunks in between, and saves per locale in one
// batch.
func (m *Module) sweep(ctx context.Context, locales []string, mutate func(*reconcile.Chunk)) error {
	c := m.container
	source := c.Source()
	if source == nil {
		return ErrSourceRequired
	}
	resources, err := source.Resources(ctx)
	if err != nil {
		return err
	}

	for _, locale := range locales {
		bundles := make([]*bundle.Bundle, 0, len(resources))
		records := make([]*bundle.ProgressRecord, 0, len(resources))

		for _, resource := range resources {
			key := bundle.NewKey(resource.Key, locale)
			stored, err := bundle.LoadOrCreate(ctx, c.BundleRepository(), key)
			if err != nil {
				return err
			}
			record, err := bundle.LoadOrCreateProgress(ctx, c.ProgressRepository(), resource.Key)
			if err != nil {
				return err
			}
			if !record.Translatable {
				continue
			}

			_, sections, err := c.Builder().Build(ctx, key, resource.Fields, stored)
			if err != nil {
				return err
			}
			if mutate != nil {
				for si := range sections {
					for ci := range sections[si].Chunks {
						mutate(&sections[si].Chunks[ci])
					}
				}
			}
			c.Updater().Apply(key, sections, stored, record)
			bundles = append(bundles, stored)
			records = append(records, record)
		}

		if err := c.BundleRepository().SaveAll(ctx, bundles); err != nil {
			return err
		}
		if err := c.ProgressRepository().SaveAll(ctx, records); err != nil {
			return err
		}
	}
	m.purgeCache()
	return nil
}

func (m *Module) resource(ctx context.Context, key bundle.ResourceKey) (Resource, error) {
	source := m.container.Source()
	if source == nil {
		return Resource{}, ErrSourceRequired
	}
	resources, err := source.Resources(ctx)
	if err != nil {
		return Resource{}, err
	}
	for _, resource := range resources {
		if resource.Key == key {
			return resource, nil
		}
	}
	return Resource{}, fmt.Errorf("%w: %s", ErrResourceUnknown, key.String())
}
