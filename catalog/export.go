package catalog

import (
	"context"
	"fmt"
	"io"

	"github.com/goliatone/go-translations/bundle"
	"github.com/goliatone/go-translations/internal/logging"
	"github.com/goliatone/go-translations/pkg/interfaces"
	"github.com/goliatone/go-translations/reconcile"
)

// Scope selects which chunks an export includes.
type Scope string

const (
	// ScopeAll exports every chunk, translated or not.
	ScopeAll Scope = "all"
	// ScopeNewOrStale exports only chunks needing translator attention,
	// skipping up-to-date ones.
	ScopeNewOrStale Scope = "new_or_stale"
)

// Valid reports whether the scope is one of the known values.
func (s Scope) Valid() bool {
	return s == ScopeAll || s == ScopeNewOrStale
}

// ExporterOption mutates exporter construction.
type ExporterOption func(*Exporter)

// WithExportLogger injects the logger used for per-locale summaries.
func WithExportLogger(logger interfaces.Logger) ExporterOption {
	return func(e *Exporter) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// Exporter walks every resource for each requested locale, reconciles it
// exactly as an interactive edit-and-save would, and aggregates the
// resulting chunks into per-locale catalogs. Reconciling on the way out is
// deliberate: exporting forces bundle and progress records into existence
// so a later import always finds them.
type Exporter struct {
	source   reconcile.Source
	builder  *reconcile.Builder
	updater  *reconcile.Updater
	bundles  bundle.Repository
	progress bundle.ProgressRepository
	logger   interfaces.Logger
}

// NewExporter constructs a catalog exporter.
func NewExporter(source reconcile.Source, builder *reconcile.Builder, updater *reconcile.Updater, bundles bundle.Repository, progress bundle.ProgressRepository, opts ...ExporterOption) *Exporter {
	e := &Exporter{
		source:   source,
		builder:  builder,
		updater:  updater,
		bundles:  bundles,
		progress: progress,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export builds the catalogs for the locales and writes them as one zip
// archive.
func (e *Exporter) Export(ctx context.Context, w io.Writer, locales []string, scope Scope) error {
	sets, err := e.BuildSets(ctx, locales, scope)
	if err != nil {
		return err
	}
	return WriteArchive(w, sets)
}

// BuildSets reconciles every resource for each locale and collects the
// chunks into catalog sets. All bundles and progress records touched for a
// locale are saved in one batch, so an interrupted run leaves no
// per-resource partial state behind.
func (e *Exporter) BuildSets(ctx context.Context, locales []string, scope Scope) ([]*Set, error) {
	if !scope.Valid() {
		return nil, fmt.Errorf("catalog: unknown export scope %q", scope)
	}
	resources, err := e.source.Resources(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog: list resources: %w", err)
	}

	sets := make([]*Set, 0, len(locales))
	for _, locale := range locales {
		set := NewSet(locale)
		bundles := make([]*bundle.Bundle, 0, len(resources))
		records := make([]*bundle.ProgressRecord, 0, len(resources))

		for _, resource := range resources {
			key := bundle.Key{Resource: resource.Key, Locale: locale}

			stored, err := bundle.LoadOrCreate(ctx, e.bundles, key)
			if err != nil {
				return nil, err
			}
			record, err := bundle.LoadOrCreateProgress(ctx, e.progress, resource.Key)
			if err != nil {
				return nil, err
			}
			if !record.Translatable {
				continue
			}

			_, sections, err := e.builder.Build(ctx, key, resource.Fields, stored)
			if err != nil {
				return nil, fmt.Errorf("catalog: reconcile %q: %w", key.String(), err)
			}
			e.updater.Apply(key, sections, stored, record)

			collect(set, key, resource.Title, sections, scope)
			bundles = append(bundles, stored)
			records = append(records, record)
		}

		if err := e.bundles.SaveAll(ctx, bundles); err != nil {
			return nil, fmt.Errorf("catalog: save bundles for %q: %w", locale, err)
		}
		if err := e.progress.SaveAll(ctx, records); err != nil {
			return nil, fmt.Errorf("catalog: save progress for %q: %w", locale, err)
		}

		e.logger.Info("catalog built",
			"locale", locale,
			"scope", string(scope),
			"resources", len(bundles),
			"entries", set.Len(),
		)
		sets = append(sets, set)
	}
	return sets, nil
}

// collect folds one resource's classified sections into the locale's
// catalog. Empty-source chunks carry nothing; up-to-date chunks are skipped
// entirely under the new-or-stale scope.
func collect(set *Set, key bundle.Key, title string, sections []reconcile.Section, scope Scope) {
	for _, section := range sections {
		for _, chunk := range section.Chunks {
			if chunk.SourceValue == "" {
				continue
			}
			if scope == ScopeNewOrStale && chunk.Verb == reconcile.VerbCurrent {
				continue
			}

			entry := set.Upsert(chunk.SourceValue)
			entry.AddLocation(Location{
				FieldName: section.Name,
				FieldType: section.Type,
				Key:       key,
			})
			entry.AddUserComment(title)
			entry.AddComment(section.Description)

			if chunk.Verb == reconcile.VerbChanged {
				// The stored translation belongs to the drifted source:
				// offer it as context, not as the live translation.
				entry.PreviousID = chunk.OldSourceValue
				entry.AddTranslation("")
				if chunk.TargetValue != "" {
					entry.AddComment(fmt.Sprintf("Previously translated as: %q", chunk.TargetValue))
				}
				continue
			}
			entry.AddTranslation(chunk.TargetValue)
		}
	}
}
