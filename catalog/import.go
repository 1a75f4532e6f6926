package catalog

import (
	"context"
	"fmt"
	"sort"

	"github.com/goliatone/go-translations/bundle"
	"github.com/goliatone/go-translations/internal/logging"
	"github.com/goliatone/go-translations/pkg/interfaces"
	"github.com/goliatone/go-translations/reconcile"
)

// ParsedFile is one decoded per-locale catalog: translations grouped back
// to the bundles they came from, keyed by bundle key string then exact
// source text.
type ParsedFile struct {
	Locale       string
	Translations map[string]map[string]string
}

// ImportResult reports what an import applied and every per-item issue it
// tolerated along the way.
type ImportResult struct {
	// Applied counts translations written per locale.
	Applied map[string]int
	// Messages lists human-readable diagnostics: unmatched source texts,
	// unused uploaded translations, unknown resources.
	Messages []string
}

func (r *ImportResult) addMessage(format string, args ...any) {
	r.Messages = append(r.Messages, fmt.Sprintf(format, args...))
}

// ImporterOption mutates importer construction.
type ImporterOption func(*Importer)

// WithImportLogger injects the logger used for import summaries.
func WithImportLogger(logger interfaces.Logger) ImporterOption {
	return func(i *Importer) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// Importer parses uploaded catalogs and merges their translations back
// through the same reconcile-and-update path an interactive edit uses.
type Importer struct {
	source   reconcile.Source
	builder  *reconcile.Builder
	updater  *reconcile.Updater
	bundles  bundle.Repository
	progress bundle.ProgressRepository
	logger   interfaces.Logger
}

// NewImporter constructs a catalog importer.
func NewImporter(source reconcile.Source, builder *reconcile.Builder, updater *reconcile.Updater, bundles bundle.Repository, progress bundle.ProgressRepository, opts ...ImporterOption) *Importer {
	i := &Importer{
		source:   source,
		builder:  builder,
		updater:  updater,
		bundles:  bundles,
		progress: progress,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Parse decodes an uploaded archive or bare PO file into per-locale
// translation maps. Every location is decoded and verified before anything
// is applied: an unknown protocol tag or a file mixing locales rejects the
// upload wholesale.
func (i *Importer) Parse(data []byte) ([]*ParsedFile, error) {
	files, err := readCatalogFiles(data)
	if err != nil {
		return nil, err
	}

	out := make([]*ParsedFile, 0, len(files))
	for _, units := range files {
		parsed := &ParsedFile{Translations: map[string]map[string]string{}}
		for _, unit := range units {
			for _, raw := range unit.Locations {
				loc, err := ParseLocation(raw)
				if err != nil {
					return nil, err
				}
				if parsed.Locale == "" {
					parsed.Locale = loc.Key.Locale
				} else if parsed.Locale != loc.Key.Locale {
					return nil, &ProtocolError{Reason: fmt.Sprintf(
						"file mixes locales %q and %q", parsed.Locale, loc.Key.Locale,
					)}
				}

				keyStr := loc.Key.String()
				bys, ok := parsed.Translations[keyStr]
				if !ok {
					bys = map[string]string{}
					parsed.Translations[keyStr] = bys
				}
				bys[unit.Source] = unit.Target
			}
		}
		if parsed.Locale == "" {
			return nil, &ProtocolError{Reason: "file contains no translation locations"}
		}
		out = append(out, parsed)
	}
	return out, nil
}

// Apply merges parsed catalogs into storage. The sweep covers every source
// resource per locale, exactly as an export does: bundles and progress
// records are forced into existence even for resources the upload never
// mentions. Each translation that matches a chunk's current source text is
// applied as an explicit edit, including blank overwrites; every unmatched
// source text and every unused upload surfaces as a diagnostic. Bundles and
// progress for one locale are saved in a single batch.
func (i *Importer) Apply(ctx context.Context, files []*ParsedFile) (*ImportResult, error) {
	resources, err := i.source.Resources(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog: list resources: %w", err)
	}

	result := &ImportResult{Applied: map[string]int{}}
	for _, file := range files {
		if err := i.applyFile(ctx, file, resources, result); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (i *Importer) applyFile(ctx context.Context, file *ParsedFile, resources []reconcile.Resource, result *ImportResult) error {
	known := make(map[string]bool, len(resources))
	for _, resource := range resources {
		known[resource.Key.String()] = true
	}

	// Uploaded keys that point at no resource are reported up front; the
	// sweep below never visits them.
	keys := make([]string, 0, len(file.Translations))
	for key := range file.Translations {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, keyStr := range keys {
		key, err := bundle.ParseKey(keyStr)
		if err != nil {
			return &ProtocolError{Reason: fmt.Sprintf("invalid bundle key %q", keyStr)}
		}
		if !known[key.Resource.String()] {
			result.addMessage("Resource %s not found; %d translation(s) ignored.", key.Resource.String(), len(file.Translations[keyStr]))
		}
	}

	var bundles []*bundle.Bundle
	var records []*bundle.ProgressRecord
	applied := 0

	for _, resource := range resources {
		key := bundle.NewKey(resource.Key, file.Locale)
		uploaded := file.Translations[key.String()]

		stored, err := bundle.LoadOrCreate(ctx, i.bundles, key)
		if err != nil {
			return err
		}
		record, err := bundle.LoadOrCreateProgress(ctx, i.progress, key.Resource)
		if err != nil {
			return err
		}
		if !record.Translatable {
			continue
		}

		_, sections, err := i.builder.Build(ctx, key, resource.Fields, stored)
		if err != nil {
			return fmt.Errorf("catalog: reconcile %q: %w", key.String(), err)
		}

		used := map[string]bool{}
		for si := range sections {
			for ci := range sections[si].Chunks {
				chunk := &sections[si].Chunks[ci]
				if chunk.SourceValue == "" {
					continue
				}
				target, ok := uploaded[chunk.SourceValue]
				if !ok {
					result.addMessage("Did not find translation for %s.", excerpt(chunk.SourceValue))
					continue
				}
				// A blank upload is an explicit overwrite, not a miss.
				chunk.TargetValue = target
				chunk.Edited = true
				used[chunk.SourceValue] = true
				applied++
			}
		}
		unused := make([]string, 0, len(uploaded))
		for source := range uploaded {
			if !used[source] {
				unused = append(unused, source)
			}
		}
		sort.Strings(unused)
		for _, source := range unused {
			result.addMessage("Translation for %s present but not used.", excerpt(source))
		}

		i.updater.Apply(key, sections, stored, record)
		bundles = append(bundles, stored)
		records = append(records, record)
	}

	if err := i.bundles.SaveAll(ctx, bundles); err != nil {
		return fmt.Errorf("catalog: save bundles for %q: %w", file.Locale, err)
	}
	if err := i.progress.SaveAll(ctx, records); err != nil {
		return fmt.Errorf("catalog: save progress for %q: %w", file.Locale, err)
	}

	result.Applied[file.Locale] += applied
	result.addMessage("Locale %s: %d translation(s) applied.", file.Locale, applied)
	i.logger.Info("catalog imported", "locale", file.Locale, "applied", applied)
	return nil
}

// excerpt shortens long source texts for diagnostics.
func excerpt(value string) string {
	const max = 40
	runes := []rune(value)
	if len(runes) <= max {
		return fmt.Sprintf("%q", value)
	}
	return fmt.Sprintf("%q...", string(runes[:max]))
}
