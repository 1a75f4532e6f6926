package reconcile

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-translations/bundle"
	"github.com/goliatone/go-translations/internal/logging"
	"github.com/goliatone/go-translations/pkg/interfaces"
)

// ErrTransformerRequired indicates the builder was constructed without a
// content transformer.
var ErrTransformerRequired = errors.New("reconcile: content transformer is required")

// ErrAlignerRequired indicates the builder was constructed without an
// alignment oracle.
var ErrAlignerRequired = errors.New("reconcile: aligner is required")

// BuilderOption mutates the builder configuration.
type BuilderOption func(*Builder)

// WithTranslationMemory wires the best-effort translation memory used to
// pre-fill brand-new chunks for non-source locales.
func WithTranslationMemory(memory interfaces.TranslationMemory) BuilderOption {
	return func(b *Builder) {
		b.memory = memory
	}
}

// WithSourceLocale sets the document collection's source locale. Builds
// targeting this locale skip translation-memory defaults.
func WithSourceLocale(locale string) BuilderOption {
	return func(b *Builder) {
		if locale != "" {
			b.sourceLocale = locale
		}
	}
}

// WithBuilderLogger injects the logger used for best-effort diagnostics.
func WithBuilderLogger(logger interfaces.Logger) BuilderOption {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// Builder reconciles a resource's current field values against its stored
// translation bundle, classifying every chunk as new, stale or current.
type Builder struct {
	transformer  interfaces.ContentTransformer
	aligner      interfaces.Aligner
	memory       interfaces.TranslationMemory
	sourceLocale string
	logger       interfaces.Logger
}

// NewBuilder constructs a section builder. The transformer decomposes
// composite values; the aligner pairs current chunks with stored ones.
func NewBuilder(transformer interfaces.ContentTransformer, aligner interfaces.Aligner, opts ...BuilderOption) *Builder {
	b := &Builder{
		transformer:  transformer,
		aligner:      aligner,
		sourceLocale: "en",
		logger:       logging.NoOp(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build produces the schema index and classified sections for one bundle
// key. Fields come from the extraction layer in schema declaration order;
// stored may be nil when no bundle exists yet. Sections whose chunks are
// all empty-source are dropped. The returned sections preserve field order;
// callers needing deterministic display order sort via the index.
func (b *Builder) Build(ctx context.Context, key bundle.Key, fields []SourceField, stored *bundle.Bundle) (*SchemaIndex, []Section, error) {
	if b.transformer == nil {
		return nil, nil, ErrTransformerRequired
	}
	if b.aligner == nil {
		return nil, nil, ErrAlignerRequired
	}

	index := NewSchemaIndex(fields)
	sections := make([]Section, 0, len(fields))

	for _, field := range fields {
		if !field.Type.IsTranslatable() {
			continue
		}

		var section Section
		var err error
		if field.Type.IsComposite() {
			section, err = b.buildComposite(field, stored.Field(field.Name))
			if err != nil {
				return nil, nil, fmt.Errorf("reconcile: build field %q: %w", field.Name, err)
			}
		} else {
			section = buildAtomic(field, stored.Field(field.Name))
		}

		if !section.hasSourceText() {
			continue
		}
		sections = append(sections, section)
	}

	if key.Locale != b.sourceLocale {
		b.applyMemoryDefaults(ctx, key.Locale, sections)
	}
	return index, sections, nil
}

// buildComposite decomposes the current value and aligns it against the
// stored chunk list. Matched chunks carry the stored translation (possibly
// stale); unmatched chunks start blank.
func (b *Builder) buildComposite(field SourceField, record *bundle.FieldRecord) (Section, error) {
	dec, err := b.transformer.Decompose(field.Value)
	if err != nil {
		return Section{}, err
	}

	var storedSources []string
	if record != nil {
		storedSources = make([]string, len(record.Chunks))
		for i, chunk := range record.Chunks {
			storedSources[i] = chunk.SourceValue
		}
	}

	alignments := b.aligner.Align(storedSources, dec.Chunks)
	chunks := make([]Chunk, 0, len(dec.Chunks))
	for i, source := range dec.Chunks {
		chunk := Chunk{SourceValue: source, Verb: VerbNew}
		if i < len(alignments) {
			chunk.Verb = alignments[i].Verb
			if old := alignments[i].OldIndex; record != nil && old >= 0 && old < len(record.Chunks) {
				chunk.OldSourceValue = record.Chunks[old].SourceValue
				chunk.TargetValue = record.Chunks[old].TargetValue
			}
		}
		chunks = append(chunks, chunk)
	}

	return Section{
		Name:        field.Name,
		Label:       field.Label,
		Type:        field.Type,
		SourceValue: field.Value,
		Description: field.Description,
		Chunks:      chunks,
	}, nil
}

// buildAtomic treats the field as a single-chunk list classified directly
// against the stored record.
func buildAtomic(field SourceField, record *bundle.FieldRecord) Section {
	chunk := Chunk{SourceValue: field.Value, Verb: VerbNew}
	if record != nil && len(record.Chunks) > 0 {
		stored := record.Chunks[0]
		chunk.TargetValue = stored.TargetValue
		if stored.SourceValue == field.Value {
			chunk.Verb = VerbCurrent
		} else {
			chunk.Verb = VerbChanged
			chunk.OldSourceValue = stored.SourceValue
		}
	}
	return Section{
		Name:        field.Name,
		Label:       field.Label,
		Type:        field.Type,
		Description: field.Description,
		Chunks:      []Chunk{chunk},
	}
}

// applyMemoryDefaults pre-fills brand-new chunks from the translation
// memory. A hit is offered as an unconfirmed translation: the chunk is
// re-tagged VerbChanged so translators must accept it. Lookup failures are
// tolerated; the chunk is left untouched.
func (b *Builder) applyMemoryDefaults(ctx context.Context, locale string, sections []Section) {
	if b.memory == nil {
		return
	}
	for si := range sections {
		for ci := range sections[si].Chunks {
			chunk := &sections[si].Chunks[ci]
			if chunk.Verb != VerbNew || chunk.SourceValue == "" {
				continue
			}
			target, err := b.memory.Lookup(ctx, locale, chunk.SourceValue)
			if err != nil {
				if !errors.Is(err, interfaces.ErrTranslationMissing) {
					b.logger.Debug("translation memory lookup failed", "locale", locale, "error", err)
				}
				continue
			}
			if target == "" || target == chunk.SourceValue {
				continue
			}
			chunk.TargetValue = target
			chunk.Verb = VerbChanged
		}
	}
}
