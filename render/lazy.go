package render

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-translations/bundle"
	"github.com/goliatone/go-translations/internal/logging"
	"github.com/goliatone/go-translations/pkg/interfaces"
)

// Status reports the outcome of resolving a lazy value.
type Status int

const (
	// StatusNotStarted indicates the value has not been resolved or there
	// was nothing to translate.
	StatusNotStarted Status = 0
	// StatusValid indicates the resolved value is a complete, up-to-date
	// translation.
	StatusValid Status = 1
	// StatusInvalid indicates the resolved value fell back to stale or
	// untranslated content because the source drifted.
	StatusInvalid Status = 2
)

func (s Status) String() string {
	switch s {
	case StatusNotStarted:
		return "not_started"
	case StatusValid:
		return "valid"
	case StatusInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Annotator wraps fallback output with a visible diagnostic for viewers
// authorized to see translation internals. Implementations typically add an
// error banner and an edit link; unauthorized viewers get the plain body.
type Annotator interface {
	Annotate(key bundle.Key, fieldName, errMessage, body string) string
}

// Option mutates a lazy value during construction.
type Option func(*LazyValue)

// WithAnnotator wires the diagnostic annotator applied to invalid output.
func WithAnnotator(annotator Annotator) Option {
	return func(v *LazyValue) {
		v.annotator = annotator
	}
}

// WithLogger injects the logger used when resolution degrades.
func WithLogger(logger interfaces.Logger) Option {
	return func(v *LazyValue) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// LazyValue stands in for one field's source value wherever it is read,
// resolving the translated form at most once and caching it for the
// object's lifetime. Resolution never fails: drifted or missing pieces fall
// back through stale stored data to the untranslated source, so translation
// can never break rendering of the underlying document.
type LazyValue struct {
	key         bundle.Key
	fieldName   string
	source      string
	record      *bundle.FieldRecord
	transformer interfaces.ContentTransformer
	aligner     interfaces.Aligner
	annotator   Annotator
	logger      interfaces.Logger

	resolved bool
	value    string
	status   Status
	errm     string
}

// NewLazyValue binds a lazy value to one field's bundle data. The record
// may be nil when no translation has been stored yet.
func NewLazyValue(key bundle.Key, fieldName, currentSource string, record *bundle.FieldRecord, transformer interfaces.ContentTransformer, aligner interfaces.Aligner, opts ...Option) *LazyValue {
	v := &LazyValue{
		key:         key,
		fieldName:   fieldName,
		source:      currentSource,
		record:      record,
		transformer: transformer,
		aligner:     aligner,
		logger:      logging.NoOp(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Resolve computes the translated value, caching the result. Subsequent
// calls return the cached form.
func (v *LazyValue) Resolve() string {
	if v.resolved {
		return v.value
	}
	v.resolved = true
	v.value = v.resolve()
	return v.value
}

// String implements fmt.Stringer by resolving the value.
func (v *LazyValue) String() string { return v.Resolve() }

// Len returns the length of the resolved value.
func (v *LazyValue) Len() int { return len(v.Resolve()) }

// Upper returns the resolved value upper-cased.
func (v *LazyValue) Upper() string { return strings.ToUpper(v.Resolve()) }

// Lower returns the resolved value lower-cased.
func (v *LazyValue) Lower() string { return strings.ToLower(v.Resolve()) }

// Concat returns the resolved value with the suffix appended.
func (v *LazyValue) Concat(suffix string) string { return v.Resolve() + suffix }

// Format interpolates the resolved value as a format string.
func (v *LazyValue) Format(args ...any) string {
	return fmt.Sprintf(v.Resolve(), args...)
}

// Status reports the resolution outcome; StatusNotStarted before Resolve.
func (v *LazyValue) Status() Status { return v.status }

// ErrorMessage returns the drift diagnostic when the status is invalid.
func (v *LazyValue) ErrorMessage() string { return v.errm }

func (v *LazyValue) resolve() string {
	// Blank source strings carry nothing to translate.
	if strings.TrimSpace(v.source) == "" {
		return ""
	}
	if v.record == nil || len(v.record.Chunks) == 0 {
		return v.source
	}

	if v.record.Type.IsComposite() {
		return v.resolveComposite()
	}

	v.status = StatusValid
	return v.record.Chunks[0].TargetValue
}

// resolveComposite substitutes stored translations into the current source
// structure. Every step reports failure explicitly; the fallback chain is
// current structure with stored targets, then last-known-good stored
// structure, then the untranslated source.
func (v *LazyValue) resolveComposite() string {
	v.status = StatusInvalid

	dec, err := v.transformer.Decompose(v.source)
	if err != nil {
		v.logger.Warn("decompose failed at render time", "key", v.key.String(), "field", v.fieldName, "error", err)
		v.errm = err.Error()
		return v.annotate(v.errm, v.fallback(v.source))
	}

	storedSources := make([]string, len(v.record.Chunks))
	for i, chunk := range v.record.Chunks {
		storedSources[i] = chunk.SourceValue
	}

	misses := 0
	if len(dec.Chunks) < len(storedSources) {
		misses = len(storedSources) - len(dec.Chunks)
	}

	substituted := make([]string, 0, len(dec.Chunks))
	for i, alignment := range v.aligner.Align(storedSources, dec.Chunks) {
		if alignment.Verb == interfaces.VerbCurrent && alignment.OldIndex >= 0 && alignment.OldIndex < len(v.record.Chunks) {
			substituted = append(substituted, v.record.Chunks[alignment.OldIndex].TargetValue)
			continue
		}
		// Drifted or missing pieces fall back to the untranslated source
		// chunk; structural content is never rendered blank.
		misses++
		substituted = append(substituted, dec.Chunks[i])
	}

	body, errs := v.transformer.Recompose(dec, substituted)
	if misses == 0 && len(errs) == 0 {
		v.status = StatusValid
		return body
	}

	parts := "parts"
	are := "are"
	if misses == 1 {
		parts = "part"
		are = "is"
	}
	v.errm = fmt.Sprintf("The content has changed and %d %s of the translation %s out of date.", misses, parts, are)
	return v.annotate(v.errm, v.fallback(body))
}

// fallback attempts the last known good rendering: all stored targets
// substituted into the stored source structure, ignoring current drift.
func (v *LazyValue) fallback(defaultBody string) string {
	dec, err := v.transformer.Decompose(v.record.SourceValue)
	if err != nil {
		v.logger.Warn("fallback decompose failed", "key", v.key.String(), "field", v.fieldName, "error", err)
		return defaultBody
	}

	targets := make([]string, len(v.record.Chunks))
	for i, chunk := range v.record.Chunks {
		targets[i] = chunk.TargetValue
	}
	if len(dec.Chunks) != len(targets) {
		return defaultBody
	}

	body, errs := v.transformer.Recompose(dec, targets)
	if len(errs) > 0 {
		return defaultBody
	}
	return body
}

func (v *LazyValue) annotate(errMessage, body string) string {
	if v.annotator == nil {
		return body
	}
	return v.annotator.Annotate(v.key, v.fieldName, errMessage, body)
}
