package catalog

import "sort"

// Entry aggregates every occurrence of one source text within one locale's
// catalog. Resources sharing the exact source text contribute their
// locations and comments to the same entry; translations behave as a set
// that prefers non-blank values.
type Entry struct {
	SourceText string
	// PreviousID carries the prior source text when the chunk drifted
	// since it was last translated.
	PreviousID string

	translations []string
	locations    []Location
	autoComments []string
	userComments []string
}

// AddTranslation records a candidate translation. Blank values are kept
// only while no non-blank value exists, so an untranslated occurrence never
// hides a translated one.
func (e *Entry) AddTranslation(value string) {
	if value == "" {
		if len(e.translations) == 0 {
			e.translations = []string{""}
		}
		return
	}
	if len(e.translations) == 1 && e.translations[0] == "" {
		e.translations = e.translations[:0]
	}
	for _, existing := range e.translations {
		if existing == value {
			return
		}
	}
	e.translations = append(e.translations, value)
}

// Translation returns the entry's effective translation: the first
// non-blank value recorded, or empty when untranslated.
func (e *Entry) Translation() string {
	for _, value := range e.translations {
		if value != "" {
			return value
		}
	}
	return ""
}

// AddLocation appends a provenance record.
func (e *Entry) AddLocation(loc Location) {
	e.locations = append(e.locations, loc)
}

// Locations returns the accumulated provenance records in insertion order.
func (e *Entry) Locations() []Location {
	return e.locations
}

// AddComment records an extracted comment (field description, prior
// translation note). Duplicates collapse.
func (e *Entry) AddComment(comment string) {
	e.autoComments = appendUnique(e.autoComments, comment)
}

// Comments returns the extracted comments in insertion order.
func (e *Entry) Comments() []string {
	return e.autoComments
}

// AddUserComment records a translator-facing comment (resource title).
// Duplicates collapse.
func (e *Entry) AddUserComment(comment string) {
	e.userComments = appendUnique(e.userComments, comment)
}

// UserComments returns the translator-facing comments in insertion order.
func (e *Entry) UserComments() []string {
	return e.userComments
}

func appendUnique(list []string, value string) []string {
	if value == "" {
		return list
	}
	for _, existing := range list {
		if existing == value {
			return list
		}
	}
	return append(list, value)
}

// Set is one locale's catalog: entries keyed by exact source text.
type Set struct {
	Locale  string
	entries map[string]*Entry
}

// NewSet constructs an empty catalog for the locale.
func NewSet(locale string) *Set {
	return &Set{Locale: locale, entries: map[string]*Entry{}}
}

// Upsert returns the entry for the source text, creating it on first use.
func (s *Set) Upsert(sourceText string) *Entry {
	entry, ok := s.entries[sourceText]
	if !ok {
		entry = &Entry{SourceText: sourceText}
		s.entries[sourceText] = entry
	}
	return entry
}

// Len reports the number of entries.
func (s *Set) Len() int {
	return len(s.entries)
}

// Entries returns the entries sorted by source text, so serialized output
// is stable across runs.
func (s *Set) Entries() []*Entry {
	out := make([]*Entry, 0, len(s.entries))
	for _, entry := range s.entries {
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].SourceText < out[j].SourceText
	})
	return out
}
