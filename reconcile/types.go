package reconcile

import (
	"github.com/goliatone/go-translations/bundle"
	"github.com/goliatone/go-translations/pkg/interfaces"
)

// Verb classifies a chunk against previously stored data. See
// interfaces.VerbNew, interfaces.VerbChanged and interfaces.VerbCurrent.
type Verb = interfaces.Verb

const (
	VerbNew     = interfaces.VerbNew
	VerbChanged = interfaces.VerbChanged
	VerbCurrent = interfaces.VerbCurrent
)

// SourceField is one translatable field produced by the extraction layer
// for a resource, in schema declaration order. Name is the canonical field
// path: segments joined with ':', array positions encoded as "[n]"
// segments.
type SourceField struct {
	Name        string
	Label       string
	Type        bundle.FieldType
	Value       string
	Description string
}

// Chunk is the classification result for one atomic translatable unit
// during a reconciliation pass. It never persists directly; only the merge
// result derived by the Updater does.
type Chunk struct {
	SourceValue string
	// OldSourceValue preserves the stored source text the aligner paired
	// this chunk with, for translator reference when the verb is
	// VerbChanged.
	OldSourceValue string
	TargetValue    string
	Verb           Verb
	// Edited marks chunks whose target was explicitly set by a translator
	// (or an importer) during the current operation.
	Edited bool
}

// Section is the ephemeral, in-memory classification output for one field
// during one reconciliation pass.
type Section struct {
	Name  string
	Label string
	Type  bundle.FieldType
	// SourceValue carries the full composed source value for composite
	// fields; empty for atomic fields.
	SourceValue string
	Description string
	Chunks      []Chunk
}

// hasSourceText reports whether any chunk carries non-empty source text.
// Sections without source text have nothing to translate and are dropped.
func (s Section) hasSourceText() bool {
	for _, chunk := range s.Chunks {
		if chunk.SourceValue != "" {
			return true
		}
	}
	return false
}
