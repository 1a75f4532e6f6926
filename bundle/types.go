package bundle

// FieldType enumerates the translatable value types carried by a field.
type FieldType string

const (
	// FieldTypeString is a short single-line atomic value.
	FieldTypeString FieldType = "string"
	// FieldTypeText is a multi-line atomic value.
	FieldTypeText FieldType = "text"
	// FieldTypeURL is an atomic value holding a link target.
	FieldTypeURL FieldType = "url"
	// FieldTypeHTML is a composite rich value decomposed into chunks before
	// translation.
	FieldTypeHTML FieldType = "html"
)

// IsComposite reports whether values of this type are decomposed into an
// ordered chunk list rather than translated whole.
func (t FieldType) IsComposite() bool {
	return t == FieldTypeHTML
}

// IsTranslatable reports whether the field type participates in translation
// at all.
func (t FieldType) IsTranslatable() bool {
	switch t {
	case FieldTypeString, FieldTypeText, FieldTypeURL, FieldTypeHTML:
		return true
	default:
		return false
	}
}

// ChunkRecord is one stored source/target pair. Atomic fields store a single
// chunk; composite fields store one chunk per decomposed piece.
type ChunkRecord struct {
	SourceValue string `json:"source_value"`
	TargetValue string `json:"target_value"`
}

// FieldRecord is the stored translation state for one field of a resource.
// Chunks is never empty while the record exists: a field record is only
// written when at least one chunk had non-empty source text at last save.
type FieldRecord struct {
	Type FieldType `json:"type"`
	// SourceValue holds the last-seen full composed source value for
	// composite fields, used to re-decompose on the next reconciliation.
	// Empty for atomic fields.
	SourceValue string        `json:"source_value,omitempty"`
	Chunks      []ChunkRecord `json:"data"`
}

// Clone returns a deep copy of the field record.
func (f *FieldRecord) Clone() *FieldRecord {
	if f == nil {
		return nil
	}
	out := &FieldRecord{Type: f.Type, SourceValue: f.SourceValue}
	if f.Chunks != nil {
		out.Chunks = make([]ChunkRecord, len(f.Chunks))
		copy(out.Chunks, f.Chunks)
	}
	return out
}

// Bundle is the per-resource, per-locale container of field-level
// translation data, keyed in persistence by the bundle key's string form.
type Bundle struct {
	Key    Key
	Fields map[string]*FieldRecord
}

// New constructs a blank bundle for the given key.
func New(key Key) *Bundle {
	return &Bundle{Key: key, Fields: map[string]*FieldRecord{}}
}

// Field returns the stored record for a field name, or nil when absent.
func (b *Bundle) Field(name string) *FieldRecord {
	if b == nil {
		return nil
	}
	return b.Fields[name]
}

// SetField stores a field record, replacing any previous value.
func (b *Bundle) SetField(name string, record *FieldRecord) {
	if b.Fields == nil {
		b.Fields = map[string]*FieldRecord{}
	}
	b.Fields[name] = record
}

// IsEmpty reports whether the bundle carries no field records.
func (b *Bundle) IsEmpty() bool {
	return b == nil || len(b.Fields) == 0
}

// Clone returns a deep copy of the bundle. Cache layers hand out clones so
// callers can mutate merge results without corrupting shared entries.
func (b *Bundle) Clone() *Bundle {
	if b == nil {
		return nil
	}
	out := New(b.Key)
	for name, record := range b.Fields {
		out.Fields[name] = record.Clone()
	}
	return out
}
