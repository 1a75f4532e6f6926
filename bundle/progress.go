package bundle

// Progress is the per-locale aggregate translation completeness state for
// one resource. States are ordered: NotStarted < InProgress < Done.
type Progress int

const (
	// ProgressNotStarted indicates no chunk of the resource has a usable
	// translation for the locale.
	ProgressNotStarted Progress = 0
	// ProgressInProgress indicates at least one chunk is translated or
	// carries a stale-but-filled translation.
	ProgressInProgress Progress = 1
	// ProgressDone indicates every chunk has an up-to-date translation.
	ProgressDone Progress = 2
)

func (p Progress) String() string {
	switch p {
	case ProgressNotStarted:
		return "not_started"
	case ProgressInProgress:
		return "in_progress"
	case ProgressDone:
		return "done"
	default:
		return "unknown"
	}
}

// ProgressRecord tracks the translation workflow state of one resource
// across every locale. It is keyed in persistence by the resource key's
// string form and created lazily on first reconciliation or explicit
// translatable toggle.
type ProgressRecord struct {
	Resource ResourceKey
	// Translatable defaults to true; excluded resources are skipped by
	// bulk operations but keep their stored progress.
	Translatable bool
	Progress     map[string]Progress
}

// NewProgressRecord constructs a blank record with translation enabled.
func NewProgressRecord(resource ResourceKey) *ProgressRecord {
	return &ProgressRecord{
		Resource:     resource,
		Translatable: true,
		Progress:     map[string]Progress{},
	}
}

// ProgressFor returns the stored state for a locale, defaulting to
// ProgressNotStarted when the locale has never been reconciled.
func (r *ProgressRecord) ProgressFor(locale string) Progress {
	if r == nil {
		return ProgressNotStarted
	}
	return r.Progress[locale]
}

// SetProgress overwrites the stored state for a locale. The progress state
// machine is memoryless: every merge recomputes the value in full.
func (r *ProgressRecord) SetProgress(locale string, value Progress) {
	if r.Progress == nil {
		r.Progress = map[string]Progress{}
	}
	r.Progress[locale] = value
}

// ClearProgress removes the locale's entry, used only by bulk locale
// removal.
func (r *ProgressRecord) ClearProgress(locale string) {
	delete(r.Progress, locale)
}

// Clone returns a deep copy of the record.
func (r *ProgressRecord) Clone() *ProgressRecord {
	if r == nil {
		return nil
	}
	out := &ProgressRecord{Resource: r.Resource, Translatable: r.Translatable, Progress: map[string]Progress{}}
	for locale, value := range r.Progress {
		out.Progress[locale] = value
	}
	return out
}
