package reconcile

import (
	"github.com/goliatone/go-translations/bundle"
	"github.com/goliatone/go-translations/internal/logging"
	"github.com/goliatone/go-translations/pkg/interfaces"
)

// UpdaterOption mutates the updater configuration.
type UpdaterOption func(*Updater)

// WithUpdaterLogger injects the logger used for merge diagnostics.
func WithUpdaterLogger(logger interfaces.Logger) UpdaterOption {
	return func(u *Updater) {
		if logger != nil {
			u.logger = logger
		}
	}
}

// Updater folds edited section data back into the stored bundle and
// recomputes the per-locale progress state.
type Updater struct {
	logger interfaces.Logger
}

// NewUpdater constructs a bundle/progress updater.
func NewUpdater(opts ...UpdaterOption) *Updater {
	u := &Updater{logger: logging.NoOp()}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Apply merges sections into the bundle and rewrites the progress entry for
// the bundle's locale. Both records are mutated in place; callers own them
// exclusively for the duration of one merge-and-save operation.
//
// Merge rule per chunk, in section order:
//   - edited: overwrite with the current source and the edited target.
//   - unedited CHANGED: keep the old source association, since the
//     translator did not confirm the drifted source.
//   - unedited CURRENT: carry the stored pair unchanged.
//   - unedited NEW: nothing to persist yet.
func (u *Updater) Apply(key bundle.Key, sections []Section, b *bundle.Bundle, progress *bundle.ProgressRecord) {
	for _, section := range sections {
		chunks := make([]bundle.ChunkRecord, 0, len(section.Chunks))
		for _, chunk := range section.Chunks {
			switch {
			case chunk.Edited:
				chunks = append(chunks, bundle.ChunkRecord{
					SourceValue: chunk.SourceValue,
					TargetValue: chunk.TargetValue,
				})
			case chunk.Verb == VerbChanged:
				chunks = append(chunks, bundle.ChunkRecord{
					SourceValue: chunk.OldSourceValue,
					TargetValue: chunk.TargetValue,
				})
			case chunk.Verb == VerbCurrent:
				chunks = append(chunks, bundle.ChunkRecord{
					SourceValue: chunk.SourceValue,
					TargetValue: chunk.TargetValue,
				})
			default:
				// VerbNew without an edit: nothing recorded.
			}
		}
		if len(chunks) == 0 {
			continue
		}

		record := &bundle.FieldRecord{Type: section.Type, Chunks: chunks}
		if section.Type.IsComposite() {
			record.SourceValue = section.SourceValue
		}
		b.SetField(section.Name, record)
	}

	progress.SetProgress(key.Locale, deriveProgress(sections))
}

// deriveProgress computes the locale progress purely from the input
// sections, before the merge result is considered. A chunk counts as done
// when both values are blank or the target is filled and up to date; a
// stale-but-filled chunk counts as in-progress.
func deriveProgress(sections []Section) bundle.Progress {
	anyDone := false
	allDone := true
	for _, section := range sections {
		for _, chunk := range section.Chunks {
			bothBlank := chunk.SourceValue == "" && chunk.TargetValue == ""
			upToDate := chunk.TargetValue != "" && (chunk.Verb == VerbCurrent || chunk.Edited)
			if bothBlank || upToDate {
				anyDone = true
			} else {
				allDone = false
			}

			if chunk.Verb == VerbChanged && !chunk.Edited && chunk.TargetValue != "" {
				anyDone = true
				allDone = false
			}
		}
	}

	switch {
	case allDone:
		return bundle.ProgressDone
	case anyDone:
		return bundle.ProgressInProgress
	default:
		return bundle.ProgressNotStarted
	}
}
