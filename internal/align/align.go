// Package align pairs the chunks of a document's current source value with
// the chunks recorded in its stored translation bundle, deciding which
// translations still apply, which are stale, and which chunks are new.
package align

import "github.com/goliatone/go-translations/pkg/interfaces"

// ExactMatcher aligns chunk lists by exact text equality. Each old chunk is
// consumed at most once, in order; unmatched current chunks are paired with
// the remaining old chunks positionally and flagged as changed, and any
// surplus is new. Totally ordered, deterministic, no heuristics: a chunk
// whose text did not change keeps its translation, everything else needs
// review.
type ExactMatcher struct{}

// NewExactMatcher constructs the default aligner.
func NewExactMatcher() *ExactMatcher {
	return &ExactMatcher{}
}

// Align classifies each current chunk against the old chunk list. The
// result has exactly one entry per current chunk, in order.
func (m *ExactMatcher) Align(old, current []string) []interfaces.ChunkAlignment {
	out := make([]interfaces.ChunkAlignment, len(current))
	consumed := make([]bool, len(old))

	// Exact matches first: each scans forward from the last consumed
	// position so duplicated text pairs up in order.
	for i, text := range current {
		out[i] = interfaces.ChunkAlignment{Verb: interfaces.VerbNew, OldIndex: -1}
		for j, oldText := range old {
			if consumed[j] || oldText != text {
				continue
			}
			consumed[j] = true
			out[i] = interfaces.ChunkAlignment{Verb: interfaces.VerbCurrent, OldIndex: j}
			break
		}
	}

	// Remaining current chunks absorb the leftover old chunks in order:
	// the translation is stale but likely related, so surface it for
	// review rather than discarding it.
	next := 0
	for i := range out {
		if out[i].OldIndex >= 0 {
			continue
		}
		for next < len(old) && consumed[next] {
			next++
		}
		if next >= len(old) {
			break
		}
		consumed[next] = true
		out[i] = interfaces.ChunkAlignment{Verb: interfaces.VerbChanged, OldIndex: next}
	}

	return out
}
