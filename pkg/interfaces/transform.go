package interfaces

// Verb classifies a chunk's relationship to previously stored data.
type Verb int

const (
	// VerbNew marks a chunk with no prior stored counterpart.
	VerbNew Verb = 1
	// VerbChanged marks a chunk whose source drifted from a stored chunk
	// the aligner paired it with; the stored translation is possibly stale.
	VerbChanged Verb = 2
	// VerbCurrent marks a chunk whose source matches a stored chunk
	// exactly; the stored translation is valid as-is.
	VerbCurrent Verb = 3
)

func (v Verb) String() string {
	switch v {
	case VerbNew:
		return "new"
	case VerbChanged:
		return "changed"
	case VerbCurrent:
		return "current"
	default:
		return "unknown"
	}
}

// ChunkAlignment is the aligner's result for one current chunk. OldIndex
// points into the stored chunk list when the verb is VerbCurrent or
// VerbChanged, and is -1 for VerbNew.
type ChunkAlignment struct {
	Verb     Verb
	OldIndex int
}

// Aligner pairs an ordered list of previously stored chunk source texts
// with the current decomposition, returning one result per current chunk in
// the same order. The pairing heuristic is implementation-defined; the
// engine only relies on exact matches being reported as VerbCurrent.
type Aligner interface {
	Align(old, current []string) []ChunkAlignment
}

// Decomposition is the result of breaking a rich value into an ordered list
// of atomic translatable chunks. Template carries whatever structural state
// the producing transformer needs to recompose the value; the engine treats
// it as opaque.
type Decomposition struct {
	Chunks   []string
	Template any
}

// ContentTransformer decomposes composite (markup) values into translatable
// chunks and recomposes translated chunks back into a full value. Recompose
// reports structural problems through the returned error list rather than
// failing outright; the rendered value is always usable.
type ContentTransformer interface {
	Decompose(value string) (*Decomposition, error)
	Recompose(dec *Decomposition, chunks []string) (string, []error)
}
