package align

import (
	"testing"

	"github.com/goliatone/go-translations/pkg/interfaces"
)

func TestExactMatcherAlign(t *testing.T) {
	m := NewExactMatcher()

	tests := []struct {
		name    string
		old     []string
		current []string
		want    []interfaces.ChunkAlignment
	}{
		{
			name:    "all unchanged",
			old:     []string{"a", "b"},
			current: []string{"a", "b"},
			want: []interfaces.ChunkAlignment{
				{Verb: interfaces.VerbCurrent, OldIndex: 0},
				{Verb: interfaces.VerbCurrent, OldIndex: 1},
			},
		},
		{
			name:    "empty history marks everything new",
			old:     nil,
			current: []string{"a", "b"},
			want: []interfaces.ChunkAlignment{
				{Verb: interfaces.VerbNew, OldIndex: -1},
				{Verb: interfaces.VerbNew, OldIndex: -1},
			},
		},
		{
			name:    "edited chunk pairs with leftover old entry",
			old:     []string{"a", "b", "c"},
			current: []string{"a", "b edited", "c"},
			want: []interfaces.ChunkAlignment{
				{Verb: interfaces.VerbCurrent, OldIndex: 0},
				{Verb: interfaces.VerbChanged, OldIndex: 1},
				{Verb: interfaces.VerbCurrent, OldIndex: 2},
			},
		},
		{
			name:    "inserted chunk is new once old entries run out",
			old:     []string{"a"},
			current: []string{"a", "b", "c"},
			want: []interfaces.ChunkAlignment{
				{Verb: interfaces.VerbCurrent, OldIndex: 0},
				{Verb: interfaces.VerbNew, OldIndex: -1},
				{Verb: interfaces.VerbNew, OldIndex: -1},
			},
		},
		{
			name:    "reordered chunks keep their translations",
			old:     []string{"a", "b"},
			current: []string{"b", "a"},
			want: []interfaces.ChunkAlignment{
				{Verb: interfaces.VerbCurrent, OldIndex: 1},
				{Verb: interfaces.VerbCurrent, OldIndex: 0},
			},
		},
		{
			name:    "duplicate text consumes old entries in order",
			old:     []string{"a", "a"},
			current: []string{"a", "a", "a"},
			want: []interfaces.ChunkAlignment{
				{Verb: interfaces.VerbCurrent, OldIndex: 0},
				{Verb: interfaces.VerbCurrent, OldIndex: 1},
				{Verb: interfaces.VerbNew, OldIndex: -1},
			},
		},
		{
			name:    "wholesale rewrite pairs positionally as changed",
			old:     []string{"a", "b"},
			current: []string{"x", "y"},
			want: []interfaces.ChunkAlignment{
				{Verb: interfaces.VerbChanged, OldIndex: 0},
				{Verb: interfaces.VerbChanged, OldIndex: 1},
			},
		},
		{
			name:    "deleted chunks leave surplus old entries unreferenced",
			old:     []string{"a", "b", "c"},
			current: []string{"b"},
			want: []interfaces.ChunkAlignment{
				{Verb: interfaces.VerbCurrent, OldIndex: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.Align(tt.old, tt.current)
			if len(got) != len(tt.want) {
				t.Fatalf("Align() returned %d entries, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Align()[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}
