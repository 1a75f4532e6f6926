package reconcile

import (
	"sort"
	"strconv"
	"strings"
)

// SchemaIndex is the ordered schema index built once per document type. It
// maps field paths to their schema declaration order so section ordering is
// an explicit lookup instead of string arithmetic, and stays stable across
// rebuilds regardless of map iteration or insertion order.
type SchemaIndex struct {
	order map[string]int
	count int
}

// NewSchemaIndex builds the index from fields in schema declaration order.
// Array index segments ("[n]") are stripped before recording order, so
// every element of a repeated field shares one declaration slot.
func NewSchemaIndex(fields []SourceField) *SchemaIndex {
	idx := &SchemaIndex{order: map[string]int{}}
	for _, field := range fields {
		name := stripIndexSegments(field.Name)
		if _, seen := idx.order[name]; !seen {
			idx.order[name] = idx.count
			idx.count++
		}
	}
	return idx
}

// Sort orders sections by schema declaration order, comparing path segments
// left to right. Numeric "[n]" segments compare numerically before schema
// order applies; equal prefixes fall back to path depth.
func (x *SchemaIndex) Sort(sections []Section) {
	sort.SliceStable(sections, func(i, j int) bool {
		return x.compare(sections[i].Name, sections[j].Name) < 0
	})
}

// Position returns the declaration slot for a field path, with unknown
// paths ordered after every known one.
func (x *SchemaIndex) Position(name string) int {
	if pos, ok := x.order[stripIndexSegments(name)]; ok {
		return pos
	}
	return x.count
}

func (x *SchemaIndex) compare(name1, name2 string) int {
	path1 := strings.Split(name1, ":")
	path2 := strings.Split(name2, ":")

	limit := len(path1)
	if len(path2) < limit {
		limit = len(path2)
	}
	for i := 0; i < limit; i++ {
		part1, part2 := path1[i], path2[i]
		n1, ok1 := indexSegment(part1)
		n2, ok2 := indexSegment(part2)
		if ok1 && ok2 {
			if n1 != n2 {
				return n1 - n2
			}
			continue
		}
		if part1 != part2 {
			return x.Position(name1) - x.Position(name2)
		}
	}
	return len(path1) - len(path2)
}

func indexSegment(part string) (int, bool) {
	if len(part) < 3 || part[0] != '[' || part[len(part)-1] != ']' {
		return 0, false
	}
	n, err := strconv.Atoi(part[1 : len(part)-1])
	if err != nil {
		return 0, false
	}
	return n, true
}

func stripIndexSegments(name string) string {
	parts := strings.Split(name, ":")
	kept := parts[:0]
	for _, part := range parts {
		if _, ok := indexSegment(part); ok {
			continue
		}
		kept = append(kept, part)
	}
	return strings.Join(kept, ":")
}
