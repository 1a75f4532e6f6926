// Package catalog serializes translation bundles into a portable,
// provenance-preserving export format and merges edited catalogs back in.
// Each export is a zip archive holding one gettext PO file per locale;
// every translation unit records the exact bundle locations it came from so
// the import path can route translations back without guessing.
package catalog

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-translations/bundle"
)

// Protocol tags every encoded location. Files carrying any other tag are
// rejected wholesale rather than partially imported.
const Protocol = "GCB-1"

// ProtocolError reports malformed catalog input: a bad location tag or a
// file mixing locales. The whole file is rejected; nothing is imported.
type ProtocolError struct {
	Reason string
}

func (e *ProtocolError) Error() string {
	return "catalog: " + e.Reason
}

// Location is one provenance record: which field of which bundle
// contributed a translation unit.
type Location struct {
	FieldName string
	FieldType bundle.FieldType
	Key       bundle.Key
}

// Encode renders the canonical location string.
func (l Location) Encode() string {
	return strings.Join([]string{
		Protocol, l.FieldName, string(l.FieldType), l.Key.String(),
	}, "|")
}

// ParseLocation decodes a location string. The bundle key segment may
// itself contain the separator, so the split is bounded at four parts.
func ParseLocation(value string) (Location, error) {
	parts := strings.SplitN(value, "|", 4)
	if len(parts) != 4 {
		return Location{}, &ProtocolError{Reason: fmt.Sprintf("malformed location %q", value)}
	}
	if parts[0] != Protocol {
		return Location{}, &ProtocolError{Reason: fmt.Sprintf("unknown location protocol %q", parts[0])}
	}
	key, err := bundle.ParseKey(parts[3])
	if err != nil {
		return Location{}, &ProtocolError{Reason: fmt.Sprintf("location %q: invalid bundle key", value)}
	}
	return Location{
		FieldName: parts[1],
		FieldType: bundle.FieldType(parts[2]),
		Key:       key,
	}, nil
}
