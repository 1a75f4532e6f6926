package catalog

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
)

// archivePath places each locale's catalog where standard gettext tooling
// expects it.
func archivePath(locale string) string {
	return path.Join("locale", locale, "LC_MESSAGES", "messages.po")
}

// WriteArchive serializes the catalogs into one zip archive, one PO file
// per locale. Locales are written in sorted order.
func WriteArchive(w io.Writer, sets []*Set) error {
	ordered := make([]*Set, len(sets))
	copy(ordered, sets)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Locale < ordered[j].Locale
	})

	archive := zip.NewWriter(w)
	for _, set := range ordered {
		file, err := archive.Create(archivePath(set.Locale))
		if err != nil {
			return fmt.Errorf("catalog: create archive entry for %q: %w", set.Locale, err)
		}
		if err := WritePO(file, set); err != nil {
			return fmt.Errorf("catalog: write catalog for %q: %w", set.Locale, err)
		}
	}
	if err := archive.Close(); err != nil {
		return fmt.Errorf("catalog: finalize archive: %w", err)
	}
	return nil
}

var zipMagic = []byte{'P', 'K', 0x03, 0x04}

// readCatalogFiles accepts either a zip archive of PO files or a single
// bare PO file and returns each file's parsed units.
func readCatalogFiles(data []byte) ([][]Unit, error) {
	if !bytes.HasPrefix(data, zipMagic) {
		units, err := ParsePO(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		return [][]Unit{units}, nil
	}

	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("catalog: open archive: %w", err)
	}

	var out [][]Unit
	for _, file := range reader.File {
		if !strings.HasSuffix(file.Name, ".po") {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("catalog: open %q: %w", file.Name, err)
		}
		units, err := ParsePO(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("catalog: parse %q: %w", file.Name, err)
		}
		out = append(out, units)
	}
	if len(out) == 0 {
		return nil, &ProtocolError{Reason: "archive contains no catalog files"}
	}
	return out, nil
}
