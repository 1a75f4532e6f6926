package catalog

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Unit is one parsed PO translation unit, before locations are decoded.
type Unit struct {
	Source       string
	Target       string
	Locations    []string
	PreviousID   string
	Comments     []string
	UserComments []string
}

// WritePO serializes one locale's catalog as a gettext PO file. Output is
// deterministic: entries sort by source text, and everything the importer
// needs round-trips exactly.
func WritePO(w io.Writer, set *Set) error {
	out := bufio.NewWriter(w)

	fmt.Fprintf(out, "msgid %s\n", quote(""))
	fmt.Fprintf(out, "msgstr %s\n", quote(""))
	fmt.Fprintf(out, "%s\n", quote("Content-Type: text/plain; charset=utf-8\n"))
	fmt.Fprintf(out, "%s\n", quote("Content-Transfer-Encoding: 8bit\n"))
	fmt.Fprintf(out, "%s\n", quote("MIME-Version: 1.0\n"))
	fmt.Fprintf(out, "%s\n", quote("Language: "+set.Locale+"\n"))

	for _, entry := range set.Entries() {
		fmt.Fprintln(out)
		for _, comment := range entry.UserComments() {
			fmt.Fprintf(out, "# %s\n", sanitizeComment(comment))
		}
		for _, comment := range entry.Comments() {
			fmt.Fprintf(out, "#. %s\n", sanitizeComment(comment))
		}
		for _, loc := range entry.Locations() {
			fmt.Fprintf(out, "#: %s\n", loc.Encode())
		}
		if entry.PreviousID != "" {
			fmt.Fprintf(out, "#| msgid %s\n", quote(entry.PreviousID))
		}
		fmt.Fprintf(out, "msgid %s\n", quote(entry.SourceText))
		fmt.Fprintf(out, "msgstr %s\n", quote(entry.Translation()))
	}
	return out.Flush()
}

// ParsePO reads PO translation units. The header entry (empty msgid) is
// consumed and discarded; malformed syntax aborts the parse since partial
// imports are never applied.
func ParsePO(r io.Reader) ([]Unit, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var units []Unit
	var current Unit
	started := false
	// target of the active quoted-string accumulator: continuation lines
	// append to whichever keyword came last.
	var accum *string

	flush := func() {
		if !started {
			return
		}
		if current.Source != "" {
			units = append(units, current)
		}
		current = Unit{}
		started = false
		accum = nil
	}

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		trimmed := strings.TrimSpace(line)

		// Entries are normally blank-line separated; a comment or msgid
		// following a completed entry also starts a new one.
		if current.Source != "" && (strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "msgid ")) {
			flush()
		}

		switch {
		case trimmed == "":
			flush()
		case strings.HasPrefix(trimmed, "#| msgid "):
			value, err := unquote(strings.TrimPrefix(trimmed, "#| msgid "))
			if err != nil {
				return nil, fmt.Errorf("catalog: line %d: %w", lineNo, err)
			}
			current.PreviousID = value
			started = true
			accum = nil
		case strings.HasPrefix(trimmed, "#:"):
			for _, ref := range strings.Fields(strings.TrimPrefix(trimmed, "#:")) {
				current.Locations = append(current.Locations, ref)
			}
			started = true
			accum = nil
		case strings.HasPrefix(trimmed, "#."):
			current.Comments = append(current.Comments, strings.TrimSpace(strings.TrimPrefix(trimmed, "#.")))
			started = true
			accum = nil
		case strings.HasPrefix(trimmed, "#,"), strings.HasPrefix(trimmed, "#~"), strings.HasPrefix(trimmed, "#|"):
			// Flags, obsolete entries and other previous-context lines
			// carry nothing the importer uses.
			started = true
			accum = nil
		case strings.HasPrefix(trimmed, "#"):
			current.UserComments = append(current.UserComments, strings.TrimSpace(strings.TrimPrefix(trimmed, "#")))
			started = true
			accum = nil
		case strings.HasPrefix(trimmed, "msgid "):
			value, err := unquote(strings.TrimPrefix(trimmed, "msgid "))
			if err != nil {
				return nil, fmt.Errorf("catalog: line %d: %w", lineNo, err)
			}
			current.Source = value
			started = true
			accum = &current.Source
		case strings.HasPrefix(trimmed, "msgstr "):
			value, err := unquote(strings.TrimPrefix(trimmed, "msgstr "))
			if err != nil {
				return nil, fmt.Errorf("catalog: line %d: %w", lineNo, err)
			}
			current.Target = value
			started = true
			accum = &current.Target
		case strings.HasPrefix(trimmed, `"`):
			if accum == nil {
				return nil, fmt.Errorf("catalog: line %d: unexpected continuation string", lineNo)
			}
			value, err := unquote(trimmed)
			if err != nil {
				return nil, fmt.Errorf("catalog: line %d: %w", lineNo, err)
			}
			*accum += value
		default:
			return nil, fmt.Errorf("catalog: line %d: unrecognized syntax %q", lineNo, trimmed)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("catalog: read: %w", err)
	}
	flush()
	return units, nil
}

var poEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\t", `\t`,
	"\r", `\r`,
)

func quote(value string) string {
	return `"` + poEscaper.Replace(value) + `"`
}

func unquote(value string) (string, error) {
	value = strings.TrimSpace(value)
	if len(value) < 2 || !strings.HasPrefix(value, `"`) || !strings.HasSuffix(value, `"`) {
		return "", fmt.Errorf("expected quoted string, got %q", value)
	}
	body := value[1 : len(value)-1]

	var out strings.Builder
	for i := 0; i < len(body); i++ {
		if body[i] != '\\' {
			out.WriteByte(body[i])
			continue
		}
		i++
		if i >= len(body) {
			return "", fmt.Errorf("dangling escape in %q", value)
		}
		switch body[i] {
		case 'n':
			out.WriteByte('\n')
		case 't':
			out.WriteByte('\t')
		case 'r':
			out.WriteByte('\r')
		case '"':
			out.WriteByte('"')
		case '\\':
			out.WriteByte('\\')
		default:
			return "", fmt.Errorf("unknown escape \\%c in %q", body[i], value)
		}
	}
	return out.String(), nil
}

// sanitizeComment keeps comments single-line so they cannot break the PO
// structure.
func sanitizeComment(comment string) string {
	return strings.Join(strings.Fields(comment), " ")
}
