package render

import (
	"fmt"
	"strings"
	"testing"

	"github.com/goliatone/go-translations/bundle"
	"github.com/goliatone/go-translations/internal/align"
	"github.com/goliatone/go-translations/internal/markup"
)

func testKey() bundle.Key {
	return bundle.NewKey(bundle.NewResourceKey("doc", "intro"), "es")
}

func newValue(t *testing.T, source string, record *bundle.FieldRecord, opts ...Option) *LazyValue {
	t.Helper()
	return NewLazyValue(testKey(), "body", source, record, markup.NewTransformer(), align.NewExactMatcher(), opts...)
}

func htmlRecord(sourceValue string, pairs ...[2]string) *bundle.FieldRecord {
	record := &bundle.FieldRecord{Type: bundle.FieldTypeHTML, SourceValue: sourceValue}
	for _, pair := range pairs {
		record.Chunks = append(record.Chunks, bundle.ChunkRecord{SourceValue: pair[0], TargetValue: pair[1]})
	}
	return record
}

func TestLazyValueResolution(t *testing.T) {
	t.Run("no stored record renders the source", func(t *testing.T) {
		v := newValue(t, "<p>First</p>", nil)
		if got := v.Resolve(); got != "<p>First</p>" {
			t.Fatalf("Resolve() = %q", got)
		}
		if v.Status() != StatusNotStarted {
			t.Errorf("Status() = %v, want not started", v.Status())
		}
	})

	t.Run("blank source renders blank", func(t *testing.T) {
		v := newValue(t, "  \n ", htmlRecord("<p>x</p>", [2]string{"x", "y"}))
		if got := v.Resolve(); got != "" {
			t.Fatalf("Resolve() = %q, want empty", got)
		}
	})

	t.Run("atomic field renders the stored target", func(t *testing.T) {
		record := &bundle.FieldRecord{
			Type:   bundle.FieldTypeString,
			Chunks: []bundle.ChunkRecord{{SourceValue: "Intro", TargetValue: "Introducción"}},
		}
		v := NewLazyValue(testKey(), "title", "Intro", record, markup.NewTransformer(), align.NewExactMatcher())
		if got := v.Resolve(); got != "Introducción" {
			t.Fatalf("Resolve() = %q", got)
		}
		if v.Status() != StatusValid {
			t.Errorf("Status() = %v, want valid", v.Status())
		}
	})

	t.Run("composite substitutes translations into current structure", func(t *testing.T) {
		source := `<p>First</p><p>Second</p>`
		record := htmlRecord(source, [2]string{"First", "Primero"}, [2]string{"Second", "Segundo"})
		v := newValue(t, source, record)
		if got := v.Resolve(); got != "<p>Primero</p><p>Segundo</p>" {
			t.Fatalf("Resolve() = %q", got)
		}
		if v.Status() != StatusValid || v.ErrorMessage() != "" {
			t.Errorf("status = %v, error = %q", v.Status(), v.ErrorMessage())
		}
	})

	t.Run("structural edits keep translations for unchanged chunks", func(t *testing.T) {
		// Paragraphs reordered around the translated content.
		record := htmlRecord("<p>First</p><p>Second</p>", [2]string{"First", "Primero"}, [2]string{"Second", "Segundo"})
		v := newValue(t, "<p>Second</p><p>First</p>", record)
		if got := v.Resolve(); got != "<p>Segundo</p><p>Primero</p>" {
			t.Fatalf("Resolve() = %q", got)
		}
		if v.Status() != StatusValid {
			t.Errorf("Status() = %v, want valid for pure reorder", v.Status())
		}
	})
}

func TestLazyValueDriftFallback(t *testing.T) {
	t.Run("drift falls back to last known good rendering", func(t *testing.T) {
		record := htmlRecord("<p>First</p><p>Second</p>", [2]string{"First", "Primero"}, [2]string{"Second", "Segundo"})
		v := newValue(t, "<p>First</p><p>2nd</p>", record)

		if got := v.Resolve(); got != "<p>Primero</p><p>Segundo</p>" {
			t.Fatalf("Resolve() = %q, want the stored structure fully translated", got)
		}
		if v.Status() != StatusInvalid {
			t.Errorf("Status() = %v, want invalid", v.Status())
		}
		if !strings.Contains(v.ErrorMessage(), "1 part of the translation is out of date") {
			t.Errorf("ErrorMessage() = %q", v.ErrorMessage())
		}
	})

	t.Run("no usable last known good falls back to partial substitution", func(t *testing.T) {
		// The stored structure is gone; drifted chunks render as source.
		record := htmlRecord("", [2]string{"First", "Primero"}, [2]string{"Second", "Segundo"})
		v := newValue(t, "<p>First</p><p>2nd</p>", record)
		if got := v.Resolve(); got != "<p>Primero</p><p>2nd</p>" {
			t.Fatalf("Resolve() = %q, want partial substitution", got)
		}
		if v.Status() != StatusInvalid {
			t.Errorf("Status() = %v, want invalid", v.Status())
		}
	})

	t.Run("plural drift message", func(t *testing.T) {
		record := htmlRecord("", [2]string{"First", "Primero"}, [2]string{"Second", "Segundo"})
		v := newValue(t, "<p>1st</p><p>2nd</p>", record)
		v.Resolve()
		if !strings.Contains(v.ErrorMessage(), "2 parts of the translation are out of date") {
			t.Errorf("ErrorMessage() = %q", v.ErrorMessage())
		}
	})
}

type bannerAnnotator struct{}

func (bannerAnnotator) Annotate(key bundle.Key, fieldName, errMessage, body string) string {
	return fmt.Sprintf("<!-- %s: %s -->%s", fieldName, errMessage, body)
}

func TestLazyValueAnnotator(t *testing.T) {
	record := htmlRecord("<p>First</p>", [2]string{"First", "Primero"})

	t.Run("valid output is never annotated", func(t *testing.T) {
		v := newValue(t, "<p>First</p>", record, WithAnnotator(bannerAnnotator{}))
		if got := v.Resolve(); got != "<p>Primero</p>" {
			t.Fatalf("Resolve() = %q", got)
		}
	})

	t.Run("fallback output carries the diagnostic", func(t *testing.T) {
		v := newValue(t, "<p>Changed</p>", record, WithAnnotator(bannerAnnotator{}))
		got := v.Resolve()
		if !strings.HasPrefix(got, "<!-- body: ") {
			t.Fatalf("Resolve() = %q, want annotated fallback", got)
		}
		if !strings.HasSuffix(got, "<p>Primero</p>") {
			t.Errorf("Resolve() = %q, want last known good body", got)
		}
	})
}

func TestLazyValueResolvesOnce(t *testing.T) {
	record := &bundle.FieldRecord{
		Type:   bundle.FieldTypeString,
		Chunks: []bundle.ChunkRecord{{SourceValue: "Intro", TargetValue: "Introducción"}},
	}
	v := NewLazyValue(testKey(), "title", "Intro", record, markup.NewTransformer(), align.NewExactMatcher())

	first := v.Resolve()
	record.Chunks[0].TargetValue = "mutated"
	if got := v.Resolve(); got != first {
		t.Fatalf("second Resolve() = %q, want cached %q", got, first)
	}

	if v.Upper() != strings.ToUpper(first) {
		t.Errorf("Upper() = %q", v.Upper())
	}
	if v.Concat("!") != first+"!" {
		t.Errorf("Concat() = %q", v.Concat("!"))
	}
	if v.Len() != len(first) {
		t.Errorf("Len() = %d", v.Len())
	}
}

func TestReport(t *testing.T) {
	key := testKey()
	b := bundle.New(key)
	b.SetField("title", &bundle.FieldRecord{
		Type:   bundle.FieldTypeString,
		Chunks: []bundle.ChunkRecord{{SourceValue: "Intro", TargetValue: "Introducción"}},
	})
	b.SetField("body", htmlRecord("<p>First</p>", [2]string{"First", "Primero"}))

	reports := Report(key, []string{"title", "body", "summary"}, b, markup.NewTransformer(), align.NewExactMatcher())

	if got := reports["title"]; got.Status != StatusValid || got.Output != "Introducción" {
		t.Errorf("title report = %+v", got)
	}
	if got := reports["body"]; got.Status != StatusValid || got.Output != "<p>Primero</p>" {
		t.Errorf("body report = %+v", got)
	}
	if got := reports["summary"]; got.Status != StatusNotStarted || got.ErrorMessage == "" {
		t.Errorf("summary report = %+v", got)
	}
}
