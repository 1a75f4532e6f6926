package catalog

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/goliatone/go-translations/bundle"
	"github.com/goliatone/go-translations/internal/align"
	"github.com/goliatone/go-translations/internal/markup"
	"github.com/goliatone/go-translations/internal/storage"
	"github.com/goliatone/go-translations/reconcile"
)

type staticSource struct {
	resources []reconcile.Resource
}

func (s *staticSource) Resources(ctx context.Context) ([]reconcile.Resource, error) {
	return s.resources, nil
}

type fixture struct {
	source   *staticSource
	builder  *reconcile.Builder
	updater  *reconcile.Updater
	bundles  *storage.MemoryBundleRepository
	progress *storage.MemoryProgressRepository
	exporter *Exporter
	importer *Importer
}

func newFixture(t *testing.T, resources ...reconcile.Resource) *fixture {
	t.Helper()
	f := &fixture{
		source:   &staticSource{resources: resources},
		builder:  reconcile.NewBuilder(markup.NewTransformer(), align.NewExactMatcher()),
		updater:  reconcile.NewUpdater(),
		bundles:  storage.NewMemoryBundleRepository(),
		progress: storage.NewMemoryProgressRepository(),
	}
	f.exporter = NewExporter(f.source, f.builder, f.updater, f.bundles, f.progress)
	f.importer = NewImporter(f.source, f.builder, f.updater, f.bundles, f.progress)
	return f
}

func introResource(t *testing.T) reconcile.Resource {
	t.Helper()
	return reconcile.Resource{
		Key:   bundle.NewResourceKey("doc", "intro"),
		Title: "Introduction",
		Fields: []reconcile.SourceField{
			{Name: "title", Label: "Title", Type: bundle.FieldTypeString, Value: "Intro", Description: "The page heading"},
			{Name: "body", Label: "Body", Type: bundle.FieldTypeHTML, Value: "<p>First</p><p>Second</p>"},
		},
	}
}

func TestExporterBuildSets(t *testing.T) {
	ctx := context.Background()

	t.Run("export forces bundle and progress creation", func(t *testing.T) {
		f := newFixture(t, introResource(t))

		sets, err := f.exporter.BuildSets(ctx, []string{"es"}, ScopeAll)
		if err != nil {
			t.Fatalf("BuildSets() error = %v", err)
		}
		if len(sets) != 1 || sets[0].Locale != "es" {
			t.Fatalf("BuildSets() = %+v, want one es set", sets)
		}
		// Three distinct source texts: Intro, First, Second.
		if sets[0].Len() != 3 {
			t.Errorf("set entries = %d, want 3", sets[0].Len())
		}

		resource := bundle.NewResourceKey("doc", "intro")
		record, err := f.progress.Load(ctx, resource)
		if err != nil {
			t.Fatalf("progress should exist after export: %v", err)
		}
		if record.ProgressFor("es") != bundle.ProgressNotStarted {
			t.Errorf("progress = %v, want not started", record.ProgressFor("es"))
		}
	})

	t.Run("new-or-stale scope skips current chunks", func(t *testing.T) {
		f := newFixture(t, introResource(t))
		seedTranslation(t, f, "es")

		sets, err := f.exporter.BuildSets(ctx, []string{"es"}, ScopeNewOrStale)
		if err != nil {
			t.Fatalf("BuildSets() error = %v", err)
		}
		if sets[0].Len() != 0 {
			t.Errorf("fully translated document should export no new-or-stale entries, got %d", sets[0].Len())
		}
	})

	t.Run("stale chunk exports previous id and comment", func(t *testing.T) {
		f := newFixture(t, introResource(t))
		seedTranslation(t, f, "es")
		f.source.resources[0].Fields[0].Value = "Intro!"

		sets, err := f.exporter.BuildSets(ctx, []string{"es"}, ScopeNewOrStale)
		if err != nil {
			t.Fatalf("BuildSets() error = %v", err)
		}
		entries := sets[0].Entries()
		if len(entries) != 1 {
			t.Fatalf("entries = %d, want only the drifted chunk", len(entries))
		}
		entry := entries[0]
		if entry.SourceText != "Intro!" {
			t.Errorf("SourceText = %q", entry.SourceText)
		}
		if entry.PreviousID != "Intro" {
			t.Errorf("PreviousID = %q, want %q", entry.PreviousID, "Intro")
		}
		if entry.Translation() != "" {
			t.Errorf("Translation() = %q, want blank for stale chunk", entry.Translation())
		}
		found := false
		for _, comment := range entry.Comments() {
			if strings.Contains(comment, "Previously translated as") {
				found = true
			}
		}
		if !found {
			t.Errorf("comments = %v, want prior translation note", entry.Comments())
		}
	})

	t.Run("untranslatable resources are skipped", func(t *testing.T) {
		f := newFixture(t, introResource(t))
		resource := bundle.NewResourceKey("doc", "intro")
		record := bundle.NewProgressRecord(resource)
		record.Translatable = false
		if err := f.progress.Save(ctx, record); err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		sets, err := f.exporter.BuildSets(ctx, []string{"es"}, ScopeAll)
		if err != nil {
			t.Fatalf("BuildSets() error = %v", err)
		}
		if sets[0].Len() != 0 {
			t.Errorf("untranslatable resource exported %d entries, want 0", sets[0].Len())
		}
	})
}

// seedTranslation simulates an interactive editing pass that translates
// every chunk for the locale.
func seedTranslation(t *testing.T, f *fixture, locale string) {
	t.Helper()
	ctx := context.Background()
	translations := map[string]string{
		"Intro":  "Introducción",
		"First":  "Primero",
		"Second": "Segundo",
	}

	for _, resource := range f.source.resources {
		key := bundle.Key{Resource: resource.Key, Locale: locale}
		stored, err := bundle.LoadOrCreate(ctx, f.bundles, key)
		if err != nil {
			t.Fatalf("LoadOrCreate() error = %v", err)
		}
		record, err := bundle.LoadOrCreateProgress(ctx, f.progress, resource.Key)
		if err != nil {
			t.Fatalf("LoadOrCreateProgress() error = %v", err)
		}
		_, sections, err := f.builder.Build(ctx, key, resource.Fields, stored)
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}
		for si := range sections {
			for ci := range sections[si].Chunks {
				chunk := &sections[si].Chunks[ci]
				chunk.TargetValue = translations[chunk.SourceValue]
				chunk.Edited = true
			}
		}
		f.updater.Apply(key, sections, stored, record)
		if err := f.bundles.Save(ctx, stored); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if err := f.progress.Save(ctx, record); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}
}

func TestCatalogRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, introResource(t))
	seedTranslation(t, f, "es")

	key := bundle.Key{Resource: f.source.resources[0].Key, Locale: "es"}
	before, err := f.bundles.Load(ctx, key)
	if err != nil {
		t.Fatalf("Load() before export error = %v", err)
	}

	var archive bytes.Buffer
	if err := f.exporter.Export(ctx, &archive, []string{"es"}, ScopeAll); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	files, err := f.importer.Parse(archive.Bytes())
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(files) != 1 || files[0].Locale != "es" {
		t.Fatalf("Parse() = %+v, want one es file", files)
	}

	result, err := f.importer.Apply(ctx, files)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if result.Applied["es"] != 3 {
		t.Errorf("Applied[es] = %d, want 3", result.Applied["es"])
	}

	after, err := f.bundles.Load(ctx, key)
	if err != nil {
		t.Fatalf("Load() after import error = %v", err)
	}
	if !reflect.DeepEqual(before.Fields, after.Fields) {
		t.Errorf("round trip changed the bundle:\nbefore: %+v\nafter:  %+v", before.Fields, after.Fields)
	}

	resource := bundle.NewResourceKey("doc", "intro")
	record, _ := f.progress.Load(ctx, resource)
	if record.ProgressFor("es") != bundle.ProgressDone {
		t.Errorf("progress after round trip = %v, want done", record.ProgressFor("es"))
	}
}

func TestImporterParseRejectsMixedLocales(t *testing.T) {
	f := newFixture(t, introResource(t))

	po := `msgid ""
msgstr ""
"Language: es\n"

#: GCB-1|title|string|doc:intro:es
#: GCB-1|title|string|doc:intro:fr
msgid "Intro"
msgstr "Introducción"
`
	_, err := f.importer.Parse([]byte(po))
	var protocolErr *ProtocolError
	if !errors.As(err, &protocolErr) {
		t.Fatalf("Parse() error = %v, want *ProtocolError", err)
	}
	if !strings.Contains(protocolErr.Reason, "mixes locales") {
		t.Errorf("Reason = %q", protocolErr.Reason)
	}

	// Nothing was applied: the store stays empty.
	all, _ := f.bundles.LoadAll(context.Background())
	if len(all) != 0 {
		t.Errorf("store has %d bundles after rejected parse, want 0", len(all))
	}
}

func TestImporterDiagnostics(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, introResource(t))

	po := `#: GCB-1|title|string|doc:intro:es
msgid "Intro"
msgstr "Introducción"

#: GCB-1|title|string|doc:intro:es
msgid "Never existed"
msgstr "Nunca existió"

#: GCB-1|title|string|doc:ghost:es
msgid "Orphan"
msgstr "Huérfano"
`
	files, err := f.importer.Parse([]byte(po))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	result, err := f.importer.Apply(ctx, files)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	if result.Applied["es"] != 1 {
		t.Errorf("Applied[es] = %d, want 1", result.Applied["es"])
	}
	wantFragments := []string{
		`Translation for "Never existed" present but not used.`,
		"Resource doc:ghost not found",
		// Body chunks had no uploaded match.
		`Did not find translation for "First".`,
		`Did not find translation for "Second".`,
	}
	joined := strings.Join(result.Messages, "\n")
	for _, want := range wantFragments {
		if !strings.Contains(joined, want) {
			t.Errorf("Messages missing %q:\n%s", want, joined)
		}
	}

	// The matched title was applied as an edit.
	key := bundle.Key{Resource: f.source.resources[0].Key, Locale: "es"}
	stored, err := f.bundles.Load(ctx, key)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	title := stored.Field("title")
	if title == nil || title.Chunks[0].TargetValue != "Introducción" {
		t.Errorf("title record = %+v, want applied translation", title)
	}
}

func TestImporterSweepsEveryResource(t *testing.T) {
	ctx := context.Background()
	outro := reconcile.Resource{
		Key:   bundle.NewResourceKey("doc", "outro"),
		Title: "Wrapping Up",
		Fields: []reconcile.SourceField{
			{Name: "title", Label: "Title", Type: bundle.FieldTypeString, Value: "Outro"},
		},
	}
	f := newFixture(t, introResource(t), outro)

	// The upload only mentions the first resource.
	po := `#: GCB-1|title|string|doc:intro:es
msgid "Intro"
msgstr "Introducción"
`
	files, err := f.importer.Parse([]byte(po))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	result, err := f.importer.Apply(ctx, files)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if result.Applied["es"] != 1 {
		t.Errorf("Applied[es] = %d, want 1", result.Applied["es"])
	}

	// The unmentioned resource was reconciled all the same: its bundle and
	// progress record exist, matching what a manual edit or an export does.
	outroKey := bundle.Key{Resource: outro.Key, Locale: "es"}
	if _, err := f.bundles.Load(ctx, outroKey); err != nil {
		t.Errorf("Load(%s) error = %v, want bundle created by the import sweep", outroKey.String(), err)
	}
	record, err := f.progress.Load(ctx, outro.Key)
	if err != nil {
		t.Fatalf("progress for %s should exist after import: %v", outro.Key.String(), err)
	}
	if record.ProgressFor("es") != bundle.ProgressNotStarted {
		t.Errorf("outro progress = %v, want not started", record.ProgressFor("es"))
	}

	// Its untranslated chunk is reported like any other miss.
	joined := strings.Join(result.Messages, "\n")
	if !strings.Contains(joined, `Did not find translation for "Outro".`) {
		t.Errorf("Messages missing the swept resource's unmatched chunk:\n%s", joined)
	}
}

func TestImporterBlankOverwrite(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, introResource(t))
	seedTranslation(t, f, "es")

	po := `#: GCB-1|title|string|doc:intro:es
msgid "Intro"
msgstr ""
`
	files, err := f.importer.Parse([]byte(po))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if _, err := f.importer.Apply(ctx, files); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	key := bundle.Key{Resource: f.source.resources[0].Key, Locale: "es"}
	stored, _ := f.bundles.Load(ctx, key)
	title := stored.Field("title")
	if title == nil {
		t.Fatal("title record should survive a blank overwrite")
	}
	if title.Chunks[0].TargetValue != "" {
		t.Errorf("target = %q, want explicit blank overwrite honored", title.Chunks[0].TargetValue)
	}
}
