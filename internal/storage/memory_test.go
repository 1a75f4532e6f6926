package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-translations/bundle"
	"github.com/goliatone/go-translations/pkg/interfaces"
)

func newTestBundle(t *testing.T, key, locale string) *bundle.Bundle {
	t.Helper()
	b := bundle.New(bundle.NewKey(bundle.NewResourceKey("doc", key), locale))
	b.SetField("title", &bundle.FieldRecord{
		Type:   bundle.FieldTypeString,
		Chunks: []bundle.ChunkRecord{{SourceValue: "Title", TargetValue: "Título"}},
	})
	return b
}

func TestMemoryBundleRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("load missing returns typed not found", func(t *testing.T) {
		repo := NewMemoryBundleRepository()
		key := bundle.NewKey(bundle.NewResourceKey("doc", "ghost"), "es")

		_, err := repo.Load(ctx, key)
		if !errors.Is(err, bundle.ErrBundleNotFound) {
			t.Fatalf("Load() error = %v, want ErrBundleNotFound", err)
		}
		var notFound *bundle.NotFoundError
		if !errors.As(err, &notFound) {
			t.Fatalf("Load() error = %T, want *bundle.NotFoundError", err)
		}
		if notFound.Key != key.String() {
			t.Errorf("NotFoundError.Key = %q, want %q", notFound.Key, key.String())
		}
	})

	t.Run("save then load round trips", func(t *testing.T) {
		repo := NewMemoryBundleRepository()
		b := newTestBundle(t, "intro", "es")

		if err := repo.Save(ctx, b); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		got, err := repo.Load(ctx, b.Key)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if got.Field("title").Chunks[0].TargetValue != "Título" {
			t.Errorf("Load() lost field data: %+v", got)
		}
	})

	t.Run("stored values are isolated from callers", func(t *testing.T) {
		repo := NewMemoryBundleRepository()
		b := newTestBundle(t, "intro", "es")
		if err := repo.Save(ctx, b); err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		b.Field("title").Chunks[0].TargetValue = "mutated after save"
		got, _ := repo.Load(ctx, b.Key)
		if got.Field("title").Chunks[0].TargetValue != "Título" {
			t.Error("Save() should clone; caller mutation leaked into the store")
		}

		got.Field("title").Chunks[0].TargetValue = "mutated after load"
		again, _ := repo.Load(ctx, b.Key)
		if again.Field("title").Chunks[0].TargetValue != "Título" {
			t.Error("Load() should clone; reader mutation leaked into the store")
		}
	})

	t.Run("locale scoped reads and deletes", func(t *testing.T) {
		repo := NewMemoryBundleRepository()
		for _, locale := range []string{"es", "fr", "es"} {
			b := newTestBundle(t, "doc-"+locale, locale)
			if err := repo.Save(ctx, b); err != nil {
				t.Fatalf("Save() error = %v", err)
			}
		}

		es, err := repo.LoadAllForLocale(ctx, "es")
		if err != nil {
			t.Fatalf("LoadAllForLocale() error = %v", err)
		}
		if len(es) != 1 {
			t.Fatalf("LoadAllForLocale(es) = %d bundles, want 1", len(es))
		}

		removed, err := repo.DeleteAllForLocale(ctx, "es")
		if err != nil {
			t.Fatalf("DeleteAllForLocale() error = %v", err)
		}
		if removed != 1 {
			t.Errorf("DeleteAllForLocale() removed = %d, want 1", removed)
		}

		all, _ := repo.LoadAll(ctx)
		if len(all) != 1 || all[0].Key.Locale != "fr" {
			t.Errorf("LoadAll() after delete = %+v, want only fr", all)
		}
	})
}

func TestMemoryProgressRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryProgressRepository()
	resource := bundle.NewResourceKey("doc", "intro")

	if _, err := repo.Load(ctx, resource); !errors.Is(err, bundle.ErrProgressNotFound) {
		t.Fatalf("Load() error = %v, want ErrProgressNotFound", err)
	}

	record := bundle.NewProgressRecord(resource)
	record.SetProgress("es", bundle.ProgressInProgress)
	if err := repo.Save(ctx, record); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := repo.Load(ctx, resource)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.ProgressFor("es") != bundle.ProgressInProgress {
		t.Errorf("ProgressFor(es) = %v, want in progress", got.ProgressFor("es"))
	}
	if !got.Translatable {
		t.Error("Translatable should default to true")
	}

	got.SetProgress("es", bundle.ProgressDone)
	again, _ := repo.Load(ctx, resource)
	if again.ProgressFor("es") != bundle.ProgressInProgress {
		t.Error("Load() should clone; reader mutation leaked into the store")
	}
}

func TestMemoryTranslationMemory(t *testing.T) {
	ctx := context.Background()
	tm := NewMemoryTranslationMemory()

	if _, err := tm.Lookup(ctx, "es", "Hello"); !errors.Is(err, interfaces.ErrTranslationMissing) {
		t.Fatalf("Lookup() error = %v, want ErrTranslationMissing", err)
	}

	tm.Put("es", "Hello", "Hola")
	got, err := tm.Lookup(ctx, "es", "Hello")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if got != "Hola" {
		t.Errorf("Lookup() = %q, want %q", got, "Hola")
	}

	if _, err := tm.Lookup(ctx, "fr", "Hello"); !errors.Is(err, interfaces.ErrTranslationMissing) {
		t.Error("lookups must be locale scoped")
	}
}
