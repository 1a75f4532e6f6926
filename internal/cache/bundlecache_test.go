package cache

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-translations/bundle"
)

type stubLoader struct {
	records []*bundle.Bundle
	calls   int
}

func (s *stubLoader) LoadAll(ctx context.Context) ([]*bundle.Bundle, error) {
	s.calls++
	return s.records, nil
}

func makeBundle(t *testing.T, key, locale, field, source, target string) *bundle.Bundle {
	t.Helper()
	b := bundle.New(bundle.NewKey(bundle.NewResourceKey("doc", key), locale))
	b.SetField(field, &bundle.FieldRecord{
		Type:   bundle.FieldTypeString,
		Chunks: []bundle.ChunkRecord{{SourceValue: source, TargetValue: target}},
	})
	return b
}

func TestBundleCacheGet(t *testing.T) {
	ctx := context.Background()

	t.Run("miss triggers wholesale preload", func(t *testing.T) {
		loader := &stubLoader{records: []*bundle.Bundle{
			makeBundle(t, "intro", "es", "title", "Intro", "Introducción"),
			makeBundle(t, "outro", "es", "title", "Outro", "Cierre"),
		}}
		c := NewBundleCache(loader)

		got, err := c.Get(ctx, loader.records[0].Key)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got == nil || got.Field("title").Chunks[0].TargetValue != "Introducción" {
			t.Fatalf("Get() = %+v, want preloaded bundle", got)
		}

		// The sibling was preloaded by the same refill.
		if _, err := c.Get(ctx, loader.records[1].Key); err != nil {
			t.Fatalf("Get() sibling error = %v", err)
		}
		if loader.calls != 1 {
			t.Errorf("loader calls = %d, want 1", loader.calls)
		}
	})

	t.Run("absent key records negative entry", func(t *testing.T) {
		loader := &stubLoader{}
		c := NewBundleCache(loader)
		missing := bundle.NewKey(bundle.NewResourceKey("doc", "ghost"), "es")

		for i := 0; i < 3; i++ {
			got, err := c.Get(ctx, missing)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if got != nil {
				t.Fatalf("Get() = %+v, want nil for absent bundle", got)
			}
		}
		if loader.calls != 1 {
			t.Errorf("loader calls = %d, want 1 (negative entry should absorb repeats)", loader.calls)
		}
	})

	t.Run("returns clones", func(t *testing.T) {
		loader := &stubLoader{records: []*bundle.Bundle{
			makeBundle(t, "intro", "es", "title", "Intro", "Introducción"),
		}}
		c := NewBundleCache(loader)

		first, _ := c.Get(ctx, loader.records[0].Key)
		first.Field("title").Chunks[0].TargetValue = "mutated"

		second, _ := c.Get(ctx, loader.records[0].Key)
		if got := second.Field("title").Chunks[0].TargetValue; got != "Introducción" {
			t.Errorf("cached value leaked caller mutation: got %q", got)
		}
	})

	t.Run("ttl expiry refills", func(t *testing.T) {
		now := time.Unix(1000, 0)
		loader := &stubLoader{records: []*bundle.Bundle{
			makeBundle(t, "intro", "es", "title", "Intro", "Introducción"),
		}}
		c := NewBundleCache(loader, WithTTL(time.Minute), WithClock(func() time.Time { return now }))

		if _, err := c.Get(ctx, loader.records[0].Key); err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		now = now.Add(2 * time.Minute)
		if _, err := c.Get(ctx, loader.records[0].Key); err != nil {
			t.Fatalf("Get() after expiry error = %v", err)
		}
		if loader.calls != 2 {
			t.Errorf("loader calls = %d, want 2 after expiry", loader.calls)
		}
	})

	t.Run("byte budget evicts lru tail", func(t *testing.T) {
		loader := &stubLoader{records: []*bundle.Bundle{
			makeBundle(t, "a", "es", "body", "aaaaaaaaaa", "bbbbbbbbbb"),
			makeBundle(t, "b", "es", "body", "cccccccccc", "dddddddddd"),
		}}
		c := NewBundleCache(loader, WithMaxBytes(150))

		if _, err := c.Get(ctx, loader.records[0].Key); err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if c.SizeBytes() > 150 {
			t.Errorf("SizeBytes() = %d, want <= 150", c.SizeBytes())
		}
		if c.Len() >= 2 {
			t.Errorf("Len() = %d, want eviction under budget pressure", c.Len())
		}
	})
}

func TestBundleCacheWritePaths(t *testing.T) {
	ctx := context.Background()

	t.Run("put makes a save visible immediately", func(t *testing.T) {
		loader := &stubLoader{records: []*bundle.Bundle{
			makeBundle(t, "intro", "es", "title", "Intro", "Introducción"),
		}}
		c := NewBundleCache(loader)
		key := loader.records[0].Key

		if _, err := c.Get(ctx, key); err != nil {
			t.Fatalf("Get() error = %v", err)
		}

		updated := makeBundle(t, "intro", "es", "title", "Intro", "Presentación")
		c.Put(updated)

		got, err := c.Get(ctx, key)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got.Field("title").Chunks[0].TargetValue != "Presentación" {
			t.Errorf("Get() after Put() = %+v, want updated value", got)
		}
		if loader.calls != 1 {
			t.Errorf("loader calls = %d, want no refill after Put()", loader.calls)
		}
	})

	t.Run("purge forces a refill", func(t *testing.T) {
		loader := &stubLoader{records: []*bundle.Bundle{
			makeBundle(t, "intro", "es", "title", "Intro", "Introducción"),
		}}
		c := NewBundleCache(loader)
		key := loader.records[0].Key

		if _, err := c.Get(ctx, key); err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		c.Purge()
		if c.Len() != 0 || c.SizeBytes() != 0 {
			t.Fatalf("Len() = %d, SizeBytes() = %d after purge, want 0", c.Len(), c.SizeBytes())
		}
		if _, err := c.Get(ctx, key); err != nil {
			t.Fatalf("Get() after purge error = %v", err)
		}
		if loader.calls != 2 {
			t.Errorf("loader calls = %d, want refill after purge", loader.calls)
		}
	})
}

func TestOperationView(t *testing.T) {
	ctx := context.Background()

	loader := &stubLoader{records: []*bundle.Bundle{
		makeBundle(t, "intro", "es", "title", "Intro", "Introducción"),
	}}
	shared := NewBundleCache(loader)
	view := NewOperationView(shared)
	key := loader.records[0].Key

	first, err := view.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	second, err := view.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if first != second {
		t.Error("view should return the same instance for repeated reads")
	}

	replacement := makeBundle(t, "intro", "es", "title", "Intro", "Presentación")
	view.Put(key, replacement)
	got, _ := view.Get(ctx, key)
	if got != replacement {
		t.Error("Put() should override subsequent reads within the operation")
	}

	view.Forget(key)
	refreshed, _ := view.Get(ctx, key)
	if refreshed == replacement {
		t.Error("Forget() should force the next read through to the source")
	}
}
