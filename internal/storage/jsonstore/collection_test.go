package jsonstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/dchgoh/SWE30003-ART-System/internal/storage"
)

type record struct {
	ID    string `json:"id"`
	Value int    `json:"value"`
}

func newTestCollection(t *testing.T) *Collection[record] {
	t.Helper()
	return NewCollection(t.TempDir(), "records", func(r record) string { return r.ID })
}

func TestCollectionUpsertAndFind(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	col := newTestCollection(t)

	if err := col.Upsert(ctx, record{ID: "a", Value: 1}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := col.Upsert(ctx, record{ID: "b", Value: 2}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	// Second upsert with the same key replaces, never duplicates.
	if err := col.Upsert(ctx, record{ID: "a", Value: 10}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, ok, err := col.FindByID(ctx, "a")
	if err != nil || !ok {
		t.Fatalf("FindByID: ok=%v err=%v", ok, err)
	}
	if got.Value != 10 {
		t.Fatalf("expected replaced value 10, got %d", got.Value)
	}

	all, err := col.All(ctx)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 records, got %d", len(all))
	}
}

func TestCollectionMissingAndCorruptFiles(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("missing file reads as empty", func(t *testing.T) {
		col := newTestCollection(t)
		all, err := col.All(ctx)
		if err != nil {
			t.Fatalf("All: %v", err)
		}
		if len(all) != 0 {
			t.Fatalf("expected empty, got %d", len(all))
		}
	})

	t.Run("corrupt file reads as empty and recovers on save", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "records.json")
		if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
			t.Fatalf("seed corrupt file: %v", err)
		}
		col := NewCollection(dir, "records", func(r record) string { return r.ID })

		all, err := col.All(ctx)
		if err != nil {
			t.Fatalf("All on corrupt file: %v", err)
		}
		if len(all) != 0 {
			t.Fatalf("expected empty, got %d", len(all))
		}

		if err := col.Upsert(ctx, record{ID: "x", Value: 1}); err != nil {
			t.Fatalf("upsert after corruption: %v", err)
		}
		got, ok, err := col.FindByID(ctx, "x")
		if err != nil || !ok || got.Value != 1 {
			t.Fatalf("record lost after recovery: ok=%v err=%v got=%+v", ok, err, got)
		}
	})
}

func TestCollectionUpdate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	col := newTestCollection(t)

	if err := col.Upsert(ctx, record{ID: "a", Value: 1}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	t.Run("applies mutation atomically", func(t *testing.T) {
		err := col.Update(ctx, "a", func(r *record) error {
			r.Value++
			return nil
		})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		got, _, _ := col.FindByID(ctx, "a")
		if got.Value != 2 {
			t.Fatalf("expected 2, got %d", got.Value)
		}
	})

	t.Run("mutation error leaves record untouched", func(t *testing.T) {
		sentinel := errors.New("nope")
		err := col.Update(ctx, "a", func(r *record) error {
			r.Value = 99
			return sentinel
		})
		if !errors.Is(err, sentinel) {
			t.Fatalf("expected sentinel, got %v", err)
		}
		got, _, _ := col.FindByID(ctx, "a")
		if got.Value != 2 {
			t.Fatalf("rejected mutation persisted: %d", got.Value)
		}
	})

	t.Run("missing id reports not found", func(t *testing.T) {
		err := col.Update(ctx, "missing", func(r *record) error { return nil })
		if !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("expected storage.ErrNotFound, got %v", err)
		}
	})
}

func TestCollectionDeleteBy(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	col := newTestCollection(t)

	for _, r := range []record{{"a", 1}, {"b", 2}, {"c", 2}} {
		if err := col.Upsert(ctx, r); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}

	removed, err := col.DeleteBy(ctx, func(r record) bool { return r.Value == 2 })
	if err != nil {
		t.Fatalf("DeleteBy: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}
	all, _ := col.All(ctx)
	if len(all) != 1 || all[0].ID != "a" {
		t.Fatalf("unexpected survivors: %+v", all)
	}
}

func TestCollectionConcurrentUpdates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	col := newTestCollection(t)

	if err := col.Upsert(ctx, record{ID: "counter", Value: 0}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	const workers = 20
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			col.Update(ctx, "counter", func(r *record) error {
				r.Value++
				return nil
			})
		}()
	}
	wg.Wait()

	got, _, _ := col.FindByID(ctx, "counter")
	if got.Value != workers {
		t.Fatalf("lost updates: expected %d, got %d", workers, got.Value)
	}
}

// Two Collection values over the same file stand in for the api and worker
// binaries sharing one data directory. The file lock, not the in-process
// mutex, is what keeps their writes from erasing each other.
func TestCollectionCrossInstanceWrites(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir := t.TempDir()
	key := func(r record) string { return r.ID }
	a := NewCollection(dir, "shared", key)
	b := NewCollection(dir, "shared", key)

	const perInstance = 100
	var wg sync.WaitGroup
	wg.Add(2 * perInstance)
	for i := 0; i < perInstance; i++ {
		go func(n int) {
			defer wg.Done()
			if err := a.Upsert(ctx, record{ID: fmt.Sprintf("a-%d", n), Value: n}); err != nil {
				t.Errorf("upsert a-%d: %v", n, err)
			}
		}(i)
		go func(n int) {
			defer wg.Done()
			if err := b.Upsert(ctx, record{ID: fmt.Sprintf("b-%d", n), Value: n}); err != nil {
				t.Errorf("upsert b-%d: %v", n, err)
			}
		}(i)
	}
	wg.Wait()

	all, err := a.All(ctx)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(all) != 2*perInstance {
		t.Fatalf("lost updates across instances: expected %d records, found %d", 2*perInstance, len(all))
	}

	t.Run("updates interleave across instances", func(t *testing.T) {
		if err := a.Upsert(ctx, record{ID: "counter", Value: 0}); err != nil {
			t.Fatalf("upsert: %v", err)
		}
		const each = 10
		var wg sync.WaitGroup
		wg.Add(2 * each)
		for i := 0; i < each; i++ {
			for _, col := range []*Collection[record]{a, b} {
				go func(col *Collection[record]) {
					defer wg.Done()
					col.Update(ctx, "counter", func(r *record) error {
						r.Value++
						return nil
					})
				}(col)
			}
		}
		wg.Wait()

		got, _, _ := b.FindByID(ctx, "counter")
		if got.Value != 2*each {
			t.Fatalf("lost updates: expected %d, got %d", 2*each, got.Value)
		}
	})
}
