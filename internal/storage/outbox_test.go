package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/dchgoh/SWE30003-ART-System/internal/domain/outbox"
	"github.com/dchgoh/SWE30003-ART-System/internal/storage/jsonstore"
)

func TestOutboxRepository(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := jsonstore.NewStore(t.TempDir())

	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	// Appended out of order on purpose.
	for _, e := range []outbox.Event{
		{ID: "e2", EventType: "x", Status: outbox.StatusNew, CreatedAt: base.Add(2 * time.Minute)},
		{ID: "e1", EventType: "x", Status: outbox.StatusNew, CreatedAt: base.Add(1 * time.Minute)},
		{ID: "e3", EventType: "x", Status: outbox.StatusNew, CreatedAt: base.Add(3 * time.Minute)},
	} {
		if err := store.Outbox.Append(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	t.Run("fetch returns oldest first, capped at limit", func(t *testing.T) {
		batch, err := store.Outbox.FetchBatch(ctx, 2)
		if err != nil {
			t.Fatalf("fetch: %v", err)
		}
		if len(batch) != 2 || batch[0].ID != "e1" || batch[1].ID != "e2" {
			t.Fatalf("unexpected batch order: %+v", batch)
		}
	})

	t.Run("published events leave the batch", func(t *testing.T) {
		at := base.Add(10 * time.Minute)
		if err := store.Outbox.MarkPublished(ctx, []string{"e1", "e2"}, at); err != nil {
			t.Fatalf("mark published: %v", err)
		}
		batch, err := store.Outbox.FetchBatch(ctx, 10)
		if err != nil {
			t.Fatalf("fetch: %v", err)
		}
		if len(batch) != 1 || batch[0].ID != "e3" {
			t.Fatalf("expected only e3 pending, got %+v", batch)
		}
	})

	t.Run("marking published twice is harmless", func(t *testing.T) {
		later := base.Add(20 * time.Minute)
		if err := store.Outbox.MarkPublished(ctx, []string{"e1"}, later); err != nil {
			t.Fatalf("second mark: %v", err)
		}
		all, err := store.Outbox.FetchBatch(ctx, 10)
		if err != nil {
			t.Fatalf("fetch: %v", err)
		}
		for _, e := range all {
			if e.ID == "e1" {
				t.Fatalf("e1 reappeared as pending")
			}
		}
	})
}
