package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"trainingportal-hq/janitor/pkg/janitor"
)

// TestMemoryStore_FetchCandidates tests deterministic category enumeration.
func TestMemoryStore_FetchCandidates(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)

	store.Put(&janitor.Entity{ID: "s-2", Category: "session", CreatedAt: now.Add(-time.Hour)})
	store.Put(&janitor.Entity{ID: "s-1", Category: "session", CreatedAt: now.Add(-2 * time.Hour)})
	store.Put(&janitor.Entity{ID: "e-1", Category: "enrollment", CreatedAt: now.Add(-3 * time.Hour)})

	entityCh, errCh, err := store.FetchCandidates(context.Background(), "session")
	if err != nil {
		t.Fatalf("FetchCandidates() failed: %v", err)
	}

	var ids []string
	for entity := range entityCh {
		ids = append(ids, entity.ID)
	}
	if err := <-errCh; err != nil {
		t.Fatalf("stream error: %v", err)
	}

	want := []string{"s-1", "s-2"}
	if len(ids) != len(want) {
		t.Fatalf("got %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids[%d] = %q, want %q", i, ids[i], want[i])
		}
	}
}

// TestMemoryStore_FetchCandidates_AllCategories tests the empty-category
// wildcard stream.
func TestMemoryStore_FetchCandidates_AllCategories(t *testing.T) {
	store := NewMemoryStore()
	now := time.Now().UTC()

	store.Put(&janitor.Entity{ID: "s-1", Category: "session", CreatedAt: now})
	store.Put(&janitor.Entity{ID: "e-1", Category: "enrollment", CreatedAt: now})

	entityCh, errCh, err := store.FetchCandidates(context.Background(), "")
	if err != nil {
		t.Fatalf("FetchCandidates() failed: %v", err)
	}

	var got int
	for range entityCh {
		got++
	}
	if err := <-errCh; err != nil {
		t.Fatalf("stream error: %v", err)
	}
	if got != 2 {
		t.Errorf("streamed %d entities, want 2", got)
	}
}

// TestMemoryStore_Apply tests each cleanup action.
func TestMemoryStore_Apply(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	store.Put(&janitor.Entity{ID: "del-1", Category: "session"})
	store.Put(&janitor.Entity{ID: "arc-1", Category: "enrollment", Status: "completed"})
	store.Put(&janitor.Entity{ID: "ano-1", Category: "artifact", OwnerID: "user-9"})

	if err := store.Apply(ctx, "del-1", janitor.ActionDelete); err != nil {
		t.Fatalf("Apply(delete) failed: %v", err)
	}
	if _, err := store.Get(ctx, "del-1"); !janitor.IsNotFound(err) {
		t.Errorf("Get() after delete = %v, want not found", err)
	}

	if err := store.Apply(ctx, "arc-1", janitor.ActionArchive); err != nil {
		t.Fatalf("Apply(archive) failed: %v", err)
	}
	archived, _ := store.Get(ctx, "arc-1")
	if archived.Status != "archived" {
		t.Errorf("Status = %q, want %q", archived.Status, "archived")
	}

	if err := store.Apply(ctx, "ano-1", janitor.ActionAnonymize); err != nil {
		t.Fatalf("Apply(anonymize) failed: %v", err)
	}
	anon, _ := store.Get(ctx, "ano-1")
	if anon.OwnerID != "" {
		t.Errorf("OwnerID = %q, want empty", anon.OwnerID)
	}

	if err := store.Apply(ctx, "ghost", janitor.ActionDelete); !janitor.IsNotFound(err) {
		t.Errorf("Apply(ghost) error = %v, want not found", err)
	}
}

// TestMemoryStore_FailureInjection tests the injectable error hooks used by
// runner tests.
func TestMemoryStore_FailureInjection(t *testing.T) {
	store := NewMemoryStore()
	store.Put(&janitor.Entity{ID: "s-1", Category: "session"})
	injected := janitor.NewConnectivityError("memory", "test", errors.New("down"))

	store.FailPing(injected)
	if err := store.Ping(context.Background()); !errors.Is(err, injected) {
		t.Errorf("Ping() = %v, want injected error", err)
	}
	store.FailPing(nil)
	if err := store.Ping(context.Background()); err != nil {
		t.Errorf("Ping() = %v after clearing, want nil", err)
	}

	store.FailFetch(injected)
	if _, _, err := store.FetchCandidates(context.Background(), "session"); !errors.Is(err, injected) {
		t.Errorf("FetchCandidates() = %v, want injected error", err)
	}

	store.FailApply(injected)
	if err := store.Apply(context.Background(), "s-1", janitor.ActionDelete); !errors.Is(err, injected) {
		t.Errorf("Apply() = %v, want injected error", err)
	}
	if store.Size() != 1 {
		t.Errorf("Size() = %d, want entity untouched", store.Size())
	}
}
