package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"trainingportal-hq/janitor/pkg/janitor"
)

// testSQLiteStore opens a fresh store against a temp database using the pure
// Go driver, so tests run without cgo.
func testSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := NewSQLiteStore(&SQLiteConfig{
		Driver:       "sqlite",
		Path:         filepath.Join(t.TempDir(), "portal.db"),
		MaxOpenConns: 2,
		MaxIdleConns: 1,
		WALMode:      true,
		BusyTimeout:  time.Second,
	})
	if err != nil {
		t.Fatalf("NewSQLiteStore() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func insertEntity(t *testing.T, store *SQLiteStore, entity *janitor.Entity) {
	t.Helper()

	if err := store.Seed(context.Background(), entity); err != nil {
		t.Fatalf("Seed(%q) failed: %v", entity.ID, err)
	}
}

// TestSQLiteStore_Initialize tests schema creation and version verification.
func TestSQLiteStore_Initialize(t *testing.T) {
	store := testSQLiteStore(t)

	if err := store.Ping(context.Background()); err != nil {
		t.Fatalf("Ping() failed: %v", err)
	}

	count, err := store.Count(context.Background(), "")
	if err != nil {
		t.Fatalf("Count() failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Count() = %d on fresh database, want 0", count)
	}
}

// TestSQLiteStore_FetchCandidates tests category-scoped enumeration ordered
// by creation time.
func TestSQLiteStore_FetchCandidates(t *testing.T) {
	store := testSQLiteStore(t)
	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)

	insertEntity(t, store, &janitor.Entity{ID: "s-2", Category: "session", Status: "active", CreatedAt: now.Add(-time.Hour), LastActiveAt: now})
	insertEntity(t, store, &janitor.Entity{ID: "s-1", Category: "session", Status: "active", CreatedAt: now.Add(-2 * time.Hour), LastActiveAt: now})
	insertEntity(t, store, &janitor.Entity{ID: "e-1", Category: "enrollment", Status: "completed", CreatedAt: now.Add(-3 * time.Hour), LastActiveAt: now})

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
			t.Errorf("ids[%d] = %q, want %q (creation order)", i, ids[i], want[i])
		}
	}
}

// TestSQLiteStore_FetchCandidates_AllCategories tests that an empty category
// streams every entity.
func TestSQLiteStore_FetchCandidates_AllCategories(t *testing.T) {
	store := testSQLiteStore(t)
	now := time.Now().UTC()

	insertEntity(t, store, &janitor.Entity{ID: "s-1", Category: "session", Status: "active", CreatedAt: now, LastActiveAt: now})
	insertEntity(t, store, &janitor.Entity{ID: "e-1", Category: "enrollment", Status: "completed", CreatedAt: now, LastActiveAt: now})
	insertEntity(t, store, &janitor.Entity{ID: "a-1", Category: "artifact", Status: "active", CreatedAt: now, LastActiveAt: now})

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
	if got != 3 {
		t.Errorf("streamed %d entities, want 3", got)
	}
}

// TestSQLiteStore_Get tests entity retrieval and the not-found error.
func TestSQLiteStore_Get(t *testing.T) {
	store := testSQLiteStore(t)
	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)

	insertEntity(t, store, &janitor.Entity{
		ID: "s-1", Category: "session", Status: "active", OwnerID: "user-1",
		CreatedAt: now, LastActiveAt: now, ExpiresAt: "2026-12-01",
	})

	entity, err := store.Get(context.Background(), "s-1")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if entity.Category != "session" || entity.OwnerID != "user-1" || entity.ExpiresAt != "2026-12-01" {
		t.Errorf("Get() = %+v, want stored fields", entity)
	}

	_, err = store.Get(context.Background(), "absent")
	if !janitor.IsNotFound(err) {
		t.Errorf("Get(absent) error = %v, want not found", err)
	}
}

// TestSQLiteStore_Apply tests each cleanup action against stored rows.
func TestSQLiteStore_Apply(t *testing.T) {
	store := testSQLiteStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	insertEntity(t, store, &janitor.Entity{ID: "del-1", Category: "session", Status: "active", CreatedAt: now, LastActiveAt: now})
	insertEntity(t, store, &janitor.Entity{ID: "arc-1", Category: "enrollment", Status: "completed", CreatedAt: now, LastActiveAt: now})
	insertEntity(t, store, &janitor.Entity{ID: "ano-1", Category: "artifact", Status: "active", OwnerID: "user-9", CreatedAt: now, LastActiveAt: now})

	if err := store.Apply(ctx, "del-1", janitor.ActionDelete); err != nil {
		t.Fatalf("Apply(delete) failed: %v", err)
	}
	if _, err := store.Get(ctx, "del-1"); !janitor.IsNotFound(err) {
		t.Errorf("Get() after delete = %v, want not found", err)
	}

	if err := store.Apply(ctx, "arc-1", janitor.ActionArchive); err != nil {
		t.Fatalf("Apply(archive) failed: %v", err)
	}
	archived, err := store.Get(ctx, "arc-1")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if archived.Status != "archived" {
		t.Errorf("Status = %q after archive, want %q", archived.Status, "archived")
	}

	if err := store.Apply(ctx, "ano-1", janitor.ActionAnonymize); err != nil {
		t.Fatalf("Apply(anonymize) failed: %v", err)
	}
	anon, err := store.Get(ctx, "ano-1")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if anon.OwnerID != "" {
		t.Errorf("OwnerID = %q after anonymize, want empty", anon.OwnerID)
	}
}

// TestSQLiteStore_Apply_NotFound tests that a vanished entity surfaces as
// not found rather than a silent no-op.
func TestSQLiteStore_Apply_NotFound(t *testing.T) {
	store := testSQLiteStore(t)

	err := store.Apply(context.Background(), "ghost", janitor.ActionDelete)
	if !janitor.IsNotFound(err) {
		t.Errorf("Apply(ghost) error = %v, want not found", err)
	}
}

// TestSQLiteStore_Count tests category-scoped counting.
func TestSQLiteStore_Count(t *testing.T) {
	store := testSQLiteStore(t)
	now := time.Now().UTC()

	insertEntity(t, store, &janitor.Entity{ID: "s-1", Category: "session", Status: "active", CreatedAt: now, LastActiveAt: now})
	insertEntity(t, store, &janitor.Entity{ID: "s-2", Category: "session", Status: "active", CreatedAt: now, LastActiveAt: now})
	insertEntity(t, store, &janitor.Entity{ID: "e-1", Category: "enrollment", Status: "completed", CreatedAt: now, LastActiveAt: now})

	count, err := store.Count(context.Background(), "session")
	if err != nil {
		t.Fatalf("Count() failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Count(session) = %d, want 2", count)
	}

	total, err := store.Count(context.Background(), "")
	if err != nil {
		t.Fatalf("Count() failed: %v", err)
	}
	if total != 3 {
		t.Errorf("Count() = %d, want 3", total)
	}
}
