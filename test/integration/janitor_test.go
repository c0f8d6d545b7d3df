//go:build integration

package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"trainingportal-hq/janitor/pkg/janitor"
	"trainingportal-hq/janitor/pkg/janitor/executor"
	"trainingportal-hq/janitor/pkg/janitor/policy"
	"trainingportal-hq/janitor/pkg/janitor/runner"
	"trainingportal-hq/janitor/pkg/janitor/storage"
)

const integrationPolicy = `
rules:
  - id: expired-sessions
    category: session
    max_age: 720h
    action: delete
    reason: session expired
  - id: stale-enrollments
    category: enrollment
    max_age: 2160h
    grace_period: 168h
    required_status: completed
    action: archive
    reason: enrollment stale
  - id: orphaned-artifacts
    category: artifact
    max_age: 4320h
    action: anonymize
    reason: artifact aged out
`

// TestJanitorEndToEnd drives the full pipeline against a real SQLite file:
// load policy from disk, enumerate the store, evaluate, and apply actions.
func TestJanitorEndToEnd(t *testing.T) {
	dir := t.TempDir()

	policyPath := filepath.Join(dir, "policy.yaml")
	if err := os.WriteFile(policyPath, []byte(integrationPolicy), 0644); err != nil {
		t.Fatalf("writing policy file failed: %v", err)
	}

	table, err := policy.LoadFile(policyPath)
	if err != nil {
		t.Fatalf("LoadFile() failed: %v", err)
	}

	store, err := storage.NewSQLiteStore(&storage.SQLiteConfig{
		Driver:      "sqlite",
		Path:        filepath.Join(dir, "portal.db"),
		WALMode:     true,
		BusyTimeout: time.Second,
	})
	if err != nil {
		t.Fatalf("NewSQLiteStore() failed: %v", err)
	}
	defer store.Close()

	seedPortalData(t, store)

	archiveDir := filepath.Join(dir, "archives")
	exec := executor.New(store, &executor.Config{
		MaxAttempts:  3,
		RetryBackoff: 10 * time.Millisecond,
	}, executor.NewArchiver(archiveDir))

	run := runner.New(store, policy.NewEvaluator(table), exec, &runner.Config{Workers: 4})

	report, err := run.TryRun(context.Background())
	if err != nil {
		t.Fatalf("TryRun() failed: %v", err)
	}

	if report.State != runner.RunCompleted {
		t.Fatalf("State = %q, want %q", report.State, runner.RunCompleted)
	}
	if report.Evaluated != 6 {
		t.Errorf("Evaluated = %d, want 6", report.Evaluated)
	}
	if report.Applied != 3 {
		t.Errorf("Applied = %d, want 3", report.Applied)
	}
	if report.Violations != 1 {
		t.Errorf("Violations = %d, want 1", report.Violations)
	}

	ctx := context.Background()

	// Expired session deleted.
	if _, err := store.Get(ctx, "session-expired"); !janitor.IsNotFound(err) {
		t.Errorf("Get(session-expired) = %v, want not found", err)
	}
	// Fresh session untouched.
	if _, err := store.Get(ctx, "session-fresh"); err != nil {
		t.Errorf("Get(session-fresh) = %v, want present", err)
	}
	// Stale completed enrollment archived.
	enrollment, err := store.Get(ctx, "enrollment-stale")
	if err != nil {
		t.Fatalf("Get(enrollment-stale) failed: %v", err)
	}
	if enrollment.Status != "archived" {
		t.Errorf("enrollment status = %q, want %q", enrollment.Status, "archived")
	}
	// Old artifact anonymized.
	artifact, err := store.Get(ctx, "artifact-old")
	if err != nil {
		t.Fatalf("Get(artifact-old) failed: %v", err)
	}
	if artifact.OwnerID != "" {
		t.Errorf("artifact owner = %q, want anonymized", artifact.OwnerID)
	}
	// Malformed expiry left alone.
	if _, err := store.Get(ctx, "session-bad-expiry"); err != nil {
		t.Errorf("Get(session-bad-expiry) = %v, want violation entity untouched", err)
	}

	// The deleted session was archived to disk first.
	entries, err := os.ReadDir(archiveDir)
	if err != nil {
		t.Fatalf("ReadDir(archives) failed: %v", err)
	}
	// delete + archive actions both export: session-expired and enrollment-stale.
	if len(entries) != 2 {
		t.Errorf("archive dir holds %d files, want 2", len(entries))
	}
}

// TestJanitorEndToEnd_SecondRunIdempotent tests that re-running over an
// already clean store applies nothing.
func TestJanitorEndToEnd_SecondRunIdempotent(t *testing.T) {
	dir := t.TempDir()

	table, err := policy.Parse([]byte(integrationPolicy))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	store, err := storage.NewSQLiteStore(&storage.SQLiteConfig{
		Driver:      "sqlite",
		Path:        filepath.Join(dir, "portal.db"),
		WALMode:     true,
		BusyTimeout: time.Second,
	})
	if err != nil {
		t.Fatalf("NewSQLiteStore() failed: %v", err)
	}
	defer store.Close()

	seedPortalData(t, store)

	exec := executor.New(store, &executor.Config{
		MaxAttempts:  3,
		RetryBackoff: 10 * time.Millisecond,
	}, nil)
	run := runner.New(store, policy.NewEvaluator(table), exec, &runner.Config{Workers: 2})

	first, err := run.TryRun(context.Background())
	if err != nil {
		t.Fatalf("first TryRun() failed: %v", err)
	}
	if first.Applied == 0 {
		t.Fatal("first run applied nothing, seed data broken")
	}

	second, err := run.TryRun(context.Background())
	if err != nil {
		t.Fatalf("second TryRun() failed: %v", err)
	}
	if second.State != runner.RunCompleted {
		t.Errorf("State = %q, want %q", second.State, runner.RunCompleted)
	}
	// Deleted entities are gone; archived/anonymized ones re-match their
	// rules but the actions are idempotent, so nothing fails.
	if second.Failed != 0 {
		t.Errorf("Failed = %d on second run, want 0", second.Failed)
	}
}

// seedPortalData inserts a representative portal dataset.
func seedPortalData(t *testing.T, store *storage.SQLiteStore) {
	t.Helper()

	now := time.Now().UTC()
	entities := []*janitor.Entity{
		{ID: "session-expired", Category: "session", Status: "active", OwnerID: "user-1", CreatedAt: now.Add(-60 * 24 * time.Hour)},
		{ID: "session-fresh", Category: "session", Status: "active", OwnerID: "user-2", CreatedAt: now.Add(-24 * time.Hour)},
		{ID: "session-bad-expiry", Category: "session", Status: "active", OwnerID: "user-3", CreatedAt: now.Add(-60 * 24 * time.Hour), ExpiresAt: "soon"},
		{ID: "enrollment-stale", Category: "enrollment", Status: "completed", OwnerID: "user-1", CreatedAt: now.Add(-120 * 24 * time.Hour)},
		{ID: "enrollment-active", Category: "enrollment", Status: "in-progress", OwnerID: "user-2", CreatedAt: now.Add(-120 * 24 * time.Hour)},
		{ID: "artifact-old", Category: "artifact", Status: "active", OwnerID: "user-1", CreatedAt: now.Add(-200 * 24 * time.Hour)},
	}

	for _, entity := range entities {
		seedEntity(t, store, entity)
	}
}

func seedEntity(t *testing.T, store *storage.SQLiteStore, entity *janitor.Entity) {
	t.Helper()

	if err := store.Seed(context.Background(), entity); err != nil {
		t.Fatalf("seeding entity %q failed: %v", entity.ID, err)
	}
}
