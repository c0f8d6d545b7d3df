package policy

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

// TestWatcher_ReloadsOnChange tests that rewriting the policy file delivers a
// fresh table to the reload callback.
func TestWatcher_ReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.yaml")
	if err := os.WriteFile(path, []byte(testPolicyYAML), 0644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	watcher, err := NewWatcher(path, nil)
	if err != nil {
		t.Fatalf("NewWatcher() failed: %v", err)
	}

	var reloaded atomic.Pointer[Table]
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	watchDone := make(chan error, 1)
	go func() {
		watchDone <- watcher.Watch(ctx, func(table *Table) {
			reloaded.Store(table)
		})
	}()

	// Give the watcher a moment to register the directory.
	time.Sleep(100 * time.Millisecond)

	updated := `
rules:
  - id: only-sessions
    category: session
    max_age: 24h
    action: delete
    reason: short retention
`
	if err := os.WriteFile(path, []byte(updated), 0644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	deadline := time.After(5 * time.Second)
	for reloaded.Load() == nil {
		select {
		case <-deadline:
			t.Fatal("reload callback never fired")
		case <-time.After(20 * time.Millisecond):
		}
	}

	table := reloaded.Load()
	if table.Len() != 1 {
		t.Errorf("reloaded table has %d rules, want 1", table.Len())
	}
	if table.Rules()[0].ID != "only-sessions" {
		t.Errorf("rule id = %q, want %q", table.Rules()[0].ID, "only-sessions")
	}

	if err := watcher.Stop(); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}
	if err := <-watchDone; err != nil {
		t.Errorf("Watch() returned %v, want nil", err)
	}
}

// TestWatcher_KeepsRulesOnBadReload tests that a broken rewrite leaves the
// previous table in effect.
func TestWatcher_KeepsRulesOnBadReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.yaml")
	if err := os.WriteFile(path, []byte(testPolicyYAML), 0644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	watcher, err := NewWatcher(path, nil)
	if err != nil {
		t.Fatalf("NewWatcher() failed: %v", err)
	}

	var reloads atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		_ = watcher.Watch(ctx, func(*Table) { reloads.Add(1) })
	}()
	time.Sleep(100 * time.Millisecond)

	// Malformed rules must not reach the callback.
	if err := os.WriteFile(path, []byte("rules: [broken"), 0644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
	time.Sleep(500 * time.Millisecond)

	if got := reloads.Load(); got != 0 {
		t.Errorf("reload fired %d times for malformed policy, want 0", got)
	}

	if err := watcher.Stop(); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}
}
