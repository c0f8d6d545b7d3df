// Package storage provides store backends for portal entities.
//
// # Store Backends
//
// The storage package implements the janitor.Store interface twice:
//
//   - SQLite: the portal's embedded database, with a selectable driver
//     ("sqlite3" via mattn/go-sqlite3, or "sqlite" via modernc.org/sqlite
//     for cgo-free builds)
//   - Memory: in-memory store for testing, with injectable failures
//
// # SQLite Backend
//
// The SQLite backend provides:
//
//   - WAL mode for concurrent reads/writes
//   - Busy timeout for handling locks
//   - Connection pooling for concurrent workers
//   - Indexes on (category, created_at) for candidate enumeration
//
// # Basic Usage
//
//	store, err := storage.NewSQLiteStore(&storage.SQLiteConfig{
//	    Driver: "sqlite3",
//	    Path:   "data/portal.db",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
//	entityCh, errCh, err := store.FetchCandidates(ctx, "session")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for entity := range entityCh {
//	    // Evaluate entity
//	}
//	if err := <-errCh; err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// Both backends are safe for concurrent use. Candidate streaming is read-only;
// Apply calls rely on the store's per-entity atomicity, so no client-side
// locking is needed across workers.
package storage
