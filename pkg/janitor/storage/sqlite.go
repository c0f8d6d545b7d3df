package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"trainingportal-hq/janitor/pkg/janitor"
)

// SQLiteConfig contains configuration for the SQLite store backend.
type SQLiteConfig struct {
	// Driver selects the SQLite driver.
	// Options: "sqlite3" (mattn, cgo), "sqlite" (modernc, pure Go)
	// Default: "sqlite3"
	Driver string

	// Path is the database file path.
	Path string

	// MaxOpenConns is the maximum number of open connections to the database.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int

	// WALMode enables Write-Ahead Logging mode for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Driver:       "sqlite3",
		Path:         "data/portal.db",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStore implements the janitor.Store interface against the portal's
// SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStore opens the portal database and verifies the schema.
func NewSQLiteStore(config *SQLiteConfig) (*SQLiteStore, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}
	if config.Driver == "" {
		config.Driver = "sqlite3"
	}

	logger := slog.Default().With("component", "janitor.storage.sqlite")

	db, err := sql.Open(config.Driver, config.Path)
	if err != nil {
		return nil, janitor.NewConnectivityError("sqlite", "open", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	s := &SQLiteStore{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite store initialized",
		"driver", config.Driver,
		"path", config.Path,
		"wal_mode", config.WALMode,
		"max_open_conns", config.MaxOpenConns,
	)

	return s, nil
}

// initialize sets up the database schema and enables WAL mode.
func (s *SQLiteStore) initialize() error {
	if s.config.WALMode {
		_, err := s.db.Exec("PRAGMA journal_mode=WAL;")
		if err != nil {
			return janitor.NewConnectivityError("sqlite", "enable_wal", err)
		}
		s.logger.Debug("WAL mode enabled")
	}

	busyTimeoutMs := s.config.BusyTimeout.Milliseconds()
	_, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeoutMs))
	if err != nil {
		return janitor.NewConnectivityError("sqlite", "set_busy_timeout", err)
	}

	_, err = s.db.Exec(Schema)
	if err != nil {
		return janitor.NewConnectivityError("sqlite", "create_schema", err)
	}

	_, err = s.db.Exec(InsertSchemaVersion, SchemaVersion)
	if err != nil {
		return janitor.NewConnectivityError("sqlite", "insert_schema_version", err)
	}

	var version int
	err = s.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return janitor.NewConnectivityError("sqlite", "get_schema_version", err)
	}

	if version != SchemaVersion {
		return janitor.NewConnectivityError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	s.logger.Debug("schema version verified", "version", version)

	return nil
}

// FetchCandidates streams the entities of one category ordered by creation
// time ascending. An empty category streams every entity, which wildcard
// rules rely on. The channels are closed when the stream completes or errors.
func (s *SQLiteStore) FetchCandidates(ctx context.Context, category string) (<-chan *janitor.Entity, <-chan error, error) {
	entityCh := make(chan *janitor.Entity, 100) // Buffer 100 entities
	errCh := make(chan error, 1)

	query := `
		SELECT id, category, status, owner_id, created_at, last_active_at, expires_at
		FROM entities
		WHERE category = ?
		ORDER BY created_at ASC
	`
	args := []any{category}
	if category == "" {
		query = `
			SELECT id, category, status, owner_id, created_at, last_active_at, expires_at
			FROM entities
			ORDER BY created_at ASC
		`
		args = nil
	}

	go func() {
		defer close(entityCh)
		defer close(errCh)

		rows, err := s.db.QueryContext(ctx, query, args...)
		if err != nil {
			errCh <- janitor.NewConnectivityError("sqlite", "fetch", err)
			return
		}
		defer rows.Close()

		for rows.Next() {
			select {
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			default:
			}

			entity, err := scanEntity(rows)
			if err != nil {
				errCh <- janitor.NewConnectivityError("sqlite", "scan", err)
				return
			}

			select {
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			case entityCh <- entity:
			}
		}

		if err := rows.Err(); err != nil {
			errCh <- janitor.NewConnectivityError("sqlite", "fetch", err)
		}
	}()

	return entityCh, errCh, nil
}

// Get retrieves a single entity by ID.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*janitor.Entity, error) {
	query := `
		SELECT id, category, status, owner_id, created_at, last_active_at, expires_at
		FROM entities
		WHERE id = ?
	`

	row := s.db.QueryRowContext(ctx, query, id)

	var entity janitor.Entity
	var lastActive sql.NullTime
	err := row.Scan(&entity.ID, &entity.Category, &entity.Status, &entity.OwnerID,
		&entity.CreatedAt, &lastActive, &entity.ExpiresAt)
	if err == sql.ErrNoRows {
		return nil, &janitor.NotFoundError{EntityID: id}
	}
	if err != nil {
		return nil, janitor.NewConnectivityError("sqlite", "get", err)
	}
	if lastActive.Valid {
		entity.LastActiveAt = lastActive.Time
	}

	return &entity, nil
}

// Apply performs a cleanup action on the identified entity. The mutation is
// isolated to that entity; a missing entity yields a NotFoundError so the
// executor can treat it as already clean.
func (s *SQLiteStore) Apply(ctx context.Context, entityID string, action janitor.Action) error {
	var query string
	switch action {
	case janitor.ActionDelete:
		query = "DELETE FROM entities WHERE id = ?"
	case janitor.ActionArchive:
		query = "UPDATE entities SET status = 'archived' WHERE id = ?"
	case janitor.ActionAnonymize:
		query = "UPDATE entities SET owner_id = '' WHERE id = ?"
	default:
		return janitor.NewExecutionError(entityID, action,
			fmt.Errorf("unrecognized action %q", action))
	}

	result, err := s.db.ExecContext(ctx, query, entityID)
	if err != nil {
		return janitor.NewConnectivityError("sqlite", "apply", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return janitor.NewConnectivityError("sqlite", "apply", err)
	}
	if affected == 0 {
		return &janitor.NotFoundError{EntityID: entityID}
	}

	return nil
}

// Seed inserts or replaces an entity. The portal application owns entity
// writes in production; this exists for tests and tooling that need to
// populate a fresh database.
func (s *SQLiteStore) Seed(ctx context.Context, entity *janitor.Entity) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO entities
			(id, category, status, owner_id, created_at, last_active_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entity.ID, entity.Category, entity.Status, entity.OwnerID,
		entity.CreatedAt, entity.LastActiveAt, entity.ExpiresAt)
	if err != nil {
		return janitor.NewConnectivityError("sqlite", "seed", err)
	}
	return nil
}

// Count returns the number of entities in a category.
// An empty category counts all entities.
func (s *SQLiteStore) Count(ctx context.Context, category string) (int64, error) {
	query := "SELECT COUNT(*) FROM entities"
	args := []interface{}{}
	if category != "" {
		query += " WHERE category = ?"
		args = append(args, category)
	}

	var count int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, janitor.NewConnectivityError("sqlite", "count", err)
	}

	return count, nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return janitor.NewConnectivityError("sqlite", "ping", err)
	}
	return nil
}

// Close releases the database connection pool.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return janitor.NewConnectivityError("sqlite", "close", err)
	}
	s.logger.Info("SQLite store closed")
	return nil
}

// scanEntity scans a database row into an Entity.
func scanEntity(rows *sql.Rows) (*janitor.Entity, error) {
	var entity janitor.Entity
	var lastActive sql.NullTime

	err := rows.Scan(&entity.ID, &entity.Category, &entity.Status, &entity.OwnerID,
		&entity.CreatedAt, &lastActive, &entity.ExpiresAt)
	if err != nil {
		return nil, err
	}

	if lastActive.Valid {
		entity.LastActiveAt = lastActive.Time
	}

	return &entity, nil
}
