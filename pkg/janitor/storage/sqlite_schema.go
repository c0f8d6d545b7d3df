package storage

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema contains the SQL statements to create the portal entity schema.
// The janitor does not own this data; the schema matches what the portal
// application writes and is created here only so that fresh databases (and
// tests) are usable without the portal running first.
const Schema = `
-- Cleanup-eligible portal entities
CREATE TABLE IF NOT EXISTS entities (
    id TEXT PRIMARY KEY,
    category TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'active',
    owner_id TEXT NOT NULL DEFAULT '',

    -- Timestamps
    created_at TIMESTAMP NOT NULL,
    last_active_at TIMESTAMP,

    -- Explicit expiry annotation, raw string (may be empty)
    expires_at TEXT NOT NULL DEFAULT ''
);

-- Schema version table
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

-- Indexes for candidate enumeration
CREATE INDEX IF NOT EXISTS idx_entities_category_created ON entities(category, created_at);
CREATE INDEX IF NOT EXISTS idx_entities_status ON entities(status);
CREATE INDEX IF NOT EXISTS idx_entities_owner ON entities(owner_id);
`

// InsertSchemaVersion inserts the schema version into the schema_version table.
const InsertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

// GetSchemaVersion retrieves the current schema version from the database.
const GetSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`
