package history

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema creates the history tables.
const Schema = `
CREATE TABLE IF NOT EXISTS modifications (
    id TEXT PRIMARY KEY,
    operation_id TEXT NOT NULL,
    recorded_at INTEGER NOT NULL, -- unix nanoseconds, UTC
    table_name TEXT NOT NULL,
    family TEXT NOT NULL,
    action TEXT NOT NULL,
    rule TEXT,
    rule_json TEXT,
    trigger_name TEXT NOT NULL,
    status TEXT NOT NULL,
    error TEXT
);

CREATE INDEX IF NOT EXISTS idx_modifications_recorded_at ON modifications(recorded_at);
CREATE INDEX IF NOT EXISTS idx_modifications_table_family ON modifications(table_name, family);
CREATE INDEX IF NOT EXISTS idx_modifications_operation ON modifications(operation_id);

CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY
);
`

// InsertSchemaVersion records the schema version once.
const InsertSchemaVersion = `INSERT OR IGNORE INTO schema_version (version) VALUES (?)`

// GetSchemaVersion reads the highest recorded schema version.
const GetSchemaVersion = `SELECT MAX(version) FROM schema_version`
