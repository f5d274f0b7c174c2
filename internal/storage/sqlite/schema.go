package sqlite

const schema = `
-- Solve history
CREATE TABLE IF NOT EXISTS solves (
    id TEXT PRIMARY KEY,
    a REAL NOT NULL,
    b REAL NOT NULL,
    c REAL NOT NULL,
    d REAL NOT NULL,
    negative_roots TEXT NOT NULL DEFAULT '[]',
    all_roots TEXT NOT NULL DEFAULT '[]',
    source TEXT NOT NULL DEFAULT 'cli',
    duration_ns INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_solves_created_at ON solves(created_at);

-- Key/value metadata
CREATE TABLE IF NOT EXISTS config (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// schemaVersion is stored under the "schema_version" config key
const schemaVersion = "1"
