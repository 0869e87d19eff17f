package sqlite

import "database/sql"

// schema runs on startup to ensure tables exist.
const schema = `
CREATE TABLE IF NOT EXISTS receipt_cache (
    digest TEXT PRIMARY KEY,
    receipt TEXT NOT NULL,
    stored_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_receipt_cache_stored_at ON receipt_cache(stored_at);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
