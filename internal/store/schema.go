package store

import "database/sql"

const ddl = `
PRAGMA journal_mode=WAL;

CREATE TABLE IF NOT EXISTS records (
    path        TEXT PRIMARY KEY,
    content     TEXT NOT NULL,
    keywords    TEXT NOT NULL,
    description TEXT NOT NULL,
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS meta (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// Init creates the schema tables if they don't exist.
func Init(db *sql.DB) error {
	_, err := db.Exec(ddl)
	return err
}
