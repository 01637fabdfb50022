// Package storage handles bookkeeping persistence in SQLite.
// Wallpapers themselves are never stored here, only a log of searches served
// and text-generation calls made, for the admin stats endpoint.
package storage

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // Blank import: registers the SQLite driver.
)

// MemoryPath keeps the database inside the process; it vanishes on exit.
const MemoryPath = ":memory:"

const schema = `
CREATE TABLE IF NOT EXISTS searches (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    query      TEXT NOT NULL,
    page       INTEGER NOT NULL,
    results    INTEGER NOT NULL DEFAULT 0,
    cache_hit  BOOLEAN NOT NULL DEFAULT 0,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS recommendation_calls (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    seed        TEXT NOT NULL,
    provider    TEXT NOT NULL,
    model       TEXT NOT NULL,
    success     BOOLEAN NOT NULL DEFAULT 0,
    duration_ms INTEGER,
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_searches_query ON searches(query);
CREATE INDEX IF NOT EXISTS idx_recommendation_calls_provider ON recommendation_calls(provider);
`

// NewDatabase opens (or creates) the SQLite database and runs migrations.
// dbPath may be MemoryPath.
func NewDatabase(dbPath string) (*sqlx.DB, error) {
	// File databases get WAL so reads don't block the single writer;
	// an in-memory database has no journal to configure.
	dsn := dbPath + "?_foreign_keys=on&_busy_timeout=5000"
	if dbPath != MemoryPath {
		dsn += "&_journal_mode=WAL"
	}

	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Ping actually opens the connection (Open is lazy in database/sql)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	// One connection: SQLite wants a single writer, and each new connection to
	// :memory: would otherwise see its own empty database.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return db, nil
}
