// Package store owns the SQLite persistence layer: schema creation, deck
// reconciliation, card/review queries, and the daily backup copy. The
// database connection is owned by a single caller; there is no concurrent
// access (§5).
package store

import (
	"database/sql"

	_ "modernc.org/sqlite"

	kbserrors "github.com/dbalmain/kbsr/internal/errors"
)

// DB wraps the underlying connection. All access goes through its methods
// so foreign-key enforcement and transaction boundaries stay centralized.
type DB struct {
	conn *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS decks (
	name TEXT PRIMARY KEY,
	mode TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS cards (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	deck_name TEXT NOT NULL REFERENCES decks(name) ON DELETE CASCADE,
	keybind TEXT NOT NULL,
	description TEXT NOT NULL,
	stability REAL NOT NULL DEFAULT 0,
	difficulty REAL NOT NULL DEFAULT 0,
	last_review TEXT,
	due TEXT,
	reps INTEGER NOT NULL DEFAULT 0,
	lapses INTEGER NOT NULL DEFAULT 0,
	UNIQUE(deck_name, keybind)
);

CREATE TABLE IF NOT EXISTS reviews (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	card_id INTEGER NOT NULL REFERENCES cards(id) ON DELETE CASCADE,
	timestamp TEXT NOT NULL,
	rating INTEGER NOT NULL,
	elapsed_ms INTEGER NOT NULL,
	attempts INTEGER NOT NULL,
	revealed INTEGER NOT NULL
);
`

// Open opens (creating if necessary) the SQLite database at dbPath, enables
// foreign-key enforcement for the connection, and ensures the schema exists.
func Open(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, kbserrors.NewStorageError("open", err)
	}

	// modernc.org/sqlite defaults foreign_keys off per connection; §4.8
	// requires it enabled at connect time.
	if _, err := conn.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		conn.Close()
		return nil, kbserrors.NewStorageError("enable foreign keys", err)
	}

	// A single physical connection keeps PRAGMA foreign_keys scoped to the
	// session that set it; modernc.org/sqlite does not persist pragmas
	// across pooled connections.
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, kbserrors.NewStorageError("create schema", err)
	}

	return &DB{conn: conn}, nil
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	if db == nil || db.conn == nil {
		return nil
	}
	return db.conn.Close()
}

func wrapStorageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return kbserrors.NewStorageError(op, err)
}
