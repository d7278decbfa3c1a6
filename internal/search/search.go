// Package search maintains a SQLite mirror of the vault for full-text
// queries. The mirror is derived state: it is resynced from disk after
// vault mutations and on watcher events, and can be rebuilt from scratch at
// any time. Core search modes (exact/substring/tag) never touch it; only
// the full-text surface does.
package search

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS notes (
	path     TEXT PRIMARY KEY,
	name     TEXT NOT NULL DEFAULT '',
	checksum TEXT NOT NULL DEFAULT '',
	tags     TEXT NOT NULL DEFAULT '',
	body     TEXT NOT NULL DEFAULT ''
);
`

// DB wraps a sql.DB with mirror-specific operations.
type DB struct {
	conn *sql.DB
}

// Result is one full-text search hit.
type Result struct {
	Name    string `json:"name"`
	Path    string `json:"path"`
	Snippet string `json:"snippet"`
}

// Open opens (or creates) the SQLite mirror and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("search: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("search: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("search: apply schema: %w", err)
	}
	if err := initFTS(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("search: apply fts schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// UpsertNote inserts or replaces one mirrored note.
func (db *DB) UpsertNote(path, name, checksum, body string, tags []string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("search: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	joined := strings.Join(tags, " ")
	_, err = tx.Exec(`
		INSERT INTO notes (path, name, checksum, tags, body)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			name     = excluded.name,
			checksum = excluded.checksum,
			tags     = excluded.tags,
			body     = excluded.body
	`, path, name, checksum, joined, body)
	if err != nil {
		return fmt.Errorf("search: upsert note: %w", err)
	}
	if err := ftsUpsert(tx, path, name, body, joined); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteNote removes a mirrored note.
func (db *DB) DeleteNote(path string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("search: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ftsDelete(tx, path)
	_, _ = tx.Exec(`DELETE FROM notes WHERE path = ?`, path)
	return tx.Commit()
}

// AllChecksums returns path→checksum for every mirrored note.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, checksum FROM notes`)
	if err != nil {
		return nil, fmt.Errorf("search: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}
