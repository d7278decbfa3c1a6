//go:build sqlite_fts5

package search

import (
	"database/sql"
	"fmt"
)

// FTS5Enabled reports whether the binary was built with the fts5 extension.
const FTS5Enabled = true

func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS notes_fts USING fts5(
			path UNINDEXED, name, body, tags,
			tokenize = 'unicode61'
		)
	`)
	return err
}

func ftsUpsert(tx *sql.Tx, path, name, body, tags string) error {
	if _, err := tx.Exec(`DELETE FROM notes_fts WHERE path = ?`, path); err != nil {
		return fmt.Errorf("search: fts delete: %w", err)
	}
	if _, err := tx.Exec(`
		INSERT INTO notes_fts (path, name, body, tags) VALUES (?, ?, ?, ?)
	`, path, name, body, tags); err != nil {
		return fmt.Errorf("search: fts insert: %w", err)
	}
	return nil
}

func ftsDelete(tx *sql.Tx, path string) {
	_, _ = tx.Exec(`DELETE FROM notes_fts WHERE path = ?`, path)
}

// Query runs a ranked full-text match over names, bodies and tags.
func (db *DB) Query(q string, limit int) ([]Result, error) {
	rows, err := db.conn.Query(`
		SELECT path, name, snippet(notes_fts, 2, '[', ']', '…', 12)
		FROM notes_fts
		WHERE notes_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, q, limit)
	if err != nil {
		return nil, fmt.Errorf("search: fts query: %w", err)
	}
	defer rows.Close()

	var out []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.Path, &r.Name, &r.Snippet); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
