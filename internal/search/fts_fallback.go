//go:build !sqlite_fts5

package search

import (
	"database/sql"
	"fmt"
	"strings"
)

// FTS5Enabled reports whether the binary was built with the fts5 extension.
const FTS5Enabled = false

func initFTS(conn *sql.DB) error { return nil }

func ftsUpsert(tx *sql.Tx, path, name, body, tags string) error { return nil }

func ftsDelete(tx *sql.Tx, path string) {}

// Query falls back to a case-insensitive LIKE scan when fts5 is unavailable.
// Slower and unranked, but keeps the endpoint functional.
func (db *DB) Query(q string, limit int) ([]Result, error) {
	pattern := "%" + strings.ToLower(q) + "%"
	rows, err := db.conn.Query(`
		SELECT path, name, substr(body, 1, 120)
		FROM notes
		WHERE lower(name) LIKE ? OR lower(body) LIKE ? OR lower(tags) LIKE ?
		ORDER BY name
		LIMIT ?
	`, pattern, pattern, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("search: like query: %w", err)
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
