package search

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/storage"
)

// Sync reconciles the mirror with the vault on disk: stale or missing notes
// are re-read and upserted, notes whose files are gone are deleted. Checksum
// comparison keeps a re-sync after an unrelated change cheap.
func Sync(db *DB, store storage.Provider, logger *slog.Logger) error {
	files, err := store.List()
	if err != nil {
		return fmt.Errorf("search: list vault: %w", err)
	}
	known, err := db.AllChecksums()
	if err != nil {
		return err
	}

	var updated, removed int
	onDisk := make(map[string]struct{}, len(files))
	for _, f := range files {
		onDisk[f.Path] = struct{}{}
		if known[f.Path] == f.Checksum {
			continue
		}
		content, err := store.ReadText(f.Path)
		if err != nil {
			logger.Warn("search sync: skip unreadable file", "path", f.Path, "error", err)
			continue
		}
		name := noteName(f.Path)
		note := models.ParseNote(name, f.Path, content)
		if err := db.UpsertNote(f.Path, name, f.Checksum, note.Body, note.Tags); err != nil {
			return err
		}
		updated++
	}
	for path := range known {
		if _, ok := onDisk[path]; ok {
			continue
		}
		if err := db.DeleteNote(path); err != nil {
			return err
		}
		removed++
	}
	if updated > 0 || removed > 0 {
		logger.Debug("search mirror synced", "updated", updated, "removed", removed)
	}
	return nil
}

func noteName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), ".md")
}
