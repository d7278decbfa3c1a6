package search

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/raido/internal/testutil"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestUpsertQueryDelete(t *testing.T) {
	db := testDB(t)

	if err := db.UpsertNote("a.md", "Project Plan", "cs1", "Quarterly goals.", []string{"work"}); err != nil {
		t.Fatal(err)
	}
	if err := db.UpsertNote("b.md", "Journal", "cs2", "Nothing relevant.", nil); err != nil {
		t.Fatal(err)
	}

	results, err := db.Query("quarterly", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Name != "Project Plan" {
		t.Errorf("results = %+v", results)
	}

	// Upsert with same path replaces, not duplicates.
	if err := db.UpsertNote("a.md", "Project Plan", "cs3", "Renamed content.", nil); err != nil {
		t.Fatal(err)
	}
	results, err = db.Query("quarterly", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("stale content still matches: %+v", results)
	}

	if err := db.DeleteNote("a.md"); err != nil {
		t.Fatal(err)
	}
	checksums, err := db.AllChecksums()
	if err != nil {
		t.Fatal(err)
	}
	if len(checksums) != 1 || checksums["b.md"] != "cs2" {
		t.Errorf("checksums = %v", checksums)
	}
}

func TestSync_AddUpdateRemove(t *testing.T) {
	db := testDB(t)
	dir, store := testutil.TestVault(t)
	logger := slog.Default()

	testutil.WriteFile(t, dir, "A.md", "---\ntags:\n  - x\n---\nalpha content\n")
	testutil.WriteFile(t, dir, "B.md", "beta content\n")

	if err := Sync(db, store, logger); err != nil {
		t.Fatal(err)
	}
	checksums, err := db.AllChecksums()
	if err != nil {
		t.Fatal(err)
	}
	if len(checksums) != 2 {
		t.Fatalf("checksums = %v", checksums)
	}

	// Unchanged files are skipped, changed ones re-read, gone ones dropped.
	testutil.WriteFile(t, dir, "A.md", "updated alpha\n")
	if err := os.Remove(filepath.Join(dir, "B.md")); err != nil {
		t.Fatal(err)
	}
	if err := Sync(db, store, logger); err != nil {
		t.Fatal(err)
	}

	results, err := db.Query("updated", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Name != "A" {
		t.Errorf("results = %+v", results)
	}
	checksums, err = db.AllChecksums()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := checksums["B.md"]; ok {
		t.Error("deleted file still mirrored")
	}
}

func TestSync_BodyExcludesFrontmatter(t *testing.T) {
	db := testDB(t)
	dir, store := testutil.TestVault(t)

	testutil.WriteFile(t, dir, "A.md", "---\nsecret: zanzibar\n---\nplain body\n")
	if err := Sync(db, store, slog.Default()); err != nil {
		t.Fatal(err)
	}
	results, err := db.Query("zanzibar", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("frontmatter leaked into search: %+v", results)
	}
}
