package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newFS(t *testing.T) (*FS, string) {
	t.Helper()
	dir := t.TempDir()
	f, err := NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return f, dir
}

func write(t *testing.T, dir, rel, content string) {
	t.Helper()
	full := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestNewFS_RejectsMissingRoot(t *testing.T) {
	if _, err := NewFS(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected error for missing root")
	}
}

func TestList_SkipsHiddenAndNonMarkdown(t *testing.T) {
	f, dir := newFS(t)
	write(t, dir, "a.md", "a")
	write(t, dir, "sub/b.md", "b")
	write(t, dir, "sub/skip.txt", "nope")
	write(t, dir, ".trash/gone.md", "nope")
	write(t, dir, ".hidden.md", "nope")

	files, err := f.List()
	if err != nil {
		t.Fatal(err)
	}
	var paths []string
	for _, fi := range files {
		paths = append(paths, filepath.ToSlash(fi.Path))
		if fi.Checksum == "" {
			t.Errorf("empty checksum for %s", fi.Path)
		}
	}
	want := []string{"a.md", "sub/b.md"}
	if len(paths) != 2 || paths[0] != want[0] || paths[1] != want[1] {
		t.Errorf("paths = %v, want %v", paths, want)
	}
}

func TestReadText_NormalizesBOMAndCRLF(t *testing.T) {
	f, dir := newFS(t)
	write(t, dir, "n.md", "\ufeffline1\r\nline2\r\n")
	got, err := f.ReadText("n.md")
	if err != nil {
		t.Fatal(err)
	}
	if got != "line1\nline2\n" {
		t.Errorf("got %q", got)
	}
}

func TestWrite_AtomicLeavesNoTemp(t *testing.T) {
	f, dir := newFS(t)
	if err := f.Write("new/deep.md", []byte("content")); err != nil {
		t.Fatal(err)
	}
	got, err := f.ReadText("new/deep.md")
	if err != nil {
		t.Fatal(err)
	}
	if got != "content" {
		t.Errorf("got %q", got)
	}

	entries, err := os.ReadDir(filepath.Join(dir, "new"))
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".raido-tmp-") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestSafePath_RejectsTraversal(t *testing.T) {
	f, _ := newFS(t)
	if _, err := f.Read("../outside.md"); err == nil {
		t.Error("traversal read allowed")
	}
	if err := f.Write("../outside.md", []byte("x")); err == nil {
		t.Error("traversal write allowed")
	}
	if _, err := f.Read("/etc/passwd"); err == nil {
		t.Error("absolute read allowed")
	}
}

func TestMoveAndTrash(t *testing.T) {
	f, dir := newFS(t)
	write(t, dir, "a.md", "data")

	if err := f.Move("a.md", "b.md"); err != nil {
		t.Fatal(err)
	}
	if f.Exists("a.md") || !f.Exists("b.md") {
		t.Error("move did not relocate file")
	}

	trashRel, err := f.Trash("b.md")
	if err != nil {
		t.Fatal(err)
	}
	if filepath.ToSlash(trashRel) != ".trash/b.md" {
		t.Errorf("trash path = %q", trashRel)
	}
	if _, err := os.Stat(filepath.Join(dir, ".trash", "b.md")); err != nil {
		t.Errorf("trashed file missing: %v", err)
	}
}

func TestExists_DirectoryIsNotAFile(t *testing.T) {
	f, dir := newFS(t)
	write(t, dir, "sub/x.md", "x")
	if f.Exists("sub") {
		t.Error("directory reported as existing file")
	}
}
