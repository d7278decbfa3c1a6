package ops_test

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/frontmatter"
	"github.com/starford/raido/internal/testutil"
	"github.com/starford/raido/internal/validate"
)

func TestCreate_WritesFrontmatterAndBody(t *testing.T) {
	o, dir := testutil.TestOps(t, nil)

	fm := frontmatter.New()
	fm.Set("tags", []string{"project"})
	res, err := o.Create("New Note", "# Title\nbody\n", fm)
	if err != nil {
		t.Fatal(err)
	}
	if res.Path != "New Note.md" {
		t.Errorf("path = %q", res.Path)
	}
	on := testutil.ReadFile(t, dir, "New Note.md")
	if !strings.HasPrefix(on, "---\n") || !strings.Contains(on, "# Title") {
		t.Errorf("file content = %q", on)
	}

	note, err := o.Vault().GetNote("New Note")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(note.Tags, []string{"project"}) {
		t.Errorf("tags = %v", note.Tags)
	}
}

func TestCreate_NoFrontmatterBlockForEmptyMap(t *testing.T) {
	o, dir := testutil.TestOps(t, nil)
	if _, err := o.Create("Bare", "just text\n", nil); err != nil {
		t.Fatal(err)
	}
	if on := testutil.ReadFile(t, dir, "Bare.md"); on != "just text\n" {
		t.Errorf("file content = %q", on)
	}
}

func TestCreate_Collision(t *testing.T) {
	o, _ := testutil.TestOps(t, map[string]string{"Taken": "x"})
	_, err := o.Create("Taken", "y", nil)
	if !errors.Is(err, apperr.ErrAlreadyExists) {
		t.Errorf("err = %v, want ErrAlreadyExists", err)
	}
}

func TestCreate_InvalidNameBlocked(t *testing.T) {
	o, _ := testutil.TestOps(t, nil)
	_, err := o.Create("Кириллица", "x", nil)
	if !errors.Is(err, apperr.ErrInvalidName) {
		t.Errorf("err = %v, want ErrInvalidName", err)
	}
}

func TestCreate_CyrillicHeadingBlocked(t *testing.T) {
	o, _ := testutil.TestOps(t, nil)
	_, err := o.Create("Fine", "# Заголовок\n", nil)
	if !errors.Is(err, apperr.ErrInvalidHeading) {
		t.Errorf("err = %v, want ErrInvalidHeading", err)
	}
}

func TestCreate_DanglingLinkWarnsButSucceeds(t *testing.T) {
	o, _ := testutil.TestOps(t, nil)
	res, err := o.Create("A", "see [[Future Note]]\n", nil)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, w := range res.Warnings {
		if w.Rule == validate.RuleBrokenLink {
			found = true
		}
	}
	if !found {
		t.Errorf("warnings = %+v, want broken-link warning", res.Warnings)
	}
}

func TestCreate_MissingSectionLinkBlocked(t *testing.T) {
	o, _ := testutil.TestOps(t, map[string]string{"Target": "# Intro\nx\n"})
	if _, err := o.Create("A", "[[Target#Intro]]\n", nil); err != nil {
		t.Fatalf("link to existing section should pass: %v", err)
	}
	_, err := o.Create("B", "[[Target#Missing]]\n", nil)
	if !errors.Is(err, apperr.ErrBrokenLink) {
		t.Errorf("err = %v, want ErrBrokenLink", err)
	}
}

func TestRead_ReturnsFullFileText(t *testing.T) {
	content := "---\ntitle: X\n---\nbody\n"
	o, _ := testutil.TestOps(t, map[string]string{"A": content})
	got, err := o.Read("A")
	if err != nil {
		t.Fatal(err)
	}
	if got != content {
		t.Errorf("Read = %q, want %q", got, content)
	}
}

func TestAppend_SeparatorAndValidation(t *testing.T) {
	o, dir := testutil.TestOps(t, map[string]string{"A": "start"})
	if _, err := o.Append("A", "more"); err != nil {
		t.Fatal(err)
	}
	if on := testutil.ReadFile(t, dir, "A.md"); on != "start\n\nmore" {
		t.Errorf("file = %q", on)
	}
	_, err := o.Append("A", "# Плохо")
	if !errors.Is(err, apperr.ErrInvalidHeading) {
		t.Errorf("err = %v, want ErrInvalidHeading", err)
	}
}

func TestUpdate_PreservesFrontmatter(t *testing.T) {
	o, dir := testutil.TestOps(t, map[string]string{
		"A": "---\ntitle: Keep\n---\nold body\n",
	})
	if _, err := o.Update("A", "new body\n"); err != nil {
		t.Fatal(err)
	}
	on := testutil.ReadFile(t, dir, "A.md")
	if !strings.Contains(on, "title: Keep") || !strings.Contains(on, "new body") {
		t.Errorf("file = %q", on)
	}
	if strings.Contains(on, "old body") {
		t.Errorf("old body survived: %q", on)
	}
}

func TestRename_CascadesToReferrers(t *testing.T) {
	o, dir := testutil.TestOps(t, map[string]string{
		"B":     "target\n",
		"Uses":  "plain [[B]] link\n",
		"Alias": "aliased [[B|The B]] and [[B#Top]]\n",
		"Other": "[[C]] unrelated\n",
	})
	res, err := o.Rename("B", "B2", false)
	if err != nil {
		t.Fatal(err)
	}
	wantUpdated := map[string]bool{"Uses": true, "Alias": true}
	if len(res.FilesUpdated) != 2 {
		t.Errorf("FilesUpdated = %v", res.FilesUpdated)
	}
	for _, f := range res.FilesUpdated {
		if !wantUpdated[f] {
			t.Errorf("unexpected updated file %q", f)
		}
	}

	if on := testutil.ReadFile(t, dir, "Uses.md"); on != "plain [[B2]] link\n" {
		t.Errorf("Uses = %q", on)
	}
	if on := testutil.ReadFile(t, dir, "Alias.md"); on != "aliased [[B2|The B]] and [[B2#Top]]\n" {
		t.Errorf("Alias = %q", on)
	}
	if on := testutil.ReadFile(t, dir, "Other.md"); on != "[[C]] unrelated\n" {
		t.Errorf("Other rewritten: %q", on)
	}

	if _, err := o.Vault().GetNote("B2"); err != nil {
		t.Errorf("renamed note missing: %v", err)
	}
	if _, err := o.Read("B"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("old name still resolves")
	}
}

func TestRename_DryRunTouchesNothing(t *testing.T) {
	o, dir := testutil.TestOps(t, map[string]string{
		"B":    "target\n",
		"Uses": "[[B]]\n",
	})
	res, err := o.Rename("B", "B2", true)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(res.FilesUpdated, []string{"Uses"}) {
		t.Errorf("FilesUpdated = %v", res.FilesUpdated)
	}
	if on := testutil.ReadFile(t, dir, "Uses.md"); on != "[[B]]\n" {
		t.Errorf("dry run rewrote file: %q", on)
	}
	if _, err := o.Read("B"); err != nil {
		t.Errorf("dry run moved note: %v", err)
	}
}

func TestRename_TargetCollision(t *testing.T) {
	o, _ := testutil.TestOps(t, map[string]string{"A": "x", "B": "y"})
	_, err := o.Rename("A", "B", false)
	if !errors.Is(err, apperr.ErrAlreadyExists) {
		t.Errorf("err = %v, want ErrAlreadyExists", err)
	}
}

func TestDelete_TrashAndTombstoneLinks(t *testing.T) {
	o, dir := testutil.TestOps(t, map[string]string{
		"B":    "doomed\n",
		"Uses": "see [[B]] and [[B|alias]]\n",
	})
	res, err := o.Delete("B", false)
	if err != nil {
		t.Fatal(err)
	}
	if res.TrashPath != ".trash/B.md" {
		t.Errorf("trash path = %q", res.TrashPath)
	}
	if !reflect.DeepEqual(res.FilesUpdated, []string{"Uses"}) {
		t.Errorf("FilesUpdated = %v", res.FilesUpdated)
	}

	if on := testutil.ReadFile(t, dir, "Uses.md"); on != "see [[B (deleted)]] and [[B (deleted)|alias]]\n" {
		t.Errorf("Uses = %q", on)
	}
	if on := testutil.ReadFile(t, dir, ".trash/B.md"); on != "doomed\n" {
		t.Errorf("trashed content = %q", on)
	}
	if _, err := o.Read("B"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("deleted note still resolves")
	}
}

func TestDelete_DryRun(t *testing.T) {
	o, dir := testutil.TestOps(t, map[string]string{
		"B":    "stays\n",
		"Uses": "[[B]]\n",
	})
	res, err := o.Delete("B", true)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(res.FilesUpdated, []string{"Uses"}) {
		t.Errorf("FilesUpdated = %v", res.FilesUpdated)
	}
	if on := testutil.ReadFile(t, dir, "B.md"); on != "stays\n" {
		t.Errorf("dry run deleted note")
	}
	if on := testutil.ReadFile(t, dir, "Uses.md"); on != "[[B]]\n" {
		t.Errorf("dry run rewrote referrer: %q", on)
	}
}

func TestFrontmatterSet_RoundTrip(t *testing.T) {
	o, _ := testutil.TestOps(t, map[string]string{"A": "---\na: 1\n---\nbody\n"})
	if err := o.FrontmatterSet("A", "status", "done"); err != nil {
		t.Fatal(err)
	}
	fm, err := o.FrontmatterGet("A")
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := fm.Get("status"); v != "done" {
		t.Errorf("status = %v", v)
	}
	if v, _ := fm.Get("a"); v != 1 {
		t.Errorf("a = %v (%T), want 1", v, v)
	}

	note, err := o.Vault().GetNote("A")
	if err != nil {
		t.Fatal(err)
	}
	if note.Body != "body\n" {
		t.Errorf("body = %q", note.Body)
	}
}
