package ops_test

import (
	"errors"
	"testing"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/ops"
	"github.com/starford/raido/internal/testutil"
)

func TestBatchRename_StopsAtFirstFailure(t *testing.T) {
	o, dir := testutil.TestOps(t, map[string]string{
		"A":     "a\n",
		"B":     "b\n",
		"Taken": "occupied\n",
	})
	results, err := o.BatchRename([]ops.RenamePair{
		{OldName: "A", NewName: "A2"},
		{OldName: "B", NewName: "Taken"}, // collides
		{OldName: "Taken", NewName: "Never"},
	}, false)
	if !errors.Is(err, apperr.ErrAlreadyExists) {
		t.Fatalf("err = %v, want ErrAlreadyExists", err)
	}
	if len(results) != 1 || results[0].NewName != "A2" {
		t.Errorf("results = %+v, want only the first rename", results)
	}
	// First rename committed, later ones untouched. No rollback.
	if on := testutil.ReadFile(t, dir, "A2.md"); on != "a\n" {
		t.Errorf("A2 = %q", on)
	}
	if on := testutil.ReadFile(t, dir, "B.md"); on != "b\n" {
		t.Errorf("B = %q", on)
	}
	if on := testutil.ReadFile(t, dir, "Taken.md"); on != "occupied\n" {
		t.Errorf("Taken = %q", on)
	}
}

func TestBatchDelete(t *testing.T) {
	o, _ := testutil.TestOps(t, map[string]string{"A": "a\n", "B": "b\n"})
	results, err := o.BatchDelete([]string{"A", "B"}, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %+v", results)
	}
	for _, name := range []string{"A", "B"} {
		if _, err := o.Read(name); !errors.Is(err, apperr.ErrNotFound) {
			t.Errorf("%s still readable", name)
		}
	}
}

func TestBatchDelete_DryRun(t *testing.T) {
	o, _ := testutil.TestOps(t, map[string]string{"A": "a\n"})
	if _, err := o.BatchDelete([]string{"A"}, true); err != nil {
		t.Fatal(err)
	}
	if _, err := o.Read("A"); err != nil {
		t.Errorf("dry run deleted note: %v", err)
	}
}
