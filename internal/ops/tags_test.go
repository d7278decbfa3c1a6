package ops_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/testutil"
)

func TestAllTags_DistinctSorted(t *testing.T) {
	o, _ := testutil.TestOps(t, map[string]string{
		"A": "---\ntags:\n  - beta\n  - alpha\n---\nx\n",
		"B": "---\ntags:\n  - alpha\n  - \"\"\n---\nx\n",
		"C": "x\n",
	})
	tags, err := o.AllTags()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(tags, []string{"alpha", "beta"}) {
		t.Errorf("tags = %v", tags)
	}
}

func TestAddTag_AllowedListEnforced(t *testing.T) {
	o, _ := testutil.TestOps(t, map[string]string{
		"A": "---\ntags:\n  - known\n---\nx\n",
		"B": "x\n",
	})

	res, err := o.AddTag("B", "known")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(res.Tags, []string{"known"}) {
		t.Errorf("tags = %v", res.Tags)
	}

	if _, err := o.AddTag("B", "invented"); !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Errorf("unknown tag accepted: %v", err)
	}
}

func TestAddTag_AlreadyPresentIsNoop(t *testing.T) {
	o, _ := testutil.TestOps(t, map[string]string{
		"A": "---\ntags:\n  - known\n---\nx\n",
	})
	res, err := o.AddTag("A", "known")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(res.Tags, []string{"known"}) {
		t.Errorf("tags = %v", res.Tags)
	}
}

func TestAddTag_RuleTable(t *testing.T) {
	o, _ := testutil.TestOps(t, map[string]string{
		"Seed":     "---\ntags:\n  - person\n---\nx\n",
		"@Jane":    "x\n",
		"Not Jane": "x\n",
	})
	if _, err := o.AddTag("@Jane", "person"); err != nil {
		t.Fatalf("person tag on @-note: %v", err)
	}
	if _, err := o.AddTag("Not Jane", "person"); !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Errorf("person tag on plain note accepted: %v", err)
	}
}

func TestRemoveTag_Idempotent(t *testing.T) {
	o, dir := testutil.TestOps(t, map[string]string{
		"A": "---\ntags:\n  - one\n  - two\n---\nx\n",
	})

	res, err := o.RemoveTag("A", "one")
	if err != nil {
		t.Fatal(err)
	}
	if !res.Removed || !reflect.DeepEqual(res.Tags, []string{"two"}) {
		t.Errorf("result = %+v", res)
	}

	before := testutil.ReadFile(t, dir, "A.md")
	res, err = o.RemoveTag("A", "one")
	if err != nil {
		t.Fatal(err)
	}
	if res.Removed {
		t.Error("second removal reported Removed=true")
	}
	if after := testutil.ReadFile(t, dir, "A.md"); after != before {
		t.Error("idempotent removal rewrote the file")
	}
}
