package frontmatter

import (
	"reflect"
	"testing"
)

func TestSplit_FrontmatterAndBody(t *testing.T) {
	fm, body := Split("---\ntitle: Hello\ntags:\n  - go\n---\n# Hello\nBody.\n")
	if v, _ := fm.Get("title"); v != "Hello" {
		t.Errorf("title = %v, want Hello", v)
	}
	if body != "# Hello\nBody.\n" {
		t.Errorf("body = %q", body)
	}
}

func TestSplit_NoFrontmatter(t *testing.T) {
	fm, body := Split("# Just text\n")
	if fm.Len() != 0 {
		t.Errorf("expected empty map, got %d keys", fm.Len())
	}
	if body != "# Just text\n" {
		t.Errorf("body = %q", body)
	}
}

func TestSplit_UnterminatedBlock(t *testing.T) {
	content := "---\ntitle: x\nno closing delimiter"
	fm, body := Split(content)
	if fm.Len() != 0 || body != content {
		t.Errorf("unterminated block should be all body, got %d keys, body %q", fm.Len(), body)
	}
}

func TestSplit_MalformedYAMLDropsBlock(t *testing.T) {
	fm, body := Split("---\n: bad: yaml: {{{\n---\nBody\n")
	if fm.Len() != 0 {
		t.Errorf("expected empty map on malformed YAML")
	}
	if body != "Body\n" {
		t.Errorf("body = %q, want text after the closing delimiter", body)
	}
}

func TestSerialize_RoundTripPreservesKeyOrder(t *testing.T) {
	fm := New()
	fm.Set("zulu", "1")
	fm.Set("alpha", "2")
	fm.Set("mike", "3")

	out := Serialize(fm, "body\n")
	got, gotBody := Split(out)

	if gotBody != "body\n" {
		t.Errorf("body = %q", gotBody)
	}
	var keys []string
	for pair := got.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	want := []string{"zulu", "alpha", "mike"}
	if !reflect.DeepEqual(keys, want) {
		t.Errorf("key order = %v, want %v", keys, want)
	}
}

func TestSerialize_EmptyMapEmitsBodyVerbatim(t *testing.T) {
	if got := Serialize(New(), "plain\n"); got != "plain\n" {
		t.Errorf("got %q", got)
	}
	if got := Serialize(nil, "plain\n"); got != "plain\n" {
		t.Errorf("nil map: got %q", got)
	}
}

func TestClone_Independent(t *testing.T) {
	fm := New()
	fm.Set("a", 1)
	cp := Clone(fm)
	cp.Set("b", 2)
	if fm.Len() != 1 {
		t.Errorf("original mutated, len = %d", fm.Len())
	}
	if cp.Len() != 2 {
		t.Errorf("clone len = %d, want 2", cp.Len())
	}
}

func TestTags_Coercion(t *testing.T) {
	for _, tc := range []struct {
		name  string
		value any
		want  []string
	}{
		{"string", "solo", []string{"solo"}},
		{"list", []any{"a", "b"}, []string{"a", "b"}},
		{"list with number", []any{"a", 7}, []string{"a", "7"}},
		{"other type", 42, nil},
	} {
		t.Run(tc.name, func(t *testing.T) {
			fm := New()
			fm.Set("tags", tc.value)
			if got := Tags(fm); !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Tags = %v, want %v", got, tc.want)
			}
		})
	}
	if got := Tags(New()); got != nil {
		t.Errorf("missing key: got %v", got)
	}
}
