// Package frontmatter splits and serializes YAML frontmatter blocks.
//
// A file with frontmatter is framed as:
//
//	---
//	<yaml>
//	---
//	<body>
//
// and a file without frontmatter is the body verbatim. The framing is
// reproduced bit-exact on serialize so notes round-trip unchanged. Key order
// is preserved through an ordered map; malformed YAML degrades to an empty
// mapping and never fails.
package frontmatter

import (
	"fmt"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"gopkg.in/yaml.v3"
)

// Map is an insertion-ordered frontmatter mapping.
type Map = orderedmap.OrderedMap[string, any]

const delim = "---\n"

// New returns an empty frontmatter mapping.
func New() *Map {
	return orderedmap.New[string, any]()
}

// Split separates the frontmatter block from the body. Content is expected
// to be normalized text (LF line endings, no BOM). Without a delimiter pair
// the whole content is body. A block that is not parseable YAML yields an
// empty mapping, but the block text is still consumed: the body is whatever
// follows the closing delimiter so unparseable frontmatter never leaks into
// body-level operations.
func Split(content string) (*Map, string) {
	fm := New()
	if !strings.HasPrefix(content, delim) {
		return fm, content
	}

	rest := content[len(delim):]
	idx := strings.Index(rest, "\n---")
	if idx < 0 {
		return fm, content
	}
	block := rest[:idx]
	body := strings.TrimPrefix(rest[idx+len("\n---"):], "\n")

	if err := yaml.Unmarshal([]byte(block), fm); err != nil {
		return New(), body
	}
	return fm, body
}

// Serialize produces the on-disk text for a frontmatter mapping and body.
// An empty mapping emits the body verbatim with no frontmatter block.
func Serialize(fm *Map, body string) string {
	if fm == nil || fm.Len() == 0 {
		return body
	}

	var buf strings.Builder
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fm); err != nil {
		return body
	}
	_ = enc.Close()

	block := strings.TrimRight(buf.String(), "\n")
	return "---\n" + block + "\n---\n" + body
}

// Clone returns a shallow copy of fm preserving key order. A nil map clones
// to an empty one.
func Clone(fm *Map) *Map {
	out := New()
	if fm == nil {
		return out
	}
	for pair := fm.Oldest(); pair != nil; pair = pair.Next() {
		out.Set(pair.Key, pair.Value)
	}
	return out
}

// Tags coerces the "tags" key into a string slice: a single string becomes a
// one-element list, a list is stringified element-wise, anything else is
// empty.
func Tags(fm *Map) []string {
	if fm == nil {
		return nil
	}
	raw, ok := fm.Get("tags")
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case string:
		return []string{v}
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, stringify(item))
		}
		return out
	default:
		return nil
	}
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
