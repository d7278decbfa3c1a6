package mcpserver

import (
	"fmt"
	"strings"
)

// baseInstructions is surfaced to MCP clients at initialization.
const baseInstructions = `Raido manages a vault of Markdown notes linked with [[wikilinks]].

Conventions:
- Notes are addressed by name, without the .md extension.
- Note names use latin letters, digits, spaces, _ @ - and task emojis only.
- Frontmatter is YAML between --- markers at the top of a note; tags live
  in the frontmatter "tags" key.
- [[Name]], [[Name|alias]] and [[Name#Section]] all link to the note Name.
- Renaming or deleting a note rewrites wikilinks in every referring note.

Prefer section tools (read_section, update_section, append_section) over
rewriting whole notes.`

// vaultContext builds the one-shot context block injected into the first
// tool response: notes tagged for assistant use, plus the tag policy.
func (s *Server) vaultContext() string {
	var b strings.Builder

	notes, err := s.ops.Vault().ListNotes()
	if err != nil {
		return ""
	}
	var pinned []string
	for _, n := range notes {
		for _, t := range n.Tags {
			if t == "assistant" || strings.HasPrefix(t, "assistant/") {
				pinned = append(pinned, n.Name)
				break
			}
		}
	}
	if len(pinned) > 0 {
		b.WriteString("Vault context notes (tagged assistant):\n")
		for _, name := range pinned {
			content, err := s.ops.Read(name)
			if err != nil {
				continue
			}
			fmt.Fprintf(&b, "\n## %s\n\n%s\n", name, strings.TrimSpace(content))
		}
	}

	if tags, err := s.ops.AllTags(); err == nil && len(tags) > 0 {
		b.WriteString("\nKnown tags (add_tag only accepts these): ")
		b.WriteString(strings.Join(tags, ", "))
		b.WriteString("\n")
	}

	return strings.TrimSpace(b.String())
}
