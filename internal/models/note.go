// Package models defines the domain types for Raido.
package models

import (
	"github.com/starford/raido/internal/frontmatter"
	"github.com/starford/raido/internal/markdown"
)

// Note is the parsed, read-only representation of one Markdown file in the
// vault. Name is the file stem and the unique index key. OutgoingLinks holds
// link targets in appearance order, duplicates preserved; targets need not
// resolve to existing notes.
type Note struct {
	Name          string           `json:"name"`
	Path          string           `json:"path"`
	Frontmatter   *frontmatter.Map `json:"frontmatter,omitempty"`
	Body          string           `json:"body"`
	OutgoingLinks []string         `json:"outgoing_links,omitempty"`
	Tags          []string         `json:"tags,omitempty"`
}

// ParseNote builds a Note from normalized file text (LF endings, no BOM).
func ParseNote(name, path, content string) *Note {
	fm, body := frontmatter.Split(content)
	return &Note{
		Name:          name,
		Path:          path,
		Frontmatter:   fm,
		Body:          body,
		OutgoingLinks: markdown.ExtractLinks(body),
		Tags:          frontmatter.Tags(fm),
	}
}

// Link is a directed edge between a note and a link target.
type Link struct {
	Source string `json:"source"`
	Target string `json:"target"`
}
