package ops

import (
	"fmt"
	"strings"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/frontmatter"
	"github.com/starford/raido/internal/markdown"
)

// noteHeadings extracts the headings of a note body, skipping fenced code.
func noteHeadings(body string) []markdown.Heading {
	return markdown.Headings(strings.Split(body, "\n"))
}

// GetHeadings returns every heading of a note outside fenced code.
func (o *Operations) GetHeadings(name string) ([]markdown.Heading, error) {
	note, err := o.vault.GetNote(name)
	if err != nil {
		return nil, err
	}
	return noteHeadings(note.Body), nil
}

// findSection resolves a section selector against body lines.
func findSection(lines []string, section, name string) (markdown.Section, error) {
	sec, ok := markdown.FindSection(lines, section)
	if !ok {
		return markdown.Section{}, fmt.Errorf("section %q in note %q: %w",
			section, name, apperr.ErrNotFound)
	}
	return sec, nil
}

// ReadSection returns the content of a section, heading line excluded,
// surrounding blank lines trimmed. The selector is either a literal
// "## Heading" or a bare "Heading".
func (o *Operations) ReadSection(name, section string) (string, error) {
	note, err := o.vault.GetNote(name)
	if err != nil {
		return "", err
	}
	lines := strings.Split(note.Body, "\n")
	sec, err := findSection(lines, section, name)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(strings.Join(lines[sec.Start:sec.End], "\n")), nil
}

// AppendSection inserts text as a new line immediately before the section's
// end boundary.
func (o *Operations) AppendSection(name, section, text string) (*WriteResult, error) {
	note, err := o.vault.GetNote(name)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(note.Body, "\n")
	sec, err := findSection(lines, section, name)
	if err != nil {
		return nil, err
	}

	newLines := make([]string, 0, len(lines)+1)
	newLines = append(newLines, lines[:sec.End]...)
	newLines = append(newLines, text)
	newLines = append(newLines, lines[sec.End:]...)

	return o.writeBody(note.Path, note.Frontmatter, strings.Join(newLines, "\n"))
}

// UpdateSection replaces everything between the heading line and the next
// sibling or ancestor heading (or end of document) with content. The heading
// line is preserved; blank-line formatting beyond what the caller supplies
// is not.
func (o *Operations) UpdateSection(name, section, content string) (*WriteResult, error) {
	note, err := o.vault.GetNote(name)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(note.Body, "\n")
	sec, err := findSection(lines, section, name)
	if err != nil {
		return nil, err
	}

	headingLine := lines[sec.Start-1]
	newLines := make([]string, 0, sec.Start+1+len(lines)-sec.End)
	newLines = append(newLines, lines[:sec.Start-1]...)
	newLines = append(newLines, headingLine, content)
	newLines = append(newLines, lines[sec.End:]...)

	return o.writeBody(note.Path, note.Frontmatter, strings.Join(newLines, "\n"))
}

// DeleteSection removes the heading line and its body range. No blocking
// validation runs: deleting lines cannot introduce a bad heading or link.
func (o *Operations) DeleteSection(name, section string) error {
	note, err := o.vault.GetNote(name)
	if err != nil {
		return err
	}
	lines := strings.Split(note.Body, "\n")
	sec, err := findSection(lines, section, name)
	if err != nil {
		return err
	}

	newLines := append(append([]string(nil), lines[:sec.Start-1]...), lines[sec.End:]...)
	fileContent := frontmatter.Serialize(frontmatter.Clone(note.Frontmatter), strings.Join(newLines, "\n"))
	if err := o.vault.Store().Write(note.Path, []byte(fileContent)); err != nil {
		return err
	}
	return o.vault.Refresh()
}

// writeBody serializes frontmatter plus a new body, runs the blocking
// pre-write checks against the new body, writes, refreshes, and collects
// post-write warnings.
func (o *Operations) writeBody(path string, fm *frontmatter.Map, body string) (*WriteResult, error) {
	if err := o.validator.ValidateHeadings(body); err != nil {
		return nil, err
	}
	linkWarnings, err := o.validateWikilinks(body)
	if err != nil {
		return nil, err
	}

	fileContent := frontmatter.Serialize(frontmatter.Clone(fm), body)
	if err := o.vault.Store().Write(path, []byte(fileContent)); err != nil {
		return nil, err
	}
	if err := o.vault.Refresh(); err != nil {
		return nil, err
	}

	warnings := o.validator.Validate(fileContent)
	warnings = append(warnings, linkWarnings...)
	return &WriteResult{Warnings: warnings}, nil
}
