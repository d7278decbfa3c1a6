package ops

import (
	"fmt"
	"strings"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/frontmatter"
)

// ReplaceResult reports a text replacement.
type ReplaceResult struct {
	Name         string `json:"name"`
	Replacements int    `json:"replacements"`
}

// InsertResult reports a line insertion.
type InsertResult struct {
	Name     string `json:"name"`
	Position string `json:"position"`
	Pattern  string `json:"pattern"`
}

// Replace substitutes oldText with newText in the note body. The match runs
// against the decoded body, so text occurring only inside the frontmatter
// block never counts. With replaceAll false, exactly the first occurrence is
// replaced.
func (o *Operations) Replace(name, oldText, newText string, replaceAll bool) (*ReplaceResult, error) {
	note, err := o.vault.GetNote(name)
	if err != nil {
		return nil, err
	}
	body := note.Body
	if !strings.Contains(body, oldText) {
		return nil, fmt.Errorf("text %q in note %q: %w", oldText, name, apperr.ErrNotFound)
	}

	var newBody string
	replacements := 1
	if replaceAll {
		replacements = strings.Count(body, oldText)
		newBody = strings.ReplaceAll(body, oldText, newText)
	} else {
		newBody = strings.Replace(body, oldText, newText, 1)
	}

	fileContent := frontmatter.Serialize(frontmatter.Clone(note.Frontmatter), newBody)
	if err := o.vault.Store().Write(note.Path, []byte(fileContent)); err != nil {
		return nil, err
	}
	if err := o.vault.Refresh(); err != nil {
		return nil, err
	}
	return &ReplaceResult{Name: name, Replacements: replacements}, nil
}

// Insert adds text as a new line before or after the first body line that
// trims-equal to the pattern. Exactly one of before/after must be non-empty.
func (o *Operations) Insert(name, text, before, after string) (*InsertResult, error) {
	if (before == "") == (after == "") {
		return nil, fmt.Errorf("%w: exactly one of 'before' or 'after' must be specified",
			apperr.ErrInvalidArgument)
	}
	note, err := o.vault.GetNote(name)
	if err != nil {
		return nil, err
	}

	pattern := before
	position := "before"
	if after != "" {
		pattern = after
		position = "after"
	}

	lines := strings.Split(note.Body, "\n")
	matchIndex := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == strings.TrimSpace(pattern) {
			matchIndex = i
			break
		}
	}
	if matchIndex < 0 {
		return nil, fmt.Errorf("pattern %q in note %q: %w", pattern, name, apperr.ErrNotFound)
	}

	insertAt := matchIndex
	if position == "after" {
		insertAt = matchIndex + 1
	}
	newLines := make([]string, 0, len(lines)+1)
	newLines = append(newLines, lines[:insertAt]...)
	newLines = append(newLines, text)
	newLines = append(newLines, lines[insertAt:]...)

	fileContent := frontmatter.Serialize(frontmatter.Clone(note.Frontmatter), strings.Join(newLines, "\n"))
	if err := o.vault.Store().Write(note.Path, []byte(fileContent)); err != nil {
		return nil, err
	}
	if err := o.vault.Refresh(); err != nil {
		return nil, err
	}
	return &InsertResult{Name: name, Position: position, Pattern: pattern}, nil
}
