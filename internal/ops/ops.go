// Package ops implements every user-facing vault operation: CRUD, rename
// and delete with cascading wikilink rewrites, section edits, link queries,
// search, and tag management.
//
// Operations are synchronous, single-writer, read-modify-write against the
// filesystem. Blocking validation always runs before a write and aborts it;
// non-blocking warnings are computed after the write and returned with the
// result. Every mutation finishes with a full index refresh. A rename or
// delete that touches N referring files is not atomic across files; a crash
// mid-loop leaves a partial state that is not rolled back.
package ops

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/frontmatter"
	"github.com/starford/raido/internal/markdown"
	"github.com/starford/raido/internal/storage"
	"github.com/starford/raido/internal/validate"
	"github.com/starford/raido/internal/vault"
)

// Operations orchestrates the vault index, the structural parser, and the
// validator. It holds no state beyond those references.
type Operations struct {
	vault     *vault.Vault
	validator *validate.Validator
}

// New creates Operations over a vault.
func New(v *vault.Vault) *Operations {
	return &Operations{vault: v, validator: validate.New()}
}

// Vault exposes the underlying index for read-only consumers.
func (o *Operations) Vault() *vault.Vault { return o.vault }

// CreateResult reports a successful create.
type CreateResult struct {
	Name     string             `json:"name"`
	Path     string             `json:"path"`
	Warnings []validate.Warning `json:"warnings"`
}

// WriteResult reports a successful content write.
type WriteResult struct {
	Warnings []validate.Warning `json:"warnings"`
}

// RenameResult reports a rename cascade.
type RenameResult struct {
	OldName      string   `json:"old_name"`
	NewName      string   `json:"new_name"`
	FilesUpdated []string `json:"files_updated"`
}

// DeleteResult reports a delete cascade.
type DeleteResult struct {
	Name         string   `json:"name"`
	TrashPath    string   `json:"trash_path"`
	FilesUpdated []string `json:"files_updated"`
}

// Create validates the name and content, writes a new note file, and
// refreshes the index. The note is created at the vault root. An empty
// frontmatter mapping emits no frontmatter block.
func (o *Operations) Create(name, content string, fm *frontmatter.Map) (*CreateResult, error) {
	if err := o.validator.ValidateName(name); err != nil {
		return nil, err
	}
	if err := o.validator.ValidateHeadings(content); err != nil {
		return nil, err
	}
	linkWarnings, err := o.validateWikilinks(content)
	if err != nil {
		return nil, err
	}

	path := name + ".md"
	if o.vault.Store().Exists(path) {
		return nil, fmt.Errorf("note %q: %w", name, apperr.ErrAlreadyExists)
	}

	fileContent := frontmatter.Serialize(fm, content)
	if err := o.vault.Store().Write(path, []byte(fileContent)); err != nil {
		return nil, err
	}
	if err := o.vault.Refresh(); err != nil {
		return nil, err
	}

	warnings := o.validator.Validate(fileContent)
	warnings = append(warnings, linkWarnings...)
	return &CreateResult{Name: name, Path: path, Warnings: warnings}, nil
}

// Read returns the full normalized file text of a note, frontmatter block
// included.
func (o *Operations) Read(name string) (string, error) {
	path, err := o.vault.ResolvePath(name)
	if err != nil {
		return "", err
	}
	return o.vault.Store().ReadText(path)
}

// Append adds text to the end of the file with a canonical blank-line
// separator. Blocking checks run against the full new content.
func (o *Operations) Append(name, text string) (*WriteResult, error) {
	path, err := o.vault.ResolvePath(name)
	if err != nil {
		return nil, err
	}
	current, err := o.vault.Store().ReadText(path)
	if err != nil {
		return nil, err
	}
	newContent := current + "\n\n" + text

	if err := o.validator.ValidateHeadings(newContent); err != nil {
		return nil, err
	}
	linkWarnings, err := o.validateWikilinks(newContent)
	if err != nil {
		return nil, err
	}

	if err := o.vault.Store().Write(path, []byte(newContent)); err != nil {
		return nil, err
	}
	if err := o.vault.Refresh(); err != nil {
		return nil, err
	}

	warnings := o.validator.Validate(newContent)
	warnings = append(warnings, linkWarnings...)
	return &WriteResult{Warnings: warnings}, nil
}

// Update replaces the note body, copying the existing frontmatter verbatim.
func (o *Operations) Update(name, content string) (*WriteResult, error) {
	note, err := o.vault.GetNote(name)
	if err != nil {
		return nil, err
	}

	if err := o.validator.ValidateHeadings(content); err != nil {
		return nil, err
	}
	linkWarnings, err := o.validateWikilinks(content)
	if err != nil {
		return nil, err
	}

	fileContent := frontmatter.Serialize(frontmatter.Clone(note.Frontmatter), content)
	if err := o.vault.Store().Write(note.Path, []byte(fileContent)); err != nil {
		return nil, err
	}
	if err := o.vault.Refresh(); err != nil {
		return nil, err
	}

	warnings := o.validator.Validate(fileContent)
	warnings = append(warnings, linkWarnings...)
	return &WriteResult{Warnings: warnings}, nil
}

// Delete moves a note to the trash subdirectory after rewriting every
// incoming wikilink to "[[name (deleted)...]]". FilesUpdated is the
// precomputed incoming-link snapshot; it is reported even on dry runs, and
// is not reconciled with actual rewrite hit counts.
func (o *Operations) Delete(name string, dryRun bool) (*DeleteResult, error) {
	note, err := o.vault.GetNote(name)
	if err != nil {
		return nil, err
	}
	trashPath := filepath.Join(storage.TrashDir, name+".md")

	filesUpdated, err := o.vault.GetIncomingLinks(name)
	if err != nil {
		return nil, err
	}

	if !dryRun {
		if err := o.rewriteReferences(filesUpdated, name, name+" (deleted)"); err != nil {
			return nil, err
		}
		if _, err := o.vault.Store().Trash(note.Path); err != nil {
			return nil, err
		}
		if err := o.vault.Refresh(); err != nil {
			return nil, err
		}
	}

	return &DeleteResult{
		Name:         name,
		TrashPath:    trashPath,
		FilesUpdated: filesUpdated,
	}, nil
}

// Rename moves a note to a new name at the vault root, rewriting every
// incoming wikilink. Alias and section suffixes are preserved in rewritten
// links.
func (o *Operations) Rename(oldName, newName string, dryRun bool) (*RenameResult, error) {
	if err := o.validator.ValidateName(newName); err != nil {
		return nil, err
	}
	oldNote, err := o.vault.GetNote(oldName)
	if err != nil {
		return nil, err
	}
	newPath := newName + ".md"
	if o.vault.Store().Exists(newPath) {
		return nil, fmt.Errorf("note %q: %w", newName, apperr.ErrAlreadyExists)
	}

	filesUpdated, err := o.vault.GetIncomingLinks(oldName)
	if err != nil {
		return nil, err
	}

	if !dryRun {
		if err := o.rewriteReferences(filesUpdated, oldName, newName); err != nil {
			return nil, err
		}
		if err := o.vault.Store().Move(oldNote.Path, newPath); err != nil {
			return nil, err
		}
		if err := o.vault.Refresh(); err != nil {
			return nil, err
		}
	}

	return &RenameResult{
		OldName:      oldName,
		NewName:      newName,
		FilesUpdated: filesUpdated,
	}, nil
}

// rewriteReferences rewrites [[oldName...]] links in every named referring
// note. A file where the rewrite finds no match is left untouched.
func (o *Operations) rewriteReferences(refs []string, oldName, newName string) error {
	for _, ref := range refs {
		refNote, err := o.vault.GetNote(ref)
		if err != nil {
			return err
		}
		text, err := o.vault.Store().ReadText(refNote.Path)
		if err != nil {
			return err
		}
		rewritten, count := markdown.RewriteLinks(text, oldName, newName)
		if count == 0 {
			continue
		}
		if err := o.vault.Store().Write(refNote.Path, []byte(rewritten)); err != nil {
			return err
		}
	}
	return nil
}

// FrontmatterGet returns the frontmatter mapping of a note.
func (o *Operations) FrontmatterGet(name string) (*frontmatter.Map, error) {
	note, err := o.vault.GetNote(name)
	if err != nil {
		return nil, err
	}
	return note.Frontmatter, nil
}

// FrontmatterSet sets one top-level frontmatter key and writes the file.
// The body is unchanged, so no blocking validation runs.
func (o *Operations) FrontmatterSet(name, key string, value any) error {
	note, err := o.vault.GetNote(name)
	if err != nil {
		return err
	}
	fm := frontmatter.Clone(note.Frontmatter)
	fm.Set(key, value)
	fileContent := frontmatter.Serialize(fm, note.Body)
	if err := o.vault.Store().Write(note.Path, []byte(fileContent)); err != nil {
		return err
	}
	return o.vault.Refresh()
}

// validateWikilinks scans content for wikilinks before a write. A target
// that does not resolve yields a non-blocking warning (forward references
// are allowed). A target that resolves but names a section missing from
// that note's headings fails immediately with a broken-link error.
func (o *Operations) validateWikilinks(content string) ([]validate.Warning, error) {
	var warnings []validate.Warning
	for _, ref := range markdown.ExtractLinkRefs(content) {
		note, err := o.vault.GetNote(ref.Target)
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				warnings = append(warnings, validate.Warning{
					Line:    0,
					Message: fmt.Sprintf("Link to non-existent note: %s", ref.Target),
					Rule:    validate.RuleBrokenLink,
				})
				continue
			}
			return nil, err
		}
		if ref.Section == "" {
			continue
		}
		found := false
		for _, h := range noteHeadings(note.Body) {
			if h.Text == ref.Section {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: section %q not found in note %q",
				apperr.ErrBrokenLink, ref.Section, ref.Target)
		}
	}
	return warnings, nil
}
