// Package vault owns the note index: a lazily-built snapshot of every
// Markdown file in the vault directory plus the inverted link graph.
//
// The index is never patched incrementally. Any mutation to the on-disk
// vault must be followed by Refresh (or Invalidate) before reads are
// trusted. A lookup miss triggers exactly one silent rebuild to tolerate
// external file changes; a second miss is a genuine not-found.
package vault

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/storage"
)

// Vault indexes a directory tree of Markdown notes.
type Vault struct {
	store storage.Provider

	mu       sync.Mutex
	notes    map[string]*models.Note
	order    []string            // note names in scan order
	incoming map[string][]string // target name → source names, unique, insertion order
}

// New creates a vault over an already-validated storage provider.
func New(store storage.Provider) *Vault {
	return &Vault{store: store}
}

// Open validates the root directory and creates a vault over it.
func Open(root string) (*Vault, error) {
	store, err := storage.NewFS(root)
	if err != nil {
		return nil, err
	}
	return New(store), nil
}

// Store exposes the underlying storage provider.
func (v *Vault) Store() storage.Provider { return v.store }

// Root returns the absolute vault root directory.
func (v *Vault) Root() string { return v.store.Root() }

// ensureIndex builds the index if it has not been built yet.
// Callers must hold v.mu.
func (v *Vault) ensureIndex() error {
	if v.notes != nil {
		return nil
	}
	return v.build()
}

// build scans the vault and rebuilds both maps from scratch.
// Callers must hold v.mu.
func (v *Vault) build() error {
	files, err := v.store.List()
	if err != nil {
		return fmt.Errorf("vault: scan: %w", err)
	}

	notes := make(map[string]*models.Note, len(files))
	order := make([]string, 0, len(files))
	for _, f := range files {
		text, err := v.store.ReadText(f.Path)
		if err != nil {
			return fmt.Errorf("vault: read %s: %w", f.Path, err)
		}
		name := strings.TrimSuffix(filepath.Base(f.Path), ".md")
		if _, dup := notes[name]; !dup {
			order = append(order, name)
		}
		notes[name] = models.ParseNote(name, f.Path, text)
	}

	incoming := make(map[string][]string)
	seen := make(map[string]map[string]struct{})
	for _, name := range order {
		note := notes[name]
		for _, target := range note.OutgoingLinks {
			if seen[target] == nil {
				seen[target] = make(map[string]struct{})
			}
			if _, dup := seen[target][name]; dup {
				continue
			}
			seen[target][name] = struct{}{}
			incoming[target] = append(incoming[target], name)
		}
	}

	v.notes = notes
	v.order = order
	v.incoming = incoming
	return nil
}

// Refresh drops the snapshot and rebuilds it unconditionally.
func (v *Vault) Refresh() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.notes = nil
	v.order = nil
	v.incoming = nil
	return v.build()
}

// Invalidate drops the snapshot without rebuilding; the next read rebuilds
// lazily.
func (v *Vault) Invalidate() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.notes = nil
	v.order = nil
	v.incoming = nil
}

// ListNotes returns every indexed note in scan order.
func (v *Vault) ListNotes() ([]*models.Note, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if err := v.ensureIndex(); err != nil {
		return nil, err
	}
	out := make([]*models.Note, 0, len(v.order))
	for _, name := range v.order {
		out = append(out, v.notes[name])
	}
	return out, nil
}

// GetNote looks up a note by name. On a miss it rebuilds the index once
// before giving up, so externally created files are picked up without an
// explicit refresh.
func (v *Vault) GetNote(name string) (*models.Note, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if err := v.ensureIndex(); err != nil {
		return nil, err
	}
	note, ok := v.notes[name]
	if !ok {
		if err := v.build(); err != nil {
			return nil, err
		}
		note, ok = v.notes[name]
	}
	if !ok {
		return nil, fmt.Errorf("note %q: %w", name, apperr.ErrNotFound)
	}
	return note, nil
}

// ResolvePath returns the vault-relative path of a note.
func (v *Vault) ResolvePath(name string) (string, error) {
	note, err := v.GetNote(name)
	if err != nil {
		return "", err
	}
	return note.Path, nil
}

// GetIncomingLinks returns the names of notes whose outgoing links contain
// name, in scan order. A target with no referrers yields an empty list,
// never an error; the reverse map is total over targets seen, so name does
// not have to be an existing note.
func (v *Vault) GetIncomingLinks(name string) ([]string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if err := v.ensureIndex(); err != nil {
		return nil, err
	}
	return append([]string(nil), v.incoming[name]...), nil
}

// GetOutgoingLinks returns the link targets of a note in appearance order,
// duplicates preserved.
func (v *Vault) GetOutgoingLinks(name string) ([]string, error) {
	note, err := v.GetNote(name)
	if err != nil {
		return nil, err
	}
	return append([]string(nil), note.OutgoingLinks...), nil
}
