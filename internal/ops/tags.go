package ops

import (
	"fmt"
	"sort"
	"strings"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/frontmatter"
	"github.com/starford/raido/internal/validate"
)

// TagResult reports the tag list of a note after a tag mutation. Removed is
// false when RemoveTag was asked to remove a tag that was not present.
type TagResult struct {
	Name    string   `json:"name"`
	Tags    []string `json:"tags"`
	Removed bool     `json:"removed,omitempty"`
}

// AllTags returns every distinct non-empty tag in the vault, sorted.
func (o *Operations) AllTags() ([]string, error) {
	notes, err := o.vault.ListNotes()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	for _, n := range notes {
		for _, t := range n.Tags {
			if strings.TrimSpace(t) != "" {
				seen[t] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out, nil
}

// ValidateTags checks tags against the allowed list (every distinct tag
// already present in the vault). New tags must be introduced deliberately,
// not invented mid-edit.
func (o *Operations) ValidateTags(tags []string) error {
	allowed, err := o.AllTags()
	if err != nil {
		return err
	}
	allowedSet := make(map[string]struct{}, len(allowed))
	for _, t := range allowed {
		allowedSet[t] = struct{}{}
	}
	var invalid []string
	for _, t := range tags {
		if _, ok := allowedSet[t]; !ok {
			invalid = append(invalid, t)
		}
	}
	if len(invalid) > 0 {
		return fmt.Errorf("%w: tags not in allowed list: %v (allowed: %v)",
			apperr.ErrInvalidArgument, invalid, allowed)
	}
	return nil
}

// AddTag appends a tag to the note's frontmatter tag list. Adding an
// already-present tag is a no-op. The tag must pass the allowed-list check
// and the tag rule table.
func (o *Operations) AddTag(name, tag string) (*TagResult, error) {
	fm, err := o.FrontmatterGet(name)
	if err != nil {
		return nil, err
	}
	current := frontmatter.Tags(fm)
	for _, t := range current {
		if t == tag {
			return &TagResult{Name: name, Tags: current}, nil
		}
	}

	if err := o.ValidateTags([]string{tag}); err != nil {
		return nil, err
	}
	if err := validate.CheckTagRules([]string{tag}, name, fm); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrInvalidArgument, err)
	}

	newTags := append(append([]string(nil), current...), tag)
	if err := o.FrontmatterSet(name, "tags", newTags); err != nil {
		return nil, err
	}
	return &TagResult{Name: name, Tags: newTags}, nil
}

// RemoveTag removes a tag from the note's frontmatter tag list. Removing a
// tag that is not present leaves the list unchanged and reports
// Removed=false.
func (o *Operations) RemoveTag(name, tag string) (*TagResult, error) {
	fm, err := o.FrontmatterGet(name)
	if err != nil {
		return nil, err
	}
	current := frontmatter.Tags(fm)

	removed := false
	newTags := make([]string, 0, len(current))
	for _, t := range current {
		if t == tag {
			removed = true
			continue
		}
		newTags = append(newTags, t)
	}

	if removed {
		if err := o.FrontmatterSet(name, "tags", newTags); err != nil {
			return nil, err
		}
	}
	return &TagResult{Name: name, Tags: newTags, Removed: removed}, nil
}
