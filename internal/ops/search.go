package ops

import (
	"fmt"
	"strings"

	"github.com/starford/raido/internal/apperr"
)

// SearchMode selects how a query is matched against notes.
type SearchMode string

// Search modes.
const (
	SearchName        SearchMode = "name"
	SearchNamePartial SearchMode = "name_partial"
	SearchContent     SearchMode = "content"
	SearchTag         SearchMode = "tag"
)

// SearchResult is one search hit.
type SearchResult struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// Search matches notes against query. Modes: exact name, case-insensitive
// name substring, case-insensitive body substring, or hierarchical tag
// (query "vc" matches tags "vc" and "vc/...", but not "vccorp").
func (o *Operations) Search(query string, mode SearchMode) ([]SearchResult, error) {
	switch mode {
	case SearchName, SearchNamePartial, SearchContent, SearchTag:
	default:
		return nil, fmt.Errorf("%w: search mode %q (valid: name, name_partial, content, tag)",
			apperr.ErrInvalidArgument, mode)
	}

	notes, err := o.vault.ListNotes()
	if err != nil {
		return nil, err
	}

	var results []SearchResult
	for _, note := range notes {
		match := false
		switch mode {
		case SearchName:
			match = note.Name == query
		case SearchNamePartial:
			match = strings.Contains(strings.ToLower(note.Name), strings.ToLower(query))
		case SearchContent:
			match = strings.Contains(strings.ToLower(note.Body), strings.ToLower(query))
		case SearchTag:
			match = tagMatches(note.Tags, query)
		}
		if match {
			results = append(results, SearchResult{Name: note.Name, Path: note.Path})
		}
	}
	return results, nil
}

// SearchTags matches notes against a comma-separated tag list. Logic "or"
// requires any tag to match hierarchically, "and" requires all of them.
func (o *Operations) SearchTags(query, logic string) ([]SearchResult, error) {
	if logic != "and" && logic != "or" {
		return nil, fmt.Errorf("%w: tag_logic %q (valid: and, or)", apperr.ErrInvalidArgument, logic)
	}

	var tags []string
	for _, t := range strings.Split(query, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}

	notes, err := o.vault.ListNotes()
	if err != nil {
		return nil, err
	}

	var results []SearchResult
	for _, note := range notes {
		match := logic == "and"
		for _, t := range tags {
			hit := tagMatches(note.Tags, t)
			if logic == "or" && hit {
				match = true
				break
			}
			if logic == "and" && !hit {
				match = false
				break
			}
		}
		if match {
			results = append(results, SearchResult{Name: note.Name, Path: note.Path})
		}
	}
	return results, nil
}

// tagMatches reports whether any note tag equals query or falls under it
// hierarchically (query "vc" matches "vc/project").
func tagMatches(noteTags []string, query string) bool {
	for _, t := range noteTags {
		if t == query || strings.HasPrefix(t, query+"/") {
			return true
		}
	}
	return false
}
