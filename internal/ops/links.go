package ops

import (
	"fmt"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/models"
)

// LinkDirection selects which edges of the link graph to return.
type LinkDirection string

// Link directions.
const (
	LinkOut  LinkDirection = "out"
	LinkIn   LinkDirection = "in"
	LinkBoth LinkDirection = "both"
)

// LinksResult lists a note's link graph edges. Only the requested
// direction(s) are populated. Outgoing preserves body appearance order with
// duplicates; incoming preserves index scan order.
type LinksResult struct {
	Name     string   `json:"name"`
	Outgoing []string `json:"outgoing"`
	Incoming []string `json:"incoming"`
}

// Links returns the outgoing and/or incoming links of a note.
func (o *Operations) Links(name string, direction LinkDirection) (*LinksResult, error) {
	switch direction {
	case LinkOut, LinkIn, LinkBoth:
	default:
		return nil, fmt.Errorf("%w: direction %q (valid: in, out, both)",
			apperr.ErrInvalidArgument, direction)
	}

	if _, err := o.vault.GetNote(name); err != nil {
		return nil, err
	}

	result := &LinksResult{Name: name}
	if direction == LinkOut || direction == LinkBoth {
		out, err := o.vault.GetOutgoingLinks(name)
		if err != nil {
			return nil, err
		}
		result.Outgoing = out
	}
	if direction == LinkIn || direction == LinkBoth {
		in, err := o.vault.GetIncomingLinks(name)
		if err != nil {
			return nil, err
		}
		result.Incoming = in
	}
	return result, nil
}

// FindBrokenLinks returns every outgoing link whose target is not an
// existing note, outer loop in index scan order, inner loop in appearance
// order. Dangling targets are data, not errors; this is the reporting query
// over them.
func (o *Operations) FindBrokenLinks() ([]models.Link, error) {
	notes, err := o.vault.ListNotes()
	if err != nil {
		return nil, err
	}

	existing := make(map[string]struct{}, len(notes))
	for _, n := range notes {
		existing[n.Name] = struct{}{}
	}

	var broken []models.Link
	for _, n := range notes {
		for _, target := range n.OutgoingLinks {
			if _, ok := existing[target]; !ok {
				broken = append(broken, models.Link{Source: n.Name, Target: target})
			}
		}
	}
	return broken, nil
}
