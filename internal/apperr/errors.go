// Package apperr defines the error taxonomy shared by all layers.
package apperr

import "errors"

var (
	// ErrNotFound covers missing notes, sections, text patterns, and files.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists signals a name collision on create or rename.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidArgument signals a malformed enum value or conflicting parameters.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidName signals a note name that violates the charset policy.
	ErrInvalidName = errors.New("invalid name")
	// ErrInvalidHeading signals a heading that violates the charset policy.
	ErrInvalidHeading = errors.New("invalid heading")
	// ErrBrokenLink signals a wikilink to a nonexistent section of an existing note.
	ErrBrokenLink = errors.New("broken link")
)
