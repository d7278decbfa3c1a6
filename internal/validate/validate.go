// Package validate implements the markdown content policy: blocking
// name/heading charset checks, non-blocking post-write style warnings, and
// the tag rule table.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/markdown"
)

// Warning rule identifiers.
const (
	RuleUnclosedCodeBlock = "unclosed-code-block"
	RuleTableBlankLine    = "table-blank-line"
	RuleBrokenLink        = "broken-link"
)

// Warning is an advisory, non-blocking validation finding.
type Warning struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
	Rule    string `json:"rule"`
}

// taskEmojis are the task-metadata glyphs allowed in note names.
const taskEmojis = "➕⏳🛫📅✅❌⏬🔽🔼⏫🔺🔁🏁🆔⛔"

var (
	cyrillicRe = regexp.MustCompile(`[\x{0400}-\x{04FF}]`)

	// Allowed name characters: ASCII letters and digits, space, underscore,
	// hyphen, @, and the task emoji set.
	allowedNameRe = regexp.MustCompile(`^[a-zA-Z0-9 _@` + taskEmojis + `-]+$`)

	tableLineRe = regexp.MustCompile(`^\|.*\|$`)
	tableSepRe  = regexp.MustCompile(`^\|[-:| ]+\|$`)
)

// Validator is a stateless set of rule checks over raw content.
type Validator struct{}

// New creates a Validator.
func New() *Validator { return &Validator{} }

// ValidateName checks the note name charset. It is blocking: callers must
// run it before committing a name to disk (create, rename target).
func (*Validator) ValidateName(name string) error {
	if cyrillicRe.MatchString(name) {
		return fmt.Errorf("%w: note name contains Cyrillic: %s", apperr.ErrInvalidName, name)
	}
	if err := validation.Validate(name,
		validation.Required,
		validation.Match(allowedNameRe),
	); err != nil {
		return fmt.Errorf("%w: note name contains invalid characters: %s", apperr.ErrInvalidName, name)
	}
	return nil
}

// ValidateHeadings checks that no heading outside fenced code contains
// Cyrillic. It is blocking: callers must run it before every content write.
func (*Validator) ValidateHeadings(content string) error {
	lines := strings.Split(content, "\n")
	for _, h := range markdown.Headings(lines) {
		if cyrillicRe.MatchString(h.Text) {
			return fmt.Errorf("%w: heading contains Cyrillic at line %d: %s",
				apperr.ErrInvalidHeading, h.Line, h.Text)
		}
	}
	return nil
}

// Validate runs the non-blocking post-write checks and returns warnings:
// unclosed code fences and table headers not preceded by a blank line.
func (*Validator) Validate(content string) []Warning {
	lines := strings.Split(content, "\n")
	var warnings []Warning

	closed, unclosed := markdown.Fences(lines)
	for _, line := range unclosed {
		warnings = append(warnings, Warning{
			Line:    line,
			Message: "Unclosed fenced code block",
			Rule:    RuleUnclosedCodeBlock,
		})
	}

	warnings = append(warnings, checkTables(lines, closed)...)
	return warnings
}

// checkTables flags every table header immediately followed by a separator
// line that is not at document start and whose preceding line is non-blank.
// Pairs fully inside a closed fence are skipped.
func checkTables(lines []string, closed []markdown.FenceRange) []Warning {
	var warnings []Warning
	for i := 0; i < len(lines)-1; i++ {
		lineNum := i + 1
		if markdown.InsideFence(lineNum, closed) {
			continue
		}
		if !tableLineRe.MatchString(lines[i]) || !tableSepRe.MatchString(lines[i+1]) {
			continue
		}
		if i == 0 {
			continue
		}
		if strings.TrimSpace(lines[i-1]) != "" {
			warnings = append(warnings, Warning{
				Line:    lineNum,
				Message: "Table should have blank line before it",
				Rule:    RuleTableBlankLine,
			})
		}
	}
	return warnings
}
