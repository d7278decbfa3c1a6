// Package markdown provides fence-aware structural scanning primitives:
// code-fence range detection, heading extraction, section boundary
// resolution, and wikilink matching. Every caller that needs to skip
// fenced code goes through the one scanner here so edge cases cannot
// diverge between features.
package markdown

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	headingRe = regexp.MustCompile(`^(#+)\s+(.+)$`)
	fenceRe   = regexp.MustCompile("^(`{3,})")

	// wikilinkRe matches [[Target]], [[Target|Alias]], and [[Target#Section]],
	// capturing only the target name.
	wikilinkRe = regexp.MustCompile(`\[\[([^\]|#]+)(?:[|#][^\]]*)?\]\]`)

	// wikilinkSectionRe additionally captures the #Section part when present.
	wikilinkSectionRe = regexp.MustCompile(`\[\[([^\]#|]+)(?:#([^\]|]+))?\]\]`)
)

// Heading is one markdown heading outside any code fence.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
	Line  int    `json:"-"` // 1-indexed
}

// FenceRange is a closed fenced code block, delimiter lines included.
// Lines are 1-indexed.
type FenceRange struct {
	Start int
	End   int
}

// fenceTicks returns the backtick count when the stripped line opens or
// closes a fence, or 0 for an ordinary line.
func fenceTicks(line string) int {
	m := fenceRe.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return 0
	}
	return len(m[1])
}

// Fences scans lines for fenced code blocks. It returns the closed
// (start, end) ranges and the opening line numbers of fences left open at
// end of input. A closing line must carry at least as many backticks as the
// currently open fence; shorter runs inside the block are plain text.
func Fences(lines []string) (closed []FenceRange, unclosed []int) {
	type open struct {
		line  int
		ticks int
	}
	var stack []open

	for i, line := range lines {
		ticks := fenceTicks(line)
		if ticks == 0 {
			continue
		}
		if len(stack) == 0 {
			stack = append(stack, open{line: i + 1, ticks: ticks})
			continue
		}
		top := stack[len(stack)-1]
		if ticks >= top.ticks {
			stack = stack[:len(stack)-1]
			closed = append(closed, FenceRange{Start: top.line, End: i + 1})
		}
	}

	for _, o := range stack {
		unclosed = append(unclosed, o.line)
	}
	return closed, unclosed
}

// InsideFence reports whether a 1-indexed line falls strictly between the
// delimiters of any closed range.
func InsideFence(line int, ranges []FenceRange) bool {
	for _, r := range ranges {
		if r.Start < line && line < r.End {
			return true
		}
	}
	return false
}

// Headings extracts every heading outside fenced code. The scan tracks only
// whether it is currently inside a fence, so lines inside both closed and
// still-open fences are skipped.
func Headings(lines []string) []Heading {
	var out []Heading
	inFence := false
	fenceLen := 0

	for i, line := range lines {
		if ticks := fenceTicks(line); ticks > 0 {
			if !inFence {
				inFence = true
				fenceLen = ticks
			} else if ticks >= fenceLen {
				inFence = false
				fenceLen = 0
			}
			continue
		}
		if inFence {
			continue
		}
		if m := headingRe.FindStringSubmatch(line); m != nil {
			out = append(out, Heading{
				Level: len(m[1]),
				Text:  strings.TrimSpace(m[2]),
				Line:  i + 1,
			})
		}
	}
	return out
}

// Section locates one heading-delimited region of a document.
// Start is the index of the first body line (heading index + 1), End is the
// exclusive index of the boundary line, Level is the matched heading level.
// Indexes are 0-based into the lines slice; the heading line itself sits at
// Start-1.
type Section struct {
	Start int
	End   int
	Level int
}

// FindSection resolves a section selector against lines. The selector is
// either a literal "#"-prefixed heading ("## Tasks") matched by stripped
// equality, or a bare heading text ("Tasks") matched at any level. The first
// match from the top wins. The section ends at the first subsequent heading
// of equal or shallower level, or end of document.
func FindSection(lines []string, selector string) (Section, bool) {
	sel := strings.TrimSpace(selector)

	var (
		literal string
		bareRe  *regexp.Regexp
		level   int
	)
	if strings.HasPrefix(sel, "#") {
		literal = sel
		level = len(sel) - len(strings.TrimLeft(sel, "#"))
	} else {
		bareRe = regexp.MustCompile(`^(#+)\s*` + regexp.QuoteMeta(sel) + `\s*$`)
	}

	start := -1
	for i, line := range lines {
		stripped := strings.TrimSpace(line)
		if literal != "" {
			if stripped == literal {
				start = i + 1
				break
			}
		} else if m := bareRe.FindStringSubmatch(stripped); m != nil {
			start = i + 1
			level = len(m[1])
			break
		}
	}
	if start < 0 {
		return Section{}, false
	}

	boundaryRe := regexp.MustCompile(`^#{1,` + strconv.Itoa(level) + `}\s`)
	end := len(lines)
	for i := start; i < len(lines); i++ {
		if boundaryRe.MatchString(lines[i]) {
			end = i
			break
		}
	}
	return Section{Start: start, End: end, Level: level}, true
}

// ExtractLinks returns every wikilink target in body, alias and section
// suffixes stripped, duplicates preserved in appearance order. Targets that
// strip to the empty string are dropped.
func ExtractLinks(body string) []string {
	var out []string
	for _, m := range wikilinkRe.FindAllStringSubmatch(body, -1) {
		target := strings.TrimSpace(m[1])
		if target == "" {
			continue
		}
		out = append(out, target)
	}
	return out
}

// LinkRef is one wikilink occurrence with its optional section fragment.
type LinkRef struct {
	Target  string
	Section string
}

// ExtractLinkRefs returns wikilink occurrences including the #Section
// fragment when one is present, in document order.
func ExtractLinkRefs(content string) []LinkRef {
	var out []LinkRef
	for _, m := range wikilinkSectionRe.FindAllStringSubmatch(content, -1) {
		out = append(out, LinkRef{
			Target:  strings.TrimSpace(m[1]),
			Section: strings.TrimSpace(m[2]),
		})
	}
	return out
}

// RewriteLinks replaces every [[oldName]], [[oldName|...]], and
// [[oldName#...]] occurrence with the same link pointing at newName,
// preserving the alias or section suffix. It returns the rewritten content
// and the number of replacements.
func RewriteLinks(content, oldName, newName string) (string, int) {
	re := regexp.MustCompile(`\[\[` + regexp.QuoteMeta(oldName) + `([|#][^\]]*)?\]\]`)
	count := 0
	rewritten := re.ReplaceAllStringFunc(content, func(match string) string {
		count++
		suffix := re.FindStringSubmatch(match)[1]
		return "[[" + newName + suffix + "]]"
	})
	return rewritten, count
}
