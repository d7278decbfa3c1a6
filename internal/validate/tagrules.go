package validate

import (
	"fmt"
	"strings"

	"github.com/starford/raido/internal/frontmatter"
)

// TagRule couples a tag name with a predicate over (note name, frontmatter)
// that must hold for any note carrying the tag.
type TagRule struct {
	Tag     string
	Check   func(name string, fm *frontmatter.Map) bool
	Message string
}

// TagRules is the enumerable rule table consulted when tags are added to a
// note. Tags without a rule are unconstrained.
var TagRules = []TagRule{
	{
		Tag: "person",
		Check: func(name string, _ *frontmatter.Map) bool {
			return strings.HasPrefix(name, "@")
		},
		Message: "Tag 'person' is for people notes only. " +
			"Note name must start with '@' (e.g. '@John Doe').",
	},
	{
		Tag: "assistant",
		Check: func(_ string, fm *frontmatter.Map) bool {
			if fm == nil {
				return false
			}
			v, ok := fm.Get("description")
			if !ok {
				return false
			}
			s, isStr := v.(string)
			return !isStr || s != ""
		},
		Message: "Tag 'assistant' marks auto-context notes. " +
			"Requires a 'description' field in frontmatter explaining when to read the note.",
	},
}

// CheckTagRules validates tags against the rule table. It returns the first
// violation found, or nil.
func CheckTagRules(tags []string, name string, fm *frontmatter.Map) error {
	for _, tag := range tags {
		for _, rule := range TagRules {
			if rule.Tag != tag {
				continue
			}
			if !rule.Check(name, fm) {
				return fmt.Errorf("tag %q: %s", tag, rule.Message)
			}
		}
	}
	return nil
}
