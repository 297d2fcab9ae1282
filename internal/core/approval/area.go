package approval

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// AreaMatcher matches business area names against a glob pattern,
// ignoring case.
type AreaMatcher struct {
	pattern string
}

// NewAreaMatcher validates pattern. An empty pattern matches everything.
func NewAreaMatcher(pattern string) (AreaMatcher, error) {
	pattern = strings.ToLower(strings.TrimSpace(pattern))
	if pattern != "" && !doublestar.ValidatePattern(pattern) {
		return AreaMatcher{}, fmt.Errorf("invalid area pattern %q", pattern)
	}
	return AreaMatcher{pattern: pattern}, nil
}

// Match reports whether the document's business area matches.
func (m AreaMatcher) Match(d Classified) bool {
	if m.pattern == "" {
		return true
	}
	ok, err := doublestar.Match(m.pattern, strings.ToLower(d.BusinessAreaName))
	return err == nil && ok
}

// Apply returns the documents whose business area matches, in order.
func (m AreaMatcher) Apply(docs []Classified) []Classified {
	if m.pattern == "" {
		return docs
	}
	out := make([]Classified, 0, len(docs))
	for _, d := range docs {
		if m.Match(d) {
			out = append(out, d)
		}
	}
	return out
}
