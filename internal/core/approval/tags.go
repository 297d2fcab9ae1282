package approval

import (
	"fmt"
	"strings"
)

// tagKinds maps the short filter tags used by the UI to snapshot kinds.
var tagKinds = map[string]Kind{
	"all":            KindAll,
	"concept":        KindConcept,
	"projectplan":    KindProjectPlan,
	"progressreport": KindProgressReport,
	"studentreport":  KindStudentReport,
	"projectclosure": KindProjectClosure,
}

// kindTags is the inverse of tagKinds.
var kindTags = func() map[Kind]string {
	m := make(map[Kind]string, len(tagKinds))
	for tag, k := range tagKinds {
		m[k] = tag
	}
	return m
}()

// ParseKind resolves a filter tag or snapshot key to a Kind.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if k, ok := tagKinds[s]; ok {
		return k, nil
	}
	if k := Kind(s); k.Valid() {
		return k, nil
	}
	return "", fmt.Errorf("unknown document kind %q", s)
}

// Tag returns the short filter tag for the kind.
func (k Kind) Tag() string {
	if tag, ok := kindTags[k]; ok {
		return tag
	}
	return string(k)
}

// Valid reports whether k is a concrete document kind.
func (k Kind) Valid() bool {
	_, ok := kindTags[k]
	return ok && k != KindAll
}

// KindSet is a set of selected kinds, possibly including KindAll.
type KindSet map[Kind]struct{}

// NewKindSet builds a set from kinds.
func NewKindSet(kinds ...Kind) KindSet {
	s := make(KindSet, len(kinds))
	for _, k := range kinds {
		s[k] = struct{}{}
	}
	return s
}

// Has reports whether k is selected.
func (s KindSet) Has(k Kind) bool {
	_, ok := s[k]
	return ok
}

// Toggle returns a copy of s with k flipped. Selecting KindAll clears the
// explicit kinds and selecting an explicit kind clears KindAll.
func (s KindSet) Toggle(k Kind) KindSet {
	out := make(KindSet, len(s)+1)
	for existing := range s {
		out[existing] = struct{}{}
	}

	if out.Has(k) {
		delete(out, k)
		return out
	}

	if k == KindAll {
		return NewKindSet(KindAll)
	}
	delete(out, KindAll)
	out[k] = struct{}{}
	return out
}

// Sorted returns the selected kinds in display order, KindAll first.
func (s KindSet) Sorted() []Kind {
	var out []Kind
	if s.Has(KindAll) {
		out = append(out, KindAll)
	}
	for _, k := range Kinds {
		if s.Has(k) {
			out = append(out, k)
		}
	}
	return out
}
