package approval

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

var statusOrder = []Status{StatusNew, StatusRevising, StatusInReview, StatusInApproval, StatusApproved}

var contactOrder = []ContactClass{ContactMissing, ContactExternal, ContactNormal}

// position returns the index of v in order, or len(order) when absent so
// unknown values sort last.
func position[T comparable](order []T, v T) int {
	if i := slices.Index(order, v); i >= 0 {
		return i
	}
	return len(order)
}

// CompareKind orders concept < project_plan < progress_report <
// student_report < project_closure.
func CompareKind(a, b Kind) int {
	return cmp.Compare(position(Kinds, a), position(Kinds, b))
}

// CompareStatus orders new < revising < inreview < inapproval < approved.
func CompareStatus(a, b Status) int {
	return cmp.Compare(position(statusOrder, a), position(statusOrder, b))
}

// CompareWaiting orders by pending level, then missing contact info before
// external contacts before normal ones, then by contact email ignoring case.
func CompareWaiting(a, b Classified) int {
	if c := cmp.Compare(position(Levels, a.Pending), position(Levels, b.Pending)); c != 0 {
		return c
	}
	if c := cmp.Compare(position(contactOrder, a.Contact), position(contactOrder, b.Contact)); c != 0 {
		return c
	}
	return strings.Compare(strings.ToLower(a.ActionTakerEmail), strings.ToLower(b.ActionTakerEmail))
}

// SortKey selects a table ordering.
type SortKey string

const (
	SortNone    SortKey = ""
	SortKind    SortKey = "kind"
	SortStatus  SortKey = "status"
	SortWaiting SortKey = "waiting"
	SortTitle   SortKey = "title"
)

// SortKeys lists the selectable orderings.
var SortKeys = []SortKey{SortNone, SortKind, SortStatus, SortWaiting, SortTitle}

// ParseSortKey validates a sort key name.
func ParseSortKey(s string) (SortKey, error) {
	k := SortKey(strings.ToLower(strings.TrimSpace(s)))
	if k == "none" {
		return SortNone, nil
	}
	if slices.Contains(SortKeys, k) {
		return k, nil
	}
	return "", fmt.Errorf("unknown sort key %q", s)
}

// Comparator returns the ordering for the key, or nil for SortNone.
func (k SortKey) Comparator() func(a, b Classified) int {
	switch k {
	case SortKind:
		return func(a, b Classified) int { return CompareKind(a.Kind, b.Kind) }
	case SortStatus:
		return func(a, b Classified) int { return CompareStatus(a.Status, b.Status) }
	case SortWaiting:
		return CompareWaiting
	case SortTitle:
		return func(a, b Classified) int { return strings.Compare(a.NormalizedTitle, b.NormalizedTitle) }
	default:
		return nil
	}
}

// Sorted returns a sorted copy of docs. Ties keep source order.
func Sorted(docs []Classified, key SortKey) []Classified {
	out := slices.Clone(docs)
	if fn := key.Comparator(); fn != nil {
		slices.SortStableFunc(out, fn)
	}
	return out
}
