package approval

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareKind(t *testing.T) {
	kinds := []Kind{KindProjectClosure, "memo", KindConcept, KindStudentReport, KindProjectPlan, KindProgressReport}
	slices.SortStableFunc(kinds, CompareKind)

	assert.Equal(t, []Kind{
		KindConcept,
		KindProjectPlan,
		KindProgressReport,
		KindStudentReport,
		KindProjectClosure,
		"memo",
	}, kinds)
}

func TestCompareStatus(t *testing.T) {
	statuses := []Status{StatusApproved, "archived", StatusInReview, StatusNew, StatusInApproval, StatusRevising}
	slices.SortStableFunc(statuses, CompareStatus)

	assert.Equal(t, []Status{
		StatusNew,
		StatusRevising,
		StatusInReview,
		StatusInApproval,
		StatusApproved,
		"archived",
	}, statuses)
}

func TestCompareWaiting_ContactClassWithinLevel(t *testing.T) {
	missing := newDoc(1, KindConcept, pendingAt(LevelBusinessAreaLead), missingInfo())
	ext := newDoc(2, KindConcept, pendingAt(LevelBusinessAreaLead), external(), withEmail("someone@gmail.com"), bumpable())
	normal := newDoc(3, KindConcept, pendingAt(LevelBusinessAreaLead), withEmail("lead@org"), bumpable())

	orders := [][]Document{
		{normal, ext, missing},
		{ext, missing, normal},
		{missing, normal, ext},
	}

	for _, order := range orders {
		snap := classify(order...)
		got := Sorted(snap.All, SortWaiting)
		assert.Equal(t, []int{1, 2, 3}, ids(got))
	}
}

func TestCompareWaiting_LevelThenEmail(t *testing.T) {
	snap := classify(
		newDoc(1, KindConcept, pendingAt(LevelDirectorate), withEmail("a@org")),
		newDoc(2, KindConcept, pendingAt(LevelProjectLead), withEmail("Zed@org")),
		newDoc(3, KindConcept, pendingAt(LevelProjectLead), withEmail("bob@org")),
		newDoc(4, KindConcept, pendingAt(LevelNone)),
		newDoc(5, KindConcept, pendingAt(LevelProjectLead), withEmail("")),
		newDoc(6, KindConcept, pendingAt(LevelBusinessAreaLead), withEmail("ALICE@org")),
	)

	got := Sorted(snap.All, SortWaiting)
	assert.Equal(t, []int{5, 3, 2, 6, 1, 4}, ids(got))
}

func TestSorted_NoneKeepsOrderAndCopies(t *testing.T) {
	snap := classify(newDoc(3, KindProjectClosure), newDoc(1, KindConcept))

	got := Sorted(snap.All, SortNone)
	assert.Equal(t, []int{3, 1}, ids(got))

	got = Sorted(snap.All, SortKind)
	assert.Equal(t, []int{1, 3}, ids(got))
	assert.Equal(t, []int{3, 1}, ids(snap.All), "input not reordered")
}

func TestParseSortKey(t *testing.T) {
	for _, in := range []string{"kind", "STATUS", "waiting", "title", "", "none"} {
		_, err := ParseSortKey(in)
		require.NoError(t, err, in)
	}
	_, err := ParseSortKey("priority")
	assert.Error(t, err)
}
