package selection

import (
	"testing"

	"github.com/hay-kot/approvals/internal/core/approval"
	"github.com/hay-kot/approvals/internal/core/sched"
	"github.com/stretchr/testify/assert"
)

func idSet(ids ...int) approval.IDSet {
	s := approval.IDSet{}
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func rangeSet(n int) approval.IDSet {
	s := approval.IDSet{}
	for i := 1; i <= n; i++ {
		s[i] = struct{}{}
	}
	return s
}

func TestLedger_Toggle(t *testing.T) {
	l := New()
	l.Reset(idSet(1, 2, 3))

	l.Toggle(1, true)
	l.Toggle(3, true)
	l.Toggle(99, true)

	assert.Equal(t, 2, l.Count())
	assert.True(t, l.Has(1))
	assert.False(t, l.Has(99), "ids outside the universe are ignored")
	assert.Equal(t, []int{1, 3}, l.IDs())

	l.Toggle(1, false)
	assert.Equal(t, []int{3}, l.IDs())
}

func TestLedger_ResetClearsSelection(t *testing.T) {
	l := New()
	l.Reset(idSet(1, 2))
	l.Toggle(1, true)

	l.Reset(idSet(2, 3))

	assert.Equal(t, 0, l.Count())
	assert.False(t, l.Has(1))
}

func TestLedger_ResetWithSameUniverseStillClears(t *testing.T) {
	l := New()
	l.Reset(idSet(1, 2))
	l.Toggle(2, true)

	l.Reset(idSet(1, 2))
	assert.Equal(t, 0, l.Count())
}

func TestLedger_ResetCopiesUniverse(t *testing.T) {
	l := New()
	u := idSet(1)
	l.Reset(u)
	delete(u, 1)

	l.Toggle(1, true)
	assert.True(t, l.Has(1))
}

func TestLedger_SelectAll(t *testing.T) {
	l := New()
	l.Reset(idSet(1, 2, 3))

	l.SelectAll(true, idSet(1, 2, 3, 4))
	assert.Equal(t, []int{1, 2, 3}, l.IDs())

	l.SelectAll(false, idSet(1, 2, 3))
	assert.Equal(t, 0, l.Count())
}

func TestLedger_DeferredSelectAllIsAtomic(t *testing.T) {
	var q sched.Queue
	l := New(WithScheduler(&q), WithBulkThreshold(10))
	universe := rangeSet(100)
	l.Reset(universe)

	l.Toggle(5, true)
	l.SelectAll(true, universe)

	assert.Equal(t, 1, l.Count(), "nothing partial is visible before the idle slot")
	assert.True(t, l.Busy())

	q.Drain()
	assert.Equal(t, 100, l.Count())
	assert.False(t, l.Busy())
}

func TestLedger_TogglesQueueBehindDeferredWork(t *testing.T) {
	var q sched.Queue
	l := New(WithScheduler(&q), WithBulkThreshold(10))
	universe := rangeSet(50)
	l.Reset(universe)

	l.SelectAll(true, universe)
	l.Toggle(7, false)
	assert.Equal(t, 0, l.Count())

	q.Drain()
	assert.Equal(t, 49, l.Count())
	assert.False(t, l.Has(7), "toggle applied after select all")
}

func TestLedger_ResetDropsDeferredWork(t *testing.T) {
	var q sched.Queue
	l := New(WithScheduler(&q), WithBulkThreshold(10))
	l.Reset(rangeSet(50))

	l.SelectAll(true, rangeSet(50))
	l.Reset(rangeSet(50))
	q.Drain()

	assert.Equal(t, 0, l.Count())
}

func TestLedger_OnChange(t *testing.T) {
	var counts []int
	l := New(OnChange(func(n int) { counts = append(counts, n) }))

	v := l.Version()
	l.Reset(idSet(1, 2))
	l.Toggle(1, true)
	l.SelectAll(true, idSet(1, 2))

	assert.Equal(t, []int{0, 1, 2}, counts)
	assert.Equal(t, v+3, l.Version())
}
