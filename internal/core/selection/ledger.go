// Package selection tracks which bumpable documents the user has checked.
package selection

import (
	"slices"
	"sync"

	"github.com/hay-kot/approvals/internal/core/approval"
	"github.com/hay-kot/approvals/internal/core/sched"
)

// DefaultBulkThreshold is the universe size above which SelectAll is
// deferred to the scheduler.
const DefaultBulkThreshold = 500

// Ledger is the set of checked document ids, constrained to the current
// bumpable universe. Reads are synchronous and always observe fully
// applied operations.
type Ledger struct {
	idle          sched.Scheduler
	bulkThreshold int
	onChange      func(count int)

	mu       sync.Mutex
	universe approval.IDSet
	selected map[int]struct{}
	version  uint64
	epoch    uint64
	queued   []func()
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithScheduler defers large SelectAll calls to s.
func WithScheduler(s sched.Scheduler) Option {
	return func(l *Ledger) { l.idle = s }
}

// WithBulkThreshold overrides DefaultBulkThreshold.
func WithBulkThreshold(n int) Option {
	return func(l *Ledger) { l.bulkThreshold = n }
}

// OnChange registers a callback fired after every applied mutation.
func OnChange(fn func(count int)) Option {
	return func(l *Ledger) { l.onChange = fn }
}

// New creates an empty ledger with an empty universe.
func New(opts ...Option) *Ledger {
	l := &Ledger{
		idle:          sched.Immediate{},
		bulkThreshold: DefaultBulkThreshold,
		universe:      approval.IDSet{},
		selected:      map[int]struct{}{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Reset replaces the universe and clears the selection unconditionally.
// Operations still waiting on the scheduler are discarded.
func (l *Ledger) Reset(universe approval.IDSet) {
	l.mu.Lock()
	l.epoch++
	l.queued = nil
	l.universe = make(approval.IDSet, len(universe))
	for id := range universe {
		l.universe[id] = struct{}{}
	}
	l.selected = map[int]struct{}{}
	l.version++
	l.mu.Unlock()

	l.notify()
}

// Toggle checks or unchecks id. Ids outside the universe are ignored.
func (l *Ledger) Toggle(id int, checked bool) {
	l.apply(func() { l.toggleLocked(id, checked) })
}

// SelectAll checks every id in universe that is also in the ledger's
// universe, or clears the selection when checked is false. Large
// selections run on the scheduler but are applied in one step.
func (l *Ledger) SelectAll(checked bool, universe approval.IDSet) {
	op := func() { l.selectAllLocked(checked, universe) }

	if len(universe) <= l.bulkThreshold {
		l.apply(op)
		return
	}

	l.mu.Lock()
	epoch := l.epoch
	first := len(l.queued) == 0
	l.queued = append(l.queued, op)
	l.mu.Unlock()

	if first {
		l.idle.Schedule(func() { l.drain(epoch) })
	}
}

// Has reports whether id is checked.
func (l *Ledger) Has(id int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.selected[id]
	return ok
}

// Count returns the number of checked ids.
func (l *Ledger) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.selected)
}

// IDs returns the checked ids in ascending order.
func (l *Ledger) IDs() []int {
	l.mu.Lock()
	defer l.mu.Unlock()
	ids := make([]int, 0, len(l.selected))
	for id := range l.selected {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Version increments on every applied mutation and reset.
func (l *Ledger) Version() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.version
}

// Busy reports whether a deferred operation has not been applied yet.
func (l *Ledger) Busy() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queued) > 0
}

// apply runs op now, or behind already deferred work so order is kept.
func (l *Ledger) apply(op func()) {
	l.mu.Lock()
	if len(l.queued) > 0 {
		l.queued = append(l.queued, op)
		l.mu.Unlock()
		return
	}
	op()
	l.version++
	l.mu.Unlock()

	l.notify()
}

func (l *Ledger) drain(epoch uint64) {
	l.mu.Lock()
	if epoch != l.epoch {
		l.mu.Unlock()
		return
	}
	ops := l.queued
	l.queued = nil
	for _, op := range ops {
		op()
	}
	l.version++
	l.mu.Unlock()

	l.notify()
}

func (l *Ledger) toggleLocked(id int, checked bool) {
	if !l.universe.Has(id) {
		return
	}
	if checked {
		l.selected[id] = struct{}{}
	} else {
		delete(l.selected, id)
	}
}

func (l *Ledger) selectAllLocked(checked bool, universe approval.IDSet) {
	if !checked {
		l.selected = map[int]struct{}{}
		return
	}
	next := make(map[int]struct{}, len(universe))
	for id := range universe {
		if l.universe.Has(id) {
			next[id] = struct{}{}
		}
	}
	l.selected = next
}

func (l *Ledger) notify() {
	if l.onChange != nil {
		l.onChange(l.Count())
	}
}
