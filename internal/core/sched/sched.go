// Package sched defers low-priority work to the host's idle time.
//
// Every Scheduler guarantees a scheduled callback eventually runs unless it
// is cancelled first; none silently drop work.
package sched

import (
	"sync"
	"sync/atomic"
)

// Cancel prevents a scheduled callback from running if it has not started.
// Calling it more than once is safe.
type Cancel func()

// Scheduler runs callbacks at a later, lower-priority moment.
type Scheduler interface {
	Schedule(fn func()) Cancel
}

// Immediate runs callbacks synchronously. It is the fallback for hosts
// without an idle slot.
type Immediate struct{}

// Schedule runs fn before returning.
func (Immediate) Schedule(fn func()) Cancel {
	fn()
	return func() {}
}

// Queue holds callbacks until the host calls Drain.
type Queue struct {
	mu      sync.Mutex
	pending []*task
}

type task struct {
	fn        func()
	cancelled atomic.Bool
}

// Schedule appends fn to the queue.
func (q *Queue) Schedule(fn func()) Cancel {
	t := &task{fn: fn}

	q.mu.Lock()
	q.pending = append(q.pending, t)
	q.mu.Unlock()

	return func() { t.cancelled.Store(true) }
}

// Drain runs every callback queued before the call, in order, and returns
// how many ran. Callbacks scheduled while draining wait for the next Drain.
func (q *Queue) Drain() int {
	q.mu.Lock()
	batch := q.pending
	q.pending = nil
	q.mu.Unlock()

	ran := 0
	for _, t := range batch {
		if t.cancelled.Load() {
			continue
		}
		t.fn()
		ran++
	}
	return ran
}

// Len returns the number of queued callbacks, cancelled ones included.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Posted hands callbacks to a host event loop, for example by sending a
// message to a UI program. The loop must invoke every posted func.
type Posted struct {
	post func(run func())
}

// NewPosted creates a scheduler that delivers work through post.
func NewPosted(post func(run func())) *Posted {
	return &Posted{post: post}
}

// Schedule posts a cancellable wrapper around fn.
func (p *Posted) Schedule(fn func()) Cancel {
	var cancelled atomic.Bool
	p.post(func() {
		if !cancelled.Load() {
			fn()
		}
	})
	return func() { cancelled.Store(true) }
}
