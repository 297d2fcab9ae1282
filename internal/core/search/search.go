// Package search owns the query typed into the approval queue and decides
// when it is committed for filtering.
package search

import (
	"sync"
	"time"

	"github.com/hay-kot/approvals/internal/core/sched"
)

// DefaultDelay is the quiet period after the last keystroke before a query
// is committed.
const DefaultDelay = 150 * time.Millisecond

// Timer is the part of *time.Timer the controller needs.
type Timer interface {
	Stop() bool
}

// AfterFunc starts a single-shot timer.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// State is a point-in-time view of the controller.
type State struct {
	Raw       string
	Committed string
	Pending   bool
}

// Controller debounces query text. Raw tracks every keystroke; Committed
// only changes once typing has been quiet for the delay and the scheduler
// has granted an idle slot. Pending is true in between.
//
// OnCommit callbacks run on whatever goroutine the scheduler uses. Hosts
// with an event loop should supply a scheduler that posts to that loop.
type Controller struct {
	delay     time.Duration
	afterFunc AfterFunc
	idle      sched.Scheduler
	onCommit  func(committed string)

	mu         sync.Mutex
	state      State
	gen        uint64
	timer      Timer
	cancelIdle sched.Cancel
}

// Option configures a Controller.
type Option func(*Controller)

// WithDelay overrides DefaultDelay.
func WithDelay(d time.Duration) Option {
	return func(c *Controller) { c.delay = d }
}

// WithScheduler sets where the commit runs once the delay elapses.
func WithScheduler(s sched.Scheduler) Option {
	return func(c *Controller) { c.idle = s }
}

// WithAfterFunc replaces time.AfterFunc, mainly for tests.
func WithAfterFunc(f AfterFunc) Option {
	return func(c *Controller) { c.afterFunc = f }
}

// OnCommit registers a callback invoked with each newly committed query.
func OnCommit(fn func(committed string)) Option {
	return func(c *Controller) { c.onCommit = fn }
}

// New creates a controller. Without WithScheduler, commits run as soon as
// the delay elapses.
func New(opts ...Option) *Controller {
	c := &Controller{
		delay:     DefaultDelay,
		afterFunc: realAfterFunc,
		idle:      sched.Immediate{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetQuery records a keystroke. Raw changes immediately; any in-flight
// timer or idle commit is cancelled and the quiet period restarts.
func (c *Controller) SetQuery(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopLocked()
	c.gen++
	gen := c.gen

	c.state.Raw = text
	c.state.Pending = true
	c.timer = c.afterFunc(c.delay, func() { c.elapsed(gen) })
}

// Clear resets both queries and the pending flag, cancelling any scheduled
// commit. OnCommit fires with "" if a non-empty query had been committed.
func (c *Controller) Clear() {
	c.mu.Lock()
	c.stopLocked()
	c.gen++
	hadCommitted := c.state.Committed != ""
	c.state = State{}
	cb := c.onCommit
	c.mu.Unlock()

	if hadCommitted && cb != nil {
		cb("")
	}
}

// Raw returns the text as typed.
func (c *Controller) Raw() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Raw
}

// Committed returns the text currently used for filtering.
func (c *Controller) Committed() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Committed
}

// Pending reports whether Committed is still catching up with Raw.
func (c *Controller) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Pending
}

// State returns all three values at once.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) stopLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.cancelIdle != nil {
		c.cancelIdle()
		c.cancelIdle = nil
	}
}

// elapsed runs when the quiet period for generation gen is over.
func (c *Controller) elapsed(gen uint64) {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	c.mu.Unlock()

	cancel := c.idle.Schedule(func() { c.commit(gen) })

	c.mu.Lock()
	if gen == c.gen && c.state.Pending {
		c.cancelIdle = cancel
	}
	c.mu.Unlock()
}

func (c *Controller) commit(gen uint64) {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return
	}
	c.state.Committed = c.state.Raw
	c.state.Pending = false
	c.cancelIdle = nil
	committed := c.state.Committed
	cb := c.onCommit
	c.mu.Unlock()

	if cb != nil {
		cb(committed)
	}
}
