package tui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

const relayBuffer = 64

// idleMsg carries deferred engine work onto the event loop.
type idleMsg struct {
	run func()
}

// Relay forwards scheduler callbacks to the program as messages. Post never
// blocks, so it is safe to call from inside Update.
type Relay struct {
	ch       chan tea.Msg
	done     chan struct{}
	stopOnce sync.Once
}

// NewRelay creates an unbound relay.
func NewRelay() *Relay {
	return &Relay{
		ch:   make(chan tea.Msg, relayBuffer),
		done: make(chan struct{}),
	}
}

// Post queues run for the event loop. It satisfies sched.NewPosted. When
// the buffer is full the send waits in a goroutine that exits once Run has
// stopped.
func (r *Relay) Post(run func()) {
	msg := idleMsg{run: run}
	select {
	case r.ch <- msg:
	case <-r.done:
	default:
		go func() {
			select {
			case r.ch <- msg:
			case <-r.done:
			}
		}()
	}
}

// Run forwards posted work to send until ctx is done. tea.Program.Send is
// the usual target. After Run returns, posted work is dropped.
func (r *Relay) Run(ctx context.Context, send func(tea.Msg)) {
	defer r.stopOnce.Do(func() { close(r.done) })

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-r.ch:
			send(msg)
		}
	}
}

// Pending drains whatever is queued without blocking.
func (r *Relay) Pending() []tea.Msg {
	var out []tea.Msg
	for {
		select {
		case msg := <-r.ch:
			out = append(out, msg)
		default:
			return out
		}
	}
}
