package logutils

import (
	"fmt"
	"io"
	"sync"
)

// DefaultDeferredLines is how many log events a Deferred keeps.
const DefaultDeferredLines = 500

// Deferred holds log output while a full-screen program owns the terminal.
// zerolog issues one Write per event, so each write is kept as one entry.
// Only the most recent entries are retained.
type Deferred struct {
	mu      sync.Mutex
	limit   int
	entries [][]byte
	dropped int
}

// NewDeferred keeps at most limit entries. A limit of zero or less uses
// DefaultDeferredLines.
func NewDeferred(limit int) *Deferred {
	if limit <= 0 {
		limit = DefaultDeferredLines
	}
	return &Deferred{limit: limit}
}

func (d *Deferred) Write(p []byte) (int, error) {
	entry := make([]byte, len(p))
	copy(entry, p)

	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.entries) == d.limit {
		d.entries = d.entries[1:]
		d.dropped++
	}
	d.entries = append(d.entries, entry)
	return len(p), nil
}

// Flush writes the retained entries to w and empties the buffer. When older
// entries were discarded a note saying how many is written first.
func (d *Deferred) Flush(w io.Writer) error {
	d.mu.Lock()
	entries, dropped := d.entries, d.dropped
	d.entries, d.dropped = nil, 0
	d.mu.Unlock()

	if dropped > 0 {
		if _, err := fmt.Fprintf(w, "(%d earlier log lines dropped)\n", dropped); err != nil {
			return err
		}
	}
	for _, e := range entries {
		if _, err := w.Write(e); err != nil {
			return err
		}
	}
	return nil
}
