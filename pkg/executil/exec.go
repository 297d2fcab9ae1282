// Package executil provides shell execution utilities.
package executil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
)

const maxStderrLen = 500

// limitedWriter caps writes to a bytes.Buffer at a maximum byte count.
// Bytes beyond the limit are silently discarded.
type limitedWriter struct {
	buf *bytes.Buffer
	n   int64
	max int64
}

func (w *limitedWriter) Write(p []byte) (int, error) {
	if w.n >= w.max {
		return len(p), nil
	}
	remaining := w.max - w.n
	origLen := len(p)
	if int64(origLen) > remaining {
		p = p[:remaining]
	}
	n, err := w.buf.Write(p)
	w.n += int64(n)
	if err != nil {
		return n, err
	}
	return origLen, nil
}

// Executor runs shell command lines.
type Executor interface {
	// RunSh executes cmd through sh -c. On failure the error carries the
	// command's stderr, capped at 500 bytes.
	RunSh(ctx context.Context, cmd string) error
}

// RealExecutor calls actual shell commands.
type RealExecutor struct{}

// RunSh executes cmd through sh -c. Stdout is discarded. The original
// *exec.ExitError is preserved via wrapping so callers can inspect exit
// codes with errors.As.
func (RealExecutor) RunSh(ctx context.Context, cmd string) error {
	c := exec.CommandContext(ctx, "sh", "-c", cmd)
	var buf bytes.Buffer
	c.Stdout = io.Discard
	c.Stderr = &limitedWriter{buf: &buf, max: maxStderrLen}
	if err := c.Run(); err != nil {
		msg := strings.TrimSpace(buf.String())
		if msg != "" {
			return fmt.Errorf("%s: %w", msg, err)
		}
		return err
	}
	return nil
}

// RecordingExecutor captures command lines for testing.
type RecordingExecutor struct {
	mu       sync.Mutex
	Commands []string

	// Err is returned from every call when set.
	Err error
}

// RunSh records cmd and returns the configured error.
func (e *RecordingExecutor) RunSh(_ context.Context, cmd string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Commands = append(e.Commands, cmd)
	return e.Err
}

// Recorded returns a copy of the recorded command lines.
func (e *RecordingExecutor) Recorded() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.Commands...)
}
