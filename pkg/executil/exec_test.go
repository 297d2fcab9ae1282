package executil

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSh_StderrCappedAtMaxLen(t *testing.T) {
	ctx := context.Background()

	longStderr := strings.Repeat("A", maxStderrLen*2)
	cmd := fmt.Sprintf("printf '%%s' '%s' >&2; exit 1", longStderr)

	err := RealExecutor{}.RunSh(ctx, cmd)
	require.Error(t, err)

	errMsg := err.Error()
	assert.LessOrEqual(t, len(errMsg), maxStderrLen+20, "error message should be capped")
	assert.Equal(t, strings.Repeat("A", maxStderrLen), errMsg[:maxStderrLen])
}

func TestRunSh_PreservesExitError(t *testing.T) {
	err := RealExecutor{}.RunSh(context.Background(), "echo 'error message' >&2; exit 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error message")

	var exitErr *exec.ExitError
	assert.ErrorAs(t, err, &exitErr)
}

func TestRunSh_NoStderrReturnsExitError(t *testing.T) {
	err := RealExecutor{}.RunSh(context.Background(), "exit 2")
	require.Error(t, err)

	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.ExitCode())
}

func TestRunSh_Success(t *testing.T) {
	require.NoError(t, RealExecutor{}.RunSh(context.Background(), "echo hello"))
}

func TestRecordingExecutor(t *testing.T) {
	t.Run("records commands", func(t *testing.T) {
		e := &RecordingExecutor{}
		ctx := context.Background()

		require.NoError(t, e.RunSh(ctx, "xdg-open 'https://a'"))
		require.NoError(t, e.RunSh(ctx, "xdg-open 'https://b'"))

		assert.Equal(t, []string{"xdg-open 'https://a'", "xdg-open 'https://b'"}, e.Recorded())
	})

	t.Run("returns configured error", func(t *testing.T) {
		want := errors.New("command failed")
		e := &RecordingExecutor{Err: want}

		err := e.RunSh(context.Background(), "open x")
		assert.Equal(t, want, err)
		assert.Len(t, e.Recorded(), 1)
	})
}
