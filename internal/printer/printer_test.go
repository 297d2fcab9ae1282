package printer

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrinter_Levels(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)

	p.Printf("plain %d", 1)
	p.Successf("sent %d", 3)
	p.Infof("info")
	p.Warnf("careful")
	p.Errorf("failed: %s", "400: invalid")

	out := buf.String()
	assert.Contains(t, out, "plain 1\n")
	assert.Contains(t, out, "sent 3")
	assert.Contains(t, out, "careful")
	assert.Contains(t, out, "failed: 400: invalid")
}

func TestCtx(t *testing.T) {
	var buf bytes.Buffer
	ctx := NewContext(context.Background(), New(&buf))

	Ctx(ctx).Printf("hello")
	assert.Equal(t, "hello\n", buf.String())

	assert.NotNil(t, Ctx(context.Background()))
}
