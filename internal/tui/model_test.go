package tui

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/approvals/internal/core/approval"
	"github.com/hay-kot/approvals/internal/core/bump"
	"github.com/hay-kot/approvals/internal/core/sched"
	"github.com/hay-kot/approvals/internal/core/search"
	"github.com/hay-kot/approvals/internal/queue"
	"github.com/hay-kot/approvals/pkg/tuitest"
)

type fakeFetcher struct{ snap approval.Snapshot }

func (f *fakeFetcher) PendingDocuments(context.Context) (approval.Snapshot, error) {
	return f.snap, nil
}

type fakeSender struct {
	mu   sync.Mutex
	err  error
	sent [][]approval.BumpRequest
}

func (f *fakeSender) SendBumpEmails(_ context.Context, reqs []approval.BumpRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, reqs)
	return f.err
}

type fakeOpener struct{ opened []int }

func (f *fakeOpener) Open(_ context.Context, doc approval.Document) (string, error) {
	f.opened = append(f.opened, doc.ID)
	return "https://example.test/projects/1", nil
}

type stubTimer struct {
	f       func()
	stopped bool
}

func (t *stubTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

type stubClock struct{ timers []*stubTimer }

func (c *stubClock) AfterFunc(_ time.Duration, f func()) search.Timer {
	t := &stubTimer{f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *stubClock) FireAll() {
	timers := c.timers
	c.timers = nil
	for _, t := range timers {
		if !t.stopped {
			t.stopped = true
			t.f()
		}
	}
}

func doc(id int, kind approval.Kind, title string) approval.Document {
	return approval.Document{
		ID:               id,
		ProjectID:        id * 10,
		Kind:             kind,
		Title:            title,
		Status:           approval.StatusInApproval,
		ActionTakerID:    100 + id,
		ActionTakerEmail: "lead@example.org",
		IsBumpable:       true,
	}
}

func testSnapshot() approval.Snapshot {
	concept := doc(1, approval.KindConcept, "River restoration")
	plan := doc(2, approval.KindProjectPlan, "Seagrass mapping")
	missing := doc(3, approval.KindProjectPlan, "Fire regimes")
	missing.ActionTakerEmail = ""
	missing.IsBumpable = false
	missing.HasMissingLeaderInfo = true

	return approval.Snapshot{
		All: []approval.Document{concept, plan, missing},
		Buckets: map[approval.Kind][]approval.Document{
			approval.KindConcept:     {concept},
			approval.KindProjectPlan: {plan, missing},
		},
		LatestYear: 2025,
	}
}

type harness struct {
	t      *testing.T
	model  Model
	relay  *Relay
	clock  *stubClock
	sender *fakeSender
	opener *fakeOpener
	engine *queue.Engine
}

func newHarness(t *testing.T, settings queue.Settings) *harness {
	t.Helper()

	h := &harness{
		t:      t,
		relay:  NewRelay(),
		clock:  &stubClock{},
		sender: &fakeSender{},
		opener: &fakeOpener{},
	}
	settings.Requester = approval.Contact{ID: 9, Email: "me@example.org"}

	h.engine = queue.New(&fakeFetcher{snap: testSnapshot()}, h.sender, settings,
		queue.WithScheduler(sched.NewPosted(h.relay.Post)),
		queue.WithAfterFunc(h.clock.AfterFunc),
	)
	h.model = New(context.Background(), Options{Engine: h.engine, Browser: h.opener})
	h.send(tuitest.WindowSize(120, 30))
	h.send(h.model.refresh()())
	return h
}

// send applies msg and returns the resulting command.
func (h *harness) send(msg tea.Msg) tea.Cmd {
	h.t.Helper()
	next, cmd := h.model.Update(msg)
	m, ok := next.(Model)
	require.True(h.t, ok)
	h.model = m
	return cmd
}

func (h *harness) press(keys string) {
	h.t.Helper()
	for _, msg := range tuitest.KeyPresses(keys) {
		h.send(msg)
	}
}

// drain runs everything the engine posted to the event loop.
func (h *harness) drain() {
	h.t.Helper()
	for _, msg := range h.relay.Pending() {
		h.send(msg)
	}
}

func (h *harness) view() string {
	return tuitest.StripANSI(h.model.View())
}

func visibleIDs(e *queue.Engine) []int {
	var ids []int
	for _, d := range e.View() {
		ids = append(ids, d.ID)
	}
	return ids
}

func TestModel_RendersSnapshot(t *testing.T) {
	h := newHarness(t, queue.Settings{})

	out := h.view()
	assert.Contains(t, out, "reporting year 2025")
	assert.Contains(t, out, "River restoration")
	assert.Contains(t, out, "Seagrass mapping")
	assert.Contains(t, out, "Fire regimes")
	assert.Contains(t, out, "3 of 3 shown")
	assert.Contains(t, out, "2 bumpable")
}

func TestModel_KindKeys(t *testing.T) {
	h := newHarness(t, queue.Settings{})

	h.press("1")
	assert.Equal(t, []int{1}, visibleIDs(h.engine))

	h.press("2")
	assert.Equal(t, []int{1, 2, 3}, visibleIDs(h.engine))

	h.press("1")
	assert.Equal(t, []int{2, 3}, visibleIDs(h.engine))

	h.press("0")
	assert.Equal(t, []int{1, 2, 3}, visibleIDs(h.engine))
	assert.True(t, h.engine.Query().Kinds.Has(approval.KindAll))
}

func TestModel_SearchCommitsOnEventLoop(t *testing.T) {
	h := newHarness(t, queue.Settings{})

	h.press("/")
	h.press("river")

	assert.Equal(t, "river", h.engine.Search().Raw())
	assert.True(t, h.engine.Search().Pending())
	assert.Len(t, h.engine.View(), 3, "filter waits for the commit")

	h.clock.FireAll()
	assert.True(t, h.engine.Search().Pending(), "commit waits for the event loop")

	h.drain()
	assert.False(t, h.engine.Search().Pending())
	assert.Equal(t, []int{1}, visibleIDs(h.engine))

	h.send(tuitest.KeyEsc())
	assert.Empty(t, h.engine.Search().Raw())
	assert.Equal(t, []int{1, 2, 3}, visibleIDs(h.engine))
}

func TestModel_SearchKeysDoNotTriggerBindings(t *testing.T) {
	h := newHarness(t, queue.Settings{})

	h.press("/")
	h.press("q1")

	assert.Equal(t, "q1", h.engine.Search().Raw())
	assert.True(t, h.engine.Query().Kinds.Has(approval.KindAll))
}

func TestModel_SelectAndBump(t *testing.T) {
	h := newHarness(t, queue.Settings{})

	h.send(tuitest.KeySpace())
	assert.True(t, h.engine.Selection().Has(1))

	h.press("B")
	require.Equal(t, bump.StateConfirming, h.engine.Workflow().State())
	assert.Contains(t, h.view(), "Send 1 bump email?")

	cmd := h.send(tuitest.KeyPress('y'))
	require.NotNil(t, cmd)
	h.send(cmd())

	require.Len(t, h.sender.sent, 1)
	assert.Equal(t, 1, h.sender.sent[0][0].DocumentID)
	assert.Equal(t, bump.StateIdle, h.engine.Workflow().State())
	assert.Zero(t, h.engine.Selection().Count())
	assert.True(t, h.model.wasBumped(1))
	assert.Contains(t, h.view(), "Sent 1 bump email")
}

func TestModel_BumpFailureStaysOpen(t *testing.T) {
	h := newHarness(t, queue.Settings{})
	h.sender.err = errors.New("502: bad gateway")

	h.press("b")
	cmd := h.send(tuitest.KeyPress('y'))
	require.NotNil(t, cmd)
	h.send(cmd())

	assert.Equal(t, bump.StateConfirming, h.engine.Workflow().State())
	assert.Contains(t, h.view(), "Send failed: 502: bad gateway")

	h.press("n")
	assert.Equal(t, bump.StateIdle, h.engine.Workflow().State())
}

func TestModel_BumpNotBumpable(t *testing.T) {
	h := newHarness(t, queue.Settings{})

	h.send(tuitest.KeyDown())
	h.send(tuitest.KeyDown())
	h.press("b")

	assert.Equal(t, bump.StateIdle, h.engine.Workflow().State())
	assert.Contains(t, h.view(), "Nothing to send")
	assert.Equal(t, statusInfo, h.model.statusLevel)
}

func TestModel_BumpAllWithEmptySelection(t *testing.T) {
	h := newHarness(t, queue.Settings{})

	h.press("B")

	assert.Equal(t, bump.StateIdle, h.engine.Workflow().State())
	assert.Equal(t, "Nothing to send", h.model.status)
	assert.Equal(t, statusInfo, h.model.statusLevel)
	assert.Empty(t, h.sender.sent)
}

func TestModel_LargeSelectAllIsDeferred(t *testing.T) {
	h := newHarness(t, queue.Settings{BulkThreshold: 1})

	h.press("a")
	assert.True(t, h.engine.Selection().Busy())
	assert.Zero(t, h.engine.Selection().Count())

	h.drain()
	assert.False(t, h.engine.Selection().Busy())
	assert.Equal(t, []int{1, 2}, h.engine.Selection().IDs())

	h.press("a")
	h.drain()
	assert.Zero(t, h.engine.Selection().Count())
}

func TestModel_Open(t *testing.T) {
	h := newHarness(t, queue.Settings{})

	h.send(tuitest.KeyDown())
	cmd := h.send(tuitest.KeyEnter())
	require.NotNil(t, cmd)
	h.send(cmd())

	assert.Equal(t, []int{2}, h.opener.opened)
	assert.Contains(t, h.view(), "Opened https://example.test/projects/1")
}

func TestModel_LevelAndSortKeys(t *testing.T) {
	h := newHarness(t, queue.Settings{})

	h.press("l")
	assert.Equal(t, approval.LevelProjectLead, h.engine.Query().Level)

	h.press("s")
	assert.Equal(t, approval.SortKind, h.engine.SortKey())
	h.press("sss")
	assert.Equal(t, approval.SortTitle, h.engine.SortKey())
	assert.Equal(t, []int{3, 1, 2}, visibleIDs(h.engine))
}

func TestModel_CursorStaysInView(t *testing.T) {
	h := newHarness(t, queue.Settings{})

	h.send(tuitest.KeyDown())
	h.send(tuitest.KeyDown())
	h.send(tuitest.KeyDown())
	assert.Equal(t, 2, h.model.cursor)

	h.press("1")
	assert.Equal(t, 0, h.model.cursor)
}

func TestNextLevel(t *testing.T) {
	tests := []struct {
		in   approval.Level
		want approval.Level
	}{
		{approval.LevelUnset, approval.LevelProjectLead},
		{approval.LevelProjectLead, approval.LevelBusinessAreaLead},
		{approval.LevelBusinessAreaLead, approval.LevelDirectorate},
		{approval.LevelDirectorate, approval.LevelUnset},
	}

	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			assert.Equal(t, tt.want, nextLevel(tt.in))
		})
	}
}

func TestScrollOffset(t *testing.T) {
	tests := []struct {
		name                        string
		cursor, offset, rows, total int
		want                        int
	}{
		{name: "fits", cursor: 3, offset: 0, rows: 10, total: 5, want: 0},
		{name: "cursor below window", cursor: 12, offset: 0, rows: 10, total: 20, want: 3},
		{name: "cursor above window", cursor: 2, offset: 5, rows: 10, total: 20, want: 2},
		{name: "inside window", cursor: 7, offset: 5, rows: 10, total: 20, want: 5},
		{name: "clamped to end", cursor: 19, offset: 15, rows: 10, total: 20, want: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scrollOffset(tt.cursor, tt.offset, tt.rows, tt.total))
		})
	}
}
