// Package tui implements the interactive approval queue.
package tui

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/hay-kot/approvals/internal/core/approval"
	"github.com/hay-kot/approvals/internal/core/bump"
	"github.com/hay-kot/approvals/internal/core/logging"
	"github.com/hay-kot/approvals/internal/core/styles"
	"github.com/hay-kot/approvals/internal/queue"
)

const statusTTL = 5 * time.Second

// Opener opens a document's project page.
type Opener interface {
	Open(ctx context.Context, doc approval.Document) (string, error)
}

// Options configures the Model.
type Options struct {
	// Engine should be built with a scheduler posting to a Relay bound to
	// the program.
	Engine  *queue.Engine
	Browser Opener
	Keys    *KeyMap
}

type uiState int

const (
	stateBrowsing uiState = iota
	stateSearching
)

type statusLevel int

const (
	statusInfo statusLevel = iota
	statusSuccess
	statusError
)

type (
	snapshotLoadedMsg struct{ err error }
	bumpDoneMsg       struct {
		ids []int
		err error
	}
	openedMsg struct {
		url string
		err error
	}
	clearStatusMsg struct{ seq int }
)

// Model is the root bubbletea model.
type Model struct {
	ctx     context.Context
	engine  *queue.Engine
	browser Opener
	keys    KeyMap
	log     zerolog.Logger

	help    help.Model
	search  textinput.Model
	spinner spinner.Model

	state   uiState
	loading bool
	cursor  int
	offset  int
	width   int
	height  int

	// bumped marks documents emailed during this session.
	bumped map[int]time.Time

	status      string
	statusLevel statusLevel
	statusSeq   int
}

// New creates a model. Init triggers the first refresh.
func New(ctx context.Context, opts Options) Model {
	keys := DefaultKeyMap()
	if opts.Keys != nil {
		keys = *opts.Keys
	}

	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "search titles"
	ti.PromptStyle = styles.SearchPromptStyle

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.InfoStyle

	return Model{
		ctx:     ctx,
		engine:  opts.Engine,
		browser: opts.Browser,
		keys:    keys,
		log:     logging.Component("tui"),
		help:    help.New(),
		search:  ti,
		spinner: sp,
		loading: true,
		bumped:  map[int]time.Time{},
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.refresh())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.search.Width = max(msg.Width-10, 10)
		m.clampCursor()
		return m, nil

	case idleMsg:
		msg.run()
		m.clampCursor()
		return m, nil

	case snapshotLoadedMsg:
		m.loading = false
		m.clampCursor()
		if msg.err != nil {
			m.log.Error().Err(msg.err).Msg("refresh failed")
			cmd := m.setStatus(statusError, msg.err.Error())
			return m, cmd
		}
		return m, nil

	case bumpDoneMsg:
		return m.handleBumpDone(msg)

	case openedMsg:
		switch {
		case msg.err != nil:
			cmd := m.setStatus(statusError, msg.err.Error())
			return m, cmd
		case msg.url == "":
			cmd := m.setStatus(statusInfo, "No project page for this document")
			return m, cmd
		default:
			cmd := m.setStatus(statusSuccess, "Opened "+msg.url)
			return m, cmd
		}

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.engine.Workflow().State() {
	case bump.StateConfirming:
		return m.handleConfirmKey(msg)
	case bump.StateSending:
		return m, nil
	}

	if m.state == stateSearching {
		return m.handleSearchKey(msg)
	}
	return m.handleBrowseKey(msg)
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		return m, m.confirmBump()
	case key.Matches(msg, m.keys.Cancel):
		_ = m.engine.Workflow().Cancel()
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.search.SetValue("")
		m.search.Blur()
		m.engine.Search().Clear()
		m.state = stateBrowsing
		return m, nil
	case tea.KeyEnter, tea.KeyDown, tea.KeyUp:
		m.search.Blur()
		m.state = stateBrowsing
		return m, nil
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if after := m.search.Value(); after != before {
		m.engine.Search().SetQuery(after)
	}
	return m, cmd
}

func (m Model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.engine.View())-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Search):
		m.state = stateSearching
		return m, m.search.Focus()

	case key.Matches(msg, m.keys.Kinds):
		if i, ok := kindForKey(msg.String()); ok && i < len(approval.Kinds) {
			m.engine.ToggleKind(approval.Kinds[i])
		}

	case key.Matches(msg, m.keys.AllKinds):
		m.engine.SetKinds(approval.NewKindSet(approval.KindAll))

	case key.Matches(msg, m.keys.Level):
		m.engine.SetLevel(nextLevel(m.engine.Query().Level))

	case key.Matches(msg, m.keys.Sort):
		m.engine.SetSort(nextSortKey(m.engine.SortKey()))

	case key.Matches(msg, m.keys.Toggle):
		if d, ok := m.current(); ok && d.Bumpable {
			sel := m.engine.Selection()
			sel.Toggle(d.ID, !sel.Has(d.ID))
		}

	case key.Matches(msg, m.keys.SelectAll):
		s := m.engine.Summary()
		m.engine.SelectAllBumpable(s.Selected < s.Bumpable)

	case key.Matches(msg, m.keys.Bump):
		d, ok := m.current()
		if !ok {
			return m, nil
		}
		if err := m.engine.BumpDocument(d.ID); err != nil {
			cmd := m.bumpStatus(err)
			return m, cmd
		}

	case key.Matches(msg, m.keys.BumpAll):
		if _, err := m.engine.BumpSelected(); err != nil {
			cmd := m.bumpStatus(err)
			return m, cmd
		}

	case key.Matches(msg, m.keys.Open):
		if d, ok := m.current(); ok {
			return m, m.open(d.Document)
		}

	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		return m, m.refresh()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	m.clampCursor()
	return m, nil
}

func (m Model) handleBumpDone(msg bumpDoneMsg) (tea.Model, tea.Cmd) {
	m.clampCursor()
	if msg.err != nil {
		if errors.Is(msg.err, bump.ErrInvalidState) {
			return m, nil
		}
		m.log.Debug().Err(msg.err).Int("documents", len(msg.ids)).Msg("bump not sent")
		return m, nil
	}

	now := time.Now()
	for _, id := range msg.ids {
		m.bumped[id] = now
	}
	m.engine.Workflow().Acknowledge()
	cmd := m.setStatus(statusSuccess, fmt.Sprintf("Sent %d bump %s", len(msg.ids), plural(len(msg.ids), "email", "emails")))
	return m, cmd
}

func (m Model) refresh() tea.Cmd {
	ctx, engine := m.ctx, m.engine
	return func() tea.Msg {
		return snapshotLoadedMsg{err: engine.Refresh(ctx)}
	}
}

func (m Model) confirmBump() tea.Cmd {
	wf := m.engine.Workflow()
	batch := wf.Batch()
	ids := make([]int, 0, len(batch))
	for _, r := range batch {
		ids = append(ids, r.DocumentID)
	}
	ctx := m.ctx
	return func() tea.Msg {
		return bumpDoneMsg{ids: ids, err: wf.Confirm(ctx)}
	}
}

func (m Model) open(doc approval.Document) tea.Cmd {
	if m.browser == nil {
		return nil
	}
	ctx, browser := m.ctx, m.browser
	return func() tea.Msg {
		url, err := browser.Open(ctx, doc)
		return openedMsg{url: url, err: err}
	}
}

func (m *Model) setStatus(level statusLevel, text string) tea.Cmd {
	m.statusSeq++
	m.status = text
	m.statusLevel = level
	seq := m.statusSeq
	return tea.Tick(statusTTL, func(time.Time) tea.Msg { return clearStatusMsg{seq: seq} })
}

func (m Model) current() (approval.Classified, bool) {
	view := m.engine.View()
	if m.cursor < 0 || m.cursor >= len(view) {
		return approval.Classified{}, false
	}
	return view[m.cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.engine.View())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	_, height := m.size()
	m.offset = scrollOffset(m.cursor, m.offset, m.tableRows(height), n)
}

// nextLevel cycles unset through the approval chain and back.
func nextLevel(l approval.Level) approval.Level {
	i := slices.Index(approval.Levels, l)
	if i+1 >= len(approval.Levels) {
		return approval.LevelUnset
	}
	return approval.Levels[i+1]
}

func nextSortKey(k approval.SortKey) approval.SortKey {
	i := slices.Index(approval.SortKeys, k)
	return approval.SortKeys[(i+1)%len(approval.SortKeys)]
}

// bumpStatus reports a bump that could not start. An empty batch is a
// notice, not a failure.
func (m *Model) bumpStatus(err error) tea.Cmd {
	if errors.Is(err, bump.ErrNothingToSend) {
		return m.setStatus(statusInfo, "Nothing to send")
	}
	return m.setStatus(statusError, err.Error())
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
