package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/hay-kot/approvals/internal/core/approval"
	"github.com/hay-kot/approvals/internal/core/bump"
	"github.com/hay-kot/approvals/internal/core/styles"
	"github.com/hay-kot/approvals/internal/queue"
)

const (
	defaultWidth  = 100
	defaultHeight = 24

	colCheck   = 3
	colKind    = 16
	colStatus  = 11
	colWaiting = 19
	colEmail   = 28
)

// chromeLines is everything that is not a table row: header, tags, search,
// column titles, status bar and help.
const chromeLines = 7

func (m Model) View() string {
	width, height := m.size()

	if st := m.engine.Workflow().State(); st == bump.StateConfirming || st == bump.StateSending {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, m.renderConfirm(st))
	}

	sections := []string{
		m.renderHeader(),
		m.renderTags(),
		m.renderSearch(),
		m.renderTable(width, m.tableRows(height)),
		m.renderStatusBar(width),
		styles.HelpStyle.Render(m.help.View(m.keys)),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) size() (int, int) {
	w, h := m.width, m.height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	return w, h
}

func (m Model) tableRows(height int) int {
	return max(height-chromeLines, 1)
}

func (m Model) renderHeader() string {
	title := styles.HeaderStyle.Render("Pending approvals")
	s := m.engine.Summary()
	if s.LatestYear > 0 {
		title += styles.MutedStyle.Render(fmt.Sprintf("  reporting year %d", s.LatestYear))
	}
	if m.loading {
		title += " " + m.spinner.View()
	}
	return title
}

func (m Model) renderTags() string {
	q := m.engine.Query()

	tags := make([]string, 0, len(approval.Kinds)+3)
	tags = append(tags, tag("0 All", q.Kinds.Has(approval.KindAll)))
	for i, k := range approval.Kinds {
		tags = append(tags, tag(strconv.Itoa(i+1)+" "+k.Label(), q.Kinds.Has(k)))
	}

	level := q.Level
	if level == "" {
		level = approval.LevelUnset
	}
	sortLabel := string(m.engine.SortKey())
	if sortLabel == "" {
		sortLabel = "none"
	}

	tags = append(tags,
		styles.MutedStyle.Render("  level: ")+level.Label(),
		styles.MutedStyle.Render("  sort: ")+sortLabel,
	)
	return lipgloss.JoinHorizontal(lipgloss.Top, tags...)
}

func tag(label string, active bool) string {
	if active {
		return styles.TagActiveStyle.Render(label)
	}
	return styles.TagInactiveStyle.Render(label)
}

func (m Model) renderSearch() string {
	line := m.search.View()
	if m.state != stateSearching && m.search.Value() == "" {
		line = styles.MutedStyle.Render("/ to search")
	}
	if m.engine.Search().Pending() {
		line += " " + m.spinner.View()
	}
	return line
}

func (m Model) renderTable(width, rows int) string {
	view := m.engine.View()
	if len(view) == 0 {
		msg := "Nothing is waiting on you."
		if m.loading {
			msg = "Loading…"
		} else if m.engine.Summary().Total > 0 {
			msg = "No documents match the current filters."
		}
		return lipgloss.NewStyle().Height(rows + 1).Render(styles.MutedStyle.Render(msg))
	}

	titleWidth := max(width-colCheck-colKind-colStatus-colWaiting-colEmail-5, 10)

	header := styles.MutedStyle.Render(strings.Join([]string{
		pad("", colCheck),
		pad("KIND", colKind),
		pad("STATUS", colStatus),
		pad("WAITING ON", colWaiting),
		pad("APPROVER", colEmail),
		"TITLE",
	}, " "))

	offset := scrollOffset(m.cursor, m.offset, rows, len(view))
	end := min(offset+rows, len(view))

	lines := []string{header}
	sel := m.engine.Selection()
	for i := offset; i < end; i++ {
		d := view[i]
		line := strings.Join([]string{
			pad(m.mark(d, sel.Has(d.ID)), colCheck),
			pad(d.Kind.Label(), colKind),
			pad(string(d.Status), colStatus),
			pad(d.Pending.Label(), colWaiting),
			pad(approverLabel(d), colEmail),
			ansi.Truncate(d.PlainTitle, titleWidth, "…"),
		}, " ")
		lines = append(lines, rowStyle(d, i == m.cursor).Render(line))
	}
	for len(lines) < rows+1 {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func (m Model) mark(d approval.Classified, selected bool) string {
	switch {
	case selected:
		return styles.IconCheck
	case m.wasBumped(d.ID):
		return styles.IconMail
	case d.MissingInfo:
		return styles.IconWarning
	case d.Bumpable:
		return styles.IconUnchecked
	default:
		return ""
	}
}

func (m Model) wasBumped(id int) bool {
	_, ok := m.bumped[id]
	return ok
}

func approverLabel(d approval.Classified) string {
	switch d.Contact {
	case approval.ContactMissing:
		return "missing"
	case approval.ContactNone:
		return "-"
	}
	return d.ActionTakerEmail
}

func rowStyle(d approval.Classified, cursor bool) lipgloss.Style {
	var s lipgloss.Style
	switch {
	case d.MissingInfo:
		s = styles.RowMissingStyle
	case d.ExternalEmail:
		s = styles.RowExternalStyle
	default:
		s = styles.RowNormalStyle
	}
	if cursor {
		s = s.Inherit(styles.RowCursorStyle)
	}
	return s
}

// scrollOffset keeps the cursor inside a window of rows lines.
func scrollOffset(cursor, offset, rows, total int) int {
	if rows <= 0 || total <= rows {
		return 0
	}
	if cursor < offset {
		offset = cursor
	}
	if cursor >= offset+rows {
		offset = cursor - rows + 1
	}
	return min(offset, total-rows)
}

func (m Model) renderStatusBar(width int) string {
	if m.status != "" {
		style := styles.InfoStyle
		switch m.statusLevel {
		case statusSuccess:
			style = styles.SuccessStyle
		case statusError:
			style = styles.ErrorStyle
		}
		return styles.StatusBarStyle.Width(width).Render(style.Render(m.status))
	}
	return styles.StatusBarStyle.Width(width).Render(summaryLine(m.engine.Summary(), m.engine.Selection().Busy()))
}

func summaryLine(s queue.Summary, selecting bool) string {
	parts := []string{
		fmt.Sprintf("%d of %d shown", s.Visible, s.Total),
		fmt.Sprintf("%d bumpable", s.Bumpable),
		fmt.Sprintf("%d selected", s.Selected),
	}
	if s.MissingInfo > 0 {
		parts = append(parts, fmt.Sprintf("%d missing info", s.MissingInfo))
	}
	if s.ExternalEmail > 0 {
		parts = append(parts, fmt.Sprintf("%d external", s.ExternalEmail))
	}
	if selecting {
		parts = append(parts, "selecting…")
	}
	return strings.Join(parts, " · ")
}

func (m Model) renderConfirm(st bump.State) string {
	wf := m.engine.Workflow()
	batch := wf.Batch()

	var b strings.Builder
	b.WriteString(styles.ModalTitleStyle.Render(fmt.Sprintf("Send %d bump %s?", len(batch), plural(len(batch), "email", "emails"))))
	b.WriteString("\n\n")

	const listed = 8
	for i, r := range batch {
		if i == listed {
			fmt.Fprintf(&b, "… and %d more\n", len(batch)-listed)
			break
		}
		fmt.Fprintf(&b, "%s %s → %s\n", styles.IconMail, ansi.Truncate(r.ProjectTitle, 40, "…"), r.ActionTaker.Email)
	}

	if failure := wf.Failure(); failure != "" {
		b.WriteString("\n")
		b.WriteString(styles.ErrorStyle.Render("Send failed: " + failure))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if st == bump.StateSending {
		b.WriteString(m.spinner.View() + " Sending…")
	} else {
		b.WriteString(styles.ModalHelpStyle.Render("y send · n cancel"))
	}

	return styles.ModalStyle.Render(b.String())
}

func pad(s string, width int) string {
	s = ansi.Truncate(s, width, "…")
	if w := lipgloss.Width(s); w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}
