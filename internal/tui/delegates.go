package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"hearline-admin/internal/filter"
	"hearline-admin/internal/model"
)

type sessionItem struct {
	session model.Session
}

func (i sessionItem) FilterValue() string {
	return i.session.User.Name + " " + i.session.Listener.Name + " " + filter.FormatScheduledDate(i.session.ScheduledAt)
}

func sessionItems(sessions []model.Session) []list.Item {
	items := make([]list.Item, 0, len(sessions))
	for _, s := range sessions {
		items = append(items, sessionItem{session: s})
	}
	return items
}

// Fixed column widths for the table layout. The three name-ish columns
// share the remaining width.
const (
	colScheduledW = 12 // "May 22, 2026"
	colStatusW    = 9  // "scheduled"
	colLinkW      = 4  // "link" / "-"
	colGap        = 2
)

type tableColumns struct {
	user, listener, topic int
}

func tableColumnsFor(width int) tableColumns {
	flex := width - colScheduledW - colStatusW - colLinkW - 5*colGap
	if flex < 12 {
		flex = 12
	}
	user := flex * 3 / 10
	listener := flex * 3 / 10
	topic := flex - user - listener
	return tableColumns{user: user, listener: listener, topic: topic}
}

func renderTableHeader(width int) string {
	cols := tableColumnsFor(width)
	gap := strings.Repeat(" ", colGap)
	cells := []string{
		padOrCutANSI("USER", cols.user),
		padOrCutANSI("LISTENER", cols.listener),
		padOrCutANSI("TOPIC", cols.topic),
		padOrCutANSI("SCHEDULED", colScheduledW),
		padOrCutANSI("STATUS", colStatusW),
		padOrCutANSI("LINK", colLinkW),
	}
	return styleMuted().Render(strings.Join(cells, gap))
}

// tableRowDelegate renders one session per row: all fields in aligned
// columns. Used at or above the card layout breakpoint.
type tableRowDelegate struct {
	normal   lipgloss.Style
	selected lipgloss.Style
}

func newTableRowDelegate() tableRowDelegate {
	return tableRowDelegate{
		normal: lipgloss.NewStyle(),
		selected: lipgloss.NewStyle().
			Foreground(colorSelectedFg).
			Background(colorSelectedBg).
			Bold(true),
	}
}

func (d tableRowDelegate) Height() int                             { return 1 }
func (d tableRowDelegate) Spacing() int                            { return 0 }
func (d tableRowDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d tableRowDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(sessionItem)
	if !ok {
		return
	}
	width := m.Width()
	if width < 24 {
		fmt.Fprint(w, "")
		return
	}

	s := it.session
	cols := tableColumnsFor(width)
	gap := strings.Repeat(" ", colGap)

	link := "-"
	if s.MeetingLink != "" {
		link = "link"
	}
	topic := s.Topic
	if topic == "" {
		topic = "-"
	}

	cells := []string{
		padOrCutANSI(truncateToWidth(s.User.Name, cols.user), cols.user),
		padOrCutANSI(truncateToWidth(s.Listener.Name, cols.listener), cols.listener),
		padOrCutANSI(truncateToWidth(topic, cols.topic), cols.topic),
		padOrCutANSI(filter.FormatScheduledDate(s.ScheduledAt), colScheduledW),
		padOrCutANSI(string(s.Status), colStatusW),
		padOrCutANSI(link, colLinkW),
	}
	row := strings.Join(cells, gap)

	if index == m.Index() {
		fmt.Fprint(w, d.selected.Render(padOrCutANSI(row, width)))
		return
	}
	// Color the status cell only on unselected rows; the selection bar
	// already carries enough contrast.
	cells[4] = padOrCutANSI(lipgloss.NewStyle().Foreground(statusColor(string(s.Status))).Render(string(s.Status)), colStatusW)
	fmt.Fprint(w, d.normal.Render(strings.Join(cells, gap)))
}

// sessionCardDelegate renders the same fields stacked in a bordered card.
// Used below the card layout breakpoint.
type sessionCardDelegate struct {
	normalCard   lipgloss.Style
	selectedCard lipgloss.Style
	titleStyle   lipgloss.Style
	metaStyle    lipgloss.Style
}

func newSessionCardDelegate() sessionCardDelegate {
	base := lipgloss.NewStyle().
		Width(0). // Set per-render.
		Padding(0, 1, 0, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorCardBorder).
		Foreground(colorSurfaceFg)

	selected := base.BorderForeground(colorAccent)

	return sessionCardDelegate{
		normalCard:   base,
		selectedCard: selected,
		titleStyle:   lipgloss.NewStyle().Bold(true).Foreground(colorSurfaceFg),
		metaStyle:    lipgloss.NewStyle().Foreground(colorCardMetaFg),
	}
}

func (d sessionCardDelegate) Height() int                             { return 6 } // 4 inner lines + border top/bottom
func (d sessionCardDelegate) Spacing() int                            { return 1 }
func (d sessionCardDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d sessionCardDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(sessionItem)
	if !ok {
		return
	}
	totalW := m.Width()
	if totalW < 16 {
		fmt.Fprint(w, "")
		return
	}

	card := d.normalCard
	if index == m.Index() {
		card = d.selectedCard
	}
	innerW := totalW - card.GetHorizontalFrameSize()
	if innerW < 1 {
		innerW = 1
	}
	card = card.Width(innerW)

	s := it.session

	user := strings.TrimSpace(s.User.Name)
	if user == "" {
		user = "(unknown user)"
	}
	listener := strings.TrimSpace(s.Listener.Name)
	if listener == "" {
		listener = "(unknown listener)"
	}
	topic := strings.TrimSpace(s.Topic)
	if topic == "" {
		topic = "(no topic)"
	}

	status := lipgloss.NewStyle().Foreground(statusColor(string(s.Status))).Render(string(s.Status))
	meta := filter.FormatScheduledDate(s.ScheduledAt) + "  " + status
	link := d.metaStyle.Render("no link")
	if s.MeetingLink != "" {
		link = d.metaStyle.Render(truncateToWidth(s.MeetingLink, innerW))
	}

	lines := []string{
		truncateToWidth(d.titleStyle.Render(user), innerW),
		truncateToWidth(d.metaStyle.Render("with "+listener), innerW),
		truncateToWidth(topic, innerW),
		truncateToWidth(meta, innerW) + "  " + link,
	}
	fmt.Fprint(w, card.Render(strings.Join(lines, "\n")))
}

func newSessionsList() list.Model {
	l := list.New([]list.Item{}, newTableRowDelegate(), 0, 0)
	// The app renders its own chrome (header, search, pager, footer) and
	// runs its own filter, so strip the list's.
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(false)
	// ESC is "close/cancel" here, not quit.
	l.KeyMap.Quit.SetKeys("q")
	// left/right switch server pages; the list must not also treat them as
	// its own pagination.
	l.KeyMap.PrevPage.SetEnabled(false)
	l.KeyMap.NextPage.SetEnabled(false)
	// Emacs-style navigation aliases.
	cursorUpKeys := append([]string{}, l.KeyMap.CursorUp.Keys()...)
	l.KeyMap.CursorUp.SetKeys(append(cursorUpKeys, "ctrl+p")...)
	cursorDownKeys := append([]string{}, l.KeyMap.CursorDown.Keys()...)
	l.KeyMap.CursorDown.SetKeys(append(cursorDownKeys, "ctrl+n")...)
	return l
}
