package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"hearline-admin/internal/model"
)

// chromeHeight is the vertical space taken by header, search line, pager
// and footer around the list body.
const chromeHeight = 7

func (m appModel) View() string {
	if !m.seenWindowSize {
		return ""
	}

	if m.showHelp {
		return m.renderHelp()
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.searchInput.View())
	b.WriteString("\n\n")

	switch m.state {
	case stateLoading:
		b.WriteString(m.spin.View() + " Loading sessions…")
	case stateError:
		// The error replaces the list wholesale; no stale rows or cards.
		b.WriteString(styleError().Render("Could not load sessions."))
		b.WriteString("\n")
		b.WriteString(styleMuted().Render(truncateToWidth(m.errMsg, m.width-2)))
		b.WriteString("\n\n")
		b.WriteString(styleMuted().Render("r: retry"))
	case stateReady:
		if len(m.sessionsList.Items()) == 0 {
			b.WriteString(styleMuted().Render(m.emptyText()))
		} else if m.width >= cardLayoutBreakpoint {
			b.WriteString(renderTableHeader(m.width))
			b.WriteString("\n")
			b.WriteString(m.sessionsList.View())
		} else {
			b.WriteString(m.sessionsList.View())
		}
	}

	b.WriteString("\n")
	if m.state == stateReady {
		if strip := renderPageStrip(m.page, model.Page{PageSize: m.pageSize, Total: m.total}.PageCount()); strip != "" {
			b.WriteString(strip)
			b.WriteString("\n")
		}
	}
	b.WriteString(m.renderFooter())

	base := b.String()
	if m.modal == modalEditLink {
		return m.renderWithModal(base)
	}
	return base
}

func (m appModel) renderHeader() string {
	title := styleTitle().Render("Hearline — Sessions")
	if m.total <= 0 {
		return title
	}
	return title + "  " + styleMuted().Render(fmt.Sprintf("%d total", m.total))
}

func (m appModel) emptyText() string {
	if strings.TrimSpace(m.searchInput.Value()) != "" {
		return "No sessions match the search."
	}
	return "No sessions on this page."
}

// renderPageStrip renders one numbered button per page, current page
// highlighted. Nothing is rendered when there are no records.
func renderPageStrip(page, pageCount int) string {
	if pageCount <= 0 {
		return ""
	}
	btn := styleMuted()
	current := lipgloss.NewStyle().
		Foreground(colorSelectedFg).
		Background(colorSelectedBg).
		Bold(true)

	parts := make([]string, 0, pageCount)
	for n := 1; n <= pageCount; n++ {
		label := " " + strconv.Itoa(n) + " "
		if n == page {
			parts = append(parts, current.Render(label))
		} else {
			parts = append(parts, btn.Render(label))
		}
	}
	return strings.Join(parts, " ")
}

func (m appModel) renderFooter() string {
	if m.flashText != "" {
		if m.flashIsErr {
			return styleError().Render(truncateToWidth(m.flashText, m.width-2))
		}
		return lipgloss.NewStyle().Foreground(colorAccent).Render(truncateToWidth(m.flashText, m.width-2))
	}
	return styleMuted().Render("/: search   ←/→: page   enter: edit link   o: copy link   ?: help   q: quit")
}

func (m appModel) renderWithModal(base string) string {
	title := "Edit meeting link"
	if s, ok := m.sessionByID(m.modalForID); ok {
		title = "Meeting link — " + s.User.Name
	}

	confirm := "enter: save"
	if m.linkSaving {
		confirm = m.spin.View() + " saving…"
	}
	content := strings.Join([]string{
		m.linkInput.View(),
		"",
		styleMuted().Render(confirm + "   esc: cancel"),
	}, "\n")

	box := renderModalBox(m.width, title, content)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m appModel) sessionByID(id string) (model.Session, bool) {
	for _, s := range m.sessions {
		if s.ID == id {
			return s, true
		}
	}
	return model.Session{}, false
}

func renderModalBox(width int, title string, content string) string {
	bodyW := modalBodyWidth(width)
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorAccent).
		Padding(0, 1).
		Width(bodyW)

	head := styleTitle().Render(truncateToWidth(title, bodyW))
	return box.Render(head + "\n\n" + content)
}

func modalBodyWidth(width int) int {
	w := width - 20
	if w > 64 {
		w = 64
	}
	if w < 24 {
		w = 24
	}
	return w
}
