package tui

import (
	"context"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"hearline-admin/internal/model"
)

const flashDuration = 3 * time.Second

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeLists()
		m.seenWindowSize = true
		return m, nil

	case spinner.TickMsg:
		if m.state != stateLoading && !m.linkSaving {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case sessionsLoadedMsg:
		// A late response for a page the user already left.
		if msg.seq != m.fetchSeq {
			return m, nil
		}
		if msg.err != nil {
			m.state = stateError
			m.errMsg = msg.err.Error()
			m.sessions = nil
			m.refreshVisible()
			return m, nil
		}
		m.sessions = model.ValidSessions(msg.sessions)
		m.total = msg.total
		if m.total < 0 {
			// Server omitted total: count the validated records we kept.
			m.total = len(m.sessions)
		}
		m.state = stateReady
		m.errMsg = ""
		m.refreshVisible()
		return m, nil

	case linkSavedMsg:
		if msg.seq != m.saveSeq {
			return m, nil
		}
		m.linkSaving = false
		if msg.err != nil {
			// The loaded page is still good; keep the modal (and the
			// user's draft) and surface a transient notice.
			return m, m.showFlash(msg.err.Error(), true)
		}
		m.applyLinkUpdate(msg.id, msg.link)
		m.closeModal()
		return m, m.showFlash("Meeting link saved", false)

	case flashDoneMsg:
		if msg.seq == m.flashSeq {
			m.flashText = ""
			m.flashIsErr = false
		}
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)
	}

	return m, nil
}

func (m appModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// ctrl+c always quits, regardless of focus.
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.showHelp {
		switch msg.String() {
		case "esc", "q", "?":
			m.showHelp = false
		}
		return m, nil
	}

	if m.modal == modalEditLink {
		return m.updateEditModal(msg)
	}

	if m.searching {
		return m.updateSearch(msg)
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "?":
		m.showHelp = true
		return m, nil

	case "/":
		m.searching = true
		m.searchInput.Focus()
		return m, nil

	case "r":
		if m.state == stateLoading {
			return m, nil
		}
		return m.startFetch()

	case "left", "h":
		return m.goToPage(m.page - 1)

	case "right", "l":
		return m.goToPage(m.page + 1)

	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		n, _ := strconv.Atoi(msg.String())
		return m.goToPage(n)

	case "enter", "e":
		if m.state != stateReady {
			return m, nil
		}
		if s, ok := m.selectedSession(); ok {
			m.openEditModal(s)
		}
		return m, nil

	case "o":
		if s, ok := m.selectedSession(); ok && s.MeetingLink != "" {
			if err := copyToClipboard(s.MeetingLink); err != nil {
				return m, m.showFlash("Copy failed: "+err.Error(), true)
			}
			return m, m.showFlash("Meeting link copied", false)
		}
		return m, nil
	}

	if m.state != stateReady {
		return m, nil
	}
	var cmd tea.Cmd
	m.sessionsList, cmd = m.sessionsList.Update(msg)
	return m, cmd
}

// goToPage is the pagination transition: any page >= 1 is legal, even past
// the reported total (the server just returns an empty slice). The Loading
// flag suppresses a second fetch while one is in flight.
func (m appModel) goToPage(n int) (tea.Model, tea.Cmd) {
	if n < 1 || n == m.page {
		return m, nil
	}
	if m.state == stateLoading {
		return m, nil
	}
	m.page = n
	return m.startFetch()
}

func (m appModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		// Keep the term; just leave the input.
		m.searching = false
		m.searchInput.Blur()
		return m, nil
	case "enter":
		m.searching = false
		m.searchInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	// Every keystroke recomputes the visible subset. Never a fetch.
	m.refreshVisible()
	return m, cmd
}

func (m appModel) updateEditModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if m.linkSaving {
			// The save already left the building; let it finish.
			return m, nil
		}
		m.closeModal()
		return m, nil

	case "enter":
		// Confirm is gated on a target and on no save being in flight.
		if m.linkSaving || m.modalForID == "" {
			return m, nil
		}
		m.linkSaving = true
		m.saveSeq++
		seq := m.saveSeq
		id := m.modalForID
		link := m.linkInput.Value()
		client := m.client
		return m, tea.Batch(m.spin.Tick, func() tea.Msg {
			err := client.UpdateMeetingLink(context.Background(), id, link)
			return linkSavedMsg{seq: seq, id: id, link: link, err: err}
		})
	}

	if m.linkSaving {
		return m, nil
	}
	var cmd tea.Cmd
	m.linkInput, cmd = m.linkInput.Update(msg)
	return m, cmd
}

func (m *appModel) showFlash(text string, isErr bool) tea.Cmd {
	m.flashText = text
	m.flashIsErr = isErr
	m.flashSeq++
	seq := m.flashSeq
	return tea.Tick(flashDuration, func(time.Time) tea.Msg { return flashDoneMsg{seq: seq} })
}
