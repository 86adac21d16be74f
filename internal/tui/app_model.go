package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"hearline-admin/internal/filter"
	"hearline-admin/internal/model"
)

type appModel struct {
	client   SessionAPI
	pageSize int

	width  int
	height int
	// The very first WindowSizeMsg is initial sizing, not a user resize.
	seenWindowSize bool

	state  viewState
	errMsg string

	// page and total form the pagination window. page is 1-based and is
	// never clamped to the reported total.
	page  int
	total int

	// sessions is the loaded page after display validation. Only two
	// writers touch it: the fetch-completion handler (wholesale replace)
	// and the link-save handler (single-record patch).
	sessions []model.Session

	sessionsList list.Model
	searchInput  textinput.Model
	searching    bool

	modal      modalKind
	modalForID string
	linkInput  textinput.Model
	// linkSaving disables the modal's confirm while a save is in flight,
	// so a slow server cannot be asked twice for the same patch.
	linkSaving bool
	saveSeq    int

	// fetchSeq invalidates in-flight fetches when the page changes again
	// or the view is torn down before the response lands.
	fetchSeq int

	spin spinner.Model

	// Transient out-of-band notice (e.g. failed link save). Does not touch
	// the page-level Loading/Ready/Error state.
	flashText  string
	flashIsErr bool
	flashSeq   int

	showHelp bool
}

func newAppModel(client SessionAPI, pageSize int) appModel {
	m := appModel{
		client:   client,
		pageSize: pageSize,
		state:    stateLoading,
		page:     1,
		fetchSeq: 1, // the mount-time fetch issued by Init
	}

	m.sessionsList = newSessionsList()

	m.searchInput = textinput.New()
	m.searchInput.Placeholder = "Search user, listener or date"
	m.searchInput.Prompt = "/ "
	m.searchInput.PromptStyle = lipgloss.NewStyle().Foreground(colorAccent)

	m.linkInput = textinput.New()
	m.linkInput.Placeholder = "https://meet.example.com/room"
	m.linkInput.Prompt = "> "

	m.spin = spinner.New()
	m.spin.Spinner = spinner.Dot
	m.spin.Style = lipgloss.NewStyle().Foreground(colorAccent)

	return m
}

// Init starts the mount-time fetch. newAppModel already primed fetchSeq
// and the Loading state, since Init cannot persist model changes.
func (m appModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.fetchCmd(m.fetchSeq))
}

func (m appModel) fetchCmd(seq int) tea.Cmd {
	page := m.page
	pageSize := m.pageSize
	client := m.client
	return func() tea.Msg {
		sessions, total, err := client.FetchSessions(context.Background(), page, pageSize)
		return sessionsLoadedMsg{seq: seq, sessions: sessions, total: total, err: err}
	}
}

// startFetch enters Loading and kicks off the page fetch for the current
// page. Any previous in-flight fetch is invalidated by the seq bump.
func (m appModel) startFetch() (appModel, tea.Cmd) {
	m.state = stateLoading
	m.errMsg = ""
	m.fetchSeq++
	return m, m.fetchCmd(m.fetchSeq)
}

// refreshVisible recomputes the derived visible subset from the loaded
// page and the live search term. Pure derivation; selection is preserved
// when the selected id survives the filter.
func (m *appModel) refreshVisible() {
	prevID := m.selectedSessionID()

	visible := filter.Visible(m.sessions, m.searchInput.Value())
	m.sessionsList.SetItems(sessionItems(visible))

	if prevID != "" {
		for idx, s := range visible {
			if s.ID == prevID {
				m.sessionsList.Select(idx)
				return
			}
		}
	}
	if len(visible) > 0 && m.sessionsList.Index() >= len(visible) {
		m.sessionsList.Select(0)
	}
}

func (m appModel) selectedSessionID() string {
	if it, ok := m.sessionsList.SelectedItem().(sessionItem); ok {
		return it.session.ID
	}
	return ""
}

func (m appModel) selectedSession() (model.Session, bool) {
	it, ok := m.sessionsList.SelectedItem().(sessionItem)
	if !ok {
		return model.Session{}, false
	}
	return it.session, true
}

func (m *appModel) resizeLists() {
	listH := m.height - chromeHeight
	if listH < 3 {
		listH = 3
	}
	w := m.width
	if w < 20 {
		w = 20
	}
	m.sessionsList.SetSize(w, listH)

	if m.width < cardLayoutBreakpoint {
		m.sessionsList.SetDelegate(newSessionCardDelegate())
	} else {
		m.sessionsList.SetDelegate(newTableRowDelegate())
	}
}

// openEditModal seeds the draft with the record's current link (or empty).
func (m *appModel) openEditModal(s model.Session) {
	m.modal = modalEditLink
	m.modalForID = s.ID
	m.linkInput.SetValue(s.MeetingLink)
	m.linkInput.CursorEnd()
	m.linkInput.Focus()
}

func (m *appModel) closeModal() {
	m.modal = modalNone
	m.modalForID = ""
	m.linkSaving = false
	m.linkInput.SetValue("")
	m.linkInput.Blur()
}

// applyLinkUpdate patches exactly the matching record's link in place.
// Order and all other fields are untouched.
func (m *appModel) applyLinkUpdate(id, link string) {
	for i := range m.sessions {
		if m.sessions[i].ID == id {
			m.sessions[i].MeetingLink = link
			break
		}
	}
	m.refreshVisible()
}
