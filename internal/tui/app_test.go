package tui

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"hearline-admin/internal/model"
)

type fakeAPI struct {
	sessions []model.Session
	total    int
	fetchErr error

	fetchCalls   int
	lastPage     int
	lastPageSize int

	updateErr   error
	updateCalls int
	lastID      string
	lastLink    string
}

func (f *fakeAPI) FetchSessions(_ context.Context, page, pageSize int) ([]model.Session, int, error) {
	f.fetchCalls++
	f.lastPage = page
	f.lastPageSize = pageSize
	if f.fetchErr != nil {
		return nil, 0, f.fetchErr
	}
	return f.sessions, f.total, nil
}

func (f *fakeAPI) UpdateMeetingLink(_ context.Context, id, link string) error {
	f.updateCalls++
	f.lastID = id
	f.lastLink = link
	return f.updateErr
}

func testSessions() []model.Session {
	at := time.Date(2026, time.January, 5, 10, 0, 0, 0, time.UTC)
	return []model.Session{
		{
			ID:          "sess-1",
			User:        model.UserRef{ID: "u1", Name: "Anna"},
			Listener:    model.ListenerRef{ID: "l1", Name: "Marcus"},
			Topic:       "grief",
			ScheduledAt: at,
			Status:      model.StatusScheduled,
		},
		{
			ID:          "sess-2",
			User:        model.UserRef{ID: "u2", Name: "Bob"},
			Listener:    model.ListenerRef{ID: "l2", Name: "Alan Ray"},
			Topic:       "stress",
			ScheduledAt: at.AddDate(0, 1, 4),
			MeetingLink: "https://meet.example/s2",
			Status:      model.StatusCompleted,
		},
	}
}

func apply(t *testing.T, m appModel, msg tea.Msg) (appModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(appModel)
	if !ok {
		t.Fatalf("Update returned %T, not appModel", next)
	}
	return out, cmd
}

func sized(t *testing.T, m appModel) appModel {
	t.Helper()
	m, _ = apply(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return m
}

func loaded(t *testing.T, f *fakeAPI) appModel {
	t.Helper()
	m := sized(t, newAppModel(f, 10))
	m, _ = apply(t, m, sessionsLoadedMsg{seq: m.fetchSeq, sessions: f.sessions, total: f.total})
	if m.state != stateReady {
		t.Fatalf("expected Ready after load, got %v", m.state)
	}
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestLoad_DropsInvalidRecordsSilently(t *testing.T) {
	f := &fakeAPI{total: 4}
	m := sized(t, newAppModel(f, 10))

	raw := append(testSessions(),
		model.Session{ID: "", Status: model.StatusScheduled}, // no identity
		model.Session{ID: "sess-broken", Status: ""},         // no status
	)
	m, _ = apply(t, m, sessionsLoadedMsg{seq: m.fetchSeq, sessions: raw, total: 4})

	if m.state != stateReady {
		t.Fatalf("expected Ready, got %v", m.state)
	}
	if len(m.sessions) != 2 {
		t.Fatalf("expected 2 valid sessions, got %d", len(m.sessions))
	}
	if len(m.sessionsList.Items()) != 2 {
		t.Fatalf("expected 2 visible items, got %d", len(m.sessionsList.Items()))
	}
}

func TestLoad_OmittedTotalCountsValidatedRecords(t *testing.T) {
	f := &fakeAPI{}
	m := sized(t, newAppModel(f, 10))

	raw := []model.Session{
		testSessions()[0],
		{ID: "", Status: model.StatusScheduled}, // decodable but not displayable
	}
	m, _ = apply(t, m, sessionsLoadedMsg{seq: m.fetchSeq, sessions: raw, total: -1})

	if m.total != 1 {
		t.Fatalf("expected total 1 (validated records kept), got %d", m.total)
	}
	if got := (model.Page{PageSize: 10, Total: m.total}).PageCount(); got != 1 {
		t.Fatalf("expected 1 page from the substituted total, got %d", got)
	}
}

func TestLoad_FailureShowsOnlyError(t *testing.T) {
	f := &fakeAPI{sessions: testSessions(), total: 2}
	m := loaded(t, f)

	// A later fetch fails: the whole list is replaced by the error.
	m, _ = apply(t, m, key("right"))
	m, _ = apply(t, m, sessionsLoadedMsg{seq: m.fetchSeq, err: errors.New("connection refused")})

	if m.state != stateError {
		t.Fatalf("expected Error, got %v", m.state)
	}
	out := m.View()
	if !strings.Contains(out, "Could not load sessions") {
		t.Fatalf("expected error text in view, got:\n%s", out)
	}
	if strings.Contains(out, "Anna") || strings.Contains(out, "Marcus") {
		t.Fatalf("stale records rendered alongside error:\n%s", out)
	}
}

func TestError_ClearsOnRetry(t *testing.T) {
	f := &fakeAPI{fetchErr: errors.New("boom")}
	m := sized(t, newAppModel(f, 10))
	m, _ = apply(t, m, sessionsLoadedMsg{seq: m.fetchSeq, err: f.fetchErr})
	if m.state != stateError {
		t.Fatalf("expected Error, got %v", m.state)
	}

	m, cmd := apply(t, m, key("r"))
	if m.state != stateLoading {
		t.Fatalf("expected Loading after retry, got %v", m.state)
	}
	if m.errMsg != "" {
		t.Fatalf("expected error message cleared on retry, got %q", m.errMsg)
	}
	if cmd == nil {
		t.Fatalf("expected retry to issue a fetch command")
	}
}

func TestSearch_NeverFetches(t *testing.T) {
	f := &fakeAPI{sessions: testSessions(), total: 2}
	m := loaded(t, f)
	before := f.fetchCalls

	m, _ = apply(t, m, key("/"))
	for _, r := range "anna" {
		var cmd tea.Cmd
		m, cmd = apply(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		if cmd != nil {
			cmd() // textinput blink etc.; must not reach the API
		}
	}

	if f.fetchCalls != before {
		t.Fatalf("search triggered %d fetches", f.fetchCalls-before)
	}
	if got := len(m.sessionsList.Items()); got != 1 {
		t.Fatalf("expected 1 visible session for 'anna', got %d", got)
	}
}

func TestSearch_VisibleIsSubsetOfLoadedPage(t *testing.T) {
	f := &fakeAPI{sessions: testSessions(), total: 2}
	m := loaded(t, f)

	m, _ = apply(t, m, key("/"))
	for _, r := range "an" {
		m, _ = apply(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	// "an" matches user Anna (sess-1) and listener Alan Ray (sess-2).
	if got := len(m.sessionsList.Items()); got != 2 {
		t.Fatalf("expected 2 matches for 'an', got %d", got)
	}
	for _, it := range m.sessionsList.Items() {
		id := it.(sessionItem).session.ID
		if id != "sess-1" && id != "sess-2" {
			t.Fatalf("visible item %s not from the loaded page", id)
		}
	}
}

func TestPageChange_AlwaysFetches(t *testing.T) {
	f := &fakeAPI{sessions: testSessions(), total: 25}
	m := loaded(t, f)

	m, cmd := apply(t, m, key("right"))
	if m.state != stateLoading {
		t.Fatalf("expected Loading after page change, got %v", m.state)
	}
	if cmd == nil {
		t.Fatalf("expected page change to issue a fetch command")
	}
	cmd()
	if f.lastPage != 2 || f.lastPageSize != 10 {
		t.Fatalf("expected fetch(page=2, size=10), got (%d, %d)", f.lastPage, f.lastPageSize)
	}
}

func TestPageChange_NumberKeyJumps(t *testing.T) {
	f := &fakeAPI{sessions: testSessions(), total: 25}
	m := loaded(t, f)

	m, cmd := apply(t, m, key("3"))
	if cmd == nil {
		t.Fatalf("expected a fetch command")
	}
	cmd()
	if f.lastPage != 3 {
		t.Fatalf("expected page 3 requested, got %d", f.lastPage)
	}
	if m.page != 3 {
		t.Fatalf("expected current page 3, got %d", m.page)
	}
}

func TestPageChange_BeyondTotalIsLegal(t *testing.T) {
	f := &fakeAPI{sessions: testSessions(), total: 25}
	m := loaded(t, f)

	m, cmd := apply(t, m, key("9"))
	if cmd == nil {
		t.Fatalf("expected a fetch command for an out-of-range page")
	}
	// Server returns an empty slice for a page past the data.
	m, _ = apply(t, m, sessionsLoadedMsg{seq: m.fetchSeq, sessions: nil, total: 25})
	if m.state != stateReady {
		t.Fatalf("expected Ready on empty page, got %v", m.state)
	}
	out := m.View()
	if !strings.Contains(out, "No sessions on this page") {
		t.Fatalf("expected empty-page text, got:\n%s", out)
	}
}

func TestPageChange_SuppressedWhileLoading(t *testing.T) {
	f := &fakeAPI{sessions: testSessions(), total: 25}
	m := loaded(t, f)

	m, _ = apply(t, m, key("right")) // now Loading page 2
	m, cmd := apply(t, m, key("right"))
	if cmd != nil {
		t.Fatalf("expected second page change to be suppressed while loading")
	}
	if m.page != 2 {
		t.Fatalf("expected page unchanged at 2, got %d", m.page)
	}
}

func TestStaleFetchResponseDiscarded(t *testing.T) {
	f := &fakeAPI{sessions: testSessions(), total: 25}
	m := loaded(t, f)

	m, _ = apply(t, m, key("right"))
	staleSeq := m.fetchSeq - 1

	// A late response from the previous fetch must not repopulate the view.
	m, _ = apply(t, m, sessionsLoadedMsg{seq: staleSeq, sessions: testSessions(), total: 2})
	if m.state != stateLoading {
		t.Fatalf("stale response changed state to %v", m.state)
	}
}

func TestPageStrip(t *testing.T) {
	pc := model.Page{PageSize: 10, Total: 25}.PageCount()
	if pc != 3 {
		t.Fatalf("expected 3 pages for total 25 size 10, got %d", pc)
	}
	strip := renderPageStrip(1, pc)
	for _, n := range []string{" 1 ", " 2 ", " 3 "} {
		if !strings.Contains(strip, n) {
			t.Fatalf("expected button %q in strip %q", n, strip)
		}
	}
	if strings.Contains(strip, " 4 ") {
		t.Fatalf("strip rendered more buttons than pages: %q", strip)
	}
	if got := renderPageStrip(1, 0); got != "" {
		t.Fatalf("expected no strip when total is 0, got %q", got)
	}
}

func TestModal_OpenSeedsDraftFromRecord(t *testing.T) {
	f := &fakeAPI{sessions: testSessions(), total: 2}
	m := loaded(t, f)

	// sess-1 has no link: draft seeds empty.
	m, _ = apply(t, m, key("enter"))
	if m.modal != modalEditLink {
		t.Fatalf("expected edit modal open")
	}
	if m.modalForID != "sess-1" {
		t.Fatalf("expected target sess-1, got %q", m.modalForID)
	}
	if m.linkInput.Value() != "" {
		t.Fatalf("expected empty draft, got %q", m.linkInput.Value())
	}

	// Cancel, select sess-2 (has a link), reopen.
	m, _ = apply(t, m, key("esc"))
	if m.modal != modalNone {
		t.Fatalf("expected modal closed after esc")
	}
	m.sessionsList.Select(1)
	m, _ = apply(t, m, key("enter"))
	if m.linkInput.Value() != "https://meet.example/s2" {
		t.Fatalf("expected draft seeded with current link, got %q", m.linkInput.Value())
	}
}

func TestLinkSave_SuccessPatchesOneRecordAndCloses(t *testing.T) {
	f := &fakeAPI{sessions: testSessions(), total: 2}
	m := loaded(t, f)

	m, _ = apply(t, m, key("enter"))
	for _, r := range "https://meet.example/new" {
		m, _ = apply(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	m, cmd := apply(t, m, key("enter"))
	if !m.linkSaving {
		t.Fatalf("expected save in flight after confirm")
	}
	if cmd == nil {
		t.Fatalf("expected a save command")
	}

	other := m.sessions[1]
	m, _ = apply(t, m, linkSavedMsg{seq: m.saveSeq, id: "sess-1", link: "https://meet.example/new"})

	if m.modal != modalNone {
		t.Fatalf("expected modal closed after successful save")
	}
	if m.sessions[0].ID != "sess-1" || m.sessions[0].MeetingLink != "https://meet.example/new" {
		t.Fatalf("expected sess-1 patched in place, got %+v", m.sessions[0])
	}
	if !reflect.DeepEqual(m.sessions[1], other) {
		t.Fatalf("untargeted record changed: %+v", m.sessions[1])
	}
}

func TestLinkSave_FailureKeepsModalDraftAndRecords(t *testing.T) {
	f := &fakeAPI{sessions: testSessions(), total: 2}
	m := loaded(t, f)
	before := append([]model.Session(nil), m.sessions...)

	m, _ = apply(t, m, key("enter"))
	for _, r := range "https://draft.example" {
		m, _ = apply(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	m, _ = apply(t, m, key("enter"))
	m, _ = apply(t, m, linkSavedMsg{seq: m.saveSeq, id: "sess-1", link: "https://draft.example", err: errors.New("server said no")})

	if m.modal != modalEditLink {
		t.Fatalf("expected modal still open after failed save")
	}
	if m.linkInput.Value() != "https://draft.example" {
		t.Fatalf("expected draft preserved, got %q", m.linkInput.Value())
	}
	if !reflect.DeepEqual(m.sessions, before) {
		t.Fatalf("record set changed on failed save")
	}
	if m.state != stateReady {
		t.Fatalf("failed save must not invalidate the loaded page; state=%v", m.state)
	}
	if m.flashText == "" {
		t.Fatalf("expected a transient notice after failed save")
	}
}

func TestLinkSave_DoubleSubmitGuard(t *testing.T) {
	f := &fakeAPI{sessions: testSessions(), total: 2}
	m := loaded(t, f)

	m, _ = apply(t, m, key("enter"))
	m, first := apply(t, m, key("enter"))
	if first == nil {
		t.Fatalf("expected first confirm to issue a save command")
	}
	m, second := apply(t, m, key("enter"))
	if second != nil {
		t.Fatalf("expected second confirm to be suppressed while save in flight")
	}
	if f.updateCalls != 0 {
		t.Fatalf("fake should only be hit when the command runs; got %d calls", f.updateCalls)
	}
	if !m.linkSaving {
		t.Fatalf("expected save still marked in flight")
	}
}

func TestFlash_DismissesOnItsOwn(t *testing.T) {
	f := &fakeAPI{sessions: testSessions(), total: 2}
	m := loaded(t, f)

	m, _ = apply(t, m, key("enter"))
	m, _ = apply(t, m, key("enter"))
	m, _ = apply(t, m, linkSavedMsg{seq: m.saveSeq, id: "sess-1", err: errors.New("nope")})
	if m.flashText == "" {
		t.Fatalf("expected flash after failure")
	}

	m, _ = apply(t, m, flashDoneMsg{seq: m.flashSeq})
	if m.flashText != "" {
		t.Fatalf("expected flash cleared, got %q", m.flashText)
	}
}

func TestView_TableAndCardLayoutsByWidth(t *testing.T) {
	f := &fakeAPI{sessions: testSessions(), total: 2}
	m := loaded(t, f)

	wide := m.View()
	if !strings.Contains(wide, "USER") || !strings.Contains(wide, "LISTENER") {
		t.Fatalf("expected table header at width 120:\n%s", wide)
	}

	m, _ = apply(t, m, tea.WindowSizeMsg{Width: 60, Height: 40})
	narrow := m.View()
	if strings.Contains(narrow, "USER  ") {
		t.Fatalf("expected no table header at width 60")
	}
	if !strings.Contains(narrow, "with Marcus") {
		t.Fatalf("expected card layout fields at width 60:\n%s", narrow)
	}
}
