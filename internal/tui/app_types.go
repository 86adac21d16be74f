package tui

import (
	"context"

	"hearline-admin/internal/model"
)

// SessionAPI is the slice of the remote client the view needs. Kept as an
// interface so tests can drive the state machine without a server.
type SessionAPI interface {
	FetchSessions(ctx context.Context, page, pageSize int) ([]model.Session, int, error)
	UpdateMeetingLink(ctx context.Context, id, link string) error
}

// viewState is the page-load lifecycle. The modal sub-flow below is
// independent of it: a failed link save never leaves Ready.
type viewState int

const (
	stateLoading viewState = iota
	stateReady
	stateError
)

type modalKind int

const (
	modalNone modalKind = iota
	modalEditLink
)

// sessionsLoadedMsg completes a page fetch. seq guards against late
// responses for a page the user already left.
type sessionsLoadedMsg struct {
	seq      int
	sessions []model.Session
	total    int
	err      error
}

// linkSavedMsg completes a meeting-link save from the edit modal.
type linkSavedMsg struct {
	seq  int
	id   string
	link string
	err  error
}

type flashDoneMsg struct{ seq int }

// cardLayoutBreakpoint is the terminal width below which the card layout
// replaces the table layout. Layout is picked by viewport only, never by
// load state.
const cardLayoutBreakpoint = 90
