package model

import "time"

type SessionStatus string

const (
	StatusScheduled SessionStatus = "scheduled"
	StatusCompleted SessionStatus = "completed"
	StatusCancelled SessionStatus = "cancelled"
)

type UserRef struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type ListenerRef struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Session is one scheduled pairing between a user and a listener.
type Session struct {
	ID          string        `json:"_id"`
	User        UserRef       `json:"user"`
	Listener    ListenerRef   `json:"listener"`
	Topic       string        `json:"topic"`
	ScheduledAt time.Time     `json:"scheduledAt"`
	MeetingLink string        `json:"meetingLink,omitempty"`
	Status      SessionStatus `json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Valid reports whether the session is displayable. The backend occasionally
// returns half-written rows; anything without an id or status is unusable.
func (s Session) Valid() bool {
	return s.ID != "" && s.Status != ""
}

// ValidSessions drops non-displayable sessions, preserving order.
func ValidSessions(in []Session) []Session {
	out := make([]Session, 0, len(in))
	for _, s := range in {
		if s.Valid() {
			out = append(out, s)
		}
	}
	return out
}

// Page is the server-paginated window over the sessions collection.
// PageNum is 1-based. PageNum*PageSize may exceed Total; the server does not
// clamp, it just returns an empty slice.
type Page struct {
	PageNum  int
	PageSize int
	Total    int
}

func (p Page) Offset() int {
	if p.PageNum < 1 {
		return 0
	}
	return (p.PageNum - 1) * p.PageSize
}

// PageCount returns ceil(Total/PageSize); 0 when there is nothing to page.
func (p Page) PageCount() int {
	if p.Total <= 0 || p.PageSize <= 0 {
		return 0
	}
	return (p.Total + p.PageSize - 1) / p.PageSize
}
