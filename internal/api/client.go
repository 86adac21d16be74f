// Package api is the client for the Hearline platform backend. It issues
// paginated session fetches, single-field meeting-link patches, and the
// admin login call. Payload validation beyond shape checks (e.g. dropping
// half-written session rows) is the caller's job.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"hearline-admin/internal/model"
)

// SessionSource provides the server URL and bearer token for outgoing
// requests. It is injected rather than read from process-global state so
// the token's lifecycle (login/logout) stays in one place.
type SessionSource interface {
	ServerURL() string
	Token() string
}

type Client struct {
	source SessionSource
	http   *http.Client
	log    zerolog.Logger
}

// New creates a client. No request timeout is configured here; the
// transport defaults apply and callers pass a context per call.
func New(source SessionSource) *Client {
	return &Client{
		source: source,
		http:   &http.Client{},
		log:    zerolog.Nop(),
	}
}

// SetLogger enables debug request logging (off by default).
func (c *Client) SetLogger(log zerolog.Logger) {
	c.log = log
}

// FetchSessions loads one page of the platform sessions collection.
// page is 1-based. Returns the decoded candidate sessions and the server's
// reported total. When the payload omits total, total is -1: validation of
// candidates is the caller's job, so only the caller can count the records
// it actually keeps.
func (c *Client) FetchSessions(ctx context.Context, page, pageSize int) ([]model.Session, int, error) {
	const op = "fetch sessions"

	offset := 0
	if page > 1 {
		offset = (page - 1) * pageSize
	}
	body, err := c.doRequest(ctx, op, http.MethodGet, "/sessions/platform/all", map[string]string{
		"limit": strconv.Itoa(pageSize),
		"skip":  strconv.Itoa(offset),
	}, nil)
	if err != nil {
		return nil, 0, err
	}

	if !gjson.ValidBytes(body) {
		return nil, 0, &FormatError{Op: op, Reason: "response is not valid JSON"}
	}
	arr := gjson.GetBytes(body, "sessions")
	if !arr.Exists() || !arr.IsArray() {
		return nil, 0, &FormatError{Op: op, Reason: "missing sessions array"}
	}

	sessions := make([]model.Session, 0, len(arr.Array()))
	for _, rec := range arr.Array() {
		var s model.Session
		if err := json.Unmarshal([]byte(rec.Raw), &s); err != nil {
			// A single unreadable row should not sink the page.
			c.log.Debug().Err(err).Msg("skipping undecodable session row")
			continue
		}
		sessions = append(sessions, s)
	}

	total := -1
	if t := gjson.GetBytes(body, "total"); t.Exists() {
		total = int(t.Int())
	}

	c.log.Debug().Int("page", page).Int("count", len(sessions)).Int("total", total).Msg("fetched sessions page")
	return sessions, total, nil
}

// UpdateMeetingLink patches exactly one field of one session. The caller
// applies the corresponding local change only after this returns nil.
func (c *Client) UpdateMeetingLink(ctx context.Context, id, link string) error {
	const op = "update link"

	payload, err := json.Marshal(map[string]string{"meetingLink": link})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	_, err = c.doRequest(ctx, op, http.MethodPatch, "/sessions/"+url.PathEscape(id)+"/add-link", nil, payload)
	if err != nil {
		return err
	}
	c.log.Debug().Str("session", id).Msg("meeting link updated")
	return nil
}

// Login exchanges admin credentials for a bearer token. Persisting the
// token is the store's concern, not the client's.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	const op = "login"

	payload, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	body, err := c.doRequest(ctx, op, http.MethodPost, "/admin/auth", nil, payload)
	if err != nil {
		return "", err
	}

	token := gjson.GetBytes(body, "accessToken")
	if !token.Exists() || strings.TrimSpace(token.String()) == "" {
		return "", &FormatError{Op: op, Reason: "missing accessToken"}
	}
	return token.String(), nil
}

func (c *Client) doRequest(ctx context.Context, op, method, reqPath string, query map[string]string, body []byte) ([]byte, error) {
	u, err := url.Parse(c.source.ServerURL())
	if err != nil {
		return nil, &NetworkError{Op: op, Message: "invalid server URL: " + err.Error()}
	}
	u.Path = path.Join(u.Path, reqPath)

	q := u.Query()
	for k, v := range query {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, method, u.String(), bytes.NewReader(body))
	if err != nil {
		return nil, &NetworkError{Op: op, Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	if tok := c.source.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	c.log.Debug().Str("method", method).Str("url", u.String()).Msg("request")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: op, Message: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Op: op, Message: "reading response: " + err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &NetworkError{Op: op, Status: resp.StatusCode, Message: serverMessage(respBody)}
	}
	return respBody, nil
}

// serverMessage extracts a human-readable message from an error body, if
// the server sent one.
func serverMessage(body []byte) string {
	if msg := gjson.GetBytes(body, "message"); msg.Exists() && msg.String() != "" {
		return msg.String()
	}
	if msg := gjson.GetBytes(body, "error"); msg.Exists() && msg.String() != "" {
		return msg.String()
	}
	s := strings.TrimSpace(string(body))
	if s == "" {
		return "no error detail"
	}
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}
