package cli

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"hearline-admin/internal/store"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func loggedInDir(t *testing.T, serverURL string) string {
	t.Helper()
	dir := t.TempDir()
	s := store.Store{Dir: dir}
	if err := s.SaveConfig(&store.Config{ServerURL: serverURL}); err != nil {
		t.Fatalf("save config: %v", err)
	}
	if err := s.SaveToken(context.Background(), "tok-test"); err != nil {
		t.Fatalf("save token: %v", err)
	}
	return dir
}

func TestSessionsList_Table(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-test" {
			t.Errorf("expected stored token on request, got %q", got)
		}
		io.WriteString(w, `{"sessions": [
			{"_id": "s1", "status": "scheduled", "scheduledAt": "2026-01-05T10:00:00Z",
			 "user": {"_id": "u1", "name": "Anna"}, "listener": {"_id": "l1", "name": "Marcus"}, "topic": "grief"},
			{"_id": "", "status": "scheduled"}
		], "total": 1}`)
	}))
	defer srv.Close()

	dir := loggedInDir(t, srv.URL)
	out, err := runCommand(t, "--dir", dir, "sessions", "list")
	if err != nil {
		t.Fatalf("sessions list: %v", err)
	}

	if !strings.Contains(out, "Anna") || !strings.Contains(out, "Marcus") {
		t.Fatalf("expected session row in output:\n%s", out)
	}
	if !strings.Contains(out, "Jan 5, 2026") {
		t.Fatalf("expected fixed-format date in output:\n%s", out)
	}
	// The invalid row (no id) is dropped silently.
	if got := strings.Count(out, "\n"); got != 2 { // header + one row
		t.Fatalf("expected exactly header + 1 row, got %d lines:\n%s", got, out)
	}
}

func TestSessionsList_SearchIsPageScoped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"sessions": [
			{"_id": "s1", "status": "scheduled", "user": {"_id": "u1", "name": "Anna"}, "listener": {"_id": "l1", "name": "Marcus"}},
			{"_id": "s2", "status": "completed", "user": {"_id": "u2", "name": "Bob"}, "listener": {"_id": "l2", "name": "Cleo"}}
		], "total": 2}`)
	}))
	defer srv.Close()

	dir := loggedInDir(t, srv.URL)
	out, err := runCommand(t, "--dir", dir, "sessions", "list", "--search", "anna", "--format", "json")
	if err != nil {
		t.Fatalf("sessions list: %v", err)
	}
	if !strings.Contains(out, "Anna") || strings.Contains(out, "Bob") {
		t.Fatalf("expected only Anna's session after filtering:\n%s", out)
	}
}

func TestSessionsList_PageFlagRequestsOffset(t *testing.T) {
	var gotLimit, gotSkip string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLimit = r.URL.Query().Get("limit")
		gotSkip = r.URL.Query().Get("skip")
		io.WriteString(w, `{"sessions": [], "total": 25}`)
	}))
	defer srv.Close()

	dir := loggedInDir(t, srv.URL)
	if _, err := runCommand(t, "--dir", dir, "sessions", "list", "--page", "3", "--page-size", "10"); err != nil {
		t.Fatalf("sessions list: %v", err)
	}
	if gotLimit != "10" || gotSkip != "20" {
		t.Fatalf("expected limit=10 skip=20, got limit=%s skip=%s", gotLimit, gotSkip)
	}
}

func TestSessionsList_NotLoggedIn(t *testing.T) {
	dir := t.TempDir()
	s := store.Store{Dir: dir}
	if err := s.SaveConfig(&store.Config{ServerURL: "https://api.example"}); err != nil {
		t.Fatalf("save config: %v", err)
	}

	_, err := runCommand(t, "--dir", dir, "sessions", "list")
	if err == nil || !strings.Contains(err.Error(), "not logged in") {
		t.Fatalf("expected not-logged-in error, got %v", err)
	}
}

func TestLogin_StoresToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/admin/auth" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		io.WriteString(w, `{"accessToken": "tok-new"}`)
	}))
	defer srv.Close()

	dir := t.TempDir()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader("hunter2\n"))
	cmd.SetArgs([]string{"--dir", dir, "--server", srv.URL, "login", "--email", "admin@example.com"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("login: %v", err)
	}

	s := store.Store{Dir: dir}
	token, _, err := s.LoadToken(context.Background())
	if err != nil {
		t.Fatalf("load token after login: %v", err)
	}
	if token != "tok-new" {
		t.Fatalf("expected tok-new stored, got %q", token)
	}

	// The server URL is persisted for later runs.
	cfg, err := s.LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ServerURL != srv.URL {
		t.Fatalf("expected server URL persisted, got %q", cfg.ServerURL)
	}
}

func TestLogout_ClearsToken(t *testing.T) {
	dir := loggedInDir(t, "https://api.example")
	if _, err := runCommand(t, "--dir", dir, "logout"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	s := store.Store{Dir: dir}
	if _, _, err := s.LoadToken(context.Background()); err == nil {
		t.Fatalf("expected token cleared after logout")
	}
}
