package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotLoggedIn means no token is stored; callers should direct the user
// to `hearline login`.
var ErrNotLoggedIn = errors.New("not logged in")

// Session is the process-scoped auth context injected into the API client:
// set on login, cleared on logout, read by every outgoing request. Nothing
// else in the program touches the stored token.
type Session struct {
	URL         string
	AccessToken string
	SavedAt     time.Time
}

func (s *Session) ServerURL() string { return s.URL }
func (s *Session) Token() string     { return s.AccessToken }

func (s Store) authPath() string {
	return filepath.Join(s.Dir, "auth.sqlite")
}

func (s Store) openAuthDB(ctx context.Context) (*sql.DB, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.authPath())
	if err != nil {
		return nil, err
	}
	// busy_timeout avoids "database is locked" flakiness when a second
	// hearline process touches the token store.
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000;"); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS kv (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		saved_at TEXT NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

const tokenKey = "accessToken"

// SaveToken persists the bearer token returned by the admin login call.
func (s Store) SaveToken(ctx context.Context, token string) error {
	db, err := s.openAuthDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.ExecContext(ctx,
		`INSERT INTO kv (key, value, saved_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value=excluded.value, saved_at=excluded.saved_at`,
		tokenKey, token, time.Now().UTC().Format(time.RFC3339))
	return err
}

// LoadToken returns the stored token, or ErrNotLoggedIn.
func (s Store) LoadToken(ctx context.Context) (string, time.Time, error) {
	if _, err := os.Stat(s.authPath()); errors.Is(err, os.ErrNotExist) {
		return "", time.Time{}, ErrNotLoggedIn
	}
	db, err := s.openAuthDB(ctx)
	if err != nil {
		return "", time.Time{}, err
	}
	defer db.Close()

	var token, savedAt string
	err = db.QueryRowContext(ctx, `SELECT value, saved_at FROM kv WHERE key = ?`, tokenKey).Scan(&token, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", time.Time{}, ErrNotLoggedIn
	}
	if err != nil {
		return "", time.Time{}, err
	}
	at, _ := time.Parse(time.RFC3339, savedAt)
	return token, at, nil
}

// ClearToken removes the stored token (logout). Clearing when nothing is
// stored is not an error.
func (s Store) ClearToken(ctx context.Context) error {
	if _, err := os.Stat(s.authPath()); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	db, err := s.openAuthDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, tokenKey)
	return err
}

// LoadSession assembles the auth context from config + token store.
func (s Store) LoadSession(ctx context.Context, cfg *Config) (*Session, error) {
	token, savedAt, err := s.LoadToken(ctx)
	if err != nil {
		return nil, err
	}
	return &Session{URL: cfg.ServerURL, AccessToken: token, SavedAt: savedAt}, nil
}
