// Package store keeps hearline-admin's local state: a small JSON config and
// the sqlite-backed auth token store, both under ~/.hearline.
package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

const DefaultPageSize = 10

type Config struct {
	// ServerURL is the platform backend base URL.
	ServerURL string `json:"serverUrl,omitempty"`

	// PageSize overrides the default sessions page size.
	PageSize int `json:"pageSize,omitempty"`

	// DebugLog, when set, enables request/TUI debug logging to this file.
	DebugLog string `json:"debugLog,omitempty"`
}

func (c *Config) EffectivePageSize() int {
	if c != nil && c.PageSize > 0 {
		return c.PageSize
	}
	return DefaultPageSize
}

// Store is a handle on the local state directory.
type Store struct {
	Dir string
}

// DefaultDir resolves the state directory.
// HEARLINE_CONFIG_DIR overrides it (keeps unit tests from touching ~/.hearline).
func DefaultDir() (string, error) {
	if v := strings.TrimSpace(os.Getenv("HEARLINE_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".hearline"), nil
}

func (s Store) configPath() string {
	return filepath.Join(s.Dir, "config.json")
}

func (s Store) LoadConfig() (*Config, error) {
	b, err := os.ReadFile(s.configPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (s Store) SaveConfig(cfg *Config) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return atomicWriteFile(s.Dir, "config.json.*.tmp", s.configPath(), b, 0o644)
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	_, werr := f.Write(b)
	cerr := f.Close()
	if werr != nil {
		_ = os.Remove(tmp)
		return werr
	}
	if cerr != nil {
		_ = os.Remove(tmp)
		return cerr
	}
	if err := os.Chmod(tmp, perm); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
