package auth

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const credFile = "credential"

// Store holds the single shared admin password. The value is kept in memory
// and mirrored to a file under the user config dir so it survives restarts.
// Access is mutex-guarded: Clear is called from the API client's 401 handling
// inside tea.Cmd goroutines and can race a user-initiated Set.
type Store struct {
	mu       sync.Mutex
	path     string
	password string
	loaded   bool
}

// NewStore creates a store backed by dir/credential. Pass the result of
// DefaultDir for the standard location.
func NewStore(dir string) *Store {
	return &Store{path: filepath.Join(dir, credFile)}
}

// DefaultDir returns the per-user config directory for the console.
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "teddyadmin"), nil
}

// Get returns the stored password, loading it from disk on first use.
func (s *Store) Get() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		s.loaded = true
		if data, err := os.ReadFile(s.path); err == nil {
			s.password = strings.TrimSpace(string(data))
		}
	}
	if s.password == "" {
		return "", false
	}
	return s.password, true
}

// Set replaces the stored password and persists it.
func (s *Store) Set(password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.password = password
	s.loaded = true
	if err := os.MkdirAll(filepath.Dir(s.path), 0750); err != nil {
		return err
	}
	return os.WriteFile(s.path, []byte(password), 0600)
}

// Clear removes the stored password, both in memory and on disk. Removing a
// file that is already gone is not an error.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.password = ""
	s.loaded = true
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
