// Package session persists the login ticket and user snapshot between
// runs, the way the browser client kept them in localStorage. Views
// never reach for globals; they are handed the narrow Capability
// interface at construction and treat it as immutable for their life.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/HeatherCyber/BlitzBuy/internal/model"
)

// Capability is the read/clear surface views receive. Writing a new
// session is reserved to the login flow, which holds the *Store.
type Capability interface {
	Ticket() string
	User() (model.User, bool)
	LoggedIn() bool
	Clear() error
}

// Session is the persisted record.
type Session struct {
	Ticket string     `json:"userTicket"`
	User   model.User `json:"userInfo"`
}

// Store reads and writes the session file.
type Store struct {
	path    string
	current Session
	loaded  bool
}

var _ Capability = (*Store)(nil)

// NewStore opens a store over the given file path. The file may not
// exist yet; that is a logged-out session.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultPath returns the session file location under the user's
// config dir, with a project-local fallback.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("session: resolve home dir: %w", err)
	}
	return filepath.Join(home, ".blitzbuy", "session.json"), nil
}

func (s *Store) load() {
	if s.loaded {
		return
	}
	s.loaded = true
	data, err := os.ReadFile(s.path)
	if err != nil {
		return // missing or unreadable file means logged out
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return
	}
	s.current = sess
}

// Ticket returns the stored ticket, empty when logged out.
func (s *Store) Ticket() string {
	s.load()
	return s.current.Ticket
}

// User returns the stored user snapshot and whether one is present.
func (s *Store) User() (model.User, bool) {
	s.load()
	return s.current.User, s.current.User.ID != 0
}

// LoggedIn reports whether a ticket is stored.
func (s *Store) LoggedIn() bool {
	return s.Ticket() != ""
}

// Save persists a fresh session after a successful login.
func (s *Store) Save(ticket string, user model.User) error {
	sess := Session{Ticket: ticket, User: user}
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("session: encode: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("session: create dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("session: write: %w", err)
	}
	s.current = sess
	s.loaded = true
	return nil
}

// Clear removes the session (logout). Missing file is not an error.
func (s *Store) Clear() error {
	s.current = Session{}
	s.loaded = true
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("session: clear: %w", err)
	}
	return nil
}
