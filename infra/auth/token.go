package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ErrNoSession means no session has been stored yet.
var ErrNoSession = errors.New("no stored session")

// Session is an authenticated account session.
type Session struct {
	DID        string `json:"did"`
	Handle     string `json:"handle"`
	AccessJwt  string `json:"accessJwt"`
	RefreshJwt string `json:"refreshJwt"`
	Service    string `json:"service"`
}

// TokenProvider supplies an access token for API authentication.
type TokenProvider interface {
	AccessToken() (string, error)
}

// SessionStore persists a Session as JSON on disk.
type SessionStore struct {
	path string
}

// NewSessionStore creates a store backed by the given file path.
func NewSessionStore(path string) *SessionStore {
	return &SessionStore{path: path}
}

// Load reads the stored session.
func (s *SessionStore) Load() (Session, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return Session{}, ErrNoSession
	}
	if err != nil {
		return Session{}, fmt.Errorf("reading session from %s: %w", s.path, err)
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return Session{}, fmt.Errorf("parsing session %s: %w", s.path, err)
	}
	if strings.TrimSpace(sess.AccessJwt) == "" || strings.TrimSpace(sess.DID) == "" {
		return Session{}, fmt.Errorf("session file %s is empty", s.path)
	}
	return sess, nil
}

// Save writes the session with owner-only permissions.
func (s *SessionStore) Save(sess Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating session dir: %w", err)
	}
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("writing session: %w", err)
	}
	return nil
}

// Delete removes the stored session. Deleting a missing session is not an error.
func (s *SessionStore) Delete() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing session: %w", err)
	}
	return nil
}

// SessionProvider holds the live session shared by the API client and its
// background tasks.
type SessionProvider struct {
	mu      sync.RWMutex
	session Session
	store   *SessionStore
}

// NewSessionProvider wraps sess; store may be nil to skip persistence.
func NewSessionProvider(sess Session, store *SessionStore) *SessionProvider {
	return &SessionProvider{session: sess, store: store}
}

// AccessToken returns the current access token.
func (p *SessionProvider) AccessToken() (string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.session.AccessJwt == "" {
		return "", ErrNoSession
	}
	return p.session.AccessJwt, nil
}

// RefreshToken returns the current refresh token.
func (p *SessionProvider) RefreshToken() (string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.session.RefreshJwt == "" {
		return "", ErrNoSession
	}
	return p.session.RefreshJwt, nil
}

// Session returns a copy of the current session.
func (p *SessionProvider) Session() Session {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.session
}

// Update replaces the session and persists it.
func (p *SessionProvider) Update(sess Session) error {
	p.mu.Lock()
	p.session = sess
	p.mu.Unlock()
	if p.store == nil {
		return nil
	}
	return p.store.Save(sess)
}
