package auth

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionToken is the opaque token handed to the SPA after a successful
// login or SSO resolution. It implements rest.AuthToken.
type SessionToken struct {
	Token     string `json:"token"`
	UserID    string `json:"userId"`
	UserType  string `json:"userType"`
	ExpiresAt int64  `json:"expiresAt"`
}

func (t *SessionToken) IsValid() bool {
	return t.Token != "" && time.Now().Unix() < t.ExpiresAt
}

func (t *SessionToken) GetUserId() string   { return t.UserID }
func (t *SessionToken) GetUserType() string { return t.UserType }
func (t *SessionToken) GetToken() string    { return t.Token }
func (t *SessionToken) GetExpiresAt() int64 { return t.ExpiresAt }

type sessionEntry struct {
	token     *SessionToken
	principal *Principal
}

// SessionStore holds active sessions behind an explicit read/write API. It
// replaces the page-wide current-user singleton of the old portal: sessions
// are created on login, read on every request, and dropped on logout.
type SessionStore struct {
	mu       sync.RWMutex
	ttl      time.Duration
	sessions map[string]sessionEntry
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &SessionStore{
		ttl:      ttl,
		sessions: make(map[string]sessionEntry),
	}
}

// Create issues a fresh token for the principal. A second login for the same
// user does not invalidate the first session; each token stands alone.
func (s *SessionStore) Create(principal *Principal) *SessionToken {
	token := &SessionToken{
		Token:     uuid.NewString(),
		UserID:    principal.ID,
		UserType:  principal.GetPrincipalRole(),
		ExpiresAt: time.Now().Add(s.ttl).Unix(),
	}

	s.mu.Lock()
	s.sessions[token.Token] = sessionEntry{token: token, principal: principal}
	s.mu.Unlock()

	return token
}

// Lookup resolves a raw token to its principal. Expired sessions are dropped
// on the read path.
func (s *SessionStore) Lookup(raw string) (*Principal, *SessionToken) {
	if raw == "" {
		return nil, nil
	}

	s.mu.RLock()
	entry, ok := s.sessions[raw]
	s.mu.RUnlock()

	if !ok {
		return nil, nil
	}

	if !entry.token.IsValid() {
		s.Revoke(raw)
		return nil, nil
	}

	return entry.principal, entry.token
}

func (s *SessionStore) Revoke(raw string) {
	s.mu.Lock()
	delete(s.sessions, raw)
	s.mu.Unlock()
}

// RevokeUser drops every session belonging to the user. Used when an admin
// locks an account.
func (s *SessionStore) RevokeUser(userID string) {
	s.mu.Lock()
	for key, entry := range s.sessions {
		if entry.principal.ID == userID {
			delete(s.sessions, key)
		}
	}
	s.mu.Unlock()
}
