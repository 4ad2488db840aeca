// Package auth gates access with an e-mail allow-list and keeps login sessions.
package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotAllowed     = errors.New("e-mail not allowed")
	ErrSessionExpired = errors.New("session not found or expired")
)

// AllowList holds the e-mails that may log in and the admin subset. Admins may always log in.
type AllowList struct {
	emails map[string]bool
	admins map[string]bool
}

// NewAllowList builds an allow-list. Addresses are compared case-insensitively.
func NewAllowList(emails, admins []string) *AllowList {
	a := &AllowList{emails: make(map[string]bool), admins: make(map[string]bool)}
	for _, e := range emails {
		if e = normalizeEmail(e); e != "" {
			a.emails[e] = true
		}
	}
	for _, e := range admins {
		if e = normalizeEmail(e); e != "" {
			a.admins[e] = true
		}
	}
	return a
}

func normalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}

// Allowed reports whether email may log in
func (a *AllowList) Allowed(email string) bool {
	email = normalizeEmail(email)
	return a.emails[email] || a.admins[email]
}

// IsAdmin reports whether email belongs to the admin subset
func (a *AllowList) IsAdmin(email string) bool {
	return a.admins[normalizeEmail(email)]
}

// DisplayNameFromEmail turns the local part of an address into a name:
// "lucas.silverio@x" → "Lucas Silverio"
func DisplayNameFromEmail(email string) string {
	local, _, _ := strings.Cut(strings.TrimSpace(email), "@")
	parts := strings.FieldsFunc(local, func(r rune) bool {
		return r == '.' || r == '_' || r == '-'
	})
	for i, p := range parts {
		lower := []rune(strings.ToLower(p))
		parts[i] = strings.ToUpper(string(lower[:1])) + string(lower[1:])
	}
	return strings.Join(parts, " ")
}

// Session is one logged-in user
type Session struct {
	Token       string    `json:"token"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	Admin       bool      `json:"admin"`
	CreatedAt   time.Time `json:"createdAt"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// SessionStore keeps sessions in memory. Sessions start on Login and end on Logout or expiry.
type SessionStore struct {
	allow *AllowList
	ttl   time.Duration
	now   func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionStore creates a store whose sessions last ttl
func NewSessionStore(allow *AllowList, ttl time.Duration) *SessionStore {
	return &SessionStore{
		allow:    allow,
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Login starts a session for an allowed e-mail
func (s *SessionStore) Login(email string) (*Session, error) {
	email = normalizeEmail(email)
	if email == "" || !s.allow.Allowed(email) {
		return nil, ErrNotAllowed
	}

	now := s.now()
	session := &Session{
		Token:       uuid.New().String(),
		Email:       email,
		DisplayName: DisplayNameFromEmail(email),
		Admin:       s.allow.IsAdmin(email),
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.ttl),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.Token] = session
	return session, nil
}

// Get returns the live session for token
func (s *SessionStore) Get(token string) (*Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrSessionExpired
	}
	if !s.now().Before(session.ExpiresAt) {
		s.Logout(token)
		return nil, ErrSessionExpired
	}
	return session, nil
}

// Logout ends the session for token. Unknown tokens are ignored.
func (s *SessionStore) Logout(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

type sessionKey struct{}

// WithSession returns a context carrying session
func WithSession(ctx context.Context, session *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

// FromContext returns the session carried by ctx, if any
func FromContext(ctx context.Context) (*Session, bool) {
	session, ok := ctx.Value(sessionKey{}).(*Session)
	return session, ok && session != nil
}
