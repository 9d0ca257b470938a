// Package session holds the signed-in user and the ID token used to call the
// backend. A Session is created when the program starts (or per request in
// the console backend) and closed on logout.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNoUser       = errors.New("no authenticated user")
	ErrTokenExpired = errors.New("ID token expired, sign in again")
	ErrClosed       = errors.New("session closed")
)

// User is the identity carried by the ID token
type User struct {
	UID         string
	Email       string
	DisplayName string
	ExpiresAt   time.Time
}

// Listener receives the current user, or nil after sign-out
type Listener func(*User)

// Session is the explicit replacement for a global auth singleton
type Session struct {
	mu        sync.Mutex
	token     string
	user      *User
	listeners map[int]Listener
	nextID    int
	closed    bool
	now       func() time.Time
}

// New creates a session. An empty token yields a signed-out session.
func New(token string) (*Session, error) {
	s := &Session{
		listeners: make(map[int]Listener),
		now:       time.Now,
	}
	if strings.TrimSpace(token) == "" {
		return s, nil
	}
	if err := s.SignIn(token); err != nil {
		return nil, err
	}
	return s, nil
}

// CurrentUser returns the signed-in user or nil
func (s *Session) CurrentUser() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// IDToken returns the bearer token for backend calls
func (s *Session) IDToken(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", ErrClosed
	}
	if s.user == nil {
		return "", ErrNoUser
	}
	if !s.user.ExpiresAt.IsZero() && s.now().After(s.user.ExpiresAt) {
		return "", ErrTokenExpired
	}
	return s.token, nil
}

// OnAuthStateChange registers fn and calls it immediately with the current
// state. The returned function unsubscribes.
func (s *Session) OnAuthStateChange(fn Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	if !s.closed {
		s.listeners[id] = fn
	}
	current := s.userCopyLocked()
	s.mu.Unlock()

	fn(current)

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// SignIn replaces the token and notifies listeners
func (s *Session) SignIn(token string) error {
	user, err := ParseToken(token)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.token = strings.TrimSpace(token)
	s.user = user
	s.mu.Unlock()

	s.notify()
	return nil
}

// SignOut clears the user and notifies listeners with nil
func (s *Session) SignOut() {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	s.notify()
}

// Close signs out and drops all listeners. Further sign-ins fail.
func (s *Session) Close() {
	s.SignOut()

	s.mu.Lock()
	s.closed = true
	s.listeners = make(map[int]Listener)
	s.mu.Unlock()
}

func (s *Session) notify() {
	s.mu.Lock()
	current := s.userCopyLocked()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(current)
	}
}

func (s *Session) userCopyLocked() *User {
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// ParseToken reads identity claims from an ID token. The signature is not
// checked here; the backend verifies every token it receives.
func ParseToken(token string) (*User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrNoUser
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("parsing ID token: %w", err)
	}

	user := &User{
		UID:         firstClaim(claims, "user_id", "uid", "sub"),
		Email:       firstClaim(claims, "email"),
		DisplayName: firstClaim(claims, "name"),
	}
	if user.UID == "" {
		return nil, fmt.Errorf("ID token has no subject")
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return nil, fmt.Errorf("reading token expiry: %w", err)
	}
	if exp != nil {
		user.ExpiresAt = exp.Time
	}

	return user, nil
}

func firstClaim(claims jwt.MapClaims, keys ...string) string {
	for _, k := range keys {
		if v, ok := claims[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
