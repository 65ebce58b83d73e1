// Package session holds the per-user state the access layer reads on every
// request: the bearer token and the caller's current location.
package session

import (
	"strings"
	"sync"
)

// LoginPath is where an expired session is sent.
const LoginPath = "/login"

// UnauthenticatedPaths are the screens reachable without a token.
var UnauthenticatedPaths = []string{
	"forgot-password",
	"login",
	"reset-password",
	"sign-up",
	"verify-email",
}

// Navigator moves the caller to another screen.
type Navigator interface {
	Redirect(path string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string)

func (f NavigatorFunc) Redirect(path string) { f(path) }

// Session is safe for concurrent use. The zero value is an anonymous session
// with no navigator.
type Session struct {
	mu        sync.RWMutex
	token     string
	path      string
	navigator Navigator
}

// New returns a session that reports redirects to nav (which may be nil).
func New(nav Navigator) *Session {
	return &Session{navigator: nav}
}

// Token returns the bearer token, or "" when logged out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// Clear forgets the token.
func (s *Session) Clear() {
	s.SetToken("")
}

func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// Path returns the caller's current location.
func (s *Session) Path() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.path
}

// Navigate records the caller's current location without redirecting.
func (s *Session) Navigate(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.path = path
}

// OnUnauthenticatedPath reports whether the current location is one of
// UnauthenticatedPaths. A leading slash and query string are ignored.
func (s *Session) OnUnauthenticatedPath() bool {
	p := s.Path()
	if i := strings.IndexByte(p, '?'); i >= 0 {
		p = p[:i]
	}
	p = strings.Trim(p, "/")
	for _, candidate := range UnauthenticatedPaths {
		if p == candidate {
			return true
		}
	}
	return false
}

// RedirectToLogin moves the session to the login screen and notifies the
// navigator.
func (s *Session) RedirectToLogin() {
	s.mu.Lock()
	s.path = LoginPath
	nav := s.navigator
	s.mu.Unlock()

	if nav != nil {
		nav.Redirect(LoginPath)
	}
}
