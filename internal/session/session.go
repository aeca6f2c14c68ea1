package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"luckycat-cli/internal/api"
	"luckycat-cli/internal/store"

	"github.com/golang-jwt/jwt/v5"
)

// Session is the single owner of auth state. Views read it; only Login and
// Logout mutate it. It implements api.TokenSource so the HTTP client pulls
// the current access token on every call.
type Session struct {
	st   store.Store
	logf func(format string, args ...any)

	mu            sync.RWMutex
	api           *api.Client
	authenticated bool
	access        string
	refresh       string
	userID        int
	username      string
}

// New loads any persisted session from the local store. A stored token pair
// is trusted as-is: there is no refresh-on-expiry, a 401 later simply
// surfaces in whichever view triggered it.
func New(ctx context.Context, st store.Store, logf func(format string, args ...any)) (*Session, error) {
	if logf == nil {
		logf = func(string, ...any) {}
	}
	s := &Session{st: st, logf: logf}
	persisted, err := st.LoadSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("session: load: %w", err)
	}
	if !persisted.Empty() {
		s.authenticated = true
		s.access = persisted.AccessToken
		s.refresh = persisted.RefreshToken
		s.userID = persisted.UserID
		s.username = persisted.Username
	}
	return s, nil
}

// AttachClient wires the API client after construction. The client needs the
// session as its TokenSource, so the two are built in that order.
func (s *Session) AttachClient(c *api.Client) {
	s.mu.Lock()
	s.api = c
	s.mu.Unlock()
}

// AccessToken implements api.TokenSource.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access
}

func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

func (s *Session) UserID() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

func (s *Session) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.username
}

// Login exchanges credentials for a token pair, persists it, then fetches the
// current user's identity. A failed identity fetch clears user id/username
// but leaves the session authenticated; the tokens are still valid.
func (s *Session) Login(ctx context.Context, username, password string) error {
	s.mu.RLock()
	client := s.api
	s.mu.RUnlock()
	if client == nil {
		return fmt.Errorf("session: no API client attached")
	}

	pair, err := client.Login(ctx, username, password)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.authenticated = true
	s.access = pair.Access
	s.refresh = pair.Refresh
	s.mu.Unlock()

	s.refreshIdentity(ctx)
	if err := s.persist(ctx); err != nil {
		s.logf("session: persist after login: %v", err)
	}
	return nil
}

// refreshIdentity fetches the current user's id/username. On failure the
// fields are cleared while authenticated stays true.
func (s *Session) refreshIdentity(ctx context.Context) {
	s.mu.RLock()
	client := s.api
	s.mu.RUnlock()

	me, err := client.CurrentUser(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.logf("session: fetch current user: %v", err)
		s.userID = 0
		s.username = ""
		return
	}
	s.userID = me.ID
	s.username = me.Username
}

// Logout sends the refresh token to the server, then clears local state
// regardless of the server's answer. Server errors are logged, not surfaced.
func (s *Session) Logout(ctx context.Context) {
	s.mu.RLock()
	client := s.api
	refresh := s.refresh
	s.mu.RUnlock()

	if client != nil && refresh != "" {
		if err := client.Logout(ctx, refresh); err != nil {
			s.logf("session: server logout: %v", err)
		}
	}

	s.mu.Lock()
	s.authenticated = false
	s.access = ""
	s.refresh = ""
	s.userID = 0
	s.username = ""
	s.mu.Unlock()

	if err := s.st.ClearSession(ctx); err != nil {
		s.logf("session: clear store: %v", err)
	}
}

func (s *Session) persist(ctx context.Context) error {
	s.mu.RLock()
	sess := store.Session{
		AccessToken:  s.access,
		RefreshToken: s.refresh,
		UserID:       s.userID,
		Username:     s.username,
	}
	s.mu.RUnlock()
	return s.st.SaveSession(ctx, sess)
}

// TokenExpiry decodes the access token's exp claim without verifying the
// signature (the client has no key and no need for one; display only).
// Zero time when there is no token or no readable claim.
func (s *Session) TokenExpiry() time.Time {
	s.mu.RLock()
	access := s.access
	s.mu.RUnlock()
	if access == "" {
		return time.Time{}
	}
	var claims jwt.RegisteredClaims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(access, &claims); err != nil {
		return time.Time{}
	}
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}
