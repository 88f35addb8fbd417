// Package session manages the authenticated session with the ONES backend.
// The session is created lazily on first use and memoized for the lifetime
// of the process; there is no expiry detection and no mid-call retry.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ones-wiki/ones-wiki-mcp-server/internal/fetcher"
)

// ErrAuthFailed is returned when the login call fails for any reason:
// non-2xx status, malformed response body, or network error. The underlying
// cause is logged, not propagated; callers only need the failure signal.
var ErrAuthFailed = errors.New("authentication failed")

// Session holds the credentials cached after a successful login.
type Session struct {
	Token  string
	UserID string
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	User *struct {
		UUID  string `json:"uuid"`
		Token string `json:"token"`
	} `json:"user"`
}

// Manager performs credential-based login and caches the resulting session.
// It is safe for concurrent use: when multiple callers race on first use, at
// most one login call is in flight and the losers observe the cached result.
type Manager struct {
	client   *fetcher.HTTPClient
	loginURL string
	email    string
	password string
	logger   zerolog.Logger

	mu   sync.Mutex
	sess *Session
}

// NewManager creates a session manager. No login is performed until the
// first call to Ensure.
func NewManager(client *fetcher.HTTPClient, loginURL, email, password string, logger zerolog.Logger) *Manager {
	return &Manager{
		client:   client,
		loginURL: loginURL,
		email:    email,
		password: password,
		logger:   logger,
	}
}

// Ensure returns the cached session, performing a login first if none
// exists. A failed login returns ErrAuthFailed and leaves the manager
// uncached, so the next invocation retries.
func (m *Manager) Ensure(ctx context.Context) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sess != nil {
		return *m.sess, nil
	}

	sess, err := m.login(ctx)
	if err != nil {
		m.logger.Warn().Err(err).Msg("Login failed")
		return Session{}, ErrAuthFailed
	}

	m.sess = &sess
	m.logger.Info().Str("user_id", sess.UserID).Msg("Login successful, session cached")
	return sess, nil
}

// Reset discards the cached session so the next Ensure performs a fresh
// login.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sess = nil
}

func (m *Manager) login(ctx context.Context) (Session, error) {
	var resp loginResponse
	err := m.client.PostJSON(ctx, m.loginURL, loginRequest{Email: m.email, Password: m.password}, &resp)
	if err != nil {
		return Session{}, fmt.Errorf("login request failed: %w", err)
	}

	if resp.User == nil || resp.User.Token == "" {
		return Session{}, fmt.Errorf("login response missing user credentials")
	}

	return Session{
		Token:  resp.User.Token,
		UserID: resp.User.UUID,
	}, nil
}
