// Package session holds the authenticated identity and the credential
// lifecycle: login, register, restore at startup, logout.
package session

import (
	"context"
	"errors"

	"golang.org/x/oauth2"

	"github.com/ChequeMan/FRONTTODOList/internal/credentials"
	"github.com/ChequeMan/FRONTTODOList/internal/service"
)

// ErrNotAuthenticated is returned by operations that require a session.
var ErrNotAuthenticated = errors.New("not authenticated")

// Manager owns the current user identity and keeps the credential store in
// step with it. It is meant for a single caller; remote calls take a
// context and block until the backend answers.
type Manager struct {
	svc   service.Service
	creds *credentials.Store
	user  *service.User
	ready bool
}

// NewManager creates a Manager on top of the backend service and credential
// store. The session starts unauthenticated until Login, Register, or
// Restore establishes it.
func NewManager(svc service.Service, creds *credentials.Store) *Manager {
	return &Manager{svc: svc, creds: creds}
}

// Service returns the backend service the session is bound to.
func (m *Manager) Service() service.Service {
	return m.svc
}

// User returns the authenticated identity, if any.
func (m *Manager) User() (service.User, bool) {
	if m.user == nil {
		return service.User{}, false
	}
	return *m.user, true
}

// Ready reports whether Restore has run to completion.
func (m *Manager) Ready() bool {
	return m.ready
}

// Login authenticates and establishes the session. On failure the prior
// session state and stored credential are left untouched.
func (m *Manager) Login(ctx context.Context, email, password string) (service.User, error) {
	auth, err := m.svc.Login(ctx, email, password)
	if err != nil {
		return service.User{}, err
	}
	if err := m.saveToken(auth.Token); err != nil {
		return service.User{}, err
	}
	user := auth.User
	m.user = &user
	return user, nil
}

// Register creates an account and establishes the session. Same contract as
// Login.
func (m *Manager) Register(ctx context.Context, name, email, password string) (service.User, error) {
	auth, err := m.svc.Register(ctx, name, email, password)
	if err != nil {
		return service.User{}, err
	}
	if err := m.saveToken(auth.Token); err != nil {
		return service.User{}, err
	}
	user := auth.User
	m.user = &user
	return user, nil
}

// Restore establishes the session from a previously stored token. A missing
// token or a token the backend rejects leaves the session unauthenticated;
// a rejected token is also discarded. Neither case is an error: only
// credential-store failures are reported. Restore marks the manager ready
// exactly once, whatever the outcome.
func (m *Manager) Restore(ctx context.Context) error {
	defer func() { m.ready = true }()

	tok, err := m.creds.Load()
	if err != nil {
		return err
	}
	if tok == nil || tok.AccessToken == "" {
		return nil
	}

	user, err := m.svc.Profile(ctx)
	if err != nil {
		// Expired or invalid token: drop it and stay unauthenticated.
		if clearErr := m.creds.Clear(); clearErr != nil {
			return clearErr
		}
		return nil
	}
	m.user = &user
	return nil
}

// Token returns the stored bearer token, or "" when none is stored.
func (m *Manager) Token() string {
	tok, err := m.creds.Load()
	if err != nil || tok == nil {
		return ""
	}
	return tok.AccessToken
}

// Logout clears the persisted token and the in-memory identity. Logging out
// of an unauthenticated session is a no-op.
func (m *Manager) Logout() error {
	m.user = nil
	return m.creds.Clear()
}

func (m *Manager) saveToken(token string) error {
	return m.creds.Save(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
}
