// Package services contains the stateful client services.
// This file defines SessionManager: stored session restore, login, signup,
// single-flight token refresh and logout.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/oculog/internal/client/apierr"
	"github.com/dmitrijs2005/oculog/internal/client/client"
	"github.com/dmitrijs2005/oculog/internal/client/models"
	"github.com/dmitrijs2005/oculog/internal/client/observe"
	"github.com/dmitrijs2005/oculog/internal/client/secrets"
	"github.com/dmitrijs2005/oculog/internal/logging"
	"golang.org/x/sync/singleflight"
)

// maxIdentityChecks bounds CheckAuth: the first check and, after a
// successful refresh, one more.
const maxIdentityChecks = 2

// SessionManager owns the token pair and the current user. It implements
// client.TokenSource for the REST client.
type SessionManager struct {
	client  client.Client
	store   secrets.Store
	log     logging.Logger
	state   *observe.Value[models.Session]
	refresh singleflight.Group
}

var _ client.TokenSource = (*SessionManager)(nil)

// NewSessionManager returns a manager in the loading state. Call CheckAuth
// to restore a stored session.
func NewSessionManager(c client.Client, store secrets.Store, log logging.Logger) *SessionManager {
	return &SessionManager{
		client: c,
		store:  store,
		log:    log.With("module", logging.ModuleAuth),
		state:  observe.NewValue(models.Session{IsLoading: true}),
	}
}

// State returns the current session snapshot.
func (m *SessionManager) State() models.Session { return m.state.Get() }

// Subscribe calls fn with every new session snapshot until cancel is
// called.
func (m *SessionManager) Subscribe(fn func(models.Session)) (cancel func()) {
	return m.state.Subscribe(fn)
}

func (m *SessionManager) update(fn func(*models.Session)) {
	m.state.Update(func(s models.Session) (models.Session, bool) {
		fn(&s)
		return s, true
	})
}

func (m *SessionManager) token(ctx context.Context, key secrets.Key) (string, bool) {
	t, err := m.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, secrets.ErrNotFound) {
			m.log.Error(ctx, "failed to read token", "key", string(key), "error", err)
		}
		return "", false
	}
	return t, t != ""
}

// AccessToken returns the stored access token.
func (m *SessionManager) AccessToken(ctx context.Context) (string, bool) {
	return m.token(ctx, secrets.AccessToken)
}

// Refresh is RefreshToken under the client.TokenSource name.
func (m *SessionManager) Refresh(ctx context.Context) bool {
	return m.RefreshToken(ctx)
}

// CheckAuth validates the stored access token against GET /auth/me. An
// unauthorized answer triggers one refresh and one more check; if that is
// not enough the session is logged out.
func (m *SessionManager) CheckAuth(ctx context.Context) {
	m.update(func(s *models.Session) { s.IsLoading = true })

	for attempt := 1; attempt <= maxIdentityChecks; attempt++ {
		token, ok := m.AccessToken(ctx)
		if !ok {
			m.log.Debug(ctx, "no access token stored")
			m.update(func(s *models.Session) {
				*s = models.Session{HasRefreshToken: s.HasRefreshToken}
			})
			return
		}

		user, err := m.client.Me(ctx, token)
		if err == nil {
			m.log.Info(ctx, "session authenticated", "user", user.Login)
			m.update(func(s *models.Session) {
				s.CurrentUser = user
				s.IsAuthenticated = true
				s.IsLoading = false
				s.Error = ""
				s.HasAccessToken = true
				s.AccessTokenExpiresAt = accessTokenExpiry(token)
			})
			return
		}

		if !apierr.IsKind(err, apierr.Unauthorized) {
			narrowed := NarrowAuthError(err)
			m.log.Warn(ctx, "identity check failed", "error", err)
			m.update(func(s *models.Session) {
				s.CurrentUser = nil
				s.IsAuthenticated = false
				s.IsLoading = false
				s.Error = narrowed.Error()
			})
			return
		}

		m.log.Info(ctx, "access token rejected", "attempt", attempt)
		if attempt == maxIdentityChecks || !m.RefreshToken(ctx) {
			break
		}
	}

	m.Logout(ctx)
}

// Login posts credentials and, on success, stores the pair and runs
// CheckAuth. The returned error is an *AuthError.
func (m *SessionManager) Login(ctx context.Context, email, password string) error {
	return m.authenticate(ctx, "login", email, password, m.client.Login)
}

// Signup is Login against POST /auth/signup.
func (m *SessionManager) Signup(ctx context.Context, email, password string) error {
	return m.authenticate(ctx, "signup", email, password, m.client.Signup)
}

type credentialsCall func(ctx context.Context, email, password string) (*models.TokenPair, error)

func (m *SessionManager) authenticate(ctx context.Context, op, email, password string, fn credentialsCall) error {
	m.update(func(s *models.Session) {
		s.IsLoading = true
		s.Error = ""
	})

	pair, err := fn(ctx, email, password)
	if err != nil {
		narrowed := NarrowAuthError(err)
		m.log.Warn(ctx, op+" failed", "error", err)
		m.update(func(s *models.Session) {
			s.IsLoading = false
			s.Error = narrowed.Error()
		})
		return narrowed
	}

	if err := secrets.SavePair(ctx, m.store, pair.AccessToken, pair.RefreshToken); err != nil {
		m.log.Error(ctx, "failed to store tokens", "error", err)
		m.update(func(s *models.Session) {
			s.IsLoading = false
			s.Error = "Could not save session"
		})
		return fmt.Errorf("store tokens: %w", err)
	}

	m.log.Info(ctx, op+" succeeded")
	m.update(func(s *models.Session) {
		s.HasAccessToken = true
		s.HasRefreshToken = true
	})
	m.CheckAuth(ctx)
	return nil
}

// RefreshToken exchanges the stored refresh token for a new pair.
// Concurrent callers share a single request and its result.
func (m *SessionManager) RefreshToken(ctx context.Context) bool {
	v, _, _ := m.refresh.Do("refresh", func() (any, error) {
		return m.refreshOnce(ctx), nil
	})
	return v.(bool)
}

func (m *SessionManager) refreshOnce(ctx context.Context) bool {
	refresh, ok := m.token(ctx, secrets.RefreshToken)
	if !ok {
		m.log.Debug(ctx, "no refresh token stored")
		return false
	}

	pair, err := m.client.Refresh(ctx, refresh)
	if err != nil {
		m.log.Warn(ctx, "token refresh failed", "error", err)
		return false
	}

	if err := secrets.SavePair(ctx, m.store, pair.AccessToken, pair.RefreshToken); err != nil {
		m.log.Error(ctx, "failed to store refreshed tokens", "error", err)
		return false
	}

	m.log.Info(ctx, "token refreshed")
	m.update(func(s *models.Session) {
		s.HasAccessToken = true
		s.HasRefreshToken = true
		s.AccessTokenExpiresAt = accessTokenExpiry(pair.AccessToken)
	})
	return true
}

// Logout clears both tokens and the session. If the store cannot clear them
// together each token is deleted on its own; the session is reset either way.
func (m *SessionManager) Logout(ctx context.Context) {
	if err := m.store.ClearAll(ctx); err != nil {
		m.log.Error(ctx, "failed to clear tokens", "error", err)
		for _, key := range []secrets.Key{secrets.AccessToken, secrets.RefreshToken} {
			if err := m.store.Delete(ctx, key); err != nil {
				m.log.Error(ctx, "failed to delete token", "key", string(key), "error", err)
			}
		}
	}
	m.log.Info(ctx, "logged out")
	m.update(func(s *models.Session) { *s = models.Session{} })
}
