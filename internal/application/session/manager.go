// Package session tracks whether a visitor is signed in and keeps their
// backend access token fresh.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/oksasatya/go-storefront/internal/domain/entity"
	"github.com/oksasatya/go-storefront/internal/domain/repository"
	"github.com/oksasatya/go-storefront/internal/infrastructure/api"
	"github.com/oksasatya/go-storefront/pkg/helpers"
)

var (
	ErrNotSignedIn      = errors.New("not signed in")
	ErrInvalidAuthReply = errors.New("backend returned no access token")
)

// Authenticator is the subset of the backend client used for sign-in.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (api.AuthResult, error)
	Register(ctx context.Context, in api.RegisterInput) (api.AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (api.AuthResult, error)
	Logout(ctx context.Context, accessToken, refreshToken string) error
}

// StoreFunc returns the credential store of one visitor.
type StoreFunc func(visitorID string) repository.CredentialStore

// Service is shared by all requests. Refreshes for the same visitor are
// coalesced through one singleflight group.
type Service struct {
	auth   Authenticator
	stores StoreFunc
	logger *logrus.Logger
	now    func() time.Time
	skew   time.Duration
	group  singleflight.Group
}

type Options struct {
	// RefreshSkew is how long before expiry a token counts as stale.
	RefreshSkew time.Duration
	Clock       func() time.Time
	Logger      *logrus.Logger
}

func NewService(auth Authenticator, stores StoreFunc, opts Options) *Service {
	s := &Service{auth: auth, stores: stores, logger: opts.Logger, now: opts.Clock, skew: opts.RefreshSkew}
	if s.now == nil {
		s.now = time.Now
	}
	if s.logger == nil {
		s.logger = logrus.New()
	}
	return s
}

// For returns the manager bound to one visitor.
func (s *Service) For(visitorID string) *Manager {
	return &Manager{svc: s, visitorID: visitorID, store: s.stores(visitorID)}
}

// Manager is one visitor's session. It satisfies api.TokenSource and its
// HandleAuthFailure method is the client's api.AuthFailureHandler.
type Manager struct {
	svc       *Service
	visitorID string
	store     repository.CredentialStore
	state     entity.SessionState
}

var _ api.TokenSource = (*Manager)(nil)

// Initialize decides once, from persisted credentials, whether the visitor
// is signed in. Later calls return the decided state.
func (m *Manager) Initialize(ctx context.Context) (entity.SessionState, error) {
	if m.state.IsInitialized {
		return m.state, nil
	}
	creds, err := m.store.Load(ctx)
	if err != nil {
		return m.state, fmt.Errorf("load credentials: %w", err)
	}
	m.state = stateFrom(creds)
	return m.state, nil
}

// State is the last decided state. It is uninitialized until Initialize runs.
func (m *Manager) State() entity.SessionState { return m.state }

func stateFrom(c entity.Credentials) entity.SessionState {
	authed := c.RefreshToken != ""
	st := entity.SessionState{IsInitialized: true, IsAuthenticated: authed}
	if authed {
		st.User = c.User()
	}
	return st
}

func (m *Manager) Login(ctx context.Context, email, password string) (entity.SessionState, error) {
	res, err := m.svc.auth.Login(ctx, email, password)
	if err != nil {
		return m.state, err
	}
	return m.signIn(ctx, res)
}

func (m *Manager) Register(ctx context.Context, in api.RegisterInput) (entity.SessionState, error) {
	res, err := m.svc.auth.Register(ctx, in)
	if err != nil {
		return m.state, err
	}
	return m.signIn(ctx, res)
}

func (m *Manager) signIn(ctx context.Context, res api.AuthResult) (entity.SessionState, error) {
	if res.AccessToken == "" {
		return m.state, ErrInvalidAuthReply
	}
	creds := entity.Credentials{AccessToken: res.AccessToken, RefreshToken: res.RefreshToken, UserRole: entity.RoleCustomer}
	setUser(&creds, res.User)
	if err := m.store.Save(ctx, creds); err != nil {
		return m.state, fmt.Errorf("save credentials: %w", err)
	}
	m.state = entity.SessionState{IsInitialized: true, IsAuthenticated: true, User: creds.User()}
	m.svc.logger.WithFields(logrus.Fields{"visitor": m.visitorID, "user_id": creds.UserID}).Info("visitor signed in")
	return m.state, nil
}

// setUser copies u into c. An empty role keeps the stored one.
func setUser(c *entity.Credentials, u *entity.User) {
	if u == nil {
		return
	}
	c.UserID, c.UserEmail, c.UserName = u.ID, u.Email, u.Name
	if u.Role != "" {
		c.UserRole = u.Role
	}
}

// AccessToken returns the persisted access token, or "" for anonymous visitors.
func (m *Manager) AccessToken(ctx context.Context) (string, error) {
	creds, err := m.store.Load(ctx)
	if err != nil {
		return "", err
	}
	return creds.AccessToken, nil
}

// refreshTimeout bounds a shared refresh, which outlives any one caller.
const refreshTimeout = 15 * time.Second

// Refresh exchanges the refresh token for a new access token and persists it.
// Concurrent calls for the same visitor share one backend round trip. The
// shared round trip is detached from the caller, so one caller giving up
// does not fail the others.
func (m *Manager) Refresh(ctx context.Context) (string, error) {
	ch := m.svc.group.DoChan(m.visitorID, func() (any, error) {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), refreshTimeout)
		defer cancel()
		return m.refresh(rctx)
	})
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Shared {
			m.svc.logger.WithField("visitor", m.visitorID).Debug("joined in-flight token refresh")
		}
		if res.Err != nil {
			return "", res.Err
		}
		creds := res.Val.(entity.Credentials)
		if m.state.IsAuthenticated {
			m.state.User = creds.User()
		}
		return creds.AccessToken, nil
	}
}

func (m *Manager) refresh(ctx context.Context) (entity.Credentials, error) {
	creds, err := m.store.Load(ctx)
	if err != nil {
		return creds, fmt.Errorf("load credentials: %w", err)
	}
	if creds.RefreshToken == "" {
		return creds, ErrNotSignedIn
	}
	res, err := m.svc.auth.Refresh(ctx, creds.RefreshToken)
	if err != nil {
		return creds, fmt.Errorf("refresh token: %w", err)
	}
	if res.AccessToken == "" {
		return creds, ErrInvalidAuthReply
	}
	creds.AccessToken = res.AccessToken
	if res.RefreshToken != "" {
		creds.RefreshToken = res.RefreshToken
	}
	setUser(&creds, res.User)
	if err := m.store.Save(ctx, creds); err != nil {
		return creds, fmt.Errorf("save credentials: %w", err)
	}
	return creds, nil
}

// EnsureFresh runs on entry to a protected route. It refreshes a token that
// is expired or about to expire. A failed refresh leaves the visitor signed
// in; the next backend call settles it through the 401 path.
func (m *Manager) EnsureFresh(ctx context.Context) (entity.SessionState, error) {
	st, err := m.Initialize(ctx)
	if err != nil {
		return st, err
	}
	if !st.IsAuthenticated {
		return st, ErrNotSignedIn
	}
	token, err := m.AccessToken(ctx)
	if err != nil {
		return st, err
	}
	if !helpers.NeedsRefresh(token, m.svc.now(), m.svc.skew) {
		return st, nil
	}
	if _, err := m.Refresh(ctx); err != nil {
		m.svc.logger.WithError(err).WithField("visitor", m.visitorID).Warn("token refresh on route entry failed")
	}
	return m.state, nil
}

// Logout is valid from any state. Persisted credentials are cleared together;
// the backend is told on a best-effort basis.
func (m *Manager) Logout(ctx context.Context) error {
	creds, err := m.store.Load(ctx)
	if err == nil && creds.RefreshToken != "" {
		if lerr := m.svc.auth.Logout(ctx, creds.AccessToken, creds.RefreshToken); lerr != nil {
			m.svc.logger.WithError(lerr).WithField("visitor", m.visitorID).Info("backend logout failed")
		}
	}
	return m.clear(ctx)
}

func (m *Manager) clear(ctx context.Context) error {
	m.state = entity.SessionState{IsInitialized: true}
	if err := m.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}

// HandleAuthFailure is called by the backend client when a request stays
// unauthorized after its retry. The session is dropped locally.
func (m *Manager) HandleAuthFailure(ctx context.Context, cause error) {
	m.svc.logger.WithError(cause).WithField("visitor", m.visitorID).Warn("session expired, signing out")
	if err := m.clear(ctx); err != nil {
		m.svc.logger.WithError(err).WithField("visitor", m.visitorID).Error("failed to clear credentials")
	}
}

// Client returns c bound to this session's tokens and failure handler.
func (m *Manager) Client(c *api.Client) *api.Client {
	return c.WithAuth(m, m.HandleAuthFailure)
}

// SetUser updates the cached user fields after a profile change.
func (m *Manager) SetUser(ctx context.Context, u *entity.User) error {
	creds, err := m.store.Load(ctx)
	if err != nil {
		return err
	}
	if creds.RefreshToken == "" {
		return ErrNotSignedIn
	}
	setUser(&creds, u)
	if err := m.store.Save(ctx, creds); err != nil {
		return err
	}
	m.state.User = creds.User()
	return nil
}
