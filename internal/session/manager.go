package session

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"notectl/internal/logging"
	"notectl/internal/models"
)

// Gateway is the slice of the backend API the session lifecycle needs.
// *api.HTTPClient satisfies it.
type Gateway interface {
	Login(ctx context.Context, username, password string) (*models.Session, error)
	Me(ctx context.Context) (*models.Session, error)
	Logout(ctx context.Context) error
	SetToken(token string)
}

// Manager owns the process-wide session state.
//
// Lifecycle: New seeds the state synchronously from the store so the UI can
// show the cached identity without a network round trip; Verify then asks
// the backend who the token really belongs to and either refreshes or clears
// the session. Consumers must treat the state as undecided until Loading()
// turns false.
type Manager struct {
	gw    Gateway
	store Store
	log   logging.Logger

	mu      sync.RWMutex
	session *models.Session
	loading bool

	verifyOnce sync.Once
	verified   chan struct{}
}

func NewManager(ctx context.Context, gw Gateway, store Store, log logging.Logger) *Manager {
	m := &Manager{
		gw:       gw,
		store:    store,
		log:      log.With("component", "session"),
		loading:  true,
		verified: make(chan struct{}),
	}

	cached, err := store.Load(ctx)
	if err != nil {
		m.log.Warn(ctx, "could not read cached session", "err", err)
	}
	if cached != nil && tokenExpired(cached.Token) {
		m.log.Debug(ctx, "cached token already expired, skipping fast path")
		cached = nil
	}
	if cached != nil {
		m.session = cached
		m.gw.SetToken(cached.Token)
	}
	return m
}

// tokenExpired decodes the token without verifying its signature and reports
// whether its exp claim is in the past. Opaque or claimless tokens read as
// not expired; the backend stays the authority either way.
func tokenExpired(token string) bool {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}

// Verify reconciles the cached session with the backend. On success the
// server-provided identity overwrites the cached one (keeping the token when
// the whoami response does not echo it); on any failure the session is
// cleared locally. Either way the manager leaves the loading state.
func (m *Manager) Verify(ctx context.Context) {
	defer m.verifyOnce.Do(func() { close(m.verified) })
	defer func() {
		m.mu.Lock()
		m.loading = false
		m.mu.Unlock()
	}()

	m.mu.RLock()
	cached := m.session
	m.mu.RUnlock()

	if cached == nil {
		return
	}

	verified, err := m.gw.Me(ctx)
	if err != nil {
		m.log.Info(ctx, "session verification failed, logging out", "err", err)
		m.clear(ctx)
		return
	}

	if verified.Token == "" {
		verified.Token = cached.Token
	}

	m.mu.Lock()
	m.session = verified
	m.mu.Unlock()
	m.gw.SetToken(verified.Token)

	if err := m.store.Save(ctx, verified); err != nil {
		m.log.Warn(ctx, "could not persist verified session", "err", err)
	}
}

// WaitVerified blocks until the startup verification has resolved or ctx is
// canceled.
func (m *Manager) WaitVerified(ctx context.Context) error {
	select {
	case <-m.verified:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Login authenticates and makes the returned session current. Failures
// propagate to the caller; the prior state is left untouched.
func (m *Manager) Login(ctx context.Context, username, password string) (*models.Session, error) {
	sess, err := m.gw.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.session = sess
	m.mu.Unlock()
	m.gw.SetToken(sess.Token)

	if err := m.store.Save(ctx, sess); err != nil {
		m.log.Warn(ctx, "could not persist session", "err", err)
	}
	return sess, nil
}

// Logout notifies the backend (best effort) and clears local state.
// It never fails observably.
func (m *Manager) Logout(ctx context.Context) {
	_ = m.gw.Logout(ctx)
	m.clear(ctx)
}

// Invalidate drops the session without a server round trip. Wired to the
// transport's 401 hook so any endpoint can force a global logout.
func (m *Manager) Invalidate(ctx context.Context) {
	m.log.Info(ctx, "session invalidated by backend")
	m.clear(ctx)
}

func (m *Manager) clear(ctx context.Context) {
	m.mu.Lock()
	m.session = nil
	m.mu.Unlock()
	m.gw.SetToken("")

	if err := m.store.Clear(ctx); err != nil {
		m.log.Warn(ctx, "could not clear stored session", "err", err)
	}
}

// Current returns a snapshot of the session, or nil when logged out.
func (m *Manager) Current() *models.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session == nil {
		return nil
	}
	snapshot := *m.session
	return &snapshot
}

// Loading reports whether the startup verification is still in flight.
func (m *Manager) Loading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loading
}

// IsAuthenticated reports whether a session is present.
func (m *Manager) IsAuthenticated() bool {
	return m.Current().Valid()
}
