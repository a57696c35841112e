// Package session owns the authenticated operator of the register.
//
// There is one session per process. It is persisted as a signed token in a
// slot so it survives restarts, and is polled for expiry.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/sangkips/trimtime-pos/internal/clock"
	"github.com/sangkips/trimtime-pos/internal/config"
	"github.com/sangkips/trimtime-pos/internal/domain/entity"
	"github.com/sangkips/trimtime-pos/pkg/apperror"
	"github.com/sangkips/trimtime-pos/pkg/utils"
)

const issuer = "trimtime-pos"

// Slot persists the current token. Load returns "" when empty.
type Slot interface {
	Load() (string, error)
	Store(token string) error
	Clear() error
}

// Session is the authenticated operator.
type Session struct {
	Staff     entity.Staff `json:"staff"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	Remember  bool         `json:"remember_me"`
}

// Manager holds the current session. Safe for concurrent use.
type Manager struct {
	mu      sync.RWMutex
	current *Session

	tokens      *utils.JWTManager[entity.Staff]
	slot        Slot
	clock       clock.Clock
	ttl         time.Duration
	rememberTTL time.Duration
	onExpire    func()
}

// Option configures a Manager.
type Option func(*Manager)

// OnExpire is called each time the poll ends a session.
func OnExpire(fn func()) Option {
	return func(m *Manager) { m.onExpire = fn }
}

func NewManager(cfg config.SessionConfig, slot Slot, clk clock.Clock, opts ...Option) *Manager {
	ttl := cfg.ShortTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	rememberTTL := cfg.RememberTTL
	if rememberTTL <= 0 {
		rememberTTL = 30 * 24 * time.Hour
	}
	m := &Manager{
		tokens:      utils.NewJWTManager[entity.Staff](cfg.Secret, issuer, clk.Now),
		slot:        slot,
		clock:       clk,
		ttl:         ttl,
		rememberTTL: rememberTTL,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Login starts a session for staff. Credentials are checked by the caller.
func (m *Manager) Login(staff entity.Staff, remember bool) (Session, error) {
	ttl := m.ttl
	if remember {
		ttl = m.rememberTTL
	}
	expiresAt := m.clock.Now().Add(ttl)

	s, err := m.issue(staff, remember, expiresAt)
	if err != nil {
		return Session{}, err
	}

	m.mu.Lock()
	m.current = &s
	m.mu.Unlock()

	slog.Info("operator logged in", "staff_id", staff.ID, "username", staff.Username, "expires_at", expiresAt)
	return s, nil
}

func (m *Manager) issue(staff entity.Staff, remember bool, expiresAt time.Time) (Session, error) {
	staff.PasswordHash = ""
	token, err := m.tokens.GenerateToken(staff.ID, staff, remember, expiresAt)
	if err != nil {
		return Session{}, err
	}
	if err := m.slot.Store(token); err != nil {
		return Session{}, err
	}
	return Session{Staff: staff, Token: token, ExpiresAt: expiresAt, Remember: remember}, nil
}

// Logout ends the session and clears the slot.
func (m *Manager) Logout() error {
	m.mu.Lock()
	prev := m.current
	m.current = nil
	m.mu.Unlock()

	if prev != nil {
		slog.Info("operator logged out", "staff_id", prev.Staff.ID)
	}
	return m.slot.Clear()
}

// Current returns the live, unexpired session.
func (m *Manager) Current() (Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil || !m.clock.Now().Before(m.current.ExpiresAt) {
		return Session{}, false
	}
	return *m.current, true
}

// Restore loads the session persisted by a previous run. An invalid or
// expired token is discarded and leaves the register logged out.
func (m *Manager) Restore() error {
	token, err := m.slot.Load()
	if err != nil {
		return err
	}
	if token == "" {
		return nil
	}

	claims, err := m.tokens.ValidateToken(token)
	if err != nil {
		slog.Warn("discarding persisted session", "error", err)
		return m.slot.Clear()
	}

	m.mu.Lock()
	m.current = &Session{
		Staff:     claims.Profile,
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time.UTC(),
		Remember:  claims.Remember,
	}
	m.mu.Unlock()

	slog.Info("session restored", "staff_id", claims.Subject, "expires_at", claims.ExpiresAt.Time)
	return nil
}

// Refresh replaces the session identity when the operator's own record is in
// updated and rewrites the token with the same expiry. It reports whether the
// session changed.
func (m *Manager) Refresh(updated []entity.Staff) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return false, nil
	}
	for _, st := range updated {
		if st.ID != m.current.Staff.ID {
			continue
		}
		s, err := m.issue(st, m.current.Remember, m.current.ExpiresAt)
		if err != nil {
			return false, err
		}
		m.current = &s
		return true, nil
	}
	return false, nil
}

// CheckExpiry ends an expired session. It reports whether it did.
func (m *Manager) CheckExpiry() bool {
	m.mu.Lock()
	expired := m.current != nil && !m.clock.Now().Before(m.current.ExpiresAt)
	var staffID string
	if expired {
		staffID = m.current.Staff.ID
		m.current = nil
	}
	m.mu.Unlock()

	if !expired {
		return false
	}
	if err := m.slot.Clear(); err != nil {
		slog.Warn("failed to clear session slot", "error", err)
	}
	slog.Info("session expired", "staff_id", staffID)
	if m.onExpire != nil {
		m.onExpire()
	}
	return true
}

// Watch polls for expiry every interval until ctx is done.
func (m *Manager) Watch(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.CheckExpiry()
		}
	}
}

// Authenticate resolves a bearer token to the current operator. The token must
// be signed by this register and belong to the logged-in staff member; the
// returned record is the session's, which reflects later profile refreshes.
func (m *Manager) Authenticate(token string) (entity.Staff, error) {
	claims, err := m.tokens.ValidateToken(token)
	if err != nil {
		if utils.IsExpired(err) {
			return entity.Staff{}, apperror.ErrSessionExpired
		}
		return entity.Staff{}, apperror.ErrInvalidToken
	}

	s, ok := m.Current()
	if !ok {
		if m.hasExpired() {
			return entity.Staff{}, apperror.ErrSessionExpired
		}
		return entity.Staff{}, apperror.ErrNoSession
	}
	if s.Staff.ID != claims.Subject {
		return entity.Staff{}, apperror.ErrNoSession
	}
	return s.Staff, nil
}

func (m *Manager) hasExpired() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current != nil
}
