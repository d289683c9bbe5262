package refresh

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// Manager creates, looks up, rotates and revokes refresh sessions.
type Manager struct {
	repo    Repo
	ttl     time.Duration
	nowFunc func() time.Time
}

type ManagerOption func(*Manager)

// WithNowFunc sets the clock used for stored expiries and expiry checks.
func WithNowFunc(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowFunc = now
	}
}

// NewManager creates a session manager whose records live for ttl.
func NewManager(repo Repo, ttl time.Duration, options ...ManagerOption) *Manager {
	m := &Manager{
		repo:    repo,
		ttl:     ttl,
		nowFunc: time.Now,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *Manager) newSession(userID, token string) *Session {
	return NewSession(userID, token, m.nowFunc(), m.ttl)
}

// Create stores a new session for the refresh token.
func (m *Manager) Create(ctx context.Context, userID, token string) (*Session, error) {
	session := m.newSession(userID, token)
	if err := m.repo.Create(ctx, session); err != nil {
		return nil, errors.Wrap(err, "[Manager.Create] store session")
	}
	return session, nil
}

// Get retrieves the session for a token, joined with its user.
func (m *Manager) Get(ctx context.Context, token string) (*Session, error) {
	return m.repo.FindByToken(ctx, token)
}

// Delete removes a session by ID.
func (m *Manager) Delete(ctx context.Context, id string) (bool, error) {
	return m.repo.DeleteByID(ctx, id)
}

// Rotate replaces old with a session for the new token.
func (m *Manager) Rotate(ctx context.Context, old *Session, token string) (*Session, error) {
	next := m.newSession(old.UserID, token)
	if err := m.repo.Rotate(ctx, old.ID, next); err != nil {
		return nil, errors.Wrap(err, "[Manager.Rotate]")
	}
	return next, nil
}

// Revoke deletes any session matching both user and token. It never fails on a miss.
func (m *Manager) Revoke(ctx context.Context, userID, token string) (int64, error) {
	return m.repo.DeleteByUserAndToken(ctx, userID, token)
}

// IsExpired checks the stored expiry against the current time.
func (m *Manager) IsExpired(s *Session) bool {
	return s.Expired(m.nowFunc())
}
