package refresh

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/finvofy-auth/users"
)

// Session is the server-side record of one issued refresh token. The token
// value identifies exactly one record until the record is deleted.
type Session struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	User      *users.User // Owning user, populated by FindByToken
}

// NewSession builds a record for token that expires ttl after now.
func NewSession(userID, token string, now time.Time, ttl time.Duration) *Session {
	return &Session{
		ID:        uuid.New().String(),
		UserID:    userID,
		Token:     token,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
}

// Expired reports whether the stored expiry is in the past.
func (s *Session) Expired(now time.Time) bool {
	return s.ExpiresAt.Before(now)
}

// Repo is the session store. Nothing but the auth service writes to it.
// Lookups return errors.ErrNotFound when no record matches.
type Repo interface {
	Create(ctx context.Context, session *Session) error
	FindByToken(ctx context.Context, token string) (*Session, error)
	// DeleteByID reports whether a record was removed.
	DeleteByID(ctx context.Context, id string) (bool, error)
	// DeleteByUserAndToken removes records matching both values and returns how many.
	DeleteByUserAndToken(ctx context.Context, userID, token string) (int64, error)
	// Rotate deletes oldID and stores next as one atomic step. It fails with
	// errors.ErrNotFound, storing nothing, when oldID was already removed.
	Rotate(ctx context.Context, oldID string, next *Session) error
}
