package refreshrepofake

import (
	"context"
	"sync"

	apperrors "github.com/jrsteele09/finvofy-auth/internal/errors"
	"github.com/jrsteele09/finvofy-auth/token/refresh"
	"github.com/jrsteele09/finvofy-auth/users"
)

var _ refresh.Repo = (*FakeRefreshTokenRepo)(nil)

type FakeRefreshTokenRepo struct {
	sessions map[string]*refresh.Session // session ID to session
	tokens   map[string]string           // token to session ID
	users    users.UserRepo
	lock     sync.RWMutex
}

// NewFakeRefreshTokenRepo joins sessions with users from userRepo on lookup.
func NewFakeRefreshTokenRepo(userRepo users.UserRepo) *FakeRefreshTokenRepo {
	return &FakeRefreshTokenRepo{
		sessions: make(map[string]*refresh.Session),
		tokens:   make(map[string]string),
		users:    userRepo,
	}
}

func (tr *FakeRefreshTokenRepo) Create(_ context.Context, session *refresh.Session) error {
	tr.lock.Lock()
	defer tr.lock.Unlock()
	return tr.insert(session)
}

func (tr *FakeRefreshTokenRepo) insert(session *refresh.Session) error {
	if _, ok := tr.tokens[session.Token]; ok {
		return apperrors.ErrConflict
	}
	stored := *session
	stored.User = nil
	tr.sessions[session.ID] = &stored
	tr.tokens[session.Token] = session.ID
	return nil
}

func (tr *FakeRefreshTokenRepo) FindByToken(ctx context.Context, token string) (*refresh.Session, error) {
	tr.lock.RLock()
	id, ok := tr.tokens[token]
	var session refresh.Session
	if ok {
		session = *tr.sessions[id]
	}
	tr.lock.RUnlock()
	if !ok {
		return nil, apperrors.ErrNotFound
	}

	user, err := tr.users.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	session.User = user
	return &session, nil
}

func (tr *FakeRefreshTokenRepo) DeleteByID(_ context.Context, id string) (bool, error) {
	tr.lock.Lock()
	defer tr.lock.Unlock()
	return tr.delete(id), nil
}

func (tr *FakeRefreshTokenRepo) delete(id string) bool {
	session, ok := tr.sessions[id]
	if !ok {
		return false
	}
	delete(tr.tokens, session.Token)
	delete(tr.sessions, id)
	return true
}

func (tr *FakeRefreshTokenRepo) DeleteByUserAndToken(_ context.Context, userID, token string) (int64, error) {
	tr.lock.Lock()
	defer tr.lock.Unlock()

	id, ok := tr.tokens[token]
	if !ok || tr.sessions[id].UserID != userID {
		return 0, nil
	}
	tr.delete(id)
	return 1, nil
}

func (tr *FakeRefreshTokenRepo) Rotate(_ context.Context, oldID string, next *refresh.Session) error {
	tr.lock.Lock()
	defer tr.lock.Unlock()

	if _, ok := tr.sessions[oldID]; !ok {
		return apperrors.ErrNotFound
	}
	if _, ok := tr.tokens[next.Token]; ok {
		return apperrors.ErrConflict
	}
	tr.delete(oldID)
	return tr.insert(next)
}

// Count returns the number of stored sessions.
func (tr *FakeRefreshTokenRepo) Count() int {
	tr.lock.RLock()
	defer tr.lock.RUnlock()
	return len(tr.sessions)
}

// ExpireAll moves every stored expiry to the zero time.
func (tr *FakeRefreshTokenRepo) ExpireAll() {
	tr.lock.Lock()
	defer tr.lock.Unlock()
	for _, s := range tr.sessions {
		s.ExpiresAt = s.CreatedAt.AddDate(-1, 0, 0)
	}
}
