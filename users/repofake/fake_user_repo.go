package fakeuserrepo

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/jrsteele09/finvofy-auth/internal/errors"
	"github.com/jrsteele09/finvofy-auth/tenants"
	"github.com/jrsteele09/finvofy-auth/users"
)

var _ users.UserRepo = (*FakeUserRepo)(nil)

type FakeUserRepo struct {
	users    map[string]*users.User
	emailIds map[string]string // email to user id
	tenants  tenants.Repo
	lock     sync.RWMutex
}

func NewFakeUserRepo(tenantRepo tenants.Repo) *FakeUserRepo {
	return &FakeUserRepo{
		users:    make(map[string]*users.User),
		emailIds: make(map[string]string),
		tenants:  tenantRepo,
	}
}

// Register holds the write lock across the email check and both inserts,
// which is what a unique index plus a transaction give the SQL store.
func (ur *FakeUserRepo) Register(ctx context.Context, tenant *tenants.Tenant, owner *users.User) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	email := users.NormalizeEmail(owner.Email)
	if _, ok := ur.emailIds[email]; ok {
		return apperrors.ErrConflict
	}
	if err := ur.tenants.Create(ctx, tenant); err != nil {
		return err
	}

	if owner.ID == "" {
		owner.ID = uuid.New().String()
	}
	now := time.Now()
	owner.Email = email
	owner.TenantID = tenant.ID
	owner.CreatedAt, owner.UpdatedAt = now, now
	ur.users[owner.ID] = owner
	ur.emailIds[email] = owner.ID
	return nil
}

// Insert stores a user for an existing tenant, bypassing Register.
func (ur *FakeUserRepo) Insert(user *users.User) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	email := users.NormalizeEmail(user.Email)
	if _, ok := ur.emailIds[email]; ok {
		return apperrors.ErrConflict
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.Email = email
	ur.users[user.ID] = user
	ur.emailIds[email] = user.ID
	return nil
}

func (ur *FakeUserRepo) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	ur.lock.RLock()
	id, ok := ur.emailIds[users.NormalizeEmail(email)]
	ur.lock.RUnlock()
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return ur.GetByID(ctx, id)
}

func (ur *FakeUserRepo) GetByID(ctx context.Context, id string) (*users.User, error) {
	ur.lock.RLock()
	stored, ok := ur.users[id]
	ur.lock.RUnlock()
	if !ok {
		return nil, apperrors.ErrNotFound
	}

	user := *stored
	if tenant, err := ur.tenants.Get(ctx, user.TenantID); err == nil {
		user.Tenant = tenant
	}
	return &user, nil
}

func (ur *FakeUserRepo) SetActive(_ context.Context, id string, active bool) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	user, ok := ur.users[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	user.Active = active
	return nil
}

// Count returns the number of stored users.
func (ur *FakeUserRepo) Count() int {
	ur.lock.RLock()
	defer ur.lock.RUnlock()
	return len(ur.users)
}
