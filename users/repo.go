package users

import (
	"context"

	"github.com/jrsteele09/finvofy-auth/tenants"
)

// UserRepo is the persistence contract consumed by the auth service.
// Lookups return errors.ErrNotFound when no user matches.
type UserRepo interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	// Register creates tenant and owner atomically. A duplicate email fails
	// with errors.ErrConflict and leaves no tenant behind.
	Register(ctx context.Context, tenant *tenants.Tenant, owner *User) error
	SetActive(ctx context.Context, id string, active bool) error
}
