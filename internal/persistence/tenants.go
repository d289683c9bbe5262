package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/finvofy-auth/tenants"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// insertTenant writes a new tenant. Tenants are only created alongside their
// owner, inside Users.Register.
func insertTenant(ctx context.Context, db bun.IDB, tenant *tenants.Tenant) error {
	if tenant.ID == "" {
		tenant.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	tenant.CreatedAt, tenant.UpdatedAt = now, now

	if _, err := db.NewInsert().Model(fromTenant(tenant)).Exec(ctx); err != nil {
		return errors.Wrap(translate(err), "[insertTenant]")
	}
	return nil
}
