package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/jrsteele09/finvofy-auth/internal/errors"
	"github.com/jrsteele09/finvofy-auth/tenants"
	"github.com/jrsteele09/finvofy-auth/users"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

var _ users.UserRepo = (*Users)(nil)

type Users struct {
	db *bun.DB
}

func NewUsers(db *bun.DB) *Users {
	return &Users{db: db}
}

func (r *Users) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	return r.get(ctx, "u.email = ?", users.NormalizeEmail(email))
}

func (r *Users) GetByID(ctx context.Context, id string) (*users.User, error) {
	return r.get(ctx, "u.id = ?", id)
}

func (r *Users) get(ctx context.Context, where string, arg any) (*users.User, error) {
	var model userModel
	err := r.db.NewSelect().
		Model(&model).
		Relation("Tenant").
		Where(where, arg).
		Scan(ctx)
	if err != nil {
		return nil, errors.Wrap(translate(err), "[Users.get]")
	}
	return model.toUser(), nil
}

// Register inserts tenant and owner in one transaction. The unique index on
// email rejects a concurrent duplicate and the rollback discards the tenant.
func (r *Users) Register(ctx context.Context, tenant *tenants.Tenant, owner *users.User) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := insertTenant(ctx, tx, tenant); err != nil {
			return err
		}

		if owner.ID == "" {
			owner.ID = uuid.New().String()
		}
		now := time.Now().UTC()
		owner.Email = users.NormalizeEmail(owner.Email)
		owner.TenantID = tenant.ID
		owner.CreatedAt, owner.UpdatedAt = now, now

		if _, err := tx.NewInsert().Model(fromUser(owner)).Exec(ctx); err != nil {
			return errors.Wrap(translate(err), "[Users.Register] insert owner")
		}
		return nil
	})
}

func (r *Users) SetActive(ctx context.Context, id string, active bool) error {
	res, err := r.db.NewUpdate().
		Model((*userModel)(nil)).
		Set("is_active = ?", active).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return errors.Wrap(translate(err), "[Users.SetActive]")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
