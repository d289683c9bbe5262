package persistence

import (
	"context"

	apperrors "github.com/jrsteele09/finvofy-auth/internal/errors"
	"github.com/jrsteele09/finvofy-auth/token/refresh"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

var _ refresh.Repo = (*Sessions)(nil)

type Sessions struct {
	db *bun.DB
}

func NewSessions(db *bun.DB) *Sessions {
	return &Sessions{db: db}
}

func (r *Sessions) Create(ctx context.Context, session *refresh.Session) error {
	if _, err := r.db.NewInsert().Model(fromSession(session)).Exec(ctx); err != nil {
		return errors.Wrap(translate(err), "[Sessions.Create]")
	}
	return nil
}

func (r *Sessions) FindByToken(ctx context.Context, token string) (*refresh.Session, error) {
	var model sessionModel
	err := r.db.NewSelect().
		Model(&model).
		Relation("User").
		Relation("User.Tenant").
		Where("s.refresh_token = ?", token).
		Scan(ctx)
	if err != nil {
		return nil, errors.Wrap(translate(err), "[Sessions.FindByToken]")
	}
	return model.toSession(), nil
}

func (r *Sessions) DeleteByID(ctx context.Context, id string) (bool, error) {
	n, err := deleteSessions(ctx, r.db, "id = ?", id)
	if err != nil {
		return false, errors.Wrap(err, "[Sessions.DeleteByID]")
	}
	return n > 0, nil
}

func (r *Sessions) DeleteByUserAndToken(ctx context.Context, userID, token string) (int64, error) {
	n, err := deleteSessions(ctx, r.db, "user_id = ? AND refresh_token = ?", userID, token)
	if err != nil {
		return 0, errors.Wrap(err, "[Sessions.DeleteByUserAndToken]")
	}
	return n, nil
}

// Rotate deletes the old record and inserts next in one transaction. When
// two callers race on the same record only one delete affects a row; the
// other sees zero rows and inserts nothing.
func (r *Sessions) Rotate(ctx context.Context, oldID string, next *refresh.Session) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		n, err := deleteSessions(ctx, tx, "id = ?", oldID)
		if err != nil {
			return errors.Wrap(err, "[Sessions.Rotate] delete")
		}
		if n == 0 {
			return apperrors.ErrNotFound
		}
		if _, err := tx.NewInsert().Model(fromSession(next)).Exec(ctx); err != nil {
			return errors.Wrap(translate(err), "[Sessions.Rotate] insert")
		}
		return nil
	})
}

func deleteSessions(ctx context.Context, db bun.IDB, where string, args ...any) (int64, error) {
	res, err := db.NewDelete().
		Model((*sessionModel)(nil)).
		Where(where, args...).
		Exec(ctx)
	if err != nil {
		return 0, translate(err)
	}
	return res.RowsAffected()
}
