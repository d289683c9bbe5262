package persistence

import (
	"context"
	"database/sql"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jrsteele09/finvofy-auth/internal/config"
	apperrors "github.com/jrsteele09/finvofy-auth/internal/errors"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

const pgUniqueViolation = "23505"

// Open connects to the configured database. SQLite is limited to one open
// connection so transactions serialise instead of failing with SQLITE_BUSY.
func Open(ctx context.Context, driver, dsn string) (*bun.DB, error) {
	switch driver {
	case config.DriverSQLite:
		sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
		if err != nil {
			return nil, errors.Wrap(err, "[persistence.Open] sqlite")
		}
		sqldb.SetMaxOpenConns(1)

		db := bun.NewDB(sqldb, sqlitedialect.New())
		if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
			_ = db.Close()
			return nil, errors.Wrap(err, "[persistence.Open] enable foreign keys")
		}
		return db, nil

	case config.DriverPostgres:
		sqldb, err := sql.Open("pgx", dsn)
		if err != nil {
			return nil, errors.Wrap(err, "[persistence.Open] postgres")
		}
		db := bun.NewDB(sqldb, pgdialect.New())
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, errors.Wrap(err, "[persistence.Open] ping")
		}
		return db, nil
	}
	return nil, errors.Errorf("[persistence.Open] unsupported driver %q", driver)
}

// CreateSchema creates the tables and indexes if they do not exist.
func CreateSchema(ctx context.Context, db *bun.DB) error {
	tables := []struct {
		model       any
		foreignKeys []string
	}{
		{model: (*tenantModel)(nil)},
		{model: (*userModel)(nil), foreignKeys: []string{`("tenant_id") REFERENCES "tenants" ("id") ON DELETE CASCADE`}},
		{model: (*sessionModel)(nil), foreignKeys: []string{`("user_id") REFERENCES "users" ("id") ON DELETE CASCADE`}},
	}

	for _, table := range tables {
		q := db.NewCreateTable().Model(table.model).IfNotExists()
		for _, fk := range table.foreignKeys {
			q = q.ForeignKey(fk)
		}
		if _, err := q.Exec(ctx); err != nil {
			return errors.Wrapf(err, "[persistence.CreateSchema] create table %T", table.model)
		}
	}

	indexes := []struct {
		model  any
		name   string
		column string
	}{
		{model: (*userModel)(nil), name: "idx_users_tenant_id", column: "tenant_id"},
		{model: (*sessionModel)(nil), name: "idx_sessions_user_id", column: "user_id"},
	}
	for _, idx := range indexes {
		if _, err := db.NewCreateIndex().Model(idx.model).Index(idx.name).Column(idx.column).IfNotExists().Exec(ctx); err != nil {
			return errors.Wrapf(err, "[persistence.CreateSchema] create index %s", idx.name)
		}
	}
	return nil
}

// translate maps driver errors onto the sentinel errors the domain packages expect.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	if isUniqueViolation(err) {
		return errors.Wrap(apperrors.ErrConflict, err.Error())
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
