package persistence

import (
	"time"

	"github.com/jrsteele09/finvofy-auth/tenants"
	"github.com/jrsteele09/finvofy-auth/token/refresh"
	"github.com/jrsteele09/finvofy-auth/users"
	"github.com/uptrace/bun"
)

type tenantModel struct {
	bun.BaseModel `bun:"table:tenants,alias:t"`

	ID        string           `bun:"id,pk"`
	Name      string           `bun:"name,notnull"`
	Domain    string           `bun:"domain,nullzero"`
	Settings  tenants.Settings `bun:"settings,type:jsonb,notnull"`
	CreatedAt time.Time        `bun:"created_at,notnull"`
	UpdatedAt time.Time        `bun:"updated_at,notnull"`
}

type userModel struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           string       `bun:"id,pk"`
	TenantID     string       `bun:"tenant_id,notnull"`
	Email        string       `bun:"email,notnull,unique"`
	Name         *string      `bun:"name"`
	PasswordHash *string      `bun:"password_hash"`
	Role         string       `bun:"role,notnull"`
	Active       bool         `bun:"is_active,notnull"`
	CreatedAt    time.Time    `bun:"created_at,notnull"`
	UpdatedAt    time.Time    `bun:"updated_at,notnull"`
	Tenant       *tenantModel `bun:"rel:belongs-to,join:tenant_id=id"`
}

type sessionModel struct {
	bun.BaseModel `bun:"table:sessions,alias:s"`

	ID           string     `bun:"id,pk"`
	UserID       string     `bun:"user_id,notnull"`
	RefreshToken string     `bun:"refresh_token,notnull,unique"`
	ExpiresAt    time.Time  `bun:"expires_at,notnull"`
	CreatedAt    time.Time  `bun:"created_at,notnull"`
	User         *userModel `bun:"rel:belongs-to,join:user_id=id"`
}

func fromTenant(t *tenants.Tenant) *tenantModel {
	return &tenantModel{
		ID:        t.ID,
		Name:      t.Name,
		Domain:    t.Domain,
		Settings:  t.Settings,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func (m *tenantModel) toTenant() *tenants.Tenant {
	return &tenants.Tenant{
		ID:        m.ID,
		Name:      m.Name,
		Domain:    m.Domain,
		Settings:  m.Settings,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func fromUser(u *users.User) *userModel {
	return &userModel{
		ID:           u.ID,
		TenantID:     u.TenantID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		Active:       u.Active,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (m *userModel) toUser() *users.User {
	user := &users.User{
		ID:           m.ID,
		TenantID:     m.TenantID,
		Email:        m.Email,
		Name:         m.Name,
		PasswordHash: m.PasswordHash,
		Role:         users.Role(m.Role),
		Active:       m.Active,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if m.Tenant != nil {
		user.Tenant = m.Tenant.toTenant()
	}
	return user
}

func fromSession(s *refresh.Session) *sessionModel {
	return &sessionModel{
		ID:           s.ID,
		UserID:       s.UserID,
		RefreshToken: s.Token,
		ExpiresAt:    s.ExpiresAt,
		CreatedAt:    s.CreatedAt,
	}
}

func (m *sessionModel) toSession() *refresh.Session {
	session := &refresh.Session{
		ID:        m.ID,
		UserID:    m.UserID,
		Token:     m.RefreshToken,
		ExpiresAt: m.ExpiresAt,
		CreatedAt: m.CreatedAt,
	}
	if m.User != nil {
		session.User = m.User.toUser()
	}
	return session
}
