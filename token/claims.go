package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/finvofy-auth/users"
	"github.com/pkg/errors"
)

const (
	claimSubject  = "sub"
	claimEmail    = "email"
	claimTenantID = "tenantId"
	claimRole     = "role"
	claimIssuedAt = "iat"
	claimExpiry   = "exp"
	claimTokenID  = "jti"
)

// Claims is the identity claim set carried by both access and refresh tokens.
type Claims struct {
	Subject   string     // User ID
	Email     string     // User email
	TenantID  string     // Owning tenant
	Role      users.Role // Role within the tenant
	ID        string     // jti, unique per issued token
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// ClaimsFor builds the identity claim set for a user.
func ClaimsFor(user *users.User) Claims {
	return Claims{
		Subject:  user.ID,
		Email:    user.Email,
		TenantID: user.TenantID,
		Role:     user.Role,
	}
}

func (c Claims) mapClaims(jti string, issuedAt time.Time, ttl time.Duration) jwt.MapClaims {
	return jwt.MapClaims{
		claimSubject:  c.Subject,
		claimEmail:    c.Email,
		claimTenantID: c.TenantID,
		claimRole:     string(c.Role),
		claimIssuedAt: issuedAt.Unix(),
		claimExpiry:   issuedAt.Add(ttl).Unix(),
		claimTokenID:  jti,
	}
}

func claimsFromMap(m jwt.MapClaims) (*Claims, error) {
	sub, err := m.GetSubject()
	if err != nil || sub == "" {
		return nil, errors.New("token missing sub claim")
	}
	exp, err := m.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, errors.New("token missing exp claim")
	}

	email, _ := m[claimEmail].(string)
	tenantID, _ := m[claimTenantID].(string)
	rawRole, _ := m[claimRole].(string)
	jti, _ := m[claimTokenID].(string)

	role, ok := users.ParseRole(rawRole)
	if !ok {
		return nil, errors.Errorf("token has unknown role %q", rawRole)
	}

	claims := &Claims{
		Subject:   sub,
		Email:     email,
		TenantID:  tenantID,
		Role:      role,
		ID:        jti,
		ExpiresAt: exp.Time,
	}
	if iat, err := m.GetIssuedAt(); err == nil && iat != nil {
		claims.IssuedAt = iat.Time
	}
	return claims, nil
}
