package config

import "github.com/pkg/errors"

const (
	// DefaultRefreshTokenSecret is used when JWT_REFRESH_SECRET is unset. It is a
	// public value: anyone can mint refresh tokens for a deployment that relies
	// on it. Startup logs a warning. The access secret has no default.
	DefaultRefreshTokenSecret = "default-refresh-secret"

	DefaultAccessTokenExpiresIn  = "15m"
	DefaultRefreshTokenExpiresIn = "7d"
	DefaultBcryptCost            = 12
)

type TokenConfig interface {
	GetAccessTokenSecret() string
	GetRefreshTokenSecret() string
	GetAccessTokenExpiresIn() string
	GetRefreshTokenExpiresIn() string
	GetBcryptCost() int
	UsesDefaultRefreshSecret() bool
}

type Tokens struct{}

var _ TokenConfig = Tokens{}

func (Tokens) GetAccessTokenSecret() string {
	return GetEnv("JWT_SECRET", "")
}

func (Tokens) GetRefreshTokenSecret() string {
	return GetEnv("JWT_REFRESH_SECRET", DefaultRefreshTokenSecret)
}

func (Tokens) GetAccessTokenExpiresIn() string {
	return GetEnv("JWT_EXPIRES_IN", DefaultAccessTokenExpiresIn)
}

func (Tokens) GetRefreshTokenExpiresIn() string {
	return GetEnv("JWT_REFRESH_EXPIRES_IN", DefaultRefreshTokenExpiresIn)
}

func (Tokens) GetBcryptCost() int {
	return GetEnvInt("BCRYPT_COST", DefaultBcryptCost)
}

func (t Tokens) UsesDefaultRefreshSecret() bool {
	return t.GetRefreshTokenSecret() == DefaultRefreshTokenSecret
}

// Validate fails when JWT_SECRET is unset.
func (t Tokens) Validate() error {
	if t.GetAccessTokenSecret() == "" {
		return errors.New("[Tokens.Validate] JWT_SECRET is required")
	}
	return nil
}
