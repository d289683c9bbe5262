package token_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/finvofy-auth/internal/config"
	"github.com/jrsteele09/finvofy-auth/token"
	"github.com/jrsteele09/finvofy-auth/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tokenConfig struct {
	config.Tokens
	access, refresh, accessTTL, refreshTTL string
}

func (c tokenConfig) GetAccessTokenSecret() string     { return c.access }
func (c tokenConfig) GetRefreshTokenSecret() string    { return c.refresh }
func (c tokenConfig) GetAccessTokenExpiresIn() string  { return c.accessTTL }
func (c tokenConfig) GetRefreshTokenExpiresIn() string { return c.refreshTTL }

func testConfig() tokenConfig {
	return tokenConfig{access: "access-secret", refresh: "refresh-secret", accessTTL: "15m", refreshTTL: "7d"}
}

func testClaims() token.Claims {
	return token.ClaimsFor(&users.User{ID: "user-1", Email: "a@b.com", TenantID: "tenant-1", Role: users.RoleOwner})
}

func TestIssuePairRoundTrip(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	issuer := token.NewIssuer(testConfig(), token.WithNowFunc(func() time.Time { return now }))

	pair, err := issuer.IssuePair(testClaims())
	require.NoError(t, err)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	access, err := issuer.VerifyAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", access.Subject)
	assert.Equal(t, "a@b.com", access.Email)
	assert.Equal(t, "tenant-1", access.TenantID)
	assert.Equal(t, users.RoleOwner, access.Role)
	assert.NotEmpty(t, access.ID)
	assert.Equal(t, now.Add(15*time.Minute).Unix(), access.ExpiresAt.Unix())

	refresh, err := issuer.VerifyRefresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, now.Add(7*24*time.Hour).Unix(), refresh.ExpiresAt.Unix())
	assert.NotEqual(t, access.ID, refresh.ID)
}

func TestTokensAreNotInterchangeable(t *testing.T) {
	issuer := token.NewIssuer(testConfig())
	pair, err := issuer.IssuePair(testClaims())
	require.NoError(t, err)

	_, err = issuer.VerifyAccess(pair.RefreshToken)
	assert.Error(t, err)
	_, err = issuer.VerifyRefresh(pair.AccessToken)
	assert.Error(t, err)
}

func TestPairsIssuedInSameSecondDiffer(t *testing.T) {
	now := time.Now()
	issuer := token.NewIssuer(testConfig(), token.WithNowFunc(func() time.Time { return now }))

	first, err := issuer.IssuePair(testClaims())
	require.NoError(t, err)
	second, err := issuer.IssuePair(testClaims())
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
}

func TestExpiredTokenFails(t *testing.T) {
	now := time.Now()
	issuer := token.NewIssuer(testConfig(), token.WithNowFunc(func() time.Time { return now }))
	pair, err := issuer.IssuePair(testClaims())
	require.NoError(t, err)

	now = now.Add(16 * time.Minute)
	_, err = issuer.VerifyAccess(pair.AccessToken)
	assert.Error(t, err)

	_, err = issuer.VerifyRefresh(pair.RefreshToken)
	assert.NoError(t, err)
}

func TestVerifyRejectsForeignSecretAndGarbage(t *testing.T) {
	issuer := token.NewIssuer(testConfig())
	other := testConfig()
	other.refresh = "someone-else"
	forged, err := token.NewIssuer(other).IssuePair(testClaims())
	require.NoError(t, err)

	_, err = issuer.VerifyRefresh(forged.RefreshToken)
	assert.Error(t, err)
	_, err = issuer.VerifyRefresh("not-a-jwt")
	assert.Error(t, err)
	_, err = issuer.VerifyRefresh("  ")
	assert.Error(t, err)
}

func TestEmptySecretCannotSign(t *testing.T) {
	cfg := testConfig()
	cfg.access = ""
	_, err := token.NewIssuer(cfg).IssuePair(testClaims())
	assert.Error(t, err)
}

func TestUnsetAccessSecretRejectsEveryToken(t *testing.T) {
	cfg := testConfig()
	cfg.access = ""
	issuer := token.NewIssuer(cfg)

	forger := testConfig()
	forger.access = "default-access-secret"
	forged, err := token.NewIssuer(forger).IssuePair(testClaims())
	require.NoError(t, err)

	_, err = issuer.VerifyAccess(forged.AccessToken)
	assert.Error(t, err)
}

func TestVerifyRejectsUnknownRole(t *testing.T) {
	issuer := token.NewIssuer(testConfig())
	raw, err := token.NewSecretSigner("access-secret").Sign(jwt.MapClaims{
		"sub":  "user-1",
		"role": "ROOT",
		"exp":  time.Now().Add(time.Minute).Unix(),
	})
	require.NoError(t, err)

	_, err = issuer.VerifyAccess(raw)
	assert.Error(t, err)
}

func TestVerifyAcceptsRoleInAnyCase(t *testing.T) {
	issuer := token.NewIssuer(testConfig())
	raw, err := token.NewSecretSigner("access-secret").Sign(jwt.MapClaims{
		"sub":  "user-1",
		"role": "billing",
		"exp":  time.Now().Add(time.Minute).Unix(),
	})
	require.NoError(t, err)

	claims, err := issuer.VerifyAccess(raw)
	require.NoError(t, err)
	assert.Equal(t, users.RoleBilling, claims.Role)
}
