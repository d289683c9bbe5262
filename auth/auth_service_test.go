package auth_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jrsteele09/finvofy-auth/auth"
	"github.com/jrsteele09/finvofy-auth/internal/config"
	apperrors "github.com/jrsteele09/finvofy-auth/internal/errors"
	tenantrepofakes "github.com/jrsteele09/finvofy-auth/tenants/repofakes"
	"github.com/jrsteele09/finvofy-auth/token"
	refreshrepofake "github.com/jrsteele09/finvofy-auth/token/refresh/repofake"
	"github.com/jrsteele09/finvofy-auth/users"
	fakeuserrepo "github.com/jrsteele09/finvofy-auth/users/repofake"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type tokenConfig struct {
	config.Tokens
}

func (tokenConfig) GetAccessTokenSecret() string  { return "test-access-secret" }
func (tokenConfig) GetRefreshTokenSecret() string { return "test-refresh-secret" }
func (tokenConfig) GetBcryptCost() int            { return bcrypt.MinCost }

type testFixture struct {
	service  *auth.Service
	issuer   *token.Issuer
	tenants  *tenantrepofakes.FakeTenantRepo
	users    *fakeuserrepo.FakeUserRepo
	sessions *refreshrepofake.FakeRefreshTokenRepo
}

func newTestFixture(t *testing.T) *testFixture {
	t.Helper()
	tenantRepo := tenantrepofakes.NewFakeTenantRepo()
	userRepo := fakeuserrepo.NewFakeUserRepo(tenantRepo)
	sessionRepo := refreshrepofake.NewFakeRefreshTokenRepo(userRepo)

	issuer := token.NewIssuer(tokenConfig{})
	service, err := auth.NewService(
		auth.Repos{Users: userRepo, Sessions: sessionRepo},
		issuer,
		tokenConfig{},
		auth.WithPasswordCost(bcrypt.MinCost),
		auth.WithLogger(zerolog.Nop()),
	)
	require.NoError(t, err)

	return &testFixture{
		service:  service,
		issuer:   issuer,
		tenants:  tenantRepo,
		users:    userRepo,
		sessions: sessionRepo,
	}
}

func (f *testFixture) signup(t *testing.T, email string) *auth.Result {
	t.Helper()
	result, err := f.service.Signup(context.Background(), auth.SignupInput{
		Email:      email,
		Password:   "S3cret!pass",
		Name:       "Ada",
		TenantName: "Acme",
	})
	require.NoError(t, err)
	return result
}

func requireUnauthorized(t *testing.T, err error, message string) *apperrors.UnauthorizedError {
	t.Helper()
	var unauthorized *apperrors.UnauthorizedError
	require.True(t, apperrors.As(err, &unauthorized), "expected UnauthorizedError, got %v", err)
	assert.Equal(t, message, unauthorized.Message)
	return unauthorized
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	issuer := token.NewIssuer(tokenConfig{})
	userRepo := fakeuserrepo.NewFakeUserRepo(tenantrepofakes.NewFakeTenantRepo())

	_, err := auth.NewService(auth.Repos{}, issuer, tokenConfig{})
	assert.Error(t, err)

	_, err = auth.NewService(auth.Repos{Users: userRepo}, issuer, tokenConfig{})
	assert.Error(t, err)

	_, err = auth.NewService(auth.Repos{Users: userRepo, Sessions: refreshrepofake.NewFakeRefreshTokenRepo(userRepo)}, nil, tokenConfig{})
	assert.Error(t, err)
}

func TestSignupCreatesTenantOwnerAndSession(t *testing.T) {
	f := newTestFixture(t)

	result := f.signup(t, "Ada@Example.com")

	assert.Equal(t, "ada@example.com", result.User.Email)
	assert.Equal(t, "Ada", result.User.Name)
	assert.Equal(t, users.RoleOwner, result.User.Role)
	assert.NotEmpty(t, result.User.TenantID)
	assert.NotEmpty(t, result.Tokens.AccessToken)
	assert.NotEmpty(t, result.Tokens.RefreshToken)

	assert.Equal(t, 1, f.tenants.Count())
	assert.Equal(t, 1, f.users.Count())
	assert.Equal(t, 1, f.sessions.Count())

	tenant, err := f.tenants.Get(context.Background(), result.User.TenantID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", tenant.Name)
	assert.Equal(t, "INV", tenant.Settings.InvoicePrefix)
	assert.Equal(t, "USD", tenant.Settings.Currency)

	claims, err := f.issuer.VerifyAccess(result.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, claims.Subject)
	assert.Equal(t, result.User.TenantID, claims.TenantID)
}

func TestSignupDuplicateEmailConflicts(t *testing.T) {
	f := newTestFixture(t)
	f.signup(t, "ada@example.com")

	_, err := f.service.Signup(context.Background(), auth.SignupInput{
		Email:      "ADA@example.com",
		Password:   "another-pass",
		Name:       "Other",
		TenantName: "Other Co",
	})

	var conflict *apperrors.ConflictError
	require.True(t, apperrors.As(err, &conflict))
	assert.Equal(t, auth.MsgEmailTaken, conflict.Message)
	assert.Equal(t, 1, f.tenants.Count())
	assert.Equal(t, 1, f.users.Count())
	assert.Equal(t, 1, f.sessions.Count())
}

func TestConcurrentSignupSameEmailCreatesOneUser(t *testing.T) {
	f := newTestFixture(t)

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.service.Signup(context.Background(), auth.SignupInput{
				Email:      "race@example.com",
				Password:   "S3cret!pass",
				Name:       "Racer",
				TenantName: "Race Co",
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		var conflict *apperrors.ConflictError
		assert.True(t, apperrors.As(err, &conflict), "unexpected error %v", err)
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, f.users.Count())
	assert.Equal(t, 1, f.tenants.Count())
}

func TestLoginSucceeds(t *testing.T) {
	f := newTestFixture(t)
	signedUp := f.signup(t, "ada@example.com")

	result, err := f.service.Login(context.Background(), " ADA@example.com ", "S3cret!pass")
	require.NoError(t, err)
	assert.Equal(t, signedUp.User, result.User)
	assert.NotEqual(t, signedUp.Tokens.RefreshToken, result.Tokens.RefreshToken)
	assert.Equal(t, 2, f.sessions.Count())
}

func TestLoginFailuresShareOneMessage(t *testing.T) {
	f := newTestFixture(t)
	f.signup(t, "ada@example.com")
	require.NoError(t, f.users.Insert(&users.User{Email: "nopass@example.com", Role: users.RoleMember, Active: true}))

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{name: "unknown email", email: "nobody@example.com", password: "S3cret!pass"},
		{name: "wrong password", email: "ada@example.com", password: "wrong-password"},
		{name: "no password set", email: "nopass@example.com", password: "anything"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.Login(context.Background(), tt.email, tt.password)
			requireUnauthorized(t, err, auth.MsgInvalidCredentials)
		})
	}
	assert.Equal(t, 1, f.sessions.Count())
}

func TestLoginWithoutUserStillComparesAHash(t *testing.T) {
	userRepo := fakeuserrepo.NewFakeUserRepo(tenantrepofakes.NewFakeTenantRepo())
	service, err := auth.NewService(
		auth.Repos{Users: userRepo, Sessions: refreshrepofake.NewFakeRefreshTokenRepo(userRepo)},
		token.NewIssuer(tokenConfig{}),
		tokenConfig{},
		auth.WithPasswordCost(10),
		auth.WithLogger(zerolog.Nop()),
	)
	require.NoError(t, err)

	// A cost-10 bcrypt compare takes tens of milliseconds; a bare map miss does not.
	start := time.Now()
	_, err = service.Login(context.Background(), "nobody@example.com", "whatever123")
	elapsed := time.Since(start)

	requireUnauthorized(t, err, auth.MsgInvalidCredentials)
	assert.GreaterOrEqual(t, elapsed, 5*time.Millisecond)
}

func TestLoginInactiveUser(t *testing.T) {
	f := newTestFixture(t)
	result := f.signup(t, "ada@example.com")
	require.NoError(t, f.users.SetActive(context.Background(), result.User.ID, false))

	_, err := f.service.Login(context.Background(), "ada@example.com", "wrong-password")
	requireUnauthorized(t, err, auth.MsgInvalidCredentials)

	_, err = f.service.Login(context.Background(), "ada@example.com", "S3cret!pass")
	requireUnauthorized(t, err, auth.MsgInactiveAccount)
}

func TestRefreshRotatesAndRejectsReplay(t *testing.T) {
	f := newTestFixture(t)
	ctx := context.Background()
	first := f.signup(t, "ada@example.com")

	second, err := f.service.Refresh(ctx, first.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.Tokens.RefreshToken, second.RefreshToken)
	assert.Equal(t, 1, f.sessions.Count())

	claims, err := f.issuer.VerifyAccess(second.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, claims.Subject)
	assert.Equal(t, users.RoleOwner, claims.Role)

	_, err = f.service.Refresh(ctx, first.Tokens.RefreshToken)
	unauthorized := requireUnauthorized(t, err, auth.MsgInvalidRefreshToken)
	assert.ErrorIs(t, unauthorized, auth.ErrSessionReplayed)

	third, err := f.service.Refresh(ctx, second.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, second.RefreshToken, third.RefreshToken)
}

func TestConcurrentRefreshSucceedsOnce(t *testing.T) {
	f := newTestFixture(t)
	result := f.signup(t, "ada@example.com")

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.service.Refresh(context.Background(), result.Tokens.RefreshToken)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, f.sessions.Count())
}

func TestRefreshRejectsInvalidTokens(t *testing.T) {
	f := newTestFixture(t)
	result := f.signup(t, "ada@example.com")

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not.a.jwt"},
		{name: "access token", token: result.Tokens.AccessToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.Refresh(context.Background(), tt.token)
			unauthorized := requireUnauthorized(t, err, auth.MsgInvalidRefreshToken)
			assert.ErrorIs(t, unauthorized, auth.ErrRefreshSignature)
		})
	}
	assert.Equal(t, 1, f.sessions.Count())
}

func TestRefreshExpiredSessionIsDeleted(t *testing.T) {
	f := newTestFixture(t)
	result := f.signup(t, "ada@example.com")
	f.sessions.ExpireAll()

	_, err := f.service.Refresh(context.Background(), result.Tokens.RefreshToken)
	unauthorized := requireUnauthorized(t, err, auth.MsgInvalidRefreshToken)
	assert.ErrorIs(t, unauthorized, apperrors.ErrRefreshTokenExpired)
	assert.Equal(t, 0, f.sessions.Count())
}

func TestRefreshInactiveUserKeepsSession(t *testing.T) {
	f := newTestFixture(t)
	result := f.signup(t, "ada@example.com")
	require.NoError(t, f.users.SetActive(context.Background(), result.User.ID, false))

	_, err := f.service.Refresh(context.Background(), result.Tokens.RefreshToken)
	unauthorized := requireUnauthorized(t, err, auth.MsgInvalidRefreshToken)
	assert.ErrorIs(t, unauthorized, apperrors.ErrUserInactive)
	assert.Equal(t, 1, f.sessions.Count())
}

func TestRefreshAfterStoredExpiryButBeforeJWTExpiry(t *testing.T) {
	f := newTestFixture(t)
	result := f.signup(t, "ada@example.com")

	later := time.Now().Add(8 * 24 * time.Hour)
	service, err := auth.NewService(
		auth.Repos{Users: f.users, Sessions: f.sessions},
		f.issuer,
		tokenConfig{},
		auth.WithNowTime(func() time.Time { return later }),
		auth.WithLogger(zerolog.Nop()),
	)
	require.NoError(t, err)

	_, err = service.Refresh(context.Background(), result.Tokens.RefreshToken)
	requireUnauthorized(t, err, auth.MsgInvalidRefreshToken)
	assert.Equal(t, 0, f.sessions.Count())
}

func TestLogoutIsIdempotentAndScopedToUser(t *testing.T) {
	f := newTestFixture(t)
	ctx := context.Background()
	ada := f.signup(t, "ada@example.com")
	bob := f.signup(t, "bob@example.com")

	f.service.Logout(ctx, bob.User.ID, ada.Tokens.RefreshToken)
	assert.Equal(t, 2, f.sessions.Count())

	f.service.Logout(ctx, ada.User.ID, ada.Tokens.RefreshToken)
	assert.Equal(t, 1, f.sessions.Count())

	f.service.Logout(ctx, ada.User.ID, ada.Tokens.RefreshToken)
	f.service.Logout(ctx, ada.User.ID, "")
	assert.Equal(t, 1, f.sessions.Count())

	_, err := f.service.Refresh(ctx, ada.Tokens.RefreshToken)
	requireUnauthorized(t, err, auth.MsgInvalidRefreshToken)
}

func TestCurrentUser(t *testing.T) {
	f := newTestFixture(t)
	ctx := context.Background()
	result := f.signup(t, "ada@example.com")

	user, err := f.service.CurrentUser(ctx, result.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, result.User, user.Profile())
	require.NotNil(t, user.Tenant)
	assert.Equal(t, "Acme", user.Tenant.Name)

	_, err = f.service.CurrentUser(ctx, result.Tokens.RefreshToken)
	requireUnauthorized(t, err, auth.MsgUnauthorized)

	require.NoError(t, f.users.SetActive(ctx, result.User.ID, false))
	_, err = f.service.CurrentUser(ctx, result.Tokens.AccessToken)
	requireUnauthorized(t, err, auth.MsgInactiveAccount)
}

func TestSignupLoginRefreshScenario(t *testing.T) {
	f := newTestFixture(t)
	ctx := context.Background()

	signedUp, err := f.service.Signup(ctx, auth.SignupInput{Email: "a@b.com", Password: "password123", Name: "A", TenantName: "T"})
	require.NoError(t, err)
	assert.Equal(t, "OWNER", string(signedUp.User.Role))

	loggedIn, err := f.service.Login(ctx, "a@b.com", "password123")
	require.NoError(t, err)

	refreshed, err := f.service.Refresh(ctx, loggedIn.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, loggedIn.Tokens.RefreshToken, refreshed.RefreshToken)
}
