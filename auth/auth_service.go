package auth

import (
	"context"
	"time"

	"github.com/jrsteele09/finvofy-auth/internal/config"
	apperrors "github.com/jrsteele09/finvofy-auth/internal/errors"
	"github.com/jrsteele09/finvofy-auth/internal/utils"
	"github.com/jrsteele09/finvofy-auth/tenants"
	"github.com/jrsteele09/finvofy-auth/token"
	"github.com/jrsteele09/finvofy-auth/token/refresh"
	"github.com/jrsteele09/finvofy-auth/users"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Repos holds all repository dependencies for the Service
type Repos struct {
	Users    users.UserRepo // Users, with tenant creation at signup
	Sessions refresh.Repo   // Refresh sessions
}

// SignupInput is a validated signup request.
type SignupInput struct {
	Email      string
	Password   string
	Name       string
	TenantName string
}

// Result is returned by signup and login.
type Result struct {
	User   users.Profile
	Tokens token.Pair
}

// Service coordinates signup, login, refresh and logout.
type Service struct {
	repos        Repos
	issuer       *token.Issuer
	sessions     *refresh.Manager
	passwordCost int
	dummyHash    string // compared against when no user or hash exists
	nowTime      func() time.Time
	logger       zerolog.Logger
}

// ServiceOption defines a function type to modify the Service instance.
type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

func WithLogger(logger zerolog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger.With().Str("component", "auth").Logger()
	}
}

// WithPasswordCost overrides the bcrypt cost used at signup.
func WithPasswordCost(cost int) ServiceOption {
	return func(s *Service) {
		s.passwordCost = cost
	}
}

// NewService wires the orchestrator. Session records live for the
// configured refresh duration, parsed independently of the token lifetime.
func NewService(repos Repos, issuer *token.Issuer, cfg config.TokenConfig, options ...ServiceOption) (*Service, error) {
	if repos.Users == nil {
		return nil, errors.New("[NewService] Users repo is required")
	}
	if repos.Sessions == nil {
		return nil, errors.New("[NewService] Sessions repo is required")
	}
	if issuer == nil {
		return nil, errors.New("[NewService] issuer is required")
	}

	s := &Service{
		repos:        repos,
		issuer:       issuer,
		passwordCost: cfg.GetBcryptCost(),
		nowTime:      time.Now,
		logger:       log.Logger.With().Str("component", "auth").Logger(),
	}

	for _, opt := range options {
		opt(s)
	}
	dummyHash, err := users.HashPassword("finvofy-no-such-user", s.passwordCost)
	if err != nil {
		return nil, errors.Wrap(err, "[NewService] password cost")
	}
	s.dummyHash = dummyHash
	s.sessions = refresh.NewManager(repos.Sessions, token.ParseDuration(cfg.GetRefreshTokenExpiresIn()),
		refresh.WithNowFunc(s.nowTime))
	return s, nil
}

// Signup creates a tenant and its owner in one transaction and starts a session.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*Result, error) {
	email := users.NormalizeEmail(in.Email)

	// Fast path only. The store's unique index is what settles a race.
	if _, err := s.repos.Users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflictError(MsgEmailTaken, apperrors.ErrConflict)
	} else if !apperrors.Is(err, apperrors.ErrNotFound) {
		return nil, errors.Wrap(err, "[Service.Signup] GetByEmail")
	}

	hash, err := users.HashPassword(in.Password, s.passwordCost)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.Signup] HashPassword")
	}

	tenant := tenants.New(in.TenantName)
	owner := &users.User{
		Email:        email,
		Name:         utils.Ptr(in.Name),
		PasswordHash: &hash,
		Role:         users.RoleOwner,
		Active:       true,
	}
	if err := s.repos.Users.Register(ctx, tenant, owner); err != nil {
		if apperrors.Is(err, apperrors.ErrConflict) {
			return nil, apperrors.NewConflictError(MsgEmailTaken, err)
		}
		return nil, errors.Wrap(err, "[Service.Signup] Register")
	}

	s.logger.Info().Str("user_id", owner.ID).Str("tenant_id", tenant.ID).Msg("tenant registered")
	return s.startSession(ctx, owner)
}

// Login verifies credentials. Unknown email, missing hash and wrong password
// produce the same error; the inactive check only runs after verification.
func (s *Service) Login(ctx context.Context, email, password string) (*Result, error) {
	user, err := s.repos.Users.GetByEmail(ctx, users.NormalizeEmail(email))
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			users.CheckPasswordHash(password, s.dummyHash)
			return nil, apperrors.NewUnauthorizedError(MsgInvalidCredentials, apperrors.ErrUserNotFound)
		}
		return nil, errors.Wrap(err, "[Service.Login] GetByEmail")
	}

	if !user.HasPassword() {
		users.CheckPasswordHash(password, s.dummyHash)
		return nil, apperrors.NewUnauthorizedError(MsgInvalidCredentials, apperrors.ErrInvalidCredentials)
	}
	if !user.CheckPassword(password) {
		return nil, apperrors.NewUnauthorizedError(MsgInvalidCredentials, apperrors.ErrInvalidCredentials)
	}
	if !user.Active {
		return nil, apperrors.NewUnauthorizedError(MsgInactiveAccount, apperrors.ErrUserInactive)
	}

	return s.startSession(ctx, user)
}

func (s *Service) startSession(ctx context.Context, user *users.User) (*Result, error) {
	pair, err := s.issuer.IssuePair(token.ClaimsFor(user))
	if err != nil {
		return nil, errors.Wrap(err, "[Service.startSession] IssuePair")
	}
	if _, err := s.sessions.Create(ctx, user.ID, pair.RefreshToken); err != nil {
		return nil, errors.Wrap(err, "[Service.startSession]")
	}
	return &Result{User: user.Profile(), Tokens: pair}, nil
}

// Refresh exchanges a refresh token for a new pair. The presented token is
// consumed. Every failure is reported as the same UnauthorizedError; the
// reason travels in its Cause.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (token.Pair, error) {
	pair, err := s.rotate(ctx, refreshToken)
	if err != nil {
		s.logger.Warn().Err(err).Msg("refresh rejected")
		return token.Pair{}, apperrors.NewUnauthorizedError(MsgInvalidRefreshToken, err)
	}
	return pair, nil
}

func (s *Service) rotate(ctx context.Context, refreshToken string) (token.Pair, error) {
	claims, err := s.issuer.VerifyRefresh(refreshToken)
	if err != nil {
		return token.Pair{}, errors.Wrap(ErrRefreshSignature, err.Error())
	}

	session, err := s.sessions.Get(ctx, refreshToken)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return token.Pair{}, ErrSessionReplayed
		}
		return token.Pair{}, errors.Wrap(err, "[Service.rotate] find session")
	}

	if s.sessions.IsExpired(session) {
		if _, err := s.sessions.Delete(ctx, session.ID); err != nil {
			s.logger.Error().Err(err).Str("session_id", session.ID).Msg("failed to delete expired session")
		}
		return token.Pair{}, apperrors.ErrRefreshTokenExpired
	}

	if claims.Subject != session.UserID {
		return token.Pair{}, ErrSubjectMismatch
	}

	user := session.User
	if user == nil {
		if user, err = s.repos.Users.GetByID(ctx, session.UserID); err != nil {
			return token.Pair{}, errors.Wrap(err, "[Service.rotate] GetByID")
		}
	}
	if !user.Active {
		return token.Pair{}, apperrors.ErrUserInactive
	}

	pair, err := s.issuer.IssuePair(token.ClaimsFor(user))
	if err != nil {
		return token.Pair{}, errors.Wrap(err, "[Service.rotate] IssuePair")
	}

	if _, err := s.sessions.Rotate(ctx, session, pair.RefreshToken); err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			// A concurrent refresh consumed the token between lookup and rotation.
			return token.Pair{}, ErrSessionReplayed
		}
		return token.Pair{}, errors.Wrap(err, "[Service.rotate]")
	}
	return pair, nil
}

// Logout deletes the session matching both user and token. It is idempotent
// and never fails; store errors are logged.
func (s *Service) Logout(ctx context.Context, userID, refreshToken string) {
	if refreshToken == "" {
		return
	}
	removed, err := s.sessions.Revoke(ctx, userID, refreshToken)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("logout failed to delete session")
		return
	}
	s.logger.Debug().Str("user_id", userID).Int64("removed", removed).Msg("logout")
}

// CurrentUser resolves the active user behind an access token.
func (s *Service) CurrentUser(ctx context.Context, accessToken string) (*users.User, error) {
	claims, err := s.issuer.VerifyAccess(accessToken)
	if err != nil {
		return nil, apperrors.NewUnauthorizedError(MsgUnauthorized, errors.Wrap(apperrors.ErrInvalidToken, err.Error()))
	}

	user, err := s.repos.Users.GetByID(ctx, claims.Subject)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewUnauthorizedError(MsgUnauthorized, apperrors.ErrUserNotFound)
		}
		return nil, errors.Wrap(err, "[Service.CurrentUser] GetByID")
	}
	if !user.Active {
		return nil, apperrors.NewUnauthorizedError(MsgInactiveAccount, apperrors.ErrUserInactive)
	}
	return user, nil
}
