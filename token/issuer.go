package token

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/finvofy-auth/internal/config"
	"github.com/pkg/errors"
)

// Pair is an access token and the refresh token minted alongside it.
type Pair struct {
	AccessToken  string
	RefreshToken string
}

// Issuer mints and verifies access and refresh tokens. The two token kinds
// use distinct secrets so one can never be presented as the other.
type Issuer struct {
	accessSigner  Signer
	refreshSigner Signer
	accessTTL     time.Duration
	refreshTTL    time.Duration
	nowFunc       func() time.Time
}

type IssuerOption func(*Issuer)

func WithNowFunc(now func() time.Time) IssuerOption {
	return func(i *Issuer) {
		i.nowFunc = now
	}
}

func NewIssuer(cfg config.TokenConfig, options ...IssuerOption) *Issuer {
	i := &Issuer{
		accessSigner:  NewSecretSigner(cfg.GetAccessTokenSecret()),
		refreshSigner: NewSecretSigner(cfg.GetRefreshTokenSecret()),
		accessTTL:     ParseDuration(cfg.GetAccessTokenExpiresIn()),
		refreshTTL:    ParseDuration(cfg.GetRefreshTokenExpiresIn()),
		nowFunc:       time.Now,
	}

	for _, opt := range options {
		opt(i)
	}
	return i
}

func (i *Issuer) AccessTTL() time.Duration {
	return i.accessTTL
}

func (i *Issuer) RefreshTTL() time.Duration {
	return i.refreshTTL
}

// IssuePair signs a new access and refresh token for the claim set.
func (i *Issuer) IssuePair(claims Claims) (Pair, error) {
	now := i.nowFunc()

	accessToken, err := i.accessSigner.Sign(claims.mapClaims(uuid.New().String(), now, i.accessTTL))
	if err != nil {
		return Pair{}, errors.Wrap(err, "[Issuer.IssuePair] access token")
	}
	refreshToken, err := i.refreshSigner.Sign(claims.mapClaims(uuid.New().String(), now, i.refreshTTL))
	if err != nil {
		return Pair{}, errors.Wrap(err, "[Issuer.IssuePair] refresh token")
	}

	return Pair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// VerifyAccess checks an access token's signature and expiry.
func (i *Issuer) VerifyAccess(rawToken string) (*Claims, error) {
	return i.verify(rawToken, i.accessSigner)
}

// VerifyRefresh checks a refresh token's signature and expiry.
func (i *Issuer) VerifyRefresh(rawToken string) (*Claims, error) {
	return i.verify(rawToken, i.refreshSigner)
}

func (i *Issuer) verify(rawToken string, signer Signer) (*Claims, error) {
	if strings.TrimSpace(rawToken) == "" {
		return nil, errors.New("[Issuer.verify] empty token")
	}

	mapClaims, err := signer.Parse(rawToken, i.nowFunc)
	if err != nil {
		return nil, errors.Wrap(err, "[Issuer.verify]")
	}
	return claimsFromMap(mapClaims)
}
