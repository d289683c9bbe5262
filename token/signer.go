package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// Signer signs claim sets and parses tokens it signed.
type Signer interface {
	Sign(claims jwt.MapClaims) (string, error)

	// Parse verifies the signature and the exp claim as of now.
	Parse(rawToken string, now func() time.Time) (jwt.MapClaims, error)
}

// SecretSigner signs with HS256 using a shared secret.
type SecretSigner struct {
	secret []byte
}

var _ Signer = (*SecretSigner)(nil)

func NewSecretSigner(secret string) *SecretSigner {
	return &SecretSigner{secret: []byte(secret)}
}

func (s *SecretSigner) Sign(claims jwt.MapClaims) (string, error) {
	if len(s.secret) == 0 {
		return "", errors.New("[SecretSigner.Sign] empty secret")
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "[SecretSigner.Sign] sign")
	}
	return signed, nil
}

func (s *SecretSigner) Parse(rawToken string, now func() time.Time) (jwt.MapClaims, error) {
	parsed, err := jwt.Parse(rawToken, s.key,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(now),
	)
	if err != nil {
		return nil, errors.Wrap(err, "[SecretSigner.Parse] parse")
	}
	if !parsed.Valid {
		return nil, errors.New("[SecretSigner.Parse] token is not valid")
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("[SecretSigner.Parse] error extracting claims")
	}
	return claims, nil
}

func (s *SecretSigner) key(token *jwt.Token) (any, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, errors.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	if len(s.secret) == 0 {
		return nil, errors.New("empty secret")
	}
	return s.secret, nil
}
