// Package token issues and validates the stateless session tokens shared by
// every service. A token is a signed JWT carrying only the subject (username)
// plus issued-at and expires-at; validity is purely a function of the
// signature and the expiry, so any service holding the signing key can
// validate a token issued elsewhere without a session store.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is the only error Validate returns. Signature mismatch,
// malformed input and expiry are deliberately indistinguishable to callers.
var ErrInvalidToken = errors.New("invalid or expired token")

// Service signs and verifies tokens with a single symmetric key.
// The key and TTL are injected at construction; key rotation is not supported.
type Service struct {
	secret []byte
	ttl    time.Duration
}

func New(secret string, ttl time.Duration) *Service {
	return &Service{secret: []byte(secret), ttl: ttl}
}

// Issue creates a signed token for subject, stamped with the current time
// and the configured expiry offset.
func (s *Service) Issue(subject string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(s.secret)
}

// Validate parses and verifies a token, returning the subject it was issued
// for. Any failure collapses to ErrInvalidToken.
func (s *Service) Validate(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !tok.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
