// Package jwtx verifies bearer tokens issued by the host platform.
// The invite service never mints tokens itself; the platform signs
// HS256 tokens with a shared service secret and this package checks
// them at the door.
package jwtx

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("jwtx: invalid token")
	ErrTokenExpired = errors.New("jwtx: token expired")
)

// Claims is the identity extracted from a verified bearer token.
type Claims struct {
	Subject   string
	Scopes    []string
	ExpiresAt time.Time
}

// Verifier checks a raw bearer token and returns its claims.
type Verifier interface {
	Verify(raw string) (Claims, error)
}

// HS256Verifier validates tokens signed with a shared HMAC secret.
type HS256Verifier struct {
	Secret []byte
	Issuer string // expected iss claim; empty disables the check
}

type wireClaims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

func (v *HS256Verifier) Verify(raw string) (Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.Issuer))
	}

	var wc wireClaims
	_, err := jwt.ParseWithClaims(raw, &wc, func(t *jwt.Token) (any, error) {
		return v.Secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if wc.Subject == "" {
		return Claims{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	var expiresAt time.Time
	if wc.ExpiresAt != nil {
		expiresAt = wc.ExpiresAt.Time
	}

	return Claims{
		Subject:   wc.Subject,
		Scopes:    strings.Fields(wc.Scope),
		ExpiresAt: expiresAt,
	}, nil
}

// SignHS256 mints a token the way the host platform does. Used by tests
// and local tooling; production tokens come from the platform.
func SignHS256(secret []byte, issuer, subject string, scopes []string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := wireClaims{
		Scope: strings.Join(scopes, " "),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}
