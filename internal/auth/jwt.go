// Package auth provides password hashing for local accounts and the signed
// cookie tokens the HTTP facade uses to tie a browser/webview to the active
// session.
//
// FACADE SESSION FLOW:
//  1. The shell POSTs credentials to /api/auth/login
//  2. SessionService authenticates (remote directory, then local accounts)
//  3. The handler issues a JWT whose subject is the session's identity key
//     and stores it in an HttpOnly cookie
//  4. RequireAuth validates the cookie on protected routes and checks the
//     subject still matches the active session
//
// The JWT is a facade credential only. The session's own token (remote
// access token or "token-<millis>") is stored by SessionService.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/xid"
)

const issuer = "sportify"

// DefaultTokenTTL is how long a facade cookie stays valid. Sessions have no
// expiry of their own, so this is deliberately long.
const DefaultTokenTTL = 30 * 24 * time.Hour

// TokenService handles JWT creation and validation.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a TokenService with the given secret and token
// lifetime. A zero ttl means DefaultTokenTTL.
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}, nil
}

// claims is the JWT payload. "sub" carries the identity key and "jti" a
// random xid so two logins never produce the same token.
type claims struct {
	jwt.RegisteredClaims
}

// Generate signs a token for identity using the service's lifetime.
func (s *TokenService) Generate(identity string) (string, error) {
	return s.GenerateWithDuration(identity, s.ttl)
}

// GenerateWithDuration signs a token for identity that expires after d.
func (s *TokenService) GenerateWithDuration(identity string, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        xid.New().String(),
			Subject:   identity,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a JWT string and returns its identity key.
//
// Signature, expiry, issuer and algorithm are all checked; only HS256 is
// accepted so a "none"-signed token can never pass.
func (s *TokenService) Validate(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("auth: token expired")
		}
		return "", fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("auth: invalid token claims")
	}

	if c.Subject == "" {
		return "", fmt.Errorf("auth: token has no subject")
	}

	return c.Subject, nil
}

// TTL reports how long tokens issued by this service stay valid.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}
