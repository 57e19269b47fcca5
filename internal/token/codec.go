package token

// Package token implements the signed session-token codec. The token is an
// HS256 JWT carried in the session cookie. It proves identity and names a
// server-side session; revocation and authorization live elsewhere.

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	domainauth "github.com/DKiloDesigns/CreatorFlow-sub004/internal/domain/auth"
)

// ErrInvalidToken is returned for any token the codec did not mint:
// malformed, tampered, expired, wrong algorithm, or wrong issuer.
var ErrInvalidToken = errors.New("invalid session token")

const minSecretLen = 32

// Codec mints and verifies HS256 session tokens.
type Codec struct {
	secret []byte
	issuer string
}

// NewCodec constructs a Codec. The secret must be at least 32 bytes so HS256
// keys are never guessable in production deployments.
func NewCodec(secret, issuer string) (*Codec, error) {
	if len(secret) < minSecretLen {
		return nil, fmt.Errorf("token secret must be at least %d bytes", minSecretLen)
	}
	if issuer == "" {
		return nil, errors.New("token issuer is required")
	}
	return &Codec{secret: []byte(secret), issuer: issuer}, nil
}

// sessionClaims is the wire shape of the token payload.
type sessionClaims struct {
	SessionID string `json:"sid"`
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Mint signs a token for the given session. The token expiry mirrors the
// session expiry so a live token always names a session that existed.
func (c *Codec) Mint(sess domainauth.Session) (string, error) {
	if sess.ID == "" {
		return "", errors.New("session ID is required")
	}
	if sess.UserID == "" {
		return "", errors.New("session user ID is required")
	}
	if !sess.ExpiresAt.After(time.Now()) {
		return "", errors.New("session is expired")
	}

	claims := sessionClaims{
		SessionID: sess.ID,
		Name:      sess.Name,
		Email:     sess.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sess.UserID,
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a raw token. Any failure collapses into
// ErrInvalidToken so callers treat all bad tokens uniformly.
func (c *Codec) Verify(raw string) (domainauth.TokenClaims, error) {
	if raw == "" {
		return domainauth.TokenClaims{}, ErrInvalidToken
	}

	var claims sessionClaims
	_, err := jwt.ParseWithClaims(raw, &claims,
		func(*jwt.Token) (any, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(c.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return domainauth.TokenClaims{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if claims.SessionID == "" || claims.Subject == "" {
		return domainauth.TokenClaims{}, ErrInvalidToken
	}

	return domainauth.TokenClaims{
		SessionID: claims.SessionID,
		UserID:    claims.Subject,
		Name:      claims.Name,
		Email:     claims.Email,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
