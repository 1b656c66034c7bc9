// Package auth issues and verifies the bearer tokens of the API and hashes
// user passwords.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"backoffice/internal/core"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenAccess  = "access"
	TokenRefresh = "refresh"

	issuer = "backoffice"
)

var (
	ErrInvalidToken = fmt.Errorf("%w: invalid token", core.ErrUnauthorized)
	ErrExpiredToken = fmt.Errorf("%w: token expired", core.ErrUnauthorized)
)

// Claims are the custom claims carried by both token kinds.
type Claims struct {
	Username  string `json:"username"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// UserID returns the numeric subject.
func (c *Claims) UserID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}

// TokenPair is what signup, login and refresh hand back.
type TokenPair struct {
	AccessToken  string    `json:"access"`
	RefreshToken string    `json:"refresh"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Tokens signs and verifies HS256 tokens with one shared secret.
type Tokens struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokens(secret string, accessTTL time.Duration) *Tokens {
	return &Tokens{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: 7 * accessTTL,
		now:        time.Now,
	}
}

// Issue returns a fresh access and refresh token for u.
func (t *Tokens) Issue(u core.User) (TokenPair, error) {
	now := t.now()
	access, err := t.sign(u, TokenAccess, now, now.Add(t.accessTTL))
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := t.sign(u, TokenRefresh, now, now.Add(t.refreshTTL))
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh, ExpiresAt: now.Add(t.accessTTL)}, nil
}

func (t *Tokens) sign(u core.User, tokenType string, now, expires time.Time) (string, error) {
	claims := Claims{
		Username:  u.Username,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   strconv.FormatInt(u.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", tokenType, err)
	}
	return signed, nil
}

// Verify parses token and checks its signature, expiry and kind.
func (t *Tokens) Verify(token, tokenType string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return t.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(t.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.TokenType != tokenType {
		return nil, ErrInvalidToken
	}
	if _, err := claims.UserID(); err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
