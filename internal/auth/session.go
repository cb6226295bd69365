// Package auth keeps the operator's backend tokens in cookies and makes
// them available to request handlers.
package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Cookie names.
const (
	AccessCookie  = "accessToken"
	RefreshCookie = "refreshToken"
	UserCookie    = "user"
	SessionCookie = "sid"
)

// ErrNoToken is returned when the request carries no usable token.
var ErrNoToken = errors.New("auth: no token")

// ErrNoKey is returned when no verification key is configured.
var ErrNoKey = errors.New("auth: no verification key")

// Claims are the backend token claims the console reads.
type Claims struct {
	FullName string `json:"fullname"`
	Role     string `json:"role"`
	UserID   string `json:"userid"`
	jwt.RegisteredClaims
}

// ParseClaims verifies token against the backend HMAC key and decodes its
// claims. Expired tokens fail with jwt.ErrTokenExpired.
func ParseClaims(token string, key []byte) (*Claims, error) {
	if token == "" {
		return nil, ErrNoToken
	}
	if len(key) == 0 {
		return nil, ErrNoKey
	}
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return key, nil
	}, jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}))
	if err != nil {
		return nil, fmt.Errorf("failed to verify token: %w", err)
	}
	return &claims, nil
}

// peekExpiry reads the expiry of a token the console does not verify,
// such as the refresh token. It only sizes cookies.
func peekExpiry(token string) time.Time {
	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}
	}
	return claims.Expiry()
}

// Expiry returns the token expiry, or the zero time when there is none.
func (c *Claims) Expiry() time.Time {
	if c.RegisteredClaims.ExpiresAt == nil {
		return time.Time{}
	}
	return c.RegisteredClaims.ExpiresAt.Time
}

// Expired reports whether the token is expired at now. Tokens without an
// expiry never expire.
func (c *Claims) Expired(now time.Time) bool {
	exp := c.Expiry()
	return !exp.IsZero() && !now.Before(exp)
}

// Session is the authenticated operator of one request.
type Session struct {
	ID           string
	AccessToken  string
	RefreshToken string
	Claims       *Claims
}

// UserID identifies the operator, falling back to the token subject.
func (s *Session) UserID() string {
	if s == nil || s.Claims == nil {
		return ""
	}
	if s.Claims.UserID != "" {
		return s.Claims.UserID
	}
	return s.Claims.Subject
}

// CacheScope keys the response cache entries of this operator.
func (s *Session) CacheScope() string {
	if id := s.UserID(); id != "" {
		return "user:" + id
	}
	sum := sha256.Sum256([]byte(s.AccessToken))
	return "token:" + hex.EncodeToString(sum[:8])
}

// DisplayName is the operator name shown in the header.
func (s *Session) DisplayName() string {
	if s == nil || s.Claims == nil {
		return ""
	}
	if s.Claims.FullName != "" {
		return s.Claims.FullName
	}
	return s.UserID()
}
