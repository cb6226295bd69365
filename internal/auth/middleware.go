package auth

import (
	"context"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"kiosk-admin-console/internal/cache"
	"kiosk-admin-console/internal/upstream"
)

const sessionKey = "auth.session"

// Refresher exchanges a refresh token for a new token pair.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*upstream.Tokens, error)
}

// Manager reads and writes the console cookies.
type Manager struct {
	refresher Refresher
	key       []byte
	secure    bool
	now       func() time.Time
}

// NewManager creates a cookie manager that accepts access tokens signed
// with key.
func NewManager(r Refresher, key []byte, secure bool) *Manager {
	return &Manager{refresher: r, key: key, secure: secure, now: time.Now}
}

func (m *Manager) setCookie(c *gin.Context, name, value string, expires time.Time) {
	maxAge := 0
	if !expires.IsZero() {
		maxAge = int(expires.Sub(m.now()).Seconds())
		if maxAge <= 0 {
			maxAge = -1
		}
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", m.secure, true)
}

// EnsureSID returns the session id cookie, issuing one when missing.
func (m *Manager) EnsureSID(c *gin.Context) string {
	if sid, err := c.Cookie(SessionCookie); err == nil && sid != "" {
		return sid
	}
	sid := uuid.NewString()
	m.setCookie(c, SessionCookie, sid, time.Time{})
	// Make the new id visible to later reads within this request.
	c.Request.AddCookie(&http.Cookie{Name: SessionCookie, Value: sid})
	return sid
}

// SetTokens stores a token pair. Cookies expire with the access token,
// the refresh token living at least as long.
func (m *Manager) SetTokens(c *gin.Context, tokens *upstream.Tokens) (*Claims, error) {
	claims, err := ParseClaims(tokens.AccessToken, m.key)
	if err != nil {
		return nil, err
	}
	exp := claims.Expiry()
	m.setCookie(c, AccessCookie, tokens.AccessToken, exp)
	if tokens.RefreshToken != "" {
		m.setCookie(c, RefreshCookie, tokens.RefreshToken, peekExpiry(tokens.RefreshToken))
	}
	m.setCookie(c, UserCookie, claims.FullName, exp)
	return claims, nil
}

// Clear removes every console cookie.
func (m *Manager) Clear(c *gin.Context) {
	for _, name := range []string{AccessCookie, RefreshCookie, UserCookie, SessionCookie} {
		c.SetCookie(name, "", -1, "/", "", m.secure, true)
	}
}

// Load resolves the session of the request, refreshing an expired access
// token once when a refresh token is present.
func (m *Manager) Load(c *gin.Context) (*Session, error) {
	access, _ := c.Cookie(AccessCookie)
	refresh, _ := c.Cookie(RefreshCookie)

	claims, err := ParseClaims(access, m.key)
	if err == nil && !claims.Expired(m.now()) {
		return &Session{ID: m.EnsureSID(c), AccessToken: access, RefreshToken: refresh, Claims: claims}, nil
	}
	if refresh == "" {
		return nil, ErrNoToken
	}

	tokens, err := m.refresher.Refresh(c.Request.Context(), refresh)
	if err != nil {
		return nil, err
	}
	if tokens.RefreshToken == "" {
		tokens.RefreshToken = refresh
	}
	claims, err = m.SetTokens(c, tokens)
	if err != nil {
		return nil, err
	}
	return &Session{ID: m.EnsureSID(c), AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken, Claims: claims}, nil
}

// Middleware requires a session. HTML requests without one are redirected
// to the login page, API requests get 401.
func (m *Manager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := m.Load(c)
		if err != nil {
			if !errors.Is(err, ErrNoToken) {
				log.Printf("auth: session refresh failed: %v", err)
			}
			m.Reject(c)
			return
		}
		c.Set(sessionKey, s)
		ctx := upstream.WithToken(c.Request.Context(), s.AccessToken)
		c.Request = c.Request.WithContext(cache.WithScope(ctx, s.CacheScope()))
		c.Next()
	}
}

// Reject logs the operator out and aborts the request.
func (m *Manager) Reject(c *gin.Context) {
	m.Clear(c)
	if strings.HasPrefix(c.Request.URL.Path, "/api/") || c.IsWebsocket() {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Phiên đăng nhập đã hết hạn"})
		return
	}
	c.Redirect(http.StatusSeeOther, "/login?next="+url.QueryEscape(c.Request.URL.RequestURI()))
	c.Abort()
}

// FromContext returns the session stored by Middleware.
func FromContext(c *gin.Context) *Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	s, _ := v.(*Session)
	return s
}
