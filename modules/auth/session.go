package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/kmsblog/blogapi/pkg/cookie"
	"github.com/kmsblog/blogapi/pkg/jwt"
)

// SessionManager issues and verifies the bearer session cookie.
//
// The cookie is HttpOnly, restricted to secure transports, sent cross-site
// (the front end lives on a different origin) and scoped to the root path.
// The clear cookie mirrors exactly these attributes; clients may otherwise
// keep the stale cookie.
type SessionManager struct {
	cfg     Config
	tokens  *jwt.Service
	cookies *cookie.Manager
	now     func() time.Time
}

// SessionOption configures a SessionManager.
type SessionOption func(*SessionManager)

// WithSessionClock overrides the time source used for claim issuance.
func WithSessionClock(now func() time.Time) SessionOption {
	return func(m *SessionManager) {
		if now != nil {
			m.now = now
		}
	}
}

// NewSessionManager builds a session manager from the auth config.
func NewSessionManager(cfg Config, opts ...SessionOption) (*SessionManager, error) {
	m := &SessionManager{
		cfg: cfg,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}

	tokens, err := jwt.NewFromString(cfg.TokenSecret, jwt.WithClock(func() time.Time { return m.now() }))
	if err != nil {
		return nil, fmt.Errorf("session manager: %w", err)
	}
	m.tokens = tokens

	m.cookies = cookie.New(
		cookie.WithPath("/"),
		cookie.WithHTTPOnly(true),
		cookie.WithMaxAge(int(cfg.TokenTTL.Seconds())),
		cookie.WithSecure(cfg.CookieSecure),
		cookie.WithSameSite(http.SameSiteNoneMode),
	)
	return m, nil
}

// Issue signs session claims for the user and attaches the cookie.
func (m *SessionManager) Issue(w http.ResponseWriter, user *User) (Claims, error) {
	claims := NewClaims(user, m.now(), m.cfg.TokenTTL)

	token, err := m.tokens.Generate(claims)
	if err != nil {
		return Claims{}, fmt.Errorf("issue session token: %w", err)
	}

	m.cookies.Set(w, m.cfg.CookieName, token)
	return claims, nil
}

// Clear expires the session cookie with the same attributes used at set time.
func (m *SessionManager) Clear(w http.ResponseWriter) {
	m.cookies.Delete(w, m.cfg.CookieName)
}

// FromRequest extracts and verifies the session claims from the request
// cookie. A missing cookie maps to cookie.ErrCookieNotFound; verification
// failures surface the jwt sentinel errors.
func (m *SessionManager) FromRequest(r *http.Request) (Claims, error) {
	_, claims, err := m.fromRequest(r)
	return claims, err
}

// fromRequest returns the raw cookie token alongside the verified claims.
func (m *SessionManager) fromRequest(r *http.Request) (string, Claims, error) {
	token, err := m.cookies.Get(r, m.cfg.CookieName)
	if err != nil {
		return "", Claims{}, err
	}

	var claims Claims
	if err := m.tokens.Parse(token, &claims); err != nil {
		return "", Claims{}, err
	}
	return token, claims, nil
}

// IsMissingSession reports whether err means no session cookie was presented.
func IsMissingSession(err error) bool {
	return errors.Is(err, cookie.ErrCookieNotFound)
}
