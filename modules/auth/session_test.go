package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmsblog/blogapi/modules/auth"
	"github.com/kmsblog/blogapi/pkg/jwt"
)

func sessionConfig() auth.Config {
	return auth.Config{
		TokenSecret:  "test-secret-key-0123456789abcdef",
		TokenTTL:     time.Hour,
		CookieName:   "token",
		CookieSecure: true,
		BcryptCost:   4,
	}
}

func testUser() *auth.User {
	return &auth.User{
		ID:       "user-1",
		Email:    "kim@example.com",
		Nickname: "kim",
	}
}

func TestSessionManager_Issue(t *testing.T) {
	t.Parallel()

	mgr, err := auth.NewSessionManager(sessionConfig())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	claims, err := mgr.Issue(rec, testUser())
	require.NoError(t, err)

	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "kim@example.com", claims.Email)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, "token", c.Name)
	assert.NotEmpty(t, c.Value)
	assert.Equal(t, "/", c.Path)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteNoneMode, c.SameSite)
	assert.Equal(t, 3600, c.MaxAge)
}

func TestSessionManager_FromRequest(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()

		mgr, err := auth.NewSessionManager(sessionConfig())
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		_, err = mgr.Issue(rec, testUser())
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/profile", nil)
		for _, c := range rec.Result().Cookies() {
			req.AddCookie(c)
		}

		claims, err := mgr.FromRequest(req)
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.Subject)
		assert.Equal(t, "kim", claims.Nickname)
	})

	t.Run("missing cookie", func(t *testing.T) {
		t.Parallel()

		mgr, err := auth.NewSessionManager(sessionConfig())
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/profile", nil)
		_, err = mgr.FromRequest(req)
		require.Error(t, err)
		assert.True(t, auth.IsMissingSession(err))
	})

	t.Run("expired token", func(t *testing.T) {
		t.Parallel()

		now := time.Now()
		issuedAt := now.Add(-2 * time.Hour)

		issuer, err := auth.NewSessionManager(sessionConfig(),
			auth.WithSessionClock(func() time.Time { return issuedAt }))
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		_, err = issuer.Issue(rec, testUser())
		require.NoError(t, err)

		verifier, err := auth.NewSessionManager(sessionConfig(),
			auth.WithSessionClock(func() time.Time { return now }))
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/profile", nil)
		for _, c := range rec.Result().Cookies() {
			req.AddCookie(c)
		}

		_, err = verifier.FromRequest(req)
		require.ErrorIs(t, err, jwt.ErrExpiredToken)
		assert.False(t, auth.IsMissingSession(err))
	})

	t.Run("tampered token", func(t *testing.T) {
		t.Parallel()

		mgr, err := auth.NewSessionManager(sessionConfig())
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		_, err = mgr.Issue(rec, testUser())
		require.NoError(t, err)

		c := rec.Result().Cookies()[0]
		req := httptest.NewRequest(http.MethodGet, "/profile", nil)
		req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value + "x"})

		_, err = mgr.FromRequest(req)
		require.ErrorIs(t, err, jwt.ErrInvalidSignature)
	})
}

func TestSessionManager_Clear(t *testing.T) {
	t.Parallel()

	mgr, err := auth.NewSessionManager(sessionConfig())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	mgr.Clear(rec)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, "token", c.Name)
	assert.Empty(t, c.Value)
	assert.Equal(t, -1, c.MaxAge)
	// Clearing must carry the same scope attributes as setting, otherwise
	// browsers treat it as a different cookie.
	assert.Equal(t, "/", c.Path)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteNoneMode, c.SameSite)
}
