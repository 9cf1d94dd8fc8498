package cookie_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmsblog/blogapi/pkg/cookie"
)

func sessionManager() *cookie.Manager {
	return cookie.New(
		cookie.WithMaxAge(3600),
		cookie.WithSecure(true),
		cookie.WithSameSite(http.SameSiteNoneMode),
	)
}

func TestSet(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	sessionManager().Set(w, "token", "abc")

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)

	c := cookies[0]
	assert.Equal(t, "token", c.Name)
	assert.Equal(t, "abc", c.Value)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, 3600, c.MaxAge)
	assert.True(t, c.Secure)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteNoneMode, c.SameSite)
}

func TestGet(t *testing.T) {
	t.Parallel()

	m := sessionManager()

	t.Run("returns value", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: "token", Value: "abc"})

		value, err := m.Get(r, "token")
		require.NoError(t, err)
		assert.Equal(t, "abc", value)
	})

	t.Run("missing cookie", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		_, err := m.Get(r, "token")
		assert.ErrorIs(t, err, cookie.ErrCookieNotFound)
	})
}

// Clearing attributes must mirror the setting attributes or some clients
// keep the cookie alive.
func TestDeleteMirrorsSetAttributes(t *testing.T) {
	t.Parallel()

	m := sessionManager()

	setRec := httptest.NewRecorder()
	m.Set(setRec, "token", "abc")
	set := setRec.Result().Cookies()[0]

	delRec := httptest.NewRecorder()
	m.Delete(delRec, "token")
	cleared := delRec.Result().Cookies()[0]

	assert.Equal(t, set.Name, cleared.Name)
	assert.Equal(t, set.Path, cleared.Path)
	assert.Equal(t, set.Domain, cleared.Domain)
	assert.Equal(t, set.Secure, cleared.Secure)
	assert.Equal(t, set.HttpOnly, cleared.HttpOnly)
	assert.Equal(t, set.SameSite, cleared.SameSite)

	assert.Empty(t, cleared.Value)
	assert.Less(t, cleared.MaxAge, 0)
	assert.False(t, cleared.Expires.After(set.Expires))
}
