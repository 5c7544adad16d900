package cookie_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/pagekit/core/cookie"
)

const (
	secretA = "0123456789abcdef0123456789abcdef"
	secretB = "fedcba9876543210fedcba9876543210"
)

func roundTrip(t *testing.T, rec *httptest.ResponseRecorder) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("no secrets", func(t *testing.T) {
		t.Parallel()
		m, err := cookie.New(nil)
		require.NoError(t, err)
		assert.False(t, m.Signing())
	})

	t.Run("short secret", func(t *testing.T) {
		t.Parallel()
		_, err := cookie.New([]string{"short"})
		assert.ErrorIs(t, err, cookie.ErrSecretTooShort)
	})

	t.Run("empty secrets ignored", func(t *testing.T) {
		t.Parallel()
		m, err := cookie.New([]string{"", secretA})
		require.NoError(t, err)
		assert.True(t, m.Signing())
	})
}

func TestSetGet(t *testing.T) {
	t.Parallel()

	m, err := cookie.New(nil, cookie.WithMaxAge(3600))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	require.NoError(t, m.Set(rec, "session", "abc"))

	header := rec.Header().Get("Set-Cookie")
	assert.Contains(t, header, "session=abc")
	assert.Contains(t, header, "Path=/")
	assert.Contains(t, header, "Max-Age=3600")
	assert.Contains(t, header, "Expires=")
	assert.Contains(t, header, "HttpOnly")

	got, err := m.Get(roundTrip(t, rec), "session")
	require.NoError(t, err)
	assert.Equal(t, "abc", got)

	_, err = m.Get(httptest.NewRequest(http.MethodGet, "/", nil), "session")
	assert.ErrorIs(t, err, cookie.ErrCookieNotFound)
}

func TestSetTooLarge(t *testing.T) {
	t.Parallel()

	m, err := cookie.New(nil)
	require.NoError(t, err)

	err = m.Set(httptest.NewRecorder(), "big", strings.Repeat("x", cookie.MaxCookieSize))
	var tooLarge cookie.ErrCookieTooLarge
	require.ErrorAs(t, err, &tooLarge)
	assert.Equal(t, "big", tooLarge.Name)
}

func TestDelete(t *testing.T) {
	t.Parallel()

	m, err := cookie.New(nil)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	m.Delete(rec, "session")
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestSigned(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		m, err := cookie.New([]string{secretA})
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		require.NoError(t, m.Write(rec, "session", "key-1"))

		got, err := m.Read(roundTrip(t, rec), "session")
		require.NoError(t, err)
		assert.Equal(t, "key-1", got)
	})

	t.Run("tampered", func(t *testing.T) {
		t.Parallel()
		m, err := cookie.New([]string{secretA})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "session", Value: "a2V5|bad"})
		_, err = m.GetSigned(req, "session")
		assert.ErrorIs(t, err, cookie.ErrInvalidSignature)
	})

	t.Run("unsigned value", func(t *testing.T) {
		t.Parallel()
		m, err := cookie.New([]string{secretA})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "session", Value: "plain"})
		_, err = m.Read(req, "session")
		assert.ErrorIs(t, err, cookie.ErrInvalidFormat)
	})

	t.Run("rotated secret", func(t *testing.T) {
		t.Parallel()
		old, err := cookie.New([]string{secretA})
		require.NoError(t, err)
		rec := httptest.NewRecorder()
		require.NoError(t, old.SetSigned(rec, "session", "v"))

		rotated, err := cookie.New([]string{secretB, secretA})
		require.NoError(t, err)
		got, err := rotated.GetSigned(roundTrip(t, rec), "session")
		require.NoError(t, err)
		assert.Equal(t, "v", got)
	})

	t.Run("no secret", func(t *testing.T) {
		t.Parallel()
		m, err := cookie.New(nil)
		require.NoError(t, err)
		assert.ErrorIs(t, m.SetSigned(httptest.NewRecorder(), "s", "v"), cookie.ErrNoSecret)
	})
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	m, err := cookie.NewFromConfig(cookie.Config{
		Secrets:  " " + secretA + " ,," + secretB,
		Path:     "/app",
		MaxAge:   60,
		HttpOnly: true,
	})
	require.NoError(t, err)
	assert.True(t, m.Signing())

	rec := httptest.NewRecorder()
	require.NoError(t, m.Set(rec, "c", "v"))
	assert.Contains(t, rec.Header().Get("Set-Cookie"), "Path=/app")
}
