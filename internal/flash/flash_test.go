package flash

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roundTrip(t *testing.T, s *Store, message string) *http.Cookie {
	t.Helper()

	rec := httptest.NewRecorder()
	require.NoError(t, s.Set(rec, message))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	return cookies[0]
}

func TestStore_PopReturnsMessageOnce(t *testing.T) {
	s := NewStore("secret")
	c := roundTrip(t, s, "signed in elsewhere")

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.AddCookie(c)

	rec := httptest.NewRecorder()
	assert.Equal(t, "signed in elsewhere", s.Pop(rec, req))

	cleared := rec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, CookieName, cleared[0].Name)
	assert.Negative(t, cleared[0].MaxAge)

	// The browser drops the cookie, so the next request carries nothing.
	next := httptest.NewRequest(http.MethodGet, "/login", nil)
	assert.Empty(t, s.Pop(httptest.NewRecorder(), next))
}

func TestStore_PopRejectsForeignSignature(t *testing.T) {
	c := roundTrip(t, NewStore("other"), "forged")

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.AddCookie(c)

	assert.Empty(t, NewStore("secret").Pop(httptest.NewRecorder(), req))
}

func TestStore_PopIgnoresExpired(t *testing.T) {
	s := NewStore("secret")
	c := roundTrip(t, s, "late")

	s.now = func() time.Time { return time.Now().Add(time.Hour) }

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.AddCookie(c)

	assert.Empty(t, s.Pop(httptest.NewRecorder(), req))
}
