package visitor

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func sessionCookie(t *testing.T, rr *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rr.Result().Cookies() {
		if c.Name == SessionName {
			return c
		}
	}
	return nil
}

func TestSessionManager_Ensure_IssuesAndReuses(t *testing.T) {
	sm := NewSessionManager("test-secret")

	req := httptest.NewRequest("GET", "http://example.com/", nil)
	rr := httptest.NewRecorder()

	id, err := sm.Ensure(rr, req)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	cookie := sessionCookie(t, rr)
	require.NotNil(t, cookie)
	require.True(t, cookie.HttpOnly)
	require.False(t, cookie.Secure)

	req2 := httptest.NewRequest("GET", "http://example.com/", nil)
	req2.AddCookie(cookie)
	rr2 := httptest.NewRecorder()

	id2, err := sm.Ensure(rr2, req2)
	require.NoError(t, err)
	require.Equal(t, id, id2)
	require.Nil(t, sessionCookie(t, rr2), "existing visitor should not get a new cookie")
}

func TestSessionManager_Ensure_SecureDetection(t *testing.T) {
	sm := NewSessionManager("test-secret")

	t.Run("tls implies secure", func(t *testing.T) {
		req := httptest.NewRequest("GET", "https://example.com/", nil)
		req.TLS = &tls.ConnectionState{}
		rr := httptest.NewRecorder()

		_, err := sm.Ensure(rr, req)
		require.NoError(t, err)
		c := sessionCookie(t, rr)
		require.NotNil(t, c)
		require.True(t, c.Secure)
	})

	t.Run("x-forwarded-proto implies secure", func(t *testing.T) {
		req := httptest.NewRequest("GET", "http://example.com/", nil)
		req.Header.Set("X-Forwarded-Proto", "https")
		rr := httptest.NewRecorder()

		_, err := sm.Ensure(rr, req)
		require.NoError(t, err)
		c := sessionCookie(t, rr)
		require.NotNil(t, c)
		require.True(t, c.Secure)
	})
}

func TestSessionManager_VisitorID_Missing(t *testing.T) {
	sm := NewSessionManager("test-secret")

	req := httptest.NewRequest("GET", "http://example.com/", nil)
	id, err := sm.VisitorID(req)
	require.ErrorIs(t, err, ErrNoVisitor)
	require.Empty(t, id)
}

func TestSessionManager_BadCookieGetsReplaced(t *testing.T) {
	sm := NewSessionManager("test-secret")

	req := httptest.NewRequest("GET", "http://example.com/", nil)
	req.AddCookie(&http.Cookie{Name: SessionName, Value: "this-is-not-a-valid-cookie"})

	_, err := sm.VisitorID(req)
	require.Error(t, err)

	rr := httptest.NewRecorder()
	id, err := sm.Ensure(rr, req)
	require.NoError(t, err)
	require.NotEmpty(t, id)
	require.NotNil(t, sessionCookie(t, rr))
}
