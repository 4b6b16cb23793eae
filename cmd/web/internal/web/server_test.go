package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"thirdcoast.systems/framefetch/cmd/web/visitor"
	"thirdcoast.systems/framefetch/internal/config"
	"thirdcoast.systems/framefetch/internal/downloader"
	"thirdcoast.systems/framefetch/internal/frameapi"
	"thirdcoast.systems/framefetch/internal/spool"
)

func newTestServer(t *testing.T, baseURL string) *Webserver {
	t.Helper()

	conf := &config.Config{
		WebServerPort:     3000,
		APIBaseURL:        baseURL,
		DatastarScriptURL: config.DefaultDatastarScriptURL,
	}
	client := frameapi.NewClient(baseURL, frameapi.WithTimeout(5*time.Second))
	sp, err := spool.New(t.TempDir(), time.Minute, 0)
	require.NoError(t, err)

	s, err := NewWebserver(context.Background(), conf, client,
		downloader.NewStore(client, time.Minute), sp, visitor.NewSessionManager("test-secret"))
	require.NoError(t, err)
	return s
}

func serve(s *Webserver, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestWebserver_HomePageIssuesVisitorCookie(t *testing.T) {
	s := newTestServer(t, "")

	rec := serve(s, http.MethodGet, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "FrameFetch")
	require.Contains(t, rec.Body.String(), config.DefaultDatastarScriptURL)

	var found bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == visitor.SessionName {
			found = true
		}
	}
	require.True(t, found, "home page should issue a visitor cookie")
}

func TestWebserver_Healthz(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		s := newTestServer(t, "")
		rec := serve(s, http.MethodGet, "/healthz")
		require.Equal(t, http.StatusOK, rec.Code)
		require.JSONEq(t, `{"status":"ok","backend":"not_configured"}`, rec.Body.String())
	})

	t.Run("backend reachable", func(t *testing.T) {
		backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"status":"healthy"}`))
		}))
		t.Cleanup(backend.Close)

		s := newTestServer(t, backend.URL)
		rec := serve(s, http.MethodGet, "/healthz")
		require.Equal(t, http.StatusOK, rec.Code)
		require.JSONEq(t, `{"status":"ok","backend":"ok"}`, rec.Body.String())
	})
}

func TestWebserver_StaticAssets(t *testing.T) {
	s := newTestServer(t, "")

	rec := serve(s, http.MethodGet, "/static/dist/main.js")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "window.framefetch")
	require.NotEmpty(t, rec.Header().Get("ETag"))

	rec = serve(s, http.MethodGet, "/static/dist/missing.js")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWebserver_UnknownDownloadTicket(t *testing.T) {
	s := newTestServer(t, "")

	rec := serve(s, http.MethodGet, "/downloads/"+uuid.NewString())
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWebserver_PlatformsWithoutBackend(t *testing.T) {
	s := newTestServer(t, "")

	rec := serve(s, http.MethodGet, "/api/platforms")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
