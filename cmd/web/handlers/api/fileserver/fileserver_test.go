package fileserver

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"thirdcoast.systems/framefetch/internal/spool"
)

func get(t *testing.T, h echo.HandlerFunc, ticket string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/downloads/"+ticket, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("ticket")
	c.SetParamValues(ticket)
	return rec, h(c)
}

func TestHandleSpooledDownload_ServesOnce(t *testing.T) {
	sp, err := spool.New(t.TempDir(), time.Minute, 0)
	require.NoError(t, err)
	entry, err := sp.Put(strings.NewReader("mp4-bytes"), "Cat-Video-2024_720p.mp4", "video/mp4")
	require.NoError(t, err)

	h := HandleSpooledDownload(sp)

	rec, err := get(t, h, entry.Ticket)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "mp4-bytes", rec.Body.String())
	require.Equal(t, "video/mp4", rec.Header().Get(echo.HeaderContentType))
	require.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "attachment")
	require.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "Cat-Video-2024_720p.mp4")

	_, err = get(t, h, entry.Ticket)
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	require.Equal(t, http.StatusNotFound, he.Code)
}

func TestHandleSpooledDownload_RejectsBadTicket(t *testing.T) {
	sp, err := spool.New(t.TempDir(), time.Minute, 0)
	require.NoError(t, err)

	_, err = get(t, HandleSpooledDownload(sp), "../../etc/passwd")
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	require.Equal(t, http.StatusNotFound, he.Code)
}
