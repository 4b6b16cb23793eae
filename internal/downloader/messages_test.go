package downloader

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"thirdcoast.systems/framefetch/internal/frameapi"
	"thirdcoast.systems/framefetch/internal/videolink"
)

func TestTranslateDownloadError(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want string
	}{
		{"403 status", &frameapi.APIError{Status: http.StatusForbidden, Detail: "nope"}, MsgBlocked},
		{"403 in detail", &frameapi.APIError{Status: http.StatusBadRequest, Detail: "Download failed: HTTP Error 403: Forbidden"}, MsgBlocked},
		{"404 status", &frameapi.APIError{Status: http.StatusNotFound}, MsgNotFound},
		{"404 in detail", &frameapi.APIError{Status: http.StatusBadRequest, Detail: "HTTP Error 404"}, MsgNotFound},
		{"quality", &frameapi.APIError{Status: http.StatusBadRequest, Detail: "Requested Quality is not available"}, MsgQuality},
		{"detail passthrough", &frameapi.APIError{Status: http.StatusInternalServerError, Detail: "Downloaded file not found. Please try again."}, "Downloaded file not found. Please try again."},
		{"empty detail", &frameapi.APIError{Status: http.StatusInternalServerError}, MsgDownloadFailed},
		{"transport error", errors.New("dial tcp: connection refused"), MsgDownloadFailed},
		{"wrapped", fmt.Errorf("fetch: %w", &frameapi.APIError{Status: http.StatusForbidden}), MsgBlocked},
		{"not configured", frameapi.ErrNotConfigured, MsgNotConfigured},
		{"busy", ErrBusy, MsgBusy},
		{"no info", ErrNoInfo, MsgNoInfo},
		{"timeout", context.DeadlineExceeded, MsgTimeout},
		{"too large", frameapi.ErrTooLarge, MsgTooLarge},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, TranslateDownloadError(tc.err))
		})
	}
}

func TestTranslateInfoError(t *testing.T) {
	t.Parallel()

	require.Equal(t, MsgEmptyURL, TranslateInfoError(videolink.ErrEmptyURL))
	require.Equal(t, MsgInvalidURL, TranslateInfoError(videolink.ErrInvalidURL))
	require.Equal(t, MsgInvalidURL, TranslateInfoError(videolink.ErrUnsupportedHost))
	require.Equal(t, MsgBlocked, TranslateInfoError(&frameapi.APIError{Status: http.StatusForbidden}))
	require.Equal(t, MsgNotFound, TranslateInfoError(&frameapi.APIError{Status: http.StatusNotFound}))
	require.Equal(t, "Unsupported platform", TranslateInfoError(&frameapi.APIError{Status: 400, Detail: "Unsupported platform"}))
	require.Equal(t, MsgInfoFailed, TranslateInfoError(errors.New("eof")))
	// The quality rule only applies to downloads.
	require.Equal(t, "bad quality", TranslateInfoError(&frameapi.APIError{Status: 400, Detail: "bad quality"}))
}

func TestDownloadStarted(t *testing.T) {
	t.Parallel()

	require.Equal(t, "1080p download started successfully!", DownloadStarted(frameapi.DownloadRequest{Quality: "1080p", FormatType: "video"}))
	require.Equal(t, "Audio download started successfully!", DownloadStarted(frameapi.DownloadRequest{Quality: "1080p", FormatType: "audio"}))
}
