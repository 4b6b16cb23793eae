package downloader

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"thirdcoast.systems/framefetch/internal/frameapi"
	"thirdcoast.systems/framefetch/internal/videolink"
)

// User-facing messages.
const (
	MsgEmptyURL         = "Please enter a video URL"
	MsgInvalidURL       = "Please enter a valid URL"
	MsgNotConfigured    = "Backend URL not configured. Please check API_BASE_URL environment variable."
	MsgBusy             = "A request is already in progress. Please wait."
	MsgNoInfo           = "Please get video info first"
	MsgBlocked          = "Video download blocked by platform. Try a different quality or video."
	MsgNotFound         = "Video not found. Please check the URL and try again."
	MsgQuality          = "Requested quality not available. Try a different quality."
	MsgTimeout          = "The server took too long to respond. Please try again."
	MsgTooLarge         = "This download is larger than the server allows."
	MsgInfoFailed       = "Failed to get video info"
	MsgDownloadFailed   = "Download failed. Please try again."
	MsgInfoLoaded       = "Video info loaded successfully!"
	MsgInfoToastFailure = "Failed to load video info"
)

// TranslateInfoError maps a FetchInfo failure to a message.
func TranslateInfoError(err error) string {
	if msg, ok := commonMessage(err); ok {
		return msg
	}
	return detailOr(err, MsgInfoFailed)
}

// TranslateDownloadError maps a FetchBinary failure to a message.
func TranslateDownloadError(err error) string {
	if msg, ok := commonMessage(err); ok {
		return msg
	}
	if strings.Contains(strings.ToLower(detail(err)), "quality") {
		return MsgQuality
	}
	return detailOr(err, MsgDownloadFailed)
}

// DownloadStarted is the success toast for a download.
func DownloadStarted(req frameapi.DownloadRequest) string {
	label := "Audio"
	if req.FormatType == frameapi.FormatVideo {
		label = req.Quality
	}
	return label + " download started successfully!"
}

func commonMessage(err error) (string, bool) {
	switch {
	case err == nil:
		return "", false
	case errors.Is(err, videolink.ErrEmptyURL):
		return MsgEmptyURL, true
	case errors.Is(err, videolink.ErrInvalidURL), errors.Is(err, videolink.ErrUnsupportedHost):
		return MsgInvalidURL, true
	case errors.Is(err, frameapi.ErrNotConfigured):
		return MsgNotConfigured, true
	case errors.Is(err, ErrBusy):
		return MsgBusy, true
	case errors.Is(err, ErrNoInfo):
		return MsgNoInfo, true
	case errors.Is(err, frameapi.ErrTooLarge):
		return MsgTooLarge, true
	case errors.Is(err, context.DeadlineExceeded):
		return MsgTimeout, true
	}

	var apiErr *frameapi.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Status == http.StatusForbidden || strings.Contains(apiErr.Detail, "403"):
			return MsgBlocked, true
		case apiErr.Status == http.StatusNotFound || strings.Contains(apiErr.Detail, "404"):
			return MsgNotFound, true
		}
	}
	return "", false
}

// detail is the backend-supplied message, if the error came from the backend.
func detail(err error) string {
	var apiErr *frameapi.APIError
	if errors.As(err, &apiErr) {
		return strings.TrimSpace(apiErr.Detail)
	}
	return ""
}

func detailOr(err error, fallback string) string {
	if d := detail(err); d != "" {
		return d
	}
	return fallback
}
