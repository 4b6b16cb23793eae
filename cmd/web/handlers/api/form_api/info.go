package form_api

import (
	"errors"
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/starfederation/datastar-go/datastar"
	"thirdcoast.systems/framefetch/cmd/web/handlers/common"
	"thirdcoast.systems/framefetch/cmd/web/templates/components"
	"thirdcoast.systems/framefetch/cmd/web/visitor"
	"thirdcoast.systems/framefetch/internal/downloader"
	"thirdcoast.systems/framefetch/internal/frameapi"
	"thirdcoast.systems/framefetch/internal/videolink"
	"thirdcoast.systems/framefetch/pkg/utils/format"
)

// HandleFetchInfo validates the URL, asks the backend for the video's
// metadata and patches the info card, quality options and error line.
// POST /api/form/info
func HandleFetchInfo(sm *visitor.SessionManager, store *downloader.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		signals := &formSignals{}
		if err := datastar.ReadSignals(c.Request(), signals); err != nil {
			slog.Warn("failed to read info signals", "error", err)
			return common.ErrBadRequest("invalid signals")
		}

		form, err := common.RequireForm(c, sm, store, signals.FormID)
		if err != nil {
			return err
		}
		signals.apply(form)

		sse := common.OpenSSE(c)

		info, err := form.FetchInfo(c.Request().Context())
		switch {
		case err == nil:
		case errors.Is(err, downloader.ErrStale):
			// The URL changed mid-flight; the url handler already reset the form.
			return nil
		case errors.Is(err, downloader.ErrBusy),
			errors.Is(err, videolink.ErrEmptyURL),
			errors.Is(err, videolink.ErrInvalidURL),
			errors.Is(err, videolink.ErrUnsupportedHost):
			toast(sse, components.ToastError, downloader.TranslateInfoError(err))
			return nil
		default:
			slog.Warn("video info failed", "url", signals.URL, "error", err)
			if patchErr := patchForm(sse, form.Snapshot()); patchErr != nil {
				return patchErr
			}
			msg := downloader.MsgInfoToastFailure
			if errors.Is(err, frameapi.ErrNotConfigured) {
				msg = downloader.MsgNotConfigured
			}
			toast(sse, components.ToastError, msg)
			return nil
		}

		slog.Info("video info loaded", "url", signals.URL, "title", format.Truncate(info.Title, 80), "formats", len(info.Formats))
		if err := patchForm(sse, form.Snapshot()); err != nil {
			slog.Error("failed to patch video info", "error", err)
			return err
		}
		toast(sse, components.ToastSuccess, downloader.MsgInfoLoaded)
		return nil
	}
}
