package form_api

import (
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/starfederation/datastar-go/datastar"
	"thirdcoast.systems/framefetch/cmd/web/handlers/common"
	"thirdcoast.systems/framefetch/cmd/web/templates/components"
	"thirdcoast.systems/framefetch/cmd/web/visitor"
	"thirdcoast.systems/framefetch/internal/downloader"
	"thirdcoast.systems/framefetch/internal/spool"
)

// DownloadPath is where spooled downloads are served from.
const DownloadPath = "/downloads/"

// HandleFetchBinary requests the download from the backend, stages it in the
// spool and tells the browser to save it under the derived filename.
// POST /api/form/download
func HandleFetchBinary(sm *visitor.SessionManager, store *downloader.Store, sp *spool.Spool) echo.HandlerFunc {
	return func(c echo.Context) error {
		signals := &formSignals{}
		if err := datastar.ReadSignals(c.Request(), signals); err != nil {
			slog.Warn("failed to read download signals", "error", err)
			return common.ErrBadRequest("invalid signals")
		}

		form, err := common.RequireForm(c, sm, store, signals.FormID)
		if err != nil {
			return err
		}
		signals.apply(form)

		sse := common.OpenSSE(c)

		dl, err := form.FetchBinary(c.Request().Context())
		if err != nil {
			slog.Warn("download request failed", "url", signals.URL, "quality", signals.Quality, "format_type", signals.FormatType, "error", err)
			toast(sse, components.ToastError, downloader.TranslateDownloadError(err))
			return nil
		}

		entry, err := sp.Put(dl.Payload.Body, dl.Filename, dl.Payload.ContentType)
		dl.Payload.Body.Close()
		if err != nil {
			slog.Error("failed to spool download", "url", dl.Request.URL, "error", err)
			msg := downloader.MsgDownloadFailed
			if errors.Is(err, spool.ErrTooLarge) {
				msg = downloader.MsgTooLarge
			}
			toast(sse, components.ToastError, msg)
			return nil
		}

		slog.Info("download ready", "ticket", entry.Ticket, "filename", entry.Filename, "size", entry.Size)
		if err := sse.ExecuteScript(saveScript(DownloadPath+entry.Ticket, entry.Filename)); err != nil {
			if e, takeErr := sp.Take(entry.Ticket); takeErr == nil {
				sp.Release(e)
			}
			return err
		}
		toast(sse, components.ToastSuccess, downloader.DownloadStarted(dl.Request))
		return nil
	}
}

// saveScript calls the helper in main.js that clicks a temporary
// <a download> link.
func saveScript(href, filename string) string {
	h, _ := json.Marshal(href)
	f, _ := json.Marshal(filename)
	return "window.framefetch.save(" + string(h) + ", " + string(f) + ");"
}
