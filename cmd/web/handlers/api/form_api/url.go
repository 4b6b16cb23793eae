package form_api

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/starfederation/datastar-go/datastar"
	"thirdcoast.systems/framefetch/cmd/web/handlers/common"
	"thirdcoast.systems/framefetch/cmd/web/visitor"
	"thirdcoast.systems/framefetch/internal/downloader"
)

// HandleURLChanged clears the loaded info and error whenever the URL input
// changes.
// POST /api/form/url
func HandleURLChanged(sm *visitor.SessionManager, store *downloader.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		// IMPORTANT: ReadSignals MUST happen BEFORE OpenSSE.
		signals := &formSignals{}
		if err := datastar.ReadSignals(c.Request(), signals); err != nil {
			slog.Warn("failed to read url signals", "error", err)
			return common.ErrBadRequest("invalid signals")
		}

		form, err := common.RequireForm(c, sm, store, signals.FormID)
		if err != nil {
			return err
		}
		if signals.URL == form.Snapshot().URL {
			return c.NoContent(http.StatusNoContent)
		}
		signals.apply(form)

		sse := common.OpenSSE(c)
		if err := patchForm(sse, form.Snapshot()); err != nil {
			slog.Error("failed to patch form after url change", "error", err)
			return err
		}
		return nil
	}
}
