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

// HandleOptions stores the quality and format type selection. Highlighting
// is done client-side from the same signals, so nothing is patched back.
// POST /api/form/options
func HandleOptions(sm *visitor.SessionManager, store *downloader.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		signals := &formSignals{}
		if err := datastar.ReadSignals(c.Request(), signals); err != nil {
			slog.Warn("failed to read option signals", "error", err)
			return common.ErrBadRequest("invalid signals")
		}

		form, err := common.RequireForm(c, sm, store, signals.FormID)
		if err != nil {
			return err
		}
		signals.apply(form)
		return c.NoContent(http.StatusNoContent)
	}
}
