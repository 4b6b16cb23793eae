package content

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"thirdcoast.systems/framefetch/cmd/web/handlers/common"
	"thirdcoast.systems/framefetch/cmd/web/templates"
	"thirdcoast.systems/framefetch/cmd/web/visitor"
	"thirdcoast.systems/framefetch/internal/downloader"
)

// HandleHomePage renders the shell with a fresh form for this tab. The form
// ID travels back in the signals so other tabs of the visitor keep their own
// URL and info.
func HandleHomePage(sm *visitor.SessionManager, store *downloader.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		form, err := common.RequireForm(c, sm, store, uuid.NewString())
		if err != nil {
			return err
		}

		st := form.Snapshot()
		page := templates.PageData{
			Form:      st,
			Qualities: downloader.QualityOptions(st.Info),
		}
		return templates.Index(page).Render(c.Request().Context(), c.Response())
	}
}
