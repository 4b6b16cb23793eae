package common

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"thirdcoast.systems/framefetch/cmd/web/visitor"
	"thirdcoast.systems/framefetch/internal/downloader"
)

// RequireForm returns the download form of the requesting visitor's tab,
// issuing a visitor cookie if needed. formID is the tab's ID as sent in the
// signals; anything that is not a UUID selects the visitor's shared form.
func RequireForm(c echo.Context, sm *visitor.SessionManager, store *downloader.Store, formID string) (*downloader.Form, error) {
	id, err := sm.Ensure(c.Response().Writer, c.Request())
	if err != nil {
		return nil, ErrInternal("failed to start visitor session")
	}
	if _, err := uuid.Parse(formID); err != nil {
		formID = ""
	}
	return store.GetTab(id, formID), nil
}
