// Package fileserver hands spooled downloads to the browser.
package fileserver

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"thirdcoast.systems/framefetch/cmd/web/handlers/common"
	"thirdcoast.systems/framefetch/internal/spool"
)

// HandleSpooledDownload streams a staged download once as an attachment and
// then deletes it. A second request for the same ticket is a 404.
// GET /downloads/:ticket
func HandleSpooledDownload(sp *spool.Spool) echo.HandlerFunc {
	return func(c echo.Context) error {
		ticket := c.Param("ticket")
		if _, err := uuid.Parse(ticket); err != nil {
			return common.ErrNotFound("download not found")
		}

		entry, err := sp.Take(ticket)
		if err != nil {
			return common.ErrNotFound("download expired or already fetched")
		}
		defer sp.Release(entry)

		slog.Info("serving spooled download", "ticket", ticket, "filename", entry.Filename, "size", entry.Size)

		c.Response().Header().Set(echo.HeaderContentType, entry.ContentType)
		c.Response().Header().Set(echo.HeaderCacheControl, "private, no-store")
		return c.Attachment(entry.Path, entry.Filename)
	}
}
