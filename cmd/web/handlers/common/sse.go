package common

import (
	"github.com/labstack/echo/v4"
	"github.com/starfederation/datastar-go/datastar"
)

// OpenSSE starts a Datastar event stream on the response. Signals must be
// read before calling it because the stream takes over the request.
func OpenSSE(c echo.Context) *datastar.ServerSentEventGenerator {
	// Keeps nginx from holding patches back until the stream ends.
	c.Response().Header().Set("X-Accel-Buffering", "no")
	return datastar.NewSSE(c.Response().Writer, c.Request())
}
