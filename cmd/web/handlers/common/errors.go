package common

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func ErrBadRequest(msg string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusBadRequest, msg)
}

func ErrNotFound(msg string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusNotFound, msg)
}

func ErrInternal(msg string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusInternalServerError, msg)
}

// ErrBadGateway is for a backend that answered badly or not at all.
func ErrBadGateway(msg string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusBadGateway, msg)
}

// ErrUnavailable is for features that need a backend when none is configured.
func ErrUnavailable(msg string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusServiceUnavailable, msg)
}
