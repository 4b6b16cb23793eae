// package backend_api exposes read-only backend information to the browser.
package backend_api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"thirdcoast.systems/framefetch/cmd/web/handlers/common"
	"thirdcoast.systems/framefetch/internal/frameapi"
	"thirdcoast.systems/framefetch/internal/videolink"
)

// PlatformLister is the part of the backend client used here.
type PlatformLister interface {
	Platforms(ctx context.Context) ([]string, error)
}

type platformsResponse struct {
	Platforms []string `json:"platforms"`
}

// HandlePlatforms proxies the backend's list of supported platforms,
// normalizing the display names.
// GET /api/platforms
func HandlePlatforms(backend PlatformLister) echo.HandlerFunc {
	return func(c echo.Context) error {
		names, err := backend.Platforms(c.Request().Context())
		if err != nil {
			if errors.Is(err, frameapi.ErrNotConfigured) {
				return common.ErrUnavailable("backend not configured")
			}
			slog.Warn("failed to list platforms", "error", err)
			return common.ErrBadGateway("failed to reach backend")
		}

		out := make([]string, 0, len(names))
		for _, n := range names {
			out = append(out, videolink.PlatformLabel(n))
		}
		return c.JSON(http.StatusOK, platformsResponse{Platforms: out})
	}
}

const healthTimeout = 3 * time.Second

// HealthChecker is the part of the backend client used by HandleHealth.
type HealthChecker interface {
	Configured() bool
	Health(ctx context.Context) error
}

// HandleHealth reports the web server as healthy and includes the backend
// state, which does not affect the status code.
// GET /healthz
func HandleHealth(backend HealthChecker) echo.HandlerFunc {
	return func(c echo.Context) error {
		status := "ok"
		switch {
		case !backend.Configured():
			status = "not_configured"
		default:
			ctx, cancel := context.WithTimeout(c.Request().Context(), healthTimeout)
			err := backend.Health(ctx)
			cancel()
			if err != nil {
				slog.Warn("backend health check failed", "error", err)
				status = "unreachable"
			}
		}
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"backend": status,
		})
	}
}
