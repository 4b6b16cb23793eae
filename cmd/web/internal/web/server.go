package web

import (
	"context"
	"log/slog"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"thirdcoast.systems/framefetch/cmd/web/ctxkeys"
	"thirdcoast.systems/framefetch/cmd/web/handlers/api/backend_api"
	"thirdcoast.systems/framefetch/cmd/web/handlers/api/fileserver"
	"thirdcoast.systems/framefetch/cmd/web/handlers/api/form_api"
	"thirdcoast.systems/framefetch/cmd/web/handlers/content"
	staticpkg "thirdcoast.systems/framefetch/cmd/web/internal/web/utils/static"
	"thirdcoast.systems/framefetch/cmd/web/visitor"
	"thirdcoast.systems/framefetch/internal/config"
	"thirdcoast.systems/framefetch/internal/downloader"
	"thirdcoast.systems/framefetch/internal/frameapi"
	"thirdcoast.systems/framefetch/internal/spool"
)

type Webserver struct {
	*echo.Echo
	conf           *config.Config
	sessionManager *visitor.SessionManager
	client         *frameapi.Client
	forms          *downloader.Store
	spool          *spool.Spool
	staticCache    *staticpkg.StaticCache
}

func NewWebserver(ctx context.Context, conf *config.Config, client *frameapi.Client, forms *downloader.Store, sp *spool.Spool, sessionManager *visitor.SessionManager) (*Webserver, error) {
	e := echo.New()

	// Initialize static cache
	staticCache, err := staticpkg.NewStaticCache()
	if err != nil {
		return nil, err
	}

	webserver := &Webserver{
		Echo:           e,
		conf:           conf,
		sessionManager: sessionManager,
		client:         client,
		forms:          forms,
		spool:          sp,
		staticCache:    staticCache,
	}

	if !client.Configured() {
		slog.Warn("API_BASE_URL not set; downloads are disabled until it is configured")
	}

	if err = webserver.registerRoutes(); err != nil {
		return nil, err
	}

	if err = webserver.setupMiddleware(); err != nil {
		return nil, err
	}

	return webserver, nil
}

func (s *Webserver) setupMiddleware() error {
	s.HideBanner = true
	s.HidePort = true
	s.Use(middleware.BodyLimit("2M"))
	s.Use(middleware.Recover())
	s.Use(middleware.RequestID())
	s.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
		Skipper: func(c echo.Context) bool {
			// Media is already compressed and must keep its Content-Length.
			return strings.HasPrefix(c.Request().URL.Path, form_api.DownloadPath)
		},
	}))
	s.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			switch c.Path() {
			case "/healthz", "/static/*":
				return true
			default:
				return false
			}
		},
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  false,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"remote_ip", v.RemoteIP,
				"request_id", v.RequestID,
			}
			if id, ok := c.Request().Context().Value(ctxkeys.VisitorID).(string); ok {
				fields = append(fields, "visitor_id", id)
			}
			if v.Error != nil {
				fields = append(fields, "error", v.Error)
			}
			slog.Info("request", fields...)
			return nil
		},
	}))

	// Values the templates read from the request context.
	s.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := context.WithValue(c.Request().Context(), ctxkeys.BackendConfigured, s.client.Configured())
			ctx = context.WithValue(ctx, ctxkeys.DatastarScriptURL, s.conf.DatastarScriptURL)
			if id, err := s.sessionManager.VisitorID(c.Request()); err == nil {
				ctx = context.WithValue(ctx, ctxkeys.VisitorID, id)
			}
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	})

	return nil
}

func (s *Webserver) registerRoutes() error {
	apiGroup := s.Group("/api")
	apiGroup.POST("/form/url", form_api.HandleURLChanged(s.sessionManager, s.forms))
	apiGroup.POST("/form/options", form_api.HandleOptions(s.sessionManager, s.forms))
	apiGroup.POST("/form/info", form_api.HandleFetchInfo(s.sessionManager, s.forms))
	apiGroup.POST("/form/download", form_api.HandleFetchBinary(s.sessionManager, s.forms, s.spool))
	apiGroup.GET("/platforms", backend_api.HandlePlatforms(s.client))

	s.GET(form_api.DownloadPath+":ticket", fileserver.HandleSpooledDownload(s.spool))

	// Health check
	s.GET("/healthz", backend_api.HandleHealth(s.client))

	// Static file serving
	s.GET("/static/*", s.staticCache.ServeStaticFile("/static/"))

	// Content routes
	s.GET("/", content.HandleHomePage(s.sessionManager, s.forms))

	return nil
}
