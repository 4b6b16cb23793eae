package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"thirdcoast.systems/framefetch/cmd/web/internal/web"
	"thirdcoast.systems/framefetch/cmd/web/visitor"
	"thirdcoast.systems/framefetch/internal/config"
	"thirdcoast.systems/framefetch/internal/downloader"
	"thirdcoast.systems/framefetch/internal/frameapi"
	"thirdcoast.systems/framefetch/internal/spool"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("Starting web service")

	conf, err := config.LoadConfig(ctx)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	client := frameapi.NewClient(conf.APIBaseURL,
		frameapi.WithTimeout(conf.APITimeout),
		frameapi.WithMaxSize(conf.MaxDownloadBytes),
	)

	sp, err := spool.New(conf.SpoolDir, conf.SpoolTTL, conf.MaxDownloadBytes)
	if err != nil {
		slog.Error("failed to create download spool", "error", err)
		os.Exit(1)
	}
	go sp.Run(ctx)

	forms := downloader.NewStore(client, conf.FormTTL)
	go forms.Run(ctx, time.Minute)

	sessionMgr := visitor.NewSessionManager(conf.SessionSecret)

	e, err := web.NewWebserver(ctx, conf, client, forms, sp, sessionMgr)
	if err != nil {
		slog.Error("failed to create webserver", "error", err)
		os.Exit(1)
	}

	addr := ":" + strconv.Itoa(conf.WebServerPort)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = e.Shutdown(shutdownCtx)
	}()

	slog.Info("Listening", "addr", addr)
	if err := e.Start(addr); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		// Echo returns an error on Shutdown; treat it as normal if context is done.
		if ctx.Err() != nil {
			return
		}
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
