// Package cmd implements the framefetch terminal client. It runs the same
// download form workflow as the web front end against the media backend.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"thirdcoast.systems/framefetch/internal/frameapi"
)

const (
	keyAPIBaseURL = "API_BASE_URL"
	keyAPITimeout = "API_TIMEOUT"
	keyLogLevel   = "LOG_LEVEL"
)

// app carries what the subcommands share once flags and environment are read.
type app struct {
	v      *viper.Viper
	client *frameapi.Client
}

// NewRootCmd builds the command tree. Each call gets its own viper instance
// so tests can run commands side by side.
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "framefetch",
		Short: "Fetch video info and downloads from a FrameFetch backend",
		Long: `framefetch talks to the same media backend as the FrameFetch web front end.
Use "info" to inspect a video and "download" to save it locally.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.load,
	}

	flags := root.PersistentFlags()
	flags.String("api-base-url", "", "Backend base URL (env API_BASE_URL)")
	flags.Duration("api-timeout", 10*time.Minute, "Timeout for backend requests (env API_TIMEOUT)")
	flags.String("log-level", "warn", "Logging level (debug, info, warn, error)")

	_ = a.v.BindPFlag(keyAPIBaseURL, flags.Lookup("api-base-url"))
	_ = a.v.BindPFlag(keyAPITimeout, flags.Lookup("api-timeout"))
	_ = a.v.BindPFlag(keyLogLevel, flags.Lookup("log-level"))
	_ = a.v.BindEnv(keyAPIBaseURL)
	_ = a.v.BindEnv(keyAPITimeout)
	_ = a.v.BindEnv(keyLogLevel)

	root.AddCommand(newInfoCmd(a), newDownloadCmd(a))
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func (a *app) load(cmd *cobra.Command, _ []string) error {
	level, err := parseLevel(a.v.GetString(keyLogLevel))
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))

	a.client = frameapi.NewClient(a.v.GetString(keyAPIBaseURL),
		frameapi.WithTimeout(a.v.GetDuration(keyAPITimeout)),
	)
	slog.Debug("backend configured", "base_url", a.client.BaseURL())
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}
