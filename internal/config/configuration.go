package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// DefaultDatastarScriptURL is the client bundle matching datastar-go v1.
const DefaultDatastarScriptURL = "https://cdn.jsdelivr.net/gh/starfederation/datastar@v1.0.0/bundles/datastar.js"

type Config struct {
	// WebServer Configuration
	WebServerPort int `mapstructure:"WEBSERVER_PORT" validate:"min=1,max=65535"`

	// Backend Configuration. An empty base URL is allowed at startup and
	// reported to the user on every fetch.
	APIBaseURL string        `mapstructure:"API_BASE_URL" validate:"omitempty,url"`
	APITimeout time.Duration `mapstructure:"API_TIMEOUT"`

	// Visitor sessions
	SessionSecret string        `mapstructure:"SESSION_SECRET"`
	FormTTL       time.Duration `mapstructure:"FORM_TTL"`

	// Download hand-off
	SpoolDir        string        `mapstructure:"SPOOL_DIR"`
	SpoolTTL        time.Duration `mapstructure:"SPOOL_TTL"`
	MaxDownloadSize string        `mapstructure:"MAX_DOWNLOAD_SIZE"`

	DatastarScriptURL string `mapstructure:"DATASTAR_SCRIPT_URL" validate:"required,url"`

	// MaxDownloadBytes is MaxDownloadSize parsed by LoadConfig.
	MaxDownloadBytes int64 `mapstructure:"-"`
}

// use reflect to bind environment variables based on mapstructure tags
func bindEnv(c Config) {
	val := reflect.ValueOf(c)
	typ := val.Type()

	for i := 0; i < val.NumField(); i++ {
		field := typ.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag != "" && tag != "-" {
			viper.BindEnv(tag)
		}
	}
	slog.Debug("Environment variables bound")
}

func LoadConfig(ctx context.Context) (*Config, error) {
	bindEnv(Config{})
	viper.AutomaticEnv()

	// Defaults
	viper.SetDefault("WEBSERVER_PORT", 3000)
	viper.SetDefault("API_TIMEOUT", 10*time.Minute)
	viper.SetDefault("FORM_TTL", 30*time.Minute)
	viper.SetDefault("SPOOL_DIR", filepath.Join(os.TempDir(), "framefetch"))
	viper.SetDefault("SPOOL_TTL", 60*time.Second)
	viper.SetDefault("MAX_DOWNLOAD_SIZE", "4G")
	viper.SetDefault("DATASTAR_SCRIPT_URL", DefaultDatastarScriptURL)

	cfg := Config{}
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	size, err := humanize.ParseBytes(cfg.MaxDownloadSize)
	if err != nil {
		return nil, fmt.Errorf("parse MAX_DOWNLOAD_SIZE %q: %w", cfg.MaxDownloadSize, err)
	}
	cfg.MaxDownloadBytes = int64(size)

	slog.Info("Loaded configuration",
		"port", cfg.WebServerPort,
		"api_base_url", cfg.APIBaseURL,
		"api_timeout", cfg.APITimeout,
		"spool_dir", cfg.SpoolDir,
		"spool_ttl", cfg.SpoolTTL,
		"form_ttl", cfg.FormTTL,
		"max_download", humanize.IBytes(size),
	)

	return &cfg, nil
}

// BackendConfigured reports whether a backend base URL was provided.
func (c *Config) BackendConfigured() bool {
	return c != nil && c.APIBaseURL != ""
}
