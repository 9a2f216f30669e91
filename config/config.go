package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the runtime configuration of the customizer
type Config struct {
	Env       string `validate:"omitempty,oneof=development production test"`
	Port      string `validate:"required,port"`
	BaseURL   string `validate:"omitempty,url"`
	LogLevel  string `validate:"oneof=debug info warn error"`
	HumanLogs bool

	AssetsDir  string `validate:"required"`
	CacheDir   string `validate:"required"`
	ExportDir  string
	ThemesFile string

	SessionTTL          time.Duration `validate:"gt=0"`
	NotificationTimeout time.Duration `validate:"gt=0"`
	NotificationExit    time.Duration `validate:"gte=0"`
	ImageLoadTimeout    time.Duration `validate:"gt=0"`

	DriveCredentials string
	DriveFolderID    string `validate:"required_with=DriveCredentials"`

	Themes Themes `validate:"-"`
}

// Default returns the configuration used when no environment is set
func Default() *Config {
	return &Config{
		Env:                 "development",
		Port:                "8080",
		LogLevel:            "info",
		HumanLogs:           true,
		AssetsDir:           "static/assets",
		CacheDir:            "cache/images",
		SessionTTL:          30 * time.Minute,
		NotificationTimeout: 5 * time.Second,
		NotificationExit:    300 * time.Millisecond,
		ImageLoadTimeout:    30 * time.Second,
		Themes:              DefaultThemes(),
	}
}

// LoadEnv loads .env outside production, overriding system variables
// A missing .env file is not an error
func LoadEnv(path string) (bool, error) {
	if os.Getenv("ENV") == "production" {
		return false, nil
	}
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		return false, nil
	}
	if err := godotenv.Overload(path); err != nil {
		return false, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return true, nil
}

// Load builds a Config from environment variables over the defaults
func Load() (*Config, error) {
	cfg := Default()

	if env := os.Getenv("ENV"); env != "" {
		cfg.Env = env
		cfg.HumanLogs = env != "production"
	}

	// PORT from Render doesn't include the leading colon, local setups sometimes do
	if port := strings.TrimPrefix(os.Getenv("PORT"), ":"); port != "" {
		cfg.Port = port
	}
	if v := os.Getenv("BASE_URL"); v != "" {
		cfg.BaseURL = strings.TrimSuffix(v, "/")
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := os.Getenv("ASSETS_DIR"); v != "" {
		cfg.AssetsDir = v
	}
	if v := os.Getenv("CACHE_DIR"); v != "" {
		cfg.CacheDir = v
	}
	cfg.ExportDir = os.Getenv("EXPORT_DIR")
	cfg.ThemesFile = os.Getenv("THEMES_FILE")
	cfg.DriveCredentials = os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
	cfg.DriveFolderID = os.Getenv("UMBRELLA_DRIVE_FOLDER_ID")

	var err error
	if cfg.SessionTTL, err = durationEnv("SESSION_TTL", cfg.SessionTTL); err != nil {
		return nil, err
	}
	if cfg.NotificationTimeout, err = durationEnv("NOTIFICATION_TIMEOUT", cfg.NotificationTimeout); err != nil {
		return nil, err
	}
	if cfg.NotificationExit, err = durationEnv("NOTIFICATION_EXIT", cfg.NotificationExit); err != nil {
		return nil, err
	}
	if cfg.ImageLoadTimeout, err = durationEnv("IMAGE_LOAD_TIMEOUT", cfg.ImageLoadTimeout); err != nil {
		return nil, err
	}
	if v := os.Getenv("HUMAN_LOGS"); v != "" {
		human, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid HUMAN_LOGS %q: %w", v, err)
		}
		cfg.HumanLogs = human
	}

	if cfg.Themes, err = LoadThemes(cfg.ThemesFile); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for missing or malformed values
func (c *Config) Validate() error {
	if err := validatorInstance().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Addr returns the listen address, bound to all interfaces for containers
func (c *Config) Addr() string {
	return "0.0.0.0:" + c.Port
}

// SiteURL returns the public base URL, defaulting to localhost on the configured port
func (c *Config) SiteURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return "http://localhost:" + c.Port
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}
