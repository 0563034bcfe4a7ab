package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Backend modes.
const (
	BackendLocal = "local"
	BackendHTTP  = "http"
)

// BackendConfig selects where data requests are served.
type BackendConfig struct {
	// Mode is "local" (embedded SQLite) or "http" (remote notifyd).
	Mode string `mapstructure:"mode" yaml:"mode"`

	// URL is the base URL of the remote data-access service.
	URL string `mapstructure:"url" yaml:"url"`

	// DBPath is the SQLite file used in local mode and by notifyd.
	DBPath string `mapstructure:"db_path" yaml:"db_path"`
}

// ServerConfig holds settings for the notifyd HTTP service.
type ServerConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
}

// LogConfig holds log file settings.
type LogConfig struct {
	File       string `mapstructure:"file" yaml:"file"`
	Level      string `mapstructure:"level" yaml:"level"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
}

// DisplayConfig holds UI preferences.
type DisplayConfig struct {
	// FlashSeconds is how long success and error indicators stay visible.
	FlashSeconds int `mapstructure:"flash_seconds" yaml:"flash_seconds"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Backend BackendConfig `mapstructure:"backend" yaml:"backend"`
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
}

// FlashDuration returns the flash timeout as a duration.
func (c *AppConfig) FlashDuration() time.Duration {
	return time.Duration(c.Display.FlashSeconds) * time.Second
}

// DefaultConfigDir returns ~/.config/admin-console, falling back to the
// working directory when the home directory is unknown.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "admin-console")
}

// DefaultConfigPath returns the default path for the configuration file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

func setDefaults(v *viper.Viper) {
	dir := DefaultConfigDir()
	v.SetDefault("backend.mode", BackendLocal)
	v.SetDefault("backend.url", "http://localhost:9191")
	v.SetDefault("backend.db_path", filepath.Join(dir, "notifications.db"))
	v.SetDefault("server.addr", ":9191")
	v.SetDefault("log.file", filepath.Join(dir, "logs", "admin-console.log"))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("display.flash_seconds", 3)
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// A missing file is not an error: defaults apply. Values can be overridden
// through ADMINCONSOLE_* environment variables, including ones declared in
// a .env file in the working directory.
func LoadConfig(path string) (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("ADMINCONSOLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		_, isPathErr := err.(*os.PathError)
		_, isNotFound := err.(viper.ConfigFileNotFoundError)
		if !isPathErr && !isNotFound {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *AppConfig) Validate() error {
	switch c.Backend.Mode {
	case BackendLocal:
		if c.Backend.DBPath == "" {
			return fmt.Errorf("backend.db_path is required in local mode")
		}
	case BackendHTTP:
		if c.Backend.URL == "" {
			return fmt.Errorf("backend.url is required in http mode")
		}
	default:
		return fmt.Errorf("unknown backend.mode %q", c.Backend.Mode)
	}
	if c.Display.FlashSeconds <= 0 {
		return fmt.Errorf("display.flash_seconds must be positive")
	}
	return nil
}
