// Package config manages taskcards configuration using Viper and XDG base directories.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata" // timezone lookups work without system zoneinfo

	"github.com/spf13/viper"
)

// Config holds the complete taskcards configuration.
type Config struct {
	Timezone string `mapstructure:"timezone"` // IANA name; "" or "Local" for host time
	DBPath   string `mapstructure:"db_path"`
	LogFile  string `mapstructure:"log_file"`
	LogLevel string `mapstructure:"log_level"`
}

// Load reads the configuration from the config file and environment variables.
// Environment variables take precedence over config file values.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(Dir())

	_ = v.BindEnv("timezone", "TASKCARDS_TIMEZONE")
	_ = v.BindEnv("db_path", "TASKCARDS_DB_PATH")
	_ = v.BindEnv("log_file", "TASKCARDS_LOG_FILE")
	_ = v.BindEnv("log_level", "TASKCARDS_LOG_LEVEL")

	v.SetDefault("timezone", "Local")
	v.SetDefault("log_level", "info")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.LogFile == "" {
		cfg.LogFile = filepath.Join(stateDir(), "taskcards.log")
	}

	return &cfg, nil
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	name := strings.TrimSpace(c.Timezone)
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", name, err)
	}
	return loc, nil
}

// Dir returns the XDG-compliant config directory for taskcards.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "taskcards")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "taskcards")
}

func stateDir() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "taskcards")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "taskcards")
}
