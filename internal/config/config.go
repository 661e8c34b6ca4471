// Package config loads runtime settings from the config file, LS_ORBITS_*
// environment variables and command-line flags via viper.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/litescript/ls-orbits/internal/astro"
	"github.com/litescript/ls-orbits/internal/rst"
	"github.com/litescript/ls-orbits/internal/sites"
)

// EnvPrefix is prepended to environment variable names.
const EnvPrefix = "LS_ORBITS"

// ErrInvalidConfig is returned by Load for out-of-range values.
var ErrInvalidConfig = errors.New("invalid configuration")

// ObserverConfig selects the observing location. A non-empty Site wins
// over Lat/Lon.
type ObserverConfig struct {
	Site string  `mapstructure:"site"`
	Lat  float64 `mapstructure:"lat"`
	Lon  float64 `mapstructure:"lon"`
}

// LogConfig controls the logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr      string  `mapstructure:"addr"`
	RateLimit float64 `mapstructure:"rate_limit"` // requests per second per client
	Burst     int     `mapstructure:"burst"`
}

// TUIConfig controls the terminal dashboard.
type TUIConfig struct {
	Refresh time.Duration `mapstructure:"refresh"`
}

// Config holds all runtime configuration.
type Config struct {
	Observer     ObserverConfig `mapstructure:"observer"`
	Horizon      float64        `mapstructure:"horizon"`   // degrees
	DayLimit     int            `mapstructure:"day_limit"` // next-event search depth
	Catalog      string         `mapstructure:"catalog"`   // empty uses the built-in catalog
	WatchCatalog bool           `mapstructure:"watch_catalog"`
	Log          LogConfig      `mapstructure:"log"`
	Server       ServerConfig   `mapstructure:"server"`
	TUI          TUIConfig      `mapstructure:"tui"`
}

// SetDefaults registers built-in defaults with viper.
func SetDefaults() {
	viper.SetDefault("observer.site", string(sites.Greenwich))
	viper.SetDefault("observer.lat", 0.0)
	viper.SetDefault("observer.lon", 0.0)
	viper.SetDefault("horizon", rst.HorizonStellar)
	viper.SetDefault("day_limit", rst.DefaultDayLimit)
	viper.SetDefault("catalog", "")
	viper.SetDefault("watch_catalog", false)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")
	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("server.rate_limit", 10.0)
	viper.SetDefault("server.burst", 20)
	viper.SetDefault("tui.refresh", 5*time.Second)
}

// BindEnv makes LS_ORBITS_SERVER_ADDR and friends override config keys.
func BindEnv() {
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	SetDefaults()
	BindEnv()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	switch {
	case c.Horizon < -90 || c.Horizon > 90:
		return fmt.Errorf("%w: horizon %v outside [-90, 90]", ErrInvalidConfig, c.Horizon)
	case c.DayLimit < 1 || c.DayLimit > rst.MaxDayLimit:
		return fmt.Errorf("%w: day_limit %d outside [1, %d]", ErrInvalidConfig, c.DayLimit, rst.MaxDayLimit)
	case c.Server.RateLimit <= 0:
		return fmt.Errorf("%w: server.rate_limit must be positive", ErrInvalidConfig)
	case c.Server.Burst < 1:
		return fmt.Errorf("%w: server.burst must be at least 1", ErrInvalidConfig)
	case c.TUI.Refresh <= 0:
		return fmt.Errorf("%w: tui.refresh must be positive", ErrInvalidConfig)
	}
	if _, err := c.ObserverLocation(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// ObserverLocation resolves the configured observer.
func (c Config) ObserverLocation() (astro.Observer, error) {
	return sites.Resolve(c.Observer.Site, c.Observer.Lat, c.Observer.Lon)
}
