// Package config loads server settings from an optional file and BGTREE_
// environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable override.
const EnvPrefix = "BGTREE"

// Config holds the API server settings.
type Config struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	MaxBuilds    int           `mapstructure:"max_builds"`
	MaxBatches   int           `mapstructure:"max_batches"`
	QueueTimeout time.Duration `mapstructure:"queue_timeout"`
	CacheSize    int           `mapstructure:"cache_size"`
	Rules        string        `mapstructure:"rules"`
	LogLevel     string        `mapstructure:"log_level"`
	AllowOrigin  string        `mapstructure:"allow_origin"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("host", "localhost")
	v.SetDefault("port", 8080)
	v.SetDefault("read_timeout", 30*time.Second)
	v.SetDefault("write_timeout", 30*time.Second)
	v.SetDefault("idle_timeout", 60*time.Second)
	v.SetDefault("max_builds", 100)
	v.SetDefault("max_batches", 4)
	v.SetDefault("queue_timeout", 5*time.Second)
	v.SetDefault("cache_size", 4096)
	v.SetDefault("rules", "standard")
	v.SetDefault("log_level", "info")
	v.SetDefault("allow_origin", "*")
}

// Setup reads cfgPath, if not empty, over the defaults and applies
// environment overrides such as BGTREE_PORT.
func Setup(cfgPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", cfgPath, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks ranges that the server cannot recover from at runtime.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.MaxBuilds < 0 || c.MaxBatches < 0 || c.CacheSize < 0 {
		return fmt.Errorf("worker and cache limits must not be negative, got %d/%d/%d", c.MaxBuilds, c.MaxBatches, c.CacheSize)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

// Level returns the configured zerolog level.
func (c *Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}
